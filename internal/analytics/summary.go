package analytics

import (
	"github.com/shopspring/decimal"
	"quiz-analytics/internal/domain"
)

// Summarize computes the headline metrics. Accuracy is the percentage of
// correct responses in c; with no keyed responses it is 0 and labelled "n/a".
func Summarize(votes []domain.Vote, c Correctness) domain.Summary {
	voters := make(map[string]struct{})
	questions := make(map[string]struct{})
	for _, v := range votes {
		voters[v.VoterName] = struct{}{}
		questions[v.QuestionText] = struct{}{}
	}

	s := domain.Summary{
		TotalParticipants: len(voters),
		TotalVotes:        len(votes),
		TotalQuestions:    len(questions),
		AccuracyLabel:     "n/a",
	}
	if total := len(c.Responses); total > 0 {
		pct := decimal.NewFromInt(int64(c.CorrectCount())).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(total)))
		s.Accuracy = pct.InexactFloat64()
		s.AccuracyLabel = pct.StringFixedBank(1) + "%"
	}
	return s
}
