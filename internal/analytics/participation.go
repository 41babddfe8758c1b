package analytics

import (
	"cmp"

	"quiz-analytics/internal/domain"
)

// DifficultQuestions returns the n questions with the fewest distinct
// voters, ascending. Repeat votes by one voter count once.
func DifficultQuestions(votes []domain.Vote, n int) []domain.QuestionParticipation {
	g := newGrouped[string, map[string]struct{}]()
	for _, v := range votes {
		voters := g.at(v.QuestionText)
		if *voters == nil {
			*voters = make(map[string]struct{})
		}
		(*voters)[v.VoterName] = struct{}{}
	}
	rows := make([]domain.QuestionParticipation, 0, g.len())
	for i, q := range g.keys {
		rows = append(rows, domain.QuestionParticipation{QuestionText: q, Voters: len(g.vals[i])})
	}
	return topN(rows, n, func(a, b domain.QuestionParticipation) int {
		return cmp.Compare(a.Voters, b.Voters)
	})
}
