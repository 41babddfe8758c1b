package analytics_test

import (
	"time"

	"quiz-analytics/internal/domain"
)

// t0 is a Monday.
var t0 = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time {
	return t0.Add(d)
}

func vote(question, voter, choice string, offset time.Duration) domain.Vote {
	return domain.Vote{QuestionText: question, VoterName: voter, Choice: choice, VotingTime: at(offset)}
}

func names(rows []domain.VoterCount) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.VoterName)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// scenario is the two-voter, single-question dataset used across tests.
func scenario() domain.Dataset {
	return domain.Dataset{
		Questions: []domain.Question{{Text: "Q1", CreatedAt: t0}},
		Votes: []domain.Vote{
			vote("Q1", "Alice", "A", 5*time.Minute),
			vote("Q1", "Bob", "B", 10*time.Minute),
		},
		AnswerKey: []domain.CorrectAnswer{{QuestionText: "Q1", AnswerText: "A"}},
	}
}
