package analytics

import (
	"cmp"
	"time"

	"quiz-analytics/internal/domain"
)

type responseKey struct {
	question string
	voter    string
}

// EarlyBirds returns the n voters who were first to respond on the most
// questions. A voter's response time on a question is their earliest vote.
// Voters tied on the earliest time all share rank 1 and each get the
// question counted.
func EarlyBirds(votes []domain.Vote, n int) []domain.VoterCount {
	firsts := newGrouped[responseKey, time.Time]()
	for _, v := range votes {
		t := firsts.at(responseKey{question: v.QuestionText, voter: v.VoterName})
		if t.IsZero() || v.VotingTime.Before(*t) {
			*t = v.VotingTime
		}
	}

	leading := make(map[string]time.Time)
	for i, key := range firsts.keys {
		t := firsts.vals[i]
		if cur, ok := leading[key.question]; !ok || t.Before(cur) {
			leading[key.question] = t
		}
	}

	counts := newGrouped[string, int]()
	for i, key := range firsts.keys {
		if firsts.vals[i].Equal(leading[key.question]) {
			*counts.at(key.voter)++
		}
	}
	rows := make([]domain.VoterCount, 0, counts.len())
	for i, name := range counts.keys {
		rows = append(rows, domain.VoterCount{VoterName: name, Count: counts.vals[i]})
	}
	return topN(rows, n, func(a, b domain.VoterCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
}
