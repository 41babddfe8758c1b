package analytics

import (
	"cmp"
	"math"
	"time"

	"quiz-analytics/internal/domain"
)

// voteCounts groups votes by voter in first-seen order.
func voteCounts(votes []domain.Vote) []domain.VoterCount {
	g := newGrouped[string, int]()
	for _, v := range votes {
		*g.at(v.VoterName)++
	}
	rows := make([]domain.VoterCount, 0, g.len())
	for i, name := range g.keys {
		rows = append(rows, domain.VoterCount{VoterName: name, Count: g.vals[i]})
	}
	return rows
}

// MostActive returns the n voters with the most votes, descending.
func MostActive(votes []domain.Vote, n int) []domain.VoterCount {
	return topN(voteCounts(votes), n, func(a, b domain.VoterCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
}

// LeastActive returns the n voters with the fewest votes, ascending.
func LeastActive(votes []domain.Vote, n int) []domain.VoterCount {
	return topN(voteCounts(votes), n, func(a, b domain.VoterCount) int {
		return cmp.Compare(a.Count, b.Count)
	})
}

// InactiveSince returns the n voters whose last vote is furthest from now.
// Days are whole days rounded toward negative infinity, so a vote cast after
// now yields a negative count.
func InactiveSince(votes []domain.Vote, n int, now time.Time) []domain.VoterInactivity {
	g := newGrouped[string, time.Time]()
	for _, v := range votes {
		last := g.at(v.VoterName)
		if last.IsZero() || v.VotingTime.After(*last) {
			*last = v.VotingTime
		}
	}
	rows := make([]domain.VoterInactivity, 0, g.len())
	for i, name := range g.keys {
		rows = append(rows, domain.VoterInactivity{
			VoterName:         name,
			LastVotingTime:    g.vals[i],
			DaysSinceLastVote: floorDays(now.Sub(g.vals[i])),
		})
	}
	return topN(rows, n, func(a, b domain.VoterInactivity) int {
		return cmp.Compare(b.DaysSinceLastVote, a.DaysSinceLastVote)
	})
}

func floorDays(d time.Duration) int {
	return int(math.Floor(float64(d) / float64(24*time.Hour)))
}
