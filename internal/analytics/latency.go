package analytics

import (
	"cmp"
	"time"

	"quiz-analytics/internal/domain"
)

// Latencies holds the first-response latency of every question that has at
// least one vote. OrphanVotes counts votes dropped because their question
// is absent from the questions table.
type Latencies struct {
	Rows        []domain.QuestionLatency
	OrphanVotes int
}

// ResponseTimes measures, per question, the minutes between creation and the
// earliest vote. Duplicate question rows collapse to their earliest
// creation time. Negative latencies are kept and flagged Anomalous.
func ResponseTimes(votes []domain.Vote, questions []domain.Question) Latencies {
	created := make(map[string]time.Time, len(questions))
	for _, q := range questions {
		if cur, ok := created[q.Text]; !ok || q.CreatedAt.Before(cur) {
			created[q.Text] = q.CreatedAt
		}
	}

	var l Latencies
	firsts := newGrouped[string, time.Time]()
	for _, v := range votes {
		if _, ok := created[v.QuestionText]; !ok {
			l.OrphanVotes++
			continue
		}
		t := firsts.at(v.QuestionText)
		if t.IsZero() || v.VotingTime.Before(*t) {
			*t = v.VotingTime
		}
	}

	l.Rows = make([]domain.QuestionLatency, 0, firsts.len())
	for i, q := range firsts.keys {
		minutes := firsts.vals[i].Sub(created[q]).Minutes()
		l.Rows = append(l.Rows, domain.QuestionLatency{
			QuestionText:      q,
			CreatedAt:         created[q],
			FirstResponseTime: firsts.vals[i],
			LatencyMinutes:    minutes,
			Anomalous:         minutes < 0,
		})
	}
	return l
}

// Anomalies counts questions whose first vote predates their creation.
func (l Latencies) Anomalies() int {
	n := 0
	for _, r := range l.Rows {
		if r.Anomalous {
			n++
		}
	}
	return n
}

// WithoutAnomalies returns a copy of l without negative latencies.
func (l Latencies) WithoutAnomalies() Latencies {
	out := Latencies{OrphanVotes: l.OrphanVotes, Rows: make([]domain.QuestionLatency, 0, len(l.Rows))}
	for _, r := range l.Rows {
		if !r.Anomalous {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// FastResponded returns the n questions with the smallest latency.
func FastResponded(l Latencies, n int) []domain.QuestionLatency {
	return topN(l.Rows, n, func(a, b domain.QuestionLatency) int {
		return cmp.Compare(a.LatencyMinutes, b.LatencyMinutes)
	})
}

// SlowResponded returns the n questions with the largest latency.
func SlowResponded(l Latencies, n int) []domain.QuestionLatency {
	return topN(l.Rows, n, func(a, b domain.QuestionLatency) int {
		return cmp.Compare(b.LatencyMinutes, a.LatencyMinutes)
	})
}
