package analytics_test

import (
	"testing"
	"time"

	"quiz-analytics/internal/analytics"
	"quiz-analytics/internal/domain"
)

func TestResponseTimesScenario(t *testing.T) {
	ds := scenario()
	got := analytics.FastResponded(analytics.ResponseTimes(ds.Votes, ds.Questions), 1)
	if len(got) != 1 || got[0].QuestionText != "Q1" || got[0].LatencyMinutes != 5.0 {
		t.Fatalf("expected Q1 at 5 minutes, got %+v", got)
	}
}

func TestResponseTimesZeroLatency(t *testing.T) {
	questions := []domain.Question{{Text: "Q1", CreatedAt: t0}}
	votes := []domain.Vote{vote("Q1", "Alice", "A", 0)}
	l := analytics.ResponseTimes(votes, questions)
	if len(l.Rows) != 1 || l.Rows[0].LatencyMinutes != 0 || l.Rows[0].Anomalous {
		t.Fatalf("expected zero latency, got %+v", l.Rows)
	}
}

func TestResponseTimesDropsOrphansAndFlagsAnomalies(t *testing.T) {
	questions := []domain.Question{
		{Text: "Q1", CreatedAt: at(time.Hour)},
		{Text: "Q2", CreatedAt: t0},
		{Text: "Q2", CreatedAt: at(-30 * time.Minute)},
		{Text: "Q3", CreatedAt: t0},
	}
	votes := []domain.Vote{
		vote("Q1", "Alice", "A", 50*time.Minute),
		vote("Q2", "Alice", "A", 90*time.Minute),
		vote("Q2", "Bob", "A", 30*time.Minute),
		vote("Q3", "Bob", "A", 2*time.Hour),
		vote("Q404", "Bob", "A", 0),
		vote("Q404", "Carol", "A", 0),
	}
	l := analytics.ResponseTimes(votes, questions)
	if l.OrphanVotes != 2 {
		t.Fatalf("expected 2 orphan votes, got %d", l.OrphanVotes)
	}
	if l.Anomalies() != 1 {
		t.Fatalf("expected 1 anomaly, got %d", l.Anomalies())
	}

	fast := analytics.FastResponded(l, 10)
	if fast[0].QuestionText != "Q1" || fast[0].LatencyMinutes != -10 || !fast[0].Anomalous {
		t.Fatalf("expected negative latency kept and flagged, got %+v", fast[0])
	}
	if fast[1].QuestionText != "Q2" || fast[1].LatencyMinutes != 60 {
		t.Fatalf("expected Q2 measured from earliest creation row, got %+v", fast[1])
	}

	slow := analytics.SlowResponded(l, 1)
	if len(slow) != 1 || slow[0].QuestionText != "Q3" || slow[0].LatencyMinutes != 120 {
		t.Fatalf("expected Q3 slowest at 120 minutes, got %+v", slow)
	}

	clean := l.WithoutAnomalies()
	if len(clean.Rows) != 2 || clean.OrphanVotes != 2 {
		t.Fatalf("expected anomalies removed, got %+v", clean)
	}
	if len(l.Rows) != 3 {
		t.Fatalf("WithoutAnomalies must not modify the receiver, got %d rows", len(l.Rows))
	}
}
