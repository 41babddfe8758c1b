package analytics_test

import (
	"testing"
	"time"

	"quiz-analytics/internal/analytics"
	"quiz-analytics/internal/domain"
)

func TestWeekdayActivityStartsMonday(t *testing.T) {
	day := 24 * time.Hour
	votes := []domain.Vote{
		vote("Q1", "A", "x", 6*day), // Sunday
		vote("Q1", "B", "x", 6*day),
		vote("Q1", "C", "x", 4*day), // Friday
		vote("Q1", "D", "x", 0),     // Monday
		vote("Q1", "E", "x", 2*day), // Wednesday
	}
	got := analytics.WeekdayActivity(votes)
	want := []domain.WeekdayCount{
		{Weekday: "Monday", Count: 1},
		{Weekday: "Wednesday", Count: 1},
		{Weekday: "Friday", Count: 1},
		{Weekday: "Sunday", Count: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestHourlyActivity(t *testing.T) {
	votes := []domain.Vote{
		vote("Q1", "A", "x", 0),              // 09:00
		vote("Q1", "B", "x", 30*time.Minute), // 09:30
		vote("Q1", "C", "x", 14*time.Hour),   // 23:00
		vote("Q1", "D", "x", 15*time.Hour),   // 00:00 next day
	}
	got := analytics.HourlyActivity(votes)
	want := []domain.HourCount{{Hour: 0, Count: 1}, {Hour: 9, Count: 2}, {Hour: 23, Count: 1}}
	if len(got) != len(want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestDailyActivity(t *testing.T) {
	votes := []domain.Vote{
		vote("Q1", "A", "x", 48*time.Hour),
		vote("Q1", "B", "x", 0),
		vote("Q1", "C", "x", time.Hour),
	}
	got := analytics.DailyActivity(votes)
	if len(got) != 2 {
		t.Fatalf("expected 2 dates, got %+v", got)
	}
	if got[0] != (domain.DateCount{Date: "2024-03-04", Count: 2}) || got[1] != (domain.DateCount{Date: "2024-03-06", Count: 1}) {
		t.Fatalf("unexpected daily activity %+v", got)
	}
}

func TestActivityOnEmptyInput(t *testing.T) {
	if got := analytics.HourlyActivity(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil hours, got %#v", got)
	}
	if got := analytics.WeekdayActivity(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil weekdays, got %#v", got)
	}
	if got := analytics.MostActive(nil, 5); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil ranking, got %#v", got)
	}
}
