package analytics

import (
	"cmp"
	"slices"
	"time"

	"quiz-analytics/internal/domain"
)

var weekdayOrder = [...]time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// HourlyActivity counts votes per hour of day. Hours without votes are
// omitted; the rest are ascending.
func HourlyActivity(votes []domain.Vote) []domain.HourCount {
	var buckets [24]int
	for _, v := range votes {
		buckets[v.VotingTime.Hour()]++
	}
	rows := []domain.HourCount{}
	for h, n := range buckets {
		if n > 0 {
			rows = append(rows, domain.HourCount{Hour: h, Count: n})
		}
	}
	return rows
}

// WeekdayActivity counts votes per day of week, Monday first.
func WeekdayActivity(votes []domain.Vote) []domain.WeekdayCount {
	var buckets [7]int
	for _, v := range votes {
		buckets[v.VotingTime.Weekday()]++
	}
	rows := []domain.WeekdayCount{}
	for _, d := range weekdayOrder {
		if n := buckets[d]; n > 0 {
			rows = append(rows, domain.WeekdayCount{Weekday: d.String(), Count: n})
		}
	}
	return rows
}

// DailyActivity counts votes per calendar date, oldest first.
func DailyActivity(votes []domain.Vote) []domain.DateCount {
	counts := make(map[string]int)
	for _, v := range votes {
		counts[v.VotingTime.Format(time.DateOnly)]++
	}
	rows := make([]domain.DateCount, 0, len(counts))
	for d, n := range counts {
		rows = append(rows, domain.DateCount{Date: d, Count: n})
	}
	slices.SortFunc(rows, func(a, b domain.DateCount) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return rows
}
