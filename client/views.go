package client

import (
	"sort"
	"time"

	"lovelog-backend/domain"
)

// Derived views are pure functions of the cache, recomputed on every call.
// There is no incremental diffing; collections are small.

// AnniversaryCountdown is an anniversary projected onto its next occurrence.
type AnniversaryCountdown struct {
	domain.Anniversary
	NextDate time.Time
	DaysLeft int
}

// UpcomingAnniversaries returns the next occurrences of all anniversaries,
// soonest first, at most limit entries. The anniversary date is rolled
// forward to this year, or next year if it already passed.
func (s *StateCache) UpcomingAnniversaries(now time.Time, limit int) []AnniversaryCountdown {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	upcoming := make([]AnniversaryCountdown, 0, len(s.Anniversaries))
	for _, a := range s.Anniversaries {
		date, err := time.Parse("2006-01-02", a.Date)
		if err != nil {
			continue
		}
		next := time.Date(today.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		if next.Before(today) {
			next = next.AddDate(1, 0, 0)
		}
		upcoming = append(upcoming, AnniversaryCountdown{
			Anniversary: a,
			NextDate:    next,
			DaysLeft:    int(next.Sub(today).Hours() / 24),
		})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DaysLeft < upcoming[j].DaysLeft
	})
	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// DaysTogether returns full days since the relationship start date, or -1
// when no start date is set.
func (s *StateCache) DaysTogether(now time.Time) int {
	if s.LoveStartDate == "" {
		return -1
	}
	start, err := time.Parse("2006-01-02", s.LoveStartDate)
	if err != nil {
		return -1
	}
	if now.Before(start) {
		return 0
	}
	return int(now.Sub(start).Hours() / 24)
}

// MoodCalendar maps day-of-month to the mood recorded on that day for the
// given month. When several entries share a date (possible via import or a
// second client), the first in listing order wins.
func (s *StateCache) MoodCalendar(year int, month time.Month) map[int]domain.Mood {
	calendar := make(map[int]domain.Mood)
	for _, m := range s.Moods {
		date, err := time.Parse("2006-01-02", m.Date)
		if err != nil {
			continue
		}
		if date.Year() != year || date.Month() != month {
			continue
		}
		if _, taken := calendar[date.Day()]; !taken {
			calendar[date.Day()] = m
		}
	}
	return calendar
}

// Stats summarizes the cached collections.
type Stats struct {
	Memories        int
	Anniversaries   int
	Messages        int
	Wishes          int
	CompletedWishes int
	Moods           int
	Photos          int
}

// Stats computes collection counts, including the photo-wall total across
// all memories.
func (s *StateCache) Stats() Stats {
	st := Stats{
		Memories:      len(s.Memories),
		Anniversaries: len(s.Anniversaries),
		Messages:      len(s.Messages),
		Wishes:        len(s.Wishes),
		Moods:         len(s.Moods),
	}
	for _, w := range s.Wishes {
		if w.Completed {
			st.CompletedWishes++
		}
	}
	for _, m := range s.Memories {
		st.Photos += len(m.Photos)
	}
	return st
}
