package domain

import (
	"fmt"
	"time"
)

// DayKeyLayout is the canonical calendar-day bucket format.
const DayKeyLayout = "2006-01-02"

// Window size bounds for streak lookups. The cap keeps the task scan behind a
// single request bounded.
const (
	MinWindowDays = 1
	MaxWindowDays = 30
)

// DailyAggregate holds per-day task counts for one calendar day.
// Uncompleted never exceeds Total.
type DailyAggregate struct {
	DayKey      string `json:"dayKey"`
	Total       int    `json:"total"`
	Uncompleted int    `json:"uncompleted"`
}

// StreakRow is one leaderboard entry.
type StreakRow struct {
	UserID string  `json:"userId"`
	Name   string  `json:"name"`
	Email  *string `json:"email"`
	Streak int     `json:"streak"`
}

// DayKey maps a timestamp onto its calendar day in the reference zone.
// Two timestamps share a key iff they fall on the same wall-clock day there.
// The reference zone is a single configured zone, not each user's local zone;
// tasks created near midnight by users elsewhere can land on a neighboring day.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayKeyLayout)
}

// ValidateDayKey rejects keys that are not canonical calendar days.
func ValidateDayKey(key string) error {
	parsed, err := time.Parse(DayKeyLayout, key)
	if err != nil || parsed.Format(DayKeyLayout) != key {
		return NewError(ErrCodeInvalid, fmt.Sprintf("malformed day key %q", key))
	}
	return nil
}

// BuildDayWindow returns the trailing day keys ending at today, oldest first.
func BuildDayWindow(today time.Time, days int, loc *time.Location) ([]string, error) {
	if days < MinWindowDays || days > MaxWindowDays {
		return nil, NewError(ErrCodeInvalid, fmt.Sprintf("window must cover %d-%d days", MinWindowDays, MaxWindowDays))
	}
	if loc == nil {
		loc = time.Local
	}
	ref := today.In(loc)
	keys := make([]string, 0, days)
	for i := days - 1; i >= 0; i-- {
		keys = append(keys, ref.AddDate(0, 0, -i).Format(DayKeyLayout))
	}
	return keys, nil
}

// WindowRange returns the closed timestamp interval covered by a day window:
// midnight at the start of the oldest day through the last instant of today.
func WindowRange(today time.Time, days int, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	ref := today.In(loc)
	startDay := ref.AddDate(0, 0, -(days - 1))
	start := time.Date(startDay.Year(), startDay.Month(), startDay.Day(), 0, 0, 0, 0, loc)
	end := time.Date(ref.Year(), ref.Month(), ref.Day(), 23, 59, 59, 999_000_000, loc)
	return start, end
}

// AggregateByDay buckets tasks by the calendar day they were created on and
// returns exactly one aggregate per window key, oldest first. Days with no
// tasks yield zero counts rather than being skipped.
func AggregateByDay(tasks []Task, window []string, loc *time.Location) ([]DailyAggregate, error) {
	if len(window) < MinWindowDays || len(window) > MaxWindowDays {
		return nil, NewError(ErrCodeInvalid, fmt.Sprintf("window must cover %d-%d days", MinWindowDays, MaxWindowDays))
	}
	for _, key := range window {
		if err := ValidateDayKey(key); err != nil {
			return nil, err
		}
	}

	type counts struct {
		total       int
		uncompleted int
	}
	byDay := make(map[string]counts, len(window))
	for _, t := range tasks {
		key := DayKey(t.CreatedAt, loc)
		c := byDay[key]
		c.total++
		if !t.Completed {
			c.uncompleted++
		}
		byDay[key] = c
	}

	aggs := make([]DailyAggregate, 0, len(window))
	for _, key := range window {
		c := byDay[key]
		aggs = append(aggs, DailyAggregate{DayKey: key, Total: c.total, Uncompleted: c.uncompleted})
	}
	return aggs, nil
}

// Streak counts consecutive success days ending at the most recent aggregate.
// A success day has at least one task and none left uncompleted; a day with no
// tasks breaks the streak just like a day with unfinished ones. The scan stops
// at the first non-success day, so an unfinished today means a zero streak.
func Streak(aggs []DailyAggregate) int {
	count := 0
	for i := len(aggs) - 1; i >= 0; i-- {
		success := aggs[i].Total > 0 && aggs[i].Uncompleted == 0
		if !success {
			break
		}
		count++
	}
	return count
}
