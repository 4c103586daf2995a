package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/tidyhouse/internal/model"
)

func dueAt(id string, nextDue time.Time, lastCompleted *time.Time) model.Task {
	return model.Task{
		ID:            id,
		Name:          id,
		Periodicity:   every(1, model.UnitWeeks),
		Created:       nextDue.AddDate(0, 0, -7),
		LastCompleted: lastCompleted,
		NextDue:       nextDue,
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestWeekBoundsMidweek(t *testing.T) {
	w := WeekBounds(at(2024, 1, 10, 15, 30)) // Wednesday

	assert.Equal(t, date(2024, 1, 8), w.Start)
	assert.Equal(t, time.Date(2024, 1, 14, 23, 59, 59, int(999*time.Millisecond), time.UTC), w.End)
}

func TestWeekBoundsSundayDoesNotRollForward(t *testing.T) {
	w := WeekBounds(at(2024, 1, 14, 20, 0)) // Sunday

	assert.Equal(t, date(2024, 1, 8), w.Start)
	assert.Equal(t, time.Monday, w.Start.Weekday())
	assert.Equal(t, time.Sunday, w.End.Weekday())
	assert.Equal(t, 14, w.End.Day())
}

func TestWeekBoundsMonday(t *testing.T) {
	w := WeekBounds(date(2024, 1, 8))
	assert.Equal(t, date(2024, 1, 8), w.Start)
}

func TestWeekBoundsProperty(t *testing.T) {
	start := at(2023, 12, 1, 6, 15)
	for i := 0; i < 400; i++ {
		now := start.AddDate(0, 0, i)
		w := WeekBounds(now)

		require.Equal(t, time.Monday, w.Start.Weekday(), "now %v", now)
		require.Equal(t, w.Start, StartOfDay(w.Start), "now %v", now)
		require.Equal(t, time.Sunday, w.End.Weekday(), "now %v", now)
		require.Equal(t, w.Start.AddDate(0, 0, 7).Add(-time.Millisecond), w.End, "now %v", now)
		require.True(t, w.Contains(now), "now %v outside %v", now, w)
	}
}

func TestNextWeekBounds(t *testing.T) {
	w := NextWeekBounds(at(2024, 1, 14, 23, 0))

	assert.Equal(t, date(2024, 1, 15), w.Start)
	assert.Equal(t, time.Date(2024, 1, 21, 23, 59, 59, int(999*time.Millisecond), time.UTC), w.End)
}

func TestWeekBoundsLocalTime(t *testing.T) {
	loc, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	// Monday 08:00 in Sydney is still Sunday in UTC.
	now := time.Date(2024, 1, 15, 8, 0, 0, 0, loc)
	w := WeekBounds(now)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, loc), w.Start)
}

func TestDueThisWeek(t *testing.T) {
	done := date(2024, 1, 2)
	now := at(2024, 1, 10, 12, 0) // week of Jan 8

	tasks := []model.Task{
		dueAt("midweek", date(2024, 1, 12), nil),
		dueAt("next-week", date(2024, 1, 20), nil),
		dueAt("old-never-done", date(2024, 1, 3), nil),
		dueAt("old-done-before", date(2024, 1, 3), &done),
		dueAt("sunday-night", at(2024, 1, 14, 23, 0), &done),
		dueAt("monday-start", date(2024, 1, 8), &done),
		dueAt("after-week-end", date(2024, 1, 15), nil),
	}

	got := DueThisWeek(tasks, now)
	assert.Equal(t, []string{"midweek", "old-never-done", "sunday-night", "monday-start"}, ids(got))
}

func TestDueThisWeekEmpty(t *testing.T) {
	assert.Empty(t, DueThisWeek(nil, date(2024, 1, 10)))
}

func TestDueNextWeek(t *testing.T) {
	now := date(2024, 1, 10)
	tasks := []model.Task{
		dueAt("sunday", at(2024, 1, 21, 12, 0), nil),
		dueAt("wed-a", date(2024, 1, 17), nil),
		dueAt("too-late", date(2024, 1, 22), nil),
		dueAt("monday", date(2024, 1, 15), nil),
		dueAt("this-week", date(2024, 1, 14), nil),
		dueAt("wed-b", date(2024, 1, 17), nil),
	}

	got := DueNextWeek(tasks, now)
	assert.Equal(t, []string{"monday", "wed-a", "wed-b", "sunday"}, ids(got))
	assert.Equal(t, "sunday", tasks[0].ID, "input must not be reordered")
}

func TestDueToday(t *testing.T) {
	now := at(2024, 1, 10, 15, 0)
	tasks := []model.Task{
		dueAt("midnight", date(2024, 1, 10), nil),
		dueAt("tomorrow", date(2024, 1, 11), nil),
		dueAt("late", at(2024, 1, 10, 23, 0), nil),
		dueAt("yesterday", date(2024, 1, 9), nil),
	}

	got := DueToday(tasks, now)
	assert.Equal(t, []string{"midnight", "late"}, ids(got))
}

func TestDueTodayUsesEvaluationLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	// Local midnight Jan 10 in LA is 08:00 UTC, stored as UTC.
	nextDue := time.Date(2024, 1, 10, 0, 0, 0, 0, loc).UTC()
	now := time.Date(2024, 1, 10, 19, 0, 0, 0, loc)

	got := DueToday([]model.Task{dueAt("t", nextDue, nil)}, now)
	assert.Len(t, got, 1)
}
