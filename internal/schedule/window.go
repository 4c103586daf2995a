package schedule

import (
	"slices"
	"time"

	"github.com/dukerupert/tidyhouse/internal/model"
)

// Window is an inclusive time range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// WeekBounds returns Monday 00:00:00.000 through Sunday 23:59:59.999 of the
// week containing now. A Sunday belongs to the week that started six days
// earlier.
func WeekBounds(now time.Time) Window {
	today := StartOfDay(now)
	offset := int(today.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	start := today.AddDate(0, 0, -offset)
	return Window{Start: start, End: start.AddDate(0, 0, 7).Add(-time.Millisecond)}
}

// NextWeekBounds returns the week immediately after the one containing now.
func NextWeekBounds(now time.Time) Window {
	start := WeekBounds(now).Start.AddDate(0, 0, 7)
	return Window{Start: start, End: start.AddDate(0, 0, 7).Add(-time.Millisecond)}
}

// DueToday returns the tasks whose stored NextDue falls on now's calendar day.
func DueToday(tasks []model.Task, now time.Time) []model.Task {
	today := StartOfDay(now)
	var out []model.Task
	for _, t := range tasks {
		if StartOfDay(t.NextDue.In(now.Location())).Equal(today) {
			out = append(out, t)
		}
	}
	return out
}

// DueThisWeek returns the tasks whose stored NextDue is at or before the end
// of the current week. Tasks that fell due before the week started are only
// included while they have never been completed; once a task has a completion
// history its old overdue date no longer counts toward this week.
func DueThisWeek(tasks []model.Task, now time.Time) []model.Task {
	week := WeekBounds(now)
	var out []model.Task
	for _, t := range tasks {
		if t.NextDue.After(week.End) {
			continue
		}
		if t.NextDue.Before(week.Start) && t.LastCompleted != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

// DueNextWeek returns the tasks whose stored NextDue falls within next week,
// earliest first.
func DueNextWeek(tasks []model.Task, now time.Time) []model.Task {
	week := NextWeekBounds(now)
	var out []model.Task
	for _, t := range tasks {
		if week.Contains(t.NextDue) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Task) int {
		return a.NextDue.Compare(b.NextDue)
	})
	return out
}
