package schedule

import (
	"time"

	"github.com/dukerupert/tidyhouse/internal/model"
)

// ComputeNextDue returns the due date one periodicity step after baseline.
// The baseline is first truncated to midnight in its own location, so the
// result is always a local midnight.
//
// Month steps keep the day of month when the target month is long enough and
// otherwise clamp to its last day: Jan 31 + 1 month is Feb 29 in a leap year
// and Feb 28 otherwise.
func ComputeNextDue(baseline time.Time, p model.Periodicity) (time.Time, error) {
	if err := Validate(p); err != nil {
		return time.Time{}, err
	}

	base := StartOfDay(baseline)
	switch p.Unit {
	case model.UnitDays:
		return base.AddDate(0, 0, p.Value), nil
	case model.UnitWeeks:
		return base.AddDate(0, 0, 7*p.Value), nil
	default:
		return addMonthsClamped(base, p.Value), nil
	}
}

// Baseline is the date the next due date is computed from: the last
// completion if there is one, otherwise the task's creation time.
func Baseline(task model.Task) time.Time {
	if task.LastCompleted != nil {
		return *task.LastCompleted
	}
	return task.Created
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b using their wall-clock dates,
// so days that are 23 or 25 hours long still count as one.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
