package schedule

import (
	"fmt"
	"time"
)

// DueLabel renders a classification as "Overdue by 3 days", "Due today" or
// "Due in 2 days".
func DueLabel(c Classification) string {
	switch {
	case c.DaysLeft < 0:
		return "Overdue by " + pluralDays(-c.DaysLeft)
	case c.DaysLeft == 0:
		return "Due today"
	default:
		return "Due in " + pluralDays(c.DaysLeft)
	}
}

// CompletionLabel describes when a task was last completed relative to now.
func CompletionLabel(lastCompleted *time.Time, now time.Time) string {
	if lastCompleted == nil {
		return "Never completed"
	}

	done := lastCompleted.In(now.Location())
	switch daysBetween(done, now) {
	case 0:
		return "Completed today"
	case 1:
		return "Completed yesterday"
	}
	return "Completed " + done.Format("January 2, 2006")
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
