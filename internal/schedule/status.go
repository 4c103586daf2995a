package schedule

import (
	"fmt"
	"time"

	"github.com/dukerupert/tidyhouse/internal/model"
)

type Status string

const (
	StatusOverdue Status = "overdue"
	StatusDueSoon Status = "due-soon"
	StatusOK      Status = "ok"
)

// DueSoonDays is the largest DaysLeft still classified as due-soon.
const DueSoonDays = 2

// Classification is the urgency of a task on a given day.
type Classification struct {
	Status   Status    `json:"status"`
	DaysLeft int       `json:"days_left"`
	Due      time.Time `json:"due"`
}

// Classify derives a task's urgency relative to now. The due date is
// recomputed from the task's baseline in now's location; the stored NextDue
// is not consulted. DaysLeft is the signed number of calendar days until the
// due date, 0 meaning due today.
func Classify(task model.Task, now time.Time) (Classification, error) {
	due, err := ComputeNextDue(Baseline(task).In(now.Location()), task.Periodicity)
	if err != nil {
		return Classification{}, fmt.Errorf("classify task %s: %w", task.ID, err)
	}

	days := daysBetween(now, due)
	return Classification{
		Status:   statusFor(days),
		DaysLeft: days,
		Due:      due,
	}, nil
}

func statusFor(daysLeft int) Status {
	switch {
	case daysLeft < 0:
		return StatusOverdue
	case daysLeft <= DueSoonDays:
		return StatusDueSoon
	default:
		return StatusOK
	}
}

// rank orders statuses from most to least urgent.
func rank(s Status) int {
	switch s {
	case StatusOverdue:
		return 0
	case StatusDueSoon:
		return 1
	default:
		return 2
	}
}
