package schedule

import (
	"fmt"
	"time"

	"github.com/dukerupert/tidyhouse/internal/model"
)

// Complete returns a copy of task marked as completed at now. LastCompleted
// keeps the full timestamp; NextDue is one periodicity step after now's day.
func Complete(task model.Task, now time.Time) (model.Task, error) {
	next, err := ComputeNextDue(now, task.Periodicity)
	if err != nil {
		return model.Task{}, fmt.Errorf("complete task %s: %w", task.ID, err)
	}

	completed := now
	task.LastCompleted = &completed
	task.NextDue = next
	return task, nil
}

// Reschedule returns a copy of task with NextDue recomputed from its
// baseline. Call it after editing Periodicity or LastCompleted.
func Reschedule(task model.Task) (model.Task, error) {
	next, err := ComputeNextDue(Baseline(task), task.Periodicity)
	if err != nil {
		return model.Task{}, fmt.Errorf("reschedule task %s: %w", task.ID, err)
	}
	task.NextDue = next
	return task, nil
}
