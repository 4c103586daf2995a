package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dukerupert/tidyhouse/internal/model"
	"github.com/dukerupert/tidyhouse/internal/schedule"
)

// Dashboard evaluates the owner's tasks at now. Tasks with unusable data are
// reported in the result's Problems and logged.
func (t *Tracker) Dashboard(ctx context.Context, ownerID string, now time.Time) (schedule.Dashboard, error) {
	tasks, err := t.loadTasks(ctx, ownerID)
	if err != nil {
		return schedule.Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}
	rooms, err := t.loadRooms(ctx, ownerID)
	if err != nil {
		return schedule.Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}

	local := make([]model.Task, len(tasks))
	for i, task := range tasks {
		local[i] = t.localize(task)
	}

	d := schedule.BuildDashboard(local, rooms, now.In(t.loc))
	for _, p := range d.Problems {
		t.logger.Warn("task skipped", "owner", ownerID, "task", p.TaskID, "error", p.Error)
	}
	return d, nil
}

// DashboardOn evaluates the dashboard at the start of the given calendar
// date in the tracker's location.
func (t *Tracker) DashboardOn(ctx context.Context, ownerID string, year int, month time.Month, day int) (schedule.Dashboard, error) {
	return t.Dashboard(ctx, ownerID, time.Date(year, month, day, 0, 0, 0, 0, t.loc))
}
