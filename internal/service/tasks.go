package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/tidyhouse/internal/model"
	"github.com/dukerupert/tidyhouse/internal/schedule"
)

// TaskInput creates one task per room in RoomIDs.
type TaskInput struct {
	Name          string            `json:"name"`
	RoomIDs       []string          `json:"room_ids"`
	Periodicity   model.Periodicity `json:"periodicity"`
	LastCompleted *time.Time        `json:"last_completed"`
}

// TaskPatch edits an existing task. Nil fields are left unchanged.
type TaskPatch struct {
	Name          *string            `json:"name"`
	RoomID        *string            `json:"room_id"`
	Periodicity   *model.Periodicity `json:"periodicity"`
	LastCompleted *time.Time         `json:"last_completed"`
}

func validatePeriodicity(p model.Periodicity) error {
	if err := schedule.Validate(p); err != nil {
		return invalid("periodicity", err.Error())
	}
	if p.Value > schedule.MaxPeriodValue {
		return invalid("periodicity", fmt.Sprintf("value must be at most %d", schedule.MaxPeriodValue))
	}
	return nil
}

func (t *Tracker) validateLastCompleted(lc *time.Time) error {
	if lc != nil && lc.After(t.Now()) {
		return invalid("last_completed", "is in the future")
	}
	return nil
}

// localize moves the task's stored instants into the tracker's location so
// that midnight normalization uses local calendar days.
func (t *Tracker) localize(task model.Task) model.Task {
	task.Created = task.Created.In(t.loc)
	task.NextDue = task.NextDue.In(t.loc)
	if task.LastCompleted != nil {
		lc := task.LastCompleted.In(t.loc)
		task.LastCompleted = &lc
	}
	return task
}

func (t *Tracker) requireRoom(ctx context.Context, ownerID, roomID string) error {
	room, err := t.rooms.GetRoom(ctx, ownerID, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return invalid("room_id", fmt.Sprintf("%q does not exist", roomID))
	}
	return nil
}

// Tasks returns the owner's tasks as stored, in creation order.
func (t *Tracker) Tasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	tasks, err := t.loadTasks(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListTasks returns the owner's tasks classified at now and sorted for
// display.
func (t *Tracker) ListTasks(ctx context.Context, ownerID string, now time.Time) ([]schedule.Item, error) {
	d, err := t.Dashboard(ctx, ownerID, now)
	if err != nil {
		return nil, err
	}
	return d.All, nil
}

func (t *Tracker) GetTask(ctx context.Context, ownerID, id string) (model.Task, error) {
	task, err := t.tasks.GetTask(ctx, ownerID, id)
	if err != nil {
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return model.Task{}, ErrNotFound
	}
	return t.localize(*task), nil
}

// CreateTasks adds the same task to every listed room and returns the new
// tasks in room order.
func (t *Tracker) CreateTasks(ctx context.Context, ownerID string, in TaskInput) ([]model.Task, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if len(in.RoomIDs) == 0 {
		return nil, invalid("room_ids", "must name at least one room")
	}
	if err := validatePeriodicity(in.Periodicity); err != nil {
		return nil, err
	}
	if err := t.validateLastCompleted(in.LastCompleted); err != nil {
		return nil, err
	}
	for _, roomID := range in.RoomIDs {
		if err := t.requireRoom(ctx, ownerID, roomID); err != nil {
			return nil, fmt.Errorf("create tasks: %w", err)
		}
	}

	now := t.Now()
	created := make([]model.Task, 0, len(in.RoomIDs))
	for _, roomID := range in.RoomIDs {
		task := model.Task{
			ID:          uuid.NewString(),
			Name:        name,
			RoomID:      roomID,
			OwnerID:     ownerID,
			Periodicity: in.Periodicity,
			Created:     now,
		}
		if in.LastCompleted != nil {
			lc := in.LastCompleted.In(t.loc)
			task.LastCompleted = &lc
		}

		task, err := schedule.Reschedule(task)
		if err != nil {
			return nil, fmt.Errorf("create tasks: %w", err)
		}
		created = append(created, task)
	}
	if err := t.tasks.PersistTasks(ctx, ownerID, created); err != nil {
		return nil, fmt.Errorf("create tasks: %w", err)
	}

	t.invalidate(ctx, ownerID)
	for _, task := range created {
		t.broadcast(ownerID, "task", "created", task.ID, nil)
	}
	return created, nil
}

// UpdateTask applies patch and recomputes the stored due date.
func (t *Tracker) UpdateTask(ctx context.Context, ownerID, id string, patch TaskPatch) (model.Task, error) {
	task, err := t.GetTask(ctx, ownerID, id)
	if err != nil {
		return model.Task{}, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return model.Task{}, invalid("name", "is required")
		}
		task.Name = name
	}
	if patch.RoomID != nil {
		if err := t.requireRoom(ctx, ownerID, *patch.RoomID); err != nil {
			return model.Task{}, fmt.Errorf("update task: %w", err)
		}
		task.RoomID = *patch.RoomID
	}
	if patch.Periodicity != nil {
		if err := validatePeriodicity(*patch.Periodicity); err != nil {
			return model.Task{}, err
		}
		task.Periodicity = *patch.Periodicity
	}
	if patch.LastCompleted != nil {
		if err := t.validateLastCompleted(patch.LastCompleted); err != nil {
			return model.Task{}, err
		}
		lc := patch.LastCompleted.In(t.loc)
		task.LastCompleted = &lc
	}

	task, err = schedule.Reschedule(task)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	if err := t.tasks.PersistTask(ctx, ownerID, task); err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}

	t.invalidate(ctx, ownerID)
	t.broadcast(ownerID, "task", "updated", task.ID, nil)
	return task, nil
}

// CompleteTask marks the task done now and rolls its due date forward.
func (t *Tracker) CompleteTask(ctx context.Context, ownerID, id string) (model.Task, error) {
	task, err := t.GetTask(ctx, ownerID, id)
	if err != nil {
		return model.Task{}, err
	}

	done, err := schedule.Complete(task, t.Now())
	if err != nil {
		return model.Task{}, err
	}
	if err := t.tasks.PersistTask(ctx, ownerID, done); err != nil {
		return model.Task{}, fmt.Errorf("complete task: %w", err)
	}

	t.invalidate(ctx, ownerID)
	t.broadcast(ownerID, "task", "completed", done.ID, map[string]any{
		"next_due": done.NextDue.Format(time.DateOnly),
	})
	t.logger.Info("task completed", "owner", ownerID, "task", done.ID, "next_due", done.NextDue.Format(time.DateOnly))
	return done, nil
}

func (t *Tracker) DeleteTask(ctx context.Context, ownerID, id string) error {
	if _, err := t.GetTask(ctx, ownerID, id); err != nil {
		return err
	}
	if err := t.tasks.DeleteTask(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	t.invalidate(ctx, ownerID)
	t.broadcast(ownerID, "task", "deleted", id, nil)
	return nil
}
