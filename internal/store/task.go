package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/tidyhouse/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTask(s scanner) (*model.Task, error) {
	var t model.Task
	var unit string
	var lastCompleted sql.NullTime

	err := s.Scan(
		&t.ID, &t.OwnerID, &t.RoomID, &t.Name,
		&t.Periodicity.Value, &unit,
		&t.Created, &lastCompleted, &t.NextDue,
	)
	if err != nil {
		return nil, err
	}

	t.Periodicity.Unit = model.Unit(unit)
	t.Created = t.Created.UTC()
	t.NextDue = t.NextDue.UTC()
	if lastCompleted.Valid {
		lc := lastCompleted.Time.UTC()
		t.LastCompleted = &lc
	}
	return &t, nil
}

const taskCols = `id, owner_id, room_id, name, period_value, period_unit, created_at, last_completed_at, next_due`

// ListTasks returns the owner's tasks in creation order.
func (s *TaskStore) ListTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskCols+` FROM tasks WHERE owner_id = ? ORDER BY created_at ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// GetTask returns nil, nil when the owner has no task with that id.
func (s *TaskStore) GetTask(ctx context.Context, ownerID, id string) (*model.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskCols+` FROM tasks WHERE owner_id = ? AND id = ?`,
		ownerID, id,
	)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertTask(ctx context.Context, db execer, ownerID string, task model.Task) error {
	var lastCompleted sql.NullTime
	if task.LastCompleted != nil {
		lastCompleted = sql.NullTime{Time: task.LastCompleted.UTC(), Valid: true}
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO tasks (id, owner_id, room_id, name, period_value, period_unit, created_at, last_completed_at, next_due, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			room_id = excluded.room_id,
			name = excluded.name,
			period_value = excluded.period_value,
			period_unit = excluded.period_unit,
			last_completed_at = excluded.last_completed_at,
			next_due = excluded.next_due,
			updated_at = excluded.updated_at
		 WHERE tasks.owner_id = excluded.owner_id`,
		task.ID, ownerID, task.RoomID, task.Name,
		task.Periodicity.Value, string(task.Periodicity.Unit),
		task.Created.UTC(), lastCompleted, task.NextDue.UTC(), time.Now().UTC(),
	)
	return err
}

// PersistTask upserts the task. The last write for a given id wins.
func (s *TaskStore) PersistTask(ctx context.Context, ownerID string, task model.Task) error {
	if err := upsertTask(ctx, s.db, ownerID, task); err != nil {
		return fmt.Errorf("persist task: %w", err)
	}
	return nil
}

// PersistTasks upserts all tasks in one transaction. Either every task is
// written or none is.
func (s *TaskStore) PersistTasks(ctx context.Context, ownerID string, tasks []model.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, task := range tasks {
		if err := upsertTask(ctx, tx, ownerID, task); err != nil {
			return fmt.Errorf("persist task %s: %w", task.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tasks: %w", err)
	}
	return nil
}

func (s *TaskStore) DeleteTask(ctx context.Context, ownerID, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *TaskStore) CountTasksInRoom(ctx context.Context, ownerID, roomID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE owner_id = ? AND room_id = ?`,
		ownerID, roomID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tasks in room: %w", err)
	}
	return n, nil
}

// ListOwners returns every owner id that has at least one room or task.
func (s *TaskStore) ListOwners(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT owner_id FROM tasks UNION SELECT owner_id FROM rooms ORDER BY owner_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, id)
	}
	return owners, rows.Err()
}
