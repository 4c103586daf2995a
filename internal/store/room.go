package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/tidyhouse/internal/model"
)

type RoomStore struct {
	db *sql.DB
}

func NewRoomStore(db *sql.DB) *RoomStore {
	return &RoomStore{db: db}
}

type scanner interface{ Scan(...any) error }

func scanRoom(s scanner) (*model.Room, error) {
	var r model.Room
	err := s.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Color, &r.SortOrder, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return &r, nil
}

const roomCols = `id, owner_id, name, color, sort_order, created_at, updated_at`

func (s *RoomStore) ListRooms(ctx context.Context, ownerID string) ([]model.Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+roomCols+` FROM rooms WHERE owner_id = ? ORDER BY sort_order ASC, name ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	rooms := []model.Room{}
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, *r)
	}
	return rooms, rows.Err()
}

// GetRoom returns nil, nil when the owner has no room with that id.
func (s *RoomStore) GetRoom(ctx context.Context, ownerID, id string) (*model.Room, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+roomCols+` FROM rooms WHERE owner_id = ? AND id = ?`,
		ownerID, id,
	)
	r, err := scanRoom(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	return r, nil
}

// PersistRoom inserts the room or overwrites the existing row with the same
// id. Rows belonging to another owner are left untouched.
func (s *RoomStore) PersistRoom(ctx context.Context, ownerID string, room model.Room) error {
	now := time.Now().UTC()
	created := room.CreatedAt
	if created.IsZero() {
		created = now
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rooms (id, owner_id, name, color, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			sort_order = excluded.sort_order,
			updated_at = excluded.updated_at
		 WHERE rooms.owner_id = excluded.owner_id`,
		room.ID, ownerID, room.Name, room.Color, room.SortOrder, created.UTC(), now,
	)
	if err != nil {
		return fmt.Errorf("persist room: %w", err)
	}
	return nil
}

func (s *RoomStore) DeleteRoom(ctx context.Context, ownerID, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}
