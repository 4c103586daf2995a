package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/tidyhouse/internal/model"
)

type RoomInput struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	SortOrder int    `json:"sort_order"`
}

func (in *RoomInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Color = strings.TrimSpace(in.Color)
	if in.Name == "" {
		return invalid("name", "is required")
	}
	return nil
}

func (t *Tracker) ListRooms(ctx context.Context, ownerID string) ([]model.Room, error) {
	rooms, err := t.loadRooms(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (t *Tracker) CreateRoom(ctx context.Context, ownerID string, in RoomInput) (model.Room, error) {
	if err := in.normalize(); err != nil {
		return model.Room{}, err
	}

	now := t.Now()
	room := model.Room{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Color:     in.Color,
		OwnerID:   ownerID,
		SortOrder: in.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.rooms.PersistRoom(ctx, ownerID, room); err != nil {
		return model.Room{}, fmt.Errorf("create room: %w", err)
	}

	t.invalidate(ctx, ownerID)
	t.broadcast(ownerID, "room", "created", room.ID, nil)
	return room, nil
}

func (t *Tracker) UpdateRoom(ctx context.Context, ownerID, id string, in RoomInput) (model.Room, error) {
	if err := in.normalize(); err != nil {
		return model.Room{}, err
	}

	existing, err := t.rooms.GetRoom(ctx, ownerID, id)
	if err != nil {
		return model.Room{}, fmt.Errorf("update room: %w", err)
	}
	if existing == nil {
		return model.Room{}, ErrNotFound
	}

	room := *existing
	room.Name = in.Name
	room.Color = in.Color
	room.SortOrder = in.SortOrder
	room.UpdatedAt = t.Now()
	if err := t.rooms.PersistRoom(ctx, ownerID, room); err != nil {
		return model.Room{}, fmt.Errorf("update room: %w", err)
	}

	t.invalidate(ctx, ownerID)
	t.broadcast(ownerID, "room", "updated", room.ID, nil)
	return room, nil
}

// DeleteRoom removes an empty room. Rooms that still have tasks are refused
// with ErrRoomInUse.
func (t *Tracker) DeleteRoom(ctx context.Context, ownerID, id string) error {
	existing, err := t.rooms.GetRoom(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if existing == nil {
		return ErrNotFound
	}

	n, err := t.tasks.CountTasksInRoom(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %d task(s) in %q", ErrRoomInUse, n, existing.Name)
	}

	if err := t.rooms.DeleteRoom(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	t.invalidate(ctx, ownerID)
	t.broadcast(ownerID, "room", "deleted", id, nil)
	return nil
}
