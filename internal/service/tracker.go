// Package service ties storage, caching and change notification to the
// scheduling rules in package schedule.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dukerupert/tidyhouse/internal/model"
	"github.com/dukerupert/tidyhouse/internal/websocket"
)

type TaskRepository interface {
	ListTasks(ctx context.Context, ownerID string) ([]model.Task, error)
	GetTask(ctx context.Context, ownerID, id string) (*model.Task, error)
	PersistTask(ctx context.Context, ownerID string, task model.Task) error
	// PersistTasks writes all tasks or none of them.
	PersistTasks(ctx context.Context, ownerID string, tasks []model.Task) error
	DeleteTask(ctx context.Context, ownerID, id string) error
	CountTasksInRoom(ctx context.Context, ownerID, roomID string) (int, error)
	ListOwners(ctx context.Context) ([]string, error)
}

type RoomRepository interface {
	ListRooms(ctx context.Context, ownerID string) ([]model.Room, error)
	GetRoom(ctx context.Context, ownerID, id string) (*model.Room, error)
	PersistRoom(ctx context.Context, ownerID string, room model.Room) error
	DeleteRoom(ctx context.Context, ownerID, id string) error
}

// Cache holds per-owner lists. Get methods return nil on a miss.
//
// Within one process a list loaded before an Invalidate is never written
// back. Writes made by other processes sharing the cache are only seen once
// the entry expires.
type Cache interface {
	GetTasks(ctx context.Context, ownerID string) ([]model.Task, error)
	SetTasks(ctx context.Context, ownerID string, tasks []model.Task) error
	GetRooms(ctx context.Context, ownerID string) ([]model.Room, error)
	SetRooms(ctx context.Context, ownerID string, rooms []model.Room) error
	Invalidate(ctx context.Context, ownerID string) error
}

type Broadcaster interface {
	Broadcast(msg websocket.Message)
}

// Tracker is the application service behind the HTTP API, the reminder job
// and the agenda command.
type Tracker struct {
	tasks  TaskRepository
	rooms  RoomRepository
	cache  Cache
	hub    Broadcaster
	sf     singleflight.Group
	genMu  sync.Mutex
	gen    map[string]uint64 // per-owner invalidation count
	clock  func() time.Time
	loc    *time.Location
	logger *slog.Logger
}

// New creates a Tracker with no cache, no broadcaster, the system clock and
// the local time zone.
func New(tasks TaskRepository, rooms RoomRepository, logger *slog.Logger) *Tracker {
	return &Tracker{
		tasks:  tasks,
		rooms:  rooms,
		gen:    map[string]uint64{},
		clock:  time.Now,
		loc:    time.Local,
		logger: logger.With("component", "service"),
	}
}

func (t *Tracker) SetCache(c Cache) { t.cache = c }

func (t *Tracker) SetBroadcaster(b Broadcaster) { t.hub = b }

func (t *Tracker) SetClock(clock func() time.Time) { t.clock = clock }

// SetLocation sets the zone whose midnights define calendar days.
func (t *Tracker) SetLocation(loc *time.Location) { t.loc = loc }

func (t *Tracker) Location() *time.Location { return t.loc }

// Now is the current time in the tracker's location.
func (t *Tracker) Now() time.Time {
	return t.clock().In(t.loc)
}

// Owners lists every owner with stored rooms or tasks.
func (t *Tracker) Owners(ctx context.Context) ([]string, error) {
	return t.tasks.ListOwners(ctx)
}

func (t *Tracker) broadcast(ownerID, entity, action, id string, extra map[string]any) {
	if t.hub != nil {
		t.hub.Broadcast(websocket.NewMessage(ownerID, entity, action, id, extra))
	}
}

func (t *Tracker) invalidate(ctx context.Context, ownerID string) {
	if t.cache == nil {
		return
	}
	t.genMu.Lock()
	t.gen[ownerID]++
	t.genMu.Unlock()

	if err := t.cache.Invalidate(ctx, ownerID); err != nil {
		t.logger.Warn("cache invalidate failed", "owner", ownerID, "error", err)
	}
}

func (t *Tracker) generation(ownerID string) uint64 {
	t.genMu.Lock()
	defer t.genMu.Unlock()
	return t.gen[ownerID]
}

// loadTimeout bounds a shared load, which does not stop when the caller
// that started it goes away.
const loadTimeout = 10 * time.Second

// cachedLoad reads one owner's list through the cache. Concurrent misses for
// the same key share one store query. A list is only written back if no
// invalidation happened for the owner while it was being loaded.
func cachedLoad[T any](
	ctx context.Context,
	t *Tracker,
	kind, ownerID string,
	get func(context.Context, string) ([]T, error),
	set func(context.Context, string, []T) error,
	list func(context.Context, string) ([]T, error),
) ([]T, error) {
	v, err, _ := t.sf.Do(kind+":"+ownerID, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		cached, err := get(ctx, ownerID)
		if err != nil {
			t.logger.Warn("cache read failed", "owner", ownerID, "kind", kind, "error", err)
		} else if cached != nil {
			return cached, nil
		}

		gen := t.generation(ownerID)
		items, err := list(ctx, ownerID)
		if err != nil {
			return nil, err
		}

		t.genMu.Lock()
		defer t.genMu.Unlock()
		if t.gen[ownerID] != gen {
			return items, nil
		}
		if err := set(ctx, ownerID, items); err != nil {
			t.logger.Warn("cache write failed", "owner", ownerID, "kind", kind, "error", err)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]T), nil
}

func (t *Tracker) loadTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	if t.cache == nil {
		return t.tasks.ListTasks(ctx, ownerID)
	}
	return cachedLoad(ctx, t, "tasks", ownerID, t.cache.GetTasks, t.cache.SetTasks, t.tasks.ListTasks)
}

func (t *Tracker) loadRooms(ctx context.Context, ownerID string) ([]model.Room, error) {
	if t.cache == nil {
		return t.rooms.ListRooms(ctx, ownerID)
	}
	return cachedLoad(ctx, t, "rooms", ownerID, t.cache.GetRooms, t.cache.SetRooms, t.rooms.ListRooms)
}
