package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/tidyhouse/internal/model"
	"github.com/dukerupert/tidyhouse/internal/websocket"
)

// memRepo is an in-memory TaskRepository and RoomRepository.
type memRepo struct {
	mu        sync.Mutex
	tasks     map[string]model.Task
	rooms     map[string]model.Room
	listCalls int
	failList  error
	// failBatchAt makes PersistTasks fail on the nth task (1-based) without
	// writing any of the batch.
	failBatchAt int
	// afterList runs once, after the next ListTasks has read its rows.
	afterList func()
}

func newMemRepo() *memRepo {
	return &memRepo{tasks: map[string]model.Task{}, rooms: map[string]model.Room{}}
}

func (m *memRepo) ListTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.listCalls++
	if m.failList != nil {
		m.mu.Unlock()
		return nil, m.failList
	}
	out := []model.Task{}
	for _, t := range m.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	hook := m.afterList
	m.afterList = nil
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.Before(out[j].Created)
		}
		return out[i].ID < out[j].ID
	})
	if hook != nil {
		hook()
	}
	return out, nil
}

func (m *memRepo) GetTask(_ context.Context, ownerID, id string) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, nil
	}
	return &t, nil
}

func (m *memRepo) PersistTask(_ context.Context, ownerID string, task model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task.OwnerID = ownerID
	m.tasks[task.ID] = task
	return nil
}

func (m *memRepo) PersistTasks(_ context.Context, ownerID string, tasks []model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range tasks {
		if m.failBatchAt == i+1 {
			return errDiskFull
		}
	}
	for _, task := range tasks {
		task.OwnerID = ownerID
		m.tasks[task.ID] = task
	}
	return nil
}

func (m *memRepo) DeleteTask(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok && t.OwnerID == ownerID {
		delete(m.tasks, id)
	}
	return nil
}

func (m *memRepo) CountTasksInRoom(_ context.Context, ownerID, roomID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if t.OwnerID == ownerID && t.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) ListOwners(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	for _, t := range m.tasks {
		seen[t.OwnerID] = true
	}
	for _, r := range m.rooms {
		seen[r.OwnerID] = true
	}
	var out []string
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memRepo) ListRooms(_ context.Context, ownerID string) ([]model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Room{}
	for _, r := range m.rooms {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) GetRoom(_ context.Context, ownerID, id string) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok || r.OwnerID != ownerID {
		return nil, nil
	}
	return &r, nil
}

func (m *memRepo) PersistRoom(_ context.Context, ownerID string, room model.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room.OwnerID = ownerID
	m.rooms[room.ID] = room
	return nil
}

func (m *memRepo) DeleteRoom(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[id]; ok && r.OwnerID == ownerID {
		delete(m.rooms, id)
	}
	return nil
}

// memCache is a Cache backed by maps. A non-nil broken makes every call fail.
type memCache struct {
	mu          sync.Mutex
	tasks       map[string][]model.Task
	rooms       map[string][]model.Room
	invalidated []string
	broken      error
}

func newMemCache() *memCache {
	return &memCache{tasks: map[string][]model.Task{}, rooms: map[string][]model.Room{}}
}

func (c *memCache) GetTasks(_ context.Context, ownerID string) ([]model.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken != nil {
		return nil, c.broken
	}
	return c.tasks[ownerID], nil
}

func (c *memCache) SetTasks(_ context.Context, ownerID string, tasks []model.Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken != nil {
		return c.broken
	}
	c.tasks[ownerID] = tasks
	return nil
}

func (c *memCache) GetRooms(_ context.Context, ownerID string) ([]model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken != nil {
		return nil, c.broken
	}
	return c.rooms[ownerID], nil
}

func (c *memCache) SetRooms(_ context.Context, ownerID string, rooms []model.Room) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken != nil {
		return c.broken
	}
	c.rooms[ownerID] = rooms
	return nil
}

func (c *memCache) Invalidate(_ context.Context, ownerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken != nil {
		return c.broken
	}
	delete(c.tasks, ownerID)
	delete(c.rooms, ownerID)
	c.invalidated = append(c.invalidated, ownerID)
	return nil
}

type recordingHub struct {
	mu   sync.Mutex
	msgs []websocket.Message
}

func (h *recordingHub) Broadcast(msg websocket.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, msg)
}

func (h *recordingHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.msgs))
	for i, m := range h.msgs {
		out[i] = m.Type
	}
	return out
}

var (
	errBoom     = errors.New("boom")
	errDiskFull = errors.New("disk full")
)

// newTestTracker returns a tracker pinned to now in UTC.
func newTestTracker(t *testing.T, now time.Time) (*Tracker, *memRepo, *recordingHub) {
	t.Helper()
	repo := newMemRepo()
	hub := &recordingHub{}
	tr := New(repo, repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	tr.SetBroadcaster(hub)
	tr.SetLocation(time.UTC)
	tr.SetClock(func() time.Time { return now })
	return tr, repo, hub
}
