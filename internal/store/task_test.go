package store

import (
	"context"
	"testing"
	"time"

	"github.com/dukerupert/tidyhouse/internal/database"
	"github.com/dukerupert/tidyhouse/internal/model"
)

func setupTestDB(t *testing.T) (*TaskStore, *RoomStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTaskStore(db), NewRoomStore(db)
}

func testTask(id, roomID string) model.Task {
	created := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	return model.Task{
		ID:          id,
		Name:        "Vacuum",
		RoomID:      roomID,
		Periodicity: model.Periodicity{Value: 1, Unit: model.UnitWeeks},
		Created:     created,
		NextDue:     time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
	}
}

func TestTaskPersistAndGet(t *testing.T) {
	ts, _ := setupTestDB(t)
	ctx := context.Background()

	task := testTask("t1", "living")
	if err := ts.PersistTask(ctx, "alice", task); err != nil {
		t.Fatalf("persist task: %v", err)
	}

	got, err := ts.GetTask(ctx, "alice", "t1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got == nil {
		t.Fatal("expected task, got nil")
	}
	if got.OwnerID != "alice" {
		t.Errorf("owner = %q, want alice", got.OwnerID)
	}
	if got.Name != "Vacuum" || got.RoomID != "living" {
		t.Errorf("got %+v", got)
	}
	if got.Periodicity != task.Periodicity {
		t.Errorf("periodicity = %+v, want %+v", got.Periodicity, task.Periodicity)
	}
	if !got.Created.Equal(task.Created) {
		t.Errorf("created = %v, want %v", got.Created, task.Created)
	}
	if !got.NextDue.Equal(task.NextDue) {
		t.Errorf("next due = %v, want %v", got.NextDue, task.NextDue)
	}
	if got.LastCompleted != nil {
		t.Errorf("last completed = %v, want nil", got.LastCompleted)
	}
}

func TestTaskUpsert(t *testing.T) {
	ts, _ := setupTestDB(t)
	ctx := context.Background()

	task := testTask("t1", "living")
	if err := ts.PersistTask(ctx, "alice", task); err != nil {
		t.Fatalf("persist task: %v", err)
	}

	done := time.Date(2024, 1, 10, 18, 15, 0, 0, time.UTC)
	task.LastCompleted = &done
	task.NextDue = time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)
	task.Name = "Vacuum rug"
	if err := ts.PersistTask(ctx, "alice", task); err != nil {
		t.Fatalf("persist task again: %v", err)
	}

	tasks, err := ts.ListTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Name != "Vacuum rug" {
		t.Errorf("name = %q, want %q", got.Name, "Vacuum rug")
	}
	if got.LastCompleted == nil || !got.LastCompleted.Equal(done) {
		t.Errorf("last completed = %v, want %v", got.LastCompleted, done)
	}
	if !got.NextDue.Equal(task.NextDue) {
		t.Errorf("next due = %v, want %v", got.NextDue, task.NextDue)
	}
}

func TestTaskOwnerScoping(t *testing.T) {
	ts, _ := setupTestDB(t)
	ctx := context.Background()

	if err := ts.PersistTask(ctx, "alice", testTask("t1", "living")); err != nil {
		t.Fatalf("persist task: %v", err)
	}

	got, err := ts.GetTask(ctx, "bob", "t1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got != nil {
		t.Errorf("bob can see alice's task: %+v", got)
	}

	// Another owner cannot overwrite the row.
	hijack := testTask("t1", "garage")
	if err := ts.PersistTask(ctx, "bob", hijack); err != nil {
		t.Fatalf("persist task: %v", err)
	}
	got, err = ts.GetTask(ctx, "alice", "t1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.RoomID != "living" {
		t.Errorf("room = %q, want living", got.RoomID)
	}

	if err := ts.DeleteTask(ctx, "bob", "t1"); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	tasks, err := ts.ListTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("expected alice's task to survive, got %d tasks", len(tasks))
	}
}

func TestTaskDelete(t *testing.T) {
	ts, _ := setupTestDB(t)
	ctx := context.Background()

	if err := ts.PersistTask(ctx, "alice", testTask("t1", "living")); err != nil {
		t.Fatalf("persist task: %v", err)
	}
	if err := ts.DeleteTask(ctx, "alice", "t1"); err != nil {
		t.Fatalf("delete task: %v", err)
	}

	got, err := ts.GetTask(ctx, "alice", "t1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}

	// Deleting again is not an error.
	if err := ts.DeleteTask(ctx, "alice", "t1"); err != nil {
		t.Errorf("delete missing task: %v", err)
	}
}

func TestPersistTasks(t *testing.T) {
	ts, _ := setupTestDB(t)
	ctx := context.Background()

	batch := []model.Task{testTask("t1", "kitchen"), testTask("t2", "bath")}
	if err := ts.PersistTasks(ctx, "alice", batch); err != nil {
		t.Fatalf("persist tasks: %v", err)
	}

	tasks, err := ts.ListTasks(ctx, "alice")
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("expected 2 tasks, got %d", len(tasks))
	}
}

func TestPersistTasksRollsBack(t *testing.T) {
	ts, _ := setupTestDB(t)
	ctx := context.Background()

	bad := testTask("t2", "bath")
	bad.Periodicity.Unit = "fortnights"
	batch := []model.Task{testTask("t1", "kitchen"), bad}

	if err := ts.PersistTasks(ctx, "alice", batch); err == nil {
		t.Fatal("expected error for invalid unit")
	}

	got, err := ts.GetTask(ctx, "alice", "t1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got != nil {
		t.Error("first task was written despite the failed batch")
	}
}

func TestCountTasksInRoom(t *testing.T) {
	ts, _ := setupTestDB(t)
	ctx := context.Background()

	for _, task := range []model.Task{
		testTask("t1", "kitchen"),
		testTask("t2", "kitchen"),
		testTask("t3", "bath"),
	} {
		if err := ts.PersistTask(ctx, "alice", task); err != nil {
			t.Fatalf("persist task: %v", err)
		}
	}

	n, err := ts.CountTasksInRoom(ctx, "alice", "kitchen")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	n, err = ts.CountTasksInRoom(ctx, "bob", "kitchen")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("count for bob = %d, want 0", n)
	}
}

func TestListOwners(t *testing.T) {
	ts, rs := setupTestDB(t)
	ctx := context.Background()

	if err := ts.PersistTask(ctx, "carol", testTask("t1", "r1")); err != nil {
		t.Fatalf("persist task: %v", err)
	}
	if err := ts.PersistTask(ctx, "alice", testTask("t2", "r2")); err != nil {
		t.Fatalf("persist task: %v", err)
	}
	if err := rs.PersistRoom(ctx, "bob", model.Room{ID: "r3", Name: "Attic"}); err != nil {
		t.Fatalf("persist room: %v", err)
	}
	if err := rs.PersistRoom(ctx, "alice", model.Room{ID: "r2", Name: "Den"}); err != nil {
		t.Fatalf("persist room: %v", err)
	}

	owners, err := ts.ListOwners(ctx)
	if err != nil {
		t.Fatalf("list owners: %v", err)
	}
	want := []string{"alice", "bob", "carol"}
	if len(owners) != len(want) {
		t.Fatalf("owners = %v, want %v", owners, want)
	}
	for i := range want {
		if owners[i] != want[i] {
			t.Errorf("owners[%d] = %q, want %q", i, owners[i], want[i])
		}
	}
}
