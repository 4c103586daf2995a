package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/tidyhouse/internal/auth"
	"github.com/dukerupert/tidyhouse/internal/schedule"
	"github.com/dukerupert/tidyhouse/internal/service"
)

type TaskHandler struct {
	tracker *service.Tracker
	logger  *slog.Logger
}

func NewTaskHandler(t *service.Tracker, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tracker: t, logger: logger}
}

// taskView is a task with the labels the task list shows next to it.
type taskView struct {
	schedule.Item
	Schedule   string `json:"schedule"`
	DueLabel   string `json:"due_label"`
	Completion string `json:"completion"`
}

// view labels it as of now, the instant it was classified at.
func view(it schedule.Item, now time.Time) taskView {
	return taskView{
		Item:       it,
		Schedule:   schedule.Describe(it.Task.Periodicity),
		DueLabel:   schedule.DueLabel(it.Classification),
		Completion: schedule.CompletionLabel(it.Task.LastCompleted, now),
	}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	now := h.tracker.Now()
	items, err := h.tracker.ListTasks(r.Context(), auth.OwnerID(r.Context()), now)
	if err != nil {
		writeError(w, r, h.logger, "list tasks", err)
		return
	}

	views := make([]taskView, len(items))
	for i, it := range items {
		views[i] = view(it, now)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.TaskInput
	if !decodeJSON(w, r, &in) {
		return
	}

	tasks, err := h.tracker.CreateTasks(r.Context(), auth.OwnerID(r.Context()), in)
	if err != nil {
		writeError(w, r, h.logger, "create tasks", err)
		return
	}
	writeJSON(w, http.StatusCreated, tasks)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch service.TaskPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	task, err := h.tracker.UpdateTask(r.Context(), auth.OwnerID(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, h.logger, "update task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	task, err := h.tracker.CompleteTask(r.Context(), auth.OwnerID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, "complete task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.DeleteTask(r.Context(), auth.OwnerID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, "delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
