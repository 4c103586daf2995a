package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/tidyhouse/internal/auth"
	"github.com/dukerupert/tidyhouse/internal/service"
)

type RoomHandler struct {
	tracker *service.Tracker
	logger  *slog.Logger
}

func NewRoomHandler(t *service.Tracker, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{tracker: t, logger: logger}
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.tracker.ListRooms(r.Context(), auth.OwnerID(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, "list rooms", err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.RoomInput
	if !decodeJSON(w, r, &in) {
		return
	}

	room, err := h.tracker.CreateRoom(r.Context(), auth.OwnerID(r.Context()), in)
	if err != nil {
		writeError(w, r, h.logger, "create room", err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.RoomInput
	if !decodeJSON(w, r, &in) {
		return
	}

	room, err := h.tracker.UpdateRoom(r.Context(), auth.OwnerID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, h.logger, "update room", err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.DeleteRoom(r.Context(), auth.OwnerID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, "delete room", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
