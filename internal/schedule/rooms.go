package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/tidyhouse/internal/model"
)

// ErrUnknownRoom is returned when a task references a room that is not in
// the loaded room list. Rooms and tasks load independently, so this is
// expected to happen transiently.
var ErrUnknownRoom = errors.New("unknown room")

// UnknownRoomLabel is shown in place of a room name that cannot be resolved.
const UnknownRoomLabel = "Unknown Room"

// LookupRoom finds the room with the given id.
func LookupRoom(rooms []model.Room, roomID string) (model.Room, error) {
	for _, r := range rooms {
		if r.ID == roomID {
			return r, nil
		}
	}
	return model.Room{}, fmt.Errorf("%w: %q", ErrUnknownRoom, roomID)
}

// RoomName returns the name of the room with the given id, or
// UnknownRoomLabel if there is none.
func RoomName(rooms []model.Room, roomID string) string {
	r, err := LookupRoom(rooms, roomID)
	if err != nil {
		return UnknownRoomLabel
	}
	return r.Name
}

// RoomGroup is one room and its tasks in display order.
type RoomGroup struct {
	Room  model.Room `json:"room"`
	Items []Item     `json:"items"`
}

// GroupByRoom returns one group per room, in the order rooms are given, each
// holding that room's tasks sorted for display. Tasks whose room is missing
// are collected in a trailing group named UnknownRoomLabel.
func GroupByRoom(tasks []model.Task, rooms []model.Room, now time.Time) ([]RoomGroup, error) {
	items, err := classifyAll(tasks, now)
	if err != nil {
		return nil, err
	}
	sortItems(items)

	groups := make([]RoomGroup, len(rooms))
	index := make(map[string]int, len(rooms))
	for i, r := range rooms {
		groups[i] = RoomGroup{Room: r, Items: []Item{}}
		index[r.ID] = i
	}

	var orphans []Item
	for _, it := range items {
		i, ok := index[it.Task.RoomID]
		if !ok {
			it.RoomName = UnknownRoomLabel
			orphans = append(orphans, it)
			continue
		}
		it.RoomName = rooms[i].Name
		groups[i].Items = append(groups[i].Items, it)
	}

	if len(orphans) > 0 {
		groups = append(groups, RoomGroup{Room: model.Room{Name: UnknownRoomLabel}, Items: orphans})
	}
	return groups, nil
}
