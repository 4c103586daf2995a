package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/tidyhouse/internal/model"
)

var testRooms = []model.Room{
	{ID: "kitchen", Name: "Kitchen", Color: "#f97316"},
	{ID: "bath", Name: "Bathroom", Color: "#0ea5e9"},
}

func TestLookupRoom(t *testing.T) {
	r, err := LookupRoom(testRooms, "bath")
	require.NoError(t, err)
	assert.Equal(t, "Bathroom", r.Name)

	_, err = LookupRoom(testRooms, "garage")
	assert.ErrorIs(t, err, ErrUnknownRoom)
}

func TestRoomNameFallsBack(t *testing.T) {
	assert.Equal(t, "Kitchen", RoomName(testRooms, "kitchen"))
	assert.Equal(t, UnknownRoomLabel, RoomName(testRooms, "garage"))
	assert.Equal(t, UnknownRoomLabel, RoomName(nil, "kitchen"))
}

func TestGroupByRoom(t *testing.T) {
	now := date(2024, 1, 10)
	tasks := []model.Task{
		{ID: "wipe", RoomID: "kitchen", Periodicity: every(7, model.UnitDays), Created: date(2024, 1, 9)},
		{ID: "scrub", RoomID: "bath", Periodicity: every(1, model.UnitDays), Created: date(2024, 1, 9)},
		{ID: "mop", RoomID: "kitchen", Periodicity: every(1, model.UnitDays), Created: date(2024, 1, 1)},
		{ID: "rake", RoomID: "garden", Periodicity: every(1, model.UnitWeeks), Created: date(2024, 1, 1)},
	}

	groups, err := GroupByRoom(tasks, testRooms, now)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, "Kitchen", groups[0].Room.Name)
	require.Len(t, groups[0].Items, 2)
	assert.Equal(t, "mop", groups[0].Items[0].Task.ID)
	assert.Equal(t, "wipe", groups[0].Items[1].Task.ID)
	assert.Equal(t, "Kitchen", groups[0].Items[0].RoomName)

	assert.Equal(t, "Bathroom", groups[1].Room.Name)
	require.Len(t, groups[1].Items, 1)

	assert.Equal(t, UnknownRoomLabel, groups[2].Room.Name)
	require.Len(t, groups[2].Items, 1)
	assert.Equal(t, "rake", groups[2].Items[0].Task.ID)
}

func TestGroupByRoomEmptyRoomKeepsGroup(t *testing.T) {
	groups, err := GroupByRoom(nil, testRooms, date(2024, 1, 10))
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Empty(t, groups[0].Items)
	assert.NotNil(t, groups[0].Items)
}
