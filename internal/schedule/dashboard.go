package schedule

import (
	"time"

	"github.com/dukerupert/tidyhouse/internal/model"
)

// Item is a task together with its classification for one evaluation.
type Item struct {
	Task model.Task `json:"task"`
	Classification
	RoomName string `json:"room_name"`
}

// Problem records a task that could not be classified.
type Problem struct {
	TaskID string `json:"task_id"`
	Error  string `json:"error"`
}

// Dashboard is everything the home screen shows, computed for a single
// instant.
type Dashboard struct {
	Now              time.Time `json:"now"`
	ThisWeek         Window    `json:"this_week"`
	NextWeek         Window    `json:"next_week"`
	Today            []Item    `json:"today"`
	DueThisWeek      []Item    `json:"due_this_week"`
	DueNextWeek      []Item    `json:"due_next_week"`
	NeedingAttention []Item    `json:"needing_attention"`
	All              []Item    `json:"all"`
	Problems         []Problem `json:"problems,omitempty"`
}

// BuildDashboard classifies, buckets and orders tasks for now. Tasks with an
// invalid periodicity are left out of every list and reported in Problems
// instead, so one bad record does not hide the rest.
func BuildDashboard(tasks []model.Task, rooms []model.Room, now time.Time) Dashboard {
	d := Dashboard{
		Now:              now,
		ThisWeek:         WeekBounds(now),
		NextWeek:         NextWeekBounds(now),
		Today:            []Item{},
		DueThisWeek:      []Item{},
		DueNextWeek:      []Item{},
		NeedingAttention: []Item{},
		All:              []Item{},
	}

	valid := make([]model.Task, 0, len(tasks))
	byID := make(map[string]Item, len(tasks))
	for _, t := range tasks {
		c, err := Classify(t, now)
		if err != nil {
			d.Problems = append(d.Problems, Problem{TaskID: t.ID, Error: err.Error()})
			continue
		}
		it := Item{Task: t, Classification: c, RoomName: RoomName(rooms, t.RoomID)}
		valid = append(valid, t)
		byID[t.ID] = it
		d.All = append(d.All, it)
	}

	sortItems(d.All)
	for _, it := range d.All {
		if it.Status != StatusOK {
			d.NeedingAttention = append(d.NeedingAttention, it)
		}
	}

	for _, t := range DueToday(valid, now) {
		d.Today = append(d.Today, byID[t.ID])
	}
	for _, t := range DueThisWeek(valid, now) {
		d.DueThisWeek = append(d.DueThisWeek, byID[t.ID])
	}
	for _, t := range DueNextWeek(valid, now) {
		d.DueNextWeek = append(d.DueNextWeek, byID[t.ID])
	}
	return d
}
