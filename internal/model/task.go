package model

import "time"

type Unit string

const (
	UnitDays   Unit = "days"
	UnitWeeks  Unit = "weeks"
	UnitMonths Unit = "months"
)

// Periodicity is a recurrence rule such as "every 2 weeks".
type Periodicity struct {
	Value int  `json:"value"`
	Unit  Unit `json:"unit"`
}

// Task is a recurring cleaning task. NextDue is a stored copy of the due date
// derived from LastCompleted (or Created when never completed).
type Task struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	RoomID        string      `json:"room_id"`
	OwnerID       string      `json:"owner_id"`
	Periodicity   Periodicity `json:"periodicity"`
	Created       time.Time   `json:"created"`
	LastCompleted *time.Time  `json:"last_completed"`
	NextDue       time.Time   `json:"next_due"`
}
