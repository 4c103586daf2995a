package schedule

import (
	"cmp"
	"slices"
	"time"

	"github.com/dukerupert/tidyhouse/internal/model"
)

// SortForDisplay orders tasks overdue first, then due-soon, then ok, and by
// days left within each status. Tasks with equal keys keep their input order.
func SortForDisplay(tasks []model.Task, now time.Time) ([]model.Task, error) {
	items, err := classifyAll(tasks, now)
	if err != nil {
		return nil, err
	}
	sortItems(items)

	out := make([]model.Task, len(items))
	for i, it := range items {
		out[i] = it.Task
	}
	return out, nil
}

// NeedingAttention returns the overdue and due-soon tasks in display order.
func NeedingAttention(tasks []model.Task, now time.Time) ([]model.Task, error) {
	items, err := classifyAll(tasks, now)
	if err != nil {
		return nil, err
	}
	sortItems(items)

	var out []model.Task
	for _, it := range items {
		if it.Status != StatusOK {
			out = append(out, it.Task)
		}
	}
	return out, nil
}

func classifyAll(tasks []model.Task, now time.Time) ([]Item, error) {
	items := make([]Item, 0, len(tasks))
	for _, t := range tasks {
		c, err := Classify(t, now)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Task: t, Classification: c})
	}
	return items, nil
}

func sortItems(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		if r := cmp.Compare(rank(a.Status), rank(b.Status)); r != 0 {
			return r
		}
		return cmp.Compare(a.DaysLeft, b.DaysLeft)
	})
}
