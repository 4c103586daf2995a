package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDueLabel(t *testing.T) {
	tests := []struct {
		daysLeft int
		want     string
	}{
		{-5, "Overdue by 5 days"},
		{-1, "Overdue by 1 day"},
		{0, "Due today"},
		{1, "Due in 1 day"},
		{12, "Due in 12 days"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DueLabel(Classification{DaysLeft: tt.daysLeft}))
	}
}

func TestCompletionLabel(t *testing.T) {
	now := at(2024, 1, 10, 9, 0)
	today := at(2024, 1, 10, 1, 0)
	yesterday := at(2024, 1, 9, 23, 59)
	older := at(2024, 1, 2, 12, 0)

	assert.Equal(t, "Never completed", CompletionLabel(nil, now))
	assert.Equal(t, "Completed today", CompletionLabel(&today, now))
	assert.Equal(t, "Completed yesterday", CompletionLabel(&yesterday, now))
	assert.Equal(t, "Completed January 2, 2024", CompletionLabel(&older, now))
}
