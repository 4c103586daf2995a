// Package schedule computes due dates, urgency, calendar buckets and display
// order for recurring household tasks. Every function takes "now" explicitly
// and none of them perform I/O or modify their arguments.
package schedule

import (
	"errors"
	"fmt"

	"github.com/dukerupert/tidyhouse/internal/model"
)

// ErrInvalidPeriodicity is returned when a periodicity has a non-positive
// value or an unrecognized unit.
var ErrInvalidPeriodicity = errors.New("invalid periodicity")

// MaxPeriodValue is the largest value accepted from task forms. The calculator
// itself accepts any positive value.
const MaxPeriodValue = 30

// Validate reports whether p can drive the due-date calculator.
func Validate(p model.Periodicity) error {
	if p.Value < 1 {
		return fmt.Errorf("%w: value %d is less than 1", ErrInvalidPeriodicity, p.Value)
	}
	switch p.Unit {
	case model.UnitDays, model.UnitWeeks, model.UnitMonths:
		return nil
	}
	return fmt.Errorf("%w: unknown unit %q", ErrInvalidPeriodicity, p.Unit)
}

// Describe returns a human-readable description of the periodicity.
func Describe(p model.Periodicity) string {
	var singular string
	switch p.Unit {
	case model.UnitDays:
		singular = "day"
	case model.UnitWeeks:
		singular = "week"
	case model.UnitMonths:
		singular = "month"
	default:
		return ""
	}
	if p.Value == 1 {
		return "Every " + singular
	}
	return fmt.Sprintf("Every %d %ss", p.Value, singular)
}
