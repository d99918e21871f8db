// Package service holds the business rules: rental lifecycle, substitution ledger,
// inventory checks and dashboard aggregation. Services are stateless between calls.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rental-tracker-backend/internal/domain"
)

// Clock supplies "now". Overdue and other date rules read the calendar day from it,
// so the clock's location decides when a day rolls over.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location (UTC when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Today is the calendar date in the clock's time zone.
func Today(c Clock) domain.Date {
	return domain.NewDate(c.Now())
}

// logFailure records storage failures with their driver cause. Caller-facing errors
// (validation, not found, conflict) are not logged here.
func logFailure(ctx context.Context, log *slog.Logger, op string, err error) {
	if !errors.Is(err, domain.ErrStorage) {
		return
	}
	args := []any{"op", op, "error", err}
	if de, ok := domain.AsError(err); ok && de.Cause() != nil {
		args = append(args, "cause", de.Cause())
	}
	log.ErrorContext(ctx, "storage failure", args...)
}
