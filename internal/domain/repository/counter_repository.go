package repository

import (
	"context"
)

// CounterRepository is the persistence contract for document sequence
// counters. Next must be a single atomic increment-and-read against the
// counter row; counting existing documents is not an acceptable
// implementation because it loses updates under concurrent creation.
type CounterRepository interface {
	// Next increments the counter for (docType, period) and returns the new
	// value. The first call for a period returns 1.
	Next(ctx context.Context, docType, period string) (int64, error)
}
