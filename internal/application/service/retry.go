package service

import (
	"context"

	"github.com/bizfolio/bizfolio-api/pkg/apperror"
)

// maxConflictRetries bounds how many times a versioned write is retried
// against fresh state before the conflict is surfaced to the caller
const maxConflictRetries = 3

// withConflictRetry runs fn, re-running it against fresh state when it fails
// with a version conflict. fn must re-load the entity on each attempt.
func withConflictRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = fn(ctx)
		if err == nil || !apperror.IsConflict(err) {
			return err
		}
	}
	return err
}
