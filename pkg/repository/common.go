package repository

import (
	"context"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// withLockRetry runs fn and retries it with backoff on SQLite lock errors only,
// any other error is returned right away
func withLockRetry(ctx context.Context, fn func() error) error {
	var fatal error
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		if e := fn(); e != nil {
			if isLockError(e) {
				return e // retry
			}
			fatal = e
		}
		return nil
	})
	if fatal != nil {
		return fatal
	}
	return err
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}
