package pipeline

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/lexchunk/internal/store"
)

// MaxRetries bounds store attempts per job.
const MaxRetries = 3

// IsRetryable checks if a store error is transient.
func IsRetryable(err error) bool {
	return errors.Is(err, store.ErrUnavailable)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}
