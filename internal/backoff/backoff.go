// Package backoff schedules retry delays for failed OCR and lookup passes.
// Delays grow exponentially with the retry count, are capped at a ceiling,
// and carry random jitter so a batch of items failing together does not
// come back as a thundering herd.
package backoff

import (
	"math/rand"
	"time"

	"pressmark/internal/inbox"
)

// Scheduler computes the delay before an item becomes eligible again. The
// zero value is unusable; call (Scheduler).normalized or use Default.
type Scheduler struct {
	APIErrorBase  time.Duration
	OfflineBase   time.Duration
	RateLimitBase time.Duration
	MaxDelay      time.Duration
}

// Default returns the stock schedule: API errors retry quickly, offline
// conditions wait longer, and rate limits longest of all.
func Default() Scheduler {
	return Scheduler{
		APIErrorBase:  30 * time.Second,
		OfflineBase:   2 * time.Minute,
		RateLimitBase: 5 * time.Minute,
		MaxDelay:      6 * time.Hour,
	}
}

func (s Scheduler) normalized() Scheduler {
	def := Default()
	if s.APIErrorBase <= 0 {
		s.APIErrorBase = def.APIErrorBase
	}
	if s.OfflineBase <= 0 {
		s.OfflineBase = def.OfflineBase
	}
	if s.RateLimitBase <= 0 {
		s.RateLimitBase = def.RateLimitBase
	}
	if s.MaxDelay <= 0 {
		s.MaxDelay = def.MaxDelay
	}
	return s
}

// Delay returns how long to wait before retrying an item that has already
// failed retryCount times with the given error code. NO_MATCH and a clear
// error code produce no delay: neither is retried by the scheduler.
func (s Scheduler) Delay(code inbox.ErrorCode, retryCount int, rng *rand.Rand) time.Duration {
	s = s.normalized()

	var base time.Duration
	switch code {
	case inbox.ErrorAPI:
		base = s.APIErrorBase
	case inbox.ErrorOffline:
		base = s.OfflineBase
	case inbox.ErrorRateLimit:
		base = s.RateLimitBase
	default:
		return 0
	}

	if retryCount < 0 {
		retryCount = 0
	}
	delay := base
	for i := 0; i < retryCount; i++ {
		delay *= 2
		if delay >= s.MaxDelay {
			delay = s.MaxDelay
			break
		}
	}
	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}

	if rng != nil && delay > 0 {
		half := int64(delay / 2)
		if half > 0 {
			delay += time.Duration(rng.Int63n(half))
		}
		if delay > s.MaxDelay {
			delay = s.MaxDelay
		}
	}
	return delay
}

// NextAttempt returns the wall-clock time at which the item becomes
// eligible again, or the zero time when no delay applies.
func (s Scheduler) NextAttempt(now time.Time, code inbox.ErrorCode, retryCount int, rng *rand.Rand) time.Time {
	delay := s.Delay(code, retryCount, rng)
	if delay <= 0 {
		return time.Time{}
	}
	return now.Add(delay)
}
