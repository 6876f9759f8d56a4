package engine

import (
	"context"
	"errors"
	"net"

	"pressmark/internal/inbox"
	"pressmark/internal/provider"
)

// classify maps a provider or extractor failure to the error code that
// drives retry scheduling. Sentinel errors win over transport inspection.
func classify(err error) inbox.ErrorCode {
	if err == nil {
		return inbox.ErrorNone
	}
	if errors.Is(err, provider.ErrRateLimited) {
		return inbox.ErrorRateLimit
	}
	if errors.Is(err, provider.ErrOffline) {
		return inbox.ErrorOffline
	}
	// DeadlineExceeded satisfies net.Error, so check it first: a timeout is
	// an API fault, not an offline network.
	if errors.Is(err, context.DeadlineExceeded) {
		return inbox.ErrorAPI
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return inbox.ErrorOffline
	}
	return inbox.ErrorAPI
}
