package publisher

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyPlatforms rejects publish calls that target no platform at all.
	ErrEmptyPlatforms = errors.New("post must target at least one platform")
)

// failureFromError converts a transport error into a failure result. A
// deadline hit is normalized to "timeout" so callers can tell a slow platform
// apart from a rejecting one.
func failureFromError(err error) PublishResult {
	if errors.Is(err, context.DeadlineExceeded) {
		return Failure("timeout")
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && (urlErr.Timeout() || errors.Is(urlErr.Err, context.DeadlineExceeded)) {
		return Failure("timeout")
	}
	return Failure(err.Error())
}
