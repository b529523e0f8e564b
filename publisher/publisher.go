// Package publisher fans one post out to external social platforms and
// reconciles the per-platform outcomes into the post's aggregate status.
package publisher

import (
	"context"

	"github.com/Ishwaqsyed03/Brand-manager/model"
)

// PublishResult is the tagged outcome of one publish attempt. A publisher
// never raises across this boundary in normal operation; every platform or
// network error folds into a failure result.
type PublishResult struct {
	Success    bool   `json:"success"`
	ExternalId string `json:"externalId,omitempty"`
	Error      string `json:"error,omitempty"`
}

func Success(externalId string) PublishResult {
	return PublishResult{Success: true, ExternalId: externalId}
}

func Failure(reason string) PublishResult {
	return PublishResult{Success: false, Error: reason}
}

// Publisher is the capability to publish content to one platform. One
// implementation per platform; retry policy never lives inside a single
// attempt.
type Publisher interface {
	Publish(ctx context.Context, content model.PostContent, conn model.SocialConnection) PublishResult
}

// CredentialProvider resolves the stored connection credential for a
// user+platform pair. Credential acquisition and refresh are an external
// collaborator's responsibility.
type CredentialProvider interface {
	ConnectionFor(userID string, platform model.PlatformName) (model.SocialConnection, error)
}

// notConnectedFailure is the uniform short-circuit result for a platform the
// user never connected; no network call is attempted.
func notConnectedFailure(platform model.PlatformName) PublishResult {
	return Failure(platform.DisplayName() + " not connected")
}
