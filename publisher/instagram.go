package publisher

import (
	"context"
	"fmt"

	"github.com/Ishwaqsyed03/Brand-manager/model"
)

const instagramTextLimit = 2200

// InstagramPublisher publishes through the Graph API's two-step flow: create
// a media container, then publish it. The two steps form one atomic attempt
// from the orchestrator's point of view; if the second step fails the whole
// attempt is a failure even though the container was already created.
type InstagramPublisher struct {
	client *HttpClient

	GraphEndpoint string
}

func NewInstagramPublisher(client *HttpClient) *InstagramPublisher {
	return &InstagramPublisher{client: client, GraphEndpoint: defaultGraphEndpoint}
}

func (p *InstagramPublisher) Publish(ctx context.Context, content model.PostContent, conn model.SocialConnection) PublishResult {
	if !conn.Connected {
		return notConnectedFailure(model.PlatformInstagram)
	}
	if len([]rune(content.Text)) > instagramTextLimit {
		return Failure("text exceeds Instagram's 2200 character limit")
	}
	if len(content.Media) == 0 {
		return Failure("Instagram requires media for posts")
	}

	// Step 1: create the media container.
	containerUri := fmt.Sprintf("%s/%s/media", p.GraphEndpoint, conn.ExternalUserId)
	res, err := p.client.PostJSON(ctx, containerUri, nil, map[string]string{
		"image_url":    content.Media[0].Url,
		"caption":      content.Text,
		"access_token": conn.AccessToken,
	})
	if err != nil {
		return failureFromError(err)
	}

	var container struct {
		Id string `json:"id"`
	}
	if err := DecodeJSONBody(res, &container); err != nil {
		return Failure("malformed Instagram container response: " + err.Error())
	}

	// Step 2: publish the container.
	publishUri := fmt.Sprintf("%s/%s/media_publish", p.GraphEndpoint, conn.ExternalUserId)
	res, err = p.client.PostJSON(ctx, publishUri, nil, map[string]string{
		"creation_id":  container.Id,
		"access_token": conn.AccessToken,
	})
	if err != nil {
		return failureFromError(err)
	}

	var body struct {
		Id string `json:"id"`
	}
	if err := DecodeJSONBody(res, &body); err != nil {
		return Failure("malformed Instagram response: " + err.Error())
	}
	return Success(body.Id)
}
