package publisher

import (
	"context"
	"fmt"

	"github.com/Ishwaqsyed03/Brand-manager/model"
)

const (
	facebookTextLimit    = 63206
	defaultGraphEndpoint = "https://graph.facebook.com/v18.0"
)

type FacebookPublisher struct {
	client *HttpClient

	// GraphEndpoint is the Graph API base, overridable for tests.
	GraphEndpoint string
}

func NewFacebookPublisher(client *HttpClient) *FacebookPublisher {
	return &FacebookPublisher{client: client, GraphEndpoint: defaultGraphEndpoint}
}

func (p *FacebookPublisher) Publish(ctx context.Context, content model.PostContent, conn model.SocialConnection) PublishResult {
	if !conn.Connected {
		return notConnectedFailure(model.PlatformFacebook)
	}
	if len([]rune(content.Text)) > facebookTextLimit {
		return Failure("text exceeds Facebook's 63206 character limit")
	}

	payload := map[string]string{
		"message":      content.Text,
		"access_token": conn.AccessToken,
	}
	if len(content.Media) > 0 {
		payload["link"] = content.Media[0].Url
	}

	uri := fmt.Sprintf("%s/%s/feed", p.GraphEndpoint, conn.ExternalUserId)
	res, err := p.client.PostJSON(ctx, uri, nil, payload)
	if err != nil {
		return failureFromError(err)
	}

	var body struct {
		Id string `json:"id"`
	}
	if err := DecodeJSONBody(res, &body); err != nil {
		return Failure("malformed Facebook response: " + err.Error())
	}
	return Success(body.Id)
}
