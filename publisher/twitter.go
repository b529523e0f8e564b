package publisher

import (
	"context"
	"net/http"

	"github.com/Ishwaqsyed03/Brand-manager/model"
)

const (
	twitterTextLimit       = 280
	defaultTwitterEndpoint = "https://api.twitter.com/2/tweets"
)

type TwitterPublisher struct {
	client *HttpClient

	// Endpoint is overridable so tests can point at a local server.
	Endpoint string
}

func NewTwitterPublisher(client *HttpClient) *TwitterPublisher {
	return &TwitterPublisher{client: client, Endpoint: defaultTwitterEndpoint}
}

func (p *TwitterPublisher) Publish(ctx context.Context, content model.PostContent, conn model.SocialConnection) PublishResult {
	if !conn.Connected {
		return notConnectedFailure(model.PlatformTwitter)
	}
	if len([]rune(content.Text)) > twitterTextLimit {
		return Failure("text exceeds Twitter's 280 character limit")
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+conn.AccessToken)

	res, err := p.client.PostJSON(ctx, p.Endpoint, header, map[string]string{
		"text": content.Text,
	})
	if err != nil {
		return failureFromError(err)
	}

	var body struct {
		Data struct {
			Id string `json:"id"`
		} `json:"data"`
	}
	if err := DecodeJSONBody(res, &body); err != nil {
		return Failure("malformed Twitter response: " + err.Error())
	}
	return Success(body.Data.Id)
}
