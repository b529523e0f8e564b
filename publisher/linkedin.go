package publisher

import (
	"context"
	"net/http"

	"github.com/Ishwaqsyed03/Brand-manager/model"
)

const (
	linkedInTextLimit       = 3000
	defaultLinkedInEndpoint = "https://api.linkedin.com/v2/ugcPosts"
)

type LinkedInPublisher struct {
	client *HttpClient

	Endpoint string
}

func NewLinkedInPublisher(client *HttpClient) *LinkedInPublisher {
	return &LinkedInPublisher{client: client, Endpoint: defaultLinkedInEndpoint}
}

type linkedInShareMedia struct {
	Status string `json:"status"`
	Media  string `json:"media"`
}

func (p *LinkedInPublisher) Publish(ctx context.Context, content model.PostContent, conn model.SocialConnection) PublishResult {
	if !conn.Connected {
		return notConnectedFailure(model.PlatformLinkedIn)
	}
	if len([]rune(content.Text)) > linkedInTextLimit {
		return Failure("text exceeds LinkedIn's 3000 character limit")
	}

	shareCategory := "NONE"
	media := []linkedInShareMedia{}
	for _, m := range content.Media {
		shareCategory = "IMAGE"
		media = append(media, linkedInShareMedia{Status: "READY", Media: m.Url})
	}

	shareContent := map[string]interface{}{
		"shareCommentary":    map[string]string{"text": content.Text},
		"shareMediaCategory": shareCategory,
	}
	if len(media) > 0 {
		shareContent["media"] = media
	}

	payload := map[string]interface{}{
		"author":         "urn:li:person:" + conn.ExternalUserId,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": shareContent,
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+conn.AccessToken)
	header.Set("X-Restli-Protocol-Version", "2.0.0")

	res, err := p.client.PostJSON(ctx, p.Endpoint, header, payload)
	if err != nil {
		return failureFromError(err)
	}

	var body struct {
		Id string `json:"id"`
	}
	if err := DecodeJSONBody(res, &body); err != nil {
		return Failure("malformed LinkedIn response: " + err.Error())
	}
	return Success(body.Id)
}
