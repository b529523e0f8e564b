package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"

	Logger "github.com/Ishwaqsyed03/Brand-manager/utils/log"
	"github.com/pkg/errors"
)

type HttpClient struct {
	header http.Header

	client *http.Client
}

func NewDefaultHttpClient() *HttpClient {
	return &HttpClient{header: http.Header{}, client: &http.Client{}}
}

func NewHttpClient(header http.Header) *HttpClient {
	return &HttpClient{header: header, client: &http.Client{}}
}

// PostJSON sends a JSON payload, merging the per-call header over the
// client-wide one. The caller bounds the request through ctx.
func (c *HttpClient) PostJSON(ctx context.Context, uri string, header http.Header, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", uri, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for key, values := range c.header {
		req.Header[key] = values
	}
	for key, values := range header {
		req.Header[key] = values
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if IsNon200HttpResponse(res) {
		MaybeLogNon200HttpError(res)
		return nil, errors.Errorf("non-200 http code: %d", res.StatusCode)
	}

	return res, nil
}

// DecodeJSONBody reads and closes the response body, unmarshaling into v.
func DecodeJSONBody(res *http.Response, v interface{}) error {
	defer res.Body.Close()
	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// Log http response if the error code is not 2XX
func MaybeLogNon200HttpError(res *http.Response) {
	if IsNon200HttpResponse(res) {
		Logger.Log.Errorf("non-200 http code: %d", res.StatusCode)
		LogHttpResponseBody(res)
	}
}

func IsNon200HttpResponse(res *http.Response) bool {
	return res.StatusCode >= 300
}

func LogHttpResponseBody(res *http.Response) {
	body, err := ioutil.ReadAll(res.Body)
	if err == nil {
		Logger.Log.Errorln("response body is: ", string(body))
	}
}
