package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/meridian-io/cms/internal/transport"
	"github.com/meridian-io/cms/pkg/cms"
)

// buildRequest turns Request parameters into a ready *http.Request:
// URL composition, default headers, Content-Type, and Authorization
// handling. The Authorization header is stripped unless the request
// scope requires authentication.
func (c *Client) buildRequest(ctx context.Context, method string, req *cms.Request, suffix string, body io.Reader) (*http.Request, error) {
	if req == nil {
		req = cms.NewRequest()
	}

	if c.config.ChannelToken != "" && !req.HasParameter("channelToken") && !req.Scope().RequiresAuth() {
		req.WithChannelToken(c.config.ChannelToken)
	}

	rawURL, err := req.BuildURL(c.endpoint, c.config.APIVersion, suffix)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cms.ErrInvalidRequest, err)
	}

	for key, value := range c.config.AdditionalHeaders {
		httpReq.Header.Set(key, value)
	}

	provider := req.HeaderProvider()
	if provider != nil {
		for key, value := range provider.Headers() {
			httpReq.Header.Set(key, value)
		}
	}

	for key, value := range req.Headers() {
		httpReq.Header.Set(key, value)
	}

	if httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if req.Scope().RequiresAuth() {
		if c.config.AccessToken != "" && httpReq.Header.Get("Authorization") == "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
		}
	} else {
		httpReq.Header.Del("Authorization")
	}

	return httpReq, nil
}

// execute runs one classified exchange on a fresh transport.
func (c *Client) execute(ctx context.Context, method string, req *cms.Request, suffix string, payload interface{}) (*transport.Response, error) {
	var body io.Reader

	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = bytes.NewReader(encoded)
	}

	httpReq, err := c.buildRequest(ctx, method, req, suffix, body)
	if err != nil {
		return nil, err
	}

	return c.transportFor(req, false).Do(ctx, httpReq)
}

// executeRaw runs one unclassified exchange on a fresh transport.
func (c *Client) executeRaw(ctx context.Context, method string, req *cms.Request, suffix string) (*transport.Response, error) {
	httpReq, err := c.buildRequest(ctx, method, req, suffix, nil)
	if err != nil {
		return nil, err
	}

	return c.transportFor(req, false).DoRaw(ctx, httpReq)
}

// fetchOne executes a GET and decodes the payload into T.
func fetchOne[T any](ctx context.Context, c *Client, req *cms.Request, suffix string) (*T, error) {
	resp, err := c.execute(ctx, http.MethodGet, req, suffix, nil)
	if err != nil {
		return nil, err
	}

	return decode[T](resp)
}

// submit executes a POST with a JSON payload and decodes the response.
func submit[T any](ctx context.Context, c *Client, req *cms.Request, suffix string, payload interface{}) (*T, error) {
	resp, err := c.execute(ctx, http.MethodPost, req, suffix, payload)
	if err != nil {
		return nil, err
	}

	return decode[T](resp)
}

// fetchList executes a GET for a listing page. Pagination metadata is
// optional in the payload; its absence must not fail decoding.
func fetchList[T any](ctx context.Context, c *Client, req *cms.Request, suffix string) (*cms.ListResponse[T], error) {
	resp, err := c.execute(ctx, http.MethodGet, req, suffix, nil)
	if err != nil {
		return nil, err
	}

	return decode[cms.ListResponse[T]](resp)
}

// decode unmarshals a 2xx body into T. A missing or null body is a
// distinct failure from a malformed one.
func decode[T any](resp *transport.Response) (*T, error) {
	if len(resp.Body) == 0 || bytes.Equal(bytes.TrimSpace(resp.Body), []byte("null")) {
		return nil, cms.ErrInvalidDataReturned
	}

	var value T

	err := json.Unmarshal(resp.Body, &value)
	if err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return &value, nil
}

// requireID rejects empty required identifiers before any network call.
func requireID(name, value string) error {
	if value == "" {
		return &cms.InvalidURLError{Reason: name + " must not be empty"}
	}

	return nil
}
