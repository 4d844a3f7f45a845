// Package transport executes HTTP requests for the SDK: classified
// fetches, raw fetches, and streaming downloads. A transport instance is
// created fresh per terminal invocation and never shared across calls.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/meridian-io/cms/internal/constants"
	"github.com/meridian-io/cms/pkg/cms"
)

// Logger mirrors cms.Logger; any cms.Logger satisfies it.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Response is the outcome of an executed request.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client executes requests against one HTTP session. The zero number of
// retries selects the default policy for transient failures (>=500, 429,
// connection errors), handled by retryablehttp.
type Client struct {
	http         *retryablehttp.Client
	logger       Logger
	debug        bool
	userAgent    string
	limiter      limiter
	interceptors *cms.InterceptorChain
}

// limiter abstracts x/time/rate so an absent limit costs nothing.
type limiter interface {
	Wait(ctx context.Context) error
}

// NewClient creates a transport client.
func NewClient(opts ...Option) *Client {
	client := &Client{}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	retryable := retryablehttp.NewClient()
	retryable.RetryMax = options.retryMax
	retryable.RetryWaitMin = options.retryWaitMin
	retryable.RetryWaitMax = options.retryWaitMax
	retryable.Logger = nil

	if options.session != nil {
		retryable.HTTPClient = options.session
	} else if options.timeout > 0 {
		retryable.HTTPClient.Timeout = options.timeout
	}

	client.http = retryable
	client.logger = options.logger
	client.debug = options.debug
	client.userAgent = options.userAgent
	client.limiter = options.limiter
	client.interceptors = options.interceptors

	return client
}

// Do executes the request and classifies the response status. The
// response is returned alongside any classification error so callers can
// still inspect status and headers on failure.
func (c *Client) Do(ctx context.Context, req *http.Request) (*Response, error) {
	resp, err := c.execute(ctx, req)
	if err != nil {
		return nil, err
	}

	return resp, Classify(resp.StatusCode, resp.Body)
}

// DoRaw executes the request without status classification.
func (c *Client) DoRaw(ctx context.Context, req *http.Request) (*Response, error) {
	return c.execute(ctx, req)
}

func (c *Client) execute(ctx context.Context, req *http.Request) (*Response, error) {
	record := &cms.RequestRecord{Method: req.Method, URL: req.URL.String(), Headers: req.Header}

	err := c.interceptors.ExecuteRequestInterceptors(ctx, record)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.roundTrip(ctx, req, nil)
	if err != nil {
		c.notifyResponse(ctx, record, &cms.ResponseRecord{Error: err})

		return nil, err
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	c.notifyResponse(ctx, record, &cms.ResponseRecord{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	})

	if c.debug && c.logger != nil {
		c.logger.Debug("http exchange", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL.String(),
			"status": resp.StatusCode,
			"bytes":  len(body),
		})
	}

	return resp, nil
}

// roundTrip performs the wire call. When stream is non-nil the response
// body is handed to it instead of being buffered.
func (c *Client) roundTrip(ctx context.Context, req *http.Request, stream func(*http.Response) error) (*http.Response, error) {
	if c.limiter != nil {
		err := c.limiter.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	req.Header.Set(constants.HeaderRequestedWith, constants.RequestedWithValue)

	retryReq, err := retryablehttp.FromRequest(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cms.ErrInvalidRequest, err)
	}

	resp, err := c.http.Do(retryReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	if stream != nil {
		defer func() { _ = resp.Body.Close() }()

		return resp, stream(resp)
	}

	return resp, nil
}

func (c *Client) notifyResponse(ctx context.Context, req *cms.RequestRecord, resp *cms.ResponseRecord) {
	err := c.interceptors.ExecuteResponseInterceptors(ctx, req, resp)
	if err != nil && c.logger != nil {
		c.logger.Warn("response interceptor failed", map[string]interface{}{"error": err.Error()})
	}
}
