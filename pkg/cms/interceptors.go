package cms

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// RequestRecord describes an outgoing request as seen by interceptors.
type RequestRecord struct {
	Method   string
	URL      string
	Headers  http.Header
	Metadata map[string]interface{}
}

// ResponseRecord describes a completed exchange as seen by interceptors.
type ResponseRecord struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *RequestRecord) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *RequestRecord, resp *ResponseRecord) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs all request interceptors.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *RequestRecord) error {
	if c == nil {
		return nil
	}

	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *RequestRecord, resp *ResponseRecord) error {
	if c == nil {
		return nil
	}

	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// LoggingInterceptor logs outgoing requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *RequestRecord) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs completed exchanges.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *RequestRecord, resp *ResponseRecord) error {
		fields := map[string]interface{}{
			"method": req.Method,
			"url":    req.URL,
			"status": resp.StatusCode,
		}
		if resp.Error != nil {
			fields["error"] = resp.Error.Error()
			logger.Error("API Response", fields)

			return nil
		}

		logger.Debug("API Response", fields)

		return nil
	}
}

// TimingInterceptor records request start time in the record metadata so
// a paired response interceptor can report duration.
func TimingInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *RequestRecord) error {
		if req.Metadata == nil {
			req.Metadata = map[string]interface{}{}
		}

		req.Metadata["startedAt"] = time.Now()

		return nil
	}
}

// TimingResponseInterceptor logs the duration recorded by
// TimingInterceptor.
func TimingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *RequestRecord, resp *ResponseRecord) error {
		startedAt, ok := req.Metadata["startedAt"].(time.Time)
		if !ok {
			return nil
		}

		logger.Debug("API Timing", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL,
			"duration": time.Since(startedAt).String(),
		})

		return nil
	}
}
