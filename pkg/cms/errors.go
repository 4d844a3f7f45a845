package cms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired   = errors.New("config is required")
	ErrEndpointRequired = errors.New("endpoint is required")

	// ErrInvalidRequest indicates a request could not be constructed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidDataReturned indicates a 2xx response with a missing or
	// null body where a payload was expected.
	ErrInvalidDataReturned = errors.New("no usable data returned")

	// ErrNotModified maps a 304 response. It is recoverable: the cached
	// download path consumes it and serves the cached item instead.
	ErrNotModified = errors.New("content not modified")

	// ErrPollingNotCompleted signals that a poll predicate is not yet
	// satisfied. The retry engine consumes it; callers only see it when
	// the attempt budget is exhausted.
	ErrPollingNotCompleted = errors.New("polling not completed")

	// ErrNoMoreData is returned by FetchNext once the server has reported
	// that no further pages exist. No network call is made.
	ErrNoMoreData = errors.New("no more data")

	ErrEmptyMatchList       = errors.New("match list must not be empty")
	ErrMissingCacheProvider = errors.New("no cache provider configured")
	ErrMissingImageProvider = errors.New("no image provider configured")

	// ErrCouldNotStoreDownload indicates the downloaded file could not be
	// moved into the requested storage directory. The temporary file is
	// left behind.
	ErrCouldNotStoreDownload = errors.New("could not store download")

	// ErrNotFoundInCache is returned by cache providers when a 304
	// response arrives but no cached item exists for the key.
	ErrNotFoundInCache = errors.New("item not found in cache")

	// ErrNoURLFromCacheProvider indicates a cache provider returned an
	// empty location from Store or CachedItem.
	ErrNoURLFromCacheProvider = errors.New("cache provider returned no location")

	// ErrNoImageFromProvider indicates an image provider returned no
	// decoded image.
	ErrNoImageFromProvider = errors.New("image provider returned no image")

	ErrNoURLReturned        = errors.New("no URL returned")
	ErrDataConversionFailed = errors.New("data conversion failed")
	ErrInvalidSession       = errors.New("invalid session")

	// ErrJobFailed indicates a publish job reached its failed state.
	ErrJobFailed = errors.New("publish job failed")
)

// InvalidURLError indicates service-specific request validation failed
// before any network call was attempted.
type InvalidURLError struct {
	Reason string
}

func (e *InvalidURLError) Error() string {
	return "invalid URL: " + e.Reason
}

// ErrorBody is the structured error payload returned by the API.
type ErrorBody struct {
	Type      string `json:"type"           yaml:"type"`
	Title     string `json:"title"          yaml:"title"`
	Status    int    `json:"status"         yaml:"status"`
	Detail    string `json:"detail"         yaml:"detail"`
	ErrorCode string `json:"code,omitempty" yaml:"code,omitempty"`
}

// ServerError represents a non-2xx response from the API. Body holds the
// structured error payload when one could be parsed; Raw always holds the
// response body as a string when one was present.
type ServerError struct {
	StatusCode int
	Body       *ErrorBody
	Raw        string
}

func (e *ServerError) Error() string {
	if e.Body != nil && e.Body.Detail != "" {
		return fmt.Sprintf("%s: %s (status: %d)", e.Body.Title, e.Body.Detail, e.StatusCode)
	}

	if e.Raw != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Raw)
	}

	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Is maps well-known status codes onto their named sentinel errors so
// callers can use errors.Is against ErrNotFound and friends.
func (e *ServerError) Is(target error) bool {
	sentinel, ok := statusSentinels[e.StatusCode]

	return ok && target == sentinel
}

// Named error kinds for the status codes the API documents. Any other
// non-2xx status is still surfaced as a *ServerError carrying the exact
// code.
var (
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("not authenticated")
	ErrForbidden          = errors.New("not authorized")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("conflict")
	ErrServerInternal     = errors.New("internal server error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

var statusSentinels = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusForbidden:           ErrForbidden,
	http.StatusNotFound:            ErrNotFound,
	http.StatusConflict:            ErrConflict,
	http.StatusInternalServerError: ErrServerInternal,
	http.StatusServiceUnavailable:  ErrServiceUnavailable,
}

// ParseErrorBody parses an error response body on a best-effort basis:
// structured JSON first, then the raw string, then nothing. It never
// fails.
func ParseErrorBody(data []byte) (*ErrorBody, string) {
	if len(data) == 0 {
		return nil, ""
	}

	var body ErrorBody

	err := json.Unmarshal(data, &body)
	if err != nil || (body.Title == "" && body.Detail == "" && body.Status == 0) {
		return nil, string(data)
	}

	return &body, string(data)
}

// StatusCode returns the HTTP status carried by err, or 0 when err does
// not wrap a *ServerError.
func StatusCode(err error) int {
	serverErr := &ServerError{}
	if errors.As(err, &serverErr) {
		return serverErr.StatusCode
	}

	return 0
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsNotModified checks if the error maps a 304 response.
func IsNotModified(err error) bool {
	return errors.Is(err, ErrNotModified)
}
