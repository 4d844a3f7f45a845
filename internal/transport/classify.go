package transport

import (
	"net/http"

	"github.com/meridian-io/cms/pkg/cms"
)

// Classify maps an HTTP status and response body onto the SDK's error
// taxonomy. It is pure and never fails on malformed bodies: error-body
// parsing degrades from structured JSON to raw string to nothing.
//
// 2xx yields nil; 304 yields cms.ErrNotModified (recoverable, consumed
// by the cached-download path); everything else yields a
// *cms.ServerError carrying the exact status code.
func Classify(statusCode int, body []byte) error {
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return nil
	}

	if statusCode == http.StatusNotModified {
		return cms.ErrNotModified
	}

	parsed, raw := cms.ParseErrorBody(body)

	return &cms.ServerError{
		StatusCode: statusCode,
		Body:       parsed,
		Raw:        raw,
	}
}
