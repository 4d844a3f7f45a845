package transport

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/meridian-io/cms/internal/constants"
	"github.com/meridian-io/cms/pkg/cms"
)

// DownloadSpec configures a streaming download.
type DownloadSpec struct {
	// SuggestedName keys the stable temporary location. When empty the
	// name is taken from the Content-Disposition header, then falls back
	// to a generated unique name.
	SuggestedName string

	// Progress receives fractional progress as reported by the wire.
	Progress func(float64)

	// ExtraHeaders are attached to the request (e.g. conditional-request
	// headers supplied by a cache provider).
	ExtraHeaders map[string]string
}

// Download executes req as a streaming download. The body is written to
// a scratch file and atomically renamed into a stable temporary location
// on success. The final location and the response headers are returned;
// non-2xx responses are classified like Do.
func (c *Client) Download(ctx context.Context, req *http.Request, spec DownloadSpec) (string, http.Header, error) {
	for key, value := range spec.ExtraHeaders {
		req.Header.Set(key, value)
	}

	record := &cms.RequestRecord{Method: req.Method, URL: req.URL.String(), Headers: req.Header}

	err := c.interceptors.ExecuteRequestInterceptors(ctx, record)
	if err != nil {
		return "", nil, err
	}

	resp, err := c.roundTrip(ctx, req, nil)
	if err != nil {
		c.notifyResponse(ctx, record, &cms.ResponseRecord{Error: err})

		return "", nil, err
	}

	defer func() { _ = resp.Body.Close() }()

	c.notifyResponse(ctx, record, &cms.ResponseRecord{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
	})

	if c.debug && c.logger != nil {
		c.logger.Debug("http download", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL.String(),
			"status": resp.StatusCode,
		})
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

		return "", resp.Header, Classify(resp.StatusCode, body)
	}

	location, err := c.streamToFile(ctx, resp, spec)
	if err != nil {
		return "", resp.Header, err
	}

	return location, resp.Header, nil
}

func (c *Client) streamToFile(ctx context.Context, resp *http.Response, spec DownloadSpec) (string, error) {
	dir := filepath.Join(os.TempDir(), "cms-downloads")

	err := os.MkdirAll(dir, constants.DownloadDirPerm)
	if err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}

	scratch, err := os.CreateTemp(dir, ".cms-dl-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	var successful bool

	defer func() {
		_ = scratch.Close()

		if !successful {
			_ = os.Remove(scratch.Name())
		}
	}()

	var writer io.Writer = scratch
	if spec.Progress != nil {
		writer = &progressWriter{
			w:        writer,
			total:    resp.ContentLength,
			progress: spec.Progress,
		}
	}

	_, err = io.Copy(writer, &contextReader{ctx: ctx, r: resp.Body})
	if err != nil {
		return "", fmt.Errorf("copying download body: %w", err)
	}

	if err := scratch.Sync(); err != nil {
		return "", fmt.Errorf("syncing temp file: %w", err)
	}

	if err := scratch.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	location := filepath.Join(dir, downloadName(resp, spec.SuggestedName))

	if err := os.Rename(scratch.Name(), location); err != nil {
		return "", fmt.Errorf("%w: %w", cms.ErrCouldNotStoreDownload, err)
	}

	successful = true

	return location, nil
}

// downloadName resolves the stable file name: suggested name first, then
// the Content-Disposition filename, then a generated unique name.
func downloadName(resp *http.Response, suggested string) string {
	if suggested != "" {
		return filepath.Base(suggested)
	}

	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		_, params, err := mime.ParseMediaType(disposition)
		if err == nil && params["filename"] != "" {
			return filepath.Base(params["filename"])
		}
	}

	return uuid.NewString()
}

// progressWriter forwards fractional progress as observed. The fraction
// is transferred/total when the length is known; callers are told the
// sequence is not guaranteed monotonic.
type progressWriter struct {
	w           io.Writer
	transferred int64
	total       int64
	progress    func(float64)
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.transferred += int64(n)

	if pw.total > 0 {
		pw.progress(float64(pw.transferred) / float64(pw.total))
	}

	return n, err
}

// contextReader aborts a copy once the context is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err //nolint:wrapcheck // Context errors pass through unwrapped.
	}

	return cr.r.Read(p)
}
