package cms

import (
	"image"
	"net/http"
)

// CachePolicy classifies how a provider participates in downloads.
type CachePolicy int

const (
	// BypassServerCallOnFoundItem short-circuits the network call when
	// Find returns a cached item for the key.
	BypassServerCallOnFoundItem CachePolicy = iota

	// AlwaysFetchWithCustomHeader always issues the network call, with
	// the provider's header values (typically conditional-request
	// headers) attached. A 304 response is then served from the cache.
	AlwaysFetchWithCustomHeader
)

// CacheProvider is a caller-supplied strategy mapping cache keys to
// previously downloaded file locations. The pipeline assumes
// single-threaded access to a provider instance per cache key and takes
// no locks of its own.
type CacheProvider interface {
	// CachePolicy classifies the provider.
	CachePolicy() CachePolicy

	// Find returns the cached location for key, if any. Called only
	// under the bypass policy, before any network call.
	Find(key string) (string, bool)

	// CachedItem returns the cached location for key, failing with
	// ErrNotFoundInCache when absent. Called only after a 304 response.
	CachedItem(key string) (string, error)

	// Store persists a freshly downloaded file and returns its (possibly
	// relocated) location. Called after a 2xx download.
	Store(source, key string, headers http.Header) (string, error)

	// HeaderValues returns headers (e.g. If-None-Match) merged into the
	// outgoing request on every attempt.
	HeaderValues(key string) map[string]string
}

// ImageProvider mirrors CacheProvider but operates on decoded in-memory
// images instead of file locations.
type ImageProvider interface {
	CachePolicy() CachePolicy

	// Find returns the cached image for key, if any.
	Find(key string) (image.Image, bool)

	// CachedItem returns the cached image for key, failing with
	// ErrNotFoundInCache when absent.
	CachedItem(key string) (image.Image, error)

	// Store decodes the downloaded file into an image, retains it, and
	// returns it.
	Store(source, key string, headers http.Header) (image.Image, error)

	HeaderValues(key string) map[string]string
}

// DownloadOptions configures a download verb.
type DownloadOptions struct {
	// StorageDirectory, when set, is where the downloaded file is moved
	// on success (directories are created as needed). When empty the
	// file stays at its temporary location, which is still returned.
	StorageDirectory string

	// FileName suggests the stored file name. When empty the name is
	// taken from the response or generated.
	FileName string

	// Progress receives fractional progress in [0, 1] as reported by the
	// transport. Values are forwarded as observed and are not forced to
	// be monotonic.
	Progress func(float64)
}

// DownloadResult is the outcome of a file download: the final file
// location plus the response headers (e.g. ETag) for caller inspection.
type DownloadResult struct {
	Location string
	Headers  http.Header
}

// ImageResult is the outcome of an image download.
type ImageResult struct {
	Image   image.Image
	Headers http.Header
}
