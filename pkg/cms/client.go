package cms

import (
	"context"
	"net/http"
	"time"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a cms.Client.
//
// The config is read once at construction and never mutated afterwards;
// per-request state lives on Request objects instead of global lookups.
type Config struct {
	// Endpoint: base URL for the content API (e.g.
	// "https://content.example.com"). cmsclient.New normalizes this by
	// trimming a trailing slash and adding "https://" when no scheme is
	// present.
	Endpoint string

	// ChannelToken: default publishing-channel token attached to every
	// request that does not set its own.
	ChannelToken string

	// AccessToken: bearer token for management-scope operations. Never
	// attached to published or preview requests.
	AccessToken string

	// APIVersion: default version segment; DefaultVersion when empty.
	APIVersion APIVersion

	// AdditionalHeaders are attached to every request.
	AdditionalHeaders map[string]string

	// HTTPTimeout: optional default timeout applied when no custom
	// session is supplied. Prefer context timeouts on individual calls.
	HTTPTimeout time.Duration

	// RetryMax: maximum transport-level retries for transient failures
	// (>=500, 429, connection errors). 0 selects a sensible default.
	RetryMax int
	// RetryWaitMin: minimum backoff between transport retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between transport retries.
	RetryWaitMax time.Duration

	// RateLimit: optional requests-per-second cap; 0 disables limiting.
	RateLimit float64
	// RateBurst: burst size for the rate limiter when RateLimit > 0.
	RateBurst int

	// Debug enables verbose request/response logging through Logger.
	Debug bool
	// Logger: optional structured logger; no-op when nil.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// HTTPClient: optional custom session used for all requests.
	HTTPClient *http.Client
	// CacheBypassHTTPClient: optional session variant used for cached
	// downloads, so conditional requests bypass any http-level cache.
	// Falls back to HTTPClient.
	CacheBypassHTTPClient *http.Client

	// CacheProvider: default cache provider for cached downloads.
	CacheProvider CacheProvider
	// ImageProvider: default image provider for image downloads.
	ImageProvider ImageProvider

	// Interceptors observe requests and responses; optional.
	Interceptors *InterceptorChain
}

// PollOptions tunes a poll verb.
type PollOptions struct {
	// Attempts bounds the number of poll attempts. Nil means unbounded;
	// impose a timeout via Timeout or the context.
	Attempts *int

	// Interval is the delay between parsed-poll attempts. Defaults to
	// 2 seconds. PollRaw variants retry without delay regardless.
	Interval time.Duration

	// Timeout is an optional wall-clock bound; expiry surfaces as
	// ErrPollingNotCompleted.
	Timeout time.Duration
}

// Attempts is a convenience for building PollOptions.Attempts.
func Attempts(n int) *int {
	return &n
}

// ItemsClient reads published content items.
type ItemsClient interface {
	// List fetches one page of items.
	List(ctx context.Context, req *Request) (*ItemList, error)
	ListAsync(ctx context.Context, req *Request) <-chan Result[*ItemList]
	ListCallback(ctx context.Context, req *Request, cb Callback[*ItemList])

	// Paginate returns a stateful fetch-next paginator over req.
	Paginate(req *Request) *Paginator[Item]

	// Get reads one item by id.
	Get(ctx context.Context, id string, req *Request) (*Item, error)
	GetAsync(ctx context.Context, id string, req *Request) <-chan Result[*Item]
	GetCallback(ctx context.Context, id string, req *Request, cb Callback[*Item])

	// GetBySlug reads one item by slug.
	GetBySlug(ctx context.Context, slug string, req *Request) (*Item, error)

	// GetRaw reads one item without decoding the payload.
	GetRaw(ctx context.Context, id string, req *Request) ([]byte, error)

	// Poll repeatedly reads the item until complete reports true. A
	// false report is retried per opts; any fetch error stops polling
	// immediately.
	Poll(ctx context.Context, id string, req *Request, complete func(*Item) bool, opts *PollOptions) (*Item, error)

	// PollRaw polls on the undecoded payload, retrying without delay.
	PollRaw(ctx context.Context, id string, req *Request, complete func([]byte) bool, opts *PollOptions) ([]byte, error)
}

// TaxonomiesClient reads published taxonomies.
type TaxonomiesClient interface {
	List(ctx context.Context, req *Request) (*TaxonomyList, error)
	ListAsync(ctx context.Context, req *Request) <-chan Result[*TaxonomyList]

	Get(ctx context.Context, id string, req *Request) (*Taxonomy, error)

	// Categories fetches one page of a taxonomy's categories.
	Categories(ctx context.Context, taxonomyID string, req *Request) (*CategoryList, error)

	// PaginateCategories returns a fetch-next paginator over the
	// taxonomy's categories.
	PaginateCategories(taxonomyID string, req *Request) (*Paginator[Category], error)
}

// AssetsClient downloads digital-asset files.
type AssetsClient interface {
	// Download fetches an asset's native file to a temporary location,
	// optionally moving it into opts.StorageDirectory.
	Download(ctx context.Context, assetID string, req *Request, opts *DownloadOptions) (*DownloadResult, error)
	DownloadAsync(ctx context.Context, assetID string, req *Request, opts *DownloadOptions) <-chan Result[*DownloadResult]
	DownloadCallback(ctx context.Context, assetID string, req *Request, opts *DownloadOptions, cb Callback[*DownloadResult])

	// DownloadRendition fetches a named rendition of an asset.
	DownloadRendition(ctx context.Context, assetID, rendition string, req *Request, opts *DownloadOptions) (*DownloadResult, error)

	// DownloadCached routes the download through the request's cache
	// provider: bypass policy may short-circuit the network call, 304
	// responses are served from the cache, and fresh downloads are
	// handed to the provider for storage.
	DownloadCached(ctx context.Context, assetID string, req *Request, opts *DownloadOptions) (*DownloadResult, error)

	// DownloadImage is DownloadCached over an image provider, yielding
	// the decoded image.
	DownloadImage(ctx context.Context, assetID, rendition string, req *Request, opts *DownloadOptions) (*ImageResult, error)
}

// PublishingClient submits and tracks publish jobs (management scope).
type PublishingClient interface {
	// Submit starts a publish or unpublish job.
	Submit(ctx context.Context, req *Request, job *PublishJobRequest) (*PublishJob, error)
	SubmitAsync(ctx context.Context, req *Request, job *PublishJobRequest) <-chan Result[*PublishJob]
	SubmitCallback(ctx context.Context, req *Request, job *PublishJobRequest, cb Callback[*PublishJob])

	// GetJob reads a job's current state.
	GetJob(ctx context.Context, jobID string, req *Request) (*PublishJob, error)

	// PollJob polls until the job reaches a terminal state. A failed job
	// surfaces ErrJobFailed.
	PollJob(ctx context.Context, jobID string, req *Request, opts *PollOptions) (*PublishJob, error)
}

// Client is the root of the SDK surface.
type Client interface {
	Items() ItemsClient
	Taxonomies() TaxonomiesClient
	Assets() AssetsClient
	Publishing() PublishingClient
}
