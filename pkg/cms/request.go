package cms

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// APIVersion selects the API version segment of request URLs.
type APIVersion string

const (
	V1  APIVersion = "v1"
	V11 APIVersion = "v1.1"

	// DefaultVersion is used when neither the config nor the request
	// names a version.
	DefaultVersion = V11
)

// Scope selects the base path a request is issued against.
type Scope int

const (
	// ScopePublished reads published content through channel-token
	// scoped endpoints. Requests carry no Authorization header.
	ScopePublished Scope = iota

	// ScopePreview reads targeted (not yet published) content. Requests
	// carry no Authorization header but require a preview channel token.
	ScopePreview

	// ScopeManagement addresses management endpoints. Requests keep the
	// Authorization header.
	ScopeManagement
)

func (s Scope) basePath() string {
	switch s {
	case ScopePreview:
		return "/content/preview/api"
	case ScopeManagement:
		return "/content/management/api"
	default:
		return "/content/published/api"
	}
}

// RequiresAuth reports whether requests in this scope keep the
// Authorization header.
func (s Scope) RequiresAuth() bool {
	return s == ScopeManagement
}

// HeaderProvider supplies default headers attached to every request.
type HeaderProvider interface {
	Headers() map[string]string
}

// HeaderMap is a fixed HeaderProvider.
type HeaderMap map[string]string

// Headers implements HeaderProvider.
func (h HeaderMap) Headers() map[string]string {
	return h
}

// Request holds all configurable request state for one service object:
// version, scope, query parameters, headers, pagination cursor, and
// per-call overrides. Builder methods return the receiver for chaining.
// A Request is exclusively owned by its service object and is not safe
// for concurrent use.
type Request struct {
	version APIVersion
	scope   Scope

	params  map[string]func() string
	headers map[string]string

	offset    int
	limit     int
	offsetSet bool
	limitSet  bool
	hasMore   bool

	baseURL        string
	headerProvider HeaderProvider
	session        *http.Client

	cacheProvider CacheProvider
	imageProvider ImageProvider
	cacheKey      string
}

// NewRequest creates an empty request with the pagination cursor in its
// initial state (hasMore true).
func NewRequest() *Request {
	return &Request{
		params:  make(map[string]func() string),
		headers: make(map[string]string),
		hasMore: true,
	}
}

// WithVersion sets the API version segment.
func (r *Request) WithVersion(version APIVersion) *Request {
	r.version = version

	return r
}

// WithScope selects published, preview, or management endpoints.
func (r *Request) WithScope(scope Scope) *Request {
	r.scope = scope

	return r
}

// WithChannelToken scopes the request to a publishing channel.
func (r *Request) WithChannelToken(token string) *Request {
	return r.WithParameter("channelToken", token)
}

// WithFields selects the fields returned for each resource.
func (r *Request) WithFields(fields ...string) *Request {
	return r.WithParameter("fields", strings.Join(fields, ","))
}

// WithLinks selects the links returned for each resource.
func (r *Request) WithLinks(links ...string) *Request {
	return r.WithParameter("links", strings.Join(links, ","))
}

// WithSortBy sets the sort order, e.g. "name:asc".
func (r *Request) WithSortBy(order string) *Request {
	return r.WithParameter("orderBy", order)
}

// WithTotalResults asks the server to include the total result count in
// listing responses.
func (r *Request) WithTotalResults(include bool) *Request {
	return r.WithParameter("totalResults", strconv.FormatBool(include))
}

// WithFilter attaches a filter-query expression.
func (r *Request) WithFilter(node QueryNode) *Request {
	if node.IsZero() {
		return r
	}

	return r.WithParameter("q", node.String())
}

// WithParameter sets an arbitrary query parameter. Setting the same key
// twice overwrites the earlier value.
func (r *Request) WithParameter(key, value string) *Request {
	r.params[key] = func() string { return value }

	return r
}

// WithParameterFunc sets a query parameter whose value is produced at
// URL-build time.
func (r *Request) WithParameterFunc(key string, produce func() string) *Request {
	r.params[key] = produce

	return r
}

// WithHeader adds a header to the outgoing request.
func (r *Request) WithHeader(key, value string) *Request {
	r.headers[key] = value

	return r
}

// WithOffset sets the pagination offset.
func (r *Request) WithOffset(offset int) *Request {
	r.offset = offset
	r.offsetSet = true

	return r
}

// WithLimit sets the pagination page size.
func (r *Request) WithLimit(limit int) *Request {
	r.limit = limit
	r.limitSet = true

	return r
}

// WithBaseURL overrides the client's endpoint for this request.
func (r *Request) WithBaseURL(baseURL string) *Request {
	r.baseURL = strings.TrimSuffix(baseURL, "/")

	return r
}

// WithHeaderProvider overrides the client's default header provider.
func (r *Request) WithHeaderProvider(provider HeaderProvider) *Request {
	r.headerProvider = provider

	return r
}

// WithSession overrides the HTTP session used for this request.
func (r *Request) WithSession(session *http.Client) *Request {
	r.session = session

	return r
}

// WithCacheProvider attaches a cache provider for cached downloads.
func (r *Request) WithCacheProvider(provider CacheProvider) *Request {
	r.cacheProvider = provider

	return r
}

// WithImageProvider attaches an image provider for image downloads.
func (r *Request) WithImageProvider(provider ImageProvider) *Request {
	r.imageProvider = provider

	return r
}

// WithCacheKey sets the cache key used by cached and image downloads.
func (r *Request) WithCacheKey(key string) *Request {
	r.cacheKey = key

	return r
}

// Accessors used by the execution pipeline.

// Scope returns the request scope.
func (r *Request) Scope() Scope { return r.scope }

// Version returns the configured version, or fallback when unset.
func (r *Request) Version(fallback APIVersion) APIVersion {
	if r.version != "" {
		return r.version
	}

	if fallback != "" {
		return fallback
	}

	return DefaultVersion
}

// HasMore reports whether more listing pages remain.
func (r *Request) HasMore() bool { return r.hasMore }

// Offset returns the current pagination offset.
func (r *Request) Offset() int { return r.offset }

// Limit returns the configured page size, or 0 when unset.
func (r *Request) Limit() int { return r.limit }

// HasParameter reports whether a query parameter is set.
func (r *Request) HasParameter(key string) bool {
	_, ok := r.params[key]

	return ok
}

// Headers returns the additional headers set on the request.
func (r *Request) Headers() map[string]string { return r.headers }

// HeaderProvider returns the override header provider, if any.
func (r *Request) HeaderProvider() HeaderProvider { return r.headerProvider }

// Session returns the override HTTP session, if any.
func (r *Request) Session() *http.Client { return r.session }

// CacheProvider returns the attached cache provider, if any.
func (r *Request) CacheProvider() CacheProvider { return r.cacheProvider }

// ImageProvider returns the attached image provider, if any.
func (r *Request) ImageProvider() ImageProvider { return r.imageProvider }

// CacheKey returns the cache key, or fallback when unset.
func (r *Request) CacheKey(fallback string) string {
	if r.cacheKey != "" {
		return r.cacheKey
	}

	return fallback
}

// BuildURL composes endpoint + base path + version segment + service
// suffix + query items. Query items are sorted by parameter key so URLs
// are deterministic. The endpoint argument is the client's configured
// endpoint; a per-request WithBaseURL override wins.
func (r *Request) BuildURL(endpoint string, defaultVersion APIVersion, suffix string) (string, error) {
	base := endpoint
	if r.baseURL != "" {
		base = r.baseURL
	}

	if base == "" {
		return "", ErrEndpointRequired
	}

	var builder strings.Builder

	builder.WriteString(strings.TrimSuffix(base, "/"))
	builder.WriteString(r.scope.basePath())
	builder.WriteString("/")
	builder.WriteString(string(r.Version(defaultVersion)))

	if suffix != "" {
		builder.WriteString("/")
		builder.WriteString(strings.TrimPrefix(suffix, "/"))
	}

	query := r.queryValues()
	if len(query) > 0 {
		builder.WriteString("?")
		// url.Values.Encode sorts by key.
		builder.WriteString(query.Encode())
	}

	return builder.String(), nil
}

func (r *Request) queryValues() url.Values {
	values := url.Values{}

	for key, produce := range r.params {
		values.Set(key, produce())
	}

	if r.offsetSet {
		values.Set("offset", strconv.Itoa(r.offset))
	}

	if r.limitSet {
		values.Set("limit", strconv.Itoa(r.limit))
	}

	return values
}

// advance recomputes the pagination cursor from server-reported listing
// metadata. The offset only ever grows; absent or negative metadata
// leaves the cursor unchanged.
func (r *Request) advance(count *int, hasMore *bool) {
	if count != nil && *count >= 0 {
		r.offset += *count
		r.offsetSet = true
	}

	if hasMore != nil {
		r.hasMore = *hasMore
	}
}
