package transport

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/meridian-io/cms/internal/constants"
	"github.com/meridian-io/cms/pkg/cms"
)

type options struct {
	logger       Logger
	debug        bool
	userAgent    string
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	timeout      time.Duration
	session      *http.Client
	limiter      limiter
	interceptors *cms.InterceptorChain
}

func defaultOptions() options {
	return options{
		retryMax:     constants.DefaultRetryMax,
		retryWaitMin: constants.DefaultRetryWaitMin,
		retryWaitMax: constants.DefaultRetryWaitMax,
		timeout:      constants.DefaultHTTPTimeout,
	}
}

// Option configures a transport client.
type Option func(*options)

// WithLogger sets the logger used for debug and warning events.
func WithLogger(logger Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(o *options) { o.userAgent = userAgent }
}

// WithRetryConfig tunes transport-level retries of transient failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(o *options) {
		o.retryMax = retryMax
		o.retryWaitMin = waitMin
		o.retryWaitMax = waitMax
	}
}

// WithTimeout sets the session timeout when no custom session is given.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

// WithSession supplies the HTTP session to execute against.
func WithSession(session *http.Client) Option {
	return func(o *options) { o.session = session }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		if rps > 0 {
			o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithInterceptors attaches an interceptor chain.
func WithInterceptors(chain *cms.InterceptorChain) Option {
	return func(o *options) { o.interceptors = chain }
}
