// Package client implements the cms.Client service objects on top of the
// transport layer.
package client

import (
	"net/http"

	"github.com/meridian-io/cms/internal/transport"
	"github.com/meridian-io/cms/pkg/cms"
)

// Client implements the cms.Client interface.
type Client struct {
	config   *cms.Config
	endpoint string
	logger   cms.Logger

	items      *ItemsClient
	taxonomies *TaxonomiesClient
	assets     *AssetsClient
	publishing *PublishingClient
}

// New creates a client from config. The config must already be
// normalized (see pkg/cmsclient).
func New(config *cms.Config) (*Client, error) {
	if config == nil {
		return nil, cms.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, cms.ErrEndpointRequired
	}

	client := &Client{
		config:   config,
		endpoint: config.Endpoint,
		logger:   config.Logger,
	}

	client.items = &ItemsClient{c: client}
	client.taxonomies = &TaxonomiesClient{c: client}
	client.assets = &AssetsClient{c: client}
	client.publishing = &PublishingClient{c: client}

	return client, nil
}

// Items implements cms.Client.Items.
func (c *Client) Items() cms.ItemsClient {
	return c.items
}

// Taxonomies implements cms.Client.Taxonomies.
func (c *Client) Taxonomies() cms.TaxonomiesClient {
	return c.taxonomies
}

// Assets implements cms.Client.Assets.
func (c *Client) Assets() cms.AssetsClient {
	return c.assets
}

// Publishing implements cms.Client.Publishing.
func (c *Client) Publishing() cms.PublishingClient {
	return c.publishing
}

// transportFor builds a fresh transport for one terminal invocation.
// Transports are never shared across calls, so there is no shared
// mutable transport state to synchronize.
func (c *Client) transportFor(req *cms.Request, bypassCache bool) *transport.Client {
	opts := []transport.Option{
		transport.WithInterceptors(c.config.Interceptors),
	}

	if c.logger != nil {
		opts = append(opts, transport.WithLogger(c.logger))
	}

	if c.config.Debug {
		opts = append(opts, transport.WithDebug(true))
	}

	if c.config.UserAgent != "" {
		opts = append(opts, transport.WithUserAgent(c.config.UserAgent))
	}

	if c.config.RetryMax > 0 {
		waitMin := c.config.RetryWaitMin
		waitMax := c.config.RetryWaitMax
		opts = append(opts, transport.WithRetryConfig(c.config.RetryMax, waitMin, waitMax))
	}

	if c.config.RateLimit > 0 {
		opts = append(opts, transport.WithRateLimit(c.config.RateLimit, c.config.RateBurst))
	}

	if c.config.HTTPTimeout > 0 {
		opts = append(opts, transport.WithTimeout(c.config.HTTPTimeout))
	}

	if session := c.sessionFor(req, bypassCache); session != nil {
		opts = append(opts, transport.WithSession(session))
	}

	return transport.NewClient(opts...)
}

// sessionFor picks the HTTP session: per-request override first, then
// the cache-bypassing variant for cached downloads, then the default.
func (c *Client) sessionFor(req *cms.Request, bypassCache bool) *http.Client {
	if req != nil && req.Session() != nil {
		return req.Session()
	}

	if bypassCache && c.config.CacheBypassHTTPClient != nil {
		return c.config.CacheBypassHTTPClient
	}

	return c.config.HTTPClient
}
