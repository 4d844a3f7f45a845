// Package cmsclient provides the main entry point for creating content
// API clients.
package cmsclient

import (
	"fmt"
	"strings"

	"github.com/meridian-io/cms/internal/client"
	"github.com/meridian-io/cms/pkg/cms"
)

// New creates a content API client from config. The endpoint is
// normalized: a trailing slash is trimmed and "https://" is assumed when
// no scheme is present.
func New(config *cms.Config) (cms.Client, error) {
	if config == nil {
		return nil, cms.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, cms.ErrEndpointRequired
	}

	endpoint := strings.TrimSuffix(config.Endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	config.Endpoint = endpoint

	if config.APIVersion == "" {
		config.APIVersion = cms.DefaultVersion
	}

	concrete, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return concrete, nil
}
