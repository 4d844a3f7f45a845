package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/meridian-io/cms/internal/constants"
	"github.com/meridian-io/cms/internal/transport"
	"github.com/meridian-io/cms/pkg/cms"
)

// AssetsClient implements cms.AssetsClient. The three download variants
// (plain, cache-provider, image-provider) are mutually exclusive per
// call.
type AssetsClient struct {
	c *Client
}

// Download implements cms.AssetsClient.Download.
func (a *AssetsClient) Download(ctx context.Context, assetID string, req *cms.Request, opts *cms.DownloadOptions) (*cms.DownloadResult, error) {
	if err := requireID("asset id", assetID); err != nil {
		return nil, err
	}

	return a.download(ctx, nativeSuffix(assetID), req, opts)
}

// DownloadAsync implements cms.AssetsClient.DownloadAsync.
func (a *AssetsClient) DownloadAsync(ctx context.Context, assetID string, req *cms.Request, opts *cms.DownloadOptions) <-chan cms.Result[*cms.DownloadResult] {
	return cms.Async(ctx, func(ctx context.Context) (*cms.DownloadResult, error) {
		return a.Download(ctx, assetID, req, opts)
	})
}

// DownloadCallback implements cms.AssetsClient.DownloadCallback.
func (a *AssetsClient) DownloadCallback(ctx context.Context, assetID string, req *cms.Request, opts *cms.DownloadOptions, cb cms.Callback[*cms.DownloadResult]) {
	cms.Notify(ctx, func(ctx context.Context) (*cms.DownloadResult, error) {
		return a.Download(ctx, assetID, req, opts)
	}, cb)
}

// DownloadRendition implements cms.AssetsClient.DownloadRendition.
func (a *AssetsClient) DownloadRendition(ctx context.Context, assetID, rendition string, req *cms.Request, opts *cms.DownloadOptions) (*cms.DownloadResult, error) {
	if err := requireID("asset id", assetID); err != nil {
		return nil, err
	}

	if err := requireID("rendition name", rendition); err != nil {
		return nil, err
	}

	return a.download(ctx, renditionSuffix(assetID, rendition), req, opts)
}

// DownloadCached implements cms.AssetsClient.DownloadCached.
func (a *AssetsClient) DownloadCached(ctx context.Context, assetID string, req *cms.Request, opts *cms.DownloadOptions) (*cms.DownloadResult, error) {
	if err := requireID("asset id", assetID); err != nil {
		return nil, err
	}

	if req == nil {
		req = cms.NewRequest()
	}

	provider := a.providerFor(req)
	if provider == nil {
		return nil, cms.ErrMissingCacheProvider
	}

	key := req.CacheKey(assetID)

	// Bypass policy: a cache hit short-circuits the network call.
	if provider.CachePolicy() == cms.BypassServerCallOnFoundItem {
		if location, ok := provider.Find(key); ok {
			return &cms.DownloadResult{Location: location, Headers: http.Header{}}, nil
		}
	}

	location, headers, err := a.fetchFile(ctx, nativeSuffix(assetID), req, opts, provider.HeaderValues(key), true)

	switch {
	case err == nil:
		stored, storeErr := provider.Store(location, key, headers)
		if storeErr != nil {
			return nil, fmt.Errorf("storing download in cache: %w", storeErr)
		}

		if stored == "" {
			return nil, cms.ErrNoURLFromCacheProvider
		}

		return &cms.DownloadResult{Location: stored, Headers: headers}, nil

	case errors.Is(err, cms.ErrNotModified):
		// The provider either serves the cached item or its failure
		// propagates directly; there is no fallback network call.
		cached, cacheErr := provider.CachedItem(key)
		if cacheErr != nil {
			return nil, cacheErr //nolint:wrapcheck // Provider errors surface as-is.
		}

		if cached == "" {
			return nil, cms.ErrNoURLFromCacheProvider
		}

		return &cms.DownloadResult{Location: cached, Headers: headers}, nil

	default:
		return nil, err
	}
}

// DownloadImage implements cms.AssetsClient.DownloadImage. Structurally
// identical to DownloadCached but the provider yields a decoded image.
func (a *AssetsClient) DownloadImage(ctx context.Context, assetID, rendition string, req *cms.Request, opts *cms.DownloadOptions) (*cms.ImageResult, error) {
	if err := requireID("asset id", assetID); err != nil {
		return nil, err
	}

	if req == nil {
		req = cms.NewRequest()
	}

	provider := a.imageProviderFor(req)
	if provider == nil {
		return nil, cms.ErrMissingImageProvider
	}

	suffix := nativeSuffix(assetID)
	key := req.CacheKey(assetID)

	if rendition != "" {
		suffix = renditionSuffix(assetID, rendition)
		key = req.CacheKey(assetID + "/" + rendition)
	}

	if provider.CachePolicy() == cms.BypassServerCallOnFoundItem {
		if img, ok := provider.Find(key); ok {
			return &cms.ImageResult{Image: img, Headers: http.Header{}}, nil
		}
	}

	location, headers, err := a.fetchFile(ctx, suffix, req, opts, provider.HeaderValues(key), true)

	switch {
	case err == nil:
		img, storeErr := provider.Store(location, key, headers)
		if storeErr != nil {
			return nil, fmt.Errorf("storing downloaded image: %w", storeErr)
		}

		if img == nil {
			return nil, cms.ErrNoImageFromProvider
		}

		return &cms.ImageResult{Image: img, Headers: headers}, nil

	case errors.Is(err, cms.ErrNotModified):
		img, cacheErr := provider.CachedItem(key)
		if cacheErr != nil {
			return nil, cacheErr //nolint:wrapcheck // Provider errors surface as-is.
		}

		return &cms.ImageResult{Image: img, Headers: headers}, nil

	default:
		return nil, err
	}
}

// download is the plain variant: fetch to the stable temporary location
// and optionally move into the requested storage directory.
func (a *AssetsClient) download(ctx context.Context, suffix string, req *cms.Request, opts *cms.DownloadOptions) (*cms.DownloadResult, error) {
	location, headers, err := a.fetchFile(ctx, suffix, req, opts, nil, false)
	if err != nil {
		return nil, err
	}

	if opts != nil && opts.StorageDirectory != "" {
		stored, moveErr := moveIntoDirectory(location, opts.StorageDirectory)
		if moveErr != nil {
			return nil, moveErr
		}

		location = stored
	}

	return &cms.DownloadResult{Location: location, Headers: headers}, nil
}

// fetchFile drives the transport download primitive.
func (a *AssetsClient) fetchFile(ctx context.Context, suffix string, req *cms.Request, opts *cms.DownloadOptions, extraHeaders map[string]string, bypassCache bool) (string, http.Header, error) {
	httpReq, err := a.c.buildRequest(ctx, http.MethodGet, req, suffix, nil)
	if err != nil {
		return "", nil, err
	}

	spec := transport.DownloadSpec{ExtraHeaders: extraHeaders}
	if opts != nil {
		spec.SuggestedName = opts.FileName
		spec.Progress = opts.Progress
	}

	return a.c.transportFor(req, bypassCache).Download(ctx, httpReq, spec)
}

func (a *AssetsClient) providerFor(req *cms.Request) cms.CacheProvider {
	if provider := req.CacheProvider(); provider != nil {
		return provider
	}

	return a.c.config.CacheProvider
}

func (a *AssetsClient) imageProviderFor(req *cms.Request) cms.ImageProvider {
	if provider := req.ImageProvider(); provider != nil {
		return provider
	}

	return a.c.config.ImageProvider
}

func nativeSuffix(assetID string) string {
	return "assets/" + url.PathEscape(assetID) + "/native"
}

func renditionSuffix(assetID, rendition string) string {
	return "assets/" + url.PathEscape(assetID) + "/renditions/" + url.PathEscape(rendition)
}

// moveIntoDirectory relocates a downloaded file, creating the directory
// as needed. A failed move surfaces ErrCouldNotStoreDownload and leaves
// the temporary file in place.
func moveIntoDirectory(location, dir string) (string, error) {
	err := os.MkdirAll(dir, constants.DownloadDirPerm)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cms.ErrCouldNotStoreDownload, err)
	}

	dest := filepath.Join(dir, filepath.Base(location))

	err = os.Rename(location, dest)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cms.ErrCouldNotStoreDownload, err)
	}

	return dest, nil
}
