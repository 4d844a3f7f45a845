package cms

import (
	"errors"
	"fmt"
)

// CacheType represents the type of cache backend.
type CacheType string

const (
	// CacheTypeFile stores downloads on disk under a root directory.
	CacheTypeFile CacheType = "file"

	// CacheTypeMemory keeps locations in memory only.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS records cache entries in a NATS JetStream KV bucket.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone disables caching.
	CacheTypeNone CacheType = "none"
)

// Static errors for err113 compliance.
var (
	ErrNATSConfigRequired   = errors.New("NATS configuration required for NATS cache")
	ErrFileCacheDirRequired = errors.New("directory required for file cache")
	ErrUnsupportedCacheType = errors.New("unsupported cache type")
)

// CacheConfig configures a cache provider backend.
type CacheConfig struct {
	// Type is the cache backend type.
	Type CacheType

	// Policy applied to the constructed provider.
	Policy CachePolicy

	// Directory roots the file backend.
	Directory string

	// NATS configures the NATS KV backend.
	NATS *NATSKVConfig
}

// DefaultCacheConfig returns the default cache configuration: an
// in-memory provider under the always-fetch policy.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Type:   CacheTypeMemory,
		Policy: AlwaysFetchWithCustomHeader,
	}
}

// NewCacheProviderFromConfig creates a cache provider from
// configuration. CacheTypeNone yields a nil provider.
func NewCacheProviderFromConfig(config *CacheConfig) (CacheProvider, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	switch config.Type {
	case CacheTypeFile:
		if config.Directory == "" {
			return nil, ErrFileCacheDirRequired
		}

		return NewFileCacheProvider(config.Directory, config.Policy)

	case CacheTypeMemory:
		return NewMemoryCacheProvider(config.Policy), nil

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVCacheProvider(config.NATS, config.Policy)

	case CacheTypeNone:
		return nil, nil //nolint:nilnil // Absent provider disables caching.

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}
