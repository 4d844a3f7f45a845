package cms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/nats-io/nats.go"
)

// NATSKVConfig configures the NATS-backed cache provider.
type NATSKVConfig struct {
	// URL is the NATS server URL, e.g. nats://localhost:4222.
	URL string

	// Bucket is the JetStream key-value bucket name.
	Bucket string

	// CredsFile is an optional credentials file for authentication.
	CredsFile string
}

// NATSKVCacheProvider stores cache entries (file locations plus replay
// headers) in a NATS JetStream key-value bucket, so multiple processes
// sharing a filesystem can share one download cache.
type NATSKVCacheProvider struct {
	conn   *nats.Conn
	kv     nats.KeyValue
	policy CachePolicy
}

// NewNATSKVCacheProvider connects to NATS and binds (creating when
// necessary) the configured bucket.
func NewNATSKVCacheProvider(config *NATSKVConfig, policy CachePolicy) (*NATSKVCacheProvider, error) {
	if config == nil || config.URL == "" || config.Bucket == "" {
		return nil, fmt.Errorf("%w: NATS URL and bucket are required", ErrInvalidRequest)
	}

	var opts []nats.Option
	if config.CredsFile != "" {
		opts = append(opts, nats.UserCredentials(config.CredsFile))
	}

	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("getting JetStream context: %w", err)
	}

	kv, err := js.KeyValue(config.Bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{Bucket: config.Bucket})
	}

	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("binding KV bucket: %w", err)
	}

	return &NATSKVCacheProvider{conn: conn, kv: kv, policy: policy}, nil
}

// Close releases the NATS connection.
func (p *NATSKVCacheProvider) Close() {
	p.conn.Close()
}

// CachePolicy implements CacheProvider.
func (p *NATSKVCacheProvider) CachePolicy() CachePolicy {
	return p.policy
}

// Find implements CacheProvider.
func (p *NATSKVCacheProvider) Find(key string) (string, bool) {
	entry, err := p.read(key)
	if err != nil {
		return "", false
	}

	if _, err := os.Stat(entry.Location); err != nil {
		return "", false
	}

	return entry.Location, true
}

// CachedItem implements CacheProvider.
func (p *NATSKVCacheProvider) CachedItem(key string) (string, error) {
	location, ok := p.Find(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFoundInCache, key)
	}

	return location, nil
}

// Store implements CacheProvider. The file stays where the transport
// left it; only its location and validators are recorded in the bucket.
func (p *NATSKVCacheProvider) Store(source, key string, headers http.Header) (string, error) {
	entry := cacheSidecar{Location: source, Headers: map[string]string{}}
	if etag := headers.Get("Etag"); etag != "" {
		entry.Headers["If-None-Match"] = etag
	}

	if modified := headers.Get("Last-Modified"); modified != "" {
		entry.Headers["If-Modified-Since"] = modified
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("encoding cache entry: %w", err)
	}

	_, err = p.kv.Put(hashKey(key), data)
	if err != nil {
		return "", fmt.Errorf("writing cache entry: %w", err)
	}

	return source, nil
}

// HeaderValues implements CacheProvider.
func (p *NATSKVCacheProvider) HeaderValues(key string) map[string]string {
	entry, err := p.read(key)
	if err != nil {
		return nil
	}

	return entry.Headers
}

func (p *NATSKVCacheProvider) read(key string) (*cacheSidecar, error) {
	raw, err := p.kv.Get(hashKey(key))
	if err != nil {
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	var entry cacheSidecar

	err = json.Unmarshal(raw.Value(), &entry)
	if err != nil {
		return nil, fmt.Errorf("parsing cache entry: %w", err)
	}

	return &entry, nil
}
