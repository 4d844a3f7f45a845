package cms

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
)

const (
	cacheDirPerm  = 0o750
	cacheFilePerm = 0o600
)

// FileCacheProvider is an on-disk CacheProvider. Downloaded files are
// stored under a root directory keyed by a hash of the cache key, with a
// sidecar JSON file recording conditional-request headers (ETag,
// Last-Modified) replayed on later requests.
type FileCacheProvider struct {
	root   string
	policy CachePolicy
	mu     sync.Mutex
}

type cacheSidecar struct {
	Location string            `json:"location"`
	Headers  map[string]string `json:"headers,omitempty"`
}

// NewFileCacheProvider creates a file cache rooted at dir.
func NewFileCacheProvider(dir string, policy CachePolicy) (*FileCacheProvider, error) {
	if err := os.MkdirAll(dir, cacheDirPerm); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &FileCacheProvider{root: dir, policy: policy}, nil
}

// CachePolicy implements CacheProvider.
func (p *FileCacheProvider) CachePolicy() CachePolicy {
	return p.policy
}

// Find implements CacheProvider.
func (p *FileCacheProvider) Find(key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sidecar, err := p.readSidecar(key)
	if err != nil {
		return "", false
	}

	if _, err := os.Stat(sidecar.Location); err != nil {
		return "", false
	}

	return sidecar.Location, true
}

// CachedItem implements CacheProvider.
func (p *FileCacheProvider) CachedItem(key string) (string, error) {
	location, ok := p.Find(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFoundInCache, key)
	}

	return location, nil
}

// Store implements CacheProvider: the source file is moved into the
// cache directory and validator headers are remembered for replay.
func (p *FileCacheProvider) Store(source, key string, headers http.Header) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	location := filepath.Join(p.root, hashKey(key)+filepath.Ext(source))

	if err := moveFile(source, location); err != nil {
		return "", fmt.Errorf("storing cached file: %w", err)
	}

	sidecar := cacheSidecar{Location: location, Headers: map[string]string{}}
	if etag := headers.Get("Etag"); etag != "" {
		sidecar.Headers["If-None-Match"] = etag
	}

	if modified := headers.Get("Last-Modified"); modified != "" {
		sidecar.Headers["If-Modified-Since"] = modified
	}

	if err := p.writeSidecar(key, sidecar); err != nil {
		return "", err
	}

	return location, nil
}

// HeaderValues implements CacheProvider.
func (p *FileCacheProvider) HeaderValues(key string) map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()

	sidecar, err := p.readSidecar(key)
	if err != nil {
		return nil
	}

	return sidecar.Headers
}

func (p *FileCacheProvider) sidecarPath(key string) string {
	return filepath.Join(p.root, hashKey(key)+".cache.json")
}

func (p *FileCacheProvider) readSidecar(key string) (*cacheSidecar, error) {
	data, err := os.ReadFile(p.sidecarPath(key))
	if err != nil {
		return nil, fmt.Errorf("reading cache sidecar: %w", err)
	}

	var sidecar cacheSidecar

	err = json.Unmarshal(data, &sidecar)
	if err != nil {
		return nil, fmt.Errorf("parsing cache sidecar: %w", err)
	}

	return &sidecar, nil
}

func (p *FileCacheProvider) writeSidecar(key string, sidecar cacheSidecar) error {
	data, err := json.Marshal(sidecar)
	if err != nil {
		return fmt.Errorf("encoding cache sidecar: %w", err)
	}

	err = os.WriteFile(p.sidecarPath(key), data, cacheFilePerm)
	if err != nil {
		return fmt.Errorf("writing cache sidecar: %w", err)
	}

	return nil
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:16])
}

// moveFile renames source to dest, falling back to copy+remove across
// filesystems.
func moveFile(source, dest string) error {
	if err := os.Rename(source, dest); err == nil {
		return nil
	}

	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, cacheFilePerm)
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	_, err = io.Copy(out, in)
	if err != nil {
		_ = out.Close()

		return fmt.Errorf("copying file: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("closing destination: %w", err)
	}

	return os.Remove(source)
}
