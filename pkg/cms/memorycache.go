package cms

import (
	"fmt"
	"image"
	"net/http"
	"os"
	"sync"

	// Register the decoders the image provider understands.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// MemoryCacheProvider keeps cached file locations and header values in
// memory. It relies on the downloaded files remaining on disk for the
// lifetime of the entries; useful for tests and short-lived processes.
type MemoryCacheProvider struct {
	policy  CachePolicy
	mu      sync.Mutex
	entries map[string]cacheSidecar
}

// NewMemoryCacheProvider creates an empty in-memory cache provider.
func NewMemoryCacheProvider(policy CachePolicy) *MemoryCacheProvider {
	return &MemoryCacheProvider{
		policy:  policy,
		entries: make(map[string]cacheSidecar),
	}
}

// CachePolicy implements CacheProvider.
func (p *MemoryCacheProvider) CachePolicy() CachePolicy {
	return p.policy
}

// Find implements CacheProvider.
func (p *MemoryCacheProvider) Find(key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[key]
	if !ok {
		return "", false
	}

	return entry.Location, true
}

// CachedItem implements CacheProvider.
func (p *MemoryCacheProvider) CachedItem(key string) (string, error) {
	location, ok := p.Find(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFoundInCache, key)
	}

	return location, nil
}

// Store implements CacheProvider.
func (p *MemoryCacheProvider) Store(source, key string, headers http.Header) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry := cacheSidecar{Location: source, Headers: map[string]string{}}
	if etag := headers.Get("Etag"); etag != "" {
		entry.Headers["If-None-Match"] = etag
	}

	p.entries[key] = entry

	return source, nil
}

// HeaderValues implements CacheProvider.
func (p *MemoryCacheProvider) HeaderValues(key string) map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.entries[key].Headers
}

// MemoryImageProvider is an ImageProvider holding decoded images in
// memory.
type MemoryImageProvider struct {
	policy  CachePolicy
	mu      sync.Mutex
	images  map[string]image.Image
	headers map[string]map[string]string
}

// NewMemoryImageProvider creates an empty in-memory image provider.
func NewMemoryImageProvider(policy CachePolicy) *MemoryImageProvider {
	return &MemoryImageProvider{
		policy:  policy,
		images:  make(map[string]image.Image),
		headers: make(map[string]map[string]string),
	}
}

// CachePolicy implements ImageProvider.
func (p *MemoryImageProvider) CachePolicy() CachePolicy {
	return p.policy
}

// Find implements ImageProvider.
func (p *MemoryImageProvider) Find(key string) (image.Image, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	img, ok := p.images[key]

	return img, ok
}

// CachedItem implements ImageProvider.
func (p *MemoryImageProvider) CachedItem(key string) (image.Image, error) {
	img, ok := p.Find(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFoundInCache, key)
	}

	return img, nil
}

// Store implements ImageProvider: the downloaded file is decoded into an
// in-memory image and retained under key. The source file is removed
// once decoded.
func (p *MemoryImageProvider) Store(source, key string, headers http.Header) (image.Image, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("opening downloaded image: %w", err)
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.images[key] = img

	replay := map[string]string{}
	if etag := headers.Get("Etag"); etag != "" {
		replay["If-None-Match"] = etag
	}

	p.headers[key] = replay

	_ = os.Remove(source)

	return img, nil
}

// HeaderValues implements ImageProvider.
func (p *MemoryImageProvider) HeaderValues(key string) map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.headers[key]
}
