package cms_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/meridian-io/cms/pkg/cms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestFileCacheProvider_StoreAndFind(t *testing.T) {
	t.Parallel()

	provider, err := cms.NewFileCacheProvider(t.TempDir(), cms.BypassServerCallOnFoundItem)
	require.NoError(t, err)

	assert.Equal(t, cms.BypassServerCallOnFoundItem, provider.CachePolicy())

	_, found := provider.Find("asset-1")
	assert.False(t, found)

	source := writeTempFile(t, "asset.pdf", "document body")

	headers := http.Header{}
	headers.Set("Etag", `"v1"`)
	headers.Set("Last-Modified", "Fri, 15 Mar 2024 10:30:00 GMT")

	location, err := provider.Store(source, "asset-1", headers)
	require.NoError(t, err)
	require.NotEmpty(t, location)

	// Store moves the file into the cache directory.
	assert.NoFileExists(t, source)
	assert.Equal(t, ".pdf", filepath.Ext(location))

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "document body", string(data))

	found2, ok := provider.Find("asset-1")
	require.True(t, ok)
	assert.Equal(t, location, found2)

	cached, err := provider.CachedItem("asset-1")
	require.NoError(t, err)
	assert.Equal(t, location, cached)
}

func TestFileCacheProvider_HeaderReplay(t *testing.T) {
	t.Parallel()

	provider, err := cms.NewFileCacheProvider(t.TempDir(), cms.AlwaysFetchWithCustomHeader)
	require.NoError(t, err)

	source := writeTempFile(t, "asset.bin", "payload")

	headers := http.Header{}
	headers.Set("Etag", `"v7"`)
	headers.Set("Last-Modified", "Fri, 15 Mar 2024 10:30:00 GMT")

	_, err = provider.Store(source, "asset-2", headers)
	require.NoError(t, err)

	replay := provider.HeaderValues("asset-2")
	assert.Equal(t, `"v7"`, replay["If-None-Match"])
	assert.Equal(t, "Fri, 15 Mar 2024 10:30:00 GMT", replay["If-Modified-Since"])

	// Unknown keys replay nothing.
	assert.Empty(t, provider.HeaderValues("unknown"))
}

func TestFileCacheProvider_CachedItemMiss(t *testing.T) {
	t.Parallel()

	provider, err := cms.NewFileCacheProvider(t.TempDir(), cms.BypassServerCallOnFoundItem)
	require.NoError(t, err)

	_, err = provider.CachedItem("missing")
	require.ErrorIs(t, err, cms.ErrNotFoundInCache)
}

func TestFileCacheProvider_FindIgnoresDeletedFile(t *testing.T) {
	t.Parallel()

	provider, err := cms.NewFileCacheProvider(t.TempDir(), cms.BypassServerCallOnFoundItem)
	require.NoError(t, err)

	source := writeTempFile(t, "asset.bin", "payload")

	location, err := provider.Store(source, "asset-3", http.Header{})
	require.NoError(t, err)

	require.NoError(t, os.Remove(location))

	_, found := provider.Find("asset-3")
	assert.False(t, found)
}

func TestMemoryCacheProvider(t *testing.T) {
	t.Parallel()

	provider := cms.NewMemoryCacheProvider(cms.AlwaysFetchWithCustomHeader)

	assert.Equal(t, cms.AlwaysFetchWithCustomHeader, provider.CachePolicy())

	_, found := provider.Find("asset-1")
	assert.False(t, found)

	headers := http.Header{}
	headers.Set("Etag", `"v2"`)

	location, err := provider.Store("/tmp/asset-1.bin", "asset-1", headers)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/asset-1.bin", location)

	found2, ok := provider.Find("asset-1")
	require.True(t, ok)
	assert.Equal(t, "/tmp/asset-1.bin", found2)

	assert.Equal(t, `"v2"`, provider.HeaderValues("asset-1")["If-None-Match"])

	_, err = provider.CachedItem("missing")
	require.ErrorIs(t, err, cms.ErrNotFoundInCache)
}
