package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meridian-io/cms/pkg/cms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, config *cms.Config, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	if config == nil {
		config = &cms.Config{}
	}

	config.Endpoint = server.URL

	client, err := New(config)
	require.NoError(t, err)

	return client, server
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.ErrorIs(t, err, cms.ErrConfigRequired)

	_, err = New(&cms.Config{})
	require.ErrorIs(t, err, cms.ErrEndpointRequired)
}

func TestItems_Get_BuildsFullURL(t *testing.T) {
	t.Parallel()

	var (
		gotPath  string
		gotQuery string
		gotAuth  string
	)

	client, _ := newTestClient(t, &cms.Config{ChannelToken: "abc", AccessToken: "secret"}, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")

		_, _ = w.Write([]byte(`{"id": "123", "name": "home"}`))
	})

	req := cms.NewRequest().WithParameter("expand", "all")

	item, err := client.Items().Get(context.Background(), "123", req)
	require.NoError(t, err)

	assert.Equal(t, "/content/published/api/v1.1/items/123", gotPath)
	assert.Equal(t, "channelToken=abc&expand=all", gotQuery)
	assert.Empty(t, gotAuth, "published-scope requests must not carry Authorization")
	assert.Equal(t, "123", item.ID)
	assert.Equal(t, "home", item.Name)
}

func TestItems_Get_PreviewScope(t *testing.T) {
	t.Parallel()

	var gotPath string

	client, _ := newTestClient(t, &cms.Config{ChannelToken: "abc"}, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		_, _ = w.Write([]byte(`{"id": "123"}`))
	})

	_, err := client.Items().Get(context.Background(), "123", cms.NewRequest().WithScope(cms.ScopePreview))
	require.NoError(t, err)
	assert.Equal(t, "/content/preview/api/v1.1/items/123", gotPath)
}

func TestItems_Get_RequiresID(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no network call expected")
	})

	_, err := client.Items().Get(context.Background(), "", nil)

	invalidURL := &cms.InvalidURLError{}
	require.ErrorAs(t, err, &invalidURL)
}

func TestItems_Get_NotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"title": "Not Found", "status": 404, "detail": "no such item"}`))
	})

	_, err := client.Items().Get(context.Background(), "missing", nil)
	require.ErrorIs(t, err, cms.ErrNotFound)
	assert.True(t, cms.IsNotFound(err))
}

func TestItems_GetBySlug(t *testing.T) {
	t.Parallel()

	var gotPath string

	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		_, _ = w.Write([]byte(`{"id": "123", "slug": "home"}`))
	})

	item, err := client.Items().GetBySlug(context.Background(), "home", nil)
	require.NoError(t, err)
	assert.Equal(t, "/content/published/api/v1.1/items/.by.slug/home", gotPath)
	assert.Equal(t, "home", item.Slug)
}

func TestItems_GetRaw_SkipsClassification(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"custom": "payload"}`))
	})

	raw, err := client.Items().GetRaw(context.Background(), "123", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"custom": "payload"}`, string(raw))
}

func TestItems_Get_EmptyBody(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.Items().Get(context.Background(), "123", nil)
	require.ErrorIs(t, err, cms.ErrInvalidDataReturned)
}

func TestItems_List(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/content/published/api/v1.1/items", r.URL.Path)

		_, _ = w.Write([]byte(`{
			"items": [{"id": "1", "name": "a"}, {"id": "2", "name": "b"}],
			"count": 2,
			"totalResults": 5,
			"hasMore": true,
			"limit": 2,
			"offset": 0
		}`))
	})

	page, err := client.Items().List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotNil(t, page.Count)
	assert.Equal(t, 2, *page.Count)
	require.NotNil(t, page.HasMore)
	assert.True(t, *page.HasMore)
}

func TestItems_Paginate(t *testing.T) {
	t.Parallel()

	responses := []string{
		`{"items": [{"id": "1"}, {"id": "2"}], "count": 2, "hasMore": true}`,
		`{"items": [{"id": "3"}], "count": 1, "hasMore": false}`,
	}

	var offsets []string

	calls := 0

	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		offsets = append(offsets, r.URL.Query().Get("offset"))
		_, _ = w.Write([]byte(responses[calls]))
		calls++
	})

	pager := client.Items().Paginate(cms.NewRequest())
	ctx := context.Background()

	var ids []string

	for pager.HasMore() {
		page, err := pager.FetchNext(ctx)
		require.NoError(t, err)

		for _, item := range page.Items {
			ids = append(ids, item.ID)
		}
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids)
	// First page carries no offset; the second starts where the first ended.
	assert.Equal(t, []string{"", "2"}, offsets)

	_, err := pager.FetchNext(ctx)
	require.ErrorIs(t, err, cms.ErrNoMoreData)
	assert.Equal(t, 2, calls)
}

func TestItems_ListAsync(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [{"id": "1"}]}`))
	})

	result := <-client.Items().ListAsync(context.Background(), nil)
	require.NoError(t, result.Err)
	assert.Len(t, result.Value.Items, 1)
}

func TestItems_GetCallback(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "123"}`))
	})

	done := make(chan struct{})

	client.Items().GetCallback(context.Background(), "123", nil, func(item *cms.Item, err error) {
		defer close(done)

		assert.NoError(t, err)
		assert.Equal(t, "123", item.ID)
	})

	<-done
}

func TestItems_Poll(t *testing.T) {
	t.Parallel()

	responses := []string{
		`{"id": "123", "status": "draft"}`,
		`{"id": "123", "status": "draft"}`,
		`{"id": "123", "status": "published"}`,
	}

	calls := 0

	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(responses[calls]))
		calls++
	})

	item, err := client.Items().Poll(context.Background(), "123", nil,
		func(item *cms.Item) bool { return item.Status == "published" },
		&cms.PollOptions{Interval: 5 * time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, "published", item.Status)
	assert.Equal(t, 3, calls)
}

func TestItems_Poll_AttemptBudget(t *testing.T) {
	t.Parallel()

	calls := 0

	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"id": "123", "status": "draft"}`))
	})

	_, err := client.Items().Poll(context.Background(), "123", nil,
		func(item *cms.Item) bool { return false },
		&cms.PollOptions{Attempts: cms.Attempts(3), Interval: time.Millisecond})
	require.ErrorIs(t, err, cms.ErrPollingNotCompleted)
	assert.Equal(t, 3, calls)
}

func TestItems_Poll_FetchErrorStopsPolling(t *testing.T) {
	t.Parallel()

	calls := 0

	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Items().Poll(context.Background(), "123", nil,
		func(item *cms.Item) bool { return true },
		&cms.PollOptions{Interval: time.Millisecond})
	require.ErrorIs(t, err, cms.ErrNotFound)
	assert.Equal(t, 1, calls)
}

func TestItems_PollRaw(t *testing.T) {
	t.Parallel()

	responses := []string{`{"phase": "building"}`, `{"phase": "ready"}`}
	calls := 0

	client, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(responses[calls]))
		calls++
	})

	raw, err := client.Items().PollRaw(context.Background(), "123", nil,
		func(raw []byte) bool { return string(raw) == `{"phase": "ready"}` },
		nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase": "ready"}`, string(raw))
	assert.Equal(t, 2, calls)
}
