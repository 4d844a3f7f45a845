package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/meridian-io/cms/pkg/cms"
)

// ItemsClient implements cms.ItemsClient.
type ItemsClient struct {
	c *Client
}

// List implements cms.ItemsClient.List.
func (i *ItemsClient) List(ctx context.Context, req *cms.Request) (*cms.ItemList, error) {
	return fetchList[cms.Item](ctx, i.c, req, "items")
}

// ListAsync implements cms.ItemsClient.ListAsync.
func (i *ItemsClient) ListAsync(ctx context.Context, req *cms.Request) <-chan cms.Result[*cms.ItemList] {
	return cms.Async(ctx, func(ctx context.Context) (*cms.ItemList, error) {
		return i.List(ctx, req)
	})
}

// ListCallback implements cms.ItemsClient.ListCallback.
func (i *ItemsClient) ListCallback(ctx context.Context, req *cms.Request, cb cms.Callback[*cms.ItemList]) {
	cms.Notify(ctx, func(ctx context.Context) (*cms.ItemList, error) {
		return i.List(ctx, req)
	}, cb)
}

// Paginate implements cms.ItemsClient.Paginate. The returned paginator
// mutates req's cursor; calls must be serialized by the caller.
func (i *ItemsClient) Paginate(req *cms.Request) *cms.Paginator[cms.Item] {
	if req == nil {
		req = cms.NewRequest()
	}

	return cms.NewPaginator(req, func(ctx context.Context, req *cms.Request) (*cms.ItemList, error) {
		return i.List(ctx, req)
	})
}

// Get implements cms.ItemsClient.Get.
func (i *ItemsClient) Get(ctx context.Context, id string, req *cms.Request) (*cms.Item, error) {
	if err := requireID("item id", id); err != nil {
		return nil, err
	}

	return fetchOne[cms.Item](ctx, i.c, req, "items/"+url.PathEscape(id))
}

// GetAsync implements cms.ItemsClient.GetAsync.
func (i *ItemsClient) GetAsync(ctx context.Context, id string, req *cms.Request) <-chan cms.Result[*cms.Item] {
	return cms.Async(ctx, func(ctx context.Context) (*cms.Item, error) {
		return i.Get(ctx, id, req)
	})
}

// GetCallback implements cms.ItemsClient.GetCallback.
func (i *ItemsClient) GetCallback(ctx context.Context, id string, req *cms.Request, cb cms.Callback[*cms.Item]) {
	cms.Notify(ctx, func(ctx context.Context) (*cms.Item, error) {
		return i.Get(ctx, id, req)
	}, cb)
}

// GetBySlug implements cms.ItemsClient.GetBySlug.
func (i *ItemsClient) GetBySlug(ctx context.Context, slug string, req *cms.Request) (*cms.Item, error) {
	if err := requireID("item slug", slug); err != nil {
		return nil, err
	}

	return fetchOne[cms.Item](ctx, i.c, req, "items/.by.slug/"+url.PathEscape(slug))
}

// GetRaw implements cms.ItemsClient.GetRaw: the payload is returned
// undecoded and the status is not classified, for callers needing full
// control.
func (i *ItemsClient) GetRaw(ctx context.Context, id string, req *cms.Request) ([]byte, error) {
	if err := requireID("item id", id); err != nil {
		return nil, err
	}

	resp, err := i.c.executeRaw(ctx, http.MethodGet, req, "items/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// Poll implements cms.ItemsClient.Poll. The parsed-poll path waits
// opts.Interval (default 2s) between attempts; any fetch error other
// than an unmet predicate terminates polling immediately.
func (i *ItemsClient) Poll(ctx context.Context, id string, req *cms.Request, complete func(*cms.Item) bool, opts *cms.PollOptions) (*cms.Item, error) {
	if err := requireID("item id", id); err != nil {
		return nil, err
	}

	attempts, interval, timeout := pollSettings(opts)
	ctx, cancel := withPollTimeout(ctx, timeout)

	defer cancel()

	return retryPoll(ctx, attempts, interval, func(ctx context.Context) (*cms.Item, error) {
		item, err := i.Get(ctx, id, req)
		if err != nil {
			return nil, err
		}

		if !complete(item) {
			return nil, cms.ErrPollingNotCompleted
		}

		return item, nil
	})
}

// PollRaw implements cms.ItemsClient.PollRaw. Unlike Poll it retries
// with no inter-attempt delay; the asymmetry is deliberate and callers
// wanting pacing should bound it with opts.Timeout or the context.
func (i *ItemsClient) PollRaw(ctx context.Context, id string, req *cms.Request, complete func([]byte) bool, opts *cms.PollOptions) ([]byte, error) {
	if err := requireID("item id", id); err != nil {
		return nil, err
	}

	attempts, _, timeout := pollSettings(opts)
	ctx, cancel := withPollTimeout(ctx, timeout)

	defer cancel()

	return retryPoll(ctx, attempts, 0, func(ctx context.Context) ([]byte, error) {
		raw, err := i.GetRaw(ctx, id, req)
		if err != nil {
			return nil, err
		}

		if !complete(raw) {
			return nil, cms.ErrPollingNotCompleted
		}

		return raw, nil
	})
}

func withPollTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}

	return context.WithCancel(ctx)
}
