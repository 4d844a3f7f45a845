package cms

import "context"

// ListFunc fetches one listing page using the given request parameters.
type ListFunc[T any] func(ctx context.Context, req *Request) (*ListResponse[T], error)

// Paginator drives "fetch next" pagination over one Request. State lives
// on the Request itself: hasMore starts true, and after each successful
// fetch the offset advances by the server-reported count while hasMore
// takes the server-reported value. A response without pagination
// metadata leaves the cursor unchanged.
//
// A Paginator is not safe for concurrent use; callers must serialize
// FetchNext calls.
type Paginator[T any] struct {
	req  *Request
	list ListFunc[T]
}

// NewPaginator creates a paginator over req backed by list.
func NewPaginator[T any](req *Request, list ListFunc[T]) *Paginator[T] {
	return &Paginator[T]{req: req, list: list}
}

// HasMore reports whether another page may exist.
func (p *Paginator[T]) HasMore() bool {
	return p.req.HasMore()
}

// FetchNext fetches the next page. When the server has already reported
// the end of the listing it fails immediately with ErrNoMoreData and no
// network call is made.
func (p *Paginator[T]) FetchNext(ctx context.Context) (*ListResponse[T], error) {
	if !p.req.HasMore() {
		return nil, ErrNoMoreData
	}

	page, err := p.list(ctx, p.req)
	if err != nil {
		return nil, err
	}

	p.req.advance(page.Count, page.HasMore)

	return page, nil
}

// FetchNextAsync is the future-style adapter over FetchNext.
func (p *Paginator[T]) FetchNextAsync(ctx context.Context) <-chan Result[*ListResponse[T]] {
	return Async(ctx, p.FetchNext)
}

// FetchNextCallback is the callback-style adapter over FetchNext.
func (p *Paginator[T]) FetchNextCallback(ctx context.Context, cb Callback[*ListResponse[T]]) {
	Notify(ctx, p.FetchNext, cb)
}
