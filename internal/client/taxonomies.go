package client

import (
	"context"
	"net/url"

	"github.com/meridian-io/cms/pkg/cms"
)

// TaxonomiesClient implements cms.TaxonomiesClient.
type TaxonomiesClient struct {
	c *Client
}

// List implements cms.TaxonomiesClient.List.
func (t *TaxonomiesClient) List(ctx context.Context, req *cms.Request) (*cms.TaxonomyList, error) {
	return fetchList[cms.Taxonomy](ctx, t.c, req, "taxonomies")
}

// ListAsync implements cms.TaxonomiesClient.ListAsync.
func (t *TaxonomiesClient) ListAsync(ctx context.Context, req *cms.Request) <-chan cms.Result[*cms.TaxonomyList] {
	return cms.Async(ctx, func(ctx context.Context) (*cms.TaxonomyList, error) {
		return t.List(ctx, req)
	})
}

// Get implements cms.TaxonomiesClient.Get.
func (t *TaxonomiesClient) Get(ctx context.Context, id string, req *cms.Request) (*cms.Taxonomy, error) {
	if err := requireID("taxonomy id", id); err != nil {
		return nil, err
	}

	return fetchOne[cms.Taxonomy](ctx, t.c, req, "taxonomies/"+url.PathEscape(id))
}

// Categories implements cms.TaxonomiesClient.Categories.
func (t *TaxonomiesClient) Categories(ctx context.Context, taxonomyID string, req *cms.Request) (*cms.CategoryList, error) {
	if err := requireID("taxonomy id", taxonomyID); err != nil {
		return nil, err
	}

	return fetchList[cms.Category](ctx, t.c, req, "taxonomies/"+url.PathEscape(taxonomyID)+"/categories")
}

// PaginateCategories implements cms.TaxonomiesClient.PaginateCategories.
func (t *TaxonomiesClient) PaginateCategories(taxonomyID string, req *cms.Request) (*cms.Paginator[cms.Category], error) {
	if err := requireID("taxonomy id", taxonomyID); err != nil {
		return nil, err
	}

	if req == nil {
		req = cms.NewRequest()
	}

	return cms.NewPaginator(req, func(ctx context.Context, req *cms.Request) (*cms.CategoryList, error) {
		return t.Categories(ctx, taxonomyID, req)
	}), nil
}
