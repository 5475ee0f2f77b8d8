package kaggle

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
)

// Catalog implements the dataset catalog port on the Kaggle API.
type Catalog struct {
	client *Client
}

var _ driven.DatasetCatalog = (*Catalog)(nil)

// NewCatalog creates a Kaggle-backed dataset catalog.
func NewCatalog(cfg Config) *Catalog {
	return &Catalog{client: NewClient(cfg)}
}

// Search returns one page of dataset records. Tag queries go through the
// same list endpoint with a "tag:" search prefix; results are always
// sorted by hotness so pagination is stable across a sweep.
func (c *Catalog) Search(ctx context.Context, query domain.CatalogQuery) (domain.CatalogPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("sortBy", "hottest")
	params.Set("page", strconv.Itoa(page))
	if query.Tag != "" {
		params.Set("search", "tag:"+query.Tag)
	} else {
		params.Set("search", query.Text)
	}
	if query.FileType != "" {
		params.Set("filetype", query.FileType)
	}

	var items []listItem
	if err := c.client.get(ctx, "/datasets/list", params, &items); err != nil {
		return domain.CatalogPage{}, err
	}

	records := make([]domain.RawDataset, 0, len(items))
	for _, item := range items {
		raw := item.RawDataset
		if raw.Description == "" {
			raw.Description = item.Subtitle
		}
		records = append(records, raw)
	}

	return domain.CatalogPage{
		Records: records,
		HasMore: len(records) > 0,
	}, nil
}

// ListFiles returns the file listing for an "owner/slug" reference.
func (c *Catalog) ListFiles(ctx context.Context, reference string) ([]domain.DatasetFile, error) {
	owner, slug, ok := strings.Cut(reference, "/")
	if !ok || owner == "" || slug == "" {
		return nil, fmt.Errorf("malformed dataset reference %q: %w", reference, domain.ErrInvalidInput)
	}

	var resp filesResponse
	path := fmt.Sprintf("/datasets/list/%s/%s", url.PathEscape(owner), url.PathEscape(slug))
	if err := c.client.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.ErrorMessage != "" {
		return nil, fmt.Errorf("list files for %s: %s", reference, resp.ErrorMessage)
	}
	return resp.DatasetFiles, nil
}

// Ping issues a minimal list call to verify connectivity and credentials.
func (c *Catalog) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("page", "1")
	var items []listItem
	if err := c.client.get(ctx, "/datasets/list", params, &items); err != nil {
		return fmt.Errorf("catalog ping: %w", err)
	}
	return nil
}
