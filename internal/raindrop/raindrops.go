package raindrop

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/steveyegge/rd/internal/clierr"
)

// Sort orders accepted by the list endpoint.
const (
	SortRelevance  = "score"
	SortNewest     = "-created"
	SortOldest     = "created"
	SortLastUpdate = "-lastUpdate"
	SortTitle      = "title"
	SortTitleDesc  = "-title"
	SortDomain     = "domain"
	SortDomainDesc = "-domain"
	SortManual     = "-sort"
)

// ValidSorts lists every sort value the list endpoint understands.
var ValidSorts = []string{SortRelevance, SortNewest, SortOldest, SortLastUpdate, "lastUpdate", SortTitle, SortTitleDesc, SortDomain, SortDomainDesc, SortManual}

// ListOptions controls a bookmark listing.
type ListOptions struct {
	Search  string
	Sort    string
	Page    int
	PerPage int
}

func (o ListOptions) query() map[string]string {
	q := map[string]string{
		"search": o.Search,
		"sort":   o.Sort,
		"page":   strconv.Itoa(o.Page),
	}
	if o.PerPage > 0 {
		q["perpage"] = strconv.Itoa(o.PerPage)
	}
	return q
}

// withNotFound rewrites a NotFound failure with a resource-specific message.
func withNotFound(err error, format string, args ...any) error {
	if ce, ok := clierr.As(err); ok && ce.Code == clierr.CodeNotFound {
		cp := *ce
		cp.Message = fmt.Sprintf(format, args...)
		return &cp
	}
	return err
}

// ListRaindrops fetches one page of bookmarks from a collection.
func (c *Client) ListRaindrops(ctx context.Context, collectionID int64, opts ListOptions) (*RaindropPage, error) {
	resp, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/raindrops/%d", collectionID), opts.query(), nil)
	if err != nil {
		return nil, withNotFound(err, "collection %d not found", collectionID)
	}
	items, total, err := decodeItems[Raindrop](resp, "raindrops")
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].normalize()
	}
	return &RaindropPage{Items: items, Total: total}, nil
}

// GetRaindrop fetches a single bookmark.
func (c *Client) GetRaindrop(ctx context.Context, id int64) (*Raindrop, error) {
	resp, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/raindrop/%d", id), nil, nil)
	if err != nil {
		return nil, withNotFound(err, "bookmark %d not found", id)
	}
	item, err := decodeItem[Raindrop](resp, "raindrop")
	if err != nil {
		return nil, err
	}
	item.normalize()
	return item, nil
}

// CreateRaindrop creates a single bookmark.
func (c *Client) CreateRaindrop(ctx context.Context, in RaindropInput) (*Raindrop, error) {
	resp, err := c.Request(ctx, http.MethodPost, "/raindrop", nil, in)
	if err != nil {
		return nil, err
	}
	item, err := decodeItem[Raindrop](resp, "create raindrop")
	if err != nil {
		return nil, err
	}
	item.normalize()
	return item, nil
}

// CreateRaindrops creates up to MaxBatchSize bookmarks in one request.
func (c *Client) CreateRaindrops(ctx context.Context, items []RaindropInput) ([]Raindrop, error) {
	if len(items) > MaxBatchSize {
		return nil, clierr.InvalidArgs("batch of %d exceeds the maximum of %d", len(items), MaxBatchSize)
	}
	resp, err := c.Request(ctx, http.MethodPost, "/raindrops", nil, map[string]any{"items": items})
	if err != nil {
		return nil, err
	}
	created, _, err := decodeItems[Raindrop](resp, "create raindrops")
	if err != nil {
		return nil, err
	}
	for i := range created {
		created[i].normalize()
	}
	return created, nil
}

// UpdateRaindrop updates a single bookmark.
func (c *Client) UpdateRaindrop(ctx context.Context, id int64, patch RaindropPatch) (*Raindrop, error) {
	resp, err := c.Request(ctx, http.MethodPut, fmt.Sprintf("/raindrop/%d", id), nil, patch)
	if err != nil {
		return nil, withNotFound(err, "bookmark %d not found", id)
	}
	item, err := decodeItem[Raindrop](resp, "update raindrop")
	if err != nil {
		return nil, err
	}
	item.normalize()
	return item, nil
}

// UpdateRaindrops applies a bulk update to up to MaxBatchSize bookmarks and
// returns the upstream modified count (-1 when not reported).
func (c *Client) UpdateRaindrops(ctx context.Context, collectionID int64, update BulkUpdate) (int, error) {
	if len(update.IDs) > MaxBatchSize {
		return 0, clierr.InvalidArgs("batch of %d exceeds the maximum of %d", len(update.IDs), MaxBatchSize)
	}
	resp, err := c.Request(ctx, http.MethodPut, fmt.Sprintf("/raindrops/%d", collectionID), nil, update)
	if err != nil {
		return 0, err
	}
	return decodeModified(resp, "update raindrops")
}

// DeleteRaindrop moves a bookmark to the trash, or removes it permanently
// when it is already there.
func (c *Client) DeleteRaindrop(ctx context.Context, id int64) error {
	resp, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/raindrop/%d", id), nil, nil)
	if err != nil {
		return withNotFound(err, "bookmark %d not found", id)
	}
	return decodeResult(resp, "delete raindrop")
}

// DeleteRaindrops removes up to MaxBatchSize bookmarks from a collection.
// Deleting from CollectionTrash is permanent.
func (c *Client) DeleteRaindrops(ctx context.Context, collectionID int64, ids []int64) (int, error) {
	if len(ids) > MaxBatchSize {
		return 0, clierr.InvalidArgs("batch of %d exceeds the maximum of %d", len(ids), MaxBatchSize)
	}
	resp, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/raindrops/%d", collectionID), nil, map[string]any{"ids": ids})
	if err != nil {
		return 0, err
	}
	return decodeModified(resp, "delete raindrops")
}

// SuggestForURL asks for collection and tag suggestions for a new link.
func (c *Client) SuggestForURL(ctx context.Context, link string) (*Suggestion, error) {
	resp, err := c.Request(ctx, http.MethodPost, "/raindrop/suggest", nil, map[string]string{"link": link})
	if err != nil {
		return nil, err
	}
	s, err := decodeItem[Suggestion](resp, "suggest")
	if err != nil {
		return nil, err
	}
	s.normalize()
	return s, nil
}

// SuggestForRaindrop asks for suggestions for an existing bookmark.
func (c *Client) SuggestForRaindrop(ctx context.Context, id int64) (*Suggestion, error) {
	resp, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/raindrop/%d/suggest", id), nil, nil)
	if err != nil {
		return nil, withNotFound(err, "bookmark %d not found", id)
	}
	s, err := decodeItem[Suggestion](resp, "suggest")
	if err != nil {
		return nil, err
	}
	s.normalize()
	return s, nil
}

func (s *Suggestion) normalize() {
	if s.Collections == nil {
		s.Collections = []Ref{}
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
}

// ExistsURLs checks which of the given URLs are already saved.
func (c *Client) ExistsURLs(ctx context.Context, urls []string) (*ExistsResult, error) {
	resp, err := c.Request(ctx, http.MethodPost, "/import/url/exists", nil, map[string]any{"urls": urls})
	if err != nil {
		return nil, err
	}
	return decodeExists(resp)
}
