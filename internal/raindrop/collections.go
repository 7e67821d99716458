package raindrop

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// Collections fetches root collections followed by nested ones.
func (c *Client) Collections(ctx context.Context) ([]Collection, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/collections", nil, nil)
	if err != nil {
		return nil, err
	}
	roots, _, err := decodeItems[Collection](resp, "collections")
	if err != nil {
		return nil, err
	}

	resp, err = c.Request(ctx, http.MethodGet, "/collections/childrens", nil, nil)
	if err != nil {
		return nil, err
	}
	children, _, err := decodeItems[Collection](resp, "child collections")
	if err != nil {
		return nil, err
	}

	return append(roots, children...), nil
}

// CreateCollection creates a collection.
func (c *Client) CreateCollection(ctx context.Context, in CollectionInput) (*Collection, error) {
	resp, err := c.Request(ctx, http.MethodPost, "/collection", nil, in)
	if err != nil {
		return nil, withNotFound(err, "parent collection not found")
	}
	return decodeItem[Collection](resp, "create collection")
}

// UpdateCollection updates a collection.
func (c *Client) UpdateCollection(ctx context.Context, id int64, in CollectionInput) (*Collection, error) {
	resp, err := c.Request(ctx, http.MethodPut, fmt.Sprintf("/collection/%d", id), nil, in)
	if err != nil {
		return nil, withNotFound(err, "collection %d not found", id)
	}
	return decodeItem[Collection](resp, "update collection")
}

// DeleteCollection removes a collection. Nested collections go with it and
// its bookmarks move to the trash; both happen upstream.
func (c *Client) DeleteCollection(ctx context.Context, id int64) error {
	resp, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/collection/%d", id), nil, nil)
	if err != nil {
		return withNotFound(err, "collection %d not found", id)
	}
	return decodeResult(resp, "delete collection")
}

// Tags lists tags across all bookmarks, or within one collection when
// collectionID is non-nil.
func (c *Client) Tags(ctx context.Context, collectionID *int64) ([]Tag, error) {
	path := "/tags"
	if collectionID != nil {
		path = fmt.Sprintf("/tags/%d", *collectionID)
	}
	resp, err := c.Request(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		if collectionID != nil {
			return nil, withNotFound(err, "collection %d not found", *collectionID)
		}
		return nil, err
	}
	tags, _, err := decodeItems[Tag](resp, "tags")
	return tags, err
}

// Highlights fetches one page of highlights, across all bookmarks or within
// a collection (CollectionAll means every collection).
func (c *Client) Highlights(ctx context.Context, collectionID int64, page, perPage int) ([]Highlight, error) {
	path := "/highlights"
	if collectionID != CollectionAll {
		path = fmt.Sprintf("/highlights/%d", collectionID)
	}
	q := map[string]string{"page": strconv.Itoa(page)}
	if perPage > 0 {
		q["perpage"] = strconv.Itoa(perPage)
	}
	resp, err := c.Request(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, withNotFound(err, "collection %d not found", collectionID)
	}
	items, _, err := decodeItems[Highlight](resp, "highlights")
	return items, err
}

// User fetches the authenticated account.
func (c *Client) User(ctx context.Context) (*User, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/user", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeUser(resp)
}

// Stats fetches per-collection bookmark counts for the account.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/user/stats", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeStats(resp)
}
