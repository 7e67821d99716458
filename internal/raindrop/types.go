package raindrop

import (
	"encoding/json"
	"time"
)

// Ref is Raindrop's {"$id": n} reference object.
type Ref struct {
	ID int64 `json:"$id"`
}

// Raindrop is a bookmark.
type Raindrop struct {
	ID         int64       `json:"_id"`
	Link       string      `json:"link"`
	Title      string      `json:"title"`
	Excerpt    string      `json:"excerpt,omitempty"`
	Note       string      `json:"note,omitempty"`
	Type       string      `json:"type,omitempty"` // link, article, image, video, document, audio
	Tags       []string    `json:"tags"`
	Cover      string      `json:"cover,omitempty"`
	Domain     string      `json:"domain,omitempty"`
	Created    time.Time   `json:"created"`
	LastUpdate time.Time   `json:"lastUpdate"`
	Important  bool        `json:"important"`
	Collection Ref         `json:"collection"`
	Highlights []Highlight `json:"highlights,omitempty"`
}

func (r *Raindrop) normalize() {
	if r.Tags == nil {
		r.Tags = []string{}
	}
}

// RaindropInput is the body for creating a bookmark.
type RaindropInput struct {
	Link        string    `json:"link"`
	Title       string    `json:"title,omitempty"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Note        string    `json:"note,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Important   bool      `json:"important,omitempty"`
	Collection  *Ref      `json:"collection,omitempty"`
	PleaseParse *struct{} `json:"pleaseParse,omitempty"`
}

// RaindropPatch is the body for updating one bookmark. Nil fields are left
// unchanged upstream. Tags, when set, replaces the whole tag set.
type RaindropPatch struct {
	Link       *string   `json:"link,omitempty"`
	Title      *string   `json:"title,omitempty"`
	Excerpt    *string   `json:"excerpt,omitempty"`
	Note       *string   `json:"note,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	Important  *bool     `json:"important,omitempty"`
	Collection *Ref      `json:"collection,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p RaindropPatch) Empty() bool {
	return p.Link == nil && p.Title == nil && p.Excerpt == nil && p.Note == nil &&
		p.Tags == nil && p.Important == nil && p.Collection == nil
}

// BulkUpdate is the body for updating many bookmarks at once. Tags are
// appended to each bookmark's existing tags.
type BulkUpdate struct {
	IDs        []int64  `json:"ids"`
	Tags       []string `json:"tags,omitempty"`
	Important  *bool    `json:"important,omitempty"`
	Collection *Ref     `json:"collection,omitempty"`
}

// RaindropPage is one page of a bookmark listing.
type RaindropPage struct {
	Items []Raindrop
	// Total is the upstream-reported result count, or -1 when absent.
	Total int
}

// Collection is a bookmark folder.
type Collection struct {
	ID         int64     `json:"_id"`
	Title      string    `json:"title"`
	Count      int       `json:"count"`
	Parent     *Ref      `json:"parent,omitempty"`
	Public     bool      `json:"public"`
	View       string    `json:"view,omitempty"`
	Expanded   bool      `json:"expanded"`
	Created    time.Time `json:"created"`
	LastUpdate time.Time `json:"lastUpdate"`
}

// CollectionInput is the body for creating or updating a collection.
type CollectionInput struct {
	Title  string `json:"title,omitempty"`
	Parent *Ref   `json:"parent,omitempty"`
	Public *bool  `json:"public,omitempty"`
	View   string `json:"view,omitempty"`
}

// Tag is a tag with its usage count.
type Tag struct {
	Name  string `json:"_id"`
	Count int    `json:"count"`
}

// User is the authenticated account.
type User struct {
	ID         int64  `json:"_id"`
	Email      string `json:"email,omitempty"`
	FullName   string `json:"fullName,omitempty"`
	Pro        bool   `json:"pro"`
	Registered string `json:"registered,omitempty"`
}

// CollectionCount is one entry of the account statistics.
type CollectionCount struct {
	ID    int64 `json:"_id"`
	Count int   `json:"count"`
}

// Stats summarises the account.
type Stats struct {
	Collections []CollectionCount `json:"items"`
	Meta        json.RawMessage   `json:"meta,omitempty"`
}

// Highlight is a text highlight inside a bookmark.
type Highlight struct {
	ID          string    `json:"_id"`
	Text        string    `json:"text"`
	Note        string    `json:"note,omitempty"`
	Color       string    `json:"color,omitempty"`
	Created     time.Time `json:"created"`
	RaindropRef int64     `json:"raindropRef,omitempty"`
	Link        string    `json:"link,omitempty"`
	Title       string    `json:"title,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// Suggestion holds suggested collections and tags for a link.
type Suggestion struct {
	Collections []Ref    `json:"collections"`
	Tags        []string `json:"tags"`
}

// Duplicate is an existing bookmark matching a looked-up URL.
type Duplicate struct {
	ID   int64  `json:"_id"`
	Link string `json:"link"`
}

// ExistsResult is the answer of the URL existence check.
type ExistsResult struct {
	IDs        []int64     `json:"ids"`
	Duplicates []Duplicate `json:"duplicates"`
}
