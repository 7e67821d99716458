package main

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/raindrop"
)

// bookmarkFields maps accepted --fields names to bookmark JSON keys.
var bookmarkFields = map[string]string{
	"_id":        "_id",
	"id":         "_id",
	"link":       "link",
	"url":        "link",
	"title":      "title",
	"excerpt":    "excerpt",
	"note":       "note",
	"type":       "type",
	"tags":       "tags",
	"cover":      "cover",
	"domain":     "domain",
	"created":    "created",
	"lastUpdate": "lastUpdate",
	"updated":    "lastUpdate",
	"important":  "important",
	"collection": "collection",
	"highlights": "highlights",
}

// parseFields resolves a --fields list to JSON keys. An empty list means
// no projection.
func parseFields(s string) ([]string, error) {
	var keys []string
	seen := map[string]bool{}
	for _, name := range splitList(s) {
		key, ok := bookmarkFields[name]
		if !ok {
			key, ok = bookmarkFields[strings.ToLower(name)]
		}
		if !ok {
			return nil, clierr.InvalidArgs("unknown field %q", name).
				WithSuggest("Valid fields: " + strings.Join(fieldNames(), ", "))
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func fieldNames() []string {
	names := make([]string, 0, len(bookmarkFields))
	for name := range bookmarkFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// projectBookmarks keeps only keys of each bookmark. Keys the bookmark
// leaves out are reported as null. A nil keys list returns items as is.
func projectBookmarks(items []raindrop.Raindrop, keys []string) (any, error) {
	if len(keys) == 0 {
		return items, nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		var full map[string]any
		if err := json.Unmarshal(raw, &full); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(keys))
		for _, k := range keys {
			row[k] = full[k]
		}
		out = append(out, row)
	}
	return out, nil
}

func projectBookmark(item *raindrop.Raindrop, keys []string) (any, error) {
	if len(keys) == 0 {
		return item, nil
	}
	rows, err := projectBookmarks([]raindrop.Raindrop{*item}, keys)
	if err != nil {
		return nil, err
	}
	return rows.([]map[string]any)[0], nil
}
