// Package aggregate implements the multi-request strategies used by rd:
// chunking bulk writes, exhaustive page listing and change-since polling.
package aggregate

import (
	"context"
	"time"

	"github.com/steveyegge/rd/internal/debug"
)

const (
	// DefaultPageSize matches the largest page the list endpoints accept.
	DefaultPageSize = 50
	// DefaultMaxPages bounds a listing against an upstream that never
	// returns a short page.
	DefaultMaxPages = 200
	// DefaultMargin widens the watch cutoff while paging so items that move
	// between page fetches are not missed. It is a heuristic.
	DefaultMargin = 60 * time.Second
)

// Page is one fetched page. Total is the upstream-reported result count,
// or negative when unknown.
type Page[T any] struct {
	Items []T
	Total int
}

// FetchFunc fetches page number page (0-based) of size perPage.
type FetchFunc[T any] func(ctx context.Context, page, perPage int) (Page[T], error)

// Options tunes paging. Zero values select the defaults.
type Options struct {
	PageSize int
	MaxPages int
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.MaxPages <= 0 {
		o.MaxPages = DefaultMaxPages
	}
	return o
}

// Result is the outcome of a paged aggregation.
type Result[T any] struct {
	Items []T
	// Pages is the number of requests issued.
	Pages int
	// Truncated is set when the page ceiling stopped the run early.
	Truncated bool
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// Exhaustive fetches successive pages until a short page, the reported
// total, or the page ceiling. The first failure aborts the run; items
// fetched so far are returned alongside the error.
func Exhaustive[T any](ctx context.Context, fetch FetchFunc[T], opts Options) (Result[T], error) {
	opts = opts.withDefaults()
	res := Result[T]{Items: []T{}}

	for page := 0; page < opts.MaxPages; page++ {
		p, err := fetch(ctx, page, opts.PageSize)
		if err != nil {
			return res, err
		}
		res.Pages++
		res.Items = append(res.Items, p.Items...)

		if len(p.Items) < opts.PageSize {
			return res, nil
		}
		if p.Total >= 0 && len(res.Items) >= p.Total {
			return res, nil
		}
	}

	debug.Logf("aggregate: stopped after %d pages (%d items)\n", res.Pages, len(res.Items))
	res.Truncated = true
	return res, nil
}

// Window is the time window of a change-since poll.
type Window struct {
	Cutoff time.Time
	Margin time.Duration
}

// NewWindow returns a window for cutoff with DefaultMargin.
func NewWindow(cutoff time.Time) Window {
	return Window{Cutoff: cutoff, Margin: DefaultMargin}
}

// Relaxed returns the threshold used while paging.
func (w Window) Relaxed() time.Time {
	return w.Cutoff.Add(-w.Margin)
}

// Item accessors for ChangedSince.
type (
	IDFunc[T any]       func(T) int64
	ModifiedFunc[T any] func(T) time.Time
)

// ChangedSince collects items modified strictly after w.Cutoff. fetch must
// return items newest-modified first. Paging compares against the relaxed
// threshold and dedupes by id; paging stops after the first page holding
// an item at or before that threshold. The strict cutoff is applied last.
func ChangedSince[T any](ctx context.Context, fetch FetchFunc[T], w Window, id IDFunc[T], modified ModifiedFunc[T], opts Options) (Result[T], error) {
	opts = opts.withDefaults()
	relaxed := w.Relaxed()
	seen := make(map[int64]bool)
	var collected []T
	res := Result[T]{Items: []T{}}

	done := false
	for page := 0; page < opts.MaxPages && !done; page++ {
		p, err := fetch(ctx, page, opts.PageSize)
		if err != nil {
			return res, err
		}
		res.Pages++

		for _, item := range p.Items {
			if !modified(item).After(relaxed) {
				done = true
				continue
			}
			key := id(item)
			if seen[key] {
				continue
			}
			seen[key] = true
			collected = append(collected, item)
		}

		if len(p.Items) < opts.PageSize || (p.Total >= 0 && (page+1)*opts.PageSize >= p.Total) {
			done = true
		}
	}
	res.Truncated = !done

	for _, item := range collected {
		if modified(item).After(w.Cutoff) {
			res.Items = append(res.Items, item)
		}
	}
	debug.Logf("aggregate: watch kept %d of %d candidates over %d pages\n", len(res.Items), len(collected), res.Pages)
	return res, nil
}
