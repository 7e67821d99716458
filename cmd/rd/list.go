package main

import (
	"context"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/aggregate"
	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
)

const defaultLimit = 25

type listFlags struct {
	sort   string
	page   int
	limit  int
	all    bool
	fields []string
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().String("sort", "", "Sort order: "+strings.Join(raindrop.ValidSorts, ", "))
	cmd.Flags().Int("page", 0, "Page number (0-based)")
	cmd.Flags().Int("limit", defaultLimit, "Items per page (max 50)")
	cmd.Flags().Bool("all", false, "Fetch every page")
	cmd.Flags().String("fields", "", "Comma-separated bookmark fields to keep (e.g. id,title,link)")
}

func readListFlags(cmd *cobra.Command) (listFlags, error) {
	var lf listFlags
	lf.sort, _ = cmd.Flags().GetString("sort")
	lf.page, _ = cmd.Flags().GetInt("page")
	lf.limit, _ = cmd.Flags().GetInt("limit")
	lf.all, _ = cmd.Flags().GetBool("all")
	fields, _ := cmd.Flags().GetString("fields")

	if lf.sort != "" && !slices.Contains(raindrop.ValidSorts, lf.sort) {
		return lf, clierr.InvalidArgs("invalid sort %q", lf.sort).
			WithSuggest("Valid sorts: " + strings.Join(raindrop.ValidSorts, ", "))
	}
	if lf.page < 0 {
		return lf, clierr.InvalidArgs("--page must not be negative")
	}
	if lf.limit < 1 || lf.limit > raindrop.MaxPerPage {
		return lf, clierr.InvalidArgs("--limit must be between 1 and %d", raindrop.MaxPerPage).
			WithSuggest("Use --all to fetch every page")
	}
	if lf.all && cmd.Flags().Changed("page") {
		return lf, clierr.InvalidArgs("--page and --all cannot be combined")
	}

	var err error
	lf.fields, err = parseFields(fields)
	return lf, err
}

// listBookmarks fetches one page, or every page with --all, and shapes
// the result with the listing meta.
func (a *app) listBookmarks(ctx context.Context, collection int64, search string, lf listFlags) envelope.Result {
	c, err := a.client()
	if err != nil {
		return envelope.Failure(err)
	}

	var (
		items []raindrop.Raindrop
		meta  = map[string]any{"collection": collection}
	)
	if lf.sort != "" {
		meta["sort"] = lf.sort
	}
	if search != "" {
		meta["search"] = search
	}

	if lf.all {
		res, err := aggregate.Exhaustive(ctx, bookmarkPager(c, collection, search, lf.sort), aggregate.Options{PageSize: raindrop.MaxPerPage})
		if err != nil {
			return envelope.Failure(err)
		}
		items = res.Items
		meta["pages"] = res.Pages
		if res.Truncated {
			meta["truncated"] = true
		}
	} else {
		page, err := c.ListRaindrops(ctx, collection, raindrop.ListOptions{Search: search, Sort: lf.sort, Page: lf.page, PerPage: lf.limit})
		if err != nil {
			return envelope.Failure(err)
		}
		items = page.Items
		meta["page"] = lf.page
		if page.Total >= 0 {
			meta["total"] = page.Total
		}
	}
	meta["count"] = len(items)

	data, err := projectBookmarks(items, lf.fields)
	if err != nil {
		return envelope.Failure(err)
	}
	r := envelope.Success(data)
	r.Meta = meta
	return r
}

func bookmarkPager(c *raindrop.Client, collection int64, search, sort string) aggregate.FetchFunc[raindrop.Raindrop] {
	return func(ctx context.Context, page, perPage int) (aggregate.Page[raindrop.Raindrop], error) {
		p, err := c.ListRaindrops(ctx, collection, raindrop.ListOptions{Search: search, Sort: sort, Page: page, PerPage: perPage})
		if err != nil {
			return aggregate.Page[raindrop.Raindrop]{}, err
		}
		return aggregate.Page[raindrop.Raindrop]{Items: p.Items, Total: p.Total}, nil
	}
}
