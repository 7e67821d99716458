package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/aggregate"
	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
)

func (a *app) newHighlightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "highlights [id]",
		GroupID: "organize",
		Short:   "List highlights of a bookmark, a collection or the whole account",
		Run:     a.handle(a.runHighlights),
	}
	cmd.Flags().String("collection", "all", "Collection id, or all")
	cmd.Flags().Int("page", 0, "Page number (0-based)")
	cmd.Flags().Int("limit", defaultLimit, "Items per page (max 50)")
	cmd.Flags().Bool("all", false, "Fetch every page")
	return cmd
}

func (a *app) runHighlights(ctx context.Context, cmd *cobra.Command, args []string) envelope.Result {
	if len(args) > 1 {
		return envelope.Failure(clierr.InvalidArgs("expected at most one bookmark id, got %d arguments", len(args)))
	}
	if len(args) == 1 {
		if cmd.Flags().Changed("collection") {
			return envelope.Failure(clierr.InvalidArgs("--collection cannot be combined with a bookmark id"))
		}
		id, err := parseID(args[0])
		if err != nil {
			return envelope.Failure(err)
		}
		c, err := a.client()
		if err != nil {
			return envelope.Failure(err)
		}
		item, err := c.GetRaindrop(ctx, id)
		if err != nil {
			return envelope.Failure(err)
		}
		hl := item.Highlights
		if hl == nil {
			hl = []raindrop.Highlight{}
		}
		return envelope.Success(hl).WithMeta("count", len(hl)).WithMeta("bookmark", id)
	}

	collFlag, _ := cmd.Flags().GetString("collection")
	collection, err := parseCollection(collFlag)
	if err != nil {
		return envelope.Failure(err)
	}
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	all, _ := cmd.Flags().GetBool("all")
	if page < 0 {
		return envelope.Failure(clierr.InvalidArgs("--page must not be negative"))
	}
	if limit < 1 || limit > raindrop.MaxPerPage {
		return envelope.Failure(clierr.InvalidArgs("--limit must be between 1 and %d", raindrop.MaxPerPage))
	}

	c, err := a.client()
	if err != nil {
		return envelope.Failure(err)
	}
	if !all {
		hl, err := c.Highlights(ctx, collection, page, limit)
		if err != nil {
			return envelope.Failure(err)
		}
		return envelope.Success(hl).WithMeta("count", len(hl)).WithMeta("page", page)
	}

	res, err := aggregate.Exhaustive(ctx, func(ctx context.Context, page, perPage int) (aggregate.Page[raindrop.Highlight], error) {
		hl, err := c.Highlights(ctx, collection, page, perPage)
		return aggregate.Page[raindrop.Highlight]{Items: hl, Total: -1}, err
	}, aggregate.Options{PageSize: raindrop.MaxPerPage})
	if err != nil {
		return envelope.Failure(err)
	}
	r := envelope.Success(res.Items).WithMeta("count", len(res.Items)).WithMeta("pages", res.Pages)
	if res.Truncated {
		r = r.WithMeta("truncated", true)
	}
	return r
}
