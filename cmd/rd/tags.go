package main

import (
	"context"
	"sort"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
)

func (a *app) newTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags [collection]",
		GroupID: "organize",
		Short:   "List tags with usage counts",
		Run: a.handle(func(ctx context.Context, cmd *cobra.Command, args []string) envelope.Result {
			collection, err := collectionArg(args)
			if err != nil {
				return envelope.Failure(err)
			}
			order, _ := cmd.Flags().GetString("sort")
			if order != "count" && order != "name" {
				return envelope.Failure(clierr.InvalidArgs("invalid --sort %q: use count or name", order))
			}

			c, err := a.client()
			if err != nil {
				return envelope.Failure(err)
			}
			var scope *int64
			if len(args) == 1 {
				scope = &collection
			}
			tags, err := c.Tags(ctx, scope)
			if err != nil {
				return envelope.Failure(err)
			}
			sortTags(tags, order)
			return envelope.Success(tags).WithMeta("count", len(tags))
		}),
	}
	cmd.Flags().String("sort", "count", "Order: count or name")
	return cmd
}

func sortTags(tags []raindrop.Tag, order string) {
	sort.SliceStable(tags, func(i, j int) bool {
		if order == "name" || tags[i].Count == tags[j].Count {
			return tags[i].Name < tags[j].Name
		}
		return tags[i].Count > tags[j].Count
	})
}
