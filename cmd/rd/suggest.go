package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
)

func (a *app) newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "suggest <url|id>",
		GroupID: "bookmarks",
		Short:   "Suggest collections and tags for a URL or saved bookmark",
		Run: a.handle(func(ctx context.Context, _ *cobra.Command, args []string) envelope.Result {
			arg, err := exactlyOne(args, "URL or bookmark id")
			if err != nil {
				return envelope.Failure(err)
			}

			var id int64
			if _, convErr := strconv.ParseInt(arg, 10, 64); convErr == nil {
				if id, err = parseID(arg); err != nil {
					return envelope.Failure(err)
				}
			} else if err := validateURL(arg); err != nil {
				return envelope.Failure(err)
			}

			c, err := a.client()
			if err != nil {
				return envelope.Failure(err)
			}
			var s *raindrop.Suggestion
			if id > 0 {
				s, err = c.SuggestForRaindrop(ctx, id)
			} else {
				s, err = c.SuggestForURL(ctx, arg)
			}
			if err != nil {
				return envelope.Failure(err)
			}
			return envelope.Success(s)
		}),
	}
}
