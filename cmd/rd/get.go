package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/envelope"
)

func (a *app) newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "get <id>",
		GroupID: "bookmarks",
		Short:   "Show one bookmark",
		Run: a.handle(func(ctx context.Context, cmd *cobra.Command, args []string) envelope.Result {
			arg, err := exactlyOne(args, "bookmark id")
			if err != nil {
				return envelope.Failure(err)
			}
			id, err := parseID(arg)
			if err != nil {
				return envelope.Failure(err)
			}
			fields, _ := cmd.Flags().GetString("fields")
			keys, err := parseFields(fields)
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
			data, err := projectBookmark(item, keys)
			if err != nil {
				return envelope.Failure(err)
			}
			return envelope.Success(data)
		}),
	}
	cmd.Flags().String("fields", "", "Comma-separated bookmark fields to keep")
	return cmd
}
