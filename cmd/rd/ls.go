package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/envelope"
)

func (a *app) newLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls [collection]",
		GroupID: "bookmarks",
		Short:   "List bookmarks in a collection",
		Long: `List bookmarks in a collection (numeric id, all, unsorted or trash).
Defaults to all bookmarks, newest first.`,
		Example: `  rd ls
  rd ls unsorted --limit 50
  rd ls 123456 --all --fields id,title`,
		Run: a.handle(func(ctx context.Context, cmd *cobra.Command, args []string) envelope.Result {
			collection, err := collectionArg(args)
			if err != nil {
				return envelope.Failure(err)
			}
			lf, err := readListFlags(cmd)
			if err != nil {
				return envelope.Failure(err)
			}
			return a.listBookmarks(ctx, collection, "", lf)
		}),
	}
	addListFlags(cmd)
	return cmd
}
