package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/aggregate"
	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
	"github.com/steveyegge/rd/internal/timeparsing"
)

func (a *app) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch [collection]",
		GroupID: "bookmarks",
		Short:   "List bookmarks changed since a point in time",
		Long: `List bookmarks created or modified after --since, newest change first.

--since accepts a duration back from now (30s, 2h, 3d, 1w), a date
(2025-01-31), an RFC3339 timestamp, or phrases like "yesterday".
Run it on a schedule and pass the previous run's time to poll for changes.`,
		Example: `  rd watch --since 1h
  rd watch unsorted --since 2025-06-01T08:00:00Z`,
		Run: a.handle(a.runWatch),
	}
	cmd.Flags().String("since", "", "Only bookmarks changed after this time (required)")
	cmd.Flags().Int("limit", raindrop.MaxPerPage, "Page size used while polling (max 50)")
	return cmd
}

func (a *app) runWatch(ctx context.Context, cmd *cobra.Command, args []string) envelope.Result {
	collection, err := collectionArg(args)
	if err != nil {
		return envelope.Failure(err)
	}
	since, _ := cmd.Flags().GetString("since")
	if since == "" {
		return envelope.Failure(clierr.InvalidArgs("--since is required").
			WithSuggest("Example: rd watch --since 1h"))
	}
	cutoff, err := timeparsing.ParseSince(since, a.now())
	if err != nil {
		return envelope.Failure(clierr.InvalidArgs("invalid --since: %v", err))
	}
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 1 || limit > raindrop.MaxPerPage {
		return envelope.Failure(clierr.InvalidArgs("--limit must be between 1 and %d", raindrop.MaxPerPage))
	}

	c, err := a.client()
	if err != nil {
		return envelope.Failure(err)
	}
	window := aggregate.NewWindow(cutoff)
	res, err := aggregate.ChangedSince(ctx,
		bookmarkPager(c, collection, "", raindrop.SortLastUpdate),
		window,
		func(r raindrop.Raindrop) int64 { return r.ID },
		func(r raindrop.Raindrop) time.Time { return r.LastUpdate },
		aggregate.Options{PageSize: limit},
	)
	if err != nil {
		return envelope.Failure(err)
	}

	r := envelope.Success(res.Items).
		WithMeta("since", cutoff.UTC().Format(time.RFC3339)).
		WithMeta("count", len(res.Items)).
		WithMeta("pages", res.Pages)
	if res.Truncated {
		r = r.WithMeta("truncated", true)
	}
	return r
}
