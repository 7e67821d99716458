package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/aggregate"
	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
)

type urlMatch struct {
	URL   string  `json:"url"`
	Found bool    `json:"found"`
	IDs   []int64 `json:"ids"`
}

func (a *app) newExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "exists <url>...",
		GroupID: "bookmarks",
		Short:   "Check whether URLs are already saved",
		Long: `Check whether URLs are already saved. URLs come from the arguments or,
when none are given, from stdin (one per line).

With a single URL the exit code is the answer: 0 when saved, 1 when not.
Both report ok:true.`,
		Run: a.handle(a.runExists),
	}
}

func (a *app) runExists(ctx context.Context, _ *cobra.Command, args []string) envelope.Result {
	urls := args
	if len(urls) == 0 {
		lines, err := a.stdinLines("URL")
		if err != nil {
			return envelope.Failure(err)
		}
		urls = lines
	}
	for _, u := range urls {
		if err := validateURL(u); err != nil {
			return envelope.Failure(err)
		}
	}

	c, err := a.client()
	if err != nil {
		return envelope.Failure(err)
	}

	if len(urls) == 1 {
		res, err := c.ExistsURLs(ctx, urls)
		if err != nil {
			return envelope.Failure(err)
		}
		m := urlMatch{URL: urls[0], Found: len(res.IDs) > 0, IDs: res.IDs}
		r := envelope.Success(m)
		if !m.Found {
			r = r.WithExitCode(clierr.ExitNotFound)
		}
		return r
	}

	matches := make([]urlMatch, 0, len(urls))
	found := 0
	for _, chunk := range aggregate.Chunk(urls, raindrop.MaxBatchSize) {
		res, err := c.ExistsURLs(ctx, chunk)
		if err != nil {
			return envelope.Failure(err)
		}
		for _, u := range chunk {
			m := urlMatch{URL: u, IDs: []int64{}}
			for _, d := range res.Duplicates {
				if sameURL(d.Link, u) {
					m.IDs = append(m.IDs, d.ID)
				}
			}
			m.Found = len(m.IDs) > 0
			if m.Found {
				found++
			}
			matches = append(matches, m)
		}
	}
	return envelope.Success(matches).WithMeta("count", len(matches)).WithMeta("found", found)
}

func sameURL(a, b string) bool {
	return strings.TrimRight(strings.TrimSpace(a), "/") == strings.TrimRight(strings.TrimSpace(b), "/")
}
