package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/aggregate"
	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/debug"
	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
)

func (a *app) newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm [id]",
		GroupID: "bookmarks",
		Short:   "Move bookmarks to the trash, or delete them permanently",
		Long: `Move a bookmark to the trash, or many when ids are piped on stdin.

With --permanent the bookmark is moved to the trash first and then deleted
from it, since Raindrop only deletes permanently from the trash.`,
		Run: a.handle(a.runRm),
	}
	cmd.Flags().Bool("permanent", false, "Delete permanently instead of moving to the trash")
	return cmd
}

type removeResult struct {
	ID        int64 `json:"id,omitempty"`
	IDs       int   `json:"ids,omitempty"`
	Removed   int   `json:"removed,omitempty"`
	Permanent bool  `json:"permanent"`
}

func (a *app) runRm(ctx context.Context, cmd *cobra.Command, args []string) envelope.Result {
	permanent, _ := cmd.Flags().GetBool("permanent")
	switch len(args) {
	case 0:
		return a.removeBatch(ctx, permanent)
	case 1:
		id, err := parseID(args[0])
		if err != nil {
			return envelope.Failure(err)
		}
		return a.removeOne(ctx, id, permanent)
	default:
		return envelope.Failure(clierr.InvalidArgs("expected one bookmark id, got %d arguments", len(args)).
			WithSuggest("Pipe ids on stdin to remove several at once"))
	}
}

func (a *app) removeOne(ctx context.Context, id int64, permanent bool) envelope.Result {
	c, err := a.client()
	if err != nil {
		return envelope.Failure(err)
	}
	if err := c.DeleteRaindrop(ctx, id); err != nil {
		return envelope.Failure(err)
	}
	if permanent {
		// The first call moved it to the trash; this one deletes it. A 404
		// means the first call already deleted it from the trash.
		if err := c.DeleteRaindrop(ctx, id); err != nil {
			if !clierr.Is(err, clierr.CodeNotFound) {
				return envelope.Failure(err)
			}
			debug.Logf("rm %d: already deleted permanently\n", id)
		}
	}
	return envelope.Success(removeResult{ID: id, Permanent: permanent})
}

func (a *app) removeBatch(ctx context.Context, permanent bool) envelope.Result {
	lines, err := a.stdinLines("bookmark ids")
	if err != nil {
		return envelope.Failure(err)
	}
	ids, err := parseIDs(lines)
	if err != nil {
		return envelope.Failure(err)
	}
	c, err := a.client()
	if err != nil {
		return envelope.Failure(err)
	}

	res := removeResult{IDs: len(ids), Permanent: permanent}
	requests, done := 0, 0
	verb := "moved to trash"
	if permanent {
		verb = "deleted"
	}
	for _, chunk := range aggregate.Chunk(ids, raindrop.MaxBatchSize) {
		n, err := c.DeleteRaindrops(ctx, raindrop.CollectionAll, chunk)
		requests++
		if err != nil {
			return envelope.Failure(partialFailure(err, done, len(ids), verb))
		}
		if permanent {
			if n, err = c.DeleteRaindrops(ctx, raindrop.CollectionTrash, chunk); err != nil {
				return envelope.Failure(partialFailure(err, done, len(ids), verb))
			}
			requests++
		}
		if n < 0 {
			n = len(chunk)
		}
		res.Removed += n
		done += len(chunk)
	}
	return envelope.Success(res).WithMeta("requests", requests)
}
