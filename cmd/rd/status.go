package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
)

type statusResult struct {
	User        *raindrop.User             `json:"user"`
	Total       int                        `json:"total"`
	Unsorted    int                        `json:"unsorted"`
	Trash       int                        `json:"trash"`
	Collections []raindrop.CollectionCount `json:"collections"`
	Meta        json.RawMessage            `json:"meta,omitempty"`
	APIURL      string                     `json:"api_url"`
}

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: "account",
		Short:   "Verify the token and show account statistics",
		Run: a.handle(func(ctx context.Context, _ *cobra.Command, args []string) envelope.Result {
			if err := noArgs(args); err != nil {
				return envelope.Failure(err)
			}
			c, err := a.client()
			if err != nil {
				return envelope.Failure(err)
			}
			user, err := c.User(ctx)
			if err != nil {
				return envelope.Failure(err)
			}
			stats, err := c.Stats(ctx)
			if err != nil {
				return envelope.Failure(err)
			}

			res := statusResult{User: user, Collections: stats.Collections, Meta: stats.Meta, APIURL: a.cfg.APIURL}
			for _, cc := range stats.Collections {
				switch cc.ID {
				case raindrop.CollectionAll:
					res.Total = cc.Count
				case raindrop.CollectionUnsorted:
					res.Unsorted = cc.Count
				case raindrop.CollectionTrash:
					res.Trash = cc.Count
				}
			}
			return envelope.Success(res)
		}),
	}
}
