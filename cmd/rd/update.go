package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/aggregate"
	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/debug"
	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
	"github.com/steveyegge/rd/internal/tagexpr"
)

func (a *app) newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "update [id]",
		GroupID: "bookmarks",
		Short:   "Update a bookmark, or many from stdin",
		Long: `Update one bookmark, or many when no id is given and ids are piped on stdin.

--tags takes a tag expression:
  =a,b      replace all tags with a and b ("=" alone clears them)
  +a,-b     add a, remove b (reads the bookmark first)
  a,b       set the tags to a and b

Batch updates can only add tags, set importance or move to a collection.`,
		Example: `  rd update 483920 --tags +reading,-inbox
  rd update 483920 --title "Go spec" --important
  rd search "#inbox" --all --fields id | jq -r '.data[]._id' | rd update --tags +triaged`,
		Run: a.handle(a.runUpdate),
	}
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("link", "", "New URL")
	cmd.Flags().String("tags", "", "Tag expression (=a,b | +a,-b | a,b)")
	cmd.Flags().String("collection", "", "Move to collection id, or unsorted")
	cmd.Flags().String("note", "", "New note")
	cmd.Flags().String("excerpt", "", "New excerpt")
	cmd.Flags().Bool("important", false, "Mark as important")
	cmd.Flags().Bool("unimportant", false, "Clear the important mark")
	return cmd
}

type updateFlags struct {
	patch raindrop.RaindropPatch
	tags  *tagexpr.Expression
	// textual marks fields the bulk endpoint cannot set.
	textual []string
}

func readUpdateFlags(cmd *cobra.Command) (updateFlags, error) {
	var u updateFlags
	flags := cmd.Flags()

	for _, f := range []struct {
		name string
		dst  **string
	}{
		{"title", &u.patch.Title},
		{"link", &u.patch.Link},
		{"note", &u.patch.Note},
		{"excerpt", &u.patch.Excerpt},
	} {
		if flags.Changed(f.name) {
			v, _ := flags.GetString(f.name)
			*f.dst = &v
			u.textual = append(u.textual, "--"+f.name)
		}
	}
	if u.patch.Link != nil {
		if err := validateURL(*u.patch.Link); err != nil {
			return u, err
		}
	}

	important, _ := flags.GetBool("important")
	unimportant, _ := flags.GetBool("unimportant")
	switch {
	case important && unimportant:
		return u, clierr.InvalidArgs("--important and --unimportant cannot be combined")
	case important:
		v := true
		u.patch.Important = &v
	case unimportant:
		v := false
		u.patch.Important = &v
	}

	if flags.Changed("collection") {
		coll, _ := flags.GetString("collection")
		id, err := parseCollection(coll)
		if err != nil {
			return u, err
		}
		u.patch.Collection = &raindrop.Ref{ID: id}
	}

	if flags.Changed("tags") {
		expr, _ := flags.GetString("tags")
		parsed, err := tagexpr.Parse(expr)
		if err != nil {
			return u, err
		}
		u.tags = &parsed
	}

	if u.patch.Empty() && u.tags == nil {
		return u, clierr.InvalidArgs("nothing to update").
			WithSuggest("Pass at least one of --title, --link, --tags, --collection, --note, --excerpt, --important, --unimportant")
	}
	return u, nil
}

func (a *app) runUpdate(ctx context.Context, cmd *cobra.Command, args []string) envelope.Result {
	u, err := readUpdateFlags(cmd)
	if err != nil {
		return envelope.Failure(err)
	}
	switch len(args) {
	case 0:
		return a.updateBatch(ctx, u)
	case 1:
		id, err := parseID(args[0])
		if err != nil {
			return envelope.Failure(err)
		}
		return a.updateOne(ctx, id, u)
	default:
		return envelope.Failure(clierr.InvalidArgs("expected one bookmark id, got %d arguments", len(args)).
			WithSuggest("Pipe ids on stdin to update several at once"))
	}
}

// updateOne writes the patch with a single PUT. Ops tag expressions read
// the bookmark first because the endpoint replaces the whole tag set.
func (a *app) updateOne(ctx context.Context, id int64, u updateFlags) envelope.Result {
	c, err := a.client()
	if err != nil {
		return envelope.Failure(err)
	}

	patch := u.patch
	if u.tags != nil {
		var existing []string
		if u.tags.NeedsCurrent() {
			current, err := c.GetRaindrop(ctx, id)
			if err != nil {
				return envelope.Failure(err)
			}
			existing = current.Tags
		}
		tags := u.tags.Apply(existing)
		debug.Logf("update %d: tags %s %v -> %v\n", id, u.tags.Mode, existing, tags)
		patch.Tags = &tags
	}

	item, err := c.UpdateRaindrop(ctx, id, patch)
	if err != nil {
		return envelope.Failure(err)
	}
	return envelope.Success(item)
}

type batchUpdateResult struct {
	IDs      int `json:"ids"`
	Modified int `json:"modified"`
}

// updateBatch applies an additive bulk update per chunk of ids.
func (a *app) updateBatch(ctx context.Context, u updateFlags) envelope.Result {
	if len(u.textual) > 0 {
		return envelope.Failure(clierr.InvalidArgs("%s cannot be used in a batch update", u.textual[0]).
			WithSuggest("Batch updates support --tags (additions only), --collection, --important and --unimportant"))
	}
	update := raindrop.BulkUpdate{Important: u.patch.Important, Collection: u.patch.Collection}
	if u.tags != nil {
		tags, err := u.tags.Additions()
		if err != nil {
			return envelope.Failure(err)
		}
		update.Tags = tags
	}

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
	res := batchUpdateResult{IDs: len(ids)}
	chunks := aggregate.Chunk(ids, raindrop.MaxBatchSize)
	done := 0
	for _, chunk := range chunks {
		update.IDs = chunk
		n, err := c.UpdateRaindrops(ctx, raindrop.CollectionAll, update)
		if err != nil {
			return envelope.Failure(partialFailure(err, done, len(ids), "updated"))
		}
		if n < 0 {
			n = len(chunk)
		}
		res.Modified += n
		done += len(chunk)
	}
	return envelope.Success(res).WithMeta("requests", len(chunks))
}
