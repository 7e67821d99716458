package main

import (
	"context"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
)

// collectionNode is a collection with its nested collections.
type collectionNode struct {
	raindrop.Collection
	Children []*collectionNode `json:"children,omitempty"`
}

// buildTree nests collections under their parents, keeping upstream order.
// Collections whose parent is missing are treated as roots.
func buildTree(cols []raindrop.Collection) []*collectionNode {
	nodes := make(map[int64]*collectionNode, len(cols))
	for i := range cols {
		nodes[cols[i].ID] = &collectionNode{Collection: cols[i]}
	}
	roots := []*collectionNode{}
	for i := range cols {
		n := nodes[cols[i].ID]
		if p := cols[i].Parent; p != nil {
			if parent, ok := nodes[p.ID]; ok && parent != n {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

func (a *app) newCollectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		GroupID: "organize",
		Short:   "List collections as a tree",
		Run: a.handle(func(ctx context.Context, cmd *cobra.Command, args []string) envelope.Result {
			if err := noArgs(args); err != nil {
				return envelope.Failure(err)
			}
			flat, _ := cmd.Flags().GetBool("flat")
			c, err := a.client()
			if err != nil {
				return envelope.Failure(err)
			}
			cols, err := c.Collections(ctx)
			if err != nil {
				return envelope.Failure(err)
			}
			r := envelope.Success(any(buildTree(cols)))
			if flat {
				r = envelope.Success(cols)
			}
			return r.WithMeta("count", len(cols))
		}),
	}
	cmd.Flags().Bool("flat", false, "List collections without nesting")
	return cmd
}

func (a *app) newCollectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collection <create|update|rm>",
		GroupID: "organize",
		Short:   "Create, update or remove a collection",
		Run: a.handle(func(_ context.Context, cmd *cobra.Command, args []string) envelope.Result {
			if len(args) == 0 {
				return helpResult(cmd)
			}
			return envelope.Failure(clierr.InvalidArgs("unknown collection subcommand %q", args[0]).
				WithSuggest("Use one of: rd collection create, rd collection update, rd collection rm"))
		}),
	}
	cmd.AddCommand(a.newCollectionCreateCmd(), a.newCollectionUpdateCmd(), a.newCollectionRmCmd())
	return cmd
}

func parentFlag(cmd *cobra.Command) (*raindrop.Ref, error) {
	if !cmd.Flags().Changed("parent") {
		return nil, nil
	}
	s, _ := cmd.Flags().GetString("parent")
	id, err := parseID(s)
	if err != nil {
		return nil, clierr.InvalidArgs("invalid --parent %q: must be a collection id", s)
	}
	return &raindrop.Ref{ID: id}, nil
}

var validViews = []string{"list", "simple", "grid", "masonry"}

func viewFlag(cmd *cobra.Command) (string, error) {
	view, _ := cmd.Flags().GetString("view")
	if view == "" {
		return "", nil
	}
	if slices.Contains(validViews, view) {
		return view, nil
	}
	return "", clierr.InvalidArgs("invalid --view %q", view).
		WithSuggest("Valid views: " + strings.Join(validViews, ", "))
}

func (a *app) newCollectionCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a collection",
		Run: a.handle(func(ctx context.Context, cmd *cobra.Command, args []string) envelope.Result {
			title, err := exactlyOne(args, "title")
			if err != nil {
				return envelope.Failure(err)
			}
			if strings.TrimSpace(title) == "" {
				return envelope.Failure(clierr.InvalidArgs("collection title must not be empty"))
			}
			in := raindrop.CollectionInput{Title: title}
			if in.Parent, err = parentFlag(cmd); err != nil {
				return envelope.Failure(err)
			}
			if in.View, err = viewFlag(cmd); err != nil {
				return envelope.Failure(err)
			}
			if public, _ := cmd.Flags().GetBool("public"); public {
				in.Public = &public
			}

			c, err := a.client()
			if err != nil {
				return envelope.Failure(err)
			}
			col, err := c.CreateCollection(ctx, in)
			if err != nil {
				return envelope.Failure(err)
			}
			return envelope.Success(col)
		}),
	}
	cmd.Flags().String("parent", "", "Parent collection id")
	cmd.Flags().Bool("public", false, "Make the collection public")
	cmd.Flags().String("view", "", "View: list, simple, grid, masonry")
	return cmd
}

func (a *app) newCollectionUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a collection",
		Run: a.handle(func(ctx context.Context, cmd *cobra.Command, args []string) envelope.Result {
			arg, err := exactlyOne(args, "collection id")
			if err != nil {
				return envelope.Failure(err)
			}
			id, err := parseID(arg)
			if err != nil {
				return envelope.Failure(clierr.InvalidArgs("invalid collection id %q", arg))
			}

			var in raindrop.CollectionInput
			if cmd.Flags().Changed("title") {
				in.Title, _ = cmd.Flags().GetString("title")
				if strings.TrimSpace(in.Title) == "" {
					return envelope.Failure(clierr.InvalidArgs("collection title must not be empty"))
				}
			}
			if in.Parent, err = parentFlag(cmd); err != nil {
				return envelope.Failure(err)
			}
			if in.View, err = viewFlag(cmd); err != nil {
				return envelope.Failure(err)
			}
			public, _ := cmd.Flags().GetBool("public")
			private, _ := cmd.Flags().GetBool("private")
			switch {
			case public && private:
				return envelope.Failure(clierr.InvalidArgs("--public and --private cannot be combined"))
			case public, private:
				in.Public = &public
			}
			if in == (raindrop.CollectionInput{}) {
				return envelope.Failure(clierr.InvalidArgs("nothing to update").
					WithSuggest("Pass at least one of --title, --parent, --public, --private, --view"))
			}

			c, err := a.client()
			if err != nil {
				return envelope.Failure(err)
			}
			col, err := c.UpdateCollection(ctx, id, in)
			if err != nil {
				return envelope.Failure(err)
			}
			return envelope.Success(col)
		}),
	}
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("parent", "", "New parent collection id")
	cmd.Flags().Bool("public", false, "Make the collection public")
	cmd.Flags().Bool("private", false, "Make the collection private")
	cmd.Flags().String("view", "", "View: list, simple, grid, masonry")
	return cmd
}

func (a *app) newCollectionRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a collection",
		Long: `Remove a collection. Nested collections are removed with it and its
bookmarks move to the trash.`,
		Run: a.handle(func(ctx context.Context, _ *cobra.Command, args []string) envelope.Result {
			arg, err := exactlyOne(args, "collection id")
			if err != nil {
				return envelope.Failure(err)
			}
			id, err := parseID(arg)
			if err != nil {
				return envelope.Failure(clierr.InvalidArgs("invalid collection id %q", arg))
			}
			c, err := a.client()
			if err != nil {
				return envelope.Failure(err)
			}
			if err := c.DeleteCollection(ctx, id); err != nil {
				return envelope.Failure(err)
			}
			return envelope.Success(map[string]any{"id": id, "removed": true})
		}),
	}
}
