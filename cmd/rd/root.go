package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/debug"
	"github.com/steveyegge/rd/internal/envelope"
)

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rd",
		Short: "rd - Raindrop.io bookmarks from the command line",
		Long: `rd manages Raindrop.io bookmarks, collections, tags and highlights.

Output is a single JSON document ({"ok": ..., "data": ...}) when --json is
given or stdout is not a terminal, and a short human rendering otherwise.

Authentication: set RAINDROP_TOKEN, or put the token on the first line of
$XDG_CONFIG_HOME/raindrop/token (~/.config/raindrop/token).`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if v, _ := cmd.Flags().GetBool("verbose"); v {
				debug.SetVerbose(true)
			}
		},
		Run: a.handle(func(_ context.Context, cmd *cobra.Command, args []string) envelope.Result {
			if v, _ := cmd.Flags().GetBool("version"); v {
				return versionResult()
			}
			return helpResult(cmd)
		}),
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	// --json is consumed before parsing; it is declared so help lists it.
	root.PersistentFlags().Bool("json", false, "Print the JSON result document")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log requests to stderr")
	root.Flags().BoolP("version", "V", false, "Print version information")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierr.InvalidArgs("%v", err).
			WithSuggest(fmt.Sprintf("Run 'rd help %s' to see accepted flags", strings.TrimPrefix(cmd.CommandPath(), "rd ")))
	})
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		a.result = helpResult(cmd)
		a.handled = true
	})
	root.SetHelpCommand(&cobra.Command{
		Use:   "help [command]",
		Short: "Help about any command",
		Run: a.handle(func(_ context.Context, cmd *cobra.Command, args []string) envelope.Result {
			target, rest, err := root.Find(args)
			if err != nil || target == nil || len(rest) > 0 {
				return envelope.Failure(clierr.InvalidArgs("unknown help topic %q", strings.Join(args, " ")).
					WithSuggest("Run 'rd help' to list commands"))
			}
			return helpResult(target)
		}),
	})

	root.AddGroup(
		&cobra.Group{ID: "bookmarks", Title: "Bookmarks:"},
		&cobra.Group{ID: "organize", Title: "Collections, tags and highlights:"},
		&cobra.Group{ID: "account", Title: "Account and tooling:"},
	)
	root.AddCommand(
		a.newSearchCmd(),
		a.newGetCmd(),
		a.newAddCmd(),
		a.newUpdateCmd(),
		a.newRmCmd(),
		a.newLsCmd(),
		a.newExistsCmd(),
		a.newSuggestCmd(),
		a.newExportCmd(),
		a.newWatchCmd(),
		a.newCollectionsCmd(),
		a.newCollectionCmd(),
		a.newTagsCmd(),
		a.newHighlightsCmd(),
		a.newStatusCmd(),
		a.newRobotDocsCmd(),
		a.newVersionCmd(),
	)
	return root
}

// execute parses args, runs the selected command and returns its result.
func (a *app) execute(ctx context.Context, args []string) envelope.Result {
	root := a.newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return envelope.Failure(dispatchError(root, args, err))
	}
	if !a.handled {
		return helpResult(root)
	}
	return a.result
}

// dispatchError classifies errors cobra returns before a handler runs.
// Anything unclassified at this point is a usage problem.
func dispatchError(root *cobra.Command, args []string, err error) error {
	if _, ok := clierr.As(err); ok {
		return err
	}
	msg, _, _ := strings.Cut(err.Error(), "\n")
	ce := clierr.InvalidArgs("%s", strings.TrimSpace(msg))
	if strings.HasPrefix(msg, "unknown command") && len(args) > 0 {
		var hints []string
		for _, s := range root.SuggestionsFor(args[0]) {
			hints = append(hints, fmt.Sprintf("Did you mean 'rd %s'?", s))
		}
		return ce.WithSuggest(append(hints, "Run 'rd help' to list commands")...)
	}
	return ce
}

type helpEntry struct {
	Name  string `json:"name"`
	Short string `json:"short"`
}

type helpDoc struct {
	Command  string      `json:"command"`
	Short    string      `json:"short,omitempty"`
	Usage    string      `json:"usage"`
	Commands []helpEntry `json:"commands,omitempty"`
}

func helpResult(cmd *cobra.Command) envelope.Result {
	doc := helpDoc{
		Command: cmd.CommandPath(),
		Short:   cmd.Short,
		Usage:   strings.TrimSpace(cmd.Long + "\n\n" + cmd.UsageString()),
	}
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			doc.Commands = append(doc.Commands, helpEntry{Name: sub.Name(), Short: sub.Short})
		}
	}
	return envelope.Success(doc)
}
