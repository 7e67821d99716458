package main

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
	"github.com/steveyegge/rd/internal/timeparsing"
)

const importantMarker = "❤️"

// operatorToken matches Raindrop field operators such as domain:github.com,
// created:>2024-01-01 or -type:article. URLs are excluded by the caller.
var operatorToken = regexp.MustCompile(`^-?[A-Za-z]+:\S`)

func (a *app) newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "search [query...]",
		GroupID: "bookmarks",
		Short:   "Search bookmarks",
		Long: `Search bookmarks with Raindrop's query syntax.

Filter flags are turned into search operators and appended to the query:
  --tag a,b          #a #b
  --domain d         domain:d
  --type article     type:article
  --important        ❤️
  --created-after D  created:>YYYY-MM-DD

Without --sort, results are ordered by relevance when the final query is
plain text, and newest first when it is empty or uses operators.`,
		Example: `  rd search golang generics
  rd search --tag go,cli --created-after 2w
  rd search "domain:github.com" --all --fields id,title,link`,
		Run: a.handle(a.runSearch),
	}
	cmd.Flags().String("collection", "all", "Collection id, or all, unsorted, trash")
	cmd.Flags().String("tag", "", "Only bookmarks with these tags (comma-separated)")
	cmd.Flags().String("domain", "", "Only bookmarks from this domain")
	cmd.Flags().String("type", "", "Only bookmarks of this type (link, article, image, video, document, audio)")
	cmd.Flags().Bool("important", false, "Only bookmarks marked important")
	cmd.Flags().String("created-after", "", "Only bookmarks created after this date (2025-01-31, 2w, yesterday)")
	cmd.Flags().String("created-before", "", "Only bookmarks created before this date")
	addListFlags(cmd)
	return cmd
}

func (a *app) runSearch(ctx context.Context, cmd *cobra.Command, args []string) envelope.Result {
	lf, err := readListFlags(cmd)
	if err != nil {
		return envelope.Failure(err)
	}
	collFlag, _ := cmd.Flags().GetString("collection")
	collection, err := parseCollection(collFlag)
	if err != nil {
		return envelope.Failure(err)
	}

	var filters searchFilters
	tags, _ := cmd.Flags().GetString("tag")
	filters.tags = splitList(tags)
	filters.domain, _ = cmd.Flags().GetString("domain")
	filters.kind, _ = cmd.Flags().GetString("type")
	filters.important, _ = cmd.Flags().GetBool("important")
	filters.createdAfter, _ = cmd.Flags().GetString("created-after")
	filters.createdBefore, _ = cmd.Flags().GetString("created-before")

	query, err := buildQuery(strings.Join(args, " "), filters, a)
	if err != nil {
		return envelope.Failure(err)
	}
	if lf.sort == "" {
		lf.sort = defaultSort(query)
	}
	return a.listBookmarks(ctx, collection, query, lf)
}

type searchFilters struct {
	tags          []string
	domain        string
	kind          string
	important     bool
	createdAfter  string
	createdBefore string
}

// buildQuery appends the operators for filters to the free text.
func buildQuery(text string, f searchFilters, a *app) (string, error) {
	parts := []string{}
	if t := strings.TrimSpace(text); t != "" {
		parts = append(parts, t)
	}
	for _, tag := range f.tags {
		if strings.ContainsAny(tag, " \t") {
			parts = append(parts, fmt.Sprintf("#%q", tag))
		} else {
			parts = append(parts, "#"+tag)
		}
	}
	if d := strings.TrimSpace(f.domain); d != "" {
		parts = append(parts, "domain:"+d)
	}
	if k := strings.TrimSpace(f.kind); k != "" {
		parts = append(parts, "type:"+k)
	}
	if f.important {
		parts = append(parts, importantMarker)
	}
	for _, bound := range []struct{ value, op, flag string }{
		{f.createdAfter, ">", "--created-after"},
		{f.createdBefore, "<", "--created-before"},
	} {
		if bound.value == "" {
			continue
		}
		t, err := timeparsing.ParsePast(bound.value, a.now())
		if err != nil {
			return "", clierr.InvalidArgs("invalid %s: %v", bound.flag, err)
		}
		parts = append(parts, "created:"+bound.op+t.Format("2006-01-02"))
	}
	return strings.Join(parts, " "), nil
}

// hasOperators reports whether query uses search-operator syntax.
func hasOperators(query string) bool {
	for _, tok := range strings.Fields(query) {
		if strings.Contains(tok, "://") {
			continue
		}
		if strings.HasPrefix(tok, "#") || tok == importantMarker || operatorToken.MatchString(tok) {
			return true
		}
	}
	return false
}

// defaultSort picks relevance for plain-text queries and newest first for
// empty or operator queries.
func defaultSort(query string) string {
	if strings.TrimSpace(query) != "" && !hasOperators(query) {
		return raindrop.SortRelevance
	}
	return raindrop.SortNewest
}
