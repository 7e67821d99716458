package main

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/aggregate"
	"github.com/steveyegge/rd/internal/attempt"
	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
)

func (a *app) newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add [url]",
		GroupID: "bookmarks",
		Short:   "Save a bookmark, or many from stdin",
		Long: `Save one bookmark, or many when no URL is given and a list is piped on
stdin. Each stdin line is a URL or a JSON object such as
{"link": "https://go.dev", "title": "Go", "tags": ["go"]}. Flags apply to
every item as defaults. Batches are sent 100 items per request.`,
		Example: `  rd add https://go.dev --tags go,lang
  rd add https://go.dev --from-suggest
  cat urls.txt | rd add --collection 123456`,
		Run: a.handle(a.runAdd),
	}
	cmd.Flags().String("title", "", "Bookmark title")
	cmd.Flags().String("tags", "", "Comma-separated tags")
	cmd.Flags().String("collection", "", "Collection id, or unsorted")
	cmd.Flags().String("note", "", "Note")
	cmd.Flags().String("excerpt", "", "Excerpt")
	cmd.Flags().Bool("important", false, "Mark as important")
	cmd.Flags().Bool("from-suggest", false, "Fill tags and collection from Raindrop suggestions when not given")
	return cmd
}

type addDefaults struct {
	title, note, excerpt string
	tags                 []string
	collection           *raindrop.Ref
	important            bool
}

func readAddDefaults(cmd *cobra.Command) (addDefaults, error) {
	var d addDefaults
	d.title, _ = cmd.Flags().GetString("title")
	d.note, _ = cmd.Flags().GetString("note")
	d.excerpt, _ = cmd.Flags().GetString("excerpt")
	d.important, _ = cmd.Flags().GetBool("important")
	tags, _ := cmd.Flags().GetString("tags")
	d.tags = splitList(tags)
	if coll, _ := cmd.Flags().GetString("collection"); coll != "" {
		id, err := parseCollection(coll)
		if err != nil {
			return d, err
		}
		d.collection = &raindrop.Ref{ID: id}
	}
	return d, nil
}

func (d addDefaults) input(link string) raindrop.RaindropInput {
	return raindrop.RaindropInput{
		Link:        link,
		Title:       d.title,
		Excerpt:     d.excerpt,
		Note:        d.note,
		Tags:        d.tags,
		Important:   d.important,
		Collection:  d.collection,
		PleaseParse: &struct{}{},
	}
}

func (a *app) runAdd(ctx context.Context, cmd *cobra.Command, args []string) envelope.Result {
	defaults, err := readAddDefaults(cmd)
	if err != nil {
		return envelope.Failure(err)
	}
	fromSuggest, _ := cmd.Flags().GetBool("from-suggest")

	switch len(args) {
	case 0:
		if fromSuggest {
			return envelope.Failure(clierr.InvalidArgs("--from-suggest only applies to a single URL"))
		}
		return a.addBatch(ctx, defaults)
	case 1:
		return a.addOne(ctx, args[0], defaults, fromSuggest, cmd.Flags().Changed("tags"), cmd.Flags().Changed("collection"))
	default:
		return envelope.Failure(clierr.InvalidArgs("expected one URL, got %d arguments", len(args)).
			WithSuggest("Pipe URLs on stdin to add several at once"))
	}
}

func (a *app) addOne(ctx context.Context, link string, d addDefaults, fromSuggest, tagsSet, collectionSet bool) envelope.Result {
	if err := validateURL(link); err != nil {
		return envelope.Failure(err)
	}
	c, err := a.client()
	if err != nil {
		return envelope.Failure(err)
	}

	in := d.input(link)
	suggestion := ""
	if fromSuggest {
		suggestion = "unavailable"
		if s, ok := attempt.BestEffort("suggest", func() (*raindrop.Suggestion, error) {
			return c.SuggestForURL(ctx, link)
		}, nil); ok {
			suggestion = "applied"
			if !tagsSet && len(s.Tags) > 0 {
				in.Tags = s.Tags
			}
			if !collectionSet && len(s.Collections) > 0 {
				in.Collection = &raindrop.Ref{ID: s.Collections[0].ID}
			}
		}
	}

	item, err := c.CreateRaindrop(ctx, in)
	if err != nil {
		return envelope.Failure(err)
	}
	r := envelope.Success(item)
	if suggestion != "" {
		r = r.WithMeta("suggestion", suggestion)
	}
	return r
}

// batchEntry is one JSON stdin line for add.
type batchEntry struct {
	Link       string   `json:"link"`
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Note       string   `json:"note"`
	Tags       []string `json:"tags"`
	Important  *bool    `json:"important"`
	Collection *int64   `json:"collection"`
}

func parseBatchLine(line string, d addDefaults) (raindrop.RaindropInput, error) {
	if !strings.HasPrefix(line, "{") {
		return d.input(line), validateURL(line)
	}
	var e batchEntry
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		return raindrop.RaindropInput{}, clierr.InvalidArgs("invalid JSON entry: %v", err)
	}
	in := d.input(e.Link)
	if e.Title != "" {
		in.Title = e.Title
	}
	if e.Excerpt != "" {
		in.Excerpt = e.Excerpt
	}
	if e.Note != "" {
		in.Note = e.Note
	}
	if len(e.Tags) > 0 {
		in.Tags = e.Tags
	}
	if e.Important != nil {
		in.Important = *e.Important
	}
	if e.Collection != nil {
		in.Collection = &raindrop.Ref{ID: *e.Collection}
	}
	return in, validateURL(e.Link)
}

func (a *app) addBatch(ctx context.Context, d addDefaults) envelope.Result {
	lines, err := a.stdinLines("URL")
	if err != nil {
		return envelope.Failure(err)
	}
	inputs := make([]raindrop.RaindropInput, 0, len(lines))
	for i, line := range lines {
		in, err := parseBatchLine(line, d)
		if err != nil {
			ce := clierr.Classify(err, clierr.CodeInvalidArguments)
			return envelope.Failure(clierr.InvalidArgs("stdin entry %d: %s", i+1, ce.Message))
		}
		inputs = append(inputs, in)
	}

	c, err := a.client()
	if err != nil {
		return envelope.Failure(err)
	}
	created := []raindrop.Raindrop{}
	chunks := aggregate.Chunk(inputs, raindrop.MaxBatchSize)
	for _, chunk := range chunks {
		items, err := c.CreateRaindrops(ctx, chunk)
		if err != nil {
			return envelope.Failure(partialFailure(err, len(created), len(inputs), "created"))
		}
		created = append(created, items...)
	}
	return envelope.Success(created).
		WithMeta("count", len(created)).
		WithMeta("requests", len(chunks))
}

func validateURL(link string) error {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return clierr.InvalidArgs("invalid URL %q: expected an absolute http(s) URL", link)
	}
	return nil
}
