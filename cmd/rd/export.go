package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/steveyegge/rd/internal/aggregate"
	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
)

var exportFormats = []string{"json", "csv", "yaml"}

var csvHeader = []string{"id", "title", "link", "tags", "collection", "created", "updated", "important", "note"}

// exportRecord is the flattened bookmark written by the csv and yaml
// formats.
type exportRecord struct {
	ID         int64     `yaml:"id"`
	Title      string    `yaml:"title"`
	Link       string    `yaml:"link"`
	Excerpt    string    `yaml:"excerpt,omitempty"`
	Note       string    `yaml:"note,omitempty"`
	Type       string    `yaml:"type,omitempty"`
	Domain     string    `yaml:"domain,omitempty"`
	Tags       []string  `yaml:"tags"`
	Collection int64     `yaml:"collection"`
	Created    time.Time `yaml:"created"`
	Updated    time.Time `yaml:"updated"`
	Important  bool      `yaml:"important"`
}

func toRecord(r raindrop.Raindrop) exportRecord {
	return exportRecord{
		ID: r.ID, Title: r.Title, Link: r.Link, Excerpt: r.Excerpt, Note: r.Note,
		Type: r.Type, Domain: r.Domain, Tags: r.Tags, Collection: r.Collection.ID,
		Created: r.Created, Updated: r.LastUpdate, Important: r.Important,
	}
}

type exportSummary struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Count  int    `json:"count"`
}

func (a *app) newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export [collection]",
		GroupID: "bookmarks",
		Short:   "Export every bookmark of a collection",
		Long: `Export every bookmark of a collection (default: all) as json, csv or yaml.
Pages are fetched until the listing is exhausted.

Without --out the export is returned in the result document.`,
		Example: `  rd export --format csv --out bookmarks.csv
  rd export unsorted --search "#toread" --format yaml`,
		Run: a.handle(a.runExport),
	}
	cmd.Flags().String("format", "json", "Output format: json, csv, yaml")
	cmd.Flags().String("out", "", "Write the export to this file")
	cmd.Flags().String("search", "", "Only export bookmarks matching this query")
	return cmd
}

func (a *app) runExport(ctx context.Context, cmd *cobra.Command, args []string) envelope.Result {
	collection, err := collectionArg(args)
	if err != nil {
		return envelope.Failure(err)
	}
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if !slices.Contains(exportFormats, format) {
		return envelope.Failure(clierr.InvalidArgs("invalid --format %q", format).
			WithSuggest("Valid formats: " + strings.Join(exportFormats, ", ")))
	}
	out, _ := cmd.Flags().GetString("out")
	search, _ := cmd.Flags().GetString("search")

	c, err := a.client()
	if err != nil {
		return envelope.Failure(err)
	}
	res, err := aggregate.Exhaustive(ctx, bookmarkPager(c, collection, search, raindrop.SortNewest), aggregate.Options{PageSize: raindrop.MaxPerPage})
	if err != nil {
		return envelope.Failure(err)
	}

	var r envelope.Result
	switch {
	case out != "":
		body, err := encodeExport(res.Items, format)
		if err != nil {
			return envelope.Failure(err)
		}
		if err := os.WriteFile(out, body, 0o644); err != nil {
			return envelope.Failure(clierr.InvalidArgs("cannot write %s: %v", out, err))
		}
		r = envelope.Success(exportSummary{Path: out, Format: format, Count: len(res.Items)})
	case format == "json":
		r = envelope.Success(res.Items)
	default:
		body, err := encodeExport(res.Items, format)
		if err != nil {
			return envelope.Failure(err)
		}
		r = envelope.Success(string(body))
	}

	r = r.WithMeta("count", len(res.Items)).WithMeta("format", format).WithMeta("pages", res.Pages)
	if res.Truncated {
		r = r.WithMeta("truncated", true)
	}
	return r
}

func encodeExport(items []raindrop.Raindrop, format string) ([]byte, error) {
	switch format {
	case "csv":
		return encodeCSV(items)
	case "yaml":
		records := make([]exportRecord, len(items))
		for i, it := range items {
			records[i] = toRecord(it)
		}
		return yaml.Marshal(records)
	default:
		return json.MarshalIndent(items, "", "  ")
	}
}

func encodeCSV(items []raindrop.Raindrop) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, it := range items {
		rec := toRecord(it)
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.Title,
			rec.Link,
			strings.Join(rec.Tags, ","),
			strconv.FormatInt(rec.Collection, 10),
			formatTime(rec.Created),
			formatTime(rec.Updated),
			strconv.FormatBool(rec.Important),
			rec.Note,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
