package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
	"github.com/steveyegge/rd/internal/ui"
)

// renderHuman prints a result for a terminal. Errors go to the same writer
// as everything else; rd keeps stderr for --verbose logs.
func renderHuman(w io.Writer, r envelope.Result) error {
	var b strings.Builder
	if !r.OK() {
		body := r.Body()
		fmt.Fprintf(&b, "%s %s\n", ui.RenderFail("Error:"), body.Message)
		for _, s := range body.Suggest {
			fmt.Fprintf(&b, "%s %s\n", ui.RenderMuted("Hint:"), s)
		}
		_, err := io.WriteString(w, b.String())
		return err
	}

	renderData(&b, r.Data)
	renderFooter(&b, r.Meta)
	_, err := io.WriteString(w, b.String())
	return err
}

func renderData(b *strings.Builder, data any) {
	switch v := data.(type) {
	case nil:
	case string:
		b.WriteString(v)
		if !strings.HasSuffix(v, "\n") {
			b.WriteString("\n")
		}
	case []raindrop.Raindrop:
		if len(v) == 0 {
			b.WriteString(ui.RenderMuted("No bookmarks") + "\n")
		}
		for i := range v {
			renderBookmarkLine(b, &v[i])
		}
	case *raindrop.Raindrop:
		renderBookmark(b, v)
	case []*collectionNode:
		renderTree(b, v, 0)
	case []raindrop.Collection:
		for _, c := range v {
			fmt.Fprintf(b, "%s %s %s\n", ui.RenderMuted(fmt.Sprint(c.ID)), c.Title, ui.RenderMuted(fmt.Sprintf("(%d)", c.Count)))
		}
	case *raindrop.Collection:
		fmt.Fprintf(b, "%s %s %s\n", ui.RenderPassIcon(), ui.RenderTitle(v.Title), ui.RenderMuted(fmt.Sprintf("[%d]", v.ID)))
	case []raindrop.Tag:
		for _, t := range v {
			fmt.Fprintf(b, "%s %s\n", ui.RenderAccent("#"+t.Name), ui.RenderMuted(fmt.Sprint(t.Count)))
		}
	case []raindrop.Highlight:
		if len(v) == 0 {
			b.WriteString(ui.RenderMuted("No highlights") + "\n")
		}
		for _, h := range v {
			fmt.Fprintf(b, "%s %s\n", ui.RenderWarn("▍"), ui.WrapText(h.Text, 76, "  "))
			if h.Note != "" {
				fmt.Fprintf(b, "  %s\n", ui.RenderMuted(h.Note))
			}
			if h.Title != "" || h.Link != "" {
				fmt.Fprintf(b, "  %s\n", ui.RenderMuted(strings.TrimSpace(h.Title+" "+h.Link)))
			}
		}
	case *raindrop.Suggestion:
		fmt.Fprintf(b, "%s %s\n", ui.RenderCategory("tags"), ui.RenderTags(v.Tags))
		ids := make([]string, len(v.Collections))
		for i, c := range v.Collections {
			ids[i] = fmt.Sprint(c.ID)
		}
		fmt.Fprintf(b, "%s %s\n", ui.RenderCategory("collections"), strings.Join(ids, ", "))
	case urlMatch:
		renderMatch(b, v)
	case []urlMatch:
		for _, m := range v {
			renderMatch(b, m)
		}
	case statusResult:
		name := v.User.FullName
		if name == "" {
			name = v.User.Email
		}
		fmt.Fprintf(b, "%s Authenticated as %s\n", ui.RenderPassIcon(), ui.RenderTitle(name))
		if v.User.Pro {
			fmt.Fprintf(b, "%sPro account\n", ui.TreeIndent)
		}
		fmt.Fprintf(b, "%s%d bookmarks, %d unsorted, %d in trash\n", ui.TreeIndent, v.Total, v.Unsorted, v.Trash)
		fmt.Fprintf(b, "%s%s\n", ui.TreeIndent, ui.RenderMuted(v.APIURL))
	case removeResult:
		what := "moved to trash"
		if v.Permanent {
			what = "deleted permanently"
		}
		if v.ID != 0 {
			fmt.Fprintf(b, "%s Bookmark %d %s\n", ui.RenderPassIcon(), v.ID, what)
		} else {
			fmt.Fprintf(b, "%s %d of %d bookmarks %s\n", ui.RenderPassIcon(), v.Removed, v.IDs, what)
		}
	case batchUpdateResult:
		fmt.Fprintf(b, "%s Updated %d of %d bookmarks\n", ui.RenderPassIcon(), v.Modified, v.IDs)
	case exportSummary:
		fmt.Fprintf(b, "%s Exported %d bookmarks to %s (%s)\n", ui.RenderPassIcon(), v.Count, v.Path, v.Format)
	case versionInfo:
		if v.Commit != "" {
			fmt.Fprintf(b, "rd version %s (%s: %s)\n", v.Version, v.Build, shortCommit(v.Commit))
		} else {
			fmt.Fprintf(b, "rd version %s (%s)\n", v.Version, v.Build)
		}
	case helpDoc:
		b.WriteString(v.Usage + "\n")
	default:
		raw, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Fprintf(b, "%v\n", v)
			return
		}
		b.Write(raw)
		b.WriteString("\n")
	}
}

func renderBookmarkLine(b *strings.Builder, r *raindrop.Raindrop) {
	mark := " "
	if r.Important {
		mark = ui.RenderWarn(ui.IconImportant)
	}
	title := r.Title
	if title == "" {
		title = r.Link
	}
	fmt.Fprintf(b, "%s %s %s\n", mark, ui.RenderMuted(fmt.Sprintf("%-10d", r.ID)), ui.TruncateSimple(title, 80))
	detail := ui.RenderMuted(ui.TruncateSimple(r.Link, 80))
	if tags := ui.RenderTags(r.Tags); tags != "" {
		detail += " " + tags
	}
	fmt.Fprintf(b, "  %s%s\n", ui.TreeLast, detail)
}

func renderBookmark(b *strings.Builder, r *raindrop.Raindrop) {
	title := r.Title
	if r.Important {
		title = ui.RenderWarn(ui.IconImportant) + " " + title
	}
	fmt.Fprintf(b, "%s %s\n", ui.RenderTitle(title), ui.RenderMuted(fmt.Sprintf("[%d]", r.ID)))
	fmt.Fprintf(b, "%s\n", ui.RenderAccent(r.Link))
	if len(r.Tags) > 0 {
		fmt.Fprintf(b, "%s\n", ui.RenderTags(r.Tags))
	}
	if r.Excerpt != "" {
		fmt.Fprintf(b, "\n%s\n", ui.WrapText(r.Excerpt, 80, ""))
	}
	if r.Note != "" {
		fmt.Fprintf(b, "\n%s %s\n", ui.RenderCategory("note"), ui.WrapText(r.Note, 74, "     "))
	}
	b.WriteString(ui.RenderSeparator() + "\n")
	fmt.Fprintf(b, "%s\n", ui.RenderMuted(fmt.Sprintf("collection %d · created %s · updated %s",
		r.Collection.ID, formatTime(r.Created), formatTime(r.LastUpdate))))
}

func renderTree(b *strings.Builder, nodes []*collectionNode, depth int) {
	for _, n := range nodes {
		prefix := strings.Repeat(ui.TreeIndent, depth)
		if depth > 0 {
			prefix = strings.Repeat(ui.TreeIndent, depth-1) + ui.TreeLast
		}
		fmt.Fprintf(b, "%s%s %s %s\n", prefix, n.Title, ui.RenderMuted(fmt.Sprintf("(%d)", n.Count)), ui.RenderMuted(fmt.Sprintf("[%d]", n.ID)))
		renderTree(b, n.Children, depth+1)
	}
}

func renderMatch(b *strings.Builder, m urlMatch) {
	if m.Found {
		ids := make([]string, len(m.IDs))
		for i, id := range m.IDs {
			ids[i] = fmt.Sprint(id)
		}
		fmt.Fprintf(b, "%s %s %s\n", ui.RenderPassIcon(), m.URL, ui.RenderMuted(strings.Join(ids, ", ")))
		return
	}
	fmt.Fprintf(b, "%s %s %s\n", ui.RenderFail(ui.IconFail), m.URL, ui.RenderMuted("not saved"))
}

func renderFooter(b *strings.Builder, meta map[string]any) {
	if meta == nil {
		return
	}
	if truncated, _ := meta["truncated"].(bool); truncated {
		fmt.Fprintf(b, "%s\n", ui.RenderWarn("Listing stopped at the page limit; results are incomplete"))
	}
	if total, ok := meta["total"].(int); ok {
		if count, _ := meta["count"].(int); count < total {
			fmt.Fprintf(b, "%s\n", ui.RenderMuted(fmt.Sprintf("Showing %d of %d (page %v); use --page or --all for more", count, total, meta["page"])))
		}
	}
}

func shortCommit(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
