package main

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyList(w http.ResponseWriter, _ recorded) {
	write(w, 200, `{"result":true,"items":[],"count":0}`)
}

func TestSearchDefaultSort(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"plain text ranks by relevance", []string{"search", "golang", "generics"}, "score"},
		{"empty query is newest first", []string{"search"}, "-created"},
		{"tag operator", []string{"search", "#go"}, "-created"},
		{"field operator", []string{"search", "domain:github.com"}, "-created"},
		{"negated field operator", []string{"search", "--", "go", "-type:video"}, "-created"},
		{"tag flag makes it an operator query", []string{"search", "golang", "--tag", "go"}, "-created"},
		{"important flag", []string{"search", "golang", "--important"}, "-created"},
		{"explicit sort wins", []string{"search", "golang", "--sort", "title"}, "title"},
		{"explicit sort wins over operators", []string{"search", "#go", "--sort", "score"}, "score"},
		{"colon inside a word is plain text", []string{"search", "C++:"}, "score"},
		{"url is plain text", []string{"search", "https://go.dev/blog"}, "score"},
		{"url next to an operator", []string{"search", "https://go.dev/blog", "type:article"}, "-created"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := setupAPI(t, emptyList)
			code, doc := rd(t, "", tt.args...)
			require.Equal(t, 0, code)

			calls := api.calls()
			require.Len(t, calls, 1)
			assert.Equal(t, "/raindrops/0", calls[0].Path)
			assert.Equal(t, tt.want, calls[0].Query.Get("sort"))
			assert.Equal(t, tt.want, doc["meta"].(map[string]any)["sort"])
		})
	}
}

func TestSearchFiltersBecomeOperators(t *testing.T) {
	api := setupAPI(t, emptyList)
	code, _ := rd(t, "", "search", "go", "--tag", "cli, machine learning",
		"--domain", "github.com", "--type", "article", "--important",
		"--created-after", "2025-01-02", "--created-before", "2025-03-04")
	require.Equal(t, 0, code)

	q := api.calls()[0].Query.Get("search")
	assert.Equal(t, `go #cli #"machine learning" domain:github.com type:article ❤️ created:>2025-01-02 created:<2025-03-04`, q)
}

func TestSearchRelativeCreatedBoundsCountBack(t *testing.T) {
	a := &app{now: func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }}

	q, err := buildQuery("", searchFilters{createdAfter: "2w", createdBefore: "1d"}, a)
	require.NoError(t, err)
	assert.Equal(t, "created:>2025-06-01 created:<2025-06-14", q)

	q, err = buildQuery("go", searchFilters{createdAfter: "-3d"}, a)
	require.NoError(t, err)
	assert.Equal(t, "go created:>2025-06-12", q)
}

func TestSearchCreatedAfterDurationFlag(t *testing.T) {
	api := setupAPI(t, emptyList)
	code, _ := rd(t, "", "search", "--created-after", "2w")
	require.Equal(t, 0, code)

	q := api.calls()[0].Query.Get("search")
	want := "created:>" + time.Now().AddDate(0, 0, -14).Format("2006-01-02")
	assert.Equal(t, want, q)
}

func TestSearchPagingParameters(t *testing.T) {
	api := setupAPI(t, emptyList)
	code, doc := rd(t, "", "search", "go", "--page", "3", "--limit", "10", "--collection", "unsorted")
	require.Equal(t, 0, code)

	call := api.calls()[0]
	assert.Equal(t, "/raindrops/-1", call.Path)
	assert.Equal(t, "3", call.Query.Get("page"))
	assert.Equal(t, "10", call.Query.Get("perpage"))

	meta := doc["meta"].(map[string]any)
	assert.Equal(t, float64(3), meta["page"])
	assert.Equal(t, float64(0), meta["count"])
	assert.Equal(t, float64(0), meta["total"])
	assert.Equal(t, "go", meta["search"])
}

func TestSearchInvalidCreatedDate(t *testing.T) {
	api := setupAPI(t, emptyList)
	code, doc := rd(t, "", "search", "--created-after", "xyzzy")
	assert.Equal(t, 2, code)
	assert.Contains(t, doc["error"].(map[string]any)["message"], "--created-after")
	assert.Empty(t, api.calls())
}

// pagedBookmarks serves total bookmarks in pages of the requested size,
// ids counting down from total.
func pagedBookmarks(total int) func(http.ResponseWriter, recorded) {
	return func(w http.ResponseWriter, rec recorded) {
		var page, per int
		fmt.Sscanf(rec.Query.Get("page"), "%d", &page)
		fmt.Sscanf(rec.Query.Get("perpage"), "%d", &per)
		var items []string
		for i := page * per; i < (page+1)*per && i < total; i++ {
			items = append(items, fmt.Sprintf(`{"_id":%d,"title":"b%d","link":"https://example.com/%d","tags":["t"]}`, total-i, i, i))
		}
		write(w, 200, fmt.Sprintf(`{"result":true,"items":[%s],"count":%d}`, strings.Join(items, ","), total))
	}
}

func TestSearchAllFetchesEveryPage(t *testing.T) {
	api := setupAPI(t, pagedBookmarks(103))
	code, doc := rd(t, "", "search", "#t", "--all")
	require.Equal(t, 0, code)

	assert.Len(t, dataList(t, doc), 103)
	calls := api.calls()
	require.Len(t, calls, 3)
	for i, c := range calls {
		assert.Equal(t, fmt.Sprint(i), c.Query.Get("page"))
		assert.Equal(t, "50", c.Query.Get("perpage"))
	}
	meta := doc["meta"].(map[string]any)
	assert.Equal(t, float64(3), meta["pages"])
	assert.Equal(t, float64(103), meta["count"])
	assert.NotContains(t, meta, "truncated")
}

func TestSearchAllStopsOnExactTotal(t *testing.T) {
	api := setupAPI(t, pagedBookmarks(100))
	code, doc := rd(t, "", "ls", "--all")
	require.Equal(t, 0, code)
	assert.Len(t, dataList(t, doc), 100)
	assert.Len(t, api.calls(), 2)
}

func TestPageAndAllConflict(t *testing.T) {
	api := setupAPI(t, emptyList)
	code, _ := rd(t, "", "ls", "--all", "--page", "2")
	assert.Equal(t, 2, code)
	assert.Empty(t, api.calls())
}

func TestFieldProjection(t *testing.T) {
	setupAPI(t, func(w http.ResponseWriter, _ recorded) {
		write(w, 200, `{"result":true,"item":{"_id":9,"title":"Go","link":"https://go.dev","tags":["go"],"note":"n"}}`)
	})
	code, doc := rd(t, "", "get", "9", "--fields", "id,title,url,excerpt")
	require.Equal(t, 0, code)
	data := dataMap(t, doc)
	assert.Len(t, data, 4)
	assert.Equal(t, float64(9), data["_id"])
	assert.Equal(t, "Go", data["title"])
	assert.Equal(t, "https://go.dev", data["link"])
	assert.Contains(t, data, "excerpt")
	assert.Nil(t, data["excerpt"])
}

func TestListProjection(t *testing.T) {
	setupAPI(t, pagedBookmarks(2))
	code, doc := rd(t, "", "ls", "--fields", "id")
	require.Equal(t, 0, code)
	for _, item := range dataList(t, doc) {
		m := item.(map[string]any)
		assert.Len(t, m, 1)
		assert.Contains(t, m, "_id")
	}
}
