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

func TestWatchDedupesAcrossShiftingPages(t *testing.T) {
	cutoff := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	bm := func(id int64, d time.Duration) string {
		return fmt.Sprintf(`{"_id":%d,"title":"b%d","lastUpdate":%q}`, id, id, cutoff.Add(d).Format(time.RFC3339))
	}
	pages := [][]string{
		{bm(5, 5*time.Minute), bm(4, 4*time.Minute), bm(3, 3*time.Minute)},
		// 3 shifted down a page between requests.
		{bm(3, 3*time.Minute), bm(2, 2*time.Minute), bm(1, -30*time.Second)},
		{bm(0, -10*time.Minute)},
	}
	api := setupAPI(t, func(w http.ResponseWriter, rec recorded) {
		var page int
		fmt.Sscanf(rec.Query.Get("page"), "%d", &page)
		items := ""
		if page < len(pages) {
			items = strings.Join(pages[page], ",")
		}
		write(w, 200, `{"result":true,"items":[`+items+`]}`)
	})

	code, doc := rd(t, "", "watch", "--since", "2025-06-15T12:00:00Z", "--limit", "3")
	require.Equal(t, 0, code)

	var ids []float64
	for _, item := range dataList(t, doc) {
		ids = append(ids, item.(map[string]any)["_id"].(float64))
	}
	assert.Equal(t, []float64{5, 4, 3, 2}, ids)

	calls := api.calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "-lastUpdate", calls[0].Query.Get("sort"))
	assert.Equal(t, "3", calls[0].Query.Get("perpage"))
	assert.Empty(t, calls[0].Query.Get("search"))

	meta := doc["meta"].(map[string]any)
	assert.Equal(t, "2025-06-15T12:00:00Z", meta["since"])
	assert.Equal(t, float64(4), meta["count"])
	assert.Equal(t, float64(3), meta["pages"])
}

func TestWatchRelativeSinceUsesCollection(t *testing.T) {
	api := setupAPI(t, emptyList)
	code, doc := rd(t, "", "watch", "unsorted", "--since", "2h")
	require.Equal(t, 0, code)
	assert.Equal(t, "/raindrops/-1", api.calls()[0].Path)

	since, err := time.Parse(time.RFC3339, doc["meta"].(map[string]any)["since"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(-2*time.Hour), since, time.Minute)
}

func TestWatchRejectsFutureSince(t *testing.T) {
	api := setupAPI(t, emptyList)
	code, _ := rd(t, "", "watch", "--since", "2999-01-01")
	assert.Equal(t, 2, code)
	assert.Empty(t, api.calls())
}
