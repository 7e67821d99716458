package raindrop

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/rd/internal/clierr"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-token", 0)
}

func TestNewClient(t *testing.T) {
	client := NewClient("https://api.example.com/rest/v1/", "test-token", 0)

	assert.Equal(t, "https://api.example.com/rest/v1", client.BaseURL)
	assert.Equal(t, "test-token", client.Token)
	require.NotNil(t, client.HTTPClient)
	assert.Zero(t, client.HTTPClient.Timeout)

	assert.Equal(t, DefaultBaseURL, NewClient("", "t", 0).BaseURL)
}

func TestRequestHeadersAndBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-Id"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://example.com", body["link"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result": true, "item": {"_id": 1}}`))
	}).WithRequestID("req-1")

	resp, err := client.Request(context.Background(), http.MethodPost, "/raindrop", nil, map[string]string{"link": "https://example.com"})
	require.NoError(t, err)
	assert.True(t, resp.JSON)
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestRequestOmitsEmptyQueryValues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		_, hasSearch := q["search"]
		assert.False(t, hasSearch, "empty search must be omitted, got %q", r.URL.RawQuery)
		assert.NotContains(t, r.URL.RawQuery, "undefined")
		assert.Equal(t, "2", q.Get("page"))
		w.Write([]byte(`{"result": true}`))
	})

	_, err := client.Request(context.Background(), http.MethodGet, "/raindrops/0", map[string]string{"search": "", "page": "2"}, nil)
	require.NoError(t, err)
}

func TestRequestNonJSONPassthrough(t *testing.T) {
	tests := []struct {
		name string
		body string
		json bool
		want any
	}{
		{"csv body", "id,title\n1,Go\n", false, "id,title\n1,Go\n"},
		{"empty body", "", false, ""},
		{"json body", `{"a": 1}`, true, map[string]any{"a": float64(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			})
			resp, err := client.Request(context.Background(), http.MethodGet, "/export", nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.json, resp.JSON)
			assert.Equal(t, tt.want, resp.Value())
		})
	}
}

func TestRequestClassification(t *testing.T) {
	tests := []struct {
		status   int
		body     string
		wantCode clierr.Code
		wantExit int
	}{
		{http.StatusUnauthorized, `{"result":false}`, clierr.CodeAuthInvalid, 3},
		{http.StatusForbidden, ``, clierr.CodeAuthInvalid, 3},
		{http.StatusNotFound, `{"result":false}`, clierr.CodeNotFound, 1},
		{http.StatusTooManyRequests, `slow down`, clierr.CodeRateLimited, 4},
		{http.StatusInternalServerError, `{"result":false,"errorMessage":"boom"}`, clierr.CodeAPIError, 5},
		{http.StatusBadRequest, `oops`, clierr.CodeAPIError, 5},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			calls := 0
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := client.Request(context.Background(), http.MethodGet, "/raindrop/1", nil, nil)
			require.Error(t, err)

			ce, ok := clierr.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, ce.Code)
			assert.Equal(t, tt.wantExit, ce.ExitCode())
			assert.Equal(t, tt.status, ce.Status)
			assert.Equal(t, 1, calls, "no retries")
		})
	}
}

func TestRequestAPIErrorCarriesUpstreamMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"result":false,"errorMessage":"boom"}`)
	})
	_, err := client.Request(context.Background(), http.MethodGet, "/x", nil, nil)
	ce, _ := clierr.As(err)
	require.NotNil(t, ce)
	assert.Contains(t, ce.Message, "boom")
	assert.Contains(t, ce.Body, "errorMessage")
}

func TestRequestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, "t", 0)
	_, err := client.Request(context.Background(), http.MethodGet, "/user", nil, nil)
	require.Error(t, err)
	assert.True(t, clierr.Is(err, clierr.CodeNetworkError))
}

func TestDecodeShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid item", `{"result":true,"item":{"_id":5,"title":"Go"}}`, false},
		{"missing result", `{"item":{"_id":5}}`, true},
		{"result false", `{"result":false,"errorMessage":"nope"}`, true},
		{"item not object", `{"result":true,"item":[1,2]}`, true},
		{"item missing", `{"result":true}`, true},
		{"array body", `[{"_id":5}]`, true},
		{"text body", `hello`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			})
			item, err := client.GetRaindrop(context.Background(), 5)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, clierr.Is(err, clierr.CodeAPIError), "shape errors are ApiError, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(5), item.ID)
			assert.NotNil(t, item.Tags, "tags normalised to empty slice")
		})
	}
}

func TestGetRaindropNotFoundMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := client.GetRaindrop(context.Background(), 42)
	ce, ok := clierr.As(err)
	require.True(t, ok)
	assert.Equal(t, clierr.CodeNotFound, ce.Code)
	assert.Equal(t, "bookmark 42 not found", ce.Message)
}

func TestListRaindrops(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/raindrops/-1", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "go", q.Get("search"))
		assert.Equal(t, "score", q.Get("sort"))
		assert.Equal(t, "0", q.Get("page"))
		assert.Equal(t, "50", q.Get("perpage"))
		io.WriteString(w, `{"result":true,"count":2,"items":[
			{"_id":1,"title":"A","tags":["x"],"lastUpdate":"2025-01-02T03:04:05.000Z"},
			{"_id":2,"title":"B"}
		]}`)
	})

	page, err := client.ListRaindrops(context.Background(), CollectionUnsorted, ListOptions{Search: "go", Sort: SortRelevance, PerPage: MaxPerPage})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, []string{"x"}, page.Items[0].Tags)
	assert.Equal(t, 2025, page.Items[0].LastUpdate.Year())
	assert.Equal(t, []string{}, page.Items[1].Tags)
}

func TestListRaindropsWithoutCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":true,"items":[]}`)
	})
	page, err := client.ListRaindrops(context.Background(), 0, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, -1, page.Total)
	assert.Empty(t, page.Items)
}

func TestBatchSizeLimits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an oversized batch")
	})
	ctx := context.Background()

	_, err := client.CreateRaindrops(ctx, make([]RaindropInput, MaxBatchSize+1))
	assert.True(t, clierr.Is(err, clierr.CodeInvalidArguments))

	_, err = client.UpdateRaindrops(ctx, 0, BulkUpdate{IDs: make([]int64, MaxBatchSize+1)})
	assert.True(t, clierr.Is(err, clierr.CodeInvalidArguments))

	_, err = client.DeleteRaindrops(ctx, 0, make([]int64, MaxBatchSize+1))
	assert.True(t, clierr.Is(err, clierr.CodeInvalidArguments))
}

func TestUpdateRaindropSendsExplicitEmptyTags(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"tags":[]}`, string(raw))
		io.WriteString(w, `{"result":true,"item":{"_id":9,"tags":[]}}`)
	})
	empty := []string{}
	item, err := client.UpdateRaindrop(context.Background(), 9, RaindropPatch{Tags: &empty})
	require.NoError(t, err)
	assert.Equal(t, int64(9), item.ID)
}

func TestExistsURLs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/import/url/exists", r.URL.Path)
		var body struct {
			URLs []string `json:"urls"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"https://a.example"}, body.URLs)
		io.WriteString(w, `{"result":true,"ids":[11],"duplicates":[{"_id":11,"link":"https://a.example"}]}`)
	})
	res, err := client.ExistsURLs(context.Background(), []string{"https://a.example"})
	require.NoError(t, err)
	assert.Equal(t, []int64{11}, res.IDs)
	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, "https://a.example", res.Duplicates[0].Link)
}

func TestExistsURLsFalseResultMeansNoneFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":false,"ids":[]}`)
	})
	res, err := client.ExistsURLs(context.Background(), []string{"https://nowhere.example"})
	require.NoError(t, err)
	assert.Empty(t, res.IDs)
	assert.Empty(t, res.Duplicates)
}

func TestExistsURLsFalseResultWithoutIDsIsRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":false,"errorMessage":"bad urls"}`)
	})
	_, err := client.ExistsURLs(context.Background(), []string{"https://a.example"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad urls")
}

func TestCollectionsMergesRootsAndChildren(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/collections":
			io.WriteString(w, `{"result":true,"items":[{"_id":1,"title":"Work"}]}`)
		case "/collections/childrens":
			io.WriteString(w, `{"result":true,"items":[{"_id":2,"title":"Go","parent":{"$id":1}}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	cols, err := client.Collections(context.Background())
	require.NoError(t, err)
	require.Len(t, cols, 2)
	require.NotNil(t, cols[1].Parent)
	assert.Equal(t, int64(1), cols[1].Parent.ID)
}

func TestUserAndStats(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user":
			io.WriteString(w, `{"result":true,"user":{"_id":7,"email":"a@b.c","fullName":"Ada","pro":true}}`)
		case "/user/stats":
			io.WriteString(w, `{"result":true,"items":[{"_id":0,"count":12},{"_id":-99,"count":3}],"meta":{"pro":true}}`)
		}
	})
	ctx := context.Background()

	u, err := client.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.FullName)

	s, err := client.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, s.Collections, 2)
	assert.Equal(t, 12, s.Collections[0].Count)
	assert.JSONEq(t, `{"pro":true}`, string(s.Meta))
}

func TestEncodeQuery(t *testing.T) {
	assert.Equal(t, "", EncodeQuery(nil))
	assert.Equal(t, "page=0&sort=-created", EncodeQuery(map[string]string{"page": "0", "sort": "-created", "search": ""}))
}
