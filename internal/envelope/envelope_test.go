package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/rd/internal/clierr"
)

func decode(t *testing.T, r Result) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	return doc
}

func TestSuccessDocument(t *testing.T) {
	doc := decode(t, Success([]int{1, 2}).WithMeta("count", 2))
	assert.Equal(t, true, doc["ok"])
	assert.Equal(t, []any{float64(1), float64(2)}, doc["data"])
	assert.Equal(t, map[string]any{"count": float64(2)}, doc["meta"])
	assert.NotContains(t, doc, "error")
}

func TestSuccessWithoutMetaOmitsIt(t *testing.T) {
	doc := decode(t, Success(nil))
	assert.Contains(t, doc, "data")
	assert.NotContains(t, doc, "meta")
}

func TestWithMetaDoesNotAlias(t *testing.T) {
	base := Success(1).WithMeta("a", 1)
	_ = base.WithMeta("b", 2)
	assert.Len(t, base.Meta, 1)
}

func TestErrorEnvelopeAlwaysHasMessageAndSuggestions(t *testing.T) {
	errs := []error{
		clierr.InvalidArgs("bad flag"),
		clierr.AuthMissing("no token"),
		clierr.AuthInvalid(401, ""),
		clierr.NotFound("bookmark 1 not found"),
		clierr.RateLimited(""),
		clierr.APIError(500, "", "boom"),
		clierr.NetworkError(errors.New("connection refused")),
		&clierr.Error{Code: clierr.CodeAPIError},
		&clierr.Error{Code: "SOMETHING_NEW", Message: "odd"},
		fmt.Errorf("wrapped: %w", clierr.NotFound("gone")),
		errors.New("plain failure"),
	}
	for _, err := range errs {
		t.Run(err.Error(), func(t *testing.T) {
			doc := decode(t, Failure(err))
			assert.Equal(t, false, doc["ok"])
			assert.NotContains(t, doc, "data")

			body, ok := doc["error"].(map[string]any)
			require.True(t, ok)
			assert.NotEmpty(t, body["code"])
			assert.NotEmpty(t, body["message"])
			suggest, ok := body["suggest"].([]any)
			require.True(t, ok)
			assert.NotEmpty(t, suggest)
		})
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		result Result
		want   int
	}{
		{Success("x"), 0},
		{Success(map[string]any{"found": false}).WithExitCode(clierr.ExitNotFound), 1},
		{Failure(clierr.NotFound("x")), 1},
		{Failure(clierr.InvalidArgs("x")), 2},
		{Failure(clierr.AuthMissing("x")), 3},
		{Failure(clierr.AuthInvalid(403, "")), 3},
		{Failure(clierr.RateLimited("")), 4},
		{Failure(clierr.APIError(500, "", "x")), 5},
		{Failure(clierr.NetworkError(io.EOF)), 5},
		{Failure(errors.New("unclassified")), 5},
		{Failure(clierr.InvalidArgs("x")).WithExitCode(0), 2},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.want, tt.result.ExitCode(), "case %d", i)
	}
}

func TestExistsNotFoundIsStillOK(t *testing.T) {
	r := Success(map[string]any{"found": false}).WithExitCode(clierr.ExitNotFound)
	assert.True(t, r.OK())
	assert.Equal(t, true, decode(t, r)["ok"])
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	human := func(w io.Writer, r Result) error {
		_, err := io.WriteString(w, "human\n")
		return err
	}

	require.NoError(t, Printer{Out: &buf, JSON: false, Human: human}.Print(Success(1)))
	assert.Equal(t, "human\n", buf.String())

	buf.Reset()
	require.NoError(t, Printer{Out: &buf, JSON: true, Human: human}.Print(Success(1)))
	assert.JSONEq(t, `{"ok":true,"data":1}`, buf.String())

	buf.Reset()
	require.NoError(t, Printer{Out: &buf}.Print(Success(1)))
	assert.JSONEq(t, `{"ok":true,"data":1}`, buf.String())
}

func TestWriteJSONDoesNotEscapeHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Success("https://a.example/?a=1&b=<2>")))
	assert.Contains(t, buf.String(), "a=1&b=<2>")
}

func TestExtractJSONFlag(t *testing.T) {
	tests := []struct {
		args     []string
		wantRest []string
		wantJSON bool
	}{
		{[]string{"search", "go"}, []string{"search", "go"}, false},
		{[]string{"--json", "search", "go"}, []string{"search", "go"}, true},
		{[]string{"search", "go", "--json"}, []string{"search", "go"}, true},
		{[]string{"get", "1", "--json=true"}, []string{"get", "1"}, true},
		{[]string{"get", "1", "--json=false"}, []string{"get", "1"}, false},
		{[]string{"search", "--", "--json"}, []string{"search", "--", "--json"}, false},
		{[]string{}, []string{}, false},
	}
	for _, tt := range tests {
		rest, jsonMode := ExtractJSONFlag(tt.args)
		assert.Equal(t, tt.wantRest, rest, "%v", tt.args)
		assert.Equal(t, tt.wantJSON, jsonMode, "%v", tt.args)
	}
}
