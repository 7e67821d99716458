package raindrop

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/steveyegge/rd/internal/clierr"
)

// envelope is the outer object every Raindrop JSON response shares.
// Each decode function below checks the fields its shape requires and
// rejects anything else as an ApiError instead of defaulting silently.
type envelope struct {
	Result       *bool           `json:"result"`
	ErrorMessage string          `json:"errorMessage"`
	Item         json.RawMessage `json:"item"`
	Items        json.RawMessage `json:"items"`
	User         json.RawMessage `json:"user"`
	Meta         json.RawMessage `json:"meta"`
	Count        *int            `json:"count"`
	Modified     *int            `json:"modified"`
	IDs          json.RawMessage `json:"ids"`
	Duplicates   json.RawMessage `json:"duplicates"`
}

func shapeError(resp *Response, what, reason string) error {
	body := ""
	status := 0
	if resp != nil {
		body = truncate(string(resp.Body), maxErrorBody)
		status = resp.Status
	}
	return clierr.APIError(status, body, "unexpected %s response: %s", what, reason)
}

func parseEnvelope(resp *Response, what string) (*envelope, error) {
	env, err := parseEnvelopeShape(resp, what)
	if err != nil {
		return nil, err
	}
	if !*env.Result {
		return nil, rejected(resp, env)
	}
	return env, nil
}

// parseEnvelopeShape checks the outer object without judging "result".
func parseEnvelopeShape(resp *Response, what string) (*envelope, error) {
	if resp == nil || !resp.JSON {
		return nil, shapeError(resp, what, "body is not JSON")
	}
	if !bytes.HasPrefix(bytes.TrimSpace(resp.Body), []byte("{")) {
		return nil, shapeError(resp, what, "body is not an object")
	}
	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, shapeError(resp, what, err.Error())
	}
	if env.Result == nil {
		return nil, shapeError(resp, what, `missing "result" field`)
	}
	return &env, nil
}

func rejected(resp *Response, env *envelope) error {
	msg := env.ErrorMessage
	if msg == "" {
		msg = "result is false"
	}
	return clierr.APIError(resp.Status, truncate(string(resp.Body), maxErrorBody), "Raindrop rejected the request: %s", msg)
}

func isKind(raw json.RawMessage, open byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == open
}

func decodeObject[T any](resp *Response, what string, raw json.RawMessage, field string) (*T, error) {
	if !isKind(raw, '{') {
		return nil, shapeError(resp, what, fmt.Sprintf("%q is missing or not an object", field))
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, shapeError(resp, what, err.Error())
	}
	return &v, nil
}

func decodeArray[T any](resp *Response, what string, raw json.RawMessage, field string) ([]T, error) {
	if !isKind(raw, '[') {
		return nil, shapeError(resp, what, fmt.Sprintf("%q is missing or not an array", field))
	}
	v := []T{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, shapeError(resp, what, err.Error())
	}
	return v, nil
}

// decodeItem parses {"result":true,"item":{...}}.
func decodeItem[T any](resp *Response, what string) (*T, error) {
	env, err := parseEnvelope(resp, what)
	if err != nil {
		return nil, err
	}
	return decodeObject[T](resp, what, env.Item, "item")
}

// decodeItems parses {"result":true,"items":[...],"count"?:n}. The returned
// total is -1 when the response carries no count.
func decodeItems[T any](resp *Response, what string) ([]T, int, error) {
	env, err := parseEnvelope(resp, what)
	if err != nil {
		return nil, 0, err
	}
	items, err := decodeArray[T](resp, what, env.Items, "items")
	if err != nil {
		return nil, 0, err
	}
	total := -1
	if env.Count != nil {
		total = *env.Count
	}
	return items, total, nil
}

// decodeResult parses {"result":true}.
func decodeResult(resp *Response, what string) error {
	_, err := parseEnvelope(resp, what)
	return err
}

// decodeModified parses {"result":true,"modified":n}. A missing count is
// reported as -1; bulk deletes of already-gone ids omit it.
func decodeModified(resp *Response, what string) (int, error) {
	env, err := parseEnvelope(resp, what)
	if err != nil {
		return 0, err
	}
	if env.Modified == nil {
		return -1, nil
	}
	return *env.Modified, nil
}

// decodeUser parses {"result":true,"user":{...}}.
func decodeUser(resp *Response) (*User, error) {
	env, err := parseEnvelope(resp, "user")
	if err != nil {
		return nil, err
	}
	return decodeObject[User](resp, "user", env.User, "user")
}

// decodeStats parses {"result":true,"items":[...],"meta":{...}}.
func decodeStats(resp *Response) (*Stats, error) {
	env, err := parseEnvelope(resp, "stats")
	if err != nil {
		return nil, err
	}
	items, err := decodeArray[CollectionCount](resp, "stats", env.Items, "items")
	if err != nil {
		return nil, err
	}
	stats := &Stats{Collections: items}
	if isKind(env.Meta, '{') {
		stats.Meta = env.Meta
	}
	return stats, nil
}

// decodeExists parses {"result":true,"ids":[...],"duplicates":[...]}.
// Raindrop answers {"result":false,"ids":[]} when no URL is saved, so a
// false result carrying an ids array means none found.
func decodeExists(resp *Response) (*ExistsResult, error) {
	env, err := parseEnvelopeShape(resp, "exists")
	if err != nil {
		return nil, err
	}
	if !*env.Result && !isKind(env.IDs, '[') {
		return nil, rejected(resp, env)
	}
	ids, err := decodeArray[int64](resp, "exists", env.IDs, "ids")
	if err != nil {
		return nil, err
	}
	res := &ExistsResult{IDs: ids, Duplicates: []Duplicate{}}
	if len(bytes.TrimSpace(env.Duplicates)) > 0 && string(bytes.TrimSpace(env.Duplicates)) != "null" {
		if res.Duplicates, err = decodeArray[Duplicate](resp, "exists", env.Duplicates, "duplicates"); err != nil {
			return nil, err
		}
	}
	return res, nil
}
