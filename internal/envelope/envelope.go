// Package envelope defines the single document every rd invocation prints
// and the exit code that goes with it.
//
// Success: {"ok": true, "data": ..., "meta": {...}}
// Failure: {"ok": false, "error": {"code": ..., "message": ..., "suggest": [...]}}
package envelope

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/steveyegge/rd/internal/clierr"
)

// Result is the outcome of one command. Handlers return it; main prints it
// once and exits with ExitCode.
type Result struct {
	Data any
	Meta map[string]any
	Err  error

	exit *int
}

// Success wraps data in a successful result.
func Success(data any) Result {
	return Result{Data: data}
}

// Failure wraps err. A nil err yields an empty success.
func Failure(err error) Result {
	return Result{Err: err}
}

// WithMeta returns a copy of r with key set in its meta object.
func (r Result) WithMeta(key string, value any) Result {
	meta := make(map[string]any, len(r.Meta)+1)
	for k, v := range r.Meta {
		meta[k] = v
	}
	meta[key] = value
	r.Meta = meta
	return r
}

// WithExitCode overrides the exit code of a successful result. exists uses
// it to answer "not found" with ok:true and exit 1.
func (r Result) WithExitCode(code int) Result {
	r.exit = &code
	return r
}

// OK reports whether r is a success.
func (r Result) OK() bool {
	return r.Err == nil
}

// Error returns the classified failure, or nil on success. Unclassified
// errors are reported as ApiError.
func (r Result) Error() *clierr.Error {
	return clierr.Classify(r.Err, clierr.CodeAPIError)
}

// ExitCode returns the process exit code for r.
func (r Result) ExitCode() int {
	if ce := r.Error(); ce != nil {
		return ce.ExitCode()
	}
	if r.exit != nil {
		return *r.exit
	}
	return clierr.ExitOK
}

type successDoc struct {
	OK   bool           `json:"ok"`
	Data any            `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

// ErrorBody is the error object of a failure document.
type ErrorBody struct {
	Code    clierr.Code `json:"code"`
	Message string      `json:"message"`
	Suggest []string    `json:"suggest"`
}

type errorDoc struct {
	OK    bool      `json:"ok"`
	Error ErrorBody `json:"error"`
}

// Body returns the error object for a failed result.
func (r Result) Body() ErrorBody {
	ce := r.Error()
	if ce == nil {
		return ErrorBody{}
	}
	msg := strings.TrimSpace(ce.Error())
	if msg == "" {
		msg = string(ce.Code)
	}
	return ErrorBody{Code: ce.Code, Message: msg, Suggest: ce.Suggestions()}
}

// Document returns the JSON-ready document for r.
func (r Result) Document() any {
	if r.OK() {
		return successDoc{OK: true, Data: r.Data, Meta: r.Meta}
	}
	return errorDoc{OK: false, Error: r.Body()}
}

// HumanRenderer prints r for a person at a terminal.
type HumanRenderer func(w io.Writer, r Result) error

// Printer writes a result either as the JSON document or through a human
// renderer.
type Printer struct {
	Out   io.Writer
	JSON  bool
	Human HumanRenderer
}

// Print writes r. Without a human renderer the JSON document is printed.
func (p Printer) Print(r Result) error {
	if !p.JSON && p.Human != nil {
		return p.Human(p.Out, r)
	}
	return WriteJSON(p.Out, r)
}

// WriteJSON writes r's document as indented JSON followed by a newline.
func WriteJSON(w io.Writer, r Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Document())
}

// ExtractJSONFlag removes --json (and --json=true|false) from args before
// command parsing. Tokens after a "--" terminator are left alone.
func ExtractJSONFlag(args []string) (rest []string, jsonMode bool) {
	rest = make([]string, 0, len(args))
	for i, a := range args {
		if a == "--" {
			rest = append(rest, args[i:]...)
			break
		}
		switch a {
		case "--json", "--json=true":
			jsonMode = true
		case "--json=false":
			jsonMode = false
		default:
			rest = append(rest, a)
		}
	}
	return rest, jsonMode
}
