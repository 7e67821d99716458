// Package clierr defines the error taxonomy shared by every rd command.
//
// Each Code maps 1:1 to a process exit code. Handlers never pick exit codes
// themselves: they return a *Error (or wrap one with %w) and the envelope
// formatter reads the code back with errors.As.
package clierr

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies a failure class in the output envelope.
type Code string

const (
	CodeInvalidArguments Code = "INVALID_ARGUMENTS"
	CodeAuthMissing      Code = "AUTH_MISSING"
	CodeAuthInvalid      Code = "AUTH_INVALID"
	CodeNotFound         Code = "NOT_FOUND"
	CodeRateLimited      Code = "RATE_LIMITED"
	CodeAPIError         Code = "API_ERROR"
	CodeNetworkError     Code = "NETWORK_ERROR"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitNotFound    = 1
	ExitInvalidArgs = 2
	ExitAuth        = 3
	ExitRateLimited = 4
	ExitFailure     = 5
)

// ExitCode returns the process exit code for c.
func (c Code) ExitCode() int {
	switch c {
	case CodeNotFound:
		return ExitNotFound
	case CodeInvalidArguments:
		return ExitInvalidArgs
	case CodeAuthMissing, CodeAuthInvalid:
		return ExitAuth
	case CodeRateLimited:
		return ExitRateLimited
	default:
		return ExitFailure
	}
}

var defaultSuggestions = map[Code][]string{
	CodeInvalidArguments: {"Run 'rd help <command>' to see accepted arguments and flags"},
	CodeAuthMissing: {
		"Set RAINDROP_TOKEN to a Raindrop.io test or access token",
		"Or write the token on the first line of ~/.config/raindrop/token",
	},
	CodeAuthInvalid: {
		"Check that the token has not been revoked at https://app.raindrop.io/settings/integrations",
		"Run 'rd status' to verify the credential",
	},
	CodeNotFound:     {"Check the id with 'rd search' or 'rd ls'"},
	CodeRateLimited:  {"Wait a minute before retrying; rd does not retry automatically"},
	CodeAPIError:     {"Retry later; run with --verbose to see the request that failed"},
	CodeNetworkError: {"Check network connectivity and RAINDROP_API_URL"},
}

// Error is a classified failure.
type Error struct {
	Code    Code
	Message string
	Suggest []string

	// Status and Body are set for failures that carry an upstream response.
	Status int
	Body   string

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for the error's class.
func (e *Error) ExitCode() int {
	return e.Code.ExitCode()
}

// Suggestions returns the hints attached to the error, falling back to the
// defaults for its code so the list is never empty.
func (e *Error) Suggestions() []string {
	if len(e.Suggest) > 0 {
		return e.Suggest
	}
	if s, ok := defaultSuggestions[e.Code]; ok {
		return s
	}
	return defaultSuggestions[CodeAPIError]
}

// WithSuggest returns a copy of e with extra hints prepended to the defaults.
func (e *Error) WithSuggest(hints ...string) *Error {
	cp := *e
	cp.Suggest = append(append([]string{}, hints...), e.Suggestions()...)
	return &cp
}

func newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgs reports malformed or unsupported CLI input.
func InvalidArgs(format string, args ...any) *Error {
	return newf(CodeInvalidArguments, format, args...)
}

// AuthMissing reports that no credential could be resolved.
func AuthMissing(format string, args ...any) *Error {
	return newf(CodeAuthMissing, format, args...)
}

// AuthInvalid reports a credential rejected upstream.
func AuthInvalid(status int, body string) *Error {
	return &Error{Code: CodeAuthInvalid, Message: fmt.Sprintf("credential rejected (HTTP %d)", status), Status: status, Body: body}
}

// NotFound reports a missing upstream resource.
func NotFound(format string, args ...any) *Error {
	return newf(CodeNotFound, format, args...)
}

// RateLimited reports upstream throttling.
func RateLimited(body string) *Error {
	return &Error{Code: CodeRateLimited, Message: "rate limited by Raindrop (HTTP 429)", Status: 429, Body: body}
}

// APIError reports a non-success upstream response or an unexpected shape.
func APIError(status int, body string, format string, args ...any) *Error {
	return &Error{Code: CodeAPIError, Message: fmt.Sprintf(format, args...), Status: status, Body: body}
}

// NetworkError reports a transport failure.
func NetworkError(err error) *Error {
	return &Error{Code: CodeNetworkError, Message: "request failed", Err: err}
}

// As extracts a *Error from err's chain.
func As(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Classify returns err as a *Error. Errors with no classification are
// reported as fallback, keeping their message.
func Classify(err error, fallback Code) *Error {
	if err == nil {
		return nil
	}
	if ce, ok := As(err); ok {
		if ce.Message == "" {
			cp := *ce
			cp.Message = err.Error()
			return &cp
		}
		return ce
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = string(fallback)
	}
	return &Error{Code: fallback, Message: msg, Err: err}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	ce, ok := As(err)
	return ok && ce.Code == code
}
