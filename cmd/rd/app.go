package main

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/auth"
	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/config"
	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/raindrop"
)

// app carries the per-invocation state shared by every command.
type app struct {
	cfg       *config.Config
	resolver  *auth.Resolver
	requestID string

	stdin    io.Reader
	stdinTTY bool
	now      func() time.Time

	// result is set by whichever handler or help function ran.
	result  envelope.Result
	handled bool
}

type handlerFunc func(ctx context.Context, cmd *cobra.Command, args []string) envelope.Result

// handle adapts a handler to cobra's Run signature, capturing its result.
func (a *app) handle(h handlerFunc) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		a.result = h(cmd.Context(), cmd, args)
		a.handled = true
	}
}

// client resolves the credential and builds an API client. No request is
// made when the credential is missing.
func (a *app) client() (*raindrop.Client, error) {
	token, err := a.resolver.Resolve()
	if err != nil {
		return nil, err
	}
	return raindrop.NewClient(a.cfg.APIURL, token, a.cfg.Timeout).WithRequestID(a.requestID), nil
}

// stdinLines reads batch input: one entry per non-blank line, lines
// starting with '#' skipped. A terminal stdin is rejected so rd never
// waits on a keyboard.
func (a *app) stdinLines(what string) ([]string, error) {
	if a.stdin == nil || a.stdinTTY {
		return nil, clierr.InvalidArgs("missing %s: pass it as an argument or pipe a list on stdin", what)
	}
	var lines []string
	sc := bufio.NewScanner(a.stdin)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, clierr.InvalidArgs("reading stdin: %v", err)
	}
	if len(lines) == 0 {
		return nil, clierr.InvalidArgs("no %s on stdin", what)
	}
	return lines, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, clierr.InvalidArgs("invalid bookmark id %q: must be a positive integer", s)
	}
	return id, nil
}

func parseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := parseID(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseCollection accepts a numeric id or one of all, unsorted, trash.
func parseCollection(s string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return raindrop.CollectionAll, nil
	case "unsorted":
		return raindrop.CollectionUnsorted, nil
	case "trash":
		return raindrop.CollectionTrash, nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, clierr.InvalidArgs("invalid collection %q: use a numeric id, all, unsorted or trash", s)
	}
	return id, nil
}

// collectionArg reads an optional single collection positional.
func collectionArg(args []string) (int64, error) {
	switch len(args) {
	case 0:
		return raindrop.CollectionAll, nil
	case 1:
		return parseCollection(args[0])
	default:
		return 0, clierr.InvalidArgs("expected at most one collection, got %d arguments", len(args))
	}
}

func exactlyOne(args []string, what string) (string, error) {
	if len(args) != 1 {
		return "", clierr.InvalidArgs("expected exactly one %s, got %d arguments", what, len(args))
	}
	return args[0], nil
}

func noArgs(args []string) error {
	if len(args) > 0 {
		return clierr.InvalidArgs("unexpected argument %q", args[0])
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
