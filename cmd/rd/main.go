// Command rd is a command-line client for the Raindrop.io bookmark API.
//
// Every invocation prints exactly one result document and exits with a code
// derived from it: 0 ok, 1 not found, 2 invalid arguments, 3 auth,
// 4 rate limited, 5 API or network failure.
package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/steveyegge/rd/internal/auth"
	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/config"
	"github.com/steveyegge/rd/internal/debug"
	"github.com/steveyegge/rd/internal/envelope"
	"github.com/steveyegge/rd/internal/telemetry"
	"github.com/steveyegge/rd/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

// run executes one invocation and returns its exit code. It is the whole
// program minus os.Exit, so tests drive it directly.
func run(args []string, stdin io.Reader, stdout io.Writer) int {
	args, jsonFlag := envelope.ExtractJSONFlag(args)
	printer := envelope.Printer{
		Out:   stdout,
		JSON:  jsonFlag || !ui.IsTerminalWriter(stdout),
		Human: renderHuman,
	}
	if !printer.JSON {
		ui.ConfigureColor()
	}

	result := execute(args, stdin)
	if err := printer.Print(result); err != nil {
		debug.Logf("writing result: %v\n", err)
		return clierr.ExitFailure
	}
	return result.ExitCode()
}

func execute(args []string, stdin io.Reader) envelope.Result {
	cfg, err := config.Load()
	if err != nil {
		return envelope.Failure(clierr.InvalidArgs("%v", err).WithSuggest("Fix or remove " + config.Dir() + "/config.yaml"))
	}
	if cfg.LogFile != "" {
		debug.ConfigureFile(cfg.LogFile)
	}
	if cfg.Debug {
		debug.SetVerbose(true)
	}

	requestID := uuid.NewString()
	debug.SetRequestID(requestID)

	ctx := context.Background()
	if err := telemetry.Init(ctx, telemetry.Options{
		Enabled:     cfg.OtelEnabled,
		Stdout:      cfg.OtelStdout,
		ServiceName: "rd",
		Version:     Version,
	}); err != nil {
		debug.Logf("telemetry disabled: %v\n", err)
	}
	defer telemetry.Shutdown(ctx)

	a := &app{
		cfg:       cfg,
		resolver:  auth.NewResolver(),
		requestID: requestID,
		stdin:     stdin,
		stdinTTY:  ui.IsTerminalReader(stdin),
		now:       time.Now,
	}
	return a.execute(ctx, args)
}
