package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/envelope"
)

type flagDoc struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Type      string `json:"type"`
	Default   string `json:"default,omitempty"`
	Usage     string `json:"usage"`
}

type commandDoc struct {
	Command string       `json:"command"`
	Short   string       `json:"short"`
	Flags   []flagDoc    `json:"flags,omitempty"`
	Sub     []commandDoc `json:"subcommands,omitempty"`
}

type robotDocs struct {
	Envelope  map[string]string `json:"envelope"`
	ExitCodes map[string]int    `json:"exit_codes"`
	Errors    map[string]int    `json:"error_codes"`
	Env       map[string]string `json:"environment"`
	Commands  []commandDoc      `json:"commands"`
}

func (a *app) newRobotDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "robot-docs",
		GroupID: "account",
		Short:   "Describe commands, flags and exit codes as JSON for agents",
		Run: a.handle(func(_ context.Context, cmd *cobra.Command, args []string) envelope.Result {
			if err := noArgs(args); err != nil {
				return envelope.Failure(err)
			}
			docs := robotDocs{
				Envelope: map[string]string{
					"success": `{"ok": true, "data": <result>, "meta"?: {...}}`,
					"error":   `{"ok": false, "error": {"code": <string>, "message": <string>, "suggest": [<string>]}}`,
				},
				ExitCodes: map[string]int{
					"ok":                clierr.ExitOK,
					"not_found":         clierr.ExitNotFound,
					"invalid_arguments": clierr.ExitInvalidArgs,
					"auth":              clierr.ExitAuth,
					"rate_limited":      clierr.ExitRateLimited,
					"api_or_network":    clierr.ExitFailure,
				},
				Errors: map[string]int{},
				Env: map[string]string{
					"RAINDROP_TOKEN":        "bearer token (wins over the token file)",
					"RAINDROP_API_URL":      "API base URL",
					"RAINDROP_TIMEOUT":      "HTTP timeout, e.g. 30s (default: none)",
					"RAINDROP_DEBUG":        "log requests to stderr",
					"RAINDROP_LOG_FILE":     "write debug logs to this rotated file",
					"RAINDROP_OTEL_ENABLED": "enable OpenTelemetry",
					"NO_COLOR":              "disable colors in human output",
				},
			}
			for _, code := range []clierr.Code{
				clierr.CodeInvalidArguments, clierr.CodeAuthMissing, clierr.CodeAuthInvalid,
				clierr.CodeNotFound, clierr.CodeRateLimited, clierr.CodeAPIError, clierr.CodeNetworkError,
			} {
				docs.Errors[string(code)] = code.ExitCode()
			}
			for _, sub := range cmd.Root().Commands() {
				if sub.IsAvailableCommand() {
					docs.Commands = append(docs.Commands, describeCommand(sub))
				}
			}
			return envelope.Success(docs)
		}),
	}
}

func describeCommand(cmd *cobra.Command) commandDoc {
	doc := commandDoc{Command: cmd.UseLine(), Short: cmd.Short}
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		doc.Flags = append(doc.Flags, flagDoc{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Type:      f.Value.Type(),
			Default:   f.DefValue,
			Usage:     f.Usage,
		})
	})
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			doc.Sub = append(doc.Sub, describeCommand(sub))
		}
	}
	return doc
}
