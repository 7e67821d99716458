package main

import (
	"context"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rd/internal/envelope"
)

var (
	// Version is the current version of rd (overridden by ldflags at build time)
	Version = "0.3.0"
	// Build can be set via ldflags at compile time
	Build = "dev"
	// Commit is the git revision the binary was built from (optional ldflag)
	Commit = ""
)

type versionInfo struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit,omitempty"`
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		GroupID: "account",
		Short:   "Print version information",
		Run: a.handle(func(_ context.Context, _ *cobra.Command, args []string) envelope.Result {
			if err := noArgs(args); err != nil {
				return envelope.Failure(err)
			}
			return versionResult()
		}),
	}
}

func versionResult() envelope.Result {
	return envelope.Success(versionInfo{Version: Version, Build: Build, Commit: resolveCommitHash()})
}

func resolveCommitHash() string {
	if Commit != "" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return ""
}
