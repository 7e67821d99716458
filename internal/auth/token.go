// Package auth resolves the Raindrop bearer credential.
package auth

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/steveyegge/rd/internal/clierr"
	"github.com/steveyegge/rd/internal/config"
)

// EnvToken is the environment variable holding the credential.
const EnvToken = "RAINDROP_TOKEN"

// Resolver looks the credential up in the environment, then in a file.
// It never validates the credential against the network.
type Resolver struct {
	Getenv   func(string) string
	ReadFile func(string) ([]byte, error)
	Path     string
}

// NewResolver returns a resolver over the process environment and the
// fixed token file location.
func NewResolver() *Resolver {
	return &Resolver{
		Getenv:   os.Getenv,
		ReadFile: os.ReadFile,
		Path:     config.TokenPath(),
	}
}

// Resolve returns a non-empty credential or an AuthMissing error.
func (r *Resolver) Resolve() (string, error) {
	if tok := strings.TrimSpace(r.Getenv(EnvToken)); tok != "" {
		return tok, nil
	}

	if r.Path != "" && r.ReadFile != nil {
		data, err := r.ReadFile(r.Path)
		switch {
		case err == nil:
			if tok := firstNonBlankLine(data); tok != "" {
				return tok, nil
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return "", clierr.AuthMissing("cannot read token file %s: %v", r.Path, err)
		}
	}

	return "", clierr.AuthMissing("no Raindrop token found: %s is unset and %s has no token", EnvToken, r.Path)
}

func firstNonBlankLine(data []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line
		}
	}
	return ""
}
