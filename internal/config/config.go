// Package config loads rd settings with viper.
//
// Precedence (highest first): RAINDROP_* environment variables, the optional
// config.yaml under the rd config directory, built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultAPIURL is the Raindrop.io REST endpoint.
const DefaultAPIURL = "https://api.raindrop.io/rest/v1"

// Config keys.
const (
	KeyAPIURL      = "api-url"
	KeyTimeout     = "timeout"
	KeyLogFile     = "log-file"
	KeyDebug       = "debug"
	KeyOtelEnabled = "otel-enabled"
	KeyOtelStdout  = "otel-stdout"
)

// Config is the resolved configuration for one invocation.
type Config struct {
	APIURL string
	// Timeout of 0 leaves the transport default in place.
	Timeout     time.Duration
	LogFile     string
	Debug       bool
	OtelEnabled bool
	OtelStdout  bool
	// Dir is the directory holding config.yaml and the token file.
	Dir string
}

// Dir returns the rd configuration directory:
// $XDG_CONFIG_HOME/raindrop, falling back to ~/.config/raindrop.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "raindrop")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "raindrop")
	}
	return filepath.Join(home, ".config", "raindrop")
}

// TokenPath returns the fixed location of the token file.
func TokenPath() string {
	return filepath.Join(Dir(), "token")
}

// Load resolves configuration using a fresh viper instance.
func Load() (*Config, error) {
	dir := Dir()
	v := viper.New()

	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyTimeout, "0s")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyOtelEnabled, false)
	v.SetDefault(KeyOtelStdout, false)

	v.SetEnvPrefix("RAINDROP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s: %w", filepath.Join(dir, "config.yaml"), err)
		}
	}

	timeout, err := parseTimeout(v.GetString(KeyTimeout))
	if err != nil {
		return nil, err
	}

	apiURL := strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIURL)), "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Config{
		APIURL:      apiURL,
		Timeout:     timeout,
		LogFile:     v.GetString(KeyLogFile),
		Debug:       v.GetBool(KeyDebug),
		OtelEnabled: v.GetBool(KeyOtelEnabled),
		OtelStdout:  v.GetBool(KeyOtelStdout),
		Dir:         dir,
	}, nil
}

// parseTimeout accepts Go durations ("30s") or bare seconds ("30").
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("invalid timeout %q: must not be negative", s)
		}
		return d, nil
	}
	var secs int
	if _, err := fmt.Sscanf(s, "%d", &secs); err == nil && fmt.Sprint(secs) == s && secs >= 0 {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid timeout %q: use a duration like 30s", s)
}
