package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdpost/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string        // MDPOST_CONFIG: config file name or path
	SessionPath string        // MDPOST_SESSION: session file
	Engine      string        // MDPOST_ENGINE: editor, gfm
	Style       string        // MDPOST_STYLE: CSS style name or path
	Timeout     time.Duration // MDPOST_TIMEOUT: PDF generation timeout
	Workers     int           // MDPOST_WORKERS: parallel render workers
}

// knownEnvVars lists valid MDPOST_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDPOST_CONFIG":  true,
	"MDPOST_SESSION": true,
	"MDPOST_ENGINE":  true,
	"MDPOST_STYLE":   true,
	"MDPOST_TIMEOUT": true,
	"MDPOST_WORKERS": true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("MDPOST_CONFIG"),
		SessionPath: os.Getenv("MDPOST_SESSION"),
		Engine:      os.Getenv("MDPOST_ENGINE"),
		Style:       os.Getenv("MDPOST_STYLE"),
	}

	if timeout := os.Getenv("MDPOST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MDPOST_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDPOST_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MDPOST_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides file and default values with the environment.
// CLI flags are merged afterwards by each command, giving
// CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.SessionPath != "" {
		cfg.Session.Path = env.SessionPath
	}
	if env.Engine != "" {
		cfg.Render.Engine = strings.ToLower(env.Engine)
	}
	if env.Style != "" {
		cfg.Render.Style = env.Style
	}
	if env.Timeout > 0 {
		cfg.PDF.Timeout = env.Timeout.String()
	}
}

// loadConfig resolves the effective configuration: the file named by the
// --config flag or MDPOST_CONFIG, then the environment on top.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		if cfg, err = config.LoadConfig(name); err != nil {
			return nil, err
		}
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}
