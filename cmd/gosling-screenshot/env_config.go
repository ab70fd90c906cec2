package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosling-lang/go-goslingshot/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // GOSLING_CONFIG: config file name or path
	Format     string // GOSLING_FORMAT: png, jpeg, webp
	Outdir     string // GOSLING_OUTDIR: output directory
	Timeout    string // GOSLING_TIMEOUT: per-spec deadline ("90s")
	Backend    string // GOSLING_BACKEND: rod, playwright
}

// knownEnvVars lists valid GOSLING_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"GOSLING_CONFIG":    true,
	"GOSLING_FORMAT":    true,
	"GOSLING_OUTDIR":    true,
	"GOSLING_TIMEOUT":   true,
	"GOSLING_BACKEND":   true,
	"GOSLING_CONTAINER": true, // doctor override
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	return &envConfig{
		ConfigPath: getenv("GOSLING_CONFIG"),
		Format:     getenv("GOSLING_FORMAT"),
		Outdir:     getenv("GOSLING_OUTDIR"),
		Timeout:    getenv("GOSLING_TIMEOUT"),
		Backend:    getenv("GOSLING_BACKEND"),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized GOSLING_* variables.
// Helps catch typos like GOSLING_OUTPUT instead of GOSLING_OUTDIR.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, "GOSLING_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overlays environment values on the file config.
// Flags are merged afterwards, giving: flags > env > config file > defaults.
// Values are validated later by config.Validate.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Format != "" {
		cfg.Output.Format = env.Format
	}
	if env.Outdir != "" {
		cfg.Output.Dir = env.Outdir
	}
	if env.Timeout != "" {
		cfg.Render.Timeout = env.Timeout
	}
	if env.Backend != "" {
		cfg.Render.Backend = env.Backend
	}
}
