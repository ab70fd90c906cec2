package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gosling-lang/go-goslingshot/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory name under the user config dir.
const AppDir = "gosling-screenshot"

// Field length limits.
const (
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxURLLength      = 2048 // Browser limit
	MaxVersionLength  = 50   // "0.9.17", "1.11.0-beta.3"
	MaxSelectorLength = 200  // CSS selector
	MaxNameLength     = 50   // template, backend, format names
	MaxFlagLength     = 200  // one browser flag
	MaxFlags          = 32   // browser flags per config
)

// Accepted enum values, kept in sync with the renderer.
var (
	validFormats   = []string{"png", "jpeg", "jpg", "webp"}
	validBackends  = []string{"rod", "playwright"}
	validLoadModes = []string{"file", "inline"}
)

// Config holds all configuration for batch screenshots.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Render   RenderConfig   `yaml:"render"`
	Viewport ViewportConfig `yaml:"viewport"`
	Browser  BrowserConfig  `yaml:"browser"`
	Packages PackagesConfig `yaml:"packages"`
}

// OutputConfig defines output options.
type OutputConfig struct {
	Format string `yaml:"format"` // png, jpeg, webp (empty = png)
	Dir    string `yaml:"dir"`    // output directory (empty = next to input, file input only)
	HTML   bool   `yaml:"html"`   // also write the generated HTML document
	Strict bool   `yaml:"strict"` // exit 1 if any job fails
}

// RenderConfig defines capture options. Durations use Go syntax ("30s", "2m").
type RenderConfig struct {
	Backend         string `yaml:"backend"`         // rod, playwright
	Timeout         string `yaml:"timeout"`         // per-spec deadline
	SelectorTimeout string `yaml:"selectorTimeout"` // wait for the visualization element
	IdleTime        string `yaml:"idleTime"`        // network quiet period
	Selector        string `yaml:"selector"`        // CSS selector to screenshot
	Quality         int    `yaml:"quality"`         // 1-100, jpeg/webp only (0 = default)
	LoadMode        string `yaml:"loadMode"`        // file, inline
	Template        string `yaml:"template"`        // document template name
	AssetPath       string `yaml:"assetPath"`       // directory with templates/*.html
}

// ViewportConfig defines the browser window.
type ViewportConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"` // device scale factor
}

// BrowserConfig defines browser launch flags.
type BrowserConfig struct {
	Bin                string   `yaml:"bin"`
	Headful            bool     `yaml:"headful"` // show the window (debugging)
	NoSandbox          bool     `yaml:"noSandbox"`
	UseGL              *string  `yaml:"useGL"` // nil = default, "" = omit flag
	DisableGPU         bool     `yaml:"disableGPU"`
	DisableDevShmUsage bool     `yaml:"disableDevShmUsage"`
	Flags              []string `yaml:"flags"`
}

// PackagesConfig pins script versions loaded by the document.
type PackagesConfig struct {
	BaseURL string `yaml:"baseURL"`
	React   string `yaml:"react"`
	PixiJS  string `yaml:"pixijs"`
	HiGlass string `yaml:"higlass"`
	Gosling string `yaml:"gosling"`
}

// Validate checks field lengths, enums, durations and numeric ranges.
// Empty values are valid and mean "use the default".
func (c *Config) Validate() error {
	if err := c.Output.validate(); err != nil {
		return err
	}
	if err := c.Render.validate(); err != nil {
		return err
	}
	if err := c.Viewport.validate(); err != nil {
		return err
	}
	if err := c.Browser.validate(); err != nil {
		return err
	}
	return c.Packages.validate()
}

func (o *OutputConfig) validate() error {
	if err := validateEnum("output.format", o.Format, validFormats); err != nil {
		return err
	}
	return validateFieldLength("output.dir", o.Dir, MaxPathLength)
}

func (r *RenderConfig) validate() error {
	if err := validateEnum("render.backend", r.Backend, validBackends); err != nil {
		return err
	}
	if err := validateEnum("render.loadMode", r.LoadMode, validLoadModes); err != nil {
		return err
	}
	for field, value := range map[string]string{
		"render.timeout":         r.Timeout,
		"render.selectorTimeout": r.SelectorTimeout,
		"render.idleTime":        r.IdleTime,
	} {
		if _, err := ParseDuration(field, value); err != nil {
			return err
		}
	}
	if err := validateFieldLength("render.selector", r.Selector, MaxSelectorLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.template", r.Template, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.assetPath", r.AssetPath, MaxPathLength); err != nil {
		return err
	}
	if r.Quality < 0 || r.Quality > 100 {
		return fmt.Errorf("%w: render.quality must be between 1 and 100, got %d", ErrInvalidValue, r.Quality)
	}
	return nil
}

func (v *ViewportConfig) validate() error {
	if v.Width < 0 || v.Height < 0 {
		return fmt.Errorf("%w: viewport size cannot be negative (%dx%d)", ErrInvalidValue, v.Width, v.Height)
	}
	if v.Scale < 0 {
		return fmt.Errorf("%w: viewport.scale cannot be negative, got %.2f", ErrInvalidValue, v.Scale)
	}
	return nil
}

func (b *BrowserConfig) validate() error {
	if err := validateFieldLength("browser.bin", b.Bin, MaxPathLength); err != nil {
		return err
	}
	if b.UseGL != nil {
		if err := validateFieldLength("browser.useGL", *b.UseGL, MaxNameLength); err != nil {
			return err
		}
	}
	if len(b.Flags) > MaxFlags {
		return fmt.Errorf("%w: browser.flags has %d entries (max %d)", ErrInvalidValue, len(b.Flags), MaxFlags)
	}
	for i, f := range b.Flags {
		if err := validateFieldLength(fmt.Sprintf("browser.flags[%d]", i), f, MaxFlagLength); err != nil {
			return err
		}
	}
	return nil
}

func (p *PackagesConfig) validate() error {
	if err := validateFieldLength("packages.baseURL", p.BaseURL, MaxURLLength); err != nil {
		return err
	}
	for field, value := range map[string]string{
		"packages.react":   p.React,
		"packages.pixijs":  p.PixiJS,
		"packages.higlass": p.HiGlass,
		"packages.gosling": p.Gosling,
	} {
		if err := validateFieldLength(field, value, MaxVersionLength); err != nil {
			return err
		}
	}
	return nil
}

// ParseDuration parses a config duration. Empty means unset (zero).
func ParseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, field, value)
	}
	return d, nil
}

// validateEnum checks value against allowed values, ignoring case.
func validateEnum(field, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, strings.ToLower(value)) {
		return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, field, value, strings.Join(allowed, ", "))
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns an empty configuration: every field falls back to
// the renderer defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) || fileutil.HasExtension(nameOrPath, ".yaml") || fileutil.HasExtension(nameOrPath, ".yml") {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Paths: []string{configPath}}
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML config data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := unmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NotFoundError lists the locations searched for a config file.
// It matches ErrConfigNotFound.
type NotFoundError struct {
	Paths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: tried %s", ErrConfigNotFound, strings.Join(e.Paths, ", "))
}

// Is reports whether target is ErrConfigNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrConfigNotFound }

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/gosling-screenshot/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Paths: triedPaths}
}
