package goslingshot

import (
	"fmt"
	"strings"
	"time"
)

// Default rendering parameters.
const (
	DefaultTimeout         = 60 * time.Second
	DefaultSelectorTimeout = 30 * time.Second
	DefaultIdleTime        = 500 * time.Millisecond
	DefaultSelector        = ".gosling-component"
	DefaultQuality         = 90
	DefaultTemplate        = "default"

	// TransparentTemplate is the built-in template with no page background.
	// Selecting it also clears the browser's default white background.
	TransparentTemplate = "transparent"
)

// Backend names a capture backend.
type Backend string

// Supported capture backends.
const (
	BackendRod        Backend = "rod"
	BackendPlaywright Backend = "playwright"
)

// ParseBackend converts a user-supplied name to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendRod:
		return BackendRod, nil
	case BackendPlaywright:
		return BackendPlaywright, nil
	}
	return "", fmt.Errorf("%w: %q (must be rod or playwright)", ErrUnknownBackend, s)
}

// supports reports whether the backend can encode format f.
func (b Backend) supports(f Format) bool {
	if b == BackendPlaywright {
		return f == FormatPNG || f == FormatJPEG
	}
	return true
}

// LoadMode selects how the document reaches the browser.
type LoadMode string

// Supported load modes.
const (
	// LoadModeFile writes the document to a temp file and navigates to it.
	// Gosling's HiGlass dependency needs a page origin, which file:// provides.
	LoadModeFile LoadMode = "file"
	// LoadModeInline sets the document content directly on a blank page.
	LoadModeInline LoadMode = "inline"
)

// ParseLoadMode converts a user-supplied name to a LoadMode.
func ParseLoadMode(s string) (LoadMode, error) {
	switch LoadMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", LoadModeFile:
		return LoadModeFile, nil
	case LoadModeInline:
		return LoadModeInline, nil
	}
	return "", fmt.Errorf("%w: %q (must be file or inline)", ErrInvalidLoadMode, s)
}

// rendererConfig holds settings applied by Option functions.
type rendererConfig struct {
	timeout         time.Duration
	selectorTimeout time.Duration
	idleTime        time.Duration
	backend         Backend
	browser         BrowserOptions
	packages        Packages
	selector        string
	quality         int
	loadMode        LoadMode
	template        string
	assetPath       string
	omitBackground  bool
}

func defaultRendererConfig() rendererConfig {
	return rendererConfig{
		timeout:         DefaultTimeout,
		selectorTimeout: DefaultSelectorTimeout,
		idleTime:        DefaultIdleTime,
		backend:         BackendRod,
		browser:         DefaultBrowserOptions(),
		packages:        DefaultPackages(),
		selector:        DefaultSelector,
		quality:         DefaultQuality,
		loadMode:        LoadModeFile,
		template:        DefaultTemplate,
	}
}

// validate checks option values after all options are applied.
func (c *rendererConfig) validate() error {
	if c.timeout <= 0 {
		return fmt.Errorf("%w: %v (must be positive)", ErrInvalidTimeout, c.timeout)
	}
	if c.selectorTimeout <= 0 || c.selectorTimeout > c.timeout {
		return fmt.Errorf("%w: selector timeout %v (must be positive and at most %v)", ErrInvalidTimeout, c.selectorTimeout, c.timeout)
	}
	if c.idleTime < 0 {
		return fmt.Errorf("%w: idle time %v", ErrInvalidTimeout, c.idleTime)
	}
	if c.quality < 1 || c.quality > 100 {
		return fmt.Errorf("%w: %d (must be between 1 and 100)", ErrInvalidQuality, c.quality)
	}
	if _, err := ParseBackend(string(c.backend)); err != nil {
		return err
	}
	if _, err := ParseLoadMode(string(c.loadMode)); err != nil {
		return err
	}
	if strings.TrimSpace(c.selector) == "" {
		c.selector = DefaultSelector
	}
	if c.template == TransparentTemplate {
		c.omitBackground = true
	}
	c.packages = c.packages.withDefaults()
	return c.packages.Validate()
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTimeout sets the overall per-render deadline, browser launch included.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithSelectorTimeout bounds the wait for the visualization element.
func WithSelectorTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.cfg.selectorTimeout = d
	}
}

// WithIdleTime sets how long the network must stay quiet before the page
// counts as loaded.
func WithIdleTime(d time.Duration) Option {
	return func(r *Renderer) {
		r.cfg.idleTime = d
	}
}

// WithBackend selects the capture backend.
func WithBackend(b Backend) Option {
	return func(r *Renderer) {
		r.cfg.backend = b
	}
}

// WithBrowser sets browser launch flags and viewport.
func WithBrowser(opts BrowserOptions) Option {
	return func(r *Renderer) {
		r.cfg.browser = opts
	}
}

// WithPackages pins the script versions loaded by the document.
// Empty fields keep their defaults.
func WithPackages(p Packages) Option {
	return func(r *Renderer) {
		r.cfg.packages = p
	}
}

// WithSelector sets the CSS selector of the element to capture.
func WithSelector(sel string) Option {
	return func(r *Renderer) {
		r.cfg.selector = sel
	}
}

// WithQuality sets JPEG/WebP quality (1-100). Ignored for PNG.
func WithQuality(q int) Option {
	return func(r *Renderer) {
		r.cfg.quality = q
	}
}

// WithLoadMode selects how the document is delivered to the browser.
func WithLoadMode(m LoadMode) Option {
	return func(r *Renderer) {
		r.cfg.loadMode = m
	}
}

// WithTemplate selects the document template by name.
func WithTemplate(name string) Option {
	return func(r *Renderer) {
		r.cfg.template = name
	}
}

// WithAssetPath sets a directory holding custom templates under templates/.
// Templates not found there fall back to the built-in ones.
func WithAssetPath(path string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = path
	}
}

// withCapturer injects a capture backend (for testing).
func withCapturer(c capturer) Option {
	return func(r *Renderer) {
		r.capturer = c
	}
}
