package goslingshot

import (
	"fmt"
	"net/url"
	"strings"
)

// Format is an output image format.
type Format string

// Supported output formats.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// DefaultFormat is used when no format is specified.
const DefaultFormat = FormatPNG

// Formats lists every supported format in display order.
func Formats() []Format {
	return []Format{FormatPNG, FormatJPEG, FormatWebP}
}

// ParseFormat converts a user-supplied name to a Format (case-insensitive).
// "jpg" is accepted as an alias of jpeg.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: %q (must be png, jpeg, or webp)", ErrUnsupportedFormat, s)
}

// Validate checks that f is one of the supported formats.
func (f Format) Validate() error {
	switch f {
	case FormatPNG, FormatJPEG, FormatWebP:
		return nil
	}
	return fmt.Errorf("%w: %q (must be png, jpeg, or webp)", ErrUnsupportedFormat, string(f))
}

// Extension returns the file extension for f, including the leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// lossy reports whether the format accepts a quality setting.
func (f Format) lossy() bool {
	return f == FormatJPEG || f == FormatWebP
}

// Default package versions loaded by the document template.
const (
	DefaultBaseURL        = "https://unpkg.com"
	DefaultReactVersion   = "17"
	DefaultPixiJSVersion  = "6"
	DefaultHiGlassVersion = "1.11"
	DefaultGoslingVersion = "0.9.17"
)

// Packages pins the externally hosted scripts and styles the document loads.
type Packages struct {
	BaseURL string // CDN root serving "<pkg>@<version>/..." paths
	React   string
	PixiJS  string
	HiGlass string
	Gosling string
}

// DefaultPackages returns the known-good versions.
func DefaultPackages() Packages {
	return Packages{
		BaseURL: DefaultBaseURL,
		React:   DefaultReactVersion,
		PixiJS:  DefaultPixiJSVersion,
		HiGlass: DefaultHiGlassVersion,
		Gosling: DefaultGoslingVersion,
	}
}

// withDefaults fills empty fields from DefaultPackages.
func (p Packages) withDefaults() Packages {
	d := DefaultPackages()
	if p.BaseURL == "" {
		p.BaseURL = d.BaseURL
	}
	if p.React == "" {
		p.React = d.React
	}
	if p.PixiJS == "" {
		p.PixiJS = d.PixiJS
	}
	if p.HiGlass == "" {
		p.HiGlass = d.HiGlass
	}
	if p.Gosling == "" {
		p.Gosling = d.Gosling
	}
	return p
}

// Validate checks the base URL and that versions cannot break out of the URL path.
func (p Packages) Validate() error {
	p = p.withDefaults()

	u, err := url.Parse(p.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "file") || (u.Scheme != "file" && u.Host == "") {
		return fmt.Errorf("%w: base URL %q must be an absolute http(s) or file URL", ErrInvalidPackages, p.BaseURL)
	}

	versions := map[string]string{
		"react":   p.React,
		"pixijs":  p.PixiJS,
		"higlass": p.HiGlass,
		"gosling": p.Gosling,
	}
	for name, v := range versions {
		if strings.ContainsAny(v, "/\\?#\"'<> ") {
			return fmt.Errorf("%w: %s version %q", ErrInvalidPackages, name, v)
		}
	}
	return nil
}

// Viewport bounds.
const (
	MinViewportSize = 100
	MaxViewportSize = 10000
	MaxScaleFactor  = 4.0
)

// Viewport is the browser window used to lay out the visualization.
type Viewport struct {
	Width       int
	Height      int
	ScaleFactor float64 // device pixel ratio
}

// DefaultViewport matches the headless default window.
func DefaultViewport() Viewport {
	return Viewport{Width: 800, Height: 600, ScaleFactor: 1}
}

// Validate checks viewport bounds.
func (v Viewport) Validate() error {
	if v.Width < MinViewportSize || v.Width > MaxViewportSize ||
		v.Height < MinViewportSize || v.Height > MaxViewportSize {
		return fmt.Errorf("%w: %dx%d (each side must be between %d and %d)",
			ErrInvalidViewport, v.Width, v.Height, MinViewportSize, MaxViewportSize)
	}
	if v.ScaleFactor <= 0 || v.ScaleFactor > MaxScaleFactor {
		return fmt.Errorf("%w: scale factor %.2f (must be > 0 and <= %.1f)", ErrInvalidViewport, v.ScaleFactor, MaxScaleFactor)
	}
	return nil
}

// Input contains render parameters for one spec.
type Input struct {
	Spec     string // Gosling JSON spec text (required)
	Format   Format // output format (empty = DefaultFormat)
	HTMLOnly bool   // build the document, skip the browser
}

// Result holds the render output.
type Result struct {
	Image  []byte // encoded image, nil when HTMLOnly
	HTML   []byte // document loaded into the browser
	Format Format
}
