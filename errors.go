package goslingshot

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptySpec         = errors.New("spec content cannot be empty")
	ErrInvalidSpec       = errors.New("spec is not valid JSON")
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrUnknownBackend    = errors.New("unknown capture backend")
	ErrInvalidLoadMode   = errors.New("invalid load mode")
	ErrTemplateRender    = errors.New("document template rendering failed")

	// Capture errors, wrapped in *RenderError by Renderer.Render.
	ErrRender          = errors.New("render failed")
	ErrBrowserLaunch   = errors.New("failed to launch browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrElementNotFound = errors.New("visualization element not found")
	ErrScreenshot      = errors.New("screenshot capture failed")
	ErrInvalidImage    = errors.New("captured image is not valid")

	// Option validation errors.
	ErrInvalidTimeout  = errors.New("invalid timeout")
	ErrInvalidQuality  = errors.New("invalid quality")
	ErrInvalidViewport = errors.New("invalid viewport")
	ErrInvalidPackages = errors.New("invalid package configuration")
	ErrInvalidFlag     = errors.New("invalid browser flag")
)

// RenderError reports a failure of the external rendering capability:
// browser launch, navigation, element wait, screenshot or output check.
// It matches ErrRender and unwraps to the underlying cause.
type RenderError struct {
	Backend string
	Err     error
}

func (e *RenderError) Error() string {
	if e.Backend == "" {
		return ErrRender.Error() + ": " + e.Err.Error()
	}
	return ErrRender.Error() + " (" + e.Backend + "): " + e.Err.Error()
}

func (e *RenderError) Unwrap() error { return e.Err }

// Is reports whether target is ErrRender.
func (e *RenderError) Is(target error) bool { return target == ErrRender }
