package goslingshot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/gosling-lang/go-goslingshot/internal/assets"
)

// Renderer turns Gosling specs into images.
// Create with NewRenderer(), call Render() per spec, and Close() when done.
// A Renderer is not safe for concurrent Render calls.
type Renderer struct {
	cfg      rendererConfig
	tmpl     *template.Template
	capturer capturer
}

// NewRenderer creates a Renderer with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithBackend, WithPackages).
// Returns error if an option is invalid or the document template cannot be loaded.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{cfg: defaultRendererConfig()}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.cfg.validate(); err != nil {
		return nil, err
	}
	if err := r.cfg.browser.Validate(); err != nil {
		return nil, err
	}

	resolver, err := assets.NewAssetResolver(r.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	content, err := resolver.LoadTemplate(r.cfg.template)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	r.tmpl, err = parseDocumentTemplate(r.cfg.template, content)
	if err != nil {
		return nil, err
	}

	// Create capture backend if not injected (e.g., by tests)
	if r.capturer == nil {
		r.capturer, err = newCapturer(r.cfg.backend)
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Backend returns the name of the capture backend in use.
func (r *Renderer) Backend() string {
	return r.capturer.Name()
}

// Timeout returns the per-render deadline.
func (r *Renderer) Timeout() time.Duration {
	return r.cfg.timeout
}

// Formats lists the output formats the configured backend can encode.
func (r *Renderer) Formats() []Format {
	var out []Format
	for _, f := range Formats() {
		if r.cfg.backend.supports(f) {
			out = append(out, f)
		}
	}
	return out
}

// Render builds the document for input.Spec and captures the visualization.
// The context is used for cancellation; each render is additionally bounded
// by the configured timeout. If input.HTMLOnly is true, capture is skipped.
// Capture failures are returned as *RenderError.
func (r *Renderer) Render(ctx context.Context, input Input) (*Result, error) {
	format, err := r.validateInput(input)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.timeout)
	defer cancel()

	if err := preflightSpec(ctx, input.Spec); err != nil {
		return nil, err
	}

	doc, err := buildDocument(r.tmpl, r.cfg.packages, input.Spec)
	if err != nil {
		return nil, err
	}

	result := &Result{HTML: []byte(doc), Format: format}
	if input.HTMLOnly {
		return result, nil
	}

	req := &captureRequest{
		Format:          format,
		Quality:         r.cfg.quality,
		Selector:        r.cfg.selector,
		SelectorTimeout: r.cfg.selectorTimeout,
		IdleTime:        r.cfg.idleTime,
		LoadMode:        r.cfg.loadMode,
		Browser:         r.cfg.browser,
		OmitBackground:  r.cfg.omitBackground && format != FormatJPEG,
	}

	data, err := r.capturer.Capture(ctx, doc, req)
	if err != nil {
		return nil, r.renderError(err)
	}
	if _, err := verifyImage(data, format); err != nil {
		return nil, r.renderError(err)
	}

	result.Image = data
	return result, nil
}

// renderError wraps a capture failure, naming the deadline when it fired.
func (r *Renderer) renderError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("timed out after %v: %w", r.cfg.timeout, err)
	}
	return &RenderError{Backend: r.capturer.Name(), Err: err}
}

// validateInput checks the spec, the format and backend support for it.
func (r *Renderer) validateInput(input Input) (Format, error) {
	if strings.TrimSpace(input.Spec) == "" {
		return "", ErrEmptySpec
	}

	format := input.Format
	if format == "" {
		format = DefaultFormat
	}
	if err := format.Validate(); err != nil {
		return "", err
	}
	if !r.cfg.backend.supports(format) {
		return "", fmt.Errorf("%w: %s backend cannot encode %s", ErrUnsupportedFormat, r.cfg.backend, format)
	}
	return format, nil
}

// Close releases backend resources.
func (r *Renderer) Close() error {
	if r.capturer != nil {
		return r.capturer.Close()
	}
	return nil
}
