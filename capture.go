package goslingshot

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"time"
)

// capturer renders a document in a browser and screenshots one element.
// Each Capture call owns its browser process and tears it down before
// returning, on every path.
type capturer interface {
	Capture(ctx context.Context, document string, req *captureRequest) ([]byte, error)
	Close() error
	Name() string
}

// captureRequest holds the per-render capture parameters.
type captureRequest struct {
	Format          Format
	Quality         int
	Selector        string
	SelectorTimeout time.Duration
	IdleTime        time.Duration
	LoadMode        LoadMode
	Browser         BrowserOptions
	OmitBackground  bool // transparent page background, never set for JPEG
}

// Compile-time interface checks.
var (
	_ capturer = (*rodCapturer)(nil)
	_ capturer = (*playwrightCapturer)(nil)
)

// newCapturer creates the backend for b.
func newCapturer(b Backend) (capturer, error) {
	switch b {
	case BackendRod:
		return newRodCapturer(), nil
	case BackendPlaywright:
		return newPlaywrightCapturer(), nil
	}
	_, err := ParseBackend(string(b))
	return nil, err
}

// fileURL converts a local path to a file:// URL.
func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	abs = filepath.ToSlash(abs)
	if abs[0] != '/' {
		abs = "/" + abs // windows drive letter
	}
	return (&url.URL{Scheme: "file", Path: abs}).String()
}

// remaining returns the time left before ctx expires, or fallback.
func remaining(ctx context.Context, fallback time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		return time.Until(deadline)
	}
	return fallback
}

// contextOr returns the context error when ctx is done, err otherwise.
func contextOr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return ctxErr
	}
	return err
}
