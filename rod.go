package goslingshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"github.com/ysmood/gson"

	"github.com/gosling-lang/go-goslingshot/internal/fileutil"
	"github.com/gosling-lang/go-goslingshot/internal/process"
)

// rodCapturer captures screenshots with go-rod.
// Rod downloads Chromium on first run if no browser binary is configured.
type rodCapturer struct {
	getenv func(string) string
}

func newRodCapturer() *rodCapturer {
	return &rodCapturer{getenv: os.Getenv}
}

func (c *rodCapturer) Name() string { return string(BackendRod) }

// Close is a no-op: browsers never outlive a Capture call.
func (c *rodCapturer) Close() error { return nil }

// rodFormats maps output formats to CDP screenshot formats.
var rodFormats = map[Format]proto.PageCaptureScreenshotFormat{
	FormatPNG:  proto.PageCaptureScreenshotFormatPng,
	FormatJPEG: proto.PageCaptureScreenshotFormatJpeg,
	FormatWebP: proto.PageCaptureScreenshotFormatWebp,
}

// Capture launches a dedicated browser, loads document, waits for the
// selector and screenshots the matched element.
func (c *rodCapturer) Capture(ctx context.Context, document string, req *captureRequest) (data []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, ok := rodFormats[req.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}

	opts := req.Browser.resolved(c.getenv)
	profileDir := filepath.Join(os.TempDir(), "gosling-profile-"+uuid.NewString())
	l := opts.rodLauncher(profileDir).Context(ctx)

	// Teardown order: browser.Close (deferred below), process group kill,
	// launcher kill, profile removal. Cleanup blocks until the process exits,
	// so it only runs once a process was started.
	defer func() {
		if pid := l.PID(); pid > 0 {
			process.KillProcessGroup(pid)
			if process.Exists(pid) {
				l.Kill()
			}
			l.Cleanup()
		}
		_ = os.RemoveAll(profileDir)
	}()

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Viewport.Width,
		Height:            opts.Viewport.Height,
		DeviceScaleFactor: opts.Viewport.ScaleFactor,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}
	if req.OmitBackground {
		err = proto.EmulationSetDefaultBackgroundColorOverride{
			Color: &proto.DOMRGBA{A: gson.Num(0)},
		}.Call(page)
		if err != nil {
			return nil, fmt.Errorf("%w: clearing background: %v", ErrPageCreate, err)
		}
	}

	waitIdle := page.WaitRequestIdle(req.IdleTime, nil, nil, nil)

	cleanup, err := c.load(page, document, req.LoadMode)
	defer cleanup()
	if err != nil {
		return nil, contextOr(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, contextOr(ctx, fmt.Errorf("%w: %v", ErrPageLoad, err))
	}
	waitIdle()

	el, err := page.Timeout(req.SelectorTimeout).Element(req.Selector)
	if err != nil {
		return nil, contextOr(ctx, fmt.Errorf("%w: %q after %v: %v", ErrElementNotFound, req.Selector, req.SelectorTimeout, err))
	}

	data, err = c.screenshot(page, el, format, req)
	if err != nil {
		return nil, contextOr(ctx, fmt.Errorf("%w: %v", ErrScreenshot, err))
	}
	return data, nil
}

// screenshot captures the element's full border box, including the parts
// outside the viewport, encoded by the browser in the requested format.
func (c *rodCapturer) screenshot(page *rod.Page, el *rod.Element, format proto.PageCaptureScreenshotFormat, req *captureRequest) ([]byte, error) {
	shape, err := el.Shape()
	if err != nil {
		return nil, err
	}
	metrics, err := proto.PageGetLayoutMetrics{}.Call(page)
	if err != nil {
		return nil, err
	}
	var scrollX, scrollY float64
	if vv := metrics.CSSVisualViewport; vv != nil {
		scrollX, scrollY = vv.PageX, vv.PageY
	}
	clip, err := elementClip(shape.Box(), scrollX, scrollY)
	if err != nil {
		return nil, err
	}

	shot := &proto.PageCaptureScreenshot{
		Format:                format,
		Clip:                  clip,
		CaptureBeyondViewport: true,
	}
	if req.Format.lossy() {
		shot.Quality = gson.Int(req.Quality)
	}
	return page.Screenshot(false, shot)
}

// elementClip converts an element box in viewport coordinates to a
// document-relative capture region.
func elementClip(box *proto.DOMRect, scrollX, scrollY float64) (*proto.PageViewport, error) {
	if box == nil || box.Width <= 0 || box.Height <= 0 {
		return nil, errors.New("element has no visible box")
	}
	return &proto.PageViewport{
		X:      box.X + scrollX,
		Y:      box.Y + scrollY,
		Width:  box.Width,
		Height: box.Height,
		Scale:  1,
	}, nil
}

// load delivers the document to the page. The returned cleanup removes the
// per-job temp file and is never nil.
func (c *rodCapturer) load(page *rod.Page, document string, mode LoadMode) (cleanup func(), err error) {
	cleanup = func() {}
	if mode == LoadModeInline {
		if err := page.SetDocumentContent(document); err != nil {
			return cleanup, fmt.Errorf("%w: %v", ErrPageLoad, err)
		}
		return cleanup, nil
	}

	path, cleanup, err := fileutil.WriteTempFile(document, "html")
	if err != nil {
		return func() {}, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.Navigate(fileURL(path)); err != nil {
		return cleanup, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return cleanup, nil
}
