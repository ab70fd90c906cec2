package goslingshot

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/gosling-lang/go-goslingshot/internal/fileutil"
)

// playwrightCapturer captures screenshots with playwright-go.
// The Node driver starts once per Renderer; each Capture launches and closes
// its own Chromium instance.
type playwrightCapturer struct {
	mu     sync.Mutex
	pw     *playwright.Playwright
	run    func() (*playwright.Playwright, error)
	getenv func(string) string
}

func newPlaywrightCapturer() *playwrightCapturer {
	return &playwrightCapturer{
		run:    func() (*playwright.Playwright, error) { return playwright.Run() },
		getenv: os.Getenv,
	}
}

func (c *playwrightCapturer) Name() string { return string(BackendPlaywright) }

// ensureDriver lazily starts the Playwright driver.
func (c *playwrightCapturer) ensureDriver() (*playwright.Playwright, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pw != nil {
		return c.pw, nil
	}
	pw, err := c.run()
	if err != nil {
		return nil, fmt.Errorf("%w: starting playwright driver: %v", ErrBrowserLaunch, err)
	}
	c.pw = pw
	return pw, nil
}

// Close stops the Playwright driver.
func (c *playwrightCapturer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pw == nil {
		return nil
	}
	err := c.pw.Stop()
	c.pw = nil
	return err
}

// playwrightFormats maps output formats to Playwright screenshot types.
// Playwright has no WebP encoder.
var playwrightFormats = map[Format]*playwright.ScreenshotType{
	FormatPNG:  playwright.ScreenshotTypePng,
	FormatJPEG: playwright.ScreenshotTypeJpeg,
}

// Capture launches a dedicated Chromium, loads document, waits for the
// selector and screenshots the matched element.
func (c *playwrightCapturer) Capture(ctx context.Context, document string, req *captureRequest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shotType, ok := playwrightFormats[req.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not supported by the playwright backend", ErrUnsupportedFormat, req.Format)
	}

	pw, err := c.ensureDriver()
	if err != nil {
		return nil, err
	}

	opts := req.Browser.resolved(c.getenv)
	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     opts.args(),
		Timeout:  playwright.Float(ms(remaining(ctx, DefaultTimeout))),
	}
	if opts.Bin != "" {
		launchOpts.ExecutablePath = playwright.String(opts.Bin)
	}

	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}
	defer func() { _ = browser.Close() }()

	// Playwright calls are not context-aware; closing the browser unblocks them.
	stop := context.AfterFunc(ctx, func() { _ = browser.Close() })
	defer stop()

	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
		DeviceScaleFactor: playwright.Float(opts.Viewport.ScaleFactor),
	})
	if err != nil {
		return nil, contextOr(ctx, fmt.Errorf("%w: %v", ErrPageCreate, err))
	}

	cleanup, err := c.load(ctx, page, document, req.LoadMode)
	defer cleanup()
	if err != nil {
		return nil, contextOr(ctx, err)
	}

	el, err := page.WaitForSelector(req.Selector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(ms(req.SelectorTimeout)),
	})
	if err != nil {
		return nil, contextOr(ctx, fmt.Errorf("%w: %q after %v: %v", ErrElementNotFound, req.Selector, req.SelectorTimeout, err))
	}
	if el == nil {
		return nil, fmt.Errorf("%w: %q", ErrElementNotFound, req.Selector)
	}

	shotOpts := playwright.ElementHandleScreenshotOptions{Type: shotType}
	if req.Format.lossy() {
		shotOpts.Quality = playwright.Int(req.Quality)
	}
	if req.OmitBackground {
		shotOpts.OmitBackground = playwright.Bool(true)
	}
	data, err := el.Screenshot(shotOpts)
	if err != nil {
		return nil, contextOr(ctx, fmt.Errorf("%w: %v", ErrScreenshot, err))
	}
	return data, nil
}

// load delivers the document and waits for network idle.
func (c *playwrightCapturer) load(ctx context.Context, page playwright.Page, document string, mode LoadMode) (cleanup func(), err error) {
	timeout := playwright.Float(ms(remaining(ctx, DefaultTimeout)))

	if mode == LoadModeInline {
		err := page.SetContent(document, playwright.PageSetContentOptions{
			WaitUntil: playwright.WaitUntilStateNetworkidle,
			Timeout:   timeout,
		})
		if err != nil {
			return func() {}, fmt.Errorf("%w: %v", ErrPageLoad, err)
		}
		return func() {}, nil
	}

	path, cleanup, err := fileutil.WriteTempFile(document, "html")
	if err != nil {
		return func() {}, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	_, err = page.Goto(fileURL(path), playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   timeout,
	})
	if err != nil {
		return cleanup, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return cleanup, nil
}

// ms converts a duration to Playwright's float milliseconds.
func ms(d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	return float64(d.Milliseconds())
}
