// Package goslingshot renders Gosling visualization specs to PNG, JPEG or
// WebP images using headless Chrome.
//
// # Quick Start
//
// Create a renderer, render a spec, and close when done:
//
//	r, err := goslingshot.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	result, err := r.Render(ctx, goslingshot.Input{
//	    Spec:   specJSON,
//	    Format: goslingshot.FormatPNG,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("out.png", result.Image, 0644)
//
// The result contains both the image bytes (result.Image) and the HTML
// document loaded into the browser (result.HTML) for debugging. Use
// Input.HTMLOnly to skip the browser entirely.
//
// # Rendering Pipeline
//
//  1. Input validation (empty spec, format, backend support)
//  2. Spec escaping for a JavaScript template literal
//  3. Preflight: the embedded JSON.parse expression is evaluated in goja
//  4. Document templating with the pinned React, PixiJS, HiGlass and Gosling versions
//  5. Capture: launch a browser, load, wait for network idle and the
//     ".gosling-component" element, screenshot the element
//  6. Output verification: the bytes must decode as the requested format
//
// Every Render call launches its own browser and tears it down before
// returning, whatever the outcome.
//
// # Configuration
//
//	r, err := goslingshot.NewRenderer(
//	    goslingshot.WithTimeout(2 * time.Minute),
//	    goslingshot.WithBackend(goslingshot.BackendPlaywright),
//	    goslingshot.WithPackages(goslingshot.Packages{Gosling: "0.9.30"}),
//	    goslingshot.WithBrowser(goslingshot.BrowserOptions{
//	        Headless: true,
//	        UseGL:    "swiftshader",
//	        Viewport: goslingshot.Viewport{Width: 1200, Height: 800, ScaleFactor: 2},
//	    }),
//	)
//
// # Backends
//
// BackendRod (default) drives Chrome over CDP with go-rod and supports all
// formats. BackendPlaywright uses playwright-go and supports PNG and JPEG.
//
// # Environment
//
//	ROD_BROWSER_BIN  browser executable to use (also disables the sandbox)
//	ROD_NO_SANDBOX=1 disable the Chrome sandbox
//	CI=true          disable the Chrome sandbox
//
// # Errors
//
// Validation failures return sentinel errors (ErrEmptySpec, ErrInvalidSpec,
// ErrUnsupportedFormat). Browser failures return *RenderError, which matches
// ErrRender and unwraps to the cause:
//
//	var rerr *goslingshot.RenderError
//	if errors.As(err, &rerr) && errors.Is(err, goslingshot.ErrElementNotFound) {
//	    // the spec loaded but never produced a visualization
//	}
package goslingshot
