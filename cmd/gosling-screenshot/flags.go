package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/gosling-lang/go-goslingshot/internal/config"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// outputFlags holds output destination and batch policy flags.
type outputFlags struct {
	format string
	outdir string
	html   bool // write the built document next to the image
	strict bool // exit 1 if any job failed
}

// renderFlags holds capture settings.
type renderFlags struct {
	backend         string
	timeout         string
	selectorTimeout string
	idleTime        string
	selector        string
	quality         int
	loadMode        string
	template        string
	assetPath       string
}

// browserFlags holds browser launch flags.
type browserFlags struct {
	bin                string
	headful            bool
	noSandbox          bool
	useGL              string
	disableGPU         bool
	disableDevShmUsage bool
	extra              []string
	viewport           viewportValue
	scale              float64
}

// packageFlags pins the script versions loaded by the document.
type packageFlags struct {
	baseURL string
	react   string
	pixijs  string
	higlass string
	gosling string
}

// screenshotFlags holds all flags for the screenshot command.
type screenshotFlags struct {
	common   commonFlags
	output   outputFlags
	render   renderFlags
	browser  browserFlags
	packages packageFlags

	// changed reports whether a flag was set on the command line.
	changed func(name string) bool
}

// viewportValue parses "WIDTHxHEIGHT" (e.g. 1200x800).
type viewportValue struct {
	width  int
	height int
}

func (v *viewportValue) String() string {
	if v.width == 0 && v.height == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", v.width, v.height)
}

func (v *viewportValue) Set(s string) error {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return fmt.Errorf("viewport %q must be WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil || width <= 0 {
		return fmt.Errorf("viewport width %q must be a positive integer", w)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || height <= 0 {
		return fmt.Errorf("viewport height %q must be a positive integer", h)
	}
	v.width, v.height = width, height
	return nil
}

func (v *viewportValue) Type() string { return "WxH" }

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.format, "format", "f", "png", "output format: png, jpeg, webp")
	fs.StringVarP(&f.outdir, "outdir", "o", "", "output directory (required for directory input)")
	fs.BoolVar(&f.html, "html", false, "also write the generated HTML document")
	fs.BoolVar(&f.strict, "strict", false, "exit 1 if any spec fails")
}

// addRenderFlags adds capture flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.backend, "backend", "", "capture backend: rod, playwright")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-spec timeout (e.g., 60s, 2m)")
	fs.StringVar(&f.selectorTimeout, "selector-timeout", "", "wait for the visualization element (e.g., 30s)")
	fs.StringVar(&f.idleTime, "idle-time", "", "network quiet period before capture (e.g., 500ms)")
	fs.StringVar(&f.selector, "selector", "", "CSS selector of the element to capture")
	fs.IntVar(&f.quality, "quality", 0, "jpeg/webp quality 1-100 (0 = default)")
	fs.StringVar(&f.loadMode, "load-mode", "", "document delivery: file, inline")
	fs.StringVar(&f.template, "template", "", "document template name")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory containing templates/<name>.html")
}

// addBrowserFlags adds browser launch flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome/Chromium executable")
	fs.BoolVar(&f.headful, "headful", false, "show the browser window")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox")
	fs.StringVar(&f.useGL, "use-gl", "", "GL backend passed as --use-gl (\"\" = omit)")
	fs.BoolVar(&f.disableGPU, "disable-gpu", false, "pass --disable-gpu")
	fs.BoolVar(&f.disableDevShmUsage, "disable-dev-shm-usage", false, "pass --disable-dev-shm-usage")
	fs.StringArrayVar(&f.extra, "browser-flag", nil, "extra browser flag, repeatable (e.g., --lang=en)")
	fs.Var(&f.viewport, "viewport", "browser window size (e.g., 1200x800)")
	fs.Float64Var(&f.scale, "scale", 0, "device scale factor (e.g., 2 for HiDPI)")
}

// addPackageFlags adds package version flags to a FlagSet.
func addPackageFlags(fs *flag.FlagSet, f *packageFlags) {
	fs.StringVar(&f.baseURL, "base-url", "", "CDN root serving <pkg>@<version> paths")
	fs.StringVar(&f.react, "react-version", "", "react and react-dom version")
	fs.StringVar(&f.pixijs, "pixijs-version", "", "pixi.js version")
	fs.StringVar(&f.higlass, "higlass-version", "", "higlass version")
	fs.StringVar(&f.gosling, "gosling-version", "", "gosling.js version")
}

// parseScreenshotFlags parses screenshot flags and returns positional args.
func parseScreenshotFlags(args []string, usage io.Writer) (*screenshotFlags, []string, error) {
	fs := flag.NewFlagSet("gosling-screenshot", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &screenshotFlags{changed: fs.Changed}

	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	addRenderFlags(fs, &f.render)
	addBrowserFlags(fs, &f.browser)
	addPackageFlags(fs, &f.packages)

	fs.Usage = func() { printScreenshotUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// mergeFlags writes explicitly set flags into cfg. Flags win over env and file.
func mergeFlags(f *screenshotFlags, cfg *config.Config) {
	set := f.changed

	// Output
	if set("format") {
		cfg.Output.Format = f.output.format
	}
	if set("outdir") {
		cfg.Output.Dir = f.output.outdir
	}
	if set("html") {
		cfg.Output.HTML = f.output.html
	}
	if set("strict") {
		cfg.Output.Strict = f.output.strict
	}

	// Render
	if set("backend") {
		cfg.Render.Backend = f.render.backend
	}
	if set("timeout") {
		cfg.Render.Timeout = f.render.timeout
	}
	if set("selector-timeout") {
		cfg.Render.SelectorTimeout = f.render.selectorTimeout
	}
	if set("idle-time") {
		cfg.Render.IdleTime = f.render.idleTime
	}
	if set("selector") {
		cfg.Render.Selector = f.render.selector
	}
	if set("quality") {
		cfg.Render.Quality = f.render.quality
	}
	if set("load-mode") {
		cfg.Render.LoadMode = f.render.loadMode
	}
	if set("template") {
		cfg.Render.Template = f.render.template
	}
	if set("asset-path") {
		cfg.Render.AssetPath = f.render.assetPath
	}

	// Browser
	if set("browser-bin") {
		cfg.Browser.Bin = f.browser.bin
	}
	if set("headful") {
		cfg.Browser.Headful = f.browser.headful
	}
	if set("no-sandbox") {
		cfg.Browser.NoSandbox = f.browser.noSandbox
	}
	if set("use-gl") {
		useGL := f.browser.useGL
		cfg.Browser.UseGL = &useGL
	}
	if set("disable-gpu") {
		cfg.Browser.DisableGPU = f.browser.disableGPU
	}
	if set("disable-dev-shm-usage") {
		cfg.Browser.DisableDevShmUsage = f.browser.disableDevShmUsage
	}
	if set("browser-flag") {
		cfg.Browser.Flags = append(cfg.Browser.Flags, f.browser.extra...)
	}
	if set("viewport") {
		cfg.Viewport.Width = f.browser.viewport.width
		cfg.Viewport.Height = f.browser.viewport.height
	}
	if set("scale") {
		cfg.Viewport.Scale = f.browser.scale
	}

	// Packages
	if set("base-url") {
		cfg.Packages.BaseURL = f.packages.baseURL
	}
	if set("react-version") {
		cfg.Packages.React = f.packages.react
	}
	if set("pixijs-version") {
		cfg.Packages.PixiJS = f.packages.pixijs
	}
	if set("higlass-version") {
		cfg.Packages.HiGlass = f.packages.higlass
	}
	if set("gosling-version") {
		cfg.Packages.Gosling = f.packages.gosling
	}
}
