package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	goslingshot "github.com/gosling-lang/go-goslingshot"
	"github.com/gosling-lang/go-goslingshot/internal/config"
	"github.com/gosling-lang/go-goslingshot/internal/hints"
)

// runScreenshotCmd renders the input given on the command line.
func runScreenshotCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseScreenshotFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitFailure
	}

	if len(positional) != 1 {
		fmt.Fprintf(env.Stderr, "error: expected exactly one input path, got %d\n", len(positional))
		printScreenshotUsage(env.Stderr)
		return ExitFailure
	}

	if err := runScreenshot(ctx, positional[0], flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, hintContext{}))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runScreenshot resolves settings, creates the renderer and runs the batch.
func runScreenshot(ctx context.Context, input string, flags *screenshotFlags, env *Environment) error {
	warnUnknownEnvVars(env.Stderr, env.Environ())

	cfg, err := loadSettings(flags.common.config, env, func(cfg *config.Config) {
		mergeFlags(flags, cfg)
	})
	if err != nil {
		return err
	}

	format := goslingshot.DefaultFormat
	if cfg.Output.Format != "" {
		if format, err = goslingshot.ParseFormat(cfg.Output.Format); err != nil {
			return err
		}
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}

	r, err := env.NewRenderer(opts...)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	defer func() { _ = r.Close() }()

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Format: %s (backend supports %s)\n", format, strings.Join(formatNames(r.Formats()), ", "))
	}

	req := batchRequest{
		Input:    input,
		Outdir:   cfg.Output.Dir,
		Format:   format,
		Selector: cfg.Render.Selector,
		HTML:     cfg.Output.HTML,
		Strict:   cfg.Output.Strict,
		Quiet:    flags.common.quiet,
		Verbose:  flags.common.verbose,
	}

	start := env.Now()
	summary, err := runBatch(ctx, r, req, env)
	if err != nil {
		if errors.Is(err, goslingshot.ErrUnsupportedFormat) {
			return fmt.Errorf("%w%s", err, hints.ForUnsupportedFormat(formatNames(r.Formats())))
		}
		return err
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Done in %v (%d skipped)\n", env.Now().Sub(start).Round(time.Millisecond), summary.Skipped)
	}
	return nil
}

// runConfigCmd prints the effective configuration (file and env, no render flags).
func runConfigCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	var common commonFlags
	addCommonFlags(fs, &common)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitFailure
	}

	cfg, err := loadSettings(common.config, env, nil)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, hintContext{}))
		return ExitFailure
	}

	out, err := config.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitFailure
	}
	_, _ = env.Stdout.Write(out)
	return ExitSuccess
}

// loadSettings resolves configuration with precedence
// flags > env > config file > defaults. merge applies the flags.
func loadSettings(configFlag string, env *Environment, merge func(*config.Config)) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)

	name := envCfg.ConfigPath
	if configFlag != "" {
		name = configFlag
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	if merge != nil {
		merge(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildOptions converts a validated config into renderer options.
// Unset fields are left to the renderer defaults.
func buildOptions(cfg *config.Config) ([]goslingshot.Option, error) {
	var opts []goslingshot.Option

	if cfg.Render.Backend != "" {
		b, err := goslingshot.ParseBackend(cfg.Render.Backend)
		if err != nil {
			return nil, err
		}
		opts = append(opts, goslingshot.WithBackend(b))
	}

	timeout, err := config.ParseDuration("render.timeout", cfg.Render.Timeout)
	if err != nil {
		return nil, err
	}
	selectorTimeout, err := config.ParseDuration("render.selectorTimeout", cfg.Render.SelectorTimeout)
	if err != nil {
		return nil, err
	}
	idleTime, err := config.ParseDuration("render.idleTime", cfg.Render.IdleTime)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, goslingshot.WithTimeout(timeout))
		// A short overall timeout also caps the default selector wait.
		if selectorTimeout == 0 && timeout < goslingshot.DefaultSelectorTimeout {
			selectorTimeout = timeout
		}
	}
	if selectorTimeout > 0 {
		opts = append(opts, goslingshot.WithSelectorTimeout(selectorTimeout))
	}
	if idleTime > 0 {
		opts = append(opts, goslingshot.WithIdleTime(idleTime))
	}

	if cfg.Render.Selector != "" {
		opts = append(opts, goslingshot.WithSelector(cfg.Render.Selector))
	}
	if cfg.Render.Quality > 0 {
		opts = append(opts, goslingshot.WithQuality(cfg.Render.Quality))
	}
	if cfg.Render.LoadMode != "" {
		m, err := goslingshot.ParseLoadMode(cfg.Render.LoadMode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, goslingshot.WithLoadMode(m))
	}
	if cfg.Render.Template != "" {
		opts = append(opts, goslingshot.WithTemplate(cfg.Render.Template))
	}
	if cfg.Render.AssetPath != "" {
		opts = append(opts, goslingshot.WithAssetPath(cfg.Render.AssetPath))
	}

	opts = append(opts,
		goslingshot.WithBrowser(buildBrowserOptions(cfg)),
		goslingshot.WithPackages(goslingshot.Packages{
			BaseURL: cfg.Packages.BaseURL,
			React:   cfg.Packages.React,
			PixiJS:  cfg.Packages.PixiJS,
			HiGlass: cfg.Packages.HiGlass,
			Gosling: cfg.Packages.Gosling,
		}),
	)
	return opts, nil
}

// buildBrowserOptions overlays config values on the default launch flags.
func buildBrowserOptions(cfg *config.Config) goslingshot.BrowserOptions {
	b := goslingshot.DefaultBrowserOptions()
	b.Bin = cfg.Browser.Bin
	b.Headless = !cfg.Browser.Headful
	b.NoSandbox = cfg.Browser.NoSandbox
	if cfg.Browser.UseGL != nil {
		b.UseGL = *cfg.Browser.UseGL
	}
	b.DisableGPU = cfg.Browser.DisableGPU
	b.DisableDevShmUsage = cfg.Browser.DisableDevShmUsage
	b.ExtraFlags = cfg.Browser.Flags

	if cfg.Viewport.Width > 0 {
		b.Viewport.Width = cfg.Viewport.Width
	}
	if cfg.Viewport.Height > 0 {
		b.Viewport.Height = cfg.Viewport.Height
	}
	if cfg.Viewport.Scale > 0 {
		b.Viewport.ScaleFactor = cfg.Viewport.Scale
	}
	return b
}

// hintContext carries values some hints mention.
type hintContext struct {
	selector string
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, hc hintContext) string {
	var notFound *config.NotFoundError
	switch {
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.Paths)
	case errors.Is(err, ErrOutdirRequired):
		return hints.ForOutdirRequired()
	case errors.Is(err, ErrOutputDirectory):
		return hints.ForOutputDirectory()
	case errors.Is(err, goslingshot.ErrInvalidSpec):
		return hints.ForInvalidSpec()
	case errors.Is(err, goslingshot.ErrBrowserLaunch):
		return hints.ForBrowserLaunch()
	case errors.Is(err, goslingshot.ErrElementNotFound):
		selector := hc.selector
		if selector == "" {
			selector = goslingshot.DefaultSelector
		}
		return hints.ForElementNotFound(selector)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	}
	return ""
}
