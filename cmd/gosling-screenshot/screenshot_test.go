package main

// Notes:
// - runMain is exercised end to end with an injected fakeRenderer
// - buildOptions is checked by handing its options to the real
//   goslingshot.NewRenderer, which validates them without launching a browser

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	goslingshot "github.com/gosling-lang/go-goslingshot"
	"github.com/gosling-lang/go-goslingshot/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunMain_Screenshot - end to end with a fake renderer
// ---------------------------------------------------------------------------

func TestRunMain_Screenshot(t *testing.T) {
	t.Parallel()

	t.Run("partial failure exits 0", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		out := t.TempDir()
		writeFile(t, in, "foo.json", validSpec)
		writeFile(t, in, "bar.json", `{"broken":`)
		r := &fakeRenderer{fail: map[string]error{"broken": goslingshot.ErrInvalidSpec}}
		te := newTestEnv(t, r, nil)

		code := runMain([]string{"gosling-screenshot", in, "--outdir", out}, te.env)

		if code != ExitSuccess {
			t.Fatalf("exit = %d, want 0\nstderr: %s", code, te.stderr)
		}
		if got := listFiles(t, out); !slices.Equal(got, []string{"foo.png"}) {
			t.Errorf("outputs = %v, want [foo.png]", got)
		}
		if !strings.Contains(te.stderr.String(), "Error processing file bar.json") {
			t.Errorf("stderr = %q", te.stderr)
		}
		if !strings.Contains(te.stderr.String(), "single JSON object") {
			t.Errorf("stderr = %q, want invalid spec hint", te.stderr)
		}
		if !r.closed {
			t.Error("renderer should be closed")
		}
	})

	t.Run("strict turns failures into exit 1", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		writeFile(t, in, "bar.json", `{"broken":`)
		te := newTestEnv(t, &fakeRenderer{fail: map[string]error{"broken": goslingshot.ErrInvalidSpec}}, nil)

		code := runMain([]string{"gosling-screenshot", in, "-o", t.TempDir(), "--strict"}, te.env)
		if code != ExitFailure {
			t.Errorf("exit = %d, want 1", code)
		}
	})

	t.Run("format from env", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		out := t.TempDir()
		writeFile(t, in, "foo.json", validSpec)
		te := newTestEnv(t, nil, map[string]string{"GOSLING_FORMAT": "jpg", "GOSLING_OUTDIR": out})

		if code := runMain([]string{"gosling-screenshot", in}, te.env); code != ExitSuccess {
			t.Fatalf("exit = %d\nstderr: %s", code, te.stderr)
		}
		if got := listFiles(t, out); !slices.Equal(got, []string{"foo.jpeg"}) {
			t.Errorf("outputs = %v, want [foo.jpeg]", got)
		}
	})

	t.Run("html flag writes document", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "vis.json", validSpec)
		te := newTestEnv(t, nil, nil)

		if code := runMain([]string{"gosling-screenshot", src, "--html"}, te.env); code != ExitSuccess {
			t.Fatalf("exit = %d\nstderr: %s", code, te.stderr)
		}
		if got := listFiles(t, dir); !slices.Equal(got, []string{"vis.html", "vis.json", "vis.png"}) {
			t.Errorf("files = %v", got)
		}
	})

	tests := []struct {
		name       string
		args       func(t *testing.T) []string
		vars       map[string]string
		wantStderr string
	}{
		{
			name:       "unsupported format",
			args:       func(t *testing.T) []string { return []string{writeFile(t, t.TempDir(), "a.json", validSpec), "--format", "gif"} },
			wantStderr: `"gif"`,
		},
		{
			name: "directory without outdir",
			args: func(t *testing.T) []string {
				in := t.TempDir()
				writeFile(t, in, "a.json", validSpec)
				return []string{in}
			},
			wantStderr: "--outdir",
		},
		{
			name:       "missing input",
			args:       func(t *testing.T) []string { return []string{filepath.Join(t.TempDir(), "nope.json")} },
			wantStderr: "input path not found",
		},
		{
			name:       "zero inputs",
			args:       func(t *testing.T) []string { return []string{t.TempDir(), "-o", t.TempDir()} },
			wantStderr: "no spec files found",
		},
		{
			name:       "two inputs",
			args:       func(t *testing.T) []string { return []string{"a.json", "b.json"} },
			wantStderr: "expected exactly one input path, got 2",
		},
		{
			name:       "unknown flag",
			args:       func(t *testing.T) []string { return []string{"a.json", "--bogus"} },
			wantStderr: "bogus",
		},
		{
			name:       "invalid env timeout",
			args:       func(t *testing.T) []string { return []string{writeFile(t, t.TempDir(), "a.json", validSpec)} },
			vars:       map[string]string{"GOSLING_TIMEOUT": "soon"},
			wantStderr: "render.timeout",
		},
		{
			name:       "missing config",
			args:       func(t *testing.T) []string { return []string{"a.json", "--config", "/nonexistent/cfg.yaml"} },
			wantStderr: "config file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t, nil, tt.vars)
			code := runMain(append([]string{"gosling-screenshot"}, tt.args(t)...), te.env)

			if code != ExitFailure {
				t.Errorf("exit = %d, want 1", code)
			}
			if !strings.Contains(te.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", te.stderr, tt.wantStderr)
			}
			if te.renderer.imageCalls() != 0 {
				t.Errorf("renderer called %d times, want 0", te.renderer.imageCalls())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoadSettings - precedence flags > env > config > defaults
// ---------------------------------------------------------------------------

func TestLoadSettings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeConfigFile(t, dir, `output:
  format: webp
  dir: from-file
render:
  timeout: 45s
  backend: rod
`)

	t.Run("config file only", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t, nil, nil)
		cfg, err := loadSettings(cfgPath, te.env, nil)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Output.Format != "webp" || cfg.Render.Timeout != "45s" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("GOSLING_CONFIG names the file", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t, nil, map[string]string{"GOSLING_CONFIG": cfgPath})
		cfg, err := loadSettings("", te.env, nil)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Output.Dir != "from-file" {
			t.Errorf("Output.Dir = %q, want from-file", cfg.Output.Dir)
		}
	})

	t.Run("env beats file, flags beat env", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t, nil, map[string]string{"GOSLING_OUTDIR": "from-env", "GOSLING_FORMAT": "jpeg"})
		f, _, err := parseScreenshotFlags([]string{"x.json", "--format", "png"}, io.Discard)
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := loadSettings(cfgPath, te.env, func(c *config.Config) { mergeFlags(f, c) })
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Output.Dir != "from-env" {
			t.Errorf("Output.Dir = %q, want from-env", cfg.Output.Dir)
		}
		if cfg.Output.Format != "png" {
			t.Errorf("Output.Format = %q, want png", cfg.Output.Format)
		}
		if cfg.Render.Timeout != "45s" {
			t.Errorf("Render.Timeout = %q, want 45s", cfg.Render.Timeout)
		}
	})

	t.Run("merged values are validated", func(t *testing.T) {
		t.Parallel()

		te := newTestEnv(t, nil, map[string]string{"GOSLING_BACKEND": "selenium"})
		_, err := loadSettings("", te.env, nil)
		if !errors.Is(err, config.ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	return writeFile(t, dir, "settings.yaml", content)
}

// ---------------------------------------------------------------------------
// TestBuildOptions - options accepted by the real renderer
// ---------------------------------------------------------------------------

func TestBuildOptions(t *testing.T) {
	t.Parallel()

	gl := ""
	tests := []struct {
		name        string
		cfg         config.Config
		wantBackend string
		wantTimeout time.Duration
		wantFormats int
	}{
		{
			name:        "defaults",
			wantBackend: "rod",
			wantTimeout: goslingshot.DefaultTimeout,
			wantFormats: 3,
		},
		{
			name: "everything set",
			cfg: config.Config{
				Render: config.RenderConfig{
					Backend: "playwright", Timeout: "2m", SelectorTimeout: "1m", IdleTime: "1s",
					Selector: "#vis", Quality: 70, LoadMode: "inline", Template: "transparent",
				},
				Viewport: config.ViewportConfig{Width: 1024, Height: 768, Scale: 2},
				Browser:  config.BrowserConfig{NoSandbox: true, UseGL: &gl, Flags: []string{"--lang=en"}},
				Packages: config.PackagesConfig{Gosling: "0.9.30"},
			},
			wantBackend: "playwright",
			wantTimeout: 2 * time.Minute,
			wantFormats: 2,
		},
		{
			name:        "short timeout caps selector wait",
			cfg:         config.Config{Render: config.RenderConfig{Timeout: "5s"}},
			wantBackend: "rod",
			wantTimeout: 5 * time.Second,
			wantFormats: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts, err := buildOptions(&tt.cfg)
			if err != nil {
				t.Fatalf("buildOptions() error = %v", err)
			}
			r, err := goslingshot.NewRenderer(opts...)
			if err != nil {
				t.Fatalf("NewRenderer() error = %v", err)
			}
			defer r.Close()

			if r.Backend() != tt.wantBackend {
				t.Errorf("Backend() = %q, want %q", r.Backend(), tt.wantBackend)
			}
			if r.Timeout() != tt.wantTimeout {
				t.Errorf("Timeout() = %v, want %v", r.Timeout(), tt.wantTimeout)
			}
			if len(r.Formats()) != tt.wantFormats {
				t.Errorf("Formats() = %v, want %d formats", r.Formats(), tt.wantFormats)
			}
		})
	}
}

func TestBuildBrowserOptions(t *testing.T) {
	t.Parallel()

	t.Run("empty config keeps defaults", func(t *testing.T) {
		t.Parallel()

		b := buildBrowserOptions(&config.Config{})
		d := goslingshot.DefaultBrowserOptions()
		if !b.Headless || b.UseGL != d.UseGL || b.Viewport != d.Viewport {
			t.Errorf("buildBrowserOptions() = %+v, want defaults %+v", b, d)
		}
	})

	t.Run("config overrides", func(t *testing.T) {
		t.Parallel()

		gl := ""
		b := buildBrowserOptions(&config.Config{
			Viewport: config.ViewportConfig{Width: 1600, Scale: 2},
			Browser: config.BrowserConfig{
				Bin: "/opt/chrome", Headful: true, UseGL: &gl,
				DisableGPU: true, Flags: []string{"--lang=de"},
			},
		})
		if b.Headless {
			t.Error("Headless = true, want false for headful")
		}
		if b.Bin != "/opt/chrome" || b.UseGL != "" || !b.DisableGPU {
			t.Errorf("browser options = %+v", b)
		}
		if b.Viewport.Width != 1600 || b.Viewport.Height != goslingshot.DefaultViewport().Height || b.Viewport.ScaleFactor != 2 {
			t.Errorf("Viewport = %+v", b.Viewport)
		}
		if !slices.Equal(b.ExtraFlags, []string{"--lang=de"}) {
			t.Errorf("ExtraFlags = %v", b.ExtraFlags)
		}
	})
}

// ---------------------------------------------------------------------------
// TestHintFor
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		hc   hintContext
		want string
	}{
		{"config not found", &config.NotFoundError{Paths: []string{"/home/u/.config/gosling-screenshot/x.yaml"}}, hintContext{}, "create /home/u/.config/gosling-screenshot/x.yaml"},
		{"outdir", ErrOutdirRequired, hintContext{}, "--outdir"},
		{"output dir", ErrOutputDirectory, hintContext{}, "writable"},
		{"invalid spec", goslingshot.ErrInvalidSpec, hintContext{}, "JSON object"},
		{"browser", &goslingshot.RenderError{Err: goslingshot.ErrBrowserLaunch}, hintContext{}, "doctor"},
		{"element default selector", &goslingshot.RenderError{Err: goslingshot.ErrElementNotFound}, hintContext{}, ".gosling-component"},
		{"element custom selector", &goslingshot.RenderError{Err: goslingshot.ErrElementNotFound}, hintContext{selector: "#vis"}, "#vis"},
		{"timeout", &goslingshot.RenderError{Err: context.DeadlineExceeded}, hintContext{}, "--timeout"},
		{"none", errors.New("other"), hintContext{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err, tt.hc)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
