package goslingshot

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// DefaultUseGL selects the software GL implementation, which renders
// transparent elements consistently across machines.
const DefaultUseGL = "swiftshader"

// BrowserOptions configures every browser launch flag in one place.
type BrowserOptions struct {
	Bin                string   // browser executable (empty = backend default)
	Headless           bool     // run without a window
	NoSandbox          bool     // required in most containers
	UseGL              string   // value for --use-gl (empty = omit)
	DisableGPU         bool     // --disable-gpu
	DisableDevShmUsage bool     // --disable-dev-shm-usage
	ExtraFlags         []string // additional "--name" or "--name=value" flags
	Viewport           Viewport
}

// DefaultBrowserOptions returns headless options with software GL.
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		Headless: true,
		UseGL:    DefaultUseGL,
		Viewport: DefaultViewport(),
	}
}

// Validate checks the viewport and extra flag syntax.
func (o BrowserOptions) Validate() error {
	if err := o.Viewport.Validate(); err != nil {
		return err
	}
	for _, f := range o.ExtraFlags {
		if name, _ := splitFlag(f); name == "" {
			return fmt.Errorf("%w: %q", ErrInvalidFlag, f)
		}
	}
	return nil
}

// resolved fills options from the environment the same way for every backend.
// ROD_BROWSER_BIN overrides an empty Bin. A custom binary, CI=true or
// ROD_NO_SANDBOX=1 turn the sandbox off (Docker/CI environments).
func (o BrowserOptions) resolved(getenv func(string) string) BrowserOptions {
	if getenv == nil {
		getenv = os.Getenv
	}
	if o.Bin == "" {
		o.Bin = getenv("ROD_BROWSER_BIN")
	}
	if getenv("CI") == "true" || getenv("ROD_NO_SANDBOX") == "1" || getenv("ROD_BROWSER_BIN") != "" {
		o.NoSandbox = true
	}
	if o.Viewport == (Viewport{}) {
		o.Viewport = DefaultViewport()
	}
	return o
}

// args returns Chrome command-line switches, excluding headless mode which
// each backend sets through its own API.
func (o BrowserOptions) args() []string {
	var args []string
	if o.NoSandbox {
		args = append(args, "--no-sandbox")
	}
	if o.UseGL != "" {
		args = append(args, "--use-gl="+o.UseGL)
	}
	if o.DisableGPU {
		args = append(args, "--disable-gpu")
	}
	if o.DisableDevShmUsage {
		args = append(args, "--disable-dev-shm-usage")
	}
	args = append(args, fmt.Sprintf("--window-size=%d,%d", o.Viewport.Width, o.Viewport.Height))
	for _, f := range o.ExtraFlags {
		name, value := splitFlag(f)
		if name == "" {
			continue
		}
		if value == "" {
			args = append(args, "--"+name)
		} else {
			args = append(args, "--"+name+"="+value)
		}
	}
	return args
}

// rodLauncher builds a go-rod launcher with a dedicated profile directory.
func (o BrowserOptions) rodLauncher(profileDir string) *launcher.Launcher {
	l := launcher.New().
		Headless(o.Headless).
		NoSandbox(o.NoSandbox).
		UserDataDir(profileDir)

	if o.Bin != "" {
		l = l.Bin(o.Bin)
	}
	if o.UseGL != "" {
		l = l.Set(flags.Flag("use-gl"), o.UseGL)
	}
	if o.DisableGPU {
		l = l.Set(flags.Flag("disable-gpu"))
	}
	if o.DisableDevShmUsage {
		l = l.Set(flags.Flag("disable-dev-shm-usage"))
	}
	l = l.Set(flags.Flag("window-size"), fmt.Sprintf("%d,%d", o.Viewport.Width, o.Viewport.Height))

	for _, f := range o.ExtraFlags {
		name, value := splitFlag(f)
		if name == "" {
			continue
		}
		if value == "" {
			l = l.Set(flags.Flag(name))
		} else {
			l = l.Set(flags.Flag(name), value)
		}
	}
	return l
}

// splitFlag parses "--name=value", "--name" or "name" into its parts.
func splitFlag(f string) (name, value string) {
	f = strings.TrimLeft(strings.TrimSpace(f), "-")
	name, value, _ = strings.Cut(f, "=")
	if strings.ContainsAny(name, " \t") {
		return "", ""
	}
	return name, value
}
