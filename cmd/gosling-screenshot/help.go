package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gosling-screenshot <input> [flags]")
	fmt.Fprintln(w, "       gosling-screenshot <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Gosling JSON specs to PNG, JPEG or WebP images.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  doctor     Check the browser setup")
	fmt.Fprintln(w, "  config     Print the effective configuration as YAML")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'gosling-screenshot help screenshot' for all render flags.")
}

// printScreenshotUsage prints usage for rendering specs.
func printScreenshotUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gosling-screenshot <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render one spec file, or every .json file in a directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Spec file or directory of .json specs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -f, --format <s>              Output format: png, jpeg, webp (default png)")
	fmt.Fprintln(w, "  -o, --outdir <path>           Output directory (required for directory input)")
	fmt.Fprintln(w, "      --html                    Also write the generated HTML document")
	fmt.Fprintln(w, "      --strict                  Exit 1 if any spec fails")
	fmt.Fprintln(w, "  -c, --config <name>           Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render:")
	fmt.Fprintln(w, "      --backend <s>             Capture backend: rod, playwright (default rod)")
	fmt.Fprintln(w, "  -t, --timeout <d>             Per-spec timeout (default 60s)")
	fmt.Fprintln(w, "      --selector-timeout <d>    Wait for the visualization (default 30s)")
	fmt.Fprintln(w, "      --idle-time <d>           Network quiet period (default 500ms)")
	fmt.Fprintln(w, "      --selector <css>          Element to capture (default .gosling-component)")
	fmt.Fprintln(w, "      --quality <n>             JPEG/WebP quality 1-100 (default 90)")
	fmt.Fprintln(w, "      --load-mode <s>           Document delivery: file, inline (default file)")
	fmt.Fprintln(w, "      --template <name>         Document template: default, transparent")
	fmt.Fprintln(w, "      --asset-path <dir>        Directory containing templates/<name>.html")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --browser-bin <path>      Chrome/Chromium executable")
	fmt.Fprintln(w, "      --headful                 Show the browser window")
	fmt.Fprintln(w, "      --no-sandbox              Disable the Chrome sandbox")
	fmt.Fprintln(w, "      --use-gl <s>              GL backend (default swiftshader, \"\" = omit)")
	fmt.Fprintln(w, "      --disable-gpu             Pass --disable-gpu")
	fmt.Fprintln(w, "      --disable-dev-shm-usage   Pass --disable-dev-shm-usage")
	fmt.Fprintln(w, "      --browser-flag <flag>     Extra browser flag (repeatable)")
	fmt.Fprintln(w, "      --viewport <WxH>          Window size (default 800x600)")
	fmt.Fprintln(w, "      --scale <f>               Device scale factor (default 1)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Packages:")
	fmt.Fprintln(w, "      --base-url <url>          CDN root (default https://unpkg.com)")
	fmt.Fprintln(w, "      --gosling-version <v>     gosling.js version")
	fmt.Fprintln(w, "      --higlass-version <v>     higlass version")
	fmt.Fprintln(w, "      --react-version <v>       react version")
	fmt.Fprintln(w, "      --pixijs-version <v>      pixi.js version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                   Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                 Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  GOSLING_CONFIG, GOSLING_FORMAT, GOSLING_OUTDIR, GOSLING_TIMEOUT, GOSLING_BACKEND")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN, ROD_NO_SANDBOX, CI")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "screenshot", "render":
		printScreenshotUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: gosling-screenshot doctor [--json] [-c name]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome detection, sandbox settings and the temp directory.")
	case "config":
		fmt.Fprintln(env.Stdout, "Usage: gosling-screenshot config [-c name]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Print the configuration after applying the config file and GOSLING_* variables.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: gosling-screenshot version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: gosling-screenshot help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitFailure
	}
	return ExitSuccess
}
