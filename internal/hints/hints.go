// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/gosling-lang/go-goslingshot/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserLaunch returns hints for browser launch errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserLaunch() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	hints = append(hints, "run 'gosling-screenshot doctor' to check the setup")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeouts for slow renders.
func ForTimeout() string {
	return format("for large specs or slow networks, use --timeout")
}

// ForElementNotFound returns hints when the visualization never appeared.
func ForElementNotFound(selector string) string {
	return formatHints([]string{
		"check the spec renders in the Gosling editor",
		"the page must create an element matching " + selector,
		"use --selector-timeout for slow data sources",
	})
}

// ForInvalidSpec returns a hint for malformed JSON specs.
func ForInvalidSpec() string {
	return format("the file must contain a single JSON object")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/gosling-screenshot/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), ".config/gosling-screenshot") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForOutdirRequired returns a hint for directory inputs without --outdir.
func ForOutdirRequired() string {
	return format("use --outdir <path> (or GOSLING_OUTDIR) when the input is a directory")
}

// ForUnsupportedFormat lists the formats a backend can produce.
func ForUnsupportedFormat(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
