package main

// Notes:
// - Tests go through runDoctorCmd() observable output; Chrome detection
//   depends on the host, so only structure and consistency are asserted
// - The renderer is the injected fake, so the document check never launches a browser

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	goslingshot "github.com/gosling-lang/go-goslingshot"
)

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, nil, nil)
	exitCode := runDoctorCmd([]string{"--json"}, te.env)

	var result doctorResult
	if err := json.Unmarshal(te.stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, te.stdout)
	}

	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s", result.Env.OS, result.Env.Arch)
	}
	if !result.Document.OK {
		t.Error("document check should pass with a working renderer")
	}
	if result.Document.Gosling != goslingshot.DefaultGoslingVersion {
		t.Errorf("gosling version = %q", result.Document.Gosling)
	}

	valid := map[string]bool{"ready": true, "warnings": true, "errors": true}
	if !valid[result.Status] {
		t.Errorf("invalid status %q", result.Status)
	}
	if (result.Status == "errors") != (exitCode == ExitFailure) {
		t.Errorf("status %q inconsistent with exit code %d", result.Status, exitCode)
	}
}

func TestRunDoctorCmd_HumanOutput(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, nil, nil)
	runDoctorCmd(nil, te.env)

	for _, section := range []string{"gosling-screenshot doctor", "Chrome/Chromium", "Document", "Environment", "System", "Status:"} {
		if !strings.Contains(te.stdout.String(), section) {
			t.Errorf("output missing %q:\n%s", section, te.stdout)
		}
	}
}

func TestRunDoctorCmd_DocumentFailure(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{fail: map[string]error{"doctor": goslingshot.ErrTemplateRender}}
	te := newTestEnv(t, r, nil)

	if code := runDoctorCmd([]string{"--json"}, te.env); code != ExitFailure {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(te.stdout.String(), "Document build failed") {
		t.Errorf("output = %s", te.stdout)
	}
}

func TestRunDoctorCmd_RendererSetupFailure(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, nil, nil)
	te.env.NewRenderer = func(...goslingshot.Option) (ImageRenderer, error) {
		return nil, errors.New("no template")
	}

	if code := runDoctorCmd(nil, te.env); code != ExitFailure {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(te.stdout.String(), "Renderer setup failed") {
		t.Errorf("output = %s", te.stdout)
	}
}

func TestIsContainer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vars     map[string]string
		wantHint string
	}{
		{"explicit override", map[string]string{"GOSLING_CONTAINER": "1"}, "GOSLING_CONTAINER=1"},
		{"podman", map[string]string{"container": "podman"}, "container=podman"},
		{"kubernetes", map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1"}, "KUBERNETES_SERVICE_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, hint := isContainer(func(k string) string { return tt.vars[k] })
			// /.dockerenv wins over env signals when the tests run in Docker.
			if !got {
				t.Fatal("isContainer() = false, want true")
			}
			if hint != tt.wantHint && hint != "/.dockerenv" {
				t.Errorf("hint = %q, want %q", hint, tt.wantHint)
			}
		})
	}
}

func TestCheckEnvironment_SandboxWarning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vars     map[string]string
		wantWarn bool
	}{
		{"container without no-sandbox", map[string]string{"GOSLING_CONTAINER": "1"}, true},
		{"container with no-sandbox", map[string]string{"GOSLING_CONTAINER": "1", "ROD_NO_SANDBOX": "1"}, false},
		{"CI=true disables the sandbox already", map[string]string{"CI": "true"}, false},
		{"gitlab CI", map[string]string{"GITLAB_CI": "1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := &doctorResult{Env: envInfo{NoSandbox: tt.vars["ROD_NO_SANDBOX"]}}
			checkEnvironment(result, func(k string) string { return tt.vars[k] })

			if got := len(result.Warnings) > 0; got != tt.wantWarn {
				t.Errorf("warnings = %v, want warning=%v", result.Warnings, tt.wantWarn)
			}
		})
	}
}

func TestRunDoctorCmd_ReportsConfiguredVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "pinned.yaml", "packages:\n  gosling: \"0.10.2\"\n")

	tests := []struct {
		name string
		args []string
		vars map[string]string
	}{
		{"config flag", []string{"--json", "-c", cfgPath}, nil},
		{"GOSLING_CONFIG", []string{"--json"}, map[string]string{"GOSLING_CONFIG": cfgPath}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t, nil, tt.vars)
			runDoctorCmd(tt.args, te.env)

			var result doctorResult
			if err := json.Unmarshal(te.stdout.Bytes(), &result); err != nil {
				t.Fatalf("invalid JSON output: %v\n%s", err, te.stdout)
			}
			if result.Document.Gosling != "0.10.2" {
				t.Errorf("gosling version = %q, want %q", result.Document.Gosling, "0.10.2")
			}
			if te.options == 0 {
				t.Error("renderer was built without the configured options")
			}
		})
	}
}

func TestRunDoctorCmd_BadConfig(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t, nil, nil)
	code := runDoctorCmd([]string{"--json", "-c", filepath.Join(t.TempDir(), "missing.yaml")}, te.env)
	if code != ExitFailure {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(te.stdout.String(), "Config:") {
		t.Errorf("output = %s", te.stdout)
	}
}
