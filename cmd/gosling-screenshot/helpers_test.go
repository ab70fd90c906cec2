package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	goslingshot "github.com/gosling-lang/go-goslingshot"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

const validSpec = `{"title":"ok","tracks":[]}`

// fakeRenderer implements ImageRenderer without a browser.
// Specs containing a key of fail return that error; a spec containing
// panicOn makes Render panic.
type fakeRenderer struct {
	mu      sync.Mutex
	formats []goslingshot.Format
	fail    map[string]error
	panicOn string
	calls   []goslingshot.Input
	closed  bool
}

func (f *fakeRenderer) Render(_ context.Context, in goslingshot.Input) (*goslingshot.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, in)
	f.mu.Unlock()

	if f.panicOn != "" && strings.Contains(in.Spec, f.panicOn) {
		panic("renderer exploded")
	}
	for marker, err := range f.fail {
		if strings.Contains(in.Spec, marker) {
			return nil, err
		}
	}

	res := &goslingshot.Result{HTML: []byte("<html>" + in.Spec + "</html>"), Format: in.Format}
	if !in.HTMLOnly {
		res.Image = []byte("image/" + string(in.Format))
	}
	return res, nil
}

func (f *fakeRenderer) Formats() []goslingshot.Format {
	if f.formats == nil {
		return goslingshot.Formats()
	}
	return f.formats
}

func (f *fakeRenderer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeRenderer) imageCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if !c.HTMLOnly {
			n++
		}
	}
	return n
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	env      *Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	renderer *fakeRenderer
	options  int
}

// newTestEnv returns an Environment backed by r and the given variables.
func newTestEnv(t *testing.T, r *fakeRenderer, vars map[string]string) *testEnv {
	t.Helper()
	if r == nil {
		r = &fakeRenderer{}
	}
	te := &testEnv{
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		renderer: r,
	}
	te.env = &Environment{
		Now:    func() time.Time { return time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC) },
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		NewRenderer: func(opts ...goslingshot.Option) (ImageRenderer, error) {
			te.options = len(opts)
			return r, nil
		},
	}
	return te
}

// writeFile creates dir/name with content, creating parents.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// listFiles returns the sorted base names in dir.
func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
