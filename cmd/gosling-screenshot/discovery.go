package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	goslingshot "github.com/gosling-lang/go-goslingshot"
	"github.com/gosling-lang/go-goslingshot/internal/fileutil"
)

// specExtension is the extension matched (case-insensitively) in directory inputs.
const specExtension = ".json"

// readDirBatch bounds how many directory entries are held at once.
const readDirBatch = 64

// Sentinel errors for input discovery.
var (
	ErrInputNotFound = errors.New("input path not found")
	ErrListInputs    = errors.New("failed to list input directory")
)

// SourceKind distinguishes a single spec file from a directory of specs.
type SourceKind int

const (
	SourceFile SourceKind = iota
	SourceDirectory
)

func (k SourceKind) String() string {
	if k == SourceDirectory {
		return "directory"
	}
	return "file"
}

// SpecSource is the resolved input argument.
type SpecSource struct {
	Path string // absolute
	Kind SourceKind
}

// resolveInputs stats inputPath once and classifies it.
func resolveInputs(inputPath string) (SpecSource, error) {
	abs, err := filepath.Abs(inputPath)
	if err != nil {
		return SpecSource{}, fmt.Errorf("resolving %s: %w", inputPath, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return SpecSource{}, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
		}
		return SpecSource{}, err
	}

	if info.IsDir() {
		return SpecSource{Path: abs, Kind: SourceDirectory}, nil
	}
	return SpecSource{Path: abs, Kind: SourceFile}, nil
}

// Specs yields the spec files of the source lazily.
// A file source yields itself without an extension check. A directory yields
// its regular .json entries in raw listing order, which differs across
// platforms and filesystems. Other entries are passed to onSkip.
// A listing failure is yielded as an error and ends the sequence.
func (s SpecSource) Specs(onSkip func(path, reason string)) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if s.Kind == SourceFile {
			yield(s.Path, nil)
			return
		}

		dir, err := os.Open(s.Path)
		if err != nil {
			yield("", fmt.Errorf("%w: %v", ErrListInputs, err))
			return
		}
		defer func() { _ = dir.Close() }()

		for {
			entries, err := dir.ReadDir(readDirBatch)
			for _, entry := range entries {
				path := filepath.Join(s.Path, entry.Name())
				if reason := skipReason(path, entry); reason != "" {
					if onSkip != nil {
						onSkip(path, reason)
					}
					continue
				}
				if !yield(path, nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", fmt.Errorf("%w: %v", ErrListInputs, err))
				return
			}
		}
	}
}

// skipReason returns why a directory entry is not a spec, or "" to keep it.
func skipReason(path string, entry fs.DirEntry) string {
	if entry.IsDir() {
		return "directory"
	}
	if !fileutil.HasExtension(entry.Name(), specExtension) {
		return "not a " + specExtension + " file"
	}
	if entry.Type().IsRegular() {
		return ""
	}
	// Follow symlinks to regular files.
	if entry.Type()&fs.ModeSymlink != 0 {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return ""
		}
	}
	return "not a regular file"
}

// resolveOutputPath returns <outdir>/<base>.<format>, or the input's own
// directory when outdir is empty.
func resolveOutputPath(inputPath, outdir string, format goslingshot.Format) string {
	name := fileutil.BaseName(inputPath) + format.Extension()
	if outdir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}
	return filepath.Join(outdir, name)
}

// htmlOutputPath returns the HTML path next to an image path.
func htmlOutputPath(imagePath string) string {
	return imagePath[:len(imagePath)-len(filepath.Ext(imagePath))] + ".html"
}
