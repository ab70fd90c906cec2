package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	goslingshot "github.com/gosling-lang/go-goslingshot"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrOutdirRequired  = errors.New("--outdir is required when the input is a directory")
	ErrNoInputs        = errors.New("no spec files found")
	ErrOutputDirectory = errors.New("failed to create output directory")
	ErrReadSpec        = errors.New("failed to read spec file")
	ErrWriteImage      = errors.New("failed to write image file")
	ErrWriteHTML       = errors.New("failed to write HTML file")
	ErrRendererPanic   = errors.New("renderer panicked")
	ErrInterrupted     = errors.New("interrupted")
	ErrJobsFailed      = errors.New("one or more specs failed")
	ErrDuplicateOutput = errors.New("output path already used by another spec")
)

// ImageRenderer is the rendering capability the batch driver needs.
type ImageRenderer interface {
	Render(ctx context.Context, input goslingshot.Input) (*goslingshot.Result, error)
	Formats() []goslingshot.Format
	Close() error
}

// Compile-time interface implementation check.
var _ ImageRenderer = (*goslingshot.Renderer)(nil)

// JobState is the lifecycle of one render job.
// Pending -> Rendering -> {Succeeded | Failed}; terminal states are final.
type JobState int

const (
	StatePending JobState = iota
	StateRendering
	StateSucceeded
	StateFailed
)

func (s JobState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRendering:
		return "rendering"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("JobState(%d)", int(s))
}

// Job is one spec to render.
type Job struct {
	Source      string
	Destination string
	Format      goslingshot.Format
	State       JobState
}

// JobResult holds the outcome of a single job.
type JobResult struct {
	Job      Job
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the job produced an image.
func (r JobResult) Succeeded() bool { return r.Job.State == StateSucceeded }

// batchRequest groups the settings of one batch run.
type batchRequest struct {
	Input    string
	Outdir   string
	Format   goslingshot.Format
	Selector string // for element-not-found hints
	HTML     bool
	Strict   bool
	Quiet    bool
	Verbose  bool
}

// batchSummary counts job outcomes.
type batchSummary struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// processJob renders one spec and writes the image. Every failure, including
// a panic inside the renderer, is returned in the result and never propagates.
func processJob(ctx context.Context, r ImageRenderer, job *Job, writeHTML bool) (result JobResult) {
	start := time.Now()
	job.State = StateRendering

	defer func() {
		if p := recover(); p != nil {
			job.State = StateFailed
			result = JobResult{Job: *job, Err: fmt.Errorf("%w: %v", ErrRendererPanic, p), Duration: time.Since(start)}
		}
	}()

	fail := func(err error) JobResult {
		job.State = StateFailed
		return JobResult{Job: *job, Err: err, Duration: time.Since(start)}
	}

	content, err := os.ReadFile(job.Source) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadSpec, err))
	}

	if err := os.MkdirAll(filepath.Dir(job.Destination), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrOutputDirectory, err))
	}

	// The document is written first so it is available when capture fails.
	if writeHTML {
		doc, err := r.Render(ctx, goslingshot.Input{Spec: string(content), Format: job.Format, HTMLOnly: true})
		if err != nil {
			return fail(err)
		}
		// #nosec G306 -- HTML files are meant to be readable
		if err := os.WriteFile(htmlOutputPath(job.Destination), doc.HTML, filePermissions); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrWriteHTML, err))
		}
	}

	res, err := r.Render(ctx, goslingshot.Input{Spec: string(content), Format: job.Format})
	if err != nil {
		return fail(err)
	}

	// #nosec G306 -- images are meant to be readable
	if err := os.WriteFile(job.Destination, res.Image, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteImage, err))
	}

	job.State = StateSucceeded
	return JobResult{Job: *job, Duration: time.Since(start)}
}

// runBatch renders every discovered spec sequentially, in discovery order.
// Per-job failures are printed and counted. Returned errors are fatal:
// configuration, discovery, zero inputs, interruption, or a failure under Strict.
func runBatch(ctx context.Context, r ImageRenderer, req batchRequest, env *Environment) (batchSummary, error) {
	var summary batchSummary

	if !slices.Contains(r.Formats(), req.Format) {
		return summary, fmt.Errorf("%w: %q", goslingshot.ErrUnsupportedFormat, req.Format)
	}

	src, err := resolveInputs(req.Input)
	if err != nil {
		return summary, err
	}
	if src.Kind == SourceDirectory && req.Outdir == "" {
		return summary, ErrOutdirRequired
	}
	if req.Outdir != "" {
		if err := os.MkdirAll(req.Outdir, dirPermissions); err != nil {
			return summary, fmt.Errorf("%w: %v", ErrOutputDirectory, err)
		}
	}

	onSkip := func(path, reason string) {
		summary.Skipped++
		if !req.Quiet {
			fmt.Fprintf(env.Stdout, "Skipping %s: %s\n", filepath.Base(path), reason)
		}
	}

	// destination -> source of the job that claimed it
	claimed := make(map[string]string)

	interrupted := false
	for path, err := range src.Specs(onSkip) {
		if err != nil {
			return summary, err
		}
		if ctx.Err() != nil {
			interrupted = true
			break
		}

		job := &Job{
			Source:      path,
			Destination: resolveOutputPath(path, req.Outdir, req.Format),
			Format:      req.Format,
		}
		var result JobResult
		if prev, ok := claimed[job.Destination]; ok {
			job.State = StateFailed
			result = JobResult{Job: *job, Err: fmt.Errorf("%w: %s (from %s)", ErrDuplicateOutput, job.Destination, filepath.Base(prev))}
		} else {
			claimed[job.Destination] = path
			result = processJob(ctx, r, job, req.HTML)
		}
		printResult(env, req, result)

		if result.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	total := summary.Succeeded + summary.Failed
	if total == 0 && !interrupted {
		return summary, fmt.Errorf("%w in %s", ErrNoInputs, req.Input)
	}

	if !req.Quiet {
		fmt.Fprintf(env.Stdout, "Processing complete: %d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	if interrupted {
		return summary, fmt.Errorf("%w after %d spec(s): %w", ErrInterrupted, total, context.Cause(ctx))
	}
	if req.Strict && summary.Failed > 0 {
		return summary, fmt.Errorf("%w: %d of %d", ErrJobsFailed, summary.Failed, total)
	}
	return summary, nil
}

// printResult writes one job outcome as soon as it finishes.
func printResult(env *Environment, req batchRequest, r JobResult) {
	if r.Err != nil {
		fmt.Fprintf(env.Stderr, "Error processing file %s: %v%s\n", filepath.Base(r.Job.Source), r.Err, hintFor(r.Err, hintContext{selector: req.Selector}))
		return
	}
	if req.Quiet {
		return
	}
	if req.Verbose {
		fmt.Fprintf(env.Stdout, "Image generated: %s (%v)\n", r.Job.Destination, r.Duration.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(env.Stdout, "Image generated: %s\n", r.Job.Destination)
}

// formatNames converts formats to strings for hints.
func formatNames(formats []goslingshot.Format) []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}
