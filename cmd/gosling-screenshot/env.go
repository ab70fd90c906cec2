package main

import (
	"io"
	"os"
	"time"

	goslingshot "github.com/gosling-lang/go-goslingshot"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, environment lookup and the renderer factory.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	Getenv      func(string) string
	Environ     func() []string
	NewRenderer func(opts ...goslingshot.Option) (ImageRenderer, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Getenv:      os.Getenv,
		Environ:     os.Environ,
		NewRenderer: newRenderer,
	}
}

// newRenderer adapts goslingshot.NewRenderer to the ImageRenderer interface.
func newRenderer(opts ...goslingshot.Option) (ImageRenderer, error) {
	r, err := goslingshot.NewRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return r, nil
}
