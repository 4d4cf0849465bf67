package main

import (
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/quartoext/quarto-render/internal/render"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment, and binary lookup.
type Environment struct {
	Now      func() time.Time
	Stdout   io.Writer
	Stderr   io.Writer
	Getenv   func(string) string
	Environ  func() []string
	Getwd    func() (string, error)
	LookPath render.LookPathFunc
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Getenv:   os.Getenv,
		Environ:  os.Environ,
		Getwd:    os.Getwd,
		LookPath: exec.LookPath,
	}
}
