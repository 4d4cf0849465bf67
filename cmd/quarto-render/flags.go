package main

import (
	"errors"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrNoDocument reports a missing document argument.
var ErrNoDocument = errors.New("no document specified")

// renderFlags holds the flags consumed by quarto-render itself. Everything
// after the document positional is forwarded to the render tool verbatim.
type renderFlags struct {
	resources []string
	config    string
	quiet     bool
	verbose   bool
	help      bool
	version   bool
}

// parseArgs parses os.Args-shaped input and returns the tool's own flags, the
// document path, and the pass-through arguments in their original order.
// Interspersed parsing is off: flag parsing stops at the first positional, so
// flags meant for the render tool are never consumed here.
func parseArgs(args []string) (*renderFlags, string, []string, error) {
	fs := flag.NewFlagSet("quarto-render", flag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(io.Discard)

	f := &renderFlags{}
	fs.StringArrayVarP(&f.resources, "resources", "r", nil, "resource glob pattern, relative to the working directory (repeatable)")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
	fs.BoolVarP(&f.help, "help", "h", false, "show usage")
	fs.BoolVar(&f.version, "version", false, "show version")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, "", nil, err
	}

	rest := fs.Args()
	if f.help || f.version {
		return f, "", nil, nil
	}
	if len(rest) == 0 {
		return nil, "", nil, ErrNoDocument
	}

	return f, rest[0], rest[1:], nil
}
