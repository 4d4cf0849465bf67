// Command quarto-render renders a standalone Quarto document as if it lived
// inside a pre-configured Quarto project: it stages the document and its
// resources into the project directory, runs the render tool there, moves the
// produced artifact back, and cleans up.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, document, passThrough, err := parseArgs(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		printUsage(os.Stderr)
		os.Exit(ExitUsage)
	}
	if flags.help {
		printUsage(os.Stdout)
		os.Exit(ExitSuccess)
	}
	if flags.version {
		fmt.Printf("quarto-render %s\n", Version)
		os.Exit(ExitSuccess)
	}

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	// An interrupt cancels the render subprocess; staged files are still
	// removed because cleanup is deferred inside run.
	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := run(ctx, flags, document, passThrough, DefaultEnv()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
