package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: quarto-render [flags] <document> [render args...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a standalone Quarto document as if it were part of a Quarto project.")
	fmt.Fprintln(w, "The document and its resources are staged into the project directory,")
	fmt.Fprintln(w, "rendered there, and the output is moved back next to the document.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  document                  Quarto document to render")
	fmt.Fprintln(w, "  render args               Everything after the document is passed to the")
	fmt.Fprintln(w, "                            render tool verbatim")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -r, --resources <glob>    Resources to copy alongside the document,")
	fmt.Fprintln(w, "                            relative to the working directory (repeatable)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed progress")
	fmt.Fprintln(w, "      --version             Show version")
	fmt.Fprintln(w, "  -h, --help                Show this message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  QUARTO_RENDER_PROJECT_DIR  Path to the template Quarto project directory (required)")
	fmt.Fprintln(w, "  QUARTO_RENDER_OUTPUT_DIR   Output directory of the template project,")
	fmt.Fprintln(w, "                             relative to the project directory (required)")
	fmt.Fprintln(w, "  QUARTO_RENDER_BIN          Render tool binary override (default: quarto)")
	fmt.Fprintln(w, "  QUARTO_RENDER_CONFIG       Config file name or path")
}
