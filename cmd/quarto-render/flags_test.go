package main

// Notes:
// - parseArgs takes os.Args-shaped input, so every case starts with the
//   program name.
// - The pass-through boundary (everything after the document) is the main
//   contract under test.

import (
	"errors"
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseArgs - Flag and positional parsing
// ---------------------------------------------------------------------------

func TestParseArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		args            []string
		wantDocument    string
		wantPassThrough []string
		wantResources   []string
		wantConfig      string
		wantQuiet       bool
		wantVerbose     bool
	}{
		{
			name:         "document only",
			args:         []string{"quarto-render", "report.qmd"},
			wantDocument: "report.qmd",
		},
		{
			name:            "args after the document pass through verbatim",
			args:            []string{"quarto-render", "report.qmd", "--to", "pdf", "-q"},
			wantDocument:    "report.qmd",
			wantPassThrough: []string{"--to", "pdf", "-q"},
		},
		{
			name:          "repeatable resources flag",
			args:          []string{"quarto-render", "-r", "figures/*.png", "--resources", "refs.bib", "report.qmd"},
			wantDocument:  "report.qmd",
			wantResources: []string{"figures/*.png", "refs.bib"},
		},
		{
			name:         "config flag",
			args:         []string{"quarto-render", "--config", "team", "report.qmd"},
			wantDocument: "report.qmd",
			wantConfig:   "team",
		},
		{
			name:         "quiet and verbose",
			args:         []string{"quarto-render", "-q", "-v", "report.qmd"},
			wantDocument: "report.qmd",
			wantQuiet:    true,
			wantVerbose:  true,
		},
		{
			name:            "tool flags colliding with ours stay pass-through",
			args:            []string{"quarto-render", "report.qmd", "--verbose", "--config", "other"},
			wantDocument:    "report.qmd",
			wantPassThrough: []string{"--verbose", "--config", "other"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, document, passThrough, err := parseArgs(tt.args)
			if err != nil {
				t.Fatalf("parseArgs() error = %v", err)
			}
			if document != tt.wantDocument {
				t.Errorf("document = %q, want %q", document, tt.wantDocument)
			}
			if !reflect.DeepEqual(passThrough, emptyAsNil(tt.wantPassThrough)) {
				t.Errorf("passThrough = %v, want %v", passThrough, tt.wantPassThrough)
			}
			if !reflect.DeepEqual(flags.resources, tt.wantResources) {
				t.Errorf("resources = %v, want %v", flags.resources, tt.wantResources)
			}
			if flags.config != tt.wantConfig {
				t.Errorf("config = %q, want %q", flags.config, tt.wantConfig)
			}
			if flags.quiet != tt.wantQuiet {
				t.Errorf("quiet = %v, want %v", flags.quiet, tt.wantQuiet)
			}
			if flags.verbose != tt.wantVerbose {
				t.Errorf("verbose = %v, want %v", flags.verbose, tt.wantVerbose)
			}
		})
	}
}

// emptyAsNil normalizes the expected pass-through slice: pflag returns an
// empty (non-nil) slice when nothing follows the document.
func emptyAsNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func TestParseArgs_NoDocument(t *testing.T) {
	t.Parallel()

	tests := [][]string{
		{"quarto-render"},
		{"quarto-render", "-q"},
		{"quarto-render", "-r", "figures/*.png"},
	}

	for _, args := range tests {
		_, _, _, err := parseArgs(args)
		if !errors.Is(err, ErrNoDocument) {
			t.Errorf("parseArgs(%v) error = %v, want ErrNoDocument", args, err)
		}
	}
}

func TestParseArgs_HelpAndVersion(t *testing.T) {
	t.Parallel()

	flags, _, _, err := parseArgs([]string{"quarto-render", "--help"})
	if err != nil {
		t.Fatalf("parseArgs(--help) error = %v", err)
	}
	if !flags.help {
		t.Error("help flag not set")
	}

	flags, _, _, err = parseArgs([]string{"quarto-render", "--version"})
	if err != nil {
		t.Fatalf("parseArgs(--version) error = %v", err)
	}
	if !flags.version {
		t.Error("version flag not set")
	}
}

func TestParseArgs_UnknownFlag(t *testing.T) {
	t.Parallel()

	_, _, _, err := parseArgs([]string{"quarto-render", "--bogus", "report.qmd"})
	if err == nil {
		t.Error("parseArgs() accepted an unknown flag before the document")
	}
}
