package artifact

import (
	"os"
	"sort"
	"strings"

	"github.com/quartoext/quarto-render/internal/yamlutil"
)

// formatExtensions maps Quarto format names to output file extensions where
// they differ or are ambiguous. Unknown formats fall back to the format name.
var formatExtensions = map[string]string{
	"html":       "html",
	"html5":      "html",
	"revealjs":   "html",
	"pdf":        "pdf",
	"typst":      "pdf",
	"beamer":     "pdf",
	"latex":      "tex",
	"docx":       "docx",
	"odt":        "odt",
	"epub":       "epub",
	"gfm":        "md",
	"commonmark": "md",
}

// FormatHints reads the document's YAML front matter and returns the output
// extensions its `format` key implies, in declaration-independent but stable
// order. The hints only bias candidate ranking; discovery never requires them.
// A document without parseable front matter yields no hints.
func FormatHints(docPath string) []string {
	data, err := os.ReadFile(docPath) // #nosec G304 -- caller-resolved path
	if err != nil {
		return nil
	}
	block, ok := frontMatterBlock(string(data))
	if !ok {
		return nil
	}

	var meta struct {
		Format any `yaml:"format"`
	}
	if err := yamlutil.Unmarshal([]byte(block), &meta); err != nil {
		return nil
	}

	return extensionsFor(meta.Format)
}

// frontMatterBlock extracts the YAML between the leading `---` fence and the
// next `---` (or `...`) fence.
func frontMatterBlock(content string) (string, bool) {
	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.SplitAfter(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r\n") != "---" {
		return "", false
	}
	var b strings.Builder
	for _, line := range lines[1:] {
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "---" || trimmed == "..." {
			return b.String(), true
		}
		b.WriteString(line)
	}
	return "", false
}

// extensionsFor interprets the front-matter `format` value, which may be a
// plain string ("html"), a mapping of format names to options, or absent.
func extensionsFor(format any) []string {
	switch v := format.(type) {
	case string:
		if ext := extensionForFormat(v); ext != "" {
			return []string{ext}
		}
	case map[string]any:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		var exts []string
		seen := make(map[string]bool)
		for _, name := range names {
			ext := extensionForFormat(name)
			if ext != "" && !seen[ext] {
				seen[ext] = true
				exts = append(exts, ext)
			}
		}
		return exts
	}
	return nil
}

func extensionForFormat(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	if ext, ok := formatExtensions[name]; ok {
		return ext
	}
	return name
}
