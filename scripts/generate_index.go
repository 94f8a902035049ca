// Command generate_index builds the project page: README.md rendered to
// HTML, with the release archives in <dist-dir> listed under Installation
// and every document in examples/documents rendered as a sample table.
package main

import (
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/ctltable/pkg/loader"
	"github.com/oakwood-commons/ctltable/pkg/table"
)

const samplesDir = "examples/documents"

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <dist-dir>\n", os.Args[0])
		os.Exit(1)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(distDir string) error {
	readme, err := os.ReadFile("README.md")
	if err != nil {
		return fmt.Errorf("read README.md: %w", err)
	}
	page := renderMarkdown(readme)

	version := detectVersionFromDist(distDir)
	page = replaceInstallationSection(page, downloadsHTML(distDir, version))

	samples, err := renderSamples(samplesDir)
	if err != nil {
		return err
	}

	indexPath := filepath.Join(distDir, "index.html")
	f, err := os.Create(indexPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", indexPath, err)
	}
	defer f.Close()

	writeHeader(f)
	if _, err := f.Write(page); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	if _, err := io.WriteString(f, samples); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	writeFooter(f)

	fmt.Fprintf(os.Stderr, "Generated %s\n", indexPath)
	return nil
}

func renderMarkdown(src []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	return markdown.Render(p.Parse(src), renderer)
}

// renderSamples renders each table document in dir the way --pastable
// would print it, in file name order.
func renderSamples(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read samples: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && loader.FormatFromPath(e.Name()) != loader.FormatAuto {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("<h2 id=\"samples\">Samples</h2>\n")
	for _, name := range names {
		doc, err := loader.ParseFile(filepath.Join(dir, name))
		if err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		tbl := table.New(table.Options{Pastable: true, Out: io.Discard})
		if err := doc.Build(tbl); err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		lines := tbl.Render(table.ShowOptions{Overwrite: true})

		fmt.Fprintf(&sb, "<h3>%s</h3>\n<pre><code>", html.EscapeString(name))
		for _, l := range lines {
			sb.WriteString(html.EscapeString(l))
			sb.WriteByte('\n')
		}
		sb.WriteString("</code></pre>\n")
	}
	return sb.String(), nil
}

var archivePattern = regexp.MustCompile(`^ctltable_([^_]+(?:-[^_]+)*)_(?:Darwin|Linux|Windows)_(?:arm64|x86_64)\.(?:tar\.gz|zip)$`)

// detectVersionFromDist reads the version from archive names like
// ctltable_0.1.0_Linux_x86_64.tar.gz.
func detectVersionFromDist(distDir string) string {
	files, err := os.ReadDir(distDir)
	if err != nil {
		return "unknown"
	}
	for _, file := range files {
		if m := archivePattern.FindStringSubmatch(file.Name()); !file.IsDir() && len(m) >= 2 {
			return m[1]
		}
	}
	return "unknown"
}

var platformNames = []struct{ marker, name string }{
	{"Darwin_arm64", "macOS (Apple Silicon)"},
	{"Darwin_x86_64", "macOS (Intel)"},
	{"Linux_arm64", "Linux (ARM64)"},
	{"Linux_x86_64", "Linux (x86_64)"},
	{"Windows_arm64", "Windows (ARM64)"},
	{"Windows_x86_64", "Windows (x86_64)"},
}

func downloadsHTML(distDir, version string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "  <div class=\"downloads\">\n    <h3>%s</h3>\n    <table class=\"download-table\">\n", html.EscapeString(version))

	files, _ := os.ReadDir(distDir)
	var names []string
	for _, f := range files {
		if archivePattern.MatchString(f.Name()) {
			names = append(names, f.Name())
		}
	}
	sort.Strings(names)
	for _, p := range platformNames {
		for _, n := range names {
			if strings.Contains(n, p.marker) {
				fmt.Fprintf(&sb, "      <tr><td class=\"platform-name\">%s</td><td><a href=\"%s\">download</a></td></tr>\n", p.name, n)
				break
			}
		}
	}
	sb.WriteString("    </table>\n  </div>\n")
	return sb.String()
}

// replaceInstallationSection swaps the README's Installation section for
// the downloads table. Pages without one are returned unchanged.
func replaceInstallationSection(page []byte, downloads string) []byte {
	s := string(page)
	const heading = `<h2 id="installation">`
	start := strings.Index(s, heading)
	if start == -1 {
		return page
	}
	next := strings.Index(s[start+len(heading):], `<h2 id="`)
	if next == -1 {
		return page
	}
	next += start + len(heading)
	return []byte(s[:start] + heading + "Installation</h2>\n\n" + downloads + s[next:])
}

func writeHeader(w io.Writer) {
	fmt.Fprint(w, `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>ctltable - terminal tables</title>
  <style>
    body { font-family: system-ui, -apple-system, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; line-height: 1.6; color: #333; }
    h1 { color: #2563eb; border-bottom: 2px solid #2563eb; padding-bottom: 10px; }
    code { background: #f1f5f9; padding: 2px 6px; border-radius: 3px; font-family: Monaco, Menlo, monospace; font-size: 0.9em; }
    pre { background: #1e293b; color: #e2e8f0; padding: 16px; border-radius: 6px; overflow-x: auto; }
    pre code { background: none; color: inherit; padding: 0; }
    .downloads { background: #eff6ff; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #2563eb; }
    .download-table td { padding: 6px 8px; }
    .platform-name { font-weight: 500; width: 200px; }
  </style>
</head>
<body>
`)
}

func writeFooter(w io.Writer) {
	fmt.Fprint(w, "</body>\n</html>\n")
}
