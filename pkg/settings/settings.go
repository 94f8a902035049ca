// Package settings provides build metadata, per-run options, and context
// helpers used across the ctltable CLI.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "ctltable"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the resolved options of a single invocation, after flags have
// been merged over the config file.
type Run struct {
	MinLogLevel int8

	// Source is the table document path; "-" or empty reads stdin.
	Source string

	NoColor         bool
	NoUTF8          bool
	Pastable        bool
	MachineReadable bool
	Overwrite       bool
	ShowSeparators  bool
	LexicalSort     bool

	// Width fixes the render width; 0 follows the terminal.
	Width int

	View    []string
	GroupBy []string
}

// NewCliParams returns the defaults of an interactive invocation.
func NewCliParams() *Run {
	return &Run{Source: "-"}
}
