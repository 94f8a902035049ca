// Package loader reads table documents: a description of columns, rows and
// display options in YAML, JSON, TOML or CSV.
package loader

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a table document.
type Format string

const (
	FormatAuto Format = ""
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatCSV  Format = "csv"
)

// ErrEmptyInput is returned for blank documents.
var ErrEmptyInput = errors.New("empty input")

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	case ".csv":
		return FormatCSV
	}
	return FormatAuto
}

// DetectFormat sniffs the format of input. TOML is checked before JSON
// because a [section] header looks like a JSON array.
func DetectFormat(input string) Format {
	input = strings.TrimSpace(input)
	switch {
	case isLikelyTOML(input):
		return FormatTOML
	case strings.HasPrefix(input, "{") || strings.HasPrefix(input, "["):
		return FormatJSON
	case isLikelyCSV(input):
		return FormatCSV
	}
	return FormatYAML
}

// ParseFile reads and parses the document at path; "-" or "" reads stdin.
func ParseFile(path string) (*Document, error) {
	if path == "" || path == "-" {
		return ParseReader(os.Stdin, FormatAuto)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return Parse(data, FormatFromPath(path))
}

// ParseReader reads r to the end and parses it.
func ParseReader(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes data in the given format, detecting it when format is FormatAuto.
func Parse(data []byte, format Format) (*Document, error) {
	input := strings.TrimSpace(string(data))
	if input == "" {
		return nil, ErrEmptyInput
	}
	if format == FormatAuto {
		format = DetectFormat(input)
	}

	var tree any
	var err error
	switch format {
	case FormatCSV:
		return parseCSV(data)
	case FormatJSON:
		tree, err = loadJSON(input)
	case FormatTOML:
		tree, err = loadTOML(input)
	case FormatYAML:
		tree, err = loadYAML(input)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return fromTree(tree)
}

// loadJSON keeps numbers as json.Number so their spelling survives.
func loadJSON(input string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return data, nil
}

func loadYAML(input string) (any, error) {
	var data any
	if err := yaml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return data, nil
}

func loadTOML(input string) (any, error) {
	var data any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return data, nil
}

// parseCSV treats the first record as the column names. A record holding
// only "---" is a separator.
func parseCSV(data []byte) (*Document, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	doc := &Document{}
	for _, name := range records[0] {
		doc.Columns = append(doc.Columns, ColumnSpec{Name: strings.TrimSpace(name)})
	}
	for i, rec := range records[1:] {
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == separatorMarker {
			doc.Rows = append(doc.Rows, RowSpec{Separator: true})
			continue
		}
		if len(rec) != len(doc.Columns) {
			return nil, fmt.Errorf("CSV record %d: has %d fields, header has %d", i+2, len(rec), len(doc.Columns))
		}
		row := RowSpec{Cells: make([]CellSpec, len(rec))}
		for j, v := range rec {
			row.Cells[j] = CellSpec{Value: v}
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

var (
	// tomlSectionPattern matches [section] and [[array]] headers with bare,
	// quoted or dotted keys, but not JSON arrays like [1, 2, 3].
	tomlSectionPattern = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)

	// tomlKeyValuePattern matches key = value, as opposed to YAML's key: value.
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// isLikelyTOML reports TOML when any section header is present or most
// lines are key = value pairs.
func isLikelyTOML(input string) bool {
	sections, keyValues, nonEmpty := 0, 0, 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSectionPattern.MatchString(line) {
			sections++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValues++
		}
	}
	return sections > 0 || (nonEmpty > 0 && keyValues > nonEmpty/2)
}

// isLikelyCSV requires a multi-field first record and input that YAML does
// not read as a mapping.
func isLikelyCSV(input string) bool {
	first, err := csv.NewReader(strings.NewReader(input)).Read()
	if err != nil || len(first) < 2 {
		return false
	}
	var probe any
	if yaml.Unmarshal([]byte(input), &probe) != nil {
		return true
	}
	_, isMap := probe.(map[string]any)
	return !isMap
}
