package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/ctltable/internal/config"
	"github.com/oakwood-commons/ctltable/pkg/settings"
	"github.com/oakwood-commons/ctltable/pkg/table"
)

const nodesYAML = `
columns:
  - Node
  - Resource
  - name: State
    color: darkgreen
rows:
  - [n2, r3, UpToDate]
  - [n1, r1, UpToDate]
  - [n1, r2, {value: Outdated, color: red}]
`

// execute runs the root command in isolation from the user's config.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRoot_RendersStdin(t *testing.T) {
	out, err := execute(t, "columns: [Name, State]\nrows:\n  - [alpha, UpToDate]\n  - [beta, Unknown]\n")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"+------------------+",
		"| Name  | State    |",
		"|------------------|",
		"| alpha | UpToDate |",
		"| beta  | Unknown  |",
		"+------------------+",
	}, "\n")+"\n", out)
}

func TestRoot_GroupingFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "document order",
			want: []string{"| n2   | r3       | UpToDate |", "| n1   | r1       | UpToDate |", "| n1   | r2       | Outdated |"},
		},
		{
			name: "grouped",
			args: []string{"-g", "Node"},
			want: []string{"| n1   | r1       | UpToDate |", "| n1   | r2       | Outdated |", "| n2   | r3       | UpToDate |"},
		},
		{
			name: "grouped with overwrite",
			args: []string{"-g", "Node", "--overwrite"},
			want: []string{"| n1   | r1       | UpToDate |", "|      | r2       | Outdated |", "| n2   | r3       | UpToDate |"},
		},
		{
			name: "machine readable keeps values",
			args: []string{"-g", "Node", "--overwrite", "-m"},
			want: []string{"| n1   | r1       | UpToDate |", "| n1   | r2       | Outdated |", "| n2   | r3       | UpToDate |"},
		},
		{
			name: "separators",
			args: []string{"-g", "Node", "--separators"},
			want: []string{"| n1   | r1       | UpToDate |", "| n1   | r2       | Outdated |", "|----------------------------|", "| n2   | r3       | UpToDate |"},
		},
		{
			name: "view",
			args: []string{"-s", "State,Node"},
			want: []string{"| UpToDate | n2   |", "| UpToDate | n1   |", "| Outdated | n1   |"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "nodes.yaml", nodesYAML)
			out, err := execute(t, "", append([]string{path}, tt.args...)...)
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
			assert.Equal(t, tt.want, lines[3:len(lines)-1])
		})
	}
}

func TestRoot_Width(t *testing.T) {
	doc := "columns: [Name, {name: State, align: right}]\nrows: [[alpha, ok]]\n"

	t.Run("width flag", func(t *testing.T) {
		out, err := execute(t, doc, "--width", "40")
		require.NoError(t, err)
		for _, l := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
			assert.Len(t, l, 40)
		}
	})

	t.Run("pastable", func(t *testing.T) {
		out, err := execute(t, doc, "--pastable", "--width", "120")
		require.NoError(t, err)
		for _, l := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
			assert.Len(t, l, table.PastableWidth)
		}
	})

	t.Run("negative width", func(t *testing.T) {
		_, err := execute(t, doc, "--width", "-3")
		assert.ErrorContains(t, err, "must not be negative")
	})
}

func TestRoot_ColorsFromConfig(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "color: always\n")
	path := writeFile(t, "nodes.yaml", nodesYAML)

	out, err := execute(t, "", path, "--config-file", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, string(table.Red)+"Outdated"+string(table.Reset))
	assert.Contains(t, out, string(table.DarkGreen)+"UpToDate"+string(table.Reset))

	out, err = execute(t, "", path, "--config-file", cfgPath, "--no-color")
	require.NoError(t, err)
	assert.NotContains(t, out, "\x1b[")
}

func TestRoot_CSVFile(t *testing.T) {
	path := writeFile(t, "ports.csv", "Resource,Port\nr1,7001\nr2,7000\n")
	out, err := execute(t, "", path, "-g", "Port")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Equal(t, "| r2       | 7000 |", lines[3])
}

func TestRoot_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{name: "empty input", stdin: "", want: "empty input"},
		{name: "missing file", args: []string{"/nonexistent/table.yaml"}, want: "failed to read file"},
		{name: "unknown color", stdin: "columns: [{name: A, color: plaid}]\n", want: `unknown color "plaid"`},
		{name: "too many args", args: []string{"a", "b"}, want: "accepts at most 1 arg"},
		{name: "bad config", args: []string{"--config-file", "/nonexistent/config.yaml"}, want: "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ctltable "+settings.VersionInformation.BuildVersion))
}

func TestConfigCmd(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "overwrite: true\n")
	out, err := execute(t, "", "config", "--config-file", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "source: "+cfgPath)
	assert.Contains(t, out, "overwrite: true")
	assert.Contains(t, out, "color: auto")
}

func TestMergeSettings(t *testing.T) {
	defaults, err := config.Default()
	require.NoError(t, err)

	tests := []struct {
		name  string
		cfg   func(*config.Config)
		flags rootFlags
		args  []string
		check func(*testing.T, *settings.Run)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, r *settings.Run) {
				assert.False(t, r.NoColor)
				assert.False(t, r.NoUTF8)
				assert.False(t, r.LexicalSort)
				assert.Equal(t, int8(2), r.MinLogLevel)
				assert.Equal(t, "-", r.Source)
			},
		},
		{
			name: "config switches",
			cfg: func(c *config.Config) {
				c.Color = "never"
				c.Unicode = false
				c.NaturalSort = false
				c.Overwrite = true
				c.MaxWidth = 90
			},
			check: func(t *testing.T, r *settings.Run) {
				assert.True(t, r.NoColor)
				assert.True(t, r.NoUTF8)
				assert.True(t, r.LexicalSort)
				assert.True(t, r.Overwrite)
				assert.Equal(t, 90, r.Width)
			},
		},
		{
			name:  "width flag replaces config",
			cfg:   func(c *config.Config) { c.MaxWidth = 90 },
			flags: rootFlags{width: 60},
			args:  []string{"--width", "60"},
			check: func(t *testing.T, r *settings.Run) { assert.Equal(t, 60, r.Width) },
		},
		{
			name:  "debug flag",
			flags: rootFlags{debug: true, groupBy: []string{"Node"}, show: []string{"Name"}},
			check: func(t *testing.T, r *settings.Run) {
				assert.Equal(t, int8(-1), r.MinLogLevel)
				assert.Equal(t, []string{"Node"}, r.GroupBy)
				assert.Equal(t, []string{"Name"}, r.View)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			fs.Int("width", 0, "")
			require.NoError(t, fs.Parse(tt.args))

			flags := tt.flags
			run, err := mergeSettings(fs, &flags, cfg)
			require.NoError(t, err)
			tt.check(t, run)
		})
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.New("row 2: add row: row has 1 cells, table has 2 columns"))
	assert.Equal(t, "error: row 2: add row: row has 1 cells, table has 2 columns\n", buf.String())
}
