package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/ctltable/internal/config"
	"github.com/oakwood-commons/ctltable/pkg/loader"
	"github.com/oakwood-commons/ctltable/pkg/logger"
	"github.com/oakwood-commons/ctltable/pkg/settings"
	"github.com/oakwood-commons/ctltable/pkg/table"
	"github.com/oakwood-commons/ctltable/pkg/terminal"
)

// rootFlags are the command-line values before they are merged with the
// config file.
type rootFlags struct {
	configFile      string
	debug           bool
	pastable        bool
	machineReadable bool
	noColor         bool
	noUTF8          bool
	groupBy         []string
	show            []string
	separators      bool
	overwrite       bool
	width           int
	lexicalSort     bool
}

// runState is what PersistentPreRunE resolves for the command that runs.
type runState struct {
	cfg     config.Config
	cfgPath string
	run     *settings.Run
}

type runStateKey struct{}

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

// Execute runs the root command. SIGPIPE is ignored so a reader that goes
// away surfaces as EPIPE to the renderer instead of killing the process.
func Execute() error {
	signal.Ignore(syscall.SIGPIPE)
	return newRootCmd().Execute()
}

// PrintError writes err to w, styling the prefix when w is a color terminal.
func PrintError(w io.Writer, err error) {
	prefix := "error:"
	if f, ok := w.(*os.File); ok && terminal.ColorEnabled(terminal.ColorAuto, f, os.Getenv) {
		prefix = errorStyle.Render(prefix)
	}
	fmt.Fprintln(w, prefix, err)
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [file|-]",
		Short: "Render a table document as a framed terminal table",
		Long: "Reads a table document (YAML, JSON, TOML or CSV) from a file or stdin and renders it\n" +
			"the way the controller client prints its lists: colored columns, grouped rows and\n" +
			"a frame sized to the terminal.",
		Example: "\n  ctltable nodes.yaml\n  ctltable -g Node --overwrite resources.json\n" +
			"  ctltable --pastable -s Name,State nodes.csv\n  cat nodes.yaml | ctltable -m\n",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupRun(cmd, flags, args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd)
		},
	}
	cmd.Version = cliVersionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config-file", "", "path to a YAML config file")
	pf.BoolVar(&flags.debug, "debug", false, "log render decisions to stderr")

	f := cmd.Flags()
	f.BoolVarP(&flags.pastable, "pastable", "p", false, "ASCII only, no colors, fixed width of 78 columns")
	f.BoolVarP(&flags.machineReadable, "machine-readable", "m", false, "disable visual post-processing such as --overwrite")
	f.BoolVar(&flags.noColor, "no-color", false, "disable colors")
	f.BoolVar(&flags.noUTF8, "no-utf8", false, "draw the frame with ASCII characters")
	f.StringSliceVarP(&flags.groupBy, "groupby", "g", nil, "group rows by these columns (comma separated)")
	f.StringSliceVarP(&flags.show, "show", "s", nil, "show only these columns, in this order (comma separated)")
	f.BoolVar(&flags.separators, "separators", false, "draw a rule between groups")
	f.BoolVar(&flags.overwrite, "overwrite", false, "blank repeated group-by values")
	f.IntVar(&flags.width, "width", 0, "fixed table width (0 follows the terminal)")
	f.BoolVar(&flags.lexicalSort, "lexical-sort", false, "sort group keys byte-wise instead of naturally")

	cmd.AddCommand(newVersionCmd(), newConfigCmd())
	return cmd
}

// setupRun loads the config, merges flags over it, starts the logger and
// stores both in the command context.
func setupRun(cmd *cobra.Command, flags *rootFlags, args []string) error {
	cfgPath := resolveConfigPath(flags.configFile)
	cfg, err := loadMergedConfig(cfgPath)
	if err != nil {
		return err
	}
	run, err := mergeSettings(cmd.Flags(), flags, cfg)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		run.Source = args[0]
	}

	lgr := logger.Get(run.MinLogLevel)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, lgr)
	ctx = settings.IntoContext(ctx, run)
	ctx = context.WithValue(ctx, runStateKey{}, &runState{cfg: cfg, cfgPath: cfgPath, run: run})
	cmd.SetContext(ctx)

	lgr.V(1).Info("configuration resolved", "config", cfgPath, "source", run.Source, "width", run.Width)
	return nil
}

// mergeSettings applies flags over cfg. Boolean switches only ever enable
// their feature; --width replaces maxWidth when given.
func mergeSettings(fs *pflag.FlagSet, flags *rootFlags, cfg config.Config) (*settings.Run, error) {
	run := settings.NewCliParams()

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if flags.debug {
		level = -1
	}
	run.MinLogLevel = level

	run.NoColor = flags.noColor || cfg.ColorMode() == terminal.ColorNever
	run.NoUTF8 = flags.noUTF8 || !cfg.Unicode
	run.Pastable = flags.pastable
	run.MachineReadable = flags.machineReadable
	run.Overwrite = flags.overwrite || cfg.Overwrite
	run.ShowSeparators = flags.separators || cfg.ShowSeparators
	run.LexicalSort = flags.lexicalSort || !cfg.NaturalSort

	run.Width = cfg.MaxWidth
	if fs != nil && fs.Changed("width") {
		run.Width = flags.width
	}
	if run.Width < 0 {
		return nil, fmt.Errorf("--width must not be negative, got %d", run.Width)
	}
	run.View = flags.show
	run.GroupBy = flags.groupBy
	return run, nil
}

func stateFrom(ctx context.Context) (*runState, error) {
	st, ok := ctx.Value(runStateKey{}).(*runState)
	if !ok {
		return nil, errors.New("command context is not initialized")
	}
	return st, nil
}

func runRender(cmd *cobra.Command) error {
	ctx := cmd.Context()
	st, err := stateFrom(ctx)
	if err != nil {
		return err
	}
	run := st.run
	lgr := logger.FromContext(ctx)

	in := cmd.InOrStdin()
	if run.Source == "-" || run.Source == "" {
		if f, ok := in.(*os.File); ok && terminal.IsTerminal(f) {
			return cmd.Help()
		}
	}

	var doc *loader.Document
	if run.Source == "-" || run.Source == "" {
		doc, err = loader.ParseReader(in, loader.FormatAuto)
	} else {
		doc, err = loader.ParseFile(run.Source)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tbl := table.New(tableOptions(run, st.cfg, out, *lgr))
	if err := doc.Build(tbl); err != nil {
		return err
	}
	if len(run.View) > 0 {
		if err := tbl.SetView(run.View); err != nil {
			return err
		}
	}
	if err := tbl.SetGroupBy(run.GroupBy); err != nil {
		return err
	}
	if run.ShowSeparators {
		if err := tbl.SetShowSeparators(true); err != nil {
			return err
		}
	}
	return tbl.Show(table.ShowOptions{
		MachineReadable: run.MachineReadable,
		Overwrite:       run.Overwrite,
	})
}

// tableOptions decides colors and glyphs for out. Only a real terminal can
// get colors in auto mode or box characters at all.
func tableOptions(run *settings.Run, cfg config.Config, out io.Writer, lgr logr.Logger) table.Options {
	outFile, _ := out.(*os.File)

	mode := cfg.ColorMode()
	if run.NoColor {
		mode = terminal.ColorNever
	}
	less := table.NaturalLess
	if run.LexicalSort {
		less = table.LexicalLess
	}
	return table.Options{
		Colors:   terminal.ColorEnabled(mode, outFile, os.Getenv),
		Unicode:  terminal.UnicodeCapable(!run.NoUTF8, outFile, os.Getenv),
		Pastable: run.Pastable,
		Width:    run.Width,
		Out:      out,
		Less:     less,
		Log:      lgr,
	}
}

func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, go %s)",
		settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print " + settings.CliBinaryName + " version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
			return err
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the merged configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := stateFrom(cmd.Context())
			if err != nil {
				return err
			}
			out, err := renderConfigYAML(st.cfg, st.cfgPath)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
}
