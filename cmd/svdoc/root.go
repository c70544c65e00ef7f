package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/svdoc/internal/config"
	"github.com/robert-at-pretension-io/svdoc/internal/generator"
)

// version is set via -ldflags
var version = "dev"

type rootOptions struct {
	configFile string
	verbose    bool
	format     string
	outDir     string
	template   string
	check      bool
	strict     bool
	stdout     bool
	timing     string
}

type app struct {
	opts   rootOptions
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "svdoc [flags] <path>...",
		Short: "Generate documentation from annotated SystemVerilog modules",
		Long: titleStyle.Render("svdoc") + subtitleStyle.Render(" - SystemVerilog module documentation") + `

svdoc reads the /*---- ... ----*/ block in front of a module and the
/* description @range: ... */ annotations on its parameters and ports,
and writes one document per module.

` + subtitleStyle.Render("Examples:") + `
  svdoc rtl/fifo.sv              Write ./fifo.rst
  svdoc -f markdown -o docs rtl  Document every .sv/.v file under rtl/
  svdoc --stdout fifo.sv         Print instead of writing
  svdoc --check --strict rtl     Fail on undocumented modules
  svdoc lint rtl                 Report documentation coverage only`,
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runGenerate,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.opts.configFile, "config", "", "config file (default: ./svdoc.json, ./.svdoc.json, ~/.config/svdoc/config.json)")
	pf.BoolVarP(&a.opts.verbose, "verbose", "v", false, "log every parsed parameter and port")

	f := cmd.Flags()
	f.StringVarP(&a.opts.format, "format", "f", "", "output format: rst, markdown, json, yaml")
	f.StringVarP(&a.opts.outDir, "out-dir", "o", "", "directory for generated documents")
	f.StringVar(&a.opts.template, "template", "", "text/template file replacing the built-in layout")
	f.BoolVar(&a.opts.check, "check", false, "run the documentation coverage policy")
	f.BoolVar(&a.opts.strict, "strict", false, "fail files with error-severity coverage violations")
	f.BoolVar(&a.opts.stdout, "stdout", false, "write documents to standard output")
	f.StringVar(&a.opts.timing, "timing", "", "write per-file timing events as JSONL")

	cmd.AddCommand(newInitCmd(a))
	cmd.AddCommand(newLintCmd(a))
	cmd.AddCommand(newPreviewCmd(a))

	return cmd
}

func (a *app) newLogger() *log.Logger {
	logger := log.NewWithOptions(a.stderr, log.Options{Prefix: "svdoc"})
	if a.opts.verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadConfig honours --config, otherwise searches from the first path argument
func (a *app) loadConfig(paths []string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.opts.configFile != "" {
		cfg, err = config.LoadFile(a.opts.configFile)
	} else {
		root := "."
		if len(paths) > 0 {
			root = paths[0]
		}
		cfg, err = config.Load(root)
	}
	if err != nil {
		return nil, &ExitError{Code: exitFailure, Err: fmt.Errorf("load config: %w", err)}
	}
	return cfg, nil
}

// applyFlags lets explicitly set flags override the config file
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = a.opts.format
	}
	if flags.Changed("out-dir") {
		cfg.OutputDir = a.opts.outDir
	}
	if flags.Changed("template") {
		cfg.Template = a.opts.template
	}
	if a.opts.check {
		cfg.Lint.Enabled = true
	}
	if a.opts.strict {
		cfg.Lint.Strict = true
	}
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	logger := a.newLogger()

	cfg, err := a.loadConfig(args)
	if err != nil {
		return err
	}
	a.applyFlags(cmd, cfg)

	files, err := cfg.ResolveSources(args)
	if err != nil {
		return &ExitError{Code: exitFailure, Err: err}
	}
	if len(files) == 0 {
		logger.Warn("no SystemVerilog files found", "paths", args)
		return nil
	}

	g, err := generator.New(cmd.Context(), cfg, logger)
	if err != nil {
		return &ExitError{Code: exitFailure, Err: err}
	}
	g.TimingPath = a.opts.timing
	if a.opts.stdout {
		g.Stdout = a.stdout
	}

	results, runErr := g.Run(cmd.Context(), files)

	counts := map[string]int{}
	for _, r := range results {
		counts[r.Status]++
		if r.Err != nil {
			logger.Error("failed", "file", r.Path, "err", r.Err)
		}
	}
	logger.Debug("done",
		"files", len(results),
		generator.StatusWritten, counts[generator.StatusWritten],
		generator.StatusCached, counts[generator.StatusCached],
		generator.StatusFailed, counts[generator.StatusFailed],
	)

	if runErr != nil {
		return batchError(counts[generator.StatusFailed], len(results), runErr)
	}
	return nil
}
