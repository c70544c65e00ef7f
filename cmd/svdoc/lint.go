package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/svdoc/internal/generator"
	"github.com/robert-at-pretension-io/svdoc/internal/policy"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Italic(true)
	fileStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
	ruleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)

	severityStyles = map[string]lipgloss.Style{
		policy.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		policy.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		policy.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
	}
)

type lintOptions struct {
	strict bool
	json   bool
}

func newLintCmd(a *app) *cobra.Command {
	var opts lintOptions

	cmd := &cobra.Command{
		Use:   "lint <path>...",
		Short: "Report documentation coverage without writing documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLint(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero on error-severity violations")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print results as JSON")
	return cmd
}

func (a *app) runLint(cmd *cobra.Command, args []string, opts lintOptions) error {
	logger := a.newLogger()

	cfg, err := a.loadConfig(args)
	if err != nil {
		return err
	}
	cfg.Lint.Enabled = true
	if opts.strict {
		cfg.Lint.Strict = true
	}

	files, err := cfg.ResolveSources(args)
	if err != nil {
		return &ExitError{Code: exitFailure, Err: err}
	}

	g, err := generator.New(cmd.Context(), cfg, logger)
	if err != nil {
		return &ExitError{Code: exitFailure, Err: err}
	}
	results, runErr := g.Lint(cmd.Context(), files)

	if opts.json {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return &ExitError{Code: exitFailure, Err: err}
		}
	} else {
		writeLintReport(a.stdout, results)
	}

	if runErr != nil {
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		return batchError(failed, len(results), runErr)
	}
	return nil
}

// writeLintReport prints violations grouped by file, then a summary line
func writeLintReport(w io.Writer, results []generator.FileResult) {
	var all []policy.Violation
	for _, r := range results {
		if r.Err == nil && len(r.Violations) == 0 {
			continue
		}
		header := fileStyle.Render(r.Path)
		if r.Module != "" {
			header += " " + ruleStyle.Render("("+r.Module+")")
		}
		fmt.Fprintln(w, header)
		for _, v := range r.Violations {
			style, ok := severityStyles[v.Severity]
			if !ok {
				style = severityStyles[policy.SeverityInfo]
			}
			fmt.Fprintf(w, "  %s %s %s\n", style.Render(fmt.Sprintf("%-7s", v.Severity)), v.Message, ruleStyle.Render("["+v.Rule+"]"))
		}
		for _, p := range r.Problems {
			fmt.Fprintf(w, "  %s %s\n", severityStyles[policy.SeverityError].Render("invalid"), p)
		}
		if r.Err != nil && len(r.Problems) == 0 && !errors.Is(r.Err, generator.ErrStrictLint) {
			fmt.Fprintf(w, "  %s %v\n", severityStyles[policy.SeverityError].Render("failed "), r.Err)
		}
		fmt.Fprintln(w)
		all = append(all, r.Violations...)
	}

	s := policy.Summarize(all)
	if s.TotalViolations == 0 {
		fmt.Fprintf(w, "%s %d file(s) checked\n", okStyle.Render("ok"), len(results))
		return
	}
	parts := []string{
		severityStyles[policy.SeverityError].Render(fmt.Sprintf("%d error(s)", s.Errors)),
		severityStyles[policy.SeverityWarning].Render(fmt.Sprintf("%d warning(s)", s.Warnings)),
		severityStyles[policy.SeverityInfo].Render(fmt.Sprintf("%d info", s.Info)),
	}
	fmt.Fprintf(w, "%d file(s) checked: %s\n", len(results), strings.Join(parts, ", "))
}
