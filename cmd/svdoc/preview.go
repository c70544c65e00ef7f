package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/svdoc/internal/generator"
	"github.com/robert-at-pretension-io/svdoc/internal/render"
)

func newPreviewCmd(a *app) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Render a module's documentation in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			cfg, err := a.loadConfig(args)
			if err != nil {
				return err
			}
			cfg.Lint.Enabled = false
			cfg.Lint.Strict = false
			cfg.Template = ""

			g, err := generator.New(cmd.Context(), cfg, a.newLogger())
			if err != nil {
				return &ExitError{Code: exitFailure, Err: err}
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return &ExitError{Code: exitFailure, Err: err}
			}
			doc, _, err := g.Build(cmd.Context(), path, string(data))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			md, err := render.String(render.Markdown(), doc)
			if err != nil {
				return &ExitError{Code: exitFailure, Err: err}
			}

			opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
			if width > 0 {
				opts = append(opts, glamour.WithWordWrap(width))
			}
			r, err := glamour.NewTermRenderer(opts...)
			if err != nil {
				return &ExitError{Code: exitFailure, Err: err}
			}
			out, err := r.Render(md)
			if err != nil {
				return &ExitError{Code: exitFailure, Err: err}
			}
			fmt.Fprint(a.stdout, out)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 100, "word wrap width (0 disables wrapping)")
	return cmd
}
