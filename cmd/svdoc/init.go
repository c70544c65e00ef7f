package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robert-at-pretension-io/svdoc/internal/config"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		force bool
		path  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an svdoc.json configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err == nil && !force {
				return &ExitError{Code: exitFailure, Err: fmt.Errorf("config file %s already exists (use --force to overwrite)", path)}
			}

			cfg := config.DefaultConfig()
			if err := cfg.Save(path); err != nil {
				return &ExitError{Code: exitFailure, Err: err}
			}

			fmt.Fprintf(a.stdout, "Created %s\n", path)
			fmt.Fprintln(a.stdout, "\nEdit this file to configure:")
			fmt.Fprintln(a.stdout, "  - Output format and directory")
			fmt.Fprintln(a.stdout, "  - Source include/exclude patterns")
			fmt.Fprintln(a.stdout, "  - Lint rule severities")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().StringVar(&path, "path", "svdoc.json", "where to write the config")
	return cmd
}
