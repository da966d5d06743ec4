package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/chartwell/internal/config"
	"github.com/zjrosen/chartwell/internal/templates"
)

func newInitCmd() *cobra.Command {
	var (
		force   bool
		samples string
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a commented default config file",
		Long: `Write the default configuration to path (default: .chartwell/config.yaml).

An existing file is left alone unless --force is given. With --samples DIR a
few example datasets are copied into DIR as well.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := localConfigPath
			if len(args) == 1 {
				path = args[0]
			}

			if samples != "" {
				written, err := templates.WriteSamples(samples)
				if err != nil {
					return err
				}
				for _, p := range written {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
				}
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("checking %s: %w", path, err)
			}

			if err := config.WriteDefaultConfig(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return err
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().StringVar(&samples, "samples", "", "also copy sample datasets into this directory")
	return cmd
}
