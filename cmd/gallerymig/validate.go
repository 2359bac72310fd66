package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gallerymig/internal/config"
)

func newValidateCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the pipeline configuration and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ro.pipeline()
			if err != nil {
				return err
			}
			if err := report(cmd.OutOrStdout(), config.ValidatePipeline(p)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
			return nil
		},
	}
}
