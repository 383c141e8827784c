package main

import (
	"github.com/spf13/cobra"

	"github.com/geneai/bddctl/internal/report"
)

var reportCmd = &cobra.Command{
	Use:          "report",
	Short:        "Build the Allure report from existing results without running tests",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		out := report.New(cfg, report.WithLogger(logger)).Run(cmd.Context(), false)
		if len(out.Warnings) > 0 {
			logger.Warn().Strs("steps", out.Warnings).Msg("Report built with warnings")
		}

		if out.ExitCode != 0 {
			return exitCodeError(out.ExitCode)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
