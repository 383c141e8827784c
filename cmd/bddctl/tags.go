package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geneai/bddctl/internal/tags"
)

var tagsCmd = &cobra.Command{
	Use:                "tags [tags|profile|flags...]",
	Short:              "Print the tag expression a run with the same arguments would use",
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		expr := tags.NewResolver(cfg.Profiles).Resolve(args, tags.LookupFunc(lookupEnv))
		_, err = fmt.Fprintln(cmd.OutOrStdout(), expr)

		return err
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
