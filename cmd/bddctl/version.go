package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var (
	BuildName = "bddctl"
	BuildTag  string
)

var versionCmd = &cobra.Command{
	Use:          "version",
	Short:        "Print the bddctl version",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version())
		return err
	},
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok && BuildTag == "" {
		BuildTag = info.Main.Version
	}

	rootCmd.AddCommand(versionCmd)
}

func version() string {
	tag := strings.TrimPrefix(BuildTag, "v")
	if tag == "" {
		tag = "devel"
	}

	return fmt.Sprintf("%s version %s %s/%s", BuildName, tag, runtime.GOOS, runtime.GOARCH)
}
