package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patrikhermansson/ensuresimd/core"
)

var (
	// Version information set at build time
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the version, git commit, build date and compiled SIMD baseline of the ensuresimd CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ensuresimd CLI\n")
		fmt.Fprintf(out, "  Version:    %s\n", Version)
		fmt.Fprintf(out, "  Git Commit: %s\n", GitCommit)
		fmt.Fprintf(out, "  Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "  Baseline:   %s\n", core.Compiled())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
