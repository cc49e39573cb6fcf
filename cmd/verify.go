package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/patrikhermansson/ensuresimd/core"
	"github.com/patrikhermansson/ensuresimd/internal/baseline"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify this CPU against the compiled SIMD baseline",
	Long: `Run the runtime verifier of this binary without aborting.

Exits with status 3 when the CPU lacks a feature the binary was compiled to assume.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		compiled := core.Compiled()
		err := core.Verify()
		if err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "SIMD baseline %s verified on this CPU\n", compiled)
			return nil
		}

		log.Error().Err(err).Stringer("baseline", compiled).Msg("SIMD baseline verification failed")
		var mismatch *baseline.CapabilityMismatchError
		if errors.As(err, &mismatch) {
			fmt.Fprint(cmd.ErrOrStderr(), mismatch.Diagnostic())
		}
		return &exitError{code: baseline.ExitCapabilityMismatch, err: err}
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
