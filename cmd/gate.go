package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/patrikhermansson/ensuresimd/internal/baseline"
)

var gateFlags struct {
	goos    string
	goarch  string
	goamd64 string
	tags    string
}

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Evaluate the compile-time gate for a build target",
	Long: `Evaluate the SIMD baseline gate for a build target without building.

The target defaults to the GOOS, GOARCH, GOAMD64 and GOFLAGS (-tags) of the
environment, so running it in a CI job before "go build" reports the same
decision the compiler would. Exits with status 1 when the gate would refuse
the build.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := gateTarget()
		if err != nil {
			return err
		}
		b := t.Baseline()
		if err := baseline.CheckBuild(b); err != nil {
			log.Debug().Stringer("target", t).Err(err).Msg("Gate refuses target")
			var bce *baseline.BuildConfigurationError
			if errors.As(err, &bce) {
				fmt.Fprint(cmd.ErrOrStderr(), bce.Diagnostic())
			}
			return &exitError{code: 1, err: err}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "gate passes for %s: baseline %s\n", t, b)
		return nil
	},
}

// gateTarget resolves the target from flags, falling back to the go
// environment variables and then to the running platform.
func gateTarget() (baseline.Target, error) {
	host := baseline.HostTarget()
	t := baseline.Target{
		GOOS:    firstNonEmpty(gateFlags.goos, os.Getenv("GOOS"), host.GOOS),
		GOARCH:  firstNonEmpty(gateFlags.goarch, os.Getenv("GOARCH"), host.GOARCH),
		GOAMD64: firstNonEmpty(gateFlags.goamd64, os.Getenv("GOAMD64")),
	}
	if gateFlags.tags != "" {
		t.Tags = baseline.ParseTags(gateFlags.tags)
	} else {
		t.Tags = baseline.ParseGOFLAGSTags(os.Getenv("GOFLAGS"))
	}
	if err := t.Validate(); err != nil {
		return baseline.Target{}, err
	}
	return t, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	gateCmd.Flags().StringVar(&gateFlags.goos, "goos", "", "target GOOS (default $GOOS or the host)")
	gateCmd.Flags().StringVar(&gateFlags.goarch, "goarch", "", "target GOARCH (default $GOARCH or the host)")
	gateCmd.Flags().StringVar(&gateFlags.goamd64, "goamd64", "", "target GOAMD64 level (default $GOAMD64 or v1)")
	gateCmd.Flags().StringVar(&gateFlags.tags, "tags", "", "build tags (default the -tags of $GOFLAGS)")
	rootCmd.AddCommand(gateCmd)
}
