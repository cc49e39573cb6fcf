package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/patrikhermansson/ensuresimd/internal/config"
)

var (
	cfgFile string
	cfg     = config.DefaultConfig()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ensuresimd",
	Short: "Check that binaries run on the SIMD baseline they were built for",
	Long: `ensuresimd inspects and enforces the SIMD baseline of Go binaries:
AVX2 on amd64 (GOAMD64=v3) and NEON on arm64.

It provides commands for:
- Verifying this CPU against the baseline compiled into this binary
- Reporting host CPU capabilities and the recommended GOAMD64 level
- Evaluating the build gate for a target before running a CI build
- Auditing that a package is really protected by the gate`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadWith(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return setupLogging(cfg.Log)
	},
}

// exitError carries a specific process exit status out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// Execute runs the CLI and returns the process exit status.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.ensuresimd.yaml or $HOME/.ensuresimd.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	if err := viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding flag: %v\n", err)
	}
	if err := viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding flag: %v\n", err)
	}
}

// setupLogging points the global zerolog logger at stderr in the configured
// format and level.
func setupLogging(lc config.LogConfig) error {
	level, err := lc.ZerologLevel()
	if err != nil {
		return err
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if lc.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return nil
}
