package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/patrikhermansson/ensuresimd/internal/audit"
	"github.com/patrikhermansson/ensuresimd/internal/baseline"
)

var auditFlags struct {
	targets    []string
	noProgress bool
}

var auditCmd = &cobra.Command{
	Use:   "audit [package]",
	Short: "Build a package for a target matrix and check the gate protects it",
	Long: `Build a package with the go toolchain for every target of the audit matrix
and compare each outcome with the gate decision for that target.

A package that still builds for amd64 below GOAMD64=v3 without the scalar tag
does not import the gate. The matrix comes from --target flags or the audit
section of the config file. Exits with status 1 when any target misbehaves.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pkg := cfg.Audit.Package
		if len(args) == 1 {
			pkg = args[0]
		}

		targets, err := auditTargets()
		if err != nil {
			return err
		}

		opts := audit.Options{
			Package:     pkg,
			Targets:     targets,
			Parallelism: cfg.Audit.Parallelism,
			Builder:     audit.GoBuilder{Timeout: cfg.Audit.Timeout},
		}
		if cfg.Audit.Progress && !auditFlags.noProgress {
			opts.Progress = os.Stderr
		}

		log.Info().Str("package", pkg).Int("targets", len(targets)).Msg("Starting audit")
		report, err := audit.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}

		printAudit(cmd.OutOrStdout(), report)
		if !report.OK() {
			return &exitError{code: 1, err: errors.New("audit found unprotected or broken targets")}
		}
		return nil
	},
}

func auditTargets() ([]baseline.Target, error) {
	if len(auditFlags.targets) > 0 {
		targets := make([]baseline.Target, 0, len(auditFlags.targets))
		for _, s := range auditFlags.targets {
			t, err := baseline.ParseTarget(s)
			if err != nil {
				return nil, err
			}
			targets = append(targets, t)
		}
		return targets, nil
	}
	targets := make([]baseline.Target, 0, len(cfg.Audit.Targets))
	for _, tc := range cfg.Audit.Targets {
		targets = append(targets, tc.Target())
	}
	return targets, nil
}

func printAudit(w io.Writer, report *audit.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "TARGET\tEXPECTED\tBUILT\tSTATUS\tREASON\n")
	for _, res := range report.Results {
		expected := "build"
		if res.Expected != nil {
			expected = "refuse"
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n", res.Target, expected, res.Outcome.Built, res.Status, res.Reason())
	}
	if err := tw.Flush(); err != nil {
		log.Warn().Err(err).Msg("Failed to write audit table")
	}

	for _, res := range report.Failures() {
		if res.Outcome.Output != "" {
			fmt.Fprintf(w, "\n--- %s\n%s", res.Target, res.Outcome.Output)
		}
	}
}

func init() {
	auditCmd.Flags().StringArrayVar(&auditFlags.targets, "target", nil, "target as goos/goarch[/goamd64][+tags] (repeatable, overrides the config matrix)")
	auditCmd.Flags().Int("parallelism", 2, "number of concurrent builds")
	auditCmd.Flags().BoolVar(&auditFlags.noProgress, "no-progress", false, "disable the progress bar")
	if err := viper.BindPFlag("audit.parallelism", auditCmd.Flags().Lookup("parallelism")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding flag: %v\n", err)
	}
	rootCmd.AddCommand(auditCmd)
}
