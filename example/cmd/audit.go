//go:build ignore
// +build ignore

package main

import (
	"context"
	"os"
	"time"

	"github.com/patrikhermansson/ensuresimd/internal/audit"
	"github.com/patrikhermansson/ensuresimd/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Set the logger to output to the console.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Audit the example app above for the default matrix.
	targets := config.DefaultTargets()
	opts := audit.Options{
		Package:     "./example/cmd/app.go",
		Parallelism: 2,
		Builder:     audit.GoBuilder{Timeout: 2 * time.Minute},
		Progress:    os.Stderr,
	}
	for _, tc := range targets {
		opts.Targets = append(opts.Targets, tc.Target())
	}

	report, err := audit.Run(context.Background(), opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Audit failed to run")
	}
	for _, res := range report.Results {
		log.Info().
			Stringer("target", res.Target).
			Stringer("status", res.Status).
			Str("reason", res.Reason()).
			Msg("Audited target")
	}
	if !report.OK() {
		os.Exit(1)
	}
}
