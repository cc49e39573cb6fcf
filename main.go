package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/ensuresimd/cmd"
	"github.com/patrikhermansson/ensuresimd/core"
)

// main is the entry point of the application.
// It verifies the SIMD baseline before anything else runs, starts a goroutine
// to listen for interrupt signals, and executes the main command. Logging is
// configured by the command from --log-level, ENSURESIMD_LOG_LEVEL or the
// config file.
func main() {
	// Must run before any other goroutine starts.
	core.EnsureSIMD()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// This block sets up a go routine to listen for an interrupt signal which cancels running builds
	ctx, cancel := context.WithCancel(context.Background())
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	go listenForInterrupt(stopChan, cancel)

	// Program entry point
	code := cmd.Execute(ctx)
	cancel()
	os.Exit(code)
}

// listenForInterrupt waits for an interrupt signal and cancels the command context.
// A second interrupt exits immediately.
func listenForInterrupt(stopChan chan os.Signal, cancel context.CancelFunc) {
	<-stopChan
	log.Warn().Msg("Interrupt signal received. Cancelling...")
	cancel()
	<-stopChan
	log.Fatal().Msg("Second interrupt signal received. Exiting...")
}
