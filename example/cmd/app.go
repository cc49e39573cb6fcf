//go:build ignore
// +build ignore

package main

import (
	"os"
	"sync"

	"github.com/patrikhermansson/ensuresimd/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Verify the CPU before any goroutine can execute a SIMD instruction.
	core.EnsureSIMD()

	// Set the logger to output to the console.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Info().Stringer("baseline", core.Compiled()).Msg("SIMD baseline verified")

	vectors := [][]float32{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}}
	sums := make([]float32, len(vectors))

	var wg sync.WaitGroup
	for i, v := range vectors {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, x := range v {
				sums[i] += x
			}
		}()
	}
	wg.Wait()

	log.Info().Interface("sums", sums).Msg("Done")
}
