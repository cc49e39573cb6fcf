// Package core enforces the SIMD baseline of a binary: AVX2 on amd64, NEON on
// arm64.
//
// Importing the package is the compile-time gate. On amd64 it refuses to
// compile unless the build targets GOAMD64=v3 or later, so a misconfigured CI
// job fails instead of shipping a binary running scalar fallbacks. Calling
// EnsureSIMD at the very start of main is the runtime verifier: it aborts the
// process when the CPU lacks what the binary was compiled to assume.
//
// Building with -tags scalar disables both checks.
package core

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/patrikhermansson/ensuresimd/internal/baseline"
	"github.com/patrikhermansson/ensuresimd/internal/hostcpu"
)

// Swapped by tests.
var (
	prober baseline.Prober = hostcpu.Host{}
	stderr io.Writer       = os.Stderr
	exit                   = os.Exit
)

// EnsureSIMD checks that the executing CPU supports the SIMD baseline this
// binary was compiled for. On a mismatch it writes a diagnostic to stderr and
// exits with status baseline.ExitCapabilityMismatch.
//
// Call it as the first statement of main, before any other goroutine starts,
// so no SIMD instruction runs ahead of the check. It is a no-op when built
// with -tags scalar and safe to call more than once.
func EnsureSIMD() {
	if optOut {
		return
	}
	if err := verify(prober); err != nil {
		abort(err)
	}
}

// Verify runs the same check as EnsureSIMD but returns the mismatch as a
// *baseline.CapabilityMismatchError instead of exiting.
func Verify() error {
	if optOut {
		return nil
	}
	return verify(prober)
}

// Compiled returns the baseline baked into this binary.
func Compiled() baseline.Baseline {
	return compiled
}

// HostFeatures returns the SIMD features the executing CPU reports.
func HostFeatures() baseline.FeatureSet {
	return hostcpu.Detect()
}

// verify has no side effect on success, so repeated calls leave no trace.
func verify(p baseline.Prober) error {
	return baseline.Verify(compiled, p)
}

func abort(err error) {
	msg := err.Error() + "\n"
	var mismatch *baseline.CapabilityMismatchError
	if errors.As(err, &mismatch) {
		msg = mismatch.Diagnostic()
	}
	fmt.Fprint(stderr, "\n"+msg+"\n")
	exit(baseline.ExitCapabilityMismatch)
}
