//go:build arm64 && !scalar

package core

import "github.com/patrikhermansson/ensuresimd/internal/baseline"

const optOut = false

// NEON is mandatory on arm64, so the compiled baseline always holds it.
var compiled = baseline.Baseline{
	Arch:     baseline.ArchAArch64,
	Compiled: baseline.NewFeatureSet(baseline.NEON),
}
