//go:build amd64 && amd64.v3 && !scalar

package core

import "github.com/patrikhermansson/ensuresimd/internal/baseline"

const optOut = false

var compiled = baseline.Baseline{
	Arch:     baseline.ArchX86_64,
	Compiled: baseline.NewFeatureSet(baseline.AVX2),
}
