//go:build scalar

package core

import (
	"runtime"

	"github.com/patrikhermansson/ensuresimd/internal/baseline"
)

const optOut = true

// The amd64 level is not tracked once opted out; arm64 still reports its
// implicit NEON.
var compiled = baseline.Target{
	GOARCH: runtime.GOARCH,
	Tags:   []string{baseline.OptOutTag},
}.Baseline()
