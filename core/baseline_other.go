//go:build !amd64 && !arm64 && !scalar

package core

import "github.com/patrikhermansson/ensuresimd/internal/baseline"

const optOut = false

// No baseline is assumed for other architectures.
var compiled = baseline.Baseline{Arch: baseline.ArchOther}
