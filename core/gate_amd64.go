//go:build amd64 && !amd64.v3 && !scalar

package core

import "github.com/patrikhermansson/ensuresimd/internal/baseline"

// This package uses AVX2 (on amd64) or NEON (on arm64) SIMD instructions for
// performance. AVX2 is not enabled by the default amd64 target (GOAMD64=v1),
// so SIMD code would silently fall back to scalar or 128-bit paths.
//
// To get the expected performance, build with e.g.:
//
//	GOAMD64=v3 go build ...
//
// Alternatively, accept the scalar fallbacks by building with the scalar tag:
//
//	go build -tags scalar ...
var _ = ensuresimd_avx2_not_enabled_on_amd64__set_GOAMD64_v3_or_build_with_tags_scalar

const optOut = false

var compiled = baseline.Baseline{Arch: baseline.ArchX86_64}
