// Package baseline holds the data model and decision logic behind the SIMD
// baseline gate and the runtime verifier.
//
// Nothing in this package is build constrained: it describes any target and
// any host, so tooling can reason about builds other than the running one.
package baseline

import "strings"

// Arch is the target architecture family as far as the SIMD baseline is concerned.
type Arch uint8

const (
	// ArchOther is any architecture without a guaranteed baseline.
	ArchOther Arch = iota
	// ArchX86_64 is amd64. Its baseline, AVX2, must be enabled explicitly.
	ArchX86_64
	// ArchAArch64 is arm64. NEON is part of the architecture.
	ArchAArch64
)

// String returns the string representation of an Arch.
func (a Arch) String() string {
	switch a {
	case ArchX86_64:
		return "x86_64"
	case ArchAArch64:
		return "aarch64"
	default:
		return "other"
	}
}

// ArchFromGOARCH maps a GOARCH value to an Arch.
func ArchFromGOARCH(goarch string) Arch {
	switch strings.ToLower(strings.TrimSpace(goarch)) {
	case "amd64":
		return ArchX86_64
	case "arm64":
		return ArchAArch64
	default:
		return ArchOther
	}
}

// MarshalText renders the architecture name.
func (a Arch) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
