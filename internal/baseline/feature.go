package baseline

import (
	"sort"
	"strings"
)

// Feature is an instruction-set extension flag.
type Feature string

const (
	// AVX2 is the 256-bit x86-64 SIMD extension.
	AVX2 Feature = "avx2"
	// NEON is the 128-bit ARM SIMD extension (ASIMD).
	NEON Feature = "neon"
)

// Required returns the baseline feature of arch, or false when the
// architecture has none.
func Required(arch Arch) (Feature, bool) {
	switch arch {
	case ArchX86_64:
		return AVX2, true
	case ArchAArch64:
		return NEON, true
	default:
		return "", false
	}
}

// FeatureSet is an immutable set of features. The zero value is empty.
type FeatureSet struct {
	features []Feature
}

// NewFeatureSet builds a set from fs, dropping duplicates and empty names.
func NewFeatureSet(fs ...Feature) FeatureSet {
	seen := make(map[Feature]struct{}, len(fs))
	out := make([]Feature, 0, len(fs))
	for _, f := range fs {
		f = Feature(strings.ToLower(strings.TrimSpace(string(f))))
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return FeatureSet{features: out}
}

// Has reports whether f is in the set.
func (s FeatureSet) Has(f Feature) bool {
	for _, x := range s.features {
		if x == f {
			return true
		}
	}
	return false
}

// Len returns the number of features in the set.
func (s FeatureSet) Len() int {
	return len(s.features)
}

// Slice returns the features in sorted order. The caller owns the result.
func (s FeatureSet) Slice() []Feature {
	out := make([]Feature, len(s.features))
	copy(out, s.features)
	return out
}

// Missing returns the features of s that other lacks, in sorted order.
func (s FeatureSet) Missing(other FeatureSet) []Feature {
	var missing []Feature
	for _, f := range s.features {
		if !other.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// SubsetOf reports whether every feature of s is in other.
func (s FeatureSet) SubsetOf(other FeatureSet) bool {
	return len(s.Missing(other)) == 0
}

// String renders the set as "{avx2,neon}".
func (s FeatureSet) String() string {
	names := make([]string, len(s.features))
	for i, f := range s.features {
		names[i] = string(f)
	}
	return "{" + strings.Join(names, ",") + "}"
}

// MarshalText renders the set as a comma separated list.
func (s FeatureSet) MarshalText() ([]byte, error) {
	names := make([]string, len(s.features))
	for i, f := range s.features {
		names[i] = string(f)
	}
	return []byte(strings.Join(names, ",")), nil
}
