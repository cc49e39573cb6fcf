package baseline

// Prober answers whether the executing CPU supports a feature.
type Prober interface {
	Has(f Feature) bool
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(f Feature) bool

// Has calls fn(f).
func (fn ProberFunc) Has(f Feature) bool {
	return fn(f)
}

// CheckBuild is the compile-time gate decision for b.
//
// An opted-out build always passes. x86_64 requires avx2. aarch64 always
// passes because NEON is guaranteed by the architecture, and every other
// architecture passes because no baseline is assumed for it.
func CheckBuild(b Baseline) error {
	if b.OptOut {
		return nil
	}
	if b.Arch != ArchX86_64 {
		return nil
	}
	if !b.Compiled.Has(AVX2) {
		return &BuildConfigurationError{Arch: b.Arch, Missing: AVX2}
	}
	return nil
}

// Verify is the runtime verifier decision for b against the CPU behind p.
//
// p is never consulted for an opted-out baseline, nor on architectures
// other than x86_64. The first compiled feature p does not report, in
// sorted order, is returned as a *CapabilityMismatchError.
func Verify(b Baseline, p Prober) error {
	if b.OptOut || b.Arch != ArchX86_64 {
		return nil
	}
	for _, f := range b.Compiled.features {
		if !p.Has(f) {
			return &CapabilityMismatchError{Arch: b.Arch, Missing: f}
		}
	}
	return nil
}

// State is the verifier state machine: Unverified moves to Verified or,
// terminally, to Aborted.
type State uint8

const (
	// Unverified is the state before the verifier ran.
	Unverified State = iota
	// Verified means the CPU matches the compiled baseline.
	Verified
	// Aborted means the CPU lacks a compiled feature and the process must not continue.
	Aborted
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case Verified:
		return "verified"
	case Aborted:
		return "aborted"
	default:
		return "unverified"
	}
}

// MarshalText renders the state name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StateOf maps the result of Verify to the state it leads to.
func StateOf(err error) State {
	if err != nil {
		return Aborted
	}
	return Verified
}
