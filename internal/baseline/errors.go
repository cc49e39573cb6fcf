package baseline

import (
	"errors"
	"fmt"
	"strings"
)

// GateSymbol is the identifier the compile-time gate leaves undefined. A
// compiler error mentioning it means the gate refused the build.
const GateSymbol = "ensuresimd_avx2_not_enabled_on_amd64__set_GOAMD64_v3_or_build_with_tags_scalar"

// ExitCapabilityMismatch is the exit status of a process aborted by the
// runtime verifier.
const ExitCapabilityMismatch = 3

var (
	// ErrBuildConfiguration matches every *BuildConfigurationError.
	ErrBuildConfiguration = errors.New("simd baseline not enabled for build target")
	// ErrCapabilityMismatch matches every *CapabilityMismatchError.
	ErrCapabilityMismatch = errors.New("cpu lacks compiled simd baseline")
)

// BuildConfigurationError is returned by CheckBuild when a target would be
// built without its SIMD baseline and without the opt-out tag.
type BuildConfigurationError struct {
	Arch    Arch
	Missing Feature
}

// Error implements the error interface.
func (e *BuildConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s target built without %s", ErrBuildConfiguration, e.Arch, e.Missing)
}

// Is reports whether target is ErrBuildConfiguration or an equal error.
func (e *BuildConfigurationError) Is(target error) bool {
	if target == ErrBuildConfiguration {
		return true
	}
	t, ok := target.(*BuildConfigurationError)
	return ok && t.Arch == e.Arch && t.Missing == e.Missing
}

// Diagnostic renders the message shown to whoever runs the build.
func (e *BuildConfigurationError) Diagnostic() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "This build uses %s SIMD instructions on %s for performance,\n", strings.ToUpper(string(e.Missing)), e.Arch)
	fmt.Fprintf(&sb, "but %s is not enabled for this target, so SIMD code would silently fall back to scalar paths.\n", e.Missing)
	sb.WriteString("To get the expected performance, enable it, e.g.:\n")
	fmt.Fprintf(&sb, "    %s go build ...\n", enableHint(e.Missing))
	fmt.Fprintf(&sb, "Alternatively, accept the scalar fallbacks by building with the %q tag:\n", OptOutTag)
	fmt.Fprintf(&sb, "    go build -tags %s ...\n", OptOutTag)
	return sb.String()
}

// CapabilityMismatchError is returned by Verify when the executing CPU lacks
// a feature the binary was compiled to assume.
type CapabilityMismatchError struct {
	Arch    Arch
	Missing Feature
}

// Error implements the error interface.
func (e *CapabilityMismatchError) Error() string {
	return fmt.Sprintf("%s: %s cpu does not support %s", ErrCapabilityMismatch, e.Arch, e.Missing)
}

// Is reports whether target is ErrCapabilityMismatch or an equal error.
func (e *CapabilityMismatchError) Is(target error) bool {
	if target == ErrCapabilityMismatch {
		return true
	}
	t, ok := target.(*CapabilityMismatchError)
	return ok && t.Arch == e.Arch && t.Missing == e.Missing
}

// Diagnostic renders the message written to stderr before the process aborts.
func (e *CapabilityMismatchError) Diagnostic() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "This binary was compiled with %s instructions enabled, but this %s CPU does not support %s.\n",
		strings.ToUpper(string(e.Missing)), e.Arch, e.Missing)
	fmt.Fprintf(&sb, "Please run on a CPU that supports %s, or build from source with `go build -tags %s`.\n",
		strings.ToUpper(string(e.Missing)), OptOutTag)
	return sb.String()
}

func enableHint(f Feature) string {
	switch f {
	case AVX2:
		return "GOAMD64=v3"
	default:
		return "GOFLAGS=..."
	}
}
