package baseline

import (
	"fmt"
	"runtime"
	"strings"
)

// OptOutTag is the build tag that disables both the gate and the verifier.
const OptOutTag = "scalar"

// Baseline describes what a binary was compiled to assume about the CPU.
type Baseline struct {
	Arch     Arch       `json:"arch" yaml:"arch"`
	Compiled FeatureSet `json:"compiled" yaml:"compiled"`
	OptOut   bool       `json:"opt_out" yaml:"opt_out"`
}

// String renders the baseline as "x86_64{avx2}" with a "(scalar)" suffix when opted out.
func (b Baseline) String() string {
	s := b.Arch.String() + b.Compiled.String()
	if b.OptOut {
		s += " (" + OptOutTag + ")"
	}
	return s
}

// Target is a build configuration: the subset of the Go environment that
// decides which SIMD baseline ends up in a binary.
type Target struct {
	GOOS    string   `json:"goos" yaml:"goos"`
	GOARCH  string   `json:"goarch" yaml:"goarch"`
	GOAMD64 string   `json:"goamd64,omitempty" yaml:"goamd64,omitempty"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// HostTarget returns the target of the running toolchain defaults, with
// GOAMD64 left at its default level.
func HostTarget() Target {
	return Target{GOOS: runtime.GOOS, GOARCH: runtime.GOARCH}
}

// String renders the target as "linux/amd64/v3+scalar".
func (t Target) String() string {
	var sb strings.Builder
	sb.WriteString(t.GOOS)
	sb.WriteByte('/')
	sb.WriteString(t.GOARCH)
	if t.GOAMD64 != "" && ArchFromGOARCH(t.GOARCH) == ArchX86_64 {
		sb.WriteByte('/')
		sb.WriteString(t.GOAMD64)
	}
	if len(t.Tags) > 0 {
		sb.WriteByte('+')
		sb.WriteString(strings.Join(t.Tags, ","))
	}
	return sb.String()
}

// HasTag reports whether the target builds with tag.
func (t Target) HasTag(tag string) bool {
	for _, x := range t.Tags {
		if x == tag {
			return true
		}
	}
	return false
}

// Validate rejects targets the toolchain would refuse.
func (t Target) Validate() error {
	if strings.TrimSpace(t.GOARCH) == "" {
		return fmt.Errorf("target %q: GOARCH is empty", t.String())
	}
	if ArchFromGOARCH(t.GOARCH) == ArchX86_64 {
		if _, err := AMD64Level(t.GOAMD64); err != nil {
			return fmt.Errorf("target %q: %w", t.String(), err)
		}
	}
	return nil
}

// Baseline derives the baseline a build for t would carry. Invalid GOAMD64
// values are treated as the default level; call Validate first to reject them.
func (t Target) Baseline() Baseline {
	b := Baseline{
		Arch:   ArchFromGOARCH(t.GOARCH),
		OptOut: t.HasTag(OptOutTag),
	}
	switch b.Arch {
	case ArchX86_64:
		if level, err := AMD64Level(t.GOAMD64); err == nil && level >= 3 {
			b.Compiled = NewFeatureSet(AVX2)
		}
	case ArchAArch64:
		b.Compiled = NewFeatureSet(NEON)
	}
	return b
}

// AMD64Level parses a GOAMD64 value. The empty string is the toolchain
// default, v1.
func AMD64Level(goamd64 string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(goamd64)) {
	case "", "v1":
		return 1, nil
	case "v2":
		return 2, nil
	case "v3":
		return 3, nil
	case "v4":
		return 4, nil
	default:
		return 0, fmt.Errorf("invalid GOAMD64 %q: want v1, v2, v3 or v4", goamd64)
	}
}

// ParseTags splits a -tags value. Both the comma separated form and the
// legacy space separated form are accepted.
func ParseTags(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// ParseGOFLAGSTags extracts the build tags from a GOFLAGS value.
func ParseGOFLAGSTags(goflags string) []string {
	var tags []string
	for _, f := range strings.Fields(goflags) {
		f = strings.TrimPrefix(f, "-")
		f = strings.TrimPrefix(f, "-")
		if v, ok := strings.CutPrefix(f, "tags="); ok {
			tags = append(tags, ParseTags(v)...)
		}
	}
	return tags
}

// ParseTarget parses the form produced by Target.String:
// "goos/goarch[/goamd64][+tag,tag]".
func ParseTarget(s string) (Target, error) {
	head, tags, _ := strings.Cut(strings.TrimSpace(s), "+")
	parts := strings.Split(head, "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return Target{}, fmt.Errorf("invalid target %q: want goos/goarch[/goamd64][+tags]", s)
	}
	t := Target{GOOS: parts[0], GOARCH: parts[1], Tags: ParseTags(tags)}
	if len(parts) == 3 {
		t.GOAMD64 = parts[2]
	}
	if err := t.Validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}
