package baseline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchFromGOARCH(t *testing.T) {
	assert.Equal(t, ArchX86_64, ArchFromGOARCH("amd64"))
	assert.Equal(t, ArchAArch64, ArchFromGOARCH("arm64"))
	assert.Equal(t, ArchAArch64, ArchFromGOARCH(" ARM64 "))
	assert.Equal(t, ArchOther, ArchFromGOARCH("386"))
	assert.Equal(t, ArchOther, ArchFromGOARCH(""))
	assert.Equal(t, "x86_64", ArchX86_64.String())
	assert.Equal(t, "aarch64", ArchAArch64.String())
	assert.Equal(t, "other", ArchOther.String())
}

func TestRequired(t *testing.T) {
	f, ok := Required(ArchX86_64)
	assert.True(t, ok)
	assert.Equal(t, AVX2, f)

	f, ok = Required(ArchAArch64)
	assert.True(t, ok)
	assert.Equal(t, NEON, f)

	_, ok = Required(ArchOther)
	assert.False(t, ok)
}

func TestFeatureSet(t *testing.T) {
	s := NewFeatureSet("NEON", AVX2, "", AVX2)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []Feature{AVX2, NEON}, s.Slice())
	assert.True(t, s.Has(NEON))
	assert.Equal(t, "{avx2,neon}", s.String())

	only := NewFeatureSet(AVX2)
	assert.True(t, only.SubsetOf(s))
	assert.False(t, s.SubsetOf(only))
	assert.Equal(t, []Feature{NEON}, s.Missing(only))
	assert.True(t, FeatureSet{}.SubsetOf(only))
	assert.Equal(t, "{}", FeatureSet{}.String())

	text, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "avx2,neon", string(text))
}

func TestTargetBaseline(t *testing.T) {
	b := Target{GOOS: "linux", GOARCH: "amd64", GOAMD64: "v3"}.Baseline()
	assert.Equal(t, ArchX86_64, b.Arch)
	assert.True(t, b.Compiled.Has(AVX2))
	assert.False(t, b.OptOut)
	assert.Equal(t, "x86_64{avx2}", b.String())

	b = Target{GOOS: "linux", GOARCH: "amd64"}.Baseline()
	assert.Zero(t, b.Compiled.Len())

	b = Target{GOOS: "linux", GOARCH: "arm64", Tags: []string{"netgo", "scalar"}}.Baseline()
	assert.True(t, b.Compiled.Has(NEON))
	assert.True(t, b.OptOut)
	assert.Equal(t, "aarch64{neon} (scalar)", b.String())

	b = Target{GOOS: "linux", GOARCH: "amd64", GOAMD64: "v9"}.Baseline()
	assert.Zero(t, b.Compiled.Len())
}

func TestTargetValidate(t *testing.T) {
	assert.NoError(t, Target{GOOS: "linux", GOARCH: "amd64"}.Validate())
	assert.NoError(t, Target{GOOS: "linux", GOARCH: "arm64", GOAMD64: "bogus"}.Validate())
	assert.Error(t, Target{GOOS: "linux", GOARCH: "amd64", GOAMD64: "v5"}.Validate())
	assert.Error(t, Target{GOOS: "linux"}.Validate())
}

func TestTargetString(t *testing.T) {
	assert.Equal(t, "linux/amd64/v3", Target{GOOS: "linux", GOARCH: "amd64", GOAMD64: "v3"}.String())
	assert.Equal(t, "linux/arm64+scalar", Target{GOOS: "linux", GOARCH: "arm64", GOAMD64: "v3", Tags: []string{"scalar"}}.String())
}

func TestAMD64Level(t *testing.T) {
	tests := map[string]int{"": 1, "v1": 1, "v2": 2, "V3": 3, "v4": 4}
	for in, want := range tests {
		got, err := AMD64Level(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := AMD64Level("v0")
	assert.Error(t, err)
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"scalar", "netgo"}, ParseTags("scalar,netgo"))
	assert.Equal(t, []string{"scalar", "netgo"}, ParseTags("scalar netgo"))
	assert.Nil(t, ParseTags(" , "))
}

func TestParseGOFLAGSTags(t *testing.T) {
	assert.Equal(t, []string{"scalar", "netgo"}, ParseGOFLAGSTags("-mod=mod -tags=scalar,netgo"))
	assert.Equal(t, []string{"scalar"}, ParseGOFLAGSTags("--tags=scalar -trimpath"))
	assert.Nil(t, ParseGOFLAGSTags("-trimpath"))
}

func TestParseTarget(t *testing.T) {
	got, err := ParseTarget("linux/amd64/v3+scalar,netgo")
	require.NoError(t, err)
	assert.Equal(t, Target{GOOS: "linux", GOARCH: "amd64", GOAMD64: "v3", Tags: []string{"scalar", "netgo"}}, got)
	assert.Equal(t, "linux/amd64/v3+scalar,netgo", got.String())

	got, err = ParseTarget("darwin/arm64")
	require.NoError(t, err)
	assert.Equal(t, Target{GOOS: "darwin", GOARCH: "arm64"}, got)

	for _, bad := range []string{"", "linux", "linux/", "/amd64", "linux/amd64/v9", "a/b/c/d"} {
		_, err := ParseTarget(bad)
		assert.Error(t, err, bad)
	}
}
