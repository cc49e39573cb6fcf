package hostcpu

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/cpu"

	"github.com/patrikhermansson/ensuresimd/internal/baseline"
)

func TestHostMatchesSysCPU(t *testing.T) {
	var h Host
	switch runtime.GOARCH {
	case "amd64":
		assert.Equal(t, cpu.X86.HasAVX2, h.Has(baseline.AVX2))
		assert.False(t, h.Has(baseline.NEON))
	case "arm64":
		assert.Equal(t, cpu.ARM64.HasASIMD, h.Has(baseline.NEON))
		assert.False(t, h.Has(baseline.AVX2))
	default:
		assert.False(t, h.Has(baseline.AVX2))
		assert.False(t, h.Has(baseline.NEON))
	}
	assert.False(t, h.Has("sve2"))
}

func TestDetectIsStable(t *testing.T) {
	first, second := Detect(), Detect()
	assert.Equal(t, first.Slice(), second.Slice())
	assert.LessOrEqual(t, first.Len(), 1)
}

func TestDescribe(t *testing.T) {
	info := Describe()
	assert.Equal(t, runtime.GOOS, info.GOOS)
	assert.Equal(t, runtime.GOARCH, info.GOARCH)
	assert.Positive(t, info.Cores)
	assert.Equal(t, Detect().Slice(), info.Detected.Slice())
}

func TestRecommendedGOAMD64(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{GOARCH: "amd64", X64Level: 4}, "v4"},
		{Info{GOARCH: "amd64", X64Level: 3}, "v3"},
		{Info{GOARCH: "amd64", X64Level: 2}, "v2"},
		{Info{GOARCH: "amd64", X64Level: 1}, "v1"},
		{Info{GOARCH: "amd64"}, ""},
		{Info{GOARCH: "arm64", X64Level: 3}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.info.RecommendedGOAMD64())
	}
}

func BenchmarkHostHas(b *testing.B) {
	var h Host
	for i := 0; i < b.N; i++ {
		_ = h.Has(baseline.AVX2)
	}
}
