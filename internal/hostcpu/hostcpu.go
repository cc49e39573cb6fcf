// Package hostcpu queries the executing CPU.
//
// Feature checks go through golang.org/x/sys/cpu, which runs CPUID (or reads
// the auxiliary vector on arm64) once at program start. The descriptive host
// report uses github.com/klauspost/cpuid/v2.
package hostcpu

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"

	"github.com/patrikhermansson/ensuresimd/internal/baseline"
)

// Host is the capability query primitive for the running process.
type Host struct{}

// Has reports whether the executing CPU supports f. Features that do not
// belong to the running architecture are never supported.
func (Host) Has(f baseline.Feature) bool {
	switch f {
	case baseline.AVX2:
		return runtime.GOARCH == "amd64" && cpu.X86.HasAVX2
	case baseline.NEON:
		return runtime.GOARCH == "arm64" && cpu.ARM64.HasASIMD
	default:
		return false
	}
}

// Detect returns the runtime feature set of this process.
func Detect() baseline.FeatureSet {
	var h Host
	var fs []baseline.Feature
	for _, f := range []baseline.Feature{baseline.AVX2, baseline.NEON} {
		if h.Has(f) {
			fs = append(fs, f)
		}
	}
	return baseline.NewFeatureSet(fs...)
}

// Info describes the host CPU.
type Info struct {
	GOOS       string              `json:"goos" yaml:"goos"`
	GOARCH     string              `json:"goarch" yaml:"goarch"`
	Vendor     string              `json:"vendor" yaml:"vendor"`
	Brand      string              `json:"brand" yaml:"brand"`
	Cores      int                 `json:"logical_cores" yaml:"logical_cores"`
	X64Level   int                 `json:"x64_level,omitempty" yaml:"x64_level,omitempty"`
	Detected   baseline.FeatureSet `json:"detected" yaml:"detected"`
	CPUIDAVX2  bool                `json:"cpuid_avx2" yaml:"cpuid_avx2"`
	CPUIDASIMD bool                `json:"cpuid_asimd" yaml:"cpuid_asimd"`
}

// Describe collects Info for the running host.
func Describe() Info {
	info := Info{
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		Vendor:     cpuid.CPU.VendorString,
		Brand:      cpuid.CPU.BrandName,
		Cores:      cpuid.CPU.LogicalCores,
		Detected:   Detect(),
		CPUIDAVX2:  cpuid.CPU.Supports(cpuid.AVX2),
		CPUIDASIMD: cpuid.CPU.Supports(cpuid.ASIMD),
	}
	if runtime.GOARCH == "amd64" {
		info.X64Level = cpuid.CPU.X64Level()
	}
	if info.Cores == 0 {
		info.Cores = runtime.NumCPU()
	}
	return info
}

// RecommendedGOAMD64 returns the highest GOAMD64 level the host can execute,
// or "" when the host is not amd64 or the level is unknown.
func (i Info) RecommendedGOAMD64() string {
	switch {
	case i.GOARCH != "amd64":
		return ""
	case i.X64Level >= 4:
		return "v4"
	case i.X64Level == 3:
		return "v3"
	case i.X64Level == 2:
		return "v2"
	case i.X64Level == 1:
		return "v1"
	default:
		return ""
	}
}
