package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/patrikhermansson/ensuresimd/core"
	"github.com/patrikhermansson/ensuresimd/internal/audit"
	"github.com/patrikhermansson/ensuresimd/internal/baseline"
)

// run executes the CLI with args and returns stdout, stderr and the exit status.
func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	t.Setenv("GOFLAGS", "")
	t.Setenv("GOOS", "")
	t.Setenv("GOARCH", "")
	t.Setenv("GOAMD64", "")
	gateFlags.goos, gateFlags.goarch, gateFlags.goamd64, gateFlags.tags = "", "", "", ""

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--log-level", "off"}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	code := Execute(context.Background())
	return stdout.String(), stderr.String(), code
}

func TestGateRefusesAMD64WithoutAVX2(t *testing.T) {
	stdout, stderr, code := run(t, "gate", "--goos", "linux", "--goarch", "amd64", "--goamd64", "v1")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "avx2")
	assert.Contains(t, stderr, "GOAMD64=v3")
	assert.Contains(t, stderr, "-tags scalar")
}

func TestGatePasses(t *testing.T) {
	tests := [][]string{
		{"--goos", "linux", "--goarch", "amd64", "--goamd64", "v3"},
		{"--goos", "linux", "--goarch", "amd64", "--tags", "scalar"},
		{"--goos", "darwin", "--goarch", "arm64"},
		{"--goos", "linux", "--goarch", "riscv64"},
	}
	for _, args := range tests {
		stdout, _, code := run(t, append([]string{"gate"}, args...)...)
		assert.Equal(t, 0, code, args)
		assert.Contains(t, stdout, "gate passes", args)
	}
}

func TestGateReadsEnvironment(t *testing.T) {
	gateFlags.goos, gateFlags.goarch, gateFlags.goamd64, gateFlags.tags = "", "", "", ""
	t.Setenv("GOOS", "linux")
	t.Setenv("GOARCH", "amd64")
	t.Setenv("GOAMD64", "v2")
	t.Setenv("GOFLAGS", "-trimpath -tags=scalar")

	got, err := gateTarget()
	require.NoError(t, err)
	assert.Equal(t, baseline.Target{GOOS: "linux", GOARCH: "amd64", GOAMD64: "v2", Tags: []string{"scalar"}}, got)
	assert.NoError(t, baseline.CheckBuild(got.Baseline()))
}

func TestGateRejectsInvalidLevel(t *testing.T) {
	_, stderr, code := run(t, "gate", "--goarch", "amd64", "--goamd64", "v8")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "GOAMD64")
}

func TestVerify(t *testing.T) {
	stdout, _, code := run(t, "verify")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "verified")
}

func TestReportJSON(t *testing.T) {
	stdout, _, code := run(t, "report", "--format", "json")
	require.Equal(t, 0, code)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "verified", got["state"])
	compiled, ok := got["compiled"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, core.Compiled().Arch.String(), compiled["arch"])
}

func TestReportYAML(t *testing.T) {
	stdout, _, code := run(t, "report", "--format", "yaml")
	require.Equal(t, 0, code)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "verified", got["state"])
	assert.Contains(t, got, "host")
}

func TestReportText(t *testing.T) {
	stdout, _, code := run(t, "report", "--format", "text")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Compiled baseline:")
	assert.Contains(t, stdout, core.Compiled().String())
}

func TestVersion(t *testing.T) {
	stdout, _, code := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Version:")
	assert.Contains(t, stdout, "Baseline:")
}

func TestAuditRejectsBadTarget(t *testing.T) {
	_, stderr, code := run(t, "audit", "--no-progress", "--target", "linux")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid target")
	auditFlags.targets = nil
}

// failingWriter rejects every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write refused")
}

func TestPrintAuditLogsWriteFailure(t *testing.T) {
	origLogger, origLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = origLogger
		zerolog.SetGlobalLevel(origLevel)
	})
	var logs bytes.Buffer
	log.Logger = zerolog.New(&logs)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	report := &audit.Report{
		Package: "./core",
		Results: []audit.Result{{
			Target:  baseline.Target{GOOS: "linux", GOARCH: "arm64"},
			Outcome: audit.Outcome{Built: true},
			Status:  audit.StatusOK,
		}},
	}
	printAudit(failingWriter{}, report)

	assert.Contains(t, logs.String(), "Failed to write audit table")
	assert.Contains(t, logs.String(), "write refused")
}
