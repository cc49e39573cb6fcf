package audit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrikhermansson/ensuresimd/internal/baseline"
)

// Outcome is what the toolchain did with one target.
type Outcome struct {
	Built  bool
	Output string
}

// Builder compiles a package for a target. A returned error means the
// toolchain could not be run at all; a refused build is an Outcome with
// Built set to false.
type Builder interface {
	Build(ctx context.Context, pkg string, t baseline.Target) (Outcome, error)
}

// GoBuilder builds with the go command.
type GoBuilder struct {
	// GoBin is the go executable; "go" from PATH when empty.
	GoBin string
	// Dir is the working directory of the build, usually the module root.
	Dir string
	// Timeout bounds a single build. Zero means no limit.
	Timeout time.Duration
}

// Build runs "go build" for pkg with the environment of t. The output is
// written to a temporary file and discarded. pkg must name a single package,
// main or not.
func (b GoBuilder) Build(ctx context.Context, pkg string, t baseline.Target) (Outcome, error) {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	outDir, err := os.MkdirTemp("", "ensuresimd-audit-*")
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to create output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	gobin := b.GoBin
	if gobin == "" {
		gobin = "go"
	}

	cmd := exec.CommandContext(ctx, gobin, buildArgs(outDir, pkg, t)...)
	cmd.Dir = b.Dir
	cmd.Env = append(os.Environ(), buildEnv(t)...)

	out, err := cmd.CombinedOutput()
	if err == nil {
		return Outcome{Built: true, Output: string(out)}, nil
	}
	if ctx.Err() != nil {
		return Outcome{}, fmt.Errorf("build %s: %w", t, ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Outcome{Built: false, Output: string(out)}, nil
	}
	return Outcome{}, fmt.Errorf("build %s: %w", t, err)
}

// buildArgs names an output file rather than a directory: "-o dir/" makes the
// go command skip non-main packages before they are compiled.
func buildArgs(outDir, pkg string, t baseline.Target) []string {
	args := []string{"build", "-o", filepath.Join(outDir, "out")}
	if len(t.Tags) > 0 {
		args = append(args, "-tags", strings.Join(t.Tags, ","))
	}
	return append(args, pkg)
}

// buildEnv pins every variable the gate depends on, so the caller's own
// GOAMD64 cannot leak into a target that wants the default level.
func buildEnv(t baseline.Target) []string {
	env := []string{
		"GOOS=" + t.GOOS,
		"GOARCH=" + t.GOARCH,
		"CGO_ENABLED=0",
	}
	if baseline.ArchFromGOARCH(t.GOARCH) == baseline.ArchX86_64 {
		level := t.GOAMD64
		if level == "" {
			level = "v1"
		}
		env = append(env, "GOAMD64="+level)
	}
	return env
}
