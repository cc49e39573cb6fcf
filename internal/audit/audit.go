// Package audit checks that a package is actually protected by the SIMD
// baseline gate.
//
// It builds the package for a matrix of targets with the real toolchain and
// compares every outcome with what the gate should decide for that target. A
// package that builds for plain amd64 never imported the gate; one that
// fails for a target the gate accepts is broken for some other reason.
package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/patrikhermansson/ensuresimd/internal/baseline"
)

// Status is the verdict for one target.
type Status uint8

const (
	// StatusOK means the build behaved as the gate requires.
	StatusOK Status = iota
	// StatusUngated means the gate should have refused the build but it succeeded.
	StatusUngated
	// StatusFailed means the build failed for a target the gate accepts, or
	// failed for a reason other than the gate.
	StatusFailed
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUngated:
		return "ungated"
	default:
		return "failed"
	}
}

// MarshalText renders the status name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the audit of one target.
type Result struct {
	Target baseline.Target
	// Expected is the gate decision for Target; nil means the build should succeed.
	Expected    error
	Outcome     Outcome
	GateTripped bool
	Status      Status
}

// Reason explains a non-OK status in one line.
func (r Result) Reason() string {
	switch {
	case r.Status == StatusOK:
		return ""
	case r.Status == StatusUngated:
		return fmt.Sprintf("built without the gate although %s", r.Expected)
	case r.Expected != nil:
		return "build failed without tripping the gate"
	case r.GateTripped:
		return "gate tripped for a target it should accept"
	default:
		return "build failed"
	}
}

// Report holds the results in matrix order.
type Report struct {
	Package string
	Results []Result
}

// OK reports whether every target behaved as expected.
func (r *Report) OK() bool {
	return len(r.Failures()) == 0
}

// Failures returns the non-OK results.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status != StatusOK {
			out = append(out, res)
		}
	}
	return out
}

// Options configures Run.
type Options struct {
	Package     string
	Targets     []baseline.Target
	Parallelism int
	Builder     Builder
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
}

// Run builds opts.Package for every target, at most opts.Parallelism at a
// time, and classifies each outcome. It stops at the first target the
// toolchain could not be run for.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Builder == nil {
		return nil, errors.New("audit: no builder")
	}
	if len(opts.Targets) == 0 {
		return nil, errors.New("audit: no targets")
	}
	for _, t := range opts.Targets {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("audit: %w", err)
		}
	}
	pkg := opts.Package
	if pkg == "" {
		pkg = "."
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(opts.Targets),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("auditing "+pkg),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	results := make([]Result, len(opts.Targets))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallelism > 0 {
		g.SetLimit(opts.Parallelism)
	}

	for i, t := range opts.Targets {
		g.Go(func() error {
			out, err := opts.Builder.Build(gctx, pkg, t)
			if err != nil {
				return err
			}
			results[i] = classify(t, out)
			log.Debug().
				Stringer("target", t).
				Bool("built", out.Built).
				Stringer("status", results[i].Status).
				Msg("Audited target")
			if bar != nil {
				if err := bar.Add(1); err != nil {
					log.Warn().Err(err).Msg("Failed to update progress bar")
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if bar != nil {
		if err := bar.Finish(); err != nil {
			log.Warn().Err(err).Msg("Failed to finish progress bar")
		}
	}

	return &Report{Package: pkg, Results: results}, nil
}

func classify(t baseline.Target, out Outcome) Result {
	res := Result{
		Target:      t,
		Expected:    baseline.CheckBuild(t.Baseline()),
		Outcome:     out,
		GateTripped: !out.Built && strings.Contains(out.Output, baseline.GateSymbol),
	}
	switch {
	case res.Expected != nil && out.Built:
		res.Status = StatusUngated
	case res.Expected != nil && res.GateTripped:
		res.Status = StatusOK
	case res.Expected == nil && out.Built:
		res.Status = StatusOK
	default:
		res.Status = StatusFailed
	}
	return res
}
