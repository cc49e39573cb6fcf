//go:build scalar

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/patrikhermansson/ensuresimd/internal/baseline"
)

func TestScalarBuildNeverQueriesCPU(t *testing.T) {
	p := &countingProber{has: func(baseline.Feature) bool { return false }}
	out, code := stubHost(t, p)

	EnsureSIMD()
	EnsureSIMD()

	assert.NoError(t, Verify())
	assert.Zero(t, p.calls)
	assert.Equal(t, -1, *code)
	assert.Empty(t, out.String())
	assert.True(t, Compiled().OptOut)
}
