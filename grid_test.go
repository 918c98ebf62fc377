package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nan() float64 { return math.NaN() }
func inf() float64 { return math.Inf(1) }

func gridOf(w, h int, vals ...float64) *Grid {
	g := NewGrid(w, h)
	copy(g.Data, vals)
	return g
}

func TestResampleDims(t *testing.T) {
	g := NewGrid(8, 6)
	out := g.Resample(2)
	assert.Equal(t, 4, out.W)
	assert.Equal(t, 3, out.H)

	// Factor 1 is a no-op and returns the same grid.
	assert.Same(t, g, g.Resample(1))
}

func TestResampleConstant(t *testing.T) {
	g := NewGrid(10, 10)
	g.Fill(3.5)
	out := g.Resample(3)
	require.Equal(t, 3, out.W)
	require.Equal(t, 3, out.H)
	for _, v := range out.Data {
		assert.InDelta(t, 3.5, v, 1e-12)
	}
}

func TestResampleRamp(t *testing.T) {
	// A linear ramp survives bilinear resampling exactly at the corners.
	g := NewGrid(9, 5)
	for j := 0; j < g.H; j++ {
		for i := 0; i < g.W; i++ {
			g.Set(i, j, float64(i))
		}
	}
	out := g.Resample(2)
	require.Equal(t, 5, out.W)
	assert.InDelta(t, 0, out.At(0, 0), 1e-12)
	assert.InDelta(t, 8, out.At(out.W-1, 0), 1e-12)
}

func TestGaussianBlurPreservesConstant(t *testing.T) {
	g := NewGrid(7, 7)
	g.Fill(2)
	out := g.GaussianBlur(1.5)
	for _, v := range out.Data {
		assert.InDelta(t, 2, v, 1e-12)
	}
}

func TestGaussianBlurStaysInRange(t *testing.T) {
	g := gridOf(3, 3,
		0, 0, 0,
		0, 9, 0,
		0, 0, 0)
	out := g.GaussianBlur(1)
	for _, v := range out.Data {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 9.0)
	}
	// The peak must spread into its neighborhood.
	assert.Less(t, out.At(1, 1), 9.0)
	assert.Greater(t, out.At(0, 0), 0.0)
}

func TestFiniteValues(t *testing.T) {
	g := gridOf(2, 2, 1, nan(), inf(), 4)
	assert.Equal(t, []float64{1, 4}, g.FiniteValues())
}
