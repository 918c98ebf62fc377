package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestComposeDefaultScale(t *testing.T) {
	g := NewGrid(5, 3)
	scale, out := Compose(g, baseConfig(), zap.NewNop())
	assert.Equal(t, 1.0, scale)
	assert.Same(t, g, out)
}

func TestComposeScaleFromLongestSide(t *testing.T) {
	g := NewGrid(50, 20)
	cfg := baseConfig()
	cfg.LongestSideMM = 100
	scale, out := Compose(g, cfg, zap.NewNop())
	assert.Equal(t, 2.0, scale)
	assert.Same(t, g, out)
}

func TestComposeBorder(t *testing.T) {
	g := NewGrid(50, 20)
	g.Fill(9)
	cfg := baseConfig()
	cfg.LongestSideMM = 100
	cfg.BorderWidthMM = 4
	cfg.BorderHeightMM = 1.5
	scale, out := Compose(g, cfg, zap.NewNop())

	// 4mm at 2mm/pixel rounds to 2 cells on every side.
	assert.Equal(t, 2.0, scale)
	require.Equal(t, 54, out.W)
	require.Equal(t, 24, out.H)

	// The frame sits at a single flat elevation.
	border := cfg.BaseThicknessMM + cfg.BorderHeightMM
	assert.Equal(t, border, out.At(0, 0))
	assert.Equal(t, border, out.At(53, 23))
	assert.Equal(t, border, out.At(1, 12))
	assert.Equal(t, border, out.At(27, 1))

	// The content is copied into the centered sub-region untouched.
	assert.Equal(t, 9.0, out.At(2, 2))
	assert.Equal(t, 9.0, out.At(51, 21))
	assert.Equal(t, 9.0, out.At(27, 12))
}

func TestComposeBorderTooNarrow(t *testing.T) {
	g := NewGrid(50, 20)
	cfg := baseConfig()
	cfg.LongestSideMM = 100
	cfg.BorderWidthMM = 0.5 // rounds to 0 cells at 2mm/pixel
	scale, out := Compose(g, cfg, zap.NewNop())
	assert.Equal(t, 2.0, scale)
	// Skipped, never coerced to one cell.
	assert.Same(t, g, out)
}

func TestComposeScaleIgnoresBorder(t *testing.T) {
	// The scale factor comes from the pre-border content size.
	g := NewGrid(10, 10)
	cfg := baseConfig()
	cfg.LongestSideMM = 10
	cfg.BorderWidthMM = 3
	scale, out := Compose(g, cfg, zap.NewNop())
	assert.Equal(t, 1.0, scale)
	assert.Equal(t, 16, out.W)
	assert.Equal(t, 16, out.H)
}
