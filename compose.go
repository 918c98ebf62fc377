package main

import (
	"math"

	"go.uber.org/zap"
)

// Compose derives the physical scale factor and applies the optional
// border flange. The scale factor is computed from the pre-border content
// dimensions and is not perturbed by the border, so the border's physical
// width is honored exactly.
func Compose(g *Grid, cfg *Config, log *zap.Logger) (scale float64, out *Grid) {
	scale = 1.0
	if cfg.LongestSideMM > 0 {
		maxDim := g.W
		if g.H > maxDim {
			maxDim = g.H
		}
		scale = cfg.LongestSideMM / float64(maxDim)
		log.Info("scaling content",
			zap.Int("pixels", maxDim),
			zap.Float64("target_mm", cfg.LongestSideMM),
			zap.Float64("mm_per_pixel", scale))
	}

	if cfg.BorderWidthMM > 0 {
		cells := int(math.Round(cfg.BorderWidthMM / scale))
		if cells == 0 {
			// Never widen to one cell: the user asked for a physical
			// width the current scale cannot represent.
			log.Warn("border too narrow at current scale, skipping",
				zap.Float64("border_mm", cfg.BorderWidthMM),
				zap.Float64("mm_per_pixel", scale))
		} else {
			g = addBorder(g, cells, cfg.BaseThicknessMM+cfg.BorderHeightMM)
			log.Info("added border",
				zap.Float64("border_mm", cfg.BorderWidthMM),
				zap.Int("cells", cells),
				zap.Int("width", g.W), zap.Int("height", g.H))
		}
	}
	return scale, g
}

// addBorder surrounds g with a frame of the given width in cells, filled
// with a single flat elevation.
func addBorder(g *Grid, cells int, elevation float64) *Grid {
	out := NewGrid(g.W+2*cells, g.H+2*cells)
	out.Fill(elevation)
	for j := 0; j < g.H; j++ {
		copy(out.Data[(j+cells)*out.W+cells:(j+cells)*out.W+cells+g.W], g.Data[j*g.W:(j+1)*g.W])
	}
	return out
}
