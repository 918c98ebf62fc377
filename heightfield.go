package main

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Config holds the options that shape the relief. The zero value is not
// usable; main fills it from flags and Validate rejects bad combinations.
type Config struct {
	// LongestSideMM is the desired physical length of the image content's
	// longest side. 0 means one grid cell = one millimeter.
	LongestSideMM float64

	// MaxHeightMM is the relief height above the base plate.
	MaxHeightMM float64

	// BaseThicknessMM is the thickness of the base plate.
	BaseThicknessMM float64

	// Invert maps high sample values to low relief (pits).
	Invert bool

	// LogScale applies log(1+x) before normalization.
	LogScale bool

	// ClipPercentile clamps samples to the [p, 100-p] percentile range.
	// 0 disables clipping.
	ClipPercentile float64

	// SmoothingSigma is the Gaussian smoothing radius in grid cells,
	// applied to the physical heights. 0 disables smoothing.
	SmoothingSigma float64

	// DownsampleFactor shrinks the input by this integer factor before
	// any other processing. 1 means no downsampling.
	DownsampleFactor int

	// NaNValue, if set, replaces non-finite samples. If nil they fall
	// back to the low clip bound, then the finite minimum, then zero.
	NaNValue *float64

	// BorderWidthMM and BorderHeightMM describe the optional flat flange
	// around the relief. Width 0 disables it; height is measured from the
	// base plate.
	BorderWidthMM  float64
	BorderHeightMM float64
}

func (c *Config) Validate() error {
	switch {
	case c.LongestSideMM < 0:
		return errors.New("longest side cannot be negative")
	case c.MaxHeightMM <= 0:
		return errors.New("max height must be positive")
	case c.BaseThicknessMM < 0:
		return errors.New("base thickness cannot be negative")
	case c.ClipPercentile < 0 || c.ClipPercentile >= 50:
		return errors.New("clip percentile must be in [0, 50)")
	case c.SmoothingSigma < 0:
		return errors.New("smoothing sigma cannot be negative")
	case c.DownsampleFactor < 1:
		return errors.New("downsample factor must be at least 1")
	case c.BorderWidthMM < 0:
		return errors.New("border width cannot be negative")
	case c.BorderHeightMM < 0:
		return errors.New("border height cannot be negative")
	}
	return nil
}

// Process turns a raw sample grid into a height grid in millimeters, with
// every value in [BaseThicknessMM, BaseThicknessMM+MaxHeightMM]. The input
// is not modified. The step order matters: clipping and non-finite
// resolution run before the log/invert transforms so those see final
// sample values, and smoothing runs last so it shapes the physical relief
// rather than the raw data.
func Process(g *Grid, cfg *Config, log *zap.Logger) (*Grid, error) {
	if cfg.DownsampleFactor > 1 {
		g = g.Resample(cfg.DownsampleFactor)
		log.Info("downsampled image",
			zap.Int("factor", cfg.DownsampleFactor),
			zap.Int("width", g.W), zap.Int("height", g.H))
	}
	if g.W < 2 || g.H < 2 {
		return nil, errors.Wrapf(ErrDimension, "%dx%d grid", g.W, g.H)
	}

	finite := finiteMask(g)
	g = quarantine(g, finite, log)

	g, lowClip, clipped := clipStep(g, finite, cfg.ClipPercentile, log)
	g = resolveNonFinite(g, finite, cfg.NaNValue, lowClip, clipped, log)

	if cfg.LogScale {
		g = logStep(g, log)
	}
	if cfg.Invert {
		g = invertStep(g)
	}
	g = normalize(g, cfg.BaseThicknessMM, cfg.MaxHeightMM, log)
	if cfg.SmoothingSigma > 0 {
		g = g.GaussianBlur(cfg.SmoothingSigma)
		log.Info("smoothed height field", zap.Float64("sigma", cfg.SmoothingSigma))
	}
	return g, nil
}

// finiteMask records which samples are finite so later steps can tell the
// original non-finite cells apart from cells that merely became zero.
func finiteMask(g *Grid) []bool {
	mask := make([]bool, len(g.Data))
	for i, v := range g.Data {
		mask[i] = !math.IsNaN(v) && !math.IsInf(v, 0)
	}
	return mask
}

// quarantine zeroes non-finite samples so statistics stay computable. The
// mask remembers them for resolveNonFinite.
func quarantine(g *Grid, finite []bool, log *zap.Logger) *Grid {
	n := 0
	for _, ok := range finite {
		if !ok {
			n++
		}
	}
	if n == 0 {
		return g
	}
	log.Warn("found non-finite samples", zap.Int("count", n))
	out := g.Clone()
	for i, ok := range finite {
		if !ok {
			out.Data[i] = 0
		}
	}
	return out
}

// clipStep clamps every sample into the [p, 100-p] percentile range of the
// finite samples. It reports the low bound so non-finite resolution can
// reuse it. If there are no finite samples the step is skipped.
func clipStep(g *Grid, finite []bool, p float64, log *zap.Logger) (out *Grid, lowClip float64, clipped bool) {
	if p <= 0 {
		return g, 0, false
	}
	vals := finiteSubset(g, finite)
	if len(vals) == 0 {
		log.Warn("cannot compute percentiles, no finite samples")
		return g, 0, false
	}
	sort.Float64s(vals)
	lo := stat.Quantile(p/100, stat.LinInterp, vals, nil)
	hi := stat.Quantile(1-p/100, stat.LinInterp, vals, nil)
	log.Info("clipping samples",
		zap.Float64("percentile", p),
		zap.Float64("low", lo), zap.Float64("high", hi))
	out = g.Clone()
	for i, v := range out.Data {
		out.Data[i] = math.Min(math.Max(v, lo), hi)
	}
	return out, lo, true
}

func finiteSubset(g *Grid, finite []bool) []float64 {
	vals := make([]float64, 0, len(g.Data))
	for i, v := range g.Data {
		if finite[i] {
			vals = append(vals, v)
		}
	}
	return vals
}

// resolveNonFinite replaces quarantined cells with, in priority order: the
// explicit replacement value, the low clip bound, the minimum finite
// sample, or zero if nothing was finite.
func resolveNonFinite(g *Grid, finite []bool, explicit *float64, lowClip float64, clipped bool, log *zap.Logger) *Grid {
	any := false
	for _, ok := range finite {
		if !ok {
			any = true
			break
		}
	}
	if !any {
		return g
	}
	var repl float64
	switch {
	case explicit != nil:
		repl = *explicit
		log.Info("replacing non-finite samples with explicit value", zap.Float64("value", repl))
	case clipped:
		repl = lowClip
		log.Info("replacing non-finite samples with clipped minimum", zap.Float64("value", repl))
	default:
		vals := finiteSubset(g, finite)
		if len(vals) == 0 {
			log.Warn("no finite samples, replacing with zero")
		} else {
			repl = vals[0]
			for _, v := range vals[1:] {
				if v < repl {
					repl = v
				}
			}
			log.Info("replacing non-finite samples with finite minimum", zap.Float64("value", repl))
		}
	}
	out := g.Clone()
	for i, ok := range finite {
		if !ok {
			out.Data[i] = repl
		}
	}
	return out
}

// logStep applies log(1+x), shifting the grid first if its minimum is
// negative so the logarithm stays defined.
func logStep(g *Grid, log *zap.Logger) *Grid {
	out := g.Clone()
	min, _ := out.MinMax()
	if min < 0 {
		log.Info("shifting samples non-negative before log scaling", zap.Float64("shift", -min))
		for i := range out.Data {
			out.Data[i] -= min
		}
	}
	for i, v := range out.Data {
		out.Data[i] = math.Log1p(v)
	}
	return out
}

func invertStep(g *Grid) *Grid {
	out := g.Clone()
	for i, v := range out.Data {
		out.Data[i] = -v
	}
	return out
}

// normalize maps the sample range onto [base, base+maxHeight] millimeters.
// A zero range yields a flat plate at base thickness.
func normalize(g *Grid, base, maxHeight float64, log *zap.Logger) *Grid {
	out := g.Clone()
	min, max := out.MinMax()
	if max == min {
		log.Warn("sample range is zero, surface will be flat")
		out.Fill(base)
		return out
	}
	scale := maxHeight / (max - min)
	for i, v := range out.Data {
		out.Data[i] = base + (v-min)*scale
	}
	log.Info("scaled heights",
		zap.Float64("min_mm", base), zap.Float64("max_mm", base+maxHeight))
	return out
}
