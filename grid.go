package main

import "math"

// A Grid is a rectangular field of samples stored in row-major order.
// Until the preprocessor has run, samples may be NaN or infinite.
type Grid struct {
	W, H int
	Data []float64
}

func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Data: make([]float64, w*h)}
}

func (g *Grid) At(x, y int) float64     { return g.Data[y*g.W+x] }
func (g *Grid) Set(x, y int, v float64) { g.Data[y*g.W+x] = v }

func (g *Grid) Clone() *Grid {
	out := NewGrid(g.W, g.H)
	copy(out.Data, g.Data)
	return out
}

// Fill sets every sample to v.
func (g *Grid) Fill(v float64) {
	for i := range g.Data {
		g.Data[i] = v
	}
}

// MinMax returns the smallest and largest sample. It assumes the grid is
// non-empty and, for a meaningful answer, all-finite.
func (g *Grid) MinMax() (min, max float64) {
	min, max = g.Data[0], g.Data[0]
	for _, v := range g.Data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// FiniteValues returns the finite samples of g, in row-major order.
func (g *Grid) FiniteValues() []float64 {
	out := make([]float64, 0, len(g.Data))
	for _, v := range g.Data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Resample returns g scaled down to 1/factor of its linear size using
// bilinear interpolation. Non-finite samples propagate into their
// interpolation neighborhood, which keeps them visible to the quarantine
// step that follows.
func (g *Grid) Resample(factor int) *Grid {
	if factor <= 1 {
		return g
	}
	w := int(math.Round(float64(g.W) / float64(factor)))
	h := int(math.Round(float64(g.H) / float64(factor)))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := NewGrid(w, h)
	for j := 0; j < h; j++ {
		// Map output coordinates onto the source so the corner samples
		// stay aligned.
		sy := 0.0
		if h > 1 {
			sy = float64(j) * float64(g.H-1) / float64(h-1)
		}
		for i := 0; i < w; i++ {
			sx := 0.0
			if w > 1 {
				sx = float64(i) * float64(g.W-1) / float64(w-1)
			}
			out.Set(i, j, g.bilinear(sx, sy))
		}
	}
	return out
}

func (g *Grid) bilinear(x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)
	clampX := func(i int) int {
		if i < 0 {
			return 0
		}
		if i >= g.W {
			return g.W - 1
		}
		return i
	}
	clampY := func(j int) int {
		if j < 0 {
			return 0
		}
		if j >= g.H {
			return g.H - 1
		}
		return j
	}
	v00 := g.At(clampX(x0), clampY(y0))
	v10 := g.At(clampX(x0+1), clampY(y0))
	v01 := g.At(clampX(x0), clampY(y0+1))
	v11 := g.At(clampX(x0+1), clampY(y0+1))
	return v00*(1-fx)*(1-fy) + v10*fx*(1-fy) + v01*(1-fx)*fy + v11*fx*fy
}

// GaussianBlur returns g convolved with a separable Gaussian of standard
// deviation sigma (in grid cells). The kernel is truncated at 4 sigma and
// renormalized near the edges so border samples are not biased toward zero.
func (g *Grid) GaussianBlur(sigma float64) *Grid {
	if sigma <= 0 {
		return g
	}
	radius := int(math.Ceil(4 * sigma))
	kernel := make([]float64, 2*radius+1)
	for k := -radius; k <= radius; k++ {
		kernel[k+radius] = math.Exp(-float64(k*k) / (2 * sigma * sigma))
	}

	// Horizontal pass, then vertical.
	tmp := NewGrid(g.W, g.H)
	for j := 0; j < g.H; j++ {
		for i := 0; i < g.W; i++ {
			var sum, weight float64
			for k := -radius; k <= radius; k++ {
				x := i + k
				if x < 0 || x >= g.W {
					continue
				}
				w := kernel[k+radius]
				sum += w * g.At(x, j)
				weight += w
			}
			tmp.Set(i, j, sum/weight)
		}
	}
	out := NewGrid(g.W, g.H)
	for j := 0; j < g.H; j++ {
		for i := 0; i < g.W; i++ {
			var sum, weight float64
			for k := -radius; k <= radius; k++ {
				y := j + k
				if y < 0 || y >= g.H {
					continue
				}
				w := kernel[k+radius]
				sum += w * tmp.At(i, y)
				weight += w
			}
			out.Set(i, j, sum/weight)
		}
	}
	return out
}
