package main

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SavePreview renders the final height field as a rasterized heat map so
// the relief can be inspected before printing. Axes are in millimeters.
func SavePreview(g *Grid, scale float64, path string) error {
	plt := plot.New()
	plt.Title.Text = "Relief preview"
	plt.X.Label.Text = "mm"
	plt.Y.Label.Text = "mm"

	hm := plotter.NewHeatMap(&heightGrid{g, scale}, palette.Heat(256, 1))
	hm.Rasterized = true
	plt.Add(hm)

	width := 20 * vg.Centimeter
	height := vg.Length(float64(width) * float64(g.H) / float64(g.W))
	return errors.Wrap(plt.Save(width, height, path), "save preview")
}

// heightGrid adapts a Grid to gonum/plot's GridXYZ, with grid coordinates
// scaled to physical millimeters.
type heightGrid struct {
	g     *Grid
	scale float64
}

func (h *heightGrid) Dims() (c, r int)   { return h.g.W, h.g.H }
func (h *heightGrid) Z(c, r int) float64 { return h.g.At(c, r) }
func (h *heightGrid) X(c int) float64    { return float64(c) * h.scale }
func (h *heightGrid) Y(r int) float64    { return float64(r) * h.scale }
