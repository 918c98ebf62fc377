// Command fits2stl converts a 2-D astronomical image from a FITS file
// into a 3-D printable STL surface relief map: a flat base plate with a
// relief surface on top whose height encodes the pixel values, optionally
// framed by a flat border flange.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] input.fits output.stl\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	var (
		hdu      = flag.Int("hdu", 0, "index of the HDU containing the 2D image data")
		cfg      Config
		nanValue = flag.Float64("nan-value", math.NaN(), "value to replace NaN/Inf pixels with (default: data minimum after clipping)")
		preview  = flag.String("preview", "", "also render the height field as a heat map PNG at this path")
	)
	flag.Float64Var(&cfg.LongestSideMM, "longest-side", 0, "desired length of the image content's longest side in mm (0: 1 pixel = 1 mm)")
	flag.Float64Var(&cfg.MaxHeightMM, "max-height", 20, "maximum height of features above the base in mm")
	flag.Float64Var(&cfg.BaseThicknessMM, "base-thickness", 5, "thickness of the base plate in mm")
	flag.BoolVar(&cfg.Invert, "invert", false, "invert the height map (brightest pixels become lowest points)")
	flag.BoolVar(&cfg.LogScale, "log", false, "apply log(1+x) scaling before normalization")
	flag.Float64Var(&cfg.ClipPercentile, "clip", 1, "clip pixel values at this low/high percentile (0 disables)")
	flag.Float64Var(&cfg.SmoothingSigma, "smooth", 0, "Gaussian smoothing sigma in pixels (0 disables)")
	flag.IntVar(&cfg.DownsampleFactor, "downsample", 1, "downsample the image by this integer factor before processing")
	flag.Float64Var(&cfg.BorderWidthMM, "border-width", 0, "add a border of this width in mm around the model (0 disables)")
	flag.Float64Var(&cfg.BorderHeightMM, "border-height", 0, "height of the border above the base plate in mm (0: flat flange)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	if !math.IsNaN(*nanValue) {
		cfg.NaNValue = nanValue
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", os.Args[0], err)
		os.Exit(2)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(flag.Arg(0), flag.Arg(1), *hdu, &cfg, *preview, logger); err != nil {
		// Flush before exiting; os.Exit skips the deferred Sync.
		logger.Error("conversion failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(input, output string, hdu int, cfg *Config, preview string, log *zap.Logger) error {
	grid, err := ReadFITS(input, hdu)
	if err != nil {
		return err
	}
	log.Info("loaded FITS image",
		zap.String("file", input), zap.Int("hdu", hdu),
		zap.Int("width", grid.W), zap.Int("height", grid.H))

	heights, err := Process(grid, cfg, log)
	if err != nil {
		return err
	}
	scale, final := Compose(heights, cfg, log)
	log.Info("final model base dimensions",
		zap.Float64("x_mm", float64(final.W)*scale),
		zap.Float64("y_mm", float64(final.H)*scale))

	mesh, err := BuildMesh(final, scale)
	if err != nil {
		return err
	}
	log.Info("generated mesh",
		zap.Int("vertices", len(mesh.Verts)),
		zap.Int("triangles", len(mesh.Tris)),
		zap.Float64("volume_mm3", mesh.Volume()))

	if preview != "" {
		if err := SavePreview(final, scale, preview); err != nil {
			return err
		}
		log.Info("saved preview", zap.String("file", preview))
	}

	f, err := os.Create(output)
	if err != nil {
		return errors.Wrap(err, "create STL file")
	}
	if err := WriteSTL(f, mesh); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close STL file")
	}
	log.Info("saved STL file", zap.String("file", output))
	return nil
}
