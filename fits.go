package main

import (
	"os"

	"github.com/astrogo/fitsio"
	"github.com/pkg/errors"
)

// ReadFITS loads the 2-D image stored in the given HDU of a FITS file.
// Samples are returned as float64 regardless of the on-disk BITPIX;
// non-finite values pass through untouched for the preprocessor to
// handle.
func ReadFITS(path string, hdu int) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open FITS file")
	}
	defer f.Close()

	fits, err := fitsio.Open(f)
	if err != nil {
		return nil, errors.Wrap(err, "read FITS file")
	}
	defer fits.Close()

	if hdu < 0 || hdu >= len(fits.HDUs()) {
		return nil, errors.Errorf("HDU index %d out of range (file has %d HDUs)", hdu, len(fits.HDUs()))
	}
	img, ok := fits.HDU(hdu).(fitsio.Image)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedData, "HDU %d", hdu)
	}
	axes := img.Header().Axes()
	if len(axes) != 2 || axes[0] <= 0 || axes[1] <= 0 {
		return nil, errors.Wrapf(ErrUnsupportedData, "HDU %d has %d axes", hdu, len(axes))
	}

	// FITS stores axis 1 fastest, which matches our row-major layout.
	w, h := axes[0], axes[1]
	data, err := readSamples(img, w*h)
	if err != nil {
		return nil, errors.Wrap(err, "read image data")
	}
	return &Grid{W: w, H: h, Data: data}, nil
}

// readSamples reads n pixels from img as float64. fitsio only reads into
// a slice whose element type matches the on-disk BITPIX, so dispatch on
// it and widen.
func readSamples(img fitsio.Image, n int) ([]float64, error) {
	data := make([]float64, n)
	switch bitpix := img.Header().Bitpix(); bitpix {
	case 8:
		raw := make([]uint8, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			data[i] = float64(v)
		}
	case 16:
		raw := make([]int16, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			data[i] = float64(v)
		}
	case 32:
		raw := make([]int32, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			data[i] = float64(v)
		}
	case 64:
		raw := make([]int64, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			data[i] = float64(v)
		}
	case -32:
		raw := make([]float32, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			data[i] = float64(v)
		}
	case -64:
		if err := img.Read(&data); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedData, "BITPIX %d", bitpix)
	}
	return data, nil
}
