// Package output converts linear renders to 8-bit images and writes them to disk.
package output

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/renderer"
)

// DefaultGamma is the display gamma applied before quantization
const DefaultGamma = 2.0

// Format is an output file format
type Format string

const (
	FormatPNG  Format = "png"
	FormatPPM  Format = "ppm"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// Formats lists the supported output formats
var Formats = []Format{FormatPNG, FormatPPM, FormatBMP, FormatTIFF}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".ppm":
		return FormatPPM, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return "", errors.Errorf("unsupported output extension %q", filepath.Ext(path))
	}
}

// quantize maps a display-space channel to 8 bits. Out of range values are
// clamped and NaN becomes black.
func quantize(c float64) uint8 {
	if math.IsNaN(c) {
		return 0
	}
	return uint8(255.999 * max(0, min(1, c)))
}

// ToColor gamma corrects, clamps and quantizes one linear color
func ToColor(c core.Vec3, gamma float64) color.RGBA {
	c = c.GammaCorrect(gamma)
	return color.RGBA{
		R: quantize(c.X),
		G: quantize(c.Y),
		B: quantize(c.Z),
		A: 255,
	}
}

// ToRGBA converts a linear image to an 8-bit RGBA image with the given gamma
func ToRGBA(img *renderer.Image, gamma float64) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			rgba.SetRGBA(x, y, ToColor(img.At(x, y), gamma))
		}
	}
	return rgba
}

// WritePPM writes the image as plain-text PPM (P3), top scanline first
func WritePPM(w io.Writer, img *renderer.Image) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return errors.Wrap(err, "write ppm header")
	}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := ToColor(img.At(x, y), DefaultGamma)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return errors.Wrap(err, "write ppm pixel")
			}
		}
	}
	return errors.Wrap(bw.Flush(), "flush ppm")
}

// Encode writes the image to w in the given format
func Encode(w io.Writer, img *renderer.Image, format Format) error {
	var err error
	switch format {
	case FormatPPM:
		return WritePPM(w, img)
	case FormatPNG:
		err = png.Encode(w, ToRGBA(img, DefaultGamma))
	case FormatBMP:
		err = bmp.Encode(w, ToRGBA(img, DefaultGamma))
	case FormatTIFF:
		err = tiff.Encode(w, ToRGBA(img, DefaultGamma), &tiff.Options{Compression: tiff.Deflate})
	default:
		return errors.Errorf("unsupported output format %q", format)
	}
	return errors.Wrapf(err, "encode %s", format)
}

// Save writes the image to path, creating parent directories as needed.
// The format follows the file extension.
func Save(path string, img *renderer.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "create output directory")
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	if err := Encode(file, img, format); err != nil {
		file.Close()
		return err
	}
	return errors.Wrap(file.Close(), "close output file")
}
