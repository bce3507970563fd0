package renderer

import (
	"github.com/pkg/errors"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

// Image is a linear-space color buffer. Pixels are stored row-major and
// row 0 is the top scanline.
type Image struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewImage creates a black image
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the color at column x of row y
func (img *Image) At(x, y int) core.Vec3 {
	return img.Pixels[y*img.Width+x]
}

// Set stores the color at column x of row y
func (img *Image) Set(x, y int, c core.Vec3) {
	img.Pixels[y*img.Width+x] = c
}

// Add accumulates other into img pixel by pixel
func (img *Image) Add(other *Image) error {
	if other.Width != img.Width || other.Height != img.Height {
		return errors.Errorf("image size mismatch: %dx%d vs %dx%d", img.Width, img.Height, other.Width, other.Height)
	}
	for i, c := range other.Pixels {
		img.Pixels[i] = img.Pixels[i].Add(c)
	}
	return nil
}

// Scale multiplies every pixel by f
func (img *Image) Scale(f float64) {
	for i := range img.Pixels {
		img.Pixels[i] = img.Pixels[i].Multiply(f)
	}
}

// AverageLuminance returns the mean luminance over all pixels
func (img *Image) AverageLuminance() float64 {
	if len(img.Pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range img.Pixels {
		total += c.Luminance()
	}
	return total / float64(len(img.Pixels))
}

// Average returns the per-pixel mean of the images. All images must share the
// same dimensions. The inputs are left untouched.
//
// The mean is accumulated incrementally, m_k = m_{k-1} + (x_k - m_{k-1})/k, so
// identical inputs come back bit-exact.
func Average(images ...*Image) (*Image, error) {
	if len(images) == 0 {
		return nil, errors.New("no images to average")
	}
	for i, img := range images {
		if img == nil {
			return nil, errors.Errorf("image %d is nil", i)
		}
		if img.Width != images[0].Width || img.Height != images[0].Height {
			return nil, errors.Errorf("image %d: image size mismatch: %dx%d vs %dx%d",
				i, images[0].Width, images[0].Height, img.Width, img.Height)
		}
	}

	result := NewImage(images[0].Width, images[0].Height)
	copy(result.Pixels, images[0].Pixels)
	for k := 1; k < len(images); k++ {
		n := float64(k + 1)
		for i, x := range images[k].Pixels {
			m := result.Pixels[i]
			result.Pixels[i] = core.NewVec3(
				m.X+(x.X-m.X)/n,
				m.Y+(x.Y-m.Y)/n,
				m.Z+(x.Z-m.Z)/n,
			)
		}
	}
	return result, nil
}
