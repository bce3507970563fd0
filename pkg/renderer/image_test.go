package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

func constantImage(width, height int, c core.Vec3) *Image {
	img := NewImage(width, height)
	for i := range img.Pixels {
		img.Pixels[i] = c
	}
	return img
}

func TestImage_SetAt(t *testing.T) {
	img := NewImage(3, 2)
	img.Set(2, 1, core.NewVec3(1, 2, 3))

	if got := img.At(2, 1); got != core.NewVec3(1, 2, 3) {
		t.Errorf("Expected (1,2,3), got %v", got)
	}
	if got := img.Pixels[5]; got != core.NewVec3(1, 2, 3) {
		t.Errorf("Expected row-major storage, pixel 5 is %v", got)
	}
	if got := img.At(0, 0); got != (core.Vec3{}) {
		t.Errorf("New image should be black, got %v", got)
	}
}

func TestImage_AddScale(t *testing.T) {
	img := constantImage(2, 2, core.NewVec3(1, 1, 1))
	if err := img.Add(constantImage(2, 2, core.NewVec3(0.5, 1, 2))); err != nil {
		t.Fatal(err)
	}
	img.Scale(2)
	if got := img.At(1, 1); got != core.NewVec3(3, 4, 6) {
		t.Errorf("Expected (3,4,6), got %v", got)
	}

	if err := img.Add(NewImage(3, 2)); err == nil {
		t.Error("Expected size mismatch error")
	}
}

func TestAverage_ConstantImages(t *testing.T) {
	tests := []struct {
		name  string
		c     core.Vec3
		count int
	}{
		{"dyadic three", core.NewVec3(0.5, 0.25, 0.125), 3},
		{"dyadic single", core.NewVec3(0.75, 0.5, 1), 1},
		{"decimal three", core.NewVec3(0.1, 0.7, 0.3), 3},
		{"decimal four", core.NewVec3(0.3, 0.7, 0.1), 4},
		{"decimal seven", core.NewVec3(0.123, 0.456, 0.789), 7},
		{"over range", core.NewVec3(3.7, 12.9, 0.01), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images := make([]*Image, tt.count)
			for i := range images {
				images[i] = constantImage(4, 3, tt.c)
			}

			avg, err := Average(images...)
			if err != nil {
				t.Fatal(err)
			}
			for i, p := range avg.Pixels {
				if p != tt.c {
					t.Fatalf("Pixel %d: expected exactly %v, got %v", i, tt.c, p)
				}
			}
		})
	}
}

func TestAverage_MeanOfDistinctImages(t *testing.T) {
	images := []*Image{
		constantImage(2, 2, core.NewVec3(0, 1, 2)),
		constantImage(2, 2, core.NewVec3(1, 1, 4)),
		constantImage(2, 2, core.NewVec3(2, 1, 0)),
		constantImage(2, 2, core.NewVec3(5, 1, 2)),
	}
	avg, err := Average(images...)
	if err != nil {
		t.Fatal(err)
	}
	if got := avg.At(1, 1); !got.ApproxEquals(core.NewVec3(2, 1, 2), 1e-12) {
		t.Errorf("Expected (2,1,2), got %v", got)
	}
}

func TestAverage_LeavesInputsUntouched(t *testing.T) {
	a := constantImage(2, 1, core.NewVec3(1, 0, 0))
	b := constantImage(2, 1, core.NewVec3(0, 1, 0))

	avg, err := Average(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if avg.At(0, 0) != core.NewVec3(0.5, 0.5, 0) {
		t.Errorf("Expected (0.5,0.5,0), got %v", avg.At(0, 0))
	}
	if a.At(0, 0) != core.NewVec3(1, 0, 0) || b.At(1, 0) != core.NewVec3(0, 1, 0) {
		t.Error("Average modified its inputs")
	}
}

func TestAverage_Errors(t *testing.T) {
	tests := []struct {
		name   string
		images []*Image
	}{
		{"no images", nil},
		{"size mismatch", []*Image{NewImage(2, 2), NewImage(2, 3)}},
		{"nil image", []*Image{NewImage(2, 2), nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Average(tt.images...); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestImage_AverageLuminance(t *testing.T) {
	img := NewImage(2, 2)
	img.Set(0, 0, core.NewVec3(1, 0, 0))
	img.Set(1, 0, core.NewVec3(0, 1, 0))
	img.Set(0, 1, core.NewVec3(0, 0, 1))

	// (0.299 + 0.587 + 0.114 + 0) / 4
	if got := img.AverageLuminance(); math.Abs(got-0.25) > 1e-4 {
		t.Errorf("Expected average luminance 0.25, got %f", got)
	}
	if got := NewImage(0, 0).AverageLuminance(); got != 0 {
		t.Errorf("Expected 0 for empty image, got %f", got)
	}
}
