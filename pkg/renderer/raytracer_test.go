package renderer

import (
	"testing"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/integrator"
	"github.com/df07/go-batch-raytracer/pkg/scene"
)

func emptyTestScene() *scene.Scene {
	return scene.NewEmptyScene(geometry.CameraConfig{Width: 8, AspectRatio: 2})
}

// TestRenderFrame_EmptySceneIsBackground checks that with no geometry every
// pixel is the sky seen through its center, whatever the sample count.
func TestRenderFrame_EmptySceneIsBackground(t *testing.T) {
	sc := emptyTestScene()
	width, height := sc.SamplingConfig.Width, sc.SamplingConfig.Height
	integ := integrator.NewPathTracingIntegrator(5)
	rt := NewRaytracer(sc, width, height, integ)
	sampler := core.FixedSampler{Value: 0.5}

	for _, samples := range []int{1, 3, 16} {
		img := rt.RenderFrame(samples, sampler)
		if img.Width != width || img.Height != height {
			t.Fatalf("Expected %dx%d image, got %dx%d", width, height, img.Width, img.Height)
		}

		for row := 0; row < height; row++ {
			j := height - 1 - row
			for i := 0; i < width; i++ {
				s := (float64(i) + 0.5) / float64(width)
				v := (float64(j) + 0.5) / float64(height)
				expected := integrator.BackgroundGradient(sc.GetCamera().GetRay(s, v, sampler), sc)
				if got := img.At(i, row); !got.ApproxEquals(expected, 1e-12) {
					t.Fatalf("%d samples, pixel (%d,%d): expected %v, got %v", samples, i, row, expected, got)
				}
			}
		}
	}
}

func TestRenderFrame_TopRowIsSky(t *testing.T) {
	sc := emptyTestScene()
	width, height := sc.SamplingConfig.Width, sc.SamplingConfig.Height
	rt := NewRaytracer(sc, width, height, integrator.NewPathTracingIntegrator(1))
	img := rt.RenderFrame(1, core.FixedSampler{Value: 0.5})

	// Row 0 looks upwards, towards the blue end of the gradient
	top, bottom := img.At(0, 0), img.At(0, height-1)
	if top.X >= bottom.X {
		t.Errorf("Expected top row bluer than bottom row, got top %v bottom %v", top, bottom)
	}
}

func TestRenderFrame_NonPositiveSamples(t *testing.T) {
	sc := emptyTestScene()
	width, height := sc.SamplingConfig.Width, sc.SamplingConfig.Height
	rt := NewRaytracer(sc, width, height, integrator.NewPathTracingIntegrator(2))
	sampler := core.FixedSampler{Value: 0.5}

	want := rt.RenderFrame(1, sampler)
	for _, samples := range []int{0, -4} {
		got := rt.RenderFrame(samples, sampler)
		for i := range want.Pixels {
			if got.Pixels[i] != want.Pixels[i] {
				t.Fatalf("%d samples: pixel %d is %v, expected %v", samples, i, got.Pixels[i], want.Pixels[i])
			}
		}
	}
}

func TestRenderFrame_SameSeedSameImage(t *testing.T) {
	sc := scene.NewDefaultScene(geometry.CameraConfig{Width: 12})
	width, height := sc.SamplingConfig.Width, sc.SamplingConfig.Height
	rt := NewRaytracer(sc, width, height, integrator.NewPathTracingIntegrator(5))

	a := rt.RenderFrame(2, core.NewSeededSampler(9))
	b := rt.RenderFrame(2, core.NewSeededSampler(9))
	for i := range a.Pixels {
		if a.Pixels[i] != b.Pixels[i] {
			t.Fatalf("Pixel %d differs: %v vs %v", i, a.Pixels[i], b.Pixels[i])
		}
	}
}
