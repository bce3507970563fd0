package renderer

import (
	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/integrator"
)

// Scene is what the renderer needs from a scene. *scene.Scene satisfies it.
type Scene interface {
	integrator.World
	GetCamera() *geometry.Camera
}

// Raytracer renders whole frames with a fixed number of samples per pixel
type Raytracer struct {
	scene      Scene
	width      int
	height     int
	integrator integrator.Integrator
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, width, height int, integ integrator.Integrator) *Raytracer {
	return &Raytracer{
		scene:      scene,
		width:      width,
		height:     height,
		integrator: integ,
	}
}

// RenderFrame traces samplesPerPixel jittered camera rays through every pixel
// and returns the per-pixel averages. A non-positive sample count renders one
// sample per pixel. All randomness comes from the sampler.
func (rt *Raytracer) RenderFrame(samplesPerPixel int, sampler core.Sampler) *Image {
	if samplesPerPixel <= 0 {
		samplesPerPixel = 1
	}

	img := NewImage(rt.width, rt.height)
	camera := rt.scene.GetCamera()
	invSamples := 1.0 / float64(samplesPerPixel)

	for row := 0; row < rt.height; row++ {
		// Camera t grows upwards while image rows grow downwards
		j := rt.height - 1 - row
		for i := 0; i < rt.width; i++ {
			colorAccum := core.Vec3{}

			for sample := 0; sample < samplesPerPixel; sample++ {
				jitter := sampler.Get2D()
				s := (float64(i) + jitter.X) / float64(rt.width)
				t := (float64(j) + jitter.Y) / float64(rt.height)

				ray := camera.GetRay(s, t, sampler)
				colorAccum = colorAccum.Add(rt.integrator.RayColor(ray, rt.scene, sampler))
			}

			img.Set(i, row, colorAccum.Multiply(invSamples))
		}
	}

	return img
}
