package scene

import (
	"math/rand"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

// NewRandomScene creates the classic cover scene: a large ground sphere, a
// 22x22 field of small randomized spheres and three large feature spheres.
// The same seed always produces the same scene.
func NewRandomScene(seed int64, cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := New(cameraConfig, SamplingConfig{
		SamplesPerPixel: 10,
		MaxDepth:        5,
	})

	random := rand.New(rand.NewSource(seed))
	randomIn := func(low, high float64) float64 {
		return low + (high-low)*random.Float64()
	}
	randomColor := func() core.Vec3 {
		return core.NewVec3(random.Float64(), random.Float64(), random.Float64())
	}

	ground := s.AddMaterial(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, ground)

	// Small spheres share one glass material; diffuse and metal ones get their own
	glass := s.AddMaterial(material.NewDielectric(1.5))
	keepClear := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				0.2,
				float64(b)+0.9*random.Float64(),
			)

			if center.Subtract(keepClear).Length() <= 0.9 {
				continue
			}

			var id int
			switch {
			case chooseMat < 0.8:
				albedo := randomColor().MultiplyVec(randomColor())
				id = s.AddMaterial(material.NewLambertian(albedo))
			case chooseMat < 0.95:
				albedo := core.NewVec3(randomIn(0.5, 1), randomIn(0.5, 1), randomIn(0.5, 1))
				id = s.AddMaterial(material.NewMetal(albedo, randomIn(0, 0.5)))
			default:
				id = glass
			}
			s.AddSphere(center, 0.2, id)
		}
	}

	s.AddSphere(core.NewVec3(0, 1, 0), 1.0, glass)

	brown := s.AddMaterial(material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1)))
	s.AddSphere(core.NewVec3(-4, 1, 0), 1.0, brown)

	bronze := s.AddMaterial(material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0))
	s.AddSphere(core.NewVec3(4, 1, 0), 1.0, bronze)

	return s
}
