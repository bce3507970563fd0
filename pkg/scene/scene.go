package scene

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

// Scene contains all the elements needed for rendering. Once a render starts
// the scene is only read, so every worker can share the same *Scene.
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	Spheres        []geometry.Sphere // Objects in insertion order
	Materials      material.Table    // Shared materials, referenced by index
	TopColor       core.Vec3         // Sky color at the zenith
	BottomColor    core.Vec3         // Sky color at the horizon
	SamplingConfig SamplingConfig
}

// SamplingConfig contains the rendering configuration a scene recommends
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// New creates an empty scene with the default sky and the given camera
func New(cameraConfig geometry.CameraConfig, sampling SamplingConfig) *Scene {
	if sampling.Width == 0 {
		sampling.Width = cameraConfig.Width
	}
	if sampling.Height == 0 {
		sampling.Height = cameraConfig.ImageHeight()
	}
	return &Scene{
		Camera:         geometry.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		Spheres:        make([]geometry.Sphere, 0),
		TopColor:       core.NewVec3(0.5, 0.7, 1.0), // Blue sky
		BottomColor:    core.NewVec3(1.0, 1.0, 1.0), // White horizon
		SamplingConfig: sampling,
	}
}

// AddMaterial registers a material and returns its index
func (s *Scene) AddMaterial(m material.Material) int {
	return s.Materials.Add(m)
}

// AddSphere appends a sphere bound to an already registered material
func (s *Scene) AddSphere(center core.Vec3, radius float64, materialID int) {
	s.Spheres = append(s.Spheres, geometry.NewSphere(center, radius, materialID))
}

// Clear removes every sphere. Materials stay registered.
func (s *Scene) Clear() {
	s.Spheres = s.Spheres[:0]
}

// Hit returns the closest intersection along the ray within [tMin, tMax].
// Each accepted hit shrinks the interval, so later spheres only win when strictly closer.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (core.HitRecord, bool) {
	var closestHit core.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for i := range s.Spheres {
		if hit, isHit := s.Spheres[i].Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}

// Material resolves a material index
func (s *Scene) Material(id int) (material.Material, bool) {
	return s.Materials.Get(id)
}

// BackgroundColors returns the sky gradient endpoints
func (s *Scene) BackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.TopColor, s.BottomColor
}

// GetCamera returns the scene camera, or nil for a nil scene
func (s *Scene) GetCamera() *geometry.Camera {
	if s == nil {
		return nil
	}
	return s.Camera
}

// Validate checks the scene can be rendered
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return errors.New("scene has no camera")
	}
	for i, sphere := range s.Spheres {
		if _, ok := s.Materials.Get(sphere.Material); !ok {
			return errors.Errorf("sphere %d references unknown material %d", i, sphere.Material)
		}
		if sphere.Radius == 0 || math.IsNaN(sphere.Radius) || math.IsInf(sphere.Radius, 0) {
			return errors.Errorf("sphere %d has invalid radius %v", i, sphere.Radius)
		}
		if !sphere.Center.IsFinite() {
			return errors.Errorf("sphere %d has non-finite center %v", i, sphere.Center)
		}
	}
	return nil
}
