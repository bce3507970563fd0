package integrator

import (
	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

// World is the read-only view of a scene the integrator needs
type World interface {
	// Hit returns the closest intersection within [tMin, tMax]
	Hit(ray core.Ray, tMin, tMax float64) (core.HitRecord, bool)
	// Material resolves the material index stored in a hit record
	Material(id int) (material.Material, bool)
	// BackgroundColors returns the sky gradient endpoints
	BackgroundColors() (topColor, bottomColor core.Vec3)
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	RayColor(ray core.Ray, world World, sampler core.Sampler) core.Vec3
}
