package integrator

import (
	"math"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

// ShadowAcneEpsilon is the near end of the hit interval. It keeps a scattered
// ray from re-hitting the surface it left because of floating point error.
const ShadowAcneEpsilon = 0.001

// PathTracingIntegrator implements unidirectional path tracing with the sky as the only light
type PathTracingIntegrator struct {
	maxDepth int
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		maxDepth: maxDepth,
	}
}

// MaxDepth returns the bounce limit
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor computes the radiance carried back along a camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world World, sampler core.Sampler) core.Vec3 {
	return pt.radiance(ray, world, sampler, pt.maxDepth)
}

func (pt *PathTracingIntegrator) radiance(ray core.Ray, world World, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return BackgroundGradient(ray, world)
	}

	mat, ok := world.Material(hit.Material)
	if !ok {
		return core.Vec3{}
	}

	scatter, didScatter := mat.Scatter(ray, hit, sampler)
	if !didScatter {
		return core.Vec3{}
	}

	return scatter.Attenuation.MultiplyVec(pt.radiance(scatter.Scattered, world, sampler, depth-1))
}

// BackgroundGradient returns the sky color seen along a ray that escapes the scene
func BackgroundGradient(r core.Ray, world World) core.Vec3 {
	topColor, bottomColor := world.BackgroundColors()

	// Map the y-component from [-1,1] to [0,1]
	unitDirection := r.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)

	return bottomColor.Lerp(topColor, t)
}
