package material

import (
	"math"
	"testing"

	"github.com/df07/go-batch-raytracer/pkg/core"
)

func TestDielectricBasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	rayDirection := core.NewVec3(1, -1, 0).Normalize() // 45-degree angle
	ray := core.Ray{Origin: core.NewVec3(0, 1, 0), Direction: rayDirection}

	hit := core.HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
	}

	result, scattered := glass.Scatter(ray, hit, core.NewSeededSampler(42))
	if !scattered {
		t.Error("Dielectric should always scatter")
	}

	expectedAttenuation := core.NewVec3(1.0, 1.0, 1.0)
	if result.Attenuation != expectedAttenuation {
		t.Errorf("Expected attenuation %v, got %v", expectedAttenuation, result.Attenuation)
	}

	// Both branches should show up across many draws
	hasReflection := false
	hasRefraction := false
	for seed := int64(0); seed < 2000 && (!hasReflection || !hasRefraction); seed++ {
		result, _ := glass.Scatter(ray, hit, core.NewSeededSampler(seed))
		if result.Scattered.Direction.Y > 0 {
			hasReflection = true
		} else {
			hasRefraction = true
		}
	}

	if !hasRefraction {
		t.Error("Expected to see refraction in at least some cases")
	}
	if !hasReflection {
		t.Error("Expected to see Fresnel reflection in at least some cases")
	}
}

func TestDielectricRefractionFollowsSnell(t *testing.T) {
	glass := NewDielectric(1.5)

	// Sampler value 1.0 never falls below the Schlick reflectance, so we always refract
	sampler := core.FixedSampler{Value: 0.999999}

	incident := core.NewVec3(math.Sin(math.Pi/6), -math.Cos(math.Pi/6), 0) // 30° from normal
	hit := core.HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}

	result, _ := glass.Scatter(core.NewRay(core.NewVec3(0, 1, 0), incident), hit, sampler)
	out := result.Scattered.Direction.Normalize()

	// n1 sinθ1 = n2 sinθ2
	sinOut := math.Abs(out.X)
	if math.Abs(sinOut-math.Sin(math.Pi/6)/1.5) > 1e-9 {
		t.Errorf("Snell's law violated: sinθ2=%f, expected %f", sinOut, math.Sin(math.Pi/6)/1.5)
	}
	if out.Y >= 0 {
		t.Errorf("Refracted ray should continue into the surface, got %v", out)
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Ray going from glass to air at a shallow angle
	rayDirection := core.NewVec3(1, -0.1, 0).Normalize()
	ray := core.Ray{Origin: core.NewVec3(0, 0, 0), Direction: rayDirection}

	hit := core.HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: false, // Exiting the material
	}

	cosTheta := -rayDirection.Dot(hit.Normal)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	if 1.5*sinTheta <= 1.0 {
		t.Fatalf("Test setup error: this angle should cause total internal reflection")
	}

	for i := 0; i < 10; i++ {
		result, scattered := glass.Scatter(ray, hit, core.NewSeededSampler(int64(i)))
		if !scattered {
			t.Error("Dielectric should always scatter")
		}

		if result.Scattered.Direction.Y <= 0 {
			t.Errorf("Expected total internal reflection (ray going up), got %+v", result.Scattered.Direction)
		}

		if math.Abs(result.Scattered.Direction.X-rayDirection.X) > 1e-10 {
			t.Errorf("Expected X component %.6f, got %.6f", rayDirection.X, result.Scattered.Direction.X)
		}
	}
}

func TestDielectricIndexOneDoesNotBend(t *testing.T) {
	vacuum := NewDielectric(1.0)
	sampler := core.NewSeededSampler(17)

	normal := core.NewVec3(0, 1, 0)
	for _, frontFace := range []bool{true, false} {
		for deg := 0.0; deg < 90.0; deg += 7.5 {
			theta := deg * math.Pi / 180
			incident := core.NewVec3(math.Sin(theta), -math.Cos(theta), 0.3*math.Sin(theta))
			hit := core.HitRecord{
				Point:     core.NewVec3(0, 0, 0),
				Normal:    normal,
				FrontFace: frontFace,
			}

			result, scattered := vacuum.Scatter(core.NewRay(core.NewVec3(0, 1, 0), incident), hit, sampler)
			if !scattered {
				t.Fatalf("Dielectric should always scatter")
			}
			out := result.Scattered.Direction.Normalize()
			if !out.ApproxEquals(incident.Normalize(), 1e-9) {
				t.Errorf("Index 1.0 bent light at %.1f° (front=%t): in %v, out %v", deg, frontFace, incident.Normalize(), out)
			}
		}
	}
}

func TestReflectanceFunction(t *testing.T) {
	// Normal incidence - should be low for air->glass
	r0 := Reflectance(1.0, 1.0/1.5)
	if math.Abs(r0-0.04) > 1e-9 {
		t.Errorf("Normal incidence reflectance = %.6f, expected 0.04", r0)
	}

	// Grazing incidence - should be 1
	r90 := Reflectance(0.0, 1.0/1.5)
	if math.Abs(r90-1.0) > 1e-12 {
		t.Errorf("Grazing incidence reflectance = %.6f, expected 1.0", r90)
	}

	r45 := Reflectance(math.Sqrt2/2, 1.0/1.5)
	if r45 <= r0 || r90 <= r45 {
		t.Errorf("Reflectance should increase with angle: R(0°)=%.3f, R(45°)=%.3f, R(90°)=%.3f", r0, r45, r90)
	}

	// Symmetric in the ratio
	if math.Abs(Reflectance(1.0, 1.5)-r0) > 1e-12 {
		t.Errorf("R0 should not depend on direction of crossing")
	}
}

func TestMaterial_UnknownKindAbsorbs(t *testing.T) {
	m := Material{Kind: Kind(99)}
	_, scattered := m.Scatter(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)),
		core.HitRecord{Normal: core.NewVec3(0, 1, 0)}, core.FixedSampler{Value: 0.5})
	if scattered {
		t.Error("Unknown material kind should absorb")
	}
	if m.Kind.String() != "kind(99)" {
		t.Errorf("Unexpected kind name %q", m.Kind.String())
	}
}

func TestTable_AddAndGet(t *testing.T) {
	var table Table
	red := table.Add(NewLambertian(core.NewVec3(1, 0, 0)))
	glass := table.Add(NewDielectric(1.5))

	if red != 0 || glass != 1 {
		t.Fatalf("Expected sequential indices 0 and 1, got %d and %d", red, glass)
	}

	m, ok := table.Get(glass)
	if !ok || m.Kind != KindDielectric || m.RefractiveIndex != 1.5 {
		t.Errorf("Expected glass at index %d, got %+v (ok=%t)", glass, m, ok)
	}

	if _, ok := table.Get(2); ok {
		t.Error("Out of range index should not resolve")
	}
	if _, ok := table.Get(-1); ok {
		t.Error("Negative index should not resolve")
	}
}
