package scene

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

// vec3JSON is a vector written as a three element array
type vec3JSON [3]float64

func (v vec3JSON) vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// CameraJSON describes a camera in a scene file
type CameraJSON struct {
	Center        vec3JSON `json:"center"`
	LookAt        vec3JSON `json:"lookAt"`
	Up            vec3JSON `json:"up"`
	Width         int      `json:"width"`
	AspectRatio   float64  `json:"aspectRatio"`
	VFov          float64  `json:"vfov"`
	Aperture      float64  `json:"aperture,omitempty"`
	FocusDistance float64  `json:"focusDistance,omitempty"`
}

// MaterialJSON describes one named material. Type is lambertian, metal or dielectric.
type MaterialJSON struct {
	Type            string   `json:"type"`
	Albedo          vec3JSON `json:"albedo"`
	Fuzz            float64  `json:"fuzz,omitempty"`
	RefractiveIndex float64  `json:"refractiveIndex,omitempty"`
}

// SphereJSON describes a sphere bound to a named material
type SphereJSON struct {
	Center   vec3JSON `json:"center"`
	Radius   float64  `json:"radius"`
	Material string   `json:"material"`
}

// BackgroundJSON overrides the sky gradient
type BackgroundJSON struct {
	Top    *vec3JSON `json:"top,omitempty"`
	Bottom *vec3JSON `json:"bottom,omitempty"`
}

// SamplingJSON carries the scene's recommended sampling
type SamplingJSON struct {
	SamplesPerPixel int `json:"samplesPerPixel,omitempty"`
	MaxDepth        int `json:"maxDepth,omitempty"`
}

// FileJSON is the top level of a scene file
type FileJSON struct {
	Name        string                  `json:"name,omitempty"`
	Description string                  `json:"description,omitempty"`
	Group       string                  `json:"group,omitempty"`
	Camera      CameraJSON              `json:"camera"`
	Sampling    SamplingJSON            `json:"sampling"`
	Background  BackgroundJSON          `json:"background"`
	Materials   map[string]MaterialJSON `json:"materials"`
	Spheres     []SphereJSON            `json:"spheres"`
}

// LoadJSONScene reads a scene file from disk. Non-zero fields of an override
// replace the file's camera settings.
func LoadJSONScene(path string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open scene file")
	}
	defer f.Close()

	s, err := ParseJSONScene(f, cameraOverrides...)
	if err != nil {
		return nil, errors.Wrapf(err, "load scene %s", path)
	}
	return s, nil
}

// ParseJSONScene decodes a scene description
func ParseJSONScene(r io.Reader, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	var file FileJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decode scene json")
	}
	return file.Build(cameraOverrides...)
}

// Build converts a decoded scene file into a Scene
func (f FileJSON) Build(cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	cameraConfig := geometry.CameraConfig{
		Center:        f.Camera.Center.vec3(),
		LookAt:        f.Camera.LookAt.vec3(),
		Up:            f.Camera.Up.vec3(),
		Width:         f.Camera.Width,
		AspectRatio:   f.Camera.AspectRatio,
		VFov:          f.Camera.VFov,
		Aperture:      f.Camera.Aperture,
		FocusDistance: f.Camera.FocusDistance,
	}
	if cameraConfig.Up == (core.Vec3{}) {
		cameraConfig.Up = core.NewVec3(0, 1, 0)
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}
	if cameraConfig.Width <= 0 {
		return nil, errors.Errorf("camera width must be positive, got %d", cameraConfig.Width)
	}
	if cameraConfig.AspectRatio <= 0 {
		return nil, errors.Errorf("camera aspect ratio must be positive, got %v", cameraConfig.AspectRatio)
	}
	if cameraConfig.VFov <= 0 || cameraConfig.VFov >= 180 {
		return nil, errors.Errorf("camera vfov must be in (0, 180), got %v", cameraConfig.VFov)
	}
	if cameraConfig.Center == cameraConfig.LookAt {
		return nil, errors.New("camera center and lookAt must differ")
	}

	s := New(cameraConfig, SamplingConfig{
		SamplesPerPixel: f.Sampling.SamplesPerPixel,
		MaxDepth:        f.Sampling.MaxDepth,
	})
	if f.Background.Top != nil {
		s.TopColor = f.Background.Top.vec3()
	}
	if f.Background.Bottom != nil {
		s.BottomColor = f.Background.Bottom.vec3()
	}

	refs := lo.Uniq(lo.Map(f.Spheres, func(sphere SphereJSON, _ int) string {
		return sphere.Material
	}))
	missing := lo.Filter(refs, func(name string, _ int) bool {
		_, ok := f.Materials[name]
		return !ok
	})
	if len(missing) > 0 {
		return nil, errors.Errorf("spheres reference undefined materials: %s", strings.Join(missing, ", "))
	}

	// Register in name order so material indices are stable across loads
	names := lo.Keys(f.Materials)
	sort.Strings(names)
	ids := make(map[string]int, len(names))
	for _, name := range names {
		m, err := f.Materials[name].material()
		if err != nil {
			return nil, errors.Wrapf(err, "material %q", name)
		}
		ids[name] = s.AddMaterial(m)
	}

	for i, sphere := range f.Spheres {
		if sphere.Radius == 0 {
			return nil, errors.Errorf("sphere %d has zero radius", i)
		}
		s.AddSphere(sphere.Center.vec3(), sphere.Radius, ids[sphere.Material])
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (m MaterialJSON) material() (material.Material, error) {
	switch strings.ToLower(m.Type) {
	case "lambertian", "diffuse":
		return material.NewLambertian(m.Albedo.vec3()), nil
	case "metal":
		return material.NewMetal(m.Albedo.vec3(), m.Fuzz), nil
	case "dielectric", "glass":
		if m.RefractiveIndex <= 0 {
			return material.Material{}, errors.Errorf("dielectric needs a positive refractive index, got %v", m.RefractiveIndex)
		}
		return material.NewDielectric(m.RefractiveIndex), nil
	default:
		return material.Material{}, errors.Errorf("unknown material type %q", m.Type)
	}
}
