package core

// HitRecord contains information about a ray-object intersection.
// Material is an index into the owning scene's material table.
type HitRecord struct {
	Point     Vec3    // Point of intersection
	Normal    Vec3    // Surface normal at intersection, always facing against the ray
	T         float64 // Parameter t along the ray
	FrontFace bool    // Whether ray hit the front face
	Material  int     // Index of the hit surface's material
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Multiply(-1)
	}
}
