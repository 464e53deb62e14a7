package scene

import (
	"math"

	"github.com/achilleasa/borealis/types"
)

// A ray intersection query over the half-open parametric interval
// (TMin, TMax). Queries are values; traversal narrows TMax as closer hits
// are found.
type RayQuery struct {
	Ray  types.Ray
	TMin float32
	TMax float32
}

// Information about a ray/primitive intersection. Hit records are transient;
// they are filled in by intersection queries and consumed by the caller
// without ever being persisted.
type HitRecord struct {
	Point     types.Vec3
	Normal    types.Vec3
	T         float32
	FrontFace bool
	Mat       Material
}

// Orient the hit normal against the incoming ray. The outward normal must be
// unit length.
func (h *HitRecord) setFaceNormal(r types.Ray, outwardNormal types.Vec3) {
	h.FrontFace = r.Dir.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Neg()
	}
}

// Sphere primitive.
type Sphere struct {
	Center types.Vec3
	Radius float32
	Mat    Material

	// Precomputed values for the intersection hot path.
	radiusSq  float32
	invRadius float32
}

// Create a sphere primitive.
func NewSphere(center types.Vec3, radius float32, mat Material) Sphere {
	return Sphere{
		Center:    center,
		Radius:    radius,
		Mat:       mat,
		radiusSq:  radius * radius,
		invRadius: 1.0 / radius,
	}
}

// Intersect the sphere with a ray query, filling rec and returning true if a
// hit exists within the query interval. The quadratic is solved in its half-b
// form; the smaller root is preferred, falling back to the larger one when
// the smaller lies outside the interval.
func (s *Sphere) Intersect(q RayQuery, rec *HitRecord) bool {
	r := q.Ray
	oc := r.Origin.Sub(s.Center)
	a := r.Dir.LenSq()
	halfB := oc.Dot(r.Dir)
	c := oc.LenSq() - s.radiusSq

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return false
	}
	sqrtD := float32(math.Sqrt(float64(discriminant)))

	root := (-halfB - sqrtD) / a
	if root <= q.TMin || root >= q.TMax {
		root = (-halfB + sqrtD) / a
		if root <= q.TMin || root >= q.TMax {
			return false
		}
	}

	rec.T = root
	rec.Point = r.At(root)
	outwardNormal := rec.Point.Sub(s.Center).Mul(s.invRadius)
	rec.setFaceNormal(r, outwardNormal)
	rec.Mat = s.Mat
	return true
}

// Axis-aligned bounding box for the sphere.
func (s *Sphere) BBox() [2]types.Vec3 {
	halfSize := types.XYZ(s.Radius, s.Radius, s.Radius)
	return [2]types.Vec3{
		s.Center.Sub(halfSize),
		s.Center.Add(halfSize),
	}
}
