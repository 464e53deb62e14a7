package types

// A ray defined by an origin point and a direction vector. Rays are treated
// as immutable values; shortening a ray during traversal is expressed by
// narrowing the [TMin, TMax] interval of the query that carries it.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// Create a new ray.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir}
}

// Get the point at parametric distance t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
