package cpu

import (
	"math"
	"math/rand"

	"github.com/achilleasa/borealis/scene"
	"github.com/achilleasa/borealis/types"
)

// Minimum hit distance for scattered rays. Using a small positive value
// instead of 0 prevents rays from re-intersecting the surface they just
// scattered off ("shadow acne").
const traceEpsilon float32 = 1e-3

// Estimate the incoming radiance along a ray by recursively following its
// scattered bounces through the scene. Rays that exhaust the depth budget
// contribute no radiance; rays that escape the scene pick up the background
// gradient.
func rayColor(rng *rand.Rand, sc *scene.Scene, r types.Ray, depth uint32) types.Vec3 {
	if depth == 0 {
		return types.Vec3{}
	}

	var rec scene.HitRecord
	q := scene.RayQuery{Ray: r, TMin: traceEpsilon, TMax: math.MaxFloat32}
	if !sc.Intersect(q, &rec) {
		return skyColor(r)
	}

	attenuation, scattered, ok := rec.Mat.Scatter(rng, r, &rec)
	if !ok {
		return types.Vec3{}
	}

	return attenuation.MulVec(rayColor(rng, sc, scattered, depth-1))
}

// The background radiance for rays that escape the scene: a vertical white to
// light blue gradient.
func skyColor(r types.Ray) types.Vec3 {
	unitDir := r.Dir.Normalize()
	t := 0.5 * (unitDir[1] + 1.0)
	return types.XYZ(1, 1, 1).Mul(1 - t).Add(types.XYZ(0.5, 0.7, 1.0).Mul(t))
}
