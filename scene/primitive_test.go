package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/borealis/types"
)

func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func vecApproxEq(a, b types.Vec3, eps float32) bool {
	return absF32(a[0]-b[0]) < eps && absF32(a[1]-b[1]) < eps && absF32(a[2]-b[2]) < eps
}

func TestSphereIntersect(t *testing.T) {
	sphere := NewSphere(types.XYZ(0, 0, 0), 1, NewLambertian(types.XYZ(0.5, 0.5, 0.5)))

	type spec struct {
		origin   types.Vec3
		dir      types.Vec3
		expHit   bool
		expT     float32
		expPoint types.Vec3
		expFront bool
	}
	specs := []spec{
		// Straight on; the closer of the two roots must be selected
		{types.XYZ(0, 0, 3), types.XYZ(0, 0, -1), true, 2, types.XYZ(0, 0, 1), true},
		// From inside the sphere the smaller root is behind the origin so
		// the larger one is used and the normal is flipped
		{types.XYZ(0, 0, 0), types.XYZ(0, 0, -1), true, 1, types.XYZ(0, 0, -1), false},
		// Pointing away
		{types.XYZ(0, 0, 3), types.XYZ(0, 0, 1), false, 0, types.Vec3{}, false},
		// Grazing miss
		{types.XYZ(0, 2, 3), types.XYZ(0, 0, -1), false, 0, types.Vec3{}, false},
	}

	for index, s := range specs {
		var rec HitRecord
		got := sphere.Intersect(RayQuery{
			Ray:  types.NewRay(s.origin, s.dir),
			TMin: 0.001,
			TMax: math.MaxFloat32,
		}, &rec)

		if got != s.expHit {
			t.Fatalf("[spec %d] expected hit=%t; got %t", index, s.expHit, got)
		}
		if !got {
			continue
		}
		if absF32(rec.T-s.expT) > 1e-5 {
			t.Fatalf("[spec %d] expected hit t %f; got %f", index, s.expT, rec.T)
		}
		if !vecApproxEq(rec.Point, s.expPoint, 1e-5) {
			t.Fatalf("[spec %d] expected hit point %v; got %v", index, s.expPoint, rec.Point)
		}
		if rec.FrontFace != s.expFront {
			t.Fatalf("[spec %d] expected frontFace=%t; got %t", index, s.expFront, rec.FrontFace)
		}
	}
}

func TestSphereIntersectTranslationInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		center := types.RandomVec3(rng, -5, 5)
		radius := 0.5 + rng.Float32()
		origin := types.RandomVec3(rng, -10, 10)
		dir := types.RandomUnitVector(rng)
		offset := types.RandomVec3(rng, -100, 100)

		sphere := NewSphere(center, radius, NewLambertian(types.XYZ(1, 1, 1)))
		moved := NewSphere(center.Add(offset), radius, NewLambertian(types.XYZ(1, 1, 1)))

		var rec, movedRec HitRecord
		q := RayQuery{Ray: types.NewRay(origin, dir), TMin: 0.001, TMax: math.MaxFloat32}
		movedQ := RayQuery{Ray: types.NewRay(origin.Add(offset), dir), TMin: 0.001, TMax: math.MaxFloat32}

		hit := sphere.Intersect(q, &rec)
		movedHit := moved.Intersect(movedQ, &movedRec)

		if hit != movedHit {
			t.Fatalf("[iteration %d] expected translated hit=%t; got %t", i, hit, movedHit)
		}
		if hit && absF32(rec.T-movedRec.T) > 1e-2 {
			t.Fatalf("[iteration %d] expected translated hit t %f; got %f", i, rec.T, movedRec.T)
		}
	}
}

func TestSphereBBoxContainsHitPoints(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	sphere := NewSphere(types.XYZ(1, -2, 3), 1.5, NewLambertian(types.XYZ(1, 1, 1)))
	bbox := sphere.BBox()

	// Every point the intersection test can produce must lie inside the
	// reported bounds; traversal pruning is unsound otherwise.
	const eps float32 = 1e-3
	for i := 0; i < 1000; i++ {
		origin := types.RandomVec3(rng, -10, 10)
		dir := types.RandomUnitVector(rng)

		var rec HitRecord
		if !sphere.Intersect(RayQuery{Ray: types.NewRay(origin, dir), TMin: 0.001, TMax: math.MaxFloat32}, &rec) {
			continue
		}
		for axis := 0; axis < 3; axis++ {
			if rec.Point[axis] < bbox[0][axis]-eps || rec.Point[axis] > bbox[1][axis]+eps {
				t.Fatalf("hit point %v lies outside sphere bbox [%v, %v]", rec.Point, bbox[0], bbox[1])
			}
		}
	}
}
