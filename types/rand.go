package types

import "math/rand"

// Random vector with each component sampled uniformly from [min, max).
func RandomVec3(rng *rand.Rand, min, max float32) Vec3 {
	d := max - min
	return Vec3{
		min + d*rng.Float32(),
		min + d*rng.Float32(),
		min + d*rng.Float32(),
	}
}

// Random point inside the unit sphere, sampled by rejection.
func RandomInUnitSphere(rng *rand.Rand) Vec3 {
	for {
		p := RandomVec3(rng, -1, 1)
		if p.LenSq() < 1.0 {
			return p
		}
	}
}

// Random unit length direction vector.
func RandomUnitVector(rng *rand.Rand) Vec3 {
	return RandomInUnitSphere(rng).Normalize()
}

// Random point inside the unit disk on the XY plane. Used for sampling
// camera lens apertures.
func RandomInUnitDisk(rng *rand.Rand) Vec3 {
	for {
		p := Vec3{2*rng.Float32() - 1, 2*rng.Float32() - 1, 0}
		if p.LenSq() < 1.0 {
			return p
		}
	}
}
