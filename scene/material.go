package scene

import (
	"math"
	"math/rand"

	"github.com/achilleasa/borealis/types"
)

// The supported material kinds. Materials are modeled as a closed tagged
// variant instead of an interface so that the scatter dispatch stays a flat
// switch on the hot path and the set of kinds is exhaustively checkable.
type MaterialType uint8

const (
	Lambertian MaterialType = iota
	Metal
	Dielectric
)

// A surface material. Only the parameters relevant to the material type are
// populated; materials are immutable once the scene has been assembled.
type Material struct {
	Type MaterialType

	// Albedo color for lambertian and metal surfaces.
	Albedo types.Vec3

	// Reflection cone radius for metal surfaces; 0 yields a perfect mirror.
	Fuzz float32

	// Refraction index for dielectric surfaces.
	RefIdx float32
}

// Create a diffuse material with the given albedo.
func NewLambertian(albedo types.Vec3) Material {
	return Material{Type: Lambertian, Albedo: albedo}
}

// Create a metallic material with the given albedo and fuzziness. Fuzz values
// are clamped to [0, 1].
func NewMetal(albedo types.Vec3, fuzz float32) Material {
	if fuzz < 0 {
		fuzz = 0
	} else if fuzz > 1 {
		fuzz = 1
	}
	return Material{Type: Metal, Albedo: albedo, Fuzz: fuzz}
}

// Create a dielectric material with the given refraction index.
func NewDielectric(refIdx float32) Material {
	return Material{Type: Dielectric, RefIdx: refIdx}
}

// Scatter an incoming ray off a surface hit. It returns the attenuation that
// should be applied to the scattered ray's radiance and the scattered ray
// itself. When the material absorbs the ray the last return value is false.
func (m Material) Scatter(rng *rand.Rand, rayIn types.Ray, hit *HitRecord) (types.Vec3, types.Ray, bool) {
	switch m.Type {
	case Lambertian:
		scatterDir := hit.Normal.Add(types.RandomUnitVector(rng))
		if scatterDir.NearZero() {
			// Degenerate scatter direction; fall back to the normal
			scatterDir = hit.Normal
		}
		return m.Albedo, types.NewRay(hit.Point, scatterDir), true

	case Metal:
		reflected := types.Reflect(rayIn.Dir.Normalize(), hit.Normal)
		if m.Fuzz > 0 {
			reflected = reflected.Add(types.RandomInUnitSphere(rng).Mul(m.Fuzz))
		}
		if reflected.Dot(hit.Normal) <= 0 {
			// Fuzz pushed the reflection below the surface; absorb
			return types.Vec3{}, types.Ray{}, false
		}
		return m.Albedo, types.NewRay(hit.Point, reflected), true

	case Dielectric:
		attenuation := types.XYZ(1, 1, 1)
		refractionRatio := m.RefIdx
		if hit.FrontFace {
			refractionRatio = 1.0 / m.RefIdx
		}

		unitDir := rayIn.Dir.Normalize()
		cosTheta := unitDir.Neg().Dot(hit.Normal)
		if cosTheta > 1.0 {
			cosTheta = 1.0
		}
		sinTheta := float32(math.Sqrt(float64(1.0 - cosTheta*cosTheta)))

		var dir types.Vec3
		cannotRefract := refractionRatio*sinTheta > 1.0
		if cannotRefract || reflectance(cosTheta, refractionRatio) > rng.Float32() {
			dir = types.Reflect(unitDir, hit.Normal)
		} else {
			dir = types.Refract(unitDir, hit.Normal, refractionRatio)
		}
		return attenuation, types.NewRay(hit.Point, dir), true
	}

	return types.Vec3{}, types.Ray{}, false
}

// Schlick's approximation of the Fresnel reflectance for a dielectric surface.
func reflectance(cosine, refIdx float32) float32 {
	r0 := (1 - refIdx) / (1 + refIdx)
	r0 = r0 * r0
	return r0 + (1-r0)*float32(math.Pow(float64(1-cosine), 5))
}
