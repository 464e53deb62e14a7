package scene

import (
	"math/rand"

	"github.com/achilleasa/borealis/types"
)

// A generator for one of the built-in scenes.
type Generator struct {
	Name        string
	Description string
	Create      func(seed int64) *Scene
}

// The list of built-in scenes in display order.
func Generators() []Generator {
	return []Generator{
		{
			Name:        "one-weekend",
			Description: "random sphere field with glass, metal and diffuse materials",
			Create:      OneWeekend,
		},
		{
			Name:        "three-spheres",
			Description: "three large spheres over a diffuse ground plane sphere",
			Create:      func(int64) *Scene { return ThreeSpheres() },
		},
	}
}

// Look up a built-in scene generator by name.
func GeneratorByName(name string) (Generator, bool) {
	for _, gen := range Generators() {
		if gen.Name == name {
			return gen, true
		}
	}
	return Generator{}, false
}

// Generate the classic random sphere field. The ground and the three hero
// spheres are fixed; the small spheres are placed pseudo-randomly from the
// given seed, rejecting positions that would overlap already placed spheres.
func OneWeekend(seed int64) *Scene {
	rng := rand.New(rand.NewSource(seed))
	sc := New()

	type placed struct {
		center types.Vec3
		radius float32
	}
	placedSpheres := make([]placed, 0, 512)

	addSphere := func(center types.Vec3, radius float32, mat Material) {
		sc.AddSphere(NewSphere(center, radius, mat))
		placedSpheres = append(placedSpheres, placed{center, radius})
	}

	overlaps := func(center types.Vec3, radius float32) bool {
		for _, p := range placedSpheres {
			if p.center.Sub(center).Len() < p.radius+radius {
				return true
			}
		}
		return false
	}

	addSphere(types.XYZ(0, -1000, -1), 1000, NewLambertian(types.XYZ(0.5, 0.5, 0.5)))
	addSphere(types.XYZ(0, 1, 0), 1, NewDielectric(1.5))
	addSphere(types.XYZ(-4, 1, 0), 1, NewLambertian(types.XYZ(0.4, 0.2, 0.1)))
	addSphere(types.XYZ(4, 1, 0), 1, NewMetal(types.XYZ(0.7, 0.6, 0.5), 0))

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := rng.Float32()

			// Find a position which doesn't intersect any other sphere
			var center types.Vec3
			for {
				center = types.XYZ(
					float32(a)+0.9*rng.Float32(),
					0.2,
					float32(b)+0.9*rng.Float32(),
				)
				if !overlaps(center, 0.2) {
					break
				}
			}

			if center.Sub(types.XYZ(4, 0.2, 0)).Len() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.7:
				albedo := types.RandomVec3(rng, 0, 1)
				addSphere(center, 0.2, NewLambertian(albedo))
			case chooseMat < 0.95:
				albedo := types.RandomVec3(rng, 0.5, 1)
				fuzz := 0.5 * rng.Float32()
				addSphere(center, 0.2, NewMetal(albedo, fuzz))
			default:
				addSphere(center, 0.2, NewDielectric(1.5))
			}
		}
	}

	cam := NewCamera(20)
	cam.Position = types.XYZ(13, 2, 3)
	cam.LookAt = types.XYZ(0, 0, 0)
	cam.Aperture = 0.1
	cam.FocusDist = 10
	sc.Camera = cam

	return sc
}

// A small deterministic scene useful for smoke tests and quick renders.
func ThreeSpheres() *Scene {
	sc := New()

	sc.AddSphere(NewSphere(types.XYZ(0, -100.5, -1), 100, NewLambertian(types.XYZ(0.8, 0.8, 0.0))))
	sc.AddSphere(NewSphere(types.XYZ(0, 0, -1), 0.5, NewLambertian(types.XYZ(0.1, 0.2, 0.5))))
	sc.AddSphere(NewSphere(types.XYZ(-1, 0, -1), 0.5, NewDielectric(1.5)))
	sc.AddSphere(NewSphere(types.XYZ(1, 0, -1), 0.5, NewMetal(types.XYZ(0.8, 0.6, 0.2), 0.1)))

	cam := NewCamera(60)
	cam.Position = types.XYZ(0, 0, 1)
	cam.LookAt = types.XYZ(0, 0, -1)
	cam.FocusDist = 2
	sc.Camera = cam

	return sc
}
