package scene

import (
	"math"
	"math/rand"

	"github.com/achilleasa/borealis/types"
)

// Camera movement directions for interactive controls.
type CameraDirection uint8

const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
)

// A thin-lens camera. The exported fields describe the camera placement and
// lens; the cached viewport basis is recomputed by Update whenever they
// change. Once rendering starts the camera must be treated as read-only.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3
	Pitch    float32
	Yaw      float32

	// Vertical field of view in degrees.
	FOV float32

	// Lens aperture diameter; 0 disables depth of field and makes ray
	// generation fully deterministic.
	Aperture float32

	// Distance to the plane of perfect focus.
	FocusDist float32

	// Cached viewport frame.
	aspect     float32
	lensRadius float32
	u, v, w    types.Vec3
	lowerLeft  types.Vec3
	horizontal types.Vec3
	vertical   types.Vec3
}

// Create a camera with the given vertical field of view (in degrees).
func NewCamera(fov float32) *Camera {
	return &Camera{
		Position:  types.Vec3{0, 0, 0},
		LookAt:    types.Vec3{0, 0, -1},
		Up:        types.Vec3{0, 1, 0},
		FOV:       fov,
		FocusDist: 1.0,
	}
}

// Setup camera viewport for the given aspect ratio.
func (c *Camera) SetupProjection(aspect float32) {
	c.aspect = aspect
	c.Update()
}

// Update recomputes the viewport basis from the camera placement. Any
// accumulated pitch/yaw deltas from interactive controls are folded into the
// look-at point and reset.
func (c *Camera) Update() {
	dir := c.LookAt.Sub(c.Position).Normalize()

	if c.Pitch != 0 || c.Yaw != 0 {
		pitchAxis := dir.Cross(c.Up)
		pitchQuat := types.QuatFromAxisAngle(pitchAxis, c.Pitch)
		yawQuat := types.QuatFromAxisAngle(c.Up, c.Yaw)

		orientQuat := pitchQuat.Mul(yawQuat).Normalize()
		dir = orientQuat.Rotate(dir).Normalize()
		c.LookAt = c.Position.Add(dir)
		c.Pitch = 0
		c.Yaw = 0
	}

	theta := float64(c.FOV) * math.Pi / 180.0
	halfHeight := float32(math.Tan(theta * 0.5))
	viewportHeight := 2.0 * halfHeight
	viewportWidth := c.aspect * viewportHeight

	c.w = c.Position.Sub(c.LookAt).Normalize()
	c.u = c.Up.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	c.horizontal = c.u.Mul(viewportWidth * c.FocusDist)
	c.vertical = c.v.Mul(viewportHeight * c.FocusDist)
	c.lowerLeft = c.Position.
		Sub(c.horizontal.Mul(0.5)).
		Sub(c.vertical.Mul(0.5)).
		Sub(c.w.Mul(c.FocusDist))

	c.lensRadius = c.Aperture * 0.5
}

// Move the camera towards the given direction, dragging the look-at point
// along with it.
func (c *Camera) Move(dir CameraDirection, amount float32) {
	var delta types.Vec3
	viewDir := c.LookAt.Sub(c.Position).Normalize()

	switch dir {
	case Forward:
		delta = viewDir.Mul(amount)
	case Backward:
		delta = viewDir.Mul(-amount)
	case Left:
		delta = viewDir.Cross(c.Up).Normalize().Mul(-amount)
	case Right:
		delta = viewDir.Cross(c.Up).Normalize().Mul(amount)
	}

	c.Position = c.Position.Add(delta)
	c.LookAt = c.LookAt.Add(delta)
	c.Update()
}

// Generate a ray through the normalized image plane coordinates (s, t) where
// both lie in [0, 1] and t grows towards the top of the frame. When the
// aperture is non-zero the ray origin is jittered within the lens disk to
// produce depth of field.
func (c *Camera) GetRay(rng *rand.Rand, s, t float32) types.Ray {
	origin := c.Position
	if c.lensRadius > 0 {
		rd := types.RandomInUnitDisk(rng).Mul(c.lensRadius)
		origin = origin.Add(c.u.Mul(rd[0])).Add(c.v.Mul(rd[1]))
	}

	dir := c.lowerLeft.
		Add(c.horizontal.Mul(s)).
		Add(c.vertical.Mul(t)).
		Sub(origin)

	return types.NewRay(origin, dir)
}
