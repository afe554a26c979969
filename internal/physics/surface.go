package physics

import "github.com/go-gl/mathgl/mgl64"

// Hit describes a collision between a moving projectile and solid geometry.
type Hit struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3 // unit normal of the struck surface
}

// Surface is the solid-geometry collaborator. Sweep tests the segment
// from→to and returns the first contact, if any.
type Surface interface {
	Sweep(from, to mgl64.Vec3) (Hit, bool)
}

// EntityIndex is the target-entity collaborator. FirstHit returns the first
// entity whose hull intersects the swept segment, excluding the launcher.
type EntityIndex interface {
	FirstHit(from, to mgl64.Vec3, radius float64, exclude uint64) (uint64, bool)
}

// Thrower supplies the launch frame for a projectile.
type Thrower interface {
	ActorID() uint64
	EyePosition() mgl64.Vec3
	AimDirection() mgl64.Vec3
}
