package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tagarena/server/internal/physics"
)

// Arena is the solid geometry projectiles collide with: a flat floor and
// four vertical boundary walls. Implements physics.Surface.
type Arena struct {
	FloorY float64
	MinX   float64
	MaxX   float64
	MinZ   float64
	MaxZ   float64
}

func NewArena(floorY, minX, maxX, minZ, maxZ float64) *Arena {
	return &Arena{FloorY: floorY, MinX: minX, MaxX: maxX, MinZ: minZ, MaxZ: maxZ}
}

// Sweep tests the segment against the floor and wall planes and returns
// the earliest contact.
func (a *Arena) Sweep(from, to mgl64.Vec3) (physics.Hit, bool) {
	type plane struct {
		axis   int     // 0=X, 1=Y, 2=Z
		value  float64 // plane coordinate on that axis
		normal mgl64.Vec3
		inward bool // solid lies at coordinates below value
	}
	planes := []plane{
		{axis: 1, value: a.FloorY, normal: mgl64.Vec3{0, 1, 0}, inward: true},
		{axis: 0, value: a.MinX, normal: mgl64.Vec3{1, 0, 0}, inward: true},
		{axis: 0, value: a.MaxX, normal: mgl64.Vec3{-1, 0, 0}, inward: false},
		{axis: 2, value: a.MinZ, normal: mgl64.Vec3{0, 0, 1}, inward: true},
		{axis: 2, value: a.MaxZ, normal: mgl64.Vec3{0, 0, -1}, inward: false},
	}

	bestT := 2.0
	var best physics.Hit
	found := false

	for _, pl := range planes {
		f := from[pl.axis]
		t := to[pl.axis]
		var crosses bool
		if pl.inward {
			crosses = f >= pl.value && t < pl.value
		} else {
			crosses = f <= pl.value && t > pl.value
		}
		if !crosses {
			continue
		}
		tt := (f - pl.value) / (f - t)
		if tt < bestT {
			bestT = tt
			best = physics.Hit{
				Point:  from.Add(to.Sub(from).Mul(tt)),
				Normal: pl.normal,
			}
			found = true
		}
	}
	return best, found
}
