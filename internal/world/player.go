package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tagarena/server/internal/item"
)

// Role of a player within a round.
type Role int

const (
	RoleRunner Role = iota
	RoleHunter
)

const (
	eyeHeight    = 1.6
	centerHeight = 0.9
	bodyRadius   = 0.4
)

// Player holds in-memory data for a player currently in-world.
// Accessed only from the game loop goroutine — no locks needed.
type Player struct {
	ID     uint64
	Name   string
	Online bool
	Role   Role

	Pos mgl64.Vec3
	Aim mgl64.Vec3 // unit aim direction

	// Ability-driven state, recalculated or decremented by tick systems.
	SpeedLevel  int  // movement speed modifier level (0 = normal)
	Invisible   bool // hidden from opponents while a cloak activity runs
	SlowTicks   int  // remaining slow debuff from a balloon hit
	RevealTicks int  // remaining forced-visibility from a smoke hit

	Tags int // tags scored this round (hunters)

	hand []*item.Instance
}

// ActorID implements physics.Thrower.
func (p *Player) ActorID() uint64 { return p.ID }

// EyePosition implements physics.Thrower.
func (p *Player) EyePosition() mgl64.Vec3 {
	return p.Pos.Add(mgl64.Vec3{0, eyeHeight, 0})
}

// AimDirection implements physics.Thrower.
func (p *Player) AimDirection() mgl64.Vec3 { return p.Aim }

// Center returns the body center used for projectile contact tests.
func (p *Player) Center() mgl64.Vec3 {
	return p.Pos.Add(mgl64.Vec3{0, centerHeight, 0})
}

// Give places an item instance in the player's hand slots.
func (p *Player) Give(inst *item.Instance) {
	p.hand = append(p.hand, inst)
}

// Drop removes the instance with the given ID, if held.
func (p *Player) Drop(id item.InstanceID) {
	for i, inst := range p.hand {
		if inst.ID == id {
			p.hand = append(p.hand[:i], p.hand[i+1:]...)
			return
		}
	}
}

// ClearHand removes every held instance (round teardown).
func (p *Player) ClearHand() {
	p.hand = nil
}

// Held returns the instance with the given ID, or nil.
func (p *Player) Held(id item.InstanceID) *item.Instance {
	for _, inst := range p.hand {
		if inst.ID == id {
			return inst
		}
	}
	return nil
}

// IsHolding reports whether the player still holds a non-depleted instance
// with the given ID. Depleted stacks behave like air: they no longer back
// a running activity.
func (p *Player) IsHolding(id item.InstanceID) bool {
	inst := p.Held(id)
	return inst != nil && !inst.Depleted()
}

// HandItems returns the held instances (read-only use).
func (p *Player) HandItems() []*item.Instance {
	return p.hand
}
