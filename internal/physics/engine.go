// Package physics simulates bouncy projectiles on the game tick clock:
// gravity integration, restitution/friction bounce response, settle
// detection, and timed or contact detonation. The engine owns every live
// simulation and reports terminal events through per-launch callbacks.
package physics

import (
	"go.uber.org/zap"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tagarena/server/internal/sfx"
)

// Engine steps all live projectile simulations once per game tick.
// Single tick-thread access only.
type Engine struct {
	surface  Surface
	entities EntityIndex
	effects  sfx.Sink
	log      *zap.Logger

	pool        handlePool
	projectiles map[Handle]*Projectile
}

func NewEngine(surface Surface, entities EntityIndex, effects sfx.Sink, log *zap.Logger) *Engine {
	return &Engine{
		surface:     surface,
		entities:    entities,
		effects:     effects,
		log:         log,
		projectiles: make(map[Handle]*Projectile, 16),
	}
}

// Launch spawns a projectile along the thrower's aim direction at the given
// speed. The caller configures physics parameters and terminal callbacks on
// the returned projectile before the next engine tick.
func (e *Engine) Launch(owner Thrower, itemID string, speed float64, maxAirborneTicks int, appearance string) *Projectile {
	dir := owner.AimDirection()
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}

	p := &Projectile{
		handle:           e.pool.alloc(),
		ownerID:          owner.ActorID(),
		itemID:           itemID,
		pos:              owner.EyePosition(),
		vel:              dir.Mul(speed),
		gravity:          defaultGravity,
		restitution:      1,
		friction:         1,
		hitRadius:        defaultHitRadius,
		maxAirborneTicks: maxAirborneTicks,
		appearance:       appearance,
	}
	e.projectiles[p.handle] = p

	e.effects.PlayFor(sfx.Throw, p.ownerID)
	e.log.Debug("projectile launched",
		zap.String("item", itemID),
		zap.Uint64("owner", p.ownerID),
		zap.Float64("speed", speed),
		zap.Int("max_airborne_ticks", maxAirborneTicks))
	return p
}

// Get returns a live projectile by handle. Stale handles return false.
func (e *Engine) Get(h Handle) (*Projectile, bool) {
	p, ok := e.projectiles[h]
	return p, ok
}

// Alive reports whether a handle still refers to a live simulation.
func (e *Engine) Alive(h Handle) bool {
	return e.pool.alive(h)
}

// Count returns the number of live simulations.
func (e *Engine) Count() int {
	return len(e.projectiles)
}

// Tick advances every live projectile by one step. Handles are snapshotted
// so terminations (and launches) fired from callbacks never skip or
// double-process a sibling; projectiles spawned mid-tick first step on the
// following tick.
func (e *Engine) Tick() {
	handles := make([]Handle, 0, len(e.projectiles))
	for h := range e.projectiles {
		handles = append(handles, h)
	}
	for _, h := range handles {
		p, ok := e.projectiles[h]
		if !ok || p.done {
			continue
		}
		e.step(p)
		if p.done {
			e.remove(p)
		}
	}
}

func (e *Engine) step(p *Projectile) {
	// Forced timeout runs regardless of grounded state and wins ties with
	// the grounded timer.
	p.lifeTicks++
	if p.lifeTicks >= p.maxAirborneTicks {
		e.explode(p)
		return
	}

	if p.grounded {
		p.groundedTicks++
		if p.groundTimerTicks > 0 && p.groundedTicks >= p.groundTimerTicks {
			e.explode(p)
		}
		return
	}

	p.vel[1] -= p.gravity
	from := p.pos
	to := from.Add(p.vel)

	// Entity contact beats surface contact: a direct hit terminates the
	// simulation immediately.
	if target, ok := e.entities.FirstHit(from, to, p.hitRadius, p.ownerID); ok {
		p.done = true
		if p.onHitEntity != nil {
			p.onHitEntity(p, target)
		}
		return
	}

	if hit, ok := e.surface.Sweep(from, to); ok {
		e.bounce(p, hit)
	} else {
		p.pos = to
	}

	if p.trail {
		e.effects.PlayAt(sfx.Trail, p.pos)
	}
}

// bounce decomposes the velocity against the struck surface: the normal
// component is inverted and scaled by restitution, the tangential component
// scaled by friction. A slow landing on near-level ground settles the
// projectile and starts the grounded timer.
func (e *Engine) bounce(p *Projectile, hit Hit) {
	n := hit.Normal
	vn := n.Mul(p.vel.Dot(n))
	vt := p.vel.Sub(vn)
	p.vel = vt.Mul(p.friction).Sub(vn.Mul(p.restitution))
	p.pos = hit.Point

	if p.bounceMarks {
		e.effects.PlayAt(sfx.BounceMark, hit.Point)
	}

	if n.Y() >= upNormalY && p.vel.Len() < restSpeed {
		p.grounded = true
		p.groundedTicks = 0
		p.vel = mgl64.Vec3{}
	}
}

// explode detonates the projectile: cosmetic effect at the final position,
// then the OnExplode callback, exactly once.
func (e *Engine) explode(p *Projectile) {
	p.done = true
	if p.explosionEffect != "" {
		e.effects.PlayAt(p.explosionEffect, p.pos)
	}
	if p.onExplode != nil {
		p.onExplode(p)
	}
}

// Detonate forces an immediate detonation of a live projectile. The
// terminal callback has run by the time Detonate returns.
func (e *Engine) Detonate(h Handle) bool {
	p, ok := e.projectiles[h]
	if !ok || p.done {
		return false
	}
	e.explode(p)
	e.remove(p)
	return true
}

// Discard removes a live projectile without firing any terminal callback
// (round teardown).
func (e *Engine) Discard(h Handle) bool {
	p, ok := e.projectiles[h]
	if !ok {
		return false
	}
	p.done = true
	e.remove(p)
	return true
}

// DiscardAll silently removes every live simulation.
func (e *Engine) DiscardAll() {
	for h := range e.projectiles {
		e.Discard(h)
	}
}

func (e *Engine) remove(p *Projectile) {
	delete(e.projectiles, p.handle)
	e.pool.free(p.handle)
}
