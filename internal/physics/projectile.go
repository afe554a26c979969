package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tagarena/server/internal/sfx"
)

// Defaults applied at launch; all tunable through the setters before the
// first tick is processed.
const (
	defaultGravity   = 0.05
	defaultHitRadius = 0.5

	// restSpeed is the combined-speed threshold below which a projectile
	// landing on an upward-facing surface is considered settled.
	restSpeed = 0.1

	// upNormalY: surfaces with a steeper normal than this count as ground
	// for rest detection (walls never settle a projectile).
	upNormalY = 0.7
)

// Projectile is the simulation state of one launch. Owned exclusively by
// the engine; terminal events are reported through the two callbacks and
// the state is not retained afterward.
type Projectile struct {
	handle  Handle
	ownerID uint64
	itemID  string

	pos mgl64.Vec3
	vel mgl64.Vec3

	gravity     float64
	restitution float64 // normal-velocity fraction kept per bounce
	friction    float64 // tangential-velocity fraction kept per contact
	hitRadius   float64

	maxAirborneTicks int // forced detonation timeout, counted from launch
	groundTimerTicks int // detonation delay after settling; 0 = disabled

	lifeTicks     int
	groundedTicks int // counts only while settled; reset on leaving ground
	grounded      bool

	trail       bool
	bounceMarks bool
	glowing     bool
	appearance  string

	explosionEffect sfx.Effect // "" = no cosmetic explosion
	onExplode       func(*Projectile)
	onHitEntity     func(*Projectile, uint64)

	done bool
}

// Handle returns the generational handle identifying this launch.
func (p *Projectile) Handle() Handle { return p.handle }

// Owner returns the actor ID that launched the projectile.
func (p *Projectile) Owner() uint64 { return p.ownerID }

// ItemID returns the definition ID of the launching item.
func (p *Projectile) ItemID() string { return p.itemID }

// Position returns the current simulated position.
func (p *Projectile) Position() mgl64.Vec3 { return p.pos }

// Velocity returns the current simulated velocity per tick.
func (p *Projectile) Velocity() mgl64.Vec3 { return p.vel }

// Grounded reports whether the projectile has settled on a surface.
func (p *Projectile) Grounded() bool { return p.grounded }

// GroundedTicks returns how long the projectile has been settled.
func (p *Projectile) GroundedTicks() int { return p.groundedTicks }

// Glowing reports the cosmetic glow flag for the presenter.
func (p *Projectile) Glowing() bool { return p.glowing }

// Appearance returns the display-item hint captured at launch.
func (p *Projectile) Appearance() string { return p.appearance }

// SetGravity sets the per-tick downward acceleration.
func (p *Projectile) SetGravity(g float64) { p.gravity = g }

// SetRestitutionFactor sets the bounce energy factor. Values outside [0, 1]
// are accepted as tuning knobs (energy gain or reversal), not errors.
func (p *Projectile) SetRestitutionFactor(r float64) { p.restitution = r }

// SetFrictionFactor sets the tangential energy factor on ground contact.
func (p *Projectile) SetFrictionFactor(f float64) { p.friction = f }

// SetGroundExplosionTimerTicks sets the settle-then-detonate delay.
// Zero or negative disables grounded detonation.
func (p *Projectile) SetGroundExplosionTimerTicks(ticks int) { p.groundTimerTicks = ticks }

// SetHitRadius sets the entity-contact sweep radius.
func (p *Projectile) SetHitRadius(r float64) { p.hitRadius = r }

// SetTrail toggles the per-tick cosmetic trail.
func (p *Projectile) SetTrail(on bool) { p.trail = on }

// SetBounceMarks toggles the cosmetic mark left at each bounce point.
func (p *Projectile) SetBounceMarks(on bool) { p.bounceMarks = on }

// SetGlowing toggles the cosmetic glow outline.
func (p *Projectile) SetGlowing(on bool) { p.glowing = on }

// SetExplosionEffect sets the cosmetic effect played at detonation.
func (p *Projectile) SetExplosionEffect(e sfx.Effect) { p.explosionEffect = e }

// SetOnExplode installs the detonation callback. Fires exactly once, and
// never after OnHitEntity has fired.
func (p *Projectile) SetOnExplode(fn func(*Projectile)) { p.onExplode = fn }

// SetOnHitEntity installs the direct-contact callback. Fires exactly once
// and terminates the simulation; whether a hit also detonates is the
// installing ability's policy, not the engine's.
func (p *Projectile) SetOnHitEntity(fn func(*Projectile, uint64)) { p.onHitEntity = fn }
