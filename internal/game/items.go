package game

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/tagarena/server/internal/ability"
	"github.com/tagarena/server/internal/core/clock"
	"github.com/tagarena/server/internal/core/event"
	"github.com/tagarena/server/internal/data"
	"github.com/tagarena/server/internal/item"
	"github.com/tagarena/server/internal/physics"
	"github.com/tagarena/server/internal/scripting"
	"github.com/tagarena/server/internal/sfx"
	"github.com/tagarena/server/internal/world"
)

// Well-known ability IDs. The behavior set is closed: configuration tunes
// numbers, it does not introduce new behaviors.
const (
	AbilitySpeedBoost        = "speed_boost"
	AbilityInvisibilityCloak = "invisibility_cloak"
	AbilityTrackingCompass   = "tracking_compass"
	AbilityBalloonGrenade    = "balloon_grenade"
	AbilitySmokeGrenade      = "smoke_grenade"
)

const defaultCompassMessage = "Nearest target: %s (%.0fm)"

// BuildItems constructs ability items from the loaded table and registers
// them. Invalid configuration fails the boot, never a later use.
func BuildItems(deps *Deps) error {
	itemDeps := item.Deps{
		Cooldowns: deps.Cooldowns,
		Messages:  NewBusMessenger(deps.Bus),
		Effects:   deps.Effects,
	}

	for _, entry := range deps.Abilities.All() {
		def := definitionFromEntry(entry)
		tuning := deps.Scripting.AbilityTuning(def.ID)
		if tuning != nil && tuning.Amplifier != 0 {
			def.Level += tuning.Amplifier
		}

		var effect item.EffectFunc
		var err error
		switch entry.Kind {
		case data.KindContinuous:
			effect, err = continuousEffect(deps, def, entry.Continuous, tuning)
		case data.KindProjectile:
			effect = projectileEffect(deps, def, entry.Projectile, tuning)
		case data.KindInstant:
			effect = func(inst *item.Instance, actorID uint64) bool {
				return deps.World.Get(actorID) != nil
			}
		}
		if err != nil {
			return fmt.Errorf("ability %q: %w", def.ID, err)
		}

		if err := deps.Items.Register(item.NewAbilityItem(def, effect, itemDeps)); err != nil {
			return err
		}
		deps.Log.Debug("ability item registered",
			zap.String("id", def.ID),
			zap.String("kind", entry.Kind))
	}
	return nil
}

func definitionFromEntry(e *data.AbilityEntry) *item.Definition {
	durationTicks := -1
	if e.Duration >= 0 {
		durationTicks = clock.SecondsToTicks(e.Duration)
	}
	return &item.Definition{
		ID:            e.ID,
		DisplayName:   e.Name,
		Icon:          e.Icon,
		Glow:          e.Glow,
		CooldownTicks: clock.SecondsToTicks(e.Cooldown),
		DurationTicks: durationTicks,
		Consumable:    e.Consumable,
		Level:         e.Level,
		UseMessage:    e.UseMessage,
		Muted:         e.Muted,
	}
}

// continuousEffect routes a successful use into the activity scheduler.
// Every activity announces its start and finish on the bus regardless of
// which ability it belongs to.
func continuousEffect(deps *Deps, def *item.Definition, cfg *data.ContinuousEntry, tuning *scripting.Tuning) (item.EffectFunc, error) {
	start := announcing(deps, startHooksFor(deps, def, tuning))
	spec, err := ability.NewSpec(def.DurationTicks, cfg.Cadence, cfg.Toggleable, start)
	if err != nil {
		return nil, err
	}
	return func(inst *item.Instance, actorID uint64) bool {
		if deps.World.Get(actorID) == nil {
			return false
		}
		return deps.Scheduler.OnUse(inst, actorID, spec)
	}, nil
}

// announcing wraps a start hook so the activity's start and finish are
// published as events around the ability's own hooks.
func announcing(deps *Deps, start ability.StartFunc) ability.StartFunc {
	return func(inst *item.Instance, actorID uint64) ability.Hooks {
		hooks := start(inst, actorID)
		instanceID := inst.ID.String()
		event.Emit(deps.Bus, event.ActivityStarted{ActorID: actorID, InstanceID: instanceID})

		finish := hooks.OnFinish
		hooks.OnFinish = func() {
			if finish != nil {
				finish()
			}
			event.Emit(deps.Bus, event.ActivityFinished{ActorID: actorID, InstanceID: instanceID})
		}
		return hooks
	}
}

// startHooksFor binds the per-ability continuous behavior. The effect is
// applied immediately at start, then re-asserted at every recalculation so
// external state churn cannot strip it for more than one cadence window.
func startHooksFor(deps *Deps, def *item.Definition, tuning *scripting.Tuning) ability.StartFunc {
	switch def.ID {
	case AbilitySpeedBoost:
		return func(inst *item.Instance, actorID uint64) ability.Hooks {
			apply := func() {
				if p := deps.World.Get(actorID); p != nil {
					p.SpeedLevel = def.Level
				}
			}
			apply()
			return ability.Hooks{
				OnCalculate: apply,
				OnFinish: func() {
					if p := deps.World.Get(actorID); p != nil {
						p.SpeedLevel = 0
					}
				},
			}
		}

	case AbilityInvisibilityCloak:
		return func(inst *item.Instance, actorID uint64) ability.Hooks {
			// A reveal debuff wins over the cloak until it runs out.
			apply := func() {
				if p := deps.World.Get(actorID); p != nil {
					p.Invisible = p.RevealTicks == 0
				}
			}
			apply()
			return ability.Hooks{
				OnCalculate: apply,
				OnFinish: func() {
					if p := deps.World.Get(actorID); p != nil {
						p.Invisible = false
					}
				},
			}
		}

	case AbilityTrackingCompass:
		format := defaultCompassMessage
		if tuning != nil && tuning.CompassMessage != "" {
			format = tuning.CompassMessage
		}
		messages := NewBusMessenger(deps.Bus)
		return func(inst *item.Instance, actorID uint64) ability.Hooks {
			ping := func() {
				p := deps.World.Get(actorID)
				if p == nil {
					return
				}
				target := deps.World.NearestOpponent(p)
				if target == nil || target.Invisible {
					messages.Send(actorID, "No trace of the other side.")
					return
				}
				messages.Send(actorID, fmt.Sprintf(format, target.Name, target.Pos.Sub(p.Pos).Len()))
			}
			ping()
			return ability.Hooks{OnCalculate: ping}
		}

	default:
		deps.Log.Warn("continuous ability without a bound behavior", zap.String("id", def.ID))
		return func(inst *item.Instance, actorID uint64) ability.Hooks {
			return ability.Hooks{}
		}
	}
}

// scaleTicks applies a power multiplier to a debuff duration, keeping a
// nonzero debuff nonzero.
func scaleTicks(ticks int, power float64) int {
	scaled := int(math.Round(float64(ticks) * power))
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}

// projectileEffect launches and configures a bouncy projectile. Detonation
// policy differs per ability: the balloon slows everyone caught in its
// radius and detonates on direct contact, the smoke reveals hidden players
// from its timed cloud, a direct smoke hit only bruises.
func projectileEffect(deps *Deps, def *item.Definition, cfg *data.ProjectileEntry, tuning *scripting.Tuning) item.EffectFunc {
	maxTicks := clock.SecondsToTicks(cfg.MaxExplosionTimer)
	groundTicks := clock.SecondsToTicks(cfg.GroundExplosionTimer)

	radius := cfg.Radius
	if tuning != nil && tuning.Radius > 0 {
		radius = tuning.Radius
	}
	// Power scales the debuff duration; 0 means the unscaled baseline.
	power := cfg.Power
	if tuning != nil && tuning.Power > 0 {
		power = tuning.Power
	}
	if power <= 0 {
		power = 1
	}

	blastEffect := sfx.Explosion
	var debuff func(*world.Player)
	switch def.ID {
	case AbilityBalloonGrenade:
		slowTicks := clock.SecondsToTicks(2)
		if tuning != nil && tuning.SlowSeconds > 0 {
			slowTicks = clock.SecondsToTicks(tuning.SlowSeconds)
		}
		slowTicks = scaleTicks(slowTicks, power)
		debuff = func(p *world.Player) {
			if slowTicks > p.SlowTicks {
				p.SlowTicks = slowTicks
			}
		}
	case AbilitySmokeGrenade:
		blastEffect = sfx.Smoke
		revealTicks := clock.SecondsToTicks(5)
		if tuning != nil && tuning.RevealSeconds > 0 {
			revealTicks = clock.SecondsToTicks(tuning.RevealSeconds)
		}
		revealTicks = scaleTicks(revealTicks, power)
		debuff = func(p *world.Player) {
			if revealTicks > p.RevealTicks {
				p.RevealTicks = revealTicks
			}
			p.Invisible = false
		}
	}

	blast := func(p *physics.Projectile) {
		if debuff != nil {
			for _, target := range deps.World.PlayersWithin(p.Position(), radius) {
				if target.ID == p.Owner() {
					continue
				}
				debuff(target)
			}
		}
		event.Emit(deps.Bus, event.ProjectileExploded{ItemID: def.ID, Position: p.Position()})
	}

	return func(inst *item.Instance, actorID uint64) bool {
		thrower := deps.World.Get(actorID)
		if thrower == nil {
			return false
		}

		proj := deps.Physics.Launch(thrower, def.ID, cfg.Speed, maxTicks, def.Icon)
		if cfg.Gravity > 0 {
			proj.SetGravity(cfg.Gravity)
		}
		proj.SetRestitutionFactor(cfg.Restitution)
		proj.SetFrictionFactor(cfg.Friction)
		if groundTicks > 0 {
			proj.SetGroundExplosionTimerTicks(groundTicks)
		}
		proj.SetTrail(cfg.Trail)
		proj.SetBounceMarks(cfg.BounceMarks)
		proj.SetGlowing(cfg.Glowing)
		proj.SetExplosionEffect(blastEffect)
		proj.SetOnExplode(blast)
		proj.SetOnHitEntity(func(p *physics.Projectile, targetID uint64) {
			event.Emit(deps.Bus, event.ProjectileHitEntity{
				ItemID:   def.ID,
				TargetID: targetID,
				Position: p.Position(),
			})
			if cfg.HitDetonates {
				deps.Effects.PlayAt(blastEffect, p.Position())
				blast(p)
			}
		})

		event.Emit(deps.Bus, event.ProjectileLaunched{
			ActorID: actorID,
			ItemID:  def.ID,
			Origin:  thrower.EyePosition(),
		})
		return true
	}
}
