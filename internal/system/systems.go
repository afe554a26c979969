// Package system holds the per-tick systems registered on the phase
// runner. Each one wraps a single collaborator and advances it exactly
// once per tick, in phase order.
package system

import (
	"time"

	"github.com/tagarena/server/internal/ability"
	"github.com/tagarena/server/internal/core/event"
	coresys "github.com/tagarena/server/internal/core/system"
	"github.com/tagarena/server/internal/game"
	"github.com/tagarena/server/internal/physics"
	"github.com/tagarena/server/internal/world"
)

// ClockSystem advances the logical tick index before anything else runs.
type ClockSystem struct {
	clock *game.Clock
}

func NewClockSystem(c *game.Clock) *ClockSystem { return &ClockSystem{clock: c} }
func (s *ClockSystem) Phase() coresys.Phase     { return coresys.PhaseInput }
func (s *ClockSystem) Update(time.Duration)     { s.clock.Advance() }

// EventDispatchSystem delivers last tick's events to their subscribers.
// Events emitted during dispatch land in the back buffer for next tick.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

// RoundSystem advances the round countdown and running timers.
type RoundSystem struct {
	round *game.Round
}

func NewRoundSystem(r *game.Round) *RoundSystem { return &RoundSystem{round: r} }
func (s *RoundSystem) Phase() coresys.Phase     { return coresys.PhaseUpdate }
func (s *RoundSystem) Update(time.Duration)     { s.round.Tick() }

// CooldownSystem ticks down every per-player item cooldown.
type CooldownSystem struct {
	cooldowns *world.CooldownStore
}

func NewCooldownSystem(c *world.CooldownStore) *CooldownSystem {
	return &CooldownSystem{cooldowns: c}
}

func (s *CooldownSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }
func (s *CooldownSystem) Update(time.Duration) { s.cooldowns.Tick() }

// AbilitySystem advances all running continuous activities.
type AbilitySystem struct {
	scheduler *ability.Scheduler
}

func NewAbilitySystem(sched *ability.Scheduler) *AbilitySystem {
	return &AbilitySystem{scheduler: sched}
}

func (s *AbilitySystem) Phase() coresys.Phase { return coresys.PhaseUpdate }
func (s *AbilitySystem) Update(time.Duration) { s.scheduler.Tick() }

// ProjectileSystem steps all live projectile simulations.
type ProjectileSystem struct {
	engine *physics.Engine
}

func NewProjectileSystem(e *physics.Engine) *ProjectileSystem {
	return &ProjectileSystem{engine: e}
}

func (s *ProjectileSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }
func (s *ProjectileSystem) Update(time.Duration) { s.engine.Tick() }

// DebuffSystem ticks down the slow and reveal debuffs applied by grenade
// blasts. Runs after the update phase so a debuff applied this tick lasts
// its full duration.
type DebuffSystem struct {
	world *world.State
}

func NewDebuffSystem(w *world.State) *DebuffSystem { return &DebuffSystem{world: w} }
func (s *DebuffSystem) Phase() coresys.Phase       { return coresys.PhasePostUpdate }

func (s *DebuffSystem) Update(time.Duration) {
	s.world.AllPlayers(func(p *world.Player) {
		if p.SlowTicks > 0 {
			p.SlowTicks--
		}
		if p.RevealTicks > 0 {
			p.RevealTicks--
		}
	})
}

// CleanupSystem drops players that have gone offline. Their activities end
// at the scheduler's next reachability check; their cooldowns go with them.
type CleanupSystem struct {
	world     *world.State
	cooldowns *world.CooldownStore
}

func NewCleanupSystem(w *world.State, c *world.CooldownStore) *CleanupSystem {
	return &CleanupSystem{world: w, cooldowns: c}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(time.Duration) {
	var stale []uint64
	s.world.AllPlayers(func(p *world.Player) {
		if !p.Online {
			stale = append(stale, p.ID)
		}
	})
	for _, id := range stale {
		s.cooldowns.ClearActor(id)
		s.world.RemovePlayer(id)
	}
}
