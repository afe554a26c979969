// Package ability implements the continuous-use scheduler: a registry of at
// most one running activity per item instance, advanced by the game's tick
// driver. Activities are passive records; there are no self-scheduling
// timers.
package ability

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tagarena/server/internal/item"
	"github.com/tagarena/server/internal/sfx"
)

// Presence reports whether an actor is still reachable (online, in-world).
type Presence interface {
	Reachable(actorID uint64) bool
}

// Validity reports whether an item instance is still held by the actor and
// backed by a real, non-air item.
type Validity interface {
	HeldAndValid(actorID uint64, id item.InstanceID) bool
}

// Hooks are the callbacks of one in-flight activity. Any of them may be nil.
type Hooks struct {
	OnCalculate func() // at the recalculation cadence
	OnTick      func() // every tick
	OnFinish    func() // exactly once, on any form of termination
}

// StartFunc creates the hooks for a new activity when a use succeeds.
type StartFunc func(inst *item.Instance, actorID uint64) Hooks

// Spec describes the continuous behavior of one ability. Build it with
// NewSpec; a zero or negative cadence is invalid configuration.
type Spec struct {
	DurationTicks int // < 0 = unbounded
	Cadence       int // ticks between recalculations
	Toggleable    bool
	Start         StartFunc
}

// NewSpec validates the configuration. Called at boot; a failing spec must
// keep the ability item from being registered at all.
func NewSpec(durationTicks, cadence int, toggleable bool, start StartFunc) (Spec, error) {
	if cadence <= 0 {
		return Spec{}, fmt.Errorf("recalculation cadence must be > 0, got %d", cadence)
	}
	if start == nil {
		return Spec{}, fmt.Errorf("missing start hook")
	}
	return Spec{
		DurationTicks: durationTicks,
		Cadence:       cadence,
		Toggleable:    toggleable,
		Start:         start,
	}, nil
}

// Activity is one in-flight use of a continuous ability. Owned exclusively
// by the scheduler's registry entry for its instance ID.
type Activity struct {
	instanceID       item.InstanceID
	actorID          uint64
	durationTicks    int
	ticksLeft        int
	ticksUntilRecalc int
	cadence          int
	hooks            Hooks
}

// Scheduler drives all registered activities forward once per game tick.
// Single tick-thread access only; no locks.
type Scheduler struct {
	active   map[item.InstanceID]*Activity
	presence Presence
	validity Validity
	effects  sfx.Sink
	log      *zap.Logger
}

func NewScheduler(presence Presence, validity Validity, effects sfx.Sink, log *zap.Logger) *Scheduler {
	return &Scheduler{
		active:   make(map[item.InstanceID]*Activity, 16),
		presence: presence,
		validity: validity,
		effects:  effects,
		log:      log,
	}
}

// OnUse handles a successful use of a continuous ability item. If no
// activity is registered for the instance, one is created and the activate
// effect plays. If one is already running it is cancelled; for toggleable
// abilities the use stops there (pure toggle-off), otherwise a fresh
// activity replaces it (restart).
func (s *Scheduler) OnUse(inst *item.Instance, actorID uint64, spec Spec) bool {
	if a, ok := s.active[inst.ID]; ok {
		s.cancel(a)
		if spec.Toggleable {
			s.effects.PlayFor(sfx.Deactivate, actorID)
			return true
		}
	}

	s.active[inst.ID] = &Activity{
		instanceID:       inst.ID,
		actorID:          actorID,
		durationTicks:    spec.DurationTicks,
		ticksLeft:        spec.DurationTicks,
		ticksUntilRecalc: spec.Cadence,
		cadence:          spec.Cadence,
		hooks:            spec.Start(inst, actorID),
	}
	s.effects.PlayFor(sfx.Activate, actorID)
	s.log.Debug("continuous activity started",
		zap.String("instance", inst.ID.String()),
		zap.Uint64("actor", actorID),
		zap.Int("duration_ticks", spec.DurationTicks))
	return true
}

// Tick advances every registered activity by one tick. Keys are snapshotted
// first so a cancellation fired from inside a hook can never skip or
// double-process a sibling entry.
func (s *Scheduler) Tick() {
	keys := make([]item.InstanceID, 0, len(s.active))
	for id := range s.active {
		keys = append(keys, id)
	}
	for _, id := range keys {
		a, ok := s.active[id]
		if !ok {
			continue // cancelled by a sibling's hook this tick
		}
		s.step(a)
	}
}

func (s *Scheduler) step(a *Activity) {
	// Bounded duration: cancelling when the counter would go negative means
	// the tick hook runs exactly durationTicks times before the finish hook.
	if a.durationTicks >= 0 {
		if a.ticksLeft == 0 {
			s.cancel(a)
			return
		}
		a.ticksLeft--
	}

	a.ticksUntilRecalc--
	if a.ticksUntilRecalc <= 0 {
		a.ticksUntilRecalc = a.cadence

		// Stale references end the activity silently, never as an error.
		if !s.presence.Reachable(a.actorID) || !s.validity.HeldAndValid(a.actorID, a.instanceID) {
			s.cancel(a)
			return
		}
		if a.hooks.OnCalculate != nil {
			a.hooks.OnCalculate()
		}
	}

	if a.hooks.OnTick != nil {
		a.hooks.OnTick()
	}
}

// Cancel terminates the activity registered for the given instance, if any.
// Synchronous: the finish hook has run by the time Cancel returns.
func (s *Scheduler) Cancel(id item.InstanceID) bool {
	a, ok := s.active[id]
	if !ok {
		return false
	}
	s.cancel(a)
	return true
}

// CancelAll terminates every registered activity (round teardown).
func (s *Scheduler) CancelAll() {
	for id := range s.active {
		s.Cancel(id)
	}
}

// cancel removes the registry entry before running the finish hook, so a
// re-entrant Cancel from inside the hook is a no-op and the hook can never
// fire twice.
func (s *Scheduler) cancel(a *Activity) {
	delete(s.active, a.instanceID)
	if a.hooks.OnFinish != nil {
		a.hooks.OnFinish()
	}
	s.log.Debug("continuous activity finished",
		zap.String("instance", a.instanceID.String()),
		zap.Uint64("actor", a.actorID))
}

// Active reports whether an activity is registered for the instance.
func (s *Scheduler) Active(id item.InstanceID) bool {
	_, ok := s.active[id]
	return ok
}

// Len returns the number of registered activities.
func (s *Scheduler) Len() int {
	return len(s.active)
}
