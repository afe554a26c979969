package game

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/tagarena/server/internal/core/clock"
	"github.com/tagarena/server/internal/core/event"
	"github.com/tagarena/server/internal/item"
	"github.com/tagarena/server/internal/sfx"
	"github.com/tagarena/server/internal/world"
)

// RoundPhase is the lifecycle state of the arena round.
type RoundPhase int

const (
	RoundIdle RoundPhase = iota
	RoundCountdown
	RoundRunning
	RoundOver
)

func (p RoundPhase) String() string {
	switch p {
	case RoundIdle:
		return "idle"
	case RoundCountdown:
		return "countdown"
	case RoundRunning:
		return "running"
	case RoundOver:
		return "over"
	}
	return "unknown"
}

// Role kits handed out at round start. Items missing from the registry are
// skipped with a warning so a trimmed-down ability table still starts.
var (
	hunterKit = []kitSlot{
		{AbilitySpeedBoost, 1},
		{AbilityTrackingCompass, 1},
		{AbilityBalloonGrenade, 3},
	}
	runnerKit = []kitSlot{
		{AbilitySpeedBoost, 1},
		{AbilityInvisibilityCloak, 1},
		{AbilitySmokeGrenade, 2},
	}
)

type kitSlot struct {
	defID string
	count int
}

// Round owns the tag round lifecycle: countdown head start, the running
// timer, tagging, and teardown. One Round instance lives for the whole
// server; Start rearms it.
type Round struct {
	deps *Deps
	rng  *rand.Rand

	phase         RoundPhase
	id            int64
	countdownLeft int
	ticksLeft     int
	durationTicks int
	hunterCount   int
	tags          int
	messages      *BusMessenger
}

func NewRound(deps *Deps) *Round {
	return &Round{
		deps:     deps,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		messages: NewBusMessenger(deps.Bus),
	}
}

func (r *Round) Phase() RoundPhase { return r.phase }
func (r *Round) ID() int64         { return r.id }
func (r *Round) Tags() int         { return r.tags }

// TicksLeft returns the remaining running time, in ticks.
func (r *Round) TicksLeft() int { return r.ticksLeft }

// Start arms a new round: picks hunters at random, hands out role kits and
// begins the countdown head start for the runners. A non-positive hunter
// count asks for the configured default.
func (r *Round) Start(hunterCount int) error {
	if r.phase == RoundCountdown || r.phase == RoundRunning {
		return fmt.Errorf("round already in progress")
	}
	if hunterCount <= 0 {
		hunterCount = r.deps.Config.Game.DefaultHunters
	}

	var players []*world.Player
	r.deps.World.AllPlayers(func(p *world.Player) {
		if p.Online {
			players = append(players, p)
		}
	})
	if hunterCount < 1 {
		return fmt.Errorf("need at least one hunter, got %d", hunterCount)
	}
	if hunterCount >= len(players) {
		return fmt.Errorf("need at least one runner: %d hunters, %d players", hunterCount, len(players))
	}

	r.rng.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})
	for i, p := range players {
		r.resetPlayer(p)
		if i < hunterCount {
			p.Role = world.RoleHunter
		} else {
			p.Role = world.RoleRunner
		}
		r.giveKit(p)
	}

	cfg := r.deps.Config.Game
	r.id++
	r.hunterCount = hunterCount
	r.tags = 0
	r.durationTicks = clock.SecondsToTicks(cfg.RoundSeconds)
	r.ticksLeft = r.durationTicks
	r.countdownLeft = clock.SecondsToTicks(cfg.CountdownSeconds)
	if r.countdownLeft > 0 {
		r.phase = RoundCountdown
	} else {
		r.phase = RoundRunning
	}

	event.Emit(r.deps.Bus, event.RoundStarted{RoundID: r.id, HunterCount: hunterCount})
	r.deps.Log.Info("round started",
		zap.Int64("round", r.id),
		zap.Int("players", len(players)),
		zap.Int("hunters", hunterCount),
		zap.String("countdown", clock.FormatSeconds(r.countdownLeft)))
	return nil
}

// Tick advances the round timers by one game tick.
func (r *Round) Tick() {
	switch r.phase {
	case RoundCountdown:
		r.countdownLeft--
		if r.countdownLeft <= 0 {
			r.phase = RoundRunning
			r.deps.World.AllPlayers(func(p *world.Player) {
				r.messages.Send(p.ID, "The hunt is on!")
			})
			r.deps.Log.Info("hunt released", zap.Int64("round", r.id))
		}
	case RoundRunning:
		r.ticksLeft--
		if r.ticksLeft <= 0 {
			r.End()
		}
	}
}

// UseHeldItem is the entry point for a player's use gesture on a held
// instance. During the countdown only runners may act; hunters are frozen.
func (r *Round) UseHeldItem(actorID uint64, instanceID item.InstanceID) bool {
	p := r.deps.World.Get(actorID)
	if p == nil || !p.Online {
		return false
	}
	switch r.phase {
	case RoundRunning:
	case RoundCountdown:
		if p.Role == world.RoleHunter {
			return false
		}
	default:
		return false
	}

	inst := p.Held(instanceID)
	if inst == nil || inst.Depleted() {
		return false
	}
	if !r.deps.Items.Use(inst, actorID) {
		return false
	}

	event.Emit(r.deps.Bus, event.AbilityUsed{
		ActorID:    actorID,
		ItemID:     inst.DefID,
		InstanceID: inst.ID.String(),
		Tick:       r.deps.Clock.Now(),
	})
	if inst.Depleted() && !r.deps.Scheduler.Active(inst.ID) {
		p.Drop(inst.ID)
	}
	return true
}

// Tag scores a catch: the runner joins the hunters and gets the hunter
// kit. The round ends early when no runner is left.
func (r *Round) Tag(hunterID, runnerID uint64) bool {
	if r.phase != RoundRunning {
		return false
	}
	hunter := r.deps.World.Get(hunterID)
	runner := r.deps.World.Get(runnerID)
	if hunter == nil || runner == nil {
		return false
	}
	if hunter.Role != world.RoleHunter || runner.Role != world.RoleRunner {
		return false
	}

	hunter.Tags++
	r.tags++
	r.retirePlayer(runner)
	runner.Role = world.RoleHunter
	r.giveKit(runner)

	r.deps.Effects.PlayFor(sfx.Tagged, runnerID)
	event.Emit(r.deps.Bus, event.PlayerTagged{
		HunterID: hunterID,
		RunnerID: runnerID,
		Tick:     r.deps.Clock.Now(),
	})
	r.deps.Log.Info("player tagged",
		zap.Int64("round", r.id),
		zap.String("hunter", hunter.Name),
		zap.String("runner", runner.Name))

	if r.runnersLeft() == 0 {
		r.End()
	}
	return true
}

// End tears the round down: every activity cancelled, every live
// projectile discarded, hands and cooldowns cleared.
func (r *Round) End() {
	if r.phase != RoundCountdown && r.phase != RoundRunning {
		return
	}
	elapsed := r.durationTicks - r.ticksLeft

	r.deps.Scheduler.CancelAll()
	r.deps.Physics.DiscardAll()
	r.deps.World.AllPlayers(func(p *world.Player) {
		r.resetPlayer(p)
		r.deps.Cooldowns.ClearActor(p.ID)
	})

	r.phase = RoundOver
	event.Emit(r.deps.Bus, event.RoundEnded{
		RoundID:       r.id,
		DurationTicks: elapsed,
		Tags:          r.tags,
	})
	r.deps.Log.Info("round ended",
		zap.Int64("round", r.id),
		zap.Int("tags", r.tags),
		zap.String("elapsed", clock.FormatSeconds(elapsed)))
	r.phase = RoundIdle
}

func (r *Round) runnersLeft() int {
	n := 0
	r.deps.World.AllPlayers(func(p *world.Player) {
		if p.Online && p.Role == world.RoleRunner {
			n++
		}
	})
	return n
}

// retirePlayer cancels the activities backed by a player's held items.
func (r *Round) retirePlayer(p *world.Player) {
	for _, inst := range p.HandItems() {
		r.deps.Scheduler.Cancel(inst.ID)
	}
	p.ClearHand()
}

func (r *Round) resetPlayer(p *world.Player) {
	r.retirePlayer(p)
	p.Role = world.RoleRunner
	p.SpeedLevel = 0
	p.Invisible = false
	p.SlowTicks = 0
	p.RevealTicks = 0
	p.Tags = 0
}

func (r *Round) giveKit(p *world.Player) {
	kit := runnerKit
	if p.Role == world.RoleHunter {
		kit = hunterKit
	}
	for _, slot := range kit {
		a := r.deps.Items.Get(slot.defID)
		if a == nil {
			r.deps.Log.Warn("kit item not registered", zap.String("id", slot.defID))
			continue
		}
		p.Give(item.NewInstanceN(a.Def, slot.count))
		r.deps.Log.Debug("kit item granted",
			zap.String("player", p.Name),
			zap.String("item", a.Def.Label()))
	}
}
