package item

import "github.com/tagarena/server/internal/sfx"

// CooldownService is the host-side per-player, per-definition cooldown
// store. The ability item only reads and writes through it, never caching.
type CooldownService interface {
	IsOnCooldown(actorID uint64, defID string) bool
	SetCooldown(actorID uint64, defID string, ticks int)
}

// Messenger delivers a chat-style message to a player.
type Messenger interface {
	Send(actorID uint64, text string)
}

// Deps bundles the collaborator surfaces every ability item uses.
type Deps struct {
	Cooldowns CooldownService
	Messages  Messenger
	Effects   sfx.Sink
}

// EffectFunc performs the ability-specific effect of an item and reports
// whether the use succeeded. The set of effects is closed and wired at
// boot; there is no subclassing.
type EffectFunc func(inst *Instance, actorID uint64) bool

// AbilityItem wraps a Definition with its effect hook and the cooldown /
// consumable / message / acknowledgement contract around it.
type AbilityItem struct {
	Def    *Definition
	effect EffectFunc
	deps   Deps
}

func NewAbilityItem(def *Definition, effect EffectFunc, deps Deps) *AbilityItem {
	return &AbilityItem{Def: def, effect: effect, deps: deps}
}

// Use attempts to trigger the item's ability for the given actor. Guards
// run in order: cooldown, then the effect hook. A failed guard is a no-op
// returning false — no stack consumed, no cooldown applied, no message.
func (a *AbilityItem) Use(inst *Instance, actorID uint64) bool {
	if a.deps.Cooldowns.IsOnCooldown(actorID, a.Def.ID) {
		return false
	}
	if !a.effect(inst, actorID) {
		return false
	}

	if a.Def.Consumable {
		inst.Count--
	}
	if a.Def.CooldownTicks > 0 {
		a.deps.Cooldowns.SetCooldown(actorID, a.Def.ID, a.Def.CooldownTicks)
	}
	if a.Def.UseMessage != "" {
		a.deps.Messages.Send(actorID, a.Def.UseMessage)
	}
	if !a.Def.Muted {
		a.deps.Effects.PlayFor(sfx.Use, actorID)
	}
	return true
}
