// Package game wires the ability-item core into a playable tag round: it
// builds the closed set of ability items from configuration, hands out
// role kits, and drives the round lifecycle.
package game

import (
	"go.uber.org/zap"

	"github.com/tagarena/server/internal/ability"
	"github.com/tagarena/server/internal/config"
	"github.com/tagarena/server/internal/core/event"
	"github.com/tagarena/server/internal/data"
	"github.com/tagarena/server/internal/item"
	"github.com/tagarena/server/internal/physics"
	"github.com/tagarena/server/internal/scripting"
	"github.com/tagarena/server/internal/sfx"
	"github.com/tagarena/server/internal/world"
)

// Clock is the monotonically increasing logical tick index, advanced once
// per tick by the input-phase clock system.
type Clock struct {
	now int64
}

func (c *Clock) Now() int64 { return c.now }
func (c *Clock) Advance()   { c.now++ }

// Deps bundles the collaborators shared by the game layer.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	Clock     *Clock
	Bus       *event.Bus
	World     *world.State
	Arena     *world.Arena
	Cooldowns *world.CooldownStore
	Effects   sfx.Sink
	Scheduler *ability.Scheduler
	Physics   *physics.Engine
	Scripting *scripting.Engine
	Abilities *data.AbilityTable
	Items     *item.Registry
}

// BusMessenger delivers player messages as events for an external
// presenter. Implements item.Messenger.
type BusMessenger struct {
	bus *event.Bus
}

func NewBusMessenger(bus *event.Bus) *BusMessenger {
	return &BusMessenger{bus: bus}
}

func (m *BusMessenger) Send(actorID uint64, text string) {
	event.Emit(m.bus, event.MessageSent{ActorID: actorID, Text: text})
}
