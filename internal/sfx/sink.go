package sfx

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tagarena/server/internal/core/event"
)

// Sink receives effect playback requests. Implementations must be cheap and
// non-blocking; they run inside tick callbacks.
type Sink interface {
	// PlayFor plays an effect for (at) a specific player.
	PlayFor(e Effect, actorID uint64)
	// PlayAt plays an effect at a world position.
	PlayAt(e Effect, pos mgl64.Vec3)
}

// BusSink publishes effect requests onto the event bus for an external
// presenter to pick up on the next tick.
type BusSink struct {
	bus *event.Bus
}

func NewBusSink(bus *event.Bus) *BusSink {
	return &BusSink{bus: bus}
}

func (s *BusSink) PlayFor(e Effect, actorID uint64) {
	event.Emit(s.bus, event.EffectPlayed{Effect: string(e), ActorID: actorID})
}

func (s *BusSink) PlayAt(e Effect, pos mgl64.Vec3) {
	event.Emit(s.bus, event.EffectPlayed{Effect: string(e), Position: pos})
}

// NopSink discards all effects. Used when no presenter is attached.
type NopSink struct{}

func (NopSink) PlayFor(Effect, uint64)    {}
func (NopSink) PlayAt(Effect, mgl64.Vec3) {}
