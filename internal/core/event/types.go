package event

import "github.com/go-gl/mathgl/mgl64"

// Event payloads carried on the Bus. Actors are referenced by their
// process-unique player ID, items by definition ID and instance ID string;
// keeping these plain avoids dependencies back into the domain packages.

type AbilityUsed struct {
	ActorID    uint64
	ItemID     string // definition ID
	InstanceID string
	Tick       int64
}

type ActivityStarted struct {
	ActorID    uint64
	InstanceID string
}

type ActivityFinished struct {
	ActorID    uint64
	InstanceID string
}

type ProjectileLaunched struct {
	ActorID uint64
	ItemID  string
	Origin  mgl64.Vec3
}

type ProjectileExploded struct {
	ItemID   string
	Position mgl64.Vec3
}

type ProjectileHitEntity struct {
	ItemID   string
	TargetID uint64
	Position mgl64.Vec3
}

type EffectPlayed struct {
	Effect   string
	ActorID  uint64 // 0 when positional
	Position mgl64.Vec3
}

type MessageSent struct {
	ActorID uint64
	Text    string
}

type PlayerTagged struct {
	HunterID uint64
	RunnerID uint64
	Tick     int64
}

type RoundStarted struct {
	RoundID     int64
	HunterCount int
}

type RoundEnded struct {
	RoundID       int64
	DurationTicks int
	Tags          int
}
