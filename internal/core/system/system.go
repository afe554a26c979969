package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain player commands
	PhasePreUpdate               // 1: dispatch last tick's events
	PhaseUpdate                  // 2: round, abilities, projectiles, timers
	PhasePostUpdate              // 3: derived state (bounds, visibility)
	PhasePersist                 // 4: batch stats flush
	PhaseCleanup                 // 5: drop stale per-player state
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
