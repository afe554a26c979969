// Package sfx defines the abstract effect-playback surface. The core never
// renders or plays anything itself; it names an effect and hands it to a
// Sink, leaving presentation to an external collaborator.
package sfx

// Effect identifies one cosmetic/audible effect.
type Effect string

const (
	Use        Effect = "use"        // default use acknowledgement
	Activate   Effect = "activate"   // continuous ability turned on
	Deactivate Effect = "deactivate" // continuous ability toggled off
	Throw      Effect = "throw"      // projectile launched
	Trail      Effect = "trail"      // per-tick projectile trail particle
	BounceMark Effect = "bounce_mark"
	Explosion  Effect = "explosion"
	Smoke      Effect = "smoke"
	Tagged     Effect = "tagged"
)
