// Package item implements ability item templates and spawned instances.
// A Definition is an immutable template; every spawned Instance carries a
// process-unique identifier that all external mutable state keys off —
// never the Instance pointer itself, since the host may clone or
// re-materialize the presentation object backing it.
package item

import (
	"strings"

	"github.com/google/uuid"
)

// InstanceID is the process-unique identifier stamped on an item instance
// at spawn time. Immutable for the instance's lifetime, never reused.
type InstanceID uuid.UUID

// NewInstanceID generates a fresh instance identifier.
func NewInstanceID() InstanceID {
	return InstanceID(uuid.New())
}

func (id InstanceID) String() string {
	return uuid.UUID(id).String()
}

func (id InstanceID) IsZero() bool {
	return id == InstanceID(uuid.Nil)
}

// Definition is the immutable template an item instance is spawned from.
// One definition produces many instances.
type Definition struct {
	ID            string // normalized unique name
	DisplayName   string
	Icon          string // presentation type hint for the host
	Glow          bool
	CooldownTicks int
	DurationTicks int // < 0 = unbounded (continuous abilities only)
	Consumable    bool
	Level         int
	UseMessage    string // sent to the actor after a successful use; "" = none
	Muted         bool   // suppresses the default use acknowledgement effect
}

// NormalizeID derives a definition ID from a display name: lowercased,
// spaces replaced with underscores.
func NormalizeID(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Instance is one spawned, player-held item.
type Instance struct {
	DefID string
	ID    InstanceID
	Count int // remaining stack size
}

// NewInstance spawns a single-count instance of the given definition.
func NewInstance(def *Definition) *Instance {
	return NewInstanceN(def, 1)
}

// NewInstanceN spawns an instance with the given stack size.
func NewInstanceN(def *Definition, count int) *Instance {
	return &Instance{
		DefID: def.ID,
		ID:    NewInstanceID(),
		Count: count,
	}
}

// Depleted reports whether the stack has been fully consumed.
func (i *Instance) Depleted() bool {
	return i.Count <= 0
}
