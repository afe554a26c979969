package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Ability kinds. The set of behaviors is closed; the kind selects which
// effect wiring the game layer attaches to the definition.
const (
	KindInstant    = "instant"
	KindContinuous = "continuous"
	KindProjectile = "projectile"
)

// AbilityEntry holds one ability item template as configured.
type AbilityEntry struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Kind       string  `yaml:"kind"`
	Icon       string  `yaml:"icon"`     // presentation type hint for the host
	Glow       bool    `yaml:"glow"`     // enchanted-look flag
	Cooldown   float64 `yaml:"cooldown"` // seconds
	Duration   float64 `yaml:"duration"` // seconds; < 0 = unbounded
	Consumable bool    `yaml:"consumable"`
	Level      int     `yaml:"level"`
	UseMessage string  `yaml:"use_message"`
	Muted      bool    `yaml:"muted"`

	// Continuous abilities only.
	Continuous *ContinuousEntry `yaml:"continuous"`

	// Projectile abilities only.
	Projectile *ProjectileEntry `yaml:"projectile"`
}

// ContinuousEntry configures the continuous-use behavior of an ability.
type ContinuousEntry struct {
	Cadence    int  `yaml:"cadence"` // ticks between recalculations, must be > 0
	Toggleable bool `yaml:"toggleable"`
}

// ProjectileEntry configures a bouncy projectile launch.
type ProjectileEntry struct {
	Speed                float64 `yaml:"speed"`
	Gravity              float64 `yaml:"gravity"`
	Restitution          float64 `yaml:"restitution"`
	Friction             float64 `yaml:"friction"`
	MaxExplosionTimer    float64 `yaml:"max_explosion_timer"`    // seconds airborne before forced detonation
	GroundExplosionTimer float64 `yaml:"ground_explosion_timer"` // seconds resting before detonation
	Trail                bool    `yaml:"trail"`
	BounceMarks          bool    `yaml:"bounce_marks"`
	Glowing              bool    `yaml:"glowing"`
	Radius               float64 `yaml:"radius"`
	Power                float64 `yaml:"power"`
	HitDetonates         bool    `yaml:"hit_detonates"` // direct entity contact triggers the explosion hook
}

// AbilityTable holds all loaded ability templates indexed by ID.
type AbilityTable struct {
	abilities map[string]*AbilityEntry
	order     []string
}

// Get returns an ability by ID, or nil if not found.
func (t *AbilityTable) Get(id string) *AbilityEntry {
	return t.abilities[id]
}

// Count returns total loaded abilities.
func (t *AbilityTable) Count() int {
	return len(t.abilities)
}

// All returns all entries in file order.
func (t *AbilityTable) All() []*AbilityEntry {
	result := make([]*AbilityEntry, 0, len(t.order))
	for _, id := range t.order {
		result = append(result, t.abilities[id])
	}
	return result
}

// LoadAbilityTable reads ability item templates from a YAML file and
// validates them. Invalid configuration is a boot-time error, never a
// per-use one.
func LoadAbilityTable(path string) (*AbilityTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ability table %s: %w", path, err)
	}

	var file struct {
		Abilities []*AbilityEntry `yaml:"abilities"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse ability table %s: %w", path, err)
	}

	t := &AbilityTable{abilities: make(map[string]*AbilityEntry, len(file.Abilities))}
	for _, e := range file.Abilities {
		if err := validateEntry(e); err != nil {
			return nil, fmt.Errorf("ability %q: %w", e.ID, err)
		}
		if _, dup := t.abilities[e.ID]; dup {
			return nil, fmt.Errorf("ability %q: duplicate id", e.ID)
		}
		t.abilities[e.ID] = e
		t.order = append(t.order, e.ID)
	}
	return t, nil
}

func validateEntry(e *AbilityEntry) error {
	if e.ID == "" {
		return fmt.Errorf("missing id")
	}
	switch e.Kind {
	case KindInstant:
	case KindContinuous:
		if e.Continuous == nil {
			return fmt.Errorf("missing continuous block")
		}
		if e.Continuous.Cadence <= 0 {
			return fmt.Errorf("continuous cadence must be > 0, got %d", e.Continuous.Cadence)
		}
	case KindProjectile:
		if e.Projectile == nil {
			return fmt.Errorf("missing projectile block")
		}
		if e.Projectile.Speed <= 0 {
			return fmt.Errorf("projectile speed must be > 0, got %v", e.Projectile.Speed)
		}
		if e.Projectile.MaxExplosionTimer <= 0 {
			return fmt.Errorf("projectile max_explosion_timer must be > 0, got %v", e.Projectile.MaxExplosionTimer)
		}
	default:
		return fmt.Errorf("unknown kind %q", e.Kind)
	}
	return nil
}
