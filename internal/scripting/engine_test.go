package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, script string) *Engine {
	t.Helper()
	dir := t.TempDir()
	itemDir := filepath.Join(dir, "item")
	if err := os.MkdirAll(itemDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(itemDir, "abilities.lua"), []byte(script), 0644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestAbilityTuning(t *testing.T) {
	e := newTestEngine(t, `
local tunings = {
  speed_boost = { amplifier = 2 },
  balloon_grenade = { radius = 3.5, power = 1.2, slow_seconds = 4 },
}

function get_ability_tuning(id)
  return tunings[id]
end
`)

	bg := e.AbilityTuning("balloon_grenade")
	if bg == nil {
		t.Fatal("balloon_grenade tuning missing")
	}
	if bg.Radius != 3.5 || bg.Power != 1.2 || bg.SlowSeconds != 4 {
		t.Fatalf("tuning = %+v", bg)
	}

	sb := e.AbilityTuning("speed_boost")
	if sb == nil || sb.Amplifier != 2 {
		t.Fatalf("speed_boost tuning = %+v", sb)
	}

	if e.AbilityTuning("unknown") != nil {
		t.Fatal("unknown id should return nil")
	}
}

func TestMissingScriptDirsAreSkipped(t *testing.T) {
	e, err := NewEngine(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("engine with no scripts: %v", err)
	}
	defer e.Close()

	if e.AbilityTuning("anything") != nil {
		t.Fatal("no scripts loaded, tuning should be nil")
	}
}
