package item

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tagarena/server/internal/sfx"
)

type fakeCooldowns struct {
	active map[string]int // "actor/def" → ticks
	sets   int
}

func newFakeCooldowns() *fakeCooldowns {
	return &fakeCooldowns{active: make(map[string]int)}
}

func (f *fakeCooldowns) key(actorID uint64, defID string) string {
	return fmt.Sprintf("%d/%s", actorID, defID)
}

func (f *fakeCooldowns) IsOnCooldown(actorID uint64, defID string) bool {
	return f.active[f.key(actorID, defID)] > 0
}

func (f *fakeCooldowns) SetCooldown(actorID uint64, defID string, ticks int) {
	f.active[f.key(actorID, defID)] = ticks
	f.sets++
}

type fakeMessenger struct {
	sent []string
}

func (f *fakeMessenger) Send(_ uint64, text string) {
	f.sent = append(f.sent, text)
}

type recordingSink struct {
	played []sfx.Effect
}

func (r *recordingSink) PlayFor(e sfx.Effect, _ uint64)    { r.played = append(r.played, e) }
func (r *recordingSink) PlayAt(e sfx.Effect, _ mgl64.Vec3) { r.played = append(r.played, e) }

func testDeps() (Deps, *fakeCooldowns, *fakeMessenger, *recordingSink) {
	cd := newFakeCooldowns()
	msg := &fakeMessenger{}
	snd := &recordingSink{}
	return Deps{Cooldowns: cd, Messages: msg, Effects: snd}, cd, msg, snd
}

func succeed(*Instance, uint64) bool { return true }
func decline(*Instance, uint64) bool { return false }

func TestUseCooldownGuard(t *testing.T) {
	deps, cd, _, _ := testDeps()
	def := &Definition{ID: "speed_boost", CooldownTicks: 40, Consumable: true}
	a := NewAbilityItem(def, succeed, deps)
	inst := NewInstanceN(def, 3)

	if !a.Use(inst, 1) {
		t.Fatal("first use should succeed")
	}
	if inst.Count != 2 {
		t.Fatalf("count = %d, want 2", inst.Count)
	}
	if !cd.IsOnCooldown(1, "speed_boost") {
		t.Fatal("cooldown not applied")
	}

	// On cooldown: pure no-op, nothing consumed, nothing re-applied.
	if a.Use(inst, 1) {
		t.Fatal("use during cooldown should fail")
	}
	if inst.Count != 2 {
		t.Fatalf("failed use consumed stack: count = %d", inst.Count)
	}
	if cd.sets != 1 {
		t.Fatalf("cooldown applied %d times, want 1", cd.sets)
	}
}

func TestUseZeroCooldownNeverApplied(t *testing.T) {
	for _, ticks := range []int{0, -1, -40} {
		deps, cd, _, _ := testDeps()
		def := &Definition{ID: "cloak", CooldownTicks: ticks}
		a := NewAbilityItem(def, succeed, deps)

		if !a.Use(NewInstance(def), 1) {
			t.Fatalf("cooldown %d: use should succeed", ticks)
		}
		if cd.sets != 0 {
			t.Fatalf("cooldown %d: cooldown applied", ticks)
		}
	}
}

func TestUseEffectDecline(t *testing.T) {
	deps, cd, msg, snd := testDeps()
	def := &Definition{ID: "compass", CooldownTicks: 20, Consumable: true, UseMessage: "ping"}
	a := NewAbilityItem(def, decline, deps)
	inst := NewInstanceN(def, 2)

	if a.Use(inst, 1) {
		t.Fatal("declined effect should fail the use")
	}
	if inst.Count != 2 || cd.sets != 0 || len(msg.sent) != 0 || len(snd.played) != 0 {
		t.Fatalf("declined use had side effects: count=%d sets=%d msgs=%v effects=%v",
			inst.Count, cd.sets, msg.sent, snd.played)
	}
}

func TestUseResponseMessageAndAcknowledgement(t *testing.T) {
	deps, _, msg, snd := testDeps()
	def := &Definition{ID: "grenade", UseMessage: "Throw it!"}
	a := NewAbilityItem(def, succeed, deps)

	a.Use(NewInstance(def), 1)
	if len(msg.sent) != 1 || msg.sent[0] != "Throw it!" {
		t.Fatalf("message not delivered: %v", msg.sent)
	}
	if len(snd.played) != 1 || snd.played[0] != sfx.Use {
		t.Fatalf("default use effect not played: %v", snd.played)
	}
}

func TestUseMuted(t *testing.T) {
	deps, _, msg, snd := testDeps()
	def := &Definition{ID: "cloak", Muted: true}
	a := NewAbilityItem(def, succeed, deps)

	a.Use(NewInstance(def), 1)
	if len(snd.played) != 0 {
		t.Fatalf("muted item played effects: %v", snd.played)
	}
	if len(msg.sent) != 0 {
		t.Fatalf("empty message was delivered: %v", msg.sent)
	}
}

func TestUseCooldownScenarioFortyTicks(t *testing.T) {
	// cooldown = 2.0s → 40 ticks; a second use 39 ticks later still fails,
	// 40 ticks later succeeds. The fake mirrors the world store's per-tick
	// decrement.
	deps, cd, _, _ := testDeps()
	def := &Definition{ID: "grenade", CooldownTicks: 40}
	a := NewAbilityItem(def, succeed, deps)
	inst := NewInstance(def)

	if !a.Use(inst, 1) {
		t.Fatal("first use should succeed")
	}

	tick := func(n int) {
		for k := range cd.active {
			if cd.active[k] > 0 {
				cd.active[k] -= n
			}
		}
	}

	tick(39)
	if a.Use(inst, 1) {
		t.Fatal("use after 39 ticks should still be on cooldown")
	}
	tick(1)
	if !a.Use(inst, 1) {
		t.Fatal("use after 40 ticks should succeed")
	}
}

func TestRegistryDispatch(t *testing.T) {
	deps, _, _, _ := testDeps()
	def := &Definition{ID: "speed_boost"}
	reg := NewRegistry()
	if err := reg.Register(NewAbilityItem(def, succeed, deps)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(NewAbilityItem(def, succeed, deps)); err == nil {
		t.Fatal("duplicate registration should error")
	}

	if !reg.Use(NewInstance(def), 1) {
		t.Fatal("registered item should dispatch")
	}
	unknown := &Instance{DefID: "nope", ID: NewInstanceID(), Count: 1}
	if reg.Use(unknown, 1) {
		t.Fatal("unknown definition should fail silently")
	}
}
