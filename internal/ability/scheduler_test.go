package ability

import (
	"testing"

	"go.uber.org/zap"

	"github.com/tagarena/server/internal/item"
	"github.com/tagarena/server/internal/sfx"
)

type fakeWorld struct {
	reachable map[uint64]bool
	held      map[item.InstanceID]bool
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		reachable: make(map[uint64]bool),
		held:      make(map[item.InstanceID]bool),
	}
}

func (w *fakeWorld) Reachable(actorID uint64) bool {
	return w.reachable[actorID]
}

func (w *fakeWorld) HeldAndValid(_ uint64, id item.InstanceID) bool {
	return w.held[id]
}

type counts struct {
	calc, tick, finish int
}

func countingStart(c *counts) StartFunc {
	return func(*item.Instance, uint64) Hooks {
		return Hooks{
			OnCalculate: func() { c.calc++ },
			OnTick:      func() { c.tick++ },
			OnFinish:    func() { c.finish++ },
		}
	}
}

func newTestScheduler(t *testing.T) (*Scheduler, *fakeWorld) {
	t.Helper()
	w := newFakeWorld()
	return NewScheduler(w, w, sfx.NopSink{}, zap.NewNop()), w
}

func spawn(t *testing.T, w *fakeWorld, actorID uint64) *item.Instance {
	t.Helper()
	inst := item.NewInstance(&item.Definition{ID: "test_ability"})
	w.reachable[actorID] = true
	w.held[inst.ID] = true
	return inst
}

func mustSpec(t *testing.T, duration, cadence int, toggleable bool, start StartFunc) Spec {
	t.Helper()
	spec, err := NewSpec(duration, cadence, toggleable, start)
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	return spec
}

func TestNewSpecRejectsBadCadence(t *testing.T) {
	start := func(*item.Instance, uint64) Hooks { return Hooks{} }
	for _, cadence := range []int{0, -1} {
		if _, err := NewSpec(100, cadence, false, start); err == nil {
			t.Errorf("cadence %d: expected error", cadence)
		}
	}
	if _, err := NewSpec(100, 10, false, nil); err == nil {
		t.Error("nil start hook: expected error")
	}
}

func TestAtMostOneActivityPerInstance(t *testing.T) {
	s, w := newTestScheduler(t)
	inst := spawn(t, w, 1)
	var c counts
	spec := mustSpec(t, -1, 10, false, countingStart(&c))

	s.OnUse(inst, 1, spec)
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}

	// Non-toggleable second use restarts: still exactly one entry, and the
	// old activity finished exactly once.
	s.OnUse(inst, 1, spec)
	if s.Len() != 1 {
		t.Fatalf("after restart: len = %d, want 1", s.Len())
	}
	if c.finish != 1 {
		t.Fatalf("finish = %d, want 1", c.finish)
	}
	if !s.Active(inst.ID) {
		t.Fatal("restarted activity not active")
	}
}

func TestToggleCancel(t *testing.T) {
	s, w := newTestScheduler(t)
	inst := spawn(t, w, 1)
	var c counts
	spec := mustSpec(t, -1, 10, true, countingStart(&c))

	s.OnUse(inst, 1, spec)
	if !s.Active(inst.ID) {
		t.Fatal("activity should be active")
	}

	// One toggle cancels and registers nothing new.
	s.OnUse(inst, 1, spec)
	if s.Active(inst.ID) || s.Len() != 0 {
		t.Fatal("toggle-off left an activity registered")
	}
	if c.finish != 1 {
		t.Fatalf("finish = %d, want 1", c.finish)
	}

	// Toggle twice more with no ticks between: back to Idle, one more
	// finish invocation for the second cancellation.
	s.OnUse(inst, 1, spec)
	s.OnUse(inst, 1, spec)
	if s.Len() != 0 {
		t.Fatalf("len = %d, want 0", s.Len())
	}
	if c.finish != 2 {
		t.Fatalf("finish = %d, want 2", c.finish)
	}
}

func TestBoundedDurationRecalcCount(t *testing.T) {
	// Duration D, cadence C: recalculation fires exactly ⌊D/C⌋ times, the
	// tick hook D times, then the finish hook.
	cases := []struct {
		duration, cadence int
		wantCalc          int
	}{
		{30, 10, 3},
		{35, 10, 3},
		{10, 10, 1},
		{9, 10, 0},
		{40, 7, 5},
	}
	for _, tc := range cases {
		s, w := newTestScheduler(t)
		inst := spawn(t, w, 1)
		var c counts
		s.OnUse(inst, 1, mustSpec(t, tc.duration, tc.cadence, false, countingStart(&c)))

		for i := 0; i < tc.duration+1; i++ {
			s.Tick()
		}

		if c.calc != tc.wantCalc {
			t.Errorf("D=%d C=%d: calc = %d, want %d", tc.duration, tc.cadence, c.calc, tc.wantCalc)
		}
		if c.tick != tc.duration {
			t.Errorf("D=%d C=%d: tick = %d, want %d", tc.duration, tc.cadence, c.tick, tc.duration)
		}
		if c.finish != 1 {
			t.Errorf("D=%d C=%d: finish = %d, want 1", tc.duration, tc.cadence, c.finish)
		}
		if s.Len() != 0 {
			t.Errorf("D=%d C=%d: dangling registry entry", tc.duration, tc.cadence)
		}
	}
}

func TestUnboundedActivityScenario(t *testing.T) {
	// duration = -1 (unbounded), cadence = 10, toggleable: after 35 ticks
	// recalculation has fired exactly 3 times (ticks 10, 20, 30) and the
	// activity is still active; a toggle then cancels with exactly one
	// finish invocation.
	s, w := newTestScheduler(t)
	inst := spawn(t, w, 1)
	var c counts
	spec := mustSpec(t, -1, 10, true, countingStart(&c))

	s.OnUse(inst, 1, spec)
	for i := 0; i < 35; i++ {
		s.Tick()
	}

	if c.calc != 3 {
		t.Fatalf("calc = %d, want 3", c.calc)
	}
	if !s.Active(inst.ID) {
		t.Fatal("unbounded activity expired")
	}

	s.OnUse(inst, 1, spec)
	if c.finish != 1 {
		t.Fatalf("finish = %d, want 1", c.finish)
	}
	if s.Active(inst.ID) {
		t.Fatal("activity still registered after toggle")
	}
}

func TestStaleActorCancelsAtRecalcBoundary(t *testing.T) {
	s, w := newTestScheduler(t)
	inst := spawn(t, w, 1)
	var c counts
	s.OnUse(inst, 1, mustSpec(t, -1, 5, false, countingStart(&c)))

	for i := 0; i < 4; i++ {
		s.Tick()
	}
	w.reachable[1] = false

	// The stale check runs at the recalculation boundary (tick 5): cancel
	// silently, no recalculation, no tick hook that cycle.
	s.Tick()
	if s.Len() != 0 {
		t.Fatal("stale activity not cancelled")
	}
	if c.calc != 0 {
		t.Fatalf("calc = %d, want 0", c.calc)
	}
	if c.tick != 4 {
		t.Fatalf("tick = %d, want 4", c.tick)
	}
	if c.finish != 1 {
		t.Fatalf("finish = %d, want 1", c.finish)
	}
}

func TestLostItemCancelsAtRecalcBoundary(t *testing.T) {
	s, w := newTestScheduler(t)
	inst := spawn(t, w, 1)
	var c counts
	s.OnUse(inst, 1, mustSpec(t, -1, 5, false, countingStart(&c)))

	w.held[inst.ID] = false
	for i := 0; i < 5; i++ {
		s.Tick()
	}

	if s.Len() != 0 || c.finish != 1 {
		t.Fatalf("lost item: len=%d finish=%d", s.Len(), c.finish)
	}
}

func TestCancelIsSynchronousAndIdempotent(t *testing.T) {
	s, w := newTestScheduler(t)
	inst := spawn(t, w, 1)

	finished := 0
	spec := mustSpec(t, -1, 10, false, func(*item.Instance, uint64) Hooks {
		return Hooks{OnFinish: func() { finished++ }}
	})
	s.OnUse(inst, 1, spec)

	if !s.Cancel(inst.ID) {
		t.Fatal("cancel of active instance should report true")
	}
	if finished != 1 {
		t.Fatalf("finish hook not run synchronously: %d", finished)
	}
	if s.Cancel(inst.ID) {
		t.Fatal("second cancel should be a no-op")
	}
	if finished != 1 {
		t.Fatalf("finish = %d, want 1", finished)
	}
}

func TestReentrantCancelFromFinishHook(t *testing.T) {
	s, w := newTestScheduler(t)
	inst := spawn(t, w, 1)

	finished := 0
	spec := mustSpec(t, -1, 10, false, func(i *item.Instance, _ uint64) Hooks {
		return Hooks{OnFinish: func() {
			finished++
			s.Cancel(i.ID) // must be a no-op, not a second finish
		}}
	})
	s.OnUse(inst, 1, spec)
	s.Cancel(inst.ID)

	if finished != 1 {
		t.Fatalf("finish = %d, want 1", finished)
	}
}

func TestCancelWhileTickingDoesNotSkipSiblings(t *testing.T) {
	s, w := newTestScheduler(t)

	// Three activities; the first one ticked cancels all others from its
	// hook. Every sibling still either ticks or finishes — none is
	// processed twice and none dangles.
	var instances []*item.Instance
	for i := 0; i < 3; i++ {
		instances = append(instances, spawn(t, w, uint64(i+1)))
	}

	ticked := 0
	finished := 0
	spec := mustSpec(t, -1, 100, false, func(i *item.Instance, _ uint64) Hooks {
		return Hooks{
			OnTick: func() {
				ticked++
				for _, other := range instances {
					if other.ID != i.ID {
						s.Cancel(other.ID)
					}
				}
			},
			OnFinish: func() { finished++ },
		}
	})
	for i, inst := range instances {
		s.OnUse(inst, uint64(i+1), spec)
	}

	s.Tick()

	if ticked != 1 {
		t.Fatalf("ticked = %d, want 1", ticked)
	}
	if finished != 2 {
		t.Fatalf("finished = %d, want 2", finished)
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
}

func TestCancelAll(t *testing.T) {
	s, w := newTestScheduler(t)
	var c counts
	spec := mustSpec(t, -1, 10, false, countingStart(&c))
	for i := 0; i < 4; i++ {
		s.OnUse(spawn(t, w, uint64(i+1)), uint64(i+1), spec)
	}

	s.CancelAll()
	if s.Len() != 0 {
		t.Fatalf("len = %d, want 0", s.Len())
	}
	if c.finish != 4 {
		t.Fatalf("finish = %d, want 4", c.finish)
	}
}
