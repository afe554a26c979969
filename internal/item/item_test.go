package item

import "testing"

func TestInstanceIDUnique(t *testing.T) {
	def := &Definition{ID: "grenade"}
	seen := make(map[InstanceID]bool)
	for i := 0; i < 100; i++ {
		inst := NewInstance(def)
		if inst.ID.IsZero() {
			t.Fatal("zero instance id")
		}
		if seen[inst.ID] {
			t.Fatalf("instance id reused: %s", inst.ID)
		}
		seen[inst.ID] = true
	}
}

func TestNormalizeID(t *testing.T) {
	cases := map[string]string{
		"Speed Boost":      "speed_boost",
		"  Balloon  ":      "balloon",
		"tracking_compass": "tracking_compass",
	}
	for in, want := range cases {
		if got := NormalizeID(in); got != want {
			t.Errorf("NormalizeID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLabel(t *testing.T) {
	d := &Definition{DisplayName: "Speed Boost", Level: 2, DurationTicks: 160}
	if got := d.Label(); got != "Speed Boost II (8s)" {
		t.Errorf("Label() = %q", got)
	}

	plain := &Definition{DisplayName: "Balloon Grenade"}
	if got := plain.Label(); got != "Balloon Grenade" {
		t.Errorf("Label() = %q", got)
	}
}

func TestLore(t *testing.T) {
	d := &Definition{CooldownTicks: 50}
	lore := d.Lore()
	if len(lore) != 1 || lore[0] != "2.5s Cooldown" {
		t.Errorf("Lore() = %v", lore)
	}
	if lore := (&Definition{}).Lore(); len(lore) != 0 {
		t.Errorf("zero-cooldown Lore() = %v", lore)
	}
}
