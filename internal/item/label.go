package item

import (
	"fmt"

	"github.com/tagarena/server/internal/core/clock"
)

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func toRoman(n int) string {
	if n <= 0 {
		return ""
	}
	var out string
	for _, rn := range romanNumerals {
		for n >= rn.value {
			out += rn.symbol
			n -= rn.value
		}
	}
	return out
}

// Label renders the display name decorated with level and duration, e.g.
// "Speed Boost II (8s)".
func (d *Definition) Label() string {
	label := d.DisplayName
	if d.Level > 0 {
		label += " " + toRoman(d.Level)
	}
	if d.DurationTicks > 0 {
		label += fmt.Sprintf(" (%s)", clock.FormatSeconds(d.DurationTicks))
	}
	return label
}

// Lore returns the descriptive lines shown under the item label.
func (d *Definition) Lore() []string {
	var lore []string
	if d.CooldownTicks > 0 {
		lore = append(lore, fmt.Sprintf("%s Cooldown", clock.FormatSeconds(d.CooldownTicks)))
	}
	return lore
}
