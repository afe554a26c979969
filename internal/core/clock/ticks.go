package clock

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// TicksPerSecond is the fixed rate of the game simulation clock.
const TicksPerSecond = 20

// TickInterval is the wall-clock duration of one tick at the nominal rate.
const TickInterval = time.Second / TicksPerSecond

// SecondsToTicks converts a duration in seconds to whole ticks, rounding
// half away from zero. A short but nonzero cooldown like 0.02s must map to
// 1 tick, never silently to 0.
func SecondsToTicks(seconds float64) int {
	ticks := int(math.Round(seconds * TicksPerSecond))
	if ticks == 0 {
		if seconds > 0 {
			return 1
		}
		if seconds < 0 {
			return -1
		}
	}
	return ticks
}

// TicksToSeconds converts a tick count back to seconds.
func TicksToSeconds(ticks int) float64 {
	return float64(ticks) / TicksPerSecond
}

// FormatSeconds renders a tick count as a seconds string with a trailing
// "s", trimming insignificant zeros ("2.5s", "40s").
func FormatSeconds(ticks int) string {
	s := strconv.FormatFloat(TicksToSeconds(ticks), 'f', -1, 64)
	return fmt.Sprintf("%ss", s)
}
