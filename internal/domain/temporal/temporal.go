// Package temporal applies momentum and decay multipliers to composite
// scores. Momentum rewards recent activity; decay penalizes inactivity.
// Both are stepped, bounded, and applied multiplicatively before the
// final clamp to [0,100].
package temporal

import "time"

// Momentum steps: recent-event count over the trailing momentumDays.
const (
	momentumDays = 3

	momentumHighCount = 5
	momentumMidCount  = 3
	momentumLowCount  = 1

	momentumHigh = 1.15
	momentumMid  = 1.10
	momentumLow  = 1.05
	momentumNone = 1.00
)

// Decay steps: days since the last relevant event.
const (
	decayFreshDays   = 7
	decayStaleDays   = 14
	decayDormantDays = 30

	decayFresh   = 1.00
	decayStale   = 0.90
	decayDormant = 0.75
	decayFloor   = 0.50
)

// Momentum returns the multiplier for the given recent-event count.
// Non-decreasing in count, bounded to [1.0, 1.15].
func Momentum(recentEvents int) float64 {
	switch {
	case recentEvents >= momentumHighCount:
		return momentumHigh
	case recentEvents >= momentumMidCount:
		return momentumMid
	case recentEvents >= momentumLowCount:
		return momentumLow
	default:
		return momentumNone
	}
}

// MomentumWindowDays is how far back recent events count toward momentum.
func MomentumWindowDays() int { return momentumDays }

// Decay returns the multiplier for the given days since the last
// relevant event. Non-increasing in days, bounded to [0.50, 1.0].
func Decay(daysSinceLast int) float64 {
	switch {
	case daysSinceLast < decayFreshDays:
		return decayFresh
	case daysSinceLast < decayStaleDays:
		return decayStale
	case daysSinceLast < decayDormantDays:
		return decayDormant
	default:
		return decayFloor
	}
}

// DaysSince returns whole days between last and now, never negative.
// A zero last time counts as maximally stale.
func DaysSince(last, now time.Time) int {
	if last.IsZero() {
		return decayDormantDays
	}
	d := int(now.Sub(last).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// Apply multiplies score by the momentum and decay factors and clamps
// the result to [0,100].
func Apply(score float64, recentEvents, daysSinceLast int) float64 {
	v := score * Momentum(recentEvents) * Decay(daysSinceLast)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
