package cycle

import "time"

const (
	DefaultCycleLength = 28
	MinCycleLength     = 21
	MaxCycleLength     = 40

	// calmDays is the fixed length of the calm window at the start of a cycle.
	calmDays = 7
)

// NormalizeCycleLength clamps a user-declared cycle length into
// [MinCycleLength, MaxCycleLength]. Zero or negative means "not set".
func NormalizeCycleLength(n int) int {
	switch {
	case n <= 0:
		return DefaultCycleLength
	case n < MinCycleLength:
		return MinCycleLength
	case n > MaxCycleLength:
		return MaxCycleLength
	}
	return n
}

// ComputeDay returns the 1-based day of the cycle on now's calendar date.
// The reference date itself is day 1. A nil reference, or one in the future,
// yields day 1.
func ComputeDay(referenceDate *time.Time, cycleLengthDays int, now time.Time) int {
	if referenceDate == nil || referenceDate.IsZero() {
		return 1
	}
	if cycleLengthDays <= 0 {
		cycleLengthDays = DefaultCycleLength
	}

	elapsed := CalendarDaysBetween(*referenceDate, now)
	if elapsed < 0 {
		return 1
	}

	day := (elapsed + 1) % cycleLengthDays
	if day == 0 {
		return cycleLengthDays
	}
	return day
}

// ComputePhase maps a cycle day to its phase. Days 1-7 are calm, days
// 8..L/2 glow and the remainder balance. When L/2 < 8 the glow window is
// empty and every day after the calm window is balance.
func ComputePhase(day, cycleLengthDays int) Phase {
	if cycleLengthDays <= 0 {
		cycleLengthDays = DefaultCycleLength
	}
	if day < 1 {
		day = 1
	}
	if day > cycleLengthDays {
		day = cycleLengthDays
	}

	switch {
	case day <= calmDays:
		return PhaseCalm
	case day <= glowEnd(cycleLengthDays):
		return PhaseGlow
	default:
		return PhaseBalance
	}
}

// PhaseStart returns the first cycle day of p, or 0 when p has no days in a
// cycle of the given length.
func PhaseStart(p Phase, cycleLengthDays int) int {
	if cycleLengthDays <= 0 {
		cycleLengthDays = DefaultCycleLength
	}
	switch p {
	case PhaseCalm:
		return 1
	case PhaseGlow:
		if glowEnd(cycleLengthDays) <= calmDays {
			return 0
		}
		return calmDays + 1
	case PhaseBalance:
		start := glowEnd(cycleLengthDays) + 1
		if start <= calmDays {
			start = calmDays + 1
		}
		if start > cycleLengthDays {
			return 0
		}
		return start
	}
	return 0
}

func glowEnd(cycleLengthDays int) int {
	return cycleLengthDays / 2
}

// CalendarDaysBetween counts calendar days from a to b using b's location.
// Negative when a falls after b.
func CalendarDaysBetween(a, b time.Time) int {
	loc := b.Location()
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.Date()
	// UTC midnights avoid DST-length days skewing the division.
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
