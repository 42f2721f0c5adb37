// Package earnings computes elapsed time and accrued pay for a session.
package earnings

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	secondsPerHour = 3600.0
	// centSeconds is the number of seconds it takes to earn one cent at a
	// rate of 1/h, so 36/rate seconds is roughly one cent at any rate.
	centSeconds = 36.0

	minTickInterval = 10 * time.Millisecond
)

// maxCatchUpMinutes is the longest backdate a time.Duration can hold.
const maxCatchUpMinutes = float64(math.MaxInt64) / float64(time.Minute)

// ErrInvalidRate reports a non-positive or non-finite hourly rate.
var ErrInvalidRate = errors.New("hourly rate must be greater than 0")

// ValidateRate checks that rate is usable for timing and billing.
func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return fmt.Errorf("%w (got %v)", ErrInvalidRate, rate)
	}
	return nil
}

// ValidateCatchUp checks a catch-up offset given in minutes.
func ValidateCatchUp(minutes float64) error {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes < 0 {
		return fmt.Errorf("catch-up must be >= 0 minutes (got %v)", minutes)
	}
	if minutes >= maxCatchUpMinutes {
		return fmt.Errorf("catch-up must be below %.0f minutes (got %v)", maxCatchUpMinutes, minutes)
	}
	return nil
}

// Elapsed returns now-start, never negative.
func Elapsed(start, now time.Time) time.Duration {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return d
}

// Earned returns the pay accrued over elapsed at the hourly rate.
func Earned(rate float64, elapsed time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	return rate / secondsPerHour * elapsed.Seconds()
}

// EarnedAt is Earned over the span between start and now.
func EarnedAt(rate float64, start, now time.Time) float64 {
	return Earned(rate, Elapsed(start, now))
}

// EffectiveStart backdates start by catchUpMinutes. Negative or non-finite
// offsets shift nothing; offsets past the Duration range shift by the maximum.
func EffectiveStart(start time.Time, catchUpMinutes float64) time.Time {
	if math.IsNaN(catchUpMinutes) || math.IsInf(catchUpMinutes, 0) || catchUpMinutes <= 0 {
		return start
	}
	shift := time.Duration(math.MaxInt64)
	if ns := catchUpMinutes * float64(time.Minute); ns < float64(math.MaxInt64) {
		shift = time.Duration(ns)
	}
	return start.Add(-shift)
}

// TickInterval returns the redraw cadence for a rate: about one cent of
// earnings per tick.
func TickInterval(rate float64) (time.Duration, error) {
	if err := ValidateRate(rate); err != nil {
		return 0, err
	}
	seconds := centSeconds / rate
	if seconds > math.MaxInt64/float64(time.Second) {
		return time.Duration(math.MaxInt64), nil
	}
	d := time.Duration(seconds * float64(time.Second))
	if d < minTickInterval {
		d = minTickInterval
	}
	return d, nil
}

// Hours converts a duration to fractional hours.
func Hours(d time.Duration) float64 {
	return d.Seconds() / secondsPerHour
}

// RoundHalfUp rounds v to the given number of decimal places, with halves
// rounded away from zero.
func RoundHalfUp(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	scaled := v * scale
	// Absorb representation error such as 0.15*10 = 1.4999999999999998.
	scaled = math.Round(scaled*1e6) / 1e6
	if scaled < 0 {
		return -math.Floor(-scaled+0.5) / scale
	}
	return math.Floor(scaled+0.5) / scale
}

// FormatClock formats a duration as HH:MM:SS. Hours grow past 99 as needed.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatMoney formats an amount with a dollar sign and two decimals.
func FormatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
