// Package window maps timestamps to auction window boundaries.
//
// All functions are pure: identical inputs always produce identical
// outputs, so independent processes compute the same window for the same
// bid without coordination.
package window

import "time"

// Start floors t to the most recent multiple of windowLength since the
// Unix epoch, in UTC. All bids submitted within the same window compute an
// identical start.
func Start(t time.Time, windowLength time.Duration) time.Time {
	seconds := int64(windowLength / time.Second)
	if seconds <= 0 {
		return t.UTC()
	}
	unix := t.Unix()
	floored := unix - mod(unix, seconds)
	return time.Unix(floored, 0).UTC()
}

// PreviousStart returns the start of the window that closed before the
// window enclosing t. This is the window a scheduled tick clears.
func PreviousStart(t time.Time, windowLength time.Duration) time.Time {
	return Start(t, windowLength).Add(-windowLength)
}

// Next returns the start of the window following windowStart.
func Next(windowStart time.Time, windowLength time.Duration) time.Time {
	return windowStart.Add(windowLength).UTC()
}

// Timing computes when a window's winners go live and stop. Winners do not
// go live at bid time; they activate at the start of the window following
// the one they bid into, so every bidder sees the same deadline.
func Timing(windowStart time.Time, windowLength, boostDuration time.Duration) (startsAt, endsAt time.Time) {
	startsAt = windowStart.Add(windowLength).UTC()
	endsAt = startsAt.Add(boostDuration)
	return startsAt, endsAt
}

// Aligned reports whether t falls exactly on a window boundary.
func Aligned(t time.Time, windowLength time.Duration) bool {
	return t.Equal(Start(t, windowLength))
}

func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
