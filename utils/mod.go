package utils

import (
	"fmt"
	"time"
)

// FormatDuration renders d with three decimals in the largest unit it
// strictly exceeds: s, ms, µs or ns.
func FormatDuration(d time.Duration) string {
	ns := float64(d.Nanoseconds())
	switch {
	case d > time.Second:
		return fmt.Sprintf("%.3f s", ns/1e9)
	case d > time.Millisecond:
		return fmt.Sprintf("%.3f ms", ns/1e6)
	case d > time.Microsecond:
		return fmt.Sprintf("%.3f µs", ns/1e3)
	default:
		return fmt.Sprintf("%.3f ns", ns)
	}
}

type Stopwatch struct {
	start time.Time
	now   func() time.Time
}

func NewStopwatch() *Stopwatch {
	return newStopwatch(time.Now)
}

func newStopwatch(now func() time.Time) *Stopwatch {
	return &Stopwatch{start: now(), now: now}
}

// Lap returns the time since the last lap and restarts the stopwatch.
func (s *Stopwatch) Lap() time.Duration {
	now := s.now()
	elapsed := now.Sub(s.start)
	s.start = now
	return elapsed
}

// Split returns the time since the last lap and its share for each of parts,
// then restarts the stopwatch.
func (s *Stopwatch) Split(parts int) (total, each time.Duration) {
	total = s.Lap()
	if parts <= 0 {
		return total, total
	}
	return total, total / time.Duration(parts)
}
