package interval

import "time"

// Interval is a half-open [From, To) span of time on a working date.
// To strictly before From means the span runs past midnight into the next
// day; New resolves that wrap so From and To are always absolute instants.
// Equal endpoints stay a zero-duration span, never a full day.
type Interval struct {
	From time.Time
	To   time.Time
}

// New builds an Interval by anchoring the from/to clock times on date.
// from and to carry the time-of-day only; their own date parts are ignored.
func New(date, from, to time.Time) Interval {
	start := atClock(date, from)
	end := atClock(date, to)
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return Interval{From: start, To: end}
}

// FromInstants builds an Interval from already-absolute endpoints.
// If to is strictly before from it is treated as a next-day end.
func FromInstants(from, to time.Time) Interval {
	if to.Before(from) {
		to = to.Add(24 * time.Hour)
	}
	return Interval{From: from, To: to}
}

func atClock(date, clock time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0,
		date.Location(),
	)
}

// Overlaps reports whether two intervals share any time. The comparison is
// strict, so touching endpoints do not overlap and back-to-back spans are
// allowed. A zero-duration interval never overlaps anything.
func (i Interval) Overlaps(other Interval) bool {
	if i.To.Equal(i.From) || other.To.Equal(other.From) {
		return false
	}
	return i.From.Before(other.To) && i.To.After(other.From)
}

// Minutes returns the span length in whole minutes.
func (i Interval) Minutes() int {
	return int(i.To.Sub(i.From) / time.Minute)
}

// ClampTo returns the portion of i that falls inside window, and false if
// the two do not intersect at all.
func (i Interval) ClampTo(window Interval) (Interval, bool) {
	if !i.Overlaps(window) {
		return Interval{}, false
	}
	out := i
	if window.From.After(out.From) {
		out.From = window.From
	}
	if window.To.Before(out.To) {
		out.To = window.To
	}
	return out, true
}

// Contains reports whether t falls inside the half-open span.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.From) && t.Before(i.To)
}
