package dates

import (
	"regexp"
	"strconv"
	"time"
)

// Layout is the only absolute date format accepted anywhere in marktask.
const Layout = "2006-01-02"

var (
	absoluteRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	relativeRe = regexp.MustCompile(`^([+-])(\d+)([a-z])$`)
)

// maxOffsetDays bounds relative offsets to roughly ten thousand years.
const maxOffsetDays = 10000 * 366

// Clock supplies the current instant. Tests pass a FixedClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// Day returns the calendar day of t in t's own location, as UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the local calendar day according to clock.
func Today(clock Clock) time.Time {
	return Day(clock.Now().Local())
}

// ParseAbsolute parses a strict YYYY-MM-DD date. Out of range months and
// days (2023-02-29, 2024-13-01) are rejected.
func ParseAbsolute(s string) (time.Time, bool) {
	if !absoluteRe.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Resolver turns date arguments into calendar days.
type Resolver struct {
	clock Clock
}

// NewResolver creates a Resolver reading "today" from clock.
func NewResolver(clock Clock) *Resolver {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Resolver{clock: clock}
}

// Resolve accepts an absolute date or a relative offset such as +1w or -3d.
// Months count as 30 days and years as 365 days.
func (r *Resolver) Resolve(text string) (time.Time, bool) {
	if d, ok := ParseAbsolute(text); ok {
		return d, true
	}
	return r.relative(text)
}

// ResolveArg is Resolve for an optional argument. A nil argument resolves
// to nothing.
func (r *Resolver) ResolveArg(arg *string) *time.Time {
	if arg == nil {
		return nil
	}
	d, ok := r.Resolve(*arg)
	if !ok {
		return nil
	}
	return &d
}

func (r *Resolver) relative(offset string) (time.Time, bool) {
	m := relativeRe.FindStringSubmatch(offset)
	if m == nil {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, false
	}

	var unit int
	switch m[3] {
	case "d":
		unit = 1
	case "w":
		unit = 7
	case "m":
		unit = 30
	case "y":
		unit = 365
	default:
		return time.Time{}, false
	}
	if n > maxOffsetDays/unit {
		return time.Time{}, false
	}
	days := n * unit
	if m[1] == "-" {
		days = -days
	}

	// Results must still print as YYYY-MM-DD.
	d := Today(r.clock).AddDate(0, 0, days)
	if d.Year() < 1 || d.Year() > 9999 {
		return time.Time{}, false
	}
	return d, true
}

// Resolve resolves text against the system clock.
func Resolve(text string) (time.Time, bool) {
	return NewResolver(nil).Resolve(text)
}
