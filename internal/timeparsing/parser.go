// Package timeparsing parses the time expressions accepted by --since,
// --created-after and --created-before.
//
// Layers are tried in order:
//  1. Duration from now, compact (6h, -1d, +2w, 3m) or Go style (90s, 1h30m)
//  2. Absolute timestamp (RFC3339, date-only)
//  3. Natural language (yesterday, last monday, 3 days ago)
//
// A signed duration always means what its sign says. An unsigned one counts
// in the caller's Direction: rd's flags all name past instants, so "2w"
// passed to ParsePast is two weeks ago.
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Direction is the way an unsigned duration counts from now.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// compactDurationRe is [+-]?(\d+)([hdwmy]), where m is months.
var compactDurationRe = regexp.MustCompile(`^([+-]?)(\d+)([hdwmy])$`)

// IsCompactDuration reports whether s uses the compact duration syntax.
func IsCompactDuration(s string) bool {
	return compactDurationRe.MatchString(s)
}

// ParseCompactDuration resolves a compact duration against now. Units are
// h (hours), d (days), w (weeks), m (months) and y (years); unsigned
// amounts move in dir.
func ParseCompactDuration(s string, now time.Time, dir Direction) (time.Time, error) {
	m := compactDurationRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("not a compact duration: %q", s)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("duration amount out of range: %q", m[2])
	}
	n *= signOf(m[1], dir)

	switch m[3] {
	case "h":
		return now.Add(time.Duration(n) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, n), nil
	case "w":
		return now.AddDate(0, 0, 7*n), nil
	case "m":
		return now.AddDate(0, n, 0), nil
	default:
		return now.AddDate(n, 0, 0), nil
	}
}

// parseGoDuration accepts time.ParseDuration input ("90s", "1h30m").
// time.ParseDuration already honours an explicit sign.
func parseGoDuration(s string, now time.Time, dir Direction) (time.Time, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Time{}, err
	}
	if !strings.HasPrefix(s, "+") && !strings.HasPrefix(s, "-") {
		d *= time.Duration(dir)
	}
	return now.Add(d), nil
}

func signOf(prefix string, dir Direction) int {
	switch prefix {
	case "+":
		return 1
	case "-":
		return -1
	}
	return int(dir)
}

// ParseAbsolute parses RFC3339 timestamps and YYYY-MM-DD dates. Dates are
// midnight in now's location.
func ParseAbsolute(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, now.Location()); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("not an RFC3339 timestamp or YYYY-MM-DD date: %q", s)
}

// ParseTime tries each layer in turn, counting unsigned durations in dir.
func ParseTime(s string, now time.Time, dir Direction) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := ParseCompactDuration(s, now, dir); err == nil {
		return t, nil
	}
	if t, err := parseGoDuration(s, now, dir); err == nil {
		return t, nil
	}
	if t, err := ParseAbsolute(s, now); err == nil {
		return t, nil
	}
	if t, err := ParseNaturalLanguage(s, now); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q (try 2h, 3d, yesterday, 2025-01-31 or an RFC3339 timestamp)", s)
}

// ParsePast is ParseTime with unsigned durations counting back from now.
func ParsePast(s string, now time.Time) (time.Time, error) {
	return ParseTime(s, now, Backward)
}

// ParseSince parses a past instant for change polling. Instants after now
// are rejected.
func ParseSince(s string, now time.Time) (time.Time, error) {
	t, err := ParsePast(s, now)
	if err != nil {
		return time.Time{}, err
	}
	if t.After(now) {
		return time.Time{}, fmt.Errorf("time %q is in the future", strings.TrimSpace(s))
	}
	return t, nil
}
