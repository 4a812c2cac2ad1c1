package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var intervalToken = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-zA-Z]+)`)

var intervalUnits = map[string]time.Duration{
	"ms": time.Millisecond, "msec": time.Millisecond, "millis": time.Millisecond,
	"millisecond": time.Millisecond, "milliseconds": time.Millisecond,
	"s": time.Second, "sec": time.Second, "secs": time.Second,
	"second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute,
	"minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour,
	"hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
	"w": 7 * 24 * time.Hour, "week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
}

// ParseInterval reads a human interval such as "30s", "1m 30s", "2h30m" or
// "1day". Tokens may be separated by spaces or commas.
func ParseInterval(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	rest := strings.TrimSpace(s)
	if rest == "" {
		return 0, &InvalidDurationError{Value: s}
	}
	var total time.Duration
	for rest != "" {
		m := intervalToken.FindStringSubmatch(rest)
		if m == nil {
			return 0, &InvalidDurationError{Value: s}
		}
		unit, ok := intervalUnits[strings.ToLower(m[2])]
		if !ok {
			return 0, &InvalidDurationError{Value: s}
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, &InvalidDurationError{Value: s}
		}
		total += time.Duration(n * float64(unit))
		rest = strings.TrimLeft(rest[len(m[0]):], " \t,")
	}
	return total, nil
}
