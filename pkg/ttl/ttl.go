// Package ttl parses the compact time-to-live strings used across token
// expirations, key rotation cycles, and cache entries.
//
// Supported forms: a bare number ("90") is seconds, and a number with a
// unit suffix covers seconds through years: "30s", "15m", "12h", "30d",
// "1w", "6mo", "1y". Months are 30 days and years 365 days; the values
// configure expirations, not calendars.
package ttl

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTTL is returned for strings that cannot be parsed.
var ErrInvalidTTL = errors.New("ttl: invalid duration string")

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

var units = map[string]time.Duration{
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  day,
	"w":  week,
	"mo": month,
	"y":  year,
}

// Parse converts a TTL string into a duration. A bare number is treated as
// seconds. Negative values are rejected; "0" parses to zero.
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidTTL
	}

	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9') {
		i++
	}
	if i == 0 {
		return 0, ErrInvalidTTL
	}

	n, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0, ErrInvalidTTL
	}

	suffix := strings.ToLower(s[i:])
	if suffix == "" {
		return time.Duration(n) * time.Second, nil
	}

	unit, ok := units[suffix]
	if !ok {
		return 0, ErrInvalidTTL
	}
	return time.Duration(n) * unit, nil
}

// Seconds parses a TTL string and returns whole seconds.
func Seconds(s string) (int64, error) {
	d, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return int64(d / time.Second), nil
}
