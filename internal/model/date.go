package model

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
}

// ParseDate parses an entry date as a local calendar date.
//
// Dates are never parsed as UTC instants: "2024-01-05" must stay Jan 5 in every time zone.
// Empty or malformed input reports ok=false and is treated as "no date" by callers.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateLess orders dates ascending; missing or malformed dates sort before every valid date.
func DateLess(a, b string) bool {
	ta, oka := ParseDate(a)
	tb, okb := ParseDate(b)
	if !oka {
		return okb
	}
	if !okb {
		return false
	}
	return ta.Before(tb)
}
