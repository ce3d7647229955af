package model

import (
    "strings"
    "time"
)

// Weekdays lists the accepted day names, Monday first.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayName returns the English weekday name of t as seen in loc.
// A nil loc means UTC.
func WeekdayName(t time.Time, loc *time.Location) string {
    if loc == nil {
        loc = time.UTC
    }
    return t.In(loc).Weekday().String()
}

// SameWeekday reports whether t falls on the named day in loc. The name is
// compared case-insensitively.
func SameWeekday(day string, t time.Time, loc *time.Location) bool {
    return strings.EqualFold(strings.TrimSpace(day), WeekdayName(t, loc))
}

// CanonicalWeekday normalises a day name ("monday", " MONDAY ") to its
// canonical form ("Monday"). ok is false for anything else.
func CanonicalWeekday(day string) (string, bool) {
    day = strings.TrimSpace(day)
    for _, d := range Weekdays {
        if strings.EqualFold(d, day) {
            return d, true
        }
    }
    return "", false
}

// DayBounds returns the first and last instant of the calendar day of t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
    if loc == nil {
        loc = time.UTC
    }
    local := t.In(loc)
    start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
    end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
    return start, end
}
