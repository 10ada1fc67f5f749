package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// Clock supplies the authoritative current time. Semua service membaca waktu
// lewat interface ini, bukan time.Now() langsung, supaya bisa dites deterministik.
type Clock interface {
	Now() time.Time
	Today() time.Time
	Location() *time.Location
}

// SystemClock reads the wall clock in a fixed location. Offset is applied on
// every read for deployments that correct against an NTP reference.
type SystemClock struct {
	Loc    *time.Location
	Offset time.Duration
}

func NewSystemClock(loc *time.Location) SystemClock {
	return SystemClock{Loc: loc}
}

func (c SystemClock) Now() time.Time {
	return time.Now().Add(c.Offset).In(c.Loc)
}

// Today returns local midnight of the current day.
func (c SystemClock) Today() time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.Loc)
}

func (c SystemClock) Location() *time.Location {
	return c.Loc
}

// ParseLocalDate parses "YYYY-MM-DD" into local midnight by decomposing the
// literal components. time.Parse without a location would anchor the date in
// UTC and shift it a day for zones east of it.
func ParseLocalDate(value string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %v", value, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %v", value, err)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %v", value, err)
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	// time.Date normalizes overflow (2025-02-30 becomes March 2nd), so a
	// round-trip mismatch means the components were not a real calendar day.
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, fmt.Errorf("invalid date %q: no such calendar day", value)
	}
	return date, nil
}

// ParseClockTime parses "HH:mm" into hour and minute components.
func ParseClockTime(value string) (hour, minute int, err error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:mm", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour, minute, nil
}
