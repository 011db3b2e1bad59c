// Package datetime parses the date/time strings accepted by the date and
// touch applets into broken-down calendar fields.
package datetime

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidDate is matched by every parse and resolution failure.
var ErrInvalidDate = errors.New("invalid date")

// Kind tells the caller how the parsed fields relate to an instant.
type Kind int

const (
	// KindWallClock means the fields are local wall-clock time. The caller
	// resolves them with the zone's DST rules.
	KindWallClock Kind = iota
	// KindResolved means the fields were expanded from an absolute instant
	// (an @epoch literal or a template with a UTC offset) and must not be
	// DST-adjusted again.
	KindResolved
)

func (k Kind) String() string {
	if k == KindResolved {
		return "resolved"
	}
	return "wall-clock"
}

// CalendarTime holds broken-down civil time in struct tm conventions:
// Year counts from 1900 and Month is zero based.
type CalendarTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int

	// Offset is the UTC offset, in seconds east, the fields are written in.
	// When HasOffset is set the fields name a single instant and Time does
	// not apply any zone's DST rules to them.
	Offset    int
	HasOffset bool
}

// FromTime breaks t down in its own location.
func FromTime(t time.Time) CalendarTime {
	return CalendarTime{
		Year:   t.Year() - 1900,
		Month:  int(t.Month()) - 1,
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// fromInstant is FromTime for an absolute instant: the fields keep the
// offset they were broken down with.
func fromInstant(t time.Time) CalendarTime {
	c := FromTime(t)
	_, c.Offset = t.Zone()
	c.HasOffset = true
	return c
}

// Time builds the instant for c in loc, normalizing out-of-range fields.
// Fields carrying an offset are placed with it and only converted to loc.
func (c CalendarTime) Time(loc *time.Location) time.Time {
	zone := loc
	if c.HasOffset {
		zone = time.FixedZone("", c.Offset)
	}
	return time.Date(c.Year+1900, time.Month(c.Month+1), c.Day,
		c.Hour, c.Minute, c.Second, 0, zone).In(loc)
}

func (c CalendarTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		c.Year+1900, c.Month+1, c.Day, c.Hour, c.Minute, c.Second)
}

// validate rejects fields a successful match must never produce. Month 00
// leaves Month at -1, which resolves to December of the previous year.
func (c CalendarTime) validate() bool {
	return inRange(c.Second, 0, 60) &&
		inRange(c.Minute, 0, 59) &&
		inRange(c.Hour, 0, 23) &&
		inRange(c.Day, 0, 31) &&
		inRange(c.Month, -1, 11)
}

func inRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

// yearFits reports whether a year since 1900 fits the 32-bit tm_year field.
func yearFits(year int) bool {
	return year >= math.MinInt32 && year <= math.MaxInt32
}

// ParseError reports an input that matched no accepted format.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date '%s'", e.Input)
}

func (e *ParseError) Unwrap() error { return ErrInvalidDate }

// ResolutionError reports fields that do not form a representable time.
type ResolutionError struct {
	Input    string
	Calendar CalendarTime
}

func (e *ResolutionError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("invalid date '%s'", e.Input)
	}
	return fmt.Sprintf("invalid date '%s'", e.Calendar)
}

func (e *ResolutionError) Unwrap() error { return ErrInvalidDate }
