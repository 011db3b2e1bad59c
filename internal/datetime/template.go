package datetime

import (
	"strings"
	"time"
)

// template is one rich-mode format attempt. Zoned templates carry a UTC
// offset and describe an absolute instant.
type template struct {
	layout string
	zoned  bool
}

// templates are tried in order; the first one consuming the whole input wins.
// %R is HH:MM and %T is HH:MM:SS.
var templates = []template{
	{layout: "%R"},
	{layout: "%T"},
	{layout: "%m.%d-%R"},
	{layout: "%m.%d-%T"},
	{layout: "%Y.%m.%d-%R"},
	{layout: "%Y.%m.%d-%T"},
	{layout: "%b %d %T %Y"},
	{layout: "%Y-%m-%d %R"},
	{layout: "%Y-%m-%d %T"},
	{layout: "%Y-%m-%d %R %z", zoned: true},
	{layout: "%Y-%m-%d %T %z", zoned: true},
	{layout: "%Y-%m-%d %H"},
	{layout: "%Y-%m-%d"},
}

var shorthand = strings.NewReplacer("%R", "%H:%M", "%T", "%H:%M:%S")

// match applies layout to s, writing the fields it names into cal. It only
// succeeds when the whole of s is consumed. cal may be partially written on
// failure; callers pass a scratch copy.
func match(layout, s string, cal *CalendarTime) bool {
	layout = shorthand.Replace(layout)
	for i := 0; i < len(layout); i++ {
		c := layout[i]
		if isSpace(c) {
			s = strings.TrimLeft(s, spaces)
			continue
		}
		if c != '%' || i+1 == len(layout) {
			if s == "" || s[0] != c {
				return false
			}
			s = s[1:]
			continue
		}
		i++
		var ok bool
		switch layout[i] {
		case 'H':
			s, ok = field(s, 2, 0, 23, &cal.Hour)
		case 'M':
			s, ok = field(s, 2, 0, 59, &cal.Minute)
		case 'S':
			s, ok = field(s, 2, 0, 61, &cal.Second)
		case 'd':
			s, ok = field(s, 2, 1, 31, &cal.Day)
		case 'm':
			var month int
			if s, ok = field(s, 2, 1, 12, &month); ok {
				cal.Month = month - 1
			}
		case 'Y':
			var year int
			if s, ok = field(s, 4, 0, 9999, &year); ok {
				cal.Year = year - 1900
			}
		case 'b':
			s, ok = monthName(s, &cal.Month)
		case 'z':
			s, ok = zoneOffset(s, cal)
		}
		if !ok {
			return false
		}
	}
	return s == ""
}

// field skips leading whitespace, then reads 1..width digits and stores
// them in dst when within [lo, hi].
func field(s string, width, lo, hi int, dst *int) (string, bool) {
	digits := strings.TrimLeft(s, spaces)
	n, v := 0, 0
	for n < width && n < len(digits) && isDigit(digits[n]) {
		v = v*10 + int(digits[n]-'0')
		n++
	}
	if n == 0 || v < lo || v > hi {
		return s, false
	}
	*dst = v
	return digits[n:], true
}

// monthName accepts full or abbreviated English month names in any case.
func monthName(s string, dst *int) (string, bool) {
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		for _, candidate := range []string{name, name[:3]} {
			if len(s) >= len(candidate) && strings.EqualFold(s[:len(candidate)], candidate) {
				*dst = int(m) - 1
				return s[len(candidate):], true
			}
		}
	}
	return s, false
}

// zoneOffset accepts Z, +hh, +hhmm and +hh:mm.
func zoneOffset(s string, cal *CalendarTime) (string, bool) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return s, false
	}
	if s[0] == 'Z' {
		cal.Offset, cal.HasOffset = 0, true
		return s[1:], true
	}
	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return s, false
	}
	s = s[1:]

	var hh, mm int
	rest, ok := fixedDigits(s, 2, &hh)
	if !ok {
		return s, false
	}
	s = rest
	if len(s) > 0 && s[0] == ':' {
		if s, ok = fixedDigits(s[1:], 2, &mm); !ok {
			return s, false
		}
	} else if rest, ok := fixedDigits(s, 2, &mm); ok {
		s = rest
	}
	if hh > 23 || mm > 59 {
		return s, false
	}
	cal.Offset = sign * (hh*3600 + mm*60)
	cal.HasOffset = true
	return s, true
}

func fixedDigits(s string, n int, dst *int) (string, bool) {
	if len(s) < n {
		return s, false
	}
	v := 0
	for i := range n {
		if !isDigit(s[i]) {
			return s, false
		}
		v = v*10 + int(s[i]-'0')
	}
	*dst = v
	return s[n:], true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
