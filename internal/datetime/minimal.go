package datetime

import "strings"

const spaces = " \t\n\v\f\r"

// parseMinimal runs the positional scans used when rich templates are
// disabled. handled is false when the input has neither a colon nor a
// usable dash form and should fall through to the @epoch and compact forms.
func parseMinimal(input string, cal *CalendarTime) (handled, ok bool) {
	if lastColon := strings.LastIndexByte(input, ':'); lastColon >= 0 {
		rest, matched := scanClock(input, cal)
		if !matched {
			return true, false
		}
		if strings.HasPrefix(rest, ":") {
			sec := input[lastColon+1:]
			if sec == "" || len(sec) > 9 || !allDigits(sec) {
				return true, false
			}
			cal.Second = atoiDigits(sec)
			rest = ""
		}
		return true, rest == "" && cal.validate()
	}

	if !strings.Contains(input, "-") {
		return false, false
	}
	if v, rest := scan(input, "u-u-u u"); len(v) == 4 {
		setDate(cal, v[0], v[1], v[2])
		cal.Hour = v[3]
		return true, rest == "" && cal.validate()
	}
	if v, rest := scan(input, "u-u-u"); len(v) == 3 {
		setDate(cal, v[0], v[1], v[2])
		return true, rest == "" && cal.validate()
	}
	return false, false
}

// scanClock matches the forms ending in HH:MM and returns what follows them.
func scanClock(input string, cal *CalendarTime) (string, bool) {
	if v, rest := scan(input, "u:u"); len(v) == 2 {
		cal.Hour, cal.Minute = v[0], v[1]
		return rest, true
	}
	if v, rest := scan(input, "u.u-u:u"); len(v) == 4 {
		cal.Month = v[0] - 1
		cal.Day, cal.Hour, cal.Minute = v[1], v[2], v[3]
		return rest, true
	}
	for _, format := range []string{"u.u.u-u:u", "u-u-u u:u"} {
		if v, rest := scan(input, format); len(v) == 5 {
			setDate(cal, v[0], v[1], v[2])
			cal.Hour, cal.Minute = v[3], v[4]
			return rest, true
		}
	}
	return input, false
}

func setDate(cal *CalendarTime, year, month, day int) {
	cal.Year = year - 1900
	cal.Month = month - 1
	cal.Day = day
}

// scan works like sscanf with %u conversions: 'u' reads an unsigned decimal
// after optional whitespace, whitespace matches any run of whitespace and
// other bytes match literally. It returns the values converted before the
// first mismatch and the unconsumed input.
func scan(s, format string) ([]int, string) {
	var vals []int
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == 'u':
			t := strings.TrimLeft(s, spaces)
			n := 0
			for n < len(t) && isDigit(t[n]) {
				n++
			}
			if n == 0 || n > 9 {
				return vals, s
			}
			vals = append(vals, atoiDigits(t[:n]))
			s = t[n:]
		case isSpace(c):
			s = strings.TrimLeft(s, spaces)
		default:
			if s == "" || s[0] != c {
				return vals, s
			}
			s = s[1:]
		}
	}
	return vals, s
}
