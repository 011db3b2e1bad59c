package datetime

import "strings"

// compactLayout is a touch -t style field layout, [[[[[YY]YY]MM]DD]hh]mm,
// selected by the number of digits before the optional .SS suffix.
type compactLayout int

const (
	layoutMinute            compactLayout = iota // mm
	layoutHourMinute                             // hhmm
	layoutDayHourMinute                          // DDhhmm
	layoutMonthDayHourMinute                     // MMDDhhmm
	layoutShortYear                              // YYMMDDhhmm
	layoutFullYear                               // CCYYMMDDhhmm
)

var compactLayouts = map[int]compactLayout{
	2:  layoutMinute,
	4:  layoutHourMinute,
	6:  layoutDayHourMinute,
	8:  layoutMonthDayHourMinute,
	10: layoutShortYear,
	12: layoutFullYear,
}

// parseCompact fills cal from a compact digit run. The caller's cal.Year is
// the reference year for two-digit year windowing.
func parseCompact(input string, cal *CalendarTime) bool {
	digits, seconds, hasSeconds := strings.Cut(input, ".")
	layout, ok := compactLayouts[len(digits)]
	if !ok || !allDigits(digits) {
		return false
	}

	pairs := make([]int, 0, 6)
	for i := 0; i+2 <= len(digits); i += 2 {
		pairs = append(pairs, int(digits[i]-'0')*10+int(digits[i+1]-'0'))
	}

	currentYear := cal.Year
	switch layout {
	case layoutMinute:
		cal.Minute = pairs[0]
	case layoutHourMinute:
		cal.Hour, cal.Minute = pairs[0], pairs[1]
	case layoutDayHourMinute:
		cal.Day, cal.Hour, cal.Minute = pairs[0], pairs[1], pairs[2]
	case layoutMonthDayHourMinute:
		cal.Month = pairs[0] - 1
		cal.Day, cal.Hour, cal.Minute = pairs[1], pairs[2], pairs[3]
	case layoutShortYear:
		cal.Year = windowYear(pairs[0], currentYear)
		cal.Month = pairs[1] - 1
		cal.Day, cal.Hour, cal.Minute = pairs[2], pairs[3], pairs[4]
	case layoutFullYear:
		cal.Year = pairs[0]*100 + pairs[1] - 1900
		cal.Month = pairs[2] - 1
		cal.Day, cal.Hour, cal.Minute = pairs[3], pairs[4], pairs[5]
	}

	cal.Second = 0
	if hasSeconds {
		if seconds == "" || len(seconds) > 9 || !allDigits(seconds) {
			return false
		}
		cal.Second = atoiDigits(seconds)
	}
	return cal.validate()
}

// windowYear maps a two-digit year onto the century nearest to current.
// Both years count from 1900. Before 1950 the year is left in the 1900s.
// This is the touch -t rule and not POSIX's fixed 69/68 pivot: with a 2025
// reference 00 is 2000, 75 is 2075 and 76 is 1976.
func windowYear(yy, current int) int {
	year := yy
	if current >= 50 {
		year += (current / 100) * 100
		if year < current-50 {
			year += 100
		}
		if year > current+50 {
			year -= 100
		}
	}
	return year
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// atoiDigits converts a short all-digit string.
func atoiDigits(s string) int {
	v := 0
	for i := 0; i < len(s); i++ {
		v = v*10 + int(s[i]-'0')
	}
	return v
}
