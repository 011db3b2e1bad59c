package datetime

import (
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// CanonicalLayout is the strftime layout for "YYYY-MM-DD HH:MM:SS".
const CanonicalLayout = "%Y-%m-%d %H:%M:%S"

// Parser turns date strings into calendar fields. The zero value parses in
// time.Local with the rich templates enabled.
type Parser struct {
	// Location is used for @epoch literals, offset templates and Resolve.
	// Nil means time.Local.
	Location *time.Location
	// Minimal replaces the rich templates with the positional scans
	// HH:MM[:SS], mm.dd-HH:MM[:SS], yyyy.mm.dd-HH:MM[:SS],
	// yyyy-mm-dd HH:MM[:SS], yyyy-mm-dd HH and yyyy-mm-dd.
	Minimal bool
	// NoTimezones drops the "yyyy-mm-dd HH:MM[:SS] +hhmm" templates.
	NoTimezones bool
}

func (p *Parser) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// Parse reads input into cal. Fields the matched format does not mention
// keep the values cal already holds; cal.Year doubles as the reference year
// for two-digit years. On failure cal is left untouched and the error is a
// *ParseError.
func (p *Parser) Parse(input string, cal *CalendarTime) (Kind, error) {
	work := *cal
	kind, ok := p.parse(input, &work)
	if !ok {
		return KindWallClock, &ParseError{Input: input}
	}
	if kind == KindWallClock {
		work.Offset, work.HasOffset = 0, false
	}
	*cal = work
	return kind, nil
}

func (p *Parser) parse(input string, cal *CalendarTime) (Kind, bool) {
	if p.Minimal {
		if handled, ok := parseMinimal(input, cal); handled {
			return KindWallClock, ok
		}
	} else if kind, handled, ok := p.parseTemplates(input, cal); handled {
		return kind, ok
	}

	if strings.HasPrefix(input, "@") {
		return p.parseEpoch(input[1:], cal)
	}
	return KindWallClock, parseCompact(input, cal)
}

// parseTemplates tries each template on a fresh copy of cal.
func (p *Parser) parseTemplates(input string, cal *CalendarTime) (Kind, bool, bool) {
	for _, t := range templates {
		if t.zoned && p.NoTimezones {
			continue
		}
		attempt := *cal
		if !match(t.layout, input, &attempt) {
			continue
		}
		if !attempt.validate() {
			return KindWallClock, true, false
		}
		if t.zoned {
			instant := time.Date(attempt.Year+1900, time.Month(attempt.Month+1), attempt.Day,
				attempt.Hour, attempt.Minute, attempt.Second-attempt.Offset, 0, time.UTC)
			*cal = fromInstant(instant.In(p.location()))
			return KindResolved, true, true
		}
		*cal = attempt
		return KindWallClock, true, true
	}
	return KindWallClock, false, false
}

func (p *Parser) parseEpoch(digits string, cal *CalendarTime) (Kind, bool) {
	sec, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return KindResolved, false
	}
	local := fromInstant(time.Unix(sec, 0).In(p.location()))
	if !yearFits(local.Year) {
		return KindResolved, false
	}
	*cal = local
	return KindResolved, true
}

// Resolve converts cal to an instant in the parser's location. Out-of-range
// fields roll over the civil way, so day 32 of January is February 1st.
// Fields from an @epoch literal or an offset template keep their instant
// even inside a repeated DST hour.
func (p *Parser) Resolve(cal CalendarTime) (time.Time, error) {
	if !yearFits(cal.Year) {
		return time.Time{}, &ResolutionError{Calendar: cal}
	}
	t := cal.Time(p.location())
	if !yearFits(t.Year() - 1900) {
		return time.Time{}, &ResolutionError{Calendar: cal}
	}
	return t, nil
}

// ResolveInput is Resolve with input recorded in the error for diagnostics.
func (p *Parser) ResolveInput(input string, cal CalendarTime) (time.Time, error) {
	t, err := p.Resolve(cal)
	if err != nil {
		return time.Time{}, &ResolutionError{Input: input, Calendar: cal}
	}
	return t, nil
}

// ParseTime parses input against the defaults taken from now and resolves
// the result in the parser's location.
func (p *Parser) ParseTime(input string, now time.Time) (time.Time, Kind, error) {
	cal := FromTime(now.In(p.location()))
	kind, err := p.Parse(input, &cal)
	if err != nil {
		return time.Time{}, kind, err
	}
	t, err := p.ResolveInput(input, cal)
	return t, kind, err
}

// Format renders t with a strftime layout such as CanonicalLayout.
func Format(t time.Time, layout string) (string, error) {
	return strftime.Format(layout, t)
}
