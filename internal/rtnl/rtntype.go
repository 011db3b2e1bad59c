// Package rtnl maps routing-table identifiers (route types and realms)
// between their numeric kernel values and the names iproute2 prints.
package rtnl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RouteType is the rtm_type of a route.
type RouteType uint8

// Route types as numbered by the kernel (RTN_*).
const (
	RouteNone RouteType = iota
	RouteUnicast
	RouteLocal
	RouteBroadcast
	RouteAnycast
	RouteMulticast
	RouteBlackhole
	RouteUnreachable
	RouteProhibit
	RouteThrow
	RouteNAT
	RouteXResolve
)

// ErrInvalidArgument is matched by every name or number this package rejects.
var ErrInvalidArgument = errors.New("invalid argument")

var routeTypeNames = map[RouteType]string{
	RouteNone:        "none",
	RouteUnicast:     "unicast",
	RouteLocal:       "local",
	RouteBroadcast:   "broadcast",
	RouteAnycast:     "anycast",
	RouteMulticast:   "multicast",
	RouteBlackhole:   "blackhole",
	RouteUnreachable: "unreachable",
	RouteProhibit:    "prohibit",
	RouteThrow:       "throw",
	RouteNAT:         "nat",
	RouteXResolve:    "xresolve",
}

// routeTypeKeywords are the names accepted on input, in the order prefixes
// are matched. "none" is output only.
var routeTypeKeywords = []struct {
	name string
	typ  RouteType
}{
	{"local", RouteLocal},
	{"nat", RouteNAT},
	{"broadcast", RouteBroadcast},
	{"brd", RouteBroadcast},
	{"anycast", RouteAnycast},
	{"multicast", RouteMulticast},
	{"prohibit", RouteProhibit},
	{"unreachable", RouteUnreachable},
	{"blackhole", RouteBlackhole},
	{"xresolve", RouteXResolve},
	{"unicast", RouteUnicast},
	{"throw", RouteThrow},
}

// lookupRouteType matches s against the keywords: an exact name wins,
// otherwise s must be a prefix of exactly one of them.
func lookupRouteType(s string) (RouteType, bool) {
	if s == "" {
		return 0, false
	}
	match := -1
	for i, kw := range routeTypeKeywords {
		if !strings.HasPrefix(kw.name, s) {
			continue
		}
		if len(kw.name) == len(s) {
			return kw.typ, true
		}
		if match >= 0 {
			return 0, false
		}
		match = i
	}
	if match < 0 {
		return 0, false
	}
	return routeTypeKeywords[match].typ, true
}

// String returns the iproute2 name, or the decimal value for unnamed types.
func (t RouteType) String() string {
	if name, ok := routeTypeNames[t]; ok {
		return name
	}
	return strconv.Itoa(int(t))
}

// ParseRouteType accepts a route type keyword, an unambiguous prefix of
// one ("mult", "blackh"), or a number up to 255 in decimal, octal (leading
// 0) or hex (leading 0x).
func ParseRouteType(s string) (RouteType, error) {
	if t, ok := lookupRouteType(s); ok {
		return t, nil
	}
	n, err := parseByte(s)
	if err != nil {
		return 0, fmt.Errorf("route type %q: %w", s, err)
	}
	return RouteType(n), nil
}

// parseByte parses s like strtoul(s, &end, 0), requiring the whole string
// to be consumed and the value to fit in a byte.
func parseByte(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil || n > 255 {
		return 0, ErrInvalidArgument
	}
	return uint8(n), nil
}
