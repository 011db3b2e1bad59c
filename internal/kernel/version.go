// Package kernel reports the running kernel's version as a single integer
// so applets can gate features with a plain comparison.
package kernel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported is returned on platforms without a Linux kernel.
var ErrUnsupported = errors.New("kernel version probe is only supported on linux")

// Code packs a version as major*65536 + minor*256 + patch.
func Code(major, minor, patch int) int {
	return major<<16 + minor<<8 + patch
}

// Split unpacks a version code into its components.
func Split(code int) (major, minor, patch int) {
	return code >> 16, (code >> 8) & 0xff, code & 0xff
}

// String renders a version code as "major.minor.patch".
func String(code int) string {
	major, minor, patch := Split(code)
	return fmt.Sprintf("%d.%d.%d", major, minor, patch)
}

// ParseRelease encodes a uname release string such as "5.15.0-91-generic".
// Each of the first three dot-separated components contributes its leading
// digits; missing or non-numeric components count as zero.
func ParseRelease(release string) int {
	parts := strings.Split(release, ".")
	r := 1
	for i := 0; r < 0x1000000; i++ {
		r <<= 8
		if i < len(parts) {
			r += leadingInt(parts[i])
		}
	}
	return r - 0x1000000
}

// leadingInt mimics atoi: optional leading spaces and sign, then digits.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 0xffff {
			break
		}
	}
	if neg {
		return -n
	}
	return n
}
