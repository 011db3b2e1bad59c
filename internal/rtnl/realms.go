package rtnl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultRealmsFile is where iproute2 keeps realm names.
const DefaultRealmsFile = "/etc/iproute2/rt_realms"

// RealmTable maps realm names to ids. Id 0 is always "unknown".
type RealmTable struct {
	byName map[string]uint8
	byID   map[uint8]string
}

// NewRealmTable returns a table holding only the built-in "unknown" realm.
func NewRealmTable() *RealmTable {
	return &RealmTable{
		byName: map[string]uint8{"unknown": 0},
		byID:   map[uint8]string{0: "unknown"},
	}
}

// LoadRealms reads an rt_realms file. A missing file yields the built-in
// table, like iproute2 does.
func LoadRealms(path string) (*RealmTable, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from config or flag
	if err != nil {
		if os.IsNotExist(err) {
			return NewRealmTable(), nil
		}
		return nil, err
	}
	defer f.Close()

	tab, err := ReadRealms(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return tab, nil
}

// ReadRealms parses "id name" lines; blank lines and # comments are skipped,
// as are lines whose id is not a number up to 255.
func ReadRealms(r io.Reader) (*RealmTable, error) {
	tab := NewRealmTable()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || strings.HasPrefix(fields[1], "#") {
			continue
		}
		id, err := parseByte(fields[0])
		if err != nil {
			continue
		}
		tab.byName[fields[1]] = id
		tab.byID[id] = fields[1]
	}
	return tab, sc.Err()
}

// Name returns the realm's name, or its decimal id if it has none.
func (t *RealmTable) Name(id uint8) string {
	if name, ok := t.byID[id]; ok {
		return name
	}
	return strconv.Itoa(int(id))
}

// Lookup resolves a realm name or number.
func (t *RealmTable) Lookup(s string) (uint8, error) {
	if id, ok := t.byName[s]; ok {
		return id, nil
	}
	id, err := parseByte(s)
	if err != nil {
		return 0, fmt.Errorf("realm %q: %w", s, err)
	}
	return id, nil
}

// ParseRealms parses "realm" or "from/to" into the kernel's RTA_FLOW
// encoding, from<<16 | to. An empty "to" after the slash is realm 0.
func ParseRealms(s string, tab *RealmTable) (uint32, error) {
	if tab == nil {
		tab = NewRealmTable()
	}
	var realms uint32
	if from, to, ok := strings.Cut(s, "/"); ok {
		id, err := tab.Lookup(from)
		if err != nil {
			return 0, err
		}
		realms = uint32(id) << 16
		s = to
	}
	if s != "" {
		id, err := tab.Lookup(s)
		if err != nil {
			return 0, err
		}
		realms |= uint32(id)
	}
	return realms, nil
}

// FormatRealms renders an RTA_FLOW value as "from/to", or just "to" when
// from is zero.
func FormatRealms(realms uint32, tab *RealmTable) string {
	if tab == nil {
		tab = NewRealmTable()
	}
	from, to := uint8(realms>>16), uint8(realms)
	if from == 0 {
		return tab.Name(to)
	}
	return tab.Name(from) + "/" + tab.Name(to)
}
