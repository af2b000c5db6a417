package domain

import (
	"fmt"
	"strings"
)

const (
	// DefaultSubZone is used when a zone string has no "MAIN > SUB" separator
	DefaultSubZone = "GENERAL"

	// DefaultZone seeds the zone registry of a new quotation
	DefaultZone = "GENERAL > GENERAL"

	zoneSeparator = ">"
)

// defaultZoneKeys are rendered without a heading
var defaultZoneKeys = map[string]bool{
	"GENERAL":  true,
	"ALGEMEEN": true,
}

// ZoneKey is the normalized two-level form of a zone string
type ZoneKey struct {
	Main string
	Sub  string
}

// ParseZone splits a zone string on its first ">" and normalizes both
// halves (trimmed, upper case). A missing sub-zone becomes DefaultSubZone.
func ParseZone(zone string) ZoneKey {
	main, sub, found := strings.Cut(zone, zoneSeparator)
	key := ZoneKey{Main: strings.ToUpper(strings.TrimSpace(main))}
	if !found {
		key.Sub = DefaultSubZone
		return key
	}
	// only the first separator splits; anything after a second ">" is dropped
	if rest, _, ok := strings.Cut(sub, zoneSeparator); ok {
		sub = rest
	}
	key.Sub = strings.ToUpper(strings.TrimSpace(sub))
	return key
}

// String renders the key back in "MAIN > SUB" form
func (k ZoneKey) String() string {
	return fmt.Sprintf("%s %s %s", k.Main, zoneSeparator, k.Sub)
}

// IsDefaultZone reports whether a main or sub zone key is one of the
// default literals whose heading is hidden in the document
func IsDefaultZone(key string) bool {
	return defaultZoneKeys[key]
}

// JoinZone builds a registry entry from a prefix (e.g. "PISO 2") and a
// free-text suffix. Returns "" when the suffix is blank.
func JoinZone(prefix, suffix string) string {
	suffix = strings.ToUpper(strings.TrimSpace(suffix))
	if suffix == "" {
		return ""
	}
	return fmt.Sprintf("%s %s %s", strings.TrimSpace(prefix), zoneSeparator, suffix)
}

// IsWellFormedZone reports whether a zone string has a non-empty main and
// sub part around a ">" separator
func IsWellFormedZone(zone string) bool {
	main, sub, found := strings.Cut(zone, zoneSeparator)
	return found && strings.TrimSpace(main) != "" && strings.TrimSpace(sub) != ""
}
