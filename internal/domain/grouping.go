package domain

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ZoneGroup is a main zone with its sub-zones in first-occurrence order
type ZoneGroup struct {
	Main     string
	SubZones []SubZoneGroup
}

// SubZoneGroup holds the items of one sub-zone in insertion order
type SubZoneGroup struct {
	Name     string
	Items    []Item
	Subtotal decimal.Decimal
}

// ShowHeading reports whether the main zone gets a visible heading
func (g ZoneGroup) ShowHeading() bool {
	return !IsDefaultZone(g.Main)
}

// ShowHeading reports whether the sub-zone gets a visible heading
func (s SubZoneGroup) ShowHeading() bool {
	return !IsDefaultZone(s.Name)
}

// Subtotal sums the subtotals of every sub-zone
func (g ZoneGroup) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, sub := range g.SubZones {
		sum = sum.Add(sub.Subtotal)
	}
	return sum
}

var firstNumber = regexp.MustCompile(`\d+`)

// zoneNumber extracts the first run of digits in a key, or -1
func zoneNumber(key string) int {
	m := firstNumber.FindString(key)
	if m == "" {
		return -1
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		// a run too long for int still sorts after every realistic floor
		return int(^uint(0) >> 1)
	}
	return n
}

// GroupItems builds the main zone -> sub-zone -> items hierarchy.
// Main zones are ordered by their first number (none sorts as -1), then
// by case-insensitive collation. Sub-zones keep first-occurrence order.
func GroupItems(items []Item) []ZoneGroup {
	groups := make([]ZoneGroup, 0)
	mainIdx := make(map[string]int)
	subIdx := make(map[string]map[string]int)

	for _, item := range items {
		key := ParseZone(item.Zone)

		mi, ok := mainIdx[key.Main]
		if !ok {
			mi = len(groups)
			mainIdx[key.Main] = mi
			subIdx[key.Main] = make(map[string]int)
			groups = append(groups, ZoneGroup{Main: key.Main})
		}

		si, ok := subIdx[key.Main][key.Sub]
		if !ok {
			si = len(groups[mi].SubZones)
			subIdx[key.Main][key.Sub] = si
			groups[mi].SubZones = append(groups[mi].SubZones, SubZoneGroup{Name: key.Sub})
		}

		groups[mi].SubZones[si].Items = append(groups[mi].SubZones[si].Items, item)
	}

	for gi := range groups {
		for si := range groups[gi].SubZones {
			sub := &groups[gi].SubZones[si]
			sub.Subtotal = NetSubtotal(sub.Items)
		}
	}

	SortZoneKeys(groups)
	return groups
}

// SortZoneKeys orders groups by floor number then name
func SortZoneKeys(groups []ZoneGroup) {
	col := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(groups, func(i, j int) bool {
		ni, nj := zoneNumber(groups[i].Main), zoneNumber(groups[j].Main)
		if ni != nj {
			return ni < nj
		}
		return col.CompareString(groups[i].Main, groups[j].Main) < 0
	})
}
