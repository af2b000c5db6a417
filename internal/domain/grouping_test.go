package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortZoneNames(t *testing.T) {
	got := sortZoneNames([]string{"FLOOR 10", "FLOOR 2", "GENERAL", "FLOOR 1"})
	assert.Equal(t, []string{"GENERAL", "FLOOR 1", "FLOOR 2", "FLOOR 10"}, got)
}

func TestSortZoneNamesTieBreak(t *testing.T) {
	got := sortZoneNames([]string{"PISO 1 B", "piso 1 a", "ALGEMEEN", "GENERAL"})
	assert.Equal(t, []string{"ALGEMEEN", "GENERAL", "piso 1 a", "PISO 1 B"}, got)
}

func TestParseZone(t *testing.T) {
	tests := []struct {
		in   string
		want ZoneKey
	}{
		{"piso 1 > sala", ZoneKey{"PISO 1", "SALA"}},
		{"  Terraza  ", ZoneKey{"TERRAZA", DefaultSubZone}},
		{"A > B > C", ZoneKey{"A", "B"}},
		{"GENERAL > GENERAL", ZoneKey{"GENERAL", "GENERAL"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseZone(tt.in))
		})
	}
}

func TestGroupItemsOrder(t *testing.T) {
	items := []Item{
		{ID: "1", Zone: "PISO 2 > BAÑO", Quantity: 1, UnitPrice: dec("10")},
		{ID: "2", Zone: "piso 1 > sala", Quantity: 1, UnitPrice: dec("20")},
		{ID: "3", Zone: "PISO 2 > ALCOBA", Quantity: 2, UnitPrice: dec("5")},
		{ID: "4", Zone: "PISO 2 > BAÑO", Quantity: 1, UnitPrice: dec("7")},
		{ID: "5", Zone: "GENERAL", Quantity: 1, UnitPrice: dec("1")},
	}

	groups := GroupItems(items)
	require.Len(t, groups, 3)

	assert.Equal(t, "GENERAL", groups[0].Main)
	assert.False(t, groups[0].ShowHeading())
	assert.False(t, groups[0].SubZones[0].ShowHeading())

	assert.Equal(t, "PISO 1", groups[1].Main)
	assert.True(t, groups[1].ShowHeading())

	// sub-zones keep first-occurrence order
	floor2 := groups[2]
	require.Len(t, floor2.SubZones, 2)
	assert.Equal(t, "BAÑO", floor2.SubZones[0].Name)
	assert.Equal(t, "ALCOBA", floor2.SubZones[1].Name)

	bath := floor2.SubZones[0]
	require.Len(t, bath.Items, 2)
	assert.Equal(t, "1", bath.Items[0].ID)
	assert.Equal(t, "4", bath.Items[1].ID)
	assert.True(t, bath.Subtotal.Equal(dec("17")))
	assert.True(t, floor2.Subtotal().Equal(dec("27")))
}

func TestJoinZone(t *testing.T) {
	assert.Equal(t, "PISO 3 > COCINA", JoinZone("PISO 3", " cocina "))
	assert.Equal(t, "", JoinZone("PISO 3", "   "))
	assert.True(t, IsWellFormedZone("PISO 3 > COCINA"))
	assert.False(t, IsWellFormedZone("PISO 3"))
	assert.False(t, IsWellFormedZone(" > COCINA"))
}

func TestZonePrefixes(t *testing.T) {
	prefixes := ZonePrefixes(LangDutch)
	require.Len(t, prefixes, 17)
	assert.Equal(t, "ALGEMEEN", prefixes[0])
	assert.Equal(t, "VERDIEPING 0", prefixes[1])
	assert.Equal(t, "VERDIEPING 15", prefixes[16])
}

// sortZoneNames applies the main-zone ordering to plain names
func sortZoneNames(names []string) []string {
	groups := make([]ZoneGroup, len(names))
	for i, n := range names {
		groups[i] = ZoneGroup{Main: n}
	}
	SortZoneKeys(groups)
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Main
	}
	return out
}
