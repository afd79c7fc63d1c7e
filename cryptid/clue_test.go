package cryptid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowMap builds a single row of six tiles, so distances equal column
// differences.
func rowMap() *Map {
	return &Map{Tiles: []Tile{
		{Position: HexFromOffset(0, 0), Terrain: Desert},
		{Position: HexFromOffset(1, 0), Terrain: Forest, Animal: Bear},
		{Position: HexFromOffset(2, 0), Terrain: Water},
		{Position: HexFromOffset(3, 0), Terrain: Swamp, Structure: &Structure{Kind: Shack, Color: White}},
		{Position: HexFromOffset(4, 0), Terrain: Mountain},
		{Position: HexFromOffset(5, 0), Terrain: Desert, Structure: &Structure{Kind: Stone, Color: Blue}},
	}}
}

func at(col int) Hex { return HexFromOffset(col, 0) }

func TestClueTerrain(t *testing.T) {
	m := rowMap()
	c := Clue{Kind: ClueTerrain, Terrain: Desert}

	assert.True(t, c.Applies(m, at(0)), "on the terrain itself")
	assert.True(t, c.Applies(m, at(1)), "one space away")
	assert.False(t, c.Applies(m, at(2)), "two spaces away")
	assert.True(t, c.Applies(m, at(4)), "desert on the far end")
}

func TestClueTwoTerrains(t *testing.T) {
	m := rowMap()
	c := Clue{Kind: ClueTwoTerrains, Terrain: Desert, TerrainB: Water}

	assert.True(t, c.Applies(m, at(0)))
	assert.False(t, c.Applies(m, at(1)), "no range, forest does not qualify")
	assert.True(t, c.Applies(m, at(2)))
	assert.False(t, c.Applies(m, HexFromOffset(0, 5)), "off the map")
}

func TestClueEitherAnimal(t *testing.T) {
	m := rowMap()
	c := Clue{Kind: ClueEitherAnimal}

	assert.True(t, c.Applies(m, at(0)), "bear one space away")
	assert.True(t, c.Applies(m, at(2)))
	assert.False(t, c.Applies(m, at(3)), "bear two spaces away")
}

func TestClueAnimal(t *testing.T) {
	m := rowMap()

	bear := Clue{Kind: ClueAnimal, Animal: Bear}
	assert.True(t, bear.Applies(m, at(3)), "bear two spaces away")
	assert.False(t, bear.Applies(m, at(4)), "bear three spaces away")

	cougar := Clue{Kind: ClueAnimal, Animal: Cougar}
	for col := 0; col < 6; col++ {
		assert.False(t, cougar.Applies(m, at(col)), "no cougar on this map")
	}
}

func TestClueStructureKind(t *testing.T) {
	m := rowMap()

	shack := Clue{Kind: ClueStructureKind, Shape: Shack}
	assert.True(t, shack.Applies(m, at(1)), "shack two spaces away")
	assert.False(t, shack.Applies(m, at(0)), "shack three spaces away")

	stone := Clue{Kind: ClueStructureKind, Shape: Stone}
	assert.True(t, stone.Applies(m, at(3)))
	assert.False(t, stone.Applies(m, at(2)))
}

func TestClueStructureColor(t *testing.T) {
	m := rowMap()

	blue := Clue{Kind: ClueStructureColor, Color: Blue}
	assert.True(t, blue.Applies(m, at(2)), "blue stone three spaces away")
	assert.False(t, blue.Applies(m, at(0)), "blue stone five spaces away")

	white := Clue{Kind: ClueStructureColor, Color: White}
	assert.True(t, white.Applies(m, at(0)))

	green := Clue{Kind: ClueStructureColor, Color: Green}
	for col := 0; col < 6; col++ {
		assert.False(t, green.Applies(m, at(col)), "no green structure placed")
	}
}

func TestClueValidate(t *testing.T) {
	assert.NoError(t, Clue{Kind: ClueTerrain, Terrain: Swamp}.Validate())
	assert.NoError(t, Clue{Kind: ClueTwoTerrains, Terrain: Desert, TerrainB: Water}.Validate())
	assert.Error(t, Clue{Kind: ClueTwoTerrains, Terrain: Desert, TerrainB: Desert}.Validate())
	assert.Error(t, Clue{Kind: "bogus"}.Validate())
}

func TestClueNormalize(t *testing.T) {
	a := Clue{Kind: ClueTwoTerrains, Terrain: Water, TerrainB: Desert}
	b := Clue{Kind: ClueTwoTerrains, Terrain: Desert, TerrainB: Water}
	assert.Equal(t, a.Normalize(), b.Normalize())
}

func TestAllClues(t *testing.T) {
	m := rowMap()
	clues := AllClues(m)

	// 5 terrain + 10 terrain pairs + 1 either animal + 2 animals
	// + 2 structure kinds + 2 placed colors.
	require.Len(t, clues, 22)

	colors := 0
	for _, c := range clues {
		require.NoError(t, c.Validate())
		if c.Kind == ClueStructureColor {
			colors++
			assert.Contains(t, []StructureColor{White, Blue}, c.Color)
		}
	}
	assert.Equal(t, 2, colors)
}

func TestClueStrings(t *testing.T) {
	cases := map[string]Clue{
		"within one space of forest":                  {Kind: ClueTerrain, Terrain: Forest},
		"on desert or water":                          {Kind: ClueTwoTerrains, Terrain: Desert, TerrainB: Water},
		"within one space of either animal territory": {Kind: ClueEitherAnimal},
		"within two spaces of cougar territory":       {Kind: ClueAnimal, Animal: Cougar},
		"within two spaces of a standing stone":       {Kind: ClueStructureKind, Shape: Stone},
		"within three spaces of a black structure":    {Kind: ClueStructureColor, Color: Black},
	}
	for want, clue := range cases {
		assert.Equal(t, want, clue.String())
	}
}
