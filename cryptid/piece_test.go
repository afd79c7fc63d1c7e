package cryptid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPieceTiles(t *testing.T) {
	for _, p := range Pieces {
		tiles, err := p.Tiles()
		require.NoError(t, err, "piece %s", p)
		require.Len(t, tiles, 18, "piece %s", p)

		// Every offset of the 6x3 grid appears exactly once.
		seen := make(map[Hex]bool)
		for _, tile := range tiles {
			seen[tile.Position] = true
		}
		for col := 0; col < 6; col++ {
			for row := 0; row < 3; row++ {
				assert.True(t, seen[HexFromOffset(col, row)], "piece %s missing (%d,%d)", p, col, row)
			}
		}

		// Each piece carries exactly one two-tile animal territory.
		animals := make(map[Animal]int)
		for _, tile := range tiles {
			if tile.Animal != AnimalNone {
				animals[tile.Animal]++
			}
		}
		require.Len(t, animals, 1, "piece %s", p)
		for a, n := range animals {
			assert.Equal(t, 2, n, "piece %s animal %s", p, a)
		}
	}
}

func TestPieceTilesUnknown(t *testing.T) {
	_, err := Piece(7).Tiles()
	assert.Error(t, err)
}

func TestRotate180(t *testing.T) {
	tiles, err := Piece(1).Tiles()
	require.NoError(t, err)

	rotated, err := Piece(1).Tiles()
	require.NoError(t, err)
	rotate180(rotated)

	// Rotation keeps the piece on the same 6x3 footprint.
	footprint := make(map[Hex]bool)
	for _, tile := range tiles {
		footprint[tile.Position] = true
	}
	for _, tile := range rotated {
		assert.True(t, footprint[tile.Position], "rotated tile left the footprint: %s", tile.Position)
	}

	// The top-left corner lands on the bottom-right.
	assert.Equal(t, HexFromOffset(5, 2), rotated[0].Position)

	// Rotating twice is the identity.
	rotate180(rotated)
	assert.Equal(t, tiles, rotated)
}

func TestBuildMap(t *testing.T) {
	m, err := BuildMap([6]PieceChoice{
		{Piece: 1}, {Piece: 2},
		{Piece: 3, Rotated: true}, {Piece: 4},
		{Piece: 5}, {Piece: 6, Rotated: true},
	})
	require.NoError(t, err)
	require.Len(t, m.Tiles, 108)

	// The assembled map covers the 12x9 grid with no overlaps.
	seen := make(map[Hex]bool)
	for _, tile := range m.Tiles {
		assert.False(t, seen[tile.Position], "duplicate tile at %s", tile.Position)
		seen[tile.Position] = true

		col, row := tile.Position.Offset()
		assert.GreaterOrEqual(t, col, 0)
		assert.Less(t, col, 12)
		assert.GreaterOrEqual(t, row, 0)
		assert.Less(t, row, 9)
	}
}

func TestBuildMapDuplicatePiece(t *testing.T) {
	_, err := BuildMap([6]PieceChoice{
		{Piece: 1}, {Piece: 1},
		{Piece: 3}, {Piece: 4},
		{Piece: 5}, {Piece: 6},
	})
	assert.ErrorContains(t, err, "more than once")
}

func TestBuildMapRotatedSectionStaysPut(t *testing.T) {
	plain, err := BuildMap([6]PieceChoice{
		{Piece: 1}, {Piece: 2}, {Piece: 3}, {Piece: 4}, {Piece: 5}, {Piece: 6},
	})
	require.NoError(t, err)

	rotated, err := BuildMap([6]PieceChoice{
		{Piece: 1}, {Piece: 2, Rotated: true}, {Piece: 3}, {Piece: 4}, {Piece: 5}, {Piece: 6},
	})
	require.NoError(t, err)

	// Rotating one section reorders its tiles but covers the same cells.
	plainSeen := make(map[Hex]bool)
	for _, tile := range plain.Tiles {
		plainSeen[tile.Position] = true
	}
	for _, tile := range rotated.Tiles {
		assert.True(t, plainSeen[tile.Position])
	}
}
