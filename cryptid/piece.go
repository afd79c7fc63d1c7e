package cryptid

import (
	"fmt"
	"strings"
)

// Piece identifies one of the six 6x3 map sections, numbered 1 through 6
// like the physical boards.
type Piece int

// Pieces lists every map section.
var Pieces = []Piece{1, 2, 3, 4, 5, 6}

// Piece definitions use the text format of the physical boards: one line
// per row, two characters per column. The first character is the terrain
// code (DFWSM), the second marks an animal territory (b for bear, c for
// cougar) or is left blank.
var pieceDefs = map[Piece]string{
	1: `W W W W F F
S W W F F F
SbSbS D D D`,
	2: `S F F F F F
S S F F D D
S McMcD D D`,
	3: `ScScF F F W
S S F M W W
M M M M W W`,
	4: `D D D D M M
D D M W W W
D D M M WcWc`,
	5: `S S S M M M
S D D W M M
D D W WbWbM`,
	6: `D D S S S Fb
M D D S S Fb
M M D D F F`,
}

func (p Piece) String() string {
	return fmt.Sprintf("%d", int(p))
}

// Tiles parses the piece definition into its 18 tiles, positioned with
// the piece's top-left corner at the origin.
func (p Piece) Tiles() ([]Tile, error) {
	def, ok := pieceDefs[p]
	if !ok {
		return nil, fmt.Errorf("no such piece: %d", int(p))
	}

	var tiles []Tile
	for row, line := range strings.Split(def, "\n") {
		for col := 0; col*2 < len(line); col++ {
			terrain, err := ParseTerrainCode(line[col*2])
			if err != nil {
				return nil, fmt.Errorf("piece %d row %d col %d: %w", int(p), row, col, err)
			}

			// Trailing blanks may be trimmed from the definition.
			animal := AnimalNone
			if col*2+1 < len(line) {
				switch line[col*2+1] {
				case 'b':
					animal = Bear
				case 'c':
					animal = Cougar
				}
			}

			tiles = append(tiles, Tile{
				Position: HexFromOffset(col, row),
				Terrain:  terrain,
				Animal:   animal,
			})
		}
	}
	return tiles, nil
}

// PieceChoice is one slot of the map setup: which piece goes there, and
// whether it is rotated 180 degrees.
type PieceChoice struct {
	Piece   Piece `json:"piece"`
	Rotated bool  `json:"rotated"`
}

func (pc PieceChoice) String() string {
	if pc.Rotated {
		return fmt.Sprintf("%s (rotated)", pc.Piece)
	}
	return pc.Piece.String()
}

// rotate180 turns a piece half way around. The top-left corner of the
// bounding box stays at the origin.
func rotate180(tiles []Tile) {
	for i := range tiles {
		tiles[i].Position = tiles[i].Position.Neg().Add(Hex{Q: 5, R: 0})
	}
}

func translate(tiles []Tile, by Hex) {
	for i := range tiles {
		tiles[i].Position = tiles[i].Position.Add(by)
	}
}

// pieceOffsets lays the six sections out two across, three down.
var pieceOffsets = [6]Hex{
	HexFromOffset(0, 0),
	HexFromOffset(6, 0),
	HexFromOffset(0, 3),
	HexFromOffset(6, 3),
	HexFromOffset(0, 6),
	HexFromOffset(6, 6),
}

// BuildMap assembles the full 12x9 map from six piece choices. Every
// piece must be used exactly once.
func BuildMap(choices [6]PieceChoice) (*Map, error) {
	seen := make(map[Piece]bool, len(choices))
	for _, choice := range choices {
		if seen[choice.Piece] {
			return nil, fmt.Errorf("piece %s selected more than once", choice.Piece)
		}
		seen[choice.Piece] = true
	}

	m := &Map{Tiles: make([]Tile, 0, 108)}
	for i, choice := range choices {
		tiles, err := choice.Piece.Tiles()
		if err != nil {
			return nil, err
		}
		if choice.Rotated {
			rotate180(tiles)
		}
		translate(tiles, pieceOffsets[i])
		m.Tiles = append(m.Tiles, tiles...)
	}
	return m, nil
}
