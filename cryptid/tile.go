package cryptid

import (
	"encoding/json"
	"fmt"
)

// Terrain is the landscape type of a single tile.
type Terrain int

const (
	Desert Terrain = iota
	Forest
	Water
	Swamp
	Mountain
)

// Terrains lists every terrain once, in display order.
var Terrains = []Terrain{Desert, Forest, Water, Swamp, Mountain}

func (t Terrain) String() string {
	switch t {
	case Desert:
		return "desert"
	case Forest:
		return "forest"
	case Water:
		return "water"
	case Swamp:
		return "swamp"
	case Mountain:
		return "mountain"
	}
	return "unknown"
}

// ParseTerrainCode maps the one-letter codes used in piece definitions.
func ParseTerrainCode(c byte) (Terrain, error) {
	switch c {
	case 'D':
		return Desert, nil
	case 'F':
		return Forest, nil
	case 'W':
		return Water, nil
	case 'S':
		return Swamp, nil
	case 'M':
		return Mountain, nil
	}
	return 0, fmt.Errorf("invalid terrain code %q, must be one of DFWSM", string(c))
}

func (t Terrain) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Terrain) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, option := range Terrains {
		if option.String() == s {
			*t = option
			return nil
		}
	}
	return fmt.Errorf("unknown terrain %q", s)
}

// Animal marks a tile as part of an animal territory.
type Animal int

const (
	AnimalNone Animal = iota
	Bear
	Cougar
)

// Animals lists the two animal territories.
var Animals = []Animal{Bear, Cougar}

func (a Animal) String() string {
	switch a {
	case Bear:
		return "bear"
	case Cougar:
		return "cougar"
	}
	return ""
}

func (a Animal) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Animal) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "":
		*a = AnimalNone
	case "bear":
		*a = Bear
	case "cougar":
		*a = Cougar
	default:
		return fmt.Errorf("unknown animal %q", s)
	}
	return nil
}

// StructureKind is the shape of a placed structure token.
type StructureKind int

const (
	Shack StructureKind = iota
	Stone
)

// StructureKinds lists both structure shapes.
var StructureKinds = []StructureKind{Shack, Stone}

func (k StructureKind) String() string {
	switch k {
	case Shack:
		return "shack"
	case Stone:
		return "stone"
	}
	return "unknown"
}

func (k StructureKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *StructureKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "shack":
		*k = Shack
	case "stone":
		*k = Stone
	default:
		return fmt.Errorf("unknown structure kind %q", s)
	}
	return nil
}

// StructureColor is the color of a placed structure token. Black
// structures only appear in advanced games.
type StructureColor int

const (
	White StructureColor = iota
	Green
	Blue
	Black
)

// StructureColors lists every structure color, advanced set included.
var StructureColors = []StructureColor{White, Green, Blue, Black}

func (c StructureColor) String() string {
	switch c {
	case White:
		return "white"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Black:
		return "black"
	}
	return "unknown"
}

func (c StructureColor) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *StructureColor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, option := range StructureColors {
		if option.String() == s {
			*c = option
			return nil
		}
	}
	return fmt.Errorf("unknown structure color %q", s)
}

// Structure is a shack or standing stone token placed on a tile.
type Structure struct {
	Kind  StructureKind  `json:"kind"`
	Color StructureColor `json:"color"`
}

// Tile is a single hexagon of the assembled map.
type Tile struct {
	Position  Hex        `json:"position"`
	Terrain   Terrain    `json:"terrain"`
	Animal    Animal     `json:"animal"`
	Structure *Structure `json:"structure,omitempty"`
}

// Map is the assembled play area.
type Map struct {
	Tiles []Tile `json:"tiles"`
}

// At returns the tile at the given position, or nil.
func (m *Map) At(at Hex) *Tile {
	for i := range m.Tiles {
		if m.Tiles[i].Position == at {
			return &m.Tiles[i]
		}
	}
	return nil
}

// Any reports whether the condition holds for any tile within dist steps
// of position. Distance 0 checks only the tile at position itself.
func (m *Map) Any(position Hex, dist int, cond func(*Tile) bool) bool {
	for i := range m.Tiles {
		if m.Tiles[i].Position.Distance(position) <= dist && cond(&m.Tiles[i]) {
			return true
		}
	}
	return false
}

// PresentColors returns the structure colors currently placed on the map,
// in display order.
func (m *Map) PresentColors() []StructureColor {
	present := make(map[StructureColor]bool)
	for i := range m.Tiles {
		if s := m.Tiles[i].Structure; s != nil {
			present[s.Color] = true
		}
	}

	out := make([]StructureColor, 0, len(present))
	for _, c := range StructureColors {
		if present[c] {
			out = append(out, c)
		}
	}
	return out
}
