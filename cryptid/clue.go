package cryptid

import "fmt"

// ClueKind selects which predicate a Clue evaluates.
type ClueKind string

const (
	// ClueTerrain: the habitat is within one space of the terrain.
	ClueTerrain ClueKind = "terrain"
	// ClueTwoTerrains: the habitat is on one of two terrains.
	ClueTwoTerrains ClueKind = "two_terrains"
	// ClueEitherAnimal: the habitat is within one space of either territory.
	ClueEitherAnimal ClueKind = "either_animal"
	// ClueAnimal: the habitat is within two spaces of the animal territory.
	ClueAnimal ClueKind = "animal"
	// ClueStructureKind: the habitat is within two spaces of the structure type.
	ClueStructureKind ClueKind = "structure_kind"
	// ClueStructureColor: the habitat is within three spaces of the color.
	ClueStructureColor ClueKind = "structure_color"
)

// Clue is a single constraint on the habitat tile. Only the fields
// relevant to Kind are meaningful.
type Clue struct {
	Kind     ClueKind       `json:"kind"`
	Terrain  Terrain        `json:"terrain"`
	TerrainB Terrain        `json:"terrain_b"`
	Animal   Animal         `json:"animal"`
	Shape    StructureKind  `json:"structure_kind"`
	Color    StructureColor `json:"structure_color"`
}

// Validate checks that Kind is known and its parameters make sense.
func (c Clue) Validate() error {
	switch c.Kind {
	case ClueTerrain, ClueEitherAnimal, ClueAnimal, ClueStructureKind, ClueStructureColor:
		return nil
	case ClueTwoTerrains:
		if c.Terrain == c.TerrainB {
			return fmt.Errorf("two-terrain clue needs two different terrains, got %s twice", c.Terrain)
		}
		return nil
	}
	return fmt.Errorf("unknown clue kind %q", c.Kind)
}

// Normalize returns the clue with order-insensitive parameters in a
// canonical order, so equal clues compare equal.
func (c Clue) Normalize() Clue {
	if c.Kind == ClueTwoTerrains && c.TerrainB < c.Terrain {
		c.Terrain, c.TerrainB = c.TerrainB, c.Terrain
	}
	return c
}

// Applies reports whether a habitat at the given position would satisfy
// this clue.
func (c Clue) Applies(m *Map, at Hex) bool {
	switch c.Kind {
	case ClueTerrain:
		return m.Any(at, 1, func(t *Tile) bool { return t.Terrain == c.Terrain })
	case ClueTwoTerrains:
		tile := m.At(at)
		return tile != nil && (tile.Terrain == c.Terrain || tile.Terrain == c.TerrainB)
	case ClueEitherAnimal:
		return m.Any(at, 1, func(t *Tile) bool { return t.Animal != AnimalNone })
	case ClueAnimal:
		return m.Any(at, 2, func(t *Tile) bool { return t.Animal == c.Animal })
	case ClueStructureKind:
		return m.Any(at, 2, func(t *Tile) bool { return t.Structure != nil && t.Structure.Kind == c.Shape })
	case ClueStructureColor:
		return m.Any(at, 3, func(t *Tile) bool { return t.Structure != nil && t.Structure.Color == c.Color })
	}
	return false
}

// String renders the wording used on the physical clue cards.
func (c Clue) String() string {
	switch c.Kind {
	case ClueTerrain:
		return fmt.Sprintf("within one space of %s", c.Terrain)
	case ClueTwoTerrains:
		return fmt.Sprintf("on %s or %s", c.Terrain, c.TerrainB)
	case ClueEitherAnimal:
		return "within one space of either animal territory"
	case ClueAnimal:
		return fmt.Sprintf("within two spaces of %s territory", c.Animal)
	case ClueStructureKind:
		switch c.Shape {
		case Shack:
			return "within two spaces of a shack"
		case Stone:
			return "within two spaces of a standing stone"
		}
	case ClueStructureColor:
		return fmt.Sprintf("within three spaces of a %s structure", c.Color)
	}
	return "unknown clue"
}

// AllClues enumerates every clue that could be in play on the given map.
// Structure-color clues are only generated for colors actually placed.
func AllClues(m *Map) []Clue {
	var out []Clue

	for _, t := range Terrains {
		out = append(out, Clue{Kind: ClueTerrain, Terrain: t})
	}
	for i, a := range Terrains {
		for _, b := range Terrains[i+1:] {
			out = append(out, Clue{Kind: ClueTwoTerrains, Terrain: a, TerrainB: b})
		}
	}
	out = append(out, Clue{Kind: ClueEitherAnimal})
	for _, a := range Animals {
		out = append(out, Clue{Kind: ClueAnimal, Animal: a})
	}
	for _, k := range StructureKinds {
		out = append(out, Clue{Kind: ClueStructureKind, Shape: k})
	}
	for _, c := range m.PresentColors() {
		out = append(out, Clue{Kind: ClueStructureColor, Color: c})
	}

	return out
}
