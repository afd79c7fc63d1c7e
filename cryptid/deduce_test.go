package cryptid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayers() []Player {
	return []Player{
		{ID: "p1", Name: "Ada", Color: Red},
		{ID: "p2", Name: "Ben", Color: Orange},
		{ID: "p3", Name: "Cleo", Color: Purple},
	}
}

func TestValidatePlayers(t *testing.T) {
	assert.NoError(t, ValidatePlayers(testPlayers()))

	assert.Error(t, ValidatePlayers(testPlayers()[:2]), "too few")

	six := append(testPlayers(),
		Player{ID: "p4", Name: "Dan", Color: GreenPawn},
		Player{ID: "p5", Name: "Eve", Color: Brown},
		Player{ID: "p6", Name: "Fay", Color: Red},
	)
	assert.Error(t, ValidatePlayers(six), "too many")

	dupName := testPlayers()
	dupName[1].Name = "Ada"
	assert.Error(t, ValidatePlayers(dupName))

	dupColor := testPlayers()
	dupColor[1].Color = Red
	assert.Error(t, ValidatePlayers(dupColor))

	noName := testPlayers()
	noName[2].Name = ""
	assert.Error(t, ValidatePlayers(noName))

	dupID := testPlayers()
	dupID[2].ID = "p1"
	assert.Error(t, ValidatePlayers(dupID))
}

func TestSetAnswer(t *testing.T) {
	s := NewSurvey(rowMap(), testPlayers())

	require.NoError(t, s.SetAnswer("p1", at(2), AnswerYes))
	assert.Equal(t, AnswerYes, s.Answers["p1"][at(2)])

	require.NoError(t, s.SetAnswer("p1", at(2), AnswerNo))
	assert.Equal(t, AnswerNo, s.Answers["p1"][at(2)])

	// Unknown clears the record.
	require.NoError(t, s.SetAnswer("p1", at(2), AnswerUnknown))
	assert.Empty(t, s.Answers["p1"])

	assert.Error(t, s.SetAnswer("p1", HexFromOffset(9, 9), AnswerYes), "off the map")
	assert.Error(t, s.SetAnswer("nobody", at(0), AnswerYes))
}

func TestManualScan(t *testing.T) {
	s := NewSurvey(rowMap(), testPlayers())
	s.Manual = true

	// No clues: everything is possible.
	possible := s.PossibleTiles()
	for _, tile := range s.Map.Tiles {
		assert.True(t, possible[tile.Position])
	}

	s.Clues = []Clue{{Kind: ClueTwoTerrains, Terrain: Desert, TerrainB: Water}}
	possible = s.PossibleTiles()
	assert.True(t, possible[at(0)])
	assert.False(t, possible[at(1)])
	assert.True(t, possible[at(2)])
	assert.False(t, possible[at(3)])
	assert.False(t, possible[at(4)])
	assert.True(t, possible[at(5)])

	// A second clue narrows further.
	s.Clues = append(s.Clues, Clue{Kind: ClueStructureKind, Shape: Stone})
	possible = s.PossibleTiles()
	assert.False(t, possible[at(0)], "stone too far")
	assert.True(t, possible[at(5)])
}

func TestPossibleClues(t *testing.T) {
	s := NewSurvey(rowMap(), testPlayers())

	// No answers recorded: every clue on the map remains possible.
	assert.Len(t, s.PossibleClues("p1"), len(AllClues(s.Map)))

	// A cube rules out every clue that applies on that tile, a disc
	// every clue that does not.
	require.NoError(t, s.SetAnswer("p1", at(0), AnswerNo))
	require.NoError(t, s.SetAnswer("p1", at(3), AnswerYes))

	for _, c := range s.PossibleClues("p1") {
		assert.False(t, c.Applies(s.Map, at(0)), "clue %q applies on a cube tile", c)
		assert.True(t, c.Applies(s.Map, at(3)), "clue %q missing on a disc tile", c)
	}
}

func TestContradictoryAnswers(t *testing.T) {
	m, err := BuildMap([6]PieceChoice{
		{Piece: 1}, {Piece: 2}, {Piece: 3}, {Piece: 4}, {Piece: 5}, {Piece: 6},
	})
	require.NoError(t, err)

	s := NewSurvey(m, testPlayers())

	// Alternate discs and cubes across the top three rows. No clue can
	// match that checkerboard, so the answers contradict each other.
	for row := 0; row < 3; row++ {
		for col := 0; col < 12; col++ {
			answer := AnswerYes
			if (col+row)%2 == 1 {
				answer = AnswerNo
			}
			require.NoError(t, s.SetAnswer("p1", HexFromOffset(col, row), answer))
		}
	}

	assert.Empty(t, s.PossibleClues("p1"))

	possible := s.PossibleTiles()
	for _, tile := range m.Tiles {
		assert.False(t, possible[tile.Position], "tile %s survived contradictory answers", tile.Position)
	}
}

func TestDeducedPossibleTiles(t *testing.T) {
	m, err := BuildMap([6]PieceChoice{
		{Piece: 1}, {Piece: 2}, {Piece: 3}, {Piece: 4}, {Piece: 5}, {Piece: 6},
	})
	require.NoError(t, err)

	s := NewSurvey(m, testPlayers())

	// Ada secretly holds "within one space of forest". Record honest
	// answers on the first map row.
	truth := Clue{Kind: ClueTerrain, Terrain: Forest}
	for col := 0; col < 12; col++ {
		pos := HexFromOffset(col, 0)
		answer := AnswerNo
		if truth.Applies(m, pos) {
			answer = AnswerYes
		}
		require.NoError(t, s.SetAnswer("p1", pos, answer))
	}

	// The true clue must survive deduction.
	assert.Contains(t, s.PossibleClues("p1"), truth)

	// Every tile the true clue allows must stay possible, and at least
	// one tile must be ruled out by the recorded cubes.
	possible := s.PossibleTiles()
	eliminated := 0
	for _, tile := range m.Tiles {
		if truth.Applies(m, tile.Position) {
			assert.True(t, possible[tile.Position], "true habitat candidate %s was eliminated", tile.Position)
		}
		if !possible[tile.Position] {
			eliminated++
		}
	}
	assert.Greater(t, eliminated, 0)

	// Players without answers do not constrain the board.
	assert.Len(t, s.PossibleClues("p2"), len(AllClues(m)))
}
