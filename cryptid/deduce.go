package cryptid

import (
	"encoding/json"
	"fmt"
)

// PlayerColor matches the pawn colors in the box.
type PlayerColor int

const (
	Red PlayerColor = iota
	Orange
	Purple
	GreenPawn
	Brown
)

// PlayerColors lists every pawn color.
var PlayerColors = []PlayerColor{Red, Orange, Purple, GreenPawn, Brown}

func (c PlayerColor) String() string {
	switch c {
	case Red:
		return "red"
	case Orange:
		return "orange"
	case Purple:
		return "purple"
	case GreenPawn:
		return "green"
	case Brown:
		return "brown"
	}
	return "unknown"
}

func (c PlayerColor) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *PlayerColor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, option := range PlayerColors {
		if option.String() == s {
			*c = option
			return nil
		}
	}
	return fmt.Errorf("unknown player color %q", s)
}

// Player is one of the people at the table, each holding a hidden clue.
type Player struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Color PlayerColor `json:"color"`
}

// ValidatePlayers enforces the table rules: three to five players with
// distinct non-empty names and distinct colors.
func ValidatePlayers(players []Player) error {
	if len(players) < 3 || len(players) > 5 {
		return fmt.Errorf("need 3 to 5 players, got %d", len(players))
	}

	names := make(map[string]bool, len(players))
	colors := make(map[PlayerColor]bool, len(players))
	ids := make(map[string]bool, len(players))
	for _, p := range players {
		if p.ID == "" {
			return fmt.Errorf("player %q has no id", p.Name)
		}
		if ids[p.ID] {
			return fmt.Errorf("player id %q used more than once", p.ID)
		}
		if p.Name == "" {
			return fmt.Errorf("player %s has no name", p.ID)
		}
		if names[p.Name] {
			return fmt.Errorf("player name %q used more than once", p.Name)
		}
		if colors[p.Color] {
			return fmt.Errorf("player color %s used more than once", p.Color)
		}
		ids[p.ID] = true
		names[p.Name] = true
		colors[p.Color] = true
	}
	return nil
}

// Answer records what placing a cube or disc on a tile revealed about a
// player's hidden clue.
type Answer int

const (
	AnswerUnknown Answer = iota
	// AnswerYes: the player placed a disc, their clue applies here.
	AnswerYes
	// AnswerNo: the player placed a cube, their clue rules this tile out.
	AnswerNo
)

func (a Answer) String() string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerNo:
		return "no"
	}
	return "unknown"
}

func (a Answer) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "unknown", "":
		*a = AnswerUnknown
	case "yes":
		*a = AnswerYes
	case "no":
		*a = AnswerNo
	default:
		return fmt.Errorf("unknown answer %q", s)
	}
	return nil
}

// Survey tracks everything entered during a game: the assembled map, the
// players, their recorded answers, and any manually entered clues.
type Survey struct {
	Map     *Map
	Players []Player

	// Manual switches between experimenting with hand-picked clues and
	// deducing clues from recorded answers.
	Manual bool
	Clues  []Clue

	// Answers maps player id to the answers recorded on tiles.
	Answers map[string]map[Hex]Answer
}

// NewSurvey starts a survey over a freshly assembled map.
func NewSurvey(m *Map, players []Player) *Survey {
	return &Survey{
		Map:     m,
		Players: players,
		Answers: make(map[string]map[Hex]Answer),
	}
}

// SetAnswer records (or clears, with AnswerUnknown) a player's answer on
// a tile.
func (s *Survey) SetAnswer(playerID string, at Hex, a Answer) error {
	if s.Map.At(at) == nil {
		return fmt.Errorf("no tile at %s", at)
	}
	if !s.hasPlayer(playerID) {
		return fmt.Errorf("no player with id %q", playerID)
	}

	if a == AnswerUnknown {
		delete(s.Answers[playerID], at)
		return nil
	}
	if s.Answers[playerID] == nil {
		s.Answers[playerID] = make(map[Hex]Answer)
	}
	s.Answers[playerID][at] = a
	return nil
}

func (s *Survey) hasPlayer(id string) bool {
	for _, p := range s.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

// PossibleClues returns every clue still consistent with all of the
// player's recorded answers: a disc means the clue must apply on that
// tile, a cube means it must not. Contradictory answers yield an empty
// result.
func (s *Survey) PossibleClues(playerID string) []Clue {
	answers := s.Answers[playerID]

	var out []Clue
	for _, c := range AllClues(s.Map) {
		consistent := true
		for at, a := range answers {
			applies := c.Applies(s.Map, at)
			if (a == AnswerYes && !applies) || (a == AnswerNo && applies) {
				consistent = false
				break
			}
		}
		if consistent {
			out = append(out, c)
		}
	}
	return out
}

// PossibleTiles computes which tiles can still hold the habitat.
//
// In manual mode a tile stays possible iff every entered clue applies to
// it; with no clues entered, every tile is possible. In deduction mode a
// tile stays possible iff every player with at least one recorded answer
// still has some possible clue that applies to it.
func (s *Survey) PossibleTiles() map[Hex]bool {
	possible := make(map[Hex]bool, len(s.Map.Tiles))
	for i := range s.Map.Tiles {
		possible[s.Map.Tiles[i].Position] = true
	}

	if s.Manual {
		for _, c := range s.Clues {
			for at := range possible {
				if possible[at] && !c.Applies(s.Map, at) {
					possible[at] = false
				}
			}
		}
		return possible
	}

	for _, p := range s.Players {
		if len(s.Answers[p.ID]) == 0 {
			continue
		}
		candidates := s.PossibleClues(p.ID)
		for at := range possible {
			if !possible[at] {
				continue
			}
			applies := false
			for _, c := range candidates {
				if c.Applies(s.Map, at) {
					applies = true
					break
				}
			}
			if !applies {
				possible[at] = false
			}
		}
	}
	return possible
}
