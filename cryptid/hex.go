package cryptid

import "fmt"

// Hex is an axial coordinate on a flat-top hexagonal grid.
type Hex struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// HexFromOffset converts odd-q offset coordinates (odd columns shifted
// half a step down) to axial coordinates.
func HexFromOffset(col, row int) Hex {
	return Hex{Q: col, R: row - (col-(col&1))/2}
}

// Offset converts back to odd-q offset coordinates.
func (h Hex) Offset() (col, row int) {
	return h.Q, h.R + (h.Q-(h.Q&1))/2
}

func (h Hex) Add(o Hex) Hex {
	return Hex{Q: h.Q + o.Q, R: h.R + o.R}
}

func (h Hex) Neg() Hex {
	return Hex{Q: -h.Q, R: -h.R}
}

// Distance returns the number of single-hex steps between two coordinates.
func (h Hex) Distance(o Hex) int {
	dq := h.Q - o.Q
	dr := h.R - o.R
	return (abs(dq) + abs(dq+dr) + abs(dr)) / 2
}

func (h Hex) String() string {
	col, row := h.Offset()
	return fmt.Sprintf("(%d,%d)", col, row)
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
