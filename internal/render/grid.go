package render

import (
	"strings"

	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
)

// Cell symbols
const (
	TargetSymbol = 'F'
	AgentSymbol  = 'A'
	EmptySymbol  = '.'
)

// Cell returns the symbol for one grid cell. The target wins over an agent
// standing on it.
func Cell(s core.Snapshot, c core.Coordinate) byte {
	switch {
	case c.Equal(s.Target):
		return TargetSymbol
	case s.AgentAt(c):
		return AgentSymbol
	default:
		return EmptySymbol
	}
}

// Grid renders the snapshot as GridSize rows, top row first
func Grid(s core.Snapshot) []string {
	rows := make([]string, core.GridSize)
	var sb strings.Builder
	sb.Grow(core.GridSize)

	for y := 0; y < core.GridSize; y++ {
		sb.Reset()
		for x := 0; x < core.GridSize; x++ {
			sb.WriteByte(Cell(s, core.NewCoordinate(x, y)))
		}
		rows[y] = sb.String()
	}
	return rows
}
