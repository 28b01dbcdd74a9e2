package agent

import (
	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
)

// ApplyAction moves the agent one cell in the direction of LastAction and
// clamps the result to the grid. A move into a wall leaves that axis where it
// was.
func ApplyAction(a *Agent) {
	if !a.evaluated {
		return
	}
	a.Position = a.Position.Add(a.LastAction.Offset()).Clamp(core.GridSize)
}
