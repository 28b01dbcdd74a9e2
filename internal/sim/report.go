package sim

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
)

// AgentReport is one agent's line in a success report
type AgentReport struct {
	Index         int             `json:"index"`
	FinalPosition core.Coordinate `json:"final_position"`
}

// Report summarises a finished (or still running) episode. Discoverer and
// Agents are only populated when the episode converged.
type Report struct {
	EpisodeID  string          `json:"episode_id"`
	Phase      Phase           `json:"phase"`
	Steps      int             `json:"steps"`
	Found      bool            `json:"found"`
	Discoverer int             `json:"discoverer"`
	Target     core.Coordinate `json:"target"`
	Agents     []AgentReport   `json:"agents,omitempty"`
}

// Report builds the episode report. FinalPosition is the position an agent
// held when the target was found, before everyone gathered on it.
func (e *Engine) Report() Report {
	r := Report{
		EpisodeID:  e.episodeID,
		Phase:      e.phase,
		Steps:      e.steps,
		Found:      e.phase == PhaseConverged,
		Discoverer: -1,
		Target:     e.target,
	}
	if !r.Found {
		return r
	}

	r.Discoverer = e.discoverer
	r.Agents = make([]AgentReport, len(e.agents))
	for i, a := range e.agents {
		r.Agents[i] = AgentReport{Index: i, FinalPosition: a.PositionBeforeConverge}
	}
	return r
}

// WriteTo prints the report for humans. Coordinates and agent numbers are
// shown 1-indexed; agent indices stay 0-based.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer

	if r.Found {
		buf.WriteString("Friend found! Agents gathered.\n\n")
		for _, a := range r.Agents {
			pos := a.FinalPosition.OneIndexed()
			fmt.Fprintf(&buf, "Agent %d (number %d) final position: (%d, %d)\n", a.Index, a.Index+1, pos.X, pos.Y)
		}
		target := r.Target.OneIndexed()
		fmt.Fprintf(&buf, "Friend final position: (%d, %d)\n", target.X, target.Y)
		fmt.Fprintf(&buf, "Agent number who found Friend: %d\n", r.Discoverer+1)
	}
	buf.WriteString("Simulation ended.\n")

	return buf.WriteTo(w)
}
