package agent

import (
	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
)

// Weight is the (wx, wy) pair an action is scored with
type Weight struct {
	WX float64 `json:"wx"`
	WY float64 `json:"wy"`
}

// Policy holds one weight pair per action, indexed by core.Action
type Policy [core.NumActions]Weight

// RandomPolicy draws every weight component as Intn(100)/1000, giving small
// values in [0, 0.099]. Components are drawn action by action, wx before wy.
func RandomPolicy(rng core.Rand) Policy {
	var p Policy
	for _, a := range core.Actions {
		p[a].WX = float64(rng.Intn(100)) / 1000.0
		p[a].WY = float64(rng.Intn(100)) / 1000.0
	}
	return p
}

// Agent is a single grid-bound actor and its learned policy
type Agent struct {
	ID       int
	Position core.Coordinate
	Weights  Policy

	// LastAction and LastDelta are written together by Evaluate and consumed
	// by ApplyReward.
	LastAction core.Action
	LastDelta  core.Coordinate

	// PositionBeforeConverge is only meaningful once the episode converged.
	PositionBeforeConverge core.Coordinate

	evaluated bool
}

// New creates an agent at pos with the given policy
func New(id int, pos core.Coordinate, weights Policy) *Agent {
	return &Agent{
		ID:       id,
		Position: pos,
		Weights:  weights,
	}
}

// HasEvaluated reports whether LastAction/LastDelta hold a real decision
func (a *Agent) HasEvaluated() bool {
	return a.evaluated
}

// Clone returns an independent copy of the agent
func (a *Agent) Clone() *Agent {
	c := *a
	return &c
}

// Converge records the current position and then moves the agent onto target
func (a *Agent) Converge(target core.Coordinate) {
	a.PositionBeforeConverge = a.Position
	a.Position = target
}
