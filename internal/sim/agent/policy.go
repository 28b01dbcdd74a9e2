package agent

import (
	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
)

// Scores computes wx*dx + wy*dy for every action
func Scores(p Policy, delta core.Coordinate) [core.NumActions]float64 {
	var scores [core.NumActions]float64
	for _, a := range core.Actions {
		w := p[a]
		scores[a] = w.WX*float64(delta.X) + w.WY*float64(delta.Y)
	}
	return scores
}

// Argmax returns the action with the highest score. The incumbent is only
// replaced on strict improvement, so the first maximal action in scan order
// wins a tie.
func Argmax(scores [core.NumActions]float64) core.Action {
	best := core.Actions[0]
	for _, a := range core.Actions[1:] {
		if scores[a] > scores[best] {
			best = a
		}
	}
	return best
}

// Evaluate picks the agent's next action from its position relative to
// target and records the action and the delta that produced it. It does not
// move the agent.
func Evaluate(a *Agent, target core.Coordinate) core.Action {
	delta := target.Sub(a.Position)
	action := Argmax(Scores(a.Weights, delta))

	a.LastAction = action
	a.LastDelta = delta
	a.evaluated = true
	return action
}
