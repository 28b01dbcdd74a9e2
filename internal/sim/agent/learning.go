package agent

import (
	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
)

// Reward maps an outcome onto the reward signal
func Reward(success bool) float64 {
	if success {
		return core.SuccessReward
	}
	return core.FailureReward
}

// ApplyReward nudges the weights of the last action taken towards (or away
// from) the delta observed when it was chosen. Other actions are untouched.
func ApplyReward(a *Agent, success bool) {
	if !a.evaluated {
		return
	}
	step := core.LearningRate * Reward(success)
	w := &a.Weights[a.LastAction]
	w.WX += step * float64(a.LastDelta.X)
	w.WY += step * float64(a.LastDelta.Y)
}
