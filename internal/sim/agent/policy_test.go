package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
	"github.com/mitchelldurbincs/friendseek/internal/testutil"
)

func TestArgmax_TieBreak(t *testing.T) {
	tests := []struct {
		name   string
		scores [core.NumActions]float64
		want   core.Action
	}{
		{"all equal picks first", [core.NumActions]float64{0, 0, 0, 0}, core.Up},
		{"down and right tie", [core.NumActions]float64{-1, 2, 0, 2}, core.Down},
		{"left and right tie", [core.NumActions]float64{-1, -1, 5, 5}, core.Left},
		{"strict max last", [core.NumActions]float64{1, 2, 3, 4}, core.Right},
		{"strict max first", [core.NumActions]float64{4, 3, 2, 1}, core.Up},
		{"all negative", [core.NumActions]float64{-4, -3, -2, -5}, core.Left},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Argmax(tt.scores))
		})
	}
}

func TestScores(t *testing.T) {
	p := Policy{
		core.Up:    {WX: 1, WY: 0},
		core.Down:  {WX: 0, WY: 1},
		core.Left:  {WX: -1, WY: 0},
		core.Right: {WX: 0.5, WY: 0.5},
	}

	got := Scores(p, core.NewCoordinate(2, -4))
	assert.Equal(t, [core.NumActions]float64{2, -4, -2, -1}, got)
}

func TestEvaluate_RecordsActionAndDelta(t *testing.T) {
	p := Policy{core.Right: {WX: 1, WY: 0}}
	a := New(0, core.NewCoordinate(2, 3), p)

	action := Evaluate(a, core.NewCoordinate(7, 1))

	assert.Equal(t, core.Right, action)
	assert.Equal(t, core.Right, a.LastAction)
	assert.Equal(t, core.NewCoordinate(5, -2), a.LastDelta)
	assert.Equal(t, core.NewCoordinate(2, 3), a.Position, "evaluation must not move the agent")
	assert.True(t, a.HasEvaluated())
}

func TestEvaluate_EqualScoresPreferLowerAction(t *testing.T) {
	// Down and Right both score 0.5*dx + 0.5*dy.
	p := Policy{
		core.Up:    {WX: 0, WY: -1},
		core.Down:  {WX: 0.5, WY: 0.5},
		core.Left:  {WX: -1, WY: 0},
		core.Right: {WX: 0.5, WY: 0.5},
	}
	a := New(0, core.NewCoordinate(0, 0), p)

	assert.Equal(t, core.Down, Evaluate(a, core.NewCoordinate(4, 4)))
}

func TestEvaluate_OnTargetPicksUp(t *testing.T) {
	a := New(0, core.NewCoordinate(3, 3), RandomPolicy(testutil.NewTestRNG(1)))

	assert.Equal(t, core.Up, Evaluate(a, core.NewCoordinate(3, 3)))
	assert.Equal(t, core.Coordinate{}, a.LastDelta)
}

func TestRandomPolicy(t *testing.T) {
	rng := testutil.NewSequenceRand(0, 99, 5, 50, 10, 20, 30, 40)
	p := RandomPolicy(rng)

	assert.Equal(t, 8, rng.Draws())
	assert.Equal(t, Weight{WX: 0, WY: 0.099}, p[core.Up])
	assert.Equal(t, Weight{WX: 0.005, WY: 0.05}, p[core.Down])
	assert.Equal(t, Weight{WX: 0.01, WY: 0.02}, p[core.Left])
	assert.Equal(t, Weight{WX: 0.03, WY: 0.04}, p[core.Right])

	seeded := RandomPolicy(testutil.NewTestRNG(42))
	for _, w := range seeded {
		assert.GreaterOrEqual(t, w.WX, 0.0)
		assert.Less(t, w.WX, 0.1)
		assert.GreaterOrEqual(t, w.WY, 0.0)
		assert.Less(t, w.WY, 0.1)
	}
}
