package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/friendseek/internal/sim/agent"
	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
	"github.com/mitchelldurbincs/friendseek/internal/sim/events"
	"github.com/mitchelldurbincs/friendseek/internal/testutil"
)

// downPolicy scores Down highest whenever the target is below
var downPolicy = agent.Policy{core.Down: {WX: 0, WY: 1}}

// upPolicy scores Up highest whenever the target is above
var upPolicy = agent.Policy{core.Up: {WX: 0, WY: -1}}

// stuckPolicy keeps an agent in the top-left corner pushing Up against the
// wall for the whole episode
var stuckPolicy = agent.Policy{core.Up: {WX: 10, WY: 10}}

func testConfig() EngineConfig {
	return EngineConfig{
		Rng:       testutil.NewTestRNG(1),
		Logger:    testutil.NopLogger(),
		EpisodeID: "test-episode",
	}
}

func newTestEngine(t *testing.T, target core.Coordinate, agents ...*agent.Agent) *Engine {
	t.Helper()
	e, err := NewEngineFromState(context.Background(), testConfig(), target, agents)
	require.NoError(t, err)
	return e
}

func runToEnd(t *testing.T, e *Engine) {
	t.Helper()
	for i := 0; i < core.MaxSteps && !e.IsOver(); i++ {
		_, err := e.Step(context.Background())
		require.NoError(t, err)
	}
	require.True(t, e.IsOver(), "episode should end within the step budget")
}

func TestEngine_SingleAgentWalksDown(t *testing.T) {
	e := newTestEngine(t, core.NewCoordinate(0, 9), agent.New(0, core.NewCoordinate(0, 0), downPolicy))

	for step := 1; step < 9; step++ {
		phase, err := e.Step(context.Background())
		require.NoError(t, err)
		require.Equal(t, PhaseRunning, phase, "step %d", step)
		assert.Equal(t, core.NewCoordinate(0, step), e.Agents()[0].Position)
	}

	phase, err := e.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseConverged, phase)
	assert.Equal(t, 9, e.StepCount())
	assert.Equal(t, 0, e.Discoverer())

	a := e.Agents()[0]
	assert.Equal(t, core.NewCoordinate(0, 9), a.PositionBeforeConverge)
	assert.Equal(t, core.NewCoordinate(0, 9), a.Position)

	// Failure penalties over steps 1-8 used dy = 9..2 (sum 44), then the
	// success update used dy = 1.
	assert.InDelta(t, 1-0.001*44+0.1*1, a.Weights[core.Down].WY, 1e-9)
	assert.Equal(t, 0.0, a.Weights[core.Down].WX)

	r := e.Report()
	assert.True(t, r.Found)
	assert.Equal(t, 0, r.Discoverer)
	require.Len(t, r.Agents, 1)
	assert.Equal(t, core.NewCoordinate(0, 9), r.Agents[0].FinalPosition)
}

func TestEngine_DiscovererIsLowestIndex(t *testing.T) {
	target := core.NewCoordinate(5, 5)
	e := newTestEngine(t, target,
		agent.New(0, core.NewCoordinate(0, 0), stuckPolicy),
		agent.New(1, core.NewCoordinate(5, 6), upPolicy),
		agent.New(2, core.NewCoordinate(5, 4), downPolicy),
	)

	phase, err := e.Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, PhaseConverged, phase)

	assert.Equal(t, 1, e.Discoverer(), "agents 1 and 2 arrive together; the lower index wins")
	assert.Equal(t, 1, e.Report().Discoverer)
}

func TestEngine_ConvergenceSnapshotsBeforeTeleport(t *testing.T) {
	target := core.NewCoordinate(5, 5)
	e := newTestEngine(t, target,
		agent.New(0, core.NewCoordinate(5, 4), downPolicy),
		agent.New(1, core.NewCoordinate(0, 5), agent.Policy{}),
		agent.New(2, core.NewCoordinate(9, 9), agent.Policy{core.Left: {WX: -1, WY: 0}}),
	)

	phase, err := e.Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, PhaseConverged, phase)

	agents := e.Agents()
	// Post-movement positions of the discovery step.
	assert.Equal(t, core.NewCoordinate(5, 5), agents[0].PositionBeforeConverge)
	assert.Equal(t, core.NewCoordinate(0, 4), agents[1].PositionBeforeConverge, "zero policy ties to Up")
	assert.Equal(t, core.NewCoordinate(8, 9), agents[2].PositionBeforeConverge)

	for _, a := range agents {
		assert.Equal(t, target, a.Position, "agent %d should be gathered on the target", a.ID)
	}
}

func TestEngine_SuccessRewardsEveryAgent(t *testing.T) {
	target := core.NewCoordinate(5, 5)
	e := newTestEngine(t, target,
		agent.New(0, core.NewCoordinate(5, 4), downPolicy),
		agent.New(1, core.NewCoordinate(0, 5), agent.Policy{}),
	)

	_, err := e.Step(context.Background())
	require.NoError(t, err)

	agents := e.Agents()
	// Discoverer: Down with delta (0, 1).
	assert.InDelta(t, 1.1, agents[0].Weights[core.Down].WY, 1e-12)
	// Non-discoverer: its own stale Up decision with delta (5, 0).
	assert.InDelta(t, 0.5, agents[1].Weights[core.Up].WX, 1e-12)
	assert.Equal(t, 0.0, agents[1].Weights[core.Up].WY)
	assert.Equal(t, agent.Weight{}, agents[1].Weights[core.Down])
}

func TestEngine_FailureRewardsEveryAgent(t *testing.T) {
	e := newTestEngine(t, core.NewCoordinate(9, 9),
		agent.New(0, core.NewCoordinate(0, 0), stuckPolicy),
		agent.New(1, core.NewCoordinate(0, 5), downPolicy),
	)

	phase, err := e.Step(context.Background())
	require.NoError(t, err)
	require.Equal(t, PhaseRunning, phase)

	agents := e.Agents()
	assert.InDelta(t, 10-0.001*9, agents[0].Weights[core.Up].WX, 1e-12)
	assert.InDelta(t, 10-0.001*9, agents[0].Weights[core.Up].WY, 1e-12)
	assert.InDelta(t, 1-0.001*4, agents[1].Weights[core.Down].WY, 1e-12)
	assert.InDelta(t, -0.001*9, agents[1].Weights[core.Down].WX, 1e-12)
}

func TestEngine_ExhaustsStepBudget(t *testing.T) {
	e := newTestEngine(t, core.NewCoordinate(9, 9), agent.New(0, core.NewCoordinate(0, 0), stuckPolicy))

	runToEnd(t, e)

	assert.Equal(t, PhaseExhausted, e.Phase())
	assert.Equal(t, core.MaxSteps, e.StepCount())
	assert.Equal(t, core.NewCoordinate(0, 0), e.Agents()[0].Position)

	r := e.Report()
	assert.False(t, r.Found)
	assert.Equal(t, -1, r.Discoverer)
	assert.Nil(t, r.Agents)
	assert.Equal(t, PhaseExhausted, r.Phase)

	phase, err := e.Step(context.Background())
	assert.ErrorIs(t, err, core.ErrEpisodeOver)
	assert.Equal(t, PhaseExhausted, phase)
	assert.Equal(t, core.MaxSteps, e.StepCount())
}

func TestEngine_StepAfterConvergence(t *testing.T) {
	e := newTestEngine(t, core.NewCoordinate(0, 1), agent.New(0, core.NewCoordinate(0, 0), downPolicy))
	_, err := e.Step(context.Background())
	require.NoError(t, err)

	_, err = e.Step(context.Background())
	assert.ErrorIs(t, err, core.ErrEpisodeOver)
	assert.Equal(t, 1, e.StepCount())
}

func TestEngine_StepHonoursCancelledContext(t *testing.T) {
	e := newTestEngine(t, core.NewCoordinate(0, 9), agent.New(0, core.NewCoordinate(0, 0), downPolicy))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Step(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, e.StepCount())
}

func TestEngine_RandomEpisodesStayInBounds(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		cfg := testConfig()
		cfg.Rng = testutil.NewTestRNG(seed)
		cfg.EventBus = events.NewEventBus()

		cfg.EventBus.SubscribeFunc(events.TypeStepCompleted, func(ev events.Event) {
			for _, a := range ev.(*events.StepCompletedEvent).Agents {
				assert.True(t, a.Position.IsValid(core.GridSize), "seed %d: agent %d at %s", seed, a.ID, a.Position)
			}
		})

		e, err := NewEngine(context.Background(), cfg)
		require.NoError(t, err)
		require.Len(t, e.Agents(), core.NumAgents)
		assert.True(t, e.Target().IsValid(core.GridSize))

		runToEnd(t, e)
		assert.LessOrEqual(t, e.StepCount(), core.MaxSteps)

		r := e.Report()
		if r.Found {
			require.Len(t, r.Agents, core.NumAgents)
			discoverer := e.Agents()[r.Discoverer]
			assert.Equal(t, e.Target(), discoverer.PositionBeforeConverge)
			for i := 0; i < r.Discoverer; i++ {
				assert.NotEqual(t, e.Target(), r.Agents[i].FinalPosition, "seed %d: a lower index also arrived", seed)
			}
		} else {
			assert.Equal(t, PhaseExhausted, r.Phase)
			assert.Equal(t, core.MaxSteps, r.Steps)
		}
	}
}

func TestEngine_InitializationDrawOrder(t *testing.T) {
	values := make([]int, 0, 52)
	for i := 0; i < core.NumAgents*core.NumActions*2; i++ {
		values = append(values, i)
	}
	values = append(values, 3, 4)                         // target
	values = append(values, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9) // agents
	rng := testutil.NewSequenceRand(values...)

	cfg := testConfig()
	cfg.Rng = rng
	e, err := NewEngine(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, len(values), rng.Draws())
	assert.Equal(t, core.NewCoordinate(3, 4), e.Target())

	agents := e.Agents()
	for i, a := range agents {
		assert.Equal(t, i, a.ID)
		assert.Equal(t, core.NewCoordinate(2*i, 2*i+1), a.Position)
	}
	assert.Equal(t, agent.Weight{WX: 0, WY: 0.001}, agents[0].Weights[core.Up])
	assert.Equal(t, agent.Weight{WX: 0.038, WY: 0.039}, agents[4].Weights[core.Right])
}

func TestEngine_DefaultsEpisodeIDAndBus(t *testing.T) {
	e, err := NewEngine(context.Background(), EngineConfig{Logger: testutil.NopLogger()})
	require.NoError(t, err)

	assert.NotEmpty(t, e.EpisodeID())
	assert.NotNil(t, e.EventBus())
	assert.Equal(t, PhaseRunning, e.Phase())
	assert.Equal(t, -1, e.Discoverer())
}

func TestNewEngineFromState_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewEngineFromState(ctx, testConfig(), core.NewCoordinate(1, 1), nil)
	assert.ErrorIs(t, err, core.ErrNoAgents)

	_, err = NewEngineFromState(ctx, testConfig(), core.NewCoordinate(10, 1),
		[]*agent.Agent{agent.New(0, core.NewCoordinate(0, 0), agent.Policy{})})
	assert.ErrorIs(t, err, core.ErrOutOfBounds)

	_, err = NewEngineFromState(ctx, testConfig(), core.NewCoordinate(1, 1),
		[]*agent.Agent{agent.New(0, core.NewCoordinate(-1, 0), agent.Policy{})})
	assert.ErrorIs(t, err, core.ErrOutOfBounds)

	_, err = NewEngineFromState(ctx, testConfig(), core.NewCoordinate(1, 1), []*agent.Agent{nil})
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewEngineFromState(cancelled, testConfig(), core.NewCoordinate(1, 1),
		[]*agent.Agent{agent.New(0, core.NewCoordinate(0, 0), agent.Policy{})})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewEngineFromState_CopiesAgents(t *testing.T) {
	original := agent.New(7, core.NewCoordinate(0, 0), downPolicy)
	e := newTestEngine(t, core.NewCoordinate(0, 9), original)

	_, err := e.Step(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.NewCoordinate(0, 0), original.Position, "caller's agent must not be mutated")
	assert.Equal(t, 0, e.Agents()[0].ID, "agents are renumbered by index")

	copies := e.Agents()
	copies[0].Position = core.NewCoordinate(9, 9)
	assert.Equal(t, core.NewCoordinate(0, 1), e.Agents()[0].Position)
}

func TestEngine_PublishesLifecycleEvents(t *testing.T) {
	bus := events.NewEventBus()
	var types []string
	for _, typ := range []string{
		events.TypeEpisodeStarted, events.TypeStepCompleted, events.TypeTargetFound,
		events.TypePhaseTransition, events.TypeEpisodeEnded,
	} {
		bus.SubscribeFunc(typ, func(ev events.Event) { types = append(types, ev.Type()) })
	}

	var ended *events.EpisodeEndedEvent
	bus.SubscribeFunc(events.TypeEpisodeEnded, func(ev events.Event) { ended = ev.(*events.EpisodeEndedEvent) })

	cfg := testConfig()
	cfg.EventBus = bus
	e, err := NewEngineFromState(context.Background(), cfg, core.NewCoordinate(0, 2),
		[]*agent.Agent{agent.New(0, core.NewCoordinate(0, 0), downPolicy)})
	require.NoError(t, err)
	runToEnd(t, e)

	assert.Equal(t, []string{
		events.TypeEpisodeStarted,
		events.TypeStepCompleted,
		events.TypeStepCompleted,
		events.TypeTargetFound,
		events.TypePhaseTransition,
		events.TypeEpisodeEnded,
	}, types)

	require.NotNil(t, ended)
	assert.Equal(t, "test-episode", ended.EpisodeID())
	assert.Equal(t, "Converged", ended.Phase)
	assert.Equal(t, 2, ended.Steps)
	assert.True(t, ended.Found)
	assert.Equal(t, 0, ended.Discoverer)
}

func TestEngine_Snapshot(t *testing.T) {
	e := newTestEngine(t, core.NewCoordinate(4, 4),
		agent.New(0, core.NewCoordinate(1, 2), agent.Policy{}),
		agent.New(1, core.NewCoordinate(3, 3), agent.Policy{}),
	)

	s := e.Snapshot()
	assert.Equal(t, "test-episode", s.EpisodeID)
	assert.Equal(t, 0, s.Step)
	assert.Equal(t, "Running", s.Phase)
	assert.Equal(t, core.NewCoordinate(4, 4), s.Target)
	assert.Equal(t, []core.Coordinate{{X: 1, Y: 2}, {X: 3, Y: 3}}, s.Agents)
}
