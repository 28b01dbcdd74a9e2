package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/friendseek/internal/sim/agent"
	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
	"github.com/mitchelldurbincs/friendseek/internal/sim/events"
)

// EngineConfig holds everything needed to create an engine
type EngineConfig struct {
	Rng       core.Rand // nil means a time-seeded *rand.Rand
	Logger    zerolog.Logger
	EpisodeID string           // empty means a fresh UUID
	EventBus  *events.EventBus // nil means a private bus
}

// Engine owns one episode: the target, the agents and the step loop
type Engine struct {
	episodeID string
	logger    zerolog.Logger
	eventBus  *events.EventBus

	target     core.Coordinate
	agents     []*agent.Agent
	phase      Phase
	steps      int
	discoverer int

	startTime time.Time
	endTime   time.Time
}

// NewEngine creates an episode with a random target, random agent positions
// and random initial weights
func NewEngine(ctx context.Context, cfg EngineConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// NewEngineFromState creates an episode from a caller-supplied target and
// agents. Agents are copied and renumbered by their index.
func NewEngineFromState(ctx context.Context, cfg EngineConfig, target core.Coordinate, agents []*agent.Agent) (*Engine, error) {
	return NewEngineInitializer(cfg).InitializeFromState(ctx, target, agents)
}

// Step runs one iteration: every agent evaluates and moves in index order,
// then the grid is checked for an agent on the target and rewards are
// applied. It returns the phase after the step.
func (e *Engine) Step(ctx context.Context) (Phase, error) {
	if e.phase.IsTerminal() {
		return e.phase, core.ErrEpisodeOver
	}
	select {
	case <-ctx.Done():
		return e.phase, ctx.Err()
	default:
	}

	e.steps++
	stepLogger := e.logger.With().Int("step", e.steps).Logger()

	for _, a := range e.agents {
		agent.Evaluate(a, e.target)
		agent.ApplyAction(a)
	}

	discoverer := e.findDiscoverer()
	found := discoverer >= 0
	e.eventBus.Publish(events.NewStepCompletedEvent(e.episodeID, e.steps, e.target, e.agentSteps(), found))

	if found {
		e.discoverer = discoverer
		// Every agent is rewarded for the find with its own last decision,
		// not only the discoverer.
		for _, a := range e.agents {
			a.Converge(e.target)
		}
		for _, a := range e.agents {
			agent.ApplyReward(a, true)
		}

		stepLogger.Info().
			Int("discoverer", discoverer).
			Str("target", e.target.String()).
			Msg("Target found, agents gathered")
		e.eventBus.Publish(events.NewTargetFoundEvent(e.episodeID, e.steps, discoverer, e.target))

		if err := e.transitionTo(PhaseConverged, "target found"); err != nil {
			return e.phase, err
		}
		return e.phase, nil
	}

	for _, a := range e.agents {
		agent.ApplyReward(a, false)
	}
	stepLogger.Debug().Msg("Target not found")

	if e.steps >= core.MaxSteps {
		if err := e.transitionTo(PhaseExhausted, "step budget spent"); err != nil {
			return e.phase, err
		}
	}
	return e.phase, nil
}

// findDiscoverer returns the lowest index of an agent standing on the target,
// or -1
func (e *Engine) findDiscoverer() int {
	for i, a := range e.agents {
		if a.Position.Equal(e.target) {
			return i
		}
	}
	return -1
}

func (e *Engine) agentSteps() []events.AgentStep {
	out := make([]events.AgentStep, len(e.agents))
	for i, a := range e.agents {
		out[i] = events.AgentStep{
			ID:       a.ID,
			Action:   a.LastAction,
			Delta:    a.LastDelta,
			Position: a.Position,
		}
	}
	return out
}

// transitionTo moves the episode to a new phase and announces it
func (e *Engine) transitionTo(target Phase, reason string) error {
	if !e.phase.CanTransitionTo(target) {
		return fmt.Errorf("invalid transition from %s to %s", e.phase, target)
	}

	from := e.phase
	e.phase = target
	e.eventBus.Publish(events.NewPhaseTransitionEvent(e.episodeID, from.String(), target.String(), reason))

	if target.IsTerminal() {
		e.endTime = time.Now()
		duration := e.endTime.Sub(e.startTime)
		e.logger.Info().
			Str("phase", target.String()).
			Int("steps", e.steps).
			Dur("duration", duration).
			Msg("Episode ended")
		e.eventBus.Publish(events.NewEpisodeEndedEvent(
			e.episodeID, target.String(), e.steps, e.phase == PhaseConverged, e.discoverer, duration,
		))
	}
	return nil
}

// Public accessors
func (e *Engine) EpisodeID() string          { return e.episodeID }
func (e *Engine) Phase() Phase               { return e.phase }
func (e *Engine) StepCount() int             { return e.steps }
func (e *Engine) Target() core.Coordinate    { return e.target }
func (e *Engine) EventBus() *events.EventBus { return e.eventBus }
func (e *Engine) IsOver() bool               { return e.phase.IsTerminal() }

// Discoverer returns the 0-based index of the agent that found the target,
// or -1 if nobody has
func (e *Engine) Discoverer() int { return e.discoverer }

// Agents returns copies of every agent
func (e *Engine) Agents() []*agent.Agent {
	out := make([]*agent.Agent, len(e.agents))
	for i, a := range e.agents {
		out[i] = a.Clone()
	}
	return out
}

// Snapshot returns the read-only view renderers draw from
func (e *Engine) Snapshot() core.Snapshot {
	positions := make([]core.Coordinate, len(e.agents))
	for i, a := range e.agents {
		positions[i] = a.Position
	}
	return core.Snapshot{
		EpisodeID: e.episodeID,
		Step:      e.steps,
		Phase:     e.phase.String(),
		Target:    e.target,
		Agents:    positions,
	}
}
