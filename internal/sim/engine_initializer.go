package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/friendseek/internal/sim/agent"
	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
	"github.com/mitchelldurbincs/friendseek/internal/sim/events"
)

// EngineInitializer handles placement and weight initialization for a new episode
type EngineInitializer struct {
	config EngineConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg EngineConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "SimEngine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// Initialize creates a random episode. Draw order is fixed: every agent's
// weights (agent by agent), then the target, then the agent positions.
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	if err := ei.checkContext(ctx); err != nil {
		return nil, err
	}
	ei.setupDefaults()

	rng := ei.config.Rng
	policies := make([]agent.Policy, core.NumAgents)
	for i := range policies {
		policies[i] = agent.RandomPolicy(rng)
	}

	target := randomCoordinate(rng)

	agents := make([]*agent.Agent, core.NumAgents)
	for i := range agents {
		agents[i] = agent.New(i, randomCoordinate(rng), policies[i])
	}

	return ei.createEngine(target, agents), nil
}

// InitializeFromState creates an episode from a fixed target and agents
func (ei *EngineInitializer) InitializeFromState(ctx context.Context, target core.Coordinate, agents []*agent.Agent) (*Engine, error) {
	if err := ei.checkContext(ctx); err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, core.ErrNoAgents
	}
	if !target.IsValid(core.GridSize) {
		return nil, fmt.Errorf("target %s: %w", target, core.ErrOutOfBounds)
	}

	copied := make([]*agent.Agent, len(agents))
	for i, a := range agents {
		if a == nil {
			return nil, fmt.Errorf("agent %d is nil", i)
		}
		if !a.Position.IsValid(core.GridSize) {
			return nil, fmt.Errorf("agent %d at %s: %w", i, a.Position, core.ErrOutOfBounds)
		}
		copied[i] = a.Clone()
		copied[i].ID = i
	}

	ei.setupDefaults()
	return ei.createEngine(target, copied), nil
}

func (ei *EngineInitializer) checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out")
		return ctx.Err()
	default:
		return nil
	}
}

// setupDefaults sets up default values for missing configuration
func (ei *EngineInitializer) setupDefaults() {
	if ei.config.Rng == nil {
		ei.logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		ei.config.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if ei.config.EpisodeID == "" {
		ei.config.EpisodeID = uuid.NewString()
	}

	if ei.config.EventBus == nil {
		ei.config.EventBus = events.NewEventBus()
	}
}

// createEngine wires the engine together and announces the episode
func (ei *EngineInitializer) createEngine(target core.Coordinate, agents []*agent.Agent) *Engine {
	logger := ei.logger.With().Str("episode_id", ei.config.EpisodeID).Logger()

	engine := &Engine{
		episodeID:  ei.config.EpisodeID,
		logger:     logger,
		eventBus:   ei.config.EventBus,
		target:     target,
		agents:     agents,
		phase:      PhaseRunning,
		discoverer: -1,
		startTime:  time.Now(),
	}

	start := make([]core.Coordinate, len(agents))
	for i, a := range agents {
		start[i] = a.Position
	}
	engine.eventBus.Publish(events.NewEpisodeStartedEvent(engine.episodeID, target, start))

	logger.Info().
		Str("target", target.String()).
		Int("agents", len(agents)).
		Msg("Episode created")

	return engine
}

func randomCoordinate(rng core.Rand) core.Coordinate {
	x := rng.Intn(core.GridSize)
	y := rng.Intn(core.GridSize)
	return core.NewCoordinate(x, y)
}
