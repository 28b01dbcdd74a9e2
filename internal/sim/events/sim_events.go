package events

import (
	"time"

	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
)

// Event type constants
const (
	TypeEpisodeStarted  = "episode.started"
	TypeStepCompleted   = "step.completed"
	TypeTargetFound     = "target.found"
	TypeEpisodeEnded    = "episode.ended"
	TypePhaseTransition = "phase.transition"
)

// EpisodeStartedEvent is published once the target and agents are placed
type EpisodeStartedEvent struct {
	BaseEvent
	GridSize int               `json:"grid_size"`
	Target   core.Coordinate   `json:"target"`
	Agents   []core.Coordinate `json:"agents"`
}

// NewEpisodeStartedEvent creates a new EpisodeStartedEvent
func NewEpisodeStartedEvent(episodeID string, target core.Coordinate, agents []core.Coordinate) *EpisodeStartedEvent {
	return &EpisodeStartedEvent{
		BaseEvent: newBaseEvent(TypeEpisodeStarted, episodeID),
		GridSize:  core.GridSize,
		Target:    target,
		Agents:    agents,
	}
}

// AgentStep is one agent's decision and outcome within a step
type AgentStep struct {
	ID       int             `json:"id"`
	Action   core.Action     `json:"action"`
	Delta    core.Coordinate `json:"delta"`
	Position core.Coordinate `json:"position"`
}

// StepCompletedEvent is published after every agent moved and was rewarded.
// Positions are the post-movement ones, before any convergence teleport.
type StepCompletedEvent struct {
	BaseEvent
	Step   int             `json:"step"`
	Target core.Coordinate `json:"target"`
	Agents []AgentStep     `json:"agents"`
	Found  bool            `json:"found"`
}

// NewStepCompletedEvent creates a new StepCompletedEvent
func NewStepCompletedEvent(episodeID string, step int, target core.Coordinate, agents []AgentStep, found bool) *StepCompletedEvent {
	return &StepCompletedEvent{
		BaseEvent: newBaseEvent(TypeStepCompleted, episodeID),
		Step:      step,
		Target:    target,
		Agents:    agents,
		Found:     found,
	}
}

// TargetFoundEvent is published when an agent first coincides with the target
type TargetFoundEvent struct {
	BaseEvent
	Step       int             `json:"step"`
	Discoverer int             `json:"discoverer"`
	Target     core.Coordinate `json:"target"`
}

// NewTargetFoundEvent creates a new TargetFoundEvent
func NewTargetFoundEvent(episodeID string, step, discoverer int, target core.Coordinate) *TargetFoundEvent {
	return &TargetFoundEvent{
		BaseEvent:  newBaseEvent(TypeTargetFound, episodeID),
		Step:       step,
		Discoverer: discoverer,
		Target:     target,
	}
}

// EpisodeEndedEvent is published when the episode reaches a terminal phase
type EpisodeEndedEvent struct {
	BaseEvent
	Phase      string        `json:"phase"`
	Steps      int           `json:"steps"`
	Found      bool          `json:"found"`
	Discoverer int           `json:"discoverer"`
	Duration   time.Duration `json:"duration"`
}

// NewEpisodeEndedEvent creates a new EpisodeEndedEvent
func NewEpisodeEndedEvent(episodeID, phase string, steps int, found bool, discoverer int, duration time.Duration) *EpisodeEndedEvent {
	return &EpisodeEndedEvent{
		BaseEvent:  newBaseEvent(TypeEpisodeEnded, episodeID),
		Phase:      phase,
		Steps:      steps,
		Found:      found,
		Discoverer: discoverer,
		Duration:   duration,
	}
}

// PhaseTransitionEvent is published on every phase change
type PhaseTransitionEvent struct {
	BaseEvent
	FromPhase string `json:"from_phase"`
	ToPhase   string `json:"to_phase"`
	Reason    string `json:"reason"`
}

// NewPhaseTransitionEvent creates a new PhaseTransitionEvent
func NewPhaseTransitionEvent(episodeID, fromPhase, toPhase, reason string) *PhaseTransitionEvent {
	return &PhaseTransitionEvent{
		BaseEvent: newBaseEvent(TypePhaseTransition, episodeID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
