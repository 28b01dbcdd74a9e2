package subscribers

import (
	"sync"

	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
	"github.com/mitchelldurbincs/friendseek/internal/sim/events"
)

// Trajectory is the recorded path of every agent through one episode.
// Positions[0] holds the starting positions; Positions[i] the positions
// after step i, before any convergence teleport.
type Trajectory struct {
	EpisodeID string
	Target    core.Coordinate
	Positions [][]core.Coordinate
}

// Steps returns the number of recorded steps
func (t Trajectory) Steps() int {
	if len(t.Positions) == 0 {
		return 0
	}
	return len(t.Positions) - 1
}

// NumAgents returns the number of agents tracked
func (t Trajectory) NumAgents() int {
	if len(t.Positions) == 0 {
		return 0
	}
	return len(t.Positions[0])
}

// Distances returns the Manhattan distance from agent to the target at every
// recorded point, starting with the initial placement
func (t Trajectory) Distances(agent int) []int {
	out := make([]int, 0, len(t.Positions))
	for _, row := range t.Positions {
		if agent < 0 || agent >= len(row) {
			return nil
		}
		out = append(out, row[agent].DistanceTo(t.Target))
	}
	return out
}

// TrajectoryRecorder collects agent positions from episode and step events
type TrajectoryRecorder struct {
	id string

	mu         sync.Mutex
	trajectory Trajectory
}

// NewTrajectoryRecorder creates a new recorder
func NewTrajectoryRecorder(id string) *TrajectoryRecorder {
	return &TrajectoryRecorder{id: id}
}

// ID returns the subscriber's unique identifier
func (r *TrajectoryRecorder) ID() string {
	return r.id
}

// InterestedIn returns true for the events a trajectory is built from
func (r *TrajectoryRecorder) InterestedIn(eventType string) bool {
	return eventType == events.TypeEpisodeStarted || eventType == events.TypeStepCompleted
}

// HandleEvent records positions. A new episode start resets the trajectory.
func (r *TrajectoryRecorder) HandleEvent(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e := event.(type) {
	case *events.EpisodeStartedEvent:
		start := make([]core.Coordinate, len(e.Agents))
		copy(start, e.Agents)
		r.trajectory = Trajectory{
			EpisodeID: e.EpisodeID(),
			Target:    e.Target,
			Positions: [][]core.Coordinate{start},
		}

	case *events.StepCompletedEvent:
		if e.EpisodeID() != r.trajectory.EpisodeID {
			return
		}
		row := make([]core.Coordinate, len(e.Agents))
		for i, a := range e.Agents {
			row[i] = a.Position
		}
		r.trajectory.Positions = append(r.trajectory.Positions, row)
	}
}

// Trajectory returns a copy of what has been recorded so far
func (r *TrajectoryRecorder) Trajectory() Trajectory {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.trajectory
	out.Positions = make([][]core.Coordinate, len(r.trajectory.Positions))
	for i, row := range r.trajectory.Positions {
		out.Positions[i] = append([]core.Coordinate(nil), row...)
	}
	return out
}
