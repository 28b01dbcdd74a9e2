package sim

import "fmt"

// Phase is the lifecycle state of an episode
type Phase int

const (
	// PhaseRunning - agents are still searching
	PhaseRunning Phase = iota

	// PhaseConverged - an agent reached the target and everyone gathered on it
	PhaseConverged

	// PhaseExhausted - the step budget ran out without finding the target
	PhaseExhausted
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "Running"
	case PhaseConverged:
		return "Converged"
	case PhaseExhausted:
		return "Exhausted"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// IsTerminal returns true if the phase ends the episode
func (p Phase) IsTerminal() bool {
	return p == PhaseConverged || p == PhaseExhausted
}

// CanTransitionTo checks whether moving from p to target is allowed.
// Only Running has outgoing transitions.
func (p Phase) CanTransitionTo(target Phase) bool {
	return p == PhaseRunning && target.IsTerminal()
}

// MarshalText encodes the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
