package core

import "fmt"

// Action is one of the four unit moves an agent can make.
//
// The declaration order is significant: it is the order scores are scanned
// in, so on a tie the earliest action wins.
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
)

// NumActions is the size of the action space
const NumActions = 4

// Actions lists every action in scan order
var Actions = [NumActions]Action{Up, Down, Left, Right}

// actionOffsets holds the grid offset for each action. Up decreases y.
var actionOffsets = [NumActions]Coordinate{
	Up:    {X: 0, Y: -1},
	Down:  {X: 0, Y: 1},
	Left:  {X: -1, Y: 0},
	Right: {X: 1, Y: 0},
}

// IsValid reports whether a is one of the four known actions
func (a Action) IsValid() bool {
	return a >= Up && a <= Right
}

// Offset returns the unit step for the action, or the zero offset for an
// unknown action
func (a Action) Offset() Coordinate {
	if !a.IsValid() {
		return Coordinate{}
	}
	return actionOffsets[a]
}

// String returns the action name
func (a Action) String() string {
	switch a {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// ParseAction converts a name produced by String back into an Action
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// MarshalText encodes the action by name
func (a Action) MarshalText() ([]byte, error) {
	if !a.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAction, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes an action name
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
