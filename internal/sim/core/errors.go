package core

import "errors"

var (
	ErrEpisodeOver   = errors.New("episode is over")
	ErrInvalidAction = errors.New("invalid action")
	ErrOutOfBounds   = errors.New("coordinate outside the grid")
	ErrNoAgents      = errors.New("at least one agent is required")
)
