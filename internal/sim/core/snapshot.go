package core

// Snapshot is the read-only view of one step handed to renderers
type Snapshot struct {
	EpisodeID string       `json:"episode_id"`
	Step      int          `json:"step"`
	Phase     string       `json:"phase"`
	Target    Coordinate   `json:"target"`
	Agents    []Coordinate `json:"agents"`
}

// AgentAt reports whether any agent occupies c
func (s Snapshot) AgentAt(c Coordinate) bool {
	for _, a := range s.Agents {
		if a.Equal(c) {
			return true
		}
	}
	return false
}
