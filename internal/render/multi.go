package render

import (
	"github.com/mitchelldurbincs/friendseek/internal/sim"
	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
)

// Multi fans a snapshot out to several renderers. Every renderer is called;
// the first error is returned.
type Multi []sim.Renderer

// Render implements sim.Renderer
func (m Multi) Render(s core.Snapshot) error {
	var first error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Render(s); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Nop draws nothing
type Nop struct{}

// Render implements sim.Renderer
func (Nop) Render(core.Snapshot) error { return nil }
