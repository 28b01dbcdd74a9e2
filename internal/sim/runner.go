package sim

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
)

// Renderer draws one snapshot. Implementations must not keep the snapshot's
// slices beyond the call.
type Renderer interface {
	Render(core.Snapshot) error
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(core.Snapshot) error

// Render calls f(s)
func (f RendererFunc) Render(s core.Snapshot) error { return f(s) }

// Runner drives an engine to a terminal phase, rendering every step
type Runner struct {
	engine     *Engine
	renderer   Renderer
	logger     zerolog.Logger
	frameDelay atomic.Int64
}

// NewRunner creates a runner. A nil renderer draws nothing.
func NewRunner(engine *Engine, renderer Renderer, logger zerolog.Logger) *Runner {
	if renderer == nil {
		renderer = RendererFunc(func(core.Snapshot) error { return nil })
	}
	return &Runner{
		engine:   engine,
		renderer: renderer,
		logger:   logger.With().Str("component", "Runner").Logger(),
	}
}

// SetFrameDelay changes the pause between steps. Safe to call while Run is
// in progress; zero disables pacing.
func (r *Runner) SetFrameDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	r.frameDelay.Store(int64(d))
}

// FrameDelay returns the current pause between steps
func (r *Runner) FrameDelay() time.Duration {
	return time.Duration(r.frameDelay.Load())
}

// Run renders the initial grid, then steps until the episode ends, rendering
// after every step. Render failures are logged and do not stop the episode.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	r.render()

	for !r.engine.IsOver() {
		phase, err := r.engine.Step(ctx)
		if err != nil {
			return r.engine.Report(), err
		}
		r.render()

		if phase.IsTerminal() {
			break
		}
		if err := r.sleep(ctx); err != nil {
			return r.engine.Report(), err
		}
	}

	return r.engine.Report(), nil
}

func (r *Runner) render() {
	if err := r.renderer.Render(r.engine.Snapshot()); err != nil {
		r.logger.Warn().Err(err).Int("step", r.engine.StepCount()).Msg("Render failed")
	}
}

func (r *Runner) sleep(ctx context.Context) error {
	d := r.FrameDelay()
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
