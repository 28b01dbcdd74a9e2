package ui

import (
	"context"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/mitchelldurbincs/friendseek/internal/config"
	"github.com/mitchelldurbincs/friendseek/internal/render"
	"github.com/mitchelldurbincs/friendseek/internal/sim"
	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
	"github.com/mitchelldurbincs/friendseek/internal/ui/input"
	"github.com/mitchelldurbincs/friendseek/internal/ui/renderer"
)

// Height reserved above the board for status text
const hudHeight = 60

// UI configuration functions
func ScreenWidth() int {
	return config.Get().UI.Window.Width
}

func ScreenHeight() int {
	return config.Get().UI.Window.Height
}

func TileSize() int {
	return config.Get().UI.Game.TileSize
}

func TurnInterval() int {
	return config.Get().UI.Game.TurnInterval
}

// EngineFactory builds a fresh episode; the viewer calls it on start and on
// every restart
type EngineFactory func(ctx context.Context) (*sim.Engine, error)

// UIGame holds the engine instance and viewer state
type UIGame struct {
	newEngine     EngineFactory
	engine        *sim.Engine
	boardRenderer *renderer.BoardRenderer
	inputHandler  *input.Handler
	defaultFont   font.Face
	logger        zerolog.Logger

	// extra renderers fed every step, such as the websocket hub
	observer sim.Renderer

	paused    bool
	turnTimer int
}

// NewUIGame creates a new Ebitengine game instance and its first episode.
// observer may be nil.
func NewUIGame(ctx context.Context, newEngine EngineFactory, observer sim.Renderer, logger zerolog.Logger) (*UIGame, error) {
	if observer == nil {
		observer = render.Nop{}
	}

	g := &UIGame{
		newEngine:   newEngine,
		defaultFont: basicfont.Face7x13,
		observer:    observer,
		logger:      logger.With().Str("component", "Viewer").Logger(),
	}

	offsetX := (ScreenWidth() - core.GridSize*TileSize()) / 2
	if offsetX < 0 {
		offsetX = 0
	}
	g.boardRenderer = renderer.NewBoardRenderer(TileSize(), g.defaultFont, offsetX, hudHeight)
	g.inputHandler = input.NewHandler(TileSize())
	g.inputHandler.SetBoardOffset(offsetX, hudHeight)

	if err := g.restart(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *UIGame) restart(ctx context.Context) error {
	engine, err := g.newEngine(ctx)
	if err != nil {
		return fmt.Errorf("failed to start episode: %w", err)
	}
	g.engine = engine
	g.turnTimer = 0
	g.publish()
	return nil
}

func (g *UIGame) publish() {
	if err := g.observer.Render(g.engine.Snapshot()); err != nil {
		g.logger.Warn().Err(err).Msg("Observer failed to render snapshot")
	}
}

func (g *UIGame) step() error {
	if g.engine.IsOver() {
		return nil
	}
	if _, err := g.engine.Step(context.Background()); err != nil {
		return err
	}
	g.publish()
	return nil
}

// Update proceeds the simulation.
func (g *UIGame) Update() error {
	g.inputHandler.Update()

	for _, cmd := range g.inputHandler.Commands() {
		switch cmd {
		case input.CommandTogglePause:
			g.paused = !g.paused
		case input.CommandStep:
			if g.paused {
				if err := g.step(); err != nil {
					return err
				}
			}
		case input.CommandRestart:
			if err := g.restart(context.Background()); err != nil {
				return err
			}
		}
	}

	if g.paused {
		return nil
	}

	g.turnTimer++
	if g.turnTimer < TurnInterval() || g.engine.IsOver() {
		return nil
	}
	g.turnTimer = 0

	return g.step()
}

// Draw renders the viewer screen.
func (g *UIGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 20, G: 20, B: 20, A: 255})

	snap := g.engine.Snapshot()
	hx, hy := g.inputHandler.GetHoveredTile()
	hover := core.NewCoordinate(hx, hy)

	g.boardRenderer.Draw(screen, snap, hover)

	status := fmt.Sprintf("Step: %d/%d  Phase: %s", snap.Step, core.MaxSteps, snap.Phase)
	if g.paused {
		status += "  [paused]"
	}
	ebitenutil.DebugPrintAt(screen, status, 5, 5)

	switch {
	case g.engine.Phase() == sim.PhaseConverged:
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Friend found by agent %d", g.engine.Discoverer()+1), 5, 22)
	case g.engine.IsOver():
		ebitenutil.DebugPrintAt(screen, "Step budget exhausted", 5, 22)
	default:
		ebitenutil.DebugPrintAt(screen, "Space: pause  N: step  R: restart", 5, 22)
	}

	if hover.IsValid(core.GridSize) {
		info := fmt.Sprintf("%s %c", hover.OneIndexed(), render.Cell(snap, hover))
		ebitenutil.DebugPrintAt(screen, info, 5, 39)
	}
}

// Layout defines the Ebitengine screen size.
func (g *UIGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return ScreenWidth(), ScreenHeight()
}
