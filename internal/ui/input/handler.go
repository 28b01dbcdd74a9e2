package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Command is a viewer request raised by the keyboard
type Command int

const (
	CommandNone Command = iota
	CommandTogglePause
	CommandStep
	CommandRestart
)

// Handler tracks the cursor and turns key presses into viewer commands
type Handler struct {
	// Mouse state
	mouseX, mouseY int

	// UI state
	tileSize     int
	boardOffsetX int
	boardOffsetY int

	pending []Command
}

func NewHandler(tileSize int) *Handler {
	return &Handler{tileSize: tileSize}
}

// Update polls ebiten for this tick's input. Call once per Update.
func (h *Handler) Update() {
	h.mouseX, h.mouseY = ebiten.CursorPosition()

	// Space pauses and resumes
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		h.pending = append(h.pending, CommandTogglePause)
	}

	// N or the right arrow advances one step while paused
	if inpututil.IsKeyJustPressed(ebiten.KeyN) || inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		h.pending = append(h.pending, CommandStep)
	}

	// R starts a fresh episode
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		h.pending = append(h.pending, CommandRestart)
	}
}

// Commands returns and clears the commands raised since the last call
func (h *Handler) Commands() []Command {
	out := h.pending
	h.pending = nil
	return out
}

func (h *Handler) screenToTile(x, y int) (int, int) {
	if x < h.boardOffsetX || y < h.boardOffsetY {
		return -1, -1
	}
	tileX := (x - h.boardOffsetX) / h.tileSize
	tileY := (y - h.boardOffsetY) / h.tileSize
	return tileX, tileY
}

func (h *Handler) SetBoardOffset(x, y int) {
	h.boardOffsetX = x
	h.boardOffsetY = y
}

// GetHoveredTile returns the grid cell under the cursor; it may lie off the
// grid and callers check bounds
func (h *Handler) GetHoveredTile() (int, int) {
	return h.screenToTile(h.mouseX, h.mouseY)
}
