package renderer

import (
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/friendseek/internal/render"
	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
)

// -----------------------------------------------------------------------------
// Colour definitions
// -----------------------------------------------------------------------------

var (
	EmptyColor     = color.RGBA{40, 40, 40, 255}
	GridLineColor  = color.RGBA{70, 70, 70, 255}
	TargetColor    = color.RGBA{220, 180, 40, 255}
	AgentColor     = color.RGBA{50, 100, 200, 255}
	HoverHueShift  = 40
	GlyphTextColor = color.White
)

// -----------------------------------------------------------------------------
// Renderer
// -----------------------------------------------------------------------------

type BoardRenderer struct {
	tileSize    int
	defaultFont font.Face
	offsetX     int
	offsetY     int

	// plain white tile tinted per cell with ColorScale
	tile *ebiten.Image
	bg   *ebiten.Image
}

// NewBoardRenderer returns a renderer that draws the grid with its top-left
// corner at (offsetX, offsetY).
func NewBoardRenderer(tileSize int, f font.Face, offsetX, offsetY int) *BoardRenderer {
	return &BoardRenderer{tileSize: tileSize, defaultFont: f, offsetX: offsetX, offsetY: offsetY}
}

// Size returns the board's pixel size
func (br *BoardRenderer) Size() (int, int) {
	return core.GridSize * br.tileSize, core.GridSize * br.tileSize
}

// CellColor picks the background of a cell; the friend wins over agents
func CellColor(s core.Snapshot, c core.Coordinate) color.Color {
	switch render.Cell(s, c) {
	case render.TargetSymbol:
		return TargetColor
	case render.AgentSymbol:
		return AgentColor
	default:
		return EmptyColor
	}
}

// Draw renders the snapshot on the supplied Ebiten screen. hover is the cell
// under the cursor, or any off-grid coordinate for none.
func (br *BoardRenderer) Draw(screen *ebiten.Image, s core.Snapshot, hover core.Coordinate) {
	if br.tile == nil {
		br.tile = ebiten.NewImage(br.tileSize-1, br.tileSize-1)
		br.tile.Fill(color.White)

		w, h := br.Size()
		br.bg = ebiten.NewImage(w+1, h+1)
		br.bg.Fill(GridLineColor)
	}

	bgOp := &ebiten.DrawImageOptions{}
	bgOp.GeoM.Translate(float64(br.offsetX), float64(br.offsetY))
	screen.DrawImage(br.bg, bgOp)

	counts := agentCounts(s)

	for y := 0; y < core.GridSize; y++ {
		for x := 0; x < core.GridSize; x++ {
			c := core.NewCoordinate(x, y)
			screenX := br.offsetX + x*br.tileSize + 1
			screenY := br.offsetY + y*br.tileSize + 1

			cellColor := CellColor(s, c)
			if c.Equal(hover) {
				cellColor = shiftColor(cellColor, HoverHueShift)
			}

			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(screenX), float64(screenY))
			op.ColorScale.ScaleWithColor(cellColor)
			screen.DrawImage(br.tile, op)

			glyph := render.Cell(s, c)
			if glyph == render.EmptySymbol || br.defaultFont == nil {
				continue
			}

			label := string(glyph)
			if glyph == render.AgentSymbol && counts[c] > 1 {
				label += strconv.Itoa(counts[c])
			}

			// text bounds in pixels
			b := text.BoundString(br.defaultFont, label)
			textW := b.Max.X - b.Min.X
			textH := b.Max.Y - b.Min.Y

			tx := screenX + (br.tileSize-textW)/2
			ty := screenY + (br.tileSize+textH)/2

			text.Draw(screen, label, br.defaultFont, tx, ty, GlyphTextColor)
		}
	}
}

func agentCounts(s core.Snapshot) map[core.Coordinate]int {
	counts := make(map[core.Coordinate]int, len(s.Agents))
	for _, a := range s.Agents {
		counts[a]++
	}
	return counts
}

// shiftColor returns a slightly lighter version of c.
func shiftColor(c color.Color, amount int) color.Color {
	r, g, b, a := c.RGBA()
	inc := uint32(amount) << 8 // amount*256

	r = clamp16(r + inc)
	g = clamp16(g + inc)
	b = clamp16(b + inc)
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func clamp16(v uint32) uint32 {
	const max = 0xFFFF
	if v > max {
		return max
	}
	return v
}
