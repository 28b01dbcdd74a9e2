package render

import (
	"bufio"
	"io"

	"github.com/logrusorgru/aurora"

	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
)

// ClearScreen is the ANSI sequence that clears the terminal and homes the cursor
const ClearScreen = "\033[2J\033[1;1H"

// TerminalOptions controls how the grid is drawn
type TerminalOptions struct {
	Color       bool // colour F and A cells
	ClearScreen bool // clear before every frame for an animation effect
}

// Terminal draws each snapshot as a character grid
type Terminal struct {
	out  io.Writer
	opts TerminalOptions
	au   aurora.Aurora
}

// NewTerminal creates a terminal renderer writing to out
func NewTerminal(out io.Writer, opts TerminalOptions) *Terminal {
	return &Terminal{
		out:  out,
		opts: opts,
		au:   aurora.NewAurora(opts.Color),
	}
}

// Render writes one frame: an optional clear, a blank line, then the grid
func (t *Terminal) Render(s core.Snapshot) error {
	w := bufio.NewWriter(t.out)

	if t.opts.ClearScreen {
		w.WriteString(ClearScreen)
	}
	w.WriteByte('\n')

	for _, row := range Grid(s) {
		for i := 0; i < len(row); i++ {
			t.writeCell(w, row[i])
		}
		w.WriteByte('\n')
	}

	return w.Flush()
}

func (t *Terminal) writeCell(w *bufio.Writer, cell byte) {
	if !t.opts.Color {
		w.WriteByte(cell)
		return
	}

	switch cell {
	case TargetSymbol:
		w.WriteString(t.au.Bold(t.au.Green("F")).String())
	case AgentSymbol:
		w.WriteString(t.au.Cyan("A").String())
	default:
		w.WriteString(t.au.Gray(12, ".").String())
	}
}
