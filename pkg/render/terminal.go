// pkg/render/terminal.go
package render

import (
	"bufio"
	"io"
	"math"
	"strings"

	"github.com/opd-ai/go-collide/pkg/entity"
	"github.com/opd-ai/go-collide/pkg/physics"
)

// Cell symbols
const (
	SymbolEmpty       = ' '
	SymbolSolid       = '#'
	SymbolSensor      = 'o'
	SymbolOverlapping = '*'
	SymbolCorner      = '+'
	SymbolHorizontal  = '-'
	SymbolVertical    = '|'
)

// TerminalRenderer provides a simple ASCII-based rendering for terminals.
// One cell covers scale x scale world units starting at the origin.
type TerminalRenderer struct {
	out         io.Writer
	width       int
	height      int
	buffer      [][]rune
	scale       float64
	origin      physics.Vector2D
	clearScreen bool
}

// NewTerminalRenderer creates a new terminal renderer with the specified dimensions
func NewTerminalRenderer(out io.Writer, width, height int, scale float64) *TerminalRenderer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if scale <= 0 {
		scale = 1
	}

	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	r := &TerminalRenderer{
		out:    out,
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
	}
	r.Clear()
	return r
}

// SetOrigin sets the world position shown in the top-left cell
func (r *TerminalRenderer) SetOrigin(pos physics.Vector2D) {
	r.origin = pos
}

// SetClearScreen makes Present clear the terminal first
func (r *TerminalRenderer) SetClearScreen(clear bool) {
	r.clearScreen = clear
}

// worldToScreen converts world coordinates to screen coordinates
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	screenX := int(math.Floor((pos.X - r.origin.X) / r.scale))
	screenY := int(math.Floor((pos.Y - r.origin.Y) / r.scale))
	return screenX, screenY
}

// cellSpan returns the cells covered by rect, right and bottom exclusive
// unless that would leave the rect without a cell
func (r *TerminalRenderer) cellSpan(rect physics.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = r.worldToScreen(rect.Position)
	x1 = int(math.Ceil((rect.Right()-r.origin.X)/r.scale)) - 1
	y1 = int(math.Ceil((rect.Bottom()-r.origin.Y)/r.scale)) - 1
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return x0, y0, x1, y1
}

func (r *TerminalRenderer) set(x, y int, symbol rune) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = symbol
	}
}

// Cell returns the symbol at a screen position, or SymbolEmpty outside
func (r *TerminalRenderer) Cell(x, y int) rune {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return SymbolEmpty
	}
	return r.buffer[y][x]
}

// Clear implements Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = SymbolEmpty
		}
	}
}

// DrawRegion implements Renderer. Only empty cells are drawn on.
func (r *TerminalRenderer) DrawRegion(region physics.Rect) {
	x0, y0, x1, y1 := r.cellSpan(region)
	outline := func(x, y int, symbol rune) {
		if r.Cell(x, y) == SymbolEmpty {
			r.set(x, y, symbol)
		}
	}

	for x := x0; x <= x1; x++ {
		outline(x, y0, SymbolHorizontal)
		outline(x, y1, SymbolHorizontal)
	}
	for y := y0; y <= y1; y++ {
		outline(x0, y, SymbolVertical)
		outline(x1, y, SymbolVertical)
	}
	for _, corner := range [][2]int{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		r.set(corner[0], corner[1], SymbolCorner)
	}
}

// DrawBody implements Renderer
func (r *TerminalRenderer) DrawBody(c entity.Collidable, overlapping bool) {
	symbol := SymbolSensor
	switch {
	case overlapping:
		symbol = SymbolOverlapping
	case c.Solid():
		symbol = SymbolSolid
	}

	x0, y0, x1, y1 := r.cellSpan(c.Bounds())
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			r.set(x, y, symbol)
		}
	}
}

// Present implements Renderer
func (r *TerminalRenderer) Present() error {
	w := bufio.NewWriter(r.out)

	if r.clearScreen {
		w.WriteString("\033[H\033[2J")
	}

	border := "+" + strings.Repeat("-", r.width) + "+\n"
	w.WriteString(border)
	for y := range r.buffer {
		w.WriteByte('|')
		w.WriteString(string(r.buffer[y]))
		w.WriteString("|\n")
	}
	w.WriteString(border)

	return w.Flush()
}
