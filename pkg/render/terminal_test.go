// pkg/render/terminal_test.go
package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/opd-ai/go-collide/pkg/entity"
	"github.com/opd-ai/go-collide/pkg/physics"
)

// TestNewTerminalRenderer tests the creation of a new terminal renderer
func TestNewTerminalRenderer_CreatesValidRenderer_WithCorrectDimensions(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		scale      float64
		wantWidth  int
		wantHeight int
		wantScale  float64
	}{
		{name: "small renderer", width: 10, height: 5, scale: 1.0, wantWidth: 10, wantHeight: 5, wantScale: 1.0},
		{name: "medium renderer", width: 80, height: 24, scale: 10.0, wantWidth: 80, wantHeight: 24, wantScale: 10.0},
		{name: "degenerate renderer", width: 0, height: -2, scale: 0, wantWidth: 1, wantHeight: 1, wantScale: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := NewTerminalRenderer(&bytes.Buffer{}, tt.width, tt.height, tt.scale)

			if renderer.width != tt.wantWidth {
				t.Errorf("expected width %d, got %d", tt.wantWidth, renderer.width)
			}
			if renderer.height != tt.wantHeight {
				t.Errorf("expected height %d, got %d", tt.wantHeight, renderer.height)
			}
			if renderer.scale != tt.wantScale {
				t.Errorf("expected scale %f, got %f", tt.wantScale, renderer.scale)
			}
			if len(renderer.buffer) != tt.wantHeight {
				t.Errorf("expected buffer height %d, got %d", tt.wantHeight, len(renderer.buffer))
			}
			if renderer.Cell(0, 0) != SymbolEmpty {
				t.Errorf("expected a cleared buffer, got %q", renderer.Cell(0, 0))
			}
		})
	}
}

func TestTerminalRenderer_WorldToScreen(t *testing.T) {
	renderer := NewTerminalRenderer(&bytes.Buffer{}, 20, 10, 2)
	renderer.SetOrigin(physics.Vector2D{X: -10, Y: 4})

	tests := []struct {
		pos   physics.Vector2D
		wantX int
		wantY int
	}{
		{pos: physics.Vector2D{X: -10, Y: 4}, wantX: 0, wantY: 0},
		{pos: physics.Vector2D{X: -8.5, Y: 7.9}, wantX: 0, wantY: 1},
		{pos: physics.Vector2D{X: 0, Y: 4}, wantX: 5, wantY: 0},
		{pos: physics.Vector2D{X: -11, Y: 3}, wantX: -1, wantY: -1},
	}

	for _, tt := range tests {
		x, y := renderer.worldToScreen(tt.pos)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("worldToScreen(%v) = (%d, %d), want (%d, %d)", tt.pos, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestTerminalRenderer_DrawBody(t *testing.T) {
	tests := []struct {
		name        string
		body        *entity.Body
		overlapping bool
		want        rune
	}{
		{
			name: "solid",
			body: entity.NewBody(1, physics.Vector2D{X: 2, Y: 1}, 3, 2, entity.WithSolid(true)),
			want: SymbolSolid,
		},
		{
			name: "sensor",
			body: entity.NewBody(2, physics.Vector2D{X: 2, Y: 1}, 3, 2),
			want: SymbolSensor,
		},
		{
			name:        "overlapping",
			body:        entity.NewBody(3, physics.Vector2D{X: 2, Y: 1}, 3, 2, entity.WithSolid(true)),
			overlapping: true,
			want:        SymbolOverlapping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := NewTerminalRenderer(&bytes.Buffer{}, 10, 5, 1)
			renderer.DrawBody(tt.body, tt.overlapping)

			for y := 0; y < 5; y++ {
				for x := 0; x < 10; x++ {
					inside := x >= 2 && x <= 4 && y >= 1 && y <= 2
					got := renderer.Cell(x, y)
					if inside && got != tt.want {
						t.Errorf("cell (%d,%d) = %q, want %q", x, y, got, tt.want)
					}
					if !inside && got != SymbolEmpty {
						t.Errorf("cell (%d,%d) = %q, want empty", x, y, got)
					}
				}
			}
		})
	}
}

func TestTerminalRenderer_DrawBodyClipsToScreen(t *testing.T) {
	renderer := NewTerminalRenderer(&bytes.Buffer{}, 4, 4, 1)
	renderer.DrawBody(entity.NewBody(1, physics.Vector2D{X: -5, Y: -5}, 100, 100), false)

	if renderer.Cell(3, 3) != SymbolSensor {
		t.Errorf("expected clipped body to fill the screen")
	}
}

func TestTerminalRenderer_DrawRegion(t *testing.T) {
	renderer := NewTerminalRenderer(&bytes.Buffer{}, 10, 10, 1)
	renderer.DrawBody(entity.NewBody(1, physics.Vector2D{X: 0, Y: 4}, 1, 1), false)
	renderer.DrawRegion(physics.NewRect(0, 0, 8, 8))

	checks := []struct {
		x, y int
		want rune
	}{
		{0, 0, SymbolCorner},
		{7, 7, SymbolCorner},
		{3, 0, SymbolHorizontal},
		{7, 3, SymbolVertical},
		{0, 4, SymbolSensor},
		{3, 3, SymbolEmpty},
	}
	for _, c := range checks {
		if got := renderer.Cell(c.x, c.y); got != c.want {
			t.Errorf("cell (%d,%d) = %q, want %q", c.x, c.y, got, c.want)
		}
	}
}

func TestTerminalRenderer_Present(t *testing.T) {
	var out bytes.Buffer
	renderer := NewTerminalRenderer(&out, 3, 2, 1)
	renderer.DrawBody(entity.NewBody(1, physics.Vector2D{X: 1, Y: 1}, 1, 1, entity.WithSolid(true)), false)

	if err := renderer.Present(); err != nil {
		t.Fatalf("Present returned error: %v", err)
	}

	want := strings.Join([]string{
		"+---+",
		"|   |",
		"| # |",
		"+---+",
		"",
	}, "\n")
	if out.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out.String(), want)
	}

	out.Reset()
	renderer.SetClearScreen(true)
	if err := renderer.Present(); err != nil {
		t.Fatalf("Present returned error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "\033[H\033[2J") {
		t.Errorf("expected clear-screen prefix")
	}
}
