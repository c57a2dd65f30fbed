package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Cell is one character cell on screen.
type Cell struct {
	Glyph byte  // CP437 code
	FG    uint8 // palette index
	BG    uint8 // palette index
}

var blank = Cell{Glyph: ' ', FG: ColorWhite, BG: ColorBlack}

// CellBuffer is a Cols x Rows grid of cells, row-major.
type CellBuffer struct {
	Cols  int
	Rows  int
	Cells []Cell
}

// NewCellBuffer creates a blank buffer.
func NewCellBuffer(cols, rows int) *CellBuffer {
	b := &CellBuffer{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)}
	b.Clear()
	return b
}

func (b *CellBuffer) in(x, y int) bool { return x >= 0 && x < b.Cols && y >= 0 && y < b.Rows }

// Set writes a cell. Out-of-bounds writes are ignored.
func (b *CellBuffer) Set(x, y int, glyph byte, fg, bg uint8) {
	if b.in(x, y) {
		b.Cells[y*b.Cols+x] = Cell{Glyph: glyph, FG: fg, BG: bg}
	}
}

// Get reads a cell. Out-of-bounds reads return the zero Cell.
func (b *CellBuffer) Get(x, y int) Cell {
	if b.in(x, y) {
		return b.Cells[y*b.Cols+x]
	}
	return Cell{}
}

// Clear resets every cell to a space on black.
func (b *CellBuffer) Clear() {
	for i := range b.Cells {
		b.Cells[i] = blank
	}
}

// WriteString writes s from (x, y) rightwards, one cell per rune. Runes
// outside CP437's byte range print as '?'.
func (b *CellBuffer) WriteString(x, y int, s string, fg, bg uint8) int {
	n := 0
	for _, ch := range s {
		if ch > 255 {
			ch = '?'
		}
		b.Set(x+n, y, byte(ch), fg, bg)
		n++
	}
	return n
}

// Bar draws a width-cell gauge filled to val/max.
func (b *CellBuffer) Bar(x, y, width int, val, max float64, fg uint8) {
	filled := 0
	if max > 0 {
		filled = int(float64(width) * min(1, val/max))
	}
	for i := range width {
		if i < filled {
			b.Set(x+i, y, GlyphFull, fg, ColorBlack)
		} else {
			b.Set(x+i, y, GlyphLight, ColorDarkGray, ColorBlack)
		}
	}
}

// Box draws a single-line frame with the title set into the top edge.
func (b *CellBuffer) Box(x, y, w, h int, title string, fg uint8) {
	if w < 2 || h < 2 {
		return
	}
	for i := x + 1; i < x+w-1; i++ {
		b.Set(i, y, GlyphHLine, fg, ColorBlack)
		b.Set(i, y+h-1, GlyphHLine, fg, ColorBlack)
	}
	for j := y + 1; j < y+h-1; j++ {
		b.Set(x, j, GlyphVLine, fg, ColorBlack)
		b.Set(x+w-1, j, GlyphVLine, fg, ColorBlack)
	}
	b.Set(x, y, GlyphCornerTL, fg, ColorBlack)
	b.Set(x+w-1, y, GlyphCornerTR, fg, ColorBlack)
	b.Set(x, y+h-1, GlyphCornerBL, fg, ColorBlack)
	b.Set(x+w-1, y+h-1, GlyphCornerBR, fg, ColorBlack)
	if title != "" {
		b.WriteString(x+2, y, " "+title+" ", ColorWhite, ColorBlack)
	}
}

// GridRenderer draws a CellBuffer to an Ebitengine screen.
type GridRenderer struct {
	Atlas   *FontAtlas
	CellW   int
	CellH   int
	bgPixel *ebiten.Image // 1x1 white, tinted per cell
}

// NewGridRenderer creates a renderer with the given atlas and cell size.
func NewGridRenderer(atlas *FontAtlas, cellW, cellH int) *GridRenderer {
	px := ebiten.NewImage(1, 1)
	px.Fill(color.White)
	return &GridRenderer{Atlas: atlas, CellW: cellW, CellH: cellH, bgPixel: px}
}

// Draw renders buf to screen.
func (r *GridRenderer) Draw(screen *ebiten.Image, buf *CellBuffer) {
	sx := float64(r.CellW) / GlyphWidth
	sy := float64(r.CellH) / GlyphHeight

	var op ebiten.DrawImageOptions
	for y := range buf.Rows {
		for x := range buf.Cols {
			c := buf.Cells[y*buf.Cols+x]
			px, py := float64(x*r.CellW), float64(y*r.CellH)

			if c.BG != ColorBlack {
				op = ebiten.DrawImageOptions{}
				op.GeoM.Scale(float64(r.CellW), float64(r.CellH))
				op.GeoM.Translate(px, py)
				op.ColorScale.ScaleWithColor(Palette[c.BG])
				screen.DrawImage(r.bgPixel, &op)
			}
			if c.Glyph != ' ' && c.Glyph != 0 {
				op = ebiten.DrawImageOptions{}
				op.GeoM.Scale(sx, sy)
				op.GeoM.Translate(px, py)
				op.ColorScale.ScaleWithColor(Palette[c.FG])
				screen.DrawImage(r.Atlas.Glyph(c.Glyph), &op)
			}
		}
	}
}
