package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	GlyphWidth  = 16
	GlyphHeight = 16
	AtlasCols   = 16
	AtlasRows   = 16
)

// Non-ASCII CP437 codes the scene draws with.
const (
	GlyphSun      = 15  // ☼ flash
	GlyphRight    = 16  // ► heading east
	GlyphLeft     = 17  // ◄ heading west
	GlyphUp       = 30  // ▲ heading north
	GlyphDown     = 31  // ▼ heading south
	GlyphDiamond  = 4   // ♦ artifact
	GlyphRing     = 9   // ○ gate
	GlyphDisc     = 7   // • spark
	GlyphLight    = 176 // ░
	GlyphMedium   = 177 // ▒
	GlyphDark     = 178 // ▓
	GlyphFull     = 219 // █
	GlyphSquare   = 254 // ■
	GlyphDot      = 249 // ∙ debris
	GlyphDim      = 250 // · background star
	GlyphHLine    = 196
	GlyphVLine    = 179
	GlyphCornerTL = 218
	GlyphCornerTR = 191
	GlyphCornerBL = 192
	GlyphCornerBR = 217
	GlyphTeeLeft  = 195
	GlyphTeeRight = 180
)

// FontAtlas holds the glyph sheet and a cached sub-image per code.
type FontAtlas struct {
	image  *ebiten.Image
	glyphs [256]*ebiten.Image
}

// NewFontAtlas paints the glyph sheet. Printable ASCII comes from
// basicfont.Face7x13; the handful of symbols above are drawn by hand and
// every other code is left blank.
func NewFontAtlas() *FontAtlas {
	img := image.NewNRGBA(image.Rect(0, 0, AtlasCols*GlyphWidth, AtlasRows*GlyphHeight))
	face := basicfont.Face7x13

	for code := range 256 {
		cx := code % AtlasCols * GlyphWidth
		cy := code / AtlasCols * GlyphHeight
		switch {
		case code >= 32 && code <= 126:
			drawFontGlyph(img, face, cx, cy, rune(code))
		case boxChars[byte(code)] != [4]bool{}:
			bc := boxChars[byte(code)]
			drawBoxGlyph(img, cx, cy, bc[0], bc[1], bc[2], bc[3])
		default:
			if paint, ok := painters[byte(code)]; ok {
				paint(cell{img, cx, cy})
			}
		}
	}

	eimg := ebiten.NewImageFromImage(img)
	a := &FontAtlas{image: eimg}
	for code := range 256 {
		x := code % AtlasCols * GlyphWidth
		y := code / AtlasCols * GlyphHeight
		a.glyphs[code] = eimg.SubImage(image.Rect(x, y, x+GlyphWidth, y+GlyphHeight)).(*ebiten.Image)
	}
	return a
}

// Glyph returns the cached sub-image for a CP437 code.
func (a *FontAtlas) Glyph(code byte) *ebiten.Image {
	return a.glyphs[code]
}

// drawFontGlyph centres a 7x13 basicfont glyph in the 16x16 cell.
func drawFontGlyph(img *image.NRGBA, face font.Face, cellX, cellY int, r rune) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(cellX+4, cellY+13),
	}
	d.DrawString(string(r))
}

// boxChars maps CP437 codes to single-line connections: {left, right, top, bottom}.
var boxChars = map[byte][4]bool{
	GlyphVLine:    {false, false, true, true},
	GlyphTeeRight: {true, false, true, true},
	GlyphCornerTR: {true, false, false, true},
	GlyphCornerBL: {false, true, true, false},
	GlyphTeeLeft:  {false, true, true, true},
	GlyphHLine:    {true, true, false, false},
	GlyphCornerBR: {true, false, true, false},
	GlyphCornerTL: {false, true, false, true},
}

// drawBoxGlyph draws 2px lines from the centre of the cell to each
// connected edge.
func drawBoxGlyph(img *image.NRGBA, cellX, cellY int, left, right, top, bottom bool) {
	c := cell{img, cellX, cellY}
	const mid = 7
	if left {
		c.rect(0, mid, mid+2, mid+2)
	}
	if right {
		c.rect(mid, mid, GlyphWidth, mid+2)
	}
	if top {
		c.rect(mid, 0, mid+2, mid+2)
	}
	if bottom {
		c.rect(mid, mid, mid+2, GlyphHeight)
	}
}

// cell is a 16x16 window into the atlas.
type cell struct {
	img    *image.NRGBA
	x0, y0 int
}

var white = color.NRGBA{255, 255, 255, 255}

func (c cell) set(x, y int) { c.img.SetNRGBA(c.x0+x, c.y0+y, white) }

// rect fills [x0,x1) x [y0,y1) in cell coordinates.
func (c cell) rect(x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.set(x, y)
		}
	}
}

// shade fills every pixel for which keep returns true.
func (c cell) shade(keep func(x, y int) bool) {
	for y := range GlyphHeight {
		for x := range GlyphWidth {
			if keep(x, y) {
				c.set(x, y)
			}
		}
	}
}

// disc fills pixels within r of the cell centre; a positive hole leaves a ring.
func (c cell) disc(r, hole float64) {
	c.shade(func(x, y int) bool {
		dx, dy := float64(x)-7.5, float64(y)-7.5
		d := dx*dx + dy*dy
		return d <= r*r && d >= hole*hole
	})
}

// triangle fills a triangle pointing along (dx, dy), one of the four axes.
func (c cell) triangle(dx, dy int) {
	c.shade(func(x, y int) bool {
		u, v := x-8, y-8 // u across, v along the heading
		switch {
		case dx > 0:
			u, v = y-8, -(x - 8)
		case dx < 0:
			u, v = y-8, x-8
		case dy > 0:
			v = -(y - 8)
		}
		// apex at v=-6, base at v=+5
		return v >= -6 && v <= 5 && 2*abs(u) <= v+6
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func paintDiamond(c cell) {
	c.shade(func(x, y int) bool { return abs(x-8)+abs(y-8) <= 6 })
}

func paintSun(c cell) {
	c.disc(3.5, 0)
	c.rect(7, 0, 9, 3)
	c.rect(7, 13, 9, 16)
	c.rect(0, 7, 3, 9)
	c.rect(13, 7, 16, 9)
}

var painters = map[byte]func(cell){
	GlyphLight:   func(c cell) { c.shade(func(x, y int) bool { return (x+y)%4 == 0 }) },
	GlyphMedium:  func(c cell) { c.shade(func(x, y int) bool { return (x+y)%2 == 0 }) },
	GlyphDark:    func(c cell) { c.shade(func(x, y int) bool { return (x+y)%4 != 0 }) },
	GlyphFull:    func(c cell) { c.rect(0, 0, GlyphWidth, GlyphHeight) },
	GlyphSquare:  func(c cell) { c.rect(4, 4, 12, 12) },
	GlyphDot:     func(c cell) { c.rect(6, 6, 10, 10) },
	GlyphDim:     func(c cell) { c.rect(7, 7, 9, 9) },
	GlyphDisc:    func(c cell) { c.disc(3.5, 0) },
	GlyphRing:    func(c cell) { c.disc(6.5, 4.5) },
	GlyphDiamond: paintDiamond,
	GlyphSun:     paintSun,
	GlyphUp:      func(c cell) { c.triangle(0, -1) },
	GlyphDown:    func(c cell) { c.triangle(0, 1) },
	GlyphLeft:    func(c cell) { c.triangle(-1, 0) },
	GlyphRight:   func(c cell) { c.triangle(1, 0) },
}
