package render

import "image/color"

// Palette indices for the 16-color CGA set.
const (
	ColorBlack        = 0
	ColorBlue         = 1
	ColorGreen        = 2
	ColorCyan         = 3
	ColorRed          = 4
	ColorMagenta      = 5
	ColorBrown        = 6
	ColorLightGray    = 7
	ColorDarkGray     = 8
	ColorLightBlue    = 9
	ColorLightGreen   = 10
	ColorLightCyan    = 11
	ColorLightRed     = 12
	ColorLightMagenta = 13
	ColorYellow       = 14
	ColorWhite        = 15
)

// Palette maps the indices above to RGB.
var Palette = [16]color.RGBA{
	{0, 0, 0, 255},
	{0, 0, 170, 255},
	{0, 170, 0, 255},
	{0, 170, 170, 255},
	{170, 0, 0, 255},
	{170, 0, 170, 255},
	{170, 85, 0, 255},
	{170, 170, 170, 255},
	{85, 85, 85, 255},
	{85, 85, 255, 255},
	{85, 255, 85, 255},
	{85, 255, 255, 255},
	{255, 85, 85, 255},
	{255, 85, 255, 255},
	{255, 255, 85, 255},
	{255, 255, 255, 255},
}

// Nearest returns the palette index closest to a 0xRRGGBB color. Black is
// never chosen so that dark planets and particles stay visible.
func Nearest(rgb uint32) uint8 {
	r, g, b := int(rgb>>16&0xff), int(rgb>>8&0xff), int(rgb&0xff)
	best, bestDist := uint8(ColorDarkGray), 1<<30
	for i := 1; i < len(Palette); i++ {
		p := Palette[i]
		dr, dg, db := r-int(p.R), g-int(p.G), b-int(p.B)
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = uint8(i), d
		}
	}
	return best
}
