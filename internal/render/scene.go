package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/spacehole-rogue/starwake/internal/fx"
	"github.com/spacehole-rogue/starwake/internal/game"
	"github.com/spacehole-rogue/starwake/internal/mathx"
)

// World units per map cell for each camera mode.
const (
	chaseScale   = 60.0
	cockpitScale = 20.0
)

const (
	panelW    = 26
	commsRows = 12
	starSeed  = 0x5ca1ab1e
)

// Scene lays a session out on a CellBuffer: a top-down map on the left
// (x across, z down the screen), the ship panel on the right and the comms
// journal along the bottom.
type Scene struct {
	Buf        *CellBuffer
	ShopCursor int
	// Workshop switches the shop overlay from the market to upgrades,
	// modules, tech and crafting.
	Workshop bool

	mapW, mapH int
}

// NewScene sizes the map to whatever the panels leave of buf.
func NewScene(buf *CellBuffer) *Scene {
	return &Scene{
		Buf:  buf,
		mapW: max(1, buf.Cols-panelW),
		mapH: max(1, buf.Rows-commsRows),
	}
}

// MapSize is the map viewport in cells.
func (s *Scene) MapSize() (cols, rows int) { return s.mapW, s.mapH }

// view projects world positions onto map cells around a camera point.
type view struct {
	cam    mathx.Vec3
	scale  float64
	cx, cy int
	w, h   int
}

func (v view) project(p mathx.Vec3) (x, y int, ok bool) {
	x = v.cx + int(math.Floor((p.X-v.cam.X)/v.scale))
	y = v.cy + int(math.Floor((p.Z-v.cam.Z)/v.scale))
	return x, y, x >= 0 && x < v.w && y >= 0 && y < v.h
}

// cells converts a world radius to map cells.
func (v view) cells(r float64) int { return int(r / v.scale) }

func (s *Scene) view(sess *game.Session) view {
	scale := chaseScale
	if sess.Camera == game.CameraCockpit {
		scale = cockpitScale
	}
	v := view{scale: scale, cx: s.mapW / 2, cy: s.mapH / 2, w: s.mapW, h: s.mapH}
	if sess.World != nil && sess.World.Ship != nil {
		v.cam = sess.World.Ship.Pos
	}
	if sess.Camera == game.CameraChase && sess.World != nil && sess.World.Ship != nil {
		// lead the camera a little along the direction of travel
		v.cam = v.cam.Add(sess.World.Ship.Vel.Scale(8))
	}
	return v
}

// Draw renders one frame. particles and toasts may be nil.
func (s *Scene) Draw(sess *game.Session, particles *fx.System, toasts *Toasts) {
	b := s.Buf
	b.Clear()
	if !sess.Started || sess.World == nil {
		s.drawTitle()
		return
	}
	w := sess.World
	v := s.view(sess)

	s.drawStars(v)
	s.drawWorld(w, v)
	if particles != nil {
		particles.Each(func(at mathx.Vec3, p *fx.Particle) {
			if x, y, ok := v.project(at); ok {
				glyph, fg := particleLook(p)
				b.Set(x, y, glyph, fg, ColorBlack)
			}
		})
	}
	s.drawShip(w.Ship, v)
	s.drawPanel(sess)
	s.drawComms(w)
	if w.ShopOpen {
		s.drawShop(w)
	}
	if toasts != nil {
		for i, t := range toasts.Active() {
			s.centred(2+i, t.Text, t.FG)
		}
	}
	switch {
	case w.GameOver:
		s.centred(s.mapH/2-2, "SHIP LOST", ColorLightRed)
		s.centred(s.mapH/2-1, fmt.Sprintf("Score %d  Kills %d", w.Score, w.Kills), ColorWhite)
		s.centred(s.mapH/2+1, "R: restart", ColorDarkGray)
	case sess.Paused:
		s.centred(s.mapH/2, "PAUSED", ColorYellow)
	}
}

func (s *Scene) drawTitle() {
	s.centred(s.Buf.Rows/2-2, "S T A R W A K E", ColorLightCyan)
	s.centred(s.Buf.Rows/2, "Enter: launch", ColorWhite)
	s.centred(s.Buf.Rows/2+1, "Esc: quit", ColorDarkGray)
}

func (s *Scene) centred(y int, text string, fg uint8) {
	x := max(0, (s.mapW-len(text))/2)
	s.Buf.WriteString(x, y, text, fg, ColorBlack)
}

// drawStars scatters a fixed starfield keyed on world cells so it scrolls
// with the camera.
func (s *Scene) drawStars(v view) {
	ox := int32(math.Floor(v.cam.X / v.scale))
	oz := int32(math.Floor(v.cam.Z / v.scale))
	for y := range s.mapH {
		for x := range s.mapW {
			h := mathx.Hash3(starSeed, ox+int32(x-v.cx), 0, oz+int32(y-v.cy))
			if h%89 == 0 {
				fg := uint8(ColorDarkGray)
				if h%7 == 0 {
					fg = ColorLightGray
				}
				s.Buf.Set(x, y, GlyphDim, fg, ColorBlack)
			}
		}
	}
}

// disc fills every map cell within r world units of at.
func (s *Scene) disc(v view, at mathx.Vec3, r float64, glyph byte, fg uint8) {
	cx, cy, _ := v.project(at)
	rc := v.cells(r)
	for dy := -rc; dy <= rc; dy++ {
		for dx := -rc; dx <= rc; dx++ {
			if dx*dx+dy*dy <= rc*rc {
				x, y := cx+dx, cy+dy
				if x >= 0 && x < s.mapW && y >= 0 && y < s.mapH {
					s.Buf.Set(x, y, glyph, fg, ColorBlack)
				}
			}
		}
	}
}

func (s *Scene) mark(v view, at mathx.Vec3, glyph byte, fg uint8) {
	if x, y, ok := v.project(at); ok {
		s.Buf.Set(x, y, glyph, fg, ColorBlack)
	}
}

func (s *Scene) label(v view, at mathx.Vec3, dy int, text string, fg uint8) {
	x, y, ok := v.project(at)
	if !ok {
		return
	}
	x -= len(text) / 2
	y += dy
	if y < 0 || y >= s.mapH {
		return
	}
	for i, ch := range []byte(text) {
		if x+i >= 0 && x+i < s.mapW {
			s.Buf.Set(x+i, y, ch, fg, ColorBlack)
		}
	}
}

func (s *Scene) drawWorld(w *game.World, v view) {
	for _, n := range w.Nebulae {
		s.disc(v, n.Pos, n.Radius, GlyphLight, Nearest(n.Color))
	}
	for _, bh := range w.BlackHoles {
		s.disc(v, bh.Pos, bh.GravityRadius(), GlyphLight, ColorDarkGray)
		s.disc(v, bh.Pos, bh.Radius, GlyphFull, ColorMagenta)
	}
	if from, to, ok := w.ReturnTrail(); ok {
		s.trail(v, from, to)
	}
	for _, f := range w.Fields {
		for _, r := range f.Rocks {
			s.mark(v, r.Pos, 'o', ColorBrown)
		}
	}
	for _, p := range w.Planets {
		s.drawPlanet(w, p, v)
	}
	for _, g := range w.Gates {
		s.mark(v, g.Pos, GlyphRing, ColorLightCyan)
	}
	for _, a := range w.Artifacts {
		s.mark(v, a.Pos, GlyphDiamond, ColorLightMagenta)
	}
	for _, d := range w.Derelicts {
		fg := uint8(ColorLightGray)
		if d.Scavenged {
			fg = ColorDarkGray
		}
		s.mark(v, d.Pos, '%', fg)
	}
	for _, c := range w.Colossi {
		s.disc(v, c.Pos, 3*v.scale, GlyphMedium, ColorLightGray)
		s.label(v, c.Pos, -4, c.ID, ColorLightGray)
	}
	for _, pu := range w.PowerUps {
		s.mark(v, pu.Pos, '+', ColorLightGreen)
	}
	for _, h := range w.Helpers {
		fg := uint8(ColorLightBlue)
		if h.Allied {
			fg = ColorLightCyan
		}
		s.mark(v, h.Pos, 'h', fg)
	}
	for _, e := range w.Enemies {
		s.mark(v, e.Pos, enemyGlyph(e), ColorLightRed)
	}
	if m := w.Mega; m != nil {
		s.disc(v, m.Pos, 2*v.scale, GlyphDark, ColorRed)
		s.label(v, m.Pos, -3, fmt.Sprintf("MEGASHIP %d%%", int(100*m.Health/max(1, m.MaxHealth))), ColorLightRed)
	}
	for _, bl := range w.Bullets {
		fg := uint8(ColorYellow)
		if bl.Source == game.FromHostile {
			fg = ColorLightRed
		}
		s.mark(v, bl.Pos, GlyphDisc, fg)
	}
}

func (s *Scene) drawPlanet(w *game.World, p *game.Planet, v view) {
	fg := Nearest(p.Color)
	if v.cells(p.Radius) == 0 {
		s.mark(v, p.Pos, 'O', fg)
	} else {
		s.disc(v, p.Pos, p.Radius, GlyphFull, fg)
	}
	name := p.Name
	if p.HasBase {
		name += fmt.Sprintf(" [B%d]", p.BaseLevel)
	}
	if p == w.ReturnBase {
		name = "> " + name
	}
	s.label(v, p.Pos, v.cells(p.Radius)+1, name, ownerColor(p.Civ))
}

// trail dots the line from ship to return base inside the map.
func (s *Scene) trail(v view, from, to mathx.Vec3) {
	d := from.Dist(to)
	if d < v.scale {
		return
	}
	steps := min(int(d/(2*v.scale)), 200)
	for i := 1; i < steps; i++ {
		s.mark(v, from.Lerp(to, float64(i)/float64(steps)), GlyphDim, ColorGreen)
	}
}

func (s *Scene) drawShip(ship *game.Ship, v view) {
	if ship == nil {
		return
	}
	dir := ship.Facing
	if ship.Vel.Len() > 0.05 {
		dir = ship.Vel
	}
	glyph := byte(GlyphUp)
	switch {
	case math.Abs(dir.X) > math.Abs(dir.Z) && dir.X > 0:
		glyph = GlyphRight
	case math.Abs(dir.X) > math.Abs(dir.Z):
		glyph = GlyphLeft
	case dir.Z > 0:
		glyph = GlyphDown
	}
	fg := uint8(ColorWhite)
	if ship.Shield > 0 {
		fg = ColorLightCyan
	}
	s.mark(v, ship.Pos, glyph, fg)
}

func (s *Scene) drawPanel(sess *game.Session) {
	w := sess.World
	sh := w.Ship
	b := s.Buf
	x := s.mapW
	b.Box(x, 0, panelW, 17, "Ship", ColorLightCyan)
	row := 1
	gauge := func(name string, val, max float64, fg uint8) {
		b.WriteString(x+2, row, name, ColorLightGray, ColorBlack)
		b.Bar(x+9, row, 10, val, max, fg)
		b.WriteString(x+20, row, fmt.Sprintf("%4.0f", val), ColorLightGray, ColorBlack)
		row++
	}
	line := func(text string, fg uint8) {
		b.WriteString(x+2, row, text, fg, ColorBlack)
		row++
	}
	gauge("Hull", sh.Health, sh.MaxHealth, hullColor(sh.Health, sh.MaxHealth))
	gauge("Shield", sh.Shield, sh.MaxShield, ColorLightCyan)
	gauge("Fuel", sh.Fuel, sh.MaxFuel, ColorLightMagenta)
	gauge("Ammo", float64(sh.Ammo), float64(sh.MaxAmmo), ColorYellow)
	line(fmt.Sprintf("Speed %3d%%", sh.SpeedPct()), ColorLightGray)
	row++
	line(fmt.Sprintf("Score   %d", w.Score), ColorWhite)
	line(fmt.Sprintf("Kills   %d", w.Kills), ColorWhite)
	line(fmt.Sprintf("Ore %d  Salvage %d", w.Resources.Minerals, w.Resources.Salvage), ColorBrown)
	line(fmt.Sprintf("Upgrade pts %d", w.UpgradePoints), ColorLightGreen)
	line(fmt.Sprintf("Helpers %d", len(w.Helpers)), ColorLightBlue)
	row++
	status, fg := shipStatus(w)
	line(status, fg)
	line("Camera: "+sess.Camera.String(), ColorDarkGray)

	b.Box(x, 17, panelW, s.mapH-17, "Missions", ColorLightCyan)
	row = 18
	for _, m := range w.Missions {
		if row >= s.mapH-5 {
			break
		}
		fg := uint8(ColorLightGray)
		if m.Completed {
			fg = ColorLightGreen
		}
		line(clip(m.Description(), panelW-4), fg)
		line(fmt.Sprintf("  %d/%d", m.Progress(), m.Target), ColorDarkGray)
	}
	row = max(row, s.mapH-5)
	for i, r := range w.Leaderboard() {
		if i == 3 || row >= s.mapH-1 {
			break
		}
		fg := uint8(ColorLightRed)
		if r.IsPlayer {
			fg = ColorLightGreen
		}
		line(clip(fmt.Sprintf("%d %s %d", i+1, r.Name, r.Score), panelW-4), fg)
	}
}

func shipStatus(w *game.World) (string, uint8) {
	sh := w.Ship
	switch {
	case sh.Landed && sh.LandedPlanet != nil:
		return clip("Landed: "+sh.LandedPlanet.Name, panelW-4), ColorLightGreen
	case w.Interior != nil:
		return "Inside " + w.Interior.ID, ColorLightGray
	case w.InNebula != nil:
		return "Nebula: sensors dim", ColorMagenta
	case sh.OutOfFuel():
		return "OUT OF FUEL", ColorLightRed
	case w.Cosmic != nil:
		return "Cosmic event!", ColorYellow
	}
	return "Cruising", ColorDarkGray
}

func (s *Scene) drawComms(w *game.World) {
	b := s.Buf
	top := s.mapH
	b.Box(0, top, b.Cols, commsRows, "Comms", ColorLightCyan)
	lines := w.Journal.Lines(commsRows-2, b.Cols-4)
	for i, l := range lines {
		if i >= commsRows-2 {
			break
		}
		fg := uint8(ColorCyan)
		if i == 0 {
			fg = ColorWhite
		}
		b.WriteString(2, top+1+i, l, fg, ColorBlack)
	}
}

// ShopRows is how many entries fit in the shop overlay.
func (s *Scene) ShopRows() int { return max(1, s.mapH-8) }

type shopRow struct {
	name, cost string
	dim        bool
}

func shopRows(w *game.World, workshop bool) []shopRow {
	if workshop {
		entries := w.Workshop()
		rows := make([]shopRow, len(entries))
		for i, e := range entries {
			rows[i] = shopRow{e.Name, e.Cost, e.Owned}
		}
		return rows
	}
	rows := make([]shopRow, len(game.Catalogue))
	for i, it := range game.Catalogue {
		rows[i] = shopRow{name: it.Name, cost: fmt.Sprintf("%d", w.Price(it.Kind))}
	}
	return rows
}

func (s *Scene) drawShop(w *game.World) {
	b := s.Buf
	x, y, bw, bh := 3, 2, s.mapW-6, s.mapH-4
	for j := y; j < y+bh; j++ {
		for i := x; i < x+bw; i++ {
			b.Set(i, j, ' ', ColorWhite, ColorBlack)
		}
	}
	title := "Shop"
	if p := w.Ship.LandedPlanet; p != nil {
		title = p.Merchant
	}
	if s.Workshop {
		title = "Workshop"
	}
	b.Box(x, y, bw, bh, title, ColorYellow)

	list := shopRows(w, s.Workshop)
	rows := s.ShopRows()
	cur := min(max(0, s.ShopCursor), len(list)-1)
	first := max(0, min(cur-rows/2, len(list)-rows))
	for i := 0; i < rows && first+i < len(list); i++ {
		r := list[first+i]
		fg, bg := uint8(ColorLightGray), uint8(ColorBlack)
		if r.dim {
			fg = ColorDarkGray
		}
		if first+i == cur {
			fg, bg = ColorBlack, ColorLightGray
		}
		cost := fmt.Sprintf("%10s", r.cost)
		name := clip(r.name, bw-16)
		b.WriteString(x+2, y+2+i, name+strings.Repeat(" ", max(0, bw-16-len(name)))+cost, fg, bg)
	}
	footer := fmt.Sprintf("Score %d  Tab page  Enter buy  E close", w.Score)
	if s.Workshop {
		footer = fmt.Sprintf("UP %d  Min %d  Salv %d  Tab page  Enter buy", w.UpgradePoints, w.Resources.Minerals, w.Resources.Salvage)
	}
	b.WriteString(x+2, y+bh-2, clip(footer, bw-4), ColorDarkGray, ColorBlack)
}

func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}

func hullColor(val, max float64) uint8 {
	switch pct := val / math.Max(max, 1); {
	case pct <= 0.25:
		return ColorLightRed
	case pct <= 0.5:
		return ColorYellow
	}
	return ColorLightGreen
}

func ownerColor(c game.Civilization) uint8 {
	switch {
	case !c.Founded || c.Owner == game.OwnerNeutral:
		return ColorLightGray
	case c.Owner == game.OwnerPlayer:
		return ColorLightGreen
	}
	return ColorLightRed
}

var enemyGlyphs = [game.EnemyKindCount]byte{
	game.EnemyStandard: 'e',
	game.EnemyFast:     'f',
	game.EnemyTank:     'T',
	game.EnemySwarm:    's',
	game.EnemySniper:   'n',
	game.EnemyKamikaze: 'k',
	game.EnemyShielded: 'S',
	game.EnemyBoss:     'B',
}

func enemyGlyph(e *game.Enemy) byte {
	if e.Attached {
		return 'X'
	}
	if e.Kind < game.EnemyKindCount {
		return enemyGlyphs[e.Kind]
	}
	return '?'
}

func particleLook(p *fx.Particle) (byte, uint8) {
	switch p.Kind {
	case fx.Flash:
		return GlyphSun, ColorYellow
	case fx.Spark:
		return GlyphDisc, ColorWhite
	}
	if p.Life() < 0.35 {
		return GlyphDim, ColorDarkGray
	}
	return GlyphDot, Nearest(p.Color)
}
