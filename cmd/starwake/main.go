package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/spacehole-rogue/starwake/assets"
	"github.com/spacehole-rogue/starwake/internal/audio"
	"github.com/spacehole-rogue/starwake/internal/config"
	"github.com/spacehole-rogue/starwake/internal/fx"
	"github.com/spacehole-rogue/starwake/internal/game"
	"github.com/spacehole-rogue/starwake/internal/logging"
	"github.com/spacehole-rogue/starwake/internal/persist"
	"github.com/spacehole-rogue/starwake/internal/render"
	"github.com/spacehole-rogue/starwake/internal/world"
)

const (
	cellWidth  = 16
	cellHeight = 16

	shopToast = 1500 * time.Millisecond
)

// Game is the Ebitengine game. It polls input, drives the session and
// draws the scene; all gameplay state lives in the session's world.
type Game struct {
	width, height int

	session   *game.Session
	particles *fx.System
	toasts    *render.Toasts
	scene     *render.Scene
	renderer  *render.GridRenderer
	log       *slog.Logger
}

func newGame(cfg *config.Config, deps game.Deps, progress game.Progress, particles *fx.System, toasts *render.Toasts) *Game {
	buf := render.NewCellBuffer(cfg.Window.Width/cellWidth, cfg.Window.Height/cellHeight)
	return &Game{
		width:     cfg.Window.Width,
		height:    cfg.Window.Height,
		session:   game.NewSession(deps, progress),
		particles: particles,
		toasts:    toasts,
		scene:     render.NewScene(buf),
		renderer:  render.NewGridRenderer(render.NewFontAtlas(), cellWidth, cellHeight),
		log:       deps.Logger.With("component", "frontend"),
	}
}

func held(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func pressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

// pollInput samples the keyboard once per frame. Arrow keys steer unless
// the shop is open, where they move the cursor instead.
func pollInput(shopOpen bool) game.Input {
	arrows := !shopOpen
	in := game.Input{
		Forward: held(ebiten.KeyW) || arrows && held(ebiten.KeyArrowUp),
		Back:    held(ebiten.KeyS) || arrows && held(ebiten.KeyArrowDown),
		Left:    held(ebiten.KeyA) || arrows && held(ebiten.KeyArrowLeft),
		Right:   held(ebiten.KeyD) || arrows && held(ebiten.KeyArrowRight),
		Up:      held(ebiten.KeyShiftLeft, ebiten.KeyShiftRight),
		Down:    held(ebiten.KeyControlLeft, ebiten.KeyControlRight),
		Fire:    held(ebiten.KeySpace),

		Reload:   pressed(ebiten.KeyR),
		Takeoff:  pressed(ebiten.KeyT),
		Interact: pressed(ebiten.KeyE),
		Separate: pressed(ebiten.KeyX),
		Pause:    pressed(ebiten.KeyP),
	}
	if held(ebiten.KeyAltLeft) {
		in.Sensitivity = 0.4
	}
	return in
}

func (g *Game) Update() error {
	if pressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	s := g.session
	switch {
	case !s.Started:
		if pressed(ebiten.KeyEnter, ebiten.KeyNumpadEnter) {
			s.Start()
		}
		return nil
	case s.GameOver():
		if pressed(ebiten.KeyR, ebiten.KeyEnter) {
			s.Restart()
		}
		return nil
	}

	if pressed(ebiten.KeyC) {
		s.ToggleCamera()
	}
	if s.World.ShopOpen && !s.Paused {
		g.updateShop(s.World)
	}
	s.Update(pollInput(s.World.ShopOpen))
	if !s.Paused {
		g.particles.Step(game.FrameStep)
		g.toasts.Step(game.FrameStep)
	}
	return nil
}

// updateShop moves the cursor and buys on the open shop page. Tab flips
// between the market and the workshop.
func (g *Game) updateShop(w *game.World) {
	if pressed(ebiten.KeyTab) {
		g.scene.Workshop = !g.scene.Workshop
		g.scene.ShopCursor = 0
	}
	var workshop []game.WorkshopEntry
	n := len(game.Catalogue)
	if g.scene.Workshop {
		workshop = w.Workshop()
		n = len(workshop)
	}
	switch {
	case pressed(ebiten.KeyArrowUp):
		g.scene.ShopCursor = (g.scene.ShopCursor + n - 1) % n
	case pressed(ebiten.KeyArrowDown):
		g.scene.ShopCursor = (g.scene.ShopCursor + 1) % n
	case pressed(ebiten.KeyEnter, ebiten.KeyNumpadEnter):
		var res game.ShopResult
		if workshop != nil {
			e := workshop[g.scene.ShopCursor%n]
			res = w.BuyWorkshop(e)
			g.log.Debug("workshop", "item", e.ID, "ok", res.OK)
		} else {
			item := game.Catalogue[g.scene.ShopCursor%n]
			res = w.Purchase(item.Kind)
			g.log.Debug("purchase", "item", item.Kind, "ok", res.OK)
		}
		g.toasts.FloatingText(res.Message, shopToast)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(g.session, g.particles, g.toasts)
	if ebiten.IsKeyPressed(ebiten.KeyF1) {
		fps := fmt.Sprintf("FPS %.0f TPS %.0f fx %d", ebiten.ActualFPS(), ebiten.ActualTPS(), g.particles.Len())
		g.scene.Buf.WriteString(0, 0, fps, render.ColorDarkGray, render.ColorBlack)
	}
	g.renderer.Draw(screen, g.scene.Buf)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func loadout(choice string) (world.Loadout, error) {
	data, err := assets.Ships.ReadFile("ships/loadouts.json")
	if err != nil {
		return world.Loadout{}, fmt.Errorf("read loadouts: %w", err)
	}
	cat, err := world.LoadCatalog(data)
	if err != nil {
		return world.Loadout{}, err
	}
	body, tank, weapon, class, err := world.ParseChoice(choice)
	if err != nil {
		return world.Loadout{}, err
	}
	return cat.Build(body, tank, weapon, class)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Init(cfg.Log)

	ld, err := loadout(cfg.Session.Loadout)
	if err != nil {
		log.Fatalf("loadout: %v", err)
	}

	format, err := persist.ParseFormat(cfg.Storage.Codec)
	if err != nil {
		log.Fatalf("save codec: %v", err)
	}
	store, err := persist.OpenStore(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("open save store: %v", err)
	}
	defer store.Close()
	saver := persist.NewSaver(store, persist.Codec{Format: format}, cfg.Storage.AutosaveInterval(), logger)
	if snap, err := saver.Load(context.Background()); err == nil {
		logger.Debug("found saved session", "snapshot", snap.String())
	}

	var sound game.Sound
	if cfg.Audio.Enabled {
		player := audio.NewPlayer(cfg.Audio.Volume, logger)
		if err := player.Start(); err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer player.Close()
			sound = player
		}
	}

	particles := fx.New(uint64(cfg.Session.Seed) + 1)
	toasts := &render.Toasts{}
	deps := game.Deps{
		Tuning:    cfg.Tuning,
		Loadout:   ld,
		Seed:      cfg.Session.Seed,
		Sound:     sound,
		Renderer:  particles,
		Notifier:  toasts,
		Persister: saver,
		Logger:    logger,
	}

	g := newGame(cfg, deps, saver, particles, toasts)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
	if w := g.session.World; w != nil {
		saver.SaveNow(w)
	}
	logger.Info("shutdown", "saves", saver.Saves, "failures", saver.Failures)
}
