package game

import (
	"log/slog"
	"time"
)

// CameraMode is how the frontend frames the ship.
type CameraMode uint8

const (
	CameraChase CameraMode = iota
	CameraCockpit
)

func (c CameraMode) String() string {
	if c == CameraCockpit {
		return "cockpit"
	}
	return "chase"
}

// ResumeInfo describes what a Progress load found.
type ResumeInfo struct {
	Found           bool // a snapshot existed and was applied
	Checkpoint      bool // position and planet layout were restored too
	DiedLastSession bool
}

// Progress restores saved progression into a freshly built world.
type Progress interface {
	Resume(w *World) (ResumeInfo, error)
}

// Session is the lifecycle context around one World: started, paused and
// game-over state, the camera mode, and restart with exactly-once teardown.
type Session struct {
	World           *World
	Started         bool
	Paused          bool
	DiedLastSession bool
	StartedAt       time.Time
	Camera          CameraMode

	deps     Deps
	progress Progress
	log      *slog.Logger
}

// NewSession prepares a session. progress may be nil to always start fresh.
func NewSession(d Deps, progress Progress) *Session {
	l := d.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Session{deps: d, progress: progress, log: l.With("component", "session")}
}

// Start builds the world and applies saved progress. A failed load is
// logged and the session starts fresh.
func (s *Session) Start() {
	if s.Started {
		return
	}
	w := NewWorld(s.deps)
	s.DiedLastSession = false
	if s.progress != nil {
		info, err := s.progress.Resume(w)
		switch {
		case err != nil:
			s.log.Warn("saved progress unavailable", "err", err)
		case info.Checkpoint:
			w.logEvent("Mission resumed from last checkpoint")
		case info.DiedLastSession:
			s.DiedLastSession = true
			w.notify.FloatingText("Previous run ended in death. Starting fresh.", 2200*time.Millisecond)
			w.logEvent("New mission launched after loss")
		}
	}
	s.World = w
	s.Started = true
	s.Paused = false
	s.StartedAt = w.Now()
}

// Update advances one frame unless paused or over. The pause input is
// honoured even while paused.
func (s *Session) Update(in Input) {
	if !s.Started || s.World == nil {
		return
	}
	if in.Pause {
		s.TogglePause()
	}
	if s.Paused || s.World.GameOver {
		return
	}
	s.World.Update(in)
}

// TogglePause flips the pause state of a running session.
func (s *Session) TogglePause() {
	if !s.Started || s.GameOver() {
		return
	}
	s.Paused = !s.Paused
}

// ToggleCamera switches between chase and cockpit framing.
func (s *Session) ToggleCamera() {
	s.Camera = (s.Camera + 1) % 2
	if s.World != nil {
		s.World.logEvent("Camera mode: " + s.Camera.String())
	}
}

// GameOver reports whether the current world has ended.
func (s *Session) GameOver() bool { return s.World != nil && s.World.GameOver }

// Restart saves the current world, tears it down and starts a new one.
func (s *Session) Restart() {
	if w := s.World; w != nil {
		w.persister.SaveNow(w)
		w.Teardown()
		s.World = nil
	}
	s.Started = false
	s.Start()
}
