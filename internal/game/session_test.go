package game

import (
	"errors"
	"testing"
)

type stubProgress struct {
	info  ResumeInfo
	err   error
	calls int
}

func (p *stubProgress) Resume(w *World) (ResumeInfo, error) {
	p.calls++
	if p.err == nil && p.info.Found {
		w.Score = 4321
	}
	return p.info, p.err
}

func TestSessionPauseStopsTheClock(t *testing.T) {
	s := NewSession(testDeps(), nil)
	s.Start()
	w := s.World
	start := w.Now()

	s.Update(Input{Pause: true})
	if !s.Paused {
		t.Fatal("pause input ignored")
	}
	for range 10 {
		s.Update(Input{})
	}
	if !w.Now().Equal(start) {
		t.Errorf("clock moved while paused: %v", w.Now().Sub(start))
	}

	s.TogglePause()
	s.Update(Input{})
	if got := w.Now().Sub(start); got != FrameStep {
		t.Errorf("one frame advanced %v, want %v", got, FrameStep)
	}
}

func TestSessionRestartTearsDownOnce(t *testing.T) {
	rec := newVisualRecorder()
	d := testDeps()
	d.Renderer = rec
	d.Bare = false
	s := NewSession(d, nil)
	s.Start()
	for range 120 {
		s.Update(Input{Forward: true, Fire: true})
	}
	old := s.World
	before := make(map[EntityID]bool, len(rec.added))
	for id := range rec.added {
		before[id] = true
	}

	s.Restart()

	if s.World == old || !s.Started {
		t.Fatal("restart did not build a new world")
	}
	if !old.GameOver {
		t.Error("old world still live")
	}
	for id := range before {
		if rec.removed[id] != 1 {
			t.Errorf("visual %d removed %d times", id, rec.removed[id])
		}
	}
	for id, n := range rec.removed {
		if !before[id] {
			t.Errorf("new world visual %d removed %d times during restart", id, n)
		}
	}
}

func TestSessionResume(t *testing.T) {
	p := &stubProgress{info: ResumeInfo{Found: true, Checkpoint: true}}
	s := NewSession(testDeps(), p)
	s.Start()
	if p.calls != 1 || s.World.Score != 4321 {
		t.Fatalf("resume calls=%d score=%d", p.calls, s.World.Score)
	}

	failing := &stubProgress{err: errors.New("disk gone")}
	s = NewSession(testDeps(), failing)
	s.Start()
	if s.World == nil || !s.Started {
		t.Fatal("a failed load must still start the session")
	}

	died := &stubProgress{info: ResumeInfo{Found: true, DiedLastSession: true}}
	s = NewSession(testDeps(), died)
	s.Start()
	if !s.DiedLastSession {
		t.Error("death flag not carried")
	}
}

func TestSessionGameOverBlocksPause(t *testing.T) {
	s := NewSession(testDeps(), nil)
	s.Start()
	s.World.addBlackHole(&BlackHole{Pos: s.World.Ship.Pos, Radius: 10})
	s.Update(Input{})
	if !s.GameOver() {
		t.Fatal("expected game over")
	}
	s.TogglePause()
	if s.Paused {
		t.Error("paused a finished session")
	}
}
