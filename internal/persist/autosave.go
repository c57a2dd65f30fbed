package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/spacehole-rogue/starwake/internal/game"
)

const (
	DefaultAutosaveInterval = 5 * time.Second
	storeTimeout            = 2 * time.Second
)

// Saver is the game's persistence collaborator. It autosaves on the session
// clock, saves on demand at session end, and restores progress at start.
// Write failures are logged and swallowed.
type Saver struct {
	store *Store
	codec Codec
	key   string
	limit *rate.Limiter
	log   *slog.Logger

	// Saves and Failures count write attempts since creation.
	Saves    int
	Failures int
}

// NewSaver creates a Saver writing to st under DefaultKey. A non-positive
// interval uses DefaultAutosaveInterval.
func NewSaver(st *Store, codec Codec, interval time.Duration, log *slog.Logger) *Saver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Saver{
		store: st,
		codec: codec,
		key:   DefaultKey,
		limit: rate.NewLimiter(rate.Every(interval), 1),
		log:   log.With("component", "persist"),
	}
}

// Autosave writes w if an interval of session time has passed since the
// last autosave.
func (s *Saver) Autosave(w *game.World) {
	if w == nil || !s.limit.AllowN(w.Now(), 1) {
		return
	}
	s.save(w)
}

// SaveNow writes w immediately.
func (s *Saver) SaveNow(w *game.World) { s.save(w) }

func (s *Saver) save(w *game.World) {
	snap, ok := Capture(w)
	if !ok {
		return
	}
	if err := s.write(&snap, w.Now()); err != nil {
		s.Failures++
		s.log.Warn("save failed", "err", err)
		return
	}
	s.Saves++
	s.log.Debug("saved", "snapshot", snap.String())
}

func (s *Saver) write(snap *Snapshot, at time.Time) error {
	blob, err := s.codec.Encode(snap)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	return s.store.Put(ctx, s.key, blob, at)
}

// Load reads and decodes the stored snapshot.
func (s *Saver) Load(ctx context.Context) (*Snapshot, error) {
	blob, _, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	return s.codec.Decode(blob)
}

// Resume applies the stored snapshot to a fresh world. Having no snapshot
// is not an error. A snapshot from a run that ended in death restores
// progression only.
func (s *Saver) Resume(w *game.World) (game.ResumeInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	snap, err := s.Load(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		s.log.Info("no saved progress")
		return game.ResumeInfo{}, nil
	}
	if err != nil {
		return game.ResumeInfo{}, fmt.Errorf("load progress: %w", err)
	}
	checkpoint := snap.RestoresCheckpoint()
	Apply(w, snap, checkpoint)
	s.log.Info("progress loaded",
		"score", w.Score,
		"checkpoint", checkpoint,
		"diedLastSession", snap.LastSessionEndedByDeath)
	return game.ResumeInfo{
		Found:           true,
		Checkpoint:      checkpoint,
		DiedLastSession: snap.LastSessionEndedByDeath,
	}, nil
}
