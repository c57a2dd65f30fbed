package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/spacehole-rogue/starwake/internal/game"
)

const (
	SampleRate = beep.SampleRate(44100)
	bufferSize = 100 * time.Millisecond

	// maxVoices caps concurrently mixed cues; extra cues are dropped.
	maxVoices = 24
)

var cues = [game.SoundKindCount]cue{
	game.SoundFire: {
		voices: []voice{{Square, 880, 440, 0.5}, {Noise, 0, 0, 0.15}},
		length: 90 * time.Millisecond, release: 60 * time.Millisecond, gain: 0.35,
	},
	game.SoundExplosion: {
		voices: []voice{{Noise, 0, 0, 0.8}, {Sine, 70, 35, 0.6}},
		length: 700 * time.Millisecond, attack: 5 * time.Millisecond, release: 550 * time.Millisecond, gain: 0.7,
	},
	game.SoundPickup: {
		voices: []voice{{Sine, 660, 1320, 0.7}, {Sine, 1320, 1980, 0.3}},
		length: 160 * time.Millisecond, attack: 5 * time.Millisecond, release: 80 * time.Millisecond, gain: 0.45,
	},
	game.SoundDamage: {
		voices: []voice{{Saw, 140, 90, 0.7}, {Noise, 0, 0, 0.3}},
		length: 220 * time.Millisecond, release: 120 * time.Millisecond, gain: 0.55,
	},
	game.SoundAchievement: {
		voices: []voice{{Sine, 523, 523, 0.5}, {Sine, 659, 659, 0.3}, {Sine, 784, 1046, 0.3}},
		length: 600 * time.Millisecond, attack: 20 * time.Millisecond, release: 300 * time.Millisecond, gain: 0.5,
	},
	game.SoundAmbient: {
		voices: []voice{{Sine, 55, 58, 0.6}, {Sine, 82, 80, 0.3}},
		length: 3 * time.Second, attack: time.Second, release: 1500 * time.Millisecond, gain: 0.2,
	},
	game.SoundEngineHum: {
		voices: []voice{{Saw, 48, 52, 0.5}, {Sine, 96, 100, 0.4}},
		length: 450 * time.Millisecond, attack: 60 * time.Millisecond, release: 120 * time.Millisecond, gain: 0.18,
	},
	game.SoundAsteroidHit: {
		voices: []voice{{Noise, 0, 0, 0.6}, {Square, 180, 120, 0.3}},
		length: 120 * time.Millisecond, release: 90 * time.Millisecond, gain: 0.4,
	},
	game.SoundSparks: {
		voices: []voice{{Noise, 0, 0, 0.5}, {Sine, 2400, 3200, 0.2}},
		length: 80 * time.Millisecond, release: 60 * time.Millisecond, gain: 0.3,
	},
	game.SoundLanding: {
		voices: []voice{{Sine, 220, 110, 0.6}, {Noise, 0, 0, 0.2}},
		length: 400 * time.Millisecond, attack: 30 * time.Millisecond, release: 250 * time.Millisecond, gain: 0.45,
	},
}

// Player mixes cues onto the speaker. It is safe to call Play before
// Start or after Close; those cues are dropped.
type Player struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	volume  float64
	started bool
	played  uint64
	log     *slog.Logger
}

// NewPlayer creates a player at the given master volume in [0, 1].
func NewPlayer(volume float64, log *slog.Logger) *Player {
	if log == nil {
		log = slog.Default()
	}
	return &Player{
		mixer:  &beep.Mixer{},
		volume: min(1, max(0, volume)),
		log:    log.With("component", "audio"),
	}
}

// Start opens the output device.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(bufferSize)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.started = true
	p.log.Info("audio started", "rate", int(SampleRate), "volume", p.volume)
	return nil
}

// Play queues kind on the mixer.
func (p *Player) Play(kind game.SoundKind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started || kind >= game.SoundKindCount {
		return
	}
	s := p.cue(kind)
	speaker.Lock()
	if p.mixer.Len() < maxVoices {
		p.mixer.Add(s)
	}
	speaker.Unlock()
}

// Cue returns a fresh streamer for kind at the player's volume. It needs no
// device.
func (p *Player) Cue(kind game.SoundKind) beep.Streamer {
	if kind >= game.SoundKindCount {
		return beep.Silence(0)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cue(kind)
}

func (p *Player) cue(kind game.SoundKind) beep.Streamer {
	p.played++
	return withVolume(cues[kind].streamer(SampleRate, p.played), p.volume)
}

// Close silences the mixer and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.started = false
}

var _ game.Sound = (*Player)(nil)
