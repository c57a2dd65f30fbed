package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/spacehole-rogue/starwake/internal/game"
)

// drain streams s to the end and returns the sample count and peak level.
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for range 10000 {
		n, ok := s.Stream(buf)
		for i := range n {
			for _, v := range buf[i] {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("sample %d is %v", total+i, v)
				}
				peak = math.Max(peak, math.Abs(v))
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("streamer never drained")
	return 0, 0
}

func TestEveryCueIsFiniteAndAudible(t *testing.T) {
	p := NewPlayer(1, nil)
	for k := game.SoundKind(0); k < game.SoundKindCount; k++ {
		t.Run(k.String(), func(t *testing.T) {
			n, peak := drain(t, p.Cue(k))
			want := SampleRate.N(cues[k].length)
			if n != want {
				t.Errorf("samples = %d, want %d", n, want)
			}
			if peak == 0 || peak > 2 {
				t.Errorf("peak = %f", peak)
			}
		})
	}
}

func TestMutedPlayerIsSilent(t *testing.T) {
	p := NewPlayer(0, nil)
	_, peak := drain(t, p.Cue(game.SoundExplosion))
	if peak != 0 {
		t.Errorf("muted peak = %f", peak)
	}
}

func TestOscillatorSweep(t *testing.T) {
	o := newOscillator(Square, 100, 200, 10*time.Millisecond, SampleRate, 1)
	buf := make([][2]float64, 1000)
	n, ok := o.Stream(buf)
	if !ok || n != SampleRate.N(10*time.Millisecond) {
		t.Fatalf("n=%d ok=%v", n, ok)
	}
	for i := range n {
		if v := buf[i][0]; v != 1 && v != -1 {
			t.Fatalf("square sample %d = %f", i, v)
		}
	}
	if n, ok := o.Stream(buf); n != 0 || ok {
		t.Errorf("drained oscillator streamed n=%d ok=%v", n, ok)
	}
}

func TestPlayBeforeStartIsDropped(t *testing.T) {
	p := NewPlayer(1, nil)
	p.Play(game.SoundFire)
	if p.mixer.Len() != 0 {
		t.Errorf("mixer holds %d streamers without a device", p.mixer.Len())
	}
	p.Close()
}

func TestUnknownCueIsSilent(t *testing.T) {
	p := NewPlayer(1, nil)
	n, _ := drain(t, p.Cue(game.SoundKindCount))
	if n != 0 {
		t.Errorf("unknown cue streamed %d samples", n)
	}
}
