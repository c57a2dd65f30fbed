// Package audio plays the simulation's sound cues. Every cue is synthesized
// from oscillators, so there are no sample files to ship.
package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave uint8

const (
	Sine Wave = iota
	Square
	Saw
	Noise
)

// oscillator sweeps linearly from freq to sweepTo over its duration.
type oscillator struct {
	freq, sweepTo float64
	wave          Wave
	rate          beep.SampleRate
	phase         float64
	pos, total    int
	rng           *rand.Rand
}

func newOscillator(wave Wave, freq, sweepTo float64, d time.Duration, rate beep.SampleRate, seed uint64) *oscillator {
	if sweepTo <= 0 {
		sweepTo = freq
	}
	return &oscillator{
		freq:    freq,
		sweepTo: sweepTo,
		wave:    wave,
		rate:    rate,
		total:   rate.N(d),
		rng:     rand.New(rand.NewPCG(seed, seed+1)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if o.pos >= o.total {
			return i, i > 0
		}
		var v float64
		switch o.wave {
		case Sine:
			v = math.Sin(2 * math.Pi * o.phase)
		case Square:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case Saw:
			v = 2 * (o.phase - 0.5)
		case Noise:
			v = o.rng.Float64()*2 - 1
		}
		samples[i] = [2]float64{v, v}

		f := o.freq + (o.sweepTo-o.freq)*float64(o.pos)/float64(o.total)
		o.phase += f / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a streamer in over attack and out over release.
type envelope struct {
	s                       beep.Streamer
	pos, attack, release, n int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) *envelope {
	return &envelope{s: s, attack: rate.N(attack), release: rate.N(release), n: rate.N(d)}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	for i := range n {
		g := 1.0
		if e.attack > 0 && e.pos < e.attack {
			g = float64(e.pos) / float64(e.attack)
		}
		if left := e.n - e.pos; e.release > 0 && left < e.release {
			g = math.Max(0, float64(left)/float64(e.release))
		}
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// withVolume scales a streamer by a linear gain. Zero or less is silent.
func withVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// voice is one oscillator layer of a cue.
type voice struct {
	wave          Wave
	freq, sweepTo float64
	gain          float64
}

// cue describes how a sound kind is synthesized.
type cue struct {
	voices          []voice
	length          time.Duration
	attack, release time.Duration
	gain            float64
}

func (c cue) streamer(rate beep.SampleRate, seed uint64) beep.Streamer {
	layers := make([]beep.Streamer, 0, len(c.voices))
	for i, v := range c.voices {
		osc := newOscillator(v.wave, v.freq, v.sweepTo, c.length, rate, seed+uint64(i))
		layers = append(layers, withVolume(osc, v.gain))
	}
	mixed := beep.Mix(layers...)
	shaped := newEnvelope(beep.Take(rate.N(c.length), mixed), c.length, c.attack, c.release, rate)
	return withVolume(shaped, c.gain)
}
