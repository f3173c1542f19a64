// Package audio plays the pitch of an answered fret through the speaker.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/verte-zerg/fretdrill/internal/render"
)

const (
	SampleRate      = beep.SampleRate(44100)
	DefaultDuration = 700 * time.Millisecond
	DefaultGain     = 0.4

	attackTime = 8 * time.Millisecond
	decayRate  = 4.0
)

// Player is the audio half of a render.Adapter: it plays plucked sine tones and
// ignores everything else. Until Init succeeds every call is a no-op.
type Player struct {
	render.Null

	mu       sync.Mutex
	ready    bool
	Duration time.Duration
	Gain     float64
}

// NewPlayer returns a player with default tone settings.
func NewPlayer() *Player {
	return &Player{Duration: DefaultDuration, Gain: DefaultGain}
}

// Init opens the speaker. Failure leaves the player silent.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return err
	}
	p.ready = true
	return nil
}

// Ready reports whether the speaker is open.
func (p *Player) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// PlayTone starts a tone at hz and returns immediately.
func (p *Player) PlayTone(hz float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	tone, err := Tone(SampleRate, hz, p.Duration, p.Gain)
	if err != nil {
		return
	}
	speaker.Play(tone)
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.ready = false
}

// Tone returns a sine at hz of length d with a short attack and an
// exponential decay, scaled by gain.
func Tone(rate beep.SampleRate, hz float64, d time.Duration, gain float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, hz)
	if err != nil {
		return nil, err
	}
	shaped := &pluck{
		streamer: beep.Take(rate.N(d), sine),
		rate:     rate,
		attack:   rate.N(attackTime),
	}
	if gain <= 0 {
		return &effects.Volume{Streamer: shaped, Base: 2, Silent: true}, nil
	}
	return &effects.Volume{Streamer: shaped, Base: 2, Volume: math.Log2(gain)}, nil
}

type pluck struct {
	streamer beep.Streamer
	rate     beep.SampleRate
	attack   int
	pos      int
}

func (p *pluck) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = p.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := math.Exp(-decayRate * float64(p.pos) / float64(p.rate))
		if p.pos < p.attack {
			vol *= float64(p.pos) / float64(p.attack)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		p.pos++
	}
	return n, ok
}

func (p *pluck) Err() error { return p.streamer.Err() }
