// Package sound plays short synthesized cues for game events.
package sound

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Cue names a sound.
type Cue int

const (
	CueDrop Cue = iota
	CueClear
	CueGameOver
)

func (c Cue) String() string {
	switch c {
	case CueDrop:
		return "drop"
	case CueClear:
		return "clear"
	case CueGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// note is one tone of a cue.
type note struct {
	freq float64
	dur  time.Duration
}

var cues = map[Cue][]note{
	CueDrop:     {{220, 60 * time.Millisecond}},
	CueClear:    {{523.25, 80 * time.Millisecond}, {659.25, 80 * time.Millisecond}, {783.99, 120 * time.Millisecond}},
	CueGameOver: {{392, 200 * time.Millisecond}, {311.13, 200 * time.Millisecond}, {196, 400 * time.Millisecond}},
}

// Stream builds the streamer for a cue at the given rate.
func Stream(c Cue, sr beep.SampleRate) (beep.Streamer, error) {
	notes, ok := cues[c]
	if !ok {
		return nil, fmt.Errorf("unknown cue %d", c)
	}

	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		tone, err := generators.SineTone(sr, n.freq)
		if err != nil {
			return nil, fmt.Errorf("cue %s: %w", c, err)
		}
		parts = append(parts, beep.Take(sr.N(n.dur), tone))
	}

	// Sine at full scale is harsh; play at a quarter of the amplitude.
	return &effects.Volume{Streamer: beep.Seq(parts...), Base: 2, Volume: -2}, nil
}

// Player mixes cues into the speaker. A Player that failed to initialize
// stays silent.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// New creates a silent player. Call Initialize to open the audio device.
func New() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker. Failure leaves the player silent.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues a cue. It never blocks on audio output.
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	s, err := Stream(c, sampleRate)
	if err != nil {
		log.Printf("Failed to build sound: %v", err)
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences the mixer and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Clear()
	speaker.Close()
	p.initialized = false
}
