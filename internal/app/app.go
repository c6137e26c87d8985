// Package app wires the tracker, the game session, persistence, hooks and
// sound into the 60 Hz main loop.
package app

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/neonlink/internal/capture"
	"github.com/ayusman/neonlink/internal/detector"
	"github.com/ayusman/neonlink/internal/game"
	"github.com/ayusman/neonlink/internal/gesture"
	"github.com/ayusman/neonlink/internal/hook"
	"github.com/ayusman/neonlink/internal/sound"
	"github.com/ayusman/neonlink/internal/store"
	"github.com/ayusman/neonlink/internal/tetris"
	"github.com/ayusman/neonlink/internal/tracker"
)

// Main loop timing.
const (
	// TickRate is the main loop frequency.
	TickRate = 60
	// ActionBuffer is the capacity of the action channel shared with the
	// web board; actions beyond it are dropped.
	ActionBuffer = 64
)

// Frontend is a local display with its own input, such as the terminal UI.
// Both methods are called from the main loop.
type Frontend interface {
	// Poll returns actions entered since the last call without blocking,
	// and whether the user asked to quit.
	Poll() (actions []game.Action, quit bool)
	// Render shows one frame.
	Render(st game.State)
}

// Config holds configuration options for the application.
type Config struct {
	Store *store.Store

	// Camera is the gesture camera. Nil plays keyboard-only.
	Camera capture.Camera

	// Detector finds hands. When nil and a camera is set, the MediaPipe
	// service is tried; without it gestures stay NONE.
	Detector detector.Detector

	// FPS is the tracker rate (default 30).
	FPS int

	// FallInterval is the base gravity interval (default 500ms).
	FallInterval time.Duration

	// Player names recorded games; a pet name when empty.
	Player string

	// HookDir holds hook directories. Empty disables hooks.
	HookDir string

	// Sound enables audio cues.
	Sound bool

	// Generator picks shapes; nil means random.
	Generator tetris.Generator

	// OnEvent, when set, also receives every session event on the main loop.
	OnEvent func(game.Event)
}

// App is the main application that owns the game loop.
type App struct {
	config   Config
	tracker  *tracker.Tracker
	detector detector.Detector
	session  *game.Session
	hooks    *hook.Manager
	dispatch *hook.Dispatcher
	sound    *sound.Player
	actions  chan game.Action
	state    atomic.Pointer[game.State]
	stopOnce sync.Once
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	a := &App{
		config:   config,
		detector: config.Detector,
		actions:  make(chan game.Action, ActionBuffer),
	}

	if a.detector == nil && config.Camera != nil {
		if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), gestures disabled", err)
		}
	}

	tcfg := tracker.DefaultConfig()
	tcfg.Camera = config.Camera
	tcfg.Detector = a.detector
	if config.FPS > 0 {
		tcfg.FPS = config.FPS
	}
	a.tracker = tracker.New(tcfg)

	if config.HookDir != "" {
		a.hooks = hook.NewManager(config.HookDir)
		if err := a.hooks.Discover(); err != nil {
			log.Printf("Failed to discover hooks: %v", err)
		} else if n := len(a.hooks.List()); n > 0 {
			log.Printf("Loaded %d hooks from %s", n, config.HookDir)
		}
		a.dispatch = hook.NewDispatcher(a.hooks, hook.NewExecutor(hook.DefaultTimeout))
	}

	if config.Sound {
		a.sound = sound.New()
		if err := a.sound.Initialize(); err != nil {
			log.Printf("Sound disabled: %v", err)
		}
	}

	scfg := game.DefaultConfig()
	if config.FallInterval > 0 {
		scfg.BaseFallInterval = config.FallInterval
	}
	scfg.Generator = config.Generator
	scfg.Player = config.Player
	scfg.OnEvent = a.handleEvent
	if config.Store != nil {
		scfg.HighScores = config.Store.Settings()
		scfg.Games = config.Store.Games()
	}
	a.session = game.New(scfg)
	a.publish()

	return a
}

// handleEvent fans a session event out to sound, hooks and the caller.
func (a *App) handleEvent(e game.Event) {
	if a.sound != nil {
		switch e.Kind {
		case game.EventDrop:
			a.sound.Play(sound.CueDrop)
		case game.EventClear:
			a.sound.Play(sound.CueClear)
		case game.EventGameOver:
			a.sound.Play(sound.CueGameOver)
		}
	}
	if a.dispatch != nil {
		a.dispatch.Dispatch(e.Kind.String(), e)
	}
	if a.config.OnEvent != nil {
		a.config.OnEvent(e)
	}
}

// Run starts the tracker and runs the main loop until ctx is cancelled or
// the frontend asks to quit. fe may be nil for a headless game driven by
// the web board. A camera that cannot be opened is logged and the game
// continues keyboard-only.
func (a *App) Run(ctx context.Context, fe Frontend) error {
	if a.config.Camera != nil {
		if err := a.tracker.Start(); err != nil {
			log.Printf("Playing without gestures: %v", err)
		}
	}

	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if quit := a.step(dt, fe); quit {
				return nil
			}
		}
	}
}

// step runs one frame: queued actions, the frontend's input, the session
// tick with the latest gesture, then publication and rendering.
func (a *App) step(dt time.Duration, fe Frontend) (quit bool) {
	for drained := false; !drained; {
		select {
		case act := <-a.actions:
			a.session.HandleAction(act)
		default:
			drained = true
		}
	}

	if fe != nil {
		actions, q := fe.Poll()
		for _, act := range actions {
			a.session.HandleAction(act)
		}
		if q {
			return true
		}
	}

	a.session.Tick(dt, a.tracker.Gesture())
	st := a.publish()

	if fe != nil {
		fe.Render(st)
	}
	return false
}

func (a *App) publish() game.State {
	st := a.session.State()
	a.state.Store(&st)
	return st
}

// Stop stops the tracker, waits for running hooks and releases the
// detector and the speaker. It is safe to call more than once.
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		a.tracker.Stop()

		if a.detector != nil {
			if err := a.detector.Close(); err != nil {
				log.Printf("Error closing detector: %v", err)
			}
		}
		if a.dispatch != nil {
			a.dispatch.Wait()
		}
		if a.sound != nil {
			a.sound.Close()
		}
	})
}

// Actions returns the channel the web board sends actions on.
func (a *App) Actions() chan<- game.Action {
	return a.actions
}

// TogglePause queues a pause toggle without blocking. It reports false if
// the queue is full.
func (a *App) TogglePause() bool {
	select {
	case a.actions <- game.TogglePause:
		return true
	default:
		return false
	}
}

// LatestState returns the state published after the last frame. Safe to
// call from any goroutine.
func (a *App) LatestState() game.State {
	return *a.state.Load()
}

// JPEG returns the latest annotated camera frame, or nil.
func (a *App) JPEG() []byte {
	return a.tracker.JPEG()
}

// Gesture returns the latest tracked gesture.
func (a *App) Gesture() gesture.Gesture {
	return a.tracker.Gesture()
}

// Tracker returns the gesture tracker.
func (a *App) Tracker() *tracker.Tracker {
	return a.tracker
}

// Hooks returns the hook manager, or nil when hooks are disabled.
func (a *App) Hooks() *hook.Manager {
	return a.hooks
}
