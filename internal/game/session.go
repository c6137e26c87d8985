// Package game runs one player's session: it feeds gestures, key presses and
// the fall timer into the tetris engine and reports what happened.
package game

import (
	"log"
	"time"

	petname "github.com/dustinkirkland/golang-petname"

	"github.com/ayusman/neonlink/internal/gesture"
	"github.com/ayusman/neonlink/internal/store"
	"github.com/ayusman/neonlink/internal/tetris"
)

// Vibe meter tuning.
const (
	VibeMax   = 100.0
	VibeBoost = 5.0
	VibeDecay = 0.2
)

// HighScores loads and saves the best score. *store.SettingsRepository
// satisfies it.
type HighScores interface {
	HighScore() (int, error)
	SetHighScore(score int) error
}

// GameRecorder stores finished games. *store.GameRepository satisfies it.
type GameRecorder interface {
	Create(g *store.Game) error
}

// Config holds session settings.
type Config struct {
	// BaseFallInterval is the time between gravity steps (default 500ms).
	BaseFallInterval time.Duration

	// SlowFactor stretches the interval while an open palm is shown (default 2).
	SlowFactor float64

	// The interval shrinks by SpeedUpStep (default 50ms) for every
	// SpeedUpEvery (default 30s) of unpaused play, down to MinFallInterval
	// (default 100ms). A negative SpeedUpStep keeps the base interval.
	SpeedUpEvery    time.Duration
	SpeedUpStep     time.Duration
	MinFallInterval time.Duration

	// Once a locked block reaches DangerRow (default 2) or above, gravity
	// slows to DangerFallInterval (default 800ms). A negative DangerRow
	// turns this off.
	DangerRow          int
	DangerFallInterval time.Duration

	// SlamCooldown is the minimum time between two fist slams (default 1s).
	// A negative value leaves only the release latch.
	SlamCooldown time.Duration

	// Generator picks shapes; nil means random.
	Generator tetris.Generator

	HighScores HighScores
	Games      GameRecorder

	// Player names the game records. A pet name is generated when empty.
	Player string

	// OnEvent is called synchronously from Tick and HandleAction.
	OnEvent func(Event)

	// Now is the clock used for game durations (default time.Now).
	Now func() time.Time
}

// DefaultConfig returns the classic timing.
func DefaultConfig() Config {
	return Config{
		BaseFallInterval:   500 * time.Millisecond,
		SlowFactor:         2.0,
		SpeedUpEvery:       30 * time.Second,
		SpeedUpStep:        50 * time.Millisecond,
		MinFallInterval:    100 * time.Millisecond,
		DangerRow:          2,
		DangerFallInterval: 800 * time.Millisecond,
		SlamCooldown:       time.Second,
	}
}

// Session is not safe for concurrent use; it belongs to the main loop.
type Session struct {
	config Config
	engine *tetris.Engine

	fallTime  time.Duration
	played    time.Duration
	cooldown  time.Duration
	vibe      float64
	paused    bool
	acted     bool
	slam      *gesture.Trigger
	gesture   gesture.Gesture
	highScore int
	startedAt time.Time
}

// New creates a session and loads the stored high score.
func New(config Config) *Session {
	def := DefaultConfig()
	if config.BaseFallInterval <= 0 {
		config.BaseFallInterval = def.BaseFallInterval
	}
	if config.SlowFactor <= 0 {
		config.SlowFactor = def.SlowFactor
	}
	if config.SpeedUpEvery <= 0 {
		config.SpeedUpEvery = def.SpeedUpEvery
	}
	if config.SpeedUpStep == 0 {
		config.SpeedUpStep = def.SpeedUpStep
	}
	if config.MinFallInterval <= 0 {
		config.MinFallInterval = def.MinFallInterval
	}
	if config.DangerRow == 0 {
		config.DangerRow = def.DangerRow
	}
	if config.DangerFallInterval <= 0 {
		config.DangerFallInterval = def.DangerFallInterval
	}
	if config.SlamCooldown == 0 {
		config.SlamCooldown = def.SlamCooldown
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Player == "" {
		config.Player = petname.Generate(2, "-")
	}

	s := &Session{
		config:  config,
		slam:    gesture.NewTrigger(gesture.ClosedFist),
		gesture: gesture.None,
	}

	if config.HighScores != nil {
		hs, err := config.HighScores.HighScore()
		if err != nil {
			log.Printf("Failed to load high score: %v", err)
		} else {
			s.highScore = hs
		}
	}

	s.reset()
	return s
}

func (s *Session) reset() {
	s.engine = tetris.NewEngine(s.config.Generator)
	s.fallTime = 0
	s.played = 0
	s.cooldown = 0
	s.vibe = 0
	s.acted = false
	s.slam.Reset()
	s.startedAt = s.config.Now()
}

func (s *Session) emit(e Event) {
	if s.config.OnEvent != nil {
		e.Player = s.config.Player
		s.config.OnEvent(e)
	}
}

// Engine returns the live engine.
func (s *Session) Engine() *tetris.Engine { return s.engine }

// Player returns the name games are recorded under.
func (s *Session) Player() string { return s.config.Player }

// HighScore returns the best score known to the session.
func (s *Session) HighScore() int { return s.highScore }

// Paused reports whether the session is paused.
func (s *Session) Paused() bool { return s.paused }

// Vibe returns the meter level in [0, VibeMax].
func (s *Session) Vibe() float64 { return s.vibe }

// HandleAction applies a discrete command and reports whether it was
// accepted. An accepted move or rotation may still be rejected by the engine
// when the piece is blocked. Gameplay actions are ignored while paused or
// after a loss; Restart only applies after a loss.
func (s *Session) HandleAction(a Action) bool {
	switch {
	case a == TogglePause:
		s.paused = !s.paused
		s.emit(Event{Kind: EventPause, Paused: s.paused})
		return true
	case a == Restart:
		if !s.engine.GameOver() {
			return false
		}
		s.checkDeath()
		s.restart()
		return true
	case !a.gameplay() || s.paused || s.engine.GameOver():
		return false
	}

	s.acted = true

	switch a {
	case MoveLeft:
		s.engine.Move(-1, 0)
	case MoveRight:
		s.engine.Move(1, 0)
	case Rotate:
		s.engine.Rotate()
	case SoftDrop:
		s.emit(Event{Kind: EventDrop})
		s.cleared(s.engine.Move(0, 1))
	case HardDrop:
		s.emit(Event{Kind: EventDrop})
		s.cleared(s.engine.HardDrop())
		s.fallTime = 0
	}
	return true
}

func (s *Session) cleared(lines int) {
	if lines > 0 {
		s.emit(Event{Kind: EventClear, Lines: lines})
	}
}

func (s *Session) restart() {
	s.reset()
	log.Printf("New game for %s", s.config.Player)
	s.emit(Event{Kind: EventRestart})
}

// Tick advances the session by one frame of length dt with the gesture seen
// in that frame.
func (s *Session) Tick(dt time.Duration, g gesture.Gesture) {
	s.gesture = g
	acted := s.acted
	s.acted = false

	if s.paused {
		return
	}

	if g != gesture.ClosedFist {
		s.slam.Reset()
	}

	if s.engine.GameOver() {
		s.checkDeath()
		if g != gesture.ThumbUp {
			return
		}
		s.restart()
	}

	s.played += dt
	if s.cooldown > 0 {
		s.cooldown -= dt
	}

	interval := s.FallInterval()
	switch g {
	case gesture.OpenPalm:
		interval = time.Duration(float64(interval) * s.config.SlowFactor)
	case gesture.ClosedFist:
		if s.cooldown <= 0 && s.slam.Fire(g) {
			s.cooldown = s.config.SlamCooldown
			s.emit(Event{Kind: EventDrop})
			s.cleared(s.engine.HardDrop())
			s.fallTime = 0
		}
	}

	s.fallTime += dt
	if s.fallTime >= interval {
		s.fallTime = 0
		if !s.engine.GameOver() {
			s.emit(Event{Kind: EventDrop, Gravity: true})
			s.cleared(s.engine.Fall())
		}
	}

	if acted && g != gesture.None {
		s.vibe = min(s.vibe+VibeBoost, VibeMax)
	} else {
		s.vibe = max(s.vibe-VibeDecay, 0)
	}

	s.checkDeath()
}

// FallInterval is the current gravity period before any gesture is applied.
func (s *Session) FallInterval() time.Duration {
	if s.Danger() {
		return s.config.DangerFallInterval
	}
	base := s.config.BaseFallInterval
	if s.config.SpeedUpStep <= 0 {
		return base
	}
	steps := time.Duration(s.played / s.config.SpeedUpEvery)
	return max(base-steps*s.config.SpeedUpStep, min(base, s.config.MinFallInterval))
}

// Danger reports whether the stack has reached the danger row.
func (s *Session) Danger() bool {
	return s.engine.Grid().TopRow() <= s.config.DangerRow
}

// checkDeath records the finished game the first time the engine reports
// the loss.
func (s *Session) checkDeath() {
	if !s.engine.AcknowledgeGameOver() {
		return
	}

	score := s.engine.Score()
	if s.config.Games != nil {
		rec := &store.Game{
			Player:     s.config.Player,
			Score:      score,
			Lines:      s.engine.Lines(),
			DurationMs: s.config.Now().Sub(s.startedAt).Milliseconds(),
		}
		if err := s.config.Games.Create(rec); err != nil {
			log.Printf("Failed to record game: %v", err)
		}
	}

	newHigh := score > s.highScore
	if newHigh {
		s.highScore = score
		if s.config.HighScores != nil {
			if err := s.config.HighScores.SetHighScore(score); err != nil {
				log.Printf("Failed to save high score: %v", err)
			}
		}
	}

	log.Printf("Game over for %s: score %d, lines %d", s.config.Player, score, s.engine.Lines())
	s.emit(Event{Kind: EventGameOver, Score: score, HighScore: s.highScore, NewHighScore: newHigh})
}
