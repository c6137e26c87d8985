// Package tray provides a system tray menu for pausing the game, watching the
// tracked gesture and opening the web board.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/neonlink/internal/gesture"
)

// Tray represents the system tray application.
type Tray struct {
	onPause     func(paused bool)
	onOpenBoard func()
	onQuit      func()
	paused      bool
	gesture     gesture.Gesture
	highScore   int
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuPause     *systray.MenuItem
	menuGesture   *systray.MenuItem
	menuHighScore *systray.MenuItem
}

// New creates a new Tray in the playing state.
func New() *Tray {
	return &Tray{gesture: gesture.None}
}

// OnPause sets the callback called when the pause item is clicked.
func (t *Tray) OnPause(fn func(paused bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPause = fn
}

// OnOpenBoard sets the callback called when "Open Board..." is clicked.
func (t *Tray) OnOpenBoard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpenBoard = fn
}

// OnQuit sets the callback called when the quit item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called and must run on the main thread.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray, making Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
func (t *Tray) onReady() {
	systray.SetTitle("NeonLink")
	systray.SetTooltip("NeonLink: Kinetic Core")

	t.mu.Lock()
	t.menuPause = systray.AddMenuItem(pauseTitle(t.paused), "Pause or resume the game")
	systray.AddSeparator()

	t.menuGesture = systray.AddMenuItem(gestureTitle(t.gesture), "Gesture seen by the camera")
	t.menuGesture.Disable()
	t.menuHighScore = systray.AddMenuItem(highScoreTitle(t.highScore), "Best score so far")
	t.menuHighScore.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuBoard := systray.AddMenuItem("Open Board...", "Open the web board in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit NeonLink")

	go func() {
		for {
			select {
			case <-t.menuPause.ClickedCh:
				t.handlePause()
			case <-menuBoard.ClickedCh:
				t.handleOpenBoard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handlePause flips the pause state and notifies the callback.
func (t *Tray) handlePause() {
	t.mu.Lock()
	t.paused = !t.paused
	paused := t.paused
	if t.menuPause != nil {
		t.menuPause.SetTitle(pauseTitle(paused))
	}
	callback := t.onPause
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(paused)
	}
}

func (t *Tray) handleOpenBoard() {
	t.mu.RLock()
	callback := t.onOpenBoard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetPaused mirrors a pause toggled elsewhere, such as from the keyboard.
func (t *Tray) SetPaused(paused bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.paused == paused {
		return
	}
	t.paused = paused
	if t.menuPause != nil {
		t.menuPause.SetTitle(pauseTitle(paused))
	}
}

// SetGesture updates the gesture display in the menu.
func (t *Tray) SetGesture(g gesture.Gesture) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.gesture == g {
		return
	}
	t.gesture = g
	if t.menuGesture != nil {
		t.menuGesture.SetTitle(gestureTitle(g))
	}
}

// SetHighScore updates the high score display in the menu.
func (t *Tray) SetHighScore(score int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.highScore == score {
		return
	}
	t.highScore = score
	if t.menuHighScore != nil {
		t.menuHighScore.SetTitle(highScoreTitle(score))
	}
}

// IsPaused returns the pause state shown in the menu.
func (t *Tray) IsPaused() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.paused
}

func pauseTitle(paused bool) string {
	if paused {
		return "▶ Resume"
	}
	return "❚❚ Pause"
}

func gestureTitle(g gesture.Gesture) string {
	if g == gesture.None || g == "" {
		return "Gesture: none"
	}
	return "Gesture: " + g.String()
}

func highScoreTitle(score int) string {
	return fmt.Sprintf("High score: %d", score)
}
