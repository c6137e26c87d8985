// Package tui draws the game in a terminal and turns key presses into game
// actions.
package tui

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/neonlink/internal/game"
	"github.com/ayusman/neonlink/internal/tetris"
)

// Layout, in terminal cells. Every board cell is two columns wide.
const (
	boardX    = 1
	boardY    = 1
	cellWidth = 2
	panelX    = boardX + tetris.Width*cellWidth + 4
	vibeWidth = 20
)

var (
	styleDefault = tcell.StyleDefault
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleLabel   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleValue   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleVibe    = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleBanner  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow).Bold(true)
	styleDead    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true)
)

var legend = []string{
	"←/h  move left",
	"→/l  move right",
	"↑/w  rotate",
	"↓/j  soft drop",
	"spc  hard drop",
	"p    pause",
	"r    restart",
	"q    quit",
	"",
	"palm  slow fall",
	"fist  slam",
	"thumb restart",
}

// UI renders onto a tcell screen. Draw and Poll belong to the main loop.
type UI struct {
	screen tcell.Screen

	events    chan tcell.Event
	quit      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

// New wraps an initialized screen.
func New(screen tcell.Screen) *UI {
	return &UI{
		screen: screen,
		events: make(chan tcell.Event, 100),
		quit:   make(chan struct{}),
	}
}

// Events starts pumping screen events into a channel on first use and
// returns it. The channel is closed once the screen is finalized.
func (u *UI) Events() <-chan tcell.Event {
	u.startOnce.Do(func() {
		go u.pump()
	})
	return u.events
}

func (u *UI) pump() {
	defer close(u.events)
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case u.events <- ev:
		case <-u.quit:
			return
		}
	}
}

// Poll drains pending events without blocking. It returns the actions that
// were pressed and whether the user asked to quit.
func (u *UI) Poll() (actions []game.Action, quit bool) {
	events := u.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return actions, true
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				a, q := KeyAction(ev)
				if q {
					return actions, true
				}
				if a != game.ActionNone {
					actions = append(actions, a)
				}
			case *tcell.EventResize:
				u.screen.Sync()
			}
		default:
			return actions, false
		}
	}
}

// Render draws the state and shows it.
func (u *UI) Render(st game.State) {
	u.Draw(st)
	u.screen.Show()
}

// Close finalizes the screen, which also ends the event pump.
func (u *UI) Close() {
	u.stopOnce.Do(func() {
		close(u.quit)
		u.screen.Fini()
	})
}

// Draw paints the whole frame into the screen buffer without showing it.
func (u *UI) Draw(st game.State) {
	u.screen.Clear()

	u.drawBorder()
	u.drawBoard(st)
	u.drawPanel(st)

	switch {
	case st.GameOver:
		u.banner(" GAME OVER ", styleDead)
		u.centered(boardY+tetris.Height/2+1, "thumb up or r", styleLabel)
	case st.Paused:
		u.banner(" PAUSED ", styleBanner)
	}
}

func (u *UI) drawBorder() {
	left, right := boardX-1, boardX+tetris.Width*cellWidth
	top, bottom := boardY-1, boardY+tetris.Height
	for y := top; y <= bottom; y++ {
		u.screen.SetContent(left, y, '│', nil, styleBorder)
		u.screen.SetContent(right, y, '│', nil, styleBorder)
	}
	for x := left; x <= right; x++ {
		u.screen.SetContent(x, top, '─', nil, styleBorder)
		u.screen.SetContent(x, bottom, '─', nil, styleBorder)
	}
	u.screen.SetContent(left, top, '┌', nil, styleBorder)
	u.screen.SetContent(right, top, '┐', nil, styleBorder)
	u.screen.SetContent(left, bottom, '└', nil, styleBorder)
	u.screen.SetContent(right, bottom, '┘', nil, styleBorder)
}

func (u *UI) drawBoard(st game.State) {
	for y, row := range st.Board {
		for x, c := range row {
			if c.IsEmpty() {
				u.cell(boardX+x*cellWidth, boardY+y, '·', styleLabel)
				continue
			}
			u.block(boardX+x*cellWidth, boardY+y, c)
		}
	}

	// Cells above the top row are not drawn.
	if !st.GameOver {
		for _, p := range st.Piece.VisibleCells() {
			u.block(boardX+p.X*cellWidth, boardY+p.Y, st.Piece.Color)
		}
	}
}

func (u *UI) drawPanel(st game.State) {
	y := boardY
	u.text(panelX, y, "NEONLINK", styleBorder.Bold(true))
	y += 2

	u.text(panelX, y, "next", styleLabel)
	y++
	mask := st.Next.Mask
	for i := range mask {
		empty := true
		for j := range mask[i] {
			if mask[i][j] {
				u.block(panelX+j*cellWidth, y, st.Next.Color)
				empty = false
			}
		}
		if !empty {
			y++
		}
	}
	y++

	for _, f := range []struct {
		label string
		value string
	}{
		{"score", fmt.Sprint(st.Score)},
		{"lines", fmt.Sprint(st.Lines)},
		{"best", fmt.Sprint(st.HighScore)},
		{"gesture", st.Gesture.String()},
		{"player", st.Player},
	} {
		u.text(panelX, y, fmt.Sprintf("%-8s", f.label), styleLabel)
		u.text(panelX+8, y, f.value, styleValue)
		y++
	}
	y++

	u.text(panelX, y, "vibe", styleLabel)
	u.vibeBar(panelX+8, y, st.Vibe)
	y += 2

	for _, line := range legend {
		u.text(panelX, y, line, styleLabel)
		y++
	}
}

func (u *UI) vibeBar(x, y int, vibe float64) {
	filled := int(vibe / game.VibeMax * vibeWidth)
	for i := 0; i < vibeWidth; i++ {
		r := '░'
		if i < filled {
			r = '█'
		}
		u.screen.SetContent(x+i, y, r, nil, styleVibe)
	}
}

func (u *UI) block(x, y int, c tetris.Color) {
	style := styleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
	u.cell(x, y, '█', style)
}

func (u *UI) cell(x, y int, r rune, style tcell.Style) {
	for i := 0; i < cellWidth; i++ {
		u.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (u *UI) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		u.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (u *UI) centered(y int, s string, style tcell.Style) {
	width := tetris.Width * cellWidth
	x := boardX + (width-len([]rune(s)))/2
	u.text(x, y, s, style)
}

func (u *UI) banner(s string, style tcell.Style) {
	u.centered(boardY+tetris.Height/2-1, s, style)
}
