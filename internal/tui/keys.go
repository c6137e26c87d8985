package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/neonlink/internal/game"
)

// keybinding matches a special key or a rune.
type keybinding struct {
	k tcell.Key
	r rune

	a game.Action
}

var keybindings = []keybinding{
	{k: tcell.KeyLeft, a: game.MoveLeft},
	{r: 'h', a: game.MoveLeft},
	{r: 'a', a: game.MoveLeft},
	{k: tcell.KeyRight, a: game.MoveRight},
	{r: 'l', a: game.MoveRight},
	{r: 'd', a: game.MoveRight},
	{k: tcell.KeyUp, a: game.Rotate},
	{r: 'w', a: game.Rotate},
	{r: 'k', a: game.Rotate},
	{k: tcell.KeyDown, a: game.SoftDrop},
	{r: 'j', a: game.SoftDrop},
	{r: 's', a: game.SoftDrop},
	{r: ' ', a: game.HardDrop},
	{r: 'p', a: game.TogglePause},
	{r: 'r', a: game.Restart},
}

// KeyAction maps a key press to a game action. quit is true for Esc, Ctrl-C
// and q; unbound keys return ActionNone.
func KeyAction(ev *tcell.EventKey) (a game.Action, quit bool) {
	k := ev.Key()
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.ActionNone, true
	}

	var r rune
	if k == tcell.KeyRune {
		r = ev.Rune()
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if r == 'q' {
			return game.ActionNone, true
		}
	}

	for _, b := range keybindings {
		if (b.k != 0 && b.k == k) || (b.r != 0 && k == tcell.KeyRune && b.r == r) {
			return b.a, false
		}
	}
	return game.ActionNone, false
}
