package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/handbeat/internal/core"
	"github.com/vovakirdan/handbeat/internal/hand"
)

// HandKeys are the bindings of one keyboard-driven hand.
type HandKeys struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Chop  key.Binding
	Grip  key.Binding
	Hide  key.Binding
}

func (k HandKeys) actions() []struct {
	b key.Binding
	a core.Action
} {
	return []struct {
		b key.Binding
		a core.Action
	}{
		{k.Up, core.ActionMoveUp},
		{k.Down, core.ActionMoveDown},
		{k.Left, core.ActionMoveLeft},
		{k.Right, core.ActionMoveRight},
		{k.Chop, core.ActionChop},
		{k.Grip, core.ActionGrip},
		{k.Hide, core.ActionHide},
	}
}

// PlayKeyMap defines the key bindings of the play screen.
type PlayKeyMap struct {
	Hands   [2]HandKeys
	Start   key.Binding
	Pause   key.Binding
	Restart key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Restart, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	l, r := k.Hands[hand.Left], k.Hands[hand.Right]
	return [][]key.Binding{
		{l.Up, l.Down, l.Left, l.Right, l.Chop, l.Grip, l.Hide},
		{r.Up, r.Down, r.Left, r.Right, r.Chop, r.Grip, r.Hide},
		{k.Start, k.Pause, k.Restart, k.Back, k.Quit},
	}
}

// DefaultPlayKeyMap returns default key bindings: the left hand on WASD, the right hand on
// IJKL or the arrow keys.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Hands: [2]HandKeys{
			hand.Left: {
				Up:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "left up")),
				Down:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "left down")),
				Left:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "left ←")),
				Right: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "left →")),
				Chop:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "left chop")),
				Grip:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "left grip")),
				Hide:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "left hide")),
			},
			hand.Right: {
				Up:    key.NewBinding(key.WithKeys("i", "up"), key.WithHelp("i/↑", "right up")),
				Down:  key.NewBinding(key.WithKeys("k", "down"), key.WithHelp("k/↓", "right down")),
				Left:  key.NewBinding(key.WithKeys("j", "left"), key.WithHelp("j/←", "right ←")),
				Right: key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "right →")),
				Chop:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "right chop")),
				Grip:  key.NewBinding(key.WithKeys(";"), key.WithHelp(";", "right grip")),
				Hide:  key.NewBinding(key.WithKeys("."), key.WithHelp(".", "right hide")),
			},
		},
		Start: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "start"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "charts"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Control is a key press resolved to an action, with the hand it drives if any.
type Control struct {
	Action core.Action
	Side   hand.Side
	Hand   bool
}

// MapKey translates a key message to a control. Unbound keys map to ActionNone.
func (k PlayKeyMap) MapKey(msg tea.KeyMsg) Control {
	switch {
	case key.Matches(msg, k.Quit):
		return Control{Action: core.ActionQuit}
	case key.Matches(msg, k.Back):
		return Control{Action: core.ActionBack}
	case key.Matches(msg, k.Start):
		return Control{Action: core.ActionStart}
	case key.Matches(msg, k.Pause):
		return Control{Action: core.ActionPause}
	case key.Matches(msg, k.Restart):
		return Control{Action: core.ActionRestart}
	}

	for _, side := range hand.Sides {
		for _, ka := range k.Hands[side].actions() {
			if key.Matches(msg, ka.b) {
				return Control{Action: ka.a, Side: side, Hand: true}
			}
		}
	}
	return Control{Action: core.ActionNone}
}
