package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/handbeat/internal/core"
	"github.com/vovakirdan/handbeat/internal/hand"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	keys := DefaultPlayKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want Control
	}{
		{"left up", runeKey('w'), Control{Action: core.ActionMoveUp, Side: hand.Left, Hand: true}},
		{"left chop", runeKey('e'), Control{Action: core.ActionChop, Side: hand.Left, Hand: true}},
		{"left grip", runeKey('g'), Control{Action: core.ActionGrip, Side: hand.Left, Hand: true}},
		{"right left", runeKey('j'), Control{Action: core.ActionMoveLeft, Side: hand.Right, Hand: true}},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, Control{Action: core.ActionMoveRight, Side: hand.Right, Hand: true}},
		{"right chop", runeKey('o'), Control{Action: core.ActionChop, Side: hand.Right, Hand: true}},
		{"right hide", runeKey('.'), Control{Action: core.ActionHide, Side: hand.Right, Hand: true}},
		{"start", tea.KeyMsg{Type: tea.KeyEnter}, Control{Action: core.ActionStart}},
		{"pause", runeKey('p'), Control{Action: core.ActionPause}},
		{"restart", runeKey('r'), Control{Action: core.ActionRestart}},
		{"back", tea.KeyMsg{Type: tea.KeyEsc}, Control{Action: core.ActionBack}},
		{"quit", runeKey('q'), Control{Action: core.ActionQuit}},
		{"unbound", runeKey('z'), Control{Action: core.ActionNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.MapKey(tt.msg); got != tt.want {
				t.Errorf("MapKey(%q) = %+v, want %+v", tt.msg.String(), got, tt.want)
			}
		})
	}
}
