package core

// Action represents a semantic play action, abstracted from physical key presses.
type Action int

const (
	ActionNone      Action = iota
	ActionMoveUp           // glide the hand one layer up
	ActionMoveDown         // glide the hand one layer down
	ActionMoveLeft         // glide the hand one lane left
	ActionMoveRight        // glide the hand one lane right
	ActionChop             // swing down into the current cell
	ActionGrip             // close or open the hand
	ActionHide             // take the hand out of view or bring it back
	ActionStart            // Enter/Space - start a run
	ActionPause            // P - pause/unpause
	ActionRestart          // R - restart after the run ends
	ActionBack             // B, Escape - back to the chart list
	ActionQuit             // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionMoveUp:
		return "MoveUp"
	case ActionMoveDown:
		return "MoveDown"
	case ActionMoveLeft:
		return "MoveLeft"
	case ActionMoveRight:
		return "MoveRight"
	case ActionChop:
		return "Chop"
	case ActionGrip:
		return "Grip"
	case ActionHide:
		return "Hide"
	case ActionStart:
		return "Start"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Move returns the grid step of a move action: dx in lanes, dy in layers (up is positive).
func (a Action) Move() (dx, dy int, ok bool) {
	switch a {
	case ActionMoveUp:
		return 0, 1, true
	case ActionMoveDown:
		return 0, -1, true
	case ActionMoveLeft:
		return -1, 0, true
	case ActionMoveRight:
		return 1, 0, true
	}
	return 0, 0, false
}

// InputFrame collects the session-level actions triggered between two ticks.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
