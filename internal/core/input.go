package core

import "strings"

// Action is a game intent decoupled from the physical key that caused it.
type Action uint8

const (
	ActionNone    Action = iota
	ActionLeft           // Move the block left
	ActionRight          // Move the block right
	ActionDown           // Drop one row
	ActionRotate         // Next rotation
	ActionConfirm        // Start, or leave a finished game
	ActionRestart        // New game after game over
	ActionQuit           // Leave the current scene without a successor
	ActionPause          // Toggle pause
	actionCount
)

var actionNames = [actionCount]string{
	"None", "Left", "Right", "Down", "Rotate", "Confirm", "Restart", "Quit", "Pause",
}

func (a Action) String() string {
	if a >= actionCount {
		return "Unknown"
	}
	return actionNames[a]
}

// InputFrame is the set of actions held down during one frame. The platform
// builds it and passes it in the frame, so nothing polls a global keyboard.
// The zero value is an empty frame.
type InputFrame struct {
	down uint16
}

// NewInputFrame returns an empty frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set marks a as down. ActionNone is ignored.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone || a >= actionCount {
		return
	}
	f.down |= 1 << a
}

// Has reports whether a is down.
func (f InputFrame) Has(a Action) bool {
	return a < actionCount && f.down&(1<<a) != 0
}

// Any reports whether any action is down.
func (f InputFrame) Any() bool {
	return f.down != 0
}

// Clear releases every action.
func (f *InputFrame) Clear() {
	f.down = 0
}

// Clone returns a copy that is not affected by later changes to f.
func (f InputFrame) Clone() InputFrame {
	return f
}

// String lists the held actions, e.g. "Left+Rotate".
func (f InputFrame) String() string {
	var names []string
	for a := ActionLeft; a < actionCount; a++ {
		if f.Has(a) {
			names = append(names, a.String())
		}
	}
	if len(names) == 0 {
		return ActionNone.String()
	}
	return strings.Join(names, "+")
}
