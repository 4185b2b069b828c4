package engine

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Transition gates a scene change. The scene updates and draws it until
// Ended reports true. Transitions own no entities.
type Transition interface {
	Drawable
	Ended() bool
	// Reset rewinds the transition so the scene can be entered again.
	Reset()
}

// DelayTransition ends after a fixed delay, optionally showing a caption
// in the middle of the viewport while it runs.
type DelayTransition struct {
	*Base
	delay   time.Duration
	elapsed time.Duration
	caption string
	color   core.Color
}

// NewDelayTransition creates a transition that lasts delay.
func NewDelayTransition(delay time.Duration, caption string) *DelayTransition {
	return &DelayTransition{
		Base:    NewBase(),
		delay:   delay,
		caption: caption,
		color:   core.ColorBrightWhite,
	}
}

func (t *DelayTransition) Update(f Frame) error {
	if t.elapsed < t.delay {
		t.elapsed += f.Delta
	}
	return nil
}

func (t *DelayTransition) Ended() bool { return t.elapsed >= t.delay }

func (t *DelayTransition) Reset() { t.elapsed = 0 }

// Layer keeps transitions above every entity.
func (t *DelayTransition) Layer() int { return math.MaxInt }

func (t *DelayTransition) Visible() bool { return t.caption != "" }

func (t *DelayTransition) Draw(f Frame, dst *core.Screen) {
	if t.caption == "" {
		return
	}
	area := f.Viewport
	if area.Empty() {
		area = dst.Bounds()
	}
	w := len([]rune(t.caption)) + 4
	box := area.Centered(w, 3)
	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, t.color)
	dst.DrawTextColor(box.X+2, box.Y+1, t.caption, t.color)
}
