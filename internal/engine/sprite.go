package engine

import (
	"sync"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Publisher is what entities need to emit messages. *Scene implements it.
type Publisher interface {
	Publish(sender any, msg Message)
}

// Sprite is a textured entity with an optional velocity in cells per second.
// It publishes BoundaryReached whenever it touches the frame viewport.
type Sprite struct {
	*Visual
	pub Publisher

	mu     sync.Mutex
	vx, vy float64
}

// NewSprite creates a sprite at (x, y).
func NewSprite(pub Publisher, tex Texture, x, y float64) *Sprite {
	return &Sprite{Visual: NewVisual(tex, x, y), pub: pub}
}

// SetVelocity sets the movement speed in cells per second.
func (s *Sprite) SetVelocity(vx, vy float64) {
	s.mu.Lock()
	s.vx, s.vy = vx, vy
	s.mu.Unlock()
}

// Velocity returns the movement speed in cells per second.
func (s *Sprite) Velocity() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vx, s.vy
}

func (s *Sprite) Update(f Frame) error {
	vx, vy := s.Velocity()
	if vx != 0 || vy != 0 {
		dt := f.Delta.Seconds()
		s.Move(vx*dt, vy*dt)
	}
	if b := viewportBoundary(s.Bounds(), f.Viewport); b != BoundaryNone && s.pub != nil {
		s.pub.Publish(s, BoundaryReached{Header: NewHeader(), Boundary: b})
	}
	return nil
}

func (s *Sprite) Draw(_ Frame, dst *core.Screen) {
	s.DrawTexture(dst)
}

// AnimatedSprite cycles through frames at a fixed rate. Each time the
// animation wraps back to the first frame it publishes AnimationCompleted.
type AnimatedSprite struct {
	*Visual
	pub Publisher

	mu       sync.Mutex
	frames   []Texture
	frameDur time.Duration
	elapsed  time.Duration
	index    int
	stopped  bool
}

// NewAnimatedSprite creates an animation showing each frame for frameDur.
func NewAnimatedSprite(pub Publisher, frames []Texture, frameDur time.Duration, x, y float64) *AnimatedSprite {
	var first Texture
	if len(frames) > 0 {
		first = frames[0]
	}
	return &AnimatedSprite{
		Visual:   NewVisual(first, x, y),
		pub:      pub,
		frames:   frames,
		frameDur: frameDur,
	}
}

func (a *AnimatedSprite) Update(f Frame) error {
	a.mu.Lock()
	if a.stopped || len(a.frames) < 2 || a.frameDur <= 0 {
		a.mu.Unlock()
		return nil
	}
	a.elapsed += f.Delta
	wraps := 0
	for a.elapsed >= a.frameDur {
		a.elapsed -= a.frameDur
		a.index = (a.index + 1) % len(a.frames)
		if a.index == 0 {
			wraps++
		}
	}
	tex := a.frames[a.index]
	a.mu.Unlock()

	a.SetTexture(tex)
	for i := 0; i < wraps && a.pub != nil; i++ {
		a.pub.Publish(a, AnimationCompleted{Header: NewHeader(), Sprite: a})
	}
	return nil
}

func (a *AnimatedSprite) Draw(_ Frame, dst *core.Screen) {
	a.DrawTexture(dst)
}

// FrameIndex returns the index of the frame currently shown.
func (a *AnimatedSprite) FrameIndex() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.index
}

// Stop freezes the animation on its current frame.
func (a *AnimatedSprite) Stop() {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()
}

// Restart rewinds to the first frame and resumes playback.
func (a *AnimatedSprite) Restart() {
	a.mu.Lock()
	a.stopped = false
	a.index = 0
	a.elapsed = 0
	var first Texture
	if len(a.frames) > 0 {
		first = a.frames[0]
	}
	a.mu.Unlock()
	a.SetTexture(first)
}

// Text is a single-line label. It never takes part in collisions.
type Text struct {
	*Visual

	mu    sync.RWMutex
	value string
	color core.Color
}

// NewText creates a label at (x, y).
func NewText(value string, color core.Color, x, y float64) *Text {
	t := &Text{
		Visual: NewVisual(NewTextTexture(value, color), x, y),
		value:  value,
		color:  color,
	}
	t.SetCollidable(false)
	return t
}

// Value returns the label text.
func (t *Text) Value() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value
}

// SetValue replaces the label text.
func (t *Text) SetValue(value string) {
	t.mu.Lock()
	if value == t.value {
		t.mu.Unlock()
		return
	}
	t.value = value
	color := t.color
	t.mu.Unlock()
	t.SetTexture(NewTextTexture(value, color))
}

// SetColor changes the label color.
func (t *Text) SetColor(color core.Color) {
	t.mu.Lock()
	t.color = color
	value := t.value
	t.mu.Unlock()
	t.SetTexture(NewTextTexture(value, color))
}

func (t *Text) Update(Frame) error { return nil }

func (t *Text) Draw(_ Frame, dst *core.Screen) {
	t.DrawTexture(dst)
}
