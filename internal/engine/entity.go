package engine

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Frame is everything an entity learns about the current tick.
type Frame struct {
	// Delta is the time elapsed since the previous frame.
	Delta time.Duration
	// Input holds the actions that were down this frame.
	Input core.InputFrame
	// Viewport is the drawable area in cells.
	Viewport core.Rect
}

// Entity is the minimal contract for anything living in a scene.
type Entity interface {
	ID() uuid.UUID
	Active() bool
	Update(f Frame) error
}

// Drawable is an entity that renders itself onto the screen.
type Drawable interface {
	Entity
	Layer() int
	Visible() bool
	Draw(f Frame, dst *core.Screen)
}

// Collidable is a drawable that takes part in collision detection.
type Collidable interface {
	Drawable
	Bounds() core.Rect
	Texture() Texture
	Collidable() bool
}

// Base provides identity and the active flag. Embed *Base in entities.
type Base struct {
	id       uuid.UUID
	inactive atomic.Bool
}

// NewBase creates an active entity base with a fresh id.
func NewBase() *Base {
	return &Base{id: uuid.New()}
}

// ID returns the entity id.
func (b *Base) ID() uuid.UUID { return b.id }

// Active reports whether the entity is still alive. Inactive entities are
// removed from their scene on the next update.
func (b *Base) Active() bool { return !b.inactive.Load() }

// Deactivate marks the entity for removal. Safe from any goroutine.
func (b *Base) Deactivate() { b.inactive.Store(true) }

// Activate clears the removal mark.
func (b *Base) Activate() { b.inactive.Store(false) }

// Visual is the embeddable state of a visible entity: position, texture,
// layer and the collision and visibility flags.
//
// Position reads and writes are guarded so collision checks running in the
// update fan-out can look at entities that are moving themselves.
type Visual struct {
	*Base

	mu         sync.RWMutex
	x, y       float64
	tex        Texture
	layer      int
	collidable bool
	hidden     bool
}

// NewVisual creates a visible, collision-eligible entity at (x, y).
func NewVisual(tex Texture, x, y float64) *Visual {
	return &Visual{
		Base:       NewBase(),
		x:          x,
		y:          y,
		tex:        tex,
		collidable: true,
	}
}

// Position returns the top-left corner.
func (v *Visual) Position() (float64, float64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.x, v.y
}

// SetPosition moves the top-left corner to (x, y).
func (v *Visual) SetPosition(x, y float64) {
	v.mu.Lock()
	v.x, v.y = x, y
	v.mu.Unlock()
}

// Move shifts the entity by (dx, dy).
func (v *Visual) Move(dx, dy float64) {
	v.mu.Lock()
	v.x += dx
	v.y += dy
	v.mu.Unlock()
}

// Texture returns the current texture, which may be nil.
func (v *Visual) Texture() Texture {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tex
}

// SetTexture replaces the texture.
func (v *Visual) SetTexture(tex Texture) {
	v.mu.Lock()
	v.tex = tex
	v.mu.Unlock()
}

// Width is the texture width, or zero without a texture.
func (v *Visual) Width() int {
	if tex := v.Texture(); tex != nil {
		return tex.Width()
	}
	return 0
}

// Height is the texture height, or zero without a texture.
func (v *Visual) Height() int {
	if tex := v.Texture(); tex != nil {
		return tex.Height()
	}
	return 0
}

// Bounds returns the bounding box on the integer cell grid.
func (v *Visual) Bounds() core.Rect {
	x, y := v.Position()
	return core.NewRect(int(math.Floor(x)), int(math.Floor(y)), v.Width(), v.Height())
}

// Layer returns the draw layer. Lower layers are drawn first.
func (v *Visual) Layer() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.layer
}

// SetLayer changes the draw layer.
func (v *Visual) SetLayer(layer int) {
	v.mu.Lock()
	v.layer = layer
	v.mu.Unlock()
}

// Collidable reports whether the entity takes part in collision detection.
func (v *Visual) Collidable() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.collidable
}

// SetCollidable toggles collision eligibility.
func (v *Visual) SetCollidable(on bool) {
	v.mu.Lock()
	v.collidable = on
	v.mu.Unlock()
}

// Visible reports whether the entity is drawn. Hidden entities still update.
func (v *Visual) Visible() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return !v.hidden
}

// SetVisible shows or hides the entity.
func (v *Visual) SetVisible(on bool) {
	v.mu.Lock()
	v.hidden = !on
	v.mu.Unlock()
}

// DrawTexture blits the current texture at the current position.
func (v *Visual) DrawTexture(dst *core.Screen) {
	tex := v.Texture()
	if tex == nil {
		return
	}
	b := v.Bounds()
	Blit(dst, tex, b.X, b.Y)
}
