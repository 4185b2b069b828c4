package engine

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"golang.org/x/sync/errgroup"
)

// State is a scene lifecycle state.
type State int32

const (
	StateLoaded State = iota
	StateEntered
	StateActive
	StateEnding
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateEntered:
		return "entered"
	case StateActive:
		return "active"
	case StateEnding:
		return "ending"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Stage is what the host drives. Game scenes embed *Scene and override the
// hooks they need.
type Stage interface {
	Core() *Scene
	Load() error
	Enter()
	Leave()
	Update(f Frame) error
	Draw(f Frame, dst *core.Screen)
}

// SceneOption configures a scene at construction.
type SceneOption func(*Scene)

// WithBackground sets the clear color.
func WithBackground(c core.Color) SceneOption {
	return func(s *Scene) { s.background = c }
}

// WithBackdrop sets a background texture drawn at the origin before entities.
func WithBackdrop(tex Texture) SceneOption {
	return func(s *Scene) { s.backdrop = tex }
}

// WithEntry sets the transition played right after Enter.
func WithEntry(t Transition) SceneOption {
	return func(s *Scene) { s.entry = t }
}

// WithExit sets the transition played between End and the scene-ended message.
func WithExit(t Transition) SceneOption {
	return func(s *Scene) { s.exit = t }
}

// WithNext names the scene the host switches to after this one ends.
func WithNext(name string) SceneOption {
	return func(s *Scene) { s.next = name }
}

// WithLogger sets the scene logger.
func WithLogger(l *log.Logger) SceneOption {
	return func(s *Scene) { s.logger = l }
}

// WithWorkers bounds the update fan-out. The default is GOMAXPROCS.
func WithWorkers(n int) SceneOption {
	return func(s *Scene) { s.workers = n }
}

// Scene is an ordered collection of entities with a lifecycle.
type Scene struct {
	name       string
	bus        *Bus
	logger     *log.Logger
	background core.Color
	backdrop   Texture
	workers    int

	mu       sync.Mutex
	entities []Entity

	state atomic.Int32

	// endMu guards the lifecycle fields below.
	endMu sync.Mutex
	entry Transition
	exit  Transition
	next  string
}

// NewScene creates a scene in the Loaded state.
func NewScene(name string, bus *Bus, opts ...SceneOption) *Scene {
	s := &Scene{
		name:    name,
		bus:     bus,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = discardLogger()
	}
	s.logger = s.logger.With("scene", name)
	if s.workers < 1 {
		s.workers = 1
	}
	return s
}

// Core returns s, which lets *Scene satisfy Stage on its own. Embedding
// scenes reach their base scene through it.
func (s *Scene) Core() *Scene { return s }

// Name returns the registry name of the scene.
func (s *Scene) Name() string { return s.name }

// Bus returns the bus the scene publishes on.
func (s *Scene) Bus() *Bus { return s.bus }

// Logger returns the scene logger.
func (s *Scene) Logger() *log.Logger { return s.logger }

// State returns the lifecycle state.
func (s *Scene) State() State { return State(s.state.Load()) }

// Ended reports whether the scene has finished.
func (s *Scene) Ended() bool { return s.State() == StateEnded }

// Next returns the name of the scene that follows this one.
func (s *Scene) Next() string {
	s.endMu.Lock()
	defer s.endMu.Unlock()
	return s.next
}

// SetNext changes the follow-up scene.
func (s *Scene) SetNext(name string) {
	s.endMu.Lock()
	s.next = name
	s.endMu.Unlock()
}

// SetEntry replaces the entry transition.
func (s *Scene) SetEntry(t Transition) {
	s.endMu.Lock()
	s.entry = t
	s.endMu.Unlock()
}

// SetExit replaces the exit transition.
func (s *Scene) SetExit(t Transition) {
	s.endMu.Lock()
	s.exit = t
	s.endMu.Unlock()
}

// Load is called once by the host before the first Enter.
func (s *Scene) Load() error { return nil }

// Enter starts a lifecycle. With an entry transition the scene stays
// Entered until the transition ends.
func (s *Scene) Enter() {
	s.endMu.Lock()
	defer s.endMu.Unlock()

	if s.entry != nil {
		s.entry.Reset()
		s.state.Store(int32(StateEntered))
	} else {
		s.state.Store(int32(StateActive))
	}
	if s.exit != nil {
		s.exit.Reset()
	}
	s.logger.Debug("scene entered", "state", s.State())
}

// Leave is called by the host when the scene stops being active.
func (s *Scene) Leave() {
	s.logger.Debug("scene left")
}

// Publish sends msg on the scene bus.
func (s *Scene) Publish(sender any, msg Message) {
	if s.bus != nil {
		s.bus.Publish(sender, msg)
	}
}

// Add appends an entity. Safe to call from update callbacks.
func (s *Scene) Add(e Entity) {
	s.mu.Lock()
	s.entities = append(s.entities, e)
	s.mu.Unlock()
}

// Remove drops the entity with e's id. It reports whether it was present.
func (s *Scene) Remove(e Entity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.entities {
		if cur.ID() == e.ID() {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every entity.
func (s *Scene) Clear() {
	s.mu.Lock()
	s.entities = nil
	s.mu.Unlock()
}

// Len returns the number of entities.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entities)
}

// Entities returns a snapshot in insertion order.
func (s *Scene) Entities() []Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Contains reports whether an entity with e's id is in the scene.
func (s *Scene) Contains(e Entity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.entities {
		if cur.ID() == e.ID() {
			return true
		}
	}
	return false
}

// Collidables returns the active, collision-eligible entities in insertion order.
func (s *Scene) Collidables() []Collidable {
	var out []Collidable
	for _, e := range s.Entities() {
		if c, ok := e.(Collidable); ok && c.Active() && c.Collidable() {
			out = append(out, c)
		}
	}
	return out
}

// Update advances every active entity, drops the ones that became inactive
// and drives the current transition.
func (s *Scene) Update(f Frame) error {
	if s.Ended() {
		return nil
	}

	var active []Entity
	for _, e := range s.Entities() {
		if e.Active() {
			active = append(active, e)
		}
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, e := range active {
		g.Go(func() error {
			return e.Update(f)
		})
	}
	err := g.Wait()

	s.removeInactive()
	if err != nil {
		return fmt.Errorf("engine: scene %q: %w", s.name, err)
	}

	if err := s.updateTransitions(f); err != nil {
		return fmt.Errorf("engine: scene %q: transition: %w", s.name, err)
	}
	return nil
}

func (s *Scene) removeInactive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entities[:0]
	for _, e := range s.entities {
		if e.Active() {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(s.entities); i++ {
		s.entities[i] = nil
	}
	s.entities = kept
}

// updateTransitions moves Entered to Active and Ending to Ended once the
// running transition is done. A failing transition keeps the state.
func (s *Scene) updateTransitions(f Frame) error {
	s.endMu.Lock()
	defer s.endMu.Unlock()

	switch s.State() {
	case StateEntered:
		if s.entry == nil {
			s.state.Store(int32(StateActive))
			return nil
		}
		if err := s.entry.Update(f); err != nil {
			return err
		}
		if s.entry.Ended() {
			s.state.Store(int32(StateActive))
		}
	case StateEnding:
		if s.exit == nil {
			s.finalize()
			return nil
		}
		if err := s.exit.Update(f); err != nil {
			return err
		}
		if s.exit.Ended() {
			s.finalize()
		}
	}
	return nil
}

// End requests the scene to finish. Repeated calls are ignored. Without an
// exit transition the scene finishes immediately.
func (s *Scene) End() {
	s.endMu.Lock()
	defer s.endMu.Unlock()

	switch s.State() {
	case StateEnding, StateEnded:
		return
	}
	s.state.Store(int32(StateEnding))
	s.logger.Debug("scene ending", "next", s.next)
	if s.exit == nil {
		s.finalize()
	}
}

// EndTo sets the follow-up scene and ends this one.
func (s *Scene) EndTo(next string) {
	s.endMu.Lock()
	ending := s.State() == StateEnding || s.State() == StateEnded
	if !ending {
		s.next = next
	}
	s.endMu.Unlock()
	s.End()
}

// finalize must be called with endMu held.
func (s *Scene) finalize() {
	s.Clear()
	s.state.Store(int32(StateEnded))
	s.logger.Debug("scene ended")
	s.Publish(s, NewSceneEnded(s.name))
}

// Draw clears to the background, draws visible entities by ascending layer
// and then the running transition on top.
func (s *Scene) Draw(f Frame, dst *core.Screen) {
	dst.ClearTo(s.background)
	if s.backdrop != nil {
		Blit(dst, s.backdrop, 0, 0)
	}

	var drawables []Drawable
	for _, e := range s.Entities() {
		if d, ok := e.(Drawable); ok && d.Visible() {
			drawables = append(drawables, d)
		}
	}
	sort.SliceStable(drawables, func(i, j int) bool {
		return drawables[i].Layer() < drawables[j].Layer()
	})
	for _, d := range drawables {
		d.Draw(f, dst)
	}

	s.endMu.Lock()
	var overlay Transition
	switch s.State() {
	case StateEntered:
		overlay = s.entry
	case StateEnding:
		overlay = s.exit
	}
	s.endMu.Unlock()
	if overlay != nil && overlay.Visible() {
		overlay.Draw(f, dst)
	}
}
