package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/tui-tetris/internal/core"
)

var (
	// ErrUnknownScene is returned when a scene name has no registered stage.
	ErrUnknownScene = errors.New("unknown scene")
	// ErrNoEntryScene is returned by Start when no entry scene was added.
	ErrNoEntryScene = errors.New("no entry scene")
)

// Host owns the scenes of a game and chains them: when the active scene
// publishes SceneEnded, the host leaves it and enters the scene named by
// its Next, or stops when there is none.
type Host struct {
	bus    *Bus
	logger *log.Logger

	mu      sync.Mutex
	stages  map[string]Stage
	order   []string
	entry   string
	active  Stage
	started bool
	stopped bool
}

// NewHost creates a host publishing and listening on bus.
func NewHost(bus *Bus, logger *log.Logger) *Host {
	if logger == nil {
		logger = discardLogger()
	}
	return &Host{
		bus:    bus,
		logger: logger,
		stages: make(map[string]Stage),
	}
}

// Bus returns the host bus.
func (h *Host) Bus() *Bus { return h.bus }

// Add registers a stage under its scene name. The first stage added with
// entry set becomes the scene entered on Start.
func (h *Host) Add(st Stage, entry bool) error {
	name := st.Core().Name()
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, dup := h.stages[name]; dup {
		return fmt.Errorf("engine: scene %q registered twice", name)
	}
	h.stages[name] = st
	h.order = append(h.order, name)
	if entry && h.entry == "" {
		h.entry = name
	}
	return nil
}

// Stage looks up a stage by name.
func (h *Host) Stage(name string) (Stage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lookup(name)
}

func (h *Host) lookup(name string) (Stage, error) {
	st, ok := h.stages[name]
	if !ok {
		return nil, fmt.Errorf("engine: %w: %q", ErrUnknownScene, name)
	}
	return st, nil
}

// Names returns the registered scene names in registration order.
func (h *Host) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

// Start loads every stage, validates the Next links and enters the entry scene.
func (h *Host) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return errors.New("engine: host already started")
	}
	if h.entry == "" {
		return fmt.Errorf("engine: %w", ErrNoEntryScene)
	}

	for _, name := range h.order {
		st := h.stages[name]
		if err := st.Load(); err != nil {
			return fmt.Errorf("engine: load scene %q: %w", name, err)
		}
		if next := st.Core().Next(); next != "" {
			if _, err := h.lookup(next); err != nil {
				return fmt.Errorf("engine: scene %q: next: %w", name, err)
			}
		}
	}

	Subscribe(h.bus, h.onSceneEnded)
	h.started = true
	h.active = h.stages[h.entry]
	h.active.Enter()
	h.logger.Info("scene entered", "scene", h.entry)
	return nil
}

func (h *Host) onSceneEnded(_ any, msg SceneEnded) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active == nil || h.active.Core().Name() != msg.Scene {
		return
	}
	h.active.Leave()
	next := h.active.Core().Next()
	h.logger.Info("scene ended", "scene", msg.Scene, "next", next)

	if next == "" {
		h.active = nil
		h.stopped = true
		return
	}
	st, err := h.lookup(next)
	if err != nil {
		h.logger.Error("cannot switch scene", "err", err)
		h.active = nil
		h.stopped = true
		return
	}
	h.active = st
	st.Enter()
	h.logger.Info("scene entered", "scene", next)
}

// Active returns the current stage, or nil once the host stopped.
func (h *Host) Active() Stage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Stopped reports whether the last scene ended without a successor.
func (h *Host) Stopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

// Update advances the active stage.
func (h *Host) Update(f Frame) error {
	st := h.Active()
	if st == nil {
		return nil
	}
	if err := st.Update(f); err != nil {
		h.Stop()
		return err
	}
	return nil
}

// Draw renders the active stage.
func (h *Host) Draw(f Frame, dst *core.Screen) {
	if st := h.Active(); st != nil {
		st.Draw(f, dst)
		return
	}
	dst.Clear()
}

// Stop leaves the active scene and stops the host.
func (h *Host) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active != nil {
		h.active.Leave()
		h.active = nil
	}
	h.stopped = true
}

// Close stops the host and waits for in-flight message dispatches.
func (h *Host) Close() {
	h.Stop()
	h.bus.Wait()
}
