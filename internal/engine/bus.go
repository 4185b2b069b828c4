// Package engine implements a small 2D scene/entity engine: a message bus,
// entities with orthogonal capabilities, scenes with an enter/exit lifecycle,
// transitions and a two-phase collision detector.
package engine

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Handler receives a published message together with its sender.
type Handler func(sender any, msg Message)

// Bus is a process-wide publish/subscribe registry keyed by message kind.
//
// Handlers for one kind are invoked in registration order. Publishing never
// blocks: every publish is dispatched on its own goroutine, and the publisher
// never observes handler results or panics.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
	inflight sync.WaitGroup
	logger   *log.Logger
}

// NewBus creates an empty bus. A nil logger discards output.
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = discardLogger()
	}
	return &Bus{
		handlers: make(map[Kind][]Handler),
		logger:   logger,
	}
}

// Register appends a handler for the given kind.
// Registering the same handler twice makes it fire twice.
func (b *Bus) Register(kind Kind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], h)
}

// Subscribe registers a typed handler for messages of type M.
func Subscribe[M Message](b *Bus, h func(sender any, msg M)) {
	var zero M
	b.Register(zero.Kind(), func(sender any, msg Message) {
		if m, ok := msg.(M); ok {
			h(sender, m)
		}
	})
}

// HandlerCount returns the number of handlers registered for kind.
func (b *Bus) HandlerCount(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[kind])
}

// Publish schedules msg for asynchronous delivery and returns immediately.
func (b *Bus) Publish(sender any, msg Message) {
	b.mu.RLock()
	handlers := b.handlers[msg.Kind()]
	snapshot := make([]Handler, len(handlers))
	copy(snapshot, handlers)
	b.mu.RUnlock()

	if len(snapshot) == 0 {
		return
	}

	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		b.dispatch(sender, msg, snapshot)
	}()
}

// Wait blocks until every dispatch started so far has completed.
func (b *Bus) Wait() {
	b.inflight.Wait()
}

func (b *Bus) dispatch(sender any, msg Message, handlers []Handler) {
	for _, h := range handlers {
		b.invoke(sender, msg, h)
	}
}

func (b *Bus) invoke(sender any, msg Message, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("message handler panicked", "kind", msg.Kind(), "id", msg.ID(), "panic", r)
		}
	}()
	h(sender, msg)
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
