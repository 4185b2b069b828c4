package engine

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies a message type. The bus routes messages by kind.
type Kind int

const (
	KindCollisionDetected Kind = iota + 1
	KindSceneEnded
	KindAnimationCompleted
	KindBoundaryReached
	KindFpsSample
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindCollisionDetected:
		return "collision-detected"
	case KindSceneEnded:
		return "scene-ended"
	case KindAnimationCompleted:
		return "animation-completed"
	case KindBoundaryReached:
		return "boundary-reached"
	case KindFpsSample:
		return "fps-sample"
	default:
		return "unknown"
	}
}

// Message is an immutable piece of data published on the bus.
type Message interface {
	ID() uuid.UUID
	Timestamp() time.Time
	Kind() Kind
}

// Header carries the identity and creation time shared by all messages.
type Header struct {
	id uuid.UUID
	at time.Time
}

// NewHeader stamps a new message identity.
func NewHeader() Header {
	return Header{id: uuid.New(), at: time.Now().UTC()}
}

// ID returns the message identity.
func (h Header) ID() uuid.UUID { return h.id }

// Timestamp returns when the message was created.
func (h Header) Timestamp() time.Time { return h.at }

// CollisionDetected is published when two collidable entities overlap.
type CollisionDetected struct {
	Header
	A, B         Collidable
	InfoA, InfoB CollisionInfo
}

func (CollisionDetected) Kind() Kind { return KindCollisionDetected }

// NewCollisionDetected creates a collision message for the pair.
func NewCollisionDetected(a, b Collidable, infoA, infoB CollisionInfo) CollisionDetected {
	return CollisionDetected{Header: NewHeader(), A: a, B: b, InfoA: infoA, InfoB: infoB}
}

// Involves reports whether e is one of the colliding entities and returns
// the collision info from e's point of view.
func (m CollisionDetected) Involves(e Entity) (CollisionInfo, bool) {
	switch {
	case m.A != nil && m.A.ID() == e.ID():
		return m.InfoA, true
	case m.B != nil && m.B.ID() == e.ID():
		return m.InfoB, true
	}
	return CollisionInfo{}, false
}

// SceneEnded is published once a scene has finished its exit transition.
type SceneEnded struct {
	Header
	Scene string
}

func (SceneEnded) Kind() Kind { return KindSceneEnded }

// NewSceneEnded creates a scene-ended message for the named scene.
func NewSceneEnded(scene string) SceneEnded {
	return SceneEnded{Header: NewHeader(), Scene: scene}
}

// AnimationCompleted is published each time an animated sprite wraps to its first frame.
type AnimationCompleted struct {
	Header
	Sprite *AnimatedSprite
}

func (AnimationCompleted) Kind() Kind { return KindAnimationCompleted }

// Boundary is a set of viewport edges.
type Boundary int

const (
	BoundaryNone   Boundary = 0
	BoundaryLeft   Boundary = 1
	BoundaryTop    Boundary = 2
	BoundaryRight  Boundary = 4
	BoundaryBottom Boundary = 8
)

// Has reports whether all edges in o are set in b.
func (b Boundary) Has(o Boundary) bool {
	return b&o == o
}

// BoundaryReached is published when a sprite touches the viewport edge.
type BoundaryReached struct {
	Header
	Boundary Boundary
}

func (BoundaryReached) Kind() Kind { return KindBoundaryReached }

// FpsSample is published periodically by the FPS service.
type FpsSample struct {
	Header
	FPS float64
}

func (FpsSample) Kind() Kind { return KindFpsSample }
