package engine

import (
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Service is an invisible entity bound to a scene, such as collision
// detection or FPS sampling.
type Service struct {
	*Base
	scene *Scene
}

func newService(scene *Scene) Service {
	return Service{Base: NewBase(), scene: scene}
}

// Scene returns the scene the service runs in.
func (s Service) Scene() *Scene { return s.scene }

// CollisionService checks every unordered pair of collision-eligible
// entities in its scene once per frame and publishes CollisionDetected.
type CollisionService struct {
	Service
	detector Detector
}

// NewCollisionService creates a collision service for scene.
func NewCollisionService(scene *Scene) *CollisionService {
	return &CollisionService{Service: newService(scene)}
}

// WithThreshold changes the narrow phase threshold.
func (c *CollisionService) WithThreshold(n int) *CollisionService {
	c.detector.Threshold = n
	return c
}

// Update runs the detection for the current frame.
func (c *CollisionService) Update(Frame) error {
	for _, hit := range c.Detect() {
		c.scene.Publish(c, hit)
	}
	return nil
}

// Detect returns a message for every colliding pair without publishing it.
func (c *CollisionService) Detect() []CollisionDetected {
	candidates := c.scene.Collidables()
	var hits []CollisionDetected
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if infoA, infoB, ok := c.detector.Collides(a, b); ok {
				hits = append(hits, NewCollisionDetected(a, b, infoA, infoB))
			}
		}
	}
	return hits
}

// DefaultFpsInterval is how often FpsService publishes a sample.
const DefaultFpsInterval = 5 * time.Second

// FpsService counts frames and publishes an FpsSample every interval.
type FpsService struct {
	Service
	interval time.Duration
	elapsed  time.Duration
	frames   int
}

// NewFpsService creates an FPS sampler. A non-positive interval uses the default.
func NewFpsService(scene *Scene, interval time.Duration) *FpsService {
	if interval <= 0 {
		interval = DefaultFpsInterval
	}
	return &FpsService{Service: newService(scene), interval: interval}
}

func (s *FpsService) Update(f Frame) error {
	s.frames++
	s.elapsed += f.Delta
	if s.elapsed < s.interval {
		return nil
	}
	fps := float64(s.frames) / s.interval.Seconds()
	s.frames = 0
	s.elapsed = 0
	s.scene.Publish(s, FpsSample{Header: NewHeader(), FPS: fps})
	return nil
}

// viewportBoundary reports which edges of viewport box touches or crosses.
func viewportBoundary(box, viewport core.Rect) Boundary {
	if viewport.Empty() {
		return BoundaryNone
	}
	b := BoundaryNone
	if box.X <= viewport.X {
		b |= BoundaryLeft
	}
	if box.Y <= viewport.Y {
		b |= BoundaryTop
	}
	if box.Right() >= viewport.Right() {
		b |= BoundaryRight
	}
	if box.Bottom() >= viewport.Bottom() {
		b |= BoundaryBottom
	}
	return b
}
