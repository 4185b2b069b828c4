package engine

import (
	"strings"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Orientation tells on which side of an entity a collision happened.
// Values combine for diagonal contacts, e.g. North|East.
type Orientation int

const (
	OrientationNone  Orientation = 0
	OrientationNorth Orientation = 1
	OrientationEast  Orientation = 2
	OrientationSouth Orientation = 4
	OrientationWest  Orientation = 8
)

// Has reports whether every flag in o is set.
func (o Orientation) Has(flag Orientation) bool {
	return o&flag == flag
}

func (o Orientation) String() string {
	if o == OrientationNone {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		flag Orientation
		name string
	}{
		{OrientationNorth, "north"},
		{OrientationEast, "east"},
		{OrientationSouth, "south"},
		{OrientationWest, "west"},
	} {
		if o.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "+")
}

// CollisionInfo describes a collision from one participant's point of view.
type CollisionInfo struct {
	Orientation Orientation
	// Overlap is the intersection of both bounding boxes in world coordinates.
	Overlap core.Rect
}

// NarrowPhaseThreshold is the shorter-side size above which bounding box
// overlaps are confirmed by sampling texture alpha.
const NarrowPhaseThreshold = 128

// Detector performs the two-phase collision test between two entities.
type Detector struct {
	// Threshold overrides NarrowPhaseThreshold when positive.
	Threshold int
}

func (d Detector) threshold() int {
	if d.Threshold > 0 {
		return d.Threshold
	}
	return NarrowPhaseThreshold
}

// Collides tests a against b. Entities that are not collision-eligible never collide.
func (d Detector) Collides(a, b Collidable) (infoA, infoB CollisionInfo, ok bool) {
	if !a.Collidable() || !b.Collidable() {
		return CollisionInfo{}, CollisionInfo{}, false
	}

	boxA, boxB := a.Bounds(), b.Bounds()
	infoA, infoB, ok = Intersects(boxA, boxB)
	if !ok {
		return CollisionInfo{}, CollisionInfo{}, false
	}

	limit := d.threshold()
	if boxA.ShorterSide() > limit || boxB.ShorterSide() > limit {
		if !PixelsOverlap(a.Texture(), boxA, b.Texture(), boxB) {
			return CollisionInfo{}, CollisionInfo{}, false
		}
	}
	return infoA, infoB, true
}

// Intersects is the broad phase: an AABB overlap test that also derives the
// orientation of the contact for both boxes.
func Intersects(a, b core.Rect) (infoA, infoB CollisionInfo, ok bool) {
	overlap := a.Intersect(b)
	if overlap.Empty() {
		return CollisionInfo{}, CollisionInfo{}, false
	}
	infoA = CollisionInfo{Orientation: orientationOf(a, overlap), Overlap: overlap}
	infoB = CollisionInfo{Orientation: orientationOf(b, overlap), Overlap: overlap}
	return infoA, infoB, true
}

// orientationOf compares the overlap centre with the box centre. Aligned
// centres on one axis yield a single direction on the other one.
func orientationOf(box, overlap core.Rect) Orientation {
	bx, by := box.Center()
	ox, oy := overlap.Center()

	switch {
	case ox == bx:
		if oy > by {
			return OrientationSouth
		}
		return OrientationNorth
	case oy == by:
		if ox > bx {
			return OrientationEast
		}
		return OrientationWest
	}

	o := OrientationEast
	if ox < bx {
		o = OrientationWest
	}
	if oy < by {
		o |= OrientationNorth
	} else {
		o |= OrientationSouth
	}
	return o
}

// PixelsOverlap is the narrow phase. It walks the world-space overlap of the
// two boxes and reports whether some cell is opaque in both textures.
// A missing texture counts as fully opaque.
func PixelsOverlap(texA Texture, boxA core.Rect, texB Texture, boxB core.Rect) bool {
	overlap := boxA.Intersect(boxB)
	for y := overlap.Y; y < overlap.Bottom(); y++ {
		for x := overlap.X; x < overlap.Right(); x++ {
			if opaque(texA, x-boxA.X, y-boxA.Y) && opaque(texB, x-boxB.X, y-boxB.Y) {
				return true
			}
		}
	}
	return false
}

func opaque(tex Texture, x, y int) bool {
	if tex == nil {
		return true
	}
	return tex.Alpha(x, y) != 0
}
