// Package collision keeps a walking position inside the world and out of
// axis-aligned obstacles on the X/Z plane.
package collision

import (
	"github.com/go-gl/mathgl/mgl32"

	"farm/internal/util"
)

// Rect is an axis-aligned rectangle on the world X/Z plane. Vec2 components
// are (x, z).
type Rect struct {
	Min mgl32.Vec2
	Max mgl32.Vec2
}

// NewRect builds a rectangle from its left-back and right-forward corners.
// The corners may come in any order.
func NewRect(leftBack, rightForward mgl32.Vec2) Rect {
	return Rect{
		Min: mgl32.Vec2{min(leftBack.X(), rightForward.X()), min(leftBack.Y(), rightForward.Y())},
		Max: mgl32.Vec2{max(leftBack.X(), rightForward.X()), max(leftBack.Y(), rightForward.Y())},
	}
}

// RectAround builds a rectangle centered on center with the given half size
func RectAround(center, half mgl32.Vec2) Rect {
	return NewRect(center.Sub(half), center.Add(half))
}

// Center returns the middle point of the rectangle
func (r Rect) Center() mgl32.Vec2 {
	return r.Min.Add(r.Max).Mul(0.5)
}

// InsideX reports whether x lies strictly between the rectangle's X edges
func (r Rect) InsideX(x float32) bool {
	return x > r.Min.X() && x < r.Max.X()
}

// InsideZ reports whether z lies strictly between the rectangle's Z edges
func (r Rect) InsideZ(z float32) bool {
	return z > r.Min.Y() && z < r.Max.Y()
}

// Contains reports whether p lies strictly inside the rectangle
func (r Rect) Contains(p mgl32.Vec2) bool {
	return r.InsideX(p.X()) && r.InsideZ(p.Y())
}

// ClampInto clamps each axis of p into the rectangle independently
func (r Rect) ClampInto(p mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		util.Clamp(p.X(), r.Min.X(), r.Max.X()),
		util.Clamp(p.Y(), r.Min.Y(), r.Max.Y()),
	}
}

// Resolver corrects candidate positions against a walk area and obstacles
type Resolver struct {
	Bounds    Rect
	Obstacles []Rect
}

// NewResolver creates a resolver with the given walk area and no obstacles
func NewResolver(bounds Rect) *Resolver {
	return &Resolver{Bounds: bounds}
}

// Add appends an obstacle
func (r *Resolver) Add(obstacle Rect) {
	r.Obstacles = append(r.Obstacles, obstacle)
}

// Reset drops every obstacle, keeping the bounds
func (r *Resolver) Reset() {
	r.Obstacles = r.Obstacles[:0]
}

// Resolve clamps candidate into the bounds and then pushes it back out of
// each obstacle it entered. Moving along an obstacle edge keeps the parallel
// component; entering through a corner cancels the move.
//
// Obstacles are checked in order and each one sees the result of the
// previous, so with overlapping obstacles the last one decides.
func (r *Resolver) Resolve(old, candidate mgl32.Vec2) mgl32.Vec2 {
	candidate = r.Bounds.ClampInto(candidate)

	for _, obstacle := range r.Obstacles {
		if !obstacle.Contains(candidate) {
			continue
		}

		switch {
		case obstacle.InsideX(old.X()):
			candidate[1] = old.Y()
		case obstacle.InsideZ(old.Y()):
			candidate[0] = old.X()
		default:
			candidate = old
		}
	}

	return candidate
}
