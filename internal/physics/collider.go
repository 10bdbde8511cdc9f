package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"test2d/internal/engine"
)

// ShapeKind identifies a collider's geometry.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeRectangle
	ShapePolygon

	shapeKindCount
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeRectangle:
		return "rectangle"
	case ShapePolygon:
		return "polygon"
	}
	return "unknown"
}

// CollisionHandler is implemented by components that want to receive
// collision callbacks. Scripts implement this to react to contacts.
type CollisionHandler interface {
	OnCollision(contact Contact)
}

// Collider attaches collision geometry to a GameObject.
//
// World-space collision bounds are computed lazily and cached; the cache is
// invalidated by comparing the owner's world transform against the snapshot
// taken when the bounds were last computed, so stale bounds are never read.
type Collider struct {
	engine.BaseComponent
	Kind      ShapeKind
	IsTrigger bool // no physical push-back, only events

	Radius float32      // circle, local units
	Size   rl.Vector2   // rectangle, local units
	Offset rl.Vector2   // local offset from the owner's origin
	Points []rl.Vector2 // polygon, local space

	// OnCollisionFunc is an optional per-node callback slot, invoked in
	// addition to any CollisionHandler components on the owner.
	OnCollisionFunc func(contact Contact)

	bounds      []rl.Vector2
	boundsValid bool
	cachedPos   rl.Vector2
	cachedRot   float32
	cachedScale rl.Vector2
}

func NewCircleCollider(radius float32) *Collider {
	return &Collider{Kind: ShapeCircle, Radius: radius}
}

func NewRectangleCollider(size rl.Vector2) *Collider {
	return &Collider{Kind: ShapeRectangle, Size: size}
}

func NewPolygonCollider(points []rl.Vector2) *Collider {
	return &Collider{Kind: ShapePolygon, Points: points}
}

// Rigidbody returns the Rigidbody attached to the same GameObject, or nil.
// The reference is resolved through the component list, never stored.
func (c *Collider) Rigidbody() *Rigidbody {
	g := c.GetGameObject()
	if g == nil {
		return nil
	}
	return engine.GetComponent[*Rigidbody](g)
}

// Invalidate forces the world-space bounds to be recomputed on next access.
func (c *Collider) Invalidate() {
	c.boundsValid = false
}

// WorldRadius returns the circle radius scaled by the owner's world scale.
func (c *Collider) WorldRadius() float32 {
	g := c.GetGameObject()
	if g == nil {
		return c.Radius
	}
	s := g.WorldScale()
	return c.Radius * maxf(absf(s.X), absf(s.Y))
}

// Center returns the collider's world-space center.
func (c *Collider) Center() rl.Vector2 {
	g := c.GetGameObject()
	if g == nil {
		return c.Offset
	}
	offset := g.WorldScale()
	offset.X *= c.Offset.X
	offset.Y *= c.Offset.Y
	offset = rl.Vector2Rotate(offset, g.WorldRotation()*float32(math.Pi)/180)
	return rl.Vector2Add(g.WorldPosition(), offset)
}

// CollisionBounds returns the cached world-space bounds: one point (the
// center) for a circle, four corners for a rectangle, the transformed
// vertices for a polygon. Polygons with fewer than 3 points have no bounds
// and never collide.
func (c *Collider) CollisionBounds() []rl.Vector2 {
	g := c.GetGameObject()
	if g == nil {
		return nil
	}
	pos := g.WorldPosition()
	rot := g.WorldRotation()
	scale := g.WorldScale()
	if c.boundsValid && pos == c.cachedPos && rot == c.cachedRot && scale == c.cachedScale {
		return c.bounds
	}

	c.bounds = c.computeBounds(pos, rot, scale)
	c.boundsValid = true
	c.cachedPos = pos
	c.cachedRot = rot
	c.cachedScale = scale
	return c.bounds
}

func (c *Collider) computeBounds(pos rl.Vector2, rot float32, scale rl.Vector2) []rl.Vector2 {
	rad := rot * float32(math.Pi) / 180
	center := rl.Vector2Add(pos, rl.Vector2Rotate(rl.Vector2{X: c.Offset.X * scale.X, Y: c.Offset.Y * scale.Y}, rad))

	switch c.Kind {
	case ShapeCircle:
		return []rl.Vector2{center}

	case ShapeRectangle:
		hx := c.Size.X * scale.X / 2
		hy := c.Size.Y * scale.Y / 2
		local := [4]rl.Vector2{
			{X: -hx, Y: -hy},
			{X: hx, Y: -hy},
			{X: hx, Y: hy},
			{X: -hx, Y: hy},
		}
		corners := make([]rl.Vector2, 4)
		for i, p := range local {
			corners[i] = rl.Vector2Add(center, rl.Vector2Rotate(p, rad))
		}
		return corners

	case ShapePolygon:
		if len(c.Points) < 3 {
			return nil
		}
		points := make([]rl.Vector2, len(c.Points))
		for i, p := range c.Points {
			scaled := rl.Vector2{X: p.X * scale.X, Y: p.Y * scale.Y}
			points[i] = rl.Vector2Add(center, rl.Vector2Rotate(scaled, rad))
		}
		return points
	}
	return nil
}

// BoundingBox returns the world-space AABB covering the collision bounds.
// ok is false when the collider has no valid bounds (degenerate polygon).
func (c *Collider) BoundingBox() (AABB, bool) {
	bounds := c.CollisionBounds()
	if len(bounds) == 0 {
		return AABB{}, false
	}
	if c.Kind == ShapeCircle {
		r := c.WorldRadius()
		return NewAABBFromCenter(bounds[0], rl.Vector2{X: r * 2, Y: r * 2}), true
	}
	return NewAABBFromPoints(bounds), true
}

// ContainsPoint reports whether a world-space point lies inside the collider.
// Polygons use a ray-crossing test; this is the only polygon query that is
// actually supported (see the narrow-phase stub).
func (c *Collider) ContainsPoint(p rl.Vector2) bool {
	bounds := c.CollisionBounds()
	if len(bounds) == 0 {
		return false
	}
	if c.Kind == ShapeCircle {
		r := c.WorldRadius()
		return rl.Vector2DistanceSqr(p, bounds[0]) <= r*r
	}
	return pointInPolygon(p, bounds)
}

// pointInPolygon is the standard even-odd ray-crossing test.
func pointInPolygon(p rl.Vector2, points []rl.Vector2) bool {
	inside := false
	j := len(points) - 1
	for i := 0; i < len(points); i++ {
		pi, pj := points[i], points[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			x := pi.X + (p.Y-pi.Y)/(pj.Y-pi.Y)*(pj.X-pi.X)
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
