package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"test2d/internal/engine"
)

// Ray is a raycast request. Direction need not be pre-normalized.
type Ray struct {
	Origin      rl.Vector2
	Direction   rl.Vector2
	MaxDistance float32
	Ignore      *engine.GameObject // optional entity to exclude
}

type RaycastHit struct {
	GameObject *engine.GameObject
	Collider   *Collider
	Point      rl.Vector2
	Normal     rl.Vector2
	Distance   float32
}

// RaycastRecord is the per-tick log of raycasts, kept for debug overlays.
type RaycastRecord struct {
	Ray    Ray
	Hit    RaycastHit
	DidHit bool
}

// Raycasts returns every raycast performed during the current tick. The
// list is cleared at the start of the next tick.
func (w *PhysicsWorld) Raycasts() []RaycastRecord {
	return w.raycasts
}

// Raycast walks the scene tree (pruning collider-free subtrees) and returns
// the globally closest collider hit within MaxDistance, if any.
func (w *PhysicsWorld) Raycast(scene *engine.Scene, ray Ray) (RaycastHit, bool) {
	dir := ray.Direction
	if rl.Vector2Length(dir) < contactEpsilon {
		return RaycastHit{}, false
	}
	dir = rl.Vector2Normalize(dir)

	best := RaycastHit{Distance: ray.MaxDistance}
	hit := false
	for _, root := range scene.Roots() {
		w.raycastNode(root, ray, dir, &best, &hit)
	}

	w.raycasts = append(w.raycasts, RaycastRecord{Ray: ray, Hit: best, DidHit: hit})
	if !hit {
		return RaycastHit{}, false
	}
	return best, true
}

func (w *PhysicsWorld) raycastNode(g *engine.GameObject, ray Ray, dir rl.Vector2, best *RaycastHit, hit *bool) {
	if !g.Active || ColliderCount(g) == 0 {
		return
	}
	if g != ray.Ignore {
		if col := engine.GetComponent[*Collider](g); col != nil {
			if h, ok := raycastCollider(col, ray.Origin, dir, ray.MaxDistance); ok && h.Distance < best.Distance {
				*best = h
				best.GameObject = g
				*hit = true
			}
		}
	}
	for _, child := range g.Children {
		w.raycastNode(child, ray, dir, best, hit)
	}
}

func raycastCollider(col *Collider, origin, dir rl.Vector2, maxDistance float32) (RaycastHit, bool) {
	switch col.Kind {
	case ShapeCircle:
		return raycastCircle(col, origin, dir, maxDistance)
	case ShapeRectangle:
		return raycastRectangle(col, origin, dir, maxDistance)
	}
	// Polygons have no supported ray intersection.
	return RaycastHit{}, false
}

// raycastCircle projects the origin→center vector onto the ray, rejects
// circles behind the origin or farther sideways than the radius, then solves
// the near intersection distance.
func raycastCircle(col *Collider, origin, dir rl.Vector2, maxDistance float32) (RaycastHit, bool) {
	bounds := col.CollisionBounds()
	if len(bounds) == 0 {
		return RaycastHit{}, false
	}
	center := bounds[0]
	radius := col.WorldRadius()

	oc := rl.Vector2Subtract(center, origin)
	proj := rl.Vector2DotProduct(oc, dir)
	if proj < 0 {
		return RaycastHit{}, false // circle behind ray origin
	}
	perpSq := rl.Vector2LengthSqr(oc) - proj*proj
	if perpSq > radius*radius {
		return RaycastHit{}, false
	}

	half := float32(math.Sqrt(float64(radius*radius - perpSq)))
	t := proj - half
	if t < 0 {
		t = proj + half // origin inside the circle, take the exit point
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector2Add(origin, rl.Vector2Scale(dir, t))
	return RaycastHit{
		Collider: col,
		Point:    point,
		Normal:   rl.Vector2Normalize(rl.Vector2Subtract(point, center)),
		Distance: t,
	}, true
}

// raycastRectangle tests the 4 edges as segments: solve the ray parameter
// against each edge's supporting line, then verify the intersection falls
// within the segment's extent. The closest valid hit wins, with the normal
// oriented against the ray direction.
func raycastRectangle(col *Collider, origin, dir rl.Vector2, maxDistance float32) (RaycastHit, bool) {
	corners := col.CollisionBounds()
	if len(corners) != 4 {
		return RaycastHit{}, false
	}

	best := RaycastHit{Distance: maxDistance}
	found := false
	for i := 0; i < 4; i++ {
		a := corners[i]
		b := corners[(i+1)%4]
		edge := rl.Vector2Subtract(b, a)
		edgeLenSq := rl.Vector2LengthSqr(edge)
		if edgeLenSq < contactEpsilon*contactEpsilon {
			continue // degenerate edge
		}
		normal := rl.Vector2Normalize(perpendicular(edge))

		denom := rl.Vector2DotProduct(dir, normal)
		if absf(denom) < contactEpsilon {
			continue // ray parallel to this edge
		}
		t := rl.Vector2DotProduct(rl.Vector2Subtract(a, origin), normal) / denom
		if t < 0 || t > maxDistance || (found && t >= best.Distance) {
			continue
		}

		point := rl.Vector2Add(origin, rl.Vector2Scale(dir, t))
		s := rl.Vector2DotProduct(rl.Vector2Subtract(point, a), edge) / edgeLenSq
		if s < 0 || s > 1 {
			continue // crosses the supporting line outside the segment
		}

		if rl.Vector2DotProduct(normal, dir) > 0 {
			normal = rl.Vector2Negate(normal)
		}
		best = RaycastHit{Collider: col, Point: point, Normal: normal, Distance: t}
		found = true
	}
	if !found {
		return RaycastHit{}, false
	}
	return best, true
}
