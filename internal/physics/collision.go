package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// contactEpsilon is the distance below which geometry is treated as
// degenerate and skipped (avoids division by zero on coincident centers
// and zero-length edges).
const contactEpsilon = 1e-5

// Contact is an ephemeral narrow-phase result. By convention the normal is
// a unit vector pointing from Other toward Self.
type Contact struct {
	Normal rl.Vector2
	Depth  float32
	Point  rl.Vector2
	Self   *Collider
	Other  *Collider
}

// Flipped returns the same contact from the other entity's point of view:
// normal negated, self and other swapped.
func (c Contact) Flipped() Contact {
	return Contact{
		Normal: rl.Vector2Negate(c.Normal),
		Depth:  c.Depth,
		Point:  c.Point,
		Self:   c.Other,
		Other:  c.Self,
	}
}

type resolverFunc func(a, b *Collider) (Contact, bool)

// resolvers maps (kindA, kindB) to the pairwise narrow-phase test. Polygon
// entries are a deliberate stub: polygon point containment works for
// pointer/trigger queries, but polygon shape-vs-shape collision is
// unsupported and always reports no contact.
var resolvers = [shapeKindCount][shapeKindCount]resolverFunc{
	ShapeCircle: {
		ShapeCircle:    circleVsCircle,
		ShapeRectangle: circleVsRectangle,
		ShapePolygon:   noContact,
	},
	ShapeRectangle: {
		ShapeCircle:    rectangleVsCircle,
		ShapeRectangle: rectangleVsRectangle,
		ShapePolygon:   noContact,
	},
	ShapePolygon: {
		ShapeCircle:    noContact,
		ShapeRectangle: noContact,
		ShapePolygon:   noContact,
	},
}

// ResolvePair runs the shape-specific narrow-phase test for a candidate pair.
func ResolvePair(a, b *Collider) (Contact, bool) {
	if a == nil || b == nil {
		return Contact{}, false
	}
	if a.Kind < 0 || a.Kind >= shapeKindCount || b.Kind < 0 || b.Kind >= shapeKindCount {
		return Contact{}, false
	}
	return resolvers[a.Kind][b.Kind](a, b)
}

func noContact(a, b *Collider) (Contact, bool) {
	return Contact{}, false
}

func circleVsCircle(a, b *Collider) (Contact, bool) {
	boundsA := a.CollisionBounds()
	boundsB := b.CollisionBounds()
	if len(boundsA) == 0 || len(boundsB) == 0 {
		return Contact{}, false
	}
	centerA, centerB := boundsA[0], boundsB[0]
	ra, rb := a.WorldRadius(), b.WorldRadius()

	diff := rl.Vector2Subtract(centerA, centerB)
	dist := rl.Vector2Length(diff)
	if dist > ra+rb || dist < contactEpsilon {
		return Contact{}, false
	}

	normal := rl.Vector2Scale(diff, 1/dist)
	return Contact{
		Normal: normal,
		Depth:  ra + rb - dist,
		Point:  rl.Vector2Subtract(centerA, rl.Vector2Scale(normal, ra)),
		Self:   a,
		Other:  b,
	}, true
}

// rectangleVsRectangle tests two oriented rectangles with the separating
// axis theorem. The candidate axes are the two edge-normal directions of
// each rectangle; the axis with the smallest overlap wins.
func rectangleVsRectangle(a, b *Collider) (Contact, bool) {
	cornersA := a.CollisionBounds()
	cornersB := b.CollisionBounds()
	if len(cornersA) != 4 || len(cornersB) != 4 {
		return Contact{}, false
	}

	axes := make([]rl.Vector2, 0, 4)
	for _, corners := range [][]rl.Vector2{cornersA, cornersB} {
		e1 := rl.Vector2Subtract(corners[1], corners[0])
		e2 := rl.Vector2Subtract(corners[3], corners[0])
		for _, edge := range []rl.Vector2{e1, e2} {
			if rl.Vector2Length(edge) < contactEpsilon {
				continue // degenerate zero-length edge
			}
			axes = append(axes, rl.Vector2Normalize(edge))
		}
	}

	if len(axes) == 0 {
		return Contact{}, false // both rectangles degenerate
	}

	minOverlap := float32(math.MaxFloat32)
	var bestAxis rl.Vector2
	for _, axis := range axes {
		minA, maxA := projectOntoAxis(cornersA, axis)
		minB, maxB := projectOntoAxis(cornersB, axis)
		overlap := minf(maxA, maxB) - maxf(minA, minB)
		if overlap <= 0 {
			return Contact{}, false // separating axis found
		}
		if overlap < minOverlap {
			minOverlap = overlap
			bestAxis = axis
		}
	}

	posA := a.Center()
	posB := b.Center()
	normal := bestAxis
	if rl.Vector2DotProduct(rl.Vector2Subtract(posA, posB), normal) < 0 {
		normal = rl.Vector2Negate(normal)
	}

	return Contact{
		Normal: normal,
		Depth:  minOverlap,
		Point:  rl.Vector2Add(posA, rl.Vector2Scale(normal, -minOverlap/2)),
		Self:   a,
		Other:  b,
	}, true
}

func projectOntoAxis(points []rl.Vector2, axis rl.Vector2) (min, max float32) {
	min = rl.Vector2DotProduct(points[0], axis)
	max = min
	for _, p := range points[1:] {
		d := rl.Vector2DotProduct(p, axis)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

// circleVsRectangle finds the closest point on the rectangle's edges to the
// circle center. The normal points from the closest point toward the circle
// center, falling back to the rectangle-center direction when they coincide.
func circleVsRectangle(a, b *Collider) (Contact, bool) {
	boundsA := a.CollisionBounds()
	corners := b.CollisionBounds()
	if len(boundsA) == 0 || len(corners) != 4 {
		return Contact{}, false
	}
	center := boundsA[0]
	radius := a.WorldRadius()

	closest := corners[0]
	bestDistSq := float32(math.MaxFloat32)
	for i := 0; i < 4; i++ {
		p := closestPointOnSegment(corners[i], corners[(i+1)%4], center)
		d := rl.Vector2DistanceSqr(center, p)
		if d < bestDistSq {
			bestDistSq = d
			closest = p
		}
	}

	dist := float32(math.Sqrt(float64(bestDistSq)))
	if dist > radius {
		return Contact{}, false
	}

	var normal rl.Vector2
	if dist >= contactEpsilon {
		normal = rl.Vector2Scale(rl.Vector2Subtract(center, closest), 1/dist)
	} else {
		// Center sits exactly on the edge; use the rectangle-center direction.
		toCenter := rl.Vector2Subtract(center, b.Center())
		l := rl.Vector2Length(toCenter)
		if l < contactEpsilon {
			return Contact{}, false
		}
		normal = rl.Vector2Scale(toCenter, 1/l)
	}

	return Contact{
		Normal: normal,
		Depth:  radius - dist,
		Point:  closest,
		Self:   a,
		Other:  b,
	}, true
}

// rectangleVsCircle delegates to circleVsRectangle with the arguments
// swapped and the result polarity corrected.
func rectangleVsCircle(a, b *Collider) (Contact, bool) {
	contact, ok := circleVsRectangle(b, a)
	if !ok {
		return Contact{}, false
	}
	return contact.Flipped(), true
}
