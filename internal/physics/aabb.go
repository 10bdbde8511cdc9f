package physics

import rl "github.com/gen2brain/raylib-go/raylib"

type AABB struct {
	Min rl.Vector2
	Max rl.Vector2
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size rl.Vector2) AABB {
	half := rl.Vector2{X: size.X / 2, Y: size.Y / 2}
	return AABB{
		Min: rl.Vector2Subtract(center, half),
		Max: rl.Vector2Add(center, half),
	}
}

// NewAABBFromPoints computes the bounding box of a point set.
func NewAABBFromPoints(points []rl.Vector2) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		if p.X < box.Min.X {
			box.Min.X = p.X
		}
		if p.Y < box.Min.Y {
			box.Min.Y = p.Y
		}
		if p.X > box.Max.X {
			box.Max.X = p.X
		}
		if p.Y > box.Max.Y {
			box.Max.Y = p.Y
		}
	}
	return box
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

func (a AABB) ContainsPoint(p rl.Vector2) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y
}

// Merge returns the smallest AABB covering both boxes.
func (a AABB) Merge(b AABB) AABB {
	out := a
	if b.Min.X < out.Min.X {
		out.Min.X = b.Min.X
	}
	if b.Min.Y < out.Min.Y {
		out.Min.Y = b.Min.Y
	}
	if b.Max.X > out.Max.X {
		out.Max.X = b.Max.X
	}
	if b.Max.Y > out.Max.Y {
		out.Max.Y = b.Max.Y
	}
	return out
}

func (a AABB) Center() rl.Vector2 {
	return rl.Vector2{X: (a.Min.X + a.Max.X) / 2, Y: (a.Min.Y + a.Max.Y) / 2}
}
