package physics

import rl "github.com/gen2brain/raylib-go/raylib"

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// perpendicular returns the vector rotated 90° counter-clockwise.
func perpendicular(v rl.Vector2) rl.Vector2 {
	return rl.Vector2{X: -v.Y, Y: v.X}
}

// closestPointOnSegment returns the point on segment [a,b] closest to p.
// Degenerate zero-length segments return endpoint a.
func closestPointOnSegment(a, b, p rl.Vector2) rl.Vector2 {
	edge := rl.Vector2Subtract(b, a)
	lenSq := edge.X*edge.X + edge.Y*edge.Y
	if lenSq < 1e-12 {
		return a
	}
	t := rl.Vector2DotProduct(rl.Vector2Subtract(p, a), edge) / lenSq
	t = clampf(t, 0, 1)
	return rl.Vector2Add(a, rl.Vector2Scale(edge, t))
}
