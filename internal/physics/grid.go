package physics

import (
	"math"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"test2d/internal/engine"
)

// cellKey is an integer cell coordinate: (floor(x/cellSize), floor(y/cellSize)).
type cellKey struct {
	X, Y int
}

type gridEntry struct {
	obj    *engine.GameObject
	bounds AABB
}

// Pair is an unordered broad-phase candidate pair.
type Pair struct {
	A, B *engine.GameObject
}

// SpatialHashGrid maps world-space cells to the entities whose bounding box
// overlaps that cell. An entity may occupy multiple cells. The grid is
// rebuilt from scratch each tick; it exists purely for broad-phase
// candidate generation.
//
// Cell size is a tuning trade-off: too small inflates per-entity cell
// counts, too large degrades toward O(n²) candidates.
type SpatialHashGrid struct {
	cellSize float32
	cells    map[cellKey][]gridEntry
}

func NewSpatialHashGrid(cellSize float32) *SpatialHashGrid {
	return &SpatialHashGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]gridEntry),
	}
}

// CellSize returns the configured cell edge length in world units.
func (g *SpatialHashGrid) CellSize() float32 {
	return g.cellSize
}

// Clear empties all cells.
func (g *SpatialHashGrid) Clear() {
	for k := range g.cells {
		delete(g.cells, k)
	}
}

func (g *SpatialHashGrid) cellRange(bounds AABB) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(float64(bounds.Min.X / g.cellSize)))
	y0 = int(math.Floor(float64(bounds.Min.Y / g.cellSize)))
	x1 = int(math.Floor(float64(bounds.Max.X / g.cellSize)))
	y1 = int(math.Floor(float64(bounds.Max.Y / g.cellSize)))
	return
}

// Insert adds an entity to every cell its bounding box overlaps.
func (g *SpatialHashGrid) Insert(obj *engine.GameObject, bounds AABB) {
	x0, y0, x1, y1 := g.cellRange(bounds)
	entry := gridEntry{obj: obj, bounds: bounds}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			key := cellKey{X: x, Y: y}
			g.cells[key] = append(g.cells[key], entry)
		}
	}
}

// QueryPairs returns every unordered pair of entities sharing at least one
// cell whose bounding boxes actually intersect. Cell co-membership is only
// a candidate filter; the AABB test removes false positives. A pair sharing
// multiple cells is reported once (canonical UID-sorted pair key). Pairs are
// returned in deterministic UID order.
func (g *SpatialHashGrid) QueryPairs() []Pair {
	seen := make(map[[2]uint64]struct{})
	var pairs []Pair
	for _, entries := range g.cells {
		for i := 0; i < len(entries); i++ {
			for j := i + 1; j < len(entries); j++ {
				a, b := entries[i], entries[j]
				key := pairKey(a.obj.UID, b.obj.UID)
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				if a.bounds.Intersects(b.bounds) {
					pairs = append(pairs, orderPair(a.obj, b.obj))
				}
			}
		}
	}
	sortPairs(pairs)
	return pairs
}

// QueryBounds returns entities whose bounding box intersects the query box.
func (g *SpatialHashGrid) QueryBounds(bounds AABB) []*engine.GameObject {
	seen := make(map[uint64]struct{})
	var result []*engine.GameObject
	x0, y0, x1, y1 := g.cellRange(bounds)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			for _, entry := range g.cells[cellKey{X: x, Y: y}] {
				if _, ok := seen[entry.obj.UID]; ok {
					continue
				}
				seen[entry.obj.UID] = struct{}{}
				if entry.bounds.Intersects(bounds) {
					result = append(result, entry.obj)
				}
			}
		}
	}
	sortObjects(result)
	return result
}

// QueryPoint returns entities whose bounding box contains the point.
func (g *SpatialHashGrid) QueryPoint(p rl.Vector2) []*engine.GameObject {
	key := cellKey{
		X: int(math.Floor(float64(p.X / g.cellSize))),
		Y: int(math.Floor(float64(p.Y / g.cellSize))),
	}
	seen := make(map[uint64]struct{})
	var result []*engine.GameObject
	for _, entry := range g.cells[key] {
		if _, ok := seen[entry.obj.UID]; ok {
			continue
		}
		seen[entry.obj.UID] = struct{}{}
		if entry.bounds.ContainsPoint(p) {
			result = append(result, entry.obj)
		}
	}
	sortObjects(result)
	return result
}

func pairKey(a, b uint64) [2]uint64 {
	if a > b {
		a, b = b, a
	}
	return [2]uint64{a, b}
}

func orderPair(a, b *engine.GameObject) Pair {
	if a.UID > b.UID {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// sortPairs keeps pair order independent of map iteration order, so
// resolution order is reproducible across runs.
func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A.UID != pairs[j].A.UID {
			return pairs[i].A.UID < pairs[j].A.UID
		}
		return pairs[i].B.UID < pairs[j].B.UID
	})
}

func sortObjects(objs []*engine.GameObject) {
	sort.Slice(objs, func(i, j int) bool {
		return objs[i].UID < objs[j].UID
	})
}
