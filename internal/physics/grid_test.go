package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"test2d/internal/engine"
)

func TestGridCellCoverage(t *testing.T) {
	// Scenario: cell size 50, box spanning (10,10)-(60,60) straddles four cells.
	grid := NewSpatialHashGrid(50)
	obj := engine.NewGameObject("box")
	grid.Insert(obj, AABB{Min: rl.Vector2{X: 10, Y: 10}, Max: rl.Vector2{X: 60, Y: 60}})

	require.Len(t, grid.cells, 4)
	for _, key := range []cellKey{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		assert.Len(t, grid.cells[key], 1, "cell %v", key)
	}
}

func TestGridNegativeCoordinates(t *testing.T) {
	grid := NewSpatialHashGrid(50)
	obj := engine.NewGameObject("box")
	grid.Insert(obj, AABB{Min: rl.Vector2{X: -10, Y: -10}, Max: rl.Vector2{X: 10, Y: 10}})

	require.Len(t, grid.cells, 4)
	for _, key := range []cellKey{{-1, -1}, {0, -1}, {-1, 0}, {0, 0}} {
		assert.Len(t, grid.cells[key], 1, "cell %v", key)
	}
}

func TestQueryPairsDeduplicatesSharedCells(t *testing.T) {
	// Two boxes overlapping each other across several shared cells must
	// still come back as exactly one pair.
	grid := NewSpatialHashGrid(50)
	a := engine.NewGameObject("a")
	b := engine.NewGameObject("b")
	grid.Insert(a, AABB{Min: rl.Vector2{X: 0, Y: 0}, Max: rl.Vector2{X: 120, Y: 120}})
	grid.Insert(b, AABB{Min: rl.Vector2{X: 60, Y: 60}, Max: rl.Vector2{X: 180, Y: 180}})

	pairs := grid.QueryPairs()
	require.Len(t, pairs, 1)
	assert.Equal(t, a, pairs[0].A)
	assert.Equal(t, b, pairs[0].B)
}

func TestQueryPairsFiltersNonIntersecting(t *testing.T) {
	// Same cell, disjoint bounding boxes: candidate but not a pair.
	grid := NewSpatialHashGrid(100)
	a := engine.NewGameObject("a")
	b := engine.NewGameObject("b")
	grid.Insert(a, AABB{Min: rl.Vector2{X: 0, Y: 0}, Max: rl.Vector2{X: 10, Y: 10}})
	grid.Insert(b, AABB{Min: rl.Vector2{X: 80, Y: 80}, Max: rl.Vector2{X: 90, Y: 90}})

	assert.Empty(t, grid.QueryPairs())
}

func TestQueryPairsDisjointCells(t *testing.T) {
	grid := NewSpatialHashGrid(50)
	a := engine.NewGameObject("a")
	b := engine.NewGameObject("b")
	grid.Insert(a, AABB{Min: rl.Vector2{X: 0, Y: 0}, Max: rl.Vector2{X: 10, Y: 10}})
	grid.Insert(b, AABB{Min: rl.Vector2{X: 200, Y: 200}, Max: rl.Vector2{X: 210, Y: 210}})

	assert.Empty(t, grid.QueryPairs())
}

func TestQueryPairsOrderIsDeterministic(t *testing.T) {
	grid := NewSpatialHashGrid(1000)
	objs := make([]*engine.GameObject, 4)
	for i := range objs {
		objs[i] = engine.NewGameObject("obj")
		grid.Insert(objs[i], AABB{Min: rl.Vector2{X: 0, Y: 0}, Max: rl.Vector2{X: 10, Y: 10}})
	}

	first := grid.QueryPairs()
	require.Len(t, first, 6) // C(4,2)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, grid.QueryPairs())
	}
	for _, p := range first {
		assert.Less(t, p.A.UID, p.B.UID)
	}
}

func TestQueryBounds(t *testing.T) {
	grid := NewSpatialHashGrid(50)
	a := engine.NewGameObject("a")
	b := engine.NewGameObject("b")
	grid.Insert(a, AABB{Min: rl.Vector2{X: 0, Y: 0}, Max: rl.Vector2{X: 10, Y: 10}})
	grid.Insert(b, AABB{Min: rl.Vector2{X: 100, Y: 100}, Max: rl.Vector2{X: 110, Y: 110}})

	hits := grid.QueryBounds(AABB{Min: rl.Vector2{X: 5, Y: 5}, Max: rl.Vector2{X: 20, Y: 20}})
	require.Len(t, hits, 1)
	assert.Equal(t, a, hits[0])

	all := grid.QueryBounds(AABB{Min: rl.Vector2{X: -10, Y: -10}, Max: rl.Vector2{X: 200, Y: 200}})
	assert.Len(t, all, 2)
}

func TestQueryPoint(t *testing.T) {
	grid := NewSpatialHashGrid(50)
	a := engine.NewGameObject("a")
	grid.Insert(a, AABB{Min: rl.Vector2{X: 0, Y: 0}, Max: rl.Vector2{X: 30, Y: 30}})

	hits := grid.QueryPoint(rl.Vector2{X: 15, Y: 15})
	require.Len(t, hits, 1)
	assert.Equal(t, a, hits[0])

	assert.Empty(t, grid.QueryPoint(rl.Vector2{X: 40, Y: 40}))
}

func TestGridClear(t *testing.T) {
	grid := NewSpatialHashGrid(50)
	a := engine.NewGameObject("a")
	grid.Insert(a, AABB{Min: rl.Vector2{X: 0, Y: 0}, Max: rl.Vector2{X: 10, Y: 10}})
	grid.Clear()

	assert.Empty(t, grid.cells)
	assert.Empty(t, grid.QueryPairs())
}
