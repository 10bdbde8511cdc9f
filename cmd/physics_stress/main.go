// Stress test comparing naive O(n²) broad-phase pair detection against the
// spatial hash grid across a range of entity counts.
package main

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/stat"

	"test2d/internal/engine"
	"test2d/internal/physics"
)

const (
	cellSize   = 64
	iterations = 10
)

func main() {
	testCounts := []int{100, 500, 1000, 2000, 5000, 10000, 20000}

	for _, count := range testCounts {
		testBroadPhase(count)
	}
}

func testBroadPhase(count int) {
	// Random circles in a square region whose side scales with count to keep
	// density roughly constant.
	rng := rand.New(rand.NewSource(42)) // consistent results across runs
	spawnSize := 500.0 + float64(count)

	objs := make([]*engine.GameObject, count)
	boxes := make([]physics.AABB, count)
	for i := range objs {
		objs[i] = engine.NewGameObject("stress")
		center := rl.Vector2{
			X: float32(rng.Float64()*spawnSize - spawnSize/2),
			Y: float32(rng.Float64()*spawnSize - spawnSize/2),
		}
		radius := 5 + rng.Float32()*10
		boxes[i] = physics.NewAABBFromCenter(center, rl.Vector2{X: radius * 2, Y: radius * 2})
	}

	// Naive O(n²) AABB pass.
	naiveSamples := make([]float64, iterations)
	naivePairs := 0
	for iter := 0; iter < iterations; iter++ {
		start := time.Now()
		naivePairs = 0
		for i := 0; i < count; i++ {
			for j := i + 1; j < count; j++ {
				if boxes[i].Intersects(boxes[j]) {
					naivePairs++
				}
			}
		}
		naiveSamples[iter] = float64(time.Since(start).Microseconds())
	}

	// Spatial hash: rebuild plus query, the full per-tick cost.
	gridSamples := make([]float64, iterations)
	gridPairs := 0
	grid := physics.NewSpatialHashGrid(cellSize)
	for iter := 0; iter < iterations; iter++ {
		start := time.Now()
		grid.Clear()
		for i := range objs {
			grid.Insert(objs[i], boxes[i])
		}
		gridPairs = len(grid.QueryPairs())
		gridSamples[iter] = float64(time.Since(start).Microseconds())
	}

	naiveMean := stat.Mean(naiveSamples, nil)
	gridMean := stat.Mean(gridSamples, nil)
	sort.Float64s(gridSamples)
	gridP95 := stat.Quantile(0.95, stat.Empirical, gridSamples, nil)

	fmt.Printf("%6d objects: naive %9.0fµs (%6d pairs) | grid %9.0fµs p95 %9.0fµs (%6d pairs) | %.1fx speedup\n",
		count, naiveMean, naivePairs, gridMean, gridP95, gridPairs, naiveMean/gridMean)
}
