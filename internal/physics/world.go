package physics

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"test2d/internal/engine"
)

const (
	// defaultMaxAccumulator caps catch-up time after a stall so a long
	// frame cannot trigger an unbounded burst of fixed ticks.
	defaultMaxAccumulator = 0.2

	// defaultMinPenetration skips positional correction for overlaps at
	// float-noise level.
	defaultMinPenetration = 0.01

	// ratioEpsilon snaps a near-zero inverse-mass ratio to exactly zero so
	// a practically immovable side never drifts.
	ratioEpsilon = 1e-4

	// logEveryTicks is the cadence of the periodic debug line.
	logEveryTicks = 300
)

// Options configures a PhysicsWorld. CellSize, TicksPerSecond and
// MaxCollisionIterations are mandatory; the rest default sensibly when zero.
type Options struct {
	CellSize               float32
	TicksPerSecond         int
	MaxCollisionIterations int
	MaxAccumulator         float32
	MinPenetration         float32
	GravityDirection       rl.Vector2
	GravityScale           float32
	Logger                 *zap.Logger
}

// PhysicsWorld owns the spatial grid and the rigidbody registry and runs the
// per-tick pipeline: accumulate time, integrate, broad phase, narrow phase.
// It is single-threaded by contract: all mutation happens on the host
// engine's frame callback.
type PhysicsWorld struct {
	log *zap.Logger

	fixedTimeStep  float32
	maxIterations  int
	maxAccumulator float32
	minPenetration float32

	gravityDir   rl.Vector2 // always stored normalized
	gravityScale float32

	accumulator float32
	grid        *SpatialHashGrid
	rigidbodies map[uint64]*Rigidbody
	raycasts    []RaycastRecord
	ticksRun    uint64
}

// NewPhysicsWorld validates the configuration and builds a world.
// Invalid cell size, tick rate or iteration count is a contract violation
// by the host and fails fast here rather than degrading during simulation.
func NewPhysicsWorld(opts Options) (*PhysicsWorld, error) {
	if opts.CellSize <= 0 {
		return nil, fmt.Errorf("physics: spatial hash cell size must be > 0, got %v", opts.CellSize)
	}
	if opts.TicksPerSecond <= 0 {
		return nil, fmt.Errorf("physics: ticks per second must be > 0, got %d", opts.TicksPerSecond)
	}
	if opts.MaxCollisionIterations <= 0 {
		return nil, fmt.Errorf("physics: max collision iterations must be > 0, got %d", opts.MaxCollisionIterations)
	}

	w := &PhysicsWorld{
		log:            opts.Logger,
		fixedTimeStep:  1 / float32(opts.TicksPerSecond),
		maxIterations:  opts.MaxCollisionIterations,
		maxAccumulator: opts.MaxAccumulator,
		minPenetration: opts.MinPenetration,
		gravityScale:   opts.GravityScale,
		grid:           NewSpatialHashGrid(opts.CellSize),
		rigidbodies:    make(map[uint64]*Rigidbody),
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}
	if w.maxAccumulator <= 0 {
		w.maxAccumulator = defaultMaxAccumulator
	}
	if w.minPenetration <= 0 {
		w.minPenetration = defaultMinPenetration
	}
	w.SetGravityDirection(opts.GravityDirection)

	w.log.Info("physics world ready",
		zap.Float32("cellSize", opts.CellSize),
		zap.Int("ticksPerSecond", opts.TicksPerSecond),
		zap.Int("maxIterations", w.maxIterations),
		zap.Float32("gravityScale", w.gravityScale))
	return w, nil
}

// FixedTimeStep returns the duration of one fixed tick in seconds.
func (w *PhysicsWorld) FixedTimeStep() float32 {
	return w.fixedTimeStep
}

// Accumulator returns the leftover time carried to the next frame.
func (w *PhysicsWorld) Accumulator() float32 {
	return w.accumulator
}

// SetGravityDirection stores the direction pre-normalized. A zero vector
// falls back to straight down (+Y, screen space).
func (w *PhysicsWorld) SetGravityDirection(dir rl.Vector2) {
	if rl.Vector2Length(dir) < contactEpsilon {
		w.gravityDir = rl.Vector2{X: 0, Y: 1}
		return
	}
	w.gravityDir = rl.Vector2Normalize(dir)
}

func (w *PhysicsWorld) GravityDirection() rl.Vector2 {
	return w.gravityDir
}

func (w *PhysicsWorld) SetGravityScale(scale float32) {
	w.gravityScale = scale
}

func (w *PhysicsWorld) GravityScale() float32 {
	return w.gravityScale
}

// RegisterRigidbody adds a body to the registry, keyed by its owner's UID.
func (w *PhysicsWorld) RegisterRigidbody(rb *Rigidbody) {
	g := rb.GetGameObject()
	if g == nil {
		w.log.Warn("rigidbody registered before being attached to a GameObject, ignoring")
		return
	}
	w.rigidbodies[g.UID] = rb
}

// UnregisterRigidbody removes a body from the registry.
func (w *PhysicsWorld) UnregisterRigidbody(rb *Rigidbody) {
	g := rb.GetGameObject()
	if g == nil {
		return
	}
	delete(w.rigidbodies, g.UID)
}

// RigidbodyCount returns the number of registered bodies.
func (w *PhysicsWorld) RigidbodyCount() int {
	return len(w.rigidbodies)
}

// Update is called once per rendered frame. It adds the frame delta to the
// accumulator (clamped to prevent a catch-up spiral after a stall) and runs
// floor(accumulator/fixedTimeStep) full fixed ticks, carrying the remainder.
func (w *PhysicsWorld) Update(scene *engine.Scene, deltaTime float32) {
	w.accumulator += deltaTime
	if w.accumulator > w.maxAccumulator {
		w.accumulator = w.maxAccumulator
	}
	for w.accumulator >= w.fixedTimeStep {
		w.step(scene)
		w.accumulator -= w.fixedTimeStep
	}
}

// step runs one fixed tick: integrate, broad phase, narrow phase.
func (w *PhysicsWorld) step(scene *engine.Scene) {
	w.raycasts = w.raycasts[:0]

	gravity := rl.Vector2Scale(w.gravityDir, w.gravityScale)
	for _, rb := range w.rigidbodies {
		rb.PhysicsUpdate(w.fixedTimeStep, gravity)
	}

	pairs := w.broadPhase(scene)
	w.narrowPhase(pairs)

	w.ticksRun++
	if w.ticksRun%logEveryTicks == 0 {
		w.log.Debug("physics tick",
			zap.Uint64("tick", w.ticksRun),
			zap.Int("rigidbodies", len(w.rigidbodies)),
			zap.Int("pairs", len(pairs)))
	}
}

// broadPhase rebuilds the spatial grid from every collider-bearing entity
// and returns candidate pairs: grid pairs plus ancestor/descendant pairs the
// grid can miss, minus pairs where neither side has a rigidbody.
func (w *PhysicsWorld) broadPhase(scene *engine.Scene) []Pair {
	roots := scene.Roots()

	total := 0
	for _, root := range roots {
		total += ColliderCount(root)
	}
	if total == 0 {
		return nil
	}

	w.grid.Clear()
	for _, root := range roots {
		w.insertSubtree(root)
	}

	seen := make(map[[2]uint64]struct{})
	var pairs []Pair
	add := func(a, b *engine.GameObject) {
		key := pairKey(a.UID, b.UID)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		pairs = append(pairs, orderPair(a, b))
	}

	for _, p := range w.grid.QueryPairs() {
		add(p.A, p.B)
	}
	for _, root := range roots {
		w.hierarchyPairs(root, add)
	}

	// Static-static pairs can never need resolution.
	filtered := pairs[:0]
	for _, p := range pairs {
		if engine.GetComponent[*Rigidbody](p.A) != nil || engine.GetComponent[*Rigidbody](p.B) != nil {
			filtered = append(filtered, p)
		}
	}
	sortPairs(filtered)
	return filtered
}

func (w *PhysicsWorld) insertSubtree(g *engine.GameObject) {
	if !g.Active {
		return
	}
	if col := engine.GetComponent[*Collider](g); col != nil {
		if box, ok := col.BoundingBox(); ok {
			w.grid.Insert(g, box)
		}
	}
	for _, child := range g.Children {
		w.insertSubtree(child)
	}
}

// hierarchyPairs discovers collider pairs between a node and its own
// descendants. The grid finds those too when boxes share cells, but
// hierarchical bounding boxes that contain multiple colliders can hide
// them, so the tree walk backs it up.
func (w *PhysicsWorld) hierarchyPairs(node *engine.GameObject, add func(a, b *engine.GameObject)) {
	if !node.Active {
		return
	}
	if col := engine.GetComponent[*Collider](node); col != nil {
		for _, child := range node.Children {
			w.descendPairs(node, col, child, add)
		}
	}
	for _, child := range node.Children {
		w.hierarchyPairs(child, add)
	}
}

// descendPairs pairs a single collider-bearing node against the colliders in
// a subtree, pruned by collider counts and bounding-box overlap.
func (w *PhysicsWorld) descendPairs(node *engine.GameObject, col *Collider, sub *engine.GameObject, add func(a, b *engine.GameObject)) {
	if !sub.Active || ColliderCount(sub) == 0 {
		return
	}
	nodeBox, ok := col.BoundingBox()
	if !ok {
		return
	}
	subBox, ok := SubtreeBounds(sub)
	if !ok || !nodeBox.Intersects(subBox) {
		return
	}
	if engine.GetComponent[*Collider](sub) != nil {
		add(node, sub)
	}
	for _, child := range sub.Children {
		w.descendPairs(node, col, child, add)
	}
}

// narrowPhase runs up to maxCollisionIterations resolution passes over the
// candidate pairs, stopping early once a pass resolves nothing. Collision
// callbacks fire on the first pass only; re-detecting the same contact on a
// later pass never re-fires them.
func (w *PhysicsWorld) narrowPhase(pairs []Pair) {
	for iter := 0; iter < w.maxIterations; iter++ {
		resolvedAny := false
		for _, pair := range pairs {
			colA := engine.GetComponent[*Collider](pair.A)
			colB := engine.GetComponent[*Collider](pair.B)
			if colA == nil || colB == nil {
				continue
			}
			contact, ok := ResolvePair(colA, colB)
			if !ok {
				continue
			}
			resolvedAny = true

			if iter == 0 {
				w.dispatchCollision(contact)
			}
			if colA.IsTrigger || colB.IsTrigger {
				continue // events only, no physical push-back
			}
			w.correctPositions(contact)
			w.resolveVelocity(contact)
		}
		if !resolvedAny {
			break
		}
	}
}

// dispatchCollision delivers the contact to both entities: as-is to the
// first, normal-flipped and self/other-swapped to the second.
func (w *PhysicsWorld) dispatchCollision(contact Contact) {
	w.notify(contact)
	w.notify(contact.Flipped())
}

func (w *PhysicsWorld) notify(contact Contact) {
	if contact.Self.OnCollisionFunc != nil {
		contact.Self.OnCollisionFunc(contact)
	}
	g := contact.Self.GetGameObject()
	if g == nil {
		return
	}
	for _, comp := range g.Components() {
		if handler, ok := comp.(CollisionHandler); ok {
			handler.OnCollision(contact)
		}
	}
}

// correctPositions splits the penetration between the two sides by
// inverse-mass ratio. A side with no rigidbody counts as immovable
// (inverse mass 0); if both sides are immovable nothing moves.
func (w *PhysicsWorld) correctPositions(contact Contact) {
	if contact.Depth < w.minPenetration {
		return
	}
	invA := invMassOf(contact.Self)
	invB := invMassOf(contact.Other)
	if invA == 0 && invB == 0 {
		return
	}
	ratioA, ratioB := massRatios(invA, invB)

	objA := contact.Self.GetGameObject()
	objB := contact.Other.GetGameObject()
	if ratioA > 0 && objA != nil {
		objA.Transform.Position = rl.Vector2Add(objA.Transform.Position,
			rl.Vector2Scale(contact.Normal, contact.Depth*ratioA))
	}
	if ratioB > 0 && objB != nil {
		objB.Transform.Position = rl.Vector2Add(objB.Transform.Position,
			rl.Vector2Scale(contact.Normal, -contact.Depth*ratioB))
	}
}

// massRatios splits a correction by inverse mass. Near-zero ratios snap to
// exactly 0 so floating-point drift cannot move a practically immovable
// side; infinite inverse masses absorb the full correction.
func massRatios(invA, invB float32) (ratioA, ratioB float32) {
	infA := math.IsInf(float64(invA), 1)
	infB := math.IsInf(float64(invB), 1)
	switch {
	case infA && infB:
		ratioA, ratioB = 0.5, 0.5
	case infA:
		ratioA, ratioB = 1, 0
	case infB:
		ratioA, ratioB = 0, 1
	default:
		total := invA + invB
		ratioA = invA / total
		ratioB = invB / total
	}
	if ratioA < ratioEpsilon {
		ratioA, ratioB = 0, 1
	} else if ratioB < ratioEpsilon {
		ratioA, ratioB = 1, 0
	}
	return ratioA, ratioB
}

// resolveVelocity applies the impulse response when at least one side has a
// rigidbody. Bodies already separating along the normal are left alone.
func (w *PhysicsWorld) resolveVelocity(contact Contact) {
	rbA := contact.Self.Rigidbody()
	rbB := contact.Other.Rigidbody()
	if rbA == nil && rbB == nil {
		return
	}

	var velA, velB rl.Vector2
	var bounceA, bounceB float32
	if rbA != nil {
		velA = rbA.Velocity
		bounceA = rbA.Bounce
	}
	if rbB != nil {
		velB = rbB.Velocity
		bounceB = rbB.Bounce
	}

	velAlongNormal := rl.Vector2DotProduct(rl.Vector2Subtract(velA, velB), contact.Normal)
	if velAlongNormal > 0 {
		return // already separating
	}

	invA := invMassOf(contact.Self)
	invB := invMassOf(contact.Other)
	totalInv := invA + invB
	if totalInv == 0 || math.IsInf(float64(totalInv), 1) {
		return
	}

	restitution := minf(bounceA, bounceB)
	j := -(1 + restitution) * velAlongNormal / totalInv
	impulse := rl.Vector2Scale(contact.Normal, j)
	if rbA != nil {
		rbA.AddImpulse(impulse)
	}
	if rbB != nil {
		rbB.AddImpulse(rl.Vector2Negate(impulse))
	}
}

// invMassOf treats a collider without a rigidbody as immovable.
func invMassOf(c *Collider) float32 {
	rb := c.Rigidbody()
	if rb == nil {
		return 0
	}
	return rb.InvMass()
}

// ColliderCount returns the number of colliders in the subtree rooted at g.
// Used to short-circuit broad phase and prune raycast descent.
func ColliderCount(g *engine.GameObject) int {
	if !g.Active {
		return 0
	}
	count := 0
	if engine.GetComponent[*Collider](g) != nil {
		count = 1
	}
	for _, child := range g.Children {
		count += ColliderCount(child)
	}
	return count
}

// SubtreeBounds returns the AABB covering every collider in the subtree.
func SubtreeBounds(g *engine.GameObject) (AABB, bool) {
	if !g.Active {
		return AABB{}, false
	}
	var box AABB
	found := false
	if col := engine.GetComponent[*Collider](g); col != nil {
		if b, ok := col.BoundingBox(); ok {
			box = b
			found = true
		}
	}
	for _, child := range g.Children {
		if b, ok := SubtreeBounds(child); ok {
			if found {
				box = box.Merge(b)
			} else {
				box = b
				found = true
			}
		}
	}
	return box, found
}
