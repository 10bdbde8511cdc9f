package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"test2d/internal/engine"
)

// Rigidbody holds per-entity physical state and advances it one fixed tick
// at a time. It is registered with the PhysicsWorld on creation and
// unregistered when its owner is destroyed.
type Rigidbody struct {
	engine.BaseComponent
	Mass         float32
	Kinematic    bool // moves only from external writes, never from forces or impulses
	GravityScale float32
	Bounce       float32 // restitution, 0 = inelastic, 1 = perfectly elastic
	Velocity     rl.Vector2

	force rl.Vector2 // per-tick accumulator, cleared after integration
}

func NewRigidbody() *Rigidbody {
	return &Rigidbody{
		Mass:         1,
		GravityScale: 1,
	}
}

// InvMass derives the inverse mass: 0 for kinematic bodies regardless of
// mass, 1/mass for positive mass, +Inf for a zero-mass non-kinematic body
// (an infinitely movable probe — a preserved quirk, see DESIGN.md).
func (r *Rigidbody) InvMass() float32 {
	if r.Kinematic {
		return 0
	}
	if r.Mass > 0 {
		return 1 / r.Mass
	}
	return float32(math.Inf(1))
}

// AddForce accumulates a force applied over the next fixed tick.
func (r *Rigidbody) AddForce(f rl.Vector2) {
	r.force = rl.Vector2Add(r.force, f)
}

// AddImpulse applies an instantaneous velocity change: Δv = impulse * invMass.
// Kinematic bodies ignore impulses. Massless bodies (infinite inverse mass)
// also ignore them: their response is undefined, and they already absorb the
// full positional correction.
func (r *Rigidbody) AddImpulse(impulse rl.Vector2) {
	inv := r.InvMass()
	if inv == 0 || math.IsInf(float64(inv), 1) {
		return
	}
	r.Velocity = rl.Vector2Add(r.Velocity, rl.Vector2Scale(impulse, inv))
}

// PhysicsUpdate advances velocity and position by one fixed tick using the
// accumulated force plus gravity*gravityScale, then clears the accumulator.
// The gravity vector is owned by the PhysicsWorld and passed in explicitly.
func (r *Rigidbody) PhysicsUpdate(fixedDeltaTime float32, gravity rl.Vector2) {
	defer func() { r.force = rl.Vector2{} }()

	inv := r.InvMass()
	if inv == 0 {
		return
	}

	accel := rl.Vector2Scale(gravity, r.GravityScale)
	if !math.IsInf(float64(inv), 1) {
		accel = rl.Vector2Add(accel, rl.Vector2Scale(r.force, inv))
	}
	r.Velocity = rl.Vector2Add(r.Velocity, rl.Vector2Scale(accel, fixedDeltaTime))

	g := r.GetGameObject()
	if g == nil {
		return
	}
	g.Transform.Position = rl.Vector2Add(g.Transform.Position, rl.Vector2Scale(r.Velocity, fixedDeltaTime))
}
