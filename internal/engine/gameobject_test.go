package engine

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestNewGameObject(t *testing.T) {
	obj := NewGameObject("TestObject")

	if obj.Name != "TestObject" {
		t.Errorf("Expected name 'TestObject', got '%s'", obj.Name)
	}

	if obj.UID == 0 {
		t.Error("UID should not be 0")
	}

	if obj.components == nil {
		t.Error("components slice should be initialized")
	}

	if obj.Transform.Scale.X != 1 || obj.Transform.Scale.Y != 1 {
		t.Error("default scale should be (1,1)")
	}
}

func TestGameObjectUniqueUIDs(t *testing.T) {
	obj1 := NewGameObject("First")
	obj2 := NewGameObject("Second")
	obj3 := NewGameObject("Third")

	if obj1.UID == obj2.UID {
		t.Error("GameObjects should have unique UIDs")
	}
	if obj2.UID == obj3.UID {
		t.Error("GameObjects should have unique UIDs")
	}
	if obj1.UID == obj3.UID {
		t.Error("GameObjects should have unique UIDs")
	}
}

func TestGameObjectHasTag(t *testing.T) {
	obj := NewGameObject("Test")
	obj.Tags = []string{"enemy", "ai", "dangerous"}

	if !obj.HasTag("enemy") {
		t.Error("HasTag should return true for existing tag")
	}

	if obj.HasTag("player") {
		t.Error("HasTag should return false for non-existent tag")
	}

	obj2 := NewGameObject("Test2")
	if obj2.HasTag("anything") {
		t.Error("HasTag should return false when Tags is nil/empty")
	}
}

func TestGameObjectParentChild(t *testing.T) {
	parent := NewGameObject("Parent")
	child := NewGameObject("Child")

	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("Child.Parent should be set")
	}

	if len(parent.Children) != 1 {
		t.Errorf("Expected 1 child, got %d", len(parent.Children))
	}
}

func TestGameObjectRemoveChild(t *testing.T) {
	parent := NewGameObject("Parent")
	child := NewGameObject("Child")

	parent.AddChild(child)
	parent.RemoveChild(child)

	if len(parent.Children) != 0 {
		t.Errorf("Expected 0 children, got %d", len(parent.Children))
	}

	if child.Parent != nil {
		t.Error("Child.Parent should be cleared")
	}
}

func TestWorldPositionNoParent(t *testing.T) {
	obj := NewGameObject("Test")
	obj.Transform.Position = rl.Vector2{X: 3, Y: -7}

	pos := obj.WorldPosition()
	if pos.X != 3 || pos.Y != -7 {
		t.Errorf("WorldPosition = (%v,%v), want (3,-7)", pos.X, pos.Y)
	}
}

func TestWorldPositionWithParent(t *testing.T) {
	parent := NewGameObject("Parent")
	parent.Transform.Position = rl.Vector2{X: 10, Y: 0}
	parent.Transform.Rotation = 90
	parent.Transform.Scale = rl.Vector2{X: 2, Y: 2}

	child := NewGameObject("Child")
	child.Transform.Position = rl.Vector2{X: 1, Y: 0}
	parent.AddChild(child)

	// Child local (1,0) scaled by 2 -> (2,0), rotated 90° -> (0,2), plus parent (10,0)
	pos := child.WorldPosition()
	if math.Abs(float64(pos.X-10)) > 1e-4 || math.Abs(float64(pos.Y-2)) > 1e-4 {
		t.Errorf("WorldPosition = (%v,%v), want (10,2)", pos.X, pos.Y)
	}

	if child.WorldRotation() != 90 {
		t.Errorf("WorldRotation = %v, want 90", child.WorldRotation())
	}

	scale := child.WorldScale()
	if scale.X != 2 || scale.Y != 2 {
		t.Errorf("WorldScale = (%v,%v), want (2,2)", scale.X, scale.Y)
	}
}

type testComponent struct {
	BaseComponent
	started bool
	updates int
}

func (c *testComponent) Start()                  { c.started = true }
func (c *testComponent) Update(deltaTime float32) { c.updates++ }

func TestGameObjectComponents(t *testing.T) {
	obj := NewGameObject("Test")
	comp := &testComponent{}
	obj.AddComponent(comp)

	if comp.GetGameObject() != obj {
		t.Error("AddComponent should set the component's GameObject")
	}

	found := GetComponent[*testComponent](obj)
	if found != comp {
		t.Error("GetComponent should find the added component")
	}

	obj.Start()
	if !comp.started {
		t.Error("Start should propagate to components")
	}

	obj.Update(0.016)
	if comp.updates != 1 {
		t.Errorf("Expected 1 update, got %d", comp.updates)
	}

	obj.Active = false
	obj.Update(0.016)
	if comp.updates != 1 {
		t.Error("Inactive GameObjects should not update components")
	}
}
