package main

import (
	"flag"
	"fmt"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"test2d/internal/config"
	"test2d/internal/engine"
	"test2d/internal/physics"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

type Game struct {
	log   *zap.Logger
	cfg   config.Config
	scene *engine.Scene
	world *physics.PhysicsWorld

	cfgUpdates chan config.Config
	bounce     float32
	spawnCount int
}

func main() {
	configPath := flag.String("config", "", "optional physics config YAML")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	g := &Game{
		log:        log,
		cfg:        cfg,
		bounce:     0.4,
		cfgUpdates: make(chan config.Config, 1),
	}

	if *configPath != "" {
		stop, err := config.Watch(*configPath, func(next config.Config) {
			// Hand off to the frame loop; physics is single-threaded.
			select {
			case g.cfgUpdates <- next:
			default:
			}
		})
		if err != nil {
			log.Warn("config watch disabled", zap.Error(err))
		} else {
			defer stop()
		}
	}

	g.Run()
}

func (g *Game) Run() {
	rl.SetConfigFlags(rl.FlagWindowHighdpi)
	rl.InitWindow(screenWidth, screenHeight, "2D Physics Sandbox")
	defer rl.CloseWindow()

	rl.SetTargetFPS(120)

	p := g.cfg.Physics
	world, err := physics.NewPhysicsWorld(physics.Options{
		CellSize:               p.SpatialHashCellSize,
		TicksPerSecond:         p.PhysicsPerSecond,
		MaxCollisionIterations: p.MaxCollisionIterations,
		MaxAccumulator:         p.MaxAccumulator,
		MinPenetration:         p.MinPenetration,
		GravityDirection:       rl.Vector2{X: p.Gravity.DirectionX, Y: p.Gravity.DirectionY},
		GravityScale:           p.Gravity.Scale,
		Logger:                 g.log,
	})
	if err != nil {
		g.log.Fatal("create physics world", zap.Error(err))
	}
	g.world = world

	g.scene = engine.NewScene("sandbox")
	g.createBounds()
	g.scene.Start()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
}

// createBounds builds the static floor and walls enclosing the sandbox.
func (g *Game) createBounds() {
	walls := []struct {
		name string
		pos  rl.Vector2
		size rl.Vector2
	}{
		{"floor", rl.Vector2{X: screenWidth / 2, Y: screenHeight - 20}, rl.Vector2{X: screenWidth, Y: 40}},
		{"left-wall", rl.Vector2{X: 20, Y: screenHeight / 2}, rl.Vector2{X: 40, Y: screenHeight}},
		{"right-wall", rl.Vector2{X: screenWidth - 20, Y: screenHeight / 2}, rl.Vector2{X: 40, Y: screenHeight}},
	}
	for _, w := range walls {
		obj := engine.NewGameObject(w.name)
		obj.Tags = []string{"static"}
		obj.Transform.Position = w.pos
		obj.AddComponent(physics.NewRectangleCollider(w.size))
		g.scene.AddGameObject(obj)
	}
}

func (g *Game) spawnCircle(pos rl.Vector2) {
	obj := engine.NewGameObject("ball")
	obj.Transform.Position = pos

	radius := 8 + rand.Float32()*16
	obj.AddComponent(physics.NewCircleCollider(radius))

	rb := physics.NewRigidbody()
	rb.Mass = radius * radius / 100
	rb.Bounce = g.bounce
	obj.AddComponent(rb)

	g.scene.AddGameObject(obj)
	g.world.RegisterRigidbody(rb)
	obj.Start()
	g.spawnCount++
}

func (g *Game) spawnBox(pos rl.Vector2) {
	obj := engine.NewGameObject("box")
	obj.Transform.Position = pos
	obj.Transform.Rotation = rand.Float32() * 360

	side := 16 + rand.Float32()*24
	obj.AddComponent(physics.NewRectangleCollider(rl.Vector2{X: side, Y: side}))

	rb := physics.NewRigidbody()
	rb.Mass = side * side / 200
	rb.Bounce = g.bounce
	obj.AddComponent(rb)

	g.scene.AddGameObject(obj)
	g.world.RegisterRigidbody(rb)
	obj.Start()
	g.spawnCount++
}

func (g *Game) Update() {
	select {
	case next := <-g.cfgUpdates:
		g.applyConfig(next)
	default:
	}

	deltaTime := rl.GetFrameTime()
	g.scene.Update(deltaTime)

	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && mouse.Y < screenHeight-120 {
		g.spawnCircle(mouse)
	}
	if rl.IsMouseButtonPressed(rl.MouseRightButton) && mouse.Y < screenHeight-120 {
		g.spawnBox(mouse)
	}

	g.world.Update(g.scene, deltaTime)

	// Probe ray from screen center toward the cursor, drawn in Draw.
	center := rl.Vector2{X: screenWidth / 2, Y: screenHeight / 2}
	g.world.Raycast(g.scene, physics.Ray{
		Origin:      center,
		Direction:   rl.Vector2Subtract(mouse, center),
		MaxDistance: 2000,
	})
}

// applyConfig applies hot-reloadable values. Structural parameters (cell
// size, tick rate) require a restart and are ignored here.
func (g *Game) applyConfig(next config.Config) {
	g.cfg = next
	g.world.SetGravityDirection(rl.Vector2{
		X: next.Physics.Gravity.DirectionX,
		Y: next.Physics.Gravity.DirectionY,
	})
	g.world.SetGravityScale(next.Physics.Gravity.Scale)
	g.log.Info("config reloaded",
		zap.Float32("gravityScale", next.Physics.Gravity.Scale))
}

func (g *Game) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(rl.NewColor(24, 24, 32, 255))

	for _, root := range g.scene.Roots() {
		drawColliders(root)
	}
	g.drawRaycasts()
	g.drawUI()
}

func drawColliders(obj *engine.GameObject) {
	if !obj.Active {
		return
	}
	if col := engine.GetComponent[*physics.Collider](obj); col != nil {
		color := rl.SkyBlue
		if obj.HasTag("static") {
			color = rl.Gray
		}
		switch col.Kind {
		case physics.ShapeCircle:
			rl.DrawCircleLinesV(col.Center(), col.WorldRadius(), color)
		default:
			corners := col.CollisionBounds()
			for i := 0; i < len(corners); i++ {
				rl.DrawLineV(corners[i], corners[(i+1)%len(corners)], color)
			}
		}
	}
	for _, child := range obj.Children {
		drawColliders(child)
	}
}

func (g *Game) drawRaycasts() {
	for _, rec := range g.world.Raycasts() {
		if rec.DidHit {
			rl.DrawLineV(rec.Ray.Origin, rec.Hit.Point, rl.Yellow)
			rl.DrawCircleV(rec.Hit.Point, 4, rl.Red)
			normalEnd := rl.Vector2Add(rec.Hit.Point, rl.Vector2Scale(rec.Hit.Normal, 24))
			rl.DrawLineV(rec.Hit.Point, normalEnd, rl.Green)
		} else {
			dir := rl.Vector2Normalize(rec.Ray.Direction)
			end := rl.Vector2Add(rec.Ray.Origin, rl.Vector2Scale(dir, rec.Ray.MaxDistance))
			rl.DrawLineV(rec.Ray.Origin, end, rl.Fade(rl.Yellow, 0.3))
		}
	}
}

func (g *Game) drawUI() {
	panel := rl.NewRectangle(10, screenHeight-110, 360, 100)
	gui.Panel(panel, "physics")

	scale := gui.Slider(rl.NewRectangle(90, screenHeight-90, 180, 20),
		"gravity", "", g.world.GravityScale(), -2000, 2000)
	g.world.SetGravityScale(scale)

	g.bounce = gui.Slider(rl.NewRectangle(90, screenHeight-60, 180, 20),
		"bounce", "", g.bounce, 0, 1)

	if gui.Button(rl.NewRectangle(290, screenHeight-90, 70, 24), "flip") {
		dir := g.world.GravityDirection()
		g.world.SetGravityDirection(rl.Vector2Negate(dir))
	}

	rl.DrawText("LMB: circle  RMB: box", 12, screenHeight-32, 16, rl.LightGray)
	rl.DrawFPS(screenWidth-100, 10)
	rl.DrawText(
		fmt.Sprintf("bodies: %d", int32(g.world.RigidbodyCount())),
		screenWidth-100, 36, 16, rl.LightGray)
}
