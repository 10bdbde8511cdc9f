package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, float32(64), cfg.Physics.SpatialHashCellSize)
	assert.Equal(t, 60, cfg.Physics.PhysicsPerSecond)
	assert.Equal(t, 10, cfg.Physics.MaxCollisionIterations)
	assert.Equal(t, float32(0.2), cfg.Physics.MaxAccumulator)
	assert.Equal(t, float32(0.01), cfg.Physics.MinPenetration)
	assert.Equal(t, float32(0), cfg.Physics.Gravity.DirectionX)
	assert.Equal(t, float32(1), cfg.Physics.Gravity.DirectionY)
	assert.Equal(t, float32(980), cfg.Physics.Gravity.Scale)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	def, _ := Default()
	assert.Equal(t, def, cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "physics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
physics:
  physics_per_second: 120
  gravity:
    scale: 490
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Physics.PhysicsPerSecond)
	assert.Equal(t, float32(490), cfg.Physics.Gravity.Scale)
	// Untouched keys keep their defaults.
	assert.Equal(t, float32(64), cfg.Physics.SpatialHashCellSize)
	assert.Equal(t, 10, cfg.Physics.MaxCollisionIterations)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "physics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
physics:
  spatial_hash_cell_size: -5
`), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "spatial_hash_cell_size")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	cfg.Physics.PhysicsPerSecond = 0
	assert.ErrorContains(t, cfg.Validate(), "physics_per_second")

	cfg, _ = Default()
	cfg.Physics.MaxCollisionIterations = -1
	assert.ErrorContains(t, cfg.Validate(), "max_collision_iterations")

	cfg, _ = Default()
	cfg.Physics.MinPenetration = -0.1
	assert.ErrorContains(t, cfg.Validate(), "min_penetration")
}

func TestWatchReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "physics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("physics:\n  physics_per_second: 60\n"), 0o644))

	got := make(chan Config, 1)
	stop, err := Watch(path, func(cfg Config) {
		select {
		case got <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("physics:\n  physics_per_second: 120\n"), 0o644))

	select {
	case cfg := <-got:
		assert.Equal(t, 120, cfg.Physics.PhysicsPerSecond)
	case <-time.After(2 * time.Second):
		t.Fatal("config change was not observed")
	}
}
