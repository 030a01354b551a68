package astrotank

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asteroidea-tn/tankbox/pkg/astrogeom"
	"github.com/Asteroidea-tn/tankbox/pkg/astrolog"
)

const referenceOutput = `un-rotated tank bounding rectangle coords
front left  2.400 4.250
front right 3.600 4.250
rear  right 3.600 1.750
rear  left  2.400 1.750
rotated tank bounding rectangle coords
front left  4.250 3.600
front right 4.250 2.400
rear  right 1.750 2.400
rear  left  1.750 3.600
`

func TestRunReferenceOutput(t *testing.T) {
	var out bytes.Buffer
	res, err := Run(DefaultTank(), &out)
	require.NoError(t, err)

	assert.Equal(t, referenceOutput, out.String())
	assert.Equal(t, referenceOutput, res.Report)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
}

func TestRunLogsRunID(t *testing.T) {
	var logs bytes.Buffer
	closer := astrolog.InitLogger(astrolog.Config{LogLevel: "debug", Console: &logs, NoColor: true})
	defer closer.Close()
	defer astrolog.UpdateLogLevel("info")

	var out bytes.Buffer
	res, err := Run(DefaultTank(), &out)
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "run_id="+res.RunID)
	assert.Contains(t, logs.String(), "Rotated rectangle")
	assert.NotContains(t, out.String(), res.RunID)
}

func TestRunResultGeometry(t *testing.T) {
	res, err := Run(DefaultTank(), &bytes.Buffer{})
	require.NoError(t, err)

	assert.InDelta(t, 2.4, res.Unrotated.FrontLeft.X, 1e-9)
	assert.InDelta(t, 4.25, res.Unrotated.FrontLeft.Y, 1e-9)
	assert.InDelta(t, 4.25, res.Rotated.FrontLeft.X, 1e-3)
	assert.InDelta(t, 3.6, res.Rotated.FrontLeft.Y, 1e-3)

	assert.InDelta(t, 1.75, res.Envelope.X, 1e-9)
	assert.InDelta(t, 2.4, res.Envelope.Y, 1e-9)
	assert.InDelta(t, 2.5, res.Envelope.Width, 1e-9)
	assert.InDelta(t, 1.2, res.Envelope.Height, 1e-9)
}

func TestRunRigidUnderAnyOrientation(t *testing.T) {
	tank := DefaultTank()
	for _, deg := range []float64{0, 30, 90, 180, 359.5, 1080, -45} {
		tank.Rotation = deg
		res, err := Run(tank, &bytes.Buffer{})
		require.NoError(t, err)

		c := res.Rotated.Corners()
		assert.InDelta(t, tank.Front, math.Hypot(c[1].X-c[0].X, c[1].Y-c[0].Y), 1e-9)
		assert.InDelta(t, tank.Side, math.Hypot(c[2].X-c[1].X, c[2].Y-c[1].Y), 1e-9)
		assert.InDelta(t, math.Hypot(tank.Front, tank.Side), math.Hypot(c[2].X-c[0].X, c[2].Y-c[0].Y), 1e-9)
	}
}

func TestRunZeroRotationRepeatsBlock(t *testing.T) {
	tank := DefaultTank()
	tank.Rotation = 0

	res, err := Run(tank, &bytes.Buffer{})
	require.NoError(t, err)
	before, after := res.Unrotated.Corners(), res.Rotated.Corners()
	for i := range before {
		assert.InDelta(t, before[i].X, after[i].X, 1e-12)
		assert.InDelta(t, before[i].Y, after[i].Y, 1e-12)
	}
}

func TestRunRejectsInvalidDimensions(t *testing.T) {
	tank := DefaultTank()
	tank.Side = 0

	var out bytes.Buffer
	res, err := Run(tank, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, astrogeom.ErrInvalidDimension))
	assert.Empty(t, out.String())
	assert.NotEmpty(t, res.RunID)

	tank.Validate = false
	_, err = Run(tank, &out)
	assert.NoError(t, err)
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestRunWriteError(t *testing.T) {
	_, err := Run(DefaultTank(), brokenWriter{})
	assert.EqualError(t, err, "closed pipe")
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, DefaultTank(), cfg.Tank)
	assert.Equal(t, "info", cfg.Log.LogLevel)
	assert.Equal(t, "tankbox", cfg.Log.LogFileName)
	assert.False(t, cfg.Mail.Enabled())
	assert.Equal(t, 587, cfg.Mail.Port)
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "tank.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("tank:\n  rotation: 90\n  front: 2\nmail:\n  host: smtp.example.com\n"), 0o644))

	t.Setenv("TANK_ROT", "45")
	t.Setenv("TANK_SIDE", "4")

	cfg, err := LoadConfig(yamlPath, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 90.0, cfg.Tank.Rotation) // file wins over env
	assert.Equal(t, 2.0, cfg.Tank.Front)
	assert.Equal(t, 4.0, cfg.Tank.Side) // env wins over default
	assert.Equal(t, 3.0, cfg.Tank.X)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, yamlPath, cfg.ConfigFile)
}

func TestLoadConfigFileFromEnv(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "tank.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("tank:\n  x: -1.5\n"), 0o644))
	t.Setenv("TANK_CONFIG_FILE", yamlPath)

	cfg, err := LoadConfig("", filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, -1.5, cfg.Tank.X)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("bad env", func(t *testing.T) {
		t.Setenv("TANK_FRONT", "wide")
		_, err := LoadConfig("", filepath.Join(dir, "missing.env"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"Front"`)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "missing.env"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tank:\n  turret: 1\n"), 0o644))
		_, err := LoadConfig(path, filepath.Join(dir, "missing.env"))
		assert.Error(t, err)
	})
}
