package astrotank

import (
	"bytes"
	"io"

	"github.com/google/uuid"

	"github.com/Asteroidea-tn/tankbox/pkg/astrogeom"
	"github.com/Asteroidea-tn/tankbox/pkg/astrolog"
	"github.com/Asteroidea-tn/tankbox/pkg/astroreport"
)

type Result struct {
	RunID     string
	Unrotated astrogeom.Vertices
	Rotated   astrogeom.Vertices
	Envelope  astrogeom.Rectangle
	Report    string // both blocks exactly as written to out
}

// Run builds the tank footprint, reports it, rotates it around its center by
// the tank's orientation and reports it again.
func Run(tank TankConfig, out io.Writer) (Result, error) {
	runID := uuid.NewString()
	logger := astrolog.GetLogger().With().Str("run_id", runID).Logger()

	pos := tank.Position()
	dim := tank.Dimensions()

	if tank.Validate {
		if err := dim.Validate(); err != nil {
			logger.Error().Err(err).Msg("Rejected tank dimensions")
			return Result{RunID: runID}, err
		}
	}

	var report bytes.Buffer
	w := io.MultiWriter(out, &report)

	center := pos.Center()
	unrotated := astrogeom.BuildRectangle(center, dim)
	logger.Debug().
		Float64("x", center.X).
		Float64("y", center.Y).
		Float64("front", dim.Front).
		Float64("side", dim.Side).
		Msg("Built un-rotated rectangle")

	if err := astroreport.WriteBlock(w, astroreport.HeaderUnrotated, unrotated); err != nil {
		return Result{RunID: runID}, err
	}

	rad := astrogeom.DegToRad(pos.Orientation)
	rotated := unrotated.Rotate(center, rad)
	env := rotated.Envelope()
	logger.Debug().
		Float64("degrees", pos.Orientation).
		Float64("radians", rad).
		Float64("env_x", env.X).
		Float64("env_y", env.Y).
		Float64("env_w", env.Width).
		Float64("env_h", env.Height).
		Msg("Rotated rectangle")

	if err := astroreport.WriteBlock(w, astroreport.HeaderRotated, rotated); err != nil {
		return Result{RunID: runID}, err
	}

	logger.Info().Msg("Tank bounding rectangle computed")

	return Result{
		RunID:     runID,
		Unrotated: unrotated,
		Rotated:   rotated,
		Envelope:  env,
		Report:    report.String(),
	}, nil
}
