package astroreport

import (
	"fmt"
	"io"

	"github.com/Asteroidea-tn/tankbox/pkg/astrogeom"
)

const (
	HeaderUnrotated = "un-rotated tank bounding rectangle coords"
	HeaderRotated   = "rotated tank bounding rectangle coords"
)

// labels are padded to a common width; the spacing is part of the output format.
var labels = [4]string{
	"front left ",
	"front right",
	"rear  right",
	"rear  left ",
}

// Write prints one line per vertex, in front-left, front-right, rear-right,
// rear-left order, with both coordinates to three decimals.
func Write(w io.Writer, v astrogeom.Vertices) error {
	for i, p := range v.Corners() {
		if _, err := fmt.Fprintf(w, "%s %.3f %.3f\n", labels[i], p.X, p.Y); err != nil {
			return err
		}
	}
	return nil
}

// WriteBlock writes header on its own line followed by the vertex lines.
func WriteBlock(w io.Writer, header string, v astrogeom.Vertices) error {
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	return Write(w, v)
}
