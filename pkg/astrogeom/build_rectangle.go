package astrogeom

import (
	"errors"
	"fmt"
)

var ErrInvalidDimension = errors.New("invalid dimension")

// Validate fails with ErrInvalidDimension when either dimension is not positive.
func (d Dimensions) Validate() error {
	if d.Front <= 0 {
		return fmt.Errorf("front %v: %w", d.Front, ErrInvalidDimension)
	}
	if d.Side <= 0 {
		return fmt.Errorf("side %v: %w", d.Side, ErrInvalidDimension)
	}
	return nil
}

// BuildRectangle lays out the axis-aligned footprint around center.
// The front edge runs along x and the sides along y.
func BuildRectangle(center Point, dim Dimensions) Vertices {
	halfFront := dim.Front / 2
	halfSide := dim.Side / 2

	return Vertices{
		FrontLeft:  Point{X: center.X - halfFront, Y: center.Y + halfSide},
		FrontRight: Point{X: center.X + halfFront, Y: center.Y + halfSide},
		RearRight:  Point{X: center.X + halfFront, Y: center.Y - halfSide},
		RearLeft:   Point{X: center.X - halfFront, Y: center.Y - halfSide},
	}
}
