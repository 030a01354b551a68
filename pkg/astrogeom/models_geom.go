package astrogeom

// =========== GEOMETRY MODELS ========

// Point is a 2D coordinate in the map plane.
type Point struct {
	X, Y float64
}

// Position is the planar pose of a rigid body. Orientation is in degrees,
// counter-clockwise from north.
type Position struct {
	X           float64
	Y           float64
	Orientation float64
}

func (p Position) Center() Point {
	return Point{X: p.X, Y: p.Y}
}

// Dimensions of the body footprint: Front is the front (rear) edge length,
// Side is the side edge length.
type Dimensions struct {
	Front float64
	Side  float64
}

// Vertices holds the four labeled corners of the footprint rectangle.
type Vertices struct {
	FrontLeft  Point
	FrontRight Point
	RearRight  Point
	RearLeft   Point
}

// Corners returns the vertices in report order.
func (v Vertices) Corners() [4]Point {
	return [4]Point{v.FrontLeft, v.FrontRight, v.RearRight, v.RearLeft}
}

// Rectangle is an axis-aligned envelope: min corner plus extent.
type Rectangle struct {
	X, Y, Width, Height float64
}
