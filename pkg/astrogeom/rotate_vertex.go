package astrogeom

import "math"

const degToRad = math.Pi / 180

// DegToRad converts an orientation in degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * degToRad
}

// Rotate turns p counter-clockwise around pivot by rad radians.
func Rotate(pivot, p Point, rad float64) Point {
	sin, cos := math.Sincos(rad)

	xo := p.X - pivot.X
	yo := p.Y - pivot.Y

	xp := xo*cos - yo*sin
	yp := yo*cos + xo*sin

	return Point{X: xp + pivot.X, Y: yp + pivot.Y}
}

// Rotate returns the vertices turned around pivot, corner by corner.
func (v Vertices) Rotate(pivot Point, rad float64) Vertices {
	v.FrontLeft = Rotate(pivot, v.FrontLeft, rad)
	v.FrontRight = Rotate(pivot, v.FrontRight, rad)
	v.RearRight = Rotate(pivot, v.RearRight, rad)
	v.RearLeft = Rotate(pivot, v.RearLeft, rad)
	return v
}
