package astrogeom

// ExtractBoundingBox returns the axis-aligned envelope of four points.
func ExtractBoundingBox(p1, p2, p3, p4 Point) Rectangle {
	points := []Point{p1, p2, p3, p4}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y

	for _, p := range points[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	return Rectangle{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Envelope is the bounding box of the footprint.
func (v Vertices) Envelope() Rectangle {
	return ExtractBoundingBox(v.FrontLeft, v.FrontRight, v.RearRight, v.RearLeft)
}
