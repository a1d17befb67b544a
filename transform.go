package boxmark

import "math"

// ScreenToWorld maps a screen-space point into world space for the given
// viewport scale and offset. A non-positive scale is a caller error.
func ScreenToWorld(p Vec2, scale float64, offset Vec2) Vec2 {
	return Vec2{(p.X - offset.X) / scale, (p.Y - offset.Y) / scale}
}

// WorldToScreen maps a world-space point into screen space.
func WorldToScreen(p Vec2, scale float64, offset Vec2) Vec2 {
	return Vec2{p.X*scale + offset.X, p.Y*scale + offset.Y}
}

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// shapeTransform returns the local-to-world matrix of a rectangle whose
// top-left corner sits at (x, y), rotated by degrees around that corner and
// scaled by (sx, sy) along its own axes.
//
//	Scale(sx, sy) -> Rotate(deg) -> Translate(x, y)
func shapeTransform(x, y, deg, sx, sy float64) [6]float64 {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return [6]float64{cos * sx, sin * sx, -sin * sy, cos * sy, x, y}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ~ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// rotateVec rotates v by deg degrees (clockwise on a Y-down canvas).
func rotateVec(v Vec2, deg float64) Vec2 {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Corners returns the four world-space corners of a rectangle positioned at
// (x, y) with size (w, h) rotated by deg around its top-left corner, in
// clockwise order starting at the origin corner.
func Corners(x, y, w, h, deg float64) [4]Vec2 {
	m := shapeTransform(x, y, deg, 1, 1)
	var out [4]Vec2
	local := [4]Vec2{{0, 0}, {w, 0}, {w, h}, {0, h}}
	for i, p := range local {
		out[i].X, out[i].Y = transformPoint(m, p.X, p.Y)
	}
	return out
}

// boundsOf returns the axis-aligned bounding box of pts.
func boundsOf(pts []Vec2) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
