package geom

import "math"

// projectionEpsilon is the smallest usable perspective denominator.
const projectionEpsilon = 1e-9

// Rot4 holds angles in radians for the three rotation planes that mix a
// spatial axis with W.
type Rot4 struct {
	XW, YW, ZW float64
}

// Mat4 is a row-major 4x4 matrix.
type Mat4 struct {
	M [4][4]float64
}

func I4() Mat4 {
	var m Mat4
	for i := 0; i < 4; i++ {
		m.M[i][i] = 1
	}
	return m
}

func (a Mat4) Mul(b Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r.M[i][j] = a.M[i][0]*b.M[0][j] + a.M[i][1]*b.M[1][j] + a.M[i][2]*b.M[2][j] + a.M[i][3]*b.M[3][j]
		}
	}
	return r
}

func (a Mat4) Apply(v Vec4) Vec4 {
	return Vec4{
		a.M[0][0]*v.X + a.M[0][1]*v.Y + a.M[0][2]*v.Z + a.M[0][3]*v.W,
		a.M[1][0]*v.X + a.M[1][1]*v.Y + a.M[1][2]*v.Z + a.M[1][3]*v.W,
		a.M[2][0]*v.X + a.M[2][1]*v.Y + a.M[2][2]*v.Z + a.M[2][3]*v.W,
		a.M[3][0]*v.X + a.M[3][1]*v.Y + a.M[3][2]*v.Z + a.M[3][3]*v.W,
	}
}

func rotXW(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	m := I4()
	m.M[0][0], m.M[0][3] = c, -s
	m.M[3][0], m.M[3][3] = s, c
	return m
}

func rotYW(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	m := I4()
	m.M[1][1], m.M[1][3] = c, -s
	m.M[3][1], m.M[3][3] = s, c
	return m
}

func rotZW(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	m := I4()
	m.M[2][2], m.M[2][3] = c, -s
	m.M[3][2], m.M[3][3] = s, c
	return m
}

// Matrix composes the rotation. The point is rotated in XW first, then YW,
// then ZW, i.e. R = ZW · YW · XW.
func (r Rot4) Matrix() Mat4 {
	m := I4()
	m = rotXW(r.XW).Mul(m)
	m = rotYW(r.YW).Mul(m)
	m = rotZW(r.ZW).Mul(m)
	return m
}

// Apply rotates p in the same order as Matrix without building the matrix.
func (r Rot4) Apply(p Vec4) Vec4 {
	c, s := math.Cos(r.XW), math.Sin(r.XW)
	p.X, p.W = c*p.X-s*p.W, s*p.X+c*p.W
	c, s = math.Cos(r.YW), math.Sin(r.YW)
	p.Y, p.W = c*p.Y-s*p.W, s*p.Y+c*p.W
	c, s = math.Cos(r.ZW), math.Sin(r.ZW)
	p.Z, p.W = c*p.Z-s*p.W, s*p.Z+c*p.W
	return p
}

// Perspective4To3 divides by the distance to a 4D eye at W = depth.
func Perspective4To3(p Vec4, depth float64) (Vec3, bool) {
	d := depth - p.W
	if d <= projectionEpsilon {
		return Vec3{}, false
	}
	f := depth / d
	return Vec3{p.X * f, p.Y * f, p.Z * f}, true
}

// Perspective3To2 divides by the distance to a 3D eye at Z = depth and
// applies scale.
func Perspective3To2(p Vec3, depth, scale float64) (Vec2, bool) {
	d := depth - p.Z
	if d <= projectionEpsilon {
		return Vec2{}, false
	}
	g := depth / d * scale
	return Vec2{p.X * g, p.Y * g}, true
}

// Project4D rotates p (XW, YW, ZW in that order), then projects 4D to 3D and
// 3D to 2D with perspective divides at the same eye distance depth. The
// result is in model units times scale, centered on the origin. The bool is
// false when p lands at or behind either eye.
func Project4D(p Vec4, rot Rot4, depth, scale float64) (Vec2, bool) {
	p3, ok := Perspective4To3(rot.Apply(p), depth)
	if !ok {
		return Vec2{}, false
	}
	return Perspective3To2(p3, depth, scale)
}
