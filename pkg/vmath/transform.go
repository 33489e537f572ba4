package vmath

import "math"

// Quaternion represents a rotation in 3-space, backing the
// Transformation's rotation component. Unit quaternions only.
type Quaternion struct {
	W, X, Y, Z float64
}

// IdentityQuaternion is the no-op rotation.
var IdentityQuaternion = Quaternion{W: 1}

// QuaternionFromAxisAngle builds a unit quaternion rotating by angle
// radians around axis (which need not be pre-normalized).
func QuaternionFromAxisAngle(axis Vector, angle float64) Quaternion {
	u, ok := axis.Normalize()
	if !ok {
		return IdentityQuaternion
	}
	half := angle / 2
	s := math.Sin(half)
	return Quaternion{W: math.Cos(half), X: u.X * s, Y: u.Y * s, Z: u.Z * s}
}

// Conjugate returns the inverse rotation (unit quaternions only).
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Mul composes two rotations: applying the result rotates by o then q.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Rotate applies the rotation to a vector via q v q*.
func (q Quaternion) Rotate(v Vector) Vector {
	p := Quaternion{W: 0, X: v.X, Y: v.Y, Z: v.Z}
	r := q.Mul(p).Mul(q.Conjugate())
	return Vector{r.X, r.Y, r.Z}
}

// RotationBetween returns the quaternion that rotates unit vector a
// onto unit vector b, used to build the polygon-sampling frame that
// rotates a polygon's normal onto +Z (spec.md §4.2).
func RotationBetween(a, b UnitVector) Quaternion {
	cosTheta := a.DotUnit(b)
	if cosTheta > 1-1e-12 {
		return IdentityQuaternion
	}
	if cosTheta < -1+1e-12 {
		// 180 degrees: pick any axis perpendicular to a.
		perp := a.Cross(AxisX)
		if perp.LengthSquared() < 1e-12 {
			perp = a.Cross(AxisY)
		}
		axis, _ := perp.Normalize()
		return QuaternionFromAxisAngle(axis.Vector(), math.Pi)
	}
	axis := a.Cross(b)
	angle := math.Acos(math.Max(-1, math.Min(1, cosTheta)))
	return QuaternionFromAxisAngle(axis, angle)
}

// Transformation is a Sequential (Rotation, Translation, inverted-flag)
// triple. inverse() toggles the flag and inverts the components so
// that application order flips automatically: a non-inverted
// Transformation applies rotation then translation; an inverted one
// applies the inverse translation then the inverse rotation.
type Transformation struct {
	Rotation    Quaternion
	Translation Vector
	Inverted    bool
}

// Identity is the no-op transformation.
var Identity = Transformation{Rotation: IdentityQuaternion}

// NewTransformation builds a forward (non-inverted) transformation.
func NewTransformation(rotation Quaternion, translation Vector) Transformation {
	return Transformation{Rotation: rotation, Translation: translation}
}

// Inverse returns the inverse transformation in O(1).
func (t Transformation) Inverse() Transformation {
	return Transformation{
		Rotation:    t.Rotation.Conjugate(),
		Translation: t.Translation,
		Inverted:    !t.Inverted,
	}
}

// ApplyPoint transforms a point.
func (t Transformation) ApplyPoint(p Point) Point {
	if !t.Inverted {
		rotated := t.Rotation.Rotate(Vector{p.X, p.Y, p.Z})
		return Point{rotated.X + t.Translation.X, rotated.Y + t.Translation.Y, rotated.Z + t.Translation.Z}
	}
	translated := Vector{p.X - t.Translation.X, p.Y - t.Translation.Y, p.Z - t.Translation.Z}
	rotated := t.Rotation.Rotate(translated)
	return Point{rotated.X, rotated.Y, rotated.Z}
}

// ApplyVector transforms a free vector (translation does not apply).
func (t Transformation) ApplyVector(v Vector) Vector {
	return t.Rotation.Rotate(v)
}

// ApplyUnit transforms a unit vector, renormalizing defensively.
func (t Transformation) ApplyUnit(u UnitVector) UnitVector {
	r, ok := t.ApplyVector(u.Vector()).Normalize()
	if !ok {
		return u
	}
	return r
}
