// Package vmath implements the renderer's strongly-typed geometry
// primitives: arbitrary vectors, unit vectors, surface normals and ray
// directions, affine points, and the non-negative Distance/Area scalar
// wrappers. Everything here is built on val.Val so that comparisons
// stay tolerance-aware throughout the kernel.
package vmath

import (
	"math"

	"github.com/df07/photontrace/pkg/val"
)

// Vector is an arbitrary 3-vector: a direction together with a magnitude.
type Vector struct {
	X, Y, Z float64
}

// NewVector creates a Vector from components.
func NewVector(x, y, z float64) Vector { return Vector{X: x, Y: y, Z: z} }

// Add returns the sum of two vectors.
func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns the difference of two vectors.
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns the vector scaled by a scalar.
func (v Vector) Scale(s float64) Vector { return Vector{v.X * s, v.Y * s, v.Z * s} }

// Negate returns the vector pointing the opposite way.
func (v Vector) Negate() Vector { return Vector{-v.X, -v.Y, -v.Z} }

// Dot returns the dot product of two vectors.
func (v Vector) Dot(o Vector) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product of two vectors.
func (v Vector) Cross(o Vector) Vector {
	return Vector{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// LengthSquared returns the squared magnitude.
func (v Vector) LengthSquared() float64 { return v.Dot(v) }

// Length returns the magnitude.
func (v Vector) Length() float64 { return math.Sqrt(v.LengthSquared()) }

// IsZero reports whether the vector has (within Epsilon) zero length.
func (v Vector) IsZero() bool { return val.Of(v.LengthSquared()).IsZero() }

// Normalize returns the unit vector in the direction of v. It reports
// ok=false for a zero (or near-zero) vector rather than panicking —
// this is the "numerical degeneracy" path from spec.md §7: callers
// must treat a failed normalize as "no contribution".
func (v Vector) Normalize() (UnitVector, bool) {
	length := v.Length()
	if val.Of(length).IsZero() {
		return UnitVector{}, false
	}
	inv := 1.0 / length
	return UnitVector{v.X * inv, v.Y * inv, v.Z * inv}, true
}

// UnitVector is a Vector of magnitude 1. The zero value is not a valid
// UnitVector; construct one via Normalize or the Axis helpers.
type UnitVector struct {
	X, Y, Z float64
}

// AxisX, AxisY, AxisZ are the standard basis directions.
var (
	AxisX = UnitVector{1, 0, 0}
	AxisY = UnitVector{0, 1, 0}
	AxisZ = UnitVector{0, 0, 1}
)

// Vector widens a UnitVector back to a general Vector.
func (u UnitVector) Vector() Vector { return Vector{u.X, u.Y, u.Z} }

// Dot returns the dot product against a general vector.
func (u UnitVector) Dot(o Vector) float64 { return u.X*o.X + u.Y*o.Y + u.Z*o.Z }

// DotUnit returns the dot product against another unit vector.
func (u UnitVector) DotUnit(o UnitVector) float64 { return u.X*o.X + u.Y*o.Y + u.Z*o.Z }

// Negate flips the direction; the result is still unit length.
func (u UnitVector) Negate() UnitVector { return UnitVector{-u.X, -u.Y, -u.Z} }

// Scale widens to a Vector scaled by s (no longer unit length in general).
func (u UnitVector) Scale(s float64) Vector { return u.Vector().Scale(s) }

// Cross returns the (generally non-unit) cross product.
func (u UnitVector) Cross(o UnitVector) Vector { return u.Vector().Cross(o.Vector()) }

// Reflect reflects u about the normal n (both unit), per the standard
// r = u - 2(u.n)n identity; the result is renormalized defensively.
func (u UnitVector) Reflect(n UnitVector) UnitVector {
	r := u.Vector().Sub(n.Scale(2 * u.Dot(n.Vector())))
	uv, ok := r.Normalize()
	if !ok {
		return n
	}
	return uv
}

// Normal is a UnitVector carrying surface-normal intent.
type Normal = UnitVector

// Direction is a UnitVector carrying ray-direction intent. Kept as a
// distinct named type (not a pure alias) so that Ray.Direction and
// Intersection.Normal cannot be silently interchanged by the compiler
// in function signatures that name the type explicitly.
type Direction struct{ UnitVector }

// NewDirection wraps a UnitVector as a Direction.
func NewDirection(u UnitVector) Direction { return Direction{u} }

// Point is an affine position: it supports subtraction (yielding a
// Vector) and translation by a Vector, but never addition with
// another Point.
type Point struct {
	X, Y, Z float64
}

// NewPoint constructs a Point from components.
func NewPoint(x, y, z float64) Point { return Point{X: x, Y: y, Z: z} }

// Sub returns the displacement vector from o to p.
func (p Point) Sub(o Point) Vector { return Vector{p.X - o.X, p.Y - o.Y, p.Z - o.Z} }

// Translate returns p displaced by v.
func (p Point) Translate(v Vector) Point { return Point{p.X + v.X, p.Y + v.Y, p.Z + v.Z} }

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(o Point) Distance {
	return Distance(p.Sub(o).Length())
}
