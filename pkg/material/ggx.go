package material

import (
	"math"

	"github.com/df07/photontrace/pkg/vmath"
)

// ggxD evaluates the GGX normal distribution function in the local
// shading frame (m given as (x,y,z) with z along the shading normal).
func ggxD(m vmath.Vector, alpha float64) float64 {
	cos2Theta := m.Z * m.Z
	if cos2Theta <= 0 {
		return 0
	}
	tan2Theta := (1 - cos2Theta) / cos2Theta
	a2 := alpha * alpha
	denom := math.Pi * cos2Theta * cos2Theta * (a2 + tan2Theta) * (a2 + tan2Theta)
	if denom <= 0 {
		return 0
	}
	return a2 / denom
}

// ggxLambda is the Smith masking auxiliary function.
func ggxLambda(w vmath.Vector, alpha float64) float64 {
	cos2Theta := w.Z * w.Z
	if cos2Theta >= 1 {
		return 0
	}
	tan2Theta := (1 - cos2Theta) / cos2Theta
	return (math.Sqrt(1+alpha*alpha*tan2Theta) - 1) / 2
}

// ggxG1 is the Smith masking term for a single direction.
func ggxG1(w vmath.Vector, alpha float64) float64 {
	return 1 / (1 + ggxLambda(w, alpha))
}

// ggxG2 is the height-correlated Smith shadowing-masking term for a
// pair of directions (spec.md §4.3).
func ggxG2(wo, wi vmath.Vector, alpha float64) float64 {
	return 1 / (1 + ggxLambda(wo, alpha) + ggxLambda(wi, alpha))
}

// sampleGGXVNDF samples a visible half-vector in the local frame
// following Heitz 2018's VNDF sampling routine.
func sampleGGXVNDF(wo vmath.Vector, alpha float64, u1, u2 float64) vmath.Vector {
	vh, _ := vmath.Vector{X: alpha * wo.X, Y: alpha * wo.Y, Z: wo.Z}.Normalize()

	lenSq := vh.X*vh.X + vh.Y*vh.Y
	var t1 vmath.Vector
	if lenSq > 0 {
		t1 = vmath.Vector{X: -vh.Y, Y: vh.X, Z: 0}.Scale(1 / math.Sqrt(lenSq))
	} else {
		t1 = vmath.Vector{X: 1}
	}
	t2 := vh.Vector().Cross(t1)

	r := math.Sqrt(u1)
	phi := 2 * math.Pi * u2
	p1 := r * math.Cos(phi)
	p2raw := r * math.Sin(phi)
	s := 0.5 * (1 + vh.Z)
	p2 := (1-s)*math.Sqrt(math.Max(0, 1-p1*p1)) + s*p2raw

	nh := t1.Scale(p1).Add(t2.Scale(p2)).Add(vh.Vector().Scale(math.Sqrt(math.Max(0, 1-p1*p1-p2*p2))))
	local := vmath.Vector{X: alpha * nh.X, Y: alpha * nh.Y, Z: math.Max(1e-6, nh.Z)}
	n, _ := local.Normalize()
	return n.Vector()
}

// toLocal builds an orthonormal frame around normal and expresses v in
// it, returning (x,y,z) with z along normal.
func toLocal(normal vmath.Normal, v vmath.Vector) vmath.Vector {
	w := normal.Vector()
	var a vmath.Vector
	if math.Abs(w.X) > 0.9 {
		a = vmath.Vector{Y: 1}
	} else {
		a = vmath.Vector{X: 1}
	}
	t, _ := w.Cross(a).Normalize()
	bt := t.Vector().Cross(w)
	return vmath.Vector{X: v.Dot(t.Vector()), Y: v.Dot(bt), Z: v.Dot(w)}
}

func toWorld(normal vmath.Normal, local vmath.Vector) vmath.Vector {
	w := normal.Vector()
	var a vmath.Vector
	if math.Abs(w.X) > 0.9 {
		a = vmath.Vector{Y: 1}
	} else {
		a = vmath.Vector{X: 1}
	}
	t, _ := w.Cross(a).Normalize()
	bt := t.Vector().Cross(w)
	return t.Scale(local.X).Add(bt.Scale(local.Y)).Add(w.Scale(local.Z))
}

// roughnessToAlpha maps a perceptual roughness in (0,1] to the GGX
// alpha parameter, used directly without the alpha=roughness² remap.
func roughnessToAlpha(roughness float64) float64 {
	if roughness < 1e-4 {
		roughness = 1e-4
	}
	return roughness
}
