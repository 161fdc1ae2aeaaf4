// Package geom provides the small set of 3D primitives the grasp engine
// needs: rigid 4x4 transforms, point/vector transformation, and angle
// computation between unit vectors.
//
// Transforms are [16]float64 row-major (m00..m03, m10..m13, m20..m23,
// m30..m33), matching the pose convention used across the simulator
// boundary. All functions are pure. Degenerate input (NaN coordinates,
// zero-length vectors passed to Normalize or AngleBetween) propagates
// unchanged; behaviour in that case is undefined rather than checked.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mat4 is a 4x4 homogeneous transform in row-major order.
type Mat4 [16]float64

// Identity returns the identity transform.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a pure translation transform moving the origin to v.
func Translate(v r3.Vec) Mat4 {
	return Mat4{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}
}

// Mul composes two transforms: applying the result is equivalent to
// applying b first, then m.
func (m Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * b[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

// Inverse returns the inverse of a rigid transform (rotation + translation).
// It exploits rigidity: the rotation block inverts by transpose and the
// translation by -R^T * t. Not valid for transforms with scale or shear.
func (m Mat4) Inverse() Mat4 {
	var out Mat4
	// Transpose the 3x3 rotation block.
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out[row*4+col] = m[col*4+row]
		}
	}
	// t' = -R^T * t
	tx, ty, tz := m[3], m[7], m[11]
	out[3] = -(out[0]*tx + out[1]*ty + out[2]*tz)
	out[7] = -(out[4]*tx + out[5]*ty + out[6]*tz)
	out[11] = -(out[8]*tx + out[9]*ty + out[10]*tz)
	out[15] = 1
	return out
}

// TransformPoint applies the full transform (rotation and translation) to p.
func (m Mat4) TransformPoint(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3],
		Y: m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7],
		Z: m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11],
	}
}

// TransformVector applies only the rotation block to v, ignoring translation.
func (m Mat4) TransformVector(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}

// WithTranslation returns a copy of the transform with its translation
// component replaced by v, rotation untouched.
func (m Mat4) WithTranslation(v r3.Vec) Mat4 {
	out := m
	out[3], out[7], out[11] = v.X, v.Y, v.Z
	return out
}

// Translation returns the translation component of the transform.
func (m Mat4) Translation() r3.Vec {
	return r3.Vec{X: m[3], Y: m[7], Z: m[11]}
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// Normalize returns v scaled to unit length. A zero-length input yields
// NaN components (undefined behaviour, propagated rather than checked).
func Normalize(v r3.Vec) r3.Vec {
	return r3.Unit(v)
}

// AngleBetween returns the angle in radians between two unit vectors.
// The dot product is clamped into [-1, 1] to guard against floating-point
// drift pushing arccos out of its domain.
func AngleBetween(a, b r3.Vec) float64 {
	cosine := r3.Dot(a, b)
	if cosine > 1 {
		cosine = 1
	} else if cosine < -1 {
		cosine = -1
	}
	return math.Acos(cosine)
}
