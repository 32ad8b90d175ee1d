// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom holds the small real/complex 3-vector and 3x3-matrix algebra
// shared by the frame, coupling, zeeman, correlation, and unfold packages.
// Every quantity in the spec this module implements lives in a fixed 3D
// Cartesian or fractional space, so fixed-size arrays are used throughout
// instead of general-purpose slices or a full matrix library.
package geom

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vec3 is a real Cartesian or fractional 3-vector.
type Vec3 [3]float64

// Cplx3 is a complex 3-vector, typically the transverse basis z = e1 + i*e2.
type Cplx3 [3]complex128

// Mat3 is a row-major real 3x3 matrix.
type Mat3 [3][3]float64

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(floats.Dot(v[:], v[:]))
}

// Scale returns s*v.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

// Unit returns v normalized, or v itself if it is already (near) zero.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n < 1e-300 {
		return v
	}
	return v.Scale(1 / n)
}

// Dot is the real dot product.
func Dot(a, b Vec3) float64 { return floats.Dot(a[:], b[:]) }

// Cross is the real cross product.
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Skew returns the skew-symmetric cross-product matrix [n]x such that
// [n]x * v == n cross v.
func Skew(n Vec3) Mat3 {
	return Mat3{
		{0, -n[2], n[1]},
		{n[2], 0, -n[0]},
		{-n[1], n[0], 0},
	}
}

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// MulMat returns a*b.
func MulMat(a, b Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += a[i][k] * b[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

// AddMat returns a+b.
func AddMat(a, b Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][j] + b[i][j]
		}
	}
	return out
}

// SubMat returns a-b.
func SubMat(a, b Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][j] - b[i][j]
		}
	}
	return out
}

// ScaleMat returns s*a.
func ScaleMat(a Mat3, s float64) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][j] * s
		}
	}
	return out
}

// MulVec returns a*v.
func MulVec(a Mat3, v Vec3) Vec3 {
	var out Vec3
	for i := 0; i < 3; i++ {
		out[i] = a[i][0]*v[0] + a[i][1]*v[1] + a[i][2]*v[2]
	}
	return out
}

// VecMulMat returns v^T * a (a row vector times a matrix).
func VecMulMat(v Vec3, a Mat3) Vec3 {
	var out Vec3
	for j := 0; j < 3; j++ {
		out[j] = v[0]*a[0][j] + v[1]*a[1][j] + v[2]*a[2][j]
	}
	return out
}

// Rodrigues returns the rotation matrix by angle theta (radians) around the
// unit axis n.
func Rodrigues(n Vec3, theta float64) Mat3 {
	nx := Skew(n)
	nx2 := MulMat(nx, nx)
	s, c := math.Sin(theta), math.Cos(theta)
	return AddMat(AddMat(Identity3(), ScaleMat(nx, s)), ScaleMat(nx2, 1-c))
}

// Conj returns the complex conjugate of c.
func Conj(c complex128) complex128 { return complex(real(c), -imag(c)) }

// ConjVec3 conjugates each component of a complex 3-vector.
func ConjVec3(v Cplx3) Cplx3 { return Cplx3{Conj(v[0]), Conj(v[1]), Conj(v[2])} }

// DotC is the (non-conjugated) complex bilinear dot product a.b = sum a_i b_i.
func DotC(a, b Cplx3) complex128 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// DotCReal dots a real 3-vector into a complex 3-vector.
func DotCReal(a Cplx3, b Vec3) complex128 {
	return a[0]*complex(b[0], 0) + a[1]*complex(b[1], 0) + a[2]*complex(b[2], 0)
}

// QuadC computes a . M . b for real 3x3 M and complex 3-vectors a, b
// (a^T M b, no conjugation -- callers conjugate a or b explicitly as the
// spec formula requires).
func QuadC(a Cplx3, m Mat3, b Cplx3) complex128 {
	var out complex128
	for i := 0; i < 3; i++ {
		var row complex128
		for j := 0; j < 3; j++ {
			row += complex(m[i][j], 0) * b[j]
		}
		out += a[i] * row
	}
	return out
}

// QuadReal computes a . M . b for real 3x3 M and real 3-vectors.
func QuadReal(a Vec3, m Mat3, b Vec3) float64 {
	var out float64
	for i := 0; i < 3; i++ {
		var row float64
		for j := 0; j < 3; j++ {
			row += m[i][j] * b[j]
		}
		out += a[i] * row
	}
	return out
}
