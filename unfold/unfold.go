// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package unfold implements the incommensurate Q-tripling and the rotating
// frame "un-rotation" of the correlation tensor, component H of the linear
// spin-wave core.
package unfold

import (
	"github.com/spinw/gospinw/correlation"
	"github.com/spinw/gospinw/geom"
)

// Vec3 is a Cartesian or fractional 3-vector.
type Vec3 = geom.Vec3

// CMat3 is a 3x3 complex matrix, used for the rotating-frame operators K1
// and K2 of spec §4.H.
type CMat3 [3][3]complex128

// Triple returns the three Q points [Q-k, Q, Q+k] for one original point, in
// the order the "minus", "center", "plus" thirds of spec §4.H expect.
func Triple(q, k Vec3) [3]Vec3 {
	return [3]Vec3{q.Sub(k), q, q.Add(k)}
}

// Third names which of the three tripled Q points a given index belongs to.
type Third int

const (
	Minus Third = iota
	Center
	Plus
)

// ThirdOf returns which third a tripled index (0, 1, or 2 within a group of
// three) corresponds to.
func ThirdOf(indexInGroup int) Third { return Third(indexInGroup) }

// k1Matrix builds K1 = (1/2)(I - n.n^T - i*[n]x) of spec §4.H.
func k1Matrix(n Vec3) CMat3 {
	nnT := outer(n, n)
	skew := geom.Skew(n)
	var k CMat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			id := 0.0
			if r == c {
				id = 1
			}
			k[r][c] = complex(0.5*(id-nnT[r][c]), -0.5*skew[r][c])
		}
	}
	return k
}

// k2Matrix builds K2 = n.n^T of spec §4.H.
func k2Matrix(n Vec3) CMat3 {
	nnT := outer(n, n)
	var k CMat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			k[r][c] = complex(nnT[r][c], 0)
		}
	}
	return k
}

func outer(a, b Vec3) geom.Mat3 {
	var m geom.Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r][c] = a[r] * b[c]
		}
	}
	return m
}

func conjMat(k CMat3) CMat3 {
	var out CMat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = geom.Conj(k[r][c])
		}
	}
	return out
}

// mulTensorC right-multiplies a per-mode correlation tensor S by a complex
// 3x3 matrix k, i.e. S <- S.k (per spec's "Sab <- Sab * K1" notation).
func mulTensorC(s [3][3]complex128, k CMat3) [3][3]complex128 {
	var out [3][3]complex128
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var acc complex128
			for m := 0; m < 3; m++ {
				acc += s[r][m] * k[m][c]
			}
			out[r][c] = acc
		}
	}
	return out
}

// ApplyThird implements the per-third Sab rotation of spec §4.H.
func ApplyThird(sab correlation.Sab, third Third, n Vec3) correlation.Sab {
	var k CMat3
	switch third {
	case Plus:
		k = k1Matrix(n)
	case Center:
		k = k2Matrix(n)
	case Minus:
		k = conjMat(k1Matrix(n))
	}
	out := make(correlation.Sab, len(sab))
	for mu, s := range sab {
		out[mu] = mulTensorC(s, k)
	}
	return out
}

// mulRealC multiplies a real 3x3 matrix a by a complex tensor s: (a.s).
func mulRealC(a geom.Mat3, s [3][3]complex128) [3][3]complex128 {
	var out [3][3]complex128
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var acc complex128
			for m := 0; m < 3; m++ {
				acc += complex(a[r][m], 0) * s[m][c]
			}
			out[r][c] = acc
		}
	}
	return out
}

// mulCReal multiplies a complex tensor s by a real 3x3 matrix a: (s.a).
func mulCReal(s [3][3]complex128, a geom.Mat3) [3][3]complex128 {
	var out [3][3]complex128
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var acc complex128
			for m := 0; m < 3; m++ {
				acc += s[r][m] * complex(a[m][c], 0)
			}
			out[r][c] = acc
		}
	}
	return out
}

func scaleTensor(a [3][3]complex128, s complex128) [3][3]complex128 {
	var out [3][3]complex128
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = a[r][c] * s
		}
	}
	return out
}

// IntegrateHelicalPhase implements the helical initial-phase integration of
// spec §4.H:
// Sab <- 1/2 Sab - 1/2 [n]x Sab [n]x + 1/2 (nnT - I) Sab nnT + 1/2 nnT Sab (2nnT - I).
func IntegrateHelicalPhase(sab correlation.Sab, n Vec3) correlation.Sab {
	skew := geom.Skew(n)
	nnT := outer(n, n)
	id := geom.Identity3()
	nnTMinusI := geom.SubMat(nnT, id)
	twoNnTMinusI := geom.SubMat(geom.ScaleMat(nnT, 2), id)

	out := make(correlation.Sab, len(sab))
	for mu, s := range sab {
		term1 := scaleTensor(s, 0.5)
		term2 := scaleTensor(mulRealC(skew, mulCReal(s, skew)), -0.5)
		term3 := scaleTensor(mulRealC(nnTMinusI, mulCReal(s, nnT)), 0.5)
		term4 := scaleTensor(mulRealC(nnT, mulCReal(s, twoNnTMinusI)), 0.5)

		var sum [3][3]complex128
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				sum[r][c] = term1[r][c] + term2[r][c] + term3[r][c] + term4[r][c]
			}
		}
		out[mu] = sum
	}
	return out
}

// ConcatenateOmega concatenates the three per-third energy vectors for one
// original Q point, in minus/center/plus order, per spec §4.H.
func ConcatenateOmega(minus, center, plus []float64) []float64 {
	out := make([]float64, 0, len(minus)+len(center)+len(plus))
	out = append(out, minus...)
	out = append(out, center...)
	out = append(out, plus...)
	return out
}
