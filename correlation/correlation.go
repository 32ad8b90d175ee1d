// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package correlation assembles the dynamical spin-spin correlation tensor
// S^{alpha,beta}_mu(Q) from a diagonalized Hamiltonian's Bogoliubov transform,
// component G of the linear spin-wave core, and projects it onto the neutron
// scattering cross-section S_perp.
package correlation

import (
	"math"
	"math/cmplx"

	"github.com/spinw/gospinw/frame"
	"github.com/spinw/gospinw/geom"
	"github.com/spinw/gospinw/linalg"
)

// Vec3 is a Cartesian or fractional 3-vector.
type Vec3 = geom.Vec3

// Site bundles the per-site quantities the correlation assembler needs:
// fractional position in the magnetic supercell, spin length, local complex
// transverse basis, and (optionally g-tensor-rotated) z-tilde.
type Site struct {
	Pos   Vec3
	Spin  float64
	ZTilt frame.Cplx3 // z or g*z, per spec §4.G
	Form  float64     // Fi(|Q|), evaluated by the caller
}

// ApplyGTensor returns z or g*z for every site, selecting the g-tensor per
// spec §4.G ("Let z_tilde_i = g_i.z_i if the g-tensor is included, else z_i").
func ApplyGTensor(z []frame.Cplx3, g []geom.Mat3, included bool) []frame.Cplx3 {
	out := make([]frame.Cplx3, len(z))
	for i := range z {
		if !included {
			out[i] = z[i]
			continue
		}
		var zt frame.Cplx3
		for r := 0; r < 3; r++ {
			var s complex128
			for c := 0; c < 3; c++ {
				s += complex(g[i][r][c], 0) * z[i][c]
			}
			zt[r] = s
		}
		out[i] = zt
	}
	return out
}

// SiteAmplitude computes Eᵢ(Q) = exp(-i*2*pi*Q.rᵢ)*sqrt(Sᵢ/2) of spec §4.G.
func SiteAmplitude(q, pos Vec3, spin float64) complex128 {
	phase := -2 * math.Pi * geom.Dot(q, pos)
	return cmplx.Exp(complex(0, phase)) * complex(math.Sqrt(spin/2), 0)
}

// Sab is the per-mode 3x3 correlation tensor S^{alpha,beta}_mu(Q), indexed
// [mode][alpha][beta].
type Sab [][3][3]complex128

// Assemble implements spec §4.G for one Q point. v is the 2L x numModes
// Bogoliubov transform (numModes is 2L, or L in fast mode); l is the number
// of magnetic sites; nCell normalizes the contraction.
func Assemble(q Vec3, l, numModes int, v ColumnReader, sites []Site, nCell float64) Sab {
	e := make([]complex128, l)
	for i := 0; i < l; i++ {
		e[i] = SiteAmplitude(q, sites[i].Pos, sites[i].Spin) * complex(sites[i].Form, 0)
	}

	out := make(Sab, numModes)
	for mu := 0; mu < numModes; mu++ {
		var lAlpha, rBeta [3]complex128
		for i := 0; i < l; i++ {
			vUpper := v.At(i, mu)
			vLower := complex128(0)
			if v.Rows() > l {
				vLower = v.At(i+l, mu)
			}
			for a := 0; a < 3; a++ {
				za := sites[i].ZTilt[a]
				lAlpha[a] += za * e[i] * vUpper
				lAlpha[a] += geom.Conj(za) * e[i] * vLower

				rBeta[a] += geom.Conj(za) * e[i] * vUpper
				rBeta[a] += za * e[i] * vLower
			}
		}
		var s [3][3]complex128
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				s[a][b] = lAlpha[a] * rBeta[b] / complex(nCell, 0)
			}
		}
		out[mu] = s
	}
	return out
}

// ColumnReader abstracts over linalg.CMatrix and linalg.RectCMatrix so
// Assemble works for both the full and fast-mode Bogoliubov transforms.
type ColumnReader interface {
	At(i, j int) complex128
	Rows() int
}

// squareAdapter wraps *linalg.CMatrix as a ColumnReader.
type squareAdapter struct{ m *linalg.CMatrix }

func (a squareAdapter) At(i, j int) complex128 { return a.m.At(i, j) }
func (a squareAdapter) Rows() int              { return a.m.N }

// SquareColumns wraps a square Bogoliubov transform for Assemble.
func SquareColumns(m *linalg.CMatrix) ColumnReader { return squareAdapter{m} }

// rectAdapter wraps *linalg.RectCMatrix as a ColumnReader.
type rectAdapter struct{ m *linalg.RectCMatrix }

func (a rectAdapter) At(i, j int) complex128 { return a.m.At(i, j) }
func (a rectAdapter) Rows() int              { return a.m.Rows }

// RectColumns wraps a fast-mode truncated Bogoliubov transform for Assemble.
func RectColumns(m *linalg.RectCMatrix) ColumnReader { return rectAdapter{m} }

// NeutronProjection computes the per-mode scalar S_perp of spec §4.G:
// S_perp = sum_{a,b} (delta_ab - qhat_a*qhat_b) * (S^{ab}+S^{ba})/2, using
// qhatCart, the normalized Q in Cartesian (inverse-Angstrom) coordinates. For
// Q=0 the caller must supply the qhat of the next Q point (or (1,0,0) if this
// is the last point), per spec's documented fallback convention.
func NeutronProjection(sab Sab, qhatCart Vec3) []complex128 {
	out := make([]complex128, len(sab))
	for mu, s := range sab {
		var acc complex128
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				delta := 0.0
				if a == b {
					delta = 1
				}
				proj := delta - qhatCart[a]*qhatCart[b]
				acc += complex(proj, 0) * (s[a][b] + s[b][a]) / 2
			}
		}
		out[mu] = acc
	}
	return out
}

// QHat normalizes qCart, or returns fallback if qCart is (numerically) zero,
// the Q=0 convention of spec §4.G.
func QHat(qCart, fallback Vec3) Vec3 {
	n := qCart.Norm()
	if n < 1e-12 {
		return fallback
	}
	return qCart.Scale(1 / n)
}
