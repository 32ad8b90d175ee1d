// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linalg

import (
	"math"
	"math/cmplx"
)

// EigHermitian computes the eigenvalues and orthonormal eigenvectors of a
// Hermitian matrix a (a Hermitized copy is diagonalized; a itself is left
// unchanged) via the cyclic Jacobi
// method, generalized to complex arithmetic by diagonalizing the active 2x2
// Hermitian submatrix in closed form at each rotation. Jacobi is used in
// place of a Householder-tridiagonalization + QL sweep because it keeps the
// accumulated eigenvector matrix exactly unitary at every step, which is
// what makes the degenerate-mode handling of spec component F a no-op
// verification rather than a separate repair pass.
//
// Eigenvalues are returned unsorted, paired with the columns of vecs; the
// caller (package bogoliubov) applies the descending-real-part sort with the
// documented tie-breakers.
func EigHermitian(a *CMatrix, tol float64, maxSweeps int) (vals []float64, vecs *CMatrix) {
	n := a.N
	w := a.Clone()
	w.Hermitize()
	v := Identity(n)

	if n <= 1 {
		vals = make([]float64, n)
		for i := range vals {
			vals[i] = real(w.At(i, i))
		}
		return vals, v
	}

	target := tol * w.FrobeniusNorm()
	if target <= 0 {
		target = tol
	}
	for sweep := 0; sweep < maxSweeps; sweep++ {
		if w.OffDiagNorm() <= target {
			break
		}
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				apq := w.At(p, q)
				if cmplx.Abs(apq) < 1e-300 {
					continue
				}
				app := real(w.At(p, p))
				aqq := real(w.At(q, q))
				rotateHermitian2x2(w, v, p, q, app, aqq, apq)
			}
		}
	}

	vals = make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = real(w.At(i, i))
	}
	return vals, v
}

// rotateHermitian2x2 diagonalizes the active 2x2 Hermitian submatrix at
// (p,q) in closed form and applies the corresponding unitary similarity
// transform to the full matrix w and to the accumulated eigenvector matrix v.
func rotateHermitian2x2(w, v *CMatrix, p, q int, app, aqq float64, apq complex128) {
	n := w.N
	diff := app - aqq
	disc := math.Sqrt(diff*diff/4 + real(apq)*real(apq) + imag(apq)*imag(apq))
	mid := (app + aqq) / 2
	lamPlus := mid + disc

	// eigenvector for lamPlus: (apq, lamPlus-app), normalized.
	e0 := apq
	e1 := complex(lamPlus-app, 0)
	norm := math.Hypot(cmplx.Abs(e0), cmplx.Abs(e1))
	if norm < 1e-300 {
		// apq already (numerically) zero; nothing to do.
		return
	}
	c0 := e0 / complex(norm, 0)
	c1 := e1 / complex(norm, 0)
	// second eigenvector, orthogonal under the Hermitian form.
	d0 := -cmplx.Conj(c1)
	d1 := cmplx.Conj(c0)

	// G is the 2x2 unitary [[c0,d0],[c1,d1]] acting on coordinates (p,q);
	// apply w <- G^H w G and v <- v G restricted to columns/rows p,q.
	for i := 0; i < n; i++ {
		wip := w.At(i, p)
		wiq := w.At(i, q)
		w.Set(i, p, wip*c0+wiq*c1)
		w.Set(i, q, wip*d0+wiq*d1)
	}
	for j := 0; j < n; j++ {
		wpj := w.At(p, j)
		wqj := w.At(q, j)
		w.Set(p, j, cmplx.Conj(c0)*wpj+cmplx.Conj(c1)*wqj)
		w.Set(q, j, cmplx.Conj(d0)*wpj+cmplx.Conj(d1)*wqj)
	}
	for i := 0; i < n; i++ {
		vip := v.At(i, p)
		viq := v.At(i, q)
		v.Set(i, p, vip*c0+viq*c1)
		v.Set(i, q, vip*d0+viq*d1)
	}
}
