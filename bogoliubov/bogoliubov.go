// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bogoliubov implements the para-unitary diagonalization of the
// per-Q bosonic Hamiltonian, component F of the linear spin-wave core: the
// Colpa primary path and the White non-Hermitian fallback, selected through a
// small strategy registry in the manner of a factory, so that new
// diagonalization strategies can be added without touching the scheduler.
package bogoliubov

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/spinw/gospinw/linalg"
	"github.com/spinw/gospinw/lswterr"
	"gonum.org/v1/gonum/mat"
)

// Result is the outcome of diagonalizing one Q point: sorted energies and
// the corresponding Bogoliubov transform V. Imaginary is set by the White
// fallback when an eigenvalue carries a non-negligible imaginary part (not
// itself an error, per spec §4.F).
type Result struct {
	Omega     []float64
	V         *linalg.CMatrix
	Imaginary bool
}

// Strategy diagonalizes one assembled Hamiltonian h (2L x 2L) and returns the
// sorted energies and the transform V; warnings from the Gram-Schmidt
// degeneracy repair or the shift retry are added to warn.
type Strategy func(h *linalg.CMatrix, l int, q, omegaTol float64, qIndex int, warn *lswterr.Buffer) (Result, error)

// registry is the pluggable-strategy table, grounded on the same
// name-to-constructor factory idiom used elsewhere in this module for
// selecting among alternative element/material implementations.
var registry = map[string]Strategy{
	"colpa": Colpa,
	"white": White,
}

// Lookup returns the named diagonalization strategy.
func Lookup(name string) (Strategy, bool) {
	s, ok := registry[name]
	return s, ok
}

// gDiag builds G = diag(+1...+1,-1...-1), L entries each.
func gDiag(l int) []float64 {
	g := make([]float64, 2*l)
	for i := 0; i < l; i++ {
		g[i] = 1
		g[l+i] = -1
	}
	return g
}

// Colpa implements the primary path of spec §4.F. On a failed Cholesky
// factorization the diagonal is shifted by max(-worst pivot, omegaTol)
// scaled by sqrt(2L)*4 and the factorization is retried once; omegaTol also
// serves as the Jacobi convergence tolerance and the degeneracy window.
func Colpa(h *linalg.CMatrix, l int, _, omegaTol float64, qIndex int, warn *lswterr.Buffer) (Result, error) {
	n := 2 * l
	g := gDiag(l)

	k, ok, worst := linalg.CholeskyUpper(h)
	if !ok {
		lambda := math.Max(-worst, omegaTol) * math.Sqrt(float64(n)) * 4
		shifted := h.Clone()
		for i := 0; i < n; i++ {
			shifted.Add(i, i, complex(lambda, 0))
		}
		k, ok, worst = linalg.CholeskyUpper(shifted)
		if !ok {
			return Result{}, lswterr.NonPosDef(qIndex, worst)
		}
		if warn != nil {
			warn.Add(lswterr.Warning{Kind: lswterr.WarnCholeskyShifted, QIndex: qIndex,
				Detail: "Cholesky failed at native h, succeeded after diagonal shift"})
		}
	}

	// W = K G K^H, Hermitized.
	kg := linalg.MulDiagReal(k, g)
	w := linalg.Mul(kg, k.ConjTranspose())
	w.Hermitize()

	vals, u := linalg.EigHermitian(w, omegaTol, 100)

	order := sortDescending(vals, omegaTol)
	repairDegenerate(u, vals, order, omegaTol, qIndex, warn)

	d := make([]float64, n)
	sorted := make([]float64, n)
	for col, idx := range order {
		sorted[col] = vals[idx]
	}

	uSorted := linalg.NewCMatrix(n)
	for col, idx := range order {
		for row := 0; row < n; row++ {
			uSorted.Set(row, col, u.At(row, idx))
		}
	}

	scale := make([]float64, n)
	for i := 0; i < n; i++ {
		gd := g[i]
		d[i] = gd * sorted[i]
		scale[i] = math.Sqrt(math.Max(d[i], 0))
	}

	kInv := linalg.InverseUpperTriangular(k)
	v := linalg.Mul(kInv, uSorted)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			v.Set(row, col, v.At(row, col)*complex(scale[col], 0))
		}
	}

	return Result{Omega: sorted, V: v}, nil
}

// White implements the fallback path of spec §4.F: diagonalize G*h directly
// (non-Hermitian in general), normalize V so that V^H G V has unit-magnitude
// diagonal.
func White(h *linalg.CMatrix, l int, _, omegaTol float64, qIndex int, warn *lswterr.Buffer) (Result, error) {
	n := 2 * l
	g := gDiag(l)

	gh := linalg.NewCMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			gh.Set(i, j, complex(g[i], 0)*h.At(i, j))
		}
	}

	vals, vecs, ok := linalg.EigGeneral(gh, 1e-10, 500)
	if !ok {
		return Result{}, lswterr.AtQ(lswterr.EigensolverFailure, qIndex, "White eigensolver did not converge")
	}

	realVals := make([]float64, n)
	imaginary := false
	for i, v := range vals {
		realVals[i] = real(v)
		if math.Abs(imag(v)) > omegaTol {
			imaginary = true
		}
	}
	order := sortDescending(realVals, omegaTol)

	sorted := make([]float64, n)
	vOut := linalg.NewCMatrix(n)
	for col, idx := range order {
		sorted[col] = realVals[idx]
		for row := 0; row < n; row++ {
			vOut.Set(row, col, vecs.At(row, idx))
		}
	}

	// normalize: column c scaled so that (V^H G V)_{cc} has unit magnitude.
	for col := 0; col < n; col++ {
		var s complex128
		for row := 0; row < n; row++ {
			s += cmplx.Conj(vOut.At(row, col)) * complex(g[row], 0) * vOut.At(row, col)
		}
		mag := cmplx.Abs(s)
		if mag < 1e-300 {
			continue
		}
		factor := complex(1/math.Sqrt(mag), 0)
		for row := 0; row < n; row++ {
			vOut.Set(row, col, vOut.At(row, col)*factor)
		}
	}

	return Result{Omega: sorted, V: vOut, Imaginary: imaginary}, nil
}

// sortDescending returns the index permutation that sorts vals by descending
// real part, breaking ties by ascending index (the eigensolvers here return
// real values already, so the spec's "ascending imaginary part" tie-break
// reduces to the stable original-index rule).
func sortDescending(vals []float64, _ float64) []int {
	n := len(vals)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return vals[order[a]] > vals[order[b]]
	})
	return order
}

// repairDegenerate re-orthogonalizes (Gram-Schmidt) columns of u whose
// eigenvalues fall within omegaTol of each other, per spec §4.F. It operates
// in the already-descending-sorted index order.
func repairDegenerate(u *linalg.CMatrix, vals []float64, order []int, omegaTol float64, qIndex int, warn *lswterr.Buffer) {
	n := len(order)
	i := 0
	for i < n {
		j := i + 1
		for j < n && math.Abs(vals[order[j]]-vals[order[i]]) <= omegaTol {
			j++
		}
		if j-i > 1 {
			ok := gramSchmidtGroup(u, order[i:j])
			if ok {
				ok = gramMatrixOrthonormal(u, order[i:j], 1e-6)
			}
			if !ok && warn != nil {
				warn.Add(lswterr.Warning{Kind: lswterr.WarnDefectiveEigenvectors, QIndex: qIndex,
					Detail: "Gram-Schmidt orthogonalization failed for a degenerate eigenvalue group"})
			}
		}
		i = j
	}
}

// gramSchmidtGroup orthonormalizes the columns of u named by idxs in place,
// returning false if any column collapses to (numerical) zero.
func gramSchmidtGroup(u *linalg.CMatrix, idxs []int) bool {
	n := u.N
	for a, ia := range idxs {
		for b := 0; b < a; b++ {
			ib := idxs[b]
			var proj complex128
			for row := 0; row < n; row++ {
				proj += cmplx.Conj(u.At(row, ib)) * u.At(row, ia)
			}
			for row := 0; row < n; row++ {
				u.Set(row, ia, u.At(row, ia)-proj*u.At(row, ib))
			}
		}
		var norm float64
		for row := 0; row < n; row++ {
			v := u.At(row, ia)
			norm += real(v)*real(v) + imag(v)*imag(v)
		}
		norm = math.Sqrt(norm)
		if norm < 1e-12 {
			return false
		}
		for row := 0; row < n; row++ {
			u.Set(row, ia, u.At(row, ia)/complex(norm, 0))
		}
	}
	return true
}

// gramMatrixOrthonormal independently verifies gramSchmidtGroup's result by
// eigendecomposing the real Gram matrix G_ab = Re(<u_a,u_b>) of the repaired
// columns named by idxs: a genuinely orthonormal set makes G the identity,
// so every eigenvalue of this smaller real-symmetric problem must sit within
// tol of 1.
func gramMatrixOrthonormal(u *linalg.CMatrix, idxs []int, tol float64) bool {
	m := len(idxs)
	n := u.N
	g := mat.NewSymDense(m, nil)
	for a := 0; a < m; a++ {
		for b := a; b < m; b++ {
			var s complex128
			for row := 0; row < n; row++ {
				s += cmplx.Conj(u.At(row, idxs[a])) * u.At(row, idxs[b])
			}
			g.SetSym(a, b, real(s))
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(g, false) {
		return false
	}
	for _, v := range eig.Values(nil) {
		if math.Abs(v-1) > tol {
			return false
		}
	}
	return true
}

// FastResult is the fast-mode truncation of Result: only the first L sorted
// columns of V are materialized, so V is rectangular (2L rows, L columns)
// rather than the square CMatrix of the full result.
type FastResult struct {
	Omega     []float64
	V         *linalg.RectCMatrix
	Imaginary bool
}

// Truncate implements fast mode of spec §4.F: keep only the first l sorted
// columns of V (the positive-energy half) and the first l energies.
func Truncate(r Result, l int) FastResult {
	n := r.V.N
	v := linalg.NewRectCMatrix(n, l)
	for row := 0; row < n; row++ {
		for col := 0; col < l; col++ {
			v.Set(row, col, r.V.At(row, col))
		}
	}
	return FastResult{Omega: append([]float64(nil), r.Omega[:l]...), V: v, Imaginary: r.Imaginary}
}
