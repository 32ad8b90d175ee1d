// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linalg implements the small set of dense complex matrix kernels
// the Bogoliubov diagonalizer needs: Cholesky factorization and eigenvalue
// decomposition of Hermitian matrices, and a general (non-Hermitian) complex
// eigensolver for the White fallback path. L (half the matrix dimension) is
// small -- tens to low hundreds, per the numerical notes of the spec this
// package serves -- so plain O(n^3) dense algorithms are used throughout;
// there is no attempt at blocking or cache-tuning.
package linalg

import (
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
)

// CMatrix is a dense, row-major, square complex matrix.
type CMatrix struct {
	N    int
	Data []complex128
}

// NewCMatrix allocates an n x n zero matrix.
func NewCMatrix(n int) *CMatrix {
	return &CMatrix{N: n, Data: make([]complex128, n*n)}
}

// At returns element (i,j).
func (m *CMatrix) At(i, j int) complex128 { return m.Data[i*m.N+j] }

// Set assigns element (i,j).
func (m *CMatrix) Set(i, j int, v complex128) { m.Data[i*m.N+j] = v }

// Add accumulates v into element (i,j).
func (m *CMatrix) Add(i, j int, v complex128) { m.Data[i*m.N+j] += v }

// Clone returns an independent copy.
func (m *CMatrix) Clone() *CMatrix {
	out := NewCMatrix(m.N)
	copy(out.Data, m.Data)
	return out
}

// Identity returns the n x n identity matrix.
func Identity(n int) *CMatrix {
	out := NewCMatrix(n)
	for i := 0; i < n; i++ {
		out.Set(i, i, 1)
	}
	return out
}

// Hermitize overwrites m with (m + m^H)/2, the Hermitization step of spec
// component E.
func (m *CMatrix) Hermitize() {
	n := m.N
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			a := m.At(i, j)
			b := cmplx.Conj(m.At(j, i))
			avg := (a + b) / 2
			m.Set(i, j, avg)
			m.Set(j, i, cmplx.Conj(avg))
		}
	}
}

// HermiticityResidual returns ||m - m^H||_F relative to ||m||_F, used by
// invariant checks (spec.md §8 invariant 1).
func (m *CMatrix) HermiticityResidual() float64 {
	n := m.N
	diffs := make([]complex128, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			diffs = append(diffs, m.At(i, j)-cmplx.Conj(m.At(j, i)))
		}
	}
	den := cmplxs.Norm(m.Data, 2)
	if den == 0 {
		return 0
	}
	return cmplxs.Norm(diffs, 2) / den
}

// ConjTranspose returns m^H.
func (m *CMatrix) ConjTranspose() *CMatrix {
	out := NewCMatrix(m.N)
	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			out.Set(j, i, cmplx.Conj(m.At(i, j)))
		}
	}
	return out
}

// Mul returns a*b.
func Mul(a, b *CMatrix) *CMatrix {
	n := a.N
	out := NewCMatrix(n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			aik := a.At(i, k)
			if aik == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out.Add(i, j, aik*b.At(k, j))
			}
		}
	}
	return out
}

// MulDiagReal returns a * diag(d) (right-multiplication by a real diagonal).
func MulDiagReal(a *CMatrix, d []float64) *CMatrix {
	n := a.N
	out := NewCMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, a.At(i, j)*complex(d[j], 0))
		}
	}
	return out
}

// FrobeniusNorm returns ||m||_F.
func (m *CMatrix) FrobeniusNorm() float64 {
	return cmplxs.Norm(m.Data, 2)
}

// RectCMatrix is a dense, row-major, possibly non-square complex matrix,
// used only for the fast-mode truncated Bogoliubov transform (spec component
// F), which keeps 2L rows but only L columns.
type RectCMatrix struct {
	Rows, Cols int
	Data       []complex128
}

// NewRectCMatrix allocates a zero rows x cols matrix.
func NewRectCMatrix(rows, cols int) *RectCMatrix {
	return &RectCMatrix{Rows: rows, Cols: cols, Data: make([]complex128, rows*cols)}
}

// At returns element (i,j).
func (m *RectCMatrix) At(i, j int) complex128 { return m.Data[i*m.Cols+j] }

// Set assigns element (i,j).
func (m *RectCMatrix) Set(i, j int, v complex128) { m.Data[i*m.Cols+j] = v }

// OffDiagNorm returns the Frobenius norm of the off-diagonal part, used as
// the Jacobi sweep convergence criterion.
func (m *CMatrix) OffDiagNorm() float64 {
	n := m.N
	off := make([]complex128, 0, n*n-n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			off = append(off, m.At(i, j))
		}
	}
	return cmplxs.Norm(off, 2)
}
