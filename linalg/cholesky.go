// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linalg

import (
	"math"
	"math/cmplx"
)

// CholeskyUpper factorizes the Hermitian positive-definite matrix h as
// h = K^H * K with K upper triangular and real positive diagonal (the
// "Cholesky-Crout" recursion, generalized to complex arithmetic). It returns
// ok=false if any pivot is non-positive; the scan still runs over every row,
// and the smallest pivot value seen is returned, which callers use to size
// the diagonal shift of spec component F (Colpa's method).
func CholeskyUpper(h *CMatrix) (k *CMatrix, ok bool, worstPivot float64) {
	n := h.N
	k = NewCMatrix(n)
	ok = true
	worstPivot = 0
	first := true
	for i := 0; i < n; i++ {
		var s complex128
		for kk := 0; kk < i; kk++ {
			kki := k.At(kk, i)
			s += cmplx.Conj(kki) * kki
		}
		pivot := real(h.At(i, i)) - real(s)
		if first || pivot < worstPivot {
			worstPivot = pivot
			first = false
		}
		if pivot <= 0 {
			ok = false
			continue
		}
		diag := math.Sqrt(pivot)
		k.Set(i, i, complex(diag, 0))
		for j := i + 1; j < n; j++ {
			var acc complex128
			for kk := 0; kk < i; kk++ {
				acc += cmplx.Conj(k.At(kk, i)) * k.At(kk, j)
			}
			k.Set(i, j, (h.At(i, j)-acc)/complex(diag, 0))
		}
	}
	return k, ok, worstPivot
}

// InverseUpperTriangular returns the inverse of an upper-triangular matrix
// with non-zero diagonal, used to recover V = K^-1 * U * diag(...) in Colpa's
// method without a general matrix inverse.
func InverseUpperTriangular(k *CMatrix) *CMatrix {
	n := k.N
	inv := NewCMatrix(n)
	for i := n - 1; i >= 0; i-- {
		inv.Set(i, i, 1/k.At(i, i))
		for j := i + 1; j < n; j++ {
			var s complex128
			for m := i + 1; m <= j; m++ {
				s += k.At(i, m) * inv.At(m, j)
			}
			inv.Set(i, j, -s/k.At(i, i))
		}
	}
	return inv
}
