// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linalg

import "math/cmplx"

// EigGeneral computes the eigenvalues and eigenvectors of a general
// (non-Hermitian) square complex matrix a via Householder reduction to upper
// Hessenberg form followed by the shifted QR algorithm with Wilkinson
// shifts and bottom-up deflation. It backs the White fallback path of
// spec component F, which must diagonalize G*h directly when G*h is not
// similar to a Hermitian matrix via a Cholesky factor (h not positive
// definite). Complex arithmetic throughout means a single (not double)
// shift per step suffices, unlike the real Francis algorithm. ok is false
// when the matrix has not fully deflated within maxIter QR iterations.
func EigGeneral(a *CMatrix, tol float64, maxIter int) (vals []complex128, vecs *CMatrix, ok bool) {
	n := a.N
	h, u := hessenberg(a)

	m := n
	iter := 0
	for m > 1 {
		if iter > maxIter {
			vals, vecs, _ = extractTriangularEig(h, u)
			return vals, vecs, false
		}
		iter++

		sub := cmplx.Abs(h.At(m-1, m-2))
		scale := cmplx.Abs(h.At(m-2, m-2)) + cmplx.Abs(h.At(m-1, m-1))
		if scale == 0 {
			scale = 1
		}
		if sub <= tol*scale {
			h.Set(m-1, m-2, 0)
			m--
			continue
		}

		mu := wilkinsonShift(h, m)
		qrShiftStep(h, u, m, mu)
	}

	vals, vecs, ok = extractTriangularEig(h, u)
	return
}

// wilkinsonShift returns the eigenvalue of the trailing active 2x2 block
// closest to h[m-1][m-1].
func wilkinsonShift(h *CMatrix, m int) complex128 {
	a := h.At(m-2, m-2)
	b := h.At(m-2, m-1)
	c := h.At(m-1, m-2)
	d := h.At(m-1, m-1)
	tr := a + d
	det := a*d - b*c
	disc := cmplx.Sqrt(tr*tr - 4*det)
	l1 := (tr + disc) / 2
	l2 := (tr - disc) / 2
	if cmplx.Abs(l1-d) < cmplx.Abs(l2-d) {
		return l1
	}
	return l2
}

// qrShiftStep performs one shifted-QR similarity step on the leading m x m
// active block of h, accumulating the transform into u.
func qrShiftStep(h, u *CMatrix, m int, mu complex128) {
	n := h.N
	shifted := NewCMatrix(m)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			v := h.At(i, j)
			if i == j {
				v -= mu
			}
			shifted.Set(i, j, v)
		}
	}
	q, r := householderQR(shifted)

	// H_active <- R*Q + mu*I
	rq := Mul(r, q)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			v := rq.At(i, j)
			if i == j {
				v += mu
			}
			h.Set(i, j, v)
		}
	}
	// apply q to the coupling block h[0:m, m:n] from the left (h <- Q^H h)
	// and to h[0:m, 0:m] is already folded into rq above; the coupling
	// columns to the right of the active block must also be updated since
	// the similarity acts on the full matrix, and likewise rows below.
	if m < n {
		applyQHLeft(h, q, m, m, n)
		applyQRight(h, q, m, n, m)
	}
	// accumulate into u (only active columns)
	applyQRightFull(u, q, m)
}

// hessenberg reduces a to upper Hessenberg form h = u^H * a * u via
// Householder reflections, returning h and the accumulated unitary u.
func hessenberg(a *CMatrix) (h, u *CMatrix) {
	n := a.N
	h = a.Clone()
	u = Identity(n)
	for k := 0; k < n-2; k++ {
		length := n - k - 1
		x := make([]complex128, length)
		for i := 0; i < length; i++ {
			x[i] = h.At(k+1+i, k)
		}
		v, beta := householderVector(x)
		if beta == 0 {
			continue
		}
		// apply from left: rows k+1..n-1, all columns
		applyReflectorLeft(h, v, beta, k+1, 0, n)
		// apply from right: all rows, columns k+1..n-1
		applyReflectorRight(h, v, beta, 0, n, k+1)
		// accumulate into u: columns k+1..n-1
		applyReflectorRight(u, v, beta, 0, n, k+1)
	}
	return h, u
}

// householderVector returns v, beta such that (I - beta v v^H) x = alpha e1.
func householderVector(x []complex128) (v []complex128, beta float64) {
	n := len(x)
	v = make([]complex128, n)
	var normSq float64
	for _, xi := range x {
		normSq += real(xi)*real(xi) + imag(xi)*imag(xi)
	}
	norm := sqrtf(normSq)
	if norm == 0 {
		return v, 0
	}
	x0 := x[0]
	var phase complex128 = 1
	if cmplx.Abs(x0) > 1e-300 {
		phase = x0 / complex(cmplx.Abs(x0), 0)
	}
	alpha := -phase * complex(norm, 0)
	copy(v, x)
	v[0] -= alpha
	var vnormSq float64
	for _, vi := range v {
		vnormSq += real(vi)*real(vi) + imag(vi)*imag(vi)
	}
	if vnormSq < 1e-300 {
		return v, 0
	}
	beta = 2 / vnormSq
	return v, beta
}

func sqrtf(x float64) float64 {
	r := cmplx.Sqrt(complex(x, 0))
	return real(r)
}

// applyReflectorLeft applies (I - beta v v^H) to rows [rowStart, rowStart+len(v))
// across columns [colStart, colEnd) of m, i.e. m_sub <- (I-beta v v^H) m_sub.
func applyReflectorLeft(m *CMatrix, v []complex128, beta float64, rowStart, colStart, colEnd int) {
	l := len(v)
	for j := colStart; j < colEnd; j++ {
		var s complex128
		for i := 0; i < l; i++ {
			s += cmplx.Conj(v[i]) * m.At(rowStart+i, j)
		}
		s *= complex(beta, 0)
		for i := 0; i < l; i++ {
			m.Set(rowStart+i, j, m.At(rowStart+i, j)-v[i]*s)
		}
	}
}

// applyReflectorRight applies (I - beta v v^H) to columns [colStart, colStart+len(v))
// across rows [rowStart, rowEnd), i.e. m_sub <- m_sub (I - beta v v^H).
func applyReflectorRight(m *CMatrix, v []complex128, beta float64, rowStart, rowEnd, colStart int) {
	l := len(v)
	for i := rowStart; i < rowEnd; i++ {
		var s complex128
		for j := 0; j < l; j++ {
			s += m.At(i, colStart+j) * v[j]
		}
		s *= complex(beta, 0)
		for j := 0; j < l; j++ {
			m.Set(i, colStart+j, m.At(i, colStart+j)-s*cmplx.Conj(v[j]))
		}
	}
}

// householderQR factors the m x m matrix a = q * r via Householder
// reflections.
func householderQR(a *CMatrix) (q, r *CMatrix) {
	m := a.N
	r = a.Clone()
	q = Identity(m)
	for k := 0; k < m-1; k++ {
		length := m - k
		x := make([]complex128, length)
		for i := 0; i < length; i++ {
			x[i] = r.At(k+i, k)
		}
		v, beta := householderVector(x)
		if beta == 0 {
			continue
		}
		applyReflectorLeft(r, v, beta, k, k, m)
		applyReflectorRight(q, v, beta, 0, m, k)
	}
	return q, r
}

// applyQHLeft updates h[0:m, colStart:colEnd] <- q^H * h[0:m, colStart:colEnd].
func applyQHLeft(h, q *CMatrix, m, colStart, colEnd int) {
	for j := colStart; j < colEnd; j++ {
		col := make([]complex128, m)
		for i := 0; i < m; i++ {
			col[i] = h.At(i, j)
		}
		for i := 0; i < m; i++ {
			var s complex128
			for k := 0; k < m; k++ {
				s += cmplx.Conj(q.At(k, i)) * col[k]
			}
			h.Set(i, j, s)
		}
	}
}

// applyQRight updates h[rowStart:rowEnd, 0:width] <- h[...] * q, where q is
// width x width (the rows below the active block, over its columns 0..m).
func applyQRight(h, q *CMatrix, rowStart, rowEnd, width int) {
	for i := rowStart; i < rowEnd; i++ {
		row := make([]complex128, width)
		for j := 0; j < width; j++ {
			row[j] = h.At(i, j)
		}
		for j := 0; j < width; j++ {
			var s complex128
			for k := 0; k < width; k++ {
				s += row[k] * q.At(k, j)
			}
			h.Set(i, j, s)
		}
	}
}

// applyQRightFull updates u[:, 0:m] <- u[:, 0:m] * q.
func applyQRightFull(u, q *CMatrix, m int) {
	n := u.N
	for i := 0; i < n; i++ {
		row := make([]complex128, m)
		for j := 0; j < m; j++ {
			row[j] = u.At(i, j)
		}
		for j := 0; j < m; j++ {
			var s complex128
			for k := 0; k < m; k++ {
				s += row[k] * q.At(k, j)
			}
			u.Set(i, j, s)
		}
	}
}

// extractTriangularEig reads eigenvalues off the diagonal of the (now
// upper-triangular) h and recovers eigenvectors by back substitution in h,
// then maps them through u.
func extractTriangularEig(h, u *CMatrix) (vals []complex128, vecs *CMatrix, ok bool) {
	n := h.N
	vals = make([]complex128, n)
	for i := 0; i < n; i++ {
		vals[i] = h.At(i, i)
	}
	t := NewCMatrix(n)
	for idx := 0; idx < n; idx++ {
		lambda := vals[idx]
		y := make([]complex128, n)
		y[idx] = 1
		for i := idx - 1; i >= 0; i-- {
			var s complex128
			for k := i + 1; k <= idx; k++ {
				s += h.At(i, k) * y[k]
			}
			denom := h.At(i, i) - lambda
			if cmplx.Abs(denom) < 1e-300 {
				denom = complex(1e-300, 0)
			}
			y[i] = -s / denom
		}
		var norm float64
		for _, yi := range y {
			norm += real(yi)*real(yi) + imag(yi)*imag(yi)
		}
		norm = sqrtf(norm)
		if norm == 0 {
			norm = 1
		}
		for i := 0; i < n; i++ {
			t.Set(i, idx, y[i]/complex(norm, 0))
		}
	}
	vecs = Mul(u, t)
	ok = true
	return
}
