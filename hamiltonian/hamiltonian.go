// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hamiltonian assembles the per-Q bosonic Hamiltonian matrix from the
// Q-independent tables built by coupling and zeeman, component E of the
// linear spin-wave core. The assembled matrix is a dense 2Lx2L buffer: L in
// this domain is small (tens to low hundreds of magnetic sites), so a dense
// scatter into a zero-initialized buffer is simpler and no slower than a
// general sparse-matrix representation.
package hamiltonian

import (
	"math"
	"math/cmplx"

	"github.com/spinw/gospinw/coupling"
	"github.com/spinw/gospinw/geom"
	"github.com/spinw/gospinw/linalg"
)

// ExtendedQ projects a fractional Q point (reciprocal units of the chemical
// cell) into extended-cell reciprocal units by elementwise multiplication
// with the supercell extent vector, per spec §4.E step 1.
func ExtendedQ(q, nExt geom.Vec3) geom.Vec3 {
	return geom.Vec3{q[0] * nExt[0], q[1] * nExt[1], q[2] * nExt[2]}
}

// Assemble implements spec §4.E for a single Q point, returning the
// Hermitized dense 2Lx2L Hamiltonian.
func Assemble(q geom.Vec3, l int, bil coupling.Table, biq coupling.BiqTable, zeemanDiag []float64) *linalg.CMatrix {
	h := linalg.NewCMatrix(2 * l)

	for _, e := range bil.Entries {
		phase := bondPhase(q, e.DR)
		h.Add(e.I, e.J, e.AD0*phase)
		h.Add(e.I, e.J+l, 2*e.BC0*phase)
		h.Add(e.I+l, e.J+l, geom.Conj(e.AD0)*phase)
	}
	for i, d := range bil.Diag {
		h.Add(i, i, complex(d, 0))
	}

	for _, e := range biq.Entries {
		phase := bondPhase(q, e.DR)
		h.Add(e.I, e.J, e.A0*phase)
		h.Add(e.I, e.J+l, 2*e.B0*phase)
		h.Add(e.I+l, e.J+l, geom.Conj(e.A0)*phase)
	}
	for i, d := range biq.DiagC {
		h.Add(i, i, complex(d, 0))
	}
	for i, d := range biq.DiagD {
		h.Add(i, i+l, d)
	}

	for i, d := range zeemanDiag {
		h.Add(i, i, complex(d, 0))
	}

	h.Hermitize()
	return h
}

// bondPhase computes phi_c(Q) = exp(i*2*pi*Q.dR) of spec §4.E step 1.
func bondPhase(q, dR geom.Vec3) complex128 {
	arg := 2 * math.Pi * geom.Dot(q, dR)
	return cmplx.Exp(complex(0, arg))
}
