// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coupling builds the Q-independent bilinear and biquadratic
// contribution tables of the spin-wave Hamiltonian (component B/C), plus the
// rotating-frame symmetrization shared by both.
package coupling

import (
	"math"

	"github.com/spinw/gospinw/frame"
	"github.com/spinw/gospinw/geom"
)

// Bilinear is one source bond: atom indices, lattice displacement, and
// exchange tensor, already in the convention of spec §3 (on-site anisotropy
// is i==j, dR==0).
type Bilinear struct {
	I, J int
	DR   Vec3
	J3   Mat3
}

// Entry is a single row of the per-Q phase pass table of spec §4.B: the bond
// endpoints, its lattice displacement, and the two precomputed off-diagonal
// amplitudes that get multiplied by the per-Q phase factor.
type Entry struct {
	I, J int
	DR   Vec3
	AD0  complex128
	BC0  complex128
}

// Table is the Q-independent result of building the bilinear contribution
// table: the per-coupling entries for the per-Q phase pass, and the reduced
// 2L-length diagonal (A2 in the upper block, D2 in the lower block) applied
// unchanged at every Q.
type Table struct {
	Entries []Entry
	Diag    []float64 // length 2L
}

// BuildBilinearTable implements spec §4.B. frames holds the per-site local
// triad, incommensurate selects the rotating-frame symmetrization of each
// exchange tensor, n is the propagation rotation axis used by that
// symmetrization.
func BuildBilinearTable(bonds []Bilinear, frames []frame.Frame, spin []float64, k, n Vec3, incommensurate bool, nSites int) Table {
	l := nSites
	diag := make([]float64, 2*l)
	entries := make([]Entry, 0, len(bonds))

	for _, b := range bonds {
		j3 := b.J3
		if incommensurate {
			j3 = symmetrizeRotatingFrame(j3, n, k, b.DR)
		}

		fi, fj := frames[b.I], frames[b.J]
		si, sj := spin[b.I], spin[b.J]

		ad := geom.QuadReal(fi.Eta, j3, fj.Eta)
		a2 := -sj * ad
		d2 := -si * ad
		diag[b.I] += a2
		diag[l+b.J] += d2

		sqrtSiSj := sqrtf(si * sj)
		zjbar := geom.ConjVec3(fj.Z)
		ad0 := complex(sqrtSiSj, 0) * geom.QuadC(fi.Z, j3, zjbar)
		bc0 := complex(sqrtSiSj, 0) * geom.QuadC(fi.Z, j3, fj.Z)

		entries = append(entries, Entry{I: b.I, J: b.J, DR: b.DR, AD0: ad0, BC0: bc0})
	}

	return Table{Entries: entries, Diag: diag}
}

func sqrtf(x float64) float64 {
	if x < 0 {
		x = 0
	}
	return math.Sqrt(x)
}
