// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coupling

import (
	"math"

	"github.com/spinw/gospinw/frame"
	"github.com/spinw/gospinw/geom"
	"github.com/spinw/gospinw/lswterr"
)

// Biquadratic is one biquadratic bond (iᵇ, jᵇ, dRᵇ, Jᵇ) of spec §3.
type Biquadratic struct {
	I, J int
	DR   Vec3
	Jb   float64
}

// BiqEntry is one row of the per-Q biquadratic phase-scatter pass: bqA0 goes
// to (i,j) and its conjugate to (i+L,j+L); bqB0 (doubled) goes to (i,j+L).
type BiqEntry struct {
	I, J int
	DR   Vec3
	A0   complex128
	B0   complex128
}

// BiqTable is the Q-independent result of building the biquadratic
// contribution table of spec §4.C: the per-coupling phase-scatter entries,
// plus the reduced same-site diagonal (bqC, real, in both blocks) and
// off-diagonal (bqD, upper block only, at (i,i+L)) contributions, indexed by
// source atom i.
type BiqTable struct {
	Entries []BiqEntry
	DiagC   []float64    // length 2L
	DiagD   []complex128 // length L, upper-block (i,i+L) contribution
}

// BuildBiquadraticTable implements spec §4.C. It is a no-op (empty table,
// nil error) when bonds is empty. incommensurate=true together with a
// non-empty bonds list is rejected with BiquadraticIncommensurate, since
// biquadratic couplings and incommensurate propagation vectors are mutually
// exclusive per spec §3.
func BuildBiquadraticTable(bonds []Biquadratic, frames []frame.Frame, spin []float64, incommensurate bool, nSites int) (BiqTable, error) {
	if len(bonds) == 0 {
		return BiqTable{}, nil
	}
	if incommensurate {
		return BiqTable{}, lswterr.New(lswterr.BiquadraticIncommensurate,
			"biquadratic couplings supplied together with an incommensurate propagation vector")
	}

	l := nSites
	diagC := make([]float64, 2*l)
	diagD := make([]complex128, l)
	entries := make([]BiqEntry, 0, len(bonds))

	for _, b := range bonds {
		fi, fj := frames[b.I], frames[b.J]
		si, sj := spin[b.I], spin[b.J]

		m := complex(geom.Dot(fi.Eta, fj.Eta), 0)
		nDot := geom.DotCReal(geom.ConjVec3(fj.Z), fi.Eta)
		o := geom.DotC(fi.Z, geom.ConjVec3(fj.Z))
		p := geom.DotC(geom.ConjVec3(fi.Z), fj.Z)
		q := geom.DotCReal(fi.Z, fj.Eta)

		sij := si * sj
		pref32 := math.Pow(sij, 1.5)

		a0 := complex(pref32, 0) * (m*geom.Conj(p) + q*geom.Conj(nDot)) * complex(b.Jb, 0)
		b0 := complex(pref32, 0) * (m*o + q*nDot) * complex(b.Jb, 0)
		entries = append(entries, BiqEntry{I: b.I, J: b.J, DR: b.DR, A0: a0, B0: b0})

		cPref := si * sj * sj
		cVal := real(geom.Conj(q)*q-2*m*m) * cPref * b.Jb
		diagC[b.I] += cVal
		diagC[l+b.I] += cVal

		dVal := complex(cPref*b.Jb, 0) * q * q
		diagD[b.I] += dVal
	}

	return BiqTable{Entries: entries, DiagC: diagC, DiagD: diagD}, nil
}
