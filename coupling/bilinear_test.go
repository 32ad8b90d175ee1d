// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coupling

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/spinw/gospinw/frame"
)

func Test_bilinear01(t *testing.T) {
	chk.PrintTitle("bilinear01: single ferromagnetic bond, collinear along z")
	fr, err := frame.FromMoment(Vec3{0, 0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frames := []frame.Frame{fr, fr}
	spin := []float64{1, 1}

	j3 := Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	bonds := []Bilinear{{I: 0, J: 1, DR: Vec3{1, 0, 0}, J3: j3}}

	tab := BuildBilinearTable(bonds, frames, spin, Vec3{}, Vec3{0, 0, 1}, false, 2)
	if len(tab.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(tab.Entries))
	}
	e := tab.Entries[0]
	// eta.J.eta = 1 for identity J and eta=z-hat, so A2 = -1, D2 = -1.
	if absDiff(tab.Diag[0], -1) > 1e-9 || absDiff(tab.Diag[1+2], -1) > 1e-9 {
		t.Fatalf("unexpected diagonal: %v", tab.Diag)
	}
	// z.J.zbar = z.zbar = 2 for identity J, so AD0 = sqrt(1*1)*2 = 2.
	if absDiff(real(e.AD0), 2) > 1e-9 {
		t.Fatalf("unexpected AD0: %v", e.AD0)
	}
	// z.J.z = z.z = 0 for identity J, so BC0 = 0.
	if absDiff(real(e.BC0), 0) > 1e-9 || absDiff(imag(e.BC0), 0) > 1e-9 {
		t.Fatalf("unexpected BC0: %v", e.BC0)
	}
}

func absDiff(a, b float64) float64 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
