// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package correlation

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/spinw/gospinw/frame"
	"github.com/spinw/gospinw/linalg"
)

func Test_siteAmplitude01(t *testing.T) {
	chk.PrintTitle("siteAmplitude01: Q=0 gives purely real amplitude")
	e := SiteAmplitude(Vec3{0, 0, 0}, Vec3{0.1, 0.2, 0.3}, 2.0)
	if math.Abs(imag(e)) > 1e-12 {
		t.Fatalf("expected real amplitude at Q=0, got %v", e)
	}
	want := math.Sqrt(1.0)
	if d := real(e) - want; d > 1e-9 || d < -1e-9 {
		t.Fatalf("wrong amplitude magnitude: got %v want %v", real(e), want)
	}
}

func Test_assemble01(t *testing.T) {
	chk.PrintTitle("assemble01: single-site identity transform gives one 3x3 tensor per mode")
	fr, _ := frame.FromMoment(Vec3{0, 0, 1})
	sites := []Site{{Pos: Vec3{}, Spin: 1, ZTilt: fr.Z, Form: 1}}

	v := linalg.NewCMatrix(2)
	v.Set(0, 0, complex(1, 0))
	v.Set(1, 0, complex(0, 0))
	v.Set(0, 1, complex(0, 0))
	v.Set(1, 1, complex(1, 0))

	sab := Assemble(Vec3{0, 0, 0}, 1, 2, SquareColumns(v), sites, 1)
	if len(sab) != 2 {
		t.Fatalf("expected 2 modes, got %d", len(sab))
	}
}

func Test_qhat01(t *testing.T) {
	chk.PrintTitle("qhat01: Q=0 falls back to the supplied direction")
	got := QHat(Vec3{0, 0, 0}, Vec3{1, 0, 0})
	if got != (Vec3{1, 0, 0}) {
		t.Fatalf("expected fallback direction, got %v", got)
	}
	got2 := QHat(Vec3{0, 0, 2}, Vec3{1, 0, 0})
	if got2 != (Vec3{0, 0, 1}) {
		t.Fatalf("expected normalized direction, got %v", got2)
	}
}

func Test_neutronProjection01(t *testing.T) {
	chk.PrintTitle("neutronProjection01: projection along Q direction removes the longitudinal component")
	sab := Sab{{{complex(1, 0), 0, 0}, {0, complex(1, 0), 0}, {0, 0, complex(1, 0)}}}
	proj := NeutronProjection(sab, Vec3{0, 0, 1})
	// trace-like isotropic tensor projected transverse to z should leave 2 (xx+yy).
	if d := real(proj[0]) - 2; d > 1e-9 || d < -1e-9 {
		t.Fatalf("unexpected projection: %v", proj[0])
	}
}
