// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zeeman

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/spinw/gospinw/geom"
)

func Test_zeeman01(t *testing.T) {
	chk.PrintTitle("zeeman01: field along z, moment along z, identity twin")
	twin := Twin{R: geom.Identity3(), Weight: 1}
	etas := []Vec3{{0, 0, 1}, {0, 0, 1}}
	g := IdentityGTensors(2)
	diag := BuildDiagonal(Vec3{0, 0, 2}, 0.5, twin, g, etas)
	if len(diag) != 4 {
		t.Fatalf("expected length 4, got %d", len(diag))
	}
	for i, want := range []float64{1, 1, 1, 1} {
		if d := diag[i] - want; d > 1e-9 || d < -1e-9 {
			t.Fatalf("diag[%d] = %v, want %v", i, diag[i], want)
		}
	}
}

func Test_zeeman02(t *testing.T) {
	chk.PrintTitle("zeeman02: field perpendicular to moment vanishes")
	twin := Twin{R: geom.Identity3(), Weight: 1}
	etas := []Vec3{{0, 0, 1}}
	g := IdentityGTensors(1)
	diag := BuildDiagonal(Vec3{1, 0, 0}, 1.0, twin, g, etas)
	for _, d := range diag {
		if d > 1e-9 || d < -1e-9 {
			t.Fatalf("expected zero contribution, got %v", diag)
		}
	}
}
