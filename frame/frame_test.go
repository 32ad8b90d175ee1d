// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_frame01(t *testing.T) {
	chk.PrintTitle("frame01: moment along z")
	fr, err := FromMoment(Vec3{0, 0, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fr.S < 1.999 || fr.S > 2.001 {
		t.Fatalf("wrong spin length: %v", fr.S)
	}
	if !fr.Validate(1e-9) {
		t.Fatalf("triad invariants violated for z-aligned moment")
	}
}

func Test_frame02(t *testing.T) {
	chk.PrintTitle("frame02: moment along x, y, and a generic direction")
	for _, m := range []Vec3{{1, 0, 0}, {0, 1, 0}, {0.3, -0.7, 1.1}} {
		fr, err := FromMoment(m)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", m, err)
		}
		if !fr.Validate(1e-9) {
			t.Fatalf("triad invariants violated for %v", m)
		}
	}
}

func Test_frame03(t *testing.T) {
	chk.PrintTitle("frame03: zero moment fails")
	_, err := FromMoment(Vec3{0, 0, 0})
	if err == nil {
		t.Fatalf("expected error for zero moment")
	}
}

func Test_frame04(t *testing.T) {
	chk.PrintTitle("frame04: complex-amplitude frame satisfies triad invariants")
	f := [3]complex128{complex(1, 0), complex(0, 1), 0}
	fr, err := FromComplexAmplitude(f, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fr.Validate(1e-9) {
		t.Fatalf("triad invariants violated")
	}
}

func Test_frame05(t *testing.T) {
	chk.PrintTitle("frame05: BuildAll requires every site to have a moment")
	_, err := BuildAll([]Vec3{{0, 0, 1}, {0, 0, 0}}, nil, nil, false)
	if err == nil {
		t.Fatalf("expected error when one site has a zero moment")
	}
}
