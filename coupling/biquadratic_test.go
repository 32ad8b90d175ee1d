// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coupling

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/spinw/gospinw/frame"
	"github.com/spinw/gospinw/lswterr"
)

func Test_biquadratic01(t *testing.T) {
	chk.PrintTitle("biquadratic01: empty bond list is a no-op")
	tab, err := BuildBiquadraticTable(nil, nil, nil, false, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tab.Entries) != 0 {
		t.Fatalf("expected empty table")
	}
}

func Test_biquadratic02(t *testing.T) {
	chk.PrintTitle("biquadratic02: incommensurate rejects non-empty bonds")
	fr, _ := frame.FromMoment(Vec3{0, 0, 1})
	frames := []frame.Frame{fr, fr}
	bonds := []Biquadratic{{I: 0, J: 1, Jb: 1}}
	_, err := BuildBiquadraticTable(bonds, frames, []float64{1, 1}, true, 2)
	if err == nil {
		t.Fatalf("expected BiquadraticIncommensurate error")
	}
	lerr, ok := err.(*lswterr.Error)
	if !ok || lerr.Kind != lswterr.BiquadraticIncommensurate {
		t.Fatalf("wrong error kind: %v", err)
	}
}

func Test_biquadratic03(t *testing.T) {
	chk.PrintTitle("biquadratic03: collinear dimer produces one entry and correctly sized diagonals")
	fr, _ := frame.FromMoment(Vec3{0, 0, 1})
	frames := []frame.Frame{fr, fr}
	bonds := []Biquadratic{{I: 0, J: 1, Jb: 0.5}}
	tab, err := BuildBiquadraticTable(bonds, frames, []float64{1, 1}, false, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tab.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(tab.Entries))
	}
	if len(tab.DiagC) != 4 || len(tab.DiagD) != 2 {
		t.Fatalf("wrong table shapes: %d %d", len(tab.DiagC), len(tab.DiagD))
	}
}
