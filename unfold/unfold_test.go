// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package unfold

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/spinw/gospinw/correlation"
)

func Test_triple01(t *testing.T) {
	chk.PrintTitle("triple01: Q is tripled to [Q-k, Q, Q+k]")
	q := Vec3{0.2, 0, 0}
	k := Vec3{0.1, 0, 0}
	got := Triple(q, k)
	want := [3]Vec3{{0.1, 0, 0}, {0.2, 0, 0}, {0.3, 0, 0}}
	for i := range got {
		for j := 0; j < 3; j++ {
			if d := got[i][j] - want[i][j]; d > 1e-12 || d < -1e-12 {
				t.Fatalf("Triple()[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	}
}

func Test_applyThird01(t *testing.T) {
	chk.PrintTitle("applyThird01: center third projects onto n")
	n := Vec3{0, 0, 1}
	sab := correlation.Sab{{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
	out := ApplyThird(sab, Center, n)
	// K2 = diag(0,0,1) here, so S.K2 keeps only the third column of S.
	if d := real(out[0][2][2]) - 1; d > 1e-9 || d < -1e-9 {
		t.Fatalf("unexpected center projection: %v", out[0])
	}
	if d := real(out[0][0][0]); d > 1e-9 || d < -1e-9 {
		t.Fatalf("expected zeroed column, got %v", out[0])
	}
}

func Test_concatenateOmega01(t *testing.T) {
	chk.PrintTitle("concatenateOmega01: minus/center/plus thirds concatenate in order")
	out := ConcatenateOmega([]float64{1, 2}, []float64{3, 4}, []float64{5, 6})
	want := []float64{1, 2, 3, 4, 5, 6}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("ConcatenateOmega() = %v, want %v", out, want)
		}
	}
}
