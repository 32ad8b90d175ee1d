// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gospinw

import (
	"context"
	"math/cmplx"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/spinw/gospinw/geom"
	"github.com/spinw/gospinw/lswterr"
)

func ferromagneticChainInput(nQ int, hkl []Vec3) Input {
	j3 := Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	return Input{
		HKL:        hkl,
		RecipBasis: geom.Identity3(),
		NExt:       Vec3{1, 1, 1},
		K:          Vec3{0, 0, 0},
		N:          Vec3{0, 0, 1},
		NCell:      1,
		Sites: []Site{
			{Pos: Vec3{0, 0, 0}, Moment: Vec3{0, 0, 1}},
		},
		Bilinear: []Bilinear{
			{I: 0, J: 0, DR: Vec3{1, 0, 0}, J3: j3},
		},
		// A field along the ordered moment keeps h(Q) positive definite at
		// every Q in this small test chain, so the Colpa path is exercised
		// without needing the White fallback.
		Field: Field{H: Vec3{0, 0, 10}, MuB: 1},
	}
}

func Test_compute01_emptyStructure(t *testing.T) {
	chk.PrintTitle("compute01: no sites is rejected with EmptyMagneticStructure")
	_, err := Compute(context.Background(), Input{}, Options{Hermit: true})
	if err == nil {
		t.Fatalf("expected an error")
	}
	lerr, ok := err.(*lswterr.Error)
	if !ok || lerr.Kind != lswterr.EmptyMagneticStructure {
		t.Fatalf("wrong error kind: %v", err)
	}
}

func Test_compute02_hermiticityAndParaUnitarity(t *testing.T) {
	chk.PrintTitle("compute02: assembled H is Hermitian and V is para-unitary at every Q")
	in := ferromagneticChainInput(3, []Vec3{{0, 0, 0}, {0.3, 0, 0}, {0.5, 0, 0}})
	opt := Options{Hermit: true, OmegaTol: 1e-8, Tol: 1e-6, ThreadCount: 2, ReturnV: true, ReturnHMatrix: true}
	res, err := Compute(context.Background(), in, opt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for q, h := range res.HMatrix {
		if h == nil {
			continue
		}
		if r := h.HermiticityResidual(); r > 1e-10 {
			t.Fatalf("Q[%d]: Hamiltonian not Hermitian, residual %v", q, r)
		}
	}
	for q, v := range res.V {
		if v == nil {
			continue
		}
		n := v.N
		vh := v.ConjTranspose()
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				var s complex128
				for k := 0; k < n; k++ {
					g := 1.0
					if k >= n/2 {
						g = -1.0
					}
					s += vh.At(i, k) * complex(g, 0) * v.At(k, j)
				}
				want := complex(0, 0)
				if i == j {
					if i < n/2 {
						want = 1
					} else {
						want = -1
					}
				}
				if cmplx.Abs(s-want) > 1e-6 {
					t.Fatalf("Q[%d]: V^H G V != G at (%d,%d): got %v want %v", q, i, j, s, want)
				}
			}
		}
	}
}

func Test_compute03_bosonicConjugationSymmetry(t *testing.T) {
	chk.PrintTitle("compute03: commensurate omega(mu) = -omega(mu+L) up to sort order")
	in := ferromagneticChainInput(1, []Vec3{{0.3, 0, 0}})
	res, err := Compute(context.Background(), in, Options{Hermit: true, OmegaTol: 1e-8, Tol: 1e-6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	om := res.Omega[0]
	if len(om) != 2 {
		t.Fatalf("expected 2 modes (2L, L=1), got %d", len(om))
	}
	if d := om[0] + om[1]; d > 1e-6 || d < -1e-6 {
		t.Fatalf("expected omega[0] = -omega[1], got %v and %v", om[0], om[1])
	}
}

func Test_compute04_biquadraticIncommensurateRejected(t *testing.T) {
	chk.PrintTitle("compute04: biquadratic couplings with incommensurate k is rejected")
	in := ferromagneticChainInput(1, []Vec3{{0, 0, 0}})
	in.K = Vec3{0.2, 0, 0}
	in.Biquadratic = []Biquadratic{{I: 0, J: 0, Jb: 0.5}}
	_, err := Compute(context.Background(), in, Options{Hermit: true})
	if err == nil {
		t.Fatalf("expected BiquadraticIncommensurate error")
	}
	lerr, ok := err.(*lswterr.Error)
	if !ok || lerr.Kind != lswterr.BiquadraticIncommensurate {
		t.Fatalf("wrong error kind: %v", err)
	}
}

func Test_compute05_fastModeShapes(t *testing.T) {
	chk.PrintTitle("compute05: fast mode truncates omega to L modes")
	in := ferromagneticChainInput(1, []Vec3{{0.25, 0, 0}})
	res, err := Compute(context.Background(), in, Options{Hermit: true, FastMode: true, OmegaTol: 1e-8, Tol: 1e-6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Omega[0]) != 1 {
		t.Fatalf("expected 1 mode in fast mode (L=1), got %d", len(res.Omega[0]))
	}
}

func Test_compute06_twinAveragingNormalizesWeights(t *testing.T) {
	chk.PrintTitle("compute06: twin-weighted S_perp is non-empty and NaN-free for two equal-weight twins")
	in := ferromagneticChainInput(1, []Vec3{{0.1, 0, 0}})
	in.Twins = []Twin{
		{R: geom.Identity3(), Weight: 1},
		{R: geom.Rodrigues(Vec3{0, 0, 1}, 1.5707963267948966), Weight: 1},
	}
	res, err := Compute(context.Background(), in, Options{Hermit: true, NeutronOutput: true, OmegaTol: 1e-8, Tol: 1e-6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sperp[0]) == 0 {
		t.Fatalf("expected non-empty S_perp output")
	}
	for _, v := range res.Sperp[0] {
		if cmplx.IsNaN(v) {
			t.Fatalf("S_perp contains NaN: %v", res.Sperp[0])
		}
	}
}

func Test_compute07_incommensurateTriplesQ(t *testing.T) {
	chk.PrintTitle("compute07: incommensurate k triples the per-Q mode count into three groups")
	in := ferromagneticChainInput(1, []Vec3{{0, 0, 0}})
	in.K = Vec3{0.2, 0, 0}
	res, err := Compute(context.Background(), in, Options{Hermit: true, OmegaTol: 1e-8, Tol: 1e-6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// L=1 -> 2 modes per third, 3 thirds -> 6 modes total.
	if len(res.Omega[0]) != 6 {
		t.Fatalf("expected 6 modes for an incommensurate L=1 chain, got %d", len(res.Omega[0]))
	}
}

// nonPositiveDefiniteInput builds a single-site chain with a strongly
// anisotropic exchange tensor (Jx=50, Jy=-50, Jz=0.01) instead of the
// isotropic one used elsewhere in this file. At Q=0 the bilinear diagonal
// collapses to Jx+Jy-Jz=-0.01 while Hermitize leaves the off-diagonal pairing
// term at Jx-Jy=100: a barely-negative diagonal next to a large coupling that
// the Colpa shift retry cannot rescue, so Compute must surface
// NonPosDefHamiltonian rather than silently falling back to White.
func nonPositiveDefiniteInput() Input {
	j3 := Mat3{{50, 0, 0}, {0, -50, 0}, {0, 0, 0.01}}
	return Input{
		HKL:        []Vec3{{0, 0, 0}},
		RecipBasis: geom.Identity3(),
		NExt:       Vec3{1, 1, 1},
		K:          Vec3{0, 0, 0},
		N:          Vec3{0, 0, 1},
		NCell:      1,
		Sites: []Site{
			{Pos: Vec3{0, 0, 0}, Moment: Vec3{0, 0, 1}},
		},
		Bilinear: []Bilinear{
			{I: 0, J: 0, DR: Vec3{1, 0, 0}, J3: j3},
		},
	}
}

func Test_compute08_nonPosDefHamiltonianSurfaces(t *testing.T) {
	chk.PrintTitle("compute08: a Hamiltonian that is non-positive-definite after the shift retry surfaces NonPosDefHamiltonian, not a silent White fallback")
	in := nonPositiveDefiniteInput()
	_, err := Compute(context.Background(), in, Options{Hermit: true, OmegaTol: 1e-8, Tol: 1e-6})
	if err == nil {
		t.Fatalf("expected NonPosDefHamiltonian, got a result")
	}
	lerr, ok := err.(*lswterr.Error)
	if !ok || lerr.Kind != lswterr.NonPosDefHamiltonian {
		t.Fatalf("wrong error kind: %v", err)
	}
}

func hasWarning(ws []lswterr.Warning, kind lswterr.WarnKind) bool {
	for _, w := range ws {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

func Test_compute09_freeMemoryUnknownWarns(t *testing.T) {
	chk.PrintTitle("compute09: an unset FreeMemoryBytes budget warns WarnFreeMemoryUnknown")
	in := ferromagneticChainInput(1, []Vec3{{0.3, 0, 0}})
	res, err := Compute(context.Background(), in, Options{Hermit: true, OmegaTol: 1e-8, Tol: 1e-6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasWarning(res.Warnings, lswterr.WarnFreeMemoryUnknown) {
		t.Fatalf("expected WarnFreeMemoryUnknown, got %v", res.Warnings)
	}
}

func Test_compute10_twinZeroRotationWarns(t *testing.T) {
	chk.PrintTitle("compute10: a twin with a zero rotation matrix warns WarnTwinZeroRotation")
	in := ferromagneticChainInput(1, []Vec3{{0.3, 0, 0}})
	in.Twins = []Twin{{R: Mat3{}, Weight: 1}}
	res, err := Compute(context.Background(), in, Options{Hermit: true, OmegaTol: 1e-8, Tol: 1e-6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasWarning(res.Warnings, lswterr.WarnTwinZeroRotation) {
		t.Fatalf("expected WarnTwinZeroRotation, got %v", res.Warnings)
	}
}

func Test_compute11_gTensorUnsetWarns(t *testing.T) {
	chk.PrintTitle("compute11: requesting g-tensor application on a site with no GTensor warns WarnGTensorUnset")
	in := ferromagneticChainInput(1, []Vec3{{0.3, 0, 0}})
	res, err := Compute(context.Background(), in, Options{Hermit: true, ApplyGTensor: true, OmegaTol: 1e-8, Tol: 1e-6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasWarning(res.Warnings, lswterr.WarnGTensorUnset) {
		t.Fatalf("expected WarnGTensorUnset, got %v", res.Warnings)
	}
}

func Test_compute12_incommensurateInSupercellWarns(t *testing.T) {
	chk.PrintTitle("compute12: an incommensurate propagation vector inside a magnetic supercell warns WarnIncommensurateInSupercell")
	in := ferromagneticChainInput(1, []Vec3{{0, 0, 0}})
	in.K = Vec3{0.2, 0, 0}
	in.NExt = Vec3{2, 1, 1}
	res, err := Compute(context.Background(), in, Options{Hermit: true, OmegaTol: 1e-8, Tol: 1e-6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasWarning(res.Warnings, lswterr.WarnIncommensurateInSupercell) {
		t.Fatalf("expected WarnIncommensurateInSupercell, got %v", res.Warnings)
	}
}
