// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bogoliubov

import (
	"math/cmplx"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/spinw/gospinw/linalg"
	"github.com/spinw/gospinw/lswterr"
)

// twoByTwoH builds the simplest non-trivial positive-definite Hermitian
// Hamiltonian with known Bogoliubov spectrum: h = [[a, b],[b*, a]] with
// a > |b|, G=diag(1,-1), whose energies are +sqrt(a^2-|b|^2) and its
// negative conjugate partner.
func twoByTwoH(a float64, b complex128) *linalg.CMatrix {
	h := linalg.NewCMatrix(2)
	h.Set(0, 0, complex(a, 0))
	h.Set(1, 1, complex(a, 0))
	h.Set(0, 1, b)
	h.Set(1, 0, cmplx.Conj(b))
	return h
}

func Test_colpa01(t *testing.T) {
	chk.PrintTitle("colpa01: 2x2 positive-definite h diagonalizes with a positive mode and its negative partner")
	h := twoByTwoH(3, complex(1, 0))
	warn := &lswterr.Buffer{}
	res, err := Colpa(h, 1, 0, 1e-8, 0, warn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Omega) != 2 {
		t.Fatalf("expected 2 energies, got %d", len(res.Omega))
	}
	if res.Omega[0] <= 0 || res.Omega[1] >= 0 {
		t.Fatalf("expected one positive energy and its negative partner, got %v", res.Omega)
	}
	if res.Omega[0] < res.Omega[1] {
		t.Fatalf("expected descending order, got %v", res.Omega)
	}
}

func Test_colpa02_nonPosDef(t *testing.T) {
	chk.PrintTitle("colpa02: Cholesky failure without a viable shift surfaces NonPosDefHamiltonian")
	// A uniformly negative diagonal alone is not enough: the shift lambda is
	// proportional to the worst pivot, so it always overcorrects a purely
	// diagonal failure. Pairing a barely-negative diagonal with a large
	// off-diagonal coupling defeats the shift instead, since the coupling
	// is untouched by it and dominates the second pivot.
	h := twoByTwoH(-0.01, complex(200, 0))
	_, err := Colpa(h, 1, 0, 1e-8, 3, nil)
	if err == nil {
		t.Fatalf("expected an error for a Hamiltonian that is non-positive-definite even after the shift retry")
	}
	lerr, ok := err.(*lswterr.Error)
	if !ok || lerr.Kind != lswterr.NonPosDefHamiltonian {
		t.Fatalf("wrong error kind: %v", err)
	}
}

func Test_white01(t *testing.T) {
	chk.PrintTitle("white01: White fallback reproduces the same spectrum as Colpa on a benign input")
	h := twoByTwoH(3, complex(1, 0))
	cres, err := Colpa(h, 1, 0, 1e-8, 0, nil)
	if err != nil {
		t.Fatalf("colpa failed: %v", err)
	}
	wres, err := White(h, 1, 0, 1e-8, 0, nil)
	if err != nil {
		t.Fatalf("white failed: %v", err)
	}
	for i := range cres.Omega {
		if d := cres.Omega[i] - wres.Omega[i]; d > 1e-6 || d < -1e-6 {
			t.Fatalf("spectra disagree: colpa=%v white=%v", cres.Omega, wres.Omega)
		}
	}
}

func Test_truncate01(t *testing.T) {
	chk.PrintTitle("truncate01: fast mode keeps only the first L columns and energies")
	h := twoByTwoH(3, complex(1, 0))
	res, err := Colpa(h, 1, 0, 1e-8, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fast := Truncate(res, 1)
	if len(fast.Omega) != 1 {
		t.Fatalf("expected 1 energy, got %d", len(fast.Omega))
	}
	if fast.V.Rows != 2 || fast.V.Cols != 1 {
		t.Fatalf("unexpected truncated V shape: %d x %d", fast.V.Rows, fast.V.Cols)
	}
}

func Test_lookup01(t *testing.T) {
	chk.PrintTitle("lookup01: strategy registry resolves colpa and white")
	if _, ok := Lookup("colpa"); !ok {
		t.Fatalf("expected colpa strategy registered")
	}
	if _, ok := Lookup("white"); !ok {
		t.Fatalf("expected white strategy registered")
	}
	if _, ok := Lookup("nope"); ok {
		t.Fatalf("expected unknown strategy to be absent")
	}
}
