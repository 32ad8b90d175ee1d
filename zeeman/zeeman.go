// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zeeman builds the per-twin external-field diagonal contribution to
// the spin-wave Hamiltonian, component D of the linear spin-wave core.
package zeeman

import "github.com/spinw/gospinw/geom"

// Vec3 is a Cartesian 3-vector.
type Vec3 = geom.Vec3

// Mat3 is a row-major 3x3 real matrix.
type Mat3 = geom.Mat3

// Twin is a crystal domain: rotation matrix Rᵗ ∈ SO(3) and volume weight vᵗ.
type Twin struct {
	R      Mat3
	Weight float64
}

// BuildDiagonal implements spec §4.D for one twin: (h_field)ᵢ = μ_B · H^T ·
// Rᵗ · gᵢ · ηᵢ, repeated identically in the b and b† sectors of the returned
// length-2L diagonal.
func BuildDiagonal(h Vec3, muB float64, twin Twin, gTensors []Mat3, etas []Vec3) []float64 {
	l := len(etas)
	diag := make([]float64, 2*l)
	hRot := geom.VecMulMat(h, twin.R)
	for i := 0; i < l; i++ {
		g := gTensors[i]
		gEta := geom.MulVec(g, etas[i])
		v := muB * geom.Dot(hRot, gEta)
		diag[i] = v
		diag[l+i] = v
	}
	return diag
}

// IdentityGTensors returns l copies of the identity g-tensor, the default of
// spec §3 when no per-site g-tensor is supplied.
func IdentityGTensors(l int) []Mat3 {
	out := make([]Mat3, l)
	id := geom.Identity3()
	for i := range out {
		out[i] = id
	}
	return out
}
