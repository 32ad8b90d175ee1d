// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame builds the per-site local complex transverse basis (z, eta)
// from ordered moment vectors, component A of the linear spin-wave core.
package frame

import (
	"math"

	"github.com/spinw/gospinw/geom"
	"github.com/spinw/gospinw/lswterr"
)

// Vec3 is a Cartesian 3-vector.
type Vec3 = geom.Vec3

func norm(v Vec3) float64 { return v.Norm() }

func scale(v Vec3, s float64) Vec3 { return v.Scale(s) }

func sub(v, o Vec3) Vec3 { return v.Sub(o) }

func cross(a, b Vec3) Vec3 { return geom.Cross(a, b) }

// Cplx3 is a complex 3-vector, z = e1 + i*e2.
type Cplx3 = geom.Cplx3

// Frame is the local triad (z, eta, spin length) of one site.
type Frame struct {
	Z   Cplx3
	Eta Vec3
	S   float64
}

// FromMoment builds the moment-aligned local frame of spec §4.A: e3 = eta =
// M/|M|; e2 = (0, eta_z, -eta_y) normalized, the unit vector perpendicular to
// both eta and the global x-axis (falling back to the global z-axis when eta
// is (anti)parallel to x); e1 = e2 x e3.
func FromMoment(m Vec3) (Frame, error) {
	s := norm(m)
	if s < 1e-12 {
		return Frame{}, lswterr.New(lswterr.EmptyMagneticStructure, "zero-length moment vector")
	}
	eta := scale(m, 1/s)

	var e2 Vec3
	perp := Vec3{0, eta[2], -eta[1]}
	if norm(perp) > 1e-10 {
		e2 = scale(perp, 1/norm(perp))
	} else {
		e2 = Vec3{0, 0, 1}
	}
	e1 := cross(e2, eta)

	z := Cplx3{
		complex(e1[0], e2[0]),
		complex(e1[1], e2[1]),
		complex(e1[2], e2[2]),
	}
	return Frame{Z: z, Eta: eta, S: s}, nil
}

// FromComplexAmplitude builds the complex-magnetisation-aligned frame of
// spec §4.A, used for rotating-frame (incommensurate) structures supplied
// with a complex Fourier amplitude F = Re(F) + i*Im(F). S is supplied
// separately since |F| is not in general the ordered spin length.
func FromComplexAmplitude(f [3]complex128, s float64) (Frame, error) {
	re := Vec3{real(f[0]), real(f[1]), real(f[2])}
	im := Vec3{imag(f[0]), imag(f[1]), imag(f[2])}
	reNorm := norm(re)
	if reNorm < 1e-12 {
		return Frame{}, lswterr.New(lswterr.EmptyMagneticStructure, "zero real part of complex Fourier amplitude")
	}
	e3 := scale(re, 1/reNorm)

	// project im perpendicular to e3
	dot := im[0]*e3[0] + im[1]*e3[1] + im[2]*e3[2]
	perp := sub(im, scale(e3, dot))
	perpNorm := norm(perp)
	if perpNorm < 1e-12 {
		return Frame{}, lswterr.New(lswterr.EmptyMagneticStructure, "imaginary part of complex Fourier amplitude degenerate with real part")
	}
	e1 := scale(perp, 1/perpNorm)
	e2 := cross(e3, e1)

	z := Cplx3{
		complex(e1[0], e2[0]),
		complex(e1[1], e2[1]),
		complex(e1[2], e2[2]),
	}
	if s <= 0 {
		return Frame{}, lswterr.New(lswterr.EmptyMagneticStructure, "non-positive spin length")
	}
	return Frame{Z: z, Eta: e3, S: s}, nil
}

// Validate checks the triad invariants of spec §3: z.eta=0, z.z=0, z.z*=2.
func (f Frame) Validate(tol float64) bool {
	var zdotEta complex128
	var zdotz complex128
	var zdotzbar complex128
	for i := 0; i < 3; i++ {
		zdotEta += f.Z[i] * complex(f.Eta[i], 0)
		zdotz += f.Z[i] * f.Z[i]
		zdotzbar += f.Z[i] * cmplxConj(f.Z[i])
	}
	if cAbs(zdotEta) > tol {
		return false
	}
	if cAbs(zdotz) > tol {
		return false
	}
	if cAbs(zdotzbar-2) > tol {
		return false
	}
	return true
}

func cmplxConj(c complex128) complex128 { return complex(real(c), -imag(c)) }

func cAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// BuildAll builds local frames for every site's moment, in the convention
// selected by useComplexAmplitude. moments and amplitudes are indexed the
// same way; amplitudes may be nil when useComplexAmplitude is false.
func BuildAll(moments []Vec3, amplitudes [][3]complex128, spinLens []float64, useComplexAmplitude bool) ([]Frame, error) {
	n := len(moments)
	if n == 0 {
		return nil, lswterr.New(lswterr.EmptyMagneticStructure, "no sites with non-zero moment")
	}
	frames := make([]Frame, n)
	for i := 0; i < n; i++ {
		var fr Frame
		var err error
		if useComplexAmplitude {
			fr, err = FromComplexAmplitude(amplitudes[i], spinLens[i])
		} else {
			fr, err = FromMoment(moments[i])
		}
		if err != nil {
			return nil, lswterr.New(lswterr.EmptyMagneticStructure, "site %d: %v", i, err)
		}
		frames[i] = fr
	}
	return frames, nil
}
