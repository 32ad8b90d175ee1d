// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coupling

import (
	"math"

	"github.com/spinw/gospinw/geom"
)

// Mat3 is a row-major 3x3 real matrix.
type Mat3 = geom.Mat3

// Vec3 is a Cartesian 3-vector.
type Vec3 = geom.Vec3

// Rodrigues returns the rotation matrix by angle theta (radians) around the
// unit axis n.
func Rodrigues(n Vec3, theta float64) Mat3 { return geom.Rodrigues(n, theta) }

// Mul3 returns a*b for 3x3 real matrices.
func Mul3(a, b Mat3) Mat3 { return geom.MulMat(a, b) }

// Add3 returns a+b.
func Add3(a, b Mat3) Mat3 { return geom.AddMat(a, b) }

// Scale3 returns s*a.
func Scale3(a Mat3, s float64) Mat3 { return geom.ScaleMat(a, s) }

// Dot dots two real 3-vectors.
func Dot(a, b Vec3) float64 { return geom.Dot(a, b) }

// symmetrizeRotatingFrame applies the rotating-frame symmetrization of
// spec §4.B: J -> (J*K + K*J)/2, K = Rodrigues(n, k.dR*2*pi).
func symmetrizeRotatingFrame(j Mat3, n, k, dR Vec3) Mat3 {
	angle := Dot(k, dR) * 2 * math.Pi
	kRot := Rodrigues(n, angle)
	return Scale3(Add3(Mul3(j, kRot), Mul3(kRot, j)), 0.5)
}
