// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gospinw is the numerical core of a linear spin-wave theory engine:
// given a magnetic structure, exchange couplings, and a list of Q points, it
// assembles and diagonalizes the bosonic spin-wave Hamiltonian and returns
// magnon energies and dynamical correlation tensors. Compute is the single
// entry point; every other exported package (frame, coupling, zeeman,
// hamiltonian, bogoliubov, correlation, unfold, schedule) is an internal
// stage of its pipeline, kept exported the way this module's dependency
// stack keeps its own per-concern packages independently usable and
// testable.
package gospinw

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/spinw/gospinw/bogoliubov"
	"github.com/spinw/gospinw/coupling"
	"github.com/spinw/gospinw/correlation"
	"github.com/spinw/gospinw/frame"
	"github.com/spinw/gospinw/geom"
	"github.com/spinw/gospinw/hamiltonian"
	"github.com/spinw/gospinw/linalg"
	"github.com/spinw/gospinw/lswterr"
	"github.com/spinw/gospinw/schedule"
	"github.com/spinw/gospinw/unfold"
	"github.com/spinw/gospinw/zeeman"
)

// Vec3 and Mat3 are the Cartesian/fractional 3-vector and 3x3 real matrix
// types used throughout the public API.
type (
	Vec3 = geom.Vec3
	Mat3 = geom.Mat3
)

// Site is one magnetic atom: fractional position in the magnetic supercell,
// ordered moment (its length is the spin length Sᵢ), optional per-site
// g-tensor (nil selects the identity), and optional form-factor evaluator
// (nil selects Fᵢ(|Q|)=1).
type Site struct {
	Pos        Vec3
	Moment     Vec3
	GTensor    *Mat3
	FormFactor func(absQ float64) float64
}

// Bilinear is a two-body exchange coupling; on-site anisotropy is
// represented with I==J and DR==(0,0,0), per spec §3.
type Bilinear = coupling.Bilinear

// Biquadratic is a biquadratic coupling, forbidden together with an
// incommensurate propagation vector.
type Biquadratic = coupling.Biquadratic

// Field is the external Zeeman field.
type Field struct {
	H   Vec3
	MuB float64
}

// Twin is a crystal domain: rotation matrix and volume weight.
type Twin = zeeman.Twin

// CoeffFormFactor evaluates a magnetic ion's form factor from the standard
// ⟨j0⟩ analytic approximation coefficients (A,a,B,b,C,c,D), supplementing the
// plain per-site callback with the tabulated-coefficient convention most
// magnetic form factor tables publish.
type CoeffFormFactor struct {
	A, a, B, b, C, c, D float64
}

// Eval implements the standard ⟨j0(s)⟩ = A*exp(-a*s²) + B*exp(-b*s²) +
// C*exp(-c*s²) + D form factor, s = |Q|/(4π).
func (f CoeffFormFactor) Eval(absQ float64) float64 {
	s2 := (absQ / (4 * math.Pi)) * (absQ / (4 * math.Pi))
	return f.A*math.Exp(-f.a*s2) + f.B*math.Exp(-f.b*s2) + f.C*math.Exp(-f.c*s2) + f.D
}

// Input bundles every Q-independent and Q-dependent quantity of spec §6.
type Input struct {
	HKL        []Vec3 // fractional Q points
	RecipBasis Mat3   // maps fractional HKL to Cartesian Q (Å⁻¹), for |Q| and q̂
	NExt       Vec3   // extended-cell size (positive integers, stored as float64)
	K          Vec3   // propagation vector, extended-cell units
	N          Vec3   // rotation axis, unit vector
	NCell      float64 // number of chemical cells in the magnetic cell; 1 if unset

	Sites       []Site
	Bilinear    []Bilinear
	Biquadratic []Biquadratic
	Field       Field
	Twins       []Twin // defaults to one identity twin with weight 1 if empty
}

// Options controls the numerical strategy and optional outputs, spec §6.
type Options struct {
	Hermit          bool // Colpa path when true, White fallback when false; the zero value selects White
	FastMode        bool
	NeutronOutput   bool
	ApplyFormFactor bool
	ApplyGTensor    bool
	OmegaTol        float64
	Tol             float64 // commensurability tolerance for incommensurate/helical detection
	SortMode        string  // not read by Compute: modes are always ordered by descending energy, ties by eigensolver index
	ThreadCount     int
	ChunkOverride   int
	FreeMemoryBytes int64
	ReturnV         bool
	ReturnHMatrix   bool
}

func (o Options) omegaTol() float64 {
	if o.OmegaTol > 0 {
		return o.OmegaTol
	}
	return 1e-8
}

func (o Options) tol() float64 {
	if o.Tol > 0 {
		return o.Tol
	}
	return 1e-6
}

// Result is the output of Compute, spec §6. Omega and Sab/Sperp are indexed
// [qIndex][mode...]; V and HMatrix are populated only when requested and are
// nil otherwise.
type Result struct {
	Omega    [][]float64
	Sab      []correlation.Sab
	Sperp    [][]complex128
	V        []*linalg.CMatrix
	HMatrix  []*linalg.CMatrix
	Warnings []lswterr.Warning
}

// Compute runs the full linear spin-wave pipeline of spec §4: it builds the
// Q-independent local frames and contribution tables once, then assembles,
// diagonalizes, and correlates the Hamiltonian at every Q point (tripled into
// thirds first when the propagation vector is incommensurate), splitting the
// Q list into chunks sized by a memory-budget heuristic and distributing them
// across a worker pool of ThreadCount goroutines.
func Compute(ctx context.Context, in Input, opt Options) (Result, error) {
	l := len(in.Sites)
	if l == 0 {
		return Result{}, lswterr.New(lswterr.EmptyMagneticStructure, "no sites with non-zero moment")
	}
	if err := validate(in); err != nil {
		return Result{}, err
	}

	incommensurate := !isCommensurate(in.K, opt.tol())
	helical := !isCommensurate(in.K.Scale(2), opt.tol())

	if len(in.Biquadratic) > 0 && incommensurate {
		return Result{}, lswterr.New(lswterr.BiquadraticIncommensurate,
			"biquadratic couplings supplied together with an incommensurate propagation vector")
	}

	moments := make([]Vec3, l)
	spin := make([]float64, l)
	for i, s := range in.Sites {
		moments[i] = s.Moment
		spin[i] = s.Moment.Norm()
	}
	frames, err := frame.BuildAll(moments, nil, spin, false)
	if err != nil {
		return Result{}, err
	}

	bil := coupling.BuildBilinearTable(in.Bilinear, frames, spin, in.K, in.N, incommensurate, l)
	biq, err := coupling.BuildBiquadraticTable(in.Biquadratic, frames, spin, incommensurate, l)
	if err != nil {
		return Result{}, err
	}

	twins := in.Twins
	if len(twins) == 0 {
		twins = []Twin{{R: geom.Identity3(), Weight: 1}}
	}
	gTensors := siteGTensors(in.Sites)
	etas := make([]Vec3, l)
	for i, fr := range frames {
		etas[i] = fr.Eta
	}
	fieldDiags := make([][]float64, len(twins))
	var twinWeightSum float64
	for t, twin := range twins {
		fieldDiags[t] = zeeman.BuildDiagonal(in.Field.H, in.Field.MuB, twin, gTensors, etas)
		twinWeightSum += twin.Weight
	}

	var structuralWarnings []lswterr.Warning
	for t, twin := range twins {
		if twin.R == (Mat3{}) {
			structuralWarnings = append(structuralWarnings, lswterr.Warning{
				Kind: lswterr.WarnTwinZeroRotation, QIndex: -1,
				Detail: fmt.Sprintf("twin %d has a zero rotation matrix", t),
			})
		}
	}
	if opt.ApplyGTensor {
		for i, s := range in.Sites {
			if s.GTensor == nil {
				structuralWarnings = append(structuralWarnings, lswterr.Warning{
					Kind: lswterr.WarnGTensorUnset, QIndex: -1,
					Detail: fmt.Sprintf("site %d: g-tensor application requested but no GTensor was set", i),
				})
			}
		}
	}
	if opt.FreeMemoryBytes <= 0 {
		structuralWarnings = append(structuralWarnings, lswterr.Warning{
			Kind: lswterr.WarnFreeMemoryUnknown, QIndex: -1,
			Detail: "no free-memory estimate supplied; chunk sizing defaulted to 1 GiB",
		})
	}
	supercell := in.NExt[0] != 1 || in.NExt[1] != 1 || in.NExt[2] != 1
	warnIncommensurateSupercell := incommensurate && supercell

	zTilde := correlation.ApplyGTensor(framesZ(frames), gTensors, opt.ApplyGTensor)
	sitePos := make([]Vec3, l)
	for i, s := range in.Sites {
		sitePos[i] = s.Pos
	}

	strategy := bogoliubov.Colpa
	if !opt.Hermit {
		strategy = bogoliubov.White
	}

	nQ := len(in.HKL)
	nModesFull := 2 * l
	nModesOut := nModesFull
	nGroups := 1
	if incommensurate {
		nGroups = 3
	}
	if opt.FastMode {
		nModesOut = l
	}
	totalModesOut := nModesOut * nGroups

	res := Result{
		Omega: make([][]float64, nQ),
		Sab:   make([]correlation.Sab, nQ),
	}
	if opt.NeutronOutput {
		res.Sperp = make([][]complex128, nQ)
	}
	if opt.ReturnV {
		res.V = make([]*linalg.CMatrix, nQ)
	}
	if opt.ReturnHMatrix {
		res.HMatrix = make([]*linalg.CMatrix, nQ)
	}

	chunkN := opt.ChunkOverride
	if chunkN <= 0 {
		chunkN = schedule.ChunkSize(l, nQ, opt.FreeMemoryBytes)
	}
	chunks := schedule.Chunks(nQ, chunkN)
	threads := opt.ThreadCount
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	nCell := in.NCell
	if nCell <= 0 {
		nCell = 1
	}

	perQ := func(qIndex int, warn *lswterr.Buffer) error {
		if warnIncommensurateSupercell {
			warn.Add(lswterr.Warning{
				Kind: lswterr.WarnIncommensurateInSupercell, QIndex: qIndex,
				Detail: "incommensurate propagation vector combined with a magnetic supercell",
			})
		}
		q := in.HKL[qIndex]
		groups := []Vec3{q}
		if incommensurate {
			triple := unfold.Triple(q, in.K)
			groups = triple[:]
		}

		omegaOut := make([]float64, 0, totalModesOut)
		var sabOut correlation.Sab
		var firstH *linalg.CMatrix
		var firstV *linalg.CMatrix

		for gi, qg := range groups {
			var sumSab correlation.Sab
			var energies []float64
			for t, twin := range twins {
				qExt := hamiltonian.ExtendedQ(qg, in.NExt)
				h := hamiltonian.Assemble(qExt, l, bil, biq, fieldDiags[t])
				if gi == 0 && t == 0 && firstH == nil {
					firstH = h
				}

				bres, derr := strategy(h, l, 0, opt.omegaTol(), qIndex, warn)
				if derr != nil {
					return derr
				}

				var cols correlation.ColumnReader
				modes := nModesFull
				var theseEnergies []float64
				if opt.FastMode {
					fast := bogoliubov.Truncate(bres, l)
					cols = correlation.RectColumns(fast.V)
					modes = l
					theseEnergies = fast.Omega
				} else {
					cols = correlation.SquareColumns(bres.V)
					theseEnergies = bres.Omega
					if gi == 0 && t == 0 && firstV == nil {
						firstV = bres.V
					}
				}
				// Reported magnon energies come from twin 0; twin rotation
				// only reweights the observed intensity (Sab), per spec's
				// twin-averaging testable property (§8 scenario "Twin
				// averaging" only constrains Sab/S_perp, not omega).
				if t == 0 {
					energies = theseEnergies
				}

				sites := buildCorrelationSites(qg, in.RecipBasis, in.Sites, sitePos, spin, zTilde, opt.ApplyFormFactor)
				sab := correlation.Assemble(qg, l, modes, cols, sites, nCell)

				weight := twin.Weight / twinWeightSum
				sumSab = accumulateSab(sumSab, sab, weight)
			}

			if incommensurate {
				third := unfold.ThirdOf(gi)
				sumSab = unfold.ApplyThird(sumSab, third, in.N)
				if helical {
					sumSab = unfold.IntegrateHelicalPhase(sumSab, in.N)
				}
			}

			omegaOut = append(omegaOut, energies...)
			sabOut = append(sabOut, sumSab...)
		}

		res.Omega[qIndex] = omegaOut
		res.Sab[qIndex] = sabOut
		if opt.ReturnV {
			// only the first group/twin transform is retained for debugging
			// (and only in full, non-fast mode); see DESIGN.md.
			res.V[qIndex] = firstV
		}
		if opt.ReturnHMatrix {
			res.HMatrix[qIndex] = firstH
		}
		if opt.NeutronOutput {
			qCart := geom.MulVec(in.RecipBasis, q)
			fallback := Vec3{1, 0, 0}
			if qIndex+1 < nQ {
				nextCart := geom.MulVec(in.RecipBasis, in.HKL[qIndex+1])
				fallback = correlation.QHat(nextCart, Vec3{1, 0, 0})
			}
			qhat := correlation.QHat(qCart, fallback)
			res.Sperp[qIndex] = correlation.NeutronProjection(sabOut, qhat)
		}
		return nil
	}

	warn, err := schedule.Run(ctx, chunks, threads, perQ)
	if err != nil {
		return Result{}, err
	}
	for _, w := range structuralWarnings {
		warn.Add(w)
	}
	res.Warnings = warn.Items()
	return res, nil
}

func validate(in Input) error {
	if in.RecipBasis == (Mat3{}) {
		return lswterr.New(lswterr.DimensionMismatch, "RecipBasis must be set")
	}
	for _, b := range in.Bilinear {
		if b.I < 0 || b.I >= len(in.Sites) || b.J < 0 || b.J >= len(in.Sites) {
			return lswterr.New(lswterr.DimensionMismatch, "bilinear coupling references a site index out of range")
		}
	}
	for _, b := range in.Biquadratic {
		if b.I < 0 || b.I >= len(in.Sites) || b.J < 0 || b.J >= len(in.Sites) {
			return lswterr.New(lswterr.DimensionMismatch, "biquadratic coupling references a site index out of range")
		}
	}
	return nil
}

func isCommensurate(v Vec3, tol float64) bool {
	for _, c := range v {
		if math.Abs(c-math.Round(c)) > tol {
			return false
		}
	}
	return true
}

func siteGTensors(sites []Site) []Mat3 {
	out := make([]Mat3, len(sites))
	id := geom.Identity3()
	for i, s := range sites {
		if s.GTensor != nil {
			out[i] = *s.GTensor
		} else {
			out[i] = id
		}
	}
	return out
}

func framesZ(frames []frame.Frame) []frame.Cplx3 {
	out := make([]frame.Cplx3, len(frames))
	for i, f := range frames {
		out[i] = f.Z
	}
	return out
}

func buildCorrelationSites(q Vec3, recip Mat3, sites []Site, pos []Vec3, spin []float64, zTilde []frame.Cplx3, applyFF bool) []correlation.Site {
	qCart := geom.MulVec(recip, q)
	absQ := qCart.Norm()
	out := make([]correlation.Site, len(sites))
	for i := range sites {
		ff := 1.0
		if applyFF && sites[i].FormFactor != nil {
			ff = sites[i].FormFactor(absQ)
		}
		out[i] = correlation.Site{Pos: pos[i], Spin: spin[i], ZTilt: zTilde[i], Form: ff}
	}
	return out
}

func accumulateSab(acc, add correlation.Sab, weight float64) correlation.Sab {
	if acc == nil {
		acc = make(correlation.Sab, len(add))
	}
	for mu := range add {
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				acc[mu][a][b] += add[mu][a][b] * complex(weight, 0)
			}
		}
	}
	return acc
}
