// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lswterr defines the tagged error kinds and non-fatal warnings
// raised by the linear spin-wave theory core.
package lswterr

import (
	"fmt"

	"github.com/cpmech/gosl/io"
)

// Kind tags the family of a core error. Callers should switch on Kind rather
// than matching error strings.
type Kind int

const (
	// EmptyMagneticStructure means no site carries a non-zero moment.
	EmptyMagneticStructure Kind = iota
	// NonPosDefHamiltonian means the Colpa Cholesky path failed after the
	// shift retry.
	NonPosDefHamiltonian
	// EigensolverFailure means an eigendecomposition did not converge.
	EigensolverFailure
	// BiquadraticIncommensurate means biquadratic couplings were supplied
	// together with an incommensurate propagation vector.
	BiquadraticIncommensurate
	// DimensionMismatch means two input arrays disagree in shape.
	DimensionMismatch
)

func (k Kind) String() string {
	switch k {
	case EmptyMagneticStructure:
		return "EmptyMagneticStructure"
	case NonPosDefHamiltonian:
		return "NonPosDefHamiltonian"
	case EigensolverFailure:
		return "EigensolverFailure"
	case BiquadraticIncommensurate:
		return "BiquadraticIncommensurate"
	case DimensionMismatch:
		return "DimensionMismatch"
	default:
		return "Unknown"
	}
}

// Error is the tagged union of spec.md §7. QIndex is -1 when the error is not
// associated with a single Q point. Eigenvalue carries the estimated negative
// eigenvalue for NonPosDefHamiltonian, 0 otherwise.
type Error struct {
	Kind      Kind
	QIndex    int
	Eigenvalue float64
	Detail    string
	Cause     error
}

func (e *Error) Error() string {
	if e.QIndex >= 0 {
		return fmt.Sprintf("lswt: %s at Q[%d]: %s", e.Kind, e.QIndex, e.Detail)
	}
	return fmt.Sprintf("lswt: %s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is supports errors.Is matching purely on Kind, so callers can write
// errors.Is(err, lswterr.New(lswterr.NonPosDefHamiltonian, ...)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an Error not tied to a specific Q point.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, QIndex: -1, Detail: fmt.Sprintf(format, args...)}
}

// AtQ builds an Error tied to Q index q.
func AtQ(kind Kind, q int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, QIndex: q, Detail: fmt.Sprintf(format, args...)}
}

// NonPosDef builds the specific NonPosDefHamiltonian error carrying the
// estimated negative eigenvalue that triggered the failed shift retry.
func NonPosDef(q int, negEigenvalue float64) *Error {
	return &Error{
		Kind:       NonPosDefHamiltonian,
		QIndex:     q,
		Eigenvalue: negEigenvalue,
		Detail:     fmt.Sprintf("Cholesky failed after shift retry, estimated negative eigenvalue %.6g", negEigenvalue),
	}
}

// WarnKind tags the family of a non-fatal warning.
type WarnKind int

const (
	WarnCholeskyShifted WarnKind = iota
	WarnDefectiveEigenvectors
	WarnIncommensurateInSupercell
	WarnFreeMemoryUnknown
	WarnTwinZeroRotation
	WarnGTensorUnset
)

func (k WarnKind) String() string {
	switch k {
	case WarnCholeskyShifted:
		return "CholeskyShifted"
	case WarnDefectiveEigenvectors:
		return "DefectiveEigenvectors"
	case WarnIncommensurateInSupercell:
		return "IncommensurateInSupercell"
	case WarnFreeMemoryUnknown:
		return "FreeMemoryUnknown"
	case WarnTwinZeroRotation:
		return "TwinZeroRotation"
	case WarnGTensorUnset:
		return "GTensorUnset"
	default:
		return "Unknown"
	}
}

// Warning is a collected, non-fatal diagnostic. QIndex is -1 when not tied to
// a specific Q point.
type Warning struct {
	Kind   WarnKind
	QIndex int
	Detail string
}

func (w Warning) String() string {
	if w.QIndex >= 0 {
		return fmt.Sprintf("warning: %s at Q[%d]: %s", w.Kind, w.QIndex, w.Detail)
	}
	return fmt.Sprintf("warning: %s: %s", w.Kind, w.Detail)
}

// Buffer collects warnings from across the parallel phase. Safe for
// concurrent use by one writer per chunk (see package schedule); Add itself
// is not internally synchronized, callers append under their own chunk-local
// slice and merge at the join barrier, matching the "thread-local, merge at
// barrier" resource model of spec.md §5.
type Buffer struct {
	items []Warning
}

// Add appends a warning to the buffer.
func (b *Buffer) Add(w Warning) { b.items = append(b.items, w) }

// Merge appends another buffer's items, used when joining per-chunk buffers.
func (b *Buffer) Merge(other *Buffer) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Items returns the collected warnings in insertion order.
func (b *Buffer) Items() []Warning {
	if b == nil {
		return nil
	}
	return b.items
}

// String renders the buffer the way the teacher's outer-boundary callers
// format diagnostics (io.Sf, never fmt, so output stays consistent with the
// rest of the pack's colored console reporting).
func (b *Buffer) String() string {
	if b == nil || len(b.items) == 0 {
		return io.Sf("(no warnings)")
	}
	s := io.Sf("%d warning(s):\n", len(b.items))
	for _, w := range b.items {
		s += io.Sf("  %s\n", w)
	}
	return s
}
