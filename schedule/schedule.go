// Copyright 2026 The GoSpinW Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schedule partitions the Q-point list into memory-bounded chunks
// and runs them across a worker pool, component I of the linear spin-wave
// core. The distributor/worker/quit-channel shape is the same one used to
// parallelize independent per-element function evaluations elsewhere in this
// module's dependency stack; here the per-element unit of work is one Q
// point's Hamiltonian assembly, diagonalization, and correlation contraction
// instead of a single function call.
package schedule

import (
	"context"
	"sync"

	"github.com/cpmech/gosl/utl"
	"github.com/spinw/gospinw/lswterr"
)

// bytesPerQElement is the measured per-Q-element memory multiplier of spec
// §4.I, covering the h, V, ExpF, and Sab intermediates held live during one
// Q's processing.
const bytesPerQElement = 6912

// ChunkSize implements the nSlice heuristic of spec §4.I: given L magnetic
// sites, nQ total Q points and a free-memory estimate freeBytes, it returns
// the number of contiguous chunks to partition the Q list into.
func ChunkSize(l, nQ int, freeBytes int64) int {
	if freeBytes <= 0 {
		freeBytes = 1 << 30 // 1 GiB, used when the caller cannot estimate free memory.
	}
	num := float64(l) * float64(l) * float64(nQ) * bytesPerQElement
	n := num/float64(freeBytes)*2 + 0.999999999
	nSlice := int(n)
	if nSlice < 1 {
		nSlice = 1
	}
	if nSlice > nQ {
		nSlice = nQ
	}
	return nSlice
}

// Chunks partitions [0, nQ) into nSlice contiguous, roughly equal-size index
// ranges.
func Chunks(nQ, nSlice int) [][2]int {
	if nSlice < 1 {
		nSlice = 1
	}
	if nSlice > nQ {
		nSlice = nQ
	}
	out := make([][2]int, 0, nSlice)
	base := nQ / nSlice
	rem := nQ % nSlice
	start := 0
	for i := 0; i < nSlice; i++ {
		size := base
		if i < rem {
			size++
		}
		out = append(out, [2]int{start, start + size})
		start += size
	}
	return out
}

// PerQFunc processes a single Q index, writing into the caller's
// preallocated output arrays and appending any non-fatal diagnostics to warn.
// It returns an error to abort the whole computation (e.g. NonPosDefHamiltonian
// without a usable fallback).
type PerQFunc func(qIndex int, warn *lswterr.Buffer) error

// Run implements the concurrency model of spec §5: nWorkers goroutines drain
// a channel of chunk index-ranges; within a chunk, per-Q work runs serially
// in that goroutine (per-Q diagonalizations are independent, so further
// splitting is unnecessary once each chunk already has its own goroutine).
// Cancellation is cooperative at chunk boundaries: ctx is checked before a
// worker starts a new chunk, never mid-chunk. Returns the merged warning
// buffer and the first error encountered, if any.
func Run(ctx context.Context, chunks [][2]int, nWorkers int, work PerQFunc) (*lswterr.Buffer, error) {
	if nWorkers < 1 {
		nWorkers = 1
	}
	type job struct{ lo, hi int }
	jobs := make(chan job, len(chunks))
	for _, c := range chunks {
		jobs <- job{c[0], c[1]}
	}
	close(jobs)

	var wg sync.WaitGroup
	var mu sync.Mutex
	merged := &lswterr.Buffer{}
	var firstErr error

	quit := make(chan struct{})
	defer close(quit)

	for w := 0; w < nWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := &lswterr.Buffer{}
			for {
				select {
				case <-quit:
					return
				case j, ok := <-jobs:
					if !ok {
						mu.Lock()
						merged.Merge(local)
						mu.Unlock()
						return
					}
					select {
					case <-ctx.Done():
						mu.Lock()
						merged.Merge(local)
						if firstErr == nil {
							firstErr = ctx.Err()
						}
						mu.Unlock()
						return
					default:
					}
					for _, di := range utl.IntRange(j.hi - j.lo) {
						q := j.lo + di
						if err := work(q, local); err != nil {
							mu.Lock()
							if firstErr == nil {
								firstErr = err
							}
							mu.Unlock()
							return
						}
					}
				}
			}
		}()
	}
	wg.Wait()
	return merged, firstErr
}
