// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dom provides the thin Cartesian rank-topology abstraction that
// every other picfem package builds collective operations on top of:
// neighbour lookup, paired send/receive, all-gather and all-reduce.
package dom

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// Topology wraps a Cartesian communicator of rank counts (Px,Py,Pz).
// Px is fixed at 1 in the reference configuration (spec §6): only Y and Z
// are decomposed.
type Topology struct {
	nprocs [3]int // number of ranks along each axis
	wrap   [3]bool
	distr  bool // true when running under MPI with more than one rank

	coords [3]int // this rank's Cartesian coordinates
	rank   int
	size   int
}

// NewSerial returns a single-rank topology stub used by unit tests and by
// any run where MPI is not active or parallel execution was not
// requested, mirroring the teacher's `global.Distr == false` branch.
func NewSerial() *Topology {
	return &Topology{nprocs: [3]int{1, 1, 1}, size: 1}
}

// New builds a topology over the current MPI job. nprocs gives the rank
// count along each axis (X,Y,Z); wrap gives the periodicity of each axis.
// When MPI is not running, or allowParallel is false, it falls back to
// NewSerial regardless of the requested nprocs, exactly as
// fem.NewFEM treats allowParallel.
func New(nprocs [3]int, wrap [3]bool, allowParallel bool) *Topology {
	if !mpi.IsOn() || !allowParallel {
		return NewSerial()
	}
	size := mpi.Size()
	want := nprocs[0] * nprocs[1] * nprocs[2]
	if want != size {
		chk.Panic("dom: product of per-axis process counts must equal MPI size. %d != %d", want, size)
	}
	o := &Topology{nprocs: nprocs, wrap: wrap, distr: size > 1, size: size, rank: mpi.Rank()}
	// row-major decomposition: X slowest, Z fastest, matching Grid's
	// convention that X is not decomposed in the reference configuration.
	rem := o.rank
	o.coords[0] = rem / (nprocs[1] * nprocs[2])
	rem -= o.coords[0] * (nprocs[1] * nprocs[2])
	o.coords[1] = rem / nprocs[2]
	o.coords[2] = rem % nprocs[2]
	return o
}

// IsDistributed reports whether this job spans more than one rank.
func (o *Topology) IsDistributed() bool { return o.distr }

// Rank returns this process's global rank (0 in serial mode).
func (o *Topology) Rank() int { return o.rank }

// Size returns the total number of ranks (1 in serial mode).
func (o *Topology) Size() int { return o.size }

// Coord returns this rank's Cartesian coordinate along axis.
func (o *Topology) Coord(axis int) int { return o.coords[axis] }

// NProcs returns the number of ranks decomposed along axis.
func (o *Topology) NProcs(axis int) int { return o.nprocs[axis] }

// Wrap reports whether axis is periodic at the topology level (PBC).
func (o *Topology) Wrap(axis int) bool { return o.wrap[axis] }

// CartShift returns the rank immediately to this rank's left and right
// along axis, or -1 when there is no neighbour (non-periodic boundary
// rank). It never blocks.
func (o *Topology) CartShift(axis int) (left, right int) {
	if !o.distr {
		return -1, -1
	}
	c := o.coords
	left, right = -1, -1
	if c[axis] > 0 {
		c2 := c
		c2[axis]--
		left = o.rankOf(c2)
	} else if o.wrap[axis] {
		c2 := c
		c2[axis] = o.nprocs[axis] - 1
		left = o.rankOf(c2)
	}
	c = o.coords
	if c[axis] < o.nprocs[axis]-1 {
		c2 := c
		c2[axis]++
		right = o.rankOf(c2)
	} else if o.wrap[axis] {
		c2 := c
		c2[axis] = 0
		right = o.rankOf(c2)
	}
	return
}

func (o *Topology) rankOf(c [3]int) int {
	return c[0]*(o.nprocs[1]*o.nprocs[2]) + c[1]*o.nprocs[2] + c[2]
}

// SendRecvFloats exchanges a slice of float64 with a neighbour rank in one
// paired operation: sends send to dst and receives into a buffer of
// recvN floats from src. Either side may be -1, meaning "no peer there";
// in that case the corresponding half of the exchange is skipped.
func (o *Topology) SendRecvFloats(send []float64, dst int, recvN int, src int, tag int) []float64 {
	if !o.distr {
		// single rank: a send/recv to itself is a local copy.
		if dst == -1 && src == -1 {
			return nil
		}
		return append([]float64{}, send...)
	}
	recv := make([]float64, recvN)
	mpi.SendRecvFloat64(send, len(send), dst, tag, recv, recvN, src, tag)
	return recv
}

// SendRecvInt exchanges a single int count with a neighbour pair, used to
// agree on payload sizes before the paired SendRecvFloats (spec §4.6/§5:
// counts are exchanged first, payloads second, with matched tags).
func (o *Topology) SendRecvInt(send int, dst int, src int, tag int) int {
	if !o.distr {
		if dst == -1 && src == -1 {
			return 0
		}
		return send
	}
	var recv int
	mpi.SendRecvOneInt(send, dst, tag, &recv, src, tag)
	return recv
}

// AllReduceSum sums v element-wise across all ranks in place.
func (o *Topology) AllReduceSum(v []float64) {
	if !o.distr {
		return
	}
	buf := make([]float64, len(v))
	mpi.AllReduceSum(v, buf)
	copy(v, buf)
}

// AllReduceMinFloat returns the minimum of x across all ranks.
func (o *Topology) AllReduceMinFloat(x float64) float64 {
	if !o.distr {
		return x
	}
	in := []float64{x}
	out := make([]float64, 1)
	mpi.AllReduceMin(in, out)
	return out[0]
}

// AllReduceMaxFloat returns the maximum of x across all ranks.
func (o *Topology) AllReduceMaxFloat(x float64) float64 {
	if !o.distr {
		return x
	}
	in := []float64{x}
	out := make([]float64, 1)
	mpi.AllReduceMax(in, out)
	return out[0]
}

// AllReduceMaxInt returns the maximum of x across all ranks; used by the
// collective-panic protocol in errs.Stop.
func (o *Topology) AllReduceMaxInt(x int) int {
	if !o.distr {
		return x
	}
	in := []int{x}
	out := make([]int, 1)
	mpi.IntAllReduceMax(in, out)
	return out[0]
}

// AllGatherInt gathers one int per rank into a size-length slice ordered
// by rank; used for the global marker-id prefix sum (spec §4.4.1).
func (o *Topology) AllGatherInt(x int) []int {
	if !o.distr {
		return []int{x}
	}
	out := make([]int, o.size)
	mpi.AllGatherInt([]int{x}, out)
	return out
}
