// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package current implements the deposited current-density arrays Jx,
// Jy, Jz (spec §4.3), sharing the Yee layout conventions of package
// field.
package current

import "github.com/cpmech/picfem/internal/grid"

// Array is a flat ghost-padded local scalar array, indexed [i][j][k].
type Array struct {
	nx, ny, nz int
	g          int
	data       []float64
}

func newArray(nx, ny, nz, g int) *Array {
	sx, sy, sz := nx+2*g, ny+2*g, nz+2*g
	return &Array{nx: nx, ny: ny, nz: nz, g: g, data: make([]float64, sx*sy*sz)}
}

func (a *Array) strideY() int { return a.nz + 2*a.g }
func (a *Array) strideX() int { return (a.ny + 2*a.g) * (a.nz + 2*a.g) }
func (a *Array) idx(i, j, k int) int {
	return (i+a.g)*a.strideX() + (j+a.g)*a.strideY() + (k + a.g)
}

func (a *Array) At(i, j, k int) float64     { return a.data[a.idx(i, j, k)] }
func (a *Array) Set(i, j, k int, v float64) { a.data[a.idx(i, j, k)] = v }
func (a *Array) Add(i, j, k int, v float64) { a.data[a.idx(i, j, k)] += v }
func (a *Array) Zero() {
	for i := range a.data {
		a.data[i] = 0
	}
}

// NLoc returns the local (non-ghost) extent along axis.
func (a *Array) NLoc(axis int) int {
	switch axis {
	case 1:
		return a.ny
	case 2:
		return a.nz
	}
	return a.nx
}

// Ghost returns the ghost depth.
func (a *Array) Ghost() int { return a.g }

// Current holds the three deposited current-density components (spec
// §4.3). Deposition (species.DepositDirect / species.DepositEsirkepov)
// accumulates into these via Add; the PIC loop zeroes and exchanges
// ghosts once per step.
type Current struct {
	g          *grid.Grid
	Jx, Jy, Jz *Array
}

// New allocates the three components over g's local box.
func New(g *grid.Grid) *Current {
	nx, ny, nz := dimCells(g, 0), dimCells(g, 1), dimCells(g, 2)
	gh := grid.Ghost
	return &Current{g: g, Jx: newArray(nx, ny, nz, gh), Jy: newArray(nx, ny, nz, gh), Jz: newArray(nx, ny, nz, gh)}
}

func dimCells(g *grid.Grid, axis int) int {
	if axis >= g.Dim {
		return 1
	}
	return g.NLoc(axis)
}

// Zero clears all three components, called once per step before
// deposition (spec §4.5 phase order).
func (o *Current) Zero() {
	o.Jx.Zero()
	o.Jy.Zero()
	o.Jz.Zero()
}

// PBC folds ghost-cell contributions deposited by particles straddling a
// rank or periodic boundary back into the owning interior cells and
// zeroes the ghost planes it folded (spec
// §4.3: "current deposited into ghost cells by near-boundary particles
// must be folded back before the field solver reads J").
func (o *Current) PBC(topo interface {
	IsDistributed() bool
	CartShift(int) (int, int)
	SendRecvFloats([]float64, int, int, int, int) []float64
}) {
	for axis := 1; axis < o.g.Dim; axis++ {
		if o.g.Boundary(axis) != grid.PBC {
			continue
		}
		for _, a := range [3]*Array{o.Jx, o.Jy, o.Jz} {
			foldAxisLocal(a, axis)
		}
	}
}

// foldAxisLocal adds each ghost plane's contribution into the
// corresponding wrapped interior plane and clears the ghost, the
// single-rank (or locally periodic) special case of the cross-rank fold.
func foldAxisLocal(a *Array, axis int) {
	n := axisLen(a, axis)
	for g := 1; g <= a.g; g++ {
		foldPlane(a, axis, -g, n-g)
		foldPlane(a, axis, n-1+g, g-1)
	}
}

func axisLen(a *Array, axis int) int { return a.NLoc(axis) }

func foldPlane(a *Array, axis, src, dst int) {
	switch axis {
	case 1:
		for i := -a.g; i < a.nx+a.g; i++ {
			for k := -a.g; k < a.nz+a.g; k++ {
				a.Add(i, dst, k, a.At(i, src, k))
				a.Set(i, src, k, 0)
			}
		}
	case 2:
		for i := -a.g; i < a.nx+a.g; i++ {
			for j := -a.g; j < a.ny+a.g; j++ {
				a.Add(i, j, dst, a.At(i, j, src))
				a.Set(i, j, src, 0)
			}
		}
	}
}
