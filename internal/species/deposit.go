// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package species

import (
	"math"

	"github.com/cpmech/picfem/internal/current"
	"github.com/cpmech/picfem/internal/grid"
)

// DepositDirect advances each particle to its half-step position and
// deposits w*q*v onto the quadratic-spline stencil, ported from
// current_deposition_standard's direct (non-charge-conserving) branch.
// Position is NOT advanced a second time afterward: the final position
// written here IS the particle's new position for this step (spec §9
// Open Question resolution — position advances exactly once).
func (o *Container) DepositDirect(g *grid.Grid, cur *current.Current, dt float64) {
	if o.IsTest {
		o.AdvancePositions(g, dt)
		return
	}
	dim := g.Dim
	for i := range o.X {
		gamma := math.Sqrt(1 + o.Px[i]*o.Px[i] + o.Py[i]*o.Py[i] + o.Pz[i]*o.Pz[i])
		vx := o.Px[i] / gamma
		vy := o.Py[i] / gamma
		vz := o.Pz[i] / gamma

		xmid := o.X[i] + 0.5*dt*vx
		ymid := o.Y[i]
		zmid := o.Z[i]
		if dim >= 2 {
			ymid += 0.5 * dt * vy
		}
		if dim >= 3 {
			zmid += 0.5 * dt * vz
		}

		q := o.Coupling * o.Mass * o.W[i]
		depositAt(g, cur, xmid, ymid, zmid, q*vx, q*vy, q*vz)

		o.X[i] += dt * vx
		if dim >= 2 {
			o.Y[i] += dt * vy
		}
		if dim >= 3 {
			o.Z[i] += dt * vz
		}
	}
}

// depositAt scatters (jx,jy,jz) onto the three staggered current
// components using the same quadratic-spline stencil used for the field
// gather, so deposition and gather are mutually adjoint (spec §4.4.4
// correctness requirement).
func depositAt(g *grid.Grid, cur *current.Current, x, y, z, jx, jy, jz float64) {
	pos := [3]float64{
		(x - rangeLo(g, 0)) * g.Dri(0),
		(y - rangeLo(g, 1)) * g.Dri(1),
		(z - rangeLo(g, 2)) * g.Dri(2),
	}
	dim := g.Dim
	scatter(dim, pos, [3]bool{true, false, false}, jx, cur.Jx.Add)
	scatter(dim, pos, [3]bool{false, true, false}, jy, cur.Jy.Add)
	scatter(dim, pos, [3]bool{false, false, true}, jz, cur.Jz.Add)
}

func rangeLo(g *grid.Grid, axis int) float64 {
	lo, _ := g.RangeLoc(axis)
	return lo
}

func scatter(dim int, pos [3]float64, staggered [3]bool, value float64, add func(int, int, int, float64)) {
	if value == 0 {
		return
	}
	type axisW struct {
		base int
		w    [3]float64
	}
	var axes [3]axisW
	n := dim
	if n == 0 {
		n = 1
	}
	for a := 0; a < 3; a++ {
		if a >= n {
			axes[a] = axisW{base: -1, w: [3]float64{0, 1, 0}}
			continue
		}
		base, rr := stencil1D(pos[a], staggered[a])
		axes[a] = axisW{base: base, w: quadWeights(rr)}
	}
	for di := 0; di < 3; di++ {
		for dj := 0; dj < 3; dj++ {
			for dk := 0; dk < 3; dk++ {
				w := axes[0].w[di] * axes[1].w[dj] * axes[2].w[dk]
				if w == 0 {
					continue
				}
				add(axes[0].base+di, axes[1].base+dj, axes[2].base+dk, w*value)
			}
		}
	}
}

// DepositEsirkepov computes the charge-conserving current from each
// particle's displacement over the step (old position to new position),
// following the Esirkepov zig-zag decomposition: the deposited current is
// the one whose discrete divergence exactly matches the discrete charge-
// density change, so Gauss's law holds to machine precision without a
// separate correction pass (spec §4.4.4, §8 divergence-preservation
// property). xOld/yOld/zOld are the pre-push positions; the container's
// current X/Y/Z are the post-push positions supplied by AdvancePositions.
func (o *Container) DepositEsirkepov(g *grid.Grid, cur *current.Current, xOld, yOld, zOld []float64, dt float64) {
	if o.IsTest {
		return
	}
	dim := g.Dim
	dtInv := 0.0
	if dt > 0 {
		dtInv = 1 / dt
	}
	for i := range o.X {
		q := o.Coupling * o.Mass * o.W[i]
		gamma := math.Sqrt(1 + o.Px[i]*o.Px[i] + o.Py[i]*o.Py[i] + o.Pz[i]*o.Pz[i])
		vy, vz := o.Py[i]/gamma, o.Pz[i]/gamma
		esirkepovOne(g, cur, dim, xOld[i], yOld[i], zOld[i], o.X[i], o.Y[i], o.Z[i], q, dtInv, vy, vz)
	}
}

// esirkepovOne deposits the current for a single particle's displacement
// using the Esirkepov/Villasenor-Buneman weighting: along each spatial
// axis the particle actually moves on, Jd(i,j,k) is the running sum of a
// swept weight Wd, cumulative in that axis's own index only, so the
// discrete continuity equation holds exactly (spec §4.4.4(a)). An axis
// beyond g.Dim carries no grid extent to sweep across, so its current
// (a purely transverse Jy/Jz in a reduced-dimension run) is deposited
// directly from the particle's velocity instead, matching how the
// original's current_deposition_standard treats the inactive axes.
func esirkepovOne(g *grid.Grid, cur *current.Current, dim int, xo, yo, zo, xn, yn, zn, q, dtInv, vy, vz float64) {
	posOld := [3]float64{
		(xo - rangeLo(g, 0)) * g.Dri(0),
		(yo - rangeLo(g, 1)) * g.Dri(1),
		(zo - rangeLo(g, 2)) * g.Dri(2),
	}
	posNew := [3]float64{
		(xn - rangeLo(g, 0)) * g.Dri(0),
		(yn - rangeLo(g, 1)) * g.Dri(1),
		(zn - rangeLo(g, 2)) * g.Dri(2),
	}

	var base [3]int
	var sOld, sNew [3][4]float64
	for a := 0; a < 3; a++ {
		if a >= dim {
			sOld[a][0], sNew[a][0] = 1, 1
			continue
		}
		base[a], sOld[a], sNew[a] = nodeShapes1D(posOld[a], posNew[a])
	}

	if dim >= 1 {
		accumAxis(cur.Jx, 0, base, sOld, sNew, q*g.Dr(0)*dtInv)
	}
	if dim >= 2 {
		accumAxis(cur.Jy, 1, base, sOld, sNew, q*g.Dr(1)*dtInv)
	} else {
		scatterTransverse(dim, posNew, 1, q*vy, cur.Jy)
	}
	if dim >= 3 {
		accumAxis(cur.Jz, 2, base, sOld, sNew, q*g.Dr(2)*dtInv)
	} else {
		scatterTransverse(dim, posNew, 2, q*vz, cur.Jz)
	}
}

// nodeShapes1D returns the joint 4-node window (covering both the old and
// new 3-point quadratic stencils, valid as long as the particle's
// per-step displacement stays within one cell, which the Courant
// condition guarantees) and the old/new shape weights over it.
func nodeShapes1D(posOld, posNew float64) (base int, sOld, sNew [4]float64) {
	bo, rro := stencil1D(posOld, false)
	bn, rrn := stencil1D(posNew, false)
	wo := quadWeights(rro)
	wn := quadWeights(rrn)
	base = bo
	if bn < base {
		base = bn
	}
	for i := 0; i < 3; i++ {
		sOld[bo+i-base] += wo[i]
		sNew[bn+i-base] += wn[i]
	}
	return
}

func otherAxes(axis int) [2]int {
	var out [2]int
	oi := 0
	for a := 0; a < 3; a++ {
		if a != axis {
			out[oi] = a
			oi++
		}
	}
	return out
}

// accumAxis deposits the swept-weight current along axis (spec §4.4.4(a)):
// for every combination of the other two axes' node indices, it runs a
// cumulative sum over axis's own 4-node window and writes the running
// total at each node, the discrete form of Jd(i) = Jd(i-1) - (dx_d/dt)*Wd.
func accumAxis(arr *current.Array, axis int, base [3]int, sOld, sNew [3][4]float64, coeff float64) {
	other := otherAxes(axis)
	b, c := other[0], other[1]
	for bi := 0; bi < 4; bi++ {
		sbOld, sbNew := sOld[b][bi], sNew[b][bi]
		dSb := sbNew - sbOld
		for ci := 0; ci < 4; ci++ {
			scOld, scNew := sOld[c][ci], sNew[c][ci]
			dSc := scNew - scOld
			running := 0.0
			for ai := 0; ai < 4; ai++ {
				dSa := sNew[axis][ai] - sOld[axis][ai]
				w := dSa * (sbOld*scOld + 0.5*dSb*scOld + 0.5*sbOld*dSc + (1.0/3.0)*dSb*dSc)
				running -= coeff * w
				if running == 0 {
					continue
				}
				var idx [3]int
				idx[axis] = base[axis] + ai
				idx[b] = base[b] + bi
				idx[c] = base[c] + ci
				arr.Add(idx[0], idx[1], idx[2], running)
			}
		}
	}
}

// scatterTransverse deposits a simple q*v current at pos along axis, used
// for the component perpendicular to a reduced-dimension run where there
// is no grid extent to sweep a charge-conserving current across.
func scatterTransverse(dim int, pos [3]float64, axis int, value float64, arr *current.Array) {
	var staggered [3]bool
	staggered[axis] = true
	scatter(dim, pos, staggered, value, arr.Add)
}
