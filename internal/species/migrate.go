// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package species

import (
	"github.com/cpmech/picfem/internal/grid"
)

// migrationTopology is the subset of dom.Topology migration needs; kept
// as a local interface so species stays testable with a stub (spec §4.6:
// Grid/Field/Current/Species are decoupled from the concrete topology).
type migrationTopology interface {
	IsDistributed() bool
	CartShift(axis int) (left, right int)
	SendRecvInt(send, dst, src, tag int) int
	SendRecvFloats(send []float64, dst int, recvN int, src int, tag int) []float64
	Coord(axis int) int
	NProcs(axis int) int
}

const particleFloatsPerRow = 8 // x,y,z,px,py,pz,w, id(as float64)

// Migrate scans every particle against the local sub-box on axis and
// exchanges the ones that left it with the neighbour rank, in two phases
// per neighbour (counts, then payload), exactly mirroring
// position_parallel_pbc's MPI_Sendrecv pattern: agree on sizes first, then
// send the packed rows (spec §4.4.5).
func (o *Container) Migrate(g *grid.Grid, topo migrationTopology, axis int) {
	if !topo.IsDistributed() || axis >= g.Dim {
		o.wrapLocalPeriodic(g, axis)
		return
	}
	lo, hi := g.RangeLoc(axis)
	left, right := topo.CartShift(axis)

	// a particle crossing the global periodic face must have its
	// coordinate wrapped by the full global span before being packed for
	// the opposite-edge neighbour, or it arrives violating
	// rminloc[d] <= r[d] < rmaxloc[d] on the receiving rank (spec §4.4.5
	// step 2).
	periodic := g.Boundary(axis) == grid.PBC
	atLeftEdge := periodic && topo.Coord(axis) == 0
	atRightEdge := periodic && topo.Coord(axis) == topo.NProcs(axis)-1
	glo, ghi := g.RangeGlobal(axis)
	span := ghi - glo

	var toLeft, toRight []float64
	var nToLeft, nToRight int
	i := 0
	for i < o.Len() {
		v := o.axisPos(axis, i)
		switch {
		case v < lo:
			if atLeftEdge {
				o.setAxisPos(axis, i, v+span)
			}
			toLeft = append(toLeft, o.packRow(i)...)
			nToLeft++
			o.removeSwapBack(i)
		case v >= hi:
			if atRightEdge {
				o.setAxisPos(axis, i, v-span)
			}
			toRight = append(toRight, o.packRow(i)...)
			nToRight++
			o.removeSwapBack(i)
		default:
			i++
		}
	}

	nFromRight := topo.SendRecvInt(nToLeft, left, right, 90)
	nFromLeft := topo.SendRecvInt(nToRight, right, left, 91)

	fromRight := topo.SendRecvFloats(toLeft, left, nFromRight*particleFloatsPerRow, right, 92)
	fromLeft := topo.SendRecvFloats(toRight, right, nFromLeft*particleFloatsPerRow, left, 93)

	o.unpackRows(fromLeft)
	o.unpackRows(fromRight)
}

// wrapLocalPeriodic handles the single-rank periodic case: a particle
// that crosses the global boundary re-enters on the opposite side rather
// than being exchanged with a neighbour rank.
func (o *Container) wrapLocalPeriodic(g *grid.Grid, axis int) {
	if g.Boundary(axis) != grid.PBC {
		return
	}
	lo, hi := g.RangeLoc(axis)
	span := hi - lo
	for i := 0; i < o.Len(); i++ {
		v := o.axisPos(axis, i)
		if v < lo {
			o.setAxisPos(axis, i, v+span)
		} else if v >= hi {
			o.setAxisPos(axis, i, v-span)
		}
	}
}

func (o *Container) axisPos(axis, i int) float64 {
	switch axis {
	case 1:
		return o.Y[i]
	case 2:
		return o.Z[i]
	}
	return o.X[i]
}

func (o *Container) setAxisPos(axis, i int, v float64) {
	switch axis {
	case 1:
		o.Y[i] = v
	case 2:
		o.Z[i] = v
	default:
		o.X[i] = v
	}
}

func (o *Container) packRow(i int) []float64 {
	return []float64{o.X[i], o.Y[i], o.Z[i], o.Px[i], o.Py[i], o.Pz[i], o.W[i], float64(o.ID[i])}
}

func (o *Container) unpackRows(data []float64) {
	for p := 0; p+particleFloatsPerRow <= len(data); p += particleFloatsPerRow {
		o.append(data[p], data[p+1], data[p+2], data[p+3], data[p+4], data[p+5], data[p+6], int64(data[p+7]))
	}
}
