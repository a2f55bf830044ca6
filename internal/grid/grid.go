// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid implements the distributed structured mesh: domain
// decomposition, optional per-axis stretching, cell coordinates, time
// stepping and the moving-window translation (spec §3, §4.1).
package grid

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/picfem/internal/dom"
)

// Ghost is the fixed ghost-cell depth on each side of each axis (spec §3).
const Ghost = 3

// BoundaryKind enumerates the per-axis boundary flags (spec §3).
type BoundaryKind int

const (
	PBC BoundaryKind = iota
	Open
	MovingWindowAxis
)

// stretchArm holds the quadratic-arm coefficient for one side of one
// stretched axis (spec §4.1): x(χ) = x0 + Δχ + a·Δχ², Δχ = χ-χ0, is
// continuous in value and derivative with the uniform interior at χ0
// (where Δχ=0 gives dx/dχ=1), and reaches xGoal after n cells of uniform
// width dchi.
type stretchArm struct {
	active bool
	sign   float64 // +1 for the right arm (Δχ>=0), -1 for the left arm (Δχ<=0)
	x0     float64 // physical x at the inner (uniform-side) edge of the arm
	xGoal  float64 // requested physical boundary at the far end of the arm
	span   float64 // |Δχ| at the far end (n cells of width dchi)
	a      float64 // quadratic coefficient, resolved at finalize()
}

// resolve computes a from the boundary condition x(span) == xGoal:
// xGoal = x0 + sign*span + a*span^2.
func (s *stretchArm) resolve() {
	if !s.active || s.span == 0 {
		return
	}
	s.a = (s.xGoal - s.x0 - s.sign*s.span) / (s.span * s.span)
}

// xOf maps a χ offset (Δχ, same sign as s.sign) through this arm to x.
func (s *stretchArm) xOf(dchi float64) float64 {
	return s.x0 + dchi + s.a*dchi*dchi
}

// dxOf returns dx/dχ at offset Δχ.
func (s *stretchArm) dxOf(dchi float64) float64 {
	return 1 + 2*s.a*dchi
}

// chiOf inverts xOf: given physical x, returns Δχ (sharing s.sign).
func (s *stretchArm) chiOf(x float64) float64 {
	if s.a == 0 {
		return x - s.x0
	}
	c := s.x0 - x
	disc := 1 - 4*s.a*c
	if disc < 0 {
		disc = 0
	}
	sq := math.Sqrt(disc)
	d1 := (-1 + sq) / (2 * s.a)
	d2 := (-1 - sq) / (2 * s.a)
	if s.sign >= 0 {
		if d1 >= 0 {
			return d1
		}
		return d2
	}
	if d1 <= 0 {
		return d1
	}
	return d2
}

// axisStretch holds the left/right arms for one axis; nil when the axis
// is uniform.
type axisStretch struct {
	left, right stretchArm
}

// Grid is the distributed structured mesh (spec §3/§4.1).
type Grid struct {
	Dim int // 1, 2 or 3 (spec §9: explicit dimension, no global switch)

	topo *dom.Topology

	rmin, rmax [3]float64 // global box
	n          [3]int     // global cell counts
	nprocs     [3]int     // per-axis rank counts (requested)

	boundary [3]BoundaryKind

	stretch [3]*axisStretch

	// derived at Finalize()
	rminloc, rmaxloc [3]float64   // local sub-box, physical
	nloc             [3]int       // local cell counts
	globalOff        [3]int       // global index of local cell 0, per axis
	dchi             [3]float64   // uniform χ spacing (global box / N)
	dr               [3]float64   // minimum physical spacing, used for dt
	dri              [3]float64   // 1/dr, used in particle gather
	chrloc           [3][]float64 // physical cell-center cache, length nloc[axis]
	csiminloc        [3]float64   // χ origin of the local sub-box

	courant float64
	dt      float64
	t       float64
	istep   int
	simTime float64

	// moving window (spec §4.1)
	mwEnabled bool
	mwBeta    float64
	mwFreq    int
	fmove     float64

	finalized bool
}

// New returns a Grid bound to the given topology (dom.NewSerial() for a
// single-rank run).
func New(dim int, topo *dom.Topology) *Grid {
	if dim < 1 || dim > 3 {
		chk.Panic("grid: Dim must be 1, 2 or 3; got %d", dim)
	}
	o := &Grid{Dim: dim, topo: topo, courant: 0.9}
	for c := 0; c < 3; c++ {
		o.n[c] = 1
		o.nprocs[c] = 1
	}
	return o
}

// SetRange sets the global box extent along axis.
func (o *Grid) SetRange(axis int, lo, hi float64) {
	if lo >= hi {
		chk.Panic("grid: set_range(axis=%d): lo must be < hi; got lo=%v hi=%v", axis, lo, hi)
	}
	o.rmin[axis], o.rmax[axis] = lo, hi
}

// SetNCells sets the global cell counts along each axis.
func (o *Grid) SetNCells(nx, ny, nz int) {
	o.n[0], o.n[1], o.n[2] = nx, ny, nz
}

// SetNProcs sets the rank count requested along axis. X is not decomposed
// in the reference configuration (spec §3); callers should leave axis 0
// at 1.
func (o *Grid) SetNProcs(axis, k int) {
	o.nprocs[axis] = k
}

// SetBoundaries sets the boundary kind for each axis.
func (o *Grid) SetBoundaries(mask [3]BoundaryKind) {
	o.boundary = mask
}

// SetCourant sets the Courant factor C ∈ (0,1].
func (o *Grid) SetCourant(c float64) {
	if c <= 0 || c > 1 {
		chk.Panic("grid: courant factor must be in (0,1]; got %v", c)
	}
	o.courant = c
}

// SetSimulationTime sets the total physical simulation time T.
func (o *Grid) SetSimulationTime(t float64) { o.simTime = t }

// EnableStretchLeft configures a quadratic left stretch arm on axis,
// spanning n cells out to physical boundary xBoundary (spec §4.1). Must be
// called before Finalize.
func (o *Grid) EnableStretchLeft(axis int, xBoundary float64, n int) {
	if o.stretch[axis] == nil {
		o.stretch[axis] = &axisStretch{}
	}
	o.stretch[axis].left = stretchArm{active: true, sign: -1, xGoal: xBoundary, span: float64(n)}
}

// EnableStretchRight configures a quadratic right stretch arm on axis.
func (o *Grid) EnableStretchRight(axis int, xBoundary float64, n int) {
	if o.stretch[axis] == nil {
		o.stretch[axis] = &axisStretch{}
	}
	o.stretch[axis].right = stretchArm{active: true, sign: 1, xGoal: xBoundary, span: float64(n)}
}

// EnableMovingWindow turns on the moving-window translation along x
// (axis 0), with co-moving speed β (fraction of c) evaluated every freq
// steps (spec §4.1).
func (o *Grid) EnableMovingWindow(beta float64, freq int) {
	o.mwEnabled = true
	o.mwBeta = beta
	o.mwFreq = freq
	o.boundary[0] = MovingWindowAxis
}

// IsStretched reports whether axis carries a left or right stretch arm.
func (o *Grid) IsStretched(axis int) bool {
	return o.stretch[axis] != nil && (o.stretch[axis].left.active || o.stretch[axis].right.active)
}

// Finalize resolves the stretch-arm coefficients, partitions the global
// box across the topology, and computes dt from the Courant condition
// (spec §4.1). Must be called once after all Set*/Enable* calls.
func (o *Grid) Finalize() {
	if o.finalized {
		chk.Panic("grid: Finalize called twice")
	}
	minDr := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		o.dchi[axis] = (o.rmax[axis] - o.rmin[axis]) / float64(o.n[axis])

		if s := o.stretch[axis]; s != nil {
			if s.left.active {
				s.left.span *= o.dchi[axis] // cell count -> χ distance
				s.left.x0 = o.rmin[axis] + s.left.span
				s.left.resolve()
			}
			if s.right.active {
				s.right.span *= o.dchi[axis] // cell count -> χ distance
				s.right.x0 = o.rmax[axis] - s.right.span
				s.right.resolve()
			}
		}

		// decompose: contiguous cells per rank, remainder to the first ranks.
		p := o.nprocs[axis]
		if p < 1 {
			p = 1
		}
		coord := 0
		if o.topo != nil {
			coord = o.topo.Coord(axis)
		}
		base := o.n[axis] / p
		rem := o.n[axis] % p
		nloc := base
		off := coord * base
		if coord < rem {
			nloc++
			off += coord
		} else {
			off += rem
		}
		o.nloc[axis] = nloc
		o.globalOff[axis] = off
		o.csiminloc[axis] = o.rmin[axis] + float64(off)*o.dchi[axis]
		o.rminloc[axis] = o.Stretch(o.csiminloc[axis], axis)
		o.rmaxloc[axis] = o.Stretch(o.csiminloc[axis]+float64(nloc)*o.dchi[axis], axis)

		// minimum physical spacing on this axis, used for the Courant bound;
		// dx/dχ is linear along an arm, so the smallest spacing is either the
		// uniform dchi or the spacing at an arm's outer edge.
		axisDr := o.dchi[axis]
		if s := o.stretch[axis]; s != nil {
			if s.left.active {
				d := s.left.dxOf(-s.left.span) * o.dchi[axis]
				if d < axisDr {
					axisDr = d
				}
			}
			if s.right.active {
				d := s.right.dxOf(s.right.span) * o.dchi[axis]
				if d < axisDr {
					axisDr = d
				}
			}
		}
		o.dr[axis] = axisDr
		o.dri[axis] = 1 / axisDr
		if axisDr < minDr {
			minDr = axisDr
		}

		o.chrloc[axis] = make([]float64, nloc)
		for i := 0; i < nloc; i++ {
			o.chrloc[axis][i] = o.Stretch(o.csiminloc[axis]+(float64(i)+0.5)*o.dchi[axis], axis)
		}
	}

	sum := 0.0
	for axis := 0; axis < o.Dim; axis++ {
		sum += 1 / (o.dr[axis] * o.dr[axis])
	}
	o.dt = o.courant / math.Sqrt(sum)
	o.finalized = true
}

// Stretch maps a uniform coordinate χ to physical x on axis (spec §4.1).
// Outside an active stretch arm's uniform middle, χ and x coincide.
func (o *Grid) Stretch(chi float64, axis int) float64 {
	s := o.stretch[axis]
	if s == nil {
		return chi
	}
	if s.left.active && chi < s.left.x0 {
		return s.left.xOf(chi - s.left.x0)
	}
	if s.right.active && chi > s.right.x0 {
		return s.right.xOf(chi - s.right.x0)
	}
	return chi
}

// Unstretch inverts Stretch: maps physical x back to uniform χ on axis.
func (o *Grid) Unstretch(x float64, axis int) float64 {
	s := o.stretch[axis]
	if s == nil {
		return x
	}
	if s.left.active && x < s.left.x0 {
		return s.left.x0 + s.left.chiOf(x)
	}
	if s.right.active && x > s.right.x0 {
		return s.right.x0 + s.right.chiOf(x)
	}
	return x
}

// DStretch returns dx/dχ at uniform coordinate χ on axis.
func (o *Grid) DStretch(chi float64, axis int) float64 {
	s := o.stretch[axis]
	if s == nil {
		return 1
	}
	if s.left.active && chi < s.left.x0 {
		return s.left.dxOf(chi - s.left.x0)
	}
	if s.right.active && chi > s.right.x0 {
		return s.right.dxOf(chi - s.right.x0)
	}
	return 1
}

// CellCenter returns the physical coordinate of local cell i's center on
// axis (cached by Finalize/MoveWindow).
func (o *Grid) CellCenter(axis, i int) float64 { return o.chrloc[axis][i] }

// Dt returns the leapfrog time step (spec §4.1: dt = C/√(Σ 1/dxᵢ²)).
func (o *Grid) Dt() float64 { return o.dt }

// Time returns the current simulation time t.
func (o *Grid) Time() float64 { return o.t }

// Istep returns the current step index.
func (o *Grid) Istep() int { return o.istep }

// AdvanceTime moves t forward by dt and increments istep (called once per
// PIC loop iteration, spec §4.5).
func (o *Grid) AdvanceTime() {
	o.t += o.dt
	o.istep++
}

// TotalSteps returns ⌈simTime/dt⌉.
func (o *Grid) TotalSteps() int {
	if o.dt <= 0 {
		return 0
	}
	return int(math.Ceil(o.simTime / o.dt))
}

// MoveWindow accumulates the co-moving shift and, once it exceeds one
// local cell width, translates the local sub-box by exactly one cell
// along x (spec §4.1). Returns the number of cells shifted this call (0
// or 1 in the reference configuration, since dt is bounded by the
// Courant condition).
func (o *Grid) MoveWindow() int {
	if !o.mwEnabled || o.mwFreq <= 0 || o.istep%o.mwFreq != 0 {
		return 0
	}
	o.fmove += o.mwBeta * o.dt * float64(o.mwFreq)
	shifted := 0
	for o.fmove >= o.dr[0] {
		o.fmove -= o.dr[0]
		o.rminloc[0] += o.dr[0]
		o.rmaxloc[0] += o.dr[0]
		o.csiminloc[0] += o.dchi[0]
		o.globalOff[0]++
		for i := range o.chrloc[0] {
			o.chrloc[0][i] = o.Stretch(o.csiminloc[0]+(float64(i)+0.5)*o.dchi[0], 0)
		}
		shifted++
	}
	return shifted
}

// NLoc returns the local cell count along axis.
func (o *Grid) NLoc(axis int) int { return o.nloc[axis] }

// GlobalOffset returns the global index of local cell 0 along axis.
func (o *Grid) GlobalOffset(axis int) int { return o.globalOff[axis] }

// RangeLoc returns the local sub-box bounds along axis.
func (o *Grid) RangeLoc(axis int) (lo, hi float64) { return o.rminloc[axis], o.rmaxloc[axis] }

// RangeGlobal returns the global box bounds along axis, needed to wrap a
// migrating particle's coordinate by the full periodic span rather than
// the local sub-box width (spec §4.4.5 step 2).
func (o *Grid) RangeGlobal(axis int) (lo, hi float64) { return o.rmin[axis], o.rmax[axis] }

// Dr returns the minimum physical spacing used for the Courant condition.
func (o *Grid) Dr(axis int) float64 { return o.dr[axis] }

// Dri returns 1/Dr(axis), used by the particle gather/deposit stencils.
func (o *Grid) Dri(axis int) float64 { return o.dri[axis] }

// DChi returns the uniform χ spacing of axis (global box / N).
func (o *Grid) DChi(axis int) float64 { return o.dchi[axis] }

// CsiMinLoc returns the χ origin of the local sub-box on axis.
func (o *Grid) CsiMinLoc(axis int) float64 { return o.csiminloc[axis] }

// Boundary returns the boundary kind of axis.
func (o *Grid) Boundary(axis int) BoundaryKind { return o.boundary[axis] }

// Topology exposes the underlying rank topology.
func (o *Grid) Topology() *dom.Topology { return o.topo }
