// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package field implements the six Yee-staggered E/B component arrays and
// the FDTD leapfrog update (spec §4.2).
package field

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/picfem/internal/current"
	"github.com/cpmech/picfem/internal/grid"
	"github.com/cpmech/picfem/internal/pulse"
)

// array3 is a flat ghost-padded local field component, indexed
// [i][j][k] via idx(), mirroring the teacher's flat-slice + stride
// convention in la package usage.
type array3 struct {
	nx, ny, nz int // local cells, excluding ghosts
	g          int // ghost depth per side
	data       []float64
}

func newArray3(nx, ny, nz, g int) *array3 {
	sx, sy, sz := nx+2*g, ny+2*g, nz+2*g
	return &array3{nx: nx, ny: ny, nz: nz, g: g, data: make([]float64, sx*sy*sz)}
}

func (a *array3) strideY() int { return a.nz + 2*a.g }
func (a *array3) strideX() int { return (a.ny + 2*a.g) * (a.nz + 2*a.g) }

// idx converts local (possibly ghost, possibly negative) indices into the
// flat offset.
func (a *array3) idx(i, j, k int) int {
	return (i+a.g)*a.strideX() + (j+a.g)*a.strideY() + (k + a.g)
}

func (a *array3) At(i, j, k int) float64      { return a.data[a.idx(i, j, k)] }
func (a *array3) Set(i, j, k int, v float64)  { a.data[a.idx(i, j, k)] = v }
func (a *array3) Add(i, j, k int, v float64)  { a.data[a.idx(i, j, k)] += v }
func (a *array3) Zero()                       { for i := range a.data { a.data[i] = 0 } }

// murPlane snapshots the ghost/interior values of a transverse E component
// at the x=0 open boundary at the start of a step, so the second-phase
// Mur correction can use the classic old-ghost/new-interior form:
// openBoundaryE1 runs before the first half-advance-B and OpenBoundaryE2
// runs right after advance-E, before the second half-advance-B.
type murPlane struct {
	ghost, interior []float64
}

// Field holds the six staggered E/B components plus the open-boundary
// snapshots used by the two-phase Mur correction (spec §4.2).
type Field struct {
	g *grid.Grid

	Ex, Ey, Ez *array3
	Bx, By, Bz *array3

	murEy, murEz murPlane
}

// New allocates all six components over g's local box (spec §4.2).
func New(g *grid.Grid) *Field {
	nx, ny, nz := dimCells(g, 0), dimCells(g, 1), dimCells(g, 2)
	gh := grid.Ghost
	return &Field{
		g:  g,
		Ex: newArray3(nx, ny, nz, gh), Ey: newArray3(nx, ny, nz, gh), Ez: newArray3(nx, ny, nz, gh),
		Bx: newArray3(nx, ny, nz, gh), By: newArray3(nx, ny, nz, gh), Bz: newArray3(nx, ny, nz, gh),
	}
}

func dimCells(g *grid.Grid, axis int) int {
	if axis >= g.Dim {
		return 1
	}
	return g.NLoc(axis)
}

// AddPulse resolves spec and writes its analytic E/B pattern into the
// boundary-plane arrays exactly once, at the field's current time (spec
// §4.2: add_pulse is a one-shot addition, not a continuous soft source —
// adding the same pulse twice doubles the resulting field, spec §8).
func (o *Field) AddPulse(spec pulse.Spec) {
	o.injectPulse(pulse.Resolve(spec))
}

// injectPulse adds one resolved pulse's transverse E/B contribution at
// the local boundary plane, at the field's current time.
func (o *Field) injectPulse(w pulse.Wave) {
	t := o.g.Time()
	ny := o.Ex.ny
	for j := 0; j < ny; j++ {
		y := o.g.CellCenter(1, clampIdx(j, o.g.NLoc(1)))
		e1, e2, b1, b2 := w(t, y, 0)
		o.Ey.Add(0, j, 0, e1)
		o.Ez.Add(0, j, 0, e2)
		o.By.Add(0, j, 0, b1)
		o.Bz.Add(0, j, 0, b2)
	}
}

// Zero clears all six components.
func (o *Field) Zero() {
	o.Ex.Zero(); o.Ey.Zero(); o.Ez.Zero()
	o.Bx.Zero(); o.By.Zero(); o.Bz.Zero()
}

// HalfAdvanceB advances B by half a step using curl(E) (spec §4.2 FDTD).
func (o *Field) HalfAdvanceB() {
	o.advanceB(0.5 * o.g.Dt())
}

// advanceB implements B -= dt*curl(E) over the local interior, restricted
// to the axes active in o.g.Dim (a 1-D run only updates the components
// that vary, matching the original's reduced-dimension kernels).
func (o *Field) advanceB(dt float64) {
	dim := o.g.Dim
	nx, ny, nz := o.Bx.nx, o.Bx.ny, o.Bx.nz
	dxi, dyi, dzi := o.g.Dri(0), 1.0, 1.0
	if dim >= 2 {
		dyi = o.g.Dri(1)
	}
	if dim >= 3 {
		dzi = o.g.Dri(2)
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				var dEzdy, dEydz, dExdz, dEzdx, dEydx, dExdy float64
				if dim >= 2 {
					dEzdy = (o.Ez.At(i, j, k) - o.Ez.At(i, j-1, k)) * dyi
					dExdy = (o.Ex.At(i, j, k) - o.Ex.At(i, j-1, k)) * dyi
				}
				if dim >= 3 {
					dEydz = (o.Ey.At(i, j, k) - o.Ey.At(i, j, k-1)) * dzi
					dExdz = (o.Ex.At(i, j, k) - o.Ex.At(i, j, k-1)) * dzi
				}
				dEzdx = (o.Ez.At(i, j, k) - o.Ez.At(i-1, j, k)) * dxi
				dEydx = (o.Ey.At(i, j, k) - o.Ey.At(i-1, j, k)) * dxi

				curlEx := dEzdy - dEydz
				curlEy := dExdz - dEzdx
				curlEz := dEydx - dExdy

				o.Bx.Add(i, j, k, -dt*curlEx)
				o.By.Add(i, j, k, -dt*curlEy)
				o.Bz.Add(i, j, k, -dt*curlEz)
			}
		}
	}
}

// AdvanceE advances E by a full step using curl(B) and the deposited
// current J (spec §4.2 FDTD): E += dt*(curl(B) - J).
func (o *Field) AdvanceE(cur *current.Current) {
	dt := o.g.Dt()
	dim := o.g.Dim
	nx, ny, nz := o.Ex.nx, o.Ex.ny, o.Ex.nz
	dxi, dyi, dzi := o.g.Dri(0), 1.0, 1.0
	if dim >= 2 {
		dyi = o.g.Dri(1)
	}
	if dim >= 3 {
		dzi = o.g.Dri(2)
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				var dBzdy, dBydz, dBxdz, dBzdx, dBydx, dBxdy float64
				if dim >= 2 {
					dBzdy = (o.Bz.At(i, j+1, k) - o.Bz.At(i, j, k)) * dyi
					dBxdy = (o.Bx.At(i, j+1, k) - o.Bx.At(i, j, k)) * dyi
				}
				if dim >= 3 {
					dBydz = (o.By.At(i, j, k+1) - o.By.At(i, j, k)) * dzi
					dBxdz = (o.Bx.At(i, j, k+1) - o.Bx.At(i, j, k)) * dzi
				}
				dBzdx = (o.Bz.At(i+1, j, k) - o.Bz.At(i, j, k)) * dxi
				dBydx = (o.By.At(i+1, j, k) - o.By.At(i, j, k)) * dxi

				curlBx := dBzdy - dBydz
				curlBy := dBxdz - dBzdx
				curlBz := dBydx - dBxdy

				o.Ex.Add(i, j, k, dt*(curlBx-cur.Jx.At(i, j, k)))
				o.Ey.Add(i, j, k, dt*(curlBy-cur.Jy.At(i, j, k)))
				o.Ez.Add(i, j, k, dt*(curlBz-cur.Jz.At(i, j, k)))
			}
		}
	}
}

func clampIdx(i, n int) int {
	if n == 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// BoundaryConditions applies periodic ghost exchange and takes the
// open-boundary (Mur) E snapshot, the first phase of a step (spec §4.2
// [EXPANDED]: "openBoundariesE_1 precedes half-advance-B; openBoundariesE_2
// follows advance-E").
func (o *Field) BoundaryConditions() {
	o.exchangeGhosts()
	o.openBoundaryE1()
}

func (o *Field) exchangeGhosts() {
	topo := o.g.Topology()
	if topo == nil || !topo.IsDistributed() {
		o.exchangeGhostsSerialPeriodic()
		return
	}
	for axis := 1; axis < o.g.Dim; axis++ {
		if o.g.Boundary(axis) != grid.PBC {
			continue
		}
		o.exchangeAxis(axis, topo)
	}
}

// exchangeGhostsSerialPeriodic applies PBC wrap-around locally when there
// is only one rank on a periodic axis (spec §4.2: ghost exchange must
// still behave correctly in single-rank mode).
func (o *Field) exchangeGhostsSerialPeriodic() {
	for axis := 1; axis < o.g.Dim; axis++ {
		if o.g.Boundary(axis) != grid.PBC {
			continue
		}
		o.wrapAxisLocal(axis)
	}
}

func (o *Field) wrapAxisLocal(axis int) {
	for _, a := range [6]*array3{o.Ex, o.Ey, o.Ez, o.Bx, o.By, o.Bz} {
		n := axisLen(a, axis)
		for g := 1; g <= a.g; g++ {
			copyGhostPlane(a, axis, -g, n-g)
			copyGhostPlane(a, axis, n-1+g, g-1)
		}
	}
}

func axisLen(a *array3, axis int) int {
	switch axis {
	case 1:
		return a.ny
	case 2:
		return a.nz
	}
	return a.nx
}

func copyGhostPlane(a *array3, axis, dst, src int) {
	switch axis {
	case 1:
		for i := -a.g; i < a.nx+a.g; i++ {
			for k := -a.g; k < a.nz+a.g; k++ {
				a.Set(i, dst, k, a.At(i, src, k))
			}
		}
	case 2:
		for i := -a.g; i < a.nx+a.g; i++ {
			for j := -a.g; j < a.ny+a.g; j++ {
				a.Set(i, j, dst, a.At(i, j, src))
			}
		}
	}
}

// exchangeAxis exchanges ghost planes with the left/right neighbour on
// axis via paired SendRecv, matching the species migration protocol's
// use of dom.Topology (spec §4.6).
func (o *Field) exchangeAxis(axis int, topo interface {
	CartShift(int) (int, int)
	SendRecvFloats([]float64, int, int, int, int) []float64
}) {
	left, right := topo.CartShift(axis)
	for _, a := range [6]*array3{o.Ex, o.Ey, o.Ez, o.Bx, o.By, o.Bz} {
		n := planeSize(a, axis)
		sendRight := packPlane(a, axis, axisLen(a, axis)-a.g)
		recvLeft := topo.SendRecvFloats(sendRight, right, n, left, 77)
		if left >= 0 {
			unpackPlane(a, axis, -a.g, recvLeft)
		}
		sendLeft := packPlane(a, axis, 0)
		recvRight := topo.SendRecvFloats(sendLeft, left, n, right, 78)
		if right >= 0 {
			unpackPlane(a, axis, axisLen(a, axis), recvRight)
		}
	}
}

func planeSize(a *array3, axis int) int {
	switch axis {
	case 1:
		return (a.nx + 2*a.g) * a.g * (a.nz + 2*a.g)
	case 2:
		return (a.nx + 2*a.g) * (a.ny + 2*a.g) * a.g
	}
	return a.g * (a.ny + 2*a.g) * (a.nz + 2*a.g)
}

func packPlane(a *array3, axis, start int) []float64 {
	var out []float64
	switch axis {
	case 1:
		for g := 0; g < a.g; g++ {
			for i := -a.g; i < a.nx+a.g; i++ {
				for k := -a.g; k < a.nz+a.g; k++ {
					out = append(out, a.At(i, start+g, k))
				}
			}
		}
	case 2:
		for g := 0; g < a.g; g++ {
			for i := -a.g; i < a.nx+a.g; i++ {
				for j := -a.g; j < a.ny+a.g; j++ {
					out = append(out, a.At(i, j, start+g))
				}
			}
		}
	}
	return out
}

func unpackPlane(a *array3, axis, start int, data []float64) {
	p := 0
	switch axis {
	case 1:
		for g := 0; g < a.g; g++ {
			for i := -a.g; i < a.nx+a.g; i++ {
				for k := -a.g; k < a.nz+a.g; k++ {
					a.Set(i, start+g, k, data[p])
					p++
				}
			}
		}
	case 2:
		for g := 0; g < a.g; g++ {
			for i := -a.g; i < a.nx+a.g; i++ {
				for j := -a.g; j < a.ny+a.g; j++ {
					a.Set(i, j, start+g, data[p])
					p++
				}
			}
		}
	}
}

// murCoeff is the Mur first-order absorbing-boundary coefficient
// (c*dt-dx)/(c*dt+dx) at a non-periodic x boundary (spec §4.2 Edge cases:
// open boundary damps the outgoing wave rather than reflecting it).
func murCoeff(g *grid.Grid) float64 {
	c := 1.0 // normalized units, spec §4: c==1
	dx := g.Dr(0)
	return (c*g.Dt() - dx) / (c*g.Dt() + dx)
}

// openBoundaryE1 snapshots the pre-step ghost and interior values of the
// transverse E components at the x=0 open boundary, so OpenBoundaryE2 can
// apply the classic two-level Mur correction after the interior has been
// advanced this step.
func (o *Field) openBoundaryE1() {
	if o.g.Boundary(0) != grid.Open {
		return
	}
	ny, nz := o.Ex.ny, o.Ex.nz
	if o.murEy.ghost == nil {
		o.murEy.ghost = make([]float64, ny*nz)
		o.murEy.interior = make([]float64, ny*nz)
		o.murEz.ghost = make([]float64, ny*nz)
		o.murEz.interior = make([]float64, ny*nz)
	}
	for j := 0; j < ny; j++ {
		for k := 0; k < nz; k++ {
			idx := j*nz + k
			o.murEy.ghost[idx] = o.Ey.At(-1, j, k)
			o.murEy.interior[idx] = o.Ey.At(0, j, k)
			o.murEz.ghost[idx] = o.Ez.At(-1, j, k)
			o.murEz.interior[idx] = o.Ez.At(0, j, k)
		}
	}
}

// OpenBoundaryE2 applies the second open-boundary E correction, called
// after advance-E has updated the interior this step (spec §4.2
// [EXPANDED]): the new ghost value is the pre-step interior value plus
// the Mur-weighted change between the pre-step ghost and the now-advanced
// interior, the standard two-level Mur absorbing condition.
func (o *Field) OpenBoundaryE2() {
	if o.g.Boundary(0) != grid.Open {
		return
	}
	ny, nz := o.Ex.ny, o.Ex.nz
	coeff := murCoeff(o.g)
	for j := 0; j < ny; j++ {
		for k := 0; k < nz; k++ {
			idx := j*nz + k
			newEy := o.murEy.interior[idx] + coeff*(o.Ey.At(0, j, k)-o.murEy.ghost[idx])
			newEz := o.murEz.interior[idx] + coeff*(o.Ez.At(0, j, k)-o.murEz.ghost[idx])
			o.Ey.Set(-1, j, k, newEy)
			o.Ez.Set(-1, j, k, newEz)
		}
	}
}

// OpenBoundaryB applies the Mur absorbing condition to the transverse B
// components at the x=0 open boundary (spec §4.2 public contract:
// open_boundaries_B, called once per step right before advance-E in the
// original loop).
func (o *Field) OpenBoundaryB() {
	if o.g.Boundary(0) != grid.Open {
		return
	}
	coeff := murCoeff(o.g)
	ny, nz := o.Bx.ny, o.Bx.nz
	for j := 0; j < ny; j++ {
		for k := 0; k < nz; k++ {
			o.By.Set(-1, j, k, o.By.At(0, j, k)+coeff*(o.By.At(0, j, k)-o.By.At(-1, j, k)))
			o.Bz.Set(-1, j, k, o.Bz.At(0, j, k)+coeff*(o.Bz.At(0, j, k)-o.Bz.At(-1, j, k)))
		}
	}
}

// MoveWindow shifts the field arrays by one cell along x to track
// grid.Grid.MoveWindow, discarding the trailing plane and zeroing the new
// leading plane (spec §4.1/§4.2).
func (o *Field) MoveWindow(nshift int) {
	for s := 0; s < nshift; s++ {
		for _, a := range [6]*array3{o.Ex, o.Ey, o.Ez, o.Bx, o.By, o.Bz} {
			shiftX(a)
		}
	}
}

func shiftX(a *array3) {
	for j := -a.g; j < a.ny+a.g; j++ {
		for k := -a.g; k < a.nz+a.g; k++ {
			for i := -a.g; i < a.nx+a.g-1; i++ {
				a.Set(i, j, k, a.At(i+1, j, k))
			}
			a.Set(a.nx+a.g-1, j, k, 0)
		}
	}
}

// Energy returns the local electromagnetic energy density sum (spec §8:
// used by the vacuum-pulse energy-conservation property test).
func (o *Field) Energy() float64 {
	sum := 0.0
	for _, a := range [6]*array3{o.Ex, o.Ey, o.Ez, o.Bx, o.By, o.Bz} {
		for i := 0; i < a.nx; i++ {
			for j := 0; j < a.ny; j++ {
				for k := 0; k < a.nz; k++ {
					v := a.At(i, j, k)
					sum += v * v
				}
			}
		}
	}
	return 0.5 * sum
}

func init() {
	// guard against silent misuse of array3 outside its local box; cheap
	// enough to leave compiled in.
	if grid.Ghost < 1 {
		chk.Panic("field: grid.Ghost must be >= 1")
	}
}
