// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package species implements the particle container, creation from a
// density profile, the relativistic Boris push, current deposition and
// inter-rank migration (spec §4.4), ported from
// original_source/particle_species.cpp.
package species

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/picfem/internal/density"
	"github.com/cpmech/picfem/internal/distrib"
	"github.com/cpmech/picfem/internal/grid"
)

// Type names a physical species (original: SPECIE.type).
type Type int

const (
	Electron Type = iota
	Positron
	Ion
)

// massChargeCoupling returns (charge-to-mass ratio q/m, mass in
// electron-mass units) for kind, ported verbatim from
// particle_species.cpp::computeParticleMassChargeCoupling.
func massChargeCoupling(kind Type, ionZ, ionA float64) (coupling, mass float64) {
	switch kind {
	case Electron:
		return -1, 1
	case Positron:
		return 1, 1
	case Ion:
		const protonMassRatio = 1836.2
		return ionZ / (protonMassRatio * ionA), protonMassRatio * ionA
	}
	chk.Panic("species: unknown type %v", kind)
	return 0, 0
}

// Container is the struct-of-arrays particle storage for one species
// (spec §9: SoA, exponential growth via append); particles are indexed
// by Go int, not a 32-bit index.
type Container struct {
	Name string
	Kind Type

	Coupling float64 // charge-to-mass ratio q/m; the charge is Coupling*Mass
	Mass     float64 // rest mass, electron-mass units

	ParticlesPerCell  int
	IsTest            bool // test species: pushed but never deposits current
	RadiationReaction bool
	Lambda0           float64 // reference wavelength, metres; radiation-reaction strength (spec §4.4.2)

	// position, in local physical coordinates
	X, Y, Z []float64
	// momentum, p = gamma*m*v, normalized units
	Px, Py, Pz []float64
	// macro-particle statistical weight
	W []float64
	// globally unique marker id (spec §4.4.1: stable across migration)
	ID []int64
}

// New allocates an empty container for kind.
func New(name string, kind Type, ionZ, ionA float64) *Container {
	coupling, mass := massChargeCoupling(kind, ionZ, ionA)
	return &Container{Name: name, Kind: kind, Coupling: coupling, Mass: mass}
}

// Len returns the number of live particles.
func (o *Container) Len() int { return len(o.X) }

// append adds one particle's state to every SoA slice (amortized O(1) via
// slice append's doubling growth, spec §9).
func (o *Container) append(x, y, z, px, py, pz, w float64, id int64) {
	o.X = append(o.X, x)
	o.Y = append(o.Y, y)
	o.Z = append(o.Z, z)
	o.Px = append(o.Px, px)
	o.Py = append(o.Py, py)
	o.Pz = append(o.Pz, pz)
	o.W = append(o.W, w)
	o.ID = append(o.ID, id)
}

// removeSwapBack deletes particle i by moving the last particle into its
// slot (order is not physically meaningful, so O(1) removal is safe).
func (o *Container) removeSwapBack(i int) {
	last := o.Len() - 1
	o.X[i], o.Y[i], o.Z[i] = o.X[last], o.Y[last], o.Z[last]
	o.Px[i], o.Py[i], o.Pz[i] = o.Px[last], o.Py[last], o.Pz[last]
	o.W[i] = o.W[last]
	o.ID[i] = o.ID[last]
	o.X, o.Y, o.Z = o.X[:last], o.Y[:last], o.Z[:last]
	o.Px, o.Py, o.Pz = o.Px[:last], o.Py[:last], o.Pz[:last]
	o.W = o.W[:last]
	o.ID = o.ID[:last]
}

// CreateFromDensity seeds particlesPerCell macro-particles per local cell
// wherever prof.Density is non-zero, placed on a regular grid of
// cell-fraction offsets rather than randomly (spec §4.4.1: a deterministic
// sub-cell lattice is required so a quiescent plasma stays quiescent,
// spec §8 scenario 6), exactly as createParticlesWithinFrom /
// createStretchedParticlesWithinFrom lay particles out in the original.
// Each macro-particle is weighted by density/(ppx*ppy*ppz) and, on a
// stretched axis, the local Jacobian. idBase is this rank's offset into
// the global marker-id space (spec §4.4.1: obtained from
// dom.Topology.AllGatherInt prefix sum by the caller).
func (o *Container) CreateFromDensity(g *grid.Grid, prof density.Profile, particlesPerCell int, peakDensity float64, idBase int64) {
	if particlesPerCell <= 0 {
		chk.Panic("species: particlesPerCell must be > 0")
	}
	o.ParticlesPerCell = particlesPerCell
	ppx, ppy, ppz := perAxisCounts(g.Dim, particlesPerCell)
	total := float64(ppx * ppy * ppz)
	ny, nz := dimCells(g, 1), dimCells(g, 2)
	nextID := idBase
	for i := 0; i < g.NLoc(0); i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				x0, x1 := cellBounds(g, 0, i)
				y0, y1 := cellBounds(g, 1, j)
				z0, z1 := cellBounds(g, 2, k)
				for px := 0; px < ppx; px++ {
					x := x0 + (float64(px)+0.5)/float64(ppx)*(x1-x0)
					for py := 0; py < ppy; py++ {
						y := y0 + (float64(py)+0.5)/float64(ppy)*(y1-y0)
						for pz := 0; pz < ppz; pz++ {
							z := z0 + (float64(pz)+0.5)/float64(ppz)*(z1-z0)
							d := prof.Density(x, y, z)
							if d <= 0 {
								continue
							}
							weight := d * peakDensity / total
							if g.IsStretched(0) || g.IsStretched(1) || g.IsStretched(2) {
								weight /= jacobian(g, x, y, z)
							}
							o.append(x, y, z, 0, 0, 0, weight, nextID)
							nextID++
						}
					}
				}
			}
		}
	}
}

// perAxisCounts splits particlesPerCell into per-axis sub-lattice counts
// for g.Dim active axes, as close to equal factors as possible (the
// original takes ppx/ppy/ppz directly; this repo's single
// particlesPerCell configuration knob is factored here instead).
func perAxisCounts(dim, n int) (ppx, ppy, ppz int) {
	if dim <= 1 {
		return n, 1, 1
	}
	if dim == 2 {
		ppx = int(math.Round(math.Sqrt(float64(n))))
		for ppx > 1 && n%ppx != 0 {
			ppx--
		}
		if ppx < 1 {
			ppx = 1
		}
		return ppx, n / ppx, 1
	}
	ppx = int(math.Round(math.Cbrt(float64(n))))
	for ppx > 1 && n%ppx != 0 {
		ppx--
	}
	if ppx < 1 {
		ppx = 1
	}
	rem := n / ppx
	ppy = int(math.Round(math.Sqrt(float64(rem))))
	for ppy > 1 && rem%ppy != 0 {
		ppy--
	}
	if ppy < 1 {
		ppy = 1
	}
	ppz = rem / ppy
	return
}

func dimCells(g *grid.Grid, axis int) int {
	if axis >= g.Dim {
		return 1
	}
	return g.NLoc(axis)
}

func cellBounds(g *grid.Grid, axis, i int) (lo, hi float64) {
	if axis >= g.Dim {
		return 0, 1
	}
	chi0 := g.CsiMinLoc(axis) + float64(i)*g.DChi(axis)
	chi1 := chi0 + g.DChi(axis)
	return g.Stretch(chi0, axis), g.Stretch(chi1, axis)
}

// jacobian returns the product of per-axis stretch derivatives at
// physical position (x,y,z), the divisor createStretchedParticlesWithinFrom
// applies to keep physical density correct under a non-uniform map.
func jacobian(g *grid.Grid, x, y, z float64) float64 {
	j := 1.0
	coords := [3]float64{x, y, z}
	for axis := 0; axis < g.Dim; axis++ {
		chi := g.Unstretch(coords[axis], axis)
		j *= g.DStretch(chi, axis)
	}
	return j
}

// OffsetIDs shifts every particle's marker id by delta, used once after
// CreateFromDensity to turn this rank's locally-sequential ids into
// globally-unique ones (spec §4.4.1): callers first create with ids
// starting at 0, gather each rank's local count, then call OffsetIDs with
// the prefix sum of the counts from lower-ranked processes.
func (o *Container) OffsetIDs(delta int64) {
	for i := range o.ID {
		o.ID[i] += delta
	}
}

// AddMomenta draws a momentum for every particle currently in the
// container from params, in the species' own rest frame (original:
// add_momenta, called once right after creation).
func (o *Container) AddMomenta(params distrib.Params, rng distrib.UniformSampler) {
	for i := range o.X {
		px, py, pz := distrib.Sample(params, rng)
		o.Px[i], o.Py[i], o.Pz[i] = px, py, pz
	}
}
