// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package species

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/picfem/internal/distrib"
	"github.com/cpmech/picfem/internal/dom"
	"github.com/cpmech/picfem/internal/field"
	"github.com/cpmech/picfem/internal/grid"
)

type fixedRng struct {
	vals []float64
	i    int
}

func (f *fixedRng) Float64() float64 {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

func Test_species01(tst *testing.T) {
	chk.PrintTitle("species01: electron/ion mass-charge coupling matches the reference constants")

	c, m := massChargeCoupling(Electron, 0, 0)
	chk.Scalar(tst, "electron coupling", 1e-15, c, -1)
	chk.Scalar(tst, "electron mass", 1e-15, m, 1)

	c, m = massChargeCoupling(Ion, 1, 1)
	chk.Scalar(tst, "hydrogen ion coupling", 1e-12, c, 1.0/1836.2)
	chk.Scalar(tst, "hydrogen ion mass", 1e-9, m, 1836.2)
}

func Test_species02(tst *testing.T) {
	chk.PrintTitle("species02: uniform magnetic field produces pure Boris gyromotion (|p| conserved)")

	g := grid.New(1, dom.NewSerial())
	g.SetRange(0, 0, 10)
	g.SetNCells(20, 1, 1)
	g.SetCourant(0.5)
	g.Finalize()

	f := field.New(g)
	for i := -grid.Ghost; i < g.NLoc(0)+grid.Ghost; i++ {
		f.Bz.Set(i, 0, 0, 1.0)
	}

	p := New("e-", Electron, 0, 0)
	p.append(5, 0, 0, 1.0, 0, 0, 1.0, 0)

	p0 := math.Sqrt(p.Px[0]*p.Px[0] + p.Py[0]*p.Py[0] + p.Pz[0]*p.Pz[0])
	for n := 0; n < 50; n++ {
		p.PushMomenta(g, f, g.Dt())
	}
	p1 := math.Sqrt(p.Px[0]*p.Px[0] + p.Py[0]*p.Py[0] + p.Pz[0]*p.Pz[0])
	chk.Scalar(tst, "|p| conserved under pure B rotation", 1e-9, p1, p0)
}

func Test_species03(tst *testing.T) {
	chk.PrintTitle("species03: waterbag-sampled momenta stay within the requested temperature ellipsoid")

	rng := &fixedRng{vals: []float64{0.1, 0.2, 0.95, 0.6, 0.3, 0.7, 0.9, 0.5, 0.4, 0.2, 0.6, 0.55}}
	params := distrib.Params{Kind: distrib.Waterbag, Temperature: [3]float64{0.2, 0.3, 0.1}}
	for i := 0; i < 3; i++ {
		px, py, pz := distrib.Sample(params, rng)
		r2 := (px/params.Temperature[0])*(px/params.Temperature[0]) +
			(py/params.Temperature[1])*(py/params.Temperature[1]) +
			(pz/params.Temperature[2])*(pz/params.Temperature[2])
		if r2 > 1.0+1e-9 {
			tst.Fatalf("sample outside unit ellipsoid: r2=%v", r2)
		}
	}
}

func Test_species04(tst *testing.T) {
	chk.PrintTitle("species04: particle migration moves out-of-range particles and keeps in-range ones")

	g := grid.New(1, dom.NewSerial())
	g.SetRange(0, 0, 10)
	g.SetNCells(10, 1, 1)
	g.SetBoundaries([3]grid.BoundaryKind{grid.PBC, grid.PBC, grid.PBC})
	g.SetCourant(0.5)
	g.Finalize()

	p := New("e-", Electron, 0, 0)
	p.append(-0.5, 0, 0, 0, 0, 0, 1, 0) // left of [0,10), should wrap to 9.5
	p.append(5, 0, 0, 0, 0, 0, 1, 1)    // interior, stays put

	p.wrapLocalPeriodic(g, 0)

	if p.Len() != 2 {
		tst.Fatalf("expected 2 particles after wrap, got %d", p.Len())
	}
	chk.Scalar(tst, "wrapped position", 1e-12, p.X[0], 9.5)
	chk.Scalar(tst, "interior position unchanged", 1e-12, p.X[1], 5)
}
