// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/picfem/internal/current"
	"github.com/cpmech/picfem/internal/dom"
	"github.com/cpmech/picfem/internal/grid"
	"github.com/cpmech/picfem/internal/pulse"
)

func Test_field01(tst *testing.T) {
	chk.PrintTitle("field01: zero current leaves E unchanged by advanceE's J term, curl(B)=0 leaves it fully unchanged")

	g := grid.New(2, dom.NewSerial())
	g.SetRange(0, 0, 10)
	g.SetRange(1, 0, 10)
	g.SetNCells(10, 10, 1)
	g.SetCourant(0.5)
	g.Finalize()

	f := New(g)
	cur := current.New(g)
	f.AdvanceE(cur)

	chk.Scalar(tst, "Ex stays zero with zero B and J", 1e-15, f.Ex.At(3, 3, 0), 0)
}

func Test_field02(tst *testing.T) {
	chk.PrintTitle("field02: injecting a pulse adds non-zero transverse field at the boundary plane")

	g := grid.New(1, dom.NewSerial())
	g.SetRange(0, 0, 10)
	g.SetNCells(10, 1, 1)
	g.SetCourant(0.5)
	g.Finalize()

	f := New(g)
	f.AddPulse(pulse.Spec{
		Kind: pulse.PlaneWave, Polarization: pulse.S,
		Lambda0: 1, Amplitude: 1, FWHM: 10, FocusPosition: 0,
	})

	if f.Ey.At(0, 0, 0) == 0 && f.Ez.At(0, 0, 0) == 0 {
		tst.Fatal("expected pulse injection to set a non-zero transverse field")
	}
}
