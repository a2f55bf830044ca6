// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/picfem/internal/dom"
)

func Test_sim01(tst *testing.T) {
	chk.PrintTitle("sim01: GridData.Build honors range, cells and boundaries")

	var gd GridData
	gd.SetDefault()
	gd.Dim = 1
	gd.Axes[0] = AxisData{Lo: 0, Hi: 20, N: 40, NProcs: 1, Open: true}

	g := gd.Build(dom.NewSerial())
	g.Finalize()

	if g.NLoc(0) != 40 {
		tst.Fatalf("expected 40 local cells, got %d", g.NLoc(0))
	}
	if g.Boundary(0) != 1 { // grid.Open
		tst.Fatalf("expected open boundary on axis 0")
	}
}

func Test_sim02(tst *testing.T) {
	chk.PrintTitle("sim02: DensitySpec.Build resolves a box profile by default")

	ds := DensitySpec{Box: [6]float64{0, 1, 0, 1, 0, 1}}
	p := ds.Build()
	chk.Scalar(tst, "inside box", 1e-15, p.Density(0.5, 0.5, 0.5), 1)
	chk.Scalar(tst, "outside box", 1e-15, p.Density(5, 5, 5), 0)
}

func Test_sim03(tst *testing.T) {
	chk.PrintTitle("sim03: SpeciesData.Build resolves electron coupling")

	sd := SpeciesData{Name: "e-", Kind: "electron"}
	c := sd.Build()
	chk.Scalar(tst, "electron coupling", 1e-15, c.Coupling, -1)
}
