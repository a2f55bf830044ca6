// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package current

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/picfem/internal/dom"
	"github.com/cpmech/picfem/internal/grid"
)

func Test_current01(tst *testing.T) {
	chk.PrintTitle("current01: zero then deposit then PBC fold is charge-preserving")

	g := grid.New(2, dom.NewSerial())
	g.SetRange(0, 0, 10)
	g.SetRange(1, 0, 10)
	g.SetNCells(10, 10, 1)
	g.SetBoundaries([3]grid.BoundaryKind{grid.Open, grid.PBC, grid.PBC})
	g.SetCourant(0.9)
	g.Finalize()

	cur := New(g)
	cur.Zero()
	cur.Jy.Add(3, -1, 0, 2.0) // deposited into a ghost cell, as a near-boundary particle would
	cur.Jy.Add(3, 0, 0, 1.0)

	total := 0.0
	for j := 0; j < cur.Jy.NLoc(1); j++ {
		total += cur.Jy.At(3, j, 0)
	}
	chk.Scalar(tst, "interior sum before fold", 1e-15, total, 1.0)

	cur.PBC(g.Topology())
	total = 0.0
	for j := 0; j < cur.Jy.NLoc(1); j++ {
		total += cur.Jy.At(3, j, 0)
	}
	chk.Scalar(tst, "interior sum after fold", 1e-15, total, 3.0)
}
