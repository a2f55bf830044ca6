// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/picfem/internal/dom"
)

func Test_grid01(tst *testing.T) {
	chk.PrintTitle("grid01: uniform 1-D decomposition")

	g := New(1, dom.NewSerial())
	g.SetRange(0, 0, 10)
	g.SetNCells(100, 1, 1)
	g.SetCourant(0.9)
	g.SetSimulationTime(5)
	g.Finalize()

	if g.NLoc(0) != 100 {
		tst.Fatalf("expected 100 local cells, got %d", g.NLoc(0))
	}
	chk.Scalar(tst, "dchi", 1e-15, g.DChi(0), 0.1)
	chk.Scalar(tst, "dr", 1e-15, g.Dr(0), 0.1)
	chk.Scalar(tst, "dt", 1e-12, g.Dt(), 0.9*0.1)
}

func Test_grid02(tst *testing.T) {
	chk.PrintTitle("grid02: stretch round-trip is identity off the arm and C1 at the boundary")

	g := New(1, dom.NewSerial())
	g.SetRange(0, 0, 100)
	g.SetNCells(100, 1, 1)
	g.EnableStretchLeft(0, -50, 20)
	g.SetCourant(0.9)
	g.Finalize()

	// inside the uniform middle, stretch/unstretch round-trip exactly.
	for _, chi := range []float64{30, 50, 80} {
		x := g.Stretch(chi, 0)
		chk.Scalar(tst, "stretch(chi)==chi in uniform region", 1e-13, x, chi)
		back := g.Unstretch(x, 0)
		chk.Scalar(tst, "unstretch(stretch(chi))==chi", 1e-9, back, chi)
	}

	// derivative is continuous (==1) right at the stretch boundary.
	d := g.DStretch(20+1e-9, 0)
	chk.Scalar(tst, "dstretch continuous at boundary", 1e-6, d, 1)

	// round-trip inside the stretched arm too.
	x := g.Stretch(10, 0)
	back := g.Unstretch(x, 0)
	chk.Scalar(tst, "unstretch(stretch(chi)) in stretched arm", 1e-8, back, 10)
}

func Test_grid03(tst *testing.T) {
	chk.PrintTitle("grid03: moving window shifts by whole cells and preserves spacing")

	g := New(1, dom.NewSerial())
	g.SetRange(0, 0, 10)
	g.SetNCells(100, 1, 1)
	g.SetCourant(0.9)
	g.EnableMovingWindow(1.0, 1)
	g.Finalize()

	lo0, hi0 := g.RangeLoc(0)
	for i := 0; i < 20; i++ {
		g.AdvanceTime()
		g.MoveWindow()
	}
	lo1, hi1 := g.RangeLoc(0)
	if lo1 <= lo0 {
		tst.Fatalf("expected window to have advanced: lo0=%v lo1=%v", lo0, lo1)
	}
	ncells := math.Round((lo1 - lo0) / g.Dr(0))
	chk.Scalar(tst, "shift is a whole number of cells", 1e-9, lo1-lo0, ncells*g.Dr(0))
	chk.Scalar(tst, "local width preserved", 1e-9, hi1-lo1, hi0-lo0)
}
