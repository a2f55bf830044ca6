// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package density

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_density01(tst *testing.T) {
	chk.PrintTitle("density01: box profile is a sharp indicator function")

	b := Box{Xmin: 1, Xmax: 2, Ymin: -1, Ymax: 1, Zmin: -1, Zmax: 1}
	chk.Scalar(tst, "inside", 1e-15, b.Density(1.5, 0, 0), 1)
	chk.Scalar(tst, "outside", 1e-15, b.Density(0.5, 0, 0), 0)
}

func Test_density02(tst *testing.T) {
	chk.PrintTitle("density02: linear ramp interpolates between 0 and the box value")

	l := Linear{Axis: 0, RampMin: 0, RampMax: 2, Box: Box{Xmin: -10, Xmax: 10, Ymin: -10, Ymax: 10, Zmin: -10, Zmax: 10}}
	chk.Scalar(tst, "before ramp", 1e-15, l.Density(-1, 0, 0), 0)
	chk.Scalar(tst, "mid ramp", 1e-12, l.Density(1, 0, 0), 0.5)
	chk.Scalar(tst, "after ramp", 1e-15, l.Density(5, 0, 0), 1)
}

func Test_density03(tst *testing.T) {
	chk.PrintTitle("density03: exponential decay beyond origin")

	e := Exponential{Axis: 0, Origin: 0, ScaleLength: 1, Box: Box{Xmin: -10, Xmax: 10, Ymin: -10, Ymax: 10, Zmin: -10, Zmax: 10}}
	chk.Scalar(tst, "at origin", 1e-15, e.Density(0, 0, 0), 1)
	if e.Density(3, 0, 0) >= e.Density(1, 0, 0) {
		tst.Fatal("expected monotonically decreasing density beyond origin")
	}
}
