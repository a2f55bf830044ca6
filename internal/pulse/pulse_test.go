// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pulse

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_pulse01(tst *testing.T) {
	chk.PrintTitle("pulse01: plane-wave P-polarization has zero S-component at the carrier peak")

	w := Resolve(Spec{
		Kind: PlaneWave, Polarization: P, Lambda0: 1, Amplitude: 1, FWHM: 10, FocusPosition: 0,
	})
	e1, e2, _, _ := w(0, 0, 0)
	if e1 == 0 {
		tst.Fatal("expected non-zero P-polarized component at the pulse center")
	}
	chk.Scalar(tst, "S-component of pure P-polarization", 1e-12, e2, 0)
}

func Test_pulse02(tst *testing.T) {
	chk.PrintTitle("pulse02: gaussian envelope decays away from the focus position")

	w := Resolve(Spec{
		Kind: Gaussian, Polarization: S, Lambda0: 1, Amplitude: 1, FWHM: 2, FocusPosition: 0,
	})
	_, e0, _, _ := w(0, 0, 0)
	_, e5, _, _ := w(5, 0, 0)
	if !(abs(e0) > abs(e5)) {
		tst.Fatalf("expected envelope to decay: e0=%v e5=%v", e0, e5)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func Test_pulse03(tst *testing.T) {
	chk.PrintTitle("pulse03: unknown kind is a fatal configuration error")

	defer func() {
		if r := recover(); r == nil {
			tst.Fatal("expected Resolve to panic on an unknown kind")
		}
	}()
	Resolve(Spec{Kind: "bogus", Polarization: P, Lambda0: 1})
}
