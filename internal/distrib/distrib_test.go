// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package distrib

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

type seqRng struct {
	vals []float64
	i    int
}

func (s *seqRng) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func Test_distrib01(tst *testing.T) {
	chk.PrintTitle("distrib01: waterbag samples respect the drift offset")

	rng := &seqRng{vals: []float64{0.5, 0.5, 0.5, 0.1, 0.6, 0.2}}
	p := Params{Kind: Waterbag, Temperature: [3]float64{1, 1, 1}, Drift: [3]float64{2, 0, 0}}
	px, _, _ := Sample(p, rng)
	if px < 1 {
		tst.Fatalf("expected drift to dominate px, got %v", px)
	}
}

func Test_distrib02(tst *testing.T) {
	chk.PrintTitle("distrib02: uniform_sphere samples land on the requested radius")

	rng := &seqRng{vals: []float64{0.3, 0.7, 0.2, 0.9}}
	p := Params{Kind: UniformSphere, Temperature: [3]float64{2, 0, 0}}
	px, py, pz := Sample(p, rng)
	r := px*px + py*py + pz*pz
	chk.Scalar(tst, "radius squared", 1e-9, r, 4)
}
