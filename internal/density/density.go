// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package density implements the DensityProfile capability used to seed
// particle creation (spec §9 design notes), ported from the original's
// PLASMA density-function pointer and box-selection logic.
package density

import "math"

// Profile returns the normalized density (0..1, scaled by the species'
// peak density elsewhere) at a physical position.
type Profile interface {
	Density(x, y, z float64) float64
}

// Box is a uniform-density rectangular region (original: plasma->density
// == 1 inside [xmin,xmax]×[ymin,ymax]×[zmin,zmax]).
type Box struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
	Zmin, Zmax float64
}

func (b Box) Density(x, y, z float64) float64 {
	if x < b.Xmin || x > b.Xmax || y < b.Ymin || y > b.Ymax || z < b.Zmin || z > b.Zmax {
		return 0
	}
	return 1
}

// Linear ramps density linearly from 0 to 1 over [RampMin,RampMax] along
// Axis (0=x,1=y,2=z), holding at 1 beyond RampMax and 0 before RampMin,
// then applies an outer Box mask (original: density ramps used at the
// front of a plasma slab).
type Linear struct {
	Axis             int
	RampMin, RampMax float64
	Box              Box
}

func (l Linear) Density(x, y, z float64) float64 {
	base := l.Box.Density(x, y, z)
	if base == 0 {
		return 0
	}
	v := axisVal(l.Axis, x, y, z)
	if v <= l.RampMin {
		return 0
	}
	if v >= l.RampMax {
		return base
	}
	return base * (v - l.RampMin) / (l.RampMax - l.RampMin)
}

// Exponential decays as exp(-(v-Origin)/ScaleLength) beyond Origin along
// Axis, masked by an outer Box (original: exponential preplasma/scale
// length density profile).
type Exponential struct {
	Axis        int
	Origin      float64
	ScaleLength float64
	Box         Box
}

func (e Exponential) Density(x, y, z float64) float64 {
	base := e.Box.Density(x, y, z)
	if base == 0 {
		return 0
	}
	v := axisVal(e.Axis, x, y, z)
	if v <= e.Origin {
		return base
	}
	if e.ScaleLength <= 0 {
		return 0
	}
	return base * math.Exp(-(v-e.Origin)/e.ScaleLength)
}

func axisVal(axis int, x, y, z float64) float64 {
	switch axis {
	case 1:
		return y
	case 2:
		return z
	}
	return x
}
