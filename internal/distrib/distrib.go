// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package distrib implements the momentum-initialization distributions
// ported from the original's add_momenta dispatch (callWaterbag,
// callUnifSphere, callSupergaussian, callMaxwell, callJuttner,
// callSpecial), driven by an injected uniform-draw oracle rather than a
// concrete RNG (spec §1: "random number generation is an external
// collaborator").
package distrib

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// UniformSampler draws a float64 uniformly in [0,1). Tests inject a
// deterministic stub; production wires a real PRNG (spec §1).
type UniformSampler interface {
	Float64() float64
}

// Kind names a momentum-distribution variant.
type Kind string

const (
	Waterbag       Kind = "waterbag"
	Waterbag3Temp  Kind = "waterbag_3temp"
	UniformSphere  Kind = "uniform_sphere"
	SuperGaussian  Kind = "super_gaussian"
	Maxwell        Kind = "maxwell"
	Juttner        Kind = "juttner"
	Special        Kind = "special"
)

// Params carries every field any variant might consult; unused fields are
// ignored by a given Kind (mirrors the original's single SPECIE struct
// carrying all temperature/drift knobs regardless of distribution).
type Params struct {
	Kind            Kind
	Temperature     [3]float64 // px,py,pz thermal spread (waterbag/uniform_sphere)
	Temperature3    [3]float64 // alternate per-axis spread (waterbag_3temp)
	Drift           [3]float64 // bulk drift momentum added after sampling
	Alpha           float64    // super_gaussian exponent
	ThermalMomentum float64    // maxwell/juttner characteristic momentum
	SpecialFunc     func(u1, u2, u3 float64) (px, py, pz float64)
}

// Sample draws one momentum triple for p according to p.Kind (ported
// arithmetic from particle_species.cpp's call* family).
func Sample(p Params, rng UniformSampler) (px, py, pz float64) {
	switch p.Kind {
	case Waterbag:
		px, py, pz = waterbag(p.Temperature, rng)
	case Waterbag3Temp:
		px, py, pz = waterbag(p.Temperature3, rng)
	case UniformSphere:
		px, py, pz = uniformSphere(p.Temperature[0], rng)
	case SuperGaussian:
		px, py, pz = superGaussian(p.Temperature, p.Alpha, rng)
	case Maxwell:
		px, py, pz = maxwell(p.ThermalMomentum, rng)
	case Juttner:
		px, py, pz = juttner(p.ThermalMomentum, rng)
	case Special:
		if p.SpecialFunc == nil {
			chk.Panic("distrib: Special kind requires SpecialFunc")
		}
		px, py, pz = p.SpecialFunc(rng.Float64(), rng.Float64(), rng.Float64())
	default:
		chk.Panic("distrib: unknown kind %q", p.Kind)
	}
	px += p.Drift[0]
	py += p.Drift[1]
	pz += p.Drift[2]
	return
}

// waterbag draws uniformly inside the ellipsoid with semi-axes temp[*]
// via rejection sampling (original: callWaterbag rejects samples outside
// the unit sphere after scaling by temperature).
func waterbag(temp [3]float64, rng UniformSampler) (px, py, pz float64) {
	for {
		u, v, w := 2*rng.Float64()-1, 2*rng.Float64()-1, 2*rng.Float64()-1
		if u*u+v*v+w*w <= 1 {
			return u * temp[0], v * temp[1], w * temp[2]
		}
	}
}

// uniformSphere draws a momentum uniformly on the surface of a sphere of
// radius r (original: callUnifSphere via Marsaglia's method).
func uniformSphere(r float64, rng UniformSampler) (px, py, pz float64) {
	for {
		u, v := 2*rng.Float64()-1, 2*rng.Float64()-1
		s := u*u + v*v
		if s < 1 {
			f := 2 * math.Sqrt(1-s)
			return r * u * f, r * v * f, r * (1 - 2*s)
		}
	}
}

// superGaussian draws each axis independently from a super-Gaussian
// envelope exp(-|p/temp|^alpha) via rejection against a Gaussian
// envelope (original: callSupergaussian).
func superGaussian(temp [3]float64, alpha float64, rng UniformSampler) (px, py, pz float64) {
	draw := func(t float64) float64 {
		for {
			x := t * (2*rng.Float64() - 1) * 4
			accept := math.Exp(-math.Pow(math.Abs(x/t), alpha) + 0.5*(x/t)*(x/t))
			if rng.Float64() < accept {
				return x
			}
		}
	}
	return draw(temp[0]), draw(temp[1]), draw(temp[2])
}

// maxwell draws a non-relativistic Maxwellian momentum magnitude and an
// isotropic direction (original: callMaxwell via Box-Muller per axis).
func maxwell(pth float64, rng UniformSampler) (px, py, pz float64) {
	g := func() float64 {
		u1, u2 := rng.Float64(), rng.Float64()
		if u1 <= 0 {
			u1 = 1e-12
		}
		return pth * math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	}
	return g(), g(), g()
}

// juttner draws a relativistic Juttner-synge momentum magnitude via
// rejection sampling against a Maxwellian envelope, then an isotropic
// direction (original: callJuttner).
func juttner(pth float64, rng UniformSampler) (px, py, pz float64) {
	var p float64
	for {
		p = math.Abs(pth * math.Sqrt(-2*math.Log(maxFloat(rng.Float64(), 1e-12))))
		gamma := math.Sqrt(1 + p*p)
		accept := math.Exp(-(gamma - 1 - p*p/(2*pth*pth)) / pth)
		if rng.Float64() < accept {
			break
		}
	}
	costheta := 2*rng.Float64() - 1
	sintheta := math.Sqrt(1 - costheta*costheta)
	phi := 2 * math.Pi * rng.Float64()
	return p * sintheta * math.Cos(phi), p * sintheta * math.Sin(phi), p * costheta
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
