// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pulse resolves a tagged pulse specification (kind, polarization)
// into a plain waveform closure once, at injection time, following the
// allocator-registry pattern the teacher uses for constitutive models
// (msolid/ccm.go: allocators["ccm"] = func() Model {...}).
package pulse

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Kind names the temporal/spatial envelope of a pulse.
type Kind string

const (
	Gaussian      Kind = "gaussian"
	PlaneWave     Kind = "plane_wave"
	Cos2PlaneWave Kind = "cos2_plane_wave"
)

// Polarization names the transverse field pattern.
type Polarization string

const (
	P        Polarization = "P"
	S        Polarization = "S"
	Circular Polarization = "circular"
)

// Spec describes one injected pulse (spec §4.2), as read from
// inp.PulseData. RotationAngle, InjectionAxis and InjectionPoint are
// carried but not read by Resolve or field.AddPulse: the pattern is not
// rotated, and it is always injected on the local x=0 plane.
type Spec struct {
	Kind           Kind
	Polarization   Polarization
	Lambda0        float64 // vacuum wavelength (normalization length)
	Amplitude      float64 // normalized peak amplitude a0
	Waist          float64 // transverse waist (gaussian only)
	FWHM           float64 // temporal FWHM, in units of lambda0/c
	FocusPosition  float64 // x at which the waist/phase front is focused
	RotationAngle  float64 // incidence angle, radians (not applied)
	InjectionAxis  int     // 0=x, 1=y, 2=z (not read)
	InjectionPoint float64 // coordinate on InjectionAxis (not read)
}

// Wave is the resolved closure producing the transverse E/B pair at a
// given time and transverse coordinates, in the pulse's own frame (spec
// §4.2: "AddPulse resolves Kind/Polarization once, not per call").
type Wave func(t, y, z float64) (e1, e2, b1, b2 float64)

// envelopeFunc returns the temporal/longitudinal envelope amplitude for
// the requested kind, ported from the original's laserPulse::env.
type envelopeFunc func(phase, fwhm float64) float64

var envelopes = map[Kind]envelopeFunc{
	Gaussian: func(phase, fwhm float64) float64 {
		sigma := fwhm / (2 * math.Sqrt(2*math.Ln2))
		return math.Exp(-0.5 * phase * phase / (sigma * sigma))
	},
	PlaneWave: func(phase, fwhm float64) float64 {
		if math.Abs(phase) > fwhm/2 {
			return 0
		}
		return 1
	},
	Cos2PlaneWave: func(phase, fwhm float64) float64 {
		if math.Abs(phase) > fwhm {
			return 0
		}
		return math.Pow(math.Cos(math.Pi*phase/(2*fwhm)), 2)
	},
}

// transverseFunc returns the (e1,e2) unit split for the requested
// polarization at carrier phase ψ; amplitudes are later scaled by the
// envelope and a0.
type transverseFunc func(psi float64) (u1, u2 float64)

var polarizations = map[Polarization]transverseFunc{
	P:        func(psi float64) (float64, float64) { return math.Cos(psi), 0 },
	S:        func(psi float64) (float64, float64) { return 0, math.Cos(psi) },
	Circular: func(psi float64) (float64, float64) { return math.Cos(psi) / math.Sqrt2, math.Sin(psi) / math.Sqrt2 },
}

// Resolve builds the Wave closure for spec, panicking on an unknown
// kind/polarization tag (a configuration error, spec §7).
func Resolve(sp Spec) Wave {
	env, ok := envelopes[sp.Kind]
	if !ok {
		chk.Panic("pulse: unknown kind %q", sp.Kind)
	}
	trans, ok := polarizations[sp.Polarization]
	if !ok {
		chk.Panic("pulse: unknown polarization %q", sp.Polarization)
	}
	k0 := 2 * math.Pi / sp.Lambda0
	waist := sp.Waist
	return func(t, y, z float64) (e1, e2, b1, b2 float64) {
		phase := t - sp.FocusPosition
		a := env(phase, sp.FWHM)
		if sp.Kind == Gaussian && waist > 0 {
			r2 := y*y + z*z
			a *= math.Exp(-r2 / (waist * waist))
		}
		psi := k0 * phase
		u1, u2 := trans(psi)
		e1 = sp.Amplitude * a * u1
		e2 = sp.Amplitude * a * u2
		// in vacuum, |B|=|E| and B is E rotated 90° about the propagation
		// axis (spec §4.2 plane-wave relation), matching the original's
		// field-to-field coupling at injection.
		b1 = -e2
		b2 = e1
		return
	}
}
