// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON file
package inp

import (
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/picfem/internal/density"
	"github.com/cpmech/picfem/internal/distrib"
	"github.com/cpmech/picfem/internal/dom"
	"github.com/cpmech/picfem/internal/grid"
	"github.com/cpmech/picfem/internal/pulse"
	"github.com/cpmech/picfem/internal/species"
)

// Data holds global run data.
type Data struct {
	Desc    string `json:"desc"`    // description of the run
	DirOut  string `json:"dirout"`  // directory for dumps/output
	Encoder string `json:"encoder"` // checkpoint encoder; "gob" is the only one implemented

	// derived
	FnameKey string // run filename key; e.g. laser01.sim => laser01
}

// SetDefault sets default values.
func (o *Data) SetDefault() {
	o.DirOut = "/tmp/picfem"
	o.Encoder = "gob"
}

// PostProcess derives FnameKey and ensures DirOut exists.
func (o *Data) PostProcess(simfilepath string) {
	if o.DirOut == "" {
		o.DirOut = "/tmp/picfem"
	}
	if o.Encoder == "" {
		o.Encoder = "gob"
	}
	o.FnameKey = utl.FnKey(simfilepath)
	os.MkdirAll(o.DirOut, 0777)
}

// AxisData describes one axis of the grid block (spec §4.1).
type AxisData struct {
	Lo      float64 `json:"lo"`     // global box extent, lower bound
	Hi      float64 `json:"hi"`     // global box extent, upper bound
	N       int     `json:"n"`      // global cell count
	NProcs  int     `json:"nprocs"` // rank count decomposed along this axis
	Pbc     bool    `json:"pbc"`    // periodic boundary
	Open    bool    `json:"open"`   // open (Mur) boundary; mutually exclusive with Pbc
	StretchLeftN  int     `json:"stretchleftn"`
	StretchRightN int     `json:"stretchrightn"`
	StretchLeftX  float64 `json:"stretchleftx"`
	StretchRightX float64 `json:"stretchrightx"`
}

// GridData describes the structured mesh (spec §3/§4.1).
type GridData struct {
	Dim     int        `json:"dim"`
	Axes    [3]AxisData `json:"axes"`
	Courant float64     `json:"courant"`
	SimTime float64     `json:"simtime"`

	MovingWindow bool    `json:"movingwindow"`
	MwBeta       float64 `json:"mwbeta"`
	MwFreq       int     `json:"mwfreq"`
}

// SetDefault sets default values.
func (o *GridData) SetDefault() {
	o.Dim = 1
	o.Courant = 0.9
	for i := range o.Axes {
		o.Axes[i].N = 1
		o.Axes[i].NProcs = 1
		o.Axes[i].Hi = 1
	}
	o.MwFreq = 1
}

// Build constructs a *grid.Grid from this configuration, deferring the
// rank topology to the caller (spec §4.6: Grid is decoupled from the
// concrete topology so it stays testable in single-rank mode).
func (o *GridData) Build(topo *dom.Topology) *grid.Grid {
	g := grid.New(o.Dim, topo)
	var mask [3]grid.BoundaryKind
	for axis := 0; axis < 3; axis++ {
		a := o.Axes[axis]
		g.SetRange(axis, a.Lo, a.Hi)
		g.SetNProcs(axis, a.NProcs)
		switch {
		case a.Pbc:
			mask[axis] = grid.PBC
		case a.Open:
			mask[axis] = grid.Open
		}
		if a.StretchLeftN > 0 {
			g.EnableStretchLeft(axis, a.StretchLeftX, a.StretchLeftN)
		}
		if a.StretchRightN > 0 {
			g.EnableStretchRight(axis, a.StretchRightX, a.StretchRightN)
		}
	}
	g.SetNCells(o.Axes[0].N, o.Axes[1].N, o.Axes[2].N)
	g.SetBoundaries(mask)
	g.SetCourant(o.Courant)
	g.SetSimulationTime(o.SimTime)
	if o.MovingWindow {
		g.EnableMovingWindow(o.MwBeta, o.MwFreq)
	}
	return g
}

// PulseData is the JSON-facing mirror of pulse.Spec.
type PulseData struct {
	Kind           string  `json:"kind"`
	Polarization   string  `json:"polarization"`
	Lambda0        float64 `json:"lambda0"`
	Amplitude      float64 `json:"amplitude"`
	Waist          float64 `json:"waist"`
	FWHM           float64 `json:"fwhm"`
	FocusPosition  float64 `json:"focusposition"`
	RotationAngle  float64 `json:"rotationangle"`
}

// Build resolves this entry into a pulse.Spec.
func (o *PulseData) Build() pulse.Spec {
	return pulse.Spec{
		Kind: pulse.Kind(o.Kind), Polarization: pulse.Polarization(o.Polarization),
		Lambda0: o.Lambda0, Amplitude: o.Amplitude, Waist: o.Waist, FWHM: o.FWHM,
		FocusPosition: o.FocusPosition, RotationAngle: o.RotationAngle,
	}
}

// DensitySpec is the JSON-facing density-profile descriptor (spec §9).
type DensitySpec struct {
	Profile string  `json:"profile"` // "box", "linear", "exponential"
	Axis    int     `json:"axis"`
	Box     [6]float64 `json:"box"` // xmin,xmax,ymin,ymax,zmin,zmax
	RampMin float64 `json:"rampmin"`
	RampMax float64 `json:"rampmax"`
	Origin  float64 `json:"origin"`
	ScaleLength float64 `json:"scalelength"`
	PeakDensity float64 `json:"peakdensity"`
}

func (o *DensitySpec) box() density.Box {
	return density.Box{Xmin: o.Box[0], Xmax: o.Box[1], Ymin: o.Box[2], Ymax: o.Box[3], Zmin: o.Box[4], Zmax: o.Box[5]}
}

// Build resolves this entry into a density.Profile.
func (o *DensitySpec) Build() density.Profile {
	switch o.Profile {
	case "box", "":
		return o.box()
	case "linear":
		return density.Linear{Axis: o.Axis, RampMin: o.RampMin, RampMax: o.RampMax, Box: o.box()}
	case "exponential":
		return density.Exponential{Axis: o.Axis, Origin: o.Origin, ScaleLength: o.ScaleLength, Box: o.box()}
	}
	chk.Panic("inp: unknown density profile %q", o.Profile)
	return nil
}

// SpeciesData is the JSON-facing species descriptor (spec §4.4).
type SpeciesData struct {
	Name              string      `json:"name"`
	Kind              string      `json:"kind"` // "electron", "positron", "ion"
	IonZ              float64     `json:"ionz"`
	IonA              float64     `json:"iona"`
	ParticlesPerCell  int         `json:"particlespercell"`
	Density           DensitySpec `json:"density"`
	DistribKind       string      `json:"distribkind"`
	Temperature       [3]float64  `json:"temperature"`
	Drift             [3]float64  `json:"drift"`
	Alpha             float64     `json:"alpha"`
	ThermalMomentum   float64     `json:"thermalmomentum"`
	IsTest            bool        `json:"istest"`
	RadiationReaction bool        `json:"radiationreaction"`
	Lambda0           float64     `json:"lambda0"` // reference wavelength, metres; radiation-reaction strength (spec §4.4.2)
}

func (o *SpeciesData) kind() species.Type {
	switch o.Kind {
	case "electron", "":
		return species.Electron
	case "positron":
		return species.Positron
	case "ion":
		return species.Ion
	}
	chk.Panic("inp: unknown species kind %q", o.Kind)
	return species.Electron
}

// Build constructs an empty species.Container ready for
// CreateFromDensity/AddMomenta.
func (o *SpeciesData) Build() *species.Container {
	c := species.New(o.Name, o.kind(), o.IonZ, o.IonA)
	c.IsTest = o.IsTest
	c.RadiationReaction = o.RadiationReaction
	c.Lambda0 = o.Lambda0
	return c
}

// DistribParams resolves this entry's momentum-distribution parameters.
func (o *SpeciesData) DistribParams() distrib.Params {
	return distrib.Params{
		Kind: distrib.Kind(o.DistribKind), Temperature: o.Temperature, Temperature3: o.Temperature, Drift: o.Drift,
		Alpha: o.Alpha, ThermalMomentum: o.ThermalMomentum,
	}
}

// SolverData holds PIC solver options (spec §6: "the driver is
// configuration").
type SolverData struct {
	UseEsirkepov bool   `json:"useesirkepov"` // charge-conserving vs. direct deposition
	DumpPath     string `json:"dumppath"`
	DumpInterval int    `json:"dumpinterval"`
}

// SetDefault sets default values.
func (o *SolverData) SetDefault() {
	o.UseEsirkepov = true
	o.DumpInterval = 0
}

// Simulation holds all run data (spec §3 [EXPANDED] configuration data
// model).
type Simulation struct {
	Data    Data          `json:"data"`
	Grid    GridData      `json:"grid"`
	Pulses  []PulseData   `json:"pulses"`
	Species []SpeciesData `json:"species"`
	Solver  SolverData    `json:"solver"`

	// Functions carries named time-dependent scalar functions (e.g. a
	// time-varying moving-window speed), resolved on demand the way
	// inp.FuncsData resolves boundary-condition functions in the teacher.
	Functions map[string]fun.Func `json:"-"`
}

// ReadSim reads all run data from a .sim JSON file.
func ReadSim(simfilepath string) (o *Simulation) {
	o = new(Simulation)

	b, err := utl.ReadFile(simfilepath)
	if err != nil {
		chk.Panic("%v", err.Error())
	}

	o.Data.SetDefault()
	o.Grid.SetDefault()
	o.Solver.SetDefault()

	err = json.Unmarshal(b, o)
	if err != nil {
		chk.Panic("%v", err.Error())
	}

	o.Data.PostProcess(simfilepath)
	return
}
