// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math/rand"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/cpmech/picfem/inp"
	"github.com/cpmech/picfem/internal/current"
	"github.com/cpmech/picfem/internal/dom"
	"github.com/cpmech/picfem/internal/field"
	"github.com/cpmech/picfem/internal/pic"
)

// stdRNG adapts math/rand to distrib.UniformSampler (used by
// AddMomenta), the production substitute for the
// deterministic stub tests inject (spec §1: RNG is an external
// collaborator).
type stdRNG struct{ r *rand.Rand }

func (s stdRNG) Float64() float64 { return s.r.Float64() }

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				chk.Verbose = true
				for i := 8; i > 3; i-- {
					chk.CallerInfo(i)
				}
				io.PfRed("ERROR: %v\n", err)
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	fnamepath, _ := io.ArgToFilename(0, "", ".sim", true)
	allowParallel := io.ArgToBool(1, true)
	verbose := io.ArgToBool(2, true)

	if mpi.Rank() == 0 && verbose {
		io.PfWhite("\npicfem -- relativistic electromagnetic particle-in-cell solver\n\n")
		io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n\n")

		io.Pf("\n%v\n", io.ArgsTable(
			"filename path", "fnamepath", fnamepath,
			"allow parallel run", "allowParallel", allowParallel,
			"show messages", "verbose", verbose,
		))
	}

	sim := inp.ReadSim(fnamepath)

	nprocs := [3]int{1, sim.Grid.Axes[1].NProcs, sim.Grid.Axes[2].NProcs}
	wrap := [3]bool{sim.Grid.Axes[0].Pbc, sim.Grid.Axes[1].Pbc, sim.Grid.Axes[2].Pbc}
	topo := dom.New(nprocs, wrap, allowParallel)

	g := sim.Grid.Build(topo)
	g.Finalize()

	f := field.New(g)
	for _, pd := range sim.Pulses {
		f.AddPulse(pd.Build())
	}

	cur := current.New(g)

	rng := stdRNG{r: rand.New(rand.NewSource(int64(topo.Rank()) + 1))}

	run := &pic.Simulation{Grid: g, Field: f, Current: cur, DumpPath: sim.Solver.DumpPath, DumpInterval: sim.Solver.DumpInterval}
	for _, sd := range sim.Species {
		c := sd.Build()
		prof := sd.Density.Build()
		c.CreateFromDensity(g, prof, sd.ParticlesPerCell, sd.Density.PeakDensity, 0)
		c.OffsetIDs(globalIDOffset(topo, c.Len()))
		c.AddMomenta(sd.DistribParams(), rng)
		run.Species = append(run.Species, c)
	}

	if err := run.Run(sim.Solver.UseEsirkepov); err != nil {
		chk.Panic("picfem: run failed: %v", err)
	}

	if mpi.Rank() == 0 && verbose {
		io.Pfgreen("\npicfem: finished at step %d, t=%g\n", g.Istep(), g.Time())
	}
}

// globalIDOffset assigns each rank a disjoint block of marker ids by
// summing the local particle counts of every lower-ranked process (spec
// §4.4.1). localCount is the number of particles this rank has just
// created for one species; ranks call this once per species in the same
// order, so the prefix sums stay consistent across the run.
func globalIDOffset(topo *dom.Topology, localCount int) int64 {
	counts := topo.AllGatherInt(localCount)
	var off int64
	for r := 0; r < topo.Rank(); r++ {
		off += int64(counts[r])
	}
	return off
}
