// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errs implements the error-kind taxonomy and collective-panic
// protocol used throughout picfem (spec §7), ported from the teacher's
// fem/errorhandler.go.
package errs

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/picfem/internal/dom"
)

// Kind enumerates the error categories from spec §7.
type Kind int

const (
	ConfigError Kind = iota
	AllocationFailure
	CollectiveFailure
	IOFailure
	ParticleEscape
)

func (k Kind) String() string {
	switch k {
	case ConfigError:
		return "ConfigError"
	case AllocationFailure:
		return "AllocationFailure"
	case CollectiveFailure:
		return "CollectiveFailure"
	case IOFailure:
		return "IOFailure"
	case ParticleEscape:
		return "ParticleEscape"
	}
	return "UnknownError"
}

// Error wraps a Kind with a message, satisfying the error interface.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Msg }

// New builds an *Error of the given kind.
func New(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: chk.Err(format, args...).Error()}
}

// PanicOrNot panics with msg (formatted per prm) when dopanic is true.
// Configuration and allocation errors (spec §7) are fatal immediately at
// setup, on whichever rank detects them; no collective agreement is
// needed because every rank reads the same configuration.
func PanicOrNot(dopanic bool, msg string, prm ...interface{}) {
	if dopanic {
		chk.Panic(msg, prm...)
	}
}

// Stop implements the collective-failure protocol for errors raised at a
// step boundary (CollectiveFailure, IOFailure): every rank reports
// whether it failed, all ranks learn the worst outcome via an all-reduce
// max, and every rank returns the same verdict so the job halts
// consistently rather than deadlocking with some ranks still looping.
func Stop(topo *dom.Topology, err error, msg string) bool {
	local := 0
	if err != nil {
		chk.Verbose = true
		chk.CallerInfo(3)
		local = 1
	}
	worst := topo.AllReduceMaxInt(local)
	return worst > 0
}
