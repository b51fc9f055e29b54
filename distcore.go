package vaeseq

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet/anyrnn"
	"github.com/unixpickle/anyvec"

	"github.com/unixpickle/vaeseq/dists"
)

// A DistCore is a steppable recurrent unit whose output
// at every timestep parameterizes a probability
// distribution.
//
// A DistCore can drive both teacher-forced rollouts
// (scoring observed events) and ancestral rollouts
// (sampling events step by step).
// In both cases Step returns distribution parameters,
// never samples; the caller decides whether to sample
// from the resulting distribution or score an event
// against it.
type DistCore interface {
	// Start returns the core's start state for a batch
	// of n sequences.
	Start(n int) anyrnn.State

	// EventSize returns the dimension of a single event
	// vector.
	EventSize() int

	// Dist builds a distribution from parameters for a
	// batch of n rows.
	// The parameters may come from a single Step or,
	// one timestep at a time, from an entire unrolled
	// sequence.
	Dist(params anydiff.Res, n int) dists.Dist

	// Step advances the core by one timestep.
	// The in vector packs one input row per present
	// sequence.
	//
	// Step is a pure function of its arguments and the
	// core's weights.
	// Gradients do not flow through Step; training-time
	// rollouts run at the sequence level on the concrete
	// core types.
	Step(state anyrnn.State, in anyvec.Vector) (params anyvec.Vector,
		next anyrnn.State)

	// NextState returns the state that follows state
	// after the given event was sampled or observed.
	// Cores whose state transition ignores the event
	// return the state unchanged.
	NextState(state anyrnn.State, event anyvec.Vector) anyrnn.State
}

// emptyState is an anyrnn.State for cores that carry no
// recurrent state.
type emptyState struct {
	Pres anyrnn.PresentMap
}

func (e *emptyState) Present() anyrnn.PresentMap {
	return e.Pres
}

func (e *emptyState) Reduce(p anyrnn.PresentMap) anyrnn.State {
	return &emptyState{Pres: p}
}

func fullPresence(n int) anyrnn.PresentMap {
	pres := make(anyrnn.PresentMap, n)
	for i := range pres {
		pres[i] = true
	}
	return pres
}
