package vaeseq

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anyvec"
)

// An Agent supplies the per-timestep conditioning
// contexts.
// During generation it is queried between steps; for
// teacher forcing, Contexts derives a full context
// sequence from a static observed sequence.
type Agent interface {
	// ContextSize returns the context dimension.
	ContextSize() int

	// StartContext returns the packed contexts for the
	// first timestep of n sequences.
	StartContext(n int) anyvec.Vector

	// NextContext returns the packed contexts that
	// follow a batch of n observations.
	NextContext(prevObs anyvec.Vector, n int) anyvec.Vector
}

// ZeroAgent supplies all-zero contexts, for models that
// condition on nothing.
type ZeroAgent struct {
	Creator anyvec.Creator
	Size    int
}

// ContextSize returns the context dimension.
func (z *ZeroAgent) ContextSize() int {
	return z.Size
}

// StartContext returns zeros.
func (z *ZeroAgent) StartContext(n int) anyvec.Vector {
	return z.Creator.MakeVector(n * z.Size)
}

// NextContext returns zeros.
func (z *ZeroAgent) NextContext(prevObs anyvec.Vector, n int) anyvec.Vector {
	return z.Creator.MakeVector(n * z.Size)
}

// EncodeObsAgent feeds the encoding of the previous
// observation forward as the next context.
type EncodeObsAgent struct {
	Creator anyvec.Creator
	Encoder ObsEncoder
}

// ContextSize returns the encoder's output size.
func (e *EncodeObsAgent) ContextSize() int {
	return e.Encoder.OutSize()
}

// StartContext returns zeros: there is no previous
// observation at the first timestep.
func (e *EncodeObsAgent) StartContext(n int) anyvec.Vector {
	return e.Creator.MakeVector(n * e.ContextSize())
}

// NextContext encodes the previous observations.
func (e *EncodeObsAgent) NextContext(prevObs anyvec.Vector,
	n int) anyvec.Vector {
	return e.Encoder.Encode(anydiff.NewConst(prevObs), n).Output()
}

// Contexts derives the teacher-forcing context sequence
// for a static observed sequence: the context at time t
// is the agent's reaction to the observation at t-1.
//
// The result is constant.
// Contexts are conditioning inputs owned by the caller,
// not part of the learned graph.
func Contexts(agent Agent, observed anyseq.Seq) anyseq.Seq {
	mustBeRectangular("observed", observed)
	outs := observed.Output()
	batches := make([]*anyseq.Batch, len(outs))
	for i, b := range outs {
		n := b.NumPresent()
		var context anyvec.Vector
		if i == 0 {
			context = agent.StartContext(n)
		} else {
			context = agent.NextContext(outs[i-1].Packed, n)
		}
		batches[i] = &anyseq.Batch{Packed: context, Present: b.Present}
	}
	return anyseq.ConstSeq(observed.Creator(), batches)
}
