package vaeseq

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anynet/anyrnn"
	"github.com/unixpickle/anyvec"

	"github.com/unixpickle/vaeseq/dists"
)

// ObsDist is the DistCore for the generative observation
// model p(x_t | c_t, z_t, d_t).
// It wraps the generative recurrent cell and an
// observation decoder.
//
// The context drives the cell; the latent only enters at
// the decoder head.
// The latent at time t therefore influences x_t but not
// d_{t+1}, except indirectly through whatever the caller
// feeds back as context.
type ObsDist struct {
	Block       anyrnn.Block
	Decoder     ObsDecoder
	ContextSize int
	LatentSize  int
}

// Start returns the wrapped cell's start state.
func (o *ObsDist) Start(n int) anyrnn.State {
	return o.Block.Start(n)
}

// EventSize returns the observation dimension.
func (o *ObsDist) EventSize() int {
	return o.Decoder.EventSize()
}

// Dist delegates to the observation decoder.
func (o *ObsDist) Dist(params anydiff.Res, n int) dists.Dist {
	return o.Decoder.Dist(params, n)
}

// Step advances the cell by one timestep.
// The in vector packs one (context, latent) row per
// present sequence.
func (o *ObsDist) Step(state anyrnn.State, in anyvec.Vector) (anyvec.Vector,
	anyrnn.State) {
	n := state.Present().NumPresent()
	if in.Len() != n*(o.ContextSize+o.LatentSize) {
		panic("input size mismatch")
	}
	inRes := anydiff.NewConst(in)
	context := SliceRows(inRes, n, 0, o.ContextSize)
	latent := SliceRows(inRes, n, o.ContextSize, o.ContextSize+o.LatentSize)

	res := o.Block.Step(state, context.Output())
	params := o.Decoder.Decode(anydiff.NewConst(res.Output()), latent, n)
	return params.Output(), res.State()
}

// NextState returns the cell state unchanged: the state
// transition already happened inside Step, and the event
// does not feed back into it.
// The helper exists so that ancestral generation loops
// can advance every core uniformly after sampling.
func (o *ObsDist) NextState(state anyrnn.State,
	event anyvec.Vector) anyrnn.State {
	return state
}

// Params runs the teacher-forced rollout, producing
// distribution parameters at every timestep.
// Gradients flow into the contexts, the latents, the
// cell, and the decoder.
func (o *ObsDist) Params(contexts, latents anyseq.Seq) anyseq.Seq {
	mustMatchLayout("contexts", contexts, "latents", latents)
	dOuts := anyrnn.Map(contexts, o.Block)
	return anyseq.MapN(func(n int, v ...anydiff.Res) anydiff.Res {
		return o.Decoder.Decode(v[0], v[1], n)
	}, dOuts, latents)
}

// LogProbs scores an observed sequence under the
// teacher-forced rollout, producing one log-probability
// per sequence per timestep.
func (o *ObsDist) LogProbs(contexts, latents, observed anyseq.Seq) anyseq.Seq {
	mustMatchLayout("contexts", contexts, "observed", observed)
	params := o.Params(contexts, latents)
	return anyseq.MapN(func(n int, v ...anydiff.Res) anydiff.Res {
		return o.Dist(v[0], n).LogProb(v[1])
	}, params, observed)
}
