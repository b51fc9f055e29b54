// Package vaeseq implements sequential variational
// auto-encoders: generative models that explain an
// observation sequence with one latent variable per
// timestep, threaded through deterministic recurrent
// cores.
package vaeseq

import (
	"errors"

	"github.com/unixpickle/anynet/anyrnn"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
)

// Make builds a sequential VAE of the family selected by
// h.VAEType.
//
// Currently only VAETypeISeq is implemented; the other
// variants yield an error.
func Make(c anyvec.Creator, h *HParams, agent Agent, enc ObsEncoder,
	dec ObsDecoder) (*IndependentSequence, error) {
	if err := h.Validate(); err != nil {
		return nil, essentials.AddCtx("make vaeseq", err)
	}
	switch h.VAEType {
	case VAETypeISeq:
		return NewIndependentSequence(c, h, agent, enc, dec), nil
	default:
		return nil, errors.New("make vaeseq: variant not implemented: " +
			string(h.VAEType))
	}
}

// makeRNN stacks one LSTM per entry of hidden, the first
// reading inSize inputs.
func makeRNN(c anyvec.Creator, hidden []int, inSize int) anyrnn.Block {
	if len(hidden) == 1 {
		return anyrnn.NewLSTM(c, inSize, hidden[0])
	}
	var stack anyrnn.Stack
	in := inSize
	for _, out := range hidden {
		stack = append(stack, anyrnn.NewLSTM(c, in, out))
		in = out
	}
	return stack
}
