package vaeseq

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet/anyrnn"
	"github.com/unixpickle/anyvec"

	"github.com/unixpickle/vaeseq/dists"
)

// LatentPrior is the DistCore for the latent prior
// p(z_t): a standard normal distribution, independent of
// the timestep and of any conditioning context.
//
// The prior deliberately carries no information; all
// sequential structure must be learned by the posterior
// and the decoder.
type LatentPrior struct {
	Creator    anyvec.Creator
	LatentSize int
}

// Start returns a zero-size state: the prior has no
// recurrence.
func (l *LatentPrior) Start(n int) anyrnn.State {
	return &emptyState{Pres: fullPresence(n)}
}

// EventSize returns the latent dimension.
func (l *LatentPrior) EventSize() int {
	return l.LatentSize
}

// Dist returns a fresh standard normal for n rows.
//
// The params argument is ignored: the prior is constant.
// The mean is exactly zero and the scale exactly one on
// every call; nothing is cached between calls.
func (l *LatentPrior) Dist(params anydiff.Res, n int) dists.Dist {
	return dists.StandardNormal(l.Creator, n, l.LatentSize)
}

// Step passes the state through unchanged.
// The prior needs no computation; the batch size is
// implied by the state, so the returned parameter vector
// is empty.
func (l *LatentPrior) Step(state anyrnn.State, in anyvec.Vector) (anyvec.Vector,
	anyrnn.State) {
	return l.Creator.MakeVector(0), state
}

// NextState returns the state unchanged.
func (l *LatentPrior) NextState(state anyrnn.State,
	event anyvec.Vector) anyrnn.State {
	return state
}
