package vaeseq

import (
	"errors"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anynet/anysgd"
	"github.com/unixpickle/anyvec"
)

// A Sample is one training sequence.
type Sample struct {
	Observed []anyvec.Vector
}

// A SampleList is a list of training sequences for use
// with anysgd.
type SampleList []*Sample

// Len returns the number of samples.
func (s SampleList) Len() int {
	return len(s)
}

// Swap swaps two samples.
func (s SampleList) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Slice copies a sub-range of the list.
func (s SampleList) Slice(i, j int) anysgd.SampleList {
	return append(SampleList{}, s[i:j]...)
}

// A Batch is a fetched batch of training sequences with
// their agent contexts.
type Batch struct {
	Contexts anyseq.Seq
	Observed anyseq.Seq
}

// A Trainer computes the negative evidence lower bound
// and its gradients for batches of sequences.
type Trainer struct {
	Model *IndependentSequence
	Agent Agent

	// Params are the parameters to compute gradients for.
	Params []*anydiff.Var

	// Average, if true, normalizes the cost by the total
	// number of timesteps in the batch.
	Average bool

	// LastCost is the cost from the previous call to
	// Gradient.
	LastCost anyvec.Numeric
}

// Fetch produces a *Batch for the samples.
// All sequences in a batch must share one length.
func (t *Trainer) Fetch(s anysgd.SampleList) (anysgd.Batch, error) {
	if s.Len() == 0 {
		return nil, errors.New("fetch batch: empty sample list")
	}
	samples := s.(SampleList)
	seqLen := len(samples[0].Observed)
	if seqLen == 0 {
		return nil, errors.New("fetch batch: empty sequence")
	}
	c := samples[0].Observed[0].Creator()
	seqs := make([][]anyvec.Vector, len(samples))
	for i, sample := range samples {
		if len(sample.Observed) != seqLen {
			return nil, errors.New("fetch batch: sequence length mismatch")
		}
		seqs[i] = sample.Observed
	}
	observed := anyseq.ConstSeqList(c, seqs)
	return &Batch{
		Contexts: Contexts(t.Agent, observed),
		Observed: observed,
	}, nil
}

// TotalCost computes the negative ELBO for a batch.
func (t *Trainer) TotalCost(b *Batch) anydiff.Res {
	latents, divs := t.Model.InferLatents(b.Contexts, b.Observed)
	logProbs := t.Model.LogProbObserved(b.Contexts, latents, b.Observed)
	costs := anyseq.MapN(func(n int, v ...anydiff.Res) anydiff.Res {
		return anydiff.Sub(v[0], v[1])
	}, divs, logProbs)
	if t.Average {
		return Mean(costs)
	}
	return Sum(costs)
}

// Gradient computes the gradient of the cost for the
// batch and records the cost in t.LastCost.
func (t *Trainer) Gradient(b anysgd.Batch) anydiff.Grad {
	grad := anydiff.NewGrad(t.Params...)
	cost := t.TotalCost(b.(*Batch))
	t.LastCost = anyvec.Sum(cost.Output())

	c := cost.Output().Creator()
	upstream := c.MakeVectorData(c.MakeNumericList([]float64{1}))
	cost.Propagate(upstream, grad)
	return grad
}
