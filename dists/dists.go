// Package dists provides the batched probability
// distribution objects used by the vaeseq recurrent
// cores: diagonal Gaussians over latent variables and
// categorical distributions over one-hot observations.
package dists

import (
	"math/rand"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

// A Dist is a batched probability distribution with one
// independent distribution per row.
type Dist interface {
	// Creator returns the anyvec.Creator associated with
	// the distribution's parameters.
	Creator() anyvec.Creator

	// Sample draws one event per row.
	//
	// Gradients do not flow through the result.
	// The gen argument may be nil, in which case the
	// global math/rand source is used.
	Sample(gen *rand.Rand) anyvec.Vector

	// LogProb returns the log-density (or log-mass) of
	// the packed events, one scalar per row.
	LogProb(events anydiff.Res) anydiff.Res
}

// A ReparamDist is a Dist that supports differentiable
// (reparameterized) sampling.
type ReparamDist interface {
	Dist

	// SampleReparam draws one event per row such that
	// gradients flow back into the parameters.
	SampleReparam(gen *rand.Rand) anydiff.Res
}

// KL computes the per-row divergence KL(q||p).
//
// If monteCarlo is false and an analytic form is known
// for the pair of distributions, the analytic divergence
// is returned.
// Otherwise a single-sample Monte-Carlo estimate is
// used, based on sample, an event drawn from q.
func KL(q, p Dist, sample anydiff.Res, monteCarlo bool) anydiff.Res {
	if !monteCarlo {
		if qg, ok := q.(*DiagGaussian); ok {
			if pg, ok := p.(*DiagGaussian); ok {
				return klDiagGaussians(qg, pg)
			}
		}
	}
	return anydiff.Sub(q.LogProb(sample), p.LogProb(sample))
}

// sumRows sums each row of a rows-by-cols packed matrix,
// producing one scalar per row.
func sumRows(in anydiff.Res, rows, cols int) anydiff.Res {
	return anydiff.SumCols(&anydiff.Matrix{Data: in, Rows: rows, Cols: cols})
}

func vecToFloats(v anyvec.Vector) []float64 {
	switch data := v.Data().(type) {
	case []float64:
		return data
	case []float32:
		res := make([]float64, len(data))
		for i, x := range data {
			res[i] = float64(x)
		}
		return res
	default:
		panic("unsupported numeric list type")
	}
}
