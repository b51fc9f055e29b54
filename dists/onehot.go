package dists

import (
	"math"
	"math/rand"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

// OneHot is a batch of categorical distributions over
// one-hot event vectors, one distribution per row.
type OneHot struct {
	// Logits contains Rows*Dim packed unnormalized log
	// probabilities.
	Logits anydiff.Res

	Rows int
	Dim  int
}

// Creator returns the creator of the logits.
func (o *OneHot) Creator() anyvec.Creator {
	return o.Logits.Output().Creator()
}

// Sample draws one one-hot vector per row.
func (o *OneHot) Sample(gen *rand.Rand) anyvec.Vector {
	logits := vecToFloats(o.Logits.Output())
	data := make([]float64, len(logits))
	for row := 0; row < o.Rows; row++ {
		probs := softmax(logits[row*o.Dim : (row+1)*o.Dim])
		x := randFloat(gen)
		choice := o.Dim - 1
		var acc float64
		for i, prob := range probs {
			acc += prob
			if x < acc {
				choice = i
				break
			}
		}
		data[row*o.Dim+choice] = 1
	}
	c := o.Creator()
	return c.MakeVectorData(c.MakeNumericList(data))
}

// LogProb returns one log-probability per row.
// The events must be exact one-hot indicator vectors.
func (o *OneHot) LogProb(events anydiff.Res) anydiff.Res {
	logProbs := anydiff.LogSoftmax(o.Logits, o.Dim)
	return sumRows(anydiff.Mul(logProbs, events), o.Rows, o.Dim)
}

func softmax(logits []float64) []float64 {
	max := math.Inf(-1)
	for _, x := range logits {
		if x > max {
			max = x
		}
	}
	res := make([]float64, len(logits))
	var sum float64
	for i, x := range logits {
		res[i] = math.Exp(x - max)
		sum += res[i]
	}
	for i := range res {
		res[i] /= sum
	}
	return res
}

func randFloat(gen *rand.Rand) float64 {
	if gen == nil {
		return rand.Float64()
	}
	return gen.Float64()
}
