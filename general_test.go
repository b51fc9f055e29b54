package vaeseq

import (
	"math"
	"math/rand"
	"testing"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anyvec"
)

// testSeqsLen generates random sequences of the given
// lengths, one variable per timestep.
func testSeqsLen(c anyvec.Creator, inSize int, lengths ...int) anyseq.Seq {
	var seqs [][]anyvec.Vector
	for _, l := range lengths {
		var seq []anyvec.Vector
		for j := 0; j < l; j++ {
			vec := c.MakeVector(inSize)
			anyvec.Rand(vec, anyvec.Normal, nil)
			seq = append(seq, vec)
		}
		seqs = append(seqs, seq)
	}

	joined := anyseq.ConstSeqList(c, seqs)
	resBatches := make([]*anyseq.ResBatch, len(joined.Output()))
	for i, x := range joined.Output() {
		resBatches[i] = &anyseq.ResBatch{
			Packed:  anydiff.NewVar(x.Packed),
			Present: x.Present,
		}
	}
	return anyseq.ResSeq(c, resBatches)
}

// testRectSeqs generates n random sequences that all have
// the given length.
func testRectSeqs(c anyvec.Creator, inSize, n, length int) anyseq.Seq {
	lengths := make([]int, n)
	for i := range lengths {
		lengths[i] = length
	}
	return testSeqsLen(c, inSize, lengths...)
}

// testOneHotSeqs generates n one-hot sequences over
// numClasses categories, all of the given length.
func testOneHotSeqs(c anyvec.Creator, numClasses, n, length int,
	gen *rand.Rand) anyseq.Seq {
	var seqs [][]anyvec.Vector
	for i := 0; i < n; i++ {
		var seq []anyvec.Vector
		for j := 0; j < length; j++ {
			data := make([]float64, numClasses)
			data[gen.Intn(numClasses)] = 1
			seq = append(seq, c.MakeVectorData(c.MakeNumericList(data)))
		}
		seqs = append(seqs, seq)
	}
	return anyseq.ConstSeqList(c, seqs)
}

// zeroSeqs generates n all-zero sequences of the given
// length.
func zeroSeqs(c anyvec.Creator, inSize, n, length int) anyseq.Seq {
	seqs := make([][]anyvec.Vector, n)
	for i := range seqs {
		for j := 0; j < length; j++ {
			seqs[i] = append(seqs[i], c.MakeVector(inSize))
		}
	}
	return anyseq.ConstSeqList(c, seqs)
}

// testEquivalentRes ensures that two ways of producing a
// result agree on output and gradients.
func testEquivalentRes(t *testing.T, actual, expected func() anydiff.Res) {
	act := actual()
	exp := expected()

	t.Run("Out", func(t *testing.T) {
		diff := act.Output().Copy()
		diff.Sub(exp.Output())
		if anyvec.AbsMax(diff).(float64) > 1e-4 {
			t.Errorf("output mismatch: expected %v got %v",
				exp.Output().Data(), act.Output().Data())
		}
	})
	t.Run("Grad", func(t *testing.T) {
		actGrad := resGradient(actual())
		expGrad := resGradient(expected())
		for variable, vec := range actGrad {
			expVec := expGrad[variable]
			if expVec == nil {
				t.Error("excess variable")
				continue
			}
			diff := expVec.Copy()
			diff.Sub(vec)
			if anyvec.AbsMax(diff).(float64) > 1e-4 {
				t.Errorf("gradient mismatch: expected %v got %v",
					expVec.Data(), vec.Data())
				return
			}
		}
	})
}

func resGradient(res anydiff.Res) anydiff.Grad {
	grad := anydiff.NewGrad(res.Vars().Slice()...)
	c := res.Output().Creator()
	gen := rand.New(rand.NewSource(1337))
	data := make([]float64, res.Output().Len())
	for i := range data {
		data[i] = gen.NormFloat64()
	}
	res.Propagate(c.MakeVectorData(c.MakeNumericList(data)), grad)
	return grad
}

func anyvecAbsMax(vec anyvec.Vector) float64 {
	return anyvec.AbsMax(vec).(float64)
}

func assertFinite(t *testing.T, name string, vec anyvec.Vector) {
	for i, x := range vec.Data().([]float64) {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Errorf("%s: component %d is %v", name, i, x)
			return
		}
	}
}
