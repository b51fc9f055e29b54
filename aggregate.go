package vaeseq

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anyvec"
)

type sumSeqRes struct {
	In  anyseq.Seq
	Out anyvec.Vector
}

// Sum adds up the output at every timestep of every
// sequence in the batch.
//
// This requires a certain level of uniformity.
// In particular, the outputs at every timestep must be
// the same length (although the batch sizes needn't
// match).
//
// If the input is empty, an empty vector is returned.
func Sum(in anyseq.Seq) anydiff.Res {
	res := &sumSeqRes{In: in, Out: in.Creator().MakeVector(0)}
	for i, batch := range in.Output() {
		vecSize := batch.Packed.Len() / batch.NumPresent()
		if i == 0 {
			res.Out = in.Creator().MakeVector(vecSize)
		} else if res.Out.Len() != vecSize {
			panic("inconsistent output sizes")
		}
		res.Out.Add(anyvec.SumRows(batch.Packed, vecSize))
	}
	return res
}

// Mean is like Sum, but the result is divided by the
// total number of (sequence, timestep) pairs.
func Mean(in anyseq.Seq) anydiff.Res {
	var count int
	for _, batch := range in.Output() {
		count += batch.NumPresent()
	}
	sum := Sum(in)
	c := sum.Output().Creator()
	return anydiff.Scale(sum, c.MakeNumeric(1/float64(count)))
}

func (s *sumSeqRes) Output() anyvec.Vector {
	return s.Out
}

func (s *sumSeqRes) Vars() anydiff.VarSet {
	return s.In.Vars()
}

func (s *sumSeqRes) Propagate(u anyvec.Vector, g anydiff.Grad) {
	outs := s.In.Output()
	upstream := make([]*anyseq.Batch, len(outs))
	for i, batch := range outs {
		up := &anyseq.Batch{
			Present: batch.Present,
			Packed:  u.Creator().MakeVector(u.Len() * batch.NumPresent()),
		}
		anyvec.AddRepeated(up.Packed, u)
		upstream[i] = up
	}
	s.In.Propagate(upstream, g)
}
