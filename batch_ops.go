package vaeseq

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anyvec"
)

type concatRowsRes struct {
	Ins    []anydiff.Res
	N      int
	Sizes  []int
	OutVec anyvec.Vector
	V      anydiff.VarSet
}

// ConcatRows concatenates the corresponding rows of
// multiple packed batches, producing a packed batch of
// wider rows.
//
// The n argument is the number of rows.
// Every input's length must be divisible by n.
func ConcatRows(n int, ins ...anydiff.Res) anydiff.Res {
	if len(ins) == 0 {
		panic("need at least one input")
	}
	c := ins[0].Output().Creator()
	sizes := make([]int, len(ins))
	vars := anydiff.VarSet{}
	for i, in := range ins {
		if in.Output().Len()%n != 0 {
			panic("input length not divisible by row count")
		}
		sizes[i] = in.Output().Len() / n
		vars = anydiff.MergeVarSets(vars, in.Vars())
	}
	rows := make([]anyvec.Vector, 0, n*len(ins))
	for row := 0; row < n; row++ {
		for i, in := range ins {
			rows = append(rows, in.Output().Slice(row*sizes[i], (row+1)*sizes[i]))
		}
	}
	return &concatRowsRes{
		Ins:    ins,
		N:      n,
		Sizes:  sizes,
		OutVec: c.Concat(rows...),
		V:      vars,
	}
}

func (c *concatRowsRes) Output() anyvec.Vector {
	return c.OutVec
}

func (c *concatRowsRes) Vars() anydiff.VarSet {
	return c.V
}

func (c *concatRowsRes) Propagate(u anyvec.Vector, g anydiff.Grad) {
	rowSize := c.OutVec.Len() / c.N
	var offset int
	for i, in := range c.Ins {
		if g.Intersects(in.Vars()) {
			parts := make([]anyvec.Vector, 0, c.N)
			for row := 0; row < c.N; row++ {
				start := row*rowSize + offset
				parts = append(parts, u.Slice(start, start+c.Sizes[i]))
			}
			in.Propagate(u.Creator().Concat(parts...), g)
		}
		offset += c.Sizes[i]
	}
}

type sliceRowsRes struct {
	In     anydiff.Res
	N      int
	RowLen int
	Start  int
	End    int
	OutVec anyvec.Vector
}

// SliceRows extracts components [start, end) of each row
// of a packed batch with n rows.
func SliceRows(in anydiff.Res, n, start, end int) anydiff.Res {
	if in.Output().Len()%n != 0 {
		panic("input length not divisible by row count")
	}
	rowLen := in.Output().Len() / n
	if start < 0 || end > rowLen || start >= end {
		panic("row slice out of range")
	}
	c := in.Output().Creator()
	parts := make([]anyvec.Vector, 0, n)
	for row := 0; row < n; row++ {
		parts = append(parts, in.Output().Slice(row*rowLen+start, row*rowLen+end))
	}
	return &sliceRowsRes{
		In:     in,
		N:      n,
		RowLen: rowLen,
		Start:  start,
		End:    end,
		OutVec: c.Concat(parts...),
	}
}

func (s *sliceRowsRes) Output() anyvec.Vector {
	return s.OutVec
}

func (s *sliceRowsRes) Vars() anydiff.VarSet {
	return s.In.Vars()
}

func (s *sliceRowsRes) Propagate(u anyvec.Vector, g anydiff.Grad) {
	c := u.Creator()
	size := s.End - s.Start
	var parts []anyvec.Vector
	for row := 0; row < s.N; row++ {
		if s.Start > 0 {
			parts = append(parts, c.MakeVector(s.Start))
		}
		parts = append(parts, u.Slice(row*size, (row+1)*size))
		if s.End < s.RowLen {
			parts = append(parts, c.MakeVector(s.RowLen-s.End))
		}
	}
	s.In.Propagate(c.Concat(parts...), g)
}

// ConcatSeqs concatenates the feature vectors of multiple
// sequences at every timestep.
func ConcatSeqs(seqs ...anyseq.Seq) anyseq.Seq {
	return anyseq.MapN(func(n int, v ...anydiff.Res) anydiff.Res {
		return ConcatRows(n, v...)
	}, seqs...)
}

// joinRows concatenates corresponding rows of packed
// vectors without gradient tracking.
func joinRows(n int, vecs ...anyvec.Vector) anyvec.Vector {
	reses := make([]anydiff.Res, len(vecs))
	for i, v := range vecs {
		reses[i] = anydiff.NewConst(v)
	}
	return ConcatRows(n, reses...).Output()
}

// mustMatchLayout panics if two sequences disagree on
// sequence length or per-timestep presence.
func mustMatchLayout(name1 string, s1 anyseq.Seq, name2 string, s2 anyseq.Seq) {
	o1, o2 := s1.Output(), s2.Output()
	if len(o1) != len(o2) {
		panic(name1 + " and " + name2 + ": sequence length mismatch")
	}
	for i, b := range o1 {
		if !presentMapsEqual(b.Present, o2[i].Present) {
			panic(name1 + " and " + name2 + ": present map mismatch")
		}
	}
}

// mustBeRectangular panics if the batch changes size over
// time.
func mustBeRectangular(name string, s anyseq.Seq) {
	outs := s.Output()
	for i := 1; i < len(outs); i++ {
		if !presentMapsEqual(outs[i].Present, outs[0].Present) {
			panic(name + ": ragged batch")
		}
	}
}

func presentMapsEqual(p1, p2 []bool) bool {
	if len(p1) != len(p2) {
		return false
	}
	for i, x := range p1 {
		if x != p2[i] {
			return false
		}
	}
	return true
}
