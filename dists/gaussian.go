package dists

import (
	"math"
	"math/rand"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

// DiagGaussian is a batch of diagonal-covariance
// Gaussian distributions, one per row.
type DiagGaussian struct {
	// Loc contains Rows*Dim packed means.
	Loc anydiff.Res

	// LogScale contains the logarithms of the
	// per-component standard deviations, packed like
	// Loc.
	LogScale anydiff.Res

	Rows int
	Dim  int
}

// StandardNormal creates a DiagGaussian with exactly
// zero mean and exactly unit standard deviation on every
// component.
func StandardNormal(c anyvec.Creator, rows, dim int) *DiagGaussian {
	return &DiagGaussian{
		Loc:      anydiff.NewConst(c.MakeVector(rows * dim)),
		LogScale: anydiff.NewConst(c.MakeVector(rows * dim)),
		Rows:     rows,
		Dim:      dim,
	}
}

// Creator returns the creator of the parameters.
func (d *DiagGaussian) Creator() anyvec.Creator {
	return d.Loc.Output().Creator()
}

// Sample draws one vector per row.
func (d *DiagGaussian) Sample(gen *rand.Rand) anyvec.Vector {
	sample := d.noise(gen)
	scale := d.LogScale.Output().Copy()
	anyvec.Exp(scale)
	sample.Mul(scale)
	sample.Add(d.Loc.Output())
	return sample
}

// SampleReparam draws one vector per row.
// Gradients flow into Loc and LogScale.
func (d *DiagGaussian) SampleReparam(gen *rand.Rand) anydiff.Res {
	noise := anydiff.NewConst(d.noise(gen))
	return anydiff.Add(d.Loc, anydiff.Mul(anydiff.Exp(d.LogScale), noise))
}

// LogProb returns one log-density per row.
func (d *DiagGaussian) LogProb(events anydiff.Res) anydiff.Res {
	c := d.Creator()
	invScale := anydiff.Exp(anydiff.Scale(d.LogScale, c.MakeNumeric(-1)))
	normed := anydiff.Mul(anydiff.Sub(events, d.Loc), invScale)
	perComp := anydiff.Add(
		anydiff.Scale(anydiff.Mul(normed, normed), c.MakeNumeric(0.5)),
		d.LogScale,
	)
	sum := sumRows(perComp, d.Rows, d.Dim)
	return anydiff.AddScalar(
		anydiff.Scale(sum, c.MakeNumeric(-1)),
		c.MakeNumeric(-0.5*float64(d.Dim)*math.Log(2*math.Pi)),
	)
}

func (d *DiagGaussian) noise(gen *rand.Rand) anyvec.Vector {
	noise := d.Creator().MakeVector(d.Rows * d.Dim)
	anyvec.Rand(noise, anyvec.Normal, gen)
	return noise
}

func klDiagGaussians(q, p *DiagGaussian) anydiff.Res {
	if q.Rows != p.Rows || q.Dim != p.Dim {
		panic("distribution shape mismatch")
	}
	c := q.Creator()
	varQ := anydiff.Exp(anydiff.Scale(q.LogScale, c.MakeNumeric(2)))
	invVarP := anydiff.Exp(anydiff.Scale(p.LogScale, c.MakeNumeric(-2)))
	meanDiff := anydiff.Sub(q.Loc, p.Loc)
	quad := anydiff.Scale(
		anydiff.Mul(anydiff.Add(varQ, anydiff.Mul(meanDiff, meanDiff)), invVarP),
		c.MakeNumeric(0.5),
	)
	perComp := anydiff.AddScalar(
		anydiff.Add(anydiff.Sub(p.LogScale, q.LogScale), quad),
		c.MakeNumeric(-0.5),
	)
	return sumRows(perComp, q.Rows, q.Dim)
}
