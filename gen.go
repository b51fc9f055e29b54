package vaeseq

import (
	"math/rand"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
)

// A GenCore samples observation sequences ancestrally:
// at each timestep a latent is drawn from the prior, the
// observation core turns (context, latent) into
// observation parameters, an observation is sampled, and
// the agent produces the next context from it.
type GenCore struct {
	Prior *LatentPrior
	Obs   *ObsDist
	Agent Agent
}

// Generate samples n observation sequences of the given
// length, along with the latents that produced them.
//
// If gen is nil, the shared math/rand source is used.
// The results carry no gradients.
func (g *GenCore) Generate(n, steps int, gen *rand.Rand) (observed,
	latents anyseq.Seq) {
	priorState := g.Prior.Start(n)
	obsState := g.Obs.Start(n)
	ctx := g.Agent.StartContext(n)

	var obsBatches, latentBatches []*anyseq.Batch
	pres := fullPresence(n)
	for t := 0; t < steps; t++ {
		priorParams, nextPrior := g.Prior.Step(priorState, nil)
		latent := g.Prior.Dist(anydiff.NewConst(priorParams), n).Sample(gen)
		priorState = nextPrior

		params, nextObs := g.Obs.Step(obsState, joinRows(n, ctx, latent))
		obs := g.Obs.Dist(anydiff.NewConst(params), n).Sample(gen)
		obsState = g.Obs.NextState(nextObs, obs)

		ctx = g.Agent.NextContext(obs, n)

		obsBatches = append(obsBatches, &anyseq.Batch{
			Packed:  obs,
			Present: pres,
		})
		latentBatches = append(latentBatches, &anyseq.Batch{
			Packed:  latent,
			Present: pres,
		})
	}
	return anyseq.ConstSeq(g.Prior.Creator, obsBatches),
		anyseq.ConstSeq(g.Prior.Creator, latentBatches)
}
