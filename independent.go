package vaeseq

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anyseq"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anynet/anyrnn"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"

	"github.com/unixpickle/vaeseq/dists"
)

func init() {
	var i IndependentSequence
	serializer.RegisterTypedDeserializer(i.SerializerType(),
		DeserializeIndependentSequence)
}

// IndependentSequence is a sequential VAE whose latent
// variables have a priori independent standard-normal
// distributions at every timestep.
//
// During inference, contexts and encoded observations
// flow through a forward recurrent sweep (the "e" cell)
// and then a backward sweep (the "f" cell), so that the
// posterior for z_t sees the entire observed sequence.
// During generation, latents come from the prior and the
// "d" cell threads deterministic state through the
// contexts.
type IndependentSequence struct {
	HParams *HParams

	Encoder ObsEncoder
	Decoder ObsDecoder
	Agent   Agent

	DCore anyrnn.Block
	ECore anyrnn.Block
	FCore anyrnn.Block

	LatentQ *LatentDecoder
	Prior   *LatentPrior
	Obs     *ObsDist
}

// NewIndependentSequence builds the VAE's recurrent
// cores and latent decoder from the hyperparameters and
// wires them to the given collaborators.
func NewIndependentSequence(c anyvec.Creator, h *HParams, agent Agent,
	enc ObsEncoder, dec ObsDecoder) *IndependentSequence {
	res := &IndependentSequence{
		HParams: h,
		Encoder: enc,
		Decoder: dec,
		Agent:   agent,

		DCore: makeRNN(c, h.RNNHidden, agent.ContextSize()),
		ECore: makeRNN(c, h.RNNHidden, agent.ContextSize()+enc.OutSize()),
		FCore: makeRNN(c, h.RNNHidden, h.RNNOut()),

		LatentQ: NewLatentDecoder(c, h.RNNOut(), h.LatentHidden, h.LatentSize),
		Prior:   &LatentPrior{Creator: c, LatentSize: h.LatentSize},
	}
	res.Obs = &ObsDist{
		Block:       res.DCore,
		Decoder:     dec,
		ContextSize: agent.ContextSize(),
		LatentSize:  h.LatentSize,
	}
	return res
}

// DeserializeIndependentSequence deserializes an
// IndependentSequence.
//
// The agent is not serialized; the restored model uses
// an EncodeObsAgent over the restored encoder.
// Callers that trained with a different agent should
// replace the Agent field (the context size must match).
func DeserializeIndependentSequence(d []byte) (*IndependentSequence, error) {
	var res IndependentSequence
	err := serializer.DeserializeAny(d, &res.HParams, &res.Encoder,
		&res.Decoder, &res.DCore, &res.ECore, &res.FCore, &res.LatentQ)
	if err != nil {
		return nil, essentials.AddCtx("deserialize IndependentSequence", err)
	}
	c := res.LatentQ.Loc.Parameters()[0].Vector.Creator()
	res.Agent = &EncodeObsAgent{Creator: c, Encoder: res.Encoder}
	res.Prior = &LatentPrior{Creator: c, LatentSize: res.HParams.LatentSize}
	res.Obs = &ObsDist{
		Block:       res.DCore,
		Decoder:     res.Decoder,
		ContextSize: res.Agent.ContextSize(),
		LatentSize:  res.HParams.LatentSize,
	}
	return &res, nil
}

// InferLatents encodes an observed sequence into sampled
// latents and per-timestep KL divergences against the
// prior.
//
// Both results have the batch size and sequence length
// of observed: one latent vector and one divergence
// scalar per sequence per timestep.
// Gradients flow through the sampled latents
// (reparameterization).
func (m *IndependentSequence) InferLatents(contexts,
	observed anyseq.Seq) (latents, divs anyseq.Seq) {
	mustMatchLayout("contexts", contexts, "observed", observed)
	mustBeRectangular("observed", observed)

	encObs := anyseq.Map(observed, m.Encoder.Encode)
	eOuts := anyrnn.Map(ConcatSeqs(contexts, encObs), m.ECore)

	// The backward sweep consumes the forward sweep's
	// entire output sequence, realized as reverse ->
	// forward sweep -> reverse.
	fOuts := anyseq.Reverse(anyrnn.Map(anyseq.Reverse(eOuts), m.FCore))

	qParams := anyseq.Map(fOuts, m.LatentQ.Apply)

	latents = anyseq.Map(qParams, func(params anydiff.Res, n int) anydiff.Res {
		return m.LatentQ.Dist(params, n).SampleReparam(nil)
	})
	divs = anyseq.MapN(func(n int, v ...anydiff.Res) anydiff.Res {
		q := m.LatentQ.Dist(v[0], n)
		p := m.Prior.Dist(nil, n)
		return dists.KL(q, p, v[1], m.HParams.UseMonteCarloKL)
	}, qParams, latents)
	return latents, divs
}

// LogProbObserved scores an observed sequence under the
// generative model, given contexts and latents.
// The result contains one log-probability per sequence
// per timestep.
func (m *IndependentSequence) LogProbObserved(contexts, latents,
	observed anyseq.Seq) anyseq.Seq {
	return m.Obs.LogProbs(contexts, latents, observed)
}

// GenCore returns the composed generative core.
func (m *IndependentSequence) GenCore() *GenCore {
	return &GenCore{Prior: m.Prior, Obs: m.Obs, Agent: m.Agent}
}

// Parameters returns the learnable parameters of every
// submodule that exposes any.
func (m *IndependentSequence) Parameters() []*anydiff.Var {
	var res []*anydiff.Var
	components := []interface{}{m.Encoder, m.Decoder, m.DCore, m.ECore,
		m.FCore, m.LatentQ}
	for _, x := range components {
		if p, ok := x.(anynet.Parameterizer); ok {
			res = append(res, p.Parameters()...)
		}
	}
	return res
}

// SerializerType returns the unique ID used to serialize
// an IndependentSequence with the serializer package.
func (m *IndependentSequence) SerializerType() string {
	return "github.com/unixpickle/vaeseq.IndependentSequence"
}

// Serialize serializes the model.
func (m *IndependentSequence) Serialize() ([]byte, error) {
	return serializer.SerializeAny(m.HParams, m.Encoder, m.Decoder, m.DCore,
		m.ECore, m.FCore, m.LatentQ)
}
