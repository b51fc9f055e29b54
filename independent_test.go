package vaeseq

import (
	"math/rand"
	"testing"

	"github.com/unixpickle/anyvec/anyvec64"
)

func testModelHParams() *HParams {
	return &HParams{
		VAEType:       VAETypeISeq,
		LatentSize:    3,
		ObsSize:       2,
		RNNHidden:     []int{8},
		EncoderHidden: []int{6},
		DecoderHidden: []int{6},
		LatentHidden:  []int{6},
		BatchSize:     4,
		SeqLen:        5,
	}
}

func testModel(t *testing.T, h *HParams) *IndependentSequence {
	c := anyvec64.DefaultCreator{}
	enc := NewMLPObsEncoder(c, h.ObsSize, h.EncoderHidden)
	dec := NewOneHotObsDecoder(c, h.RNNOut(), h.LatentSize, h.DecoderHidden,
		h.ObsSize)
	agent := &EncodeObsAgent{Creator: c, Encoder: enc}
	model, err := Make(c, h, agent, enc, dec)
	if err != nil {
		t.Fatal(err)
	}
	return model
}

func TestInferLatentsShapes(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	h := testModelHParams()
	model := testModel(t, h)

	// All-zero observations: the degenerate but valid
	// input a fresh model must handle without blowing up.
	observed := zeroSeqs(c, h.ObsSize, h.BatchSize, h.SeqLen)
	contexts := Contexts(model.Agent, observed)

	latents, divs := model.InferLatents(contexts, observed)

	if len(latents.Output()) != h.SeqLen || len(divs.Output()) != h.SeqLen {
		t.Fatalf("expected %d timesteps, got %d and %d", h.SeqLen,
			len(latents.Output()), len(divs.Output()))
	}
	for i, b := range latents.Output() {
		if b.Packed.Len() != h.BatchSize*h.LatentSize {
			t.Errorf("latents at time %d: expected length %d, got %d", i,
				h.BatchSize*h.LatentSize, b.Packed.Len())
		}
		assertFinite(t, "latents", b.Packed)
	}
	for i, b := range divs.Output() {
		if b.Packed.Len() != h.BatchSize {
			t.Errorf("divergences at time %d: expected length %d, got %d", i,
				h.BatchSize, b.Packed.Len())
		}
		assertFinite(t, "divergences", b.Packed)
		for _, x := range b.Packed.Data().([]float64) {
			if x < -1e-8 {
				t.Errorf("divergence at time %d is negative: %v", i, x)
			}
		}
	}
}

func TestLogProbObserved(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	h := testModelHParams()
	model := testModel(t, h)

	observed := testOneHotSeqs(c, h.ObsSize, h.BatchSize, h.SeqLen,
		rand.New(rand.NewSource(5)))
	contexts := Contexts(model.Agent, observed)
	latents, _ := model.InferLatents(contexts, observed)

	logProbs := model.LogProbObserved(contexts, latents, observed)
	if len(logProbs.Output()) != h.SeqLen {
		t.Fatalf("expected %d timesteps, got %d", h.SeqLen,
			len(logProbs.Output()))
	}
	for i, b := range logProbs.Output() {
		if b.Packed.Len() != h.BatchSize {
			t.Errorf("time %d: expected length %d, got %d", i, h.BatchSize,
				b.Packed.Len())
		}
		assertFinite(t, "log probs", b.Packed)
		for _, x := range b.Packed.Data().([]float64) {
			if x > 1e-8 {
				t.Errorf("log probability at time %d is positive: %v", i, x)
			}
		}
	}
}

func TestELBOGradients(t *testing.T) {
	h := testModelHParams()
	runGradientTest := func(t *testing.T, h *HParams) {
		c := anyvec64.DefaultCreator{}
		model := testModel(t, h)
		trainer := &Trainer{
			Model:  model,
			Agent:  model.Agent,
			Params: model.Parameters(),
		}

		observed := testOneHotSeqs(c, h.ObsSize, h.BatchSize, h.SeqLen,
			rand.New(rand.NewSource(6)))
		batch := &Batch{
			Contexts: Contexts(model.Agent, observed),
			Observed: observed,
		}
		grad := trainer.Gradient(batch)
		if len(grad) != len(model.Parameters()) {
			t.Errorf("expected %d gradient entries, got %d",
				len(model.Parameters()), len(grad))
		}
		for _, vec := range grad {
			assertFinite(t, "gradient", vec)
		}
	}
	t.Run("Analytic", func(t *testing.T) {
		runGradientTest(t, h)
	})
	t.Run("MonteCarlo", func(t *testing.T) {
		mc := *h
		mc.UseMonteCarloKL = true
		runGradientTest(t, &mc)
	})
}

func TestGenerate(t *testing.T) {
	h := testModelHParams()
	model := testModel(t, h)

	observed, latents := model.GenCore().Generate(h.BatchSize, h.SeqLen,
		rand.New(rand.NewSource(7)))

	if len(observed.Output()) != h.SeqLen || len(latents.Output()) != h.SeqLen {
		t.Fatalf("expected %d timesteps, got %d and %d", h.SeqLen,
			len(observed.Output()), len(latents.Output()))
	}
	for i, b := range observed.Output() {
		if b.Packed.Len() != h.BatchSize*h.ObsSize {
			t.Fatalf("time %d: expected length %d, got %d", i,
				h.BatchSize*h.ObsSize, b.Packed.Len())
		}
		data := b.Packed.Data().([]float64)
		for lane := 0; lane < h.BatchSize; lane++ {
			var sum float64
			for _, x := range data[lane*h.ObsSize : (lane+1)*h.ObsSize] {
				if x != 0 && x != 1 {
					t.Fatalf("time %d lane %d: not one-hot: %v", i, lane,
						data)
				}
				sum += x
			}
			if sum != 1 {
				t.Fatalf("time %d lane %d: not one-hot: %v", i, lane, data)
			}
		}
	}
	for i, b := range latents.Output() {
		if b.Packed.Len() != h.BatchSize*h.LatentSize {
			t.Fatalf("time %d: expected length %d, got %d", i,
				h.BatchSize*h.LatentSize, b.Packed.Len())
		}
		assertFinite(t, "latents", b.Packed)
	}
}

func TestMakeErrors(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	h := testModelHParams()
	enc := NewMLPObsEncoder(c, h.ObsSize, h.EncoderHidden)
	dec := NewOneHotObsDecoder(c, h.RNNOut(), h.LatentSize, h.DecoderHidden,
		h.ObsSize)
	agent := &EncodeObsAgent{Creator: c, Encoder: enc}

	t.Run("UnimplementedVariant", func(t *testing.T) {
		bad := *h
		bad.VAEType = VAETypeRNN
		if _, err := Make(c, &bad, agent, enc, dec); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("BadLatentSize", func(t *testing.T) {
		bad := *h
		bad.LatentSize = 0
		if _, err := Make(c, &bad, agent, enc, dec); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("UnknownType", func(t *testing.T) {
		bad := *h
		bad.VAEType = "BOGUS"
		if _, err := Make(c, &bad, agent, enc, dec); err == nil {
			t.Error("expected error")
		}
	})
}

func TestInferLatentsLayoutMismatch(t *testing.T) {
	c := anyvec64.DefaultCreator{}
	h := testModelHParams()
	model := testModel(t, h)

	observed := testOneHotSeqs(c, h.ObsSize, h.BatchSize, h.SeqLen,
		rand.New(rand.NewSource(8)))
	shorter := testOneHotSeqs(c, h.ObsSize, h.BatchSize, h.SeqLen-1,
		rand.New(rand.NewSource(8)))
	contexts := Contexts(model.Agent, shorter)

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	model.InferLatents(contexts, observed)
}
