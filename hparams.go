package vaeseq

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var h HParams
	serializer.RegisterTypedDeserializer(h.SerializerType(), DeserializeHParams)
}

// A VAEType identifies a sequential VAE family.
type VAEType string

const (
	// VAETypeISeq uses a priori independent latents.
	VAETypeISeq VAEType = "ISEQ"

	// VAETypeRNN chains latents through the deterministic
	// recurrent state.
	VAETypeRNN VAEType = "RNN"

	// VAETypeSRNN adds a stochastic recurrent connection
	// between consecutive latents.
	VAETypeSRNN VAEType = "SRNN"
)

// HParams holds the architectural hyperparameters shared
// by the sequential VAE variants.
type HParams struct {
	VAEType VAEType

	// LatentSize is the dimension of each z_t.
	LatentSize int

	// ObsSize is the dimension of encoded observations
	// fed to the model (e.g. the number of classes for
	// one-hot observations).
	ObsSize int

	// RNNHidden gives the output size of each stacked
	// recurrent layer in the d/e/f cores.
	RNNHidden []int

	// Hidden layer sizes for the fully-connected stacks.
	EncoderHidden []int
	DecoderHidden []int
	LatentHidden  []int

	BatchSize int
	SeqLen    int

	// UseMonteCarloKL replaces the analytic KL divergence
	// with a single-sample estimate.
	UseMonteCarloKL bool
}

// DefaultHParams returns a small but workable
// configuration.
func DefaultHParams() *HParams {
	return &HParams{
		VAEType:       VAETypeISeq,
		LatentSize:    4,
		ObsSize:       2,
		RNNHidden:     []int{16},
		EncoderHidden: []int{32},
		DecoderHidden: []int{32},
		LatentHidden:  []int{32},
		BatchSize:     8,
		SeqLen:        10,
	}
}

// Validate returns an error if the hyperparameters are
// unusable.
func (h *HParams) Validate() error {
	switch h.VAEType {
	case VAETypeISeq, VAETypeRNN, VAETypeSRNN:
	default:
		return fmt.Errorf("unknown VAE type: %s", h.VAEType)
	}
	if h.LatentSize <= 0 {
		return errors.New("latent size must be positive")
	}
	if h.ObsSize <= 0 {
		return errors.New("observation size must be positive")
	}
	if len(h.RNNHidden) == 0 {
		return errors.New("need at least one recurrent layer")
	}
	for _, size := range h.RNNHidden {
		if size <= 0 {
			return errors.New("recurrent layer size must be positive")
		}
	}
	return nil
}

// RNNOut returns the output size of the recurrent cores.
func (h *HParams) RNNOut() int {
	return h.RNNHidden[len(h.RNNHidden)-1]
}

// SerializerType returns the unique ID used to serialize
// HParams with the serializer package.
func (h *HParams) SerializerType() string {
	return "github.com/unixpickle/vaeseq.HParams"
}

// Serialize serializes the hyperparameters.
func (h *HParams) Serialize() ([]byte, error) {
	return json.Marshal(h)
}

// DeserializeHParams deserializes an HParams.
func DeserializeHParams(d []byte) (*HParams, error) {
	var res HParams
	if err := json.Unmarshal(d, &res); err != nil {
		return nil, essentials.AddCtx("deserialize HParams", err)
	}
	return &res, nil
}
