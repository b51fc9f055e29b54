package vaeseq

import (
	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anynet"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"

	"github.com/unixpickle/vaeseq/dists"
)

func init() {
	var m MLPObsEncoder
	serializer.RegisterTypedDeserializer(m.SerializerType(),
		DeserializeMLPObsEncoder)
	var o OneHotObsDecoder
	serializer.RegisterTypedDeserializer(o.SerializerType(),
		DeserializeOneHotObsDecoder)
}

// An ObsEncoder maps raw observations to feature
// vectors.
//
// Encoders have no temporal state: they must be
// applicable independently and identically at every
// timestep.
type ObsEncoder interface {
	// OutSize returns the encoded feature dimension.
	OutSize() int

	// Encode encodes a packed batch of n observations.
	Encode(obs anydiff.Res, n int) anydiff.Res
}

// An ObsDecoder turns deterministic recurrent output and
// a latent sample into the parameters of a distribution
// over observations.
type ObsDecoder interface {
	// EventSize returns the observation dimension.
	EventSize() int

	// Decode produces distribution parameters from the
	// recurrent output and the latent for n rows.
	Decode(dOut, latent anydiff.Res, n int) anydiff.Res

	// Dist builds the observation distribution from
	// parameters produced by Decode.
	Dist(params anydiff.Res, n int) dists.Dist
}

// MLPObsEncoder encodes observations with a tanh MLP.
type MLPObsEncoder struct {
	Net anynet.Net
	Out int
}

// NewMLPObsEncoder creates an encoder with the given
// hidden layer sizes.
// The last hidden size is the encoding size.
func NewMLPObsEncoder(c anyvec.Creator, obsSize int,
	hidden []int) *MLPObsEncoder {
	if len(hidden) == 0 {
		panic("need at least one hidden size")
	}
	var net anynet.Net
	cur := obsSize
	for _, h := range hidden {
		net = append(net, anynet.NewFC(c, cur, h), anynet.Tanh)
		cur = h
	}
	return &MLPObsEncoder{Net: net, Out: cur}
}

// DeserializeMLPObsEncoder deserializes an
// MLPObsEncoder.
func DeserializeMLPObsEncoder(d []byte) (*MLPObsEncoder, error) {
	var res MLPObsEncoder
	var out serializer.Int
	if err := serializer.DeserializeAny(d, &res.Net, &out); err != nil {
		return nil, essentials.AddCtx("deserialize MLPObsEncoder", err)
	}
	res.Out = int(out)
	return &res, nil
}

// OutSize returns the encoding size.
func (m *MLPObsEncoder) OutSize() int {
	return m.Out
}

// Encode applies the MLP to a batch of n observations.
func (m *MLPObsEncoder) Encode(obs anydiff.Res, n int) anydiff.Res {
	return m.Net.Apply(obs, n)
}

// Parameters returns the encoder's parameters.
func (m *MLPObsEncoder) Parameters() []*anydiff.Var {
	return m.Net.Parameters()
}

// SerializerType returns the unique ID used to serialize
// an MLPObsEncoder with the serializer package.
func (m *MLPObsEncoder) SerializerType() string {
	return "github.com/unixpickle/vaeseq.MLPObsEncoder"
}

// Serialize serializes the MLPObsEncoder.
func (m *MLPObsEncoder) Serialize() ([]byte, error) {
	return serializer.SerializeAny(m.Net, serializer.Int(m.Out))
}

// OneHotObsDecoder models one-hot observations with a
// categorical distribution whose logits come from an MLP
// over the recurrent output and the latent.
type OneHotObsDecoder struct {
	Net        anynet.Net
	NumClasses int
}

// NewOneHotObsDecoder creates a decoder for one-hot
// observations over numClasses categories.
func NewOneHotObsDecoder(c anyvec.Creator, dOutSize, latentSize int,
	hidden []int, numClasses int) *OneHotObsDecoder {
	var net anynet.Net
	cur := dOutSize + latentSize
	for _, h := range hidden {
		net = append(net, anynet.NewFC(c, cur, h), anynet.Tanh)
		cur = h
	}
	net = append(net, anynet.NewFC(c, cur, numClasses))
	return &OneHotObsDecoder{Net: net, NumClasses: numClasses}
}

// DeserializeOneHotObsDecoder deserializes a
// OneHotObsDecoder.
func DeserializeOneHotObsDecoder(d []byte) (*OneHotObsDecoder, error) {
	var res OneHotObsDecoder
	var classes serializer.Int
	if err := serializer.DeserializeAny(d, &res.Net, &classes); err != nil {
		return nil, essentials.AddCtx("deserialize OneHotObsDecoder", err)
	}
	res.NumClasses = int(classes)
	return &res, nil
}

// EventSize returns the number of categories.
func (o *OneHotObsDecoder) EventSize() int {
	return o.NumClasses
}

// Decode produces logits for a batch of n rows.
func (o *OneHotObsDecoder) Decode(dOut, latent anydiff.Res,
	n int) anydiff.Res {
	return o.Net.Apply(ConcatRows(n, dOut, latent), n)
}

// Dist builds the categorical distribution for the
// logits.
func (o *OneHotObsDecoder) Dist(params anydiff.Res, n int) dists.Dist {
	return &dists.OneHot{Logits: params, Rows: n, Dim: o.NumClasses}
}

// Parameters returns the decoder's parameters.
func (o *OneHotObsDecoder) Parameters() []*anydiff.Var {
	return o.Net.Parameters()
}

// SerializerType returns the unique ID used to serialize
// a OneHotObsDecoder with the serializer package.
func (o *OneHotObsDecoder) SerializerType() string {
	return "github.com/unixpickle/vaeseq.OneHotObsDecoder"
}

// Serialize serializes the OneHotObsDecoder.
func (o *OneHotObsDecoder) Serialize() ([]byte, error) {
	return serializer.SerializeAny(o.Net, serializer.Int(o.NumClasses))
}
