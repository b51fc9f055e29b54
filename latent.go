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
	var l LatentDecoder
	serializer.RegisterTypedDeserializer(l.SerializerType(),
		DeserializeLatentDecoder)
}

// LatentDecoder maps fused encoder features to the
// parameters of the approximate posterior q(z_t | x_1:T).
type LatentDecoder struct {
	// Net is the shared MLP body.
	Net anynet.Net

	// Loc and LogScale are the linear parameter heads.
	Loc      *anynet.FC
	LogScale *anynet.FC

	LatentSize int
}

// NewLatentDecoder creates a LatentDecoder with a tanh
// MLP body and linear loc/log-scale heads.
func NewLatentDecoder(c anyvec.Creator, inSize int, hidden []int,
	latentSize int) *LatentDecoder {
	var net anynet.Net
	cur := inSize
	for _, h := range hidden {
		net = append(net, anynet.NewFC(c, cur, h), anynet.Tanh)
		cur = h
	}
	return &LatentDecoder{
		Net:        net,
		Loc:        anynet.NewFC(c, cur, latentSize),
		LogScale:   anynet.NewFC(c, cur, latentSize),
		LatentSize: latentSize,
	}
}

// DeserializeLatentDecoder deserializes a LatentDecoder.
func DeserializeLatentDecoder(d []byte) (*LatentDecoder, error) {
	var res LatentDecoder
	var size serializer.Int
	err := serializer.DeserializeAny(d, &res.Net, &res.Loc, &res.LogScale, &size)
	if err != nil {
		return nil, essentials.AddCtx("deserialize LatentDecoder", err)
	}
	res.LatentSize = int(size)
	return &res, nil
}

// Apply produces posterior parameters for a batch of n
// feature rows.
func (l *LatentDecoder) Apply(in anydiff.Res, n int) anydiff.Res {
	hidden := in
	if len(l.Net) > 0 {
		hidden = l.Net.Apply(in, n)
	}
	return anydiff.Pool(hidden, func(hidden anydiff.Res) anydiff.Res {
		return ConcatRows(n, l.Loc.Apply(hidden, n), l.LogScale.Apply(hidden, n))
	})
}

// Dist builds the posterior distribution from parameters
// produced by Apply.
func (l *LatentDecoder) Dist(params anydiff.Res, n int) *dists.DiagGaussian {
	return &dists.DiagGaussian{
		Loc:      SliceRows(params, n, 0, l.LatentSize),
		LogScale: SliceRows(params, n, l.LatentSize, 2*l.LatentSize),
		Rows:     n,
		Dim:      l.LatentSize,
	}
}

// Parameters returns the decoder's learnable parameters.
func (l *LatentDecoder) Parameters() []*anydiff.Var {
	return anynet.AllParameters(l.Net, l.Loc, l.LogScale)
}

// SerializerType returns the unique ID used to serialize
// a LatentDecoder with the serializer package.
func (l *LatentDecoder) SerializerType() string {
	return "github.com/unixpickle/vaeseq.LatentDecoder"
}

// Serialize serializes the LatentDecoder.
func (l *LatentDecoder) Serialize() ([]byte, error) {
	return serializer.SerializeAny(l.Net, l.Loc, l.LogScale,
		serializer.Int(l.LatentSize))
}
