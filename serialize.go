package vaeseq

import (
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

// SaveModel writes a model to a file.
func SaveModel(path string, m *IndependentSequence) error {
	if err := serializer.SaveAny(path, m); err != nil {
		return essentials.AddCtx("save model", err)
	}
	return nil
}

// LoadModel reads a model from a file.
func LoadModel(path string) (*IndependentSequence, error) {
	var res *IndependentSequence
	if err := serializer.LoadAny(path, &res); err != nil {
		return nil, essentials.AddCtx("load model", err)
	}
	return res, nil
}
