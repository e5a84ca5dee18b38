package seedbed

import (
	"context"

	"github.com/aretw0/seedbed/pkg/ports"
)

// Spec is the basic Specification implementation: a retrieval strategy bound
// to an ordered list of single-assertion validators.
type Spec[ID comparable] struct {
	retrieve   ports.Retriever[ID]
	validators []ports.Validator
}

// NewSpec builds a Spec. Validators run in the order given.
func NewSpec[ID comparable](retrieve ports.Retriever[ID], validators ...ports.Validator) *Spec[ID] {
	return &Spec[ID]{
		retrieve:   retrieve,
		validators: validators,
	}
}

// GetRecord fetches the live state of the record under test.
func (sp *Spec[ID]) GetRecord(ctx context.Context, id ID) (any, error) {
	return sp.retrieve(ctx, id)
}

// Validators returns the checks to run, in order.
func (sp *Spec[ID]) Validators() []ports.Validator {
	return sp.validators
}
