package vybiumunistark

import (
	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/protocols"
)

// NewProver creates a reusable prover for the given AIR.
func NewProver(params Parameters, a Air) (*Prover, error) {
	return protocols.NewProver(params, a)
}

// NewVerifier creates a reusable verifier for the given AIR.
func NewVerifier(params Parameters, a Air) (*Verifier, error) {
	return protocols.NewVerifier(params, a)
}

// Prove generates a proof that the trace satisfies the AIR's constraints.
func Prove(params Parameters, a Air, trace *Matrix, publicValues []FieldElement) (*Proof, error) {
	prover, err := NewProver(params, a)
	if err != nil {
		return nil, err
	}
	return prover.Prove(trace, publicValues)
}

// Verify checks a proof against the AIR and public values. A nil return
// means the proof is accepted.
func Verify(params Parameters, a Air, proof *Proof, publicValues []FieldElement) error {
	verifier, err := NewVerifier(params, a)
	if err != nil {
		return err
	}
	return verifier.Verify(proof, publicValues)
}
