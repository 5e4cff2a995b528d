package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
)

// Transcript is the Fiat-Shamir state machine of the protocol, backed by a
// Tip5 sponge. Prover and verifier drive their own transcripts through the
// exact same observe/sample sequence; any reordering desynchronizes the
// derived challenges and is a protocol violation, not a performance detail.
//
// A transcript belongs to exactly one proving or verifying run.
type Transcript struct {
	sponge *hash.Tip5
}

// NewTranscript creates a fresh transcript.
func NewTranscript() *Transcript {
	return &Transcript{sponge: hash.Init()}
}

// Observe absorbs a commitment into the sponge state.
func (t *Transcript) Observe(commitment hash.Digest) {
	t.sponge.PadAndAbsorbAll(commitment[:])
}

// ObserveElements absorbs a sequence of base-field elements, e.g. public
// values or the trace height.
func (t *Transcript) ObserveElements(elements []field.Element) {
	t.sponge.PadAndAbsorbAll(elements)
}

// Sample squeezes one extension-field challenge. Deterministic given the
// prior observations.
func (t *Transcript) Sample() (xfield.XFieldElement, error) {
	scalars, err := t.sponge.SampleScalars(1)
	if err != nil {
		return xfield.Zero, fmt.Errorf("failed to sample challenge: %w", err)
	}
	return scalars[0], nil
}

// SampleMany squeezes n extension-field challenges in order.
func (t *Transcript) SampleMany(n int) ([]xfield.XFieldElement, error) {
	scalars, err := t.sponge.SampleScalars(n)
	if err != nil {
		return nil, fmt.Errorf("failed to sample %d challenges: %w", n, err)
	}
	return scalars, nil
}
