package protocols

import (
	"github.com/rs/zerolog"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/air"
	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/logger"
)

// maxLog2Height caps the trace height a proof may declare. The commitment
// scheme rebuilds full evaluation domains during Verify, so the cap bounds
// the memory a malformed proof can make the verifier allocate.
const maxLog2Height = 24

// Verifier checks proofs against one AIR. A Verifier is safe to reuse
// across Verify calls; each call drives a fresh transcript replaying the
// prover's observe/sample sequence.
type Verifier struct {
	params Parameters
	air    air.Air
	aux    air.AuxTraceBuilder
	scheme *MatrixCommitmentScheme
	log    zerolog.Logger
}

// NewVerifier creates a verifier for the given AIR. Construction validates
// the same static configuration as NewProver; a (params, AIR) pair that one
// side rejects is rejected by both.
func NewVerifier(params Parameters, a air.Air) (*Verifier, error) {
	if err := validateSetup(params, a); err != nil {
		return nil, err
	}

	return &Verifier{
		params: params,
		air:    a,
		aux:    auxBuilderOf(a),
		scheme: NewMatrixCommitmentScheme(),
		log:    logger.Logger().With().Str("component", "verifier").Logger(),
	}, nil
}

// Verify checks the proof against the AIR and public values. A nil return
// means the proof is accepted; every rejection carries a ProtocolError
// classifying what failed.
//
// Structural checks run before any transcript work: a proof whose shape
// contradicts the AIR's static declaration is malformed regardless of its
// cryptographic content.
func (v *Verifier) Verify(proof *Proof, publicValues []field.Element) error {
	if err := v.checkShape(proof); err != nil {
		return err
	}

	height := 1 << proof.Log2Height
	traceDomain, err := NewArithmeticDomain(height)
	if err != nil {
		return wrapError(ErrMalformedProof, err, "failed to build trace domain")
	}
	quotientBase, err := NewArithmeticDomain(height * v.params.quotientBlowup())
	if err != nil {
		return wrapError(ErrMalformedProof, err, "failed to build quotient domain")
	}
	quotientDomain := quotientBase.WithOffset(field.New(v.params.CosetOffset))

	// Replay the transcript to re-derive the challenges the prover used.
	transcript := NewTranscript()
	transcript.Observe(proof.MainRoot)
	transcript.ObserveElements(boundElements(height, publicValues))

	var challenges []xfield.XFieldElement
	if v.aux != nil {
		challenges, err = transcript.SampleMany(v.aux.NumChallenges())
		if err != nil {
			return wrapError(ErrMalformedProof, err, "failed to sample auxiliary challenges")
		}
		transcript.Observe(*proof.AuxRoot)
	}

	alpha, err := transcript.Sample()
	if err != nil {
		return wrapError(ErrMalformedProof, err, "failed to sample folding challenge")
	}
	transcript.Observe(proof.QuotientRoot)

	zeta, err := transcript.Sample()
	if err != nil {
		return wrapError(ErrMalformedProof, err, "failed to sample evaluation point")
	}
	selectors, err := traceDomain.SelectorsAt(zeta)
	if err != nil {
		return wrapError(ErrMalformedProof, err, "evaluation point is degenerate")
	}
	zetaNext := traceDomain.NextPoint(zeta)

	// Re-fold the constraints over the opened rows and check the quotient
	// identity C(zeta) = Q(zeta) * Z_H(zeta).
	folder := NewVerifierFolder(
		proof.Opened.MainLocal, proof.Opened.MainNext,
		proof.Opened.AuxLocal, proof.Opened.AuxNext,
		challenges, selectors, alpha,
	)
	v.air.Eval(folder)

	folded := folder.Accumulator()
	expected := proof.Opened.Quotient[0].Mul(traceDomain.VanishingAt(zeta))
	if !folded.Equal(expected) {
		v.log.Debug().Msg("quotient identity failed")
		return newError(ErrConstraintViolation,
			"folded constraints do not match the quotient at the evaluation point")
	}

	// Check every opening against its commitment.
	tracePoints := []xfield.XFieldElement{zeta, zetaNext}
	mainClaims := [][]xfield.XFieldElement{proof.Opened.MainLocal, proof.Opened.MainNext}
	if err := v.scheme.Verify(traceDomain, proof.MainRoot, proof.MainOpening, mainClaims, tracePoints); err != nil {
		return wrapError(ErrOpeningInvalid, err, "main trace opening rejected")
	}
	if v.aux != nil {
		auxClaims := [][]xfield.XFieldElement{proof.Opened.AuxLocal, proof.Opened.AuxNext}
		if err := v.scheme.Verify(traceDomain, *proof.AuxRoot, proof.AuxOpening, auxClaims, tracePoints); err != nil {
			return wrapError(ErrOpeningInvalid, err, "auxiliary trace opening rejected")
		}
	}
	quotientClaims := [][]xfield.XFieldElement{proof.Opened.Quotient}
	if err := v.scheme.Verify(quotientDomain, proof.QuotientRoot, proof.QuotientOpening, quotientClaims, []xfield.XFieldElement{zeta}); err != nil {
		return wrapError(ErrOpeningInvalid, err, "quotient opening rejected")
	}

	v.log.Info().Int("height", height).Msg("proof accepted")
	return nil
}

// checkShape rejects proofs whose structure contradicts the AIR's static
// declaration or the protocol's fixed layout.
func (v *Verifier) checkShape(proof *Proof) error {
	if proof == nil {
		return newError(ErrMalformedProof, "proof is nil")
	}
	if proof.Log2Height < 1 || proof.Log2Height > maxLog2Height {
		return newError(ErrMalformedProof, "declared log2 trace height %d is out of range", proof.Log2Height)
	}

	if len(proof.Opened.MainLocal) != v.air.Width() || len(proof.Opened.MainNext) != v.air.Width() {
		return newError(ErrMalformedProof,
			"opened main rows have widths %d and %d, AIR declares %d",
			len(proof.Opened.MainLocal), len(proof.Opened.MainNext), v.air.Width())
	}
	if len(proof.Opened.Quotient) != 1 {
		return newError(ErrMalformedProof,
			"opened quotient row has width %d, expected 1", len(proof.Opened.Quotient))
	}
	if proof.MainOpening == nil || proof.QuotientOpening == nil {
		return newError(ErrMalformedProof, "missing main or quotient opening")
	}

	hasAuxData := proof.AuxRoot != nil || proof.AuxOpening != nil ||
		len(proof.Opened.AuxLocal) > 0 || len(proof.Opened.AuxNext) > 0

	if v.aux == nil {
		if hasAuxData {
			return newError(ErrMalformedProof,
				"proof carries auxiliary data but the AIR declares no auxiliary trace")
		}
		return nil
	}

	if proof.AuxRoot == nil || proof.AuxOpening == nil {
		return newError(ErrMalformedProof,
			"AIR declares an auxiliary trace but the proof carries no auxiliary commitment")
	}
	if len(proof.Opened.AuxLocal) != v.aux.AuxWidth() || len(proof.Opened.AuxNext) != v.aux.AuxWidth() {
		return newError(ErrMalformedProof,
			"opened auxiliary rows have widths %d and %d, AIR declares %d",
			len(proof.Opened.AuxLocal), len(proof.Opened.AuxNext), v.aux.AuxWidth())
	}
	return nil
}
