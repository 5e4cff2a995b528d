package protocols

import (
	"github.com/rs/zerolog"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/air"
	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/logger"
)

// Prover runs the proving pipeline for one AIR. A Prover is safe to reuse
// across Prove calls; each call drives a fresh transcript.
//
// The pipeline is a straight line: commit to the main trace, run the
// challenge-gated auxiliary round, fold the constraints into the quotient
// trace and commit to it, then open all committed traces out of domain.
// Every phase observes its commitment before the next challenge is sampled,
// so no challenge can be known before the data it binds.
type Prover struct {
	params Parameters
	air    air.Air
	aux    air.AuxTraceBuilder
	scheme *MatrixCommitmentScheme
	log    zerolog.Logger
}

// NewProver creates a prover for the given AIR. Static configuration is
// validated here; Prove never starts on an inconsistent setup.
func NewProver(params Parameters, a air.Air) (*Prover, error) {
	if err := validateSetup(params, a); err != nil {
		return nil, err
	}

	return &Prover{
		params: params,
		air:    a,
		aux:    auxBuilderOf(a),
		scheme: NewMatrixCommitmentScheme(),
		log:    logger.Logger().With().Str("component", "prover").Logger(),
	}, nil
}

// Prove produces a proof that the main trace satisfies the AIR's
// constraints. The public values are bound into the transcript and must be
// presented identically at verification time.
func (p *Prover) Prove(main *air.Matrix, publicValues []field.Element) (*Proof, error) {
	if main == nil {
		return nil, newError(ErrConfig, "main trace is nil")
	}
	if main.Width() != p.air.Width() {
		return nil, newError(ErrConfig, "main trace has %d columns, AIR declares %d", main.Width(), p.air.Width())
	}
	height := main.Height()
	if height < 2 || !isPowerOfTwo(height) {
		return nil, newError(ErrConfig, "trace height must be a power of 2 and at least 2, got %d", height)
	}

	traceDomain, err := NewArithmeticDomain(height)
	if err != nil {
		return nil, wrapError(ErrConfig, err, "failed to build trace domain")
	}
	quotientLength := height * p.params.quotientBlowup()
	quotientBase, err := NewArithmeticDomain(quotientLength)
	if err != nil {
		return nil, wrapError(ErrConfig, err, "failed to build quotient domain")
	}
	quotientDomain := quotientBase.WithOffset(field.New(p.params.CosetOffset))

	p.log.Debug().
		Int("height", height).
		Int("width", main.Width()).
		Int("quotient_length", quotientLength).
		Msg("proving started")

	transcript := NewTranscript()

	// Main round: commit, then bind the trace shape and public values.
	mainRoot, mainData, err := p.scheme.Commit(traceDomain, main)
	if err != nil {
		return nil, wrapError(ErrCommitFailed, err, "failed to commit to main trace")
	}
	transcript.Observe(mainRoot)
	transcript.ObserveElements(boundElements(height, publicValues))
	p.log.Debug().Msg("main trace committed")

	// Auxiliary round, gated on the AIR's static declaration.
	var (
		auxChallenges []xfield.XFieldElement
		auxData       *ProverData
		auxRoot       *hash.Digest
	)
	if p.aux != nil {
		auxChallenges, auxRoot, auxData, err = p.auxRound(transcript, traceDomain, main)
		if err != nil {
			return nil, err
		}
		p.log.Debug().Int("challenges", len(auxChallenges)).Msg("auxiliary trace committed")
	}

	// Quotient round.
	alpha, err := transcript.Sample()
	if err != nil {
		return nil, wrapError(ErrCommitFailed, err, "failed to sample folding challenge")
	}

	quotientValues, err := computeQuotientValues(p.air, traceDomain, quotientDomain, mainData, auxData, auxChallenges, alpha)
	if err != nil {
		return nil, wrapError(ErrCommitFailed, err, "failed to compute quotient trace")
	}
	quotientTrace, err := air.NewXMatrix(quotientValues, 1)
	if err != nil {
		return nil, wrapError(ErrCommitFailed, err, "failed to assemble quotient trace")
	}
	quotientRoot, quotientData, err := p.scheme.CommitExtension(quotientDomain, quotientTrace)
	if err != nil {
		return nil, wrapError(ErrCommitFailed, err, "failed to commit to quotient trace")
	}
	transcript.Observe(quotientRoot)
	p.log.Debug().Msg("quotient trace committed")

	// Opening round: one out-of-domain point for everything, plus its
	// next-row shift for the trace commitments.
	zeta, err := transcript.Sample()
	if err != nil {
		return nil, wrapError(ErrCommitFailed, err, "failed to sample evaluation point")
	}
	if _, err := traceDomain.SelectorsAt(zeta); err != nil {
		return nil, wrapError(ErrCommitFailed, err, "sampled evaluation point is degenerate")
	}
	zetaNext := traceDomain.NextPoint(zeta)

	mainOpening, mainClaims := p.scheme.Open(mainData, []xfield.XFieldElement{zeta, zetaNext})
	quotientOpening, quotientClaims := p.scheme.Open(quotientData, []xfield.XFieldElement{zeta})

	proof := &Proof{
		MainRoot:     mainRoot,
		AuxRoot:      auxRoot,
		QuotientRoot: quotientRoot,
		Opened: OpenedValues{
			MainLocal: mainClaims[0],
			MainNext:  mainClaims[1],
			Quotient:  quotientClaims[0],
		},
		MainOpening:     mainOpening,
		QuotientOpening: quotientOpening,
		Log2Height:      ilog2(height),
	}
	if auxData != nil {
		auxOpening, auxClaims := p.scheme.Open(auxData, []xfield.XFieldElement{zeta, zetaNext})
		proof.AuxOpening = auxOpening
		proof.Opened.AuxLocal = auxClaims[0]
		proof.Opened.AuxNext = auxClaims[1]
	}

	p.log.Info().Int("height", height).Msg("proof generated")
	return proof, nil
}

// auxRound samples the auxiliary challenges, builds the auxiliary trace and
// commits to it.
func (p *Prover) auxRound(
	transcript *Transcript,
	traceDomain *ArithmeticDomain,
	main *air.Matrix,
) ([]xfield.XFieldElement, *hash.Digest, *ProverData, error) {
	challenges, err := transcript.SampleMany(p.aux.NumChallenges())
	if err != nil {
		return nil, nil, nil, wrapError(ErrCommitFailed, err, "failed to sample auxiliary challenges")
	}

	auxTrace, err := p.aux.BuildAuxTrace(main, challenges)
	if err != nil {
		return nil, nil, nil, wrapError(ErrCommitFailed, err, "failed to build auxiliary trace")
	}
	if auxTrace.Width() != p.aux.AuxWidth() {
		return nil, nil, nil, newError(ErrConfig,
			"auxiliary trace has %d columns, AIR declares %d", auxTrace.Width(), p.aux.AuxWidth())
	}
	if auxTrace.Height() != main.Height() {
		return nil, nil, nil, newError(ErrConfig,
			"auxiliary trace height %d does not match main trace height %d", auxTrace.Height(), main.Height())
	}

	root, data, err := p.scheme.CommitExtension(traceDomain, auxTrace)
	if err != nil {
		return nil, nil, nil, wrapError(ErrCommitFailed, err, "failed to commit to auxiliary trace")
	}
	transcript.Observe(root)

	return challenges, &root, data, nil
}

// validateSetup checks the static (params, AIR) configuration shared by
// prover and verifier construction.
func validateSetup(params Parameters, a air.Air) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if a == nil {
		return newError(ErrConfig, "AIR is nil")
	}
	if a.Width() <= 0 {
		return newError(ErrConfig, "AIR width must be positive, got %d", a.Width())
	}

	if aux, ok := a.(air.AuxTraceBuilder); ok {
		if aux.AuxWidth() < 0 {
			return newError(ErrConfig, "auxiliary width must not be negative, got %d", aux.AuxWidth())
		}
		if aux.NumChallenges() < 0 {
			return newError(ErrConfig, "challenge count must not be negative, got %d", aux.NumChallenges())
		}
		if aux.AuxWidth() == 0 && aux.NumChallenges() > 0 {
			return newError(ErrConfig,
				"AIR demands %d challenges but declares no auxiliary columns", aux.NumChallenges())
		}
	}
	return nil
}

// auxBuilderOf extracts the auxiliary capability of an AIR, treating a
// declared width of zero as absent: the auxiliary round is skipped entirely.
func auxBuilderOf(a air.Air) air.AuxTraceBuilder {
	if aux, ok := a.(air.AuxTraceBuilder); ok && aux.AuxWidth() > 0 {
		return aux
	}
	return nil
}

// boundElements is the element sequence bound into the transcript right
// after the main commitment: the trace height followed by the public values.
func boundElements(height int, publicValues []field.Element) []field.Element {
	elements := make([]field.Element, 0, 1+len(publicValues))
	elements = append(elements, field.New(uint64(height)))
	elements = append(elements, publicValues...)
	return elements
}
