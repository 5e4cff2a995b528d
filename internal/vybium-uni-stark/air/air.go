// Package air defines the algebraic intermediate representation (AIR)
// capability interfaces of the proof system.
//
// An AIR is any type describing polynomial constraints over trace columns.
// Constraint logic and auxiliary-trace declaration are separate capabilities:
// a type always implements Air, and additionally implements AuxTraceBuilder
// when it carries a challenge-dependent auxiliary trace (permutation or
// lookup arguments). The two interfaces are independent so that constraint
// code never needs to know whether an auxiliary phase exists.
package air

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
)

// Air describes the constraint system over the trace columns.
//
// Eval is called with a Builder giving windowed access to the main and
// auxiliary columns; the same Eval body runs during proving (once per point
// of the quotient domain) and during verification (once, at the out-of-domain
// point). Constraint code must therefore be representation-agnostic: it only
// talks to the Builder contract.
type Air interface {
	// Width is the number of main trace columns.
	Width() int

	// Eval registers all constraints on the builder. The call order of
	// assertions must be deterministic; prover and verifier rely on
	// identical ordering when folding constraints.
	Eval(b Builder)
}

// AuxTraceBuilder declares the auxiliary phase of an AIR.
//
// AuxWidth and NumChallenges are fixed at AIR construction time. They are
// static protocol parameters, not per-proof values: they decide whether the
// auxiliary round of the protocol runs at all, on both the prover and the
// verifier side.
//
// BuildAuxTrace must be a pure function of its inputs: identical
// (main, challenges) pairs always produce identical output. The verifier
// never calls it.
type AuxTraceBuilder interface {
	// AuxWidth is the number of auxiliary columns. Zero means the entire
	// auxiliary phase is skipped, not merely empty.
	AuxWidth() int

	// NumChallenges is the number of transcript challenges the auxiliary
	// trace consumes. Must be zero whenever AuxWidth is zero.
	NumChallenges() int

	// BuildAuxTrace builds the auxiliary trace from the main trace and the
	// sampled challenges. The result must have AuxWidth columns and the
	// same height as the main trace.
	BuildAuxTrace(main *Matrix, challenges []xfield.XFieldElement) (*XMatrix, error)
}

// Window is a two-row view of a trace: the current row and the next row.
// The trace is cyclic, so the next row of the last row is row zero.
type Window struct {
	Local []xfield.XFieldElement
	Next  []xfield.XFieldElement
}

// Width returns the number of columns in the window.
func (w Window) Width() int {
	return len(w.Local)
}

// Builder is the constraint-evaluation contract shared by the proving and
// verifying folders. All values are extension-field elements; base-field
// trace values are lifted before they reach constraint code.
type Builder interface {
	// Main returns the main-trace window at (row, row+1).
	Main() Window

	// Aux returns the auxiliary-trace window at (row, row+1). When the AIR
	// has no auxiliary trace the window is empty and iterating it is a
	// no-op.
	Aux() Window

	// Challenges returns the transcript challenges sampled before the
	// auxiliary trace was built, in sampling order. Empty when the AIR has
	// no auxiliary trace.
	Challenges() []xfield.XFieldElement

	// IsFirstRow evaluates to one on the first trace row and zero on the
	// other rows of the trace domain.
	IsFirstRow() xfield.XFieldElement

	// IsLastRow evaluates to one on the last trace row and zero elsewhere.
	IsLastRow() xfield.XFieldElement

	// IsTransition vanishes on the last row only, enabling transition
	// constraints that exclude the cyclic wrap-around.
	IsTransition() xfield.XFieldElement

	// AssertZero folds the constraint c into the running accumulator.
	AssertZero(c xfield.XFieldElement)

	// AssertEqual is shorthand for AssertZero(a - b).
	AssertEqual(a, b xfield.XFieldElement)

	// AssertZeroWhen is shorthand for AssertZero(selector * c).
	AssertZeroWhen(selector, c xfield.XFieldElement)
}

// Lift embeds a base-field element into the extension field.
func Lift(e field.Element) xfield.XFieldElement {
	return xfield.New([3]field.Element{e, field.Zero, field.Zero})
}

// LiftRow lifts a base-field row into the extension field.
func LiftRow(row []field.Element) []xfield.XFieldElement {
	out := make([]xfield.XFieldElement, len(row))
	for i, e := range row {
		out[i] = Lift(e)
	}
	return out
}
