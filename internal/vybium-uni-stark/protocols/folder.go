package protocols

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/air"
)

// folderCore is the accumulation logic shared by both folders: every
// asserted constraint is folded into one scalar via a random linear
// combination in Horner form, acc <- acc*alpha + c. Prover and verifier
// evaluate the same constraints in the same order, so the folded values
// agree whenever the openings do.
type folderCore struct {
	alpha       xfield.XFieldElement
	accumulator xfield.XFieldElement
	challenges  []xfield.XFieldElement
	constraints int
}

// Challenges returns the auxiliary-phase challenges, in sampling order.
func (f *folderCore) Challenges() []xfield.XFieldElement {
	return f.challenges
}

// AssertZero folds the constraint c into the accumulator.
func (f *folderCore) AssertZero(c xfield.XFieldElement) {
	f.accumulator = f.accumulator.Mul(f.alpha).Add(c)
	f.constraints++
}

// AssertEqual folds the constraint a - b.
func (f *folderCore) AssertEqual(a, b xfield.XFieldElement) {
	f.AssertZero(a.Sub(b))
}

// AssertZeroWhen folds the constraint selector * c.
func (f *folderCore) AssertZeroWhen(selector, c xfield.XFieldElement) {
	f.AssertZero(selector.Mul(c))
}

// Accumulator returns the folded constraint value.
func (f *folderCore) Accumulator() xfield.XFieldElement {
	return f.accumulator
}

// ProverFolder evaluates an AIR's constraints at one point of the quotient
// domain. The prover constructs one folder per point, with the main and
// auxiliary row-pair windows read off the low-degree extensions of the
// committed traces.
type ProverFolder struct {
	folderCore
	main      air.Window
	aux       air.Window
	selectors Selectors
}

// NewProverFolder creates a folder over concrete row-pair windows.
func NewProverFolder(main, aux air.Window, challenges []xfield.XFieldElement, selectors Selectors, alpha xfield.XFieldElement) *ProverFolder {
	return &ProverFolder{
		folderCore: folderCore{alpha: alpha, accumulator: xfield.Zero, challenges: challenges},
		main:       main,
		aux:        aux,
		selectors:  selectors,
	}
}

// Main returns the main-trace window.
func (f *ProverFolder) Main() air.Window { return f.main }

// Aux returns the auxiliary-trace window; empty when the AIR declares no
// auxiliary columns.
func (f *ProverFolder) Aux() air.Window { return f.aux }

// IsFirstRow returns the first-row selector at the evaluation point.
func (f *ProverFolder) IsFirstRow() xfield.XFieldElement { return f.selectors.IsFirstRow }

// IsLastRow returns the last-row selector at the evaluation point.
func (f *ProverFolder) IsLastRow() xfield.XFieldElement { return f.selectors.IsLastRow }

// IsTransition returns the transition selector at the evaluation point.
func (f *ProverFolder) IsTransition() xfield.XFieldElement { return f.selectors.IsTransition }

// VerifierFolder evaluates an AIR's constraints exactly once, at the
// out-of-domain point zeta, over the opened rows carried by the proof
// instead of a full trace.
type VerifierFolder struct {
	folderCore
	main      air.Window
	aux       air.Window
	selectors Selectors
}

// NewVerifierFolder creates a folder over the opened rows at (zeta, zeta*g).
func NewVerifierFolder(
	mainLocal, mainNext, auxLocal, auxNext []xfield.XFieldElement,
	challenges []xfield.XFieldElement,
	selectors Selectors,
	alpha xfield.XFieldElement,
) *VerifierFolder {
	return &VerifierFolder{
		folderCore: folderCore{alpha: alpha, accumulator: xfield.Zero, challenges: challenges},
		main:       air.Window{Local: mainLocal, Next: mainNext},
		aux:        air.Window{Local: auxLocal, Next: auxNext},
		selectors:  selectors,
	}
}

// Main returns the opened main-trace window.
func (f *VerifierFolder) Main() air.Window { return f.main }

// Aux returns the opened auxiliary-trace window.
func (f *VerifierFolder) Aux() air.Window { return f.aux }

// IsFirstRow returns the first-row selector at zeta.
func (f *VerifierFolder) IsFirstRow() xfield.XFieldElement { return f.selectors.IsFirstRow }

// IsLastRow returns the last-row selector at zeta.
func (f *VerifierFolder) IsLastRow() xfield.XFieldElement { return f.selectors.IsLastRow }

// IsTransition returns the transition selector at zeta.
func (f *VerifierFolder) IsTransition() xfield.XFieldElement { return f.selectors.IsTransition }
