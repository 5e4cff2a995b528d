// Package airs provides ready-made AIRs. They double as executable
// documentation of the air.Builder contract: one plain constraint system and
// one with a challenge-dependent auxiliary trace.
package airs

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/air"
)

// Fibonacci proves knowledge of a Fibonacci trace: two columns (a, b) with
// a' = b and b' = a + b on every transition, both starting at one, ending
// with b equal to the claimed result.
//
// The claimed result is part of the AIR instance. Callers bind it into the
// transcript as a public value as well, so tampering with either side is
// caught.
type Fibonacci struct {
	result field.Element
}

// NewFibonacci creates a Fibonacci AIR claiming the given final b value.
func NewFibonacci(result field.Element) *Fibonacci {
	return &Fibonacci{result: result}
}

// Width returns the number of main trace columns.
func (f *Fibonacci) Width() int { return 2 }

// Eval registers the boundary and transition constraints.
func (f *Fibonacci) Eval(b air.Builder) {
	main := b.Main()
	a, bb := main.Local[0], main.Local[1]
	aNext, bNext := main.Next[0], main.Next[1]

	one := xfield.One
	b.AssertZeroWhen(b.IsFirstRow(), a.Sub(one))
	b.AssertZeroWhen(b.IsFirstRow(), bb.Sub(one))

	b.AssertZeroWhen(b.IsTransition(), aNext.Sub(bb))
	b.AssertZeroWhen(b.IsTransition(), bNext.Sub(a.Add(bb)))

	b.AssertZeroWhen(b.IsLastRow(), bb.Sub(air.Lift(f.result)))
}

// Trace builds a satisfying main trace of the given height.
func (f *Fibonacci) Trace(height int) (*air.Matrix, error) {
	values := make([]field.Element, 0, 2*height)
	a, b := field.One, field.One
	for i := 0; i < height; i++ {
		values = append(values, a, b)
		a, b = b, a.Add(b)
	}
	return air.NewMatrix(values, 2)
}

// Result computes the b value on the last row of a height-n trace, i.e. the
// value a valid proof must claim.
func Result(height int) field.Element {
	a, b := field.One, field.One
	for i := 1; i < height; i++ {
		a, b = b, a.Add(b)
	}
	return b
}

// FibonacciLogUp extends Fibonacci with a lookup-style auxiliary column:
// aux = 1/(a + beta) for a transcript challenge beta. The reciprocal exists
// only if the prover commits to the main trace before learning beta, which
// is exactly what the auxiliary round enforces.
type FibonacciLogUp struct {
	Fibonacci
}

// NewFibonacciLogUp creates the AIR claiming the given final b value.
func NewFibonacciLogUp(result field.Element) *FibonacciLogUp {
	return &FibonacciLogUp{Fibonacci: Fibonacci{result: result}}
}

// AuxWidth returns the number of auxiliary columns.
func (f *FibonacciLogUp) AuxWidth() int { return 1 }

// NumChallenges returns the number of challenges the auxiliary trace needs.
func (f *FibonacciLogUp) NumChallenges() int { return 1 }

// BuildAuxTrace fills the auxiliary column with 1/(a + beta).
func (f *FibonacciLogUp) BuildAuxTrace(main *air.Matrix, challenges []xfield.XFieldElement) (*air.XMatrix, error) {
	if len(challenges) != 1 {
		return nil, fmt.Errorf("expected 1 challenge, got %d", len(challenges))
	}
	beta := challenges[0]

	values := make([]xfield.XFieldElement, main.Height())
	for i := 0; i < main.Height(); i++ {
		denom := air.Lift(main.At(i, 0)).Add(beta)
		if denom.IsZero() {
			return nil, fmt.Errorf("row %d: denominator a + beta is zero", i)
		}
		values[i] = denom.Inverse()
	}
	return air.NewXMatrix(values, 1)
}

// Eval registers the Fibonacci constraints plus the reciprocal identity
// aux * (a + beta) = 1 on every row.
func (f *FibonacciLogUp) Eval(b air.Builder) {
	f.Fibonacci.Eval(b)

	beta := b.Challenges()[0]
	a := b.Main().Local[0]
	aux := b.Aux().Local[0]
	b.AssertZero(aux.Mul(a.Add(beta)).Sub(xfield.One))
}
