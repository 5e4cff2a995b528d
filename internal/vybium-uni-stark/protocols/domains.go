package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/air"
)

// ArithmeticDomain is a coset of a multiplicative subgroup:
// {offset * generator^i : i = 0..length-1}.
//
// All domains have power-of-2 lengths. The trace domain has offset one; the
// quotient domain is shifted by a coset offset so that the vanishing
// polynomial of the trace domain is invertible on it.
type ArithmeticDomain struct {
	// Offset shifts the domain (field.One for no offset)
	Offset field.Element

	// Generator is a primitive n-th root of unity where n = length
	Generator field.Element

	// Length is the number of elements in the domain (power of 2)
	Length int
}

// NewArithmeticDomain creates a domain with the given length and no offset.
func NewArithmeticDomain(length int) (*ArithmeticDomain, error) {
	if !isPowerOfTwo(length) {
		return nil, fmt.Errorf("domain length must be a power of 2, got %d", length)
	}

	// field.PrimitiveRootOfUnity hands back the raw table value without
	// Montgomery conversion, so its result does not have the stated order.
	// Build the generator from the table through field.New instead.
	root, ok := field.PrimitiveRoots[uint64(length)]
	if !ok {
		return nil, fmt.Errorf("no primitive root of unity of order %d", length)
	}
	generator := field.New(root)

	return &ArithmeticDomain{
		Offset:    field.One,
		Generator: generator,
		Length:    length,
	}, nil
}

// WithOffset returns a new domain with the given offset.
func (d *ArithmeticDomain) WithOffset(offset field.Element) *ArithmeticDomain {
	return &ArithmeticDomain{
		Offset:    offset,
		Generator: d.Generator,
		Length:    d.Length,
	}
}

// Elements returns all elements in the domain: {offset * generator^i}.
func (d *ArithmeticDomain) Elements() []field.Element {
	elements := make([]field.Element, d.Length)
	current := d.Offset
	for i := 0; i < d.Length; i++ {
		elements[i] = current
		current = current.Mul(d.Generator)
	}
	return elements
}

// NextPoint maps an evaluation point to the point one trace row further:
// multiplication by the domain generator. On the last row this wraps back to
// the first row, matching the cyclic next-row semantics of the builders.
func (d *ArithmeticDomain) NextPoint(zeta xfield.XFieldElement) xfield.XFieldElement {
	return zeta.Mul(air.Lift(d.Generator))
}

// VanishingAt evaluates the vanishing polynomial Z_H(x) = (x/offset)^n - 1
// of this domain at an extension-field point.
func (d *ArithmeticDomain) VanishingAt(zeta xfield.XFieldElement) xfield.XFieldElement {
	unshifted := zeta.Mul(air.Lift(d.Offset.Inverse()))
	return xpow(unshifted, d.Length).Sub(xfield.One)
}

// Selectors are the evaluations of the domain's row-selector polynomials at
// a single point. Prover and verifier compute them with identical formulas,
// the prover at every quotient-domain point, the verifier at zeta only.
type Selectors struct {
	IsFirstRow   xfield.XFieldElement
	IsLastRow    xfield.XFieldElement
	IsTransition xfield.XFieldElement
	InvVanishing xfield.XFieldElement
}

// SelectorsAt computes the selector values at the given point. The point
// must lie outside the domain; on the domain the vanishing polynomial is
// zero and the selectors degenerate.
func (d *ArithmeticDomain) SelectorsAt(zeta xfield.XFieldElement) (Selectors, error) {
	unshifted := zeta.Mul(air.Lift(d.Offset.Inverse()))
	vanishing := xpow(unshifted, d.Length).Sub(xfield.One)
	if vanishing.IsZero() {
		return Selectors{}, fmt.Errorf("point lies on the domain, selectors degenerate")
	}

	genInverse := air.Lift(d.Generator.Inverse())
	firstDenom := unshifted.Sub(xfield.One)
	lastDenom := unshifted.Sub(genInverse)
	if firstDenom.IsZero() || lastDenom.IsZero() {
		return Selectors{}, fmt.Errorf("point collides with a boundary row, selectors degenerate")
	}

	return Selectors{
		IsFirstRow:   vanishing.Mul(firstDenom.Inverse()),
		IsLastRow:    vanishing.Mul(lastDenom.Inverse()),
		IsTransition: lastDenom,
		InvVanishing: vanishing.Inverse(),
	}, nil
}

// String returns a human-readable representation.
func (d *ArithmeticDomain) String() string {
	return fmt.Sprintf("Domain{length: %d, offset: %v, generator: %v}",
		d.Length, d.Offset, d.Generator)
}
