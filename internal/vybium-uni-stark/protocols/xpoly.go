package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/air"
)

// Extension-field polynomial helpers. The vybium-crypto polynomial package
// only covers base-field coefficients; auxiliary and quotient columns carry
// extension-field values, so interpolation and evaluation over those columns
// is done here. Evaluation points are always base-field domain elements.

// evalExt evaluates a polynomial with extension-field coefficients at an
// extension-field point using Horner's rule.
func evalExt(coeffs []xfield.XFieldElement, x xfield.XFieldElement) xfield.XFieldElement {
	result := xfield.Zero
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(coeffs[i])
	}
	return result
}

// xpow raises an extension-field element to a non-negative power by
// square-and-multiply.
func xpow(x xfield.XFieldElement, n int) xfield.XFieldElement {
	result := xfield.One
	base := x
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	return result
}

// liftCoeffs lifts base-field polynomial coefficients into the extension
// field, padding with zeros up to the requested length.
func liftCoeffs(coeffs []field.Element, length int) []xfield.XFieldElement {
	out := make([]xfield.XFieldElement, length)
	for i := range out {
		if i < len(coeffs) {
			out[i] = air.Lift(coeffs[i])
		} else {
			out[i] = xfield.Zero
		}
	}
	return out
}

// interpolateExt computes the coefficients of the unique polynomial of
// degree < n passing through (xs[i], ys[i]) with base-field abscissae and
// extension-field ordinates. Plain Lagrange interpolation: the master
// polynomial M(X) = prod (X - xs[i]) is divided synthetically by each root,
// and the resulting basis polynomials are scaled and summed.
func interpolateExt(xs []field.Element, ys []xfield.XFieldElement) ([]xfield.XFieldElement, error) {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return nil, fmt.Errorf("interpolation needs matching non-empty point slices, got %d/%d", len(xs), len(ys))
	}

	// master[0..n] with master[n] = 1
	master := make([]field.Element, n+1)
	master[0] = field.One
	degree := 0
	for _, x := range xs {
		// multiply running product by (X - x)
		master[degree+1] = field.One
		for j := degree; j > 0; j-- {
			master[j] = master[j-1].Sub(master[j].Mul(x))
		}
		master[0] = field.Zero.Sub(master[0].Mul(x))
		degree++
	}

	result := make([]xfield.XFieldElement, n)
	for i := range result {
		result[i] = xfield.Zero
	}

	basis := make([]field.Element, n)
	for i := 0; i < n; i++ {
		// basis = master / (X - xs[i]) by synthetic division
		carry := master[n]
		for j := n - 1; j >= 0; j-- {
			basis[j] = carry
			carry = master[j].Add(carry.Mul(xs[i]))
		}
		if !carry.IsZero() {
			return nil, fmt.Errorf("interpolation abscissae are not distinct")
		}

		// denominator = basis(xs[i])
		denom := field.Zero
		for j := n - 1; j >= 0; j-- {
			denom = denom.Mul(xs[i]).Add(basis[j])
		}
		if denom.IsZero() {
			return nil, fmt.Errorf("interpolation abscissae are not distinct")
		}

		scale := ys[i].Mul(air.Lift(denom.Inverse()))
		for j := 0; j < n; j++ {
			result[j] = result[j].Add(scale.Mul(air.Lift(basis[j])))
		}
	}

	return result, nil
}
