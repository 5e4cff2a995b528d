// Package vybiumunistark provides a minimal univariate STARK proving and
// verifying pipeline for user-defined AIRs.
//
// An AIR (algebraic intermediate representation) describes polynomial
// constraints over the columns of an execution trace. The prover commits to
// the trace, folds the constraints into a single quotient polynomial under
// Fiat-Shamir challenges, and opens all commitments at a random
// out-of-domain point; the verifier replays the transcript and checks the
// quotient identity against the openings.
//
// AIRs that implement AuxTraceBuilder additionally carry a
// challenge-dependent auxiliary trace, committed in its own round after the
// main trace. This enables lookup and permutation arguments whose columns
// depend on challenges the prover must not know in advance.
//
// # Quick Start
//
// Proving and verifying a Fibonacci trace:
//
//	air := vybiumunistark.NewFibonacciAir(result)
//	params := vybiumunistark.DefaultParameters()
//
//	proof, err := vybiumunistark.Prove(params, air, trace, publicValues)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := vybiumunistark.Verify(params, air, proof, publicValues); err != nil {
//		log.Fatal(err)
//	}
//
// Reusable Prover and Verifier values are available through NewProver and
// NewVerifier when many proofs share one AIR.
//
// # Architecture
//
//   - pkg/vybium-uni-stark/: Public API (this package)
//   - internal/vybium-uni-stark/: Private implementation (not importable)
//
// Verification failures are classified by error code; use IsCode or CodeOf
// to distinguish malformed proofs from constraint violations and invalid
// openings.
package vybiumunistark
