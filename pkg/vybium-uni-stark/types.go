package vybiumunistark

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/air"
	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/airs"
	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/protocols"
)

// FieldElement is an element of the base field.
type FieldElement = field.Element

// ExtensionElement is an element of the degree-3 extension field. Challenges
// and auxiliary trace values live here.
type ExtensionElement = xfield.XFieldElement

// Air describes a constraint system over trace columns.
type Air = air.Air

// AuxTraceBuilder is the optional auxiliary-trace capability of an AIR.
type AuxTraceBuilder = air.AuxTraceBuilder

// Builder is the constraint-evaluation contract AIRs are written against.
type Builder = air.Builder

// Matrix is a row-major base-field trace matrix.
type Matrix = air.Matrix

// XMatrix is a row-major extension-field trace matrix.
type XMatrix = air.XMatrix

// Parameters are the static parameters shared by prover and verifier.
type Parameters = protocols.Parameters

// Proof is a complete proof artifact.
type Proof = protocols.Proof

// Prover generates proofs for one AIR.
type Prover = protocols.Prover

// Verifier checks proofs for one AIR.
type Verifier = protocols.Verifier

// ErrorCode classifies protocol failures.
type ErrorCode = protocols.ErrorCode

// Error codes returned by the pipeline.
const (
	ErrUnknown             = protocols.ErrUnknown
	ErrConfig              = protocols.ErrConfig
	ErrCommitFailed        = protocols.ErrCommitFailed
	ErrMalformedProof      = protocols.ErrMalformedProof
	ErrConstraintViolation = protocols.ErrConstraintViolation
	ErrOpeningInvalid      = protocols.ErrOpeningInvalid
)

// NewMatrix creates a row-major trace matrix from a flat value slice.
func NewMatrix(values []FieldElement, width int) (*Matrix, error) {
	return air.NewMatrix(values, width)
}

// DefaultParameters returns parameters suitable for AIRs of degree up to three.
func DefaultParameters() Parameters {
	return protocols.DefaultParameters()
}

// NewFibonacciAir creates the built-in Fibonacci AIR claiming the given
// final value.
func NewFibonacciAir(result FieldElement) Air {
	return airs.NewFibonacci(result)
}

// NewFibonacciLogUpAir creates the built-in Fibonacci AIR extended with a
// lookup-style auxiliary column.
func NewFibonacciLogUpAir(result FieldElement) Air {
	return airs.NewFibonacciLogUp(result)
}

// FibonacciTrace builds a satisfying trace of the given height for the
// built-in Fibonacci AIRs.
func FibonacciTrace(height int) (*Matrix, error) {
	return airs.NewFibonacci(airs.Result(height)).Trace(height)
}

// FibonacciResult returns the final value a height-n Fibonacci trace proves.
func FibonacciResult(height int) FieldElement {
	return airs.Result(height)
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	return protocols.IsCode(err, code)
}

// CodeOf extracts the error code from err, or ErrUnknown.
func CodeOf(err error) ErrorCode {
	return protocols.CodeOf(err)
}

// DeserializeProof decodes a proof produced by Proof.Serialize.
func DeserializeProof(data []byte) (*Proof, error) {
	return protocols.DeserializeProof(data)
}
