package protocols

// Parameters contains the tunable parameters of the proof system.
//
// Parameters are proof-invariant: prover and verifier must be constructed
// with identical parameters or the transcripts desynchronize.
type Parameters struct {
	// MaxConstraintDegree bounds the total degree of any expression an AIR
	// asserts, counting selector factors. The quotient domain is blown up
	// to the next power of two of this bound, so declaring it too small
	// breaks completeness while declaring it too large only costs work.
	MaxConstraintDegree int

	// CosetOffset shifts the quotient evaluation domain off the trace
	// subgroup. Any non-zero element outside the subgroup works; prover
	// and verifier must agree on it.
	CosetOffset uint64
}

// DefaultParameters returns parameters suitable for AIRs of degree up to
// three, which covers transition constraints gated by a boundary selector.
func DefaultParameters() Parameters {
	return Parameters{
		MaxConstraintDegree: 3,
		CosetOffset:         7,
	}
}

// Validate checks if the parameters are valid.
func (p Parameters) Validate() error {
	if p.MaxConstraintDegree < 2 {
		return newError(ErrConfig, "max constraint degree must be at least 2, got %d", p.MaxConstraintDegree)
	}
	if p.MaxConstraintDegree > 64 {
		return newError(ErrConfig, "max constraint degree %d is unreasonably large", p.MaxConstraintDegree)
	}
	if p.CosetOffset == 0 {
		return newError(ErrConfig, "coset offset must be non-zero")
	}
	return nil
}

// quotientBlowup is the ratio between the quotient domain and the trace
// domain. With blowup >= MaxConstraintDegree the quotient polynomial always
// fits the quotient domain.
func (p Parameters) quotientBlowup() int {
	return nextPowerOfTwo(p.MaxConstraintDegree)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

func ilog2(n int) int {
	log := 0
	for n > 1 {
		n >>= 1
		log++
	}
	return log
}
