package protocols

import (
	"bytes"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/air"
	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/airs"
)

// noAuxFibonacci declares the auxiliary capability with width zero; the
// auxiliary round must be skipped entirely, not run empty.
type noAuxFibonacci struct {
	*airs.Fibonacci
}

func (noAuxFibonacci) AuxWidth() int      { return 0 }
func (noAuxFibonacci) NumChallenges() int { return 0 }
func (noAuxFibonacci) BuildAuxTrace(*air.Matrix, []xfield.XFieldElement) (*air.XMatrix, error) {
	return nil, errors.New("no auxiliary trace")
}

// challengeHungry is a contradictory declaration: challenges without
// auxiliary columns. Construction must fail fast.
type challengeHungry struct {
	*airs.Fibonacci
}

func (challengeHungry) AuxWidth() int      { return 0 }
func (challengeHungry) NumChallenges() int { return 2 }
func (challengeHungry) BuildAuxTrace(*air.Matrix, []xfield.XFieldElement) (*air.XMatrix, error) {
	return nil, errors.New("no auxiliary trace")
}

// valueIndex is a two-column AIR: an arbitrary value column and an index
// column counting up from zero, with a lookup-style auxiliary column holding
// 1/(value + beta).
type valueIndex struct{}

func (valueIndex) Width() int         { return 2 }
func (valueIndex) AuxWidth() int      { return 1 }
func (valueIndex) NumChallenges() int { return 1 }

func (valueIndex) Eval(b air.Builder) {
	m := b.Main()
	index, indexNext := m.Local[1], m.Next[1]

	b.AssertZeroWhen(b.IsFirstRow(), index)
	b.AssertZeroWhen(b.IsTransition(), indexNext.Sub(index).Sub(xfield.One))

	beta := b.Challenges()[0]
	aux := b.Aux().Local[0]
	b.AssertZero(aux.Mul(m.Local[0].Add(beta)).Sub(xfield.One))
}

func (valueIndex) BuildAuxTrace(main *air.Matrix, challenges []xfield.XFieldElement) (*air.XMatrix, error) {
	beta := challenges[0]
	values := make([]xfield.XFieldElement, main.Height())
	for i := range values {
		denom := air.Lift(main.At(i, 0)).Add(beta)
		if denom.IsZero() {
			return nil, errors.New("denominator is zero")
		}
		values[i] = denom.Inverse()
	}
	return air.NewXMatrix(values, 1)
}

// rowWrap is a single-column AIR whose transition constraint is not gated:
// the column holds g^i, so next = g * cur holds on every row including the
// cyclic wrap from the last row back to the first.
type rowWrap struct {
	generator field.Element
}

func (a rowWrap) Width() int { return 1 }

func (a rowWrap) Eval(b air.Builder) {
	m := b.Main()
	b.AssertZeroWhen(b.IsFirstRow(), m.Local[0].Sub(xfield.One))
	b.AssertEqual(m.Next[0], air.Lift(a.generator).Mul(m.Local[0]))
}

func fibSetup(t *testing.T, height int, logup bool) (air.Air, *air.Matrix, []field.Element) {
	t.Helper()
	result := airs.Result(height)
	var a air.Air
	if logup {
		a = airs.NewFibonacciLogUp(result)
	} else {
		a = airs.NewFibonacci(result)
	}
	trace, err := airs.NewFibonacci(result).Trace(height)
	if err != nil {
		t.Fatalf("Failed to build trace: %v", err)
	}
	return a, trace, []field.Element{result}
}

func prove(t *testing.T, a air.Air, trace *air.Matrix, public []field.Element) *Proof {
	t.Helper()
	prover, err := NewProver(DefaultParameters(), a)
	if err != nil {
		t.Fatalf("Failed to create prover: %v", err)
	}
	proof, err := prover.Prove(trace, public)
	if err != nil {
		t.Fatalf("Proving failed: %v", err)
	}
	return proof
}

func verify(t *testing.T, a air.Air, proof *Proof, public []field.Element) error {
	t.Helper()
	verifier, err := NewVerifier(DefaultParameters(), a)
	if err != nil {
		t.Fatalf("Failed to create verifier: %v", err)
	}
	return verifier.Verify(proof, public)
}

func TestProveAndVerifyFibonacci(t *testing.T) {
	a, trace, public := fibSetup(t, 8, false)
	proof := prove(t, a, trace, public)

	if proof.AuxRoot != nil || proof.AuxOpening != nil {
		t.Error("Proof without auxiliary trace should carry no auxiliary data")
	}
	if proof.Log2Height != 3 {
		t.Errorf("Expected log2 height 3, got %d", proof.Log2Height)
	}
	if err := verify(t, a, proof, public); err != nil {
		t.Fatalf("Verification failed: %v", err)
	}
}

func TestProveAndVerifyFibonacciLogUp(t *testing.T) {
	a, trace, public := fibSetup(t, 8, true)
	proof := prove(t, a, trace, public)

	if proof.AuxRoot == nil || proof.AuxOpening == nil {
		t.Fatal("Proof with auxiliary trace should carry auxiliary data")
	}
	if len(proof.Opened.AuxLocal) != 1 || len(proof.Opened.AuxNext) != 1 {
		t.Fatal("Opened auxiliary rows should have width 1")
	}
	if err := verify(t, a, proof, public); err != nil {
		t.Fatalf("Verification failed: %v", err)
	}
}

func TestAuxiliaryRoundSkipped(t *testing.T) {
	_, trace, public := fibSetup(t, 8, false)
	a := noAuxFibonacci{airs.NewFibonacci(airs.Result(8))}

	proof := prove(t, a, trace, public)
	if proof.AuxRoot != nil {
		t.Error("Zero auxiliary width should skip the auxiliary round")
	}
	if err := verify(t, a, proof, public); err != nil {
		t.Fatalf("Verification failed: %v", err)
	}
}

func TestProveAndVerifyValueIndex(t *testing.T) {
	values := make([]field.Element, 0, 16)
	for i := 0; i < 8; i++ {
		values = append(values, field.New(uint64(i*i+5)), field.New(uint64(i)))
	}
	trace, err := air.NewMatrix(values, 2)
	if err != nil {
		t.Fatalf("Failed to build trace: %v", err)
	}

	a := valueIndex{}
	proof := prove(t, a, trace, nil)
	if proof.AuxRoot == nil {
		t.Fatal("Proof should carry an auxiliary commitment")
	}
	if err := verify(t, a, proof, nil); err != nil {
		t.Fatalf("Verification failed: %v", err)
	}
}

func TestRowWrapConstraint(t *testing.T) {
	domain, err := NewArithmeticDomain(8)
	if err != nil {
		t.Fatalf("Failed to create domain: %v", err)
	}

	trace, err := air.NewMatrix(domain.Elements(), 1)
	if err != nil {
		t.Fatalf("Failed to build trace: %v", err)
	}

	a := rowWrap{generator: domain.Generator}
	proof := prove(t, a, trace, nil)
	if err := verify(t, a, proof, nil); err != nil {
		t.Fatalf("Verification failed: %v", err)
	}
}

func TestSetupValidation(t *testing.T) {
	t.Run("ChallengesWithoutAuxColumns", func(t *testing.T) {
		a := challengeHungry{airs.NewFibonacci(airs.Result(8))}
		if _, err := NewProver(DefaultParameters(), a); !IsCode(err, ErrConfig) {
			t.Errorf("Expected config error from prover, got %v", err)
		}
		if _, err := NewVerifier(DefaultParameters(), a); !IsCode(err, ErrConfig) {
			t.Errorf("Expected config error from verifier, got %v", err)
		}
	})

	t.Run("NilAir", func(t *testing.T) {
		if _, err := NewProver(DefaultParameters(), nil); !IsCode(err, ErrConfig) {
			t.Errorf("Expected config error, got %v", err)
		}
	})

	t.Run("InvalidParameters", func(t *testing.T) {
		params := Parameters{MaxConstraintDegree: 1, CosetOffset: 7}
		if _, err := NewProver(params, airs.NewFibonacci(airs.Result(8))); !IsCode(err, ErrConfig) {
			t.Errorf("Expected config error, got %v", err)
		}

		params = Parameters{MaxConstraintDegree: 3, CosetOffset: 0}
		if _, err := NewVerifier(params, airs.NewFibonacci(airs.Result(8))); !IsCode(err, ErrConfig) {
			t.Errorf("Expected config error, got %v", err)
		}
	})
}

func TestProveInputValidation(t *testing.T) {
	a, trace, public := fibSetup(t, 8, false)
	prover, err := NewProver(DefaultParameters(), a)
	if err != nil {
		t.Fatalf("Failed to create prover: %v", err)
	}

	t.Run("NilTrace", func(t *testing.T) {
		if _, err := prover.Prove(nil, public); !IsCode(err, ErrConfig) {
			t.Errorf("Expected config error, got %v", err)
		}
	})

	t.Run("WrongWidth", func(t *testing.T) {
		narrow, err := air.NewMatrix(trace.Column(0), 1)
		if err != nil {
			t.Fatalf("Failed to build matrix: %v", err)
		}
		if _, err := prover.Prove(narrow, public); !IsCode(err, ErrConfig) {
			t.Errorf("Expected config error, got %v", err)
		}
	})

	t.Run("NonPowerOfTwoHeight", func(t *testing.T) {
		short, err := air.NewMatrix(make([]field.Element, 6*2), 2)
		if err != nil {
			t.Fatalf("Failed to build matrix: %v", err)
		}
		if _, err := prover.Prove(short, public); !IsCode(err, ErrConfig) {
			t.Errorf("Expected config error, got %v", err)
		}
	})

	t.Run("HeightOne", func(t *testing.T) {
		tiny, err := air.NewMatrix(make([]field.Element, 2), 2)
		if err != nil {
			t.Fatalf("Failed to build matrix: %v", err)
		}
		if _, err := prover.Prove(tiny, public); !IsCode(err, ErrConfig) {
			t.Errorf("Expected config error, got %v", err)
		}
	})
}

func TestCrossVerification(t *testing.T) {
	plainAir, trace, public := fibSetup(t, 8, false)
	logupAir, _, _ := fibSetup(t, 8, true)

	plainProof := prove(t, plainAir, trace, public)
	logupProof := prove(t, logupAir, trace, public)

	t.Run("AuxProofAgainstPlainAir", func(t *testing.T) {
		if err := verify(t, plainAir, logupProof, public); !IsCode(err, ErrMalformedProof) {
			t.Errorf("Expected malformed proof error, got %v", err)
		}
	})

	t.Run("PlainProofAgainstAuxAir", func(t *testing.T) {
		if err := verify(t, logupAir, plainProof, public); !IsCode(err, ErrMalformedProof) {
			t.Errorf("Expected malformed proof error, got %v", err)
		}
	})

	t.Run("StrippedAuxData", func(t *testing.T) {
		stripped := *logupProof
		stripped.AuxRoot = nil
		stripped.AuxOpening = nil
		stripped.Opened.AuxLocal = nil
		stripped.Opened.AuxNext = nil
		if err := verify(t, logupAir, &stripped, public); !IsCode(err, ErrMalformedProof) {
			t.Errorf("Expected malformed proof error, got %v", err)
		}
	})
}

func TestTamperedProof(t *testing.T) {
	a, trace, public := fibSetup(t, 8, true)
	original := prove(t, a, trace, public)

	clone := func() *Proof {
		data, err := original.Serialize()
		if err != nil {
			t.Fatalf("Failed to serialize: %v", err)
		}
		p, err := DeserializeProof(data)
		if err != nil {
			t.Fatalf("Failed to deserialize: %v", err)
		}
		return p
	}

	t.Run("NilProof", func(t *testing.T) {
		if err := verify(t, a, nil, public); !IsCode(err, ErrMalformedProof) {
			t.Errorf("Expected malformed proof error, got %v", err)
		}
	})

	t.Run("InsaneHeight", func(t *testing.T) {
		p := clone()
		p.Log2Height = 0
		if err := verify(t, a, p, public); !IsCode(err, ErrMalformedProof) {
			t.Errorf("Expected malformed proof error, got %v", err)
		}
		p.Log2Height = 40
		if err := verify(t, a, p, public); !IsCode(err, ErrMalformedProof) {
			t.Errorf("Expected malformed proof error, got %v", err)
		}
	})

	t.Run("OversizedHeight", func(t *testing.T) {
		// A declared height beyond the cap must be rejected before any
		// domain is built, so one malformed proof cannot force the verifier
		// into a huge allocation.
		p := clone()
		p.Log2Height = 30
		if err := verify(t, a, p, public); !IsCode(err, ErrMalformedProof) {
			t.Errorf("Expected malformed proof error, got %v", err)
		}
	})

	t.Run("TamperedOpenedValue", func(t *testing.T) {
		p := clone()
		p.Opened.MainLocal[0] = p.Opened.MainLocal[0].Add(xfield.One)
		if err := verify(t, a, p, public); !IsCode(err, ErrConstraintViolation) {
			t.Errorf("Expected constraint violation, got %v", err)
		}
	})

	t.Run("TamperedQuotientValue", func(t *testing.T) {
		p := clone()
		p.Opened.Quotient[0] = p.Opened.Quotient[0].Add(xfield.One)
		if err := verify(t, a, p, public); !IsCode(err, ErrConstraintViolation) {
			t.Errorf("Expected constraint violation, got %v", err)
		}
	})

	t.Run("TamperedOpeningCoefficient", func(t *testing.T) {
		p := clone()
		p.MainOpening.Columns[0][0] = p.MainOpening.Columns[0][0].Add(xfield.One)
		if err := verify(t, a, p, public); !IsCode(err, ErrOpeningInvalid) {
			t.Errorf("Expected opening invalid error, got %v", err)
		}
	})

	t.Run("TamperedAuxOpeningCoefficient", func(t *testing.T) {
		p := clone()
		p.AuxOpening.Columns[0][0] = p.AuxOpening.Columns[0][0].Add(xfield.One)
		if err := verify(t, a, p, public); !IsCode(err, ErrOpeningInvalid) {
			t.Errorf("Expected opening invalid error, got %v", err)
		}
	})

	t.Run("WrongPublicValues", func(t *testing.T) {
		p := clone()
		wrong := []field.Element{public[0].Add(field.One)}
		if err := verify(t, a, p, wrong); !IsCode(err, ErrConstraintViolation) {
			t.Errorf("Expected constraint violation, got %v", err)
		}
	})
}

func TestInvalidTraceRejected(t *testing.T) {
	a, trace, public := fibSetup(t, 8, false)

	// Break the Fibonacci recurrence in one cell.
	values := make([]field.Element, 0, 16)
	for i := 0; i < 8; i++ {
		values = append(values, trace.At(i, 0), trace.At(i, 1))
	}
	values[9] = values[9].Add(field.One)
	broken, err := air.NewMatrix(values, 2)
	if err != nil {
		t.Fatalf("Failed to build matrix: %v", err)
	}

	proof := prove(t, a, broken, public)
	if err := verify(t, a, proof, public); err == nil {
		t.Fatal("Proof over an invalid trace should be rejected")
	}
}

func TestProofRoundTripThroughWire(t *testing.T) {
	a, trace, public := fibSetup(t, 8, true)
	proof := prove(t, a, trace, public)

	data, err := proof.Serialize()
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	decoded, err := DeserializeProof(data)
	if err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}
	if err := verify(t, a, decoded, public); err != nil {
		t.Fatalf("Verification of decoded proof failed: %v", err)
	}
}

func TestProvingIsDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 4
	properties := gopter.NewProperties(parameters)

	properties.Property("identical inputs produce identical proofs", prop.ForAll(
		func(logHeight int) bool {
			height := 1 << logHeight
			a, trace, public := fibSetup(t, height, true)

			first := prove(t, a, trace, public)
			second := prove(t, a, trace, public)

			firstBytes, err := first.Serialize()
			if err != nil {
				return false
			}
			secondBytes, err := second.Serialize()
			if err != nil {
				return false
			}
			return bytes.Equal(firstBytes, secondBytes)
		},
		gen.IntRange(1, 4),
	))

	properties.TestingRun(t)
}
