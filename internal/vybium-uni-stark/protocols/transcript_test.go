package protocols

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

func testDigest(seed uint64) hash.Digest {
	var d hash.Digest
	for i := range d {
		d[i] = field.New(seed + uint64(i))
	}
	return d
}

func TestTranscriptDeterminism(t *testing.T) {
	a, b := NewTranscript(), NewTranscript()

	a.Observe(testDigest(1))
	b.Observe(testDigest(1))
	a.ObserveElements([]field.Element{field.New(8), field.New(21)})
	b.ObserveElements([]field.Element{field.New(8), field.New(21)})

	x, err := a.Sample()
	if err != nil {
		t.Fatalf("Failed to sample: %v", err)
	}
	y, err := b.Sample()
	if err != nil {
		t.Fatalf("Failed to sample: %v", err)
	}
	if !x.Equal(y) {
		t.Error("Identical transcripts should produce identical challenges")
	}
}

func TestTranscriptBinding(t *testing.T) {
	t.Run("DifferentObservations", func(t *testing.T) {
		a, b := NewTranscript(), NewTranscript()
		a.Observe(testDigest(1))
		b.Observe(testDigest(2))

		x, _ := a.Sample()
		y, _ := b.Sample()
		if x.Equal(y) {
			t.Error("Different observations should produce different challenges")
		}
	})

	t.Run("ObservationOrder", func(t *testing.T) {
		a, b := NewTranscript(), NewTranscript()
		a.Observe(testDigest(1))
		a.Observe(testDigest(2))
		b.Observe(testDigest(2))
		b.Observe(testDigest(1))

		x, _ := a.Sample()
		y, _ := b.Sample()
		if x.Equal(y) {
			t.Error("Observation order should change the challenges")
		}
	})
}

func TestSampleMany(t *testing.T) {
	a, b := NewTranscript(), NewTranscript()
	a.Observe(testDigest(1))
	b.Observe(testDigest(1))

	many, err := a.SampleMany(3)
	if err != nil {
		t.Fatalf("Failed to sample: %v", err)
	}
	if len(many) != 3 {
		t.Fatalf("Expected 3 challenges, got %d", len(many))
	}

	first, err := b.SampleMany(3)
	if err != nil {
		t.Fatalf("Failed to sample: %v", err)
	}
	for i := range many {
		if !many[i].Equal(first[i]) {
			t.Errorf("Challenge %d differs between identical transcripts", i)
		}
	}
}
