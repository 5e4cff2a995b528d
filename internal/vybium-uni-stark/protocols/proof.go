package protocols

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
	"golang.org/x/crypto/sha3"
)

// OpenedValues carries the committed traces' rows at the out-of-domain
// point zeta and at zeta*g (the next row). The quotient trace is opened at
// zeta only; its identity involves no next row.
type OpenedValues struct {
	MainLocal []xfield.XFieldElement
	MainNext  []xfield.XFieldElement
	AuxLocal  []xfield.XFieldElement
	AuxNext   []xfield.XFieldElement
	Quotient  []xfield.XFieldElement
}

// Proof is the complete proof artifact. The auxiliary commitment and
// opening are present exactly when the AIR declares a non-zero auxiliary
// width; the verifier rejects any other combination as malformed.
type Proof struct {
	MainRoot     hash.Digest
	AuxRoot      *hash.Digest
	QuotientRoot hash.Digest

	Opened OpenedValues

	MainOpening     *OpeningProof
	AuxOpening      *OpeningProof
	QuotientOpening *OpeningProof

	// Log2Height is the log2 of the trace height, fixing the domains the
	// verifier reconstructs.
	Log2Height int
}

// Wire representations: field and digest types carry unexported state, so
// serialization goes through plain integer forms. An extension element is
// its three base coefficients; a digest its five.

type xfieldWire [3]uint64

type digestWire [5]uint64

type openingWire struct {
	Columns [][]xfieldWire `cbor:"1,keyasint"`
}

type openedWire struct {
	MainLocal []xfieldWire `cbor:"1,keyasint"`
	MainNext  []xfieldWire `cbor:"2,keyasint"`
	AuxLocal  []xfieldWire `cbor:"3,keyasint,omitempty"`
	AuxNext   []xfieldWire `cbor:"4,keyasint,omitempty"`
	Quotient  []xfieldWire `cbor:"5,keyasint"`
}

type proofWire struct {
	MainRoot        digestWire   `cbor:"1,keyasint"`
	AuxRoot         *digestWire  `cbor:"2,keyasint,omitempty"`
	QuotientRoot    digestWire   `cbor:"3,keyasint"`
	Opened          openedWire   `cbor:"4,keyasint"`
	MainOpening     *openingWire `cbor:"5,keyasint"`
	AuxOpening      *openingWire `cbor:"6,keyasint,omitempty"`
	QuotientOpening *openingWire `cbor:"7,keyasint"`
	Log2Height      int          `cbor:"8,keyasint"`
}

// Serialize encodes the proof with CBOR.
func (p *Proof) Serialize() ([]byte, error) {
	wire := proofWire{
		MainRoot:        digestToWire(p.MainRoot),
		QuotientRoot:    digestToWire(p.QuotientRoot),
		Opened:          openedToWire(p.Opened),
		MainOpening:     openingToWire(p.MainOpening),
		QuotientOpening: openingToWire(p.QuotientOpening),
		Log2Height:      p.Log2Height,
	}
	if p.AuxRoot != nil {
		w := digestToWire(*p.AuxRoot)
		wire.AuxRoot = &w
	}
	if p.AuxOpening != nil {
		wire.AuxOpening = openingToWire(p.AuxOpening)
	}

	data, err := cbor.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("failed to encode proof: %w", err)
	}
	return data, nil
}

// DeserializeProof decodes a proof produced by Serialize.
func DeserializeProof(data []byte) (*Proof, error) {
	var wire proofWire
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode proof: %w", err)
	}

	proof := &Proof{
		MainRoot:        digestFromWire(wire.MainRoot),
		QuotientRoot:    digestFromWire(wire.QuotientRoot),
		Opened:          openedFromWire(wire.Opened),
		MainOpening:     openingFromWire(wire.MainOpening),
		QuotientOpening: openingFromWire(wire.QuotientOpening),
		Log2Height:      wire.Log2Height,
	}
	if wire.AuxRoot != nil {
		d := digestFromWire(*wire.AuxRoot)
		proof.AuxRoot = &d
	}
	if wire.AuxOpening != nil {
		proof.AuxOpening = openingFromWire(wire.AuxOpening)
	}
	return proof, nil
}

// Digest returns a stable fingerprint of the serialized proof, useful for
// logging and artifact naming.
func (p *Proof) Digest() ([32]byte, error) {
	data, err := p.Serialize()
	if err != nil {
		return [32]byte{}, err
	}
	return sha3.Sum256(data), nil
}

func xfieldToWire(x xfield.XFieldElement) xfieldWire {
	coeffs := x.Coefficients
	return xfieldWire{coeffs[0].Value(), coeffs[1].Value(), coeffs[2].Value()}
}

func xfieldFromWire(w xfieldWire) xfield.XFieldElement {
	return xfield.New([3]field.Element{field.New(w[0]), field.New(w[1]), field.New(w[2])})
}

func xfieldsToWire(xs []xfield.XFieldElement) []xfieldWire {
	if xs == nil {
		return nil
	}
	out := make([]xfieldWire, len(xs))
	for i, x := range xs {
		out[i] = xfieldToWire(x)
	}
	return out
}

func xfieldsFromWire(ws []xfieldWire) []xfield.XFieldElement {
	if ws == nil {
		return nil
	}
	out := make([]xfield.XFieldElement, len(ws))
	for i, w := range ws {
		out[i] = xfieldFromWire(w)
	}
	return out
}

func digestToWire(d hash.Digest) digestWire {
	var w digestWire
	for i := range d {
		w[i] = d[i].Value()
	}
	return w
}

func digestFromWire(w digestWire) hash.Digest {
	var d hash.Digest
	for i := range w {
		d[i] = field.New(w[i])
	}
	return d
}

func openingToWire(p *OpeningProof) *openingWire {
	if p == nil {
		return nil
	}
	cols := make([][]xfieldWire, len(p.Columns))
	for i, c := range p.Columns {
		cols[i] = xfieldsToWire(c)
	}
	return &openingWire{Columns: cols}
}

func openingFromWire(w *openingWire) *OpeningProof {
	if w == nil {
		return nil
	}
	cols := make([][]xfield.XFieldElement, len(w.Columns))
	for i, c := range w.Columns {
		cols[i] = xfieldsFromWire(c)
	}
	return &OpeningProof{Columns: cols}
}

func openedToWire(o OpenedValues) openedWire {
	return openedWire{
		MainLocal: xfieldsToWire(o.MainLocal),
		MainNext:  xfieldsToWire(o.MainNext),
		AuxLocal:  xfieldsToWire(o.AuxLocal),
		AuxNext:   xfieldsToWire(o.AuxNext),
		Quotient:  xfieldsToWire(o.Quotient),
	}
}

func openedFromWire(w openedWire) OpenedValues {
	return OpenedValues{
		MainLocal: xfieldsFromWire(w.MainLocal),
		MainNext:  xfieldsFromWire(w.MainNext),
		AuxLocal:  xfieldsFromWire(w.AuxLocal),
		AuxNext:   xfieldsFromWire(w.AuxNext),
		Quotient:  xfieldsFromWire(w.Quotient),
	}
}
