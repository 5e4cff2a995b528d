package protocols

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/merkle"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/polynomial"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"

	"github.com/vybium/vybium-uni-stark/internal/vybium-uni-stark/air"
)

// MatrixCommitmentScheme binds evaluation matrices to opaque digests and
// verifies claimed out-of-domain row openings against them.
//
// Commit interpolates every column over the matrix's evaluation domain and
// Merkle-commits to the matrix rows (Tip5 row hashes as leaves, following the
// trace commitment of Triton-style provers). Open reveals the column
// polynomials in coefficient form. Verify re-evaluates the coefficients over
// the domain, recomputes the Merkle root, and checks every claimed opening
// by direct evaluation; the fixed coefficient count doubles as the degree
// bound. The scheme is transparent and non-succinct: proofs grow linearly
// with the matrix. It sits behind the same Commit/Open/Verify surface as a
// succinct polynomial commitment scheme, so swapping in one is a local
// change.
type MatrixCommitmentScheme struct{}

// NewMatrixCommitmentScheme creates the commitment scheme.
func NewMatrixCommitmentScheme() *MatrixCommitmentScheme {
	return &MatrixCommitmentScheme{}
}

// ProverData is the openable prover-side counterpart of a commitment.
// Column polynomials are kept in extension-field coefficient form
// regardless of whether the committed matrix was a base-field trace.
type ProverData struct {
	domain  *ArithmeticDomain
	columns [][]xfield.XFieldElement
	root    hash.Digest
}

// Root returns the commitment this data belongs to.
func (d *ProverData) Root() hash.Digest {
	return d.root
}

// RowAt evaluates all committed columns at the given point, yielding the
// virtual matrix row at that point.
func (d *ProverData) RowAt(point xfield.XFieldElement) []xfield.XFieldElement {
	row := make([]xfield.XFieldElement, len(d.columns))
	for i, coeffs := range d.columns {
		row[i] = evalExt(coeffs, point)
	}
	return row
}

// OpeningProof reveals the committed column polynomials in coefficient
// form. Coefficient count equals the domain length, which is exactly the
// degree bound the verifier enforces.
type OpeningProof struct {
	Columns [][]xfield.XFieldElement
}

// Commit commits to a base-field matrix evaluated over the given domain.
func (s *MatrixCommitmentScheme) Commit(domain *ArithmeticDomain, m *air.Matrix) (hash.Digest, *ProverData, error) {
	if m.Height() != domain.Length {
		return hash.Digest{}, nil, fmt.Errorf("matrix height %d does not match domain length %d", m.Height(), domain.Length)
	}

	points := domain.Elements()
	columns := make([][]xfield.XFieldElement, m.Width())
	for col := 0; col < m.Width(); col++ {
		values := m.Column(col)
		pairs := make([][2]field.Element, len(values))
		for i := range values {
			pairs[i] = [2]field.Element{points[i], values[i]}
		}
		poly := polynomial.Interpolate(pairs)
		columns[col] = liftCoeffs(poly.Coefficients(), domain.Length)
	}

	rows := make([][]xfield.XFieldElement, m.Height())
	for r := 0; r < m.Height(); r++ {
		rows[r] = air.LiftRow(m.Row(r))
	}

	root, err := commitRows(rows)
	if err != nil {
		return hash.Digest{}, nil, err
	}

	return root, &ProverData{domain: domain, columns: columns, root: root}, nil
}

// CommitExtension commits to an extension-field matrix evaluated over the
// given domain. Auxiliary and quotient traces take this path.
func (s *MatrixCommitmentScheme) CommitExtension(domain *ArithmeticDomain, m *air.XMatrix) (hash.Digest, *ProverData, error) {
	if m.Height() != domain.Length {
		return hash.Digest{}, nil, fmt.Errorf("matrix height %d does not match domain length %d", m.Height(), domain.Length)
	}

	points := domain.Elements()
	columns := make([][]xfield.XFieldElement, m.Width())
	for col := 0; col < m.Width(); col++ {
		coeffs, err := interpolateExt(points, m.Column(col))
		if err != nil {
			return hash.Digest{}, nil, fmt.Errorf("failed to interpolate column %d: %w", col, err)
		}
		columns[col] = coeffs
	}

	rows := make([][]xfield.XFieldElement, m.Height())
	for r := 0; r < m.Height(); r++ {
		rows[r] = m.Row(r)
	}

	root, err := commitRows(rows)
	if err != nil {
		return hash.Digest{}, nil, err
	}

	return root, &ProverData{domain: domain, columns: columns, root: root}, nil
}

// Open produces the opening proof for the committed matrix together with
// the claimed rows at the requested points.
func (s *MatrixCommitmentScheme) Open(data *ProverData, points []xfield.XFieldElement) (*OpeningProof, [][]xfield.XFieldElement) {
	columns := make([][]xfield.XFieldElement, len(data.columns))
	for i, coeffs := range data.columns {
		columns[i] = append([]xfield.XFieldElement(nil), coeffs...)
	}

	claims := make([][]xfield.XFieldElement, len(points))
	for i, p := range points {
		claims[i] = data.RowAt(p)
	}

	return &OpeningProof{Columns: columns}, claims
}

// Verify checks an opening proof against a commitment: the revealed
// coefficients must re-hash to the committed Merkle root over the domain,
// respect the degree bound, and evaluate to every claimed row.
func (s *MatrixCommitmentScheme) Verify(
	domain *ArithmeticDomain,
	commitment hash.Digest,
	proof *OpeningProof,
	claims [][]xfield.XFieldElement,
	points []xfield.XFieldElement,
) error {
	if proof == nil || len(proof.Columns) == 0 {
		return fmt.Errorf("opening proof is empty")
	}
	if len(claims) != len(points) {
		return fmt.Errorf("claim count %d does not match point count %d", len(claims), len(points))
	}
	for _, coeffs := range proof.Columns {
		if len(coeffs) != domain.Length {
			return fmt.Errorf("column has %d coefficients, degree bound requires exactly %d", len(coeffs), domain.Length)
		}
	}

	// Recompute the committed matrix and its Merkle root.
	elements := domain.Elements()
	rows := make([][]xfield.XFieldElement, domain.Length)
	for r := 0; r < domain.Length; r++ {
		point := air.Lift(elements[r])
		row := make([]xfield.XFieldElement, len(proof.Columns))
		for c, coeffs := range proof.Columns {
			row[c] = evalExt(coeffs, point)
		}
		rows[r] = row
	}
	root, err := commitRows(rows)
	if err != nil {
		return err
	}
	if !digestEqual(root, commitment) {
		return fmt.Errorf("recomputed root does not match commitment")
	}

	// Check every claimed row against the revealed polynomials.
	for i, point := range points {
		if len(claims[i]) != len(proof.Columns) {
			return fmt.Errorf("claimed row %d has width %d, expected %d", i, len(claims[i]), len(proof.Columns))
		}
		for c, coeffs := range proof.Columns {
			if !evalExt(coeffs, point).Equal(claims[i][c]) {
				return fmt.Errorf("claimed value at point %d, column %d does not match the committed polynomial", i, c)
			}
		}
	}

	return nil
}

// commitRows hashes each matrix row into a Merkle leaf and returns the tree
// root. Extension-field cells are flattened into their base-field
// coefficients before hashing.
func commitRows(rows [][]xfield.XFieldElement) (hash.Digest, error) {
	leaves := make([]hash.Digest, len(rows))
	for i, row := range rows {
		flat := make([]field.Element, 0, 3*len(row))
		for _, cell := range row {
			coeffs := cell.Coefficients
			flat = append(flat, coeffs[0], coeffs[1], coeffs[2])
		}
		leaves[i] = hash.HashVarlen(flat)
	}

	tree, err := merkle.New(leaves)
	if err != nil {
		return hash.Digest{}, fmt.Errorf("failed to build Merkle tree: %w", err)
	}
	return tree.Root(), nil
}

func digestEqual(a, b hash.Digest) bool {
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
