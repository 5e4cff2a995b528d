package air

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/xfield"
)

// Matrix is a row-major matrix over the base field.
//
// Traces are stored row-major: element (row, col) sits at values[row*width+col].
// A matrix is immutable after construction as far as the protocol is
// concerned; the prover never mutates a committed trace.
type Matrix struct {
	values []field.Element
	width  int
}

// NewMatrix creates a row-major matrix from a flat value slice.
func NewMatrix(values []field.Element, width int) (*Matrix, error) {
	if width <= 0 {
		return nil, fmt.Errorf("matrix width must be positive, got %d", width)
	}
	if len(values)%width != 0 {
		return nil, fmt.Errorf("value count %d is not a multiple of width %d", len(values), width)
	}
	return &Matrix{values: values, width: width}, nil
}

// Height returns the number of rows.
func (m *Matrix) Height() int {
	return len(m.values) / m.width
}

// Width returns the number of columns.
func (m *Matrix) Width() int {
	return m.width
}

// At returns the element at (row, col).
func (m *Matrix) At(row, col int) field.Element {
	return m.values[row*m.width+col]
}

// Row returns the given row as a slice. The slice aliases the matrix storage.
func (m *Matrix) Row(row int) []field.Element {
	return m.values[row*m.width : (row+1)*m.width]
}

// Column returns a copy of the given column.
func (m *Matrix) Column(col int) []field.Element {
	height := m.Height()
	out := make([]field.Element, height)
	for i := 0; i < height; i++ {
		out[i] = m.values[i*m.width+col]
	}
	return out
}

// XMatrix is a row-major matrix over the extension field. Auxiliary traces
// and the quotient trace live here.
type XMatrix struct {
	values []xfield.XFieldElement
	width  int
}

// NewXMatrix creates a row-major extension-field matrix from a flat value slice.
func NewXMatrix(values []xfield.XFieldElement, width int) (*XMatrix, error) {
	if width <= 0 {
		return nil, fmt.Errorf("matrix width must be positive, got %d", width)
	}
	if len(values)%width != 0 {
		return nil, fmt.Errorf("value count %d is not a multiple of width %d", len(values), width)
	}
	return &XMatrix{values: values, width: width}, nil
}

// Height returns the number of rows.
func (m *XMatrix) Height() int {
	return len(m.values) / m.width
}

// Width returns the number of columns.
func (m *XMatrix) Width() int {
	return m.width
}

// At returns the element at (row, col).
func (m *XMatrix) At(row, col int) xfield.XFieldElement {
	return m.values[row*m.width+col]
}

// Row returns the given row as a slice. The slice aliases the matrix storage.
func (m *XMatrix) Row(row int) []xfield.XFieldElement {
	return m.values[row*m.width : (row+1)*m.width]
}

// Column returns a copy of the given column.
func (m *XMatrix) Column(col int) []xfield.XFieldElement {
	height := m.Height()
	out := make([]xfield.XFieldElement, height)
	for i := 0; i < height; i++ {
		out[i] = m.values[i*m.width+col]
	}
	return out
}
