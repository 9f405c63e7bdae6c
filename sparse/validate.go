package sparse

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Validate audits the CSR invariants: consistent Data/Indices lengths,
// monotone Indptr with the right endpoints, in-range column indices and no
// duplicate column within a row. It is opt-in tooling for artifacts of
// unknown provenance; the multiply and clone paths never call it, so the
// trust-the-input contract of the hot path is unchanged.
func (m *SparseMatrix[E, ptE]) Validate() error {
	if len(m.Data) != len(m.Indices) {
		return fmt.Errorf("sparse: data length %d != indices length %d", len(m.Data), len(m.Indices))
	}
	if len(m.Indptr) == 0 {
		return errors.New("sparse: empty indptr")
	}
	if m.Indptr[0] != 0 {
		return fmt.Errorf("sparse: indptr starts at %d, want 0", m.Indptr[0])
	}
	if last := m.Indptr[len(m.Indptr)-1]; last != uint64(len(m.Data)) {
		return fmt.Errorf("sparse: indptr ends at %d, want %d", last, len(m.Data))
	}

	seen := bitset.New(uint(m.Cols))
	for i := 0; i < m.NbRows(); i++ {
		start, end := m.Indptr[i], m.Indptr[i+1]
		if end < start {
			return fmt.Errorf("sparse: indptr not monotone at row %d", i)
		}
		for k := start; k < end; k++ {
			col := m.Indices[k]
			if col >= m.Cols {
				return fmt.Errorf("sparse: row %d references column %d, matrix has %d columns", i, col, m.Cols)
			}
			if seen.Test(uint(col)) {
				return fmt.Errorf("sparse: row %d references column %d twice", i, col)
			}
			seen.Set(uint(col))
		}
		// reset only the bits touched by this row, a full ClearAll would
		// cost O(cols) per row
		for k := start; k < end; k++ {
			seen.Clear(uint(m.Indices[k]))
		}
	}
	return nil
}
