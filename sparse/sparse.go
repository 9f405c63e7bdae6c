// Package sparse implements CSR sparse matrices over prime-field scalars,
// tuned for repeated parallel multiplication against dense witness vectors.
//
// The multiply path trusts its input: CSR well-formedness is not re-checked
// per element, and a malformed matrix surfaces as an out-of-range panic.
// Callers holding artifacts of unknown provenance can audit them once with
// Validate before entering the hot loop.
package sparse

import (
	"iter"
	"runtime"
	"slices"
	"sync"

	"github.com/consensys/spmv/internal/utils"
)

// Element is the interface the engine needs from a pointer to a field
// element: commutative-ring arithmetic plus equality, with gnark-crypto's
// pointer-receiver calling convention.
type Element[E any] interface {
	*E
	Add(x, y *E) *E
	Mul(x, y *E) *E
	SetZero() *E
	SetOne() *E
	Equal(x *E) bool
}

// SparseMatrix is a matrix in compressed sparse row format. Field names
// follow scipy's csr_matrix.
type SparseMatrix[E any, ptE Element[E]] struct {
	// Data holds the non-zero values, grouped by row, column-ascending
	// within a row.
	Data []E
	// Indices holds the column index of each entry of Data.
	Indices []uint32
	// Indptr holds the row boundaries: row i spans
	// Data[Indptr[i]:Indptr[i+1]]. len(Indptr) == NbRows()+1.
	Indptr []uint64
	// Cols is the number of columns, including trailing all-zero columns
	// not observable from Indices.
	Cols uint32
}

// NbRows returns the number of rows of the matrix.
func (m *SparseMatrix[E, ptE]) NbRows() int {
	return len(m.Indptr) - 1
}

// NbNonZero returns the number of stored entries.
func (m *SparseMatrix[E, ptE]) NbNonZero() int {
	return len(m.Data)
}

// Clone returns a deep copy of m, sharing no backing storage with it.
// Constraint matrices routinely hold tens of millions of entries, so the
// three backing slices are copied concurrently.
func (m *SparseMatrix[E, ptE]) Clone() *SparseMatrix[E, ptE] {
	res := &SparseMatrix[E, ptE]{Cols: m.Cols}
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		res.Data = slices.Clone(m.Data)
		wg.Done()
	}()
	go func() {
		res.Indices = slices.Clone(m.Indices)
		wg.Done()
	}()
	go func() {
		res.Indptr = slices.Clone(m.Indptr)
		wg.Done()
	}()
	wg.Wait()
	return res
}

// Equal reports whether m and other hold the same matrix.
func (m *SparseMatrix[E, ptE]) Equal(other *SparseMatrix[E, ptE]) bool {
	if m.Cols != other.Cols ||
		len(m.Data) != len(other.Data) ||
		!slices.Equal(m.Indices, other.Indices) ||
		!slices.Equal(m.Indptr, other.Indptr) {
		return false
	}
	for i := range m.Data {
		if !ptE(&m.Data[i]).Equal(&other.Data[i]) {
			return false
		}
	}
	return true
}

// GetRowUnchecked returns the (value, column) pairs of the row delimited by
// ptrs, assumed to be an adjacent pair drawn from Indptr. The pair is not
// re-validated against Indptr; the multiply path is the only legitimate
// producer of ptrs.
func (m *SparseMatrix[E, ptE]) GetRowUnchecked(ptrs [2]uint64) iter.Seq2[*E, uint32] {
	return func(yield func(*E, uint32) bool) {
		for k := ptrs[0]; k < ptrs[1]; k++ {
			if !yield(&m.Data[k], m.Indices[k]) {
				return
			}
		}
	}
}

// MultiplyVec multiplies m by a dense vector and returns the resulting dense
// vector of length NbRows. It panics if len(vector) != Cols; a shape mismatch
// is a programming or data error, not a recoverable condition.
func (m *SparseMatrix[E, ptE]) MultiplyVec(vector []E, opts ...Option) []E {
	if uint32(len(vector)) != m.Cols {
		panic("sparse: invalid shape")
	}
	return m.multiplyVecUnchecked(vector, opts...)
}

// multiplyVecUnchecked computes m·vector without checking that the shapes are
// compatible; vector only needs to cover the largest column index actually
// referenced. Rows are independent and write to disjoint output slots, so the
// work fans out over row ranges with no synchronization beyond the final
// join. Each slot is written positionally, never appended, which keeps the
// result identical whatever order the chunks finish in.
func (m *SparseMatrix[E, ptE]) multiplyVecUnchecked(vector []E, opts ...Option) []E {
	cfg := config{nbTasks: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&cfg)
	}

	res := make([]E, m.NbRows())
	utils.Parallelize(len(res), func(start, end int) {
		var t E
		for i := start; i < end; i++ {
			acc := ptE(&res[i])
			acc.SetZero()
			for v, col := range m.GetRowUnchecked([2]uint64{m.Indptr[i], m.Indptr[i+1]}) {
				ptE(&t).Mul(v, &vector[col])
				acc.Add(acc, &t)
			}
		}
	}, cfg.nbTasks)

	return res
}

// VecEqual reports whether two dense vectors are element-wise equal.
func VecEqual[E any, ptE Element[E]](a, b []E) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ptE(&a[i]).Equal(&b[i]) {
			return false
		}
	}
	return true
}

// Option alters the behavior of MultiplyVec.
type Option func(*config)

type config struct {
	nbTasks int
}

// WithNbTasks sets the number of parallel workers used by MultiplyVec.
// Defaults to runtime.NumCPU(). Values below 1 are treated as 1.
func WithNbTasks(nbTasks int) Option {
	return func(cfg *config) {
		if nbTasks < 1 {
			nbTasks = 1
		}
		cfg.nbTasks = nbTasks
	}
}
