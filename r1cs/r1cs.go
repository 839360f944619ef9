// Package r1cs defines the Rank-1 Constraint System the argument proves:
// three sparse matrices A, B, C of identical dimensions and the
// satisfiability condition A·z ∘ B·z = C·z for an assignment z whose prefix
// is the public input.
//
// Matrices are protocol-agnostic here; the shaping (padding, square layout,
// entry-domain sizing) the argument needs lives with the indexer.
package r1cs

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/laconiczk/laconic"
)

// SparseMatrix stores the nonzero entries of a constraint matrix as three
// parallel vectors indexed by entry position. The fixed layout keeps the
// downstream degree bookkeeping a static property of the encoding.
type SparseMatrix struct {
	Rows   []uint32
	Cols   []uint32
	Coeffs []fr.Element

	NbRows int
	NbCols int
}

// NewSparseMatrix returns an empty nbRows×nbCols matrix.
func NewSparseMatrix(nbRows, nbCols int) SparseMatrix {
	return SparseMatrix{NbRows: nbRows, NbCols: nbCols}
}

// AddEntry appends the entry (row, col) ↦ coeff. Zero coefficients are
// dropped; they would only inflate the entry domain.
func (m *SparseMatrix) AddEntry(row, col uint32, coeff fr.Element) {
	if coeff.IsZero() {
		return
	}
	m.Rows = append(m.Rows, row)
	m.Cols = append(m.Cols, col)
	m.Coeffs = append(m.Coeffs, coeff)
}

// NbNonZero returns the number of stored entries.
func (m *SparseMatrix) NbNonZero() int {
	return len(m.Coeffs)
}

// Coalesce merges entries sharing a cell by summing their coefficients and
// drops entries that cancel out. Entry order follows the first occurrence of
// each cell.
func (m *SparseMatrix) Coalesce() {
	seen := make(map[uint64]int, len(m.Coeffs))
	out := 0
	for i := range m.Coeffs {
		cell := uint64(m.Rows[i])<<32 | uint64(m.Cols[i])
		if at, ok := seen[cell]; ok {
			m.Coeffs[at].Add(&m.Coeffs[at], &m.Coeffs[i])
			continue
		}
		seen[cell] = out
		m.Rows[out] = m.Rows[i]
		m.Cols[out] = m.Cols[i]
		m.Coeffs[out] = m.Coeffs[i]
		out++
	}
	m.Rows = m.Rows[:out]
	m.Cols = m.Cols[:out]
	m.Coeffs = m.Coeffs[:out]

	// drop cancelled cells
	out = 0
	for i := range m.Coeffs {
		if m.Coeffs[i].IsZero() {
			continue
		}
		m.Rows[out] = m.Rows[i]
		m.Cols[out] = m.Cols[i]
		m.Coeffs[out] = m.Coeffs[i]
		out++
	}
	m.Rows = m.Rows[:out]
	m.Cols = m.Cols[:out]
	m.Coeffs = m.Coeffs[:out]
}

// validate checks entry bounds and rejects duplicate cells. Duplicates are
// tracked row by row with a column bitset.
func (m *SparseMatrix) validate(name string) error {
	if len(m.Rows) != len(m.Cols) || len(m.Rows) != len(m.Coeffs) {
		return fmt.Errorf("%w: %s entry vectors have inconsistent lengths", laconic.ErrMalformedInstance, name)
	}
	if m.NbRows <= 0 || m.NbCols <= 0 {
		return fmt.Errorf("%w: %s has empty dimensions", laconic.ErrMalformedInstance, name)
	}

	perRow := make(map[uint32]*bitset.BitSet)
	for i := range m.Rows {
		if int(m.Rows[i]) >= m.NbRows {
			return fmt.Errorf("%w: %s entry %d row %d out of range [0,%d)", laconic.ErrMalformedInstance, name, i, m.Rows[i], m.NbRows)
		}
		if int(m.Cols[i]) >= m.NbCols {
			return fmt.Errorf("%w: %s entry %d col %d out of range [0,%d)", laconic.ErrMalformedInstance, name, i, m.Cols[i], m.NbCols)
		}
		cols, ok := perRow[m.Rows[i]]
		if !ok {
			cols = bitset.New(uint(m.NbCols))
			perRow[m.Rows[i]] = cols
		}
		if cols.Test(uint(m.Cols[i])) {
			return fmt.Errorf("%w: %s has duplicate entry at (%d,%d)", laconic.ErrMalformedInstance, name, m.Rows[i], m.Cols[i])
		}
		cols.Set(uint(m.Cols[i]))
	}
	return nil
}

// MulVec computes res = M·z. res must have at least NbRows entries and z at
// least NbCols; extra entries of res are zeroed so callers can size both to
// padded domains.
func (m *SparseMatrix) MulVec(res, z []fr.Element) {
	for i := range res {
		res[i].SetZero()
	}
	var t fr.Element
	for i := range m.Coeffs {
		t.Mul(&m.Coeffs[i], &z[m.Cols[i]])
		res[m.Rows[i]].Add(&res[m.Rows[i]], &t)
	}
}

// System is a complete R1CS instance: the three constraint matrices plus
// the variable layout. The first NbPublic variables are the public input
// prefix of any assignment.
type System struct {
	A, B, C SparseMatrix

	NbConstraints int
	NbVariables   int
	NbPublic      int
}

// NewSystem returns an empty system with the given shape.
func NewSystem(nbConstraints, nbVariables, nbPublic int) *System {
	return &System{
		A:             NewSparseMatrix(nbConstraints, nbVariables),
		B:             NewSparseMatrix(nbConstraints, nbVariables),
		C:             NewSparseMatrix(nbConstraints, nbVariables),
		NbConstraints: nbConstraints,
		NbVariables:   nbVariables,
		NbPublic:      nbPublic,
	}
}

// Validate checks the structural invariants of the system: positive shape,
// public prefix within the variable count, all three matrices of the
// declared dimensions with in-range, duplicate-free entries, and the
// instance within maxSize (0 means unbounded).
func (s *System) Validate(maxSize int) error {
	if s.NbConstraints <= 0 || s.NbVariables <= 0 {
		return fmt.Errorf("%w: empty system", laconic.ErrMalformedInstance)
	}
	if s.NbPublic < 0 || s.NbPublic > s.NbVariables {
		return fmt.Errorf("%w: %d public variables for %d variables", laconic.ErrMalformedInstance, s.NbPublic, s.NbVariables)
	}
	if maxSize > 0 {
		if s.NbConstraints > maxSize || s.NbVariables > maxSize {
			return fmt.Errorf("%w: system size %dx%d exceeds maximum %d", laconic.ErrMalformedInstance, s.NbConstraints, s.NbVariables, maxSize)
		}
		if s.A.NbNonZero() > maxSize || s.B.NbNonZero() > maxSize || s.C.NbNonZero() > maxSize {
			return fmt.Errorf("%w: entry count exceeds maximum %d", laconic.ErrMalformedInstance, maxSize)
		}
	}

	for _, mm := range []struct {
		m    *SparseMatrix
		name string
	}{{&s.A, "A"}, {&s.B, "B"}, {&s.C, "C"}} {
		if mm.m.NbRows != s.NbConstraints || mm.m.NbCols != s.NbVariables {
			return fmt.Errorf("%w: %s is %dx%d, system is %dx%d",
				laconic.ErrMalformedInstance, mm.name, mm.m.NbRows, mm.m.NbCols, s.NbConstraints, s.NbVariables)
		}
		if err := mm.m.validate(mm.name); err != nil {
			return err
		}
	}
	return nil
}

// IsSatisfied checks A·z ∘ B·z = C·z row by row. It returns nil when the
// assignment satisfies the system and an error naming the first violated
// constraint otherwise. The prover does not call this; an unsatisfied
// assignment yields a proof the verifier rejects.
func (s *System) IsSatisfied(z []fr.Element) error {
	if len(z) != s.NbVariables {
		return fmt.Errorf("%w: assignment has %d variables, system expects %d", laconic.ErrInvalidWitness, len(z), s.NbVariables)
	}

	az := make([]fr.Element, s.NbConstraints)
	bz := make([]fr.Element, s.NbConstraints)
	cz := make([]fr.Element, s.NbConstraints)
	s.A.MulVec(az, z)
	s.B.MulVec(bz, z)
	s.C.MulVec(cz, z)

	var l fr.Element
	for i := 0; i < s.NbConstraints; i++ {
		l.Mul(&az[i], &bz[i])
		if !l.Equal(&cz[i]) {
			return fmt.Errorf("constraint %d is not satisfied", i)
		}
	}
	return nil
}
