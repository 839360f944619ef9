package r1cs

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/laconiczk/laconic"
)

func one() fr.Element {
	var o fr.Element
	o.SetOne()
	return o
}

// identitySystem is the 4-constraint, 4-variable system with A = B = C = I,
// satisfied exactly by assignments with entries in {0,1}.
func identitySystem(nbPublic int) *System {
	s := NewSystem(4, 4, nbPublic)
	for i := uint32(0); i < 4; i++ {
		s.A.AddEntry(i, i, one())
		s.B.AddEntry(i, i, one())
		s.C.AddEntry(i, i, one())
	}
	return s
}

func assignment(vals ...uint64) []fr.Element {
	z := make([]fr.Element, len(vals))
	for i := range vals {
		z[i].SetUint64(vals[i])
	}
	return z
}

func TestIdentitySystemSatisfied(t *testing.T) {
	s := identitySystem(2)
	require.NoError(t, s.Validate(0))
	require.NoError(t, s.IsSatisfied(assignment(1, 1, 1, 1)))
}

func TestIdentitySystemViolated(t *testing.T) {
	s := identitySystem(2)
	// 2·2 ≠ 2 at the last constraint
	err := s.IsSatisfied(assignment(1, 1, 1, 2))
	require.Error(t, err)
	require.Contains(t, err.Error(), "constraint 3")
}

func TestIsSatisfiedWrongLength(t *testing.T) {
	s := identitySystem(2)
	err := s.IsSatisfied(assignment(1, 1, 1))
	require.ErrorIs(t, err, laconic.ErrInvalidWitness)
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	s := NewSystem(2, 2, 1)
	s.A.AddEntry(0, 5, one())
	err := s.Validate(0)
	require.ErrorIs(t, err, laconic.ErrMalformedInstance)
}

func TestValidateRejectsDimensionMismatch(t *testing.T) {
	s := NewSystem(2, 2, 1)
	s.B.NbCols = 3
	err := s.Validate(0)
	require.ErrorIs(t, err, laconic.ErrMalformedInstance)
}

func TestValidateRejectsDuplicateEntries(t *testing.T) {
	s := NewSystem(2, 2, 1)
	s.A.AddEntry(0, 1, one())
	s.A.AddEntry(0, 1, one())
	err := s.Validate(0)
	require.ErrorIs(t, err, laconic.ErrMalformedInstance)
}

func TestValidateRejectsOversized(t *testing.T) {
	s := identitySystem(1)
	require.NoError(t, s.Validate(4))
	require.ErrorIs(t, s.Validate(3), laconic.ErrMalformedInstance)
}

func TestValidateRejectsBadPublicCount(t *testing.T) {
	s := identitySystem(5)
	require.ErrorIs(t, s.Validate(0), laconic.ErrMalformedInstance)
}

func TestCoalesce(t *testing.T) {
	m := NewSparseMatrix(2, 2)
	m.AddEntry(0, 0, one())
	m.AddEntry(0, 0, one())
	var minusOne fr.Element
	minusOne.SetOne()
	minusOne.Neg(&minusOne)
	m.AddEntry(1, 1, one())
	m.AddEntry(1, 1, minusOne)

	m.Coalesce()

	// (0,0) summed to 2, (1,1) cancelled out
	require.Equal(t, 1, m.NbNonZero())
	require.Equal(t, uint32(0), m.Rows[0])
	require.Equal(t, uint32(0), m.Cols[0])
	var two fr.Element
	two.SetUint64(2)
	require.True(t, m.Coeffs[0].Equal(&two))
}

func TestAddEntryDropsZero(t *testing.T) {
	m := NewSparseMatrix(1, 1)
	var zero fr.Element
	m.AddEntry(0, 0, zero)
	require.Equal(t, 0, m.NbNonZero())
}

func TestMulVecPaddedDomains(t *testing.T) {
	// 2x3 matrix applied with padded result and assignment slices
	m := NewSparseMatrix(2, 3)
	var c fr.Element
	c.SetUint64(3)
	m.AddEntry(0, 2, c)
	c.SetUint64(5)
	m.AddEntry(1, 0, c)

	z := assignment(2, 0, 7, 0) // padded to 4
	res := make([]fr.Element, 4)
	res[3].SetUint64(99) // stale data must be cleared
	m.MulVec(res, z)

	require.True(t, res[0].Equal(&assignment(21)[0]))
	require.True(t, res[1].Equal(&assignment(10)[0]))
	require.True(t, res[2].IsZero())
	require.True(t, res[3].IsZero())
}
