package r1cs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/laconiczk/laconic"
)

// chainSystem is a 3-constraint, 5-variable system with one public variable:
//
//	(z0+z1)·z1 = z2, z2·z1 = z3, (z2+z3)·z0 = z4
func chainSystem() *System {
	s := NewSystem(3, 5, 1)
	s.A.AddEntry(0, 0, one())
	s.A.AddEntry(0, 1, one())
	s.B.AddEntry(0, 1, one())
	s.C.AddEntry(0, 2, one())
	s.A.AddEntry(1, 2, one())
	s.B.AddEntry(1, 1, one())
	s.C.AddEntry(1, 3, one())
	s.A.AddEntry(2, 2, one())
	s.A.AddEntry(2, 3, one())
	s.B.AddEntry(2, 0, one())
	s.C.AddEntry(2, 4, one())
	return s
}

func TestSystemSerialization(t *testing.T) {
	s := chainSystem()

	var buf bytes.Buffer
	written, err := s.WriteTo(&buf)
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), written)

	var decoded System
	read, err := decoded.ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, written, read)

	require.Empty(t, cmp.Diff(s, &decoded))
	require.NoError(t, decoded.IsSatisfied(assignment(1, 2, 6, 12, 18)))
}

func TestSystemSerializationRejectsCorruption(t *testing.T) {
	s := chainSystem()

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	data := buf.Bytes()

	t.Run("flipped header byte", func(t *testing.T) {
		corrupted := append([]byte(nil), data...)
		corrupted[10] ^= 0xff
		var decoded System
		_, err := decoded.ReadFrom(bytes.NewReader(corrupted))
		require.Error(t, err)
	})

	t.Run("truncated", func(t *testing.T) {
		var decoded System
		_, err := decoded.ReadFrom(bytes.NewReader(data[:len(data)-8]))
		require.Error(t, err)
	})
}

func TestSystemSerializationRejectsInvalidEntries(t *testing.T) {
	// entry column out of range, appended behind AddEntry's back
	s := chainSystem()
	s.B.Rows = append(s.B.Rows, 0)
	s.B.Cols = append(s.B.Cols, 17)
	s.B.Coeffs = append(s.B.Coeffs, one())

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	var decoded System
	_, err = decoded.ReadFrom(&buf)
	require.ErrorIs(t, err, laconic.ErrMalformedInstance)
}

func TestAssignmentSerialization(t *testing.T) {
	z := assignment(1, 2, 6, 12, 18)
	z[3].Neg(&z[3])

	var buf bytes.Buffer
	require.NoError(t, WriteAssignment(&buf, z))

	decoded, err := ReadAssignment(&buf)
	require.NoError(t, err)
	require.Equal(t, z, decoded)
}

func TestReadAssignmentBases(t *testing.T) {
	decoded, err := ReadAssignment(strings.NewReader(`["5", "0x0a"]`))
	require.NoError(t, err)
	require.Equal(t, assignment(5, 10), decoded)

	_, err = ReadAssignment(strings.NewReader(`["5", "not a number"]`))
	require.ErrorIs(t, err, laconic.ErrInvalidWitness)
}

func TestReadAssignmentEmpty(t *testing.T) {
	decoded, err := ReadAssignment(strings.NewReader(`[]`))
	require.NoError(t, err)
	require.Empty(t, decoded)
}
