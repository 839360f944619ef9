package hyrax

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/laconiczk/laconic/polynomial"
)

func randomTable(n int) []fr.Element {
	v := make([]fr.Element, n)
	for i := range v {
		v[i].SetRandom()
	}
	return v
}

func randomPoint(s int) []fr.Element {
	return randomTable(s)
}

func TestCommitOpenVerify(t *testing.T) {
	const s = 5 // odd size exercises the uneven row/column split
	key, err := NewKey(s)
	require.NoError(t, err)

	v := randomTable(1 << s)
	point := randomPoint(s)

	c, err := Commit(v, key)
	require.NoError(t, err)

	proof, err := Open(v, point, key)
	require.NoError(t, err)

	// the claimed value is the multilinear evaluation of the table
	expected := polynomial.MultiLin(v).Evaluate(point)
	require.True(t, proof.ClaimedValue.Equal(&expected))

	require.NoError(t, Verify(&c, &proof, point, key))
}

func TestVerifyRejectsTamperedValue(t *testing.T) {
	const s = 4
	key, err := NewKey(s)
	require.NoError(t, err)

	v := randomTable(1 << s)
	point := randomPoint(s)

	c, err := Commit(v, key)
	require.NoError(t, err)
	proof, err := Open(v, point, key)
	require.NoError(t, err)

	var one fr.Element
	one.SetOne()
	proof.ClaimedValue.Add(&proof.ClaimedValue, &one)
	require.ErrorIs(t, Verify(&c, &proof, point, key), ErrVerifyOpeningProof)
}

func TestVerifyRejectsTamperedFold(t *testing.T) {
	const s = 4
	key, err := NewKey(s)
	require.NoError(t, err)

	v := randomTable(1 << s)
	point := randomPoint(s)

	c, err := Commit(v, key)
	require.NoError(t, err)
	proof, err := Open(v, point, key)
	require.NoError(t, err)

	// adjust one fold entry and patch the claimed value so the inner
	// product still matches; the commitment check must catch it
	var one fr.Element
	one.SetOne()
	proof.FoldedRow[1].Add(&proof.FoldedRow[1], &one)
	r := polynomial.EqTable(point[len(point)/2:])
	var patched, tmp fr.Element
	for j := range r {
		tmp.Mul(&proof.FoldedRow[j], &r[j])
		patched.Add(&patched, &tmp)
	}
	proof.ClaimedValue = patched

	require.ErrorIs(t, Verify(&c, &proof, point, key), ErrVerifyOpeningProof)
}

func TestVerifyRejectsWrongTable(t *testing.T) {
	const s = 4
	key, err := NewKey(s)
	require.NoError(t, err)

	v := randomTable(1 << s)
	w := randomTable(1 << s)
	point := randomPoint(s)

	c, err := Commit(v, key)
	require.NoError(t, err)
	// open the wrong table against v's commitment
	proof, err := Open(w, point, key)
	require.NoError(t, err)

	require.ErrorIs(t, Verify(&c, &proof, point, key), ErrVerifyOpeningProof)
}

func TestKeyDeterminism(t *testing.T) {
	k1, err := NewKey(4)
	require.NoError(t, err)
	k2, err := NewKey(4)
	require.NoError(t, err)
	require.Equal(t, len(k1.G), len(k2.G))
	for i := range k1.G {
		require.True(t, k1.G[i].Equal(&k2.G[i]))
	}
}

func TestFoldedOpening(t *testing.T) {
	const s = 4
	const nbTables = 5
	key, err := NewKey(s)
	require.NoError(t, err)

	tables := make([][]fr.Element, nbTables)
	commitments := make([]*Commitment, nbTables)
	for i := range tables {
		tables[i] = randomTable(1 << s)
		c, err := Commit(tables[i], key)
		require.NoError(t, err)
		commitments[i] = &c
	}

	point := randomPoint(s)
	var gamma fr.Element
	gamma.SetRandom()

	foldedTable := FoldTables(tables, gamma)
	foldedCommitment, err := FoldCommitments(commitments, gamma)
	require.NoError(t, err)

	proof, err := Open(foldedTable, point, key)
	require.NoError(t, err)
	require.NoError(t, Verify(&foldedCommitment, &proof, point, key))

	// the folded claim agrees with the γ-combination of individual claims
	values := make([]fr.Element, nbTables)
	for i := range tables {
		values[i] = polynomial.MultiLin(tables[i]).Evaluate(point)
	}
	combined := FoldValues(values, gamma)
	require.True(t, proof.ClaimedValue.Equal(&combined))
}

func TestShorterTableSameKey(t *testing.T) {
	key, err := NewKey(6)
	require.NoError(t, err)

	// a smaller table opens against the same key
	const s = 3
	v := randomTable(1 << s)
	point := randomPoint(s)

	c, err := Commit(v, key)
	require.NoError(t, err)
	proof, err := Open(v, point, key)
	require.NoError(t, err)
	require.NoError(t, Verify(&c, &proof, point, key))
}

func TestCommitRejectsOversizedTable(t *testing.T) {
	key, err := NewKey(2)
	require.NoError(t, err)
	_, err = Commit(randomTable(1<<5), key)
	require.ErrorIs(t, err, ErrInvalidTableSize)
}

func TestCommitRejectsNonPowerOfTwo(t *testing.T) {
	key, err := NewKey(4)
	require.NoError(t, err)
	_, err = Commit(randomTable(6), key)
	require.ErrorIs(t, err, ErrInvalidTableSize)
}
