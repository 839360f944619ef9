package polynomial

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

// table of 2·X₀ + X₁ + 1 over {0,1}², variable 0 on the high bit
func testTable() MultiLin {
	m := make(MultiLin, 4)
	m[0].SetUint64(1)
	m[1].SetUint64(2)
	m[2].SetUint64(3)
	m[3].SetUint64(4)
	return m
}

func TestFold(t *testing.T) {
	m := testTable()
	var r fr.Element
	r.SetUint64(5)

	m.Fold(r)
	require.Equal(t, 2, len(m))

	// 2r + X₁ + 1 at X₁ = 0, 1
	var expected fr.Element
	expected.SetUint64(11)
	require.True(t, m[0].Equal(&expected), "fold value at 0")
	expected.SetUint64(12)
	require.True(t, m[1].Equal(&expected), "fold value at 1")
}

func TestEvaluate(t *testing.T) {
	m := testTable()

	var r0, r1 fr.Element
	r0.SetRandom()
	r1.SetRandom()

	got := m.Evaluate([]fr.Element{r0, r1})

	// 2·r0 + r1 + 1
	var expected fr.Element
	expected.Double(&r0).Add(&expected, &r1)
	var one fr.Element
	one.SetOne()
	expected.Add(&expected, &one)

	require.True(t, got.Equal(&expected))
	require.Equal(t, 4, len(m), "evaluate must not mutate the table")
}

func TestEqTable(t *testing.T) {
	const n = 3
	q := make([]fr.Element, n)
	for i := range q {
		q[i].SetRandom()
	}

	table := EqTable(q)
	require.Equal(t, 1<<n, len(table))

	// each entry agrees with the closed form on the matching boolean point
	h := make([]fr.Element, n)
	for x := 0; x < 1<<n; x++ {
		for j := 0; j < n; j++ {
			if x&(1<<(n-1-j)) != 0 {
				h[j].SetOne()
			} else {
				h[j].SetZero()
			}
		}
		expected := EvalEq(q, h)
		require.True(t, table[x].Equal(&expected), "entry %d", x)
	}

	// the eq table is a partition of unity
	var sum fr.Element
	for i := range table {
		sum.Add(&sum, &table[i])
	}
	var one fr.Element
	one.SetOne()
	require.True(t, sum.Equal(&one))
}

func TestEqTableMatchesEvaluate(t *testing.T) {
	const n = 4
	q := make([]fr.Element, n)
	r := make([]fr.Element, n)
	for i := range q {
		q[i].SetRandom()
		r[i].SetRandom()
	}

	// ẽq(q, ·) evaluated at r both ways
	table := EqTable(q)
	viaTable := table.Evaluate(r)
	direct := EvalEq(q, r)
	require.True(t, viaTable.Equal(&direct))
}
