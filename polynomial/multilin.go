// Package polynomial provides the multilinear bookkeeping tables and the
// small univariate helpers the sumcheck protocol runs on.
package polynomial

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// MultiLin tracks the values of a dense multilinear polynomial over the
// boolean hypercube. The table length is a power of two; variable 0 is the
// most significant bit of the index.
type MultiLin []fr.Element

// NumVars returns the number of variables of the polynomial
func (m MultiLin) NumVars() int {
	n := 0
	for l := len(m); l > 1; l >>= 1 {
		n++
	}
	return n
}

// Clone returns a deep copy of the table. Folding mutates the underlying
// array, so evaluating and folding the same table requires a copy.
func (m MultiLin) Clone() MultiLin {
	clone := make(MultiLin, len(m))
	copy(clone, m)
	return clone
}

// Fold fixes the first variable of the polynomial to r and halves the table:
//
//	table[i] <- table[i] + r·(table[i+mid] − table[i])
func (m *MultiLin) Fold(r fr.Element) {
	mid := len(*m) / 2
	bottom, top := (*m)[:mid], (*m)[mid:]
	for i := range bottom {
		top[i].Sub(&top[i], &bottom[i])
		top[i].Mul(&top[i], &r)
		bottom[i].Add(&bottom[i], &top[i])
	}
	*m = (*m)[:mid]
}

// Evaluate returns the value of the polynomial at the given point. The
// receiver is left untouched.
func (m MultiLin) Evaluate(at []fr.Element) fr.Element {
	mCopy := m.Clone()
	for _, r := range at {
		mCopy.Fold(r)
	}
	return mCopy[0]
}

// EvalEq computes Eq(q₁, ..., qₙ, h₁, ..., hₙ) = Π₁ⁿ Eq(qᵢ, hᵢ)
// where Eq(x, y) = x·y + (1−x)(1−y) interpolates the equality indicator on
// the hypercube.
func EvalEq(q, h []fr.Element) fr.Element {
	var res, nxt, one, sum fr.Element
	one.SetOne()
	res.SetOne()
	for i := 0; i < len(q); i++ {
		nxt.Mul(&q[i], &h[i]) // nxt <- qᵢ·hᵢ
		nxt.Add(&nxt, &nxt)   // nxt <- 2·qᵢ·hᵢ
		nxt.Add(&nxt, &one)   // nxt <- 1 + 2·qᵢ·hᵢ
		sum.Add(&q[i], &h[i]) // sum <- qᵢ + hᵢ
		nxt.Sub(&nxt, &sum)   // nxt <- 1 + 2·qᵢ·hᵢ − qᵢ − hᵢ
		res.Mul(&res, &nxt)
	}
	return res
}

// EqTable returns the table of Eq(q₁, ..., qₙ, *, ..., *) over the
// hypercube, i.e. EqTable(q)[x] = Eq(q, x). It is built by successive
// doubling rather than by folding a sparse 2n-variable table.
func EqTable(q []fr.Element) MultiLin {
	n := len(q)
	table := make(MultiLin, 1<<n)
	table[0].SetOne()

	for i := range q {
		for j := 0; j < (1 << i); j++ {
			J := j << (n - i)
			JNext := J + 1<<(n-1-i)
			table[JNext].Mul(&q[i], &table[J])
			table[J].Sub(&table[J], &table[JNext])
		}
	}

	return table
}
