package spartan

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/laconiczk/laconic/polynomial"
)

// The three claim types below feed the sumcheck engine. Round polynomials
// are evaluated at consecutive points by adding per-variable deltas instead
// of re-interpolating each table pair, so one pass over the table halves
// yields all degree+1 evaluations.

// relationClaim is the outer zero-check Σ_x ẽq(τ,x)·(ã(x)·b̃(x) − c̃(x)),
// degree 3 per round.
type relationClaim struct {
	eq, a, b, c polynomial.MultiLin
}

func (c *relationClaim) NbVars() int { return c.eq.NumVars() }

func (c *relationClaim) Degree() int { return 3 }

func (c *relationClaim) RoundPolynomial() []fr.Element {
	mid := len(c.eq) / 2
	evals := make([]fr.Element, 4)
	var eq, a, b, cc, dEq, dA, dB, dC, t fr.Element
	for i := 0; i < mid; i++ {
		eq, a, b, cc = c.eq[i], c.a[i], c.b[i], c.c[i]
		dEq.Sub(&c.eq[i+mid], &eq)
		dA.Sub(&c.a[i+mid], &a)
		dB.Sub(&c.b[i+mid], &b)
		dC.Sub(&c.c[i+mid], &cc)
		for x := 0; ; x++ {
			t.Mul(&a, &b)
			t.Sub(&t, &cc)
			t.Mul(&t, &eq)
			evals[x].Add(&evals[x], &t)
			if x == 3 {
				break
			}
			eq.Add(&eq, &dEq)
			a.Add(&a, &dA)
			b.Add(&b, &dB)
			cc.Add(&cc, &dC)
		}
	}
	return evals
}

func (c *relationClaim) Fold(r fr.Element) {
	c.eq.Fold(r)
	c.a.Fold(r)
	c.b.Fold(r)
	c.c.Fold(r)
}

// finalEvals returns (ã, b̃, c̃)(r_x) once every variable is folded.
func (c *relationClaim) finalEvals() [nbMatrices]fr.Element {
	return [nbMatrices]fr.Element{c.a[0], c.b[0], c.c[0]}
}

// lincombClaim is the inner sumcheck Σ_y q(y)·z̃(y), with q the ρ-batched
// combination of the three matrices fixed at r_x. Degree 2 per round.
type lincombClaim struct {
	q, z polynomial.MultiLin
}

func (c *lincombClaim) NbVars() int { return c.q.NumVars() }

func (c *lincombClaim) Degree() int { return 2 }

func (c *lincombClaim) RoundPolynomial() []fr.Element {
	mid := len(c.q) / 2
	evals := make([]fr.Element, 3)
	var q, z, dQ, dZ, t fr.Element
	for i := 0; i < mid; i++ {
		q, z = c.q[i], c.z[i]
		dQ.Sub(&c.q[i+mid], &q)
		dZ.Sub(&c.z[i+mid], &z)
		for x := 0; ; x++ {
			t.Mul(&q, &z)
			evals[x].Add(&evals[x], &t)
			if x == 2 {
				break
			}
			q.Add(&q, &dQ)
			z.Add(&z, &dZ)
		}
	}
	return evals
}

func (c *lincombClaim) Fold(r fr.Element) {
	c.q.Fold(r)
	c.z.Fold(r)
}

// encodingClaim ties one matrix evaluation to its index oracles:
//
//	Σ_k val(k)·Π_j χ(rowBit_j(k), r_x[j])·Π_j χ(colBit_j(k), r_y[j])
//
// with χ(b, t) = b·t + (1−b)(1−t). For a fixed t the factor is linear in b,
// so the claim keeps one slope/offset pair per plane and the per-round
// degree is 1+2ν: one from the value table, one per bit plane.
type encodingClaim struct {
	val    polynomial.MultiLin
	planes []polynomial.MultiLin

	slope, offset []fr.Element
}

// newEncodingClaim clones the tables; folding works on the private copies so
// the caller's oracles stay intact for the openings.
func newEncodingClaim(tables [][]fr.Element, rx, ry []fr.Element) *encodingClaim {
	c := &encodingClaim{
		val:    polynomial.MultiLin(tables[0]).Clone(),
		planes: make([]polynomial.MultiLin, len(tables)-1),
		slope:  make([]fr.Element, len(tables)-1),
		offset: make([]fr.Element, len(tables)-1),
	}
	for j := range c.planes {
		c.planes[j] = polynomial.MultiLin(tables[1+j]).Clone()
	}

	one := fr.One()
	point := make([]fr.Element, 0, len(rx)+len(ry))
	point = append(point, rx...)
	point = append(point, ry...)
	for j, t := range point {
		// χ(b, t) = (2t−1)·b + (1−t)
		c.slope[j].Add(&t, &t)
		c.slope[j].Sub(&c.slope[j], &one)
		c.offset[j].Sub(&one, &t)
	}
	return c
}

func (c *encodingClaim) NbVars() int { return c.val.NumVars() }

func (c *encodingClaim) Degree() int { return 1 + len(c.planes) }

func (c *encodingClaim) RoundPolynomial() []fr.Element {
	d := c.Degree()
	mid := len(c.val) / 2
	evals := make([]fr.Element, d+1)

	cur := make([]fr.Element, 1+len(c.planes))
	delta := make([]fr.Element, 1+len(c.planes))
	var term, f fr.Element
	for i := 0; i < mid; i++ {
		cur[0] = c.val[i]
		delta[0].Sub(&c.val[i+mid], &c.val[i])
		for j := range c.planes {
			cur[1+j] = c.planes[j][i]
			delta[1+j].Sub(&c.planes[j][i+mid], &c.planes[j][i])
		}
		for x := 0; ; x++ {
			term = cur[0]
			for j := range c.planes {
				f.Mul(&c.slope[j], &cur[1+j])
				f.Add(&f, &c.offset[j])
				term.Mul(&term, &f)
			}
			evals[x].Add(&evals[x], &term)
			if x == d {
				break
			}
			for j := range cur {
				cur[j].Add(&cur[j], &delta[j])
			}
		}
	}
	return evals
}

func (c *encodingClaim) Fold(r fr.Element) {
	c.val.Fold(r)
	for j := range c.planes {
		c.planes[j].Fold(r)
	}
}

// finalEvals returns the claimed oracle openings at the reduced point, in
// commitment order: value table first, then row planes, then column planes.
func (c *encodingClaim) finalEvals() []fr.Element {
	out := make([]fr.Element, 1+len(c.planes))
	out[0] = c.val[0]
	for j := range c.planes {
		out[1+j] = c.planes[j][0]
	}
	return out
}

// encodingFinalValue recombines claimed openings into the encoding summand
// at the reduced point: val·Π_j χ(rowBit_j, r_x[j])·Π_j χ(colBit_j, r_y[j]).
// The χ products over the planes are exactly eq evaluations.
func encodingFinalValue(claims, rx, ry []fr.Element) fr.Element {
	nbVars := len(rx)
	res := polynomial.EvalEq(claims[1:1+nbVars], rx)
	t := polynomial.EvalEq(claims[1+nbVars:], ry)
	res.Mul(&res, &t)
	res.Mul(&res, &claims[0])
	return res
}
