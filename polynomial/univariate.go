package polynomial

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/laconiczk/laconic"
)

// ErrEmptyDomain is returned when interpolating from an empty evaluation
// vector. It indicates a construction bug in the caller, not bad input data.
var ErrEmptyDomain = fmt.Errorf("%w: interpolation over empty domain", laconic.ErrArithmeticDomain)

// InterpolateLDE evaluates at r the unique polynomial of degree < len(evals)
// taking the values evals[i] at i, for i in [0, len(evals)).
//
// It uses the barycentric form over the domain {0, ..., d}:
//
//	p(r) = Π_i (r − i) · Σ_i wᵢ·evals[i]/(r − i),   wᵢ = (−1)^(d−i)/(i!·(d−i)!)
//
// so a single batch inversion covers both the node differences and the
// factorial weights.
func InterpolateLDE(r fr.Element, evals []fr.Element) (fr.Element, error) {
	d := len(evals) - 1
	if d < 0 {
		return fr.Element{}, ErrEmptyDomain
	}

	// challenge hit a domain node; the evaluation is already in the proof
	if r.IsUint64() && r.Uint64() <= uint64(d) {
		return evals[r.Uint64()], nil
	}

	// toInvert = [r − 0, ..., r − d, 0!, 1!, ..., d!]
	toInvert := make([]fr.Element, 2*(d+1))
	var iElem fr.Element
	for i := 0; i <= d; i++ {
		iElem.SetUint64(uint64(i))
		toInvert[i].Sub(&r, &iElem)
	}
	toInvert[d+1].SetOne()
	for i := 1; i <= d; i++ {
		iElem.SetUint64(uint64(i))
		toInvert[d+1+i].Mul(&toInvert[d+i], &iElem)
	}

	var prod fr.Element
	prod.SetOne()
	for i := 0; i <= d; i++ {
		prod.Mul(&prod, &toInvert[i])
	}

	inverted := fr.BatchInvert(toInvert)
	nodeInv := inverted[:d+1]
	factInv := inverted[d+1:]

	var res, term fr.Element
	for i := 0; i <= d; i++ {
		// term <- evals[i] / (i!·(d−i)!·(r − i))
		term.Mul(&factInv[i], &factInv[d-i])
		term.Mul(&term, &nodeInv[i])
		term.Mul(&term, &evals[i])
		if (d-i)&1 == 1 {
			res.Sub(&res, &term)
		} else {
			res.Add(&res, &term)
		}
	}
	res.Mul(&res, &prod)

	return res, nil
}
