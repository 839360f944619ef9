package polynomial

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/laconiczk/laconic"
)

// evalPoly evaluates Σ coeffs[i]·xⁱ by Horner's rule
func evalPoly(coeffs []fr.Element, x fr.Element) fr.Element {
	var res fr.Element
	res.Set(&coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		res.Mul(&res, &x)
		res.Add(&res, &coeffs[i])
	}
	return res
}

func TestInterpolateLDE(t *testing.T) {
	// p(x) = 7 + 2x + 3x² + 11x³
	coeffs := make([]fr.Element, 4)
	coeffs[0].SetUint64(7)
	coeffs[1].SetUint64(2)
	coeffs[2].SetUint64(3)
	coeffs[3].SetUint64(11)

	evals := make([]fr.Element, 4)
	var x fr.Element
	for i := range evals {
		x.SetUint64(uint64(i))
		evals[i] = evalPoly(coeffs, x)
	}

	var r fr.Element
	r.SetRandom()

	got, err := InterpolateLDE(r, evals)
	require.NoError(t, err)
	expected := evalPoly(coeffs, r)
	require.True(t, got.Equal(&expected))
}

func TestInterpolateLDEOnNode(t *testing.T) {
	evals := make([]fr.Element, 3)
	evals[0].SetUint64(5)
	evals[1].SetUint64(17)
	evals[2].SetUint64(42)

	var r fr.Element
	r.SetUint64(1)
	got, err := InterpolateLDE(r, evals)
	require.NoError(t, err)
	require.True(t, got.Equal(&evals[1]))
}

func TestInterpolateLDEConstant(t *testing.T) {
	evals := make([]fr.Element, 1)
	evals[0].SetUint64(9)

	var r fr.Element
	r.SetRandom()
	got, err := InterpolateLDE(r, evals)
	require.NoError(t, err)
	require.True(t, got.Equal(&evals[0]))
}

func TestInterpolateLDEEmpty(t *testing.T) {
	var r fr.Element
	_, err := InterpolateLDE(r, nil)
	require.ErrorIs(t, err, ErrEmptyDomain)
	require.ErrorIs(t, err, laconic.ErrArithmeticDomain)
}
