// Package sumcheck runs the multi-round reduction at the heart of the
// argument: a claim "Σ_{x∈{0,1}ⁿ} g(x) = S" is collapsed, one variable per
// round, into a single evaluation claim "g(r) = v" for a transcript-derived
// point r.
//
// The engine is generic over the summed relation. A Claim knows its number
// of variables, its per-round degree bound and how to produce the univariate
// restriction of the current round; the engine drives the transcript, the
// round-consistency checks and the folding. The final evaluation check
// belongs to the caller, who alone knows which oracles back g.
package sumcheck

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"

	"github.com/laconiczk/laconic/polynomial"
)

var (
	// ErrShapeMismatch signals a proof with the wrong round count or a round
	// polynomial of the wrong size for the declared degree bound.
	ErrShapeMismatch = errors.New("sumcheck proof shape mismatch")

	// ErrRoundSum signals a round polynomial p with p(0)+p(1) different from
	// the running claimed sum.
	ErrRoundSum = errors.New("sumcheck round sum mismatch")
)

// Claim is the prover-side view of one sumcheck instance.
type Claim interface {
	// NbVars is the number of rounds left to play.
	NbVars() int

	// Degree is the per-round degree bound of the round polynomials. It is a
	// static property of how the summed polynomial is built, never of the
	// data summed over.
	Degree() int

	// RoundPolynomial returns the evaluations at 0..Degree() of the
	// univariate restriction of the summed polynomial in the current round
	// variable, all later variables still summed over.
	RoundPolynomial() []fr.Element

	// Fold fixes the current round variable to r.
	Fold(r fr.Element)
}

// Proof is the ordered list of round polynomials, each given by its
// evaluations at 0..degree.
type Proof struct {
	RoundPolynomials [][]fr.Element
}

// Prove runs the rounds of one sumcheck instance on the shared transcript.
// challengeNames must hold one transcript challenge per round, in order.
// The returned challenges form the evaluation point the claim was reduced
// to; the caller derives the final oracle openings from it.
func Prove(fs *fiatshamir.Transcript, challengeNames []string, claim Claim) (Proof, []fr.Element, error) {
	nbVars := claim.NbVars()
	if len(challengeNames) != nbVars {
		return Proof{}, nil, fmt.Errorf("%w: %d challenge names for %d rounds", ErrShapeMismatch, len(challengeNames), nbVars)
	}

	proof := Proof{RoundPolynomials: make([][]fr.Element, nbVars)}
	challenges := make([]fr.Element, nbVars)

	for i := 0; i < nbVars; i++ {
		proof.RoundPolynomials[i] = claim.RoundPolynomial()

		r, err := DeriveChallenge(fs, challengeNames[i], proof.RoundPolynomials[i])
		if err != nil {
			return Proof{}, nil, err
		}
		challenges[i] = r
		claim.Fold(r)
	}

	return proof, challenges, nil
}

// Verify replays the rounds of one sumcheck instance: for every round it
// checks p(0)+p(1) against the running sum, binds the round polynomial,
// draws the same challenge the prover saw and updates the running sum to
// p(r). It returns the final running sum and the challenge point; comparing
// the final sum with the oracle-backed evaluation of the summed polynomial
// is the caller's last step.
func Verify(fs *fiatshamir.Transcript, challengeNames []string, claimedSum fr.Element, degree, nbVars int, proof Proof) (fr.Element, []fr.Element, error) {
	if len(proof.RoundPolynomials) != nbVars {
		return fr.Element{}, nil, fmt.Errorf("%w: %d round polynomials, expected %d", ErrShapeMismatch, len(proof.RoundPolynomials), nbVars)
	}
	if len(challengeNames) != nbVars {
		return fr.Element{}, nil, fmt.Errorf("%w: %d challenge names for %d rounds", ErrShapeMismatch, len(challengeNames), nbVars)
	}
	for i := range proof.RoundPolynomials {
		if len(proof.RoundPolynomials[i]) != degree+1 {
			return fr.Element{}, nil, fmt.Errorf("%w: round %d polynomial has %d evaluations, expected %d", ErrShapeMismatch, i, len(proof.RoundPolynomials[i]), degree+1)
		}
	}

	sum := claimedSum
	challenges := make([]fr.Element, nbVars)

	for i := 0; i < nbVars; i++ {
		evals := proof.RoundPolynomials[i]

		var zeroOne fr.Element
		zeroOne.Add(&evals[0], &evals[1])
		if !zeroOne.Equal(&sum) {
			return fr.Element{}, nil, fmt.Errorf("%w: round %d", ErrRoundSum, i)
		}

		r, err := DeriveChallenge(fs, challengeNames[i], evals)
		if err != nil {
			return fr.Element{}, nil, err
		}
		challenges[i] = r

		if sum, err = polynomial.InterpolateLDE(r, evals); err != nil {
			return fr.Element{}, nil, err
		}
	}

	return sum, challenges, nil
}

// DeriveChallenge binds a vector of field elements to the named transcript
// challenge and computes it. Binding nothing is allowed: the challenge then
// depends only on the transcript history.
func DeriveChallenge(fs *fiatshamir.Transcript, challenge string, bindings []fr.Element) (fr.Element, error) {
	var r fr.Element
	for i := range bindings {
		if err := fs.Bind(challenge, bindings[i].Marshal()); err != nil {
			return r, err
		}
	}
	b, err := fs.ComputeChallenge(challenge)
	if err != nil {
		return r, err
	}
	r.SetBytes(b)
	return r, nil
}
