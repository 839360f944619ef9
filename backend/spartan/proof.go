package spartan

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/laconiczk/laconic"
	"github.com/laconiczk/laconic/hyrax"
	"github.com/laconiczk/laconic/sumcheck"
)

// Proof is a transparent proof of R1CS satisfiability for one indexed
// instance. Everything in it is either a sumcheck round polynomial, a
// claimed oracle evaluation or a commitment opening; the verifier recomputes
// all randomness from the transcript.
type Proof struct {
	// Witness commits to the private half of the padded assignment.
	Witness hyrax.Commitment

	// Outer proves Σ_x ẽq(τ,x)·(ã·b̃−c̃)(x) = 0 over the constraint domain
	// and ends on the claims RelationEvals = (ã, b̃, c̃)(r_x).
	Outer         sumcheck.Proof
	RelationEvals [nbMatrices]fr.Element

	// Inner proves the ρ-batched claim Σ_y q(y)·z̃(y) and ends on the matrix
	// evaluations MatrixEvals[m] = M̃(r_x, r_y) and the witness evaluation
	// WitnessEval = w̃(r_y[1:]).
	Inner       sumcheck.Proof
	MatrixEvals [nbMatrices]fr.Element
	WitnessEval fr.Element

	// Encoding[m] proves MatrixEvals[m] against the index oracles of matrix
	// m over its entry domain; EncodingEvals[m] holds the claimed openings
	// of the value table and bit planes at the reduced point, in commitment
	// order.
	Encoding      [nbMatrices]sumcheck.Proof
	EncodingEvals [nbMatrices][]fr.Element

	// openings of the γ-folded index oracles and of the witness table
	IndexOpenings  [nbMatrices]hyrax.OpeningProof
	WitnessOpening hyrax.OpeningProof
}

// checkShape rejects proofs whose component sizes do not match the index.
// It runs before any transcript work: a proof for the wrong shape is a
// protocol mismatch, not a failed check.
func (proof *Proof) checkShape(info *IndexInfo) error {
	sumcheckShape := func(p *sumcheck.Proof, nbRounds, degree int, stage string) error {
		if len(p.RoundPolynomials) != nbRounds {
			return fmt.Errorf("%w: %s has %d rounds, expected %d",
				laconic.ErrProtocolShapeMismatch, stage, len(p.RoundPolynomials), nbRounds)
		}
		for i := range p.RoundPolynomials {
			if len(p.RoundPolynomials[i]) != degree+1 {
				return fmt.Errorf("%w: %s round %d has %d evaluations, expected %d",
					laconic.ErrProtocolShapeMismatch, stage, i, len(p.RoundPolynomials[i]), degree+1)
			}
		}
		return nil
	}
	commitmentShape := func(c *hyrax.Commitment, nbVars int, stage string) error {
		nbRows, _ := hyrax.Layout(nbVars)
		if len(c.Rows) != nbRows {
			return fmt.Errorf("%w: %s has %d rows, expected %d",
				laconic.ErrProtocolShapeMismatch, stage, len(c.Rows), nbRows)
		}
		return nil
	}
	openingShape := func(o *hyrax.OpeningProof, nbVars int, stage string) error {
		_, nbCols := hyrax.Layout(nbVars)
		if len(o.FoldedRow) != nbCols {
			return fmt.Errorf("%w: %s folded row has %d entries, expected %d",
				laconic.ErrProtocolShapeMismatch, stage, len(o.FoldedRow), nbCols)
		}
		return nil
	}

	if err := commitmentShape(&proof.Witness, info.witnessVars(), "witness commitment"); err != nil {
		return err
	}
	if err := sumcheckShape(&proof.Outer, info.NbVars, 3, "outer sumcheck"); err != nil {
		return err
	}
	if err := sumcheckShape(&proof.Inner, info.NbVars, 2, "inner sumcheck"); err != nil {
		return err
	}
	for m := 0; m < nbMatrices; m++ {
		stage := "encoding sumcheck " + matrixNames[m]
		if err := sumcheckShape(&proof.Encoding[m], info.LogNbEntries[m], info.encodingDegree(), stage); err != nil {
			return err
		}
		if len(proof.EncodingEvals[m]) != 1+2*info.NbVars {
			return fmt.Errorf("%w: matrix %s has %d claimed openings, expected %d",
				laconic.ErrProtocolShapeMismatch, matrixNames[m], len(proof.EncodingEvals[m]), 1+2*info.NbVars)
		}
		if err := openingShape(&proof.IndexOpenings[m], info.LogNbEntries[m], "index opening "+matrixNames[m]); err != nil {
			return err
		}
	}
	return openingShape(&proof.WitnessOpening, info.witnessVars(), "witness opening")
}
