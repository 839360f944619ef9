package spartan

import (
	"errors"
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"

	"github.com/laconiczk/laconic"
	"github.com/laconiczk/laconic/backend"
	"github.com/laconiczk/laconic/hyrax"
	"github.com/laconiczk/laconic/internal/utils"
	"github.com/laconiczk/laconic/logger"
	"github.com/laconiczk/laconic/polynomial"
	"github.com/laconiczk/laconic/sumcheck"
)

// Verify checks a proof against a verifying key and a public input. It
// returns nil on acceptance and an error wrapping one of the package-level
// sentinels otherwise; adversarial proofs are rejected, never panicked on.
func Verify(vk *VerifyingKey, proof *Proof, publicInput []fr.Element, opts ...backend.VerifierOption) error {
	info := &vk.Info
	log := logger.Logger().With().
		Str("curve", "bn254").Str("backend", "spartan").
		Int("nbConstraints", info.NbConstraints).Logger()
	start := time.Now()

	cfg, err := backend.NewVerifierConfig(opts...)
	if err != nil {
		return fmt.Errorf("new verifier config: %w", err)
	}

	if len(publicInput) != info.NbPublic {
		return fmt.Errorf("%w: %d public inputs, index expects %d",
			laconic.ErrInvalidWitness, len(publicInput), info.NbPublic)
	}
	if err := proof.checkShape(info); err != nil {
		return err
	}

	names := newChallengeNames(info)
	fs := fiatshamir.NewTranscript(cfg.ChallengeHash, names.all...)
	if err := bindPublicData(fs, names.tau[0], vk, publicInput, &proof.Witness); err != nil {
		return err
	}
	tau, err := deriveVector(fs, names.tau)
	if err != nil {
		return err
	}

	// outer sumcheck: the relation sums to zero against the ẽq weighting
	var zero fr.Element
	outerFinal, rx, err := sumcheck.Verify(fs, names.outer, zero, 3, info.NbVars, proof.Outer)
	if err != nil {
		return verificationError(err, "outer sumcheck")
	}
	var expected, t fr.Element
	expected.Mul(&proof.RelationEvals[matA], &proof.RelationEvals[matB])
	expected.Sub(&expected, &proof.RelationEvals[matC])
	t = polynomial.EvalEq(tau, rx)
	expected.Mul(&expected, &t)
	if !expected.Equal(&outerFinal) {
		return fmt.Errorf("%w: outer reduction does not match the relation claims", laconic.ErrVerificationFailed)
	}

	var rho [nbMatrices]fr.Element
	if rho[matA], err = sumcheck.DeriveChallenge(fs, names.rho[matA], proof.RelationEvals[:]); err != nil {
		return err
	}
	for m := matB; m < nbMatrices; m++ {
		if rho[m], err = sumcheck.DeriveChallenge(fs, names.rho[m], nil); err != nil {
			return err
		}
	}

	// inner sumcheck: the batched relation claims against the assignment
	var innerSum fr.Element
	for m := 0; m < nbMatrices; m++ {
		t.Mul(&rho[m], &proof.RelationEvals[m])
		innerSum.Add(&innerSum, &t)
	}
	innerFinal, ry, err := sumcheck.Verify(fs, names.inner, innerSum, 2, info.NbVars, proof.Inner)
	if err != nil {
		return verificationError(err, "inner sumcheck")
	}

	var qEval fr.Element
	for m := 0; m < nbMatrices; m++ {
		t.Mul(&rho[m], &proof.MatrixEvals[m])
		qEval.Add(&qEval, &t)
	}
	zEval := assignmentEval(publicInput, proof.WitnessEval, ry)
	expected.Mul(&qEval, &zEval)
	if !expected.Equal(&innerFinal) {
		return fmt.Errorf("%w: inner reduction does not match the matrix and assignment claims", laconic.ErrVerificationFailed)
	}

	// the evaluation claims enter the transcript before the encoding rounds
	for _, v := range []fr.Element{proof.MatrixEvals[matA], proof.MatrixEvals[matB], proof.MatrixEvals[matC], proof.WitnessEval} {
		if err := fs.Bind(names.enc[matA][0], v.Marshal()); err != nil {
			return err
		}
	}

	// per-matrix encoding sumchecks and the γ-folded index openings
	for m := 0; m < nbMatrices; m++ {
		encFinal, rm, err := sumcheck.Verify(fs, names.enc[m], proof.MatrixEvals[m], info.encodingDegree(), info.LogNbEntries[m], proof.Encoding[m])
		if err != nil {
			return verificationError(err, "encoding sumcheck "+matrixNames[m])
		}
		expected = encodingFinalValue(proof.EncodingEvals[m], rx, ry)
		if !expected.Equal(&encFinal) {
			return fmt.Errorf("%w: encoding reduction of matrix %s does not match the claimed openings",
				laconic.ErrVerificationFailed, matrixNames[m])
		}

		gamma, err := sumcheck.DeriveChallenge(fs, names.gamma[m], proof.EncodingEvals[m])
		if err != nil {
			return err
		}

		foldedValue := hyrax.FoldValues(proof.EncodingEvals[m], gamma)
		if !foldedValue.Equal(&proof.IndexOpenings[m].ClaimedValue) {
			return fmt.Errorf("%w: folded index opening of matrix %s does not match the claimed openings",
				laconic.ErrVerificationFailed, matrixNames[m])
		}
		foldedCommitment, err := hyrax.FoldCommitments(vk.oracleCommitments(m), gamma)
		if err != nil {
			return fmt.Errorf("%w: folding index commitments of matrix %s: %v",
				laconic.ErrVerificationFailed, matrixNames[m], err)
		}
		if err := hyrax.Verify(&foldedCommitment, &proof.IndexOpenings[m], rm, vk.Key); err != nil {
			return fmt.Errorf("%w: index opening of matrix %s: %v",
				laconic.ErrVerificationFailed, matrixNames[m], err)
		}
	}

	if !proof.WitnessOpening.ClaimedValue.Equal(&proof.WitnessEval) {
		return fmt.Errorf("%w: witness opening does not match the claimed evaluation", laconic.ErrVerificationFailed)
	}
	if err := hyrax.Verify(&proof.Witness, &proof.WitnessOpening, ry[1:], vk.Key); err != nil {
		return fmt.Errorf("%w: witness opening: %v", laconic.ErrVerificationFailed, err)
	}

	log.Debug().Dur("took", time.Since(start)).Msg("verifier done")
	return nil
}

// assignmentEval computes z̃(r_y) for the halved assignment layout: the
// bottom half interpolates the public input, the top half is the committed
// witness, claimed here and checked by the witness opening.
//
// The public input occupies positions 0..k−1, so only an eq table over the
// occupied prefix is needed; the vanished high bits contribute the closed
// factor Π(1−r_j).
func assignmentEval(publicInput []fr.Element, witnessEval fr.Element, ry []fr.Element) fr.Element {
	var pub, t fr.Element
	if len(publicInput) > 0 {
		vars := ry[1:]
		low := utils.Min(utils.Log2Ceil(len(publicInput)), len(vars))

		one := fr.One()
		prefix := one
		for _, r := range vars[:len(vars)-low] {
			t.Sub(&one, &r)
			prefix.Mul(&prefix, &t)
		}

		eq := polynomial.EqTable(vars[len(vars)-low:])
		for i := range publicInput {
			t.Mul(&publicInput[i], &eq[i])
			pub.Add(&pub, &t)
		}
		pub.Mul(&pub, &prefix)
	}

	// (1−r₀)·x̃ + r₀·w̃
	var res fr.Element
	res.Sub(&witnessEval, &pub)
	res.Mul(&res, &ry[0])
	res.Add(&res, &pub)
	return res
}

// verificationError classifies a sumcheck engine failure: shape complaints
// keep their protocol-mismatch identity, everything else is a failed check.
func verificationError(err error, stage string) error {
	if errors.Is(err, sumcheck.ErrShapeMismatch) {
		return fmt.Errorf("%w: %s: %v", laconic.ErrProtocolShapeMismatch, stage, err)
	}
	return fmt.Errorf("%w: %s: %v", laconic.ErrVerificationFailed, stage, err)
}
