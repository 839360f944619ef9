package spartan

import (
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"

	"github.com/laconiczk/laconic"
	"github.com/laconiczk/laconic/backend"
	"github.com/laconiczk/laconic/hyrax"
	"github.com/laconiczk/laconic/logger"
	"github.com/laconiczk/laconic/polynomial"
	"github.com/laconiczk/laconic/sumcheck"
)

// Prove produces a proof that the assignment satisfies the indexed system.
// The assignment holds every variable, public prefix included, in the order
// of the source system. Proving is deterministic: all randomness comes from
// the transcript.
//
// An assignment that does not satisfy the system still yields a proof; the
// verifier rejects it.
func Prove(pk *ProvingKey, assignment []fr.Element, opts ...backend.ProverOption) (*Proof, error) {
	info := &pk.Vk.Info
	log := logger.Logger().With().
		Str("curve", "bn254").Str("backend", "spartan").
		Int("nbConstraints", info.NbConstraints).Logger()
	start := time.Now()

	cfg, err := backend.NewProverConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("new prover config: %w", err)
	}

	if len(assignment) != info.NbVariables {
		return nil, fmt.Errorf("%w: assignment has %d variables, index expects %d",
			laconic.ErrInvalidWitness, len(assignment), info.NbVariables)
	}

	domainSize := info.domainSize()
	half := domainSize / 2

	// padded assignment: public input in the bottom half, witness on top
	z := make(polynomial.MultiLin, domainSize)
	copy(z[:info.NbPublic], assignment[:info.NbPublic])
	copy(z[half:], assignment[info.NbPublic:])
	witness := z[half:]

	proof := &Proof{}
	if proof.Witness, err = hyrax.Commit(witness, pk.Vk.Key, cfg.NbTasks); err != nil {
		return nil, err
	}

	names := newChallengeNames(info)
	fs := fiatshamir.NewTranscript(cfg.ChallengeHash, names.all...)
	if err := bindPublicData(fs, names.tau[0], pk.Vk, assignment[:info.NbPublic], &proof.Witness); err != nil {
		return nil, err
	}
	tau, err := deriveVector(fs, names.tau)
	if err != nil {
		return nil, err
	}

	// outer sumcheck: the relation vanishes on the constraint domain
	az := make(polynomial.MultiLin, domainSize)
	bz := make(polynomial.MultiLin, domainSize)
	cz := make(polynomial.MultiLin, domainSize)
	pk.mulVec(matA, az, z)
	pk.mulVec(matB, bz, z)
	pk.mulVec(matC, cz, z)

	outer := &relationClaim{eq: polynomial.EqTable(tau), a: az, b: bz, c: cz}
	var rx []fr.Element
	if proof.Outer, rx, err = sumcheck.Prove(fs, names.outer, outer); err != nil {
		return nil, err
	}
	proof.RelationEvals = outer.finalEvals()
	log.Debug().Dur("took", time.Since(start)).Msg("outer sumcheck done")

	// batching scalars, bound to the relation claims
	var rho [nbMatrices]fr.Element
	if rho[matA], err = sumcheck.DeriveChallenge(fs, names.rho[matA], proof.RelationEvals[:]); err != nil {
		return nil, err
	}
	for m := matB; m < nbMatrices; m++ {
		if rho[m], err = sumcheck.DeriveChallenge(fs, names.rho[m], nil); err != nil {
			return nil, err
		}
	}

	// inner sumcheck: Σ_y q(y)·z̃(y) with q(y) = Σ_m ρ_m·M̃(r_x, y),
	// materialized by pushing the eq table of r_x through the entries
	eqRx := polynomial.EqTable(rx)
	q := make(polynomial.MultiLin, domainSize)
	var t fr.Element
	for m := 0; m < nbMatrices; m++ {
		rows, cols, vals := pk.RowIdx[m], pk.ColIdx[m], pk.Val[m]
		for k := range vals {
			t.Mul(&vals[k], &eqRx[rows[k]])
			t.Mul(&t, &rho[m])
			q[cols[k]].Add(&q[cols[k]], &t)
		}
	}

	inner := &lincombClaim{q: q, z: z.Clone()}
	var ry []fr.Element
	if proof.Inner, ry, err = sumcheck.Prove(fs, names.inner, inner); err != nil {
		return nil, err
	}

	// oracle evaluations at the reduced point
	eqRy := polynomial.EqTable(ry)
	for m := 0; m < nbMatrices; m++ {
		proof.MatrixEvals[m] = pk.evalMatrix(m, eqRx, eqRy)
	}
	proof.WitnessEval = witness.Evaluate(ry[1:])
	log.Debug().Dur("took", time.Since(start)).Msg("inner sumcheck done")

	// the evaluation claims enter the transcript before the encoding rounds
	for _, v := range []fr.Element{proof.MatrixEvals[matA], proof.MatrixEvals[matB], proof.MatrixEvals[matC], proof.WitnessEval} {
		if err := fs.Bind(names.enc[matA][0], v.Marshal()); err != nil {
			return nil, err
		}
	}

	// per-matrix encoding sumchecks, each closed by a γ-folded opening of
	// its index oracles
	for m := 0; m < nbMatrices; m++ {
		tables := pk.oracleTables(m)
		claim := newEncodingClaim(tables, rx, ry)

		var rm []fr.Element
		if proof.Encoding[m], rm, err = sumcheck.Prove(fs, names.enc[m], claim); err != nil {
			return nil, err
		}
		proof.EncodingEvals[m] = claim.finalEvals()

		var gamma fr.Element
		if gamma, err = sumcheck.DeriveChallenge(fs, names.gamma[m], proof.EncodingEvals[m]); err != nil {
			return nil, err
		}

		folded := hyrax.FoldTables(tables, gamma)
		if proof.IndexOpenings[m], err = hyrax.Open(folded, rm, pk.Vk.Key); err != nil {
			return nil, err
		}
	}

	if proof.WitnessOpening, err = hyrax.Open(witness, ry[1:], pk.Vk.Key); err != nil {
		return nil, err
	}

	log.Debug().Dur("took", time.Since(start)).Msg("prover done")
	return proof, nil
}
