package spartan

import (
	"encoding/binary"
	"strconv"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"

	"github.com/laconiczk/laconic/hyrax"
	"github.com/laconiczk/laconic/sumcheck"
)

// challengeNames lays out the whole transcript. Challenges must be computed
// in registration order, so the layout fixes the protocol flow: the ẽq
// point, the outer rounds, the batching scalars, the inner rounds, then per
// matrix the encoding rounds followed by its opening fold scalar.
type challengeNames struct {
	tau   []string
	outer []string
	rho   [nbMatrices]string
	inner []string
	enc   [nbMatrices][]string
	gamma [nbMatrices]string

	all []string
}

func newChallengeNames(info *IndexInfo) challengeNames {
	var names challengeNames
	add := func(s string) string {
		names.all = append(names.all, s)
		return s
	}

	for i := 0; i < info.NbVars; i++ {
		names.tau = append(names.tau, add("tau."+strconv.Itoa(i)))
	}
	for i := 0; i < info.NbVars; i++ {
		names.outer = append(names.outer, add("outer."+strconv.Itoa(i)))
	}
	for m := 0; m < nbMatrices; m++ {
		names.rho[m] = add("rho." + matrixNames[m])
	}
	for i := 0; i < info.NbVars; i++ {
		names.inner = append(names.inner, add("inner."+strconv.Itoa(i)))
	}
	for m := 0; m < nbMatrices; m++ {
		prefix := "enc." + matrixNames[m] + "."
		for i := 0; i < info.LogNbEntries[m]; i++ {
			names.enc[m] = append(names.enc[m], add(prefix+strconv.Itoa(i)))
		}
		names.gamma[m] = add("gamma." + matrixNames[m])
	}
	return names
}

// bindPublicData binds everything both parties agree on before any
// randomness is drawn: the index shape, the index commitments, the public
// input and the witness commitment.
func bindPublicData(fs *fiatshamir.Transcript, challenge string, vk *VerifyingKey, publicInput []fr.Element, witness *hyrax.Commitment) error {
	var buf [8]byte
	bindInt := func(x int) error {
		binary.BigEndian.PutUint64(buf[:], uint64(x))
		return fs.Bind(challenge, buf[:])
	}
	bindCommitment := func(c *hyrax.Commitment) error {
		for i := range c.Rows {
			if err := fs.Bind(challenge, c.Rows[i].Marshal()); err != nil {
				return err
			}
		}
		return nil
	}

	for _, x := range []int{vk.Info.NbVars, vk.Info.NbPublic, vk.Info.NbConstraints, vk.Info.NbVariables} {
		if err := bindInt(x); err != nil {
			return err
		}
	}
	for m := 0; m < nbMatrices; m++ {
		if err := bindInt(vk.Info.LogNbEntries[m]); err != nil {
			return err
		}
	}

	for m := 0; m < nbMatrices; m++ {
		if err := bindCommitment(&vk.Val[m]); err != nil {
			return err
		}
		for j := range vk.RowBits[m] {
			if err := bindCommitment(&vk.RowBits[m][j]); err != nil {
				return err
			}
		}
		for j := range vk.ColBits[m] {
			if err := bindCommitment(&vk.ColBits[m][j]); err != nil {
				return err
			}
		}
	}

	for i := range publicInput {
		if err := fs.Bind(challenge, publicInput[i].Marshal()); err != nil {
			return err
		}
	}

	return bindCommitment(witness)
}

// deriveVector draws consecutive named challenges with no extra bindings;
// each one depends on the full transcript history through the chaining.
func deriveVector(fs *fiatshamir.Transcript, names []string) ([]fr.Element, error) {
	out := make([]fr.Element, len(names))
	for i := range names {
		r, err := sumcheck.DeriveChallenge(fs, names[i], nil)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
