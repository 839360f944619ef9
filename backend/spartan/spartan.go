// Package spartan implements a transparent argument of knowledge for R1CS
// satisfiability in the Spartan style.
//
// Setup runs the indexer: the constraint matrices are shaped into a padded
// square layout, encoded entry by entry as row/column/value vectors, and
// committed once into oracles reusable across every proof of the same
// circuit. Prove reduces A·z ∘ B·z = C·z through three sumcheck stages: an
// outer zero-check of the relation against a random ẽq weighting, an inner
// sumcheck of the batched matrix-vector products against the assignment, and
// one encoding sumcheck per matrix tying the claimed matrix evaluations to
// the committed index oracles. Verify replays the transcript and checks
// every round, every reduction and every oracle opening; it rejects with a
// diagnostic error and never panics on adversarial proofs.
package spartan

import (
	"github.com/laconiczk/laconic/internal/utils"
)

// MaxSystemSize caps the accepted number of constraints, variables and
// matrix entries. It bounds the index at 2^27 hypercube points per oracle.
const MaxSystemSize = 1 << 27

// matrix indices into the per-matrix arrays carried by keys and proofs
const (
	matA = iota
	matB
	matC
	nbMatrices
)

var matrixNames = [nbMatrices]string{"a", "b", "c"}

// IndexInfo describes the shape of an indexed instance. Both parties derive
// the whole transcript layout from it, so it is part of the verifying key.
type IndexInfo struct {
	// NbVars is ν, the log2 of the padded square dimension. Assignments
	// occupy 2^ν positions: public input in the bottom half, witness in the
	// top half.
	NbVars int

	// LogNbEntries holds κ per matrix: the log2 of the padded entry count.
	LogNbEntries [nbMatrices]int

	// NbPublic, NbConstraints and NbVariables keep the unpadded shape of
	// the source system.
	NbPublic      int
	NbConstraints int
	NbVariables   int
}

// domainSize returns 2^ν.
func (info *IndexInfo) domainSize() int {
	return 1 << info.NbVars
}

// witnessVars returns the variable count of the committed witness half.
func (info *IndexInfo) witnessVars() int {
	return info.NbVars - 1
}

// encodingDegree returns the per-round degree bound of the encoding
// sumchecks: the summand is the product of the value table and 2ν bit-plane
// factors, each multilinear.
func (info *IndexInfo) encodingDegree() int {
	return 1 + 2*info.NbVars
}

// maxTableVars returns the largest table size (in variables) any oracle of
// this index uses; the commitment key must cover it.
func (info *IndexInfo) maxTableVars() int {
	max := info.witnessVars()
	for m := 0; m < nbMatrices; m++ {
		max = utils.Max(max, info.LogNbEntries[m])
	}
	return max
}
