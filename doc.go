// Package laconic implements a transparent succinct argument of knowledge for
// Rank-1 Constraint System (R1CS) satisfiability.
//
// The protocol is a holographic sumcheck argument: a one-time, untrusted
// indexing step (backend/spartan.Setup) turns the constraint matrices A, B, C
// into committed polynomial oracles; each proof then reduces the
// satisfiability claim A·z ∘ B·z = C·z through a chain of sumcheck instances
// down to a handful of oracle openings. There is no trusted setup: all
// commitments are Pedersen vector commitments with generators derived by
// hashing to the curve.
//
// laconic supports the following curve:
//   - BN254
package laconic

import (
	"github.com/blang/semver/v4"
	"github.com/consensys/gnark-crypto/ecc"
)

var Version = semver.MustParse("0.3.0")

// Curves returns the curves supported by laconic
func Curves() []ecc.ID {
	return []ecc.ID{
		ecc.BN254,
	}
}
