// Package backend holds the run-time configuration shared by the proving
// and verification entry points.
package backend

import (
	"crypto/sha256"
	"hash"
	"runtime"
)

// ID represent a unique ID for a proving scheme
type ID uint16

const (
	UNKNOWN ID = iota
	SPARTAN
)

// Implemented return the list of proof systems implemented in laconic
func Implemented() []ID {
	return []ID{SPARTAN}
}

// String returns the string representation of a proof system
func (id ID) String() string {
	switch id {
	case SPARTAN:
		return "spartan"
	default:
		return "unknown"
	}
}

// ProverOption defines option for altering the behavior of the prover. See
// the descriptions of functions returning instances of this type for
// implemented options.
type ProverOption func(*ProverConfig) error

// ProverConfig is the configuration for the prover with the options applied.
type ProverConfig struct {
	ChallengeHash hash.Hash
	NbTasks       int
}

// NewProverConfig returns a default ProverConfig with given prover options
// opts applied.
func NewProverConfig(opts ...ProverOption) (ProverConfig, error) {
	opt := ProverConfig{
		ChallengeHash: sha256.New(),
		NbTasks:       runtime.NumCPU(),
	}
	for _, option := range opts {
		if err := option(&opt); err != nil {
			return ProverConfig{}, err
		}
	}
	return opt, nil
}

// WithProverChallengeHashFunction sets the hash function used for computing
// non-interactive challenges in Fiat-Shamir heuristic. If not set then by
// default SHA2-256 is used. The verifier must be configured with the same
// function or the transcript replay diverges.
func WithProverChallengeHashFunction(hFunc hash.Hash) ProverOption {
	return func(pc *ProverConfig) error {
		pc.ChallengeHash = hFunc
		return nil
	}
}

// WithNbTasks limits the number of CPUs the prover uses for table building
// and multi-exponentiations. Defaults to runtime.NumCPU().
func WithNbTasks(nbTasks int) ProverOption {
	return func(pc *ProverConfig) error {
		pc.NbTasks = nbTasks
		return nil
	}
}

// VerifierOption defines option for altering the behavior of the verifier.
// See the descriptions of functions returning instances of this type for
// implemented options.
type VerifierOption func(*VerifierConfig) error

// VerifierConfig is the configuration for the verifier with the options applied.
type VerifierConfig struct {
	ChallengeHash hash.Hash
}

// NewVerifierConfig returns a default [VerifierConfig] with given verifier
// options applied.
func NewVerifierConfig(opts ...VerifierOption) (VerifierConfig, error) {
	opt := VerifierConfig{
		ChallengeHash: sha256.New(),
	}
	for _, option := range opts {
		if err := option(&opt); err != nil {
			return VerifierConfig{}, err
		}
	}
	return opt, nil
}

// WithVerifierChallengeHashFunction sets the hash function used for
// computing non-interactive challenges in Fiat-Shamir heuristic. If not set
// then by default SHA2-256 is used. Must match the prover's configuration.
func WithVerifierChallengeHashFunction(hFunc hash.Hash) VerifierOption {
	return func(pc *VerifierConfig) error {
		pc.ChallengeHash = hFunc
		return nil
	}
}
