package laconic

import "errors"

var (
	// ErrMalformedInstance signals a structurally invalid constraint system
	// or index: inconsistent matrix dimensions, entries referencing
	// variables out of range, or an instance exceeding the configured
	// maximum size. Raised at indexing time, before any cryptographic work.
	ErrMalformedInstance = errors.New("malformed r1cs instance")

	// ErrInvalidWitness signals an assignment whose shape does not match the
	// index: wrong length or public prefix inconsistent with the instance.
	ErrInvalidWitness = errors.New("invalid witness")

	// ErrProtocolShapeMismatch signals a proof whose round count, round
	// polynomial sizes or opening sizes do not match what the verifying key
	// prescribes. Detected at verification entry, before transcript replay.
	ErrProtocolShapeMismatch = errors.New("proof shape mismatch")

	// ErrVerificationFailed is the expected negative outcome of Verify: a
	// round consistency check, final reduction or commitment opening did not
	// hold. It wraps a reason identifying the first failed check.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrArithmeticDomain signals an arithmetic precondition violation such
	// as inverting the additive identity or interpolating over an empty
	// domain. It indicates a construction bug, never an adversarial input.
	ErrArithmeticDomain = errors.New("arithmetic domain error")
)
