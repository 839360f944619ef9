package laconic

import (
	"errors"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	require.NoError(t, Version.Validate())
}

func TestCurves(t *testing.T) {
	require.Contains(t, Curves(), ecc.BN254)
}

// every sentinel names a distinct failure class; callers rely on errors.Is
// to tell them apart
func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrMalformedInstance,
		ErrInvalidWitness,
		ErrProtocolShapeMismatch,
		ErrVerificationFailed,
		ErrArithmeticDomain,
	}
	for i := range sentinels {
		for j := range sentinels {
			if i == j {
				continue
			}
			require.False(t, errors.Is(sentinels[i], sentinels[j]))
		}
	}
}
