package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	require.NoError(t, err)
	assert.Len(t, s, n*2)
	_, err = hex.DecodeString(s)
	assert.NoError(t, err)
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buf)

	WipeByteArray(nil)
}

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := Invalid("Rating must be between 1 and 5")
	assert.True(t, errors.Is(err, ErrorValidation))
	assert.Equal(t, "Rating must be between 1 and 5", err.Error())

	wrapped := fmt.Errorf("rate: %w", err)
	var ve *ValidationError
	require.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "Rating must be between 1 and 5", ve.Msg)
}

func TestSelfRating_IsForbidden(t *testing.T) {
	assert.True(t, errors.Is(ErrSelfRating, ErrorForbidden))
	assert.False(t, errors.Is(ErrorForbidden, ErrSelfRating))
}
