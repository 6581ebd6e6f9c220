package common

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray(t *testing.T) {
	a := GenerateRandByteArray(32)
	b := GenerateRandByteArray(32)
	require.Len(t, a, 32)
	require.Len(t, b, 32)
	assert.False(t, bytes.Equal(a, b), "two 32-byte draws should differ")

	assert.Empty(t, GenerateRandByteArray(0))
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("hunter22")
	WipeByteArray(buf)
	assert.Equal(t, make([]byte, 8), buf)

	WipeByteArray(nil)
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	for _, sentinel := range []error{ErrCategoryNotFound, ErrInsufficientFunds, ErrEmailRegistered, ErrConflict} {
		wrapped := fmt.Errorf("saving ledger: %w", sentinel)
		assert.True(t, errors.Is(wrapped, sentinel), sentinel.Error())
	}
}
