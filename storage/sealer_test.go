package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealer_RoundTrip(t *testing.T) {
	sealer, err := NewSealerFromHex(strings.Repeat("ab", 32))
	require.NoError(t, err)

	sealed, err := sealer.Seal("a2V5")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, sealedPrefix))

	again, err := sealer.Seal("a2V5")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonces must differ")

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "a2V5", opened)
}

func TestSealer_Passthrough(t *testing.T) {
	var sealer *Sealer

	sealed, err := sealer.Seal("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", sealed)

	opened, err := sealer.Open("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", opened)

	_, err = sealer.Open(sealedPrefix + "AAAA")
	assert.ErrorIs(t, err, ErrUnseal)
}

func TestSealer_WrongKey(t *testing.T) {
	a, err := NewSealer(make([]byte, 32))
	require.NoError(t, err)
	b, err := NewSealerFromHex(strings.Repeat("01", 32))
	require.NoError(t, err)

	sealed, err := a.Seal("a2V5")
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.ErrorIs(t, err, ErrUnseal)
}

func TestNewSealerFromHex(t *testing.T) {
	sealer, err := NewSealerFromHex("")
	require.NoError(t, err)
	assert.Nil(t, sealer)

	_, err = NewSealerFromHex("zz")
	assert.Error(t, err)

	_, err = NewSealerFromHex("abcd")
	assert.Error(t, err)
}
