package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_HexRoundTrip(t *testing.T) {
	seed, err := NewSeed()
	require.NoError(t, err)

	parsed, err := SeedFromHex(seed.Hex())
	require.NoError(t, err)
	assert.Equal(t, seed, parsed)
}

func TestSeed_FromHexRejectsMalformed(t *testing.T) {
	_, err := SeedFromHex("not hex")
	require.Error(t, err)

	_, err = SeedFromHex("abcd")
	require.Error(t, err, "short input must be rejected")

	_, err = SeedFromHex(strings.Repeat("ab", 33))
	require.Error(t, err, "long input must be rejected")
}

func TestSeed_DerivationIsDeterministic(t *testing.T) {
	seed, err := SeedFromHex(strings.Repeat("2a", 32))
	require.NoError(t, err)

	a1 := seed.Address("iota", 0, 0)
	a2 := seed.Address("iota", 0, 0)
	assert.Equal(t, a1, a2)

	// Distinct accounts and indexes land on distinct addresses.
	assert.NotEqual(t, a1, seed.Address("iota", 0, 1))
	assert.NotEqual(t, a1, seed.Address("iota", 1, 0))
	assert.NotEqual(t, seed.Address("iota", 0, 1), seed.Address("iota", 1, 0))
}

func TestSeed_KeySignsForDerivedAddress(t *testing.T) {
	seed, err := SeedFromHex(strings.Repeat("07", 32))
	require.NoError(t, err)

	key := seed.Key(0, 3)
	require.Len(t, []byte(key), 64)

	addr := seed.Address("iota", 0, 3)
	_, _, err = ParseAddress(addr)
	require.NoError(t, err)
}

func TestSeed_FromMnemonic(t *testing.T) {
	// A valid BIP-39 sentence (all-zero entropy).
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	s1, err := SeedFromMnemonic(mnemonic, "")
	require.NoError(t, err)
	s2, err := SeedFromMnemonic(mnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, s1, s2)

	withPass, err := SeedFromMnemonic(mnemonic, "TREZOR")
	require.NoError(t, err)
	assert.NotEqual(t, s1, withPass)

	_, err = SeedFromMnemonic("clearly not a mnemonic sentence", "")
	require.Error(t, err)
}
