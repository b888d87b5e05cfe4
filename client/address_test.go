package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_EncodeParseRoundTrip(t *testing.T) {
	var digest [32]byte
	for i := range digest {
		digest[i] = byte(i * 7)
	}

	addr := EncodeAddress("iota", digest)
	assert.True(t, len(addr) > 5)
	assert.Equal(t, "iota1", string(addr)[:5])

	hrp, got, err := ParseAddress(addr)
	require.NoError(t, err)
	assert.Equal(t, "iota", hrp)
	assert.Equal(t, digest, got)
}

func TestAddress_HRPVariants(t *testing.T) {
	var digest [32]byte
	digest[0] = 0xff

	for _, hrp := range []string{"iota", "atoi", "tst"} {
		addr := EncodeAddress(hrp, digest)
		gotHRP, gotDigest, err := ParseAddress(addr)
		require.NoError(t, err, "hrp %s", hrp)
		assert.Equal(t, hrp, gotHRP)
		assert.Equal(t, digest, gotDigest)
	}
}

func TestAddress_ParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		addr string
	}{
		{"empty", ""},
		{"no separator", "iotaqqqqqqqqqqqq"},
		{"bad charset", "iota1bbbbbbbbbbbbb"},
		{"bad checksum", "iota1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq"},
		{"mixed case", "Iota1Qqqqqqqq"},
		{"plain text", "definitely not an address"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseAddress(Bech32Address(tc.addr))
			require.Error(t, err)
			var addrErr *AddressError
			assert.ErrorAs(t, err, &addrErr)
		})
	}
}

func TestAddress_CorruptionDetected(t *testing.T) {
	var digest [32]byte
	digest[31] = 1
	addr := []byte(EncodeAddress("iota", digest))

	// Flip one data character; the checksum must catch it.
	pos := len(addr) - 10
	if addr[pos] == 'q' {
		addr[pos] = 'p'
	} else {
		addr[pos] = 'q'
	}

	_, _, err := ParseAddress(Bech32Address(addr))
	require.Error(t, err)
}

func TestAddress_Ed25519Hex(t *testing.T) {
	var digest [32]byte
	digest[0] = 0xab
	digest[31] = 0xcd

	addr := EncodeAddress("iota", digest)
	hexAddr, err := addr.Ed25519Hex()
	require.NoError(t, err)
	assert.Len(t, hexAddr, 64)
	assert.Equal(t, "ab", hexAddr[:2])
	assert.Equal(t, "cd", hexAddr[62:])
}
