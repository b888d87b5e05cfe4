package client

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/blake2b"
)

// Seed is the 32-byte master secret that seed-driven operations derive
// addresses and signing keys from.
type Seed [32]byte

// NewSeed generates a cryptographically random seed.
func NewSeed() (Seed, error) {
	var s Seed
	if _, err := rand.Read(s[:]); err != nil {
		return s, fmt.Errorf("generate seed: %w", err)
	}
	return s, nil
}

// SeedFromHex parses a 64-char hex string into a Seed.
func SeedFromHex(s string) (Seed, error) {
	var seed Seed
	b, err := hex.DecodeString(s)
	if err != nil {
		return seed, fmt.Errorf("invalid seed hex: %w", err)
	}
	if len(b) != len(seed) {
		return seed, fmt.Errorf("invalid seed length: expected %d bytes, got %d", len(seed), len(b))
	}
	copy(seed[:], b)
	return seed, nil
}

// SeedFromMnemonic derives a seed from a BIP-39 mnemonic sentence and
// optional passphrase.
func SeedFromMnemonic(mnemonic, passphrase string) (Seed, error) {
	var seed Seed
	if !bip39.IsMnemonicValid(mnemonic) {
		return seed, fmt.Errorf("invalid mnemonic sentence")
	}
	long := bip39.NewSeed(mnemonic, passphrase)
	sum := blake2b.Sum256(long)
	copy(seed[:], sum[:])
	return seed, nil
}

// Hex returns the lowercase hex encoding of the seed.
func (s Seed) Hex() string { return hex.EncodeToString(s[:]) }

// subSeed derives the per-address secret for (account, index).
func (s Seed) subSeed(account, index uint64) [32]byte {
	buf := make([]byte, 0, len(s)+16)
	buf = append(buf, s[:]...)
	var u [8]byte
	binary.LittleEndian.PutUint64(u[:], account)
	buf = append(buf, u[:]...)
	binary.LittleEndian.PutUint64(u[:], index)
	buf = append(buf, u[:]...)
	return blake2b.Sum256(buf)
}

// Key derives the ed25519 signing key for (account, index).
func (s Seed) Key(account, index uint64) ed25519.PrivateKey {
	sub := s.subSeed(account, index)
	return ed25519.NewKeyFromSeed(sub[:])
}

// Address derives the bech32 address for (account, index) under the given
// human-readable prefix.
func (s Seed) Address(hrp string, account, index uint64) Bech32Address {
	pub := s.Key(account, index).Public().(ed25519.PublicKey)
	digest := blake2b.Sum256(pub)
	return EncodeAddress(hrp, digest)
}
