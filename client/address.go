package client

import (
	"encoding/hex"
	"strings"
)

// Bech32Address is a bech32 encoded ed25519 address (HRP + type byte +
// BLAKE2b-256 key digest).
type Bech32Address string

// String implements fmt.Stringer.
func (a Bech32Address) String() string { return string(a) }

// AddressTypeEd25519 is the serialized type discriminator for ed25519
// addresses.
const AddressTypeEd25519 = 0

const bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var bech32Gen = [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}

func bech32Polymod(values []byte) uint32 {
	chk := uint32(1)
	for _, v := range values {
		b := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (b>>uint(i))&1 == 1 {
				chk ^= bech32Gen[i]
			}
		}
	}
	return chk
}

func bech32HRPExpand(hrp string) []byte {
	out := make([]byte, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]>>5)
	}
	out = append(out, 0)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]&31)
	}
	return out
}

func bech32Checksum(hrp string, data []byte) []byte {
	values := append(bech32HRPExpand(hrp), data...)
	values = append(values, 0, 0, 0, 0, 0, 0)
	polymod := bech32Polymod(values) ^ 1
	checksum := make([]byte, 6)
	for i := 0; i < 6; i++ {
		checksum[i] = byte((polymod >> uint(5*(5-i))) & 31)
	}
	return checksum
}

// convertBits regroups data from fromBits-sized groups into toBits-sized
// groups, optionally padding the final group.
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, bool) {
	var acc uint32
	var bits uint
	out := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)
	maxv := uint32(1<<toBits) - 1
	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, false
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte((acc>>bits)&maxv))
		}
	}
	if pad {
		if bits > 0 {
			out = append(out, byte((acc<<(toBits-bits))&maxv))
		}
	} else if bits >= fromBits || (acc<<(toBits-bits))&maxv != 0 {
		return nil, false
	}
	return out, true
}

func bech32Encode(hrp string, data []byte) string {
	var b strings.Builder
	b.WriteString(hrp)
	b.WriteByte('1')
	for _, d := range data {
		b.WriteByte(bech32Charset[d])
	}
	for _, d := range bech32Checksum(hrp, data) {
		b.WriteByte(bech32Charset[d])
	}
	return b.String()
}

func bech32Decode(s string) (string, []byte, *AddressError) {
	if len(s) < 8 || len(s) > 90 {
		return "", nil, &AddressError{Address: s, Reason: "invalid length"}
	}
	if strings.ToLower(s) != s && strings.ToUpper(s) != s {
		return "", nil, &AddressError{Address: s, Reason: "mixed case"}
	}
	s = strings.ToLower(s)
	sep := strings.LastIndexByte(s, '1')
	if sep < 1 || sep+7 > len(s) {
		return "", nil, &AddressError{Address: s, Reason: "missing separator"}
	}
	hrp := s[:sep]
	for i := 0; i < len(hrp); i++ {
		if hrp[i] < 33 || hrp[i] > 126 {
			return "", nil, &AddressError{Address: s, Reason: "invalid human-readable part"}
		}
	}
	data := make([]byte, 0, len(s)-sep-1)
	for i := sep + 1; i < len(s); i++ {
		idx := strings.IndexByte(bech32Charset, s[i])
		if idx < 0 {
			return "", nil, &AddressError{Address: s, Reason: "invalid character"}
		}
		data = append(data, byte(idx))
	}
	values := append(bech32HRPExpand(hrp), data...)
	if bech32Polymod(values) != 1 {
		return "", nil, &AddressError{Address: s, Reason: "checksum mismatch"}
	}
	return hrp, data[:len(data)-6], nil
}

// EncodeAddress encodes an ed25519 key digest into a bech32 address with
// the given human-readable prefix.
func EncodeAddress(hrp string, digest [32]byte) Bech32Address {
	raw := make([]byte, 0, 33)
	raw = append(raw, AddressTypeEd25519)
	raw = append(raw, digest[:]...)
	grouped, _ := convertBits(raw, 8, 5, true)
	return Bech32Address(bech32Encode(hrp, grouped))
}

// ParseAddress validates a bech32 address and returns its HRP and ed25519
// key digest. Any malformation is reported as *AddressError.
func ParseAddress(addr Bech32Address) (string, [32]byte, error) {
	var digest [32]byte
	hrp, data, aerr := bech32Decode(string(addr))
	if aerr != nil {
		return "", digest, aerr
	}
	raw, ok := convertBits(data, 5, 8, false)
	if !ok {
		return "", digest, &AddressError{Address: string(addr), Reason: "invalid data part"}
	}
	if len(raw) != 33 {
		return "", digest, &AddressError{Address: string(addr), Reason: "invalid payload length"}
	}
	if raw[0] != AddressTypeEd25519 {
		return "", digest, &AddressError{Address: string(addr), Reason: "unknown address type"}
	}
	copy(digest[:], raw[1:])
	return hrp, digest, nil
}

// Ed25519Hex returns the hex key digest used by node address routes.
func (a Bech32Address) Ed25519Hex() (string, error) {
	_, digest, err := ParseAddress(a)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(digest[:]), nil
}
