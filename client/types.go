package client

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// MessageID identifies a message on the tangle (BLAKE2b-256 digest).
type MessageID [32]byte

// EmptyMessageID is the all-zero message identifier.
var EmptyMessageID = MessageID{}

// Hex returns the lowercase hex encoding of the message ID.
func (m MessageID) Hex() string { return hex.EncodeToString(m[:]) }

// String implements fmt.Stringer.
func (m MessageID) String() string { return m.Hex() }

// MessageIDFromHex parses a 64-char hex string into a MessageID.
func MessageIDFromHex(s string) (MessageID, error) {
	var id MessageID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("invalid message id %q: %w", s, err)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("invalid message id %q: expected %d bytes, got %d", s, len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}

// TransactionID identifies a transaction payload (BLAKE2b-256 digest).
type TransactionID [32]byte

// Hex returns the lowercase hex encoding of the transaction ID.
func (t TransactionID) Hex() string { return hex.EncodeToString(t[:]) }

// OutputID references one output of a transaction: transaction ID plus
// output index, serialized as 68 hex characters (index little-endian).
type OutputID struct {
	TransactionID TransactionID
	Index         uint16
}

// Hex returns the canonical 68-char hex encoding of the output ID.
func (o OutputID) Hex() string {
	var idx [2]byte
	binary.LittleEndian.PutUint16(idx[:], o.Index)
	return o.TransactionID.Hex() + hex.EncodeToString(idx[:])
}

// String implements fmt.Stringer.
func (o OutputID) String() string { return o.Hex() }

// OutputIDFromHex parses a 68-char hex string into an OutputID.
func OutputIDFromHex(s string) (OutputID, error) {
	var out OutputID
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("invalid output id %q: %w", s, err)
	}
	if len(b) != 34 {
		return out, fmt.Errorf("invalid output id %q: expected 34 bytes, got %d", s, len(b))
	}
	copy(out.TransactionID[:], b[:32])
	out.Index = binary.LittleEndian.Uint16(b[32:])
	return out, nil
}

// NodeInfo describes the node a client is connected to.
type NodeInfo struct {
	Name                    string   `json:"name"`
	Version                 string   `json:"version"`
	IsHealthy               bool     `json:"isHealthy"`
	NetworkID               string   `json:"networkId"`
	Bech32HRP               string   `json:"bech32HRP"`
	MinPoWScore             float64  `json:"minPoWScore"`
	LatestMilestoneIndex    uint32   `json:"latestMilestoneIndex"`
	ConfirmedMilestoneIndex uint32   `json:"confirmedMilestoneIndex"`
	PruningIndex            uint32   `json:"pruningIndex"`
	Features                []string `json:"features"`
}

// Payload type discriminators used on the wire.
const (
	PayloadTypeTransaction = 0
	PayloadTypeMilestone   = 1
	PayloadTypeIndexation  = 2
)

// Payload is the tagged message payload. Exactly one of the optional field
// groups is populated depending on Type.
type Payload struct {
	Type int `json:"type"`

	// Indexation payload fields (Type == PayloadTypeIndexation).
	Index string `json:"index,omitempty"`
	Data  string `json:"data,omitempty"` // hex encoded

	// Transaction payload fields (Type == PayloadTypeTransaction).
	Essence      *TransactionEssence `json:"essence,omitempty"`
	UnlockBlocks []UnlockBlock       `json:"unlockBlocks,omitempty"`
}

// TransactionEssence carries the signed portion of a transaction payload.
type TransactionEssence struct {
	Type    int             `json:"type"`
	Inputs  []UTXOInputRef  `json:"inputs"`
	Outputs []SigLockOutput `json:"outputs"`
	Payload *Payload        `json:"payload,omitempty"`
}

// UTXOInputRef references a consumed transaction output.
type UTXOInputRef struct {
	Type                   int    `json:"type"`
	TransactionID          string `json:"transactionId"`
	TransactionOutputIndex uint16 `json:"transactionOutputIndex"`
}

// SigLockOutput is a signature-locked single output.
type SigLockOutput struct {
	Type    int           `json:"type"`
	Address OutputAddress `json:"address"`
	Amount  uint64        `json:"amount"`
}

// OutputAddress is the on-wire ed25519 address of an output.
type OutputAddress struct {
	Type    int    `json:"type"`
	Address string `json:"address"` // hex encoded ed25519 digest
}

// UnlockBlock authorizes spending of the input at the same index.
type UnlockBlock struct {
	Type      int             `json:"type"`
	Signature *SignatureBlock `json:"signature,omitempty"`
	Reference *uint16         `json:"reference,omitempty"`
}

// SignatureBlock holds an ed25519 public key and signature, hex encoded.
type SignatureBlock struct {
	Type      int    `json:"type"`
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

// Message is a vertex in the tangle referencing earlier messages and
// optionally carrying a payload.
type Message struct {
	NetworkID        string   `json:"networkId"`
	ParentMessageIDs []string `json:"parentMessageIds"`
	Payload          *Payload `json:"payload,omitempty"`
	Nonce            string   `json:"nonce"`
}

// MessageMetadata describes the confirmation state of a message.
type MessageMetadata struct {
	MessageID                  string   `json:"messageId"`
	ParentMessageIDs           []string `json:"parentMessageIds"`
	IsSolid                    bool     `json:"isSolid"`
	ReferencedByMilestoneIndex *uint32  `json:"referencedByMilestoneIndex,omitempty"`
	LedgerInclusionState       *string  `json:"ledgerInclusionState,omitempty"`
	ShouldPromote              *bool    `json:"shouldPromote,omitempty"`
	ShouldReattach             *bool    `json:"shouldReattach,omitempty"`
}

// OutputMetadata describes one transaction output and its spend status.
// Identifiers are binary here; the bridge layer owns the canonical text
// encoding.
type OutputMetadata struct {
	MessageID     MessageID
	TransactionID TransactionID
	OutputIndex   uint16
	IsSpent       bool
	Address       Bech32Address
	Amount        uint64
}

// AddressBalancePair pairs an address with its confirmed balance.
type AddressBalancePair struct {
	Address Bech32Address
	Balance uint64
}

// MilestoneResponse describes a confirmed milestone.
type MilestoneResponse struct {
	Index     uint32 `json:"index"`
	MessageID string `json:"messageId"`
	Timestamp int64  `json:"timestamp"`
}

// SeedOptions selects the key space for seed-driven operations. Account is
// the rendering of the original derivation-path parameter; Start is the
// first address index considered. Zero values are valid defaults.
type SeedOptions struct {
	Account uint64
	Start   uint64
}

// TransferOutput is one (address, amount) pair of a transfer.
type TransferOutput struct {
	Address Bech32Address
	Amount  uint64
}
