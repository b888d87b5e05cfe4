// Package operation defines the closed set of calls that may be submitted
// to the dispatch bridge. Each variant is an immutable value carrying
// exactly the parameters of one supported capability; the dispatcher
// type-switches over the set exhaustively. Adding a capability means adding
// one variant here and one arm in the dispatcher.
package operation

import (
	"github.com/tanglekit/tanglebridge/client"
)

// Kind enumerates the supported operation variants.
type Kind int

const (
	// KindSendTransfer builds, signs and submits a transfer from a seed.
	KindSendTransfer Kind = iota
	// KindGetUnspentAddress finds the first unused derived address.
	KindGetUnspentAddress
	// KindFindMessages fetches messages by indexation keys and IDs.
	KindFindMessages
	// KindGetBalance sums a seed's confirmed balance.
	KindGetBalance
	// KindGetAddressBalances fetches balances for explicit addresses.
	KindGetAddressBalances
	// KindGetInfo fetches node metadata.
	KindGetInfo
	// KindGetTips fetches two tip message IDs.
	KindGetTips
	// KindPostMessage submits a prepared message.
	KindPostMessage
	// KindGetMessagesByIndexation lists message IDs under an index key.
	KindGetMessagesByIndexation
	// KindGetMessage fetches a message by ID.
	KindGetMessage
	// KindGetMessageMetadata fetches message confirmation metadata.
	KindGetMessageMetadata
	// KindGetRawMessage fetches the raw serialized message bytes.
	KindGetRawMessage
	// KindGetMessageChildren lists messages referencing the given one.
	KindGetMessageChildren
	// KindGetOutput fetches one output's metadata.
	KindGetOutput
	// KindFindOutputs fetches outputs by ID and by address.
	KindFindOutputs
	// KindGetAddressBalance fetches one address's balance.
	KindGetAddressBalance
	// KindGetAddressOutputs lists the unspent output IDs on an address.
	KindGetAddressOutputs
	// KindGetMilestone fetches a milestone by index.
	KindGetMilestone
	// KindRetry reposts a message (reattach or promote as appropriate).
	KindRetry
	// KindReattach resubmits a message's payload on fresh tips.
	KindReattach
	// KindPromote submits an empty message referencing the target.
	KindPromote
	// KindSyncNodes refreshes the client's healthy node set.
	KindSyncNodes
)

// String returns the canonical camelCase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSendTransfer:
		return "sendTransfer"
	case KindGetUnspentAddress:
		return "getUnspentAddress"
	case KindFindMessages:
		return "findMessages"
	case KindGetBalance:
		return "getBalance"
	case KindGetAddressBalances:
		return "getAddressBalances"
	case KindGetInfo:
		return "getInfo"
	case KindGetTips:
		return "getTips"
	case KindPostMessage:
		return "postMessage"
	case KindGetMessagesByIndexation:
		return "getMessagesByIndexation"
	case KindGetMessage:
		return "getMessage"
	case KindGetMessageMetadata:
		return "getMessageMetadata"
	case KindGetRawMessage:
		return "getRawMessage"
	case KindGetMessageChildren:
		return "getMessageChildren"
	case KindGetOutput:
		return "getOutput"
	case KindFindOutputs:
		return "findOutputs"
	case KindGetAddressBalance:
		return "getAddressBalance"
	case KindGetAddressOutputs:
		return "getAddressOutputs"
	case KindGetMilestone:
		return "getMilestone"
	case KindRetry:
		return "retry"
	case KindReattach:
		return "reattach"
	case KindPromote:
		return "promote"
	case KindSyncNodes:
		return "syncNodes"
	default:
		return "unknown"
	}
}

// Access declares the resource lock an operation requires.
type Access int

const (
	// AccessShared allows the operation to run alongside other shared
	// operations on the same handle.
	AccessShared Access = iota
	// AccessExclusive serializes the operation against everything else on
	// the same handle.
	AccessExclusive
)

// Operation is the sealed interface implemented by every variant. The set
// is closed on purpose: the dispatcher enumerates and handles every variant
// at compile time.
type Operation interface {
	Kind() Kind
	Access() Access

	isOperation()
}

// sharedOp is embedded by read-only / stateless-submission variants.
type sharedOp struct{}

func (sharedOp) Access() Access { return AccessShared }
func (sharedOp) isOperation()   {}

// exclusiveOp is embedded by variants that mutate the client resource.
type exclusiveOp struct{}

func (exclusiveOp) Access() Access { return AccessExclusive }
func (exclusiveOp) isOperation()   {}

// SendTransfer submits a signed transfer from the seed to the outputs.
type SendTransfer struct {
	sharedOp
	Seed    client.Seed
	Options client.SeedOptions
	Outputs []client.TransferOutput
}

// Kind implements Operation.
func (SendTransfer) Kind() Kind { return KindSendTransfer }

// GetUnspentAddress finds the first unused derived address for the seed.
type GetUnspentAddress struct {
	sharedOp
	Seed    client.Seed
	Options client.SeedOptions
}

// Kind implements Operation.
func (GetUnspentAddress) Kind() Kind { return KindGetUnspentAddress }

// FindMessages fetches messages matching indexation keys and message IDs.
type FindMessages struct {
	sharedOp
	IndexationKeys []string
	MessageIDs     []client.MessageID
}

// Kind implements Operation.
func (FindMessages) Kind() Kind { return KindFindMessages }

// GetBalance sums the seed's confirmed balance.
type GetBalance struct {
	sharedOp
	Seed    client.Seed
	Options client.SeedOptions
}

// Kind implements Operation.
func (GetBalance) Kind() Kind { return KindGetBalance }

// GetAddressBalances fetches the balance of each listed address.
type GetAddressBalances struct {
	sharedOp
	Addresses []client.Bech32Address
}

// Kind implements Operation.
func (GetAddressBalances) Kind() Kind { return KindGetAddressBalances }

// GetInfo fetches node metadata.
type GetInfo struct{ sharedOp }

// Kind implements Operation.
func (GetInfo) Kind() Kind { return KindGetInfo }

// GetTips fetches two tip message IDs.
type GetTips struct{ sharedOp }

// Kind implements Operation.
func (GetTips) Kind() Kind { return KindGetTips }

// PostMessage submits a prepared message.
type PostMessage struct {
	sharedOp
	Message *client.Message
}

// Kind implements Operation.
func (PostMessage) Kind() Kind { return KindPostMessage }

// GetMessagesByIndexation lists message IDs under an indexation key.
type GetMessagesByIndexation struct {
	sharedOp
	Index string
}

// Kind implements Operation.
func (GetMessagesByIndexation) Kind() Kind { return KindGetMessagesByIndexation }

// GetMessage fetches a message by ID.
type GetMessage struct {
	sharedOp
	ID client.MessageID
}

// Kind implements Operation.
func (GetMessage) Kind() Kind { return KindGetMessage }

// GetMessageMetadata fetches message confirmation metadata.
type GetMessageMetadata struct {
	sharedOp
	ID client.MessageID
}

// Kind implements Operation.
func (GetMessageMetadata) Kind() Kind { return KindGetMessageMetadata }

// GetRawMessage fetches the raw serialized bytes of a message. Its outcome
// bypasses canonical encoding and is delivered as raw bytes.
type GetRawMessage struct {
	sharedOp
	ID client.MessageID
}

// Kind implements Operation.
func (GetRawMessage) Kind() Kind { return KindGetRawMessage }

// GetMessageChildren lists the messages referencing the given one.
type GetMessageChildren struct {
	sharedOp
	ID client.MessageID
}

// Kind implements Operation.
func (GetMessageChildren) Kind() Kind { return KindGetMessageChildren }

// GetOutput fetches one output's metadata.
type GetOutput struct {
	sharedOp
	ID client.OutputID
}

// Kind implements Operation.
func (GetOutput) Kind() Kind { return KindGetOutput }

// FindOutputs fetches outputs by explicit ID and by address.
type FindOutputs struct {
	sharedOp
	OutputIDs []client.OutputID
	Addresses []client.Bech32Address
}

// Kind implements Operation.
func (FindOutputs) Kind() Kind { return KindFindOutputs }

// GetAddressBalance fetches one address's confirmed balance.
type GetAddressBalance struct {
	sharedOp
	Address client.Bech32Address
}

// Kind implements Operation.
func (GetAddressBalance) Kind() Kind { return KindGetAddressBalance }

// GetAddressOutputs lists the unspent output IDs on an address.
type GetAddressOutputs struct {
	sharedOp
	Address client.Bech32Address
}

// Kind implements Operation.
func (GetAddressOutputs) Kind() Kind { return KindGetAddressOutputs }

// GetMilestone fetches a milestone by index.
type GetMilestone struct {
	sharedOp
	Index uint32
}

// Kind implements Operation.
func (GetMilestone) Kind() Kind { return KindGetMilestone }

// Retry reposts a message, reattaching or promoting as the node advises.
type Retry struct {
	sharedOp
	ID client.MessageID
}

// Kind implements Operation.
func (Retry) Kind() Kind { return KindRetry }

// Reattach resubmits a message's payload on fresh tips.
type Reattach struct {
	sharedOp
	ID client.MessageID
}

// Kind implements Operation.
func (Reattach) Kind() Kind { return KindReattach }

// Promote submits an empty indexation message referencing the target.
type Promote struct {
	sharedOp
	ID client.MessageID
}

// Kind implements Operation.
func (Promote) Kind() Kind { return KindPromote }

// SyncNodes refreshes the client's healthy node set. It mutates the client
// and therefore requires exclusive resource access.
type SyncNodes struct{ exclusiveOp }

// Kind implements Operation.
func (SyncNodes) Kind() Kind { return KindSyncNodes }
