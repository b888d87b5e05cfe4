package operation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// every variant, paired with its expected kind
var allOperations = []struct {
	op   Operation
	kind Kind
	name string
}{
	{SendTransfer{}, KindSendTransfer, "sendTransfer"},
	{GetUnspentAddress{}, KindGetUnspentAddress, "getUnspentAddress"},
	{FindMessages{}, KindFindMessages, "findMessages"},
	{GetBalance{}, KindGetBalance, "getBalance"},
	{GetAddressBalances{}, KindGetAddressBalances, "getAddressBalances"},
	{GetInfo{}, KindGetInfo, "getInfo"},
	{GetTips{}, KindGetTips, "getTips"},
	{PostMessage{}, KindPostMessage, "postMessage"},
	{GetMessagesByIndexation{}, KindGetMessagesByIndexation, "getMessagesByIndexation"},
	{GetMessage{}, KindGetMessage, "getMessage"},
	{GetMessageMetadata{}, KindGetMessageMetadata, "getMessageMetadata"},
	{GetRawMessage{}, KindGetRawMessage, "getRawMessage"},
	{GetMessageChildren{}, KindGetMessageChildren, "getMessageChildren"},
	{GetOutput{}, KindGetOutput, "getOutput"},
	{FindOutputs{}, KindFindOutputs, "findOutputs"},
	{GetAddressBalance{}, KindGetAddressBalance, "getAddressBalance"},
	{GetAddressOutputs{}, KindGetAddressOutputs, "getAddressOutputs"},
	{GetMilestone{}, KindGetMilestone, "getMilestone"},
	{Retry{}, KindRetry, "retry"},
	{Reattach{}, KindReattach, "reattach"},
	{Promote{}, KindPromote, "promote"},
	{SyncNodes{}, KindSyncNodes, "syncNodes"},
}

func TestOperation_KindsAndNames(t *testing.T) {
	seen := make(map[Kind]struct{}, len(allOperations))
	for _, tc := range allOperations {
		assert.Equal(t, tc.kind, tc.op.Kind())
		assert.Equal(t, tc.name, tc.op.Kind().String())
		_, dup := seen[tc.kind]
		assert.False(t, dup, "kind %s listed twice", tc.kind)
		seen[tc.kind] = struct{}{}
	}
}

// Refreshing the node set is the only operation that mutates a client;
// everything else shares the resource.
func TestOperation_AccessClasses(t *testing.T) {
	for _, tc := range allOperations {
		want := AccessShared
		if tc.kind == KindSyncNodes {
			want = AccessExclusive
		}
		assert.Equal(t, want, tc.op.Access(), "access for %s", tc.name)
	}
}

func TestKind_UnknownString(t *testing.T) {
	assert.Equal(t, "unknown", Kind(-1).String())
}
