package tanglebridge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/tanglekit/tanglebridge"
	"github.com/tanglekit/tanglebridge/client"
	"github.com/tanglekit/tanglebridge/dispatch"
	"github.com/tanglekit/tanglebridge/internal/testutil"
	"github.com/tanglekit/tanglebridge/operation"
)

func TestBridge_EndToEnd(t *testing.T) {
	node := testutil.NewMockNode("iota")
	t.Cleanup(node.Close)

	bridge, err := tanglebridge.New(func(o *tanglebridge.Options) {
		o.Workers = 4
	})
	require.NoError(t, err)

	h, err := bridge.OpenClient(func(o *client.Options) {
		o.Nodes = []string{node.URL()}
	})
	require.NoError(t, err)

	results := make(chan map[dispatch.TaskID]dispatch.Outcome, 1)
	go func() {
		m := make(map[dispatch.TaskID]dispatch.Outcome)
		for out := range bridge.Outcomes() {
			m[out.TaskID] = out
		}
		results <- m
	}()

	infoID := bridge.Submit(h, operation.GetInfo{})
	missingID := bridge.Submit(h, operation.GetMessage{ID: client.EmptyMessageID})
	bridge.Close()

	outcomes := <-results
	require.Len(t, outcomes, 2)

	info := outcomes[infoID]
	require.True(t, info.OK(), "unexpected failure: %v", info.Failure)
	assert.Equal(t, "mock-node", gjson.Get(info.Payload, "name").String())

	missing := outcomes[missingID]
	require.False(t, missing.OK())
	assert.Equal(t, dispatch.FailureClient, missing.Failure.Kind)
}

func TestBridge_OpenClientValidation(t *testing.T) {
	bridge, err := tanglebridge.New()
	require.NoError(t, err)
	defer bridge.Close()

	_, err = bridge.OpenClient() // no nodes configured
	require.Error(t, err)
}

func TestBridge_CloseClient(t *testing.T) {
	node := testutil.NewMockNode("iota")
	t.Cleanup(node.Close)

	bridge, err := tanglebridge.New()
	require.NoError(t, err)

	h, err := bridge.OpenClient(func(o *client.Options) {
		o.Nodes = []string{node.URL()}
	})
	require.NoError(t, err)

	require.True(t, bridge.CloseClient(h))
	require.False(t, bridge.CloseClient(h))

	results := make(chan dispatch.Outcome, 1)
	go func() {
		for out := range bridge.Outcomes() {
			results <- out
		}
	}()

	bridge.Submit(h, operation.GetInfo{})
	bridge.Close()

	out := <-results
	require.False(t, out.OK())
	assert.Equal(t, dispatch.FailureUnknownHandle, out.Failure.Kind)
}

func TestBridge_BadOptionsSurfaceAtConstruction(t *testing.T) {
	_, err := tanglebridge.New(func(o *tanglebridge.Options) {
		o.Workers = -1
	})
	require.Error(t, err)
}
