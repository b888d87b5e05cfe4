// Package testutil provides an in-memory tangle node for tests. The mock
// serves the REST surface the client speaks, backed by maps the test seeds
// directly (funded outputs, stored messages, milestones).
package testutil

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/tanglekit/tanglebridge/client"
)

// MockNode is a stateful fake node served over httptest.
type MockNode struct {
	mu sync.Mutex

	hrp       string
	networkID string
	healthy   bool

	messages  map[string]*client.Message
	metadata  map[string]*client.MessageMetadata
	raw       map[string][]byte
	children  map[string][]string
	byIndex   map[string][]string
	outputs   map[string]outputRecord
	byAddress map[string][]string
	milestone map[uint32]client.MilestoneResponse

	tips      []string
	txCounter uint64

	srv *httptest.Server
}

type outputRecord struct {
	messageID     string
	transactionID string
	outputIndex   uint16
	isSpent       bool
	addressHex    string
	amount        uint64
}

// NewMockNode starts a mock node with the given address prefix.
func NewMockNode(hrp string) *MockNode {
	n := &MockNode{
		hrp:       hrp,
		networkID: "mocknet",
		healthy:   true,
		messages:  make(map[string]*client.Message),
		metadata:  make(map[string]*client.MessageMetadata),
		raw:       make(map[string][]byte),
		children:  make(map[string][]string),
		byIndex:   make(map[string][]string),
		outputs:   make(map[string]outputRecord),
		byAddress: make(map[string][]string),
		milestone: make(map[uint32]client.MilestoneResponse),
		tips: []string{
			digestHex("tip-0"),
			digestHex("tip-1"),
		},
	}

	r := chi.NewRouter()
	r.Get("/health", n.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/info", n.handleInfo)
		r.Get("/tips", n.handleTips)
		r.Post("/messages", n.handleSubmitMessage)
		r.Get("/messages", n.handleMessagesByIndex)
		r.Get("/messages/{id}", n.handleMessage)
		r.Get("/messages/{id}/metadata", n.handleMessageMetadata)
		r.Get("/messages/{id}/raw", n.handleMessageRaw)
		r.Get("/messages/{id}/children", n.handleMessageChildren)
		r.Get("/outputs/{id}", n.handleOutput)
		r.Get("/addresses/ed25519/{addr}", n.handleAddressBalance)
		r.Get("/addresses/ed25519/{addr}/outputs", n.handleAddressOutputs)
		r.Get("/milestones/{index}", n.handleMilestone)
	})

	n.srv = httptest.NewServer(r)
	return n
}

// URL returns the node's base URL.
func (n *MockNode) URL() string { return n.srv.URL }

// Close shuts the server down.
func (n *MockNode) Close() { n.srv.Close() }

// SetHealthy flips the health endpoint's answer.
func (n *MockNode) SetHealthy(ok bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.healthy = ok
}

// FundAddress records an unspent output of the given amount on the address
// and returns the synthetic output ID.
func (n *MockNode) FundAddress(addr client.Bech32Address, amount uint64) (client.OutputID, error) {
	_, digest, err := client.ParseAddress(addr)
	if err != nil {
		return client.OutputID{}, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.txCounter++
	txHex := digestHex(fmt.Sprintf("tx-%d", n.txCounter))
	id, err := client.OutputIDFromHex(txHex + "0000")
	if err != nil {
		return client.OutputID{}, err
	}

	addrHex := hex.EncodeToString(digest[:])
	n.outputs[id.Hex()] = outputRecord{
		messageID:     digestHex(fmt.Sprintf("msg-%d", n.txCounter)),
		transactionID: txHex,
		outputIndex:   0,
		isSpent:       false,
		addressHex:    addrHex,
		amount:        amount,
	}
	n.byAddress[addrHex] = append(n.byAddress[addrHex], id.Hex())
	return id, nil
}

// MarkSpent flags an output as consumed.
func (n *MockNode) MarkSpent(id client.OutputID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	rec, ok := n.outputs[id.Hex()]
	if !ok {
		return
	}
	rec.isSpent = true
	n.outputs[id.Hex()] = rec
}

// PutMessage stores a message under the given hex ID, with default solid
// metadata and raw bytes derived from its JSON form.
func (n *MockNode) PutMessage(idHex string, msg *client.Message) {
	buf, _ := json.Marshal(msg)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.storeMessageLocked(idHex, msg, buf)
}

// PutMetadata overrides a message's confirmation metadata.
func (n *MockNode) PutMetadata(idHex string, md *client.MessageMetadata) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.metadata[idHex] = md
}

// PutChildren records the children of a message.
func (n *MockNode) PutChildren(idHex string, childIDs ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.children[idHex] = childIDs
}

// PutMilestone stores a milestone response.
func (n *MockNode) PutMilestone(ms client.MilestoneResponse) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.milestone[ms.Index] = ms
}

// Message returns a stored message by hex ID, if present.
func (n *MockNode) Message(idHex string) (*client.Message, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	msg, ok := n.messages[idHex]
	return msg, ok
}

// MessageCount reports how many messages the node holds.
func (n *MockNode) MessageCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func (n *MockNode) storeMessageLocked(idHex string, msg *client.Message, raw []byte) {
	n.messages[idHex] = msg
	n.raw[idHex] = raw
	if _, ok := n.metadata[idHex]; !ok {
		n.metadata[idHex] = &client.MessageMetadata{
			MessageID:        idHex,
			ParentMessageIDs: msg.ParentMessageIDs,
			IsSolid:          true,
		}
	}
	if msg.Payload != nil && msg.Payload.Type == client.PayloadTypeIndexation {
		key := msg.Payload.Index
		n.byIndex[key] = append(n.byIndex[key], idHex)
	}
}

func digestHex(s string) string {
	sum := blake2b.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func writeData(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": msg},
	})
}

func (n *MockNode) handleHealth(w http.ResponseWriter, _ *http.Request) {
	n.mu.Lock()
	ok := n.healthy
	n.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (n *MockNode) handleInfo(w http.ResponseWriter, _ *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	writeData(w, client.NodeInfo{
		Name:        "mock-node",
		Version:     "1.0.0",
		IsHealthy:   n.healthy,
		NetworkID:   n.networkID,
		Bech32HRP:   n.hrp,
		MinPoWScore: 4000,
		Features:    []string{"PoW"},
	})
}

func (n *MockNode) handleTips(w http.ResponseWriter, _ *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()
	writeData(w, map[string][]string{"tipMessageIds": n.tips})
}

func (n *MockNode) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	var msg client.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "400", "invalid message body")
		return
	}
	buf, _ := json.Marshal(&msg)
	sum := blake2b.Sum256(buf)
	idHex := hex.EncodeToString(sum[:])

	n.mu.Lock()
	n.storeMessageLocked(idHex, &msg, buf)
	n.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	writeData(w, map[string]string{"messageId": idHex})
}

func (n *MockNode) handleMessagesByIndex(w http.ResponseWriter, r *http.Request) {
	index := r.URL.Query().Get("index")
	n.mu.Lock()
	ids := append([]string(nil), n.byIndex[index]...)
	n.mu.Unlock()
	writeData(w, map[string]any{"index": index, "messageIds": ids})
}

func (n *MockNode) handleMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n.mu.Lock()
	msg, ok := n.messages[id]
	n.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "404", fmt.Sprintf("message %s not found", id))
		return
	}
	writeData(w, msg)
}

func (n *MockNode) handleMessageMetadata(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n.mu.Lock()
	md, ok := n.metadata[id]
	n.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "404", fmt.Sprintf("message %s not found", id))
		return
	}
	writeData(w, md)
}

func (n *MockNode) handleMessageRaw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n.mu.Lock()
	raw, ok := n.raw[id]
	n.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "404", fmt.Sprintf("message %s not found", id))
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(raw)
}

func (n *MockNode) handleMessageChildren(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n.mu.Lock()
	ids := append([]string(nil), n.children[id]...)
	n.mu.Unlock()
	writeData(w, map[string]any{"messageId": id, "childrenMessageIds": ids})
}

func (n *MockNode) handleOutput(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n.mu.Lock()
	rec, ok := n.outputs[id]
	n.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "404", fmt.Sprintf("output %s not found", id))
		return
	}
	writeData(w, map[string]any{
		"messageId":     rec.messageID,
		"transactionId": rec.transactionID,
		"outputIndex":   rec.outputIndex,
		"isSpent":       rec.isSpent,
		"output": map[string]any{
			"type": 0,
			"address": map[string]any{
				"type":    0,
				"address": rec.addressHex,
			},
			"amount": rec.amount,
		},
	})
}

func (n *MockNode) handleAddressBalance(w http.ResponseWriter, r *http.Request) {
	addr := chi.URLParam(r, "addr")
	n.mu.Lock()
	var balance uint64
	for _, id := range n.byAddress[addr] {
		rec := n.outputs[id]
		if !rec.isSpent {
			balance += rec.amount
		}
	}
	n.mu.Unlock()
	writeData(w, map[string]any{"address": addr, "balance": balance})
}

func (n *MockNode) handleAddressOutputs(w http.ResponseWriter, r *http.Request) {
	addr := chi.URLParam(r, "addr")
	n.mu.Lock()
	ids := make([]string, 0)
	for _, id := range n.byAddress[addr] {
		if !n.outputs[id].isSpent {
			ids = append(ids, id)
		}
	}
	n.mu.Unlock()
	writeData(w, map[string]any{"address": addr, "outputIds": ids})
}

func (n *MockNode) handleMilestone(w http.ResponseWriter, r *http.Request) {
	var index uint32
	if _, err := fmt.Sscanf(chi.URLParam(r, "index"), "%d", &index); err != nil {
		writeError(w, http.StatusBadRequest, "400", "invalid milestone index")
		return
	}
	n.mu.Lock()
	ms, ok := n.milestone[index]
	n.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "404", fmt.Sprintf("milestone %d not found", index))
		return
	}
	writeData(w, ms)
}
