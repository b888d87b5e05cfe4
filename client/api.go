package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
)

// Info fetches node metadata.
func (c *Client) Info(ctx context.Context) (*NodeInfo, error) {
	var info NodeInfo
	if err := c.do(ctx, http.MethodGet, "/api/v1/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Tips returns two tip messages suitable as parents for a new message.
func (c *Client) Tips(ctx context.Context) (MessageID, MessageID, error) {
	var res struct {
		TipMessageIDs []string `json:"tipMessageIds"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/tips", nil, &res); err != nil {
		return EmptyMessageID, EmptyMessageID, err
	}
	if len(res.TipMessageIDs) == 0 {
		return EmptyMessageID, EmptyMessageID, fmt.Errorf("node returned no tips")
	}
	first, err := MessageIDFromHex(res.TipMessageIDs[0])
	if err != nil {
		return EmptyMessageID, EmptyMessageID, err
	}
	second := first
	if len(res.TipMessageIDs) > 1 {
		if second, err = MessageIDFromHex(res.TipMessageIDs[1]); err != nil {
			return EmptyMessageID, EmptyMessageID, err
		}
	}
	return first, second, nil
}

// SubmitMessage posts a message to the tangle and returns its ID.
func (c *Client) SubmitMessage(ctx context.Context, msg *Message) (MessageID, error) {
	var res struct {
		MessageID string `json:"messageId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/messages", msg, &res); err != nil {
		return EmptyMessageID, err
	}
	return MessageIDFromHex(res.MessageID)
}

// MessageIDsByIndex returns the IDs of messages carrying the given
// indexation key.
func (c *Client) MessageIDsByIndex(ctx context.Context, index string) ([]MessageID, error) {
	var res struct {
		MessageIDs []string `json:"messageIds"`
	}
	path := "/api/v1/messages?index=" + hex.EncodeToString([]byte(index))
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	ids := make([]MessageID, 0, len(res.MessageIDs))
	for _, s := range res.MessageIDs {
		id, err := MessageIDFromHex(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Message fetches a message by ID.
func (c *Client) Message(ctx context.Context, id MessageID) (*Message, error) {
	var msg Message
	if err := c.do(ctx, http.MethodGet, "/api/v1/messages/"+id.Hex(), nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// MessageMetadata fetches the confirmation metadata of a message.
func (c *Client) MessageMetadata(ctx context.Context, id MessageID) (*MessageMetadata, error) {
	var md MessageMetadata
	if err := c.do(ctx, http.MethodGet, "/api/v1/messages/"+id.Hex()+"/metadata", nil, &md); err != nil {
		return nil, err
	}
	return &md, nil
}

// MessageRaw fetches the raw serialized bytes of a message.
func (c *Client) MessageRaw(ctx context.Context, id MessageID) ([]byte, error) {
	return c.raw(ctx, http.MethodGet, "/api/v1/messages/"+id.Hex()+"/raw", nil, "application/octet-stream")
}

// MessageChildren returns the IDs of messages referencing the given one.
func (c *Client) MessageChildren(ctx context.Context, id MessageID) ([]MessageID, error) {
	var res struct {
		ChildrenMessageIDs []string `json:"childrenMessageIds"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/messages/"+id.Hex()+"/children", nil, &res); err != nil {
		return nil, err
	}
	ids := make([]MessageID, 0, len(res.ChildrenMessageIDs))
	for _, s := range res.ChildrenMessageIDs {
		child, err := MessageIDFromHex(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, child)
	}
	return ids, nil
}

// outputResponse is the on-wire shape of the outputs endpoint.
type outputResponse struct {
	MessageID     string `json:"messageId"`
	TransactionID string `json:"transactionId"`
	OutputIndex   uint16 `json:"outputIndex"`
	IsSpent       bool   `json:"isSpent"`
	Output        struct {
		Type    int           `json:"type"`
		Address OutputAddress `json:"address"`
		Amount  uint64        `json:"amount"`
	} `json:"output"`
}

// Output fetches metadata for one transaction output.
func (c *Client) Output(ctx context.Context, id OutputID) (*OutputMetadata, error) {
	var res outputResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/outputs/"+id.Hex(), nil, &res); err != nil {
		return nil, err
	}
	return c.outputMetadataFromResponse(&res)
}

func (c *Client) outputMetadataFromResponse(res *outputResponse) (*OutputMetadata, error) {
	msgID, err := MessageIDFromHex(res.MessageID)
	if err != nil {
		return nil, err
	}
	txBytes, err := hex.DecodeString(res.TransactionID)
	if err != nil || len(txBytes) != 32 {
		return nil, fmt.Errorf("invalid transaction id %q", res.TransactionID)
	}
	var txID TransactionID
	copy(txID[:], txBytes)

	addrBytes, err := hex.DecodeString(res.Output.Address.Address)
	if err != nil || len(addrBytes) != 32 {
		return nil, fmt.Errorf("invalid output address %q", res.Output.Address.Address)
	}
	var digest [32]byte
	copy(digest[:], addrBytes)

	return &OutputMetadata{
		MessageID:     msgID,
		TransactionID: txID,
		OutputIndex:   res.OutputIndex,
		IsSpent:       res.IsSpent,
		Address:       EncodeAddress(c.opts.Bech32HRP, digest),
		Amount:        res.Output.Amount,
	}, nil
}

// BalanceByAddress returns the confirmed balance of one address.
func (c *Client) BalanceByAddress(ctx context.Context, addr Bech32Address) (*AddressBalancePair, error) {
	hexAddr, err := addr.Ed25519Hex()
	if err != nil {
		return nil, err
	}
	var res struct {
		Balance uint64 `json:"balance"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/addresses/ed25519/"+hexAddr, nil, &res); err != nil {
		return nil, err
	}
	return &AddressBalancePair{Address: addr, Balance: res.Balance}, nil
}

// OutputIDsByAddress returns the IDs of the unspent outputs on an address.
func (c *Client) OutputIDsByAddress(ctx context.Context, addr Bech32Address) ([]OutputID, error) {
	hexAddr, err := addr.Ed25519Hex()
	if err != nil {
		return nil, err
	}
	var res struct {
		OutputIDs []string `json:"outputIds"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/addresses/ed25519/"+hexAddr+"/outputs", nil, &res); err != nil {
		return nil, err
	}
	ids := make([]OutputID, 0, len(res.OutputIDs))
	for _, s := range res.OutputIDs {
		id, err := OutputIDFromHex(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Milestone fetches a confirmed milestone by index.
func (c *Client) Milestone(ctx context.Context, index uint32) (*MilestoneResponse, error) {
	var ms MilestoneResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/milestones/%d", index), nil, &ms); err != nil {
		return nil, err
	}
	return &ms, nil
}
