package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/tanglekit/tanglebridge/client"
)

// The bridge delivers results as one canonical JSON encoding. Composite
// ledger types cross the boundary through DTOs with the documented field
// names (messageId, transactionId, outputIndex, isSpent, address, amount,
// balance) regardless of which operation produced them.

// outputMetadataDTO is the canonical text shape of an output.
type outputMetadataDTO struct {
	MessageID     string `json:"messageId"`
	TransactionID string `json:"transactionId"`
	OutputIndex   uint16 `json:"outputIndex"`
	IsSpent       bool   `json:"isSpent"`
	Address       string `json:"address"`
	Amount        uint64 `json:"amount"`
}

func newOutputMetadataDTO(out *client.OutputMetadata) outputMetadataDTO {
	return outputMetadataDTO{
		MessageID:     out.MessageID.Hex(),
		TransactionID: out.TransactionID.Hex(),
		OutputIndex:   out.OutputIndex,
		IsSpent:       out.IsSpent,
		Address:       out.Address.String(),
		Amount:        out.Amount,
	}
}

// addressBalanceDTO is the canonical text shape of an address balance.
type addressBalanceDTO struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

func newAddressBalanceDTO(pair client.AddressBalancePair) addressBalanceDTO {
	return addressBalanceDTO{Address: pair.Address.String(), Balance: pair.Balance}
}

// encodeJSON renders v as the canonical payload text.
func encodeJSON(v any) (string, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode result payload: %w", err)
	}
	return string(buf), nil
}

func encodeOutputs(outs []*client.OutputMetadata) (string, error) {
	dtos := make([]outputMetadataDTO, 0, len(outs))
	for _, out := range outs {
		dtos = append(dtos, newOutputMetadataDTO(out))
	}
	return encodeJSON(dtos)
}

func encodeAddressBalances(pairs []client.AddressBalancePair) (string, error) {
	dtos := make([]addressBalanceDTO, 0, len(pairs))
	for _, pair := range pairs {
		dtos = append(dtos, newAddressBalanceDTO(pair))
	}
	return encodeJSON(dtos)
}

func encodeMessageIDs(ids []client.MessageID) (string, error) {
	hexIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		hexIDs = append(hexIDs, id.Hex())
	}
	return encodeJSON(hexIDs)
}

func encodeOutputIDs(ids []client.OutputID) (string, error) {
	hexIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		hexIDs = append(hexIDs, id.Hex())
	}
	return encodeJSON(hexIDs)
}
