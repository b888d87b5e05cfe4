package client

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// AddressBalances returns the confirmed balance for each address.
func (c *Client) AddressBalances(ctx context.Context, addrs []Bech32Address) ([]AddressBalancePair, error) {
	pairs := make([]AddressBalancePair, 0, len(addrs))
	for _, addr := range addrs {
		pair, err := c.BalanceByAddress(ctx, addr)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, *pair)
	}
	return pairs, nil
}

// Balance sums the confirmed balance over the seed's derived addresses.
// Scanning stops after GapLimit consecutive addresses without outputs.
func (c *Client) Balance(ctx context.Context, seed Seed, opts SeedOptions) (uint64, error) {
	var total uint64
	gap := 0
	for index := opts.Start; gap < c.opts.GapLimit; index++ {
		addr := seed.Address(c.opts.Bech32HRP, opts.Account, index)
		outputs, err := c.OutputIDsByAddress(ctx, addr)
		if err != nil {
			return 0, err
		}
		if len(outputs) == 0 {
			gap++
			continue
		}
		gap = 0
		pair, err := c.BalanceByAddress(ctx, addr)
		if err != nil {
			return 0, err
		}
		total += pair.Balance
	}
	return total, nil
}

// UnspentAddress returns the first derived address without outputs, along
// with its index.
func (c *Client) UnspentAddress(ctx context.Context, seed Seed, opts SeedOptions) (Bech32Address, uint64, error) {
	for index := opts.Start; ; index++ {
		addr := seed.Address(c.opts.Bech32HRP, opts.Account, index)
		outputs, err := c.OutputIDsByAddress(ctx, addr)
		if err != nil {
			return "", 0, err
		}
		if len(outputs) == 0 {
			return addr, index, nil
		}
	}
}

// FindMessages fetches all messages matching the given indexation keys or
// message IDs, deduplicated.
func (c *Client) FindMessages(ctx context.Context, indexationKeys []string, ids []MessageID) ([]*Message, error) {
	seen := make(map[MessageID]struct{}, len(ids))
	ordered := make([]MessageID, 0, len(ids))

	add := func(id MessageID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ordered = append(ordered, id)
		}
	}

	for _, key := range indexationKeys {
		found, err := c.MessageIDsByIndex(ctx, key)
		if err != nil {
			return nil, err
		}
		for _, id := range found {
			add(id)
		}
	}
	for _, id := range ids {
		add(id)
	}

	msgs := make([]*Message, 0, len(ordered))
	for _, id := range ordered {
		msg, err := c.Message(ctx, id)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// FindOutputs fetches output metadata for explicit output IDs plus every
// unspent output on the given addresses.
func (c *Client) FindOutputs(ctx context.Context, ids []OutputID, addrs []Bech32Address) ([]*OutputMetadata, error) {
	all := append([]OutputID(nil), ids...)
	for _, addr := range addrs {
		found, err := c.OutputIDsByAddress(ctx, addr)
		if err != nil {
			return nil, err
		}
		all = append(all, found...)
	}

	outputs := make([]*OutputMetadata, 0, len(all))
	for _, id := range all {
		out, err := c.Output(ctx, id)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// transferInput is one funded input selected for a transfer.
type transferInput struct {
	id     OutputID
	amount uint64
	index  uint64 // address index the funding key is derived from
}

// SendTransfer builds, signs and submits a transfer from the seed's unspent
// outputs to the given target outputs, returning the new message ID. A
// remainder output is added automatically when the selected inputs exceed
// the transfer amount.
func (c *Client) SendTransfer(ctx context.Context, seed Seed, opts SeedOptions, outputs []TransferOutput) (MessageID, error) {
	if len(outputs) == 0 {
		return EmptyMessageID, fmt.Errorf("transfer requires at least one output")
	}
	var needed uint64
	for _, out := range outputs {
		if out.Amount == 0 {
			return EmptyMessageID, fmt.Errorf("transfer output amount must be non-zero")
		}
		if _, _, err := ParseAddress(out.Address); err != nil {
			return EmptyMessageID, err
		}
		needed += out.Amount
	}

	inputs, funded, err := c.selectInputs(ctx, seed, opts, needed)
	if err != nil {
		return EmptyMessageID, err
	}

	essence := &TransactionEssence{Type: 0}
	for _, in := range inputs {
		essence.Inputs = append(essence.Inputs, UTXOInputRef{
			Type:                   0,
			TransactionID:          in.id.TransactionID.Hex(),
			TransactionOutputIndex: in.id.Index,
		})
	}
	for _, out := range outputs {
		hexAddr, err := out.Address.Ed25519Hex()
		if err != nil {
			return EmptyMessageID, err
		}
		essence.Outputs = append(essence.Outputs, SigLockOutput{
			Type:    0,
			Address: OutputAddress{Type: AddressTypeEd25519, Address: hexAddr},
			Amount:  out.Amount,
		})
	}
	if funded > needed {
		remainder, _, err := c.UnspentAddress(ctx, seed, opts)
		if err != nil {
			return EmptyMessageID, err
		}
		hexAddr, err := remainder.Ed25519Hex()
		if err != nil {
			return EmptyMessageID, err
		}
		essence.Outputs = append(essence.Outputs, SigLockOutput{
			Type:    0,
			Address: OutputAddress{Type: AddressTypeEd25519, Address: hexAddr},
			Amount:  funded - needed,
		})
	}

	unlocks, err := signEssence(seed, opts.Account, essence, inputs)
	if err != nil {
		return EmptyMessageID, err
	}

	info, err := c.Info(ctx)
	if err != nil {
		return EmptyMessageID, err
	}
	parent1, parent2, err := c.Tips(ctx)
	if err != nil {
		return EmptyMessageID, err
	}

	msg := &Message{
		NetworkID:        info.NetworkID,
		ParentMessageIDs: []string{parent1.Hex(), parent2.Hex()},
		Payload: &Payload{
			Type:         PayloadTypeTransaction,
			Essence:      essence,
			UnlockBlocks: unlocks,
		},
	}
	return c.SubmitMessage(ctx, msg)
}

// selectInputs scans derived addresses and accumulates unspent outputs
// until the needed amount is covered.
func (c *Client) selectInputs(ctx context.Context, seed Seed, opts SeedOptions, needed uint64) ([]transferInput, uint64, error) {
	var inputs []transferInput
	var funded uint64
	gap := 0
	for index := opts.Start; gap < c.opts.GapLimit && funded < needed; index++ {
		addr := seed.Address(c.opts.Bech32HRP, opts.Account, index)
		ids, err := c.OutputIDsByAddress(ctx, addr)
		if err != nil {
			return nil, 0, err
		}
		if len(ids) == 0 {
			gap++
			continue
		}
		gap = 0
		for _, id := range ids {
			out, err := c.Output(ctx, id)
			if err != nil {
				return nil, 0, err
			}
			if out.IsSpent {
				continue
			}
			inputs = append(inputs, transferInput{id: id, amount: out.Amount, index: index})
			funded += out.Amount
			if funded >= needed {
				break
			}
		}
	}
	if funded < needed {
		return nil, 0, ErrInsufficientFunds
	}
	return inputs, funded, nil
}

// signEssence produces one unlock block per input: a signature block for
// the first input of each address index, a reference block for repeats.
func signEssence(seed Seed, account uint64, essence *TransactionEssence, inputs []transferInput) ([]UnlockBlock, error) {
	raw, err := json.Marshal(essence)
	if err != nil {
		return nil, fmt.Errorf("serialize essence: %w", err)
	}
	digest := blake2b.Sum256(raw)

	unlocks := make([]UnlockBlock, 0, len(inputs))
	signedAt := make(map[uint64]uint16, len(inputs))
	for i, in := range inputs {
		if ref, ok := signedAt[in.index]; ok {
			r := ref
			unlocks = append(unlocks, UnlockBlock{Type: 1, Reference: &r})
			continue
		}
		key := seed.Key(account, in.index)
		sig := ed25519.Sign(key, digest[:])
		unlocks = append(unlocks, UnlockBlock{
			Type: 0,
			Signature: &SignatureBlock{
				Type:      0,
				PublicKey: hex.EncodeToString(key.Public().(ed25519.PublicKey)),
				Signature: hex.EncodeToString(sig),
			},
		})
		signedAt[in.index] = uint16(i)
	}
	return unlocks, nil
}

// Retry reposts a message: reattached when the node says it should be,
// promoted otherwise.
func (c *Client) Retry(ctx context.Context, id MessageID) (*Message, error) {
	md, err := c.MessageMetadata(ctx, id)
	if err != nil {
		return nil, err
	}
	if md.ShouldReattach != nil && *md.ShouldReattach {
		return c.Reattach(ctx, id)
	}
	return c.Promote(ctx, id)
}

// Reattach resubmits the payload of an existing message on fresh tips.
func (c *Client) Reattach(ctx context.Context, id MessageID) (*Message, error) {
	msg, err := c.Message(ctx, id)
	if err != nil {
		return nil, err
	}
	parent1, parent2, err := c.Tips(ctx)
	if err != nil {
		return nil, err
	}
	reattached := &Message{
		NetworkID:        msg.NetworkID,
		ParentMessageIDs: []string{parent1.Hex(), parent2.Hex()},
		Payload:          msg.Payload,
	}
	newID, err := c.SubmitMessage(ctx, reattached)
	if err != nil {
		return nil, err
	}
	return c.Message(ctx, newID)
}

// Promote submits an empty indexation message referencing the target so
// the tangle revisits it.
func (c *Client) Promote(ctx context.Context, id MessageID) (*Message, error) {
	parent1, _, err := c.Tips(ctx)
	if err != nil {
		return nil, err
	}
	var info *NodeInfo
	if info, err = c.Info(ctx); err != nil {
		return nil, err
	}
	promotion := &Message{
		NetworkID:        info.NetworkID,
		ParentMessageIDs: []string{id.Hex(), parent1.Hex()},
		Payload: &Payload{
			Type:  PayloadTypeIndexation,
			Index: hex.EncodeToString([]byte("PROMOTE")),
		},
	}
	newID, err := c.SubmitMessage(ctx, promotion)
	if err != nil {
		return nil, err
	}
	return c.Message(ctx, newID)
}
