package dispatch

import (
	"context"
	"fmt"

	"github.com/tanglekit/tanglebridge/client"
	"github.com/tanglekit/tanglebridge/operation"
)

// execute runs one operation variant against the resolved client and
// returns the canonical result encoding. The switch is exhaustive over the
// closed operation set; a variant missing here is a programming error and
// surfaces as an internal failure through the panic boundary.
func (d *Dispatcher) execute(ctx context.Context, c *client.Client, op operation.Operation) (string, []byte, error) {
	switch v := op.(type) {
	case operation.SendTransfer:
		id, err := c.SendTransfer(ctx, v.Seed, v.Options, v.Outputs)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON(id.Hex())
		return payload, nil, err

	case operation.GetUnspentAddress:
		addr, index, err := c.UnspentAddress(ctx, v.Seed, v.Options)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON([]any{addr.String(), index})
		return payload, nil, err

	case operation.FindMessages:
		msgs, err := c.FindMessages(ctx, v.IndexationKeys, v.MessageIDs)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON(msgs)
		return payload, nil, err

	case operation.GetBalance:
		balance, err := c.Balance(ctx, v.Seed, v.Options)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON(balance)
		return payload, nil, err

	case operation.GetAddressBalances:
		pairs, err := c.AddressBalances(ctx, v.Addresses)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeAddressBalances(pairs)
		return payload, nil, err

	case operation.GetInfo:
		info, err := c.Info(ctx)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON(info)
		return payload, nil, err

	case operation.GetTips:
		first, second, err := c.Tips(ctx)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON([]string{first.Hex(), second.Hex()})
		return payload, nil, err

	case operation.PostMessage:
		id, err := c.SubmitMessage(ctx, v.Message)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON(id.Hex())
		return payload, nil, err

	case operation.GetMessagesByIndexation:
		ids, err := c.MessageIDsByIndex(ctx, v.Index)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeMessageIDs(ids)
		return payload, nil, err

	case operation.GetMessage:
		msg, err := c.Message(ctx, v.ID)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON(msg)
		return payload, nil, err

	case operation.GetMessageMetadata:
		meta, err := c.MessageMetadata(ctx, v.ID)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON(meta)
		return payload, nil, err

	case operation.GetRawMessage:
		// Raw bytes bypass the canonical text encoding.
		raw, err := c.MessageRaw(ctx, v.ID)
		if err != nil {
			return "", nil, err
		}
		return "", raw, nil

	case operation.GetMessageChildren:
		ids, err := c.MessageChildren(ctx, v.ID)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeMessageIDs(ids)
		return payload, nil, err

	case operation.GetOutput:
		out, err := c.Output(ctx, v.ID)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON(newOutputMetadataDTO(out))
		return payload, nil, err

	case operation.FindOutputs:
		outs, err := c.FindOutputs(ctx, v.OutputIDs, v.Addresses)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeOutputs(outs)
		return payload, nil, err

	case operation.GetAddressBalance:
		pair, err := c.BalanceByAddress(ctx, v.Address)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON(newAddressBalanceDTO(*pair))
		return payload, nil, err

	case operation.GetAddressOutputs:
		ids, err := c.OutputIDsByAddress(ctx, v.Address)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeOutputIDs(ids)
		return payload, nil, err

	case operation.GetMilestone:
		ms, err := c.Milestone(ctx, v.Index)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON(ms)
		return payload, nil, err

	case operation.Retry:
		msg, err := c.Retry(ctx, v.ID)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON(msg)
		return payload, nil, err

	case operation.Reattach:
		msg, err := c.Reattach(ctx, v.ID)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON(msg)
		return payload, nil, err

	case operation.Promote:
		msg, err := c.Promote(ctx, v.ID)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON(msg)
		return payload, nil, err

	case operation.SyncNodes:
		n, err := c.SyncNodes(ctx)
		if err != nil {
			return "", nil, err
		}
		payload, err := encodeJSON(map[string]int{"healthyNodes": n})
		return payload, nil, err

	default:
		panic(fmt.Sprintf("unhandled operation kind %q", op.Kind()))
	}
}
