package noderpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/nanoflow/nanowallet/internal/core/domain"
)

const (
	actionAccountInfo  = "account_info"
	actionWorkGenerate = "work_generate"
	actionPending      = "pending"
	actionProcess      = "process"
)

type request map[string]interface{}

func (r request) action() string {
	action, _ := r["action"].(string)
	return action
}

func (r request) isWork() bool {
	return r.action() == actionWorkGenerate
}

// AccountInfo returns the ledger state of account. An account unknown to the
// ledger is not an error: the returned info has its Error field set.
func (c *Client) AccountInfo(
	ctx context.Context, account string,
) (domain.AccountInfo, error) {
	raw, err := c.execute(ctx, request{
		"action":         actionAccountInfo,
		"account":        account,
		"representative": "true",
	})
	if err != nil {
		return domain.AccountInfo{}, err
	}

	var info domain.AccountInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return domain.AccountInfo{}, domain.NewNetworkError(
			fmt.Sprintf("invalid %s response: %s", actionAccountInfo, err), err,
		)
	}
	return info, nil
}

// WorkGenerate asks the work endpoints for a proof of work over hash.
func (c *Client) WorkGenerate(ctx context.Context, hash string) (string, error) {
	raw, err := c.execute(ctx, request{
		"action": actionWorkGenerate,
		"hash":   hash,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Work  string `json:"work"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil || resp.Work == "" {
		return "", domain.NewWorkGenerationError(string(raw))
	}
	return resp.Work, nil
}

// Receivable lists the blocks account can receive, sorted by hash.
func (c *Client) Receivable(
	ctx context.Context, account string,
) ([]domain.PendingTransaction, error) {
	raw, err := c.execute(ctx, request{
		"action":    actionPending,
		"account":   account,
		"threshold": domain.ReceivableThreshold,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Blocks json.RawMessage `json:"blocks"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, domain.NewNetworkError(
			fmt.Sprintf("invalid %s response: %s", actionPending, err), err,
		)
	}
	if resp.Error != "" {
		return nil, domain.NewAccountError(resp.Error)
	}

	return parseReceivableBlocks(resp.Blocks)
}

// Process submits a signed block. A rejected block is returned as data, with
// an empty hash and the ledger's error.
func (c *Client) Process(
	ctx context.Context, block domain.SignedBlock, subtype domain.BlockSubtype,
) (domain.ProcessResult, error) {
	raw, err := c.execute(ctx, request{
		"action":     actionProcess,
		"json_block": "true",
		"subtype":    string(subtype),
		"block":      block,
	})
	if err != nil {
		return domain.ProcessResult{}, err
	}

	var res domain.ProcessResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return domain.ProcessResult{}, domain.NewNetworkError(
			fmt.Sprintf("invalid %s response: %s", actionProcess, err), err,
		)
	}
	return res, nil
}

// parseReceivableBlocks accepts the shapes the node uses for the blocks
// field: an empty string when nothing is receivable, a hash to amount map
// when a threshold is given, or a hash to {amount, source} map.
func parseReceivableBlocks(raw json.RawMessage) ([]domain.PendingTransaction, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return []domain.PendingTransaction{}, nil
	}

	var blocks map[string]json.RawMessage
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil, domain.NewNetworkError(
			fmt.Sprintf("invalid %s blocks: %s", actionPending, err), err,
		)
	}

	txs := make([]domain.PendingTransaction, 0, len(blocks))
	for hash, value := range blocks {
		var amount string
		if err := json.Unmarshal(value, &amount); err != nil {
			var detailed struct {
				Amount string `json:"amount"`
			}
			if err := json.Unmarshal(value, &detailed); err != nil {
				return nil, domain.NewNetworkError(
					fmt.Sprintf("invalid %s block %s: %s", actionPending, hash, err), err,
				)
			}
			amount = detailed.Amount
		}
		txs = append(txs, domain.PendingTransaction{Hash: hash, Amount: amount})
	}

	sort.Slice(txs, func(i, j int) bool {
		return txs[i].Hash < txs[j].Hash
	})
	return txs, nil
}
