package ports

import (
	"context"

	"github.com/nanoflow/nanowallet/internal/core/domain"
)

// Ledger is the RPC surface of the remote ledger node. Ledger level errors,
// like an unknown account, are returned as data. The returned error is only
// set when the node could not be reached or answered with no usable data.
type Ledger interface {
	AccountInfo(ctx context.Context, account string) (domain.AccountInfo, error)
	WorkGenerate(ctx context.Context, hash string) (string, error)
	Receivable(ctx context.Context, account string) ([]domain.PendingTransaction, error)
	Process(
		ctx context.Context, block domain.SignedBlock, subtype domain.BlockSubtype,
	) (domain.ProcessResult, error)
}
