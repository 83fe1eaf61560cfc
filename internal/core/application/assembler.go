package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nanoflow/nanowallet/internal/core/domain"
	"github.com/nanoflow/nanowallet/internal/core/ports"
	"github.com/nanoflow/nanowallet/pkg/mathutil"

	log "github.com/sirupsen/logrus"
)

// accountNotFoundMessage is the ledger error for accounts without blocks.
const accountNotFoundMessage = "Account not found"

// assembler turns a send or receive request into a signed block built on the
// account's current ledger state, and submits it. Callers must hold the
// account's lock for the whole call.
type assembler struct {
	ledger     ports.Ledger
	signer     ports.BlockSigner
	registry   *accountRegistry
	defaultRep string
}

func (a *assembler) send(ctx context.Context, req SendRequest) (string, error) {
	info, err := a.ledger.AccountInfo(ctx, req.Source)
	if err != nil {
		return "", err
	}
	if !info.Exists() {
		return "", domain.NewAccountError(info.Error)
	}

	account, ok := a.registry.get(req.Source)
	if !ok {
		return "", domain.NewAccountNotFoundError(req.Source)
	}

	cmp, err := mathutil.CmpRaw(info.Balance, req.Amount)
	if err != nil {
		return "", domain.NewTransactionFailedError(
			fmt.Sprintf("invalid balance %q for %s", info.Balance, req.Source),
		)
	}
	if cmp < 0 {
		return "", domain.NewInsufficientBalanceError(info.Balance, req.Amount)
	}

	work, err := a.ledger.WorkGenerate(ctx, info.Frontier)
	if err != nil {
		return "", err
	}

	block, err := a.signer.SignSend(domain.SendBlock{
		WalletBalanceRaw:      info.Balance,
		FromAddress:           req.Source,
		ToAddress:             req.Destination,
		RepresentativeAddress: info.Representative,
		Frontier:              info.Frontier,
		AmountRaw:             req.Amount,
		Work:                  work,
	}, account.PrivateKey)
	if err != nil {
		return "", domain.NewCryptographicError("failed to sign send block", err)
	}

	hash, err := a.process(ctx, block, domain.SubtypeSend)
	if err != nil {
		return "", err
	}
	balance, _ := mathutil.SubRaw(info.Balance, req.Amount)
	logProcessed(domain.SubtypeSend, req.Source, hash, balance)
	return hash, nil
}

// receive builds the receive block of tx. An account the ledger doesn't know
// is opened: zero balance, zero frontier, the default representative, and
// work computed over the account's public key.
func (a *assembler) receive(
	ctx context.Context, address string, tx domain.PendingTransaction,
) (string, error) {
	info, err := a.ledger.AccountInfo(ctx, address)
	if err != nil {
		return "", err
	}

	unsigned := domain.ReceiveBlock{
		ToAddress:       address,
		TransactionHash: tx.Hash,
		AmountRaw:       tx.Amount,
	}
	var (
		account  domain.Account
		found    bool
		workHash string
	)

	if !info.Exists() {
		if info.Error != accountNotFoundMessage {
			log.WithFields(log.Fields{
				"account": address,
				"error":   info.Error,
			}).Warn("unexpected account_info error, opening account")
		}
		if a.defaultRep == "" {
			return "", domain.NewMissingConfigurationError("defaultRep")
		}
		if account, found = a.registry.get(address); !found {
			return "", domain.NewAccountNotFoundError(address)
		}

		unsigned.WalletBalanceRaw = "0"
		unsigned.RepresentativeAddress = a.defaultRep
		unsigned.Frontier = domain.ZeroFrontier
		workHash = account.PublicKey
	} else {
		if account, found = a.registry.get(address); !found {
			return "", domain.NewAccountNotFoundError(address)
		}

		unsigned.WalletBalanceRaw = info.Balance
		unsigned.RepresentativeAddress = info.Representative
		unsigned.Frontier = info.Frontier
		workHash = info.Frontier
	}

	work, err := a.ledger.WorkGenerate(ctx, workHash)
	if err != nil {
		return "", err
	}
	unsigned.Work = work

	block, err := a.signer.SignReceive(unsigned, account.PrivateKey)
	if err != nil {
		return "", domain.NewCryptographicError("failed to sign receive block", err)
	}

	hash, err := a.process(ctx, block, domain.SubtypeReceive)
	if err != nil {
		return "", err
	}
	balance, _ := mathutil.AddRaw(unsigned.WalletBalanceRaw, tx.Amount)
	logProcessed(domain.SubtypeReceive, address, hash, balance)
	return hash, nil
}

// process submits block once. A result without hash is a failure and is
// never retried.
func (a *assembler) process(
	ctx context.Context, block domain.SignedBlock, subtype domain.BlockSubtype,
) (string, error) {
	res, err := a.ledger.Process(ctx, block, subtype)
	if err != nil {
		return "", err
	}
	if res.Hash == "" {
		details, _ := json.Marshal(res)
		return "", domain.NewTransactionFailedError(string(details))
	}
	return res.Hash, nil
}

// logProcessed reports a processed block with the account balance it leaves
// behind. balance is empty if it could not be computed.
func logProcessed(
	subtype domain.BlockSubtype, account, hash, balance string,
) {
	log.WithFields(log.Fields{
		"subtype": subtype,
		"account": account,
		"hash":    hash,
		"balance": balance,
	}).Debug("block processed")
}
