package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nanoflow/nanowallet/internal/core/domain"
	"github.com/nanoflow/nanowallet/internal/core/ports"
	"github.com/nanoflow/nanowallet/pkg/keymutex"
	"github.com/nanoflow/nanowallet/pkg/mathutil"
	"github.com/nanoflow/nanowallet/pkg/ttlset"

	log "github.com/sirupsen/logrus"
)

// WalletService defines the methods of the application layer for the wallet.
type WalletService interface {
	// GenerateWallet creates a new random seed and derives its first account.
	GenerateWallet(ctx context.Context) (seed, address string, err error)
	// GenerateAccounts derives the next count accounts of the seed.
	GenerateAccounts(ctx context.Context, count int) ([]string, error)
	SendFunds(ctx context.Context, req SendRequest) (string, error)
	ReceiveFunds(
		ctx context.Context, account string, tx domain.PendingTransaction,
	) (string, error)
	ListReceivable(
		ctx context.Context, account string,
	) ([]domain.PendingTransaction, error)
	// ReceiveAll receives every receivable block of account in hash order.
	ReceiveAll(ctx context.Context, account string) ([]string, error)
	// Accounts returns the managed addresses in derivation order.
	Accounts() []string
	MegaToRaw(amount string) (string, error)
	RawToMega(raw string) (string, error)
	Shutdown()
}

// SendRequest moves Amount raw from Source, a managed account, to
// Destination.
type SendRequest struct {
	Source      string
	Destination string
	Amount      string
}

type walletService struct {
	cfg       Config
	ledger    ports.Ledger
	deriver   ports.KeyDeriver
	feed      ports.Feed
	registry  *accountRegistry
	assembler *assembler
	gate      *keymutex.Gate
	receiver  *autoReceiver

	seedLock sync.Mutex
	seed     string

	// deriveLock keeps registry insertion in derivation index order.
	deriveLock sync.Mutex

	cancel       context.CancelFunc
	shutdownOnce sync.Once
}

// NewWalletService validates cfg and returns a wallet service. When feed is
// not nil it is started and its confirmations drive the auto-receive.
func NewWalletService(
	cfg Config,
	ledger ports.Ledger,
	deriver ports.KeyDeriver,
	signer ports.BlockSigner,
	feed ports.Feed,
) (WalletService, error) {
	return newWalletService(cfg, ledger, deriver, signer, feed)
}

func newWalletService(
	cfg Config,
	ledger ports.Ledger,
	deriver ports.KeyDeriver,
	signer ports.BlockSigner,
	feed ports.Feed,
) (*walletService, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	registry := newAccountRegistry()
	svc := &walletService{
		cfg:      cfg,
		ledger:   ledger,
		deriver:  deriver,
		feed:     feed,
		registry: registry,
		assembler: &assembler{
			ledger:     ledger,
			signer:     signer,
			registry:   registry,
			defaultRep: cfg.DefaultRepresentative,
		},
		gate: keymutex.NewGate(cfg.MaxPendingOperations),
		seed: cfg.Seed,
	}

	if feed == nil {
		return svc, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	svc.cancel = cancel
	svc.receiver = &autoReceiver{
		messages:  feed.Messages(),
		processed: ttlset.New(cfg.DedupWindow, cfg.Clock),
		registry:  registry,
		prefix:    cfg.AddressPrefix,
		enabled:   !cfg.DisableAutoReceive,
		receive:   svc.ReceiveFunds,
	}

	if err := feed.Start(ctx); err != nil {
		cancel()
		return nil, domain.NewNetworkError(
			fmt.Sprintf("failed to start feed: %s", err), err,
		)
	}
	svc.receiver.start(ctx)

	return svc, nil
}

func (w *walletService) GenerateWallet(ctx context.Context) (string, string, error) {
	w.seedLock.Lock()
	if w.seed != "" {
		w.seedLock.Unlock()
		return "", "", domain.NewWalletAlreadyInitializedError()
	}
	seed, err := domain.NewSeed()
	if err != nil {
		w.seedLock.Unlock()
		return "", "", err
	}
	w.seed = seed
	w.seedLock.Unlock()

	addresses, err := w.GenerateAccounts(ctx, 1)
	if err != nil {
		return "", "", err
	}

	log.WithField("address", addresses[0]).Info("wallet initialized")
	return seed, addresses[0], nil
}

func (w *walletService) GenerateAccounts(
	ctx context.Context, count int,
) ([]string, error) {
	seed := w.getSeed()
	if seed == "" {
		return nil, domain.NewMissingConfigurationError("wallet not initialized")
	}
	if count < domain.MinAccountsPerDerivation ||
		count > domain.MaxAccountsPerDerivation {
		return nil, domain.NewAccountError(
			fmt.Sprintf("invalid account count: %d", count),
		)
	}

	w.deriveLock.Lock()
	defer w.deriveLock.Unlock()

	start, end := w.registry.reserve(uint32(count))
	accounts, err := w.deriver.DeriveAccounts(seed, start, end)
	if err != nil {
		return nil, domain.NewCryptographicError("failed to derive accounts", err)
	}
	if len(accounts) != count {
		return nil, domain.NewCryptographicError(
			fmt.Sprintf("expected %d derived accounts, got %d", count, len(accounts)),
			nil,
		)
	}

	addresses := make([]string, 0, count)
	for i, account := range accounts {
		if account.PrivateKey == "" {
			return nil, domain.NewCryptographicError(
				fmt.Sprintf("derived account %d has no private key", start+uint32(i)),
				nil,
			)
		}
		accounts[i] = account.WithPrefix(w.cfg.AddressPrefix)
		addresses = append(addresses, accounts[i].Address)
	}
	w.registry.add(accounts...)

	log.WithFields(log.Fields{
		"from":  start,
		"to":    end,
		"total": w.registry.len(),
	}).Debug("derived accounts")

	if w.feed != nil {
		if err := w.feed.Subscribe(addresses...); err != nil {
			log.WithError(err).Warn("failed to subscribe derived accounts to feed")
		}
	}

	return addresses, nil
}

func (w *walletService) SendFunds(ctx context.Context, req SendRequest) (string, error) {
	if err := domain.ValidateAddress(req.Source, w.cfg.AddressPrefix); err != nil {
		return "", err
	}
	if err := domain.ValidateAddress(req.Destination, w.cfg.AddressPrefix); err != nil {
		return "", err
	}
	if err := domain.ValidateRawAmount(req.Amount); err != nil {
		return "", err
	}

	return keymutex.WithLock(ctx, w.gate, req.Source, func() (string, error) {
		hash, err := w.assembler.send(context.WithoutCancel(ctx), req)
		if err != nil {
			return "", err
		}

		log.WithFields(log.Fields{
			"source":      req.Source,
			"destination": req.Destination,
			"amount":      req.Amount,
			"hash":        hash,
		}).Info("funds sent")
		return hash, nil
	})
}

func (w *walletService) ReceiveFunds(
	ctx context.Context, account string, tx domain.PendingTransaction,
) (string, error) {
	if err := domain.ValidateAddress(account, w.cfg.AddressPrefix); err != nil {
		return "", err
	}
	if err := domain.ValidateBlockHash(tx.Hash); err != nil {
		return "", err
	}
	if err := domain.ValidateRawAmount(tx.Amount); err != nil {
		return "", err
	}

	return keymutex.WithLock(ctx, w.gate, account, func() (string, error) {
		hash, err := w.assembler.receive(context.WithoutCancel(ctx), account, tx)
		if err != nil {
			return "", err
		}

		log.WithFields(log.Fields{
			"account": account,
			"source":  tx.Hash,
			"amount":  tx.Amount,
			"hash":    hash,
		}).Info("funds received")
		return hash, nil
	})
}

func (w *walletService) ListReceivable(
	ctx context.Context, account string,
) ([]domain.PendingTransaction, error) {
	if err := domain.ValidateAddress(account, w.cfg.AddressPrefix); err != nil {
		return nil, err
	}
	return w.ledger.Receivable(ctx, account)
}

func (w *walletService) ReceiveAll(ctx context.Context, account string) ([]string, error) {
	txs, err := w.ListReceivable(ctx, account)
	if err != nil {
		return nil, err
	}

	hashes := make([]string, 0, len(txs))
	errs := make([]error, 0)
	for _, tx := range txs {
		hash, err := w.ReceiveFunds(ctx, account, tx)
		if err != nil {
			errs = append(errs, fmt.Errorf("receive %s: %w", tx.Hash, err))
			continue
		}
		hashes = append(hashes, hash)
	}

	return hashes, errors.Join(errs...)
}

func (w *walletService) Accounts() []string {
	return w.registry.addresses()
}

func (w *walletService) MegaToRaw(amount string) (string, error) {
	raw, err := mathutil.MegaToRaw(amount, w.cfg.DecimalPlaces)
	if err != nil {
		return "", domain.NewInvalidAmountError(amount)
	}
	return raw, nil
}

func (w *walletService) RawToMega(raw string) (string, error) {
	if err := domain.ValidateRawAmount(raw); err != nil {
		return "", err
	}
	amount, err := mathutil.RawToMega(raw, w.cfg.DecimalPlaces)
	if err != nil {
		return "", domain.NewInvalidAmountError(raw)
	}
	return amount, nil
}

// Shutdown closes the feed, waits for in flight auto-receives and forgets
// every account.
func (w *walletService) Shutdown() {
	w.shutdownOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
		}
		if w.feed != nil {
			if err := w.feed.Close(); err != nil {
				log.WithError(err).Warn("failed to close feed")
			}
		}
		if w.receiver != nil {
			w.receiver.wait()
		}
		w.registry.clear()

		log.Debug("wallet shut down")
	})
}

func (w *walletService) getSeed() string {
	w.seedLock.Lock()
	defer w.seedLock.Unlock()
	return w.seed
}
