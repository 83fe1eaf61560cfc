package application

import (
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/nanoflow/nanowallet/internal/core/domain"
	"github.com/nanoflow/nanowallet/pkg/keymutex"
	"github.com/nanoflow/nanowallet/pkg/ttlset"
)

// Config holds the settings of a wallet service.
type Config struct {
	// RPCURLs and WorkURLs are the endpoint lists the ledger client fails over.
	// Both are required.
	RPCURLs  []string
	WorkURLs []string
	// Seed is optional, 64 hex characters in any case.
	Seed string
	// DefaultRepresentative is used to open accounts unknown to the ledger.
	DefaultRepresentative string
	// DisableAutoReceive turns off the automatic receive of incoming sends.
	DisableAutoReceive bool
	// AddressPrefix defaults to domain.DefaultAddressPrefix.
	AddressPrefix string
	// DecimalPlaces between raw and mega units. Zero means
	// domain.DefaultDecimalPlaces.
	DecimalPlaces int32
	// MaxPendingOperations bounds the operations waiting for their account
	// across the whole wallet, defaults to keymutex.DefaultMaxPending.
	MaxPendingOperations int
	// DedupWindow is the retention of processed hashes, defaults to
	// ttlset.DefaultWindow.
	DedupWindow time.Duration
	// Clock defaults to the wall clock.
	Clock clock.Clock
}

func (c Config) validate() error {
	if len(c.RPCURLs) == 0 || len(c.WorkURLs) == 0 {
		return domain.NewMissingConfigurationError("rpcUrls and workUrls")
	}
	if c.Seed != "" {
		if err := domain.ValidateSeed(c.Seed); err != nil {
			return err
		}
	}
	if c.DecimalPlaces < 0 {
		return domain.NewConfigurationError("decimal places must not be negative")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.AddressPrefix == "" {
		c.AddressPrefix = domain.DefaultAddressPrefix
	}
	if c.DecimalPlaces == 0 {
		c.DecimalPlaces = domain.DefaultDecimalPlaces
	}
	if c.MaxPendingOperations <= 0 {
		c.MaxPendingOperations = keymutex.DefaultMaxPending
	}
	if c.DedupWindow <= 0 {
		c.DedupWindow = ttlset.DefaultWindow
	}
	if c.Clock == nil {
		c.Clock = clock.NewDefaultClock()
	}
	return c
}
