package ports

import "github.com/nanoflow/nanowallet/internal/core/domain"

// KeyDeriver deterministically derives the accounts with index in
// [start, end) from seed. Returned addresses use the ledger's default prefix.
type KeyDeriver interface {
	DeriveAccounts(seed string, start, end uint32) ([]domain.Account, error)
}

// BlockSigner turns unsigned block descriptions into signed state blocks.
type BlockSigner interface {
	SignSend(block domain.SendBlock, privateKey string) (domain.SignedBlock, error)
	SignReceive(block domain.ReceiveBlock, privateKey string) (domain.SignedBlock, error)
}
