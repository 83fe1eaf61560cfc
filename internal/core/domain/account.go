package domain

import (
	"fmt"
	"strings"
)

// Account is a key pair derived from the wallet seed together with its
// encoded address.
type Account struct {
	Address    string
	PublicKey  string
	PrivateKey string
}

// String never prints the private key.
func (a Account) String() string {
	return fmt.Sprintf("%s (%s)", a.Address, a.PublicKey)
}

// WithPrefix returns a copy of the account whose address carries prefix in
// place of the ledger's default one.
func (a Account) WithPrefix(prefix string) Account {
	a.Address = ReplacePrefix(a.Address, prefix)
	return a
}

// ReplacePrefix swaps the ledger's default prefix of address for prefix.
// Addresses not starting with the default prefix are returned unchanged.
func ReplacePrefix(address, prefix string) string {
	if prefix == "" || prefix == DefaultAddressPrefix {
		return address
	}
	if !strings.HasPrefix(address, DefaultAddressPrefix) {
		return address
	}
	return prefix + strings.TrimPrefix(address, DefaultAddressPrefix)
}

// AccountInfo is the ledger snapshot of an account. Error is set by the ledger
// for accounts it does not know, in which case the other fields are empty.
type AccountInfo struct {
	Balance        string `json:"balance"`
	Representative string `json:"representative"`
	Frontier       string `json:"frontier"`
	Error          string `json:"error,omitempty"`
}

// Exists reports whether the ledger returned a state for the account.
func (i AccountInfo) Exists() bool {
	return i.Error == ""
}

// PendingTransaction references a send block the account can receive.
type PendingTransaction struct {
	Hash   string `json:"hash"`
	Amount string `json:"amount"`
}
