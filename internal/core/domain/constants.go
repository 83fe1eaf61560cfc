package domain

const (
	// DefaultAddressPrefix is the prefix the ledger and the key deriver use for
	// account addresses.
	DefaultAddressPrefix = "nano_"
	// DefaultDecimalPlaces is the number of decimal places separating raw and
	// mega units.
	DefaultDecimalPlaces = 30

	// ZeroFrontier is the previous block hash of an account's opening block.
	ZeroFrontier = "0000000000000000000000000000000000000000000000000000000000000000"

	// ReceivableThreshold is the minimum amount, in raw, of the receivable
	// blocks requested to the ledger.
	ReceivableThreshold = "1"

	// MinAccountsPerDerivation and MaxAccountsPerDerivation bound a single
	// account derivation request.
	MinAccountsPerDerivation = 1
	MaxAccountsPerDerivation = 100

	addressEncodedLength = 60
	addressAlphabet      = "13456789abcdefghijkmnopqrstuwxyz"
)
