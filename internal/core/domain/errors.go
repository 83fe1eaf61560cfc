package domain

import (
	"errors"
	"fmt"
)

// ErrorKind groups error codes into the categories callers usually branch on.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindValidation    ErrorKind = "validation"
	KindAccount       ErrorKind = "account"
	KindTransaction   ErrorKind = "transaction"
	KindNetwork       ErrorKind = "network"
	KindWebSocket     ErrorKind = "websocket"
	KindCryptographic ErrorKind = "cryptographic"
)

// Machine readable error codes.
const (
	CodeConfig                  = "CONFIG_ERROR"
	CodeAccount                 = "ACCOUNT_ERROR"
	CodeTransaction             = "TX_ERROR"
	CodeNetwork                 = "NETWORK_ERROR"
	CodeValidation              = "VALIDATION_ERROR"
	CodeWebSocket               = "WS_ERROR"
	CodeCryptographic           = "CRYPTO_ERROR"
	CodeInvalidSeed             = "INVALID_SEED"
	CodeMissingConfig           = "MISSING_CONFIG"
	CodeWalletAlreadyInit       = "WALLET_ALREADY_INITIALIZED"
	CodeAccountNotFound         = "ACCOUNT_NOT_FOUND"
	CodeInvalidAddress          = "INVALID_ADDRESS"
	CodeInvalidAmount           = "INVALID_AMOUNT"
	CodeTransactionFailed       = "TX_FAILED"
	CodeInsufficientBalance     = "INSUFFICIENT_BALANCE"
	CodeWebSocketInvalidMessage = "WS_INVALID_MESSAGE"
	CodeWorkGenerationFailed    = "WORK_GENERATION_FAILED"
)

var (
	// Kind level sentinels, errors.Is matches any error of the same kind.
	ErrConfiguration = &WalletError{Kind: KindConfiguration}
	ErrValidation    = &WalletError{Kind: KindValidation}
	ErrAccount       = &WalletError{Kind: KindAccount}
	ErrTransaction   = &WalletError{Kind: KindTransaction}
	ErrNetwork       = &WalletError{Kind: KindNetwork}
	ErrWebSocket     = &WalletError{Kind: KindWebSocket}
	ErrCryptographic = &WalletError{Kind: KindCryptographic}

	// Code level sentinels.
	ErrInvalidSeed              = &WalletError{Kind: KindConfiguration, Code: CodeInvalidSeed}
	ErrMissingConfiguration     = &WalletError{Kind: KindConfiguration, Code: CodeMissingConfig}
	ErrWalletAlreadyInitialized = &WalletError{Kind: KindConfiguration, Code: CodeWalletAlreadyInit}
	ErrAccountNotFound          = &WalletError{Kind: KindAccount, Code: CodeAccountNotFound}
	ErrInvalidAddress           = &WalletError{Kind: KindValidation, Code: CodeInvalidAddress}
	ErrInvalidAmount            = &WalletError{Kind: KindValidation, Code: CodeInvalidAmount}
	ErrTransactionFailed        = &WalletError{Kind: KindTransaction, Code: CodeTransactionFailed}
	ErrInsufficientBalance      = &WalletError{Kind: KindTransaction, Code: CodeInsufficientBalance}
	ErrWebSocketMessage         = &WalletError{Kind: KindWebSocket, Code: CodeWebSocketInvalidMessage}
	ErrWorkGeneration           = &WalletError{Kind: KindNetwork, Code: CodeWorkGenerationFailed}
)

// WalletError is the error type returned by every wallet operation. Code is
// stable and meant for programmatic checks, Message is for humans.
type WalletError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *WalletError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

func (e *WalletError) Unwrap() error {
	return e.Err
}

// Is reports whether target describes the same code, or the same kind when
// target has no code.
func (e *WalletError) Is(target error) bool {
	t, ok := target.(*WalletError)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	return t.Kind != "" && e.Kind == t.Kind
}

// ErrorCode returns the code of the first WalletError in err's chain, or an
// empty string.
func ErrorCode(err error) string {
	var werr *WalletError
	if errors.As(err, &werr) {
		return werr.Code
	}
	return ""
}

func NewConfigurationError(msg string) error {
	return &WalletError{Kind: KindConfiguration, Code: CodeConfig, Message: msg}
}

func NewInvalidSeedError() error {
	return &WalletError{
		Kind:    KindConfiguration,
		Code:    CodeInvalidSeed,
		Message: "invalid seed format - must be 64-character hex string",
	}
}

func NewMissingConfigurationError(field string) error {
	return &WalletError{
		Kind:    KindConfiguration,
		Code:    CodeMissingConfig,
		Message: fmt.Sprintf("missing required configuration: %s", field),
	}
}

func NewWalletAlreadyInitializedError() error {
	return &WalletError{
		Kind:    KindConfiguration,
		Code:    CodeWalletAlreadyInit,
		Message: "wallet already has a seed",
	}
}

// NewAccountError carries msg verbatim, typically the ledger's own message.
func NewAccountError(msg string) error {
	return &WalletError{Kind: KindAccount, Code: CodeAccount, Message: msg}
}

func NewAccountNotFoundError(address string) error {
	return &WalletError{
		Kind:    KindAccount,
		Code:    CodeAccountNotFound,
		Message: fmt.Sprintf("account not found: %s", address),
	}
}

func NewInvalidAddressError(address string) error {
	return &WalletError{
		Kind:    KindValidation,
		Code:    CodeInvalidAddress,
		Message: fmt.Sprintf("invalid address format: %s", address),
	}
}

func NewInvalidAmountError(amount string) error {
	return &WalletError{
		Kind:    KindValidation,
		Code:    CodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount format: %s", amount),
	}
}

func NewInvalidBlockHashError(hash string) error {
	return &WalletError{
		Kind:    KindValidation,
		Code:    CodeValidation,
		Message: fmt.Sprintf("invalid block hash: %q", hash),
	}
}

func NewTransactionFailedError(details string) error {
	return &WalletError{
		Kind:    KindTransaction,
		Code:    CodeTransactionFailed,
		Message: fmt.Sprintf("transaction failed: %s", details),
	}
}

func NewInsufficientBalanceError(balance, amount string) error {
	return &WalletError{
		Kind:    KindTransaction,
		Code:    CodeInsufficientBalance,
		Message: fmt.Sprintf("insufficient balance: %s raw available, %s raw requested", balance, amount),
	}
}

func NewNetworkError(msg string, err error) error {
	return &WalletError{Kind: KindNetwork, Code: CodeNetwork, Message: msg, Err: err}
}

func NewWorkGenerationError(details string) error {
	return &WalletError{
		Kind:    KindNetwork,
		Code:    CodeWorkGenerationFailed,
		Message: fmt.Sprintf("work generation failed: %s", details),
	}
}

func NewWebSocketMessageError(err error) error {
	return &WalletError{
		Kind:    KindWebSocket,
		Code:    CodeWebSocketInvalidMessage,
		Message: "invalid websocket message format",
		Err:     err,
	}
}

func NewCryptographicError(msg string, err error) error {
	return &WalletError{Kind: KindCryptographic, Code: CodeCryptographic, Message: msg, Err: err}
}
