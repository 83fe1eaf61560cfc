package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nanoflow/nanowallet/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		err          error
		code         string
		kind         error
		expectedText string
	}{
		{domain.NewInvalidSeedError(), domain.CodeInvalidSeed, domain.ErrConfiguration, "invalid seed format - must be 64-character hex string"},
		{domain.NewMissingConfigurationError("defaultRep"), domain.CodeMissingConfig, domain.ErrConfiguration, "missing required configuration: defaultRep"},
		{domain.NewAccountError("Account not found"), domain.CodeAccount, domain.ErrAccount, "Account not found"},
		{domain.NewAccountNotFoundError("nano_a"), domain.CodeAccountNotFound, domain.ErrAccount, "account not found: nano_a"},
		{domain.NewInvalidAddressError("xrb_a"), domain.CodeInvalidAddress, domain.ErrValidation, "invalid address format: xrb_a"},
		{domain.NewInvalidAmountError("1.5"), domain.CodeInvalidAmount, domain.ErrValidation, "invalid amount format: 1.5"},
		{domain.NewTransactionFailedError(`{"error":"Fork"}`), domain.CodeTransactionFailed, domain.ErrTransaction, `transaction failed: {"error":"Fork"}`},
		{domain.NewNetworkError("all RPC servers failed", cause), domain.CodeNetwork, domain.ErrNetwork, "all RPC servers failed"},
		{domain.NewWorkGenerationError("{}"), domain.CodeWorkGenerationFailed, domain.ErrNetwork, "work generation failed: {}"},
		{domain.NewWebSocketMessageError(cause), domain.CodeWebSocketInvalidMessage, domain.ErrWebSocket, "invalid websocket message format"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.code, func(t *testing.T) {
			require.Equal(t, tt.code, domain.ErrorCode(tt.err))
			require.ErrorIs(t, tt.err, tt.kind)
			require.EqualError(t, tt.err, tt.expectedText)
			require.NotEqual(t, tt.code, tt.err.Error())
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("receive H1: %w", domain.NewInvalidSeedError())

	require.ErrorIs(t, err, domain.ErrInvalidSeed)
	require.ErrorIs(t, err, domain.ErrConfiguration)
	require.False(t, errors.Is(err, domain.ErrMissingConfiguration))
	require.False(t, errors.Is(err, domain.ErrNetwork))
	require.Equal(t, domain.CodeInvalidSeed, domain.ErrorCode(err))
	require.Empty(t, domain.ErrorCode(errors.New("plain")))

	cause := errors.New("timeout")
	require.ErrorIs(t, domain.NewNetworkError("failed", cause), cause)
}
