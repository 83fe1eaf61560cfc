package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nanoflow/nanowallet/internal/config"
	"github.com/nanoflow/nanowallet/internal/core/domain"
	"github.com/stretchr/testify/require"
)

const testSeed = "ABCDEF0000000000000000000000000000000000000000000000000000000001"

func TestInitConfigFromEnv(t *testing.T) {
	t.Setenv("NANOWALLET_RPC_URLS", "http://rpc1, http://rpc2")
	t.Setenv("NANOWALLET_WORK_URLS", "http://work1")
	t.Setenv("NANOWALLET_WS_URL", "ws://feed")
	t.Setenv("NANOWALLET_SEED", testSeed)
	t.Setenv("NANOWALLET_CUSTOM_HEADERS", "Authorization=Bearer xyz,X-Client=nanowallet")
	t.Setenv("NANOWALLET_RPC_TIMEOUT", "5s")
	t.Setenv("NANOWALLET_RPC_RATE_LIMIT", "2.5")

	require.NoError(t, config.InitConfig(""))

	cfg := config.WalletConfig()
	require.Equal(t, []string{"http://rpc1", "http://rpc2"}, cfg.RPCURLs)
	require.Equal(t, []string{"http://work1"}, cfg.WorkURLs)
	require.Equal(t, "ws://feed", config.GetString(config.WSURLKey))
	require.Equal(t, testSeed, cfg.Seed)
	require.False(t, cfg.DisableAutoReceive)
	require.Equal(t, "nano_", cfg.AddressPrefix)
	require.Equal(t, int32(30), cfg.DecimalPlaces)
	require.Equal(t, 1000, cfg.MaxPendingOperations)

	opts := config.RPCOptions()
	require.Equal(t, cfg.RPCURLs, opts.RPCURLs)
	require.Equal(t, cfg.WorkURLs, opts.WorkURLs)
	require.Equal(t, map[string]string{
		"Authorization": "Bearer xyz",
		"X-Client":      "nanowallet",
	}, opts.Headers)
	require.Equal(t, 5*time.Second, opts.Timeout)
	require.Equal(t, 2.5, opts.RateLimit)
}

func TestInitConfigFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nanowallet.yaml")
	content := []byte(`
RPC_URLS:
  - http://rpc1
WORK_URLS:
  - http://work1
  - http://work2
AUTO_RECEIVE: false
DECIMAL_PLACES: 6
`)
	require.NoError(t, os.WriteFile(file, content, 0600))

	t.Setenv("NANOWALLET_DECIMAL_PLACES", "10")
	require.NoError(t, config.InitConfig(file))

	cfg := config.WalletConfig()
	require.Equal(t, []string{"http://rpc1"}, cfg.RPCURLs)
	require.Equal(t, []string{"http://work1", "http://work2"}, cfg.WorkURLs)
	require.True(t, cfg.DisableAutoReceive)
	require.Equal(t, int32(10), cfg.DecimalPlaces, "env takes precedence")
	require.Empty(t, config.RPCOptions().Headers)
}

func TestInitConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectedErr error
	}{
		{
			name:        "missing endpoints",
			env:         map[string]string{"NANOWALLET_RPC_URLS": "http://rpc"},
			expectedErr: domain.ErrMissingConfiguration,
		},
		{
			name: "malformed seed",
			env: map[string]string{
				"NANOWALLET_RPC_URLS":  "http://rpc",
				"NANOWALLET_WORK_URLS": "http://work",
				"NANOWALLET_SEED":      "1234",
			},
			expectedErr: domain.ErrInvalidSeed,
		},
		{
			name: "malformed representative",
			env: map[string]string{
				"NANOWALLET_RPC_URLS":    "http://rpc",
				"NANOWALLET_WORK_URLS":   "http://work",
				"NANOWALLET_DEFAULT_REP": "xrb_rep",
			},
			expectedErr: domain.ErrInvalidAddress,
		},
		{
			name: "negative decimal places",
			env: map[string]string{
				"NANOWALLET_RPC_URLS":       "http://rpc",
				"NANOWALLET_WORK_URLS":      "http://work",
				"NANOWALLET_DECIMAL_PLACES": "-1",
			},
			expectedErr: domain.ErrConfiguration,
		},
		{
			name: "malformed header",
			env: map[string]string{
				"NANOWALLET_RPC_URLS":       "http://rpc",
				"NANOWALLET_WORK_URLS":      "http://work",
				"NANOWALLET_CUSTOM_HEADERS": "no-separator",
			},
			expectedErr: domain.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			err := config.InitConfig("")
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}
