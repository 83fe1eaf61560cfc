package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/nanoflow/nanowallet/internal/core/application"
	"github.com/nanoflow/nanowallet/internal/core/domain"
	"github.com/nanoflow/nanowallet/internal/infrastructure/noderpc"
	"github.com/nanoflow/nanowallet/pkg/keymutex"

	"github.com/spf13/viper"
)

const (
	// RPCURLsKey is the comma separated list of ledger RPC endpoints, tried in order
	RPCURLsKey = "RPC_URLS"
	// WorkURLsKey is the comma separated list of work generation endpoints, tried in order
	WorkURLsKey = "WORK_URLS"
	// WSURLKey is the websocket endpoint of the live confirmation feed
	WSURLKey = "WS_URL"
	// SeedKey is the 64 hex characters seed of the wallet
	SeedKey = "SEED"
	// DefaultRepKey is the representative used to open new accounts
	DefaultRepKey = "DEFAULT_REP"
	// AutoReceiveKey enables the automatic receive of incoming sends
	AutoReceiveKey = "AUTO_RECEIVE"
	// AddressPrefixKey is the prefix of the managed addresses
	AddressPrefixKey = "ADDRESS_PREFIX"
	// DecimalPlacesKey is the number of decimal places between raw and mega units
	DecimalPlacesKey = "DECIMAL_PLACES"
	// CustomHeadersKey is a comma separated list of key=value headers added to every RPC request
	CustomHeadersKey = "CUSTOM_HEADERS"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// MaxPendingOperationsKey bounds the operations waiting for their account
	MaxPendingOperationsKey = "MAX_PENDING_OPERATIONS"
	// RPCTimeoutKey is the timeout of a single RPC request
	RPCTimeoutKey = "RPC_TIMEOUT"
	// RPCRateLimitKey is the max number of RPC calls per second, 0 means unlimited
	RPCRateLimitKey = "RPC_RATE_LIMIT"
	// StatsIntervalKey defines the interval in seconds for printing statistics, 0 disables it
	StatsIntervalKey = "STATS_INTERVAL"

	envPrefix = "NANOWALLET"
)

var vip *viper.Viper

// InitConfig loads the configuration from env and, if not empty, from
// configFile. Env variables take precedence over the file.
func InitConfig(configFile string) error {
	vip = viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.AutomaticEnv()

	vip.SetDefault(AutoReceiveKey, true)
	vip.SetDefault(AddressPrefixKey, domain.DefaultAddressPrefix)
	vip.SetDefault(DecimalPlacesKey, domain.DefaultDecimalPlaces)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(MaxPendingOperationsKey, keymutex.DefaultMaxPending)
	vip.SetDefault(RPCTimeoutKey, 30*time.Second)
	vip.SetDefault(RPCRateLimitKey, 0)
	vip.SetDefault(StatsIntervalKey, 0)

	if configFile != "" {
		vip.SetConfigFile(configFile)
		if err := vip.ReadInConfig(); err != nil {
			return fmt.Errorf("error while reading config file: %s", err)
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %w", err)
	}
	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetFloat(key string) float64 {
	return vip.GetFloat64(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetStringSlice accepts both lists from the config file and comma separated
// values from env.
func GetStringSlice(key string) []string {
	var values []string
	switch v := vip.Get(key).(type) {
	case string:
		values = strings.Split(v, ",")
	default:
		values = vip.GetStringSlice(key)
	}

	list := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			list = append(list, value)
		}
	}
	return list
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

// GetCustomHeaders parses the key=value pairs of CustomHeadersKey.
func GetCustomHeaders() (map[string]string, error) {
	headers := make(map[string]string)
	for _, pair := range GetStringSlice(CustomHeadersKey) {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid custom header %q, must be key=value", pair)
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}

// WalletConfig returns the configuration of the wallet service.
func WalletConfig() application.Config {
	return application.Config{
		RPCURLs:               GetStringSlice(RPCURLsKey),
		WorkURLs:              GetStringSlice(WorkURLsKey),
		Seed:                  GetString(SeedKey),
		DefaultRepresentative: GetString(DefaultRepKey),
		DisableAutoReceive:    !GetBool(AutoReceiveKey),
		AddressPrefix:         GetString(AddressPrefixKey),
		DecimalPlaces:         int32(GetInt(DecimalPlacesKey)),
		MaxPendingOperations:  GetInt(MaxPendingOperationsKey),
	}
}

// RPCOptions returns the options of the ledger RPC client.
func RPCOptions() noderpc.Options {
	headers, _ := GetCustomHeaders()
	return noderpc.Options{
		RPCURLs:   GetStringSlice(RPCURLsKey),
		WorkURLs:  GetStringSlice(WorkURLsKey),
		Headers:   headers,
		Timeout:   GetDuration(RPCTimeoutKey),
		RateLimit: GetFloat(RPCRateLimitKey),
	}
}

func validate() error {
	if len(GetStringSlice(RPCURLsKey)) == 0 || len(GetStringSlice(WorkURLsKey)) == 0 {
		return domain.NewMissingConfigurationError("rpcUrls and workUrls")
	}

	if seed := GetString(SeedKey); seed != "" {
		if err := domain.ValidateSeed(seed); err != nil {
			return err
		}
	}

	if rep := GetString(DefaultRepKey); rep != "" {
		if err := domain.ValidateAddress(rep, GetString(AddressPrefixKey)); err != nil {
			return err
		}
	}

	if GetInt(DecimalPlacesKey) < 0 {
		return domain.NewConfigurationError(
			fmt.Sprintf("%s must not be negative", DecimalPlacesKey),
		)
	}

	if GetInt(MaxPendingOperationsKey) <= 0 {
		return domain.NewConfigurationError(
			fmt.Sprintf("%s must be greater than 0", MaxPendingOperationsKey),
		)
	}

	if GetFloat(RPCRateLimitKey) < 0 {
		return domain.NewConfigurationError(
			fmt.Sprintf("%s must not be negative", RPCRateLimitKey),
		)
	}

	if _, err := GetCustomHeaders(); err != nil {
		return domain.NewConfigurationError(err.Error())
	}

	return nil
}
