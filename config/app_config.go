package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// This is the global app config for the ledger.
type AppConfig struct {
	// Initial balances, keyed by hex encoded public key.
	GENESIS map[string]int64 `mapstructure:"genesis"`
	// Deadline for a single RPC issued by the wallet.
	RPC_TIMEOUT time.Duration `mapstructure:"rpc_timeout"`
	// One of debug, info, warn, error.
	LOG_LEVEL string `mapstructure:"log_level"`
	// Port serving /metrics, disabled when empty.
	METRICS_PORT string `mapstructure:"metrics_port"`
	// How many applied transactions the node remembers.
	HISTORY_LIMIT int `mapstructure:"history_limit"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		GENESIS:       map[string]int64{},
		RPC_TIMEOUT:   10 * time.Second,
		LOG_LEVEL:     "info",
		HISTORY_LIMIT: 1000,
	}
}

// ParseAppConfig reads a yaml file on top of DefaultAppConfig.
func ParseAppConfig(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseAppConfigBytes(data)
}

func ParseAppConfigBytes(data []byte) (AppConfig, error) {
	c := DefaultAppConfig()
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return AppConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &c,
	})
	if err != nil {
		return AppConfig{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return AppConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if c.HISTORY_LIMIT < 0 {
		return AppConfig{}, fmt.Errorf("history_limit must not be negative, got %d", c.HISTORY_LIMIT)
	}
	if c.RPC_TIMEOUT <= 0 {
		return AppConfig{}, fmt.Errorf("rpc_timeout must be positive, got %s", c.RPC_TIMEOUT)
	}
	return c, nil
}

// GenesisBalances converts GENESIS into an initial balance snapshot.
func (c AppConfig) GenesisBalances() (map[model.PublicKey]int64, error) {
	base := make(map[model.PublicKey]int64, len(c.GENESIS))
	for k, v := range c.GENESIS {
		pk, err := model.ParsePublicKey(k)
		if err != nil {
			return nil, fmt.Errorf("genesis account %q: %w", k, err)
		}
		base[pk] = v
	}
	return base, nil
}

// NewLogger builds a production zap logger at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
