package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

const (
	envPrefix = "FAUCET_"

	// MaxFeeDrops is the ceiling applied to the configured fee regardless of input.
	MaxFeeDrops = 1000
)

type ClaimIDPolicy string

const (
	// ClaimIDCounter suffixes every claim with a process-wide counter: rAccount_42.
	ClaimIDCounter ClaimIDPolicy = "counter"
	// ClaimIDAccount uses the bare account as the claim id.
	ClaimIDAccount ClaimIDPolicy = "account"
)

type Config struct {
	Primary     Primary           `koanf:"primary"`
	Server      ServerConfig      `koanf:"server"`
	Wallet      WalletConfig      `koanf:"wallet"`
	Token       TokenConfig       `koanf:"token"`
	Transaction TransactionConfig `koanf:"transaction"`
	Ledger      LedgerConfig      `koanf:"ledger"`
	Claims      ClaimsConfig      `koanf:"claims"`
	Scheduler   SchedulerConfig   `koanf:"scheduler"`
	Retry       RetryConfig       `koanf:"retry"`
	RateLimit   RateLimitConfig   `koanf:"rate_limit"`
	Logger      LoggerConfig      `koanf:"logger"`
	Database    DatabaseConfig    `koanf:"database"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

// WalletConfig identifies the single account payouts are sent from.
type WalletConfig struct {
	Account string `koanf:"account" validate:"required"`
	Secret  string `koanf:"secret" validate:"required"`
}

type TokenConfig struct {
	Issuer string `koanf:"issuer" validate:"required"`
	Code   string `koanf:"code" validate:"required"`
}

type TransactionConfig struct {
	FeeDrops   int64  `koanf:"fee_drops" validate:"gt=0"`
	MaxLedgers uint32 `koanf:"max_ledgers" validate:"gt=0"`
	Memo       string `koanf:"memo"`
}

type LedgerConfig struct {
	Node           string        `koanf:"node" validate:"required"`
	DialTimeout    time.Duration `koanf:"dial_timeout" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
}

type ClaimsConfig struct {
	IDPolicy       ClaimIDPolicy `koanf:"id_policy" validate:"oneof=counter account"`
	SuppressRepeat bool          `koanf:"suppress_repeat"`
	TTL            time.Duration `koanf:"ttl" validate:"required"`
}

type SchedulerConfig struct {
	TickPeriod   time.Duration `koanf:"tick_period" validate:"required"`
	TickTimeout  time.Duration `koanf:"tick_timeout" validate:"required"`
	TxsPerLedger int           `koanf:"txs_per_ledger" validate:"gt=0"`
	ForceExpire  time.Duration `koanf:"force_expire" validate:"required"`
}

type RetryConfig struct {
	BaseDelay  time.Duration `koanf:"base_delay"`
	MaxRetries int32         `koanf:"max_retries"`
}

type RateLimitConfig struct {
	RequestsPerMinute float64 `koanf:"requests_per_minute"`
	Burst             int     `koanf:"burst"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"omitempty,oneof=text json"`
	File   string `koanf:"file"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"primary.env":                      "development",
		"server.port":                      "3000",
		"server.read_timeout":              "10s",
		"server.write_timeout":             "15s",
		"server.idle_timeout":              "60s",
		"transaction.fee_drops":            20,
		"transaction.max_ledgers":          10,
		"ledger.node":                      "wss://xrplcluster.com",
		"ledger.dial_timeout":              "10s",
		"ledger.request_timeout":           "10s",
		"claims.id_policy":                 string(ClaimIDCounter),
		"claims.suppress_repeat":           true,
		"claims.ttl":                       "60s",
		"scheduler.tick_period":            "15s",
		"scheduler.tick_timeout":           "45s",
		"scheduler.txs_per_ledger":         5,
		"scheduler.force_expire":           "60s",
		"retry.base_delay":                 "250ms",
		"retry.max_retries":                3,
		"rate_limit.requests_per_minute":   30,
		"rate_limit.burst":                 5,
		"logger.level":                     "info",
		"logger.format":                    "text",
		"database.port":                    5432,
		"database.ssl_mode":                "disable",
		"database.max_open_conns":          5,
		"database.max_idle_conns":          1,
		"database.conn_max_lifetime":       "1h",
		"database.conn_max_idle_time":      "10m",
	}
}

// LoadConfig layers defaults, an optional YAML file named by FAUCET_CONFIG_FILE
// and FAUCET_* environment variables, in that order.
func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		logger.Error("failed to load defaults", "error", err)
		return nil, err
	}

	if path := strings.TrimSpace(os.Getenv(envPrefix + "CONFIG_FILE")); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			logger.Error("failed to load config file", "path", path, "error", err)
			return nil, err
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	if err := mainConfig.Validate(); err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Wallet.Account == c.Token.Issuer {
		return errors.New("wallet.account must differ from token.issuer")
	}

	if c.Claims.IDPolicy == ClaimIDAccount && !c.Claims.SuppressRepeat {
		return errors.New("claims.suppress_repeat must be enabled when claims.id_policy is \"account\"")
	}

	if c.Database.Enabled {
		if err := validate.Struct(c.Database.Connection()); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	return nil
}

// EffectiveFeeDrops applies the fee ceiling.
func (c TransactionConfig) EffectiveFeeDrops() int64 {
	return min(c.FeeDrops, MaxFeeDrops)
}
