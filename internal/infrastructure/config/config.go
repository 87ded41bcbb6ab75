package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverLog      = "log"

	ModePolling = "polling"
	ModeWebhook = "webhook"
	ModeOff     = "off"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info" validate:"oneof=trace debug info warn warning error"`

	Telegram TelegramConfig
	Ledger   LedgerConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Operator OperatorConfig
	Dispatch DispatchConfig
}

type TelegramConfig struct {
	BotToken      string        `env:"BOT_TOKEN"`
	BotUsername   string        `env:"TELEGRAM_BOT_USERNAME"`
	Mode          string        `env:"TELEGRAM_MODE,           default=polling" validate:"oneof=polling webhook off"`
	APIURL        string        `env:"TELEGRAM_API_URL,        default=https://api.telegram.org" validate:"url"`
	WebhookURL    string        `env:"TELEGRAM_WEBHOOK_URL"    validate:"required_if=Mode webhook,omitempty,url"`
	WebhookSecret string        `env:"TELEGRAM_WEBHOOK_SECRET"`
	PollTimeout   time.Duration `env:"TELEGRAM_POLL_TIMEOUT,   default=30s"`
	InitDataTTL   time.Duration `env:"INIT_DATA_TTL,           default=24h"`
}

type LedgerConfig struct {
	AdminIDs             IDList `env:"ADMIN_IDS"`
	AllowNegativeBalance bool   `env:"ALLOW_NEGATIVE_BALANCE, default=true"`
	LeaderboardLimit     int    `env:"LEADERBOARD_LIMIT,      default=10" validate:"gte=1,lte=100"`
}

type StoreConfig struct {
	Driver   string `env:"STORE_DRIVER, default=file" validate:"oneof=file memory mongo redis postgres"`
	DataFile string `env:"DATA_FILE,    default=points_data.json"`
	Audit    string `env:"AUDIT_DRIVER, default=log"  validate:"oneof=log mongo redis postgres"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=points_ledger"`
}

// RedisConfig is optional unless a redis driver is selected. When Addr is
// set, webhook updates are also deduplicated through Redis.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type PostgresConfig struct {
	URL string `env:"DATABASE_URL, default=postgres://localhost:5432/points_ledger?sslmode=disable"`
}

type OperatorConfig struct {
	JWTSecret    string        `env:"JWT_SECRET"`
	PasswordHash string        `env:"OPERATOR_PASSWORD_HASH"`
	TokenTTL     time.Duration `env:"TOKEN_TTL, default=24h"`
}

type DispatchConfig struct {
	Workers int `env:"DISPATCH_WORKERS, default=4" validate:"gte=1,lte=64"`
}

// IDList decodes a comma separated list of numeric identities.
type IDList []int64

// EnvDecode satisfies envconfig.Decoder.
func (l *IDList) EnvDecode(val string) error {
	var out IDList
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid identity %q", part)
		}
		out = append(out, id)
	}
	*l = out
	return nil
}

// Production reports whether logs should be emitted as plain JSON.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

// Load reads configuration from environment variables using go-envconfig
// and validates it.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and cross-field requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Telegram.Mode != ModeOff && c.Telegram.BotToken == "" {
		return errors.New("config: BOT_TOKEN is required unless TELEGRAM_MODE=off")
	}
	if (c.Store.Driver == DriverRedis || c.Store.Audit == DriverRedis) && !c.RedisEnabled() {
		return errors.New("config: REDIS_ADDR is required by the redis driver")
	}
	return nil
}
