package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a Postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Kafka stores consumer and producer settings. Empty brokers disable Kafka.
type Kafka struct {
	Brokers     []string
	GroupID     string
	OrdersTopic string
	StatusTopic string
}

// Redis stores the pub/sub and presence settings.
type Redis struct {
	Addr        string
	Channel     string
	PresenceTTL time.Duration
}

// Marketplace stores the upstream order-source gateway settings.
type Marketplace struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RateLimit stores the claim-route limiter settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Pprof stores the optional debug server settings. Empty Addr disables it.
type Pprof struct {
	Addr string
	User string
	Pass string
}

// Config stores service settings.
type Config struct {
	Port        int
	DB          DB
	Kafka       Kafka
	Redis       Redis
	Marketplace Marketplace
	RateLimit   RateLimit
	Pprof       Pprof
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:        DefaultPort(),
		DB:          DefaultDB(),
		Kafka:       DefaultKafka(),
		Redis:       DefaultRedis(),
		Marketplace: DefaultMarketplace(),
		RateLimit:   DefaultRateLimit(),
	}

	cfg.Port = envInt("PORT", cfg.Port)

	cfg.DB.Host = envStr("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = envStr("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = envStr("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = envStr("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = envStr("POSTGRES_DB", cfg.DB.Name)

	if v := os.Getenv("KAFKA_BROKERS"); strings.TrimSpace(v) != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	cfg.Kafka.GroupID = envStr("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	cfg.Kafka.OrdersTopic = envStr("KAFKA_ORDERS_TOPIC", cfg.Kafka.OrdersTopic)
	cfg.Kafka.StatusTopic = envStr("KAFKA_STATUS_TOPIC", cfg.Kafka.StatusTopic)

	cfg.Redis.Addr = envStr("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Channel = envStr("REDIS_CHANNEL", cfg.Redis.Channel)

	cfg.Marketplace.BaseURL = envStr("MARKETPLACE_BASE_URL", cfg.Marketplace.BaseURL)
	cfg.Marketplace.MaxAttempts = envInt("MARKETPLACE_MAX_ATTEMPTS", cfg.Marketplace.MaxAttempts)

	cfg.RateLimit.Enabled = envBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)

	cfg.Pprof.Addr = envStr("PPROF_ADDR", cfg.Pprof.Addr)
	cfg.Pprof.User = envStr("PPROF_USER", cfg.Pprof.User)
	cfg.Pprof.Pass = envStr("PPROF_PASS", cfg.Pprof.Pass)

	var err error
	if cfg.Redis.PresenceTTL, err = envDuration("PRESENCE_TTL", cfg.Redis.PresenceTTL); err != nil {
		return nil, err
	}
	if cfg.Marketplace.Timeout, err = envDuration("MARKETPLACE_TIMEOUT", cfg.Marketplace.Timeout); err != nil {
		return nil, err
	}
	if cfg.Marketplace.BaseDelay, err = envDuration("MARKETPLACE_BASE_DELAY", cfg.Marketplace.BaseDelay); err != nil {
		return nil, err
	}
	if cfg.Marketplace.MaxDelay, err = envDuration("MARKETPLACE_MAX_DELAY", cfg.Marketplace.MaxDelay); err != nil {
		return nil, err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	if err := parseFlags(); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if _, err := strconv.Atoi(c.DB.Port); err != nil {
		return fmt.Errorf("invalid postgres port: %q", c.DB.Port)
	}
	if c.Marketplace.MaxAttempts <= 0 {
		return fmt.Errorf("invalid marketplace max attempts: %d", c.Marketplace.MaxAttempts)
	}
	return nil
}

func parseFlags() error {
	// tolerate the test binary's -test.* flags
	pflag.CommandLine.ParseErrorsWhitelist.UnknownFlags = true
	return pflag.CommandLine.Parse(os.Args[1:])
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
