package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "delivery_db",
}

var defaultKafka = Kafka{
	GroupID:     "service-delivery",
	OrdersTopic: "marketplace.orders",
	StatusTopic: "delivery.order-status",
}

var defaultRedis = Redis{
	Addr:        "127.0.0.1:6379",
	Channel:     "orders:changed",
	PresenceTTL: 90 * time.Second,
}

var defaultMarketplace = Marketplace{
	BaseURL:     "http://127.0.0.1:8081",
	Timeout:     2 * time.Second,
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    time.Second,
}

var defaultRateLimit = RateLimit{
	Enabled:    false,
	Rate:       5,
	Burst:      10,
	TTL:        10 * time.Minute,
	MaxBuckets: 10_000,
}

// DefaultPort returns the default port.
func DefaultPort() int { return defaultPort }

// DefaultDB returns the default database settings.
func DefaultDB() DB { return defaultDB }

// DefaultKafka returns the default Kafka settings.
func DefaultKafka() Kafka { return defaultKafka }

// DefaultRedis returns the default Redis settings.
func DefaultRedis() Redis { return defaultRedis }

// DefaultMarketplace returns the default marketplace gateway settings.
func DefaultMarketplace() Marketplace { return defaultMarketplace }

// DefaultRateLimit returns the default rate limiter settings.
func DefaultRateLimit() RateLimit { return defaultRateLimit }
