// Package config builds the process configuration from environment variables
// once at startup. Components receive the sub-structs they need by reference;
// nothing reads the environment after FromEnv returns.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full process configuration.
type Config struct {
	Server   ServerConfig
	Wyre     WyreConfig
	Chain    ChainConfig
	Signer   SignerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// WyreConfig holds payment provider credentials and the fixed order shape.
type WyreConfig struct {
	Host               string
	SecretKey          string
	ReferrerAccountID  string
	PaymentDestination string
	Timeout            time.Duration
}

// ChainConfig points at the Ethereum JSON-RPC node and names the contracts
// this service trusts.
type ChainConfig struct {
	NodeURL          string
	RegistrarAddress string
	ENSRegistry      string
	ChainID          int64
	RegistryCacheTTL time.Duration
}

// SignerConfig holds the approval signing key. The key is hex-encoded with an
// optional 0x prefix.
type SignerConfig struct {
	PrivateKeyHex string
}

// PostgresConfig configures the reservation ledger database. An empty URL
// selects the in-memory ledger.
type PostgresConfig struct {
	URL string
}

// RedisConfig configures the optional registry lookup cache.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional audit event sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            envOr("ENSPASS_ADDR", ":7000"),
			ShutdownTimeout: envDuration("ENSPASS_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Wyre: WyreConfig{
			Host:               envOr("WYRE_HOST", "https://api.testwyre.com/v3"),
			SecretKey:          os.Getenv("WYRE_SECRET_KEY"),
			ReferrerAccountID:  os.Getenv("WYRE_ACCOUNT_ID"),
			PaymentDestination: os.Getenv("WYRE_PAYMENT_DESTINATION"),
			Timeout:            envDuration("WYRE_TIMEOUT", 30*time.Second),
		},
		Chain: ChainConfig{
			NodeURL:          os.Getenv("NODE_URL"),
			RegistrarAddress: os.Getenv("ETH_REGISTRAR_CONTROLLER"),
			ENSRegistry:      envOr("ENS_REGISTRY", "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"),
			ChainID:          envInt64("CHAIN_ID", 1),
			RegistryCacheTTL: envDuration("REGISTRY_CACHE_TTL", 10*time.Minute),
		},
		Signer: SignerConfig{
			PrivateKeyHex: os.Getenv("APPROVAL_PRIVATE_KEY"),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("POSTGRES_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envList("KAFKA_BROKERS"),
			Topic:   envOr("KAFKA_AUDIT_TOPIC", "enspass.audit"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
