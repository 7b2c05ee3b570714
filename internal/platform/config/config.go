package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Fixed contract addresses and networks scanned by udscan.
const (
	// InterfaceSourceAddress is the contract whose verified ABI describes the registry.
	InterfaceSourceAddress = "0x0301cc5242A1F039799E8F806302Dc2140421971"
	// RegistryAddress is the registry queried for ownership.
	RegistryAddress = "0xa9a6A3626993D487d2Dbda3173cf58cA1a9D9e9f"
	// ChainID is Polygon mainnet, used by the explorer API.
	ChainID = 137
)

// Config captures the operational settings of a scan. Everything that defines
// the scanned namespace stays a constant; only credentials and endpoints come
// from the environment.
type Config struct {
	LogLevel string `env:"UDSCAN_LOG_LEVEL, default=warn"`

	Explorer ExplorerConfig
	RPC      RPCConfig
	Hasher   HasherConfig
	Redis    RedisConfig
	Metrics  MetricsConfig
	Tracing  TracingConfig
}

// ExplorerConfig locates the block explorer used to fetch the registry ABI.
type ExplorerConfig struct {
	BaseURL string        `env:"UDSCAN_EXPLORER_URL, default=https://api.etherscan.io/v2/api"`
	APIKey  string        `env:"UDSCAN_EXPLORER_API_KEY, default=<POLYGONSCAN_API_KEY>"`
	Timeout time.Duration `env:"UDSCAN_EXPLORER_TIMEOUT, default=30s"`
}

// RPCConfig locates the JSON-RPC provider used for ownerOf calls.
type RPCConfig struct {
	BaseURL string `env:"UDSCAN_RPC_URL, default=https://polygon-mainnet.g.alchemy.com/v2"`
	APIKey  string `env:"UDSCAN_RPC_API_KEY, default=<ALCHEMY_API_KEY>"`
}

// Endpoint joins the provider base URL with its key.
func (c RPCConfig) Endpoint() string {
	if c.APIKey == "" {
		return c.BaseURL
	}
	return c.BaseURL + "/" + c.APIKey
}

// HasherConfig selects how identifiers are computed.
type HasherConfig struct {
	// Mode is "process" (external executable) or "native".
	Mode string `env:"UDSCAN_HASHER, default=process"`
	Path string `env:"UDSCAN_HASHER_PATH, default=./namehash"`
}

// RedisConfig enables the optional ABI cache. An empty URL disables it.
type RedisConfig struct {
	URL          string        `env:"UDSCAN_REDIS_URL"`
	ABITTL       time.Duration `env:"UDSCAN_ABI_CACHE_TTL, default=24h"`
	PoolSize     int           `env:"UDSCAN_REDIS_POOL_SIZE, default=2"`
	DialTimeout  time.Duration `env:"UDSCAN_REDIS_DIAL_TIMEOUT, default=5s"`
	ReadTimeout  time.Duration `env:"UDSCAN_REDIS_READ_TIMEOUT, default=3s"`
	WriteTimeout time.Duration `env:"UDSCAN_REDIS_WRITE_TIMEOUT, default=3s"`
}

// MetricsConfig enables pushing run metrics. An empty URL disables it.
type MetricsConfig struct {
	PushgatewayURL string `env:"UDSCAN_PUSHGATEWAY_URL"`
	Job            string `env:"UDSCAN_PUSHGATEWAY_JOB, default=udscan"`
}

// TracingConfig selects where lookup spans are exported. An empty exporter
// disables tracing.
type TracingConfig struct {
	// Exporter is "", "file" or "otlp".
	Exporter     string `env:"UDSCAN_TRACE_EXPORTER"`
	File         string `env:"UDSCAN_TRACE_FILE, default=udscan-traces.json"`
	OTLPEndpoint string `env:"UDSCAN_OTLP_ENDPOINT, default=http://localhost:4318"`
}

const (
	HasherProcess = "process"
	HasherNative  = "native"

	TraceExporterNone = ""
	TraceExporterFile = "file"
	TraceExporterOTLP = "otlp"
)

// Load reads configuration from the environment.
func Load(ctx context.Context) (Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	switch cfg.Hasher.Mode {
	case HasherProcess, HasherNative:
	default:
		return Config{}, fmt.Errorf("config: unknown hasher mode %q", cfg.Hasher.Mode)
	}
	switch cfg.Tracing.Exporter {
	case TraceExporterNone, TraceExporterFile, TraceExporterOTLP:
	default:
		return Config{}, fmt.Errorf("config: unknown trace exporter %q", cfg.Tracing.Exporter)
	}
	return cfg, nil
}
