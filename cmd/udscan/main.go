package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/google/uuid"

	"udscan/internal/abisource"
	"udscan/internal/app"
	"udscan/internal/namehash"
	"udscan/internal/platform/config"
	"udscan/internal/platform/logger"
	"udscan/internal/platform/metrics"
	"udscan/internal/platform/redis"
	"udscan/internal/platform/tracing"
	"udscan/internal/scan"
)

// main wires the providers, the hasher and the scan. Only startup failures
// change the exit status; individual lookups never do.
func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("loading configuration", "error", err)
		return 1
	}

	runID := uuid.NewString()
	log := logger.New(os.Stderr, cfg.LogLevel).With("run_id", runID)

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, runID)
	if err != nil {
		log.Error("configuring tracing", "error", err)
		return 1
	}
	defer flushTraces(shutdownTracing, log)

	source, closeSource, err := interfaceSource(ctx, cfg, log)
	if err != nil {
		log.Error("connecting interface cache", "error", err)
		return 1
	}
	defer closeSource()

	rpc, err := ethclient.DialContext(ctx, cfg.RPC.Endpoint())
	if err != nil {
		log.Error("connecting rpc provider", "error", err)
		return 1
	}
	defer rpc.Close()

	m := metrics.New()
	code := runScan(ctx, log, app.Deps{
		Interface: source,
		Caller:    rpc,
		Hasher:    hasher(cfg, log),
		Out:       os.Stdout,
		Err:       os.Stderr,
		Logger:    log,
		Metrics:   m,
	})
	pushMetrics(cfg, m, runID, log)
	return code
}

// runScan runs the scan and maps its result to the process exit status.
func runScan(ctx context.Context, log *slog.Logger, deps app.Deps) int {
	err := app.Run(ctx, deps)
	switch {
	case errors.Is(err, app.ErrInterfaceUnavailable):
		log.Error("aborting scan", "error", err)
		return 1
	case err != nil:
		log.Error("scan stopped", "error", err)
		return 1
	}
	return 0
}

func interfaceSource(ctx context.Context, cfg config.Config, log *slog.Logger) (abisource.Source, func(), error) {
	explorer := abisource.NewExplorerClient(cfg.Explorer.BaseURL, config.ChainID, cfg.Explorer.APIKey,
		cfg.Explorer.Timeout, abisource.WithLogger(log))

	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return explorer, func() {}, nil
	}
	cache := abisource.NewRedisCache(client.Client, explorer, config.ChainID, cfg.Redis.ABITTL, log)
	return cache, func() { _ = client.Close() }, nil
}

func hasher(cfg config.Config, log *slog.Logger) scan.Hasher {
	if cfg.Hasher.Mode == config.HasherNative {
		return namehash.NativeHasher{}
	}
	return namehash.NewProcessHasher(cfg.Hasher.Path, namehash.WithLogger(log))
}

func flushTraces(shutdown tracing.Shutdown, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warn("flushing traces failed", "error", err)
	}
}

func pushMetrics(cfg config.Config, m *metrics.Metrics, runID string, log *slog.Logger) {
	if cfg.Metrics.PushgatewayURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job, runID); err != nil {
		log.Warn("pushing metrics failed", "error", err)
	}
}
