package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dvtrade/cardmarket/internal/services/market/stats"
	marketsqlite "github.com/dvtrade/cardmarket/internal/services/market/storage/sqlite"
)

// RuntimeConfig controls market daemon startup and loop behavior.
type RuntimeConfig struct {
	Port            int
	DBPath          string
	TieringInterval time.Duration
	StartingCards   int
	StartingBalance int64
}

const (
	defaultMarketPort      = 8093
	defaultMarketDB        = "data/market.db"
	defaultTieringInterval = time.Hour
)

// Run starts the market runtime: the SQLite store, a health endpoint for
// orchestration probes, and the periodic tiering loop. It blocks until the
// context is canceled.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultMarketPort
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaultMarketDB
	}
	if cfg.TieringInterval <= 0 {
		cfg.TieringInterval = defaultTieringInterval
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create market storage dir: %w", err)
		}
	}

	store, err := marketsqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open market sqlite store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close market sqlite store: %v", closeErr)
		}
	}()

	aggregator := stats.NewAggregator()
	opts := []Option{WithSubscriber(aggregator)}
	if cfg.StartingCards > 0 {
		opts = append(opts, WithStartingCards(cfg.StartingCards))
	}
	if cfg.StartingBalance > 0 {
		opts = append(opts, WithStartingBalance(cfg.StartingBalance))
	}
	service, err := NewService(store, opts...)
	if err != nil {
		return fmt.Errorf("build market service: %w", err)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on market port %d: %w", cfg.Port, err)
	}
	defer listener.Close()

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("market.runtime", grpc_health_v1.HealthCheckResponse_SERVING)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	defer func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		<-serveErr
	}()

	log.Printf("market server listening at %v", listener.Addr())
	return service.runTieringLoop(ctx, cfg.TieringInterval, aggregator)
}

// runTieringLoop reprices the catalog on a fixed interval until the context
// is canceled, logging marketplace activity totals alongside each run.
func (s *Service) runTieringLoop(ctx context.Context, interval time.Duration, aggregator *stats.Aggregator) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			applied, err := s.RunTiering(ctx)
			if err != nil {
				log.Printf("tiering run: %v", err)
				continue
			}
			log.Printf("tiering run repriced %d cards", applied)
			for kind, totals := range aggregator.Snapshot() {
				log.Printf("activity %s: %d transactions, volume %d", kind, totals.Count, totals.Volume)
			}
		}
	}
}
