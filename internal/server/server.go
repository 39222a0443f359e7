// Package server wires the draw engine, its stores and the gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/xtding233/rarity-engine/internal/config"
	"github.com/xtding233/rarity-engine/internal/gacha"
	"github.com/xtding233/rarity-engine/internal/game"
	"github.com/xtding233/rarity-engine/internal/storage/sqlite"
)

// Config holds server configuration.
type Config struct {
	Port          int           `env:"RARITY_PORT" envDefault:"8090"`
	Addr          string        `env:"RARITY_ADDR"`
	DataDir       string        `env:"RARITY_DATA_DIR" envDefault:"data"`
	Pool          string        `env:"RARITY_POOL"`
	DBPath        string        `env:"RARITY_DB_PATH" envDefault:"data/rarity.db"`
	WatchInterval time.Duration `env:"RARITY_WATCH_INTERVAL" envDefault:"5s"`
	// Seed 0 uses the crypto-backed generator.
	Seed uint64 `env:"RARITY_SEED"`
}

// ParseConfig parses environment and then flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The draw server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The draw server listen address (overrides -port)")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Directory holding tables/ and catalog/")
	fs.StringVar(&cfg.Pool, "pool", cfg.Pool, "Weight table overlay to apply on top of the default table")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.DurationVar(&cfg.WatchInterval, "watch", cfg.WatchInterval, "Catalog reload poll interval (0 disables)")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Fixed RNG seed for reproducible draws (0 = crypto)")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}
	return cfg, nil
}

// ListenAddr returns the address the server should bind.
func (c Config) ListenAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf(":%d", c.Port)
}

// Server hosts the draw gRPC API and owns its stores.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *sqlite.Store
	watcher    *game.FileWatcher
}

// New creates a configured server listening on cfg's address.
func New(cfg Config) (*Server, error) {
	listener, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.ListenAddr(), err)
	}
	s, err := NewWithListener(cfg, listener)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}
	return s, nil
}

// NewWithListener creates a server on an existing listener.
func NewWithListener(cfg Config, listener net.Listener) (*Server, error) {
	store, err := openStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	loader := game.NewLoader(cfg.DataDir)
	catalog, err := game.NewCatalog(loader)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	var rng gacha.RandomSource
	if cfg.Seed != 0 {
		rng = gacha.NewSeededRNG(cfg.Seed)
	}
	engine, err := gacha.New(gacha.Config{
		Weights:   game.PoolWeights{Loader: loader, Pool: cfg.Pool},
		Modifiers: store,
		Catalog:   catalog,
		Overrides: store,
		Recorder:  store,
		RNG:       rng,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}
	log.Printf("loaded %d characters; base weights %v", catalog.Len(), engine.Base())

	var watcher *game.FileWatcher
	if cfg.WatchInterval > 0 {
		watcher = game.WatchCatalog(catalog, cfg.WatchInterval, func(err error) {
			log.Printf("catalog reload: %v", err)
		})
		watcher.Start()
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	RegisterDrawServer(grpcServer, NewService(engine))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		watcher:    watcher,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Store exposes the draw state store, for hosts that grant modifiers.
func (s *Server) Store() *sqlite.Store { return s.store }

// Run creates and serves a server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	defer s.Close()

	log.Printf("draw server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close draw store: %v", err)
		}
	}
}

func openStore(path string) (*sqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open draw store: %w", err)
	}
	return store, nil
}
