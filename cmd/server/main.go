// Command pm-server starts the paperless-mirror gRPC and HTTP servers.
package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/and161185/paperless-mirror/internal/api"
	"github.com/and161185/paperless-mirror/internal/config"
	"github.com/and161185/paperless-mirror/internal/crypto"
	"github.com/and161185/paperless-mirror/internal/limiter"
	"github.com/and161185/paperless-mirror/internal/logging"
	"github.com/and161185/paperless-mirror/internal/migrate"
	"github.com/and161185/paperless-mirror/internal/mirror"
	"github.com/and161185/paperless-mirror/internal/repository/postgres"
	grpcserver "github.com/and161185/paperless-mirror/internal/server/grpc"
	httpserver "github.com/and161185/paperless-mirror/internal/server/http"
	"github.com/and161185/paperless-mirror/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and serves until a signal arrives.
func main() {
	cfgPath := flag.String("config", "", "path to YAML config")
	addr := flag.String("addr", "", "gRPC listen address (overrides config)")
	httpAddr := flag.String("http-addr", "", "HTTP listen address (overrides config)")
	dsn := flag.String("dsn", "", "PostgreSQL DSN (overrides config)")
	dev := flag.Bool("dev", false, "enable server reflection (dev only)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}
	overrideFromFlags(cfg, *addr, *httpAddr, *dsn, *dev)

	logger := logging.New(cfg.Log)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Server.GRPCAddr),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.Database.DSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}
	if v, err := migrate.Version(ctx, cfg.Database.DSN); err == nil {
		logger.Info("schema ready", zap.Int64("version", v))
	}

	db, err := postgres.New(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		logger.Fatal("ping db", zap.Error(err))
	}

	sealer, err := crypto.NewSealer(cfg.Secrets.Key)
	if err != nil {
		logger.Fatal("token sealer", zap.Error(err))
	}

	// Repositories
	instRepo := postgres.NewInstanceRepo(db)
	docRepo := postgres.NewDocumentRepo(db)
	histRepo := postgres.NewHistoryRepo(db)
	resultRepo := postgres.NewResultRepo(db)
	tagNameRepo := postgres.NewTagNameRepo(db)

	lim := limiter.NewPG(db.Pool, cfg.Sync.FailureWindow, cfg.Sync.MaxFailures, cfg.Sync.BlockFor)
	remotes := service.PaperlessRemotes(cfg.Paperless.Timeout, cfg.Paperless.PageSize)
	syncRemotes := service.PaperlessRemotes(0, cfg.Paperless.PageSize)
	engine := mirror.NewEngine(docRepo, histRepo, logger.Named("mirror"), mirror.WithPageSize(cfg.Paperless.PageSize))

	// Services
	instSvc := service.NewInstanceService(instRepo, tagNameRepo, sealer, remotes, logger.Named("instances"))
	syncSvc := service.NewSyncService(instSvc, engine, histRepo, tagNameRepo, syncRemotes, lim, logger.Named("sync"))
	suggSvc := service.NewSuggestionService(docRepo, resultRepo, tagNameRepo, instSvc, remotes, logger.Named("suggestions"))

	opts := grpcserver.ServerOptions(logger, []byte(cfg.Auth.JWTKey))
	if cfg.Server.TLSCert != "" && cfg.Server.TLSKey != "" {
		creds, err := credentials.NewServerTLSFromFile(cfg.Server.TLSCert, cfg.Server.TLSKey)
		if err != nil {
			logger.Fatal("failed to load TLS cert/key", zap.Error(err))
		}
		opts = append(opts, grpc.Creds(creds))
	} else {
		logger.Warn("TLS disabled: tls_cert/tls_key not set")
	}
	s := grpc.NewServer(opts...)
	api.RegisterMirrorServer(s, grpcserver.New(instSvc, syncSvc, suggSvc))

	// Health & reflection (dev)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	if cfg.Server.Dev {
		reflection.Register(s)
	}

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("listening (gRPC)", zap.String("addr", cfg.Server.GRPCAddr))
		errCh <- s.Serve(lis)
	}()

	var hsrv *httpserver.Server
	if cfg.Server.HTTPAddr != "" {
		hsrv = httpserver.NewServer(instSvc, syncSvc, suggSvc, []byte(cfg.Auth.JWTKey), logger.Named("http"))
		go func() { errCh <- hsrv.Start(cfg.Server.HTTPAddr) }()
	}

	select {
	case <-ctx.Done():
		hs.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if hsrv != nil {
			if err := hsrv.Stop(shutdownCtx); err != nil {
				logger.Warn("http shutdown", zap.Error(err))
			}
		}
		done := make(chan struct{})
		go func() {
			s.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			s.Stop()
		}
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func overrideFromFlags(cfg *config.Config, addr, httpAddr, dsn string, dev bool) {
	if addr != "" {
		cfg.Server.GRPCAddr = addr
	}
	if httpAddr != "" {
		cfg.Server.HTTPAddr = httpAddr
	}
	if dsn != "" {
		cfg.Database.DSN = dsn
	}
	if dev {
		cfg.Server.Dev = true
	}
}
