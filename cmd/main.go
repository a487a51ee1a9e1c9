package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	grpcHandler "github.com/dtroode/userkeeper-server/internal/api/grpc/handler"
	grpcRouter "github.com/dtroode/userkeeper-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/userkeeper-server/internal/api/grpc/server"
	httpRouter "github.com/dtroode/userkeeper-server/internal/api/http/router"
	httpServer "github.com/dtroode/userkeeper-server/internal/api/http/server"
	"github.com/dtroode/userkeeper-server/internal/config"
	"github.com/dtroode/userkeeper-server/internal/logger"
	"github.com/dtroode/userkeeper-server/internal/model"
	"github.com/dtroode/userkeeper-server/internal/repository/postgres"
	"github.com/dtroode/userkeeper-server/internal/server"
	"github.com/dtroode/userkeeper-server/internal/service"
	"github.com/dtroode/userkeeper-server/internal/storage/file"
	minioStorage "github.com/dtroode/userkeeper-server/internal/storage/minio"
	redisStorage "github.com/dtroode/userkeeper-server/internal/storage/redis"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	gin.SetMode(cfg.HTTP.GinMode)

	snapshotter, closer, err := newSnapshotter(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", "backend", cfg.Storage.Backend, "error", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	seed := service.SeedFromCount
	if cfg.IDSeedStrategy == config.SeedMax {
		seed = service.SeedFromMax
	}

	userService := service.NewUser(snapshotter, seed, logger)
	if err := userService.Load(ctx); err != nil {
		logger.Fatal("failed to load users", "backend", cfg.Storage.Backend, "error", err)
	}

	servers := []model.Server{
		httpServer.NewHTTPServer(httpRouter.New(userService, logger).Register(), cfg.HTTP.Address),
	}
	layers := []model.SecurityLayer{
		server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName),
	}

	var health *grpcHandler.Health
	if cfg.GRPC.HealthEnabled {
		health = grpcHandler.NewHealth(userService)
		s := grpcRouter.New(health, logger).Register()
		servers = append(servers, grpcServer.NewGRPCServer(s, fmt.Sprintf(":%s", cfg.GRPC.HealthPort)))
		layers = append(layers, server.NewPlainListener())
	}

	var wg sync.WaitGroup
	for i, s := range servers {
		wg.Add(1)
		go func(s model.Server, sl model.SecurityLayer) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
			}
		}(s, layers[i])
	}

	if health != nil {
		health.Sync()
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	if health != nil {
		health.Shutdown()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// newSnapshotter builds the storage adapter selected by STORAGE_BACKEND. The
// returned closer is nil when the adapter holds no connection.
func newSnapshotter(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.Snapshotter, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return file.New(cfg.Storage.FilePath, logger), nil, nil

	case config.BackendPostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewUserRepository(db), db, nil

	case config.BackendMinio:
		minioClient, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
			Secure: cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		client, err := minioStorage.NewClient(ctx, minioClient, cfg.Minio.Bucket, cfg.Minio.Object, logger)
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil

	case config.BackendRedis:
		rdb, err := redisStorage.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		return redisStorage.NewClient(rdb, cfg.Redis.Key, logger), rdb, nil
	}

	return nil, nil, fmt.Errorf("%w: %s", model.ErrUnknownBackend, cfg.Storage.Backend)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
