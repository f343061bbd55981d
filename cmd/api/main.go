package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/contribtrack/contribution-tracker/internal/api"
	"github.com/contribtrack/contribution-tracker/internal/core/ports"
	"github.com/contribtrack/contribution-tracker/internal/core/service"
	mongodb "github.com/contribtrack/contribution-tracker/internal/infrastructure/db/mongo"
	redisdb "github.com/contribtrack/contribution-tracker/internal/infrastructure/db/redis"
	"github.com/contribtrack/contribution-tracker/internal/infrastructure/http/handlers"
	"github.com/contribtrack/contribution-tracker/internal/infrastructure/storage"
	"github.com/contribtrack/contribution-tracker/internal/pkg/config"
	"github.com/contribtrack/contribution-tracker/pkg/logger"
	"github.com/contribtrack/contribution-tracker/web"
)

const shutdownTimeout = 10 * time.Second

// @title						Contribution Tracker API
// @version					1.0
// @description				Personal log of contributions (talks, posts, events) with screenshots and CSV export.
// @BasePath					/api
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and the JWT.
func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "contribution-tracker",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	checks := map[string]handlers.Checker{"mongodb": handlers.MongoChecker(db)}

	deps := api.Deps{
		Logger:         log,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustedProxies: cfg.TrustedProxies,
		MaxBodyBytes:   cfg.Upload.MaxBytes + 1<<20,
		Frontend:       web.FS(),
		Metrics:        cfg.MetricsEnabled,
		Checks:         checks,
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		deps.Limiter = redisdb.NewLoginLimiter(rdb, "auth", cfg.Limiter.Limit, cfg.Limiter.Window)
		checks["redis"] = handlers.RedisChecker(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttling enabled")
	}

	var files ports.FileStore
	switch cfg.Upload.Backend {
	case config.StorageS3:
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			return err
		}
		files = s3Store
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("storing uploads in s3")
	default:
		local, err := storage.NewLocalStore(cfg.Upload.Dir)
		if err != nil {
			return err
		}
		files = local
		deps.UploadDir = local.Dir()
		log.Info().Str("dir", local.Dir()).Msg("storing uploads on disk")
	}

	users := mongodb.NewUserRepository(db)
	contributions := mongodb.NewContributionRepository(db)
	tokens := service.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	uploads := service.NewUploadService(files, service.UploadPolicy{
		MaxBytes:    cfg.Upload.MaxBytes,
		AllowedExts: cfg.Upload.AllowedExts,
	}, logger.Component("upload"))

	deps.Tokens = tokens
	deps.Auth = service.NewAuthService(users, tokens, logger.Component("auth"))
	deps.Contributions = service.NewContributionService(contributions, uploads, logger.Component("contributions"))
	deps.Export = service.NewCSVExportService(contributions, logger.Component("export"))

	e := api.NewRouter(deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigs:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
