package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"trustbridge-auth/internal/app"
	"trustbridge-auth/internal/config"
	apphttp "trustbridge-auth/internal/http"
	"trustbridge-auth/internal/idgen"
	"trustbridge-auth/internal/repository/sqlite"
	"trustbridge-auth/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, keeping %s", cfg.Log.Level, logger.GetLevel())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	medium, closer, err := buildMedium(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup store: %v", err)
	}
	defer closer.Close()

	ids, err := idgen.New(cfg.Auth.IDGen)
	if err != nil {
		logger.Fatalf("setup id generator: %v", err)
	}
	if cfg.Auth.HashPasswords {
		logger.Info("storing bcrypt password hashes")
	}

	portal := app.New(medium, app.Options{
		DirectoryKey:  cfg.Store.UsersKey,
		SessionKey:    cfg.Store.SessionKey,
		IDs:           ids,
		HashPasswords: cfg.Auth.HashPasswords,
	}, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	apphttp.NewHandler(portal, logger).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func buildMedium(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Medium, io.Closer, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory store, records are lost on exit")
		return storage.NewMemoryMedium(), nopCloser{}, nil

	case config.DriverFile:
		medium, err := storage.NewFileMedium(cfg.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("using record directory %s", cfg.Store.Dir)
		return medium, nopCloser{}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		records := sqlite.NewRecordStore(db)
		if err := records.Init(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("init record store: %w", err)
		}
		logger.Infof("using sqlite database %s", cfg.Store.Path)
		return records, db, nil

	case config.DriverS3:
		medium, err := buildS3Medium(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return medium, nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func buildS3Medium(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Medium, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Medium(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)
}
