package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/partsdash/internal/config"
	"github.com/mamadbah2/partsdash/internal/provider"
	"github.com/mamadbah2/partsdash/internal/repository/memory"
	"github.com/mamadbah2/partsdash/internal/repository/mongodb"
	"github.com/mamadbah2/partsdash/internal/repository/sheets"
	"github.com/mamadbah2/partsdash/internal/scheduler"
	"github.com/mamadbah2/partsdash/internal/server/handlers"
	"github.com/mamadbah2/partsdash/internal/server/router"
	"github.com/mamadbah2/partsdash/internal/service/dashboard"
	"github.com/mamadbah2/partsdash/internal/service/generator"
	"github.com/mamadbah2/partsdash/pkg/clients/remote"
	"github.com/mamadbah2/partsdash/pkg/logger"
)

type snapshotArchive interface {
	scheduler.SnapshotWriter
	handlers.SnapshotReader
}

func main() {
	cfg, err := config.Load(os.Getenv("APP_ENV_FILE"))
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	gen := generator.New(generator.Options{
		Products:       cfg.Sample.Products,
		PurchaseOrders: cfg.Sample.PurchaseOrders,
		Seed:           cfg.Sample.Seed,
	}, baseLogger.Named("svc.generator"))

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = repo
	} else {
		baseLogger.Info("google sheets source disabled")
	}

	var archive snapshotArchive = memory.NewSnapshotStore(90)
	if cfg.MongoDB.URI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, snapshots kept in memory only")
	}

	remoteClient := remote.NewClient(cfg.Remote.Timeout, cfg.Server.MaxUploadBytes)
	dataProvider := provider.New(gen, sheetsRepo, remoteClient, baseLogger.Named("provider"))
	dashboardSvc := dashboard.NewService(baseLogger.Named("svc.dashboard"))

	dashboardHandler := handlers.NewDashboardHandler(dataProvider, dashboardSvc, archive, cfg.Server.MaxUploadBytes, baseLogger.Named("handlers.dashboard"))
	engine := router.New(dashboardHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Snapshot, dataProvider, dashboardSvc, archive, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to schedule dashboard snapshots", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
