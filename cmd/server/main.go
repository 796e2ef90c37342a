package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/assetcapture/internal/config"
	"github.com/mamadbah2/assetcapture/internal/repository/mongodb"
	"github.com/mamadbah2/assetcapture/internal/repository/sheets"
	"github.com/mamadbah2/assetcapture/internal/scheduler"
	"github.com/mamadbah2/assetcapture/internal/server/handlers"
	"github.com/mamadbah2/assetcapture/internal/server/router"
	capturesvc "github.com/mamadbah2/assetcapture/internal/service/capture"
	enrichmentsvc "github.com/mamadbah2/assetcapture/internal/service/enrichment"
	mediasvc "github.com/mamadbah2/assetcapture/internal/service/media"
	"github.com/mamadbah2/assetcapture/internal/service/notify"
	"github.com/mamadbah2/assetcapture/internal/service/permissions"
	referencesvc "github.com/mamadbah2/assetcapture/internal/service/reference"
	"github.com/mamadbah2/assetcapture/internal/service/scanning"
	"github.com/mamadbah2/assetcapture/internal/service/submission"
	"github.com/mamadbah2/assetcapture/pkg/clients/inventory"
	"github.com/mamadbah2/assetcapture/pkg/device/station"
	"github.com/mamadbah2/assetcapture/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	feed := notify.NewFeed(0, baseLogger.Named("svc.notify"))
	inventoryClient := inventory.NewClient(cfg.Inventory)
	references := referencesvc.NewLoader(inventoryClient, baseLogger.Named("svc.reference"))

	grants := station.NewPermissions(cfg.Device.Grants)
	locator := station.NewFixedLocator(grants, cfg.Device.Latitude, cfg.Device.Longitude)
	picker, err := station.NewInboxPicker(cfg.Device.PhotoInboxDir, cfg.Device.PhotoStoreDir, baseLogger.Named("device.picker"))
	if err != nil {
		baseLogger.Fatal("failed to init photo picker", zap.Error(err))
	}

	var recorders []capturesvc.Recorder
	var historyHandler *handlers.HistoryHandler
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		recorders = append(recorders, mongoRepo)
		historyHandler = handlers.NewHistoryHandler(mongoRepo, baseLogger.Named("handlers.history"))
		baseLogger.Info("submission audit trail enabled")
	} else {
		baseLogger.Warn("mongodb uri missing, submission audit trail disabled")
	}

	if cfg.Sheets.SpreadsheetID != "" {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		recorders = append(recorders, sheets.NewRegister(sheetsRepo))
		baseLogger.Info("asset register sheet enabled")
	}

	session := capturesvc.NewSession(capturesvc.Dependencies{
		Permissions: permissions.NewGate(cfg.Device.Platform, grants, feed, baseLogger.Named("svc.permissions")),
		Scanner:     scanning.NewSession(station.NewCamera(baseLogger.Named("device.camera")), station.NewHaptics(baseLogger.Named("device.haptics")), baseLogger.Named("svc.scanning")),
		Enricher:    enrichmentsvc.NewService(locator, feed, cfg.Device.LocationTimeout, baseLogger.Named("svc.enrichment")),
		Media:       mediasvc.NewAttacher(picker, baseLogger.Named("svc.media")),
		References:  references,
		Submitter:   submission.NewController(inventoryClient, baseLogger.Named("svc.submission")),
		Notifier:    feed,
		Recorders:   recorders,
	}, baseLogger.Named("svc.capture"))
	defer session.Close()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), cfg.Inventory.Timeout)
	result, err := session.Bootstrap(bootCtx)
	bootCancel()
	if err != nil {
		baseLogger.Error("permission bootstrap failed", zap.Error(err))
	} else if !result.Granted {
		baseLogger.Warn("capture capabilities missing", zap.Error(result.Err()))
	}

	captureHandler := handlers.NewCaptureHandler(session, baseLogger.Named("handlers.capture"))
	referenceHandler := handlers.NewReferenceHandler(references, feed, baseLogger.Named("handlers.reference"))
	engine := router.New(captureHandler, referenceHandler, historyHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reference.ReloadSchedule, references, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Inventory.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("session_id", session.ID()))
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
