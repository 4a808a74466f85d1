package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/coop/internal/config"
	"github.com/mamadbah2/coop/internal/repository/mongodb"
	"github.com/mamadbah2/coop/internal/repository/sheets"
	"github.com/mamadbah2/coop/internal/scheduler"
	"github.com/mamadbah2/coop/internal/server/handlers"
	"github.com/mamadbah2/coop/internal/server/router"
	gradingsvc "github.com/mamadbah2/coop/internal/service/grading"
	ledgersvc "github.com/mamadbah2/coop/internal/service/ledger"
	notifysvc "github.com/mamadbah2/coop/internal/service/notify"
	registrysvc "github.com/mamadbah2/coop/internal/service/registry"
	reportingsvc "github.com/mamadbah2/coop/internal/service/reporting"
	settlementsvc "github.com/mamadbah2/coop/internal/service/settlement"
	"github.com/mamadbah2/coop/pkg/clients/sms"
	"github.com/mamadbah2/coop/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.New(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var exporter sheets.Exporter
	if cfg.Sheets.Enabled() {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("day-book sheets export enabled")
	} else {
		baseLogger.Warn("day-book spreadsheet not configured, sheets export disabled")
	}

	var smsClient sms.Client
	if cfg.SMS.Enabled() {
		smsClient = sms.NewClient(cfg.SMS)
		baseLogger.Info("sms gateway enabled")
	} else {
		baseLogger.Warn("sms api key missing, farmer notifications disabled")
	}

	registrySvc := registrysvc.NewService(store, baseLogger.Named("svc.registry"))
	gradingSvc := gradingsvc.NewService(store, baseLogger.Named("svc.grading"))
	ledgerSvc := ledgersvc.NewService(store, baseLogger.Named("svc.ledger"))
	reportingSvc := reportingsvc.NewService(store, baseLogger.Named("svc.reporting"))

	var notifier settlementsvc.Notifier
	if smsClient != nil || exporter != nil {
		notifier = notifysvc.NewService(smsClient, exporter, baseLogger.Named("svc.notify"))
	}
	settlementSvc := settlementsvc.NewService(store, gradingSvc, ledgerSvc, notifier, baseLogger.Named("svc.settlement"))

	engine := router.New(router.Handlers{
		Farmers:     handlers.NewFarmerHandler(registrySvc, baseLogger.Named("handlers.farmers")),
		Ledger:      handlers.NewLedgerHandler(ledgerSvc, baseLogger.Named("handlers.ledger")),
		Samples:     handlers.NewSampleHandler(gradingSvc, baseLogger.Named("handlers.samples")),
		Settlements: handlers.NewSettlementHandler(settlementSvc, baseLogger.Named("handlers.settlements")),
		Dashboard:   handlers.NewDashboardHandler(reportingSvc, baseLogger.Named("handlers.dashboard")),
	}, baseLogger.Named("router"))

	sched := scheduler.New(*cfg, reportingSvc, exporter, smsClient, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
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
