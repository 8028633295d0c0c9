package main

import (
	"context"
	"os"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/export"
	"fintrack/internal/export/google"
	"fintrack/internal/export/memory"
	"fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig((*config.Config).ValidateWorker)
	logger = logger.WithComponent(log.ComponentWorker)
	logger.Info("Starting fintrack-worker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	var mirror export.TransactionMirror
	if cfg.SheetsEnabled() {
		sheets, err := google.New(context.Background(), google.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			SheetName:          cfg.GoogleSheetName,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
		mirror = sheets
	} else {
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, mirroring ledger events in memory only")
		mirror = memory.New()
	}

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, nil)

	w := worker.NewExportWorker(mirror)
	if err := w.Run(ctx, client, cfg.WorkerStatsInterval); err != nil {
		logger.Error("Export worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	<-done

	s := w.Stats()
	logger.Info("Export worker stopped", "upserted", s.Upserted, "removed", s.Removed, "failed", s.Failed)
}
