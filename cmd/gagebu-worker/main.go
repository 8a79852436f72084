package main

import (
	"context"
	"errors"
	"os"
	"time"

	"gagebu/internal/amqp"
	"gagebu/internal/cli"
	"gagebu/internal/core"
	"gagebu/internal/ledger/webapp"
	"gagebu/internal/log"
	"gagebu/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting gagebu-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	normalizer := core.NewDayNormalizer(cfg.Timezone)

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath, normalizer)
	defer sqliteRepo.Close()

	// The worker replays local rows against the remote web app; without the
	// URL there is nothing to sync to.
	remote, err := webapp.New(cfg.WebAppURL, cfg.WebAppTimeout, normalizer)
	if err != nil {
		logger.Error("Failed to initialize web app client", log.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncWorker := worker.NewSyncWorker(sqliteRepo, remote, cfg.SyncBatchSize)

	// Drain rows left pending across worker downtime before consuming.
	logger.Info("Performing startup sync check")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", log.FieldError, err)
		// Keep running; the periodic sweep retries these rows.
	}

	go func() {
		handler := func(msg *amqp.TransactionSyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		}
		if err := amqpClient.ConsumeTransactionSync(ctx, handler); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", log.FieldError, err)
			}
			cancel()
		}
	}()

	// Periodic sweep for rows whose queue message was lost.
	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := syncWorker.ProcessPendingTransactions(ctx); err != nil {
					logger.Error("Periodic sync failed", log.FieldError, err)
				}
			}
		}
	}()

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, cancel)

	select {
	case <-shutdownCtx.Done():
		<-done
	case <-ctx.Done():
		logger.Info("Consumer stopped, shutting down")
	}
	logger.Info("Worker stopped")
}
