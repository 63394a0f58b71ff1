// Command invoices-worker answers report requests consumed from AMQP.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/kondetiramya/AccountingTestProject/internal/amqp"
	"github.com/kondetiramya/AccountingTestProject/internal/cache"
	"github.com/kondetiramya/AccountingTestProject/internal/cli"
	applog "github.com/kondetiramya/AccountingTestProject/internal/log"
	"github.com/kondetiramya/AccountingTestProject/internal/services"
	"github.com/kondetiramya/AccountingTestProject/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(applog.ComponentWorker)

	logger.Info("Starting invoices-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for invoices-worker")
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)
	ctx = applog.NewContext(ctx, logger)

	be := cli.InitBackend(ctx, logger, cfg)
	if be.Cleanup != nil {
		defer be.Cleanup()
	}

	// Expired snapshots are swept even when no request arrives.
	if cl, ok := be.Lister.(cache.Cleaner); ok {
		go cache.RunCleanup(ctx, cfg.CacheTTL, cl)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRequestQueue, cfg.AMQPResultQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	reports := services.NewReportService(be.Lister, logger)
	w := worker.NewReportWorker(reports, amqpClient)

	err = amqpClient.ConsumeRequests(ctx, w.HandleMessage)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
