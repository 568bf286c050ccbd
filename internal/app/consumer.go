package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/events"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/messaging/kafka/consumer"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/overtime"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/connection"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/workstatus"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	workStatusRepo := workstatus.NewRepository(gormDB)
	workStatusService := workstatus.NewService(workStatusRepo)
	ledgerRepo := overtime.NewLedgerRepository(gormDB)

	reportReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.ReportSubmittedTopic,
		GroupID:        "pms-work-status",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reportReader.Close()

	overtimeReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.OvertimeCalculatedTopic,
		GroupID:        "pms-overtime-ledger",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer overtimeReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeReportLifecycle(ctx, reportReader, workStatusService, logger)
	go consumer.ConsumeOvertimeCalculated(ctx, overtimeReader, ledgerRepo, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
