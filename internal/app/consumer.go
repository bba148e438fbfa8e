package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-hrms/internal/authz"
	"go-hrms/internal/bootstrap"
	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/messaging/kafka/consumer"
	"go-hrms/internal/payroll"
	"go-hrms/internal/shared/config"
	"go-hrms/internal/shared/connection"
	"go-hrms/internal/shared/storage"

	"go.uber.org/zap"
)

// RunConsumer runs the payslip generator and the audit trail readers.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	payrollService := payroll.NewService(
		gormDB,
		payroll.NewRepository(gormDB),
		kafka.NewOutboxRepository(gormDB, cfg.Kafka.MaxRetries),
		authz.NewEngine(authz.NewRepository(gormDB), logger),
		store,
		cfg.Payroll,
		logger,
	)

	payslipReader := connection.NewKafkaReader(cfg.Kafka, "", events.PayrollPaidTopic)
	defer payslipReader.Close()

	auditReader := connection.NewKafkaReader(cfg.Kafka, cfg.Kafka.ConsumerGroup+"-audit",
		events.EmployeeCreatedTopic,
		events.LeaveApprovedTopic,
		events.PayrollPaidTopic,
	)
	defer auditReader.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.Consume(ctx, payslipReader, "payslip", consumer.PayslipHandler(payrollService, logger), logger)
	}()
	go func() {
		defer wg.Done()
		consumer.Consume(ctx, auditReader, "audit", consumer.AuditTrailHandler(bootstrap.NewStdoutAuditLogger()), logger)
	}()

	<-ctx.Done()
	logger.Info("consumer shutting down")
	wg.Wait()
	return nil
}
