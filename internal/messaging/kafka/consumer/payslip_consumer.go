package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-hrms/internal/events"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type PayslipGenerator interface {
	GeneratePayslip(ctx context.Context, payrollID uuid.UUID) (string, error)
}

// PayslipHandler renders and stores the payslip of every paid payroll record.
func PayslipHandler(generator PayslipGenerator, logger *zap.Logger) HandlerFunc {
	log := logger.Named("kafka.consumer.payslip")

	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.PayrollPaidEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("%w: decode payroll paid event: %v", ErrPoisonMessage, err)
		}

		payrollID, err := uuid.Parse(event.PayrollID)
		if err != nil {
			return fmt.Errorf("%w: invalid payroll id %q", ErrPoisonMessage, event.PayrollID)
		}

		ctx = contextutil.WithRequestID(ctx, event.RequestID)
		url, err := generator.GeneratePayslip(ctx, payrollID)
		if err != nil {
			return err
		}

		log.Info("payslip generated",
			zap.String("request_id", event.RequestID),
			zap.String("payroll_id", event.PayrollID),
			zap.String("url", url),
		)
		return nil
	}
}
