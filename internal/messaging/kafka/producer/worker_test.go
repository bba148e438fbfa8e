package producer

import (
	"context"
	"errors"
	"testing"

	"go-hrms/internal/messaging/kafka"
	kafkaMock "go-hrms/internal/messaging/kafka/mock"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	failTopic string
	written   []kafkago.Message
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if m.Topic == w.failTopic {
			return errors.New("broker unavailable")
		}
		w.written = append(w.written, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and marks sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{}

		ev := kafka.OutboxEvent{
			ID: "ev-1", AggregateType: "payroll", AggregateID: "p-1",
			EventType: "payroll_paid", Topic: "hr.payroll.paid.v1", Payload: []byte(`{}`),
			RequestID: "req-1",
		}
		repo.EXPECT().ListPending(ctx, batchSize).Return([]kafka.OutboxEvent{ev}, nil)
		repo.EXPECT().MarkSent(ctx, "ev-1").Return(nil)

		err := processPendingEvents(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Len(t, writer.written, 1)
		assert.Equal(t, []byte("p-1"), writer.written[0].Key)
		assert.Equal(t, "event_type", writer.written[0].Headers[0].Key)
	})

	t.Run("failed publish is marked for retry and batch continues", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{failTopic: "bad"}

		repo.EXPECT().ListPending(ctx, batchSize).Return([]kafka.OutboxEvent{
			{ID: "ev-1", Topic: "bad", Payload: []byte(`{}`)},
			{ID: "ev-2", Topic: "good", Payload: []byte(`{}`)},
		}, nil)
		repo.EXPECT().MarkFailed(ctx, "ev-1", "broker unavailable").Return(nil)
		repo.EXPECT().MarkSent(ctx, "ev-2").Return(nil)

		assert.NoError(t, processPendingEvents(ctx, repo, writer, zap.NewNop()))
		assert.Len(t, writer.written, 1)
	})

	t.Run("list error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)

		repo.EXPECT().ListPending(ctx, batchSize).Return(nil, errors.New("db down"))

		assert.Error(t, processPendingEvents(ctx, repo, &fakeWriter{}, zap.NewNop()))
	})
}
