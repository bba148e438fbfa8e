package consumer

import (
	"context"
	"errors"
	"testing"

	"go-hrms/internal/bootstrap"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// scriptedReader serves msgs once, then blocks until ctx is cancelled.
type scriptedReader struct {
	msgs      []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *scriptedReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type fakeGenerator struct {
	ids []uuid.UUID
	err error
}

func (g *fakeGenerator) GeneratePayslip(ctx context.Context, payrollID uuid.UUID) (string, error) {
	g.ids = append(g.ids, payrollID)
	return "https://files.example.com/" + payrollID.String() + ".pdf", g.err
}

type recordingAudit struct {
	entries []bootstrap.AuditLog
}

func (a *recordingAudit) Log(ctx context.Context, entry bootstrap.AuditLog) {
	a.entries = append(a.entries, entry)
}

func TestConsume_PayslipHandler(t *testing.T) {
	payrollID := uuid.New()

	t.Run("commits handled and poison messages only", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &scriptedReader{cancel: cancel, msgs: []kafkago.Message{
			{Offset: 1, Value: []byte(`{"payroll_id":"` + payrollID.String() + `"}`)},
			{Offset: 2, Value: []byte(`not-json`)},
			{Offset: 3, Value: []byte(`{"payroll_id":"nope"}`)},
		}}
		gen := &fakeGenerator{}

		Consume(ctx, reader, "payslip", PayslipHandler(gen, zap.NewNop()), zap.NewNop())

		assert.Equal(t, []uuid.UUID{payrollID}, gen.ids)
		assert.Equal(t, []int64{1, 2, 3}, reader.committed)
	})

	t.Run("transient failure is not committed", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &scriptedReader{cancel: cancel, msgs: []kafkago.Message{
			{Offset: 7, Value: []byte(`{"payroll_id":"` + payrollID.String() + `"}`)},
		}}
		gen := &fakeGenerator{err: errors.New("s3 timeout")}

		Consume(ctx, reader, "payslip", PayslipHandler(gen, zap.NewNop()), zap.NewNop())

		assert.Empty(t, reader.committed)
	})
}

func TestAuditTrailHandler(t *testing.T) {
	audit := &recordingAudit{}
	handle := AuditTrailHandler(audit)

	err := handle(context.Background(), kafkago.Message{
		Topic:   "hr.leave.approved.v1",
		Value:   []byte(`{"event_type":"leave_approved","leave_id":"l-1"}`),
		Headers: []kafkago.Header{{Key: "event_type", Value: []byte("leave_approved")}},
	})

	assert.NoError(t, err)
	assert.Len(t, audit.entries, 1)
	assert.Equal(t, "LEAVE_APPROVED", audit.entries[0].Action)
	assert.Equal(t, "l-1", audit.entries[0].Meta["leave_id"])
	assert.Equal(t, "hr.leave.approved.v1", audit.entries[0].Meta["topic"])

	assert.ErrorIs(t, handle(context.Background(), kafkago.Message{Value: []byte("x")}), ErrPoisonMessage)
}
