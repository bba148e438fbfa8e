package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go-hrms/internal/bootstrap"

	kafkago "github.com/segmentio/kafka-go"
)

// AuditTrailHandler writes every domain event it sees to the audit log.
func AuditTrailHandler(audit bootstrap.AuditLogger) HandlerFunc {
	return func(ctx context.Context, msg kafkago.Message) error {
		var payload map[string]any
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			return fmt.Errorf("%w: decode event: %v", ErrPoisonMessage, err)
		}

		eventType := headerValue(msg, "event_type")
		if eventType == "" {
			eventType, _ = payload["event_type"].(string)
		}

		payload["topic"] = msg.Topic
		audit.Log(ctx, bootstrap.AuditLog{
			Action:  strings.ToUpper(eventType),
			Message: "domain event recorded",
			Meta:    payload,
		})
		return nil
	}
}
