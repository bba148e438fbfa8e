package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records operational and domain events outside the request log.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
