package usecase

import "context"

// Audit actions recorded after successful task mutations.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// AuditRecorder persists a trail of task mutations. Implementations must not
// influence request outcomes; failures are logged and swallowed by callers.
type AuditRecorder interface {
	RecordTaskAction(ctx context.Context, action, taskID, userID string) error
}
