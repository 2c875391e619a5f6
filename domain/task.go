package domain

import "time"

// Task statuses. The set is closed; anything else is rejected at validation.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In_Progress"
	StatusCompleted  = "Completed"
)

// AllowedStatuses lists the valid task statuses in a stable order.
var AllowedStatuses = []string{StatusPending, StatusInProgress, StatusCompleted}

// ValidStatus reports whether s is one of the allowed task statuses.
func ValidStatus(s string) bool {
	for _, allowed := range AllowedStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}

// Task represents a user-owned work item. Every read and write of a task is
// scoped by (ID, UserID); the owner is immutable after creation.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatusCounts is the fixed-shape per-status aggregation result. All three
// keys are always serialized, zero-filled when the aggregate has no rows.
type StatusCounts struct {
	Pending    int `json:"Pending"`
	InProgress int `json:"In_Progress"`
	Completed  int `json:"Completed"`
}

// FillFromMap copies counts from a status-keyed map, leaving absent statuses
// at zero.
func (c *StatusCounts) FillFromMap(m map[string]int) {
	c.Pending = m[StatusPending]
	c.InProgress = m[StatusInProgress]
	c.Completed = m[StatusCompleted]
}

// Total returns the sum across all statuses.
func (c StatusCounts) Total() int {
	return c.Pending + c.InProgress + c.Completed
}
