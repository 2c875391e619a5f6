package repository

import (
	"context"
	"time"

	"github.com/taskforge/backend/domain"
)

// TaskFilter narrows task listings. UserID is always set by the caller; the
// date bounds are optional and inclusive.
type TaskFilter struct {
	UserID  string
	Status  string
	DueFrom *time.Time
	DueTo   *time.Time
}

// TaskUpdate carries the mutable fields of a partial update. Nil pointers mean
// "leave unchanged".
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *time.Time
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// List returns the owner's tasks matching filter, ordered by due date
	// ascending.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	// Update applies the changes to the row matching both id and userID and
	// returns the updated task, or domain.ErrTaskNotFound when no row matches.
	Update(ctx context.Context, id, userID string, update TaskUpdate) (*domain.Task, error)
	// Delete removes the row matching both id and userID and returns it, or
	// domain.ErrTaskNotFound when no row matches.
	Delete(ctx context.Context, id, userID string) (*domain.Task, error)
	// CountByStatus aggregates the owner's tasks by status within the
	// optional inclusive due-date range.
	CountByStatus(ctx context.Context, userID string, from, to *time.Time) (map[string]int, error)
}
