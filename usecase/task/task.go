package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	appLogger "github.com/taskforge/backend/pkg/logger"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

const (
	titleMinLen = 3
	titleMaxLen = 100
)

// CountCache caches the unfiltered per-user aggregation. A nil cache is valid
// and disables caching.
type CountCache interface {
	Get(ctx context.Context, userID string) (*domain.StatusCounts, error)
	Set(ctx context.Context, userID string, counts domain.StatusCounts) error
	Invalidate(ctx context.Context, userID string) error
}

// UseCase validates task input, builds store filters, and keeps every
// operation scoped to the calling owner.
type UseCase struct {
	tasks  repository.TaskRepository
	counts CountCache
	audit  usecase.AuditRecorder
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.TaskRepository, counts CountCache, audit usecase.AuditRecorder, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		counts: counts,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}
}

// CreateInput carries the raw client payload for task creation. Dates arrive
// as strings so validation owns their interpretation.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
}

func (uc *UseCase) Create(ctx context.Context, userID string, input CreateInput) (*domain.Task, error) {
	if strings.TrimSpace(input.Title) == "" || input.DueDate == "" {
		return nil, domain.NewError(domain.ErrCodeMissingField, "title and due date are required fields")
	}

	title := strings.TrimSpace(input.Title)
	if len(title) < titleMinLen || len(title) > titleMaxLen {
		return nil, domain.NewErrorf(domain.ErrCodeValidation, "title must be between %d and %d characters", titleMinLen, titleMaxLen)
	}

	due, ok := parseDueDate(input.DueDate)
	if !ok {
		return nil, domain.NewError(domain.ErrCodeInvalidDate, "invalid dueDate format, expected YYYY-MM-DD")
	}
	if !due.After(uc.now()) {
		return nil, domain.NewError(domain.ErrCodePastDueDate, "due date must be a future date")
	}

	status := input.Status
	if status == "" {
		status = domain.StatusPending
	} else if !domain.ValidStatus(status) {
		return nil, invalidStatusError()
	}

	task := &domain.Task{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		DueDate:     due,
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	uc.afterMutation(ctx, usecase.ActionCreate, created.ID, userID)
	return created, nil
}

// ListInput carries the raw query parameters for task listing.
type ListInput struct {
	Status    string
	DueDate   string
	StartDate string
	EndDate   string
}

// List returns the owner's tasks sorted ascending by due date. When DueDate is
// present it wins over StartDate/EndDate and restricts to that whole calendar
// day.
func (uc *UseCase) List(ctx context.Context, userID string, input ListInput) ([]domain.Task, error) {
	if input.Status != "" && !domain.ValidStatus(input.Status) {
		return nil, invalidStatusError()
	}

	// All date parameters are validated before any filter is applied, so a
	// malformed startDate is rejected even when dueDate would shadow it.
	dates := make(map[string]time.Time)
	for _, p := range []struct{ name, value string }{
		{"dueDate", input.DueDate},
		{"startDate", input.StartDate},
		{"endDate", input.EndDate},
	} {
		if p.value == "" {
			continue
		}
		day, ok := parseStrictDate(p.value)
		if !ok {
			return nil, invalidDateError(p.name)
		}
		dates[p.name] = day
	}

	filter := repository.TaskFilter{
		UserID: userID,
		Status: input.Status,
	}

	if day, ok := dates["dueDate"]; ok {
		// dueDate restricts to the whole calendar day and wins over the
		// range parameters.
		from, to := dayStart(day), dayEnd(day)
		filter.DueFrom = &from
		filter.DueTo = &to
	} else {
		if day, ok := dates["startDate"]; ok {
			from := dayStart(day)
			filter.DueFrom = &from
		}
		if day, ok := dates["endDate"]; ok {
			to := dayEnd(day)
			filter.DueTo = &to
		}
	}

	tasks, err := uc.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		// An empty result still serializes as data: [].
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// UpdateInput carries the partial update payload. Identity and ownership
// fields have no representation here, so client attempts to set them are
// dropped during decoding rather than rejected.
type UpdateInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
}

func (uc *UseCase) Update(ctx context.Context, id, userID string, input UpdateInput) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, invalidIDError()
	}

	update := repository.TaskUpdate{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if len(title) < titleMinLen || len(title) > titleMaxLen {
			return nil, domain.NewErrorf(domain.ErrCodeValidation, "title must be between %d and %d characters", titleMinLen, titleMaxLen)
		}
		update.Title = &title
	}
	if input.Description != nil {
		desc := strings.TrimSpace(*input.Description)
		update.Description = &desc
	}
	if input.DueDate != nil {
		day, ok := parseStrictDate(*input.DueDate)
		if !ok {
			return nil, invalidDateError("dueDate")
		}
		due := dayStart(day)
		if !due.After(uc.now()) {
			return nil, domain.NewError(domain.ErrCodePastDueDate, "due date must be in the future")
		}
		update.DueDate = &due
	}
	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			return nil, invalidStatusError()
		}
		update.Status = input.Status
	}

	updated, err := uc.tasks.Update(ctx, id, userID, update)
	if err != nil {
		return nil, err
	}

	uc.afterMutation(ctx, usecase.ActionUpdate, id, userID)
	return updated, nil
}

// DeleteResult reports what was removed and when.
type DeleteResult struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	DeletedAt time.Time `json:"deletedAt"`
}

func (uc *UseCase) Delete(ctx context.Context, id, userID string) (*DeleteResult, error) {
	// Reject malformed identifiers before touching storage.
	if _, err := uuid.Parse(id); err != nil {
		return nil, invalidIDError()
	}

	deleted, err := uc.tasks.Delete(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	uc.afterMutation(ctx, usecase.ActionDelete, id, userID)
	return &DeleteResult{
		ID:        deleted.ID,
		Title:     deleted.Title,
		DeletedAt: uc.now().UTC(),
	}, nil
}

// CountInput carries the raw count query. Start and End are full RFC 3339
// instants, unlike the calendar-date list filters.
type CountInput struct {
	UserID string
	Start  string
	End    string
}

// CountResult is the fixed-shape aggregation response.
type CountResult struct {
	UserID        string              `json:"userId"`
	FilterApplied CountFilter         `json:"filterApplied"`
	Counts        domain.StatusCounts `json:"counts"`
}

type CountFilter struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

func (uc *UseCase) Count(ctx context.Context, input CountInput) (*CountResult, error) {
	if input.UserID == "" {
		return nil, domain.NewError(domain.ErrCodeMissingField, "user ID is required")
	}

	var start, end *time.Time
	if input.Start != "" {
		parsed, err := time.Parse(time.RFC3339, input.Start)
		if err != nil {
			return nil, domain.NewError(domain.ErrCodeInvalidDate, "invalid start date/time format")
		}
		utc := parsed.UTC()
		start = &utc
	}
	if input.End != "" {
		parsed, err := time.Parse(time.RFC3339, input.End)
		if err != nil {
			return nil, domain.NewError(domain.ErrCodeInvalidDate, "invalid end date/time format")
		}
		utc := parsed.UTC()
		end = &utc
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, domain.NewError(domain.ErrCodeInvalidRange, "start date/time cannot be after end date/time")
	}

	result := &CountResult{
		UserID:        input.UserID,
		FilterApplied: CountFilter{Start: start, End: end},
	}

	logger := appLogger.WithRequestID(ctx, uc.logger)

	unfiltered := start == nil && end == nil
	if unfiltered && uc.counts != nil {
		if cached, err := uc.counts.Get(ctx, input.UserID); err != nil {
			logger.Warn("count cache read failed", zap.Error(err))
		} else if cached != nil {
			result.Counts = *cached
			return result, nil
		}
	}

	byStatus, err := uc.tasks.CountByStatus(ctx, input.UserID, start, end)
	if err != nil {
		return nil, err
	}
	result.Counts.FillFromMap(byStatus)

	if unfiltered && uc.counts != nil {
		if err := uc.counts.Set(ctx, input.UserID, result.Counts); err != nil {
			logger.Warn("count cache write failed", zap.Error(err))
		}
	}

	return result, nil
}

// afterMutation records the audit trail and drops the owner's cached counts.
// Neither outcome affects the request.
func (uc *UseCase) afterMutation(ctx context.Context, action, taskID, userID string) {
	logger := appLogger.WithRequestID(ctx, uc.logger)
	if uc.audit != nil {
		if err := uc.audit.RecordTaskAction(ctx, action, taskID, userID); err != nil {
			logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
		}
	}
	if uc.counts != nil {
		if err := uc.counts.Invalidate(ctx, userID); err != nil {
			logger.Warn("count cache invalidation failed", zap.Error(err))
		}
	}
}

func invalidStatusError() *domain.Error {
	return domain.NewErrorf(domain.ErrCodeInvalidStatus, "invalid status, allowed values: %s", strings.Join(domain.AllowedStatuses, ", "))
}

func invalidDateError(field string) *domain.Error {
	return domain.NewErrorf(domain.ErrCodeInvalidDate, "invalid %s format, expected YYYY-MM-DD", field)
}

func invalidIDError() *domain.Error {
	return domain.NewError(domain.ErrCodeInvalidID, "invalid task ID format")
}
