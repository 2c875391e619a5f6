package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, user_id, title, description, status, due_date, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, status, due_date)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.DueDate,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE user_id = $1
	  AND ($2 = '' OR status = $2)
	  AND ($3::timestamptz IS NULL OR due_date >= $3)
	  AND ($4::timestamptz IS NULL OR due_date <= $4)
	ORDER BY due_date ASC
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, filter.Status, filter.DueFrom, filter.DueTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, id, userID string, update repository.TaskUpdate) (*domain.Task, error) {
	const query = `
	UPDATE tasks
	SET title = COALESCE($3, title),
		description = COALESCE($4, description),
		status = COALESCE($5, status),
		due_date = COALESCE($6, due_date),
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING ` + taskColumns + `
	`
	row := r.pool.QueryRow(ctx, query, id, userID,
		update.Title,
		update.Description,
		update.Status,
		update.DueDate,
	)
	return scanTask(row)
}

func (r *taskRepository) Delete(ctx context.Context, id, userID string) (*domain.Task, error) {
	const query = `
	DELETE FROM tasks
	WHERE id = $1 AND user_id = $2
	RETURNING ` + taskColumns + `
	`
	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanTask(row)
}

func (r *taskRepository) CountByStatus(ctx context.Context, userID string, from, to *time.Time) (map[string]int, error) {
	const query = `
	SELECT status, COUNT(*)
	FROM tasks
	WHERE user_id = $1
	  AND ($2::timestamptz IS NULL OR due_date >= $2)
	  AND ($3::timestamptz IS NULL OR due_date <= $3)
	GROUP BY status
	`
	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}
