package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/morning-sprint/backend/domain"
	"github.com/morning-sprint/backend/repository"
)

const taskColumns = "id, user_id, user_name, content, category, completed, completed_at, is_shared, shared_at, created_at, updated_at, legacy_id"

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO morning_tasks (id, user_id, user_name, content, category)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.UserName,
		task.Content,
		string(task.Category),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Patch(ctx context.Context, userID, taskID string, patch repository.TaskPatch, now time.Time) (*domain.Task, error) {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{taskID, userID}

	if patch.Content != nil {
		args = append(args, *patch.Content)
		set = append(set, fmt.Sprintf("content = $%d", len(args)))
	}
	if patch.Category != nil {
		args = append(args, string(*patch.Category))
		set = append(set, fmt.Sprintf("category = $%d", len(args)))
	}
	if patch.Completed != nil {
		args = append(args, *patch.Completed)
		set = append(set, fmt.Sprintf("completed = $%d", len(args)))
		// completed_at moves together with completed
		if *patch.Completed {
			args = append(args, now)
			set = append(set, fmt.Sprintf("completed_at = $%d", len(args)))
		} else {
			set = append(set, "completed_at = NULL")
		}
	}

	query := fmt.Sprintf(`
	UPDATE morning_tasks
	SET %s
	WHERE id = $1 AND user_id = $2
	RETURNING %s
	`, strings.Join(set, ", "), taskColumns)

	row := r.pool.QueryRow(ctx, query, args...)
	return scanTask(row)
}

func (r *taskRepository) Delete(ctx context.Context, userID, taskID string) error {
	const query = `DELETE FROM morning_tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, taskID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) ListRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Task, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM morning_tasks
	WHERE user_id = $1
	  AND ((created_at >= $2 AND created_at <= $3)
	    OR (completed_at >= $2 AND completed_at <= $3))
	ORDER BY created_at DESC
	`, taskColumns)
	return r.queryTasks(ctx, query, userID, start, end)
}

func (r *taskRepository) ListCreatedBetween(ctx context.Context, userID string, start, end time.Time) ([]domain.Task, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM morning_tasks
	WHERE ($1 = '' OR user_id = $1)
	  AND created_at >= $2 AND created_at <= $3
	ORDER BY created_at ASC
	`, taskColumns)
	return r.queryTasks(ctx, query, userID, start, end)
}

func (r *taskRepository) ListShared(ctx context.Context, start, end time.Time) ([]domain.Task, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM morning_tasks
	WHERE is_shared = TRUE
	  AND created_at >= $1 AND created_at <= $2
	ORDER BY created_at DESC
	`, taskColumns)
	return r.queryTasks(ctx, query, start, end)
}

func (r *taskRepository) ShareRange(ctx context.Context, userID string, start, end, sharedAt time.Time) (int, error) {
	const query = `
	UPDATE morning_tasks
	SET is_shared = TRUE,
		shared_at = $4,
		updated_at = NOW()
	WHERE user_id = $1
	  AND created_at >= $2 AND created_at <= $3
	`
	tag, err := r.pool.Exec(ctx, query, userID, start, end, sharedAt)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *taskRepository) UpsertLegacy(ctx context.Context, tasks []domain.Task) (map[string]string, error) {
	const query = `
	INSERT INTO morning_tasks (id, user_id, user_name, content, category, completed, completed_at, is_shared, shared_at, created_at, updated_at, legacy_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (user_id, legacy_id) DO UPDATE
	SET user_name = EXCLUDED.user_name,
		content = EXCLUDED.content,
		category = EXCLUDED.category,
		completed = EXCLUDED.completed,
		completed_at = EXCLUDED.completed_at,
		is_shared = EXCLUDED.is_shared,
		shared_at = EXCLUDED.shared_at,
		updated_at = NOW()
	RETURNING id
	`

	ids := make(map[string]string, len(tasks))
	for i := range tasks {
		t := tasks[i]
		if t.LegacyID == nil || *t.LegacyID == "" {
			return nil, domain.ErrInvalidPayload
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}

		var completedAt, sharedAt interface{}
		if t.CompletedAt != nil {
			completedAt = *t.CompletedAt
		}
		if t.SharedAt != nil {
			sharedAt = *t.SharedAt
		}

		var id string
		if err := r.pool.QueryRow(ctx, query,
			t.ID,
			t.UserID,
			t.UserName,
			t.Content,
			string(t.Category),
			t.Completed,
			completedAt,
			t.IsShared,
			sharedAt,
			t.CreatedAt,
			t.UpdatedAt,
			*t.LegacyID,
		).Scan(&id); err != nil {
			return nil, err
		}
		ids[*t.LegacyID] = id
	}
	return ids, nil
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var category string

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.UserName,
		&task.Content,
		&category,
		&task.Completed,
		&task.CompletedAt,
		&task.IsShared,
		&task.SharedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.LegacyID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Category = domain.TaskCategory(category)
	return &task, nil
}
