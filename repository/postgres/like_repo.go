package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/morning-sprint/backend/domain"
	"github.com/morning-sprint/backend/repository"
)

type likeRepository struct {
	pool *pgxpool.Pool
}

// NewLikeRepository returns a Postgres-backed implementation of LikeRepository.
func NewLikeRepository(pool *pgxpool.Pool) repository.LikeRepository {
	return &likeRepository{pool: pool}
}

func (r *likeRepository) Exists(ctx context.Context, taskID, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM morning_task_likes WHERE task_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, taskID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *likeRepository) Add(ctx context.Context, taskID, userID string) error {
	const query = `
	INSERT INTO morning_task_likes (task_id, user_id)
	VALUES ($1, $2)
	ON CONFLICT (task_id, user_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, taskID, userID)
	return err
}

func (r *likeRepository) Remove(ctx context.Context, taskID, userID string) error {
	const query = `DELETE FROM morning_task_likes WHERE task_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, taskID, userID)
	return err
}

func (r *likeRepository) Counts(ctx context.Context, taskIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(taskIDs))
	if len(taskIDs) == 0 {
		return counts, nil
	}

	const query = `
	SELECT task_id, COUNT(*)
	FROM morning_task_likes
	WHERE task_id = ANY($1)
	GROUP BY task_id
	`
	rows, err := r.pool.Query(ctx, query, taskIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID string
		var count int
		if err := rows.Scan(&taskID, &count); err != nil {
			return nil, err
		}
		counts[taskID] = count
	}
	return counts, rows.Err()
}

func (r *likeRepository) LikedBy(ctx context.Context, userID string, taskIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool, len(taskIDs))
	if len(taskIDs) == 0 {
		return liked, nil
	}

	const query = `
	SELECT task_id
	FROM morning_task_likes
	WHERE user_id = $1 AND task_id = ANY($2)
	`
	rows, err := r.pool.Query(ctx, query, userID, taskIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID string
		if err := rows.Scan(&taskID); err != nil {
			return nil, err
		}
		liked[taskID] = true
	}
	return liked, rows.Err()
}

func (r *likeRepository) UpsertMany(ctx context.Context, likes []domain.TaskLike) error {
	const query = `
	INSERT INTO morning_task_likes (task_id, user_id)
	VALUES ($1, $2)
	ON CONFLICT (task_id, user_id) DO NOTHING
	`
	for _, like := range likes {
		if _, err := r.pool.Exec(ctx, query, like.TaskID, like.UserID); err != nil {
			return err
		}
	}
	return nil
}
