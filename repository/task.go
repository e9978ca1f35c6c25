package repository

import (
	"context"
	"time"

	"github.com/morning-sprint/backend/domain"
)

// TaskPatch describes a partial update to an owned task. Nil fields are left
// untouched. Toggling Completed stamps or clears the completion timestamp in
// the same statement.
type TaskPatch struct {
	Content   *string
	Category  *domain.TaskCategory
	Completed *bool
}

func (p TaskPatch) IsEmpty() bool {
	return p.Content == nil && p.Category == nil && p.Completed == nil
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// Patch applies a partial update scoped to the owner; a task that does not
	// exist or belongs to someone else yields domain.ErrTaskNotFound.
	Patch(ctx context.Context, userID, taskID string, patch TaskPatch, now time.Time) (*domain.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
	// ListRange returns the owner's tasks created or completed inside the
	// closed interval, newest first.
	ListRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Task, error)
	// ListCreatedBetween returns tasks created inside the interval. An empty
	// userID spans all owners (leaderboard scan).
	ListCreatedBetween(ctx context.Context, userID string, start, end time.Time) ([]domain.Task, error)
	// ListShared returns every user's shared tasks created inside the interval,
	// newest first.
	ListShared(ctx context.Context, start, end time.Time) ([]domain.Task, error)
	// ShareRange marks the owner's tasks created inside the interval as shared
	// and returns how many rows changed.
	ShareRange(ctx context.Context, userID string, start, end, sharedAt time.Time) (int, error)
	// UpsertLegacy inserts-or-updates imported rows keyed on (user_id,
	// legacy_id) and returns the legacy id to row id mapping.
	UpsertLegacy(ctx context.Context, tasks []domain.Task) (map[string]string, error)
}

type LikeRepository interface {
	Exists(ctx context.Context, taskID, userID string) (bool, error)
	Add(ctx context.Context, taskID, userID string) error
	Remove(ctx context.Context, taskID, userID string) error
	Counts(ctx context.Context, taskIDs []string) (map[string]int, error)
	// LikedBy returns the subset of taskIDs the user has liked.
	LikedBy(ctx context.Context, userID string, taskIDs []string) (map[string]bool, error)
	// UpsertMany is idempotent on (task_id, user_id).
	UpsertMany(ctx context.Context, likes []domain.TaskLike) error
}
