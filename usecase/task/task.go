package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/morning-sprint/backend/domain"
	"github.com/morning-sprint/backend/repository"
	"github.com/morning-sprint/backend/usecase"
)

const (
	maxContentLen  = 500
	maxUserNameLen = 80

	// Range caps per endpoint. Sharing covers at most today and yesterday.
	MaxRangeDays = 14
	MaxShareDays = 2
)

type UseCase struct {
	tasks  repository.TaskRepository
	likes  repository.LikeRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, likes repository.LikeRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		likes:  likes,
		logger: logger,
	}
}

// CreateTask validates and stores a new task owned by userID.
func (uc *UseCase) CreateTask(ctx context.Context, userID, userName, content string, category domain.TaskCategory) (*domain.Task, error) {
	content = strings.TrimSpace(content)
	userName = strings.TrimSpace(userName)

	if content == "" || len(content) > maxContentLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "content must be 1-500 characters")
	}
	if userName == "" || len(userName) > maxUserNameLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "userName must be 1-80 characters")
	}
	if !domain.ValidCategory(category) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown category")
	}

	return uc.tasks.Create(ctx, &domain.Task{
		UserID:   userID,
		UserName: userName,
		Content:  content,
		Category: category,
	})
}

// PatchTask applies a partial update to one of the caller's tasks. Toggling
// completion stamps or clears the completion timestamp together with the flag.
func (uc *UseCase) PatchTask(ctx context.Context, userID, taskID string, patch repository.TaskPatch) (*domain.Task, error) {
	if taskID == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "missing task id")
	}
	if patch.IsEmpty() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "empty patch")
	}
	if patch.Content != nil {
		trimmed := strings.TrimSpace(*patch.Content)
		if trimmed == "" || len(trimmed) > maxContentLen {
			return nil, domain.NewError(domain.ErrCodeInvalid, "content must be 1-500 characters")
		}
		patch.Content = &trimmed
	}
	if patch.Category != nil && !domain.ValidCategory(*patch.Category) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown category")
	}

	return uc.tasks.Patch(ctx, userID, taskID, patch, time.Now())
}

func (uc *UseCase) DeleteTask(ctx context.Context, userID, taskID string) error {
	if taskID == "" {
		return domain.NewError(domain.ErrCodeInvalid, "missing task id")
	}
	return uc.tasks.Delete(ctx, userID, taskID)
}

// ListRange returns the caller's tasks created or completed within the range.
func (uc *UseCase) ListRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Task, error) {
	if err := usecase.ValidateRange(start, end, MaxRangeDays); err != nil {
		return nil, err
	}
	tasks, err := uc.tasks.ListRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// ShareRange marks the caller's tasks in the range as shared and returns how
// many were updated. Sharing never reverts.
func (uc *UseCase) ShareRange(ctx context.Context, userID string, start, end time.Time) (int, error) {
	if err := usecase.ValidateRange(start, end, MaxShareDays); err != nil {
		return 0, err
	}
	return uc.tasks.ShareRange(ctx, userID, start, end, time.Now())
}

// SharedDashboard returns every user's shared tasks in the range, decorated
// with like counts and whether the viewer liked each one.
func (uc *UseCase) SharedDashboard(ctx context.Context, viewerID string, start, end time.Time) ([]domain.TaskWithLikes, error) {
	if err := usecase.ValidateRange(start, end, MaxRangeDays); err != nil {
		return nil, err
	}

	tasks, err := uc.tasks.ListShared(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return []domain.TaskWithLikes{}, nil
	}

	taskIDs := make([]string, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}

	counts, err := uc.likes.Counts(ctx, taskIDs)
	if err != nil {
		return nil, err
	}
	likedByMe, err := uc.likes.LikedBy(ctx, viewerID, taskIDs)
	if err != nil {
		return nil, err
	}

	out := make([]domain.TaskWithLikes, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, domain.TaskWithLikes{
			Task:       t,
			LikesCount: counts[t.ID],
			LikedByMe:  likedByMe[t.ID],
		})
	}
	return out, nil
}

// ToggleLike flips the viewer's like on a shared task and returns the new
// state together with the updated like count.
func (uc *UseCase) ToggleLike(ctx context.Context, userID, taskID string) (bool, int, error) {
	if taskID == "" {
		return false, 0, domain.NewError(domain.ErrCodeInvalid, "missing task id")
	}

	liked, err := uc.likes.Exists(ctx, taskID, userID)
	if err != nil {
		return false, 0, err
	}

	if liked {
		err = uc.likes.Remove(ctx, taskID, userID)
	} else {
		err = uc.likes.Add(ctx, taskID, userID)
	}
	if err != nil {
		return false, 0, err
	}

	counts, err := uc.likes.Counts(ctx, []string{taskID})
	if err != nil {
		return false, 0, err
	}
	return !liked, counts[taskID], nil
}
