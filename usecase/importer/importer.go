package importer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/morning-sprint/backend/domain"
	"github.com/morning-sprint/backend/repository"
	"github.com/morning-sprint/backend/usecase"
)

// LegacyTask is one task record exported from the browser-local prototype.
// Timestamps arrive as the client stored them, so they stay strings until an
// item passes validation.
type LegacyTask struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	UserName    string              `json:"userName"`
	Content     string              `json:"content"`
	Category    domain.TaskCategory `json:"category"`
	Completed   bool                `json:"completed"`
	CompletedAt string              `json:"completedAt,omitempty"`
	IsShared    bool                `json:"isShared"`
	CreatedAt   string              `json:"createdAt"`
	Likes       []string            `json:"likes,omitempty"`
}

type LegacyComment struct {
	ID           string `json:"id"`
	FeedbackID   string `json:"feedbackId"`
	FromUserID   string `json:"fromUserId"`
	FromUserName string `json:"fromUserName"`
	Content      string `json:"content"`
	CreatedAt    string `json:"createdAt"`
}

type LegacyFeedback struct {
	ID           string          `json:"id"`
	ToUserID     string          `json:"toUserId"`
	FromUserID   string          `json:"fromUserId"`
	FromUserName string          `json:"fromUserName"`
	Content      string          `json:"content"`
	CreatedAt    string          `json:"createdAt"`
	Comments     []LegacyComment `json:"comments,omitempty"`
}

// Batch is the full legacy-import request body.
type Batch struct {
	Tasks     []LegacyTask     `json:"tasks"`
	Feedbacks []LegacyFeedback `json:"feedbacks"`
}

type UseCase struct {
	tasks     repository.TaskRepository
	likes     repository.LikeRepository
	feedbacks repository.FeedbackRepository
	journal   usecase.ImportJournal
	logger    *zap.Logger
}

func New(tasks repository.TaskRepository, likes repository.LikeRepository, feedbacks repository.FeedbackRepository, journal usecase.ImportJournal, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:     tasks,
		likes:     likes,
		feedbacks: feedbacks,
		journal:   journal,
		logger:    logger,
	}
}

// Run migrates a legacy batch on behalf of userID. Ownership is enforced
// server-side: items whose embedded identity differs from the caller are
// dropped without error, and a malformed item only excludes itself. Every
// write is an upsert on a legacy-id key, so re-running the same batch never
// duplicates rows.
func (uc *UseCase) Run(ctx context.Context, userID string, batch Batch) (*domain.ImportSummary, error) {
	summary := &domain.ImportSummary{
		OK:        true,
		Tasks:     domain.ImportCounts{Requested: len(batch.Tasks)},
		Feedbacks: domain.ImportCounts{Requested: len(batch.Feedbacks)},
	}

	// Tasks owned by the caller.
	var myTasks []LegacyTask
	var taskRows []domain.Task
	for _, item := range batch.Tasks {
		row, ok := uc.reconcileTask(userID, item)
		if !ok {
			continue
		}
		myTasks = append(myTasks, item)
		taskRows = append(taskRows, row)
	}

	taskIDs := map[string]string{}
	if len(taskRows) > 0 {
		var err error
		taskIDs, err = uc.tasks.UpsertLegacy(ctx, taskRows)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "task import failed", err)
		}
	}
	summary.Tasks.Migrated = len(taskRows)

	// Likes: only the caller's own likes on their migrated tasks.
	var likeRows []domain.TaskLike
	for _, item := range myTasks {
		if !contains(item.Likes, userID) {
			continue
		}
		newID, ok := taskIDs[item.ID]
		if !ok {
			continue
		}
		likeRows = append(likeRows, domain.TaskLike{TaskID: newID, UserID: userID})
	}
	if len(likeRows) > 0 {
		if err := uc.likes.UpsertMany(ctx, likeRows); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "like import failed", err)
		}
	}
	summary.Likes.Migrated = len(likeRows)

	// Feedbacks authored by the caller.
	var myFeedbacks []LegacyFeedback
	var feedbackRows []domain.Feedback
	for _, item := range batch.Feedbacks {
		row, ok := uc.reconcileFeedback(userID, item)
		if !ok {
			continue
		}
		myFeedbacks = append(myFeedbacks, item)
		feedbackRows = append(feedbackRows, row)
	}

	feedbackIDs := map[string]string{}
	if len(feedbackRows) > 0 {
		var err error
		feedbackIDs, err = uc.feedbacks.UpsertLegacy(ctx, feedbackRows)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "feedback import failed", err)
		}
	}
	summary.Feedbacks.Migrated = len(feedbackRows)

	// Comments the caller wrote, only under feedbacks migrated in this batch.
	var commentRows []domain.FeedbackComment
	for _, fb := range myFeedbacks {
		for _, item := range fb.Comments {
			row, ok := uc.reconcileComment(userID, item, feedbackIDs)
			if !ok {
				continue
			}
			commentRows = append(commentRows, row)
		}
	}
	if len(commentRows) > 0 {
		migrated, err := uc.feedbacks.UpsertLegacyComments(ctx, commentRows)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "comment import failed", err)
		}
		summary.Comments.Migrated = migrated
	}

	uc.journalReceipt(ctx, userID, *summary)
	return summary, nil
}

// History returns the caller's past import receipts, newest first.
func (uc *UseCase) History(ctx context.Context, userID string) ([]domain.ImportReceipt, error) {
	if uc.journal == nil {
		return []domain.ImportReceipt{}, nil
	}
	receipts, err := uc.journal.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "journal read failed", err)
	}
	if receipts == nil {
		receipts = []domain.ImportReceipt{}
	}
	return receipts, nil
}

func (uc *UseCase) reconcileTask(userID string, item LegacyTask) (domain.Task, bool) {
	if item.UserID != userID {
		return domain.Task{}, false
	}
	content := strings.TrimSpace(item.Content)
	if item.ID == "" || content == "" || strings.TrimSpace(item.UserName) == "" || !domain.ValidCategory(item.Category) {
		return domain.Task{}, false
	}
	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		return domain.Task{}, false
	}

	legacyID := item.ID
	row := domain.Task{
		UserID:    userID,
		UserName:  strings.TrimSpace(item.UserName),
		Content:   content,
		Category:  item.Category,
		Completed: item.Completed,
		IsShared:  item.IsShared,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		LegacyID:  &legacyID,
	}
	if item.Completed {
		completedAt := createdAt
		if parsed, err := time.Parse(time.RFC3339, item.CompletedAt); err == nil {
			completedAt = parsed
		}
		row.CompletedAt = &completedAt
	}
	if item.IsShared {
		sharedAt := createdAt
		row.SharedAt = &sharedAt
	}
	return row, true
}

func (uc *UseCase) reconcileFeedback(userID string, item LegacyFeedback) (domain.Feedback, bool) {
	if item.FromUserID != userID {
		return domain.Feedback{}, false
	}
	content := strings.TrimSpace(item.Content)
	if item.ID == "" || content == "" || item.ToUserID == "" || strings.TrimSpace(item.FromUserName) == "" {
		return domain.Feedback{}, false
	}
	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		return domain.Feedback{}, false
	}

	legacyID := item.ID
	return domain.Feedback{
		ToUserID:     item.ToUserID,
		FromUserID:   userID,
		FromUserName: strings.TrimSpace(item.FromUserName),
		Content:      content,
		CreatedAt:    createdAt,
		LegacyID:     &legacyID,
	}, true
}

func (uc *UseCase) reconcileComment(userID string, item LegacyComment, feedbackIDs map[string]string) (domain.FeedbackComment, bool) {
	if item.FromUserID != userID {
		return domain.FeedbackComment{}, false
	}
	newFeedbackID, ok := feedbackIDs[item.FeedbackID]
	if !ok {
		return domain.FeedbackComment{}, false
	}
	content := strings.TrimSpace(item.Content)
	if item.ID == "" || content == "" || strings.TrimSpace(item.FromUserName) == "" {
		return domain.FeedbackComment{}, false
	}
	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		return domain.FeedbackComment{}, false
	}

	legacyID := item.ID
	return domain.FeedbackComment{
		FeedbackID:   newFeedbackID,
		FromUserID:   userID,
		FromUserName: strings.TrimSpace(item.FromUserName),
		Content:      content,
		CreatedAt:    createdAt,
		LegacyID:     &legacyID,
	}, true
}

// journalReceipt records the run locally. The import itself already succeeded,
// so a journal failure is logged rather than surfaced.
func (uc *UseCase) journalReceipt(ctx context.Context, userID string, summary domain.ImportSummary) {
	if uc.journal == nil {
		return
	}
	receipt := domain.ImportReceipt{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		Summary:   summary,
	}
	if err := uc.journal.Append(ctx, receipt); err != nil {
		uc.logger.Warn("failed to journal import receipt", zap.Error(err))
	}
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
