package repository

import (
	"context"
	"time"

	"github.com/morning-sprint/backend/domain"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error)
	// ListForUsers returns feedbacks addressed to any of the given users inside
	// the closed interval, newest first, without comments attached.
	ListForUsers(ctx context.Context, toUserIDs []string, start, end time.Time) ([]domain.Feedback, error)
	// ListComments returns comments of the given feedbacks, oldest first.
	ListComments(ctx context.Context, feedbackIDs []string) ([]domain.FeedbackComment, error)
	AddComment(ctx context.Context, comment *domain.FeedbackComment) error
	// UpsertLegacy is idempotent on legacy_id and returns the legacy id to row
	// id mapping.
	UpsertLegacy(ctx context.Context, feedbacks []domain.Feedback) (map[string]string, error)
	// UpsertLegacyComments is idempotent on legacy_id.
	UpsertLegacyComments(ctx context.Context, comments []domain.FeedbackComment) (int, error)
}
