package feedback

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
	maxContentLen  = 1000
	maxUserNameLen = 80
	maxRangeDays   = 14
)

type UseCase struct {
	feedbacks repository.FeedbackRepository
	logger    *zap.Logger
}

func New(feedbacks repository.FeedbackRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		feedbacks: feedbacks,
		logger:    logger,
	}
}

// Create stores a feedback note from the caller to another user.
func (uc *UseCase) Create(ctx context.Context, fromUserID, toUserID, fromUserName, content string) (*domain.Feedback, error) {
	toUserID = strings.TrimSpace(toUserID)
	fromUserName = strings.TrimSpace(fromUserName)
	content = strings.TrimSpace(content)

	if toUserID == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "missing recipient")
	}
	if content == "" || len(content) > maxContentLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "content must be 1-1000 characters")
	}
	if fromUserName == "" || len(fromUserName) > maxUserNameLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "fromUserName must be 1-80 characters")
	}

	fb, err := uc.feedbacks.Create(ctx, &domain.Feedback{
		ToUserID:     toUserID,
		FromUserID:   fromUserID,
		FromUserName: fromUserName,
		Content:      content,
	})
	if err != nil {
		return nil, err
	}
	fb.Comments = []domain.FeedbackComment{}
	return fb, nil
}

// ListForUsers returns feedbacks addressed to the given users within the
// range, newest first, with their comments attached oldest first.
func (uc *UseCase) ListForUsers(ctx context.Context, toUserIDs []string, start, end time.Time) ([]domain.Feedback, error) {
	if err := usecase.ValidateRange(start, end, maxRangeDays); err != nil {
		return nil, err
	}
	if len(toUserIDs) == 0 {
		return []domain.Feedback{}, nil
	}

	feedbacks, err := uc.feedbacks.ListForUsers(ctx, toUserIDs, start, end)
	if err != nil {
		return nil, err
	}
	if len(feedbacks) == 0 {
		return []domain.Feedback{}, nil
	}

	feedbackIDs := make([]string, 0, len(feedbacks))
	for _, fb := range feedbacks {
		feedbackIDs = append(feedbackIDs, fb.ID)
	}

	comments, err := uc.feedbacks.ListComments(ctx, feedbackIDs)
	if err != nil {
		return nil, err
	}

	byFeedback := make(map[string][]domain.FeedbackComment, len(feedbacks))
	for _, c := range comments {
		byFeedback[c.FeedbackID] = append(byFeedback[c.FeedbackID], c)
	}
	for i := range feedbacks {
		if attached, ok := byFeedback[feedbacks[i].ID]; ok {
			feedbacks[i].Comments = attached
		}
	}
	return feedbacks, nil
}

// AddComment appends a reply from the caller to an existing feedback item.
func (uc *UseCase) AddComment(ctx context.Context, fromUserID, feedbackID, fromUserName, content string) (*domain.FeedbackComment, error) {
	fromUserName = strings.TrimSpace(fromUserName)
	content = strings.TrimSpace(content)

	if feedbackID == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "missing feedback id")
	}
	if content == "" || len(content) > maxContentLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "content must be 1-1000 characters")
	}
	if fromUserName == "" || len(fromUserName) > maxUserNameLen {
		return nil, domain.NewError(domain.ErrCodeInvalid, "fromUserName must be 1-80 characters")
	}

	comment := &domain.FeedbackComment{
		FeedbackID:   feedbackID,
		FromUserID:   fromUserID,
		FromUserName: fromUserName,
		Content:      content,
	}
	if err := uc.feedbacks.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
