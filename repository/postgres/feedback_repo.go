package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/morning-sprint/backend/domain"
	"github.com/morning-sprint/backend/repository"
)

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository returns a Postgres-backed implementation of FeedbackRepository.
func NewFeedbackRepository(pool *pgxpool.Pool) repository.FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) (*domain.Feedback, error) {
	if feedback == nil {
		return nil, domain.ErrInvalidPayload
	}
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO morning_feedbacks (id, to_user_id, from_user_id, from_user_name, content)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		feedback.ID,
		feedback.ToUserID,
		feedback.FromUserID,
		feedback.FromUserName,
		feedback.Content,
	).Scan(&feedback.CreatedAt); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (r *feedbackRepository) ListForUsers(ctx context.Context, toUserIDs []string, start, end time.Time) ([]domain.Feedback, error) {
	if len(toUserIDs) == 0 {
		return nil, nil
	}

	const query = `
	SELECT id, to_user_id, from_user_id, from_user_name, content, created_at, legacy_id
	FROM morning_feedbacks
	WHERE to_user_id = ANY($1)
	  AND created_at >= $2 AND created_at <= $3
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, toUserIDs, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedbacks []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(&fb.ID, &fb.ToUserID, &fb.FromUserID, &fb.FromUserName, &fb.Content, &fb.CreatedAt, &fb.LegacyID); err != nil {
			return nil, err
		}
		fb.Comments = []domain.FeedbackComment{}
		feedbacks = append(feedbacks, fb)
	}
	return feedbacks, rows.Err()
}

func (r *feedbackRepository) ListComments(ctx context.Context, feedbackIDs []string) ([]domain.FeedbackComment, error) {
	if len(feedbackIDs) == 0 {
		return nil, nil
	}

	const query = `
	SELECT id, feedback_id, from_user_id, from_user_name, content, created_at, legacy_id
	FROM morning_feedback_comments
	WHERE feedback_id = ANY($1)
	ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, feedbackIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.FeedbackComment
	for rows.Next() {
		var c domain.FeedbackComment
		if err := rows.Scan(&c.ID, &c.FeedbackID, &c.FromUserID, &c.FromUserName, &c.Content, &c.CreatedAt, &c.LegacyID); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *feedbackRepository) AddComment(ctx context.Context, comment *domain.FeedbackComment) error {
	if comment == nil {
		return domain.ErrInvalidPayload
	}
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO morning_feedback_comments (id, feedback_id, from_user_id, from_user_name, content)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`
	return r.pool.QueryRow(ctx, query,
		comment.ID,
		comment.FeedbackID,
		comment.FromUserID,
		comment.FromUserName,
		comment.Content,
	).Scan(&comment.CreatedAt)
}

func (r *feedbackRepository) UpsertLegacy(ctx context.Context, feedbacks []domain.Feedback) (map[string]string, error) {
	const query = `
	INSERT INTO morning_feedbacks (id, to_user_id, from_user_id, from_user_name, content, created_at, legacy_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (legacy_id) DO UPDATE
	SET to_user_id = EXCLUDED.to_user_id,
		from_user_name = EXCLUDED.from_user_name,
		content = EXCLUDED.content
	RETURNING id
	`

	ids := make(map[string]string, len(feedbacks))
	for i := range feedbacks {
		fb := feedbacks[i]
		if fb.LegacyID == nil || *fb.LegacyID == "" {
			return nil, domain.ErrInvalidPayload
		}
		if fb.ID == "" {
			fb.ID = uuid.NewString()
		}

		var id string
		if err := r.pool.QueryRow(ctx, query,
			fb.ID,
			fb.ToUserID,
			fb.FromUserID,
			fb.FromUserName,
			fb.Content,
			fb.CreatedAt,
			*fb.LegacyID,
		).Scan(&id); err != nil {
			return nil, err
		}
		ids[*fb.LegacyID] = id
	}
	return ids, nil
}

func (r *feedbackRepository) UpsertLegacyComments(ctx context.Context, comments []domain.FeedbackComment) (int, error) {
	const query = `
	INSERT INTO morning_feedback_comments (id, feedback_id, from_user_id, from_user_name, content, created_at, legacy_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (legacy_id) DO UPDATE
	SET feedback_id = EXCLUDED.feedback_id,
		from_user_name = EXCLUDED.from_user_name,
		content = EXCLUDED.content
	`

	migrated := 0
	for i := range comments {
		c := comments[i]
		if c.LegacyID == nil || *c.LegacyID == "" {
			return migrated, domain.ErrInvalidPayload
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}

		if _, err := r.pool.Exec(ctx, query,
			c.ID,
			c.FeedbackID,
			c.FromUserID,
			c.FromUserName,
			c.Content,
			c.CreatedAt,
			*c.LegacyID,
		); err != nil {
			return migrated, err
		}
		migrated++
	}
	return migrated, nil
}
