package repository

import (
	"context"

	"github.com/morning-sprint/backend/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// List returns every known user. The leaderboard computes a row for each,
	// including users with no tasks at all.
	List(ctx context.Context) ([]domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
}
